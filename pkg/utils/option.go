// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package utils

import (
	"fmt"
	"time"
)

// Option is a loosely-typed bag of per-call configuration, looked up by
// dotted key.
type Option map[string]interface{}

func (o Option) GetString(key string) (string, error) {
	raw, ok := o[key]
	if !ok {
		return "", fmt.Errorf("option %q not present", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("option %q is not a string", key)
	}
	return s, nil
}

func (o Option) GetInt(key string) (int, error) {
	raw, ok := o[key]
	if !ok {
		return 0, fmt.Errorf("option %q not present", key)
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	}
	return 0, fmt.Errorf("option %q is not numeric", key)
}

func (o Option) GetBool(key string) (bool, error) {
	raw, ok := o[key]
	if !ok {
		return false, fmt.Errorf("option %q not present", key)
	}
	b, ok := raw.(bool)
	if !ok {
		return false, fmt.Errorf("option %q is not a bool", key)
	}
	return b, nil
}

func (o Option) GetDuration(key string) (time.Duration, error) {
	ms, err := o.GetInt(key)
	if err != nil {
		return 0, err
	}
	return time.Duration(ms) * time.Millisecond, nil
}
