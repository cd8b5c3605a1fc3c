// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package internal_pool

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mitchellh/mapstructure"

	"github.com/delloop-lab/mypracticehelper-sub000/pkg/commons"
	"github.com/delloop-lab/mypracticehelper-sub000/pkg/types"
)

// BackendClient reads the note, session and client pools from the backend
// and writes relationship confirmations. Every list call is bounded by the
// configured timeout so a hung backend cannot stall the UI; a timeout is
// its own error category, distinct from an HTTP error status.
type BackendClient struct {
	logger  commons.Logger
	http    *resty.Client
	host    string
	timeout time.Duration
}

func NewBackendClient(logger commons.Logger, client *resty.Client, host string, timeout time.Duration) *BackendClient {
	return &BackendClient{
		logger:  logger,
		http:    client,
		host:    host,
		timeout: timeout,
	}
}

// Notes fetches the full heterogeneous note pool.
func (b *BackendClient) Notes(ctx context.Context) ([]types.Note, error) {
	raw, err := b.list(ctx, "/api/notes")
	if err != nil {
		return nil, err
	}
	return decodeRecords[types.Note](b.logger, raw)
}

// Sessions fetches the appointment calendar.
func (b *BackendClient) Sessions(ctx context.Context) ([]types.Session, error) {
	raw, err := b.list(ctx, "/api/sessions")
	if err != nil {
		return nil, err
	}
	return decodeRecords[types.Session](b.logger, raw)
}

// Clients fetches the client record pool.
func (b *BackendClient) Clients(ctx context.Context) ([]types.Client, error) {
	raw, err := b.list(ctx, "/api/clients")
	if err != nil {
		return nil, err
	}
	return decodeRecords[types.Client](b.logger, raw)
}

// Client fetches one client record by id.
func (b *BackendClient) Client(ctx context.Context, id string) (*types.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	var raw map[string]interface{}
	resp, err := b.http.R().
		SetContext(ctx).
		SetResult(&raw).
		Get(b.host + "/api/clients/" + id)
	if err != nil {
		return nil, classify(err)
	}
	if resp.IsError() {
		return nil, commons.NewTransportError("the backend rejected the request",
			fmt.Errorf("status %d", resp.StatusCode()))
	}
	records, err := decodeRecords[types.Client](b.logger, []map[string]interface{}{raw})
	if err != nil || len(records) == 0 {
		return nil, commons.NewTransportError("could not read the client record", err)
	}
	return &records[0], nil
}

// AppendRelationship adds one relationship edge to a client record.
func (b *BackendClient) AppendRelationship(ctx context.Context, clientID string, rel types.Relationship) error {
	resp, err := b.http.R().
		SetContext(ctx).
		SetBody(rel).
		Post(b.host + "/api/clients/" + clientID + "/relationships")
	if err != nil {
		return classify(err)
	}
	if resp.IsError() {
		return commons.NewTransportError("saving the relationship failed",
			fmt.Errorf("status %d", resp.StatusCode()))
	}
	return nil
}

func (b *BackendClient) list(ctx context.Context, path string) ([]map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	var raw []map[string]interface{}
	resp, err := b.http.R().
		SetContext(ctx).
		SetResult(&raw).
		Get(b.host + path)
	if err != nil {
		return nil, classify(err)
	}
	if resp.IsError() {
		return nil, commons.NewTransportError("the backend rejected the request",
			fmt.Errorf("%s: status %d", path, resp.StatusCode()))
	}
	return raw, nil
}

func classify(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return commons.NewTimeoutError("the backend did not answer in time", err)
	}
	return commons.NewTransportError("the backend is unreachable", err)
}

// decodeRecords maps loosely-typed backend records into T. Key names are
// normalized (lowercased, underscores stripped) first, so both `sessionId`
// and `session_id` land in the same field. A record that fails to decode is
// skipped, not fatal; the pool is heterogeneous by nature.
func decodeRecords[T any](logger commons.Logger, raw []map[string]interface{}) ([]T, error) {
	out := make([]T, 0, len(raw))
	for _, rec := range raw {
		var item T
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
			WeaklyTypedInput: true,
			Result:           &item,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(normalizeKeys(rec)); err != nil {
			logger.Warnf("pool: skipping undecodable record: %v", err)
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func normalizeKeys(rec map[string]interface{}) map[string]interface{} {
	norm := make(map[string]interface{}, len(rec))
	for k, v := range rec {
		norm[strings.ReplaceAll(strings.ToLower(k), "_", "")] = normalizeValue(v)
	}
	return norm
}

func normalizeValue(v interface{}) interface{} {
	switch vv := v.(type) {
	case map[string]interface{}:
		return normalizeKeys(vv)
	case []interface{}:
		out := make([]interface{}, len(vv))
		for i, item := range vv {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
