// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package internal_reciprocal

import "strings"

// reciprocalTypes maps a relationship type to the type suggested for the
// reverse edge. An unmapped type reciprocates to itself: if A lists B as
// their "Colleague", B is suggested as A's "Colleague" too.
var reciprocalTypes = map[string]string{
	"father":        "Son",
	"son":           "Father",
	"mother":        "Daughter",
	"daughter":      "Mother",
	"husband":       "Wife",
	"wife":          "Husband",
	"brother":       "Brother",
	"sister":        "Sister",
	"partner":       "Partner",
	"friend":        "Friend",
	"grandfather":   "Grandson",
	"grandson":      "Grandfather",
	"grandmother":   "Granddaughter",
	"granddaughter": "Grandmother",
}

// ReciprocalType returns the suggested type for the reverse edge of a
// relationship of the given type.
func ReciprocalType(relType string) string {
	if mapped, ok := reciprocalTypes[strings.ToLower(strings.TrimSpace(relType))]; ok {
		return mapped
	}
	return relType
}
