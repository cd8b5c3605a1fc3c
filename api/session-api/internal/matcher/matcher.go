// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.

// Package internal_matcher resolves which notes belong to a calendar session
// and removes duplicate representations of the same event. The note pool it
// receives is treated as an immutable snapshot; nothing here mutates input.
package internal_matcher

import (
	"strings"
	"time"

	"github.com/delloop-lab/mypracticehelper-sub000/pkg/types"
)

// SessionRef is the membership key of one session: id, client identity and
// calendar day.
type SessionRef struct {
	ID         string
	ClientID   string
	ClientName string
	Day        time.Time
}

func RefOf(s types.Session) SessionRef {
	return SessionRef{
		ID:         s.ID,
		ClientID:   s.ClientID,
		ClientName: s.ClientName,
		Day:        s.Date,
	}
}

// MatchNotes returns the notes belonging to the session: a strict pass in
// priority order, then a permissive re-scan of the whole pool for recording
// notes the strict pass missed. The two passes stay separate functions so
// the tie-break policy is testable on its own.
func MatchNotes(pool []types.Note, ref SessionRef) []types.Note {
	matched := strictPass(pool, ref)
	return permissiveRescan(pool, ref, matched)
}

// strictPass evaluates the membership rules per note, in priority order:
//
//  1. Explicit session-id match includes unconditionally; an explicit id
//     naming a different session excludes unconditionally.
//  2. Non-recording notes: client-id equality and same calendar day, falling
//     back to case-insensitive client-name equality and same day.
//  3. Recording notes: client id-or-name plus day, using the note's
//     session-grouping date when present, else its creation timestamp.
//  4. A recording matching none of the above is excluded; recordings never
//     default into a session.
func strictPass(pool []types.Note, ref SessionRef) []types.Note {
	var matched []types.Note
	for _, n := range pool {
		if n.SessionID != "" {
			if n.SessionID == ref.ID {
				matched = append(matched, n)
			}
			continue
		}
		if n.Source != types.NoteSourceRecording {
			if clientIDMatch(n, ref) && sameDay(n.CreatedAt, ref.Day) {
				matched = append(matched, n)
				continue
			}
			if clientNameMatch(n, ref) && sameDay(n.CreatedAt, ref.Day) {
				matched = append(matched, n)
			}
			continue
		}
		if clientMatch(n, ref) && sameDay(n.GroupingTime(), ref.Day) {
			matched = append(matched, n)
		}
	}
	return matched
}

// permissiveRescan walks the entire pool again for recording notes matching
// client and day that the strict pass missed, accepting either the grouping
// date or the raw creation timestamp. This is an accepted lossy-matching
// heuristic covering metadata inconsistencies at write time, not a rule to
// tighten.
func permissiveRescan(pool []types.Note, ref SessionRef, matched []types.Note) []types.Note {
	included := make(map[string]bool, len(matched))
	for _, n := range matched {
		included[inclusionKey(n)] = true
	}
	out := matched
	for _, n := range pool {
		if n.Source != types.NoteSourceRecording || included[inclusionKey(n)] {
			continue
		}
		if n.SessionID != "" && n.SessionID != ref.ID {
			continue
		}
		if !clientMatch(n, ref) {
			continue
		}
		if sameDay(n.GroupingTime(), ref.Day) || sameDay(n.CreatedAt, ref.Day) {
			out = append(out, n)
			included[inclusionKey(n)] = true
		}
	}
	return out
}

// inclusionKey identifies a note within one matching pass. Pool records can
// arrive without ids; those fall back to the dedup fingerprint so two
// distinct id-less notes never conflate.
func inclusionKey(n types.Note) string {
	if n.ID != "" {
		return "id|" + n.ID
	}
	return "fp|" + Fingerprint(n)
}

// DisplayFilter drops notes with neither content nor transcript. Audio alone
// is not displayable; this is the soft-delete rule.
func DisplayFilter(notes []types.Note) []types.Note {
	out := make([]types.Note, 0, len(notes))
	for _, n := range notes {
		if n.Displayable() {
			out = append(out, n)
		}
	}
	return out
}

func clientMatch(n types.Note, ref SessionRef) bool {
	return clientIDMatch(n, ref) || clientNameMatch(n, ref)
}

func clientIDMatch(n types.Note, ref SessionRef) bool {
	return n.ClientID != "" && ref.ClientID != "" && n.ClientID == ref.ClientID
}

func clientNameMatch(n types.Note, ref SessionRef) bool {
	return n.ClientName != "" && ref.ClientName != "" && strings.EqualFold(n.ClientName, ref.ClientName)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
