// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package internal_matcher

import (
	"strings"
	"time"

	"github.com/delloop-lab/mypracticehelper-sub000/pkg/types"
)

// fingerprintPrefixLen bounds how much note text goes into the fingerprint.
const fingerprintPrefixLen = 200

// Fingerprint derives the duplicate-detection key for a note.
//
// Recordings include their id: two distinct short recordings can carry
// near-identical transcripts, and the id keeps them apart. Non-recording
// notes have no stable cross-source id and rely on content plus time.
func Fingerprint(n types.Note) string {
	prefix := textPrefix(n)
	minute := n.CreatedAt.UTC().Truncate(time.Minute).Format(time.RFC3339)
	if n.Source == types.NoteSourceRecording {
		return strings.Join([]string{string(n.Source), n.ID, prefix, minute}, "|")
	}
	return prefix + "|" + minute
}

// Dedupe drops notes whose fingerprint was already seen. First occurrence in
// pool order wins. Applying Dedupe to its own output is a fixed point.
func Dedupe(notes []types.Note) []types.Note {
	seen := make(map[string]bool, len(notes))
	out := make([]types.Note, 0, len(notes))
	for _, n := range notes {
		fp := Fingerprint(n)
		if seen[fp] {
			continue
		}
		seen[fp] = true
		out = append(out, n)
	}
	return out
}

// textPrefix is the first 200 chars of content, falling back to transcript
// when content is null.
func textPrefix(n types.Note) string {
	var text string
	if n.Content != nil {
		text = *n.Content
	} else if n.Transcript != nil {
		text = *n.Transcript
	}
	runes := []rune(text)
	if len(runes) > fingerprintPrefixLen {
		runes = runes[:fingerprintPrefixLen]
	}
	return string(runes)
}
