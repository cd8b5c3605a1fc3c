package internal_matcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/delloop-lab/mypracticehelper-sub000/pkg/types"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

var (
	day      = time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	otherDay = time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
)

func sessionRef() SessionRef {
	return SessionRef{
		ID:         "sess-1",
		ClientID:   "client-1",
		ClientName: "Alice Carter",
		Day:        day,
	}
}

func recording(id string, opts ...func(*types.Note)) types.Note {
	n := types.Note{
		ID:         id,
		Source:     types.NoteSourceRecording,
		Transcript: strPtr("transcript of " + id),
		ClientID:   "client-1",
		ClientName: "Alice Carter",
		CreatedAt:  day,
	}
	for _, o := range opts {
		o(&n)
	}
	return n
}

func written(id string, opts ...func(*types.Note)) types.Note {
	n := types.Note{
		ID:         id,
		Source:     types.NoteSourceWritten,
		Content:    strPtr("content of " + id),
		ClientID:   "client-1",
		ClientName: "Alice Carter",
		CreatedAt:  day,
	}
	for _, o := range opts {
		o(&n)
	}
	return n
}

// --- Membership: explicit session id ---

func TestMatchNotes_ExplicitSessionIDIncludesUnconditionally(t *testing.T) {
	// Different client and day; the explicit link wins anyway.
	n := recording("r1", func(n *types.Note) {
		n.SessionID = "sess-1"
		n.ClientID = "someone-else"
		n.ClientName = "Someone Else"
		n.CreatedAt = otherDay
	})
	matched := MatchNotes([]types.Note{n}, sessionRef())
	assert.Len(t, matched, 1)
	assert.Equal(t, "r1", matched[0].ID)
}

func TestMatchNotes_DifferentExplicitSessionIDNeverIncluded(t *testing.T) {
	// Client and day match, but the note names another session.
	pool := []types.Note{
		recording("r1", func(n *types.Note) { n.SessionID = "sess-OTHER" }),
		written("w1", func(n *types.Note) { n.SessionID = "sess-OTHER" }),
	}
	matched := MatchNotes(pool, sessionRef())
	assert.Empty(t, matched)
}

// --- Membership: non-recording notes ---

func TestMatchNotes_WrittenNoteByClientIDAndDay(t *testing.T) {
	matched := MatchNotes([]types.Note{written("w1")}, sessionRef())
	assert.Len(t, matched, 1)
}

func TestMatchNotes_WrittenNoteFallsBackToClientName(t *testing.T) {
	n := written("w1", func(n *types.Note) {
		n.ClientID = ""
		n.ClientName = "ALICE CARTER" // case-insensitive
	})
	matched := MatchNotes([]types.Note{n}, sessionRef())
	assert.Len(t, matched, 1)
}

func TestMatchNotes_WrittenNoteWrongDayExcluded(t *testing.T) {
	n := written("w1", func(n *types.Note) { n.CreatedAt = otherDay })
	matched := MatchNotes([]types.Note{n}, sessionRef())
	assert.Empty(t, matched)
}

// --- Membership: recording notes ---

func TestMatchNotes_RecordingUsesSessionDateOverCreatedAt(t *testing.T) {
	// Written days later, but grouped to the session day at write time.
	n := recording("r1", func(n *types.Note) {
		n.CreatedAt = otherDay
		n.SessionDate = timePtr(day.Add(2 * time.Hour))
	})
	matched := MatchNotes([]types.Note{n}, sessionRef())
	assert.Len(t, matched, 1)
}

func TestMatchNotes_RecordingNeverDefaultsIn(t *testing.T) {
	n := recording("r1", func(n *types.Note) {
		n.ClientID = "client-2"
		n.ClientName = "Bob"
	})
	matched := MatchNotes([]types.Note{n}, sessionRef())
	assert.Empty(t, matched)
}

func TestMatchNotes_PermissiveRescanCatchesCreatedAtOnlyMatch(t *testing.T) {
	// SessionDate points at the wrong day (inconsistent metadata at write
	// time) but the raw creation timestamp lands on the session day. The
	// strict pass misses it; the permissive re-scan appends it.
	n := recording("r1", func(n *types.Note) {
		n.CreatedAt = day
		n.SessionDate = timePtr(otherDay)
	})
	matched := MatchNotes([]types.Note{n}, sessionRef())
	assert.Len(t, matched, 1)
}

func TestMatchNotes_RescanKeepsDistinctNotesWithoutIDs(t *testing.T) {
	// Pool records can arrive id-less. One matches strictly by its
	// grouping date, the other only via the re-scan's created-at check;
	// the second must not be mistaken for the first.
	strict := recording("", func(n *types.Note) {
		n.Transcript = strPtr("first visit")
	})
	rescanOnly := recording("", func(n *types.Note) {
		n.Transcript = strPtr("second visit")
		n.SessionDate = timePtr(otherDay)
		n.CreatedAt = day
	})
	matched := MatchNotes([]types.Note{strict, rescanOnly}, sessionRef())
	assert.Len(t, matched, 2)
}

func TestMatchNotes_PermissiveRescanDoesNotDuplicate(t *testing.T) {
	pool := []types.Note{recording("r1"), written("w1")}
	matched := MatchNotes(pool, sessionRef())
	assert.Len(t, matched, 2)
}

// --- Membership soundness: everything returned satisfies the predicate ---

func TestMatchNotes_Soundness(t *testing.T) {
	ref := sessionRef()
	pool := []types.Note{
		recording("r1"),
		recording("r2", func(n *types.Note) { n.SessionID = "sess-OTHER" }),
		recording("r3", func(n *types.Note) { n.CreatedAt = otherDay }),
		written("w1"),
		written("w2", func(n *types.Note) { n.ClientID = "x"; n.ClientName = "Bob" }),
	}
	for _, n := range MatchNotes(pool, ref) {
		assert.NotEqual(t, "sess-OTHER", n.SessionID)
		if n.SessionID == "" {
			sameClient := n.ClientID == ref.ClientID || n.ClientName == ref.ClientName
			assert.True(t, sameClient, "note %s matched without client identity", n.ID)
		}
	}
}

// --- Display filter / soft delete ---

func TestDisplayFilter_SoftDeletedExcludedDespiteAudio(t *testing.T) {
	audio := "https://store/audio.wav"
	pool := []types.Note{
		{ID: "gone", Source: types.NoteSourceRecording, AudioRef: &audio, CreatedAt: day},
		{ID: "kept", Source: types.NoteSourceRecording, Transcript: strPtr("hello"), CreatedAt: day},
	}
	visible := DisplayFilter(pool)
	assert.Len(t, visible, 1)
	assert.Equal(t, "kept", visible[0].ID)
}

func TestDisplayFilter_EmptyStringsNotDisplayable(t *testing.T) {
	n := types.Note{ID: "n1", Content: strPtr("  "), Transcript: strPtr("")}
	assert.Empty(t, DisplayFilter([]types.Note{n}))
}
