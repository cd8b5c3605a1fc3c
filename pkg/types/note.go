// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package types

import (
	"strings"
	"time"
)

// NoteSource identifies where a note came from.
type NoteSource string

const (
	NoteSourceRecording NoteSource = "recording"
	NoteSourceWritten   NoteSource = "written_session_note"
	NoteSourceAdmin     NoteSource = "admin"
)

// Note is a persisted record in the note pool: a recording transcript, a
// written session note, or an admin note. Content and Transcript are
// pointers because the backend nulls both to soft-delete a note without
// removing the row.
type Note struct {
	ID         string     `json:"id" mapstructure:"id"`
	Source     NoteSource `json:"source" mapstructure:"source"`
	Content    *string    `json:"content" mapstructure:"content"`
	Transcript *string    `json:"transcript" mapstructure:"transcript"`
	// Assessment is the remote-structured clinical note, stored alongside
	// and never overwriting the raw transcript.
	Assessment *string `json:"assessment,omitempty" mapstructure:"assessment"`
	AudioRef   *string `json:"audioUrl,omitempty" mapstructure:"audiourl"`
	ClientID   string  `json:"clientId,omitempty" mapstructure:"clientid"`
	ClientName string  `json:"clientName,omitempty" mapstructure:"clientname"`
	SessionID  string  `json:"sessionId,omitempty" mapstructure:"sessionid"`
	// SessionDate is the session-grouping date a recording was written with,
	// when the writer populated one. Membership matching prefers it over
	// CreatedAt for recordings.
	SessionDate *time.Time `json:"sessionDate,omitempty" mapstructure:"sessiondate"`
	CreatedAt   time.Time  `json:"createdAt" mapstructure:"createdat"`
	Duration    float64    `json:"duration,omitempty" mapstructure:"duration"`
}

// Displayable reports whether the note carries any text a user can see.
// Audio alone is not enough; a note with neither content nor transcript is
// soft-deleted and never rendered.
func (n Note) Displayable() bool {
	return text(n.Content) != "" || text(n.Transcript) != ""
}

// Body returns the note's text, preferring content over transcript.
func (n Note) Body() string {
	if c := text(n.Content); c != "" {
		return c
	}
	return text(n.Transcript)
}

// GroupingTime is the timestamp membership matching uses for this note:
// the explicit session-grouping date when present, otherwise the raw
// creation time.
func (n Note) GroupingTime() time.Time {
	if n.SessionDate != nil && !n.SessionDate.IsZero() {
		return *n.SessionDate
	}
	return n.CreatedAt
}

func text(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
