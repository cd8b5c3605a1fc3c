// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package internal_matcher

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	internal_pool "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/pool"
	"github.com/delloop-lab/mypracticehelper-sub000/pkg/commons"
	"github.com/delloop-lab/mypracticehelper-sub000/pkg/types"
)

// Counts breaks down a session's displayable notes by source.
type Counts struct {
	Recordings int `json:"recordings"`
	Written    int `json:"written"`
	Admin      int `json:"admin"`
}

// Service answers note queries against fresh pool snapshots.
type Service struct {
	logger  commons.Logger
	backend *internal_pool.BackendClient
}

func NewService(logger commons.Logger, backend *internal_pool.BackendClient) *Service {
	return &Service{logger: logger, backend: backend}
}

// NotesForSession resolves the session's note set: matched, deduplicated,
// display-filtered.
func (s *Service) NotesForSession(ctx context.Context, sessionID string) ([]types.Note, error) {
	notes, sessions, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for _, sess := range sessions {
		if sess.ID == sessionID {
			return DisplayFilter(Dedupe(MatchNotes(notes, RefOf(sess)))), nil
		}
	}
	return nil, commons.NewStateError("unknown session " + sessionID)
}

// NoteCounts reports, per session of the named client, how many displayable
// recordings, written notes and admin notes it resolved to.
func (s *Service) NoteCounts(ctx context.Context, clientName string) (map[string]Counts, error) {
	notes, sessions, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Counts)
	for _, sess := range sessions {
		if !strings.EqualFold(sess.ClientName, clientName) {
			continue
		}
		counts := Counts{}
		for _, n := range DisplayFilter(Dedupe(MatchNotes(notes, RefOf(sess)))) {
			switch n.Source {
			case types.NoteSourceRecording:
				counts.Recordings++
			case types.NoteSourceAdmin:
				counts.Admin++
			default:
				counts.Written++
			}
		}
		out[sess.ID] = counts
	}
	return out, nil
}

// snapshot fetches the note and session pools concurrently. Each fetch
// carries its own bounded timeout inside the backend client.
func (s *Service) snapshot(ctx context.Context) ([]types.Note, []types.Session, error) {
	var (
		notes    []types.Note
		sessions []types.Session
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		notes, err = s.backend.Notes(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sessions, err = s.backend.Sessions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return notes, sessions, nil
}
