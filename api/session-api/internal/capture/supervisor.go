// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package internal_capture

import (
	"context"
	"strings"
	"sync"

	internal_type "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/type"
	"github.com/delloop-lab/mypracticehelper-sub000/pkg/commons"
)

// Supervisor wraps a restart-prone live recognizer. The engine stops itself
// after short silence even mid-recording; the supervisor's contract is to
// restart it immediately on an unexpected "ended" event for as long as the
// controller is recording and stop has not been requested.
//
// Only finalized segments accumulate into the transcript of record. Interim
// segments go to the display callback and are discarded at finalize time.
// One stopped flag, consulted in every callback, enforces that a result
// arriving after stop is requested can never reach the transcript.
type Supervisor struct {
	logger     commons.Logger
	recognizer internal_type.Recognizer
	// onInterim receives display-only partial text. May be nil.
	onInterim func(text string)

	mu       sync.Mutex
	stopped  bool
	running  bool
	restarts int
	segments []string
	lastErr  error
}

func NewSupervisor(logger commons.Logger, recognizer internal_type.Recognizer, onInterim func(string)) *Supervisor {
	return &Supervisor{
		logger:     logger,
		recognizer: recognizer,
		onInterim:  onInterim,
	}
}

// Start resets accumulated state and starts the recognizer.
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	s.stopped = false
	s.running = true
	s.restarts = 0
	s.segments = nil
	s.lastErr = nil
	s.mu.Unlock()
	return s.recognizer.Start(ctx, s.callbacks(ctx))
}

func (s *Supervisor) callbacks(ctx context.Context) internal_type.RecognizerCallbacks {
	return internal_type.RecognizerCallbacks{
		OnResult: func(text string, isFinal bool) {
			s.mu.Lock()
			if s.stopped {
				s.mu.Unlock()
				s.logger.Debugf("supervisor: discarding late result after stop: %q", text)
				return
			}
			if isFinal {
				if trimmed := strings.TrimSpace(text); trimmed != "" {
					s.segments = append(s.segments, trimmed)
				}
				s.mu.Unlock()
				return
			}
			interim := s.onInterim
			s.mu.Unlock()
			if interim != nil {
				interim(text)
			}
		},
		OnEnded: func() {
			s.mu.Lock()
			if s.stopped || !s.running {
				s.mu.Unlock()
				return
			}
			s.restarts++
			n := s.restarts
			s.mu.Unlock()
			s.logger.Infof("supervisor: recognizer ended while recording, restarting (restart %d)", n)
			if err := s.recognizer.Start(ctx, s.callbacks(ctx)); err != nil {
				s.logger.Errorf("supervisor: recognizer restart failed: %v", err)
				s.mu.Lock()
				s.lastErr = err
				s.running = false
				s.mu.Unlock()
			}
		},
		OnError: func(err error) {
			s.logger.Warnf("supervisor: recognizer error: %v", err)
			s.mu.Lock()
			s.lastErr = err
			s.mu.Unlock()
		},
	}
}

// Feed streams captured audio into the recognizer. Audio arriving after stop
// is dropped.
func (s *Supervisor) Feed(ctx context.Context, audio []byte) {
	s.mu.Lock()
	suppressed := s.stopped || !s.running
	s.mu.Unlock()
	if suppressed {
		return
	}
	if err := s.recognizer.Feed(ctx, audio); err != nil {
		s.logger.Debugf("supervisor: feed failed: %v", err)
	}
}

// MarkStopped raises the stopped flag without touching the recognizer. The
// controller calls this first thing on stop so the flag is visible before
// the device or recognizer wind down.
func (s *Supervisor) MarkStopped() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
}

// Stop raises the stopped flag and shuts the recognizer down.
func (s *Supervisor) Stop() error {
	s.mu.Lock()
	s.stopped = true
	s.running = false
	s.mu.Unlock()
	return s.recognizer.Stop()
}

// Transcript joins the finalized segments accumulated during this attempt.
func (s *Supervisor) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.segments, " ")
}

// Restarts reports how many times the recognizer was resurrected during the
// current attempt.
func (s *Supervisor) Restarts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restarts
}
