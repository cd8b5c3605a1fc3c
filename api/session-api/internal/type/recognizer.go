// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package internal_type

import "context"

// RecognizerCallbacks receive live recognition events. All callbacks fire on
// the recognizer's read loop; receivers must be safe to call after Stop has
// been requested (the supervisor discards late events itself).
type RecognizerCallbacks struct {
	// OnResult delivers a recognition segment. Final segments are the
	// transcript of record; interim segments are display-only.
	OnResult func(text string, isFinal bool)
	// OnEnded fires when the recognizer terminates on its own, distinct
	// from an explicit Stop. The engine's reliability guarantee hangs on
	// restarting after this event while still recording.
	OnEnded func()
	OnError func(err error)
}

// Recognizer is the live speech recognition contract: a restart-prone engine
// that consumes audio and emits interim/final segments.
type Recognizer interface {
	Start(ctx context.Context, callbacks RecognizerCallbacks) error
	// Feed streams captured audio into the recognizer. Safe to call only
	// between Start and Stop; implementations drop audio otherwise.
	Feed(ctx context.Context, audio []byte) error
	Stop() error
}
