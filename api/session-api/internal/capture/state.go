// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package internal_capture

import "time"

// State is the recording lifecycle position. Transitions:
//
//	Idle → RequestingPermission → Recording → Stopping → Finalizing →
//	Processing → Complete
//
// Any step may transition to Error. Complete and Error both end the
// attempt; a new Start is allowed from either.
type State string

const (
	StateIdle                 State = "idle"
	StateRequestingPermission State = "requesting_permission"
	StateRecording            State = "recording"
	StateStopping             State = "stopping"
	StateFinalizing           State = "finalizing"
	StateProcessing           State = "processing"
	StateComplete             State = "complete"
	StateError                State = "error"
)

// Target identifies the session a capture is being recorded for. Start is
// rejected before any device access when the target is incomplete.
type Target struct {
	SessionID     string
	SessionDate   time.Time
	ClientID      string
	ClientName    string
	TherapistName string
}

func (t Target) complete() bool {
	return t.SessionID != "" && (t.ClientID != "" || t.ClientName != "")
}
