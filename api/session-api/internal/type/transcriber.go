// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package internal_type

import (
	"context"
	"time"
)

// Transcriber is a remote speech-to-text backend for recorded audio: the
// mandatory fallback for live captures and the first step for uploads.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, fileName string) (string, error)
}

// StructureRequest carries a finished transcript to the structuring service.
type StructureRequest struct {
	Transcript    string
	ClientName    string
	TherapistName string
	SessionDate   time.Time
	// Duration of the recording in seconds.
	Duration float64
}

// Structurer turns a raw transcript into a clinical-assessment layout. The
// result is stored alongside the transcript, never in place of it.
type Structurer interface {
	Structure(ctx context.Context, req StructureRequest) (string, error)
}
