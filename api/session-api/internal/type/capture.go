// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package internal_type

import (
	"context"
	"time"
)

// CaptureDevice is the audio source contract. The engine never talks to
// hardware directly; implementations range from a streaming ingest endpoint
// to in-test fakes.
type CaptureDevice interface {
	// Acquire claims the device and registers the periodic data-chunk
	// callback. Errors are categorized (permission denied, no device,
	// device busy, unsupported environment) by the implementation.
	Acquire(ctx context.Context, onChunk func([]byte)) error
	// Stop flushes any final chunk through the registered callback and
	// releases the device.
	Stop() error
}

// Recorder accumulates raw audio for one recording attempt and assembles it
// into a single playable blob at finalize time.
type Recorder interface {
	// Start resets the recorder and begins a new timeline.
	Start()
	Record(ctx context.Context, chunk []byte) error
	// Finalize assembles everything recorded since Start into one WAV blob
	// and reports the captured duration.
	Finalize() ([]byte, time.Duration, error)
}
