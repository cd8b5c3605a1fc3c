// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package internal_capture

import (
	"context"
	"sync"

	"github.com/delloop-lab/mypracticehelper-sub000/pkg/commons"
)

// Device error categories. Distinct user-facing messages; none is ever
// auto-retried.
var (
	ErrPermissionDenied = commons.NewPermissionError("microphone access was denied", nil)
	ErrNoDevice         = commons.NewPermissionError("no recording device is available", nil)
	ErrDeviceBusy       = commons.NewPermissionError("the recording device is already in use", nil)
	ErrUnsupported      = commons.NewPermissionError("recording is not supported in this environment", nil)
)

// StreamDevice is a CaptureDevice fed by the caller, typically the audio
// ingest route: the client grants microphone access on its side and streams
// the chunks to us. At most one capture owns the device at a time.
type StreamDevice struct {
	logger  commons.Logger
	mu      sync.Mutex
	onChunk func([]byte)
	inUse   bool
}

func NewStreamDevice(logger commons.Logger) *StreamDevice {
	return &StreamDevice{logger: logger}
}

func (d *StreamDevice) Acquire(_ context.Context, onChunk func([]byte)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.inUse {
		return ErrDeviceBusy
	}
	if onChunk == nil {
		return ErrUnsupported
	}
	d.onChunk = onChunk
	d.inUse = true
	return nil
}

// Ingest routes a streamed chunk to the registered callback. Chunks arriving
// while no capture owns the device are dropped.
func (d *StreamDevice) Ingest(data []byte) {
	d.mu.Lock()
	cb := d.onChunk
	d.mu.Unlock()
	if cb == nil {
		d.logger.Debugf("device: dropping %d bytes, no active capture", len(data))
		return
	}
	cb(data)
}

func (d *StreamDevice) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onChunk = nil
	d.inUse = false
	return nil
}
