// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package internal_capture

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	internal_persistence "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/persistence"
	internal_type "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/type"
	"github.com/delloop-lab/mypracticehelper-sub000/pkg/commons"
	"github.com/delloop-lab/mypracticehelper-sub000/pkg/types"
)

// PlaceholderTranscript is persisted when a live recording yields no text
// from either the recognizer or the remote fallback. Captured audio is never
// discarded for want of a transcript.
const PlaceholderTranscript = "Recording captured. Transcript unavailable."

// Controller owns one recording attempt at a time: the device, the audio
// buffer, the transcription supervisor and the lifecycle state machine. All
// transcript accumulation lives here for exactly the lifetime of one
// attempt and is reset on every Start.
type Controller struct {
	logger     commons.Logger
	device     internal_type.CaptureDevice
	recorder   internal_type.Recorder
	supervisor *Supervisor
	fallback   internal_type.Transcriber
	submitter  *internal_persistence.Submitter
	grace      time.Duration

	mu        sync.Mutex
	state     State
	target    Target
	interim   string
	startedAt time.Time
	// runCancel ends the attempt-scoped context the supervisor and
	// recognizer run under. The caller's Start context is request-scoped
	// and dies when the start call returns; recognition must not.
	runCancel context.CancelFunc
}

func NewController(
	logger commons.Logger,
	device internal_type.CaptureDevice,
	recognizer internal_type.Recognizer,
	fallback internal_type.Transcriber,
	submitter *internal_persistence.Submitter,
	grace time.Duration,
) *Controller {
	c := &Controller{
		logger:    logger,
		device:    device,
		recorder:  NewBufferRecorder(logger),
		fallback:  fallback,
		submitter: submitter,
		grace:     grace,
		state:     StateIdle,
	}
	c.supervisor = NewSupervisor(logger, recognizer, c.setInterim)
	return c
}

// Start begins a capture for the given target. The target must name a
// session and a client; that is checked before any device access is
// attempted. Audio capture and live recognition run concurrently until stop.
func (c *Controller) Start(ctx context.Context, target Target) error {
	c.mu.Lock()
	switch c.state {
	case StateIdle, StateComplete, StateError:
	default:
		c.mu.Unlock()
		return commons.NewStateError("a recording is already in progress")
	}
	if !target.complete() {
		c.mu.Unlock()
		return commons.NewStateError("select a session and client before recording")
	}
	c.state = StateRequestingPermission
	c.target = target
	c.interim = ""
	if c.runCancel != nil {
		c.runCancel()
	}
	runCtx, cancel := context.WithCancel(context.Background())
	c.runCancel = cancel
	c.mu.Unlock()

	c.recorder.Start()

	if err := c.device.Acquire(ctx, c.onChunk); err != nil {
		c.setState(StateError)
		return err
	}

	c.mu.Lock()
	c.state = StateRecording
	c.startedAt = time.Now()
	c.mu.Unlock()

	if err := c.supervisor.Start(runCtx); err != nil {
		// Recording proceeds without live recognition; the remote fallback
		// covers the transcript at finalize time.
		c.logger.Warnf("capture: live recognizer unavailable, relying on fallback: %v", err)
	}
	return nil
}

// onChunk receives each device chunk and fans it out to the audio buffer
// and the recognizer.
func (c *Controller) onChunk(data []byte) {
	if err := c.recorder.Record(context.Background(), data); err != nil {
		c.logger.Debugf("capture: dropping chunk: %v", err)
		return
	}
	c.supervisor.Feed(context.Background(), data)
}

// Stop ends the recording and drives the attempt through Finalizing and
// Processing to Complete. The stopped flag is raised before anything else so
// no recognition callback can touch the transcript from here on; the grace
// delay then lets the device flush trailing audio into the buffer.
func (c *Controller) Stop(ctx context.Context) (*types.Note, error) {
	c.mu.Lock()
	if c.state != StateRecording {
		c.mu.Unlock()
		return nil, commons.NewStateError("no active recording to stop")
	}
	c.state = StateStopping
	target := c.target
	startedAt := c.startedAt
	c.mu.Unlock()

	c.supervisor.MarkStopped()
	if err := c.device.Stop(); err != nil {
		c.logger.Warnf("capture: device stop: %v", err)
	}
	if err := c.supervisor.Stop(); err != nil {
		c.logger.Warnf("capture: recognizer stop: %v", err)
	}
	c.cancelRun()

	select {
	case <-ctx.Done():
		c.setState(StateError)
		return nil, commons.NewStateError("stop was cancelled before the recording could be finalized")
	case <-time.After(c.grace):
	}

	c.setState(StateFinalizing)
	audio, duration, err := c.recorder.Finalize()
	if err != nil {
		c.setState(StateError)
		return nil, commons.NewStateError("no audio was captured")
	}

	fileName := "recording-" + uuid.NewString() + ".wav"
	transcript := c.supervisor.Transcript()
	if strings.TrimSpace(transcript) == "" && c.fallback != nil {
		text, ferr := c.fallback.Transcribe(ctx, audio, fileName)
		if ferr != nil {
			c.logger.Errorf("capture: fallback transcription failed: %v", ferr)
		} else {
			transcript = text
		}
	}
	if strings.TrimSpace(transcript) == "" {
		// Audio survives with a placeholder rather than being dropped.
		transcript = PlaceholderTranscript
	}

	c.setState(StateProcessing)
	note, err := c.submitter.Save(ctx, internal_persistence.SaveRequest{
		ID:          uuid.NewString(),
		Date:        startedAt,
		Duration:    duration.Seconds(),
		Transcript:  transcript,
		Audio:       audio,
		FileName:    fileName,
		ContentType: "audio/wav",
		ClientID:    target.ClientID,
		ClientName:  target.ClientName,
		SessionID:   target.SessionID,
	})
	if err != nil {
		c.setState(StateError)
		return nil, err
	}

	c.setState(StateComplete)
	return note, nil
}

// Cancel discards the current attempt without persisting anything.
func (c *Controller) Cancel() {
	c.supervisor.MarkStopped()
	if err := c.device.Stop(); err != nil {
		c.logger.Debugf("capture: device stop on cancel: %v", err)
	}
	if err := c.supervisor.Stop(); err != nil {
		c.logger.Debugf("capture: recognizer stop on cancel: %v", err)
	}
	c.cancelRun()
	c.setState(StateIdle)
}

// Close is best-effort teardown for component shutdown. It stops the device
// and recognizer but does not cancel in-flight submissions; a Save already
// issued is still awaited by its original caller.
func (c *Controller) Close() {
	c.supervisor.MarkStopped()
	_ = c.device.Stop()
	_ = c.supervisor.Stop()
	c.cancelRun()
}

// cancelRun ends the attempt-scoped context, stopping any restart dial
// still in flight.
func (c *Controller) cancelRun() {
	c.mu.Lock()
	cancel := c.runCancel
	c.runCancel = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Interim exposes the latest display-only partial text.
func (c *Controller) Interim() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interim
}

// Restarts reports recognizer restarts during the current attempt.
func (c *Controller) Restarts() int {
	return c.supervisor.Restarts()
}

func (c *Controller) setInterim(text string) {
	c.mu.Lock()
	c.interim = text
	c.mu.Unlock()
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
