// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package internal_capture

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	internal_type "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/type"
	"github.com/delloop-lab/mypracticehelper-sub000/pkg/commons"
)

const (
	AudioSampleRate     = 16000
	AudioChannels       = 1
	AudioBytesPerSample = 2  // LINEAR16 → 2 bytes per sample
	AudioBitsPerSample  = 16 // LINEAR16 → 16 bits per sample
	AudioPCMFormat      = 1  // WAV PCM format tag
)

// chunk is a recorded audio fragment placed at a specific position on the
// timeline. ByteOffset is the byte position relative to Start().
type chunk struct {
	ByteOffset int
	Data       []byte
}

type bufferRecorder struct {
	logger    commons.Logger
	mu        sync.Mutex
	startTime time.Time
	started   bool
	chunks    []chunk
	// cursor is the byte position just past the last written byte. Chunks
	// are placed at wall-clock offsets but never behind the cursor, so
	// bursty delivery cannot overlap earlier audio.
	cursor int
	// clock is injectable for testing; defaults to time.Now.
	clock func() time.Time
}

// NewBufferRecorder returns a Recorder that accumulates mono LINEAR16 audio
// on a wall-clock timeline and renders one WAV blob at finalize time.
func NewBufferRecorder(logger commons.Logger) internal_type.Recorder {
	return &bufferRecorder{
		logger: logger,
		clock:  time.Now,
	}
}

// Start resets the buffer. Every recording attempt begins from scratch;
// nothing from a previous attempt survives.
func (r *bufferRecorder) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.startTime = r.clock()
	r.started = true
	r.chunks = nil
	r.cursor = 0
}

func bytesPerSecond() int {
	return AudioSampleRate * AudioChannels * AudioBytesPerSample
}

// durationBytes converts a wall-clock duration to a frame-aligned byte count.
func durationBytes(d time.Duration) int {
	raw := int(d.Seconds() * float64(bytesPerSecond()))
	frameSize := AudioBytesPerSample * AudioChannels
	return (raw / frameSize) * frameSize
}

// Record places a chunk at the current wall-clock position. Gaps between
// chunks render as silence.
func (r *bufferRecorder) Record(_ context.Context, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		return fmt.Errorf("recorder not started")
	}

	offset := durationBytes(r.clock().Sub(r.startTime))
	if r.cursor > offset {
		offset = r.cursor
	}

	// Copy to avoid caller mutations.
	buf := make([]byte, len(data))
	copy(buf, data)

	r.chunks = append(r.chunks, chunk{ByteOffset: offset, Data: buf})
	r.cursor = offset + len(buf)
	return nil
}

// Finalize renders the full timeline (Start → now) as one WAV blob. Chunks
// sit at their recorded positions; everything else is silence.
func (r *bufferRecorder) Finalize() ([]byte, time.Duration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.chunks) == 0 {
		return nil, 0, fmt.Errorf("no audio chunks to finalize")
	}

	totalLen := 0
	for _, c := range r.chunks {
		if end := c.ByteOffset + len(c.Data); end > totalLen {
			totalLen = end
		}
	}

	pcm := make([]byte, totalLen)
	audioBytes := 0
	for _, c := range r.chunks {
		copy(pcm[c.ByteOffset:], c.Data)
		audioBytes += len(c.Data)
	}

	duration := time.Duration(float64(totalLen) / float64(bytesPerSecond()) * float64(time.Second))
	r.logger.Infof("recorder: finalized audio=%d bytes (%.2fs of %.2fs timeline), chunks=%d",
		audioBytes, float64(audioBytes)/float64(bytesPerSecond()), duration.Seconds(), len(r.chunks))

	wav, err := createWAVFile(pcm)
	if err != nil {
		return nil, 0, err
	}
	return wav, duration, nil
}

func createWAVFile(pcmData []byte) ([]byte, error) {
	var buf bytes.Buffer
	bps := bytesPerSecond()

	buf.Write([]byte("RIFF"))
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcmData)))
	buf.Write([]byte("WAVE"))

	buf.Write([]byte("fmt "))
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(AudioPCMFormat))
	binary.Write(&buf, binary.LittleEndian, uint16(AudioChannels))
	binary.Write(&buf, binary.LittleEndian, uint32(AudioSampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(bps))
	binary.Write(&buf, binary.LittleEndian, uint16(AudioBytesPerSample*AudioChannels))
	binary.Write(&buf, binary.LittleEndian, uint16(AudioBitsPerSample))

	// data chunk
	buf.Write([]byte("data"))
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcmData)))
	buf.Write(pcmData)

	return buf.Bytes(), nil
}
