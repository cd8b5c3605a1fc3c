// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package internal_transcribe

import (
	"bytes"
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	internal_type "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/type"
	"github.com/delloop-lab/mypracticehelper-sub000/pkg/commons"
)

// openaiTranscriber is the alternative remote transcription backend, using
// the Whisper audio.transcriptions endpoint. Selected by configuration when
// no in-house transcription service is deployed.
type openaiTranscriber struct {
	logger commons.Logger
	client openai.Client
}

func NewOpenAITranscriber(logger commons.Logger, apiKey string) internal_type.Transcriber {
	return &openaiTranscriber{
		logger: logger,
		client: openai.NewClient(option.WithAPIKey(apiKey)),
	}
}

func (t *openaiTranscriber) Transcribe(ctx context.Context, audio []byte, fileName string) (string, error) {
	res, err := t.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(audio), fileName, "audio/wav"),
		Model: openai.AudioModelWhisper1,
	})
	if err != nil {
		return "", commons.NewTransportError("the transcription service failed", err)
	}
	return res.Text, nil
}
