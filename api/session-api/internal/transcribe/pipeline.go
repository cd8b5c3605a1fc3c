// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package internal_transcribe

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	internal_persistence "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/persistence"
	internal_type "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/type"
	"github.com/delloop-lab/mypracticehelper-sub000/pkg/commons"
	"github.com/delloop-lab/mypracticehelper-sub000/pkg/types"
)

// UploadRequest is a pre-recorded file handed to the upload pipeline.
type UploadRequest struct {
	Audio         []byte
	FileName      string
	ContentType   string
	ClientID      string
	ClientName    string
	TherapistName string
	SessionID     string
	SessionDate   time.Time
	// Duration in seconds, when the caller knows it.
	Duration float64
}

// UploadPipeline handles pre-recorded files: remote transcription first (no
// live recognizer exists for them), reflow, then remote clinical
// structuring, then the two-phase save.
type UploadPipeline struct {
	logger      commons.Logger
	transcriber internal_type.Transcriber
	structurer  internal_type.Structurer
	submitter   *internal_persistence.Submitter
}

func NewUploadPipeline(
	logger commons.Logger,
	transcriber internal_type.Transcriber,
	structurer internal_type.Structurer,
	submitter *internal_persistence.Submitter,
) *UploadPipeline {
	return &UploadPipeline{
		logger:      logger,
		transcriber: transcriber,
		structurer:  structurer,
		submitter:   submitter,
	}
}

// Process transcribes, structures and persists one upload. An empty remote
// transcript is a hard failure: persistence is aborted entirely and no note
// is created. A silent, content-free record is worse than no record.
func (p *UploadPipeline) Process(ctx context.Context, req UploadRequest) (*types.Note, error) {
	text, err := p.transcriber.Transcribe(ctx, req.Audio, req.FileName)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, commons.NewTranscriptionError("the uploaded audio produced no transcript")
	}
	text = ReflowParagraphs(text)

	var notes []string
	structured, err := p.structurer.Structure(ctx, internal_type.StructureRequest{
		Transcript:    text,
		ClientName:    req.ClientName,
		TherapistName: req.TherapistName,
		SessionDate:   req.SessionDate,
		Duration:      req.Duration,
	})
	if err != nil {
		// Structuring failure does not lose a good transcript; the note is
		// saved without the clinical assessment.
		p.logger.Errorf("upload: structuring failed, saving transcript only: %v", err)
	} else if strings.TrimSpace(structured) != "" {
		notes = append(notes, structured)
	}

	date := req.SessionDate
	if date.IsZero() {
		date = time.Now()
	}
	return p.submitter.Save(ctx, internal_persistence.SaveRequest{
		ID:          uuid.NewString(),
		Date:        date,
		Duration:    req.Duration,
		Transcript:  text,
		Notes:       notes,
		Audio:       req.Audio,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		ClientID:    req.ClientID,
		ClientName:  req.ClientName,
		SessionID:   req.SessionID,
	})
}
