// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package internal_transcribe

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	internal_type "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/type"
	"github.com/delloop-lab/mypracticehelper-sub000/pkg/commons"
)

type transcriptionResponse struct {
	Transcript string `json:"transcript"`
}

// houseTranscriber posts raw audio bytes to the in-house transcription
// service and returns the transcript text.
type houseTranscriber struct {
	logger commons.Logger
	http   *resty.Client
	host   string
}

func NewHouseTranscriber(logger commons.Logger, client *resty.Client, host string) internal_type.Transcriber {
	return &houseTranscriber{logger: logger, http: client, host: host}
}

func (t *houseTranscriber) Transcribe(ctx context.Context, audio []byte, fileName string) (string, error) {
	var out transcriptionResponse
	resp, err := t.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetHeader("X-File-Name", fileName).
		SetBody(audio).
		SetResult(&out).
		Post(t.host + "/api/transcribe")
	if err != nil {
		return "", commons.NewTransportError("the transcription service is unreachable", err)
	}
	if resp.IsError() {
		return "", commons.NewTransportError("the transcription service failed",
			fmt.Errorf("status %d", resp.StatusCode()))
	}
	return out.Transcript, nil
}

type structureRequest struct {
	Transcript    string  `json:"transcript"`
	ClientName    string  `json:"clientName,omitempty"`
	TherapistName string  `json:"therapistName,omitempty"`
	SessionDate   string  `json:"sessionDate,omitempty"`
	Duration      float64 `json:"duration,omitempty"`
}

type structureResponse struct {
	Structured string `json:"structured"`
}

// restyStructurer calls the remote structuring service that reformats a
// transcript into a clinical-assessment layout.
type restyStructurer struct {
	logger commons.Logger
	http   *resty.Client
	host   string
}

func NewStructurer(logger commons.Logger, client *resty.Client, host string) internal_type.Structurer {
	return &restyStructurer{logger: logger, http: client, host: host}
}

func (s *restyStructurer) Structure(ctx context.Context, req internal_type.StructureRequest) (string, error) {
	body := structureRequest{
		Transcript:    req.Transcript,
		ClientName:    req.ClientName,
		TherapistName: req.TherapistName,
		Duration:      req.Duration,
	}
	if !req.SessionDate.IsZero() {
		body.SessionDate = req.SessionDate.Format("2006-01-02")
	}
	var out structureResponse
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post(s.host + "/api/structure")
	if err != nil {
		return "", commons.NewTransportError("the structuring service is unreachable", err)
	}
	if resp.IsError() {
		return "", commons.NewTransportError("the structuring service failed",
			fmt.Errorf("status %d", resp.StatusCode()))
	}
	return out.Structured, nil
}
