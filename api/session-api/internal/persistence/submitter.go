// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package internal_persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/delloop-lab/mypracticehelper-sub000/pkg/commons"
	"github.com/delloop-lab/mypracticehelper-sub000/pkg/types"
)

// Phase sentinels. Each phase of the two-phase save fails distinguishably so
// the caller can tell an orphaned blob from a save that never left the box.
var (
	ErrSignedURL      = errors.New("signed-upload issuance failed")
	ErrBlobTransfer   = errors.New("audio blob transfer failed")
	ErrMetadataCommit = errors.New("metadata commit failed")
)

// SaveRequest is everything the backend needs to durably record one note.
type SaveRequest struct {
	ID          string
	Date        time.Time
	Duration    float64
	Transcript  string
	Notes       []string
	Audio       []byte
	FileName    string
	ContentType string
	ClientID    string
	ClientName  string
	SessionID   string
}

type signedUploadRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

type signedUploadResponse struct {
	SignedURL string `json:"signedUrl"`
	PublicURL string `json:"publicUrl"`
}

type metadataCommitRequest struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	Duration   float64   `json:"duration"`
	Transcript string    `json:"transcript"`
	Notes      []string  `json:"notes"`
	AudioURL   string    `json:"audioURL,omitempty"`
	ClientID   string    `json:"clientId,omitempty"`
	ClientName string    `json:"clientName,omitempty"`
	SessionID  string    `json:"sessionId,omitempty"`
}

// Submitter performs the two-phase save: request a time-limited upload
// target, transfer the blob, and only then commit the metadata record.
//
// This path is at-least-once, not exactly-once. A retry after a transient
// failure can create a duplicate note; the session matcher's deduplication
// absorbs exactly that.
type Submitter struct {
	logger      commons.Logger
	http        *resty.Client
	backendHost string
}

func NewSubmitter(logger commons.Logger, client *resty.Client, backendHost string) *Submitter {
	return &Submitter{
		logger:      logger,
		http:        client,
		backendHost: backendHost,
	}
}

// Save runs the phases in order. Any failure aborts the remaining phases:
// a blob-transfer failure writes no metadata record, so nothing can ever
// reference missing audio. A commit failure after a successful transfer
// leaves the blob orphaned in storage; that is accepted, the audio survives
// for manual reconciliation and the error goes back to the caller to decide
// about a retry.
func (s *Submitter) Save(ctx context.Context, req SaveRequest) (*types.Note, error) {
	audioURL := ""
	if len(req.Audio) > 0 {
		target, err := s.issueSignedUpload(ctx, req.FileName, req.ContentType)
		if err != nil {
			return nil, err
		}
		if err := s.transferBlob(ctx, target.SignedURL, req.Audio, req.ContentType); err != nil {
			return nil, err
		}
		audioURL = target.PublicURL
	}
	return s.commitMetadata(ctx, req, audioURL)
}

func (s *Submitter) issueSignedUpload(ctx context.Context, fileName, contentType string) (*signedUploadResponse, error) {
	var target signedUploadResponse
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(signedUploadRequest{FileName: fileName, ContentType: contentType}).
		SetResult(&target).
		Post(s.backendHost + "/api/uploads/sign")
	if err != nil {
		return nil, commons.NewTransportError("could not prepare the audio upload",
			fmt.Errorf("%w: %v", ErrSignedURL, err))
	}
	if resp.IsError() {
		return nil, commons.NewTransportError("could not prepare the audio upload",
			fmt.Errorf("%w: status %d", ErrSignedURL, resp.StatusCode()))
	}
	if target.SignedURL == "" {
		return nil, commons.NewTransportError("could not prepare the audio upload",
			fmt.Errorf("%w: empty signed url", ErrSignedURL))
	}
	return &target, nil
}

func (s *Submitter) transferBlob(ctx context.Context, signedURL string, audio []byte, contentType string) error {
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(audio).
		Put(signedURL)
	if err != nil {
		return commons.NewTransportError("uploading the audio failed",
			fmt.Errorf("%w: %v", ErrBlobTransfer, err))
	}
	if resp.IsError() {
		return commons.NewTransportError("uploading the audio failed",
			fmt.Errorf("%w: status %d", ErrBlobTransfer, resp.StatusCode()))
	}
	return nil
}

func (s *Submitter) commitMetadata(ctx context.Context, req SaveRequest, audioURL string) (*types.Note, error) {
	var stored types.Note
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(metadataCommitRequest{
			ID:         req.ID,
			Date:       req.Date,
			Duration:   req.Duration,
			Transcript: req.Transcript,
			Notes:      req.Notes,
			AudioURL:   audioURL,
			ClientID:   req.ClientID,
			ClientName: req.ClientName,
			SessionID:  req.SessionID,
		}).
		SetResult(&stored).
		Post(s.backendHost + "/api/recordings")
	if err != nil {
		return nil, commons.NewTransportError("saving the recording failed",
			fmt.Errorf("%w: %v", ErrMetadataCommit, err))
	}
	if resp.IsError() {
		return nil, commons.NewTransportError("saving the recording failed",
			fmt.Errorf("%w: status %d", ErrMetadataCommit, resp.StatusCode()))
	}
	if stored.ID == "" {
		stored.ID = req.ID
	}
	if stored.Source == "" {
		stored.Source = types.NoteSourceRecording
	}
	s.logger.Infof("persistence: committed recording %s (%.1fs audio, session=%q)",
		stored.ID, req.Duration, req.SessionID)
	return &stored, nil
}
