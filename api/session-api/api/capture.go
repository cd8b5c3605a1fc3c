// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package session_api

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	internal_capture "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/capture"
)

type startCaptureRequest struct {
	SessionID     string    `json:"sessionId" binding:"required"`
	SessionDate   time.Time `json:"sessionDate"`
	ClientID      string    `json:"clientId"`
	ClientName    string    `json:"clientName"`
	TherapistName string    `json:"therapistName"`
}

// StartCapture begins a recording for the selected session and client.
func (api *SessionApi) StartCapture(c *gin.Context) {
	var req startCaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid capture request"})
		return
	}
	err := api.controller.Start(c.Request.Context(), internal_capture.Target{
		SessionID:     req.SessionID,
		SessionDate:   req.SessionDate,
		ClientID:      req.ClientID,
		ClientName:    req.ClientName,
		TherapistName: req.TherapistName,
	})
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": string(api.controller.State())})
}

// IngestAudio accepts one streamed audio chunk from the client microphone.
func (api *SessionApi) IngestAudio(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil || len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty audio chunk"})
		return
	}
	api.device.Ingest(data)
	c.Status(http.StatusAccepted)
}

// StopCapture ends the recording and returns the persisted note.
func (api *SessionApi) StopCapture(c *gin.Context) {
	note, err := api.controller.Stop(c.Request.Context())
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// CancelCapture discards the in-flight recording without persisting.
func (api *SessionApi) CancelCapture(c *gin.Context) {
	api.controller.Cancel()
	c.JSON(http.StatusOK, gin.H{"state": string(api.controller.State())})
}

// CaptureStatus reports the state machine's position for the UI, plus the
// latest display-only interim text.
func (api *SessionApi) CaptureStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state":    string(api.controller.State()),
		"interim":  api.controller.Interim(),
		"restarts": api.controller.Restarts(),
	})
}
