// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package session_api

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	internal_transcribe "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/transcribe"
)

// Upload runs a pre-recorded file through the transcription pipeline.
// Multipart form: "file" plus optional sessionId/clientId/clientName/
// therapistName/sessionDate fields.
func (api *SessionApi) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing audio file"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable audio file"})
		return
	}
	defer f.Close()
	audio, err := io.ReadAll(f)
	if err != nil || len(audio) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty audio file"})
		return
	}

	req := internal_transcribe.UploadRequest{
		Audio:         audio,
		FileName:      fileHeader.Filename,
		ContentType:   fileHeader.Header.Get("Content-Type"),
		SessionID:     c.PostForm("sessionId"),
		ClientID:      c.PostForm("clientId"),
		ClientName:    c.PostForm("clientName"),
		TherapistName: c.PostForm("therapistName"),
	}
	if req.ContentType == "" {
		req.ContentType = "application/octet-stream"
	}
	if raw := c.PostForm("sessionDate"); raw != "" {
		if parsed, perr := time.Parse("2006-01-02", raw); perr == nil {
			req.SessionDate = parsed
		}
	}

	note, err := api.pipeline.Process(c.Request.Context(), req)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}
