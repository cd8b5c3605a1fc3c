// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package session_api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	internal_capture "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/capture"
	internal_matcher "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/matcher"
	internal_reciprocal "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/reciprocal"
	internal_transcribe "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/transcribe"
	"github.com/delloop-lab/mypracticehelper-sub000/config"
	"github.com/delloop-lab/mypracticehelper-sub000/pkg/commons"
)

// SessionApi exposes the capture and reconciliation engine to the
// surrounding UI.
type SessionApi struct {
	logger     commons.Logger
	cfg        *config.AppConfig
	controller *internal_capture.Controller
	device     *internal_capture.StreamDevice
	pipeline   *internal_transcribe.UploadPipeline
	notes      *internal_matcher.Service
	queue      *internal_reciprocal.Queue
}

func NewSessionApi(
	logger commons.Logger,
	cfg *config.AppConfig,
	controller *internal_capture.Controller,
	device *internal_capture.StreamDevice,
	pipeline *internal_transcribe.UploadPipeline,
	notes *internal_matcher.Service,
	queue *internal_reciprocal.Queue,
) *SessionApi {
	return &SessionApi{
		logger:     logger,
		cfg:        cfg,
		controller: controller,
		device:     device,
		pipeline:   pipeline,
		notes:      notes,
		queue:      queue,
	}
}

// respondError maps the error taxonomy to HTTP statuses. The category and
// the user-readable message travel to the UI; the cause stays in the logs.
func (api *SessionApi) respondError(c *gin.Context, err error) {
	category := commons.CategoryOf(err)
	status := http.StatusBadGateway
	switch category {
	case commons.CategoryPermission:
		status = http.StatusForbidden
	case commons.CategoryState:
		status = http.StatusConflict
	case commons.CategoryTranscription:
		status = http.StatusUnprocessableEntity
	case commons.CategoryTimeout:
		status = http.StatusGatewayTimeout
	}
	api.logger.Errorf("session-api: %v", err)

	message := err.Error()
	var ce *commons.CategorizedError
	if errors.As(err, &ce) {
		message = ce.Message
	}
	c.JSON(status, gin.H{"error": message, "category": string(category)})
}
