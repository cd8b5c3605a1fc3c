// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package session_router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	session_api "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/api"
	"github.com/delloop-lab/mypracticehelper-sub000/config"
	"github.com/delloop-lab/mypracticehelper-sub000/pkg/commons"
)

// NewEngine builds the gin engine with the middleware stack and all
// session-api routes registered.
func NewEngine(cfg *config.AppConfig, logger commons.Logger, api *session_api.SessionApi) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": cfg.Name,
			"version": cfg.Version,
			"status":  "ok",
		})
	})

	v1 := engine.Group("/v1")
	{
		v1.POST("/capture/start", api.StartCapture)
		v1.POST("/capture/audio", api.IngestAudio)
		v1.POST("/capture/stop", api.StopCapture)
		v1.POST("/capture/cancel", api.CancelCapture)
		v1.GET("/capture/status", api.CaptureStatus)

		v1.POST("/uploads", api.Upload)

		v1.GET("/sessions/:id/notes", api.NotesForSession)
		v1.GET("/clients/:name/note-counts", api.NoteCounts)

		v1.POST("/clients/reciprocal-checks", api.ReciprocalChecks)
		v1.GET("/reciprocal/next", api.ReciprocalNext)
		v1.POST("/reciprocal/confirm", api.ReciprocalConfirm)
		v1.POST("/reciprocal/skip", api.ReciprocalSkip)
	}

	return engine
}
