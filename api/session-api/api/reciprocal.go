// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package session_api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/delloop-lab/mypracticehelper-sub000/pkg/types"
)

// ReciprocalChecks runs the back-reference check for a just-saved client and
// returns whatever tasks it enqueued.
func (api *SessionApi) ReciprocalChecks(c *gin.Context) {
	var saved types.Client
	if err := c.ShouldBindJSON(&saved); err != nil || saved.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client record"})
		return
	}
	tasks, err := api.queue.EnqueueChecks(c.Request.Context(), saved)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enqueued": tasks, "pending": api.queue.Pending()})
}

// ReciprocalNext hands out the next task; the UI opens the target client's
// record with the suggested relationship pre-filled.
func (api *SessionApi) ReciprocalNext(c *gin.Context) {
	task, err := api.queue.Next()
	if err != nil {
		api.respondError(c, err)
		return
	}
	if task == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, task)
}

// ReciprocalConfirm appends the suggested reverse edge to the target client.
func (api *SessionApi) ReciprocalConfirm(c *gin.Context) {
	if err := api.queue.Confirm(c.Request.Context()); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": api.queue.Pending()})
}

// ReciprocalSkip discards the active task without touching any record.
func (api *SessionApi) ReciprocalSkip(c *gin.Context) {
	if err := api.queue.Skip(); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": api.queue.Pending()})
}
