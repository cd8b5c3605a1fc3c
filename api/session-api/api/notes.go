// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package session_api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NotesForSession returns the session's resolved note set: matched,
// deduplicated, display-filtered.
func (api *SessionApi) NotesForSession(c *gin.Context) {
	notes, err := api.notes.NotesForSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

// NoteCounts returns per-session counts of displayable notes, keyed by
// session id, for the named client.
func (api *SessionApi) NoteCounts(c *gin.Context) {
	counts, err := api.notes.NoteCounts(c.Request.Context(), c.Param("name"))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}
