// Berry Analytics - Product analytics API over the Firebase BigQuery export
// Copyright 2026 Berry Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/berrylabs/berry-analytics

package api

import (
	"net/http"
	"runtime/debug"

	"github.com/berrylabs/berry-analytics/internal/logging"
	"github.com/berrylabs/berry-analytics/internal/models"
	"github.com/berrylabs/berry-analytics/internal/warehouse"
)

// respondError classifies a warehouse failure and writes the uniform error
// envelope. Classified failures carry the raw upstream text in details;
// unclassified failures surface their own message, plus a stack trace when
// running in development mode.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	class, status := warehouse.Classify(err)

	logging.Error().
		Err(err).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("Request failed")

	resp := models.ErrorResponse{
		Success: false,
		Error:   warehouse.Message(class, err),
	}
	if class != warehouse.ErrorUnclassified {
		resp.Details = err.Error()
	} else if h.cfg.IsDevelopment() {
		resp.Stack = string(debug.Stack())
	}

	respondJSON(w, status, resp)
}
