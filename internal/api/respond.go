// Berry Analytics - Product analytics API over the Firebase BigQuery export
// Copyright 2026 Berry Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/berrylabs/berry-analytics

package api

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/berrylabs/berry-analytics/internal/logging"
	"github.com/berrylabs/berry-analytics/internal/models"
)

// respondJSON writes any payload as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondData wraps metric rows in the uniform success envelope.
func respondData(w http.ResponseWriter, data interface{}, meta models.Metadata) {
	meta.Timestamp = time.Now().UTC()
	respondJSON(w, http.StatusOK, models.APIResponse{
		Success:  true,
		Data:     data,
		Metadata: meta,
	})
}
