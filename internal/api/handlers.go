// Berry Analytics - Product analytics API over the Firebase BigQuery export
// Copyright 2026 Berry Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/berrylabs/berry-analytics

// Package api is the HTTP boundary: it parses window parameters, invokes the
// analytics engine, and writes the uniform success/error envelopes. Handlers
// hold no per-request state and are safe for concurrent use.
package api

import (
	"net/http"
	"time"

	"github.com/berrylabs/berry-analytics/internal/analytics"
	"github.com/berrylabs/berry-analytics/internal/config"
	"github.com/berrylabs/berry-analytics/internal/models"
)

// Version is the API version reported by the root endpoint.
const Version = "1.0.0"

// Handler owns the metric endpoints.
type Handler struct {
	engine    *analytics.Engine
	cfg       *config.Config
	startTime time.Time
}

// NewHandler builds the handler set over an analytics engine.
func NewHandler(engine *analytics.Engine, cfg *config.Config) *Handler {
	return &Handler{
		engine:    engine,
		cfg:       cfg,
		startTime: time.Now(),
	}
}

// MonthOverMonth handles GET /api/analytics/mom.
func (h *Handler) MonthOverMonth(w http.ResponseWriter, r *http.Request) {
	months := intParam(r, "months", analytics.DefaultMoMMonths)

	data, err := h.engine.MonthOverMonth(r.Context(), months)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondData(w, data, models.Metadata{MonthsAnalyzed: months})
}

// ChurnRate handles GET /api/analytics/churn.
func (h *Handler) ChurnRate(w http.ResponseWriter, r *http.Request) {
	months := intParam(r, "months", analytics.DefaultChurnMonths)

	data, err := h.engine.ChurnRate(r.Context(), months)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondData(w, data, models.Metadata{MonthsAnalyzed: months})
}

// EventMetrics handles GET /api/analytics/events.
func (h *Handler) EventMetrics(w http.ResponseWriter, r *http.Request) {
	days := intParam(r, "days", analytics.DefaultEventDays)
	events := csvParam(r, "events")

	data, err := h.engine.EventMetrics(r.Context(), events, days)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	// filtered_events echoes the requested names, or "all" for no filter.
	var filtered interface{} = "all"
	if len(events) > 0 {
		filtered = events
	}
	respondData(w, data, models.Metadata{DaysAnalyzed: days, FilteredEvents: filtered})
}

// DailyActiveUsers handles GET /api/analytics/dau.
func (h *Handler) DailyActiveUsers(w http.ResponseWriter, r *http.Request) {
	days := intParam(r, "days", analytics.DefaultDAUDays)

	data, err := h.engine.DailyActiveUsers(r.Context(), days)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondData(w, data, models.Metadata{DaysAnalyzed: days})
}

// CohortRetention handles GET /api/analytics/cohorts.
func (h *Handler) CohortRetention(w http.ResponseWriter, r *http.Request) {
	months := intParam(r, "months", analytics.DefaultCohortMonths)

	data, err := h.engine.CohortRetention(r.Context(), months)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondData(w, data, models.Metadata{MonthsAnalyzed: months})
}

// Health handles GET /api/analytics/health. It never touches the warehouse:
// liveness only, not readiness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.HealthStatus{
		Success:   true,
		Message:   "Analytics API is healthy",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Seconds(),
	})
}

// Index handles GET /: a small service directory.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.IndexInfo{
		Message: "Berry Analytics Backend API",
		Version: Version,
		Endpoints: map[string]string{
			"health":  "/api/analytics/health",
			"mom":     "/api/analytics/mom?months=6",
			"churn":   "/api/analytics/churn?months=6",
			"events":  "/api/analytics/events?days=30",
			"dau":     "/api/analytics/dau?days=30",
			"cohorts": "/api/analytics/cohorts?months=3",
		},
	})
}

// NotFound is the fallback for unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusNotFound, models.ErrorResponse{
		Success: false,
		Error:   "Route not found",
		Path:    r.URL.Path,
	})
}
