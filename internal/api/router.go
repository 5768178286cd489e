// Berry Analytics - Product analytics API over the Firebase BigQuery export
// Copyright 2026 Berry Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/berrylabs/berry-analytics

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/berrylabs/berry-analytics/internal/config"
	"github.com/berrylabs/berry-analytics/internal/middleware"
)

// NewRouter assembles the full HTTP surface: the metric endpoints under
// /api/analytics, the root service directory, the Prometheus exposition,
// and the JSON 404 fallback.
func NewRouter(handler *Handler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Security.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: corsCredentials(cfg.Security.CORSOrigins),
		MaxAge:           300,
	}))

	r.Get("/", handler.Index)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/analytics", func(r chi.Router) {
		if !cfg.Security.RateLimitDisabled {
			r.Use(httprate.LimitByIP(cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow))
		}
		r.Use(middleware.Prometheus)

		r.Get("/mom", handler.MonthOverMonth)
		r.Get("/churn", handler.ChurnRate)
		r.Get("/events", handler.EventMetrics)
		r.Get("/dau", handler.DailyActiveUsers)
		r.Get("/cohorts", handler.CohortRetention)
		r.Get("/health", handler.Health)
	})

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.NotFound)

	return r
}

// corsCredentials reports whether credentialed CORS is safe: browsers reject
// Access-Control-Allow-Credentials combined with a wildcard origin.
func corsCredentials(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return false
		}
	}
	return true
}
