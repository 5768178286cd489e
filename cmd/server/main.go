// Berry Analytics - Product analytics API over the Firebase BigQuery export
// Copyright 2026 Berry Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/berrylabs/berry-analytics

// Package main is the entry point for the Berry Analytics server.
//
// Berry Analytics is a stateless read-only HTTP API that derives product
// metrics (month-over-month growth, churn, event counts, daily active users,
// cohort retention) from the Firebase Analytics BigQuery export.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Load settings from environment variables and an optional
//     config file (Koanf v2), then validate them
//  2. Warehouse: Build the BigQuery client from the service-account credentials
//  3. Analytics engine: Query builder plus row derivation over the warehouse
//  4. HTTP server: Chi router with CORS, rate limiting, request logging,
//     Prometheus instrumentation and a JSON 404 fallback
//
// # Configuration
//
// Required environment variables:
//   - BIGQUERY_PROJECT_ID: GCP project of the Firebase export
//   - BIGQUERY_DATASET_ID: export dataset (e.g. analytics_123456789)
//   - FIREBASE_CLIENT_EMAIL: service-account email
//   - FIREBASE_PRIVATE_KEY: service-account private key (\n escapes allowed)
//
// Optional:
//   - PORT (default 5000), CORS_ORIGIN (comma separated), NODE_ENV,
//     LOG_LEVEL, LOG_FORMAT
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops accepting
// new connections, waits up to 10 seconds for in-flight requests, then closes
// the BigQuery client.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/berrylabs/berry-analytics/internal/analytics"
	"github.com/berrylabs/berry-analytics/internal/api"
	"github.com/berrylabs/berry-analytics/internal/config"
	"github.com/berrylabs/berry-analytics/internal/logging"
	"github.com/berrylabs/berry-analytics/internal/warehouse"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("project", cfg.BigQuery.ProjectID).
		Str("dataset", cfg.BigQuery.DatasetID).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Berry Analytics")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := warehouse.NewBigQueryClient(ctx, warehouse.Credentials{
		ProjectID:   cfg.BigQuery.ProjectID,
		ClientEmail: cfg.BigQuery.ClientEmail,
		PrivateKey:  cfg.BigQuery.PrivateKey,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize BigQuery client")
	}
	defer func() {
		if err := client.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing BigQuery client")
		}
	}()
	logging.Info().Msg("BigQuery client initialized")

	engine := analytics.New(client, cfg.BigQuery.ProjectID, cfg.BigQuery.DatasetID)
	handler := api.NewHandler(engine, cfg)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handler, cfg),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server error")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}

	logging.Info().Msg("Application stopped gracefully")
}
