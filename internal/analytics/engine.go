// Berry Analytics - Product analytics API over the Firebase BigQuery export
// Copyright 2026 Berry Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/berrylabs/berry-analytics

// Package analytics is the metric-computation core: it builds parameterized
// warehouse queries per metric and derives the final metric shapes from the
// returned rows. The engine holds no state beyond its injected collaborators;
// every operation is a pure function of (parameters, warehouse response).
package analytics

import (
	"context"
	"time"

	"github.com/berrylabs/berry-analytics/internal/logging"
	"github.com/berrylabs/berry-analytics/internal/metrics"
	"github.com/berrylabs/berry-analytics/internal/models"
	"github.com/berrylabs/berry-analytics/internal/warehouse"
)

// Engine computes derived metrics. Each operation issues at most one
// warehouse query and never retries: warehouse failures are logged and
// re-raised unchanged for the boundary to classify.
type Engine struct {
	warehouse warehouse.Client
	builder   *QueryBuilder
}

// New builds an Engine over an injected warehouse client and the validated
// project/dataset identifiers of the events export.
func New(client warehouse.Client, projectID, datasetID string) *Engine {
	return &Engine{
		warehouse: client,
		builder:   NewQueryBuilder(projectID, datasetID),
	}
}

// run executes one warehouse query and records its Prometheus metrics under
// the given metric name.
func (e *Engine) run(ctx context.Context, metric string, q warehouse.Query) ([]warehouse.Row, error) {
	start := time.Now()
	rows, err := e.warehouse.Query(ctx, q)
	metrics.RecordWarehouseQuery(metric, len(rows), time.Since(start), err)
	return rows, err
}

// MonthOverMonth returns per-month active users with month-over-month growth
// percentages, newest month first.
func (e *Engine) MonthOverMonth(ctx context.Context, months int) ([]models.MoMEntry, error) {
	rows, err := e.run(ctx, "mom", e.builder.MonthlyActiveUsers(months))
	if err != nil {
		logging.Error().Err(err).Int("months", months).Msg("Monthly active users query failed")
		return nil, err
	}
	return deriveMoM(rows), nil
}

// ChurnRate returns per-month churn classification, newest month first.
func (e *Engine) ChurnRate(ctx context.Context, months int) ([]models.ChurnEntry, error) {
	rows, err := e.run(ctx, "churn", e.builder.ChurnRate(months))
	if err != nil {
		logging.Error().Err(err).Int("months", months).Msg("Churn rate query failed")
		return nil, err
	}
	return decodeChurn(rows), nil
}

// EventMetrics returns the top events by count over a day window, optionally
// restricted to an inclusion list of event names.
func (e *Engine) EventMetrics(ctx context.Context, eventNames []string, days int) ([]models.EventEntry, error) {
	rows, err := e.run(ctx, "events", e.builder.EventMetrics(eventNames, days))
	if err != nil {
		logging.Error().Err(err).Int("days", days).Strs("events", eventNames).Msg("Event metrics query failed")
		return nil, err
	}
	return decodeEvents(rows), nil
}

// DailyActiveUsers returns the per-day distinct user trend, newest day first.
func (e *Engine) DailyActiveUsers(ctx context.Context, days int) ([]models.DAUEntry, error) {
	rows, err := e.run(ctx, "dau", e.builder.DailyActiveUsers(days))
	if err != nil {
		logging.Error().Err(err).Int("days", days).Msg("Daily active users query failed")
		return nil, err
	}
	return decodeDAU(rows), nil
}

// CohortRetention returns retention per (cohort month, activity month) pair
// for cohorts formed within the requested window.
func (e *Engine) CohortRetention(ctx context.Context, months int) ([]models.CohortEntry, error) {
	rows, err := e.run(ctx, "cohorts", e.builder.CohortRetention(months))
	if err != nil {
		logging.Error().Err(err).Int("months", months).Msg("Cohort retention query failed")
		return nil, err
	}
	return decodeCohorts(rows), nil
}
