// Berry Analytics - Product analytics API over the Firebase BigQuery export
// Copyright 2026 Berry Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/berrylabs/berry-analytics

// Package warehouse is the thin adapter between the analytics engine and the
// BigQuery warehouse. The engine depends only on the Client interface, so
// tests substitute a stub and the BigQuery binding stays at the process edge.
package warehouse

import (
	"context"
)

// Row is one result row: column name to scalar value. Values are normalized
// to int64, float64, string or nil before leaving this package.
type Row map[string]interface{}

// Parameter is a named bound query parameter.
type Parameter struct {
	Name  string
	Value interface{}
}

// Query is a parameterized SQL statement ready for execution. All caller
// supplied values travel as bound Parameters, never as spliced text.
type Query struct {
	SQL        string
	Parameters []Parameter
}

// Client executes exactly one operation against the warehouse. There are no
// retries, no timeouts beyond context propagation and no result caching: a
// call either returns the full row set or fails outright.
type Client interface {
	Query(ctx context.Context, q Query) ([]Row, error)
}
