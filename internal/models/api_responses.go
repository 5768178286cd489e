// Berry Analytics - Product analytics API over the Firebase BigQuery export
// Copyright 2026 Berry Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/berrylabs/berry-analytics

package models

import (
	"time"
)

// APIResponse is the uniform success envelope returned by every metric
// endpoint.
//
// Example:
//
//	{
//	  "success": true,
//	  "data": [{"month": "2026-08", "active_users": 100, ...}],
//	  "metadata": {
//	    "months_analyzed": 6,
//	    "timestamp": "2026-08-28T12:00:00Z"
//	  }
//	}
type APIResponse struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
}

// Metadata describes the analyzed window of a successful metric response.
// Exactly one of MonthsAnalyzed/DaysAnalyzed is set, matching the unit of
// the metric's window parameter. FilteredEvents is only present on the
// events endpoint: the requested name list, or the string "all" when no
// filter was supplied.
type Metadata struct {
	MonthsAnalyzed int         `json:"months_analyzed,omitempty"`
	DaysAnalyzed   int         `json:"days_analyzed,omitempty"`
	FilteredEvents interface{} `json:"filtered_events,omitempty"`
	Timestamp      time.Time   `json:"timestamp"`
}

// ErrorResponse is the uniform failure envelope. Details carries the raw
// upstream error text for classified warehouse failures; Stack is attached
// only in development mode. Path is set only by the 404 fallback handler.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Stack   string `json:"stack,omitempty"`
	Path    string `json:"path,omitempty"`
}

// HealthStatus is the flat health-check response.
type HealthStatus struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    float64   `json:"uptime"`
}

// IndexInfo is the root endpoint's service directory.
type IndexInfo struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}
