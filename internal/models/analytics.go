// Berry Analytics - Product analytics API over the Firebase BigQuery export
// Copyright 2026 Berry Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/berrylabs/berry-analytics

// Package models defines the response shapes shared by the analytics engine
// and the HTTP layer. Each metric endpoint returns a list of exactly one of
// the entry types below; fields marked as pointers serialize as JSON null
// when no value exists (earliest MoM month, zero-denominator rates).
package models

// MoMEntry is one month of month-over-month growth data, newest month first.
// The chronologically earliest month has no predecessor, so both
// PreviousMonthUsers and GrowthPercentage are null for it. That null is a
// "no prior data" sentinel, not an error.
type MoMEntry struct {
	Month              string  `json:"month"`
	ActiveUsers        int64   `json:"active_users"`
	PreviousMonthUsers *int64  `json:"previous_month_users"`
	GrowthPercentage   *string `json:"growth_percentage"`
}

// ChurnEntry is one month of churn data. ChurnRate is null when the month
// had zero active users (SAFE_DIVIDE emits NULL warehouse-side).
type ChurnEntry struct {
	Month        string   `json:"month"`
	ActiveUsers  int64    `json:"active_users"`
	ChurnedUsers int64    `json:"churned_users"`
	ChurnRate    *float64 `json:"churn_rate"`
}

// EventEntry is an aggregate for a single event name over the requested
// day window. At most 20 entries are returned, sorted by count descending.
type EventEntry struct {
	EventName   string `json:"event_name"`
	EventCount  int64  `json:"event_count"`
	UniqueUsers int64  `json:"unique_users"`
}

// DAUEntry is the distinct-user count for a single calendar day.
type DAUEntry struct {
	Date        string `json:"date"`
	ActiveUsers int64  `json:"active_users"`
}

// CohortEntry tracks one (cohort month, activity month) pair.
// RetentionRate is null when the cohort size is zero.
type CohortEntry struct {
	CohortMonth   string   `json:"cohort_month"`
	CohortSize    int64    `json:"cohort_size"`
	ActivityMonth string   `json:"activity_month"`
	ActiveUsers   int64    `json:"active_users"`
	RetentionRate *float64 `json:"retention_rate"`
}
