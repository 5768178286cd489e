// Berry Analytics - Product analytics API over the Firebase BigQuery export
// Copyright 2026 Berry Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/berrylabs/berry-analytics

package api

import (
	"fmt"
	"net/http"
	"strings"
)

// intParam reads an integer query parameter with lenient prefix parsing: a
// value like "30abc" counts as 30, and anything unparsable falls back to the
// default. Zero also falls back (it is never a useful window), while
// negative values pass through and simply select an empty shard range.
func intParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}

	var n int
	if _, err := fmt.Sscanf(strings.TrimSpace(raw), "%d", &n); err != nil {
		return def
	}
	if n == 0 {
		return def
	}
	return n
}

// csvParam reads a comma-separated query parameter into a slice, trimming
// whitespace and dropping empty segments. A missing or all-empty parameter
// yields nil.
func csvParam(r *http.Request, name string) []string {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}

	var values []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
