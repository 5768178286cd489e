// Berry Analytics - Product analytics API over the Firebase BigQuery export
// Copyright 2026 Berry Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/berrylabs/berry-analytics

package analytics

import (
	"strings"
	"testing"

	"github.com/berrylabs/berry-analytics/internal/warehouse"
)

func newTestBuilder() *QueryBuilder {
	return NewQueryBuilder("berry-prod", "analytics_123")
}

// paramValue returns the value of a named parameter, or nil if absent.
func paramValue(q warehouse.Query, name string) interface{} {
	for _, p := range q.Parameters {
		if p.Name == name {
			return p.Value
		}
	}
	return nil
}

func TestMonthlyActiveUsersQuery(t *testing.T) {
	q := newTestBuilder().MonthlyActiveUsers(6)

	if !strings.Contains(q.SQL, "`berry-prod.analytics_123.events_*`") {
		t.Errorf("query must address the events wildcard table:\n%s", q.SQL)
	}
	if !strings.Contains(q.SQL, "_TABLE_SUFFIX BETWEEN") {
		t.Error("query must bound the scan with a shard suffix window")
	}
	if !strings.Contains(q.SQL, "INTERVAL @months MONTH") {
		t.Error("window size must be a bound parameter, not spliced text")
	}
	if !strings.Contains(q.SQL, "COUNT(DISTINCT user_pseudo_id)") {
		t.Error("active users must count distinct pseudo ids")
	}
	if !strings.Contains(q.SQL, "ORDER BY month DESC") {
		t.Error("months must sort descending")
	}
	if got := paramValue(q, "months"); got != 6 {
		t.Errorf("months parameter = %v, want 6", got)
	}
}

func TestChurnRateQueryWindow(t *testing.T) {
	q := newTestBuilder().ChurnRate(6)

	// The scan is one month wider than the requested window so LEAD() can
	// see the newest month's successor.
	if got := paramValue(q, "lookback_months"); got != 7 {
		t.Errorf("lookback_months = %v, want 7", got)
	}
	if got := paramValue(q, "months"); got != 6 {
		t.Errorf("months = %v, want 6", got)
	}
	if !strings.Contains(q.SQL, "LEAD(month) OVER (PARTITION BY user_pseudo_id ORDER BY month)") {
		t.Error("churn must derive next active month per user via LEAD")
	}
	if !strings.Contains(q.SQL, "MONTH) > 1") {
		t.Error("churn classification must use the one-calendar-month gap rule")
	}
	if !strings.Contains(q.SQL, "SAFE_DIVIDE(churned_users, active_users)") {
		t.Error("churn rate must use SAFE_DIVIDE to avoid division faults")
	}
	if !strings.Contains(q.SQL, "ORDER BY month DESC") {
		t.Error("churn months must sort descending")
	}
}

func TestEventMetricsQueryFilter(t *testing.T) {
	b := newTestBuilder()

	t.Run("with filter", func(t *testing.T) {
		q := b.EventMetrics([]string{"purchase", "sign_up"}, 30)

		if !strings.Contains(q.SQL, "event_name IN UNNEST(@event_names)") {
			t.Error("event filter must be a bound array parameter")
		}
		if strings.Contains(q.SQL, "'purchase'") {
			t.Error("event names must never be spliced into the SQL text")
		}
		got, ok := paramValue(q, "event_names").([]string)
		if !ok || len(got) != 2 || got[0] != "purchase" || got[1] != "sign_up" {
			t.Errorf("event_names parameter = %v", paramValue(q, "event_names"))
		}
	})

	t.Run("without filter", func(t *testing.T) {
		q := b.EventMetrics(nil, 30)

		if strings.Contains(q.SQL, "UNNEST") {
			t.Error("no filter clause expected for an empty event set")
		}
		if paramValue(q, "event_names") != nil {
			t.Error("no event_names parameter expected for an empty event set")
		}
	})

	q := b.EventMetrics(nil, 30)
	if !strings.Contains(q.SQL, "ORDER BY event_count DESC") {
		t.Error("events must sort by count descending")
	}
	if !strings.Contains(q.SQL, "LIMIT 20") {
		t.Error("events must be capped at the top 20")
	}
	if got := paramValue(q, "days"); got != 30 {
		t.Errorf("days parameter = %v, want 30", got)
	}
}

func TestDailyActiveUsersQuery(t *testing.T) {
	q := newTestBuilder().DailyActiveUsers(30)

	if !strings.Contains(q.SQL, "INTERVAL @days DAY") {
		t.Error("day window must be a bound parameter")
	}
	if !strings.Contains(q.SQL, "ORDER BY date DESC") {
		t.Error("days must sort descending")
	}
}

func TestCohortRetentionQuery(t *testing.T) {
	q := newTestBuilder().CohortRetention(3)

	if got := paramValue(q, "lookback_months"); got != 12 {
		t.Errorf("first-seen lookback = %v, want fixed 12 months", got)
	}
	if got := paramValue(q, "months"); got != 3 {
		t.Errorf("months = %v, want 3", got)
	}
	if !strings.Contains(q.SQL, "MIN(PARSE_DATE('%Y%m%d', event_date)) AS first_seen_date") {
		t.Error("cohort assignment must use each user's first-seen date")
	}
	if !strings.Contains(q.SQL, "SAFE_DIVIDE(apm.active_users, mc.cohort_size)") {
		t.Error("retention must use SAFE_DIVIDE against the cohort size")
	}
	if !strings.Contains(q.SQL, "ORDER BY mc.cohort_month DESC, apm.activity_month ASC") {
		t.Error("cohorts must sort cohort month descending, activity month ascending")
	}
}

// Windows of zero or below are tolerated: the builder emits a valid query
// whose shard window simply matches today only (zero) or nothing (negative).
func TestNonPositiveWindows(t *testing.T) {
	b := newTestBuilder()

	for _, w := range []int{0, -1, -12} {
		if q := b.MonthlyActiveUsers(w); paramValue(q, "months") != w {
			t.Errorf("MonthlyActiveUsers(%d): window must pass through unchanged", w)
		}
		if q := b.DailyActiveUsers(w); paramValue(q, "days") != w {
			t.Errorf("DailyActiveUsers(%d): window must pass through unchanged", w)
		}
		if q := b.ChurnRate(w); paramValue(q, "lookback_months") != w+1 {
			t.Errorf("ChurnRate(%d): lookback must stay window+1", w)
		}
		if q := b.CohortRetention(w); paramValue(q, "lookback_months") != 12 {
			t.Errorf("CohortRetention(%d): first-seen lookback must stay fixed", w)
		}
	}
}
