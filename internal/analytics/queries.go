// Berry Analytics - Product analytics API over the Firebase BigQuery export
// Copyright 2026 Berry Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/berrylabs/berry-analytics

package analytics

import (
	"fmt"

	"github.com/berrylabs/berry-analytics/internal/warehouse"
)

// Window defaults per metric. The HTTP layer applies these when a request
// omits the parameter or sends something unparseable; they are duplicated
// here so engine callers outside the HTTP layer get the same behavior.
const (
	DefaultMoMMonths    = 6
	DefaultChurnMonths  = 6
	DefaultEventDays    = 30
	DefaultDAUDays      = 30
	DefaultCohortMonths = 3

	// cohortLookbackMonths is the fixed window for first-seen detection.
	// A user's cohort is their first activity within the last year,
	// regardless of the requested cohort window.
	cohortLookbackMonths = 12

	// eventLimit caps the events endpoint at the top N by count.
	eventLimit = 20
)

// QueryBuilder produces parameterized BigQuery SQL for each metric over the
// date-sharded events export (events_YYYYMMDD). All caller-supplied values
// are bound parameters; only the validated project/dataset identifiers are
// interpolated, because table paths cannot be parameterized.
//
// Every query bounds its scan with a _TABLE_SUFFIX window ending at today's
// shard. Suffix comparison is string-based on the 8-digit %Y%m%d form, so
// windows are always whole months or days. A window <= 0 never errors: zero
// scans only today's shard, negative windows produce a lower bound past
// today and match nothing.
type QueryBuilder struct {
	eventsTable string
}

// NewQueryBuilder builds a QueryBuilder for one project/dataset pair. The
// identifiers must already be whitelist-validated (config.Validate).
func NewQueryBuilder(projectID, datasetID string) *QueryBuilder {
	return &QueryBuilder{
		eventsTable: fmt.Sprintf("`%s.%s.events_*`", projectID, datasetID),
	}
}

// shardWindow renders the _TABLE_SUFFIX range clause for a bound window
// parameter. unit is MONTH or DAY.
func shardWindow(param, unit string) string {
	return "_TABLE_SUFFIX BETWEEN FORMAT_DATE('%Y%m%d', DATE_SUB(CURRENT_DATE(), INTERVAL " + param + " " + unit + "))" +
		"\n      AND FORMAT_DATE('%Y%m%d', CURRENT_DATE())"
}

// MonthlyActiveUsers counts distinct users per calendar month, newest month
// first. Feeds the MoM growth deriver.
func (b *QueryBuilder) MonthlyActiveUsers(months int) warehouse.Query {
	sql := `
SELECT
  FORMAT_DATE('%Y-%m', PARSE_DATE('%Y%m%d', event_date)) AS month,
  COUNT(DISTINCT user_pseudo_id) AS active_users
FROM ` + b.eventsTable + `
WHERE ` + shardWindow("@months", "MONTH") + `
GROUP BY month
ORDER BY month DESC`

	return warehouse.Query{
		SQL: sql,
		Parameters: []warehouse.Parameter{
			{Name: "months", Value: months},
		},
	}
}

// ChurnRate classifies, per month, which active users never came back within
// one calendar month. The scan window is one month wider than the requested
// window so the newest requested month still sees its successor; the final
// filter trims back to @months.
//
// A user active in month M churns in M when LEAD() finds no later month, or
// when the gap to the next active month exceeds exactly one calendar month.
// SAFE_DIVIDE yields NULL instead of a division fault for empty months.
func (b *QueryBuilder) ChurnRate(months int) warehouse.Query {
	sql := `
WITH monthly_users AS (
  SELECT
    FORMAT_DATE('%Y-%m', PARSE_DATE('%Y%m%d', event_date)) AS month,
    user_pseudo_id
  FROM ` + b.eventsTable + `
  WHERE ` + shardWindow("@lookback_months", "MONTH") + `
  GROUP BY month, user_pseudo_id
),
user_activity AS (
  SELECT
    month,
    user_pseudo_id,
    LEAD(month) OVER (PARTITION BY user_pseudo_id ORDER BY month) AS next_month
  FROM monthly_users
),
churn_calculation AS (
  SELECT
    month,
    COUNT(DISTINCT user_pseudo_id) AS active_users,
    COUNT(DISTINCT CASE
      WHEN next_month IS NULL OR
           DATE_DIFF(PARSE_DATE('%Y-%m', next_month), PARSE_DATE('%Y-%m', month), MONTH) > 1
      THEN user_pseudo_id
    END) AS churned_users
  FROM user_activity
  WHERE month >= FORMAT_DATE('%Y-%m', DATE_SUB(CURRENT_DATE(), INTERVAL @months MONTH))
  GROUP BY month
)
SELECT
  month,
  active_users,
  churned_users,
  ROUND(SAFE_DIVIDE(churned_users, active_users) * 100, 2) AS churn_rate
FROM churn_calculation
ORDER BY month DESC`

	return warehouse.Query{
		SQL: sql,
		Parameters: []warehouse.Parameter{
			{Name: "lookback_months", Value: months + 1},
			{Name: "months", Value: months},
		},
	}
}

// EventMetrics aggregates count and distinct users per event name over a day
// window, top 20 by count. A non-empty filter becomes a bound IN UNNEST
// inclusion list; empty means all events.
func (b *QueryBuilder) EventMetrics(eventNames []string, days int) warehouse.Query {
	params := []warehouse.Parameter{
		{Name: "days", Value: days},
	}

	eventFilter := ""
	if len(eventNames) > 0 {
		eventFilter = "\n  AND event_name IN UNNEST(@event_names)"
		params = append(params, warehouse.Parameter{Name: "event_names", Value: eventNames})
	}

	sql := `
SELECT
  event_name,
  COUNT(*) AS event_count,
  COUNT(DISTINCT user_pseudo_id) AS unique_users
FROM ` + b.eventsTable + `
WHERE ` + shardWindow("@days", "DAY") + eventFilter + `
GROUP BY event_name
ORDER BY event_count DESC
LIMIT ` + fmt.Sprint(eventLimit)

	return warehouse.Query{SQL: sql, Parameters: params}
}

// DailyActiveUsers counts distinct users per calendar day, newest day first.
func (b *QueryBuilder) DailyActiveUsers(days int) warehouse.Query {
	sql := `
SELECT
  PARSE_DATE('%Y%m%d', event_date) AS date,
  COUNT(DISTINCT user_pseudo_id) AS active_users
FROM ` + b.eventsTable + `
WHERE ` + shardWindow("@days", "DAY") + `
GROUP BY date
ORDER BY date DESC`

	return warehouse.Query{
		SQL: sql,
		Parameters: []warehouse.Parameter{
			{Name: "days", Value: days},
		},
	}
}

// CohortRetention is the staged cohort computation: first-seen date per user
// within a fixed 12-month lookback, monthly cohorts restricted to the
// requested window, then distinct active users per (cohort, activity month).
// retention_rate is NULL for an empty cohort via SAFE_DIVIDE.
func (b *QueryBuilder) CohortRetention(months int) warehouse.Query {
	sql := `
WITH first_activity AS (
  SELECT
    user_pseudo_id,
    MIN(PARSE_DATE('%Y%m%d', event_date)) AS first_seen_date
  FROM ` + b.eventsTable + `
  WHERE ` + shardWindow("@lookback_months", "MONTH") + `
  GROUP BY user_pseudo_id
),
monthly_cohorts AS (
  SELECT
    FORMAT_DATE('%Y-%m', first_seen_date) AS cohort_month,
    COUNT(DISTINCT user_pseudo_id) AS cohort_size
  FROM first_activity
  WHERE first_seen_date >= DATE_SUB(CURRENT_DATE(), INTERVAL @months MONTH)
  GROUP BY cohort_month
),
active_users_per_month AS (
  SELECT
    FORMAT_DATE('%Y-%m', fa.first_seen_date) AS cohort_month,
    FORMAT_DATE('%Y-%m', PARSE_DATE('%Y%m%d', e.event_date)) AS activity_month,
    COUNT(DISTINCT e.user_pseudo_id) AS active_users
  FROM ` + b.eventsTable + ` e
  JOIN first_activity fa ON e.user_pseudo_id = fa.user_pseudo_id
  WHERE ` + shardWindow("@lookback_months", "MONTH") + `
    AND fa.first_seen_date >= DATE_SUB(CURRENT_DATE(), INTERVAL @months MONTH)
  GROUP BY cohort_month, activity_month
)
SELECT
  mc.cohort_month,
  mc.cohort_size,
  apm.activity_month,
  apm.active_users,
  ROUND(SAFE_DIVIDE(apm.active_users, mc.cohort_size) * 100, 2) AS retention_rate
FROM monthly_cohorts mc
JOIN active_users_per_month apm ON mc.cohort_month = apm.cohort_month
ORDER BY mc.cohort_month DESC, apm.activity_month ASC`

	return warehouse.Query{
		SQL: sql,
		Parameters: []warehouse.Parameter{
			{Name: "lookback_months", Value: cohortLookbackMonths},
			{Name: "months", Value: months},
		},
	}
}
