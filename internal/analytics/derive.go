// Berry Analytics - Product analytics API over the Firebase BigQuery export
// Copyright 2026 Berry Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/berrylabs/berry-analytics

package analytics

import (
	"fmt"
	"math"
	"strconv"

	"github.com/berrylabs/berry-analytics/internal/models"
	"github.com/berrylabs/berry-analytics/internal/warehouse"
)

// deriveMoM is the only cross-row derivation in the system. Rows arrive
// sorted descending by month, so the chronological predecessor of row i is
// row i+1. The last row (earliest month) keeps nil previous/growth as the
// "no prior data" sentinel.
func deriveMoM(rows []warehouse.Row) []models.MoMEntry {
	entries := make([]models.MoMEntry, 0, len(rows))
	for i, row := range rows {
		entry := models.MoMEntry{
			Month:       stringValue(row["month"]),
			ActiveUsers: intValue(row["active_users"]),
		}
		if i < len(rows)-1 {
			previous := intValue(rows[i+1]["active_users"])
			entry.PreviousMonthUsers = &previous
			entry.GrowthPercentage = growthPercentage(entry.ActiveUsers, previous)
		}
		entries = append(entries, entry)
	}
	return entries
}

// growthPercentage formats ((current-previous)/previous)*100 with exactly
// two decimal places, rounding half away from zero. A zero previous count
// yields nil instead of a division fault.
func growthPercentage(current, previous int64) *string {
	if previous == 0 {
		return nil
	}
	growth := (float64(current-previous) / float64(previous)) * 100
	rounded := math.Round(growth*100) / 100
	s := strconv.FormatFloat(rounded, 'f', 2, 64)
	return &s
}

// decodeChurn passes churn rows through with type normalization only; the
// classification and rounding already happened warehouse-side.
func decodeChurn(rows []warehouse.Row) []models.ChurnEntry {
	entries := make([]models.ChurnEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.ChurnEntry{
			Month:        stringValue(row["month"]),
			ActiveUsers:  intValue(row["active_users"]),
			ChurnedUsers: intValue(row["churned_users"]),
			ChurnRate:    floatValue(row["churn_rate"]),
		})
	}
	return entries
}

func decodeEvents(rows []warehouse.Row) []models.EventEntry {
	entries := make([]models.EventEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.EventEntry{
			EventName:   stringValue(row["event_name"]),
			EventCount:  intValue(row["event_count"]),
			UniqueUsers: intValue(row["unique_users"]),
		})
	}
	return entries
}

func decodeDAU(rows []warehouse.Row) []models.DAUEntry {
	entries := make([]models.DAUEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.DAUEntry{
			Date:        stringValue(row["date"]),
			ActiveUsers: intValue(row["active_users"]),
		})
	}
	return entries
}

func decodeCohorts(rows []warehouse.Row) []models.CohortEntry {
	entries := make([]models.CohortEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.CohortEntry{
			CohortMonth:   stringValue(row["cohort_month"]),
			CohortSize:    intValue(row["cohort_size"]),
			ActivityMonth: stringValue(row["activity_month"]),
			ActiveUsers:   intValue(row["active_users"]),
			RetentionRate: floatValue(row["retention_rate"]),
		})
	}
	return entries
}

// stringValue coerces a normalized warehouse scalar to string.
func stringValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

// intValue coerces a normalized warehouse scalar to int64. BigQuery counts
// arrive as int64; stubs and JSON round-trips may hand over other widths.
func intValue(v interface{}) int64 {
	switch val := v.(type) {
	case int64:
		return val
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case float64:
		return int64(val)
	default:
		return 0
	}
}

// floatValue coerces a nullable numeric column. nil stays nil, which
// serializes as JSON null (the zero-denominator sentinel).
func floatValue(v interface{}) *float64 {
	switch val := v.(type) {
	case nil:
		return nil
	case float64:
		return &val
	case int64:
		f := float64(val)
		return &f
	case int:
		f := float64(val)
		return &f
	default:
		return nil
	}
}
