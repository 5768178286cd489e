// Berry Analytics - Product analytics API over the Firebase BigQuery export
// Copyright 2026 Berry Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/berrylabs/berry-analytics

package analytics

import (
	"testing"

	"github.com/berrylabs/berry-analytics/internal/warehouse"
)

func TestDeriveMoM(t *testing.T) {
	// Four months of active users, newest first.
	rows := []warehouse.Row{
		{"month": "2026-08", "active_users": int64(100)},
		{"month": "2026-07", "active_users": int64(90)},
		{"month": "2026-06", "active_users": int64(80)},
		{"month": "2026-05", "active_users": int64(70)},
	}

	entries := deriveMoM(rows)
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}

	wantGrowth := []string{"11.11", "12.50", "14.29"}
	for i, want := range wantGrowth {
		if entries[i].GrowthPercentage == nil {
			t.Fatalf("entry %d: expected growth %s, got nil", i, want)
		}
		if *entries[i].GrowthPercentage != want {
			t.Errorf("entry %d: expected growth %s, got %s", i, want, *entries[i].GrowthPercentage)
		}
		if entries[i].PreviousMonthUsers == nil {
			t.Fatalf("entry %d: expected previous month users, got nil", i)
		}
	}

	last := entries[3]
	if last.GrowthPercentage != nil {
		t.Errorf("earliest month should have nil growth, got %s", *last.GrowthPercentage)
	}
	if last.PreviousMonthUsers != nil {
		t.Errorf("earliest month should have nil previous users, got %d", *last.PreviousMonthUsers)
	}
	if last.Month != "2026-05" || last.ActiveUsers != 70 {
		t.Errorf("unexpected earliest entry: %+v", last)
	}
}

func TestDeriveMoMEmptyRows(t *testing.T) {
	entries := deriveMoM([]warehouse.Row{})
	if entries == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}

func TestDeriveMoMSingleRow(t *testing.T) {
	entries := deriveMoM([]warehouse.Row{
		{"month": "2026-08", "active_users": int64(42)},
	})
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].GrowthPercentage != nil || entries[0].PreviousMonthUsers != nil {
		t.Error("single row has no predecessor; growth and previous must be nil")
	}
}

func TestGrowthPercentage(t *testing.T) {
	tests := []struct {
		name     string
		current  int64
		previous int64
		want     string
		wantNil  bool
	}{
		{"simple growth", 110, 100, "10.00", false},
		{"repeating decimal rounds", 100, 90, "11.11", false},
		{"half rounds away from zero", 33, 32, "3.13", false},
		{"decline", 80, 100, "-20.00", false},
		{"no change", 50, 50, "0.00", false},
		{"zero previous yields nil", 10, 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := growthPercentage(tt.current, tt.previous)
			if tt.wantNil {
				if got != nil {
					t.Errorf("expected nil, got %s", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %s, got nil", tt.want)
			}
			if *got != tt.want {
				t.Errorf("growthPercentage(%d, %d) = %s, want %s", tt.current, tt.previous, *got, tt.want)
			}
		})
	}
}

func TestDecodeChurn(t *testing.T) {
	rate := 25.0
	rows := []warehouse.Row{
		{"month": "2026-08", "active_users": int64(200), "churned_users": int64(50), "churn_rate": rate},
		{"month": "2026-07", "active_users": int64(0), "churned_users": int64(0), "churn_rate": nil},
	}

	entries := decodeChurn(rows)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ChurnRate == nil || *entries[0].ChurnRate != 25.0 {
		t.Errorf("expected churn rate 25.00, got %v", entries[0].ChurnRate)
	}
	if entries[1].ChurnRate != nil {
		t.Errorf("NULL churn rate must decode as nil, got %v", *entries[1].ChurnRate)
	}
}

func TestDecodeCohorts(t *testing.T) {
	rows := []warehouse.Row{
		{
			"cohort_month":   "2026-06",
			"cohort_size":    int64(100),
			"activity_month": "2026-07",
			"active_users":   int64(25),
			"retention_rate": 25.0,
		},
		{
			"cohort_month":   "2026-07",
			"cohort_size":    int64(0),
			"activity_month": "2026-08",
			"active_users":   int64(0),
			"retention_rate": nil,
		},
	}

	entries := decodeCohorts(rows)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].RetentionRate == nil || *entries[0].RetentionRate != 25.0 {
		t.Errorf("retention for 25/100 must be 25.00, got %v", entries[0].RetentionRate)
	}
	if entries[1].RetentionRate != nil {
		t.Errorf("empty cohort must decode a nil retention rate, got %v", *entries[1].RetentionRate)
	}
}

func TestDecodeEventsAndDAUEmpty(t *testing.T) {
	if got := decodeEvents(nil); got == nil || len(got) != 0 {
		t.Errorf("decodeEvents(nil) should be an empty slice, got %v", got)
	}
	if got := decodeDAU(nil); got == nil || len(got) != 0 {
		t.Errorf("decodeDAU(nil) should be an empty slice, got %v", got)
	}
	if got := decodeChurn(nil); got == nil || len(got) != 0 {
		t.Errorf("decodeChurn(nil) should be an empty slice, got %v", got)
	}
	if got := decodeCohorts(nil); got == nil || len(got) != 0 {
		t.Errorf("decodeCohorts(nil) should be an empty slice, got %v", got)
	}
}

func TestValueCoercion(t *testing.T) {
	if got := intValue(float64(12)); got != 12 {
		t.Errorf("intValue(float64) = %d, want 12", got)
	}
	if got := intValue(nil); got != 0 {
		t.Errorf("intValue(nil) = %d, want 0", got)
	}
	if got := stringValue(nil); got != "" {
		t.Errorf("stringValue(nil) = %q, want empty", got)
	}
	if got := stringValue("2026-08-01"); got != "2026-08-01" {
		t.Errorf("stringValue(string) = %q", got)
	}
	if got := floatValue(int64(3)); got == nil || *got != 3.0 {
		t.Errorf("floatValue(int64) = %v, want 3.0", got)
	}
	if got := floatValue("not a number"); got != nil {
		t.Errorf("floatValue(string) = %v, want nil", got)
	}
}
