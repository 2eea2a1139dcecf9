package reports

import (
	"testing"
	"time"
)

func TestMergeMonthly(t *testing.T) {
	revenue := map[string]float64{"2026-01": 1200, "2026-03": 900}
	expenses := map[string]float64{"2026-01": 400, "2026-02": 150}

	got := MergeMonthly(revenue, expenses)
	if len(got) != 3 {
		t.Fatalf("expected 3 months, got %d", len(got))
	}
	if got[0].Month != "2026-01" || got[1].Month != "2026-02" || got[2].Month != "2026-03" {
		t.Fatalf("months out of order: %+v", got)
	}
	if got[0].Net != 800 {
		t.Fatalf("expected January net 800, got %v", got[0].Net)
	}
	if got[1].Revenue != 0 || got[1].Expenses != 150 {
		t.Fatalf("expected February revenue 0 / expenses 150, got %+v", got[1])
	}
}

func TestMergeMonthlyEmpty(t *testing.T) {
	if got := MergeMonthly(nil, nil); len(got) != 0 {
		t.Fatalf("expected empty series, got %+v", got)
	}
}

func TestRetentionRate(t *testing.T) {
	if got := RetentionRate(30, 100); got != 0.3 {
		t.Fatalf("expected 0.3, got %v", got)
	}
	if got := RetentionRate(0, 0); got != 0 {
		t.Fatalf("expected 0 for empty client base, got %v", got)
	}
}

func TestMonthKey(t *testing.T) {
	ts := time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC)
	if got := MonthKey(ts); got != "2026-02" {
		t.Fatalf("expected 2026-02, got %q", got)
	}
}
