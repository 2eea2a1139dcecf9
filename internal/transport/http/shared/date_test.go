package shared

import (
	"testing"
	"time"
)

func TestParseDateBare(t *testing.T) {
	got, err := ParseDate("2026-03-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 2026 || got.Month() != time.March || got.Day() != 15 {
		t.Fatalf("wrong date: %v", got)
	}
	if got.Location() != time.Local {
		t.Fatalf("bare dates must resolve in local time, got %v", got.Location())
	}
}

func TestParseDateRFC3339(t *testing.T) {
	got, err := ParseDate("2026-03-15T09:30:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 9 || got.Minute() != 30 {
		t.Fatalf("wrong time: %v", got)
	}
}

func TestParseDateEmpty(t *testing.T) {
	got, err := ParseDate("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("expected zero time, got %v", got)
	}
}

func TestParseDateInvalid(t *testing.T) {
	if _, err := ParseDate("15/03/2026"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
