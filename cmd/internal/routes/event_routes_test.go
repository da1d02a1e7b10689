package routes

import (
	"testing"
	"time"
)

func TestParseMonthString(t *testing.T) {
	start, end, err := parseMonthString("2025-08")
	if err != nil {
		t.Fatalf("parseMonthString failed: %v", err)
	}

	wantStart := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	wantEnd := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	if start != wantStart || end != wantEnd {
		t.Errorf("got [%d, %d), want [%d, %d)", start, end, wantStart, wantEnd)
	}
}

func TestParseMonthStringYearRollover(t *testing.T) {
	start, end, err := parseMonthString("2025-12")
	if err != nil {
		t.Fatalf("parseMonthString failed: %v", err)
	}

	wantStart := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	wantEnd := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	if start != wantStart || end != wantEnd {
		t.Errorf("got [%d, %d), want [%d, %d)", start, end, wantStart, wantEnd)
	}
}

func TestParseMonthStringRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "2025", "2025-13", "08-2025", "August 2025"} {
		if _, _, err := parseMonthString(bad); err == nil {
			t.Errorf("parseMonthString(%q) accepted", bad)
		}
	}
}
