package service

import (
	"testing"
	"time"
)

func TestGenerateProposedTimesCount(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	for _, count := range []int{1, 3, 5, 10} {
		times := generateProposedTimes(now, count)
		if len(times) != count {
			t.Errorf("count %d: got %d slots", count, len(times))
		}
	}
}

func TestGenerateProposedTimesNonPositiveCount(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	for _, count := range []int{0, -1, -100} {
		times := generateProposedTimes(now, count)
		if times == nil {
			t.Fatalf("count %d: got nil, want empty slice", count)
		}
		if len(times) != 0 {
			t.Errorf("count %d: got %d slots, want 0", count, len(times))
		}
	}
}

func TestGenerateProposedTimesShape(t *testing.T) {
	now := time.Date(2026, 3, 10, 22, 45, 12, 0, time.UTC)
	times := generateProposedTimes(now, 5)

	first := time.UnixMilli(times[0]).UTC()
	wantFirst := time.Date(2026, 3, 11, 19, 0, 0, 0, time.UTC)
	if !first.Equal(wantFirst) {
		t.Errorf("first slot = %v, want %v", first, wantFirst)
	}

	seenDays := make(map[string]bool)
	for i, millis := range times {
		slot := time.UnixMilli(millis).UTC()

		if i > 0 && times[i] <= times[i-1] {
			t.Errorf("slot %d (%v) not after slot %d", i, slot, i-1)
		}
		if !slot.After(now) {
			t.Errorf("slot %d (%v) not in the future of %v", i, slot, now)
		}
		if slot.Hour() != 19 || slot.Minute() != 0 || slot.Second() != 0 {
			t.Errorf("slot %d (%v) not pinned to 19:00", i, slot)
		}

		day := slot.Format("2006-01-02")
		if seenDays[day] {
			t.Errorf("slot %d repeats day %s", i, day)
		}
		seenDays[day] = true
	}
}

func TestGenerateProposedTimesDeterministic(t *testing.T) {
	now := time.Date(2026, 12, 30, 8, 0, 0, 0, time.UTC)

	a := generateProposedTimes(now, 5)
	b := generateProposedTimes(now, 5)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("slot %d differs between runs: %d vs %d", i, a[i], b[i])
		}
	}

	// Generation crosses the year boundary without skipping a day.
	second := time.UnixMilli(a[1]).UTC()
	if second.Year() != 2027 || second.Month() != time.January || second.Day() != 1 {
		t.Errorf("second slot = %v, want Jan 1 2027", second)
	}
}
