package utils

import (
	"testing"
	"time"
)

func TestEpochRoundTrip(t *testing.T) {
	instant := time.Date(2026, 8, 29, 19, 0, 0, 0, time.UTC)

	formatted := FormatEpoch(instant.UnixMilli())
	if formatted != "2026-08-29T19:00:00Z" {
		t.Errorf("FormatEpoch = %s", formatted)
	}

	millis, err := FromEpoch(formatted)
	if err != nil {
		t.Fatalf("FromEpoch failed: %v", err)
	}
	if millis != instant.UnixMilli() {
		t.Errorf("round trip = %d, want %d", millis, instant.UnixMilli())
	}
}

func TestFromEpochRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "tomorrow", "2026-08-29", "2026-08-29 19:00:00"} {
		if _, err := FromEpoch(raw); err == nil {
			t.Errorf("FromEpoch(%q) accepted", raw)
		}
	}
}

func TestFromEpochMany(t *testing.T) {
	millis, err := FromEpochMany([]string{"2026-08-29T19:00:00Z", "2026-08-30T19:00:00Z"})
	if err != nil {
		t.Fatalf("FromEpochMany failed: %v", err)
	}
	if len(millis) != 2 || millis[0] >= millis[1] {
		t.Errorf("FromEpochMany = %v", millis)
	}

	if _, err := FromEpochMany([]string{"2026-08-29T19:00:00Z", "junk"}); err == nil {
		t.Error("FromEpochMany accepted a bad element")
	}
}

func TestFormatEpochPtr(t *testing.T) {
	if FormatEpochPtr(nil) != nil {
		t.Error("nil input should stay nil")
	}

	millis := time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC).UnixMilli()
	got := FormatEpochPtr(&millis)
	if got == nil || *got != "2026-01-02T03:00:00Z" {
		t.Errorf("FormatEpochPtr = %v", got)
	}
}

func TestIsHourExact(t *testing.T) {
	exact := time.Date(2026, 8, 29, 14, 0, 0, 0, time.UTC).UnixMilli()
	if !IsHourExact(exact) {
		t.Error("14:00:00.000 reported inexact")
	}

	for _, off := range []int64{1, 999, 60_000, 1_800_000} {
		if IsHourExact(exact + off) {
			t.Errorf("offset %dms reported exact", off)
		}
	}
}

func TestSanitizeTrimsStrings(t *testing.T) {
	type req struct {
		Name  string
		Tags  []string
		Count int
	}

	r := &req{Name: "  padded  ", Tags: []string{" a ", "b"}, Count: 3}
	Sanitize(r)

	if r.Name != "padded" {
		t.Errorf("Name = %q", r.Name)
	}
	if r.Tags[0] != "a" || r.Tags[1] != "b" {
		t.Errorf("Tags = %v", r.Tags)
	}
	if r.Count != 3 {
		t.Errorf("Count = %d", r.Count)
	}
}
