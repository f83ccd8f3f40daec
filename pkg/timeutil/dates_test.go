package timeutil

import (
	"testing"
	"time"
)

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("zone %s unavailable: %v", name, err)
	}
	return loc
}

func TestUTCNaiveToLocalMatchesTagged(t *testing.T) {
	loc := mustZone(t, "America/Los_Angeles")
	naive, ok, err := UTCNaiveToLocal("2025-08-09T10:00:00", loc)
	if err != nil || !ok {
		t.Fatalf("naive parse: ok=%v err=%v", ok, err)
	}
	tagged, ok, err := UTCNaiveToLocal("2025-08-09T10:00:00Z", loc)
	if err != nil || !ok {
		t.Fatalf("tagged parse: ok=%v err=%v", ok, err)
	}
	if !naive.Equal(tagged) {
		t.Fatalf("expected same instant, got %v and %v", naive, tagged)
	}
	if naive.Location() != loc {
		t.Fatalf("expected result in viewer zone, got %v", naive.Location())
	}
	if naive.Hour() != 3 {
		t.Fatalf("expected 03:00 PDT, got %v", naive)
	}
}

func TestUTCNaiveToLocalVariants(t *testing.T) {
	want := time.Date(2025, time.August, 9, 10, 0, 0, 0, time.UTC)
	cases := []string{
		"2025-08-09T10:00:00",
		"2025-08-09 10:00:00",
		"2025-08-09T10:00:00.000000",
		"2025-08-09T10:00:00z",
		"2025-08-09T12:00:00+02:00",
		"2025-08-09T05:00:00-0500",
	}
	for _, in := range cases {
		got, ok, err := UTCNaiveToLocal(in, time.UTC)
		if err != nil || !ok {
			t.Fatalf("%q: ok=%v err=%v", in, ok, err)
		}
		if !got.Equal(want) {
			t.Fatalf("%q: expected %v, got %v", in, want, got)
		}
	}
}

func TestUTCNaiveToLocalEmptyAndInvalid(t *testing.T) {
	if _, ok, err := UTCNaiveToLocal("  ", time.UTC); ok || err != nil {
		t.Fatalf("expected empty to be unset without error, ok=%v err=%v", ok, err)
	}
	if _, _, err := UTCNaiveToLocal("yesterday", time.UTC); err == nil {
		t.Fatalf("expected error for garbage timestamp")
	}
}

func TestLocalDateFromYMDKeepsCalendarDay(t *testing.T) {
	for _, name := range []string{"UTC", "America/Los_Angeles", "Pacific/Honolulu", "Asia/Tokyo", "Pacific/Kiritimati"} {
		loc := mustZone(t, name)
		got, ok, err := LocalDateFromYMD("2025-01-31", loc)
		if err != nil || !ok {
			t.Fatalf("%s: ok=%v err=%v", name, ok, err)
		}
		if got.Day() != 31 || got.Month() != time.January || got.Year() != 2025 {
			t.Fatalf("%s: expected Jan 31 2025, got %v", name, got)
		}
		if got.Hour() != 0 || got.Minute() != 0 {
			t.Fatalf("%s: expected local midnight, got %v", name, got)
		}
	}
}

func TestLocalDateFromYMDInvalid(t *testing.T) {
	if _, _, err := LocalDateFromYMD("2025-13-01", time.UTC); err == nil {
		t.Fatalf("expected error for invalid month")
	}
	if _, ok, err := LocalDateFromYMD("", time.UTC); ok || err != nil {
		t.Fatalf("expected empty date to be unset")
	}
}

func TestFormatHelpers(t *testing.T) {
	d := time.Date(2025, time.August, 9, 0, 0, 0, 0, time.UTC)
	if got := FormatShortDate(d); got != "Aug 9, 2025" {
		t.Fatalf("unexpected short date %q", got)
	}
	if got := FormatLocal(time.Time{}); got != "—" {
		t.Fatalf("expected placeholder for zero time, got %q", got)
	}
	if !SameLocalDay(d, d.Add(23*time.Hour), time.UTC) {
		t.Fatalf("expected same day")
	}
}
