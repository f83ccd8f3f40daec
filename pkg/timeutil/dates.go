// Package timeutil normalizes the date and timestamp strings produced by the
// shop backend for display in the viewer's local time zone.
package timeutil

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// LayoutYMD is the date-only wire format ("2025-08-09").
	LayoutYMD = "2006-01-02"
	// LayoutShort is the human format used in SMS templates ("Aug 9, 2025").
	LayoutShort = "Jan 2, 2006"
	// LayoutLocal is the display format for timestamps.
	LayoutLocal = "Jan 2, 2006 3:04 PM"
)

var (
	// A trailing Z or numeric offset means the backend already tagged the zone.
	zoneSuffix = regexp.MustCompile(`([zZ]|[+-]\d{2}:?\d{2})$`)

	naiveLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
	}
	zonedLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999Z0700",
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02 15:04:05.999999999Z0700",
	}
)

// HasZone reports whether s carries a Z or ±hh:mm / ±hhmm suffix.
func HasZone(s string) bool {
	return zoneSuffix.MatchString(strings.TrimSpace(s))
}

// LocalDateFromYMD parses a YYYY-MM-DD string as midnight in loc. Parsing as
// UTC midnight and converting would land on the previous day west of UTC.
// An empty string returns ok=false and no error.
func LocalDateFromYMD(s string, loc *time.Location) (t time.Time, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err = time.ParseInLocation(LayoutYMD, s, loc)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("timeutil: invalid date %q: %w", s, err)
	}
	return t, true, nil
}

// UTCNaiveToLocal parses a backend timestamp. Strings without a zone are
// naive UTC; strings with one are parsed as-is. The result is expressed in loc.
func UTCNaiveToLocal(s string, loc *time.Location) (t time.Time, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, nil
	}
	if loc == nil {
		loc = time.Local
	}
	if strings.HasSuffix(s, "z") {
		s = s[:len(s)-1] + "Z"
	}
	zoned := HasZone(s)
	layouts := naiveLayouts
	if zoned {
		layouts = zonedLayouts
	}
	for _, layout := range layouts {
		var parsed time.Time
		var perr error
		if zoned {
			parsed, perr = time.Parse(layout, s)
		} else {
			parsed, perr = time.ParseInLocation(layout, s, time.UTC)
		}
		if perr == nil {
			return parsed.In(loc), true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("timeutil: invalid timestamp %q", s)
}

// FormatShortDate renders a local calendar date as "Jan 2, 2006".
func FormatShortDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(LayoutShort)
}

// FormatLocal renders a timestamp for list views, or "—" when unset.
func FormatLocal(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format(LayoutLocal)
}

// SameLocalDay reports whether a and b fall on the same calendar day in loc.
func SameLocalDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
