package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultWindow is the look-back used by --since when no value is given.
	DefaultWindow = "1w"
)

var (
	windowPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	unitMap       = map[string]time.Duration{
		"h":     time.Hour,
		"hr":    time.Hour,
		"hrs":   time.Hour,
		"hour":  time.Hour,
		"hours": time.Hour,
		"d":     24 * time.Hour,
		"day":   24 * time.Hour,
		"days":  24 * time.Hour,
		"w":     7 * 24 * time.Hour,
		"wk":    7 * 24 * time.Hour,
		"wks":   7 * 24 * time.Hour,
		"week":  7 * 24 * time.Hour,
		"weeks": 7 * 24 * time.Hour,
	}
)

// ParseWindow parses a look-back such as "1w", "3d" or "1w2d" into a duration
// and a compact canonical label.
func ParseWindow(input string) (time.Duration, string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		trimmed = DefaultWindow
	}

	remaining := strings.ToLower(trimmed)
	total := time.Duration(0)
	for len(remaining) > 0 {
		matches := windowPattern.FindStringSubmatch(remaining)
		if len(matches) != 3 {
			return 0, "", fmt.Errorf("invalid window segment %q", strings.TrimSpace(remaining))
		}
		value, err := strconv.ParseInt(matches[1], 10, 64)
		if err != nil {
			return 0, "", fmt.Errorf("invalid window value %q: %w", matches[1], err)
		}
		base, ok := unitMap[matches[2]]
		if !ok {
			return 0, "", fmt.Errorf("unsupported window unit %q", matches[2])
		}
		total += time.Duration(value) * base
		remaining = remaining[len(matches[0]):]
	}

	if total <= 0 {
		return 0, "", fmt.Errorf("window must be greater than zero")
	}
	return total, FormatWindow(total), nil
}

// FormatWindow renders a duration with w/d/h tokens.
func FormatWindow(d time.Duration) string {
	if d < time.Hour {
		return "0h"
	}
	units := []struct {
		label string
		value time.Duration
	}{
		{"w", 7 * 24 * time.Hour},
		{"d", 24 * time.Hour},
		{"h", time.Hour},
	}
	var b strings.Builder
	remaining := d
	for _, u := range units {
		if remaining < u.value {
			continue
		}
		count := remaining / u.value
		remaining -= count * u.value
		fmt.Fprintf(&b, "%d%s", count, u.label)
	}
	return b.String()
}

// SinceDate converts a look-back window into the YYYY-MM-DD date filter the
// message endpoints accept, anchored on now in loc.
func SinceDate(window string, now time.Time, loc *time.Location) (string, error) {
	d, _, err := ParseWindow(window)
	if err != nil {
		return "", err
	}
	if loc == nil {
		loc = time.Local
	}
	return now.In(loc).Add(-d).Format(LayoutYMD), nil
}
