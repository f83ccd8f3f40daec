package shop

import (
	"bytes"
	"encoding/json"
	"time"

	"tableflip.dev/pitstop/pkg/timeutil"
)

// Timestamp is a backend timestamp. Values without a zone designator are
// naive UTC and are decoded through timeutil.UTCNaiveToLocal.
type Timestamp struct {
	time.Time
}

// In returns the instant in the viewer's zone, or the zero time when unset.
func (t Timestamp) In(loc *time.Location) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	if loc == nil {
		loc = time.Local
	}
	return t.Time.In(loc)
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, _, err := timeutil.UTCNaiveToLocal(raw, time.UTC)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// Date is a date-only backend field (YYYY-MM-DD). It has no instant; it is
// rendered as a local calendar date through timeutil.LocalDateFromYMD.
type Date struct {
	YMD string
}

// NewDate builds a Date from the calendar day of t.
func NewDate(t time.Time) Date {
	return Date{YMD: t.Format(timeutil.LayoutYMD)}
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.YMD == ""
}

// Local returns local midnight of the date in loc.
func (d Date) Local(loc *time.Location) time.Time {
	t, _, err := timeutil.LocalDateFromYMD(d.YMD, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// After reports whether d is a later calendar day than o.
func (d Date) After(o Date) bool {
	return d.Local(time.UTC).After(o.Local(time.UTC))
}

// Short renders the date as "Jan 2, 2006".
func (d Date) Short(loc *time.Location) string {
	return timeutil.FormatShortDate(d.Local(loc))
}

func (d Date) String() string {
	return d.YMD
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		d.YMD = ""
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if _, _, err := timeutil.LocalDateFromYMD(raw, time.UTC); err != nil {
		return err
	}
	d.YMD = raw
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.YMD == "" {
		return []byte("null"), nil
	}
	return json.Marshal(d.YMD)
}
