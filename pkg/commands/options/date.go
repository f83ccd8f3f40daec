package options

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/pitstop/pkg/timeutil"
)

const (
	layoutISOShort = "1/2"
)

// DateOptions selects one local calendar day for message and cost queries.
type DateOptions struct {
	Date  string
	Since string
}

func AddDateArgs(cmd *cobra.Command, o *DateOptions) {
	cmd.Flags().StringVar(&o.Date, "date", "",
		`Only this day, example: --date="2025-08-09" or --date="8/9".`)
}

func AddSinceArgs(cmd *cobra.Command, o *DateOptions) {
	cmd.Flags().StringVar(&o.Since, "since", "",
		`Look back a window instead of a day, example: --since=1w or --since="3 days".`)
}

// Filter resolves the flags into a YYYY-MM-DD filter, or "" for all dates.
func (o *DateOptions) Filter(now time.Time, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.Local
	}
	if o.Date != "" && o.Since != "" {
		return "", errors.New("use --date or --since, not both")
	}
	if o.Since != "" {
		return timeutil.SinceDate(o.Since, now, loc)
	}
	if o.Date == "" {
		return "", nil
	}
	if t, ok, err := timeutil.LocalDateFromYMD(o.Date, loc); err == nil && ok {
		return t.Format(timeutil.LayoutYMD), nil
	}
	t, err := time.ParseInLocation(layoutISOShort, o.Date, loc)
	if err != nil {
		return "", errors.New("invalid date, use YYYY-MM-DD or M/D")
	}
	now = now.In(loc)
	t = t.AddDate(now.Year(), 0, 0)
	// A month/day later than today means last year's.
	if t.After(now) {
		t = t.AddDate(-1, 0, 0)
	}
	return t.Format(timeutil.LayoutYMD), nil
}
