package app

import (
	"context"
	"sort"
	"time"

	"tableflip.dev/pitstop/pkg/store"
)

// ReportSection groups journal records by action.
type ReportSection struct {
	Action  store.Action
	Records []*store.Record
	Failed  int
}

// ReportResult summarizes journal activity for a time window.
type ReportResult struct {
	Since    time.Time
	Until    time.Time
	Sections []ReportSection
	Total    int
	Failed   int
}

// Report returns journal records between the provided bounds, grouped by
// action in alphabetical order.
func (s *Service) Report(ctx context.Context, since, until time.Time) (ReportResult, error) {
	if since.After(until) {
		since, until = until, since
	}
	j, err := s.Journal()
	if err != nil {
		return ReportResult{}, err
	}

	out := ReportResult{Since: since, Until: until}
	grouped := make(map[store.Action]*ReportSection)
	for _, r := range j.List(ctx) {
		if r == nil || r.At.Before(since) || r.At.After(until) {
			continue
		}
		sec, ok := grouped[r.Action]
		if !ok {
			sec = &ReportSection{Action: r.Action}
			grouped[r.Action] = sec
		}
		sec.Records = append(sec.Records, r)
		out.Total++
		if !r.OK {
			sec.Failed++
			out.Failed++
		}
	}
	if len(grouped) == 0 {
		return out, nil
	}

	actions := make([]string, 0, len(grouped))
	for a := range grouped {
		actions = append(actions, string(a))
	}
	sort.Strings(actions)
	for _, a := range actions {
		out.Sections = append(out.Sections, *grouped[store.Action(a)])
	}
	return out, nil
}
