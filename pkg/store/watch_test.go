package store

import (
	"context"
	"testing"
	"time"
)

type testConfig struct {
	path string
}

func (t testConfig) BasePath() string {
	return t.path
}

func TestJournalAppendAndList(t *testing.T) {
	j, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load journal: %v", err)
	}
	ctx := context.Background()

	day1 := time.Date(2025, 8, 9, 10, 0, 0, 0, time.Local)
	day2 := time.Date(2025, 8, 10, 9, 0, 0, 0, time.Local)
	records := []*Record{
		{At: day2, Action: ActionCancel, Subject: "message 12", OK: true},
		{At: day1, Action: ActionSend, Subject: "service record 4 / contact 9", OK: true},
		{At: day1.Add(time.Minute), Action: ActionLink, Subject: "contact 9 -> vin 3", Detail: "Contact already linked to this VIN"},
	}
	for _, r := range records {
		if err := j.Append(r); err != nil {
			t.Fatalf("append: %v", err)
		}
		if r.ID == "" {
			t.Fatalf("append did not assign an id")
		}
	}

	all := j.List(ctx)
	if len(all) != 3 {
		t.Fatalf("list = %d records", len(all))
	}
	if all[0].Action != ActionSend || all[1].Action != ActionLink || all[2].Action != ActionCancel {
		t.Fatalf("order = %s %s %s", all[0].Action, all[1].Action, all[2].Action)
	}
	if all[1].OK || all[1].Detail == "" {
		t.Fatalf("failure not preserved: %+v", all[1])
	}

	days := j.Days(ctx)
	if len(days) != 2 || days[0] != "2025-08-09" || days[1] != "2025-08-10" {
		t.Fatalf("days = %v", days)
	}
	if got := j.Day(ctx, "2025-08-09"); len(got) != 2 {
		t.Fatalf("day records = %d", len(got))
	}
}

func TestJournalWatchEmitsDayChanges(t *testing.T) {
	j, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load journal: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := j.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe to directories before writing.
	time.Sleep(50 * time.Millisecond)

	at := time.Date(2025, 8, 9, 10, 0, 0, 0, time.Local)
	if err := j.Append(&Record{At: at, Action: ActionSkip, Subject: "service record 4", OK: true}); err != nil {
		t.Fatalf("append: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventInvalidated {
				return
			}
			if evt.Type == EventDayChanged {
				if evt.Day != "2025-08-09" {
					t.Fatalf("expected day 2025-08-09, got %q", evt.Day)
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for journal change event")
		}
	}
}

func TestLoadRequiresPath(t *testing.T) {
	if _, err := Load(Path("")); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := Load(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}
