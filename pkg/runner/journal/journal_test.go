package journal

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/pitstop/pkg/api"
	"tableflip.dev/pitstop/pkg/app"
	"tableflip.dev/pitstop/pkg/compose"
	"tableflip.dev/pitstop/pkg/store"
)

func newService(t *testing.T) (*app.Service, store.Journal) {
	t.Helper()
	j, err := store.Load(store.Path(t.TempDir()))
	if err != nil {
		t.Fatalf("load journal: %v", err)
	}
	client := api.New(api.Options{BaseURL: "http://127.0.0.1:0"})
	return app.New(client, j, time.Local, compose.DefaultSignature(), time.Hour, nil), j
}

func TestJournalWithoutStore(t *testing.T) {
	client := api.New(api.Options{BaseURL: "http://127.0.0.1:0"})
	svc := app.New(client, nil, time.Local, compose.DefaultSignature(), time.Hour, nil)
	n := Journal{Service: svc}
	if err := n.Do(context.Background()); err == nil {
		t.Fatalf("expected an error without a journal")
	}
}

func TestJournalWindowAndDay(t *testing.T) {
	svc, j := newService(t)
	now := time.Date(2025, 8, 9, 12, 0, 0, 0, time.Local)
	for _, r := range []*store.Record{
		{At: now.Add(-time.Hour), Action: store.ActionSend, Subject: "service record 4 / contact 9", OK: true},
		{At: now.Add(-48 * time.Hour), Action: store.ActionCancel, Subject: "message 3", OK: true},
	} {
		if err := j.Append(r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	tests := map[string]Journal{
		"today":  {Day: ""},
		"day":    {Day: "2025-08-07"},
		"window": {Window: "3d"},
		"json":   {Window: "1d", JSON: true},
	}
	for name, n := range tests {
		t.Run(name, func(t *testing.T) {
			n.Service = svc
			n.now = func() time.Time { return now }
			if err := n.Do(context.Background()); err != nil {
				t.Fatalf("do: %v", err)
			}
		})
	}
}

func TestJournalBadWindow(t *testing.T) {
	svc, _ := newService(t)
	n := Journal{Service: svc, Window: "fortnight"}
	if err := n.Do(context.Background()); err == nil {
		t.Fatalf("expected window parse error")
	}
}
