package pickupview

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/pitstop/pkg/api"
	"tableflip.dev/pitstop/pkg/app"
	"tableflip.dev/pitstop/pkg/compose"
	"tableflip.dev/pitstop/pkg/pickup"
	"tableflip.dev/pitstop/pkg/shop"
)

type backend struct {
	mu    sync.Mutex
	sends []shop.SendRequest
	fail  map[int]bool
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestModel(t *testing.T, withVin bool) (*Model, *backend) {
	t.Helper()
	b := &backend{fail: map[int]bool{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/service-record/4", func(w http.ResponseWriter, r *http.Request) {
		sr := map[string]any{
			"id":                       4,
			"service_date":             "2025-08-09",
			"mileage_at_service":       40000,
			"oil_type":                 "full synthetic",
			"oil_viscosity":            "0W-20",
			"next_service_date_due":    "2025-11-09",
			"next_service_mileage_due": 45000,
		}
		if withVin {
			sr["vin"] = map[string]any{
				"id": 3, "vin": "1HGCM82633A004352", "make": "Honda", "model": "Accord", "year": 2003,
				"contacts": []any{
					map[string]any{"id": 9, "name": "Ana", "phone_number": "5551234567"},
					map[string]any{"id": 10, "name": "Ben", "phone_number": "5559876543"},
				},
			}
		}
		writeJSON(w, http.StatusOK, sr)
	})
	mux.HandleFunc("/messages/service-record/4/pickup-sent", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"pickup_sent": false})
	})
	mux.HandleFunc("/messages/send", func(w http.ResponseWriter, r *http.Request) {
		var req shop.SendRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		b.sends = append(b.sends, req)
		fail := b.fail[req.ContactID]
		b.mu.Unlock()
		if fail {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Twilio unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "sms_sent": true, "reminder_scheduled": true})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := api.New(api.Options{BaseURL: srv.URL})
	svc := app.New(client, nil, time.UTC, compose.DefaultSignature(), time.Hour, nil)
	m := New(svc, 4)
	t.Cleanup(m.shutdown)
	return m, b
}

func drain(t *testing.T, m *Model, cmds ...tea.Cmd) *Model {
	t.Helper()
	queue := append([]tea.Cmd(nil), cmds...)
	for len(queue) > 0 {
		cmd := queue[0]
		queue = queue[1:]
		if cmd == nil {
			continue
		}
		done := make(chan tea.Msg, 1)
		go func() { done <- cmd() }()
		var msg tea.Msg
		select {
		case msg = <-done:
		case <-time.After(500 * time.Millisecond):
			continue
		}
		switch v := msg.(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, []tea.Cmd(v)...)
		case tea.QuitMsg:
		default:
			next, nextCmd := m.Update(v)
			m = next.(*Model)
			if nextCmd != nil {
				queue = append(queue, nextCmd)
			}
		}
	}
	return m
}

func press(t *testing.T, m *Model, key string) *Model {
	t.Helper()
	var msg tea.KeyPressMsg
	switch key {
	case "enter":
		msg = tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		msg = tea.KeyPressMsg{Code: tea.KeyEscape}
	default:
		msg = tea.KeyPressMsg{Code: []rune(key)[0], Text: key}
	}
	next, cmd := m.Update(msg)
	return drain(t, next.(*Model), cmd)
}

func TestMissingVinShowsError(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = drain(t, m, m.Init())

	if m.flow.State() != pickup.Failed {
		t.Fatalf("state = %s", m.flow.State())
	}
	if !strings.Contains(m.View(), "VIN data is missing from the service record.") {
		t.Fatalf("view:\n%s", m.View())
	}
}

func TestComposeAndSend(t *testing.T) {
	m, b := newTestModel(t, true)
	m = drain(t, m, m.Init())

	m = press(t, m, "j")
	m = press(t, m, "enter")
	if m.mode != modeCompose {
		t.Fatalf("mode = %d", m.mode)
	}
	if !strings.HasPrefix(m.editor.Value(), "Hi Ben, your Honda Accord is ready!") {
		t.Fatalf("draft = %q", m.editor.Value())
	}
	m = press(t, m, "enter")

	if len(b.sends) != 1 || b.sends[0].ContactID != 10 || b.sends[0].ServiceRecordID != 4 {
		t.Fatalf("sends = %+v", b.sends)
	}
	if m.mode != modeDone || m.summary != compose.SentViaSMS {
		t.Fatalf("mode %d summary %q", m.mode, m.summary)
	}
	if m.result.Handoff == nil || m.result.Handoff.VinString != "1HGCM82633A004352" {
		t.Fatalf("handoff = %+v", m.result.Handoff)
	}
	m = press(t, m, "v")
	if !m.Result().OpenVin {
		t.Fatalf("open vin not recorded")
	}
}

func TestSendAllReportsFailures(t *testing.T) {
	m, b := newTestModel(t, true)
	b.fail[9] = true
	m = drain(t, m, m.Init())

	m = press(t, m, "a")
	if m.mode != modeConfirmAll || !strings.Contains(m.View(), "send pickup messages to all 2 contacts") {
		t.Fatalf("confirm not shown:\n%s", m.View())
	}
	m = press(t, m, "y")

	if len(b.sends) != 2 {
		t.Fatalf("sends = %d", len(b.sends))
	}
	if m.summary != "Messages sent to 2 contacts! (1 failed)" {
		t.Fatalf("summary = %q", m.summary)
	}
}

func TestSkipDeclinedThenConfirmed(t *testing.T) {
	m, b := newTestModel(t, true)
	m = drain(t, m, m.Init())

	m = press(t, m, "s")
	m = press(t, m, "n")
	if m.mode != modeList || m.result.Skipped {
		t.Fatalf("decline left mode %d skipped %v", m.mode, m.result.Skipped)
	}
	m = press(t, m, "s")
	m = press(t, m, "y")
	if !m.result.Skipped || m.flow.State() != pickup.Skipped {
		t.Fatalf("skip not applied: %s", m.flow.State())
	}
	if len(b.sends) != 0 {
		t.Fatalf("skip sent messages")
	}
}
