package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tableflip.dev/pitstop/pkg/shop"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Options{BaseURL: srv.URL + "/", Timeout: time.Second})
}

func TestCall_Success(t *testing.T) {
	t.Parallel()

	var method, contentType, path string
	var body []byte
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		path = r.URL.Path
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"sms_sent":true}`))
	})

	res := c.Call(context.Background(), http.MethodPost, "/messages/send", shop.SendRequest{ServiceRecordID: 4, ContactID: 9, ImmediateMessageContent: "hi"})
	if !res.OK || res.Err != nil {
		t.Fatalf("Call() = %+v, want success", res)
	}
	if method != http.MethodPost || path != "/messages/send" {
		t.Fatalf("got %s %s", method, path)
	}
	if contentType != "application/json" {
		t.Fatalf("Content-Type = %q", contentType)
	}
	var sent map[string]any
	if err := json.Unmarshal(body, &sent); err != nil {
		t.Fatalf("request body: %v", err)
	}
	if sent["service_record_id"] != float64(4) || sent["contact_id"] != float64(9) || sent["immediate_message_content"] != "hi" {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestCall_ErrorDetail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{"structured", http.StatusBadRequest, `{"detail":"Contact already linked to this VIN"}`, "Contact already linked to this VIN"},
		{"text", http.StatusBadGateway, "upstream down", "upstream down"},
		{"empty", http.StatusNotFound, "", "HTTP Error: 404"},
		{"list detail", http.StatusUnprocessableEntity, `{"detail":[{"msg":"bad"}]}`, `[{"msg":"bad"}]`},
		{"json without detail", http.StatusInternalServerError, `{"error":"boom"}`, `{"error":"boom"}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			res := c.Call(context.Background(), http.MethodGet, "/x", nil)
			if res.OK {
				t.Fatalf("expected failure")
			}
			if res.Err.Status != tt.status {
				t.Fatalf("status = %d, want %d", res.Err.Status, tt.status)
			}
			if res.Err.Detail != tt.wantDetail {
				t.Fatalf("detail = %q, want %q", res.Err.Detail, tt.wantDetail)
			}
		})
	}
}

func TestCall_NetworkFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	c := New(Options{BaseURL: base, Timeout: time.Second})
	res := c.Call(context.Background(), http.MethodGet, "/messages/inbound", nil)
	if res.OK {
		t.Fatalf("expected failure")
	}
	if res.Err.Status != 0 || res.Err.Detail != NetworkErrorDetail {
		t.Fatalf("got %+v", res.Err)
	}
	if !res.Err.Network() {
		t.Fatalf("Network() = false")
	}
}

func TestDecodeFailureBecomesResult(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"unread_count":"many"}`))
	})
	_, res := c.UnreadCount(context.Background())
	if res.OK || res.Err == nil || res.Err.Status != 0 {
		t.Fatalf("expected status-0 decode failure, got %+v", res)
	}
}

func TestOutbound_DateFilterOmittedWhenEmpty(t *testing.T) {
	t.Parallel()

	var rawQuery string
	var hasDate bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, hasDate = r.URL.Query()["date"]
		_, _ = w.Write([]byte(`{"messages":[],"total_messages":0,"date_filter":null}`))
	})

	if _, res := c.Outbound(context.Background(), "pickup-messages", ""); !res.OK {
		t.Fatalf("Outbound: %+v", res.Err)
	}
	if hasDate || rawQuery != "" {
		t.Fatalf("date param sent for all-time filter: %q", rawQuery)
	}

	if _, res := c.Outbound(context.Background(), "pickup-messages", "2025-08-09"); !res.OK {
		t.Fatalf("Outbound: %+v", res.Err)
	}
	if rawQuery != "date=2025-08-09" {
		t.Fatalf("query = %q", rawQuery)
	}
}

func TestMessagePage_Keys(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"messages", "message_history", "pickup_history", "reminder_history"} {
		raw := `{"` + key + `":[{"id":1,"status":"pending"},{"id":2,"status":"sent"}]}`
		var p MessagePage
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			t.Fatalf("%s: %v", key, err)
		}
		if len(p.Messages) != 2 || p.Total != 2 {
			t.Fatalf("%s: got %d messages total %d", key, len(p.Messages), p.Total)
		}
	}
}

func TestVinHistoryKeepsVehicle(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/messages/vin/7/reminder-history", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"vin_id": 7,
			"vin_string": "1HGCM82633A004352",
			"vehicle_info": "2003 Honda Accord",
			"reminder_history": [
				{"id": 1, "contact_name": "Ana", "contact_phone": "+15550100", "message_content": "Oil change due", "scheduled_time": "2025-08-09T10:00:00", "sent_at": "2025-08-09T10:00:05", "status": "sent"}
			]
		}`))
	})
	c := newTestClient(t, mux.ServeHTTP)

	page, res := c.VinHistory(context.Background(), 7, "reminder-history", "")
	if !res.OK {
		t.Fatalf("VinHistory: %+v", res.Err)
	}
	if page.VinID != 7 || page.VinString != "1HGCM82633A004352" || page.VehicleInfo != "2003 Honda Accord" {
		t.Fatalf("vehicle = %d %q %q", page.VinID, page.VinString, page.VehicleInfo)
	}
	if len(page.Messages) != 1 || page.Total != 1 {
		t.Fatalf("messages = %+v", page.Messages)
	}

	out, err := json.Marshal(page)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"vehicle_info":"2003 Honda Accord"`) {
		t.Fatalf("marshalled page dropped vehicle: %s", out)
	}
}

func TestTypedHelpers(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/messages/inbound/unread-count", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"unread_count":5}`))
	})
	mux.HandleFunc("/messages/service-record/3/pickup-sent", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"pickup_sent":true}`))
	})
	mux.HandleFunc("/messages/inbound", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"messages":[{"contact_name":"Ana","from_number":"+1555","body":"ok","created_at":"2025-08-09T10:00:00"}]}`))
	})
	mux.HandleFunc("/costs/summary", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("date_filter"); got != "2025-08-09" {
			t.Errorf("date_filter = %q", got)
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"date_filter":"2025-08-09","outbound_messages":{"count":3,"total_cents":30,"total_dollars":0.3},"inbound_messages":{"count":1,"total_cents":10,"total_dollars":0.1},"totals":{"total_messages":4,"total_cents":40,"total_dollars":0.4}}}`))
	})
	c := newTestClient(t, mux.ServeHTTP)
	ctx := context.Background()

	if n, res := c.UnreadCount(ctx); !res.OK || n != 5 {
		t.Fatalf("UnreadCount = %d %+v", n, res.Err)
	}
	if sent, res := c.PickupSent(ctx, 3); !res.OK || !sent {
		t.Fatalf("PickupSent = %v %+v", sent, res.Err)
	}
	msgs, res := c.Inbound(ctx)
	if !res.OK || len(msgs) != 1 || msgs[0].Sender() != "Ana" {
		t.Fatalf("Inbound = %+v %+v", msgs, res.Err)
	}
	sum, res := c.CostSummary(ctx, "2025-08-09")
	if !res.OK || sum.Totals.TotalCents != 40 || sum.Outbound.Count != 3 {
		t.Fatalf("CostSummary = %+v %+v", sum, res.Err)
	}
}

func TestRatePacing(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, RatePerSecond: 20})
	start := time.Now()
	for i := 0; i < 25; i++ {
		if res := c.Call(context.Background(), http.MethodGet, "/", nil); !res.OK {
			t.Fatalf("call %d: %+v", i, res.Err)
		}
	}
	if elapsed := time.Since(start); elapsed < 200*time.Millisecond {
		t.Fatalf("25 calls at 20/s with burst 20 took %s", elapsed)
	}
}
