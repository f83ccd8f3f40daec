package pickup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"tableflip.dev/pitstop/pkg/api"
	"tableflip.dev/pitstop/pkg/compose"
	"tableflip.dev/pitstop/pkg/shop"
)

type fakeClient struct {
	mu        sync.Mutex
	record    shop.ServiceRecord
	recordRes api.Result
	sent      []shop.SendRequest
	failSend  map[int]string
	smsSent   bool
	links     [][2]int
	linkRes   api.Result
	created   []shop.NewContact
	searches  []string
}

func (f *fakeClient) GetServiceRecord(ctx context.Context, id int) (shop.ServiceRecord, api.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordRes.Err != nil {
		return shop.ServiceRecord{}, f.recordRes
	}
	return f.record, api.Result{OK: true}
}

func (f *fakeClient) PickupSent(ctx context.Context, id int) (bool, api.Result) {
	return false, api.Result{OK: true}
}

func (f *fakeClient) SendPickup(ctx context.Context, in shop.SendRequest) (shop.SendResult, api.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, in)
	if detail, ok := f.failSend[in.ContactID]; ok {
		return shop.SendResult{}, api.Failed(500, detail)
	}
	return shop.SendResult{Success: true, SMSSent: f.smsSent}, api.Result{OK: true}
}

func (f *fakeClient) CreateContact(ctx context.Context, in shop.NewContact) (shop.Contact, api.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	return shop.Contact{ID: 99, Name: in.Name, PhoneNumber: in.PhoneNumber}, api.Result{OK: true}
}

func (f *fakeClient) LinkContact(ctx context.Context, contactID, vinID int) api.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.links = append(f.links, [2]int{contactID, vinID})
	if f.linkRes.Err != nil {
		return f.linkRes
	}
	return api.Result{OK: true}
}

func (f *fakeClient) SearchContacts(ctx context.Context, q string) ([]shop.Contact, api.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, q)
	return []shop.Contact{{ID: 1, Name: "Match", PhoneNumber: q}}, api.Result{OK: true}
}

func (f *fakeClient) Searches() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searches...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func threeContacts() shop.ServiceRecord {
	return shop.ServiceRecord{
		ID:                    11,
		MileageAtService:      42000,
		OilType:               "synthetic",
		OilViscosity:          "0W-20",
		NextServiceMileageDue: 47000,
		NextServiceDateDue:    shop.Date{YMD: "2025-06-01"},
		Vin: &shop.Vin{
			ID: 3, Vin: "1HGCM82633A004352", Make: "HONDA", Model: "ACCORD",
			Contacts: []shop.Contact{
				{ID: 1, Name: "Ana"},
				{ID: 2, Name: "Ben"},
				{ID: 3, Name: "Cy"},
			},
		},
	}
}

func loadedFlow(t *testing.T, c *fakeClient) *Flow {
	t.Helper()
	f := New(c, 11, Options{Location: time.UTC, Logger: quietLogger()})
	if f.State() != Loading {
		t.Fatalf("initial state = %s", f.State())
	}
	if err := f.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.State() != Ready {
		t.Fatalf("state = %s, want ready", f.State())
	}
	return f
}

func yes(string) bool { return true }
func no(string) bool  { return false }

func TestMissingVinIsErrorState(t *testing.T) {
	c := &fakeClient{record: shop.ServiceRecord{ID: 11}}
	f := New(c, 11, Options{Logger: quietLogger()})
	err := f.Load(context.Background())
	if !errors.Is(err, ErrVinMissing) {
		t.Fatalf("Load err = %v", err)
	}
	if f.State() != Failed || f.Err().Error() != "VIN data is missing from the service record." {
		t.Fatalf("state = %s err = %v", f.State(), f.Err())
	}
	if _, err := f.Compose(1); !errors.Is(err, ErrWrongState) {
		t.Fatalf("Compose err = %v", err)
	}
}

func TestLoadFailure(t *testing.T) {
	c := &fakeClient{recordRes: api.Failed(404, "Service record not found")}
	f := New(c, 11, Options{Logger: quietLogger()})
	err := f.Load(context.Background())
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Status != 404 {
		t.Fatalf("Load err = %v", err)
	}
	if f.State() != Failed {
		t.Fatalf("state = %s", f.State())
	}
}

func TestSendAllBestEffort(t *testing.T) {
	c := &fakeClient{record: threeContacts(), failSend: map[int]string{2: "invalid number"}}
	f := loadedFlow(t, c)

	var prompt string
	sum, ok, err := f.SendAll(context.Background(), ConfirmFunc(func(p string) bool {
		prompt = p
		return true
	}))
	if err != nil || !ok {
		t.Fatalf("SendAll = %v, %v", ok, err)
	}
	if !strings.HasPrefix(prompt, "Are you sure you want to send pickup messages to all 3 contacts?") {
		t.Fatalf("prompt = %q", prompt)
	}
	if sum.Attempted != 3 {
		t.Fatalf("attempted = %d, want 3", sum.Attempted)
	}
	if sum.Succeeded != 2 || len(sum.Failures) != 1 || sum.Failures[0].Contact.ID != 2 {
		t.Fatalf("summary = %+v", sum)
	}
	if len(c.sent) != 3 || c.sent[2].ContactID != 3 {
		t.Fatalf("sends = %+v", c.sent)
	}
	for i, req := range c.sent {
		if req.ServiceRecordID != 11 || !strings.HasPrefix(req.ImmediateMessageContent, "Hi "+threeContacts().Vin.Contacts[i].Name) {
			t.Fatalf("send %d = %+v", i, req)
		}
	}
	if sum.String() != "Messages sent to 3 contacts! (1 failed)" {
		t.Fatalf("summary text = %q", sum.String())
	}
	if sum.Handoff.VinString != "1HGCM82633A004352" {
		t.Fatalf("handoff = %+v", sum.Handoff)
	}
	if f.State() != Sent {
		t.Fatalf("state = %s", f.State())
	}
}

func TestSendAllDeclined(t *testing.T) {
	c := &fakeClient{record: threeContacts()}
	f := loadedFlow(t, c)
	_, ok, err := f.SendAll(context.Background(), ConfirmFunc(no))
	if ok || err != nil {
		t.Fatalf("SendAll = %v, %v", ok, err)
	}
	if len(c.sent) != 0 {
		t.Fatalf("sent after decline: %+v", c.sent)
	}
	if f.State() != Ready {
		t.Fatalf("state = %s", f.State())
	}
}

func TestComposeReplacesOpenComposer(t *testing.T) {
	c := &fakeClient{record: threeContacts(), smsSent: false}
	f := loadedFlow(t, c)

	if _, err := f.Compose(1); err != nil {
		t.Fatalf("Compose: %v", err)
	}
	d, err := f.Compose(3)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if f.State() != Composing || f.Draft().Contact.ID != 3 || d.Contact.ID != 3 {
		t.Fatalf("draft = %+v", f.Draft())
	}
	if _, err := f.Compose(42); !errors.Is(err, ErrUnknownContact) {
		t.Fatalf("Compose(42) err = %v", err)
	}

	if err := f.Edit("Custom text"); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	out, res := f.Send(context.Background())
	if !res.OK {
		t.Fatalf("Send: %+v", res.Err)
	}
	if out.Confirmation != compose.SMSNotConfigured {
		t.Fatalf("confirmation = %q", out.Confirmation)
	}
	if out.Handoff.VinString != "1HGCM82633A004352" {
		t.Fatalf("handoff = %+v", out.Handoff)
	}
	if len(c.sent) != 1 || c.sent[0].ContactID != 3 || c.sent[0].ImmediateMessageContent != "Custom text" {
		t.Fatalf("sent = %+v", c.sent)
	}
	if f.State() != Sent || !f.PickupSent() {
		t.Fatalf("state = %s pickupSent = %v", f.State(), f.PickupSent())
	}
}

func TestSendFailureIsErrorState(t *testing.T) {
	c := &fakeClient{record: threeContacts(), failSend: map[int]string{1: "gateway down"}}
	f := loadedFlow(t, c)
	if _, err := f.Compose(1); err != nil {
		t.Fatalf("Compose: %v", err)
	}
	_, res := f.Send(context.Background())
	if res.OK || res.Detail() != "gateway down" {
		t.Fatalf("Send = %+v", res)
	}
	if f.State() != Failed {
		t.Fatalf("state = %s", f.State())
	}
	f.CloseComposer()
	if f.State() != Ready || f.Draft() != nil {
		t.Fatalf("after close: %s %+v", f.State(), f.Draft())
	}
}

func TestSkip(t *testing.T) {
	c := &fakeClient{record: threeContacts()}
	f := loadedFlow(t, c)
	if f.Skip(ConfirmFunc(no)) {
		t.Fatalf("skip accepted after decline")
	}
	if !f.Skip(ConfirmFunc(yes)) {
		t.Fatalf("skip refused")
	}
	if f.State() != Skipped || len(c.sent) != 0 {
		t.Fatalf("state = %s sent = %d", f.State(), len(c.sent))
	}
}

func TestLinkDuplicate(t *testing.T) {
	c := &fakeClient{record: threeContacts(), linkRes: api.Failed(400, "Contact already linked to this VIN")}
	f := loadedFlow(t, c)
	if err := f.LinkContact(context.Background(), 1); !errors.Is(err, ErrAlreadyLinked) {
		t.Fatalf("LinkContact err = %v", err)
	}
	if f.State() != Ready {
		t.Fatalf("state = %s", f.State())
	}
}

func TestCreateContactLinksAndReloads(t *testing.T) {
	c := &fakeClient{record: threeContacts()}
	f := loadedFlow(t, c)
	got, err := f.CreateContact(context.Background(), shop.NewContact{Name: " Dee ", PhoneNumber: "+15550004"})
	if err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	if got.ID != 99 || len(c.links) != 1 || c.links[0] != [2]int{99, 3} {
		t.Fatalf("contact = %+v links = %v", got, c.links)
	}
	if c.created[0].Name != "Dee" {
		t.Fatalf("created = %+v", c.created)
	}
	if _, err := f.CreateContact(context.Background(), shop.NewContact{Name: "No Phone"}); !errors.Is(err, shop.ErrInvalid) {
		t.Fatalf("invalid contact err = %v", err)
	}
}

func TestSearchShortInputClearsWithoutRequest(t *testing.T) {
	c := &fakeClient{}
	results := make(chan SearchResult, 8)
	s := NewSearcher(context.Background(), c, 20*time.Millisecond, func(r SearchResult) { results <- r })
	defer s.Close()

	s.Input("555")
	select {
	case r := <-results:
		if r.Cleared || len(r.Contacts) != 1 {
			t.Fatalf("result = %+v", r)
		}
	case <-time.After(time.Second):
		t.Fatalf("no search result")
	}

	s.Input(" 55 ")
	select {
	case r := <-results:
		if !r.Cleared || len(r.Contacts) != 0 {
			t.Fatalf("short input result = %+v", r)
		}
	case <-time.After(time.Second):
		t.Fatalf("short input did not clear results")
	}
	time.Sleep(60 * time.Millisecond)
	if got := c.Searches(); len(got) != 1 {
		t.Fatalf("searches = %v, want only the first", got)
	}
}

func TestSearchDebounce(t *testing.T) {
	c := &fakeClient{}
	results := make(chan SearchResult, 8)
	s := NewSearcher(context.Background(), c, 50*time.Millisecond, func(r SearchResult) { results <- r })
	defer s.Close()

	for _, q := range []string{"5", "55", "555", "5551", "55512"} {
		s.Input(q)
		time.Sleep(5 * time.Millisecond)
	}
	select {
	case r := <-results:
		// "5" and "55" each clear the list first.
		for r.Cleared {
			r = <-results
		}
		if r.Query != "55512" {
			t.Fatalf("searched %q, want last query", r.Query)
		}
	case <-time.After(time.Second):
		t.Fatalf("no search result")
	}
	time.Sleep(120 * time.Millisecond)
	if got := c.Searches(); len(got) != 1 || got[0] != "55512" {
		t.Fatalf("searches = %v, want exactly one", got)
	}
}

func TestSearchCloseCancelsPending(t *testing.T) {
	c := &fakeClient{}
	s := NewSearcher(context.Background(), c, 20*time.Millisecond, func(SearchResult) {})
	s.Input("5551")
	s.Close()
	time.Sleep(60 * time.Millisecond)
	if got := c.Searches(); len(got) != 0 {
		t.Fatalf("searches after close = %v", got)
	}
}
