package compose

import (
	"context"
	"strings"
	"testing"
	"time"

	"tableflip.dev/pitstop/pkg/api"
	"tableflip.dev/pitstop/pkg/shop"
)

func fixture() (*shop.ServiceRecord, *shop.Vin, shop.Contact) {
	vin := &shop.Vin{ID: 3, Vin: "1HGCM82633A004352", Make: "HONDA", Model: "ACCORD", Year: 2003}
	sr := &shop.ServiceRecord{
		ID:                    11,
		Vin:                   vin,
		ServiceDate:           shop.Date{YMD: "2025-08-09"},
		MileageAtService:      42000,
		OilType:               "full_synthetic",
		OilViscosity:          "5W-30",
		NextServiceDateDue:    shop.Date{YMD: "2025-01-31"},
		NextServiceMileageDue: 47000,
	}
	return sr, vin, shop.Contact{ID: 5, Name: "Ana", PhoneNumber: "+15550001"}
}

func TestPickupTemplate(t *testing.T) {
	sr, vin, c := fixture()
	got := Pickup(sr, vin, c, DefaultSignature(), time.UTC)
	want := "Hi Ana, your HONDA ACCORD is ready! full synthetic (5W-30) done at 42000 mi. Next due: 47000 on Jan 31, 2025. " +
		"Thank you for choosing Montebello Lube N' Tune - 2130 W Beverly Blvd. Mon-Sat 8-5. (323) 727-2883. Reply STOP to unsubscribe."
	if got != want {
		t.Fatalf("Pickup =\n%s\nwant\n%s", got, want)
	}
}

func TestReminderPreview(t *testing.T) {
	sr, vin, c := fixture()
	got := ReminderPreview(sr, vin, c, Signature{Block: "Shop.", OptOut: "Reply STOP."}, time.UTC)
	want := "Hi Ana! Your ACCORD is due soon: 47000 mi on Jan 31, 2025. Last: 42000 with full synthetic (5W-30). Shop. Reply STOP."
	if got != want {
		t.Fatalf("ReminderPreview =\n%s\nwant\n%s", got, want)
	}
}

func TestNextDateIsLocalCalendarDay(t *testing.T) {
	for _, name := range []string{"America/Los_Angeles", "Pacific/Honolulu", "Asia/Tokyo"} {
		loc, err := time.LoadLocation(name)
		if err != nil {
			t.Skipf("zoneinfo unavailable: %v", err)
		}
		sr, vin, c := fixture()
		d := New(sr, vin, c, DefaultSignature(), loc)
		if want := "on Jan 31, 2025."; !strings.Contains(d.Message, want) {
			t.Fatalf("%s: %q missing %q", name, d.Message, want)
		}
	}
}

type fakeSender struct {
	got shop.SendRequest
	out shop.SendResult
	res api.Result
}

func (f *fakeSender) SendPickup(ctx context.Context, in shop.SendRequest) (shop.SendResult, api.Result) {
	f.got = in
	return f.out, f.res
}

func TestSubmit(t *testing.T) {
	sr, vin, c := fixture()
	d := New(sr, vin, c, DefaultSignature(), time.UTC)
	d.Message = "  edited text  "

	tests := []struct {
		name    string
		smsSent bool
		want    string
	}{
		{"delivered", true, SentViaSMS},
		{"reminder only", false, SMSNotConfigured},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeSender{out: shop.SendResult{Success: true, SMSSent: tt.smsSent}, res: api.Result{OK: true}}
			out, res := Submit(context.Background(), f, d)
			if !res.OK {
				t.Fatalf("Submit: %+v", res.Err)
			}
			if out.Confirmation != tt.want {
				t.Fatalf("confirmation = %q", out.Confirmation)
			}
			if out.Handoff.VinString != vin.Vin {
				t.Fatalf("handoff = %+v", out.Handoff)
			}
			if f.got.ServiceRecordID != 11 || f.got.ContactID != 5 || f.got.ImmediateMessageContent != "edited text" {
				t.Fatalf("request = %+v", f.got)
			}
		})
	}
}

func TestSubmitFailure(t *testing.T) {
	sr, vin, c := fixture()
	d := New(sr, vin, c, DefaultSignature(), time.UTC)
	f := &fakeSender{res: api.Failed(500, "twilio down")}
	out, res := Submit(context.Background(), f, d)
	if res.OK || res.Detail() != "twilio down" {
		t.Fatalf("res = %+v", res)
	}
	if out.Handoff.VinString != "" {
		t.Fatalf("handoff on failure: %+v", out.Handoff)
	}

	d.Message = "   "
	if _, res := Submit(context.Background(), f, d); res.OK || res.Detail() != ErrEmptyMessage.Error() {
		t.Fatalf("empty message res = %+v", res)
	}
}
