package options

import (
	"testing"
	"time"
)

func TestDateFilter(t *testing.T) {
	loc := time.FixedZone("PDT", -7*3600)
	now := time.Date(2025, 8, 9, 20, 0, 0, 0, loc)

	tests := map[string]struct {
		opts    DateOptions
		want    string
		wantErr bool
	}{
		"none":            {opts: DateOptions{}, want: ""},
		"iso":             {opts: DateOptions{Date: "2025-07-04"}, want: "2025-07-04"},
		"short this year": {opts: DateOptions{Date: "8/1"}, want: "2025-08-01"},
		"short last year": {opts: DateOptions{Date: "12/24"}, want: "2024-12-24"},
		"since":           {opts: DateOptions{Since: "1w"}, want: "2025-08-02"},
		"both":            {opts: DateOptions{Date: "2025-07-04", Since: "1w"}, wantErr: true},
		"garbage":         {opts: DateOptions{Date: "yesterday"}, wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := tc.opts.Filter(now, loc)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"pickup and reminder texting for the shop", 20, "pickup and reminder\ntexting for the shop"},
		{"  pickup \t and\n reminder  ", 80, "pickup and reminder"},
		{"supercalifragilistic ok", 5, "supercalifragilistic\nok"},
		{"   ", 10, "   "},
	}
	for _, tt := range tests {
		if got := Wrap(tt.in, tt.width); got != tt.want {
			t.Errorf("Wrap(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
