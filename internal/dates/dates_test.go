package dates_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jonesrussell/godiscover/internal/dates"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			"rfc3339",
			"2025-06-15T10:30:00Z",
			time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
			false,
		},
		{
			"rfc1123z feed style",
			"Sun, 15 Jun 2025 10:30:00 +0000",
			time.Date(2025, 6, 15, 10, 30, 0, 0, time.FixedZone("", 0)),
			false,
		},
		{
			"date only",
			"2025-06-15",
			time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			false,
		},
		{
			"datetime without zone",
			"2025-06-15T10:30:00",
			time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
			false,
		},
		{
			"space separated",
			"2025-06-15 10:30:00",
			time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
			false,
		},
		{
			"long month name",
			"June 15, 2025",
			time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			false,
		},
		{
			"surrounding whitespace",
			"  2025-06-15  ",
			time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			false,
		},
		{"empty", "", time.Time{}, true},
		{"garbage", "yesterday-ish", time.Time{}, true},
		{"bare number", "1718445000", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dates.Parse(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got %v", tt.input, got)
				}
				if !errors.Is(err, dates.ErrUnparseable) {
					t.Errorf("Parse(%q) error = %v, want ErrUnparseable", tt.input, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestWindowIsRecent(t *testing.T) {
	w := dates.NewWindow(30)

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"yesterday is recent", time.Now().AddDate(0, 0, -1), true},
		{"29 days ago is recent", time.Now().AddDate(0, 0, -29), true},
		{"31 days ago is stale", time.Now().AddDate(0, 0, -31), false},
		{"a year ago is stale", time.Now().AddDate(-1, 0, 0), false},
		{"tomorrow is recent", time.Now().AddDate(0, 0, 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.IsRecent(tt.date); got != tt.want {
				t.Errorf("IsRecent(%v) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestNewWindowDefault(t *testing.T) {
	if w := dates.NewWindow(0); w.Days != dates.DefaultWindowDays {
		t.Errorf("NewWindow(0).Days = %d, want %d", w.Days, dates.DefaultWindowDays)
	}
	if w := dates.NewWindow(-5); w.Days != dates.DefaultWindowDays {
		t.Errorf("NewWindow(-5).Days = %d, want %d", w.Days, dates.DefaultWindowDays)
	}
	if w := dates.NewWindow(7); w.Days != 7 {
		t.Errorf("NewWindow(7).Days = %d, want 7", w.Days)
	}
}
