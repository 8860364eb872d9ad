// Package dates parses the heterogeneous publish-date strings that discovery
// strategies report and decides whether a parsed date is recent enough to
// keep.
package dates

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultWindowDays is the recency window applied when configuration does not
// override it.
const DefaultWindowDays = 30

// layouts are tried in order. Feeds and meta tags disagree wildly on date
// formats; RFC 3339 and RFC 1123 cover most of them, the rest are observed
// upstream variants.
var layouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC822,
	time.RFC822Z,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
	time.RubyDate,
	"Mon, 2 Jan 2006 15:04:05 MST",
	"02 Jan 2006 15:04:05 MST",
	"January 2, 2006",
	"Jan 2, 2006",
	"02/01/2006",
}

// ErrUnparseable is wrapped by Parse when no known layout matches.
var ErrUnparseable = errors.New("unparseable date")

// Parse attempts to parse a raw upstream date string. An empty string is
// unparseable, not a zero time.
func Parse(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("parse date: empty input: %w", ErrUnparseable)
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("parse date %q: %w", trimmed, ErrUnparseable)
}

// Window is a recency predicate: dates older than Days before now are stale.
type Window struct {
	Days int
}

// NewWindow returns a Window of days, falling back to DefaultWindowDays for
// non-positive values.
func NewWindow(days int) Window {
	if days <= 0 {
		days = DefaultWindowDays
	}
	return Window{Days: days}
}

// IsRecent reports whether t falls inside the window. Future dates count as
// recent; skewed upstream clocks are common and harmless here.
func (w Window) IsRecent(t time.Time) bool {
	cutoff := time.Now().AddDate(0, 0, -w.Days)
	return t.After(cutoff)
}
