package dataset

import (
	"strings"
	"time"
)

// ISOLayout is the timestamp layout used when dates are serialised (UTC, millisecond precision).
const ISOLayout = "2006-01-02T15:04:05.000Z"

// dateLayouts lists the calendar formats recognised as dates. Layouts without
// a zone are interpreted as UTC. Slash dates are month-first.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006/1/2",
	"01/02/2006",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseDate tries each known layout in order and returns the first match in UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// IsDate reports whether s parses as a calendar date.
func IsDate(s string) bool {
	_, ok := ParseDate(s)
	return ok
}

// FormatISO renders t as an ISO-8601 UTC timestamp.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}
