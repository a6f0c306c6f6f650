package profile

import (
	"strings"
	"time"
)

// timestampLayouts are tried in order when parsing string dates. The list
// covers the formats normally seen in exported business data; it is not an
// RFC-complete parser.
var timestampLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"01/02/2006 15:04:05",
	"02-01-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"20060102",
}

// parseTimestamp attempts to interpret a string as a timestamp
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
