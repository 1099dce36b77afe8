package ledger

import (
	"strings"
	"time"
)

// Accepted ISO-8601 shapes. Layouts without an offset parse as UTC. Fractional
// seconds are accepted after the seconds field by every layout.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	time.DateOnly,
}

// ParseTimestamp parses an ISO-8601 timestamp. The second result is false
// when the value is empty or malformed; callers decide whether to skip it.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDay parses a calendar date bound such as a history filter. Full
// timestamps are accepted and truncated to their date.
func ParseDay(value string) (time.Time, bool) {
	t, ok := ParseTimestamp(value)
	if !ok {
		return time.Time{}, false
	}
	return DayOf(t), true
}

// DayOf returns the calendar date of t, as written in t's own offset, as
// midnight UTC. Days in this form compare and subtract exactly.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole calendar days from one day to another
func DaysBetween(from, to time.Time) int {
	return int(DayOf(to).Sub(DayOf(from)).Hours() / 24)
}
