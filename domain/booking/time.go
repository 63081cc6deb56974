package booking

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the layout used for every timestamp written by this tool.
const TimeLayout = time.RFC3339

var timeLayouts = []string{
	TimeLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01-02-06  03:04 PM", // gcal2excel export
	"01-02-06 03:04 PM",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04 PM",
	"1/2/2006",
	"1/2006",
}

// ParseTime accepts the timestamp shapes found in calendar exports.
// Timestamps without a zone are read as local wall-clock time.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// FormatTime renders t in its own wall-clock time with its UTC offset, so
// ParseTime reads back the same instant.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimeLayout)
}
