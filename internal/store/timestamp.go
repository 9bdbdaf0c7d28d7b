package store

import (
	"fmt"
	"strings"
	"time"
)

// Layouts accepted for a complete timestamp or date, tried in order.
var isoLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseISO(s string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalizeTimestamp resolves a possibly partial timestamp value against a
// companion date. In priority order: an absent value resolves to the date at
// midnight (or stays absent); a complete timestamp passes through; a bare
// time of day is combined with the date, defaulting to today. Anything
// unparseable yields absent, never an error.
func normalizeTimestamp(value, date string) (time.Time, bool) {
	if value == "" {
		if date != "" {
			if t, ok := parseISO(date + "T00:00:00"); ok {
				return t, true
			}
		}
		return time.Time{}, false
	}

	if t, ok := parseISO(value); ok {
		return t, true
	}

	d := date
	if d == "" {
		d = time.Now().Format("2006-01-02")
	}
	v := value
	// "HH:MM" gets its seconds padded before the combined parse.
	if len(strings.Split(v, ":")) == 2 {
		v += ":00"
	}
	return parseISO(d + " " + v)
}

// formatTimestamp renders seconds precision, with microseconds only when the
// instant carries a sub-second component.
func formatTimestamp(t time.Time) string {
	if t.Nanosecond() != 0 {
		return t.Format("2006-01-02T15:04:05.000000")
	}
	return t.Format("2006-01-02T15:04:05")
}

// normalizedOrNil is the driver-friendly form of normalizeTimestamp: a
// formatted string for the column, or nil for SQL NULL.
func normalizedOrNil(value, date string) any {
	if t, ok := normalizeTimestamp(value, date); ok {
		return formatTimestamp(t)
	}
	return nil
}

const scheduleIDSentinel = "00000000000000"

// scheduleID derives the deterministic schedule identifier for a person and
// an instant: "{person}_{YYYYMMDDHHMMSS}{microseconds}". When no timestamp is
// derivable the sentinel suffix is used. Collisions are not guarded against.
func scheduleID(personID PersonID, value, date string) string {
	t, ok := normalizeTimestamp(value, date)
	if !ok {
		return string(personID) + "_" + scheduleIDSentinel
	}
	return fmt.Sprintf("%s_%s%06d", personID, t.Format("20060102150405"), t.Nanosecond()/1000)
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
