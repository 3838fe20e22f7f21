package models

import (
	"strings"
	"time"
)

// Layouts accepted for historical string dates, tried in order. Date-only
// strings resolve to midnight local time.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NormalizeDate coerces a heterogeneous date representation into a concrete
// instant. Input may be an already-typed time, an ISO-8601 string (with or
// without offset marker or time component), or nil/empty. Malformed values
// yield ok=false, never an error: a single bad record must not abort a listing.
//
// Normalizing an already-normalized instant returns it unchanged.
func NormalizeDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v, true
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return *v, true
	case string:
		return parseDateString(v)
	default:
		return time.Time{}, false
	}
}

// NormalizeDatePtr is NormalizeDate for callers that store optional instants as
// pointers.
func NormalizeDatePtr(value any) *time.Time {
	t, ok := NormalizeDate(value)
	if !ok {
		return nil
	}
	return &t
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		var (
			t   time.Time
			err error
		)
		if strings.Contains(layout, "Z07:00") {
			t, err = time.Parse(layout, s)
		} else {
			// No offset in the layout: interpret in local time, midnight for
			// date-only strings.
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DaysBetween returns the whole days from a to b, floored toward zero the way
// the processing and validity calculators count days. Negative spans pass
// through unclamped.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
