package punch

import (
	"fmt"
	"sort"
	"time"
)

// =============================================================================
// CALENDAR DAYS - DD/MM/YYYY strings, wall-clock only, no timezone
// =============================================================================

// ParseDay parses a DD/MM/YYYY (or DDMMYYYY) string into a UTC midnight.
// Fails for anything that is not a real calendar day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, NormalizeDate(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDay renders t as DD/MM/YYYY.
func FormatDay(t time.Time) string { return t.Format(DateLayout) }

// SortDates orders DD/MM/YYYY strings chronologically, in place.
// Unparseable strings sort after all real days, lexically among themselves.
func SortDates(dates []string) {
	sort.SliceStable(dates, func(i, j int) bool {
		return dateBefore(dates[i], dates[j])
	})
}

func dateBefore(a, b string) bool {
	ta, errA := ParseDay(a)
	tb, errB := ParseDay(b)
	switch {
	case errA == nil && errB == nil:
		return ta.Before(tb)
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

// =============================================================================
// CLOCK TIMES - HHMM strings
// =============================================================================

// ClockMinutes converts a valid HHMM string to minutes since midnight.
func ClockMinutes(hhmm string) (int, error) {
	t := NormalizeTime(hhmm)
	if !IsValidTime(t) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, hhmm)
	}
	hh := int(t[0]-'0')*10 + int(t[1]-'0')
	mm := int(t[2]-'0')*10 + int(t[3]-'0')
	return hh*60 + mm, nil
}
