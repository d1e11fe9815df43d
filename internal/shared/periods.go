// Package shared holds small helpers used across domain modules.
package shared

import "time"

// DefaultRangeDays is the trailing window applied when a report range
// is missing or invalid.
const DefaultRangeDays = 30

// DateRange bounds a reporting period, inclusive on both ends.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseRange interprets start/end query values in YYYY-MM-DD form.
// Defaulting happens here, once, at the boundary: a missing or
// unparsable bound, or an inverted range, yields the trailing 30 days
// ending at now.
func ParseRange(startStr, endStr string, now time.Time) DateRange {
	start, errStart := time.Parse("2006-01-02", startStr)
	end, errEnd := time.Parse("2006-01-02", endStr)
	if errStart != nil || errEnd != nil || end.Before(start) {
		return DateRange{Start: now.AddDate(0, 0, -DefaultRangeDays), End: now}
	}
	// Include the whole end day.
	return DateRange{Start: start, End: end.Add(24*time.Hour - time.Nanosecond)}
}
