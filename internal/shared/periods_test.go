package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseRangeExplicitBounds(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	rng := ParseRange("2025-01-01", "2025-01-31", now)
	require.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), rng.Start)
	// End bound covers the whole last day.
	require.True(t, rng.End.After(time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)))
	require.True(t, rng.End.Before(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParseRangeDefaultsTrailingWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	want := DateRange{Start: now.AddDate(0, 0, -DefaultRangeDays), End: now}

	for _, tc := range []struct {
		name       string
		start, end string
	}{
		{"missing both", "", ""},
		{"missing end", "2025-01-01", ""},
		{"garbage start", "yesterday", "2025-01-31"},
		{"inverted", "2025-02-01", "2025-01-01"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, want, ParseRange(tc.start, tc.end, now))
		})
	}
}
