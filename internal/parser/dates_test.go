package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePostedAt_RelativeTokens(t *testing.T) {
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		text string
		want time.Time
	}{
		{"minutes", "45m", now.Add(-45 * time.Minute)},
		{"hours", "3h", now.Add(-3 * time.Hour)},
		{"hours verbose", "3 hours ago", now.Add(-3 * time.Hour)},
		{"days", "2d", now.Add(-48 * time.Hour)},
		{"days verbose", "2 days ago", now.Add(-48 * time.Hour)},
		{"weeks", "1w", now.Add(-7 * 24 * time.Hour)},
		{"months", "2mo", now.Add(-60 * 24 * time.Hour)},
		{"just now", "just now", now},
		{"edited suffix", "3h • Edited", now.Add(-3 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePostedAt("", tt.text, now)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePostedAt_DatetimeAttribute(t *testing.T) {
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	got, ok := ParsePostedAt("2026-08-20T09:30:00Z", "ignored", now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC), got)
}

func TestParsePostedAt_MonthDay(t *testing.T) {
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	got, ok := ParsePostedAt("", "August 20", now)
	require.True(t, ok)
	assert.Equal(t, 2026, got.Year())
	assert.Equal(t, time.August, got.Month())
	assert.Equal(t, 20, got.Day())

	// A month-day later in the year than now belongs to the previous year.
	got, ok = ParsePostedAt("", "Dec 30", now)
	require.True(t, ok)
	assert.Equal(t, 2025, got.Year())
}

func TestParsePostedAt_Unparsable(t *testing.T) {
	now := time.Now()

	for _, text := range []string{"", "yesterday-ish", "???", "Promoted"} {
		_, ok := ParsePostedAt("", text, now)
		assert.False(t, ok, "expected %q to be unparsable", text)
	}
}
