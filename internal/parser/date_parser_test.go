package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.October, 17, 15, 42, 0, 0, time.UTC)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "2026-10-17"},
		{"today", "2026-10-17"},
		{" Tomorrow ", "2026-10-18"},
		{"yesterday", "2026-10-16"},
		{"2026-12-24", "2026-12-24"},
		{"24/12/2026", "2026-12-24"},
		{"1/2/2027", "2027-02-01"},
		{"3 days", "2026-10-20"},
		{"1 day", "2026-10-18"},
		{"-1 week", "2026-10-10"},
		{"2 weeks", "2026-10-31"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, FormatDate(got))
			assert.Zero(t, got.Hour(), "dates are midnight")
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, input := range []string{"31/02/2026", "2026-02-30", "13/13/2026", "400 days", "next friday", "17.10.2026"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseDate(input, now)
			assert.Error(t, err)
		})
	}
}

func TestParseClock(t *testing.T) {
	got, err := ParseClock("9:05", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.October, 17, 9, 5, 0, 0, time.UTC), got)

	got, err = ParseClock("2026-10-16T23:30:00Z", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.October, 16, 23, 30, 0, 0, time.UTC), got)

	for _, input := range []string{"24:00", "12:60", "noon", "1230"} {
		_, err := ParseClock(input, now)
		assert.Error(t, err, input)
	}
}

func TestParseInterval(t *testing.T) {
	start, end, err := ParseInterval("14:05-14:10", now)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, end.Sub(start))
	assert.Equal(t, 14, start.Hour())

	_, _, err = ParseInterval("14:05", now)
	assert.Error(t, err)

	_, _, err = ParseInterval("14:05-25:00", now)
	assert.Error(t, err)
}
