package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestDateRangeNights(t *testing.T) {
	rng := NewDateRange(mustDate(t, "2025-06-01"), mustDate(t, "2025-06-05"))

	nights := rng.Nights()
	require.Len(t, nights, 4)
	assert.Equal(t, "2025-06-01", FormatDate(nights[0]))
	assert.Equal(t, "2025-06-04", FormatDate(nights[3]))
	assert.Equal(t, "2025-06-04", FormatDate(rng.LastNight()))
}

func TestDateRangeNightsAcrossMonth(t *testing.T) {
	rng := NewDateRange(mustDate(t, "2025-06-29"), mustDate(t, "2025-07-02"))
	var got []string
	for _, d := range rng.Nights() {
		got = append(got, FormatDate(d))
	}
	assert.Equal(t, []string{"2025-06-29", "2025-06-30", "2025-07-01"}, got)
}

func TestDateRangeValidate(t *testing.T) {
	today := mustDate(t, "2025-05-20")

	cases := []struct {
		name     string
		checkin  string
		checkout string
		wantErr  bool
	}{
		{"ok", "2025-06-01", "2025-06-05", false},
		{"starts today", "2025-05-20", "2025-05-21", false},
		{"equal dates", "2025-06-01", "2025-06-01", true},
		{"backwards", "2025-06-05", "2025-06-01", true},
		{"in the past", "2025-05-19", "2025-05-22", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rng := NewDateRange(mustDate(t, tc.checkin), mustDate(t, tc.checkout))
			err := rng.Validate(today)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRange)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDateRangeInvalidHasNoNights(t *testing.T) {
	rng := NewDateRange(mustDate(t, "2025-06-05"), mustDate(t, "2025-06-05"))
	assert.Nil(t, rng.Nights())
}

func TestDateRangeOverlaps(t *testing.T) {
	first := NewDateRange(mustDate(t, "2025-06-01"), mustDate(t, "2025-06-05"))

	assert.True(t, first.Overlaps(NewDateRange(mustDate(t, "2025-06-03"), mustDate(t, "2025-06-06"))))
	assert.False(t, first.Overlaps(NewDateRange(mustDate(t, "2025-06-05"), mustDate(t, "2025-06-07"))))
}

func TestDayNormalisesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("X", 5*3600)
	in := time.Date(2025, 6, 1, 23, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Day(in))
}

func TestOccupancyFor(t *testing.T) {
	rng := NewDateRange(mustDate(t, "2025-06-05"), mustDate(t, "2025-06-07"))
	recs := OccupancyFor(7, rng)
	require.Len(t, recs, 2)
	assert.Equal(t, uint64(7), recs[0].StayID)
	assert.Equal(t, "2025-06-06", FormatDate(recs[1].Date))
}
