//go:build unit

package availability_test

import (
	"testing"
	"time"

	"fleetrent/internal/domain/availability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(availability.ISODate, s)
	if err != nil {
		panic(err)
	}
	return t
}

func mustRange(start, end string) availability.DateRange {
	return availability.MustDateRange(date(start), date(end))
}

func TestNormalizeDate(t *testing.T) {
	t.Run("truncates time of day to midnight UTC", func(t *testing.T) {
		in := time.Date(2024, 6, 10, 23, 59, 58, 123, time.UTC)
		assert.Equal(t, date("2024-06-10"), availability.NormalizeDate(in))
	})

	t.Run("converts zone before truncating", func(t *testing.T) {
		tokyo := time.FixedZone("JST", 9*3600)
		// 08:00 JST on the 11th is 23:00 UTC on the 10th
		in := time.Date(2024, 6, 11, 8, 0, 0, 0, tokyo)
		assert.Equal(t, date("2024-06-10"), availability.NormalizeDate(in))
	})
}

func TestNewDateRange(t *testing.T) {
	t.Run("single day range is valid", func(t *testing.T) {
		r, err := availability.NewDateRange(date("2024-06-10"), date("2024-06-10"))
		require.NoError(t, err)
		assert.Equal(t, 1, r.Days())
	})

	t.Run("inverted range is rejected", func(t *testing.T) {
		_, err := availability.NewDateRange(date("2024-06-11"), date("2024-06-10"))
		assert.ErrorIs(t, err, availability.ErrInvalidDateRange)
	})
}

func TestDateRangeOverlaps(t *testing.T) {
	blocked := mustRange("2024-06-10", "2024-06-12")

	tests := []struct {
		name  string
		other availability.DateRange
		want  bool
	}{
		{"identical", mustRange("2024-06-10", "2024-06-12"), true},
		{"overlapping tail", mustRange("2024-06-11", "2024-06-13"), true},
		{"touching last day", mustRange("2024-06-12", "2024-06-15"), true},
		{"starting day after", mustRange("2024-06-13", "2024-06-15"), false},
		{"ending day before", mustRange("2024-06-07", "2024-06-09"), false},
		{"fully containing", mustRange("2024-06-01", "2024-06-30"), true},
		{"single shared day", mustRange("2024-06-10", "2024-06-10"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, blocked.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(blocked))
		})
	}
}

func TestDateRangeContains(t *testing.T) {
	r := mustRange("2024-06-10", "2024-06-12")
	assert.True(t, r.Contains(date("2024-06-10")))
	assert.True(t, r.Contains(date("2024-06-12")))
	assert.False(t, r.Contains(date("2024-06-13")))
	assert.False(t, r.Contains(date("2024-06-09")))
}

func TestDateRangeClip(t *testing.T) {
	r := mustRange("2024-06-05", "2024-06-20")

	t.Run("clips both ends to the window", func(t *testing.T) {
		clipped, ok := r.Clip(mustRange("2024-06-10", "2024-06-12"))
		require.True(t, ok)
		assert.Equal(t, date("2024-06-10"), clipped.Start())
		assert.Equal(t, date("2024-06-12"), clipped.End())
	})

	t.Run("disjoint window yields no range", func(t *testing.T) {
		_, ok := r.Clip(mustRange("2024-07-01", "2024-07-05"))
		assert.False(t, ok)
	})
}

func TestDateRangeDays(t *testing.T) {
	assert.Equal(t, 3, mustRange("2024-06-10", "2024-06-12").Days())
	assert.Equal(t, 30, mustRange("2024-06-01", "2024-06-30").Days())
}

func TestUniqueDays(t *testing.T) {
	t.Run("overlapping ranges count each day once", func(t *testing.T) {
		days := availability.UniqueDays([]availability.DateRange{
			mustRange("2024-06-10", "2024-06-12"),
			mustRange("2024-06-11", "2024-06-13"),
		})
		assert.Len(t, days, 4)
	})

	t.Run("sorted union", func(t *testing.T) {
		sorted := availability.SortedDays([]availability.DateRange{
			mustRange("2024-06-12", "2024-06-13"),
			mustRange("2024-06-10", "2024-06-10"),
		})
		assert.Equal(t, []string{"2024-06-10", "2024-06-12", "2024-06-13"}, sorted)
	})
}
