//go:build unit

package availability_test

import (
	"testing"

	"fleetrent/internal/domain/availability"

	"github.com/stretchr/testify/assert"
)

func TestComputeAnalytics(t *testing.T) {
	june := mustRange("2024-06-01", "2024-06-30")

	t.Run("blocked and booked days over a month", func(t *testing.T) {
		blocked := []availability.DateRange{
			mustRange("2024-06-01", "2024-06-09"), // 9 days
		}
		booked := []availability.DateRange{
			mustRange("2024-06-10", "2024-06-15"), // 6 days
		}

		result := availability.ComputeAnalytics(june, blocked, booked)

		assert.Equal(t, 30, result.TotalDays)
		assert.Equal(t, 9, result.BlockedDays)
		assert.Equal(t, 6, result.BookedDays)
		assert.Equal(t, 21, result.AvailableDays)
		assert.InDelta(t, 30.0, result.BlockedPercentage, 0.01)
		assert.InDelta(t, 28.57, result.UtilizationRate, 0.01)
	})

	t.Run("fully blocked period has zero utilization", func(t *testing.T) {
		blocked := []availability.DateRange{june}
		booked := []availability.DateRange{mustRange("2024-06-10", "2024-06-12")}

		result := availability.ComputeAnalytics(june, blocked, booked)

		assert.Equal(t, 0, result.AvailableDays)
		assert.InDelta(t, 100.0, result.BlockedPercentage, 0.01)
		assert.Zero(t, result.UtilizationRate)
	})

	t.Run("booked days overlapping blocked days cap utilization", func(t *testing.T) {
		// A completed booking's days can later be blocked, so booked
		// may exceed available; the rate must not pass 100.
		blocked := []availability.DateRange{
			mustRange("2024-06-01", "2024-06-20"), // 20 days
		}
		booked := []availability.DateRange{
			mustRange("2024-06-10", "2024-06-30"), // 21 days, 11 of them blocked
		}

		result := availability.ComputeAnalytics(june, blocked, booked)

		assert.Equal(t, 10, result.AvailableDays)
		assert.Equal(t, 21, result.BookedDays)
		assert.InDelta(t, 100.0, result.UtilizationRate, 0.01)
	})

	t.Run("overlapping blocks do not double count", func(t *testing.T) {
		blocked := []availability.DateRange{
			mustRange("2024-06-01", "2024-06-05"),
			mustRange("2024-06-03", "2024-06-07"),
		}

		result := availability.ComputeAnalytics(june, blocked, nil)
		assert.Equal(t, 7, result.BlockedDays)
	})

	t.Run("ranges wider than the period are clipped", func(t *testing.T) {
		blocked := []availability.DateRange{
			mustRange("2024-05-20", "2024-06-03"),
		}

		result := availability.ComputeAnalytics(june, blocked, nil)
		assert.Equal(t, 3, result.BlockedDays)
	})

	t.Run("empty inputs leave the period fully available", func(t *testing.T) {
		result := availability.ComputeAnalytics(june, nil, nil)
		assert.Equal(t, 30, result.AvailableDays)
		assert.Zero(t, result.BlockedPercentage)
		assert.Zero(t, result.UtilizationRate)
	})
}
