//go:build unit

package availability_test

import (
	"testing"
	"time"

	"fleetrent/internal/domain/availability"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBlock(t *testing.T, start, end string) *availability.Block {
	t.Helper()
	b, err := availability.NewBlock(vehicleRef(), date(start), date(end), nil, uuid.New(), time.Now())
	require.NoError(t, err)
	return b
}

func TestResolve(t *testing.T) {
	window := mustRange("2024-06-11", "2024-06-13")

	t.Run("no sources means available", func(t *testing.T) {
		res := availability.Resolve(window, nil, nil, nil)
		assert.True(t, res.Available)
		assert.Empty(t, res.Conflicts)
	})

	t.Run("overlapping block makes the window unavailable", func(t *testing.T) {
		block := newBlock(t, "2024-06-10", "2024-06-12")

		res := availability.Resolve(window, []*availability.Block{block}, nil, nil)
		assert.False(t, res.Available)
		require.Len(t, res.Conflicts, 1)
		assert.Equal(t, availability.ConflictTypeBlock, res.Conflicts[0].Type)
		assert.Equal(t, availability.SourceManualBlock, res.Conflicts[0].Source)
		assert.True(t, res.HasBlockConflict())
		assert.False(t, res.HasBookingConflict())
	})

	t.Run("block ending the day before does not conflict", func(t *testing.T) {
		block := newBlock(t, "2024-06-05", "2024-06-10")

		res := availability.Resolve(window, []*availability.Block{block}, nil, nil)
		assert.True(t, res.Available)
	})

	t.Run("recurring instances surface as one conflict per day", func(t *testing.T) {
		// Mondays and Thursdays; 2024-06-13 is a Thursday.
		pattern, err := availability.NewPattern(vehicleRef(), []int{1, 4}, date("2024-06-01"), nil, nil, uuid.New(), time.Now())
		require.NoError(t, err)

		res := availability.Resolve(window, nil, []*availability.Pattern{pattern}, nil)
		assert.False(t, res.Available)
		require.Len(t, res.Conflicts, 1)
		assert.Equal(t, availability.SourceRecurringInstance, res.Conflicts[0].Source)
		assert.Equal(t, date("2024-06-13"), res.Conflicts[0].Range.Start())
		assert.Equal(t, date("2024-06-13"), res.Conflicts[0].Range.End())
	})

	t.Run("booking conflicts carry the booking identity", func(t *testing.T) {
		ref := availability.BookingRef{
			ID:     uuid.New(),
			Number: "BK-20240601-ABC123",
			Range:  mustRange("2024-06-12", "2024-06-15"),
		}

		res := availability.Resolve(window, nil, nil, []availability.BookingRef{ref})
		assert.False(t, res.Available)
		require.Len(t, res.Conflicts, 1)
		assert.Equal(t, availability.ConflictTypeBooking, res.Conflicts[0].Type)
		require.NotNil(t, res.Conflicts[0].BookingID)
		assert.Equal(t, ref.ID, *res.Conflicts[0].BookingID)
		require.NotNil(t, res.Conflicts[0].BookingNumber)
		assert.Equal(t, ref.Number, *res.Conflicts[0].BookingNumber)
	})

	t.Run("all three sources merge into one conflict list", func(t *testing.T) {
		block := newBlock(t, "2024-06-11", "2024-06-11")
		pattern, err := availability.NewPattern(vehicleRef(), []int{3}, date("2024-06-01"), nil, nil, uuid.New(), time.Now())
		require.NoError(t, err)
		ref := availability.BookingRef{ID: uuid.New(), Number: "BK-1", Range: mustRange("2024-06-13", "2024-06-13")}

		res := availability.Resolve(window,
			[]*availability.Block{block},
			[]*availability.Pattern{pattern},
			[]availability.BookingRef{ref})
		assert.False(t, res.Available)
		// 2024-06-12 is a Wednesday, inside the window.
		assert.Len(t, res.Conflicts, 3)

		first, ok := res.FirstBlockRange()
		require.True(t, ok)
		assert.Equal(t, date("2024-06-11"), first.Start())
	})
}
