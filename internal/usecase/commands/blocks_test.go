//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"fleetrent/internal/domain/availability"
	"fleetrent/internal/domain/booking"
	"fleetrent/internal/domain/listing"
	"fleetrent/internal/pkg/clock"
	"fleetrent/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockFixture struct {
	uow      *fakeUoW
	blocks   *fakeBlockRepo
	patterns *fakePatternRepo
	bookings *fakeBookingRepo
	notifier *fakeNotifier
	clk      *clock.MockClock
	cmds     commands.BlockCommands
}

func newBlockFixture() *blockFixture {
	f := &blockFixture{
		uow:      &fakeUoW{},
		blocks:   newFakeBlockRepo(),
		patterns: newFakePatternRepo(),
		bookings: newFakeBookingRepo(),
		notifier: &fakeNotifier{},
		clk:      clock.NewMockClock(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)),
	}
	f.cmds = commands.NewBlockCommands(f.uow, f.blocks, f.patterns, f.bookings, f.notifier, f.clk)
	return f
}

func TestCreateBlock(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()
	ref := listing.Ref{ID: uuid.New(), Type: listing.TypeVehicle}

	t.Run("creates a block on free dates", func(t *testing.T) {
		f := newBlockFixture()

		block, err := f.cmds.CreateBlock(ctx, actor, ref, date("2024-06-10"), date("2024-06-12"), nil)
		require.NoError(t, err)
		assert.Equal(t, ref, block.Listing())
		assert.Contains(t, f.blocks.blocks, block.ID())
		assert.Equal(t, []uuid.UUID{ref.ID}, f.uow.locked)
		assert.Empty(t, f.notifier.sent)
	})

	t.Run("inverted range is rejected before any transaction", func(t *testing.T) {
		f := newBlockFixture()

		_, err := f.cmds.CreateBlock(ctx, actor, ref, date("2024-06-12"), date("2024-06-10"), nil)
		assert.ErrorIs(t, err, commands.ErrInvalidDateRange)
		assert.Empty(t, f.uow.locked)
	})

	t.Run("overlap with an accepted booking fails with conflict detail", func(t *testing.T) {
		f := newBlockFixture()
		f.bookings.seed(ref.ID, commands.OverlappingBooking{
			ID:       uuid.New(),
			Number:   "BK-20240520-AAAAAA",
			RenterID: uuid.New(),
			Status:   booking.StatusAccepted,
			Range:    mustRange("2024-06-11", "2024-06-14"),
		})

		_, err := f.cmds.CreateBlock(ctx, actor, ref, date("2024-06-10"), date("2024-06-12"), nil)
		require.ErrorIs(t, err, commands.ErrBookingConflict)

		conflicts := commands.ConflictsFrom(err)
		require.Len(t, conflicts, 1)
		assert.Equal(t, availability.ConflictTypeBooking, conflicts[0].Type)
		require.NotNil(t, conflicts[0].BookingNumber)
		assert.Equal(t, "BK-20240520-AAAAAA", *conflicts[0].BookingNumber)
		assert.Empty(t, f.blocks.blocks)
	})

	t.Run("overlap with a pending booking succeeds and warns the renter", func(t *testing.T) {
		f := newBlockFixture()
		renter := uuid.New()
		f.bookings.seed(ref.ID, commands.OverlappingBooking{
			ID:       uuid.New(),
			Number:   "BK-20240520-BBBBBB",
			RenterID: renter,
			Status:   booking.StatusPending,
			Range:    mustRange("2024-06-11", "2024-06-14"),
		})

		block, err := f.cmds.CreateBlock(ctx, actor, ref, date("2024-06-10"), date("2024-06-12"), nil)
		require.NoError(t, err)
		assert.Contains(t, f.blocks.blocks, block.ID())

		require.Len(t, f.notifier.sent, 1)
		n := f.notifier.sent[0]
		assert.Equal(t, renter, n.UserID)
		assert.Equal(t, commands.NotificationBlockConflictWarning, n.Kind)
		assert.Equal(t, "BK-20240520-BBBBBB", n.Metadata["booking_number"])
	})

	t.Run("warning is sent once even when the transaction retries", func(t *testing.T) {
		f := newBlockFixture()
		f.uow.replays = 1
		f.bookings.seed(ref.ID, commands.OverlappingBooking{
			ID:       uuid.New(),
			Number:   "BK-20240520-CCCCCC",
			RenterID: uuid.New(),
			Status:   booking.StatusPending,
			Range:    mustRange("2024-06-11", "2024-06-14"),
		})

		_, err := f.cmds.CreateBlock(ctx, actor, ref, date("2024-06-10"), date("2024-06-12"), nil)
		require.NoError(t, err)

		// Only the committed attempt's findings reach the renter.
		require.Len(t, f.notifier.sent, 1)
	})
}

func TestCreateBlocks(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	t.Run("one conflicting listing does not abort the batch", func(t *testing.T) {
		f := newBlockFixture()
		free := listing.Ref{ID: uuid.New(), Type: listing.TypeVehicle}
		busy := listing.Ref{ID: uuid.New(), Type: listing.TypeVehicle}
		f.bookings.seed(busy.ID, commands.OverlappingBooking{
			ID:     uuid.New(),
			Number: "BK-1",
			Status: booking.StatusActive,
			Range:  mustRange("2024-06-10", "2024-06-12"),
		})

		result, err := f.cmds.CreateBlocks(ctx, actor, []listing.Ref{free, busy}, date("2024-06-10"), date("2024-06-12"), nil)
		require.NoError(t, err)

		assert.Equal(t, []uuid.UUID{free.ID}, result.Successful)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, busy.ID, result.Failed[0].ListingID)
		assert.Equal(t, "BOOKING_CONFLICT", result.Failed[0].Reason)
		assert.NotEmpty(t, result.Failed[0].Conflicts)
		assert.Len(t, f.blocks.blocks, 1)
	})
}

func TestDeleteBlock(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	ref := listing.Ref{ID: uuid.New(), Type: listing.TypeDriver}

	t.Run("owner deletes the block", func(t *testing.T) {
		f := newBlockFixture()
		block, err := f.cmds.CreateBlock(ctx, owner, ref, date("2024-06-10"), date("2024-06-12"), nil)
		require.NoError(t, err)

		require.NoError(t, f.cmds.DeleteBlock(ctx, owner, block.ID()))
		assert.Empty(t, f.blocks.blocks)
	})

	t.Run("someone else is rejected", func(t *testing.T) {
		f := newBlockFixture()
		block, err := f.cmds.CreateBlock(ctx, owner, ref, date("2024-06-10"), date("2024-06-12"), nil)
		require.NoError(t, err)

		err = f.cmds.DeleteBlock(ctx, uuid.New(), block.ID())
		assert.ErrorIs(t, err, commands.ErrUnauthorized)
		assert.Contains(t, f.blocks.blocks, block.ID())
	})

	t.Run("missing block", func(t *testing.T) {
		f := newBlockFixture()
		err := f.cmds.DeleteBlock(ctx, owner, uuid.New())
		assert.ErrorIs(t, err, commands.ErrBlockNotFound)
	})
}

func TestCreateRecurringPattern(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()
	ref := listing.Ref{ID: uuid.New(), Type: listing.TypeVehicle}

	t.Run("valid pattern persists", func(t *testing.T) {
		f := newBlockFixture()
		p, err := f.cmds.CreateRecurringPattern(ctx, actor, ref, []int{1, 3}, date("2024-06-01"), nil, nil)
		require.NoError(t, err)
		assert.Contains(t, f.patterns.patterns, p.ID())
	})

	t.Run("invalid weekday set", func(t *testing.T) {
		f := newBlockFixture()
		_, err := f.cmds.CreateRecurringPattern(ctx, actor, ref, []int{9}, date("2024-06-01"), nil, nil)
		assert.ErrorIs(t, err, commands.ErrInvalidDaysOfWeek)
	})

	t.Run("existing bookings do not block pattern creation", func(t *testing.T) {
		f := newBlockFixture()
		f.bookings.seed(ref.ID, commands.OverlappingBooking{
			ID: uuid.New(), Number: "BK-1", Status: booking.StatusActive,
			Range: mustRange("2024-06-01", "2024-12-31"),
		})

		_, err := f.cmds.CreateRecurringPattern(ctx, actor, ref, []int{1}, date("2024-06-01"), nil, nil)
		assert.NoError(t, err)
	})
}

func TestUpdateRecurringPattern(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()
	ref := listing.Ref{ID: uuid.New(), Type: listing.TypeVehicle}

	seed := func(t *testing.T, f *blockFixture) *availability.Pattern {
		t.Helper()
		p, err := f.cmds.CreateRecurringPattern(ctx, actor, ref, []int{1}, date("2024-06-01"), nil, nil)
		require.NoError(t, err)
		return p
	}

	t.Run("scope all rewrites the pattern in place", func(t *testing.T) {
		f := newBlockFixture()
		p := seed(t, f)

		updated, err := f.cmds.UpdateRecurringPattern(ctx, actor, p.ID(),
			commands.PatternChanges{DaysOfWeek: []int{2, 4}}, commands.ScopeAll, date("2024-06-15"))
		require.NoError(t, err)
		assert.Equal(t, p.ID(), updated.ID())
		assert.Equal(t, []int{2, 4}, updated.Weekdays().List())
		assert.Equal(t, p.StartDate(), updated.StartDate())
		assert.Len(t, f.patterns.patterns, 1)
	})

	t.Run("scope future splits at the pivot", func(t *testing.T) {
		f := newBlockFixture()
		p := seed(t, f)

		successor, err := f.cmds.UpdateRecurringPattern(ctx, actor, p.ID(),
			commands.PatternChanges{DaysOfWeek: []int{5}}, commands.ScopeFuture, date("2024-06-15"))
		require.NoError(t, err)

		// Successor starts at the pivot with the new weekdays.
		assert.NotEqual(t, p.ID(), successor.ID())
		assert.Equal(t, date("2024-06-15"), successor.StartDate())
		assert.Equal(t, []int{5}, successor.Weekdays().List())

		// Original survives, truncated to the day before.
		require.Len(t, f.patterns.patterns, 2)
		truncated := f.patterns.patterns[p.ID()]
		require.NotNil(t, truncated.EndDate())
		assert.Equal(t, date("2024-06-14"), *truncated.EndDate())
		assert.Equal(t, []int{1}, truncated.Weekdays().List())
	})

	t.Run("future pivot before the pattern start removes the original", func(t *testing.T) {
		f := newBlockFixture()
		p := seed(t, f)

		successor, err := f.cmds.UpdateRecurringPattern(ctx, actor, p.ID(),
			commands.PatternChanges{DaysOfWeek: []int{5}}, commands.ScopeFuture, date("2024-05-01"))
		require.NoError(t, err)

		// Nothing historical to preserve; only the successor remains.
		require.Len(t, f.patterns.patterns, 1)
		assert.Contains(t, f.patterns.patterns, successor.ID())
	})

	t.Run("clear end date makes a bounded pattern open ended", func(t *testing.T) {
		f := newBlockFixture()
		end := date("2024-06-30")
		p, err := f.cmds.CreateRecurringPattern(ctx, actor, ref, []int{1}, date("2024-06-01"), &end, nil)
		require.NoError(t, err)

		updated, err := f.cmds.UpdateRecurringPattern(ctx, actor, p.ID(),
			commands.PatternChanges{ClearEndDate: true}, commands.ScopeAll, date("2024-06-15"))
		require.NoError(t, err)
		assert.Nil(t, updated.EndDate())
	})

	t.Run("non owner is rejected", func(t *testing.T) {
		f := newBlockFixture()
		p := seed(t, f)

		_, err := f.cmds.UpdateRecurringPattern(ctx, uuid.New(), p.ID(),
			commands.PatternChanges{DaysOfWeek: []int{2}}, commands.ScopeAll, date("2024-06-15"))
		assert.ErrorIs(t, err, commands.ErrUnauthorized)
	})

	t.Run("unknown scope", func(t *testing.T) {
		f := newBlockFixture()
		p := seed(t, f)

		_, err := f.cmds.UpdateRecurringPattern(ctx, actor, p.ID(),
			commands.PatternChanges{}, commands.Scope("someday"), date("2024-06-15"))
		assert.ErrorIs(t, err, commands.ErrInvalidScope)
	})

	t.Run("omitted pivot splits at the clock's today", func(t *testing.T) {
		f := newBlockFixture()
		p, err := f.cmds.CreateRecurringPattern(ctx, actor, ref, []int{1}, date("2024-05-01"), nil, nil)
		require.NoError(t, err)

		// Fixture clock reads 2024-06-01 09:00 UTC.
		successor, err := f.cmds.UpdateRecurringPattern(ctx, actor, p.ID(),
			commands.PatternChanges{DaysOfWeek: []int{5}}, commands.ScopeFuture, time.Time{})
		require.NoError(t, err)

		assert.Equal(t, date("2024-06-01"), successor.StartDate())
		truncated := f.patterns.patterns[p.ID()]
		require.NotNil(t, truncated.EndDate())
		assert.Equal(t, date("2024-05-31"), *truncated.EndDate())
	})
}

func TestDeleteRecurringPattern(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()
	ref := listing.Ref{ID: uuid.New(), Type: listing.TypeVehicle}

	t.Run("scope all removes the pattern", func(t *testing.T) {
		f := newBlockFixture()
		p, err := f.cmds.CreateRecurringPattern(ctx, actor, ref, []int{1}, date("2024-06-01"), nil, nil)
		require.NoError(t, err)

		require.NoError(t, f.cmds.DeleteRecurringPattern(ctx, actor, p.ID(), commands.ScopeAll, date("2024-06-15")))
		assert.Empty(t, f.patterns.patterns)
	})

	t.Run("scope future truncates instead", func(t *testing.T) {
		f := newBlockFixture()
		p, err := f.cmds.CreateRecurringPattern(ctx, actor, ref, []int{1}, date("2024-06-01"), nil, nil)
		require.NoError(t, err)

		require.NoError(t, f.cmds.DeleteRecurringPattern(ctx, actor, p.ID(), commands.ScopeFuture, date("2024-06-15")))
		require.Len(t, f.patterns.patterns, 1)
		truncated := f.patterns.patterns[p.ID()]
		require.NotNil(t, truncated.EndDate())
		assert.Equal(t, date("2024-06-14"), *truncated.EndDate())
	})

	t.Run("scope future with a pivot before the start deletes outright", func(t *testing.T) {
		f := newBlockFixture()
		p, err := f.cmds.CreateRecurringPattern(ctx, actor, ref, []int{1}, date("2024-06-10"), nil, nil)
		require.NoError(t, err)

		require.NoError(t, f.cmds.DeleteRecurringPattern(ctx, actor, p.ID(), commands.ScopeFuture, date("2024-06-01")))
		assert.Empty(t, f.patterns.patterns)
	})

	t.Run("omitted pivot truncates at the clock's today", func(t *testing.T) {
		f := newBlockFixture()
		p, err := f.cmds.CreateRecurringPattern(ctx, actor, ref, []int{1}, date("2024-05-01"), nil, nil)
		require.NoError(t, err)

		require.NoError(t, f.cmds.DeleteRecurringPattern(ctx, actor, p.ID(), commands.ScopeFuture, time.Time{}))
		require.Len(t, f.patterns.patterns, 1)
		truncated := f.patterns.patterns[p.ID()]
		require.NotNil(t, truncated.EndDate())
		assert.Equal(t, date("2024-05-31"), *truncated.EndDate())
	})
}
