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

type bookingFixture struct {
	uow      *fakeUoW
	blocks   *fakeBlockRepo
	patterns *fakePatternRepo
	bookings *fakeBookingRepo
	listings *fakeListingReads
	notifier *fakeNotifier
	cmds     commands.BookingCommands

	company uuid.UUID
	vehicle commands.ListingSnapshot
	driver  commands.ListingSnapshot
}

func newBookingFixture() *bookingFixture {
	company := uuid.New()
	f := &bookingFixture{
		uow:      &fakeUoW{},
		blocks:   newFakeBlockRepo(),
		patterns: newFakePatternRepo(),
		bookings: newFakeBookingRepo(),
		notifier: &fakeNotifier{},
		company:  company,
		vehicle: commands.ListingSnapshot{
			ID: uuid.New(), Type: listing.TypeVehicle, Name: "Truck A", CompanyID: company,
		},
		driver: commands.ListingSnapshot{
			ID: uuid.New(), Type: listing.TypeDriver, Name: "Driver B", CompanyID: company,
		},
	}
	f.listings = newFakeListingReads(f.vehicle, f.driver)
	f.cmds = commands.NewBookingCommands(
		f.uow, f.blocks, f.patterns, f.bookings, f.listings, f.notifier,
		clock.NewMockClock(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)),
	)
	return f
}

func (f *bookingFixture) vehicleRef() listing.Ref {
	return listing.Ref{ID: f.vehicle.ID, Type: listing.TypeVehicle}
}

func TestCreateBookingRequest(t *testing.T) {
	ctx := context.Background()
	renter := uuid.New()

	input := func(f *bookingFixture) commands.CreateBookingInput {
		return commands.CreateBookingInput{
			VehicleID: &f.vehicle.ID,
			Start:     date("2024-06-10"),
			End:       date("2024-06-13"),
		}
	}

	t.Run("free dates produce a pending booking", func(t *testing.T) {
		f := newBookingFixture()

		b, err := f.cmds.CreateBookingRequest(ctx, renter, input(f))
		require.NoError(t, err)
		assert.Equal(t, booking.StatusPending, b.Status())
		require.Len(t, f.bookings.inserted, 1)
		assert.Equal(t, b.ID(), f.bookings.inserted[0].ID())
		assert.Equal(t, []uuid.UUID{f.vehicle.ID}, f.uow.locked)
	})

	t.Run("blocked dates reject and notify after rollback", func(t *testing.T) {
		f := newBookingFixture()
		block, err := availability.NewBlock(f.vehicleRef(), date("2024-06-11"), date("2024-06-12"), nil, uuid.New(), time.Now())
		require.NoError(t, err)
		f.blocks.blocks[block.ID()] = block

		_, err = f.cmds.CreateBookingRequest(ctx, renter, input(f))
		require.ErrorIs(t, err, commands.ErrNotAvailable)
		assert.NotEmpty(t, commands.ConflictsFrom(err))
		assert.Empty(t, f.bookings.inserted)

		require.Len(t, f.notifier.sent, 1)
		n := f.notifier.sent[0]
		assert.Equal(t, renter, n.UserID)
		assert.Equal(t, commands.NotificationBookingRejectedBlockedDates, n.Kind)
		assert.Equal(t, "2024-06-11", n.Metadata["blocked_from"])
		assert.Equal(t, "2024-06-12", n.Metadata["blocked_to"])
	})

	t.Run("recurring instance on a requested day rejects", func(t *testing.T) {
		f := newBookingFixture()
		// 2024-06-12 is a Wednesday.
		p, err := availability.NewPattern(f.vehicleRef(), []int{3}, date("2024-06-01"), nil, nil, uuid.New(), time.Now())
		require.NoError(t, err)
		f.patterns.patterns[p.ID()] = p

		_, err = f.cmds.CreateBookingRequest(ctx, renter, input(f))
		require.ErrorIs(t, err, commands.ErrNotAvailable)
		assert.Len(t, f.notifier.sent, 1)
	})

	t.Run("overlapping vehicle booking rejects without notification", func(t *testing.T) {
		f := newBookingFixture()
		f.bookings.seed(f.vehicle.ID, commands.OverlappingBooking{
			ID: uuid.New(), Number: "BK-1", Status: booking.StatusAccepted,
			Range: mustRange("2024-06-12", "2024-06-14"),
		})

		_, err := f.cmds.CreateBookingRequest(ctx, renter, input(f))
		require.ErrorIs(t, err, commands.ErrVehicleNotAvailable)
		assert.NotEmpty(t, commands.ConflictsFrom(err))
		assert.Empty(t, f.notifier.sent)
	})

	t.Run("overlapping driver booking maps to the driver error", func(t *testing.T) {
		f := newBookingFixture()
		f.bookings.seed(f.driver.ID, commands.OverlappingBooking{
			ID: uuid.New(), Number: "BK-2", Status: booking.StatusPending,
			Range: mustRange("2024-06-10", "2024-06-10"),
		})

		in := input(f)
		in.DriverID = &f.driver.ID
		_, err := f.cmds.CreateBookingRequest(ctx, renter, in)
		assert.ErrorIs(t, err, commands.ErrDriverNotAvailable)
	})

	t.Run("cancelled bookings never conflict", func(t *testing.T) {
		f := newBookingFixture()
		f.bookings.seed(f.vehicle.ID, commands.OverlappingBooking{
			ID: uuid.New(), Number: "BK-3", Status: booking.StatusCancelled,
			Range: mustRange("2024-06-10", "2024-06-13"),
		})

		_, err := f.cmds.CreateBookingRequest(ctx, renter, input(f))
		assert.NoError(t, err)
	})

	t.Run("combined request locks listings in deterministic order", func(t *testing.T) {
		f := newBookingFixture()
		in := input(f)
		in.DriverID = &f.driver.ID

		_, err := f.cmds.CreateBookingRequest(ctx, renter, in)
		require.NoError(t, err)

		require.Len(t, f.uow.locked, 2)
		assert.Less(t, f.uow.locked[0].String(), f.uow.locked[1].String())
	})

	t.Run("vehicle and driver from different companies", func(t *testing.T) {
		f := newBookingFixture()
		other := commands.ListingSnapshot{
			ID: uuid.New(), Type: listing.TypeDriver, Name: "Outsider", CompanyID: uuid.New(),
		}
		f.listings.listings[other.ID] = other

		in := input(f)
		in.DriverID = &other.ID
		_, err := f.cmds.CreateBookingRequest(ctx, renter, in)
		assert.ErrorIs(t, err, commands.ErrCompanyMismatch)
		assert.Empty(t, f.uow.locked)
	})

	t.Run("unknown listing", func(t *testing.T) {
		f := newBookingFixture()
		missing := uuid.New()
		in := input(f)
		in.VehicleID = &missing

		_, err := f.cmds.CreateBookingRequest(ctx, renter, in)
		assert.ErrorIs(t, err, commands.ErrListingNotFound)
	})

	t.Run("listing of the wrong type", func(t *testing.T) {
		f := newBookingFixture()
		in := input(f)
		// Requesting the driver listing as a vehicle.
		in.VehicleID = &f.driver.ID
		in.DriverID = nil

		_, err := f.cmds.CreateBookingRequest(ctx, renter, in)
		assert.ErrorIs(t, err, commands.ErrListingNotFound)
	})

	t.Run("no listings at all", func(t *testing.T) {
		f := newBookingFixture()
		_, err := f.cmds.CreateBookingRequest(ctx, renter, commands.CreateBookingInput{
			Start: date("2024-06-10"), End: date("2024-06-13"),
		})
		assert.ErrorIs(t, err, commands.ErrListingNotFound)
	})

	t.Run("zero length range", func(t *testing.T) {
		f := newBookingFixture()
		in := input(f)
		in.End = in.Start
		_, err := f.cmds.CreateBookingRequest(ctx, renter, in)
		assert.ErrorIs(t, err, commands.ErrInvalidDateRange)
	})
}
