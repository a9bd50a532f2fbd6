package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fleetrent/internal/domain/availability"
	"fleetrent/internal/domain/booking"
	"fleetrent/internal/domain/listing"
	"fleetrent/internal/infra"
	"fleetrent/internal/infra/db"
	"fleetrent/internal/pkg/clock"
	"fleetrent/internal/pkg/errs"

	"github.com/google/uuid"
)

type CreateBookingInput struct {
	VehicleID *uuid.UUID
	DriverID  *uuid.UUID
	Start     time.Time
	End       time.Time
	Note      *string
}

type BookingCommands interface {
	CreateBookingRequest(ctx context.Context, renter uuid.UUID, input CreateBookingInput) (*booking.Booking, error)
}

type bookingCommandsImpl struct {
	uow          UnitOfWork
	blockRepo    BlockRepository
	patternRepo  PatternRepository
	bookingRepo  BookingRepository
	listingReads ListingReads
	notifier     Notifier
	clock        clock.Clock
}

func NewBookingCommands(
	uow UnitOfWork,
	blockRepo BlockRepository,
	patternRepo PatternRepository,
	bookingRepo BookingRepository,
	listingReads ListingReads,
	notifier Notifier,
	clock clock.Clock,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:          uow,
		blockRepo:    blockRepo,
		patternRepo:  patternRepo,
		bookingRepo:  bookingRepo,
		listingReads: listingReads,
		notifier:     notifier,
		clock:        clock,
	}
}

// blockedRejection is captured inside the transaction closure so the
// renter can be told, after rollback, which window stood in the way.
type blockedRejection struct {
	ref    listing.Ref
	window availability.DateRange
}

func (c *bookingCommandsImpl) CreateBookingRequest(ctx context.Context, renter uuid.UUID, input CreateBookingInput) (*booking.Booking, error) {
	newBooking, err := booking.NewBooking(renter, input.VehicleID, input.DriverID, input.Start, input.End, input.Note, c.clock.Now())
	if err != nil {
		if errs.Is(err, booking.ErrNoListings) {
			return nil, errs.Mark(err, ErrListingNotFound)
		}
		return nil, errs.Mark(err, ErrInvalidDateRange)
	}

	refs, err := c.resolveListings(ctx, input)
	if err != nil {
		return nil, err
	}

	var rejection *blockedRejection

	err = c.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		// Deterministic lock order across listings avoids deadlocks
		// between concurrent combined requests.
		ordered := make([]listing.Ref, len(refs))
		copy(ordered, refs)
		sort.Slice(ordered, func(i, j int) bool {
			return ordered[i].ID.String() < ordered[j].ID.String()
		})
		for _, ref := range ordered {
			if lockErr := c.uow.LockListing(ctx, tx, ref.ID); lockErr != nil {
				return errs.Mark(lockErr, ErrDatabaseOperationFailed)
			}
		}

		// Every listing must independently pass the full conflict
		// check inside this transaction: check and insert are one
		// atomic unit per listing.
		for _, ref := range ordered {
			resolution, resErr := c.resolveConflicts(ctx, tx, ref, newBooking.Range())
			if resErr != nil {
				return resErr
			}
			if resolution.Available {
				continue
			}

			if resolution.HasBlockConflict() {
				window, _ := resolution.FirstBlockRange()
				rejection = &blockedRejection{ref: ref, window: window}
				return errs.Mark(&ConflictError{Conflicts: resolution.Conflicts}, ErrNotAvailable)
			}

			notAvailable := ErrDriverNotAvailable
			if ref.Type == listing.TypeVehicle {
				notAvailable = ErrVehicleNotAvailable
			}
			return errs.Mark(&ConflictError{Conflicts: resolution.Conflicts}, notAvailable)
		}

		if insErr := c.bookingRepo.Insert(ctx, tx, newBooking); insErr != nil {
			return errs.Mark(insErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		if rejection != nil {
			c.notifyBlockedRejection(ctx, renter, *rejection)
		}
		return nil, err
	}

	return newBooking, nil
}

func (c *bookingCommandsImpl) resolveListings(ctx context.Context, input CreateBookingInput) ([]listing.Ref, error) {
	var refs []listing.Ref
	var vehicle, driver *ListingSnapshot

	if input.VehicleID != nil {
		snap, err := c.lookupListing(ctx, *input.VehicleID, listing.TypeVehicle)
		if err != nil {
			return nil, err
		}
		vehicle = snap
		refs = append(refs, listing.Ref{ID: snap.ID, Type: snap.Type})
	}
	if input.DriverID != nil {
		snap, err := c.lookupListing(ctx, *input.DriverID, listing.TypeDriver)
		if err != nil {
			return nil, err
		}
		driver = snap
		refs = append(refs, listing.Ref{ID: snap.ID, Type: snap.Type})
	}

	// A combined vehicle+driver request only makes sense within one
	// provider company.
	if vehicle != nil && driver != nil && vehicle.CompanyID != driver.CompanyID {
		return nil, ErrCompanyMismatch
	}

	return refs, nil
}

func (c *bookingCommandsImpl) lookupListing(ctx context.Context, id uuid.UUID, expected listing.Type) (*ListingSnapshot, error) {
	snap, err := c.listingReads.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if snap.Type != expected {
		return nil, ErrListingNotFound
	}
	return snap, nil
}

func (c *bookingCommandsImpl) resolveConflicts(ctx context.Context, tx db.DBTX, ref listing.Ref, window availability.DateRange) (availability.Resolution, error) {
	blocks, err := c.blockRepo.FindOverlapping(ctx, tx, ref, window)
	if err != nil {
		return availability.Resolution{}, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	patterns, err := c.patternRepo.FindActiveIn(ctx, tx, ref, window)
	if err != nil {
		return availability.Resolution{}, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	overlapping, err := c.bookingRepo.FindOverlapping(ctx, tx, ref.ID, window, booking.ConflictStatuses())
	if err != nil {
		return availability.Resolution{}, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	refs := make([]availability.BookingRef, len(overlapping))
	for i, ob := range overlapping {
		refs[i] = ob.ConflictRef()
	}

	return availability.Resolve(window, blocks, patterns, refs), nil
}

func (c *bookingCommandsImpl) notifyBlockedRejection(ctx context.Context, renter uuid.UUID, r blockedRejection) {
	c.notifier.Notify(ctx, Notification{
		UserID:  renter,
		Kind:    NotificationBookingRejectedBlockedDates,
		Title:   "Booking request rejected",
		Message: fmt.Sprintf("The %s you requested is unavailable from %s to %s.", r.ref.Type, r.window.Start().Format(availability.ISODate), r.window.End().Format(availability.ISODate)),
		Metadata: map[string]any{
			"listing_id":   r.ref.ID.String(),
			"listing_type": r.ref.Type.String(),
			"blocked_from": r.window.Start().Format(availability.ISODate),
			"blocked_to":   r.window.End().Format(availability.ISODate),
		},
	})
}
