package commands

import (
	"context"
	"fmt"
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

type Scope string

const (
	ScopeAll    Scope = "all"
	ScopeFuture Scope = "future"
)

func (s Scope) IsValid() bool {
	return s == ScopeAll || s == ScopeFuture
}

// PatternChanges is a partial update: nil fields keep their current
// value. ClearEndDate turns a bounded pattern open-ended.
type PatternChanges struct {
	DaysOfWeek   []int
	EndDate      *time.Time
	ClearEndDate bool
	Reason       *string
}

type BulkBlockFailure struct {
	ListingID uuid.UUID
	Reason    string
	Conflicts []availability.Conflict
}

// BulkBlockResult reports per-listing outcomes: one listing's conflict
// never aborts the rest of the batch.
type BulkBlockResult struct {
	Successful []uuid.UUID
	Failed     []BulkBlockFailure
}

type BlockCommands interface {
	CreateBlock(ctx context.Context, actor uuid.UUID, ref listing.Ref, start, end time.Time, reason *string) (*availability.Block, error)
	CreateBlocks(ctx context.Context, actor uuid.UUID, refs []listing.Ref, start, end time.Time, reason *string) (*BulkBlockResult, error)
	DeleteBlock(ctx context.Context, actor uuid.UUID, id uuid.UUID) error
	CreateRecurringPattern(ctx context.Context, actor uuid.UUID, ref listing.Ref, daysOfWeek []int, start time.Time, end *time.Time, reason *string) (*availability.Pattern, error)
	UpdateRecurringPattern(ctx context.Context, actor uuid.UUID, id uuid.UUID, changes PatternChanges, scope Scope, pivot time.Time) (*availability.Pattern, error)
	DeleteRecurringPattern(ctx context.Context, actor uuid.UUID, id uuid.UUID, scope Scope, pivot time.Time) error
}

type blockCommandsImpl struct {
	uow         UnitOfWork
	blockRepo   BlockRepository
	patternRepo PatternRepository
	bookingRepo BookingRepository
	notifier    Notifier
	clock       clock.Clock
}

func NewBlockCommands(
	uow UnitOfWork,
	blockRepo BlockRepository,
	patternRepo PatternRepository,
	bookingRepo BookingRepository,
	notifier Notifier,
	clock clock.Clock,
) BlockCommands {
	return &blockCommandsImpl{
		uow:         uow,
		blockRepo:   blockRepo,
		patternRepo: patternRepo,
		bookingRepo: bookingRepo,
		notifier:    notifier,
		clock:       clock,
	}
}

func (c *blockCommandsImpl) CreateBlock(ctx context.Context, actor uuid.UUID, ref listing.Ref, start, end time.Time, reason *string) (*availability.Block, error) {
	block, err := availability.NewBlock(ref, start, end, reason, actor, c.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidDateRange)
	}

	var pendingOverlaps []OverlappingBooking

	err = c.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		// The transaction may run again after a serialization failure;
		// warnings collected by a discarded attempt must not carry over.
		pendingOverlaps = nil

		if lockErr := c.uow.LockListing(ctx, tx, ref.ID); lockErr != nil {
			return errs.Mark(lockErr, ErrDatabaseOperationFailed)
		}

		overlapping, findErr := c.bookingRepo.FindOverlapping(ctx, tx, ref.ID, block.Range(), booking.ConflictStatuses())
		if findErr != nil {
			return errs.Mark(findErr, ErrDatabaseOperationFailed)
		}

		// A block must never retroactively invalidate a live
		// reservation. Pending requests have not been answered yet, so
		// they downgrade to a warning instead of a hard failure.
		var hard []availability.Conflict
		for _, ob := range overlapping {
			if ob.Status == booking.StatusPending {
				pendingOverlaps = append(pendingOverlaps, ob)
				continue
			}
			id := ob.ID
			number := ob.Number
			hard = append(hard, availability.Conflict{
				Type:          availability.ConflictTypeBooking,
				Source:        availability.SourceBooking,
				Range:         ob.Range,
				BookingID:     &id,
				BookingNumber: &number,
			})
		}
		if len(hard) > 0 {
			return errs.Mark(&ConflictError{Conflicts: hard}, ErrBookingConflict)
		}

		if insErr := c.blockRepo.Insert(ctx, tx, block); insErr != nil {
			return errs.Mark(insErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, ob := range pendingOverlaps {
		c.notifier.Notify(ctx, Notification{
			UserID:  ob.RenterID,
			Kind:    NotificationBlockConflictWarning,
			Title:   "Requested dates were blocked",
			Message: fmt.Sprintf("The provider blocked %s to %s, which overlaps your pending booking %s.", block.Range().Start().Format(availability.ISODate), block.Range().End().Format(availability.ISODate), ob.Number),
			Metadata: map[string]any{
				"listing_id":     ref.ID.String(),
				"listing_type":   ref.Type.String(),
				"booking_id":     ob.ID.String(),
				"booking_number": ob.Number,
				"block_start":    block.Range().Start().Format(availability.ISODate),
				"block_end":      block.Range().End().Format(availability.ISODate),
			},
		})
	}

	return block, nil
}

func (c *blockCommandsImpl) CreateBlocks(ctx context.Context, actor uuid.UUID, refs []listing.Ref, start, end time.Time, reason *string) (*BulkBlockResult, error) {
	result := &BulkBlockResult{}

	// Each listing runs in its own transaction so one conflict cannot
	// roll back another listing's block.
	for _, ref := range refs {
		_, err := c.CreateBlock(ctx, actor, ref, start, end, reason)
		if err != nil {
			result.Failed = append(result.Failed, BulkBlockFailure{
				ListingID: ref.ID,
				Reason:    failureReason(err),
				Conflicts: ConflictsFrom(err),
			})
			continue
		}
		result.Successful = append(result.Successful, ref.ID)
	}

	return result, nil
}

func failureReason(err error) string {
	switch {
	case errs.Is(err, ErrBookingConflict):
		return "BOOKING_CONFLICT"
	case errs.Is(err, ErrInvalidDateRange):
		return "INVALID_DATE_RANGE"
	default:
		return "INTERNAL_ERROR"
	}
}

func (c *blockCommandsImpl) DeleteBlock(ctx context.Context, actor uuid.UUID, id uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		block, err := c.blockRepo.FindByID(ctx, tx, id)
		if err != nil {
			return markNotFound(err, ErrBlockNotFound)
		}
		if !block.OwnedBy(actor) {
			return ErrUnauthorized
		}
		if delErr := c.blockRepo.Delete(ctx, tx, id); delErr != nil {
			return errs.Mark(delErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (c *blockCommandsImpl) CreateRecurringPattern(ctx context.Context, actor uuid.UUID, ref listing.Ref, daysOfWeek []int, start time.Time, end *time.Time, reason *string) (*availability.Pattern, error) {
	// Recurring rules are set proactively for future capacity; unlike
	// one-off blocks they are not checked against existing bookings.
	pattern, err := availability.NewPattern(ref, daysOfWeek, start, end, reason, actor, c.clock.Now())
	if err != nil {
		return nil, markPatternValidation(err)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		if insErr := c.patternRepo.Insert(ctx, tx, pattern); insErr != nil {
			return errs.Mark(insErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pattern, nil
}

func (c *blockCommandsImpl) UpdateRecurringPattern(ctx context.Context, actor uuid.UUID, id uuid.UUID, changes PatternChanges, scope Scope, pivot time.Time) (*availability.Pattern, error) {
	if !scope.IsValid() {
		return nil, ErrInvalidScope
	}
	// An omitted pivot means "from today".
	if pivot.IsZero() {
		pivot = c.clock.Now()
	}

	var effective *availability.Pattern

	err := c.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		original, err := c.patternRepo.FindByID(ctx, tx, id)
		if err != nil {
			return markNotFound(err, ErrRecurringBlockNotFound)
		}
		if !original.OwnedBy(actor) {
			return ErrUnauthorized
		}

		switch scope {
		case ScopeAll:
			merged, mergeErr := mergePattern(original, changes, original.StartDate(), c.clock.Now())
			if mergeErr != nil {
				return mergeErr
			}
			updated := availability.ReconstructPattern(
				original.ID(), original.Listing(), merged.Weekdays(),
				merged.StartDate(), merged.EndDate(), merged.Reason(),
				original.CreatedBy(), original.CreatedAt(),
			)
			if updErr := c.patternRepo.Update(ctx, tx, updated); updErr != nil {
				return errs.Mark(updErr, ErrDatabaseOperationFailed)
			}
			effective = updated
			return nil

		case ScopeFuture:
			// Split: the original keeps generating its historical
			// instances up to the day before the pivot, and a new
			// pattern carries the changes from the pivot forward.
			successor, mergeErr := mergePattern(original, changes, availability.NormalizeDate(pivot), c.clock.Now())
			if mergeErr != nil {
				return mergeErr
			}

			if truncErr := c.truncateOrDelete(ctx, tx, original, pivot); truncErr != nil {
				return truncErr
			}
			if insErr := c.patternRepo.Insert(ctx, tx, successor); insErr != nil {
				return errs.Mark(insErr, ErrDatabaseOperationFailed)
			}
			effective = successor
			return nil

		default:
			return ErrInvalidScope
		}
	})
	if err != nil {
		return nil, err
	}
	return effective, nil
}

func (c *blockCommandsImpl) DeleteRecurringPattern(ctx context.Context, actor uuid.UUID, id uuid.UUID, scope Scope, pivot time.Time) error {
	if !scope.IsValid() {
		return ErrInvalidScope
	}
	if pivot.IsZero() {
		pivot = c.clock.Now()
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		original, err := c.patternRepo.FindByID(ctx, tx, id)
		if err != nil {
			return markNotFound(err, ErrRecurringBlockNotFound)
		}
		if !original.OwnedBy(actor) {
			return ErrUnauthorized
		}

		if scope == ScopeAll {
			if delErr := c.patternRepo.Delete(ctx, tx, id); delErr != nil {
				return errs.Mark(delErr, ErrDatabaseOperationFailed)
			}
			return nil
		}

		// future scope truncates rather than deletes, preserving the
		// instances already generated before the pivot.
		return c.truncateOrDelete(ctx, tx, original, pivot)
	})
}

func (c *blockCommandsImpl) truncateOrDelete(ctx context.Context, tx db.DBTX, original *availability.Pattern, pivot time.Time) error {
	truncatedEnd := availability.TruncatedEnd(pivot)
	if !original.CoversAnythingUntil(truncatedEnd) {
		// The pivot predates the pattern entirely; nothing historical
		// to preserve.
		if delErr := c.patternRepo.Delete(ctx, tx, original.ID()); delErr != nil {
			return errs.Mark(delErr, ErrDatabaseOperationFailed)
		}
		return nil
	}

	truncated := availability.ReconstructPattern(
		original.ID(), original.Listing(), original.Weekdays(),
		original.StartDate(), &truncatedEnd, original.Reason(),
		original.CreatedBy(), original.CreatedAt(),
	)
	if updErr := c.patternRepo.Update(ctx, tx, truncated); updErr != nil {
		return errs.Mark(updErr, ErrDatabaseOperationFailed)
	}
	return nil
}

// mergePattern applies partial changes on top of an existing pattern,
// producing a fresh validated pattern starting at start.
func mergePattern(original *availability.Pattern, changes PatternChanges, start time.Time, now time.Time) (*availability.Pattern, error) {
	days := changes.DaysOfWeek
	if days == nil {
		days = original.Weekdays().List()
	}

	end := original.EndDate()
	if changes.EndDate != nil {
		end = changes.EndDate
	}
	if changes.ClearEndDate {
		end = nil
	}

	reason := original.Reason()
	if changes.Reason != nil {
		reason = changes.Reason
	}

	merged, err := availability.NewPattern(original.Listing(), days, start, end, reason, original.CreatedBy(), now)
	if err != nil {
		return nil, markPatternValidation(err)
	}
	return merged, nil
}

func markPatternValidation(err error) error {
	if errs.Is(err, availability.ErrInvalidDaysOfWeek) {
		return errs.Mark(err, ErrInvalidDaysOfWeek)
	}
	return errs.Mark(err, ErrInvalidDateRange)
}

func markNotFound(err error, notFound error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, notFound)
	}
	return errs.Mark(err, ErrDatabaseOperationFailed)
}
