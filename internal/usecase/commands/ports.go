package commands

import (
	"context"

	"fleetrent/internal/domain/availability"
	"fleetrent/internal/domain/booking"
	"fleetrent/internal/domain/listing"
	"fleetrent/internal/infra/db"

	"github.com/google/uuid"
)

// Write-side snapshots keep commands independent of read-side query types
type ListingSnapshot struct {
	ID        uuid.UUID
	Type      listing.Type
	Name      string
	CompanyID uuid.UUID
}

// OverlappingBooking is the slice of a booking the write path needs:
// enough to build a conflict detail and to notify the renter.
type OverlappingBooking struct {
	ID       uuid.UUID
	Number   string
	RenterID uuid.UUID
	Status   booking.Status
	Range    availability.DateRange
}

func (o OverlappingBooking) ConflictRef() availability.BookingRef {
	return availability.BookingRef{ID: o.ID, Number: o.Number, Range: o.Range}
}

type BlockRepository interface {
	Insert(ctx context.Context, tx db.DBTX, b *availability.Block) error
	Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error
	FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*availability.Block, error)
	FindOverlapping(ctx context.Context, tx db.DBTX, ref listing.Ref, window availability.DateRange) ([]*availability.Block, error)
}

type PatternRepository interface {
	Insert(ctx context.Context, tx db.DBTX, p *availability.Pattern) error
	// Update persists every mutable field of the pattern row.
	Update(ctx context.Context, tx db.DBTX, p *availability.Pattern) error
	Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error
	FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*availability.Pattern, error)
	FindActiveIn(ctx context.Context, tx db.DBTX, ref listing.Ref, window availability.DateRange) ([]*availability.Pattern, error)
}

type BookingRepository interface {
	Insert(ctx context.Context, tx db.DBTX, b *booking.Booking) error
	FindOverlapping(ctx context.Context, tx db.DBTX, listingID uuid.UUID, window availability.DateRange, statuses []booking.Status) ([]OverlappingBooking, error)
}

type ListingReads interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ListingSnapshot, error)
}

type Notification struct {
	UserID   uuid.UUID
	Kind     string
	Title    string
	Message  string
	Metadata map[string]any
}

const (
	NotificationBookingRejectedBlockedDates = "BOOKING_REJECTED_BLOCKED_DATES"
	NotificationBlockConflictWarning        = "BLOCK_CONFLICT_WARNING"
)

// Notifier is fire-and-forget: implementations log delivery failures
// and never propagate them, so a failed notification cannot roll back
// an otherwise-successful operation.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// UnitOfWork runs fn inside a serializable transaction. LockListing
// takes the per-listing advisory lock that makes check-then-insert
// atomic for that listing.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error
	LockListing(ctx context.Context, tx db.DBTX, listingID uuid.UUID) error
}
