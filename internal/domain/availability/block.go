package availability

import (
	"time"

	"fleetrent/internal/domain/listing"

	"github.com/google/uuid"
)

// Block is a one-off manual unavailability window for a listing.
type Block struct {
	id        uuid.UUID
	listing   listing.Ref
	dateRange DateRange
	reason    *string
	createdBy uuid.UUID
	createdAt time.Time
}

func NewBlock(ref listing.Ref, start, end time.Time, reason *string, createdBy uuid.UUID, now time.Time) (*Block, error) {
	r, err := NewDateRange(start, end)
	if err != nil {
		return nil, err
	}
	return &Block{
		id:        uuid.New(),
		listing:   ref,
		dateRange: r,
		reason:    reason,
		createdBy: createdBy,
		createdAt: now,
	}, nil
}

func ReconstructBlock(id uuid.UUID, ref listing.Ref, dateRange DateRange, reason *string, createdBy uuid.UUID, createdAt time.Time) *Block {
	return &Block{
		id:        id,
		listing:   ref,
		dateRange: dateRange,
		reason:    reason,
		createdBy: createdBy,
		createdAt: createdAt,
	}
}

func (b *Block) ID() uuid.UUID        { return b.id }
func (b *Block) Listing() listing.Ref { return b.listing }
func (b *Block) Range() DateRange     { return b.dateRange }
func (b *Block) Reason() *string      { return b.reason }
func (b *Block) CreatedBy() uuid.UUID { return b.createdBy }
func (b *Block) CreatedAt() time.Time { return b.createdAt }

// OwnedBy reports whether the principal may mutate this block.
func (b *Block) OwnedBy(principal uuid.UUID) bool {
	return b.createdBy == principal
}
