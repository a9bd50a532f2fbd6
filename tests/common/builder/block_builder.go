//go:build unit || e2e

package builder

import (
	"time"

	"fleetrent/internal/domain/availability"
	"fleetrent/internal/domain/listing"
	reqdto "fleetrent/internal/handler/dto/request"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BlockBuilder struct {
	ListingID   uuid.UUID
	ListingType string
	StartDate   string
	EndDate     string
	Reason      *string
	CreatedBy   uuid.UUID
}

func NewBlockBuilder() *BlockBuilder {
	reason := "maintenance"
	return &BlockBuilder{
		ListingID:   uuid.New(),
		ListingType: "vehicle",
		StartDate:   "2024-06-10",
		EndDate:     "2024-06-12",
		Reason:      &reason,
		CreatedBy:   uuid.New(),
	}
}

func (b *BlockBuilder) With(mutate func(*BlockBuilder)) *BlockBuilder {
	mutate(b)
	return b
}

// Clone produces an independent copy so one test case can branch from
// another without sharing pointer fields.
func (b *BlockBuilder) Clone() *BlockBuilder {
	var c BlockBuilder
	if err := copier.CopyWithOption(&c, b, copier.Option{DeepCopy: true}); err != nil {
		panic(err)
	}
	return &c
}

func (b *BlockBuilder) BuildDTO() reqdto.CreateBlockRequest {
	return reqdto.CreateBlockRequest{
		ListingID:   b.ListingID,
		ListingType: b.ListingType,
		StartDate:   b.StartDate,
		EndDate:     b.EndDate,
		Reason:      b.Reason,
	}
}

func (b *BlockBuilder) BuildDomain() (*availability.Block, error) {
	ref := listing.Ref{ID: b.ListingID, Type: listing.Type(b.ListingType)}
	return availability.NewBlock(ref, mustDate(b.StartDate), mustDate(b.EndDate), b.Reason, b.CreatedBy, time.Now())
}

func mustDate(s string) time.Time {
	t, err := time.Parse(availability.ISODate, s)
	if err != nil {
		panic(err)
	}
	return t
}
