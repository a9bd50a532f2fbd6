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

type PatternBuilder struct {
	ListingID   uuid.UUID
	ListingType string
	DaysOfWeek  []int
	StartDate   string
	EndDate     string
	Reason      *string
	CreatedBy   uuid.UUID
}

func NewPatternBuilder() *PatternBuilder {
	return &PatternBuilder{
		ListingID:   uuid.New(),
		ListingType: "vehicle",
		DaysOfWeek:  []int{0, 6},
		StartDate:   "2024-06-01",
		CreatedBy:   uuid.New(),
	}
}

func (p *PatternBuilder) With(mutate func(*PatternBuilder)) *PatternBuilder {
	mutate(p)
	return p
}

func (p *PatternBuilder) Clone() *PatternBuilder {
	var c PatternBuilder
	if err := copier.CopyWithOption(&c, p, copier.Option{DeepCopy: true}); err != nil {
		panic(err)
	}
	return &c
}

func (p *PatternBuilder) BuildDTO() reqdto.CreateRecurringPatternRequest {
	return reqdto.CreateRecurringPatternRequest{
		ListingID:   p.ListingID,
		ListingType: p.ListingType,
		DaysOfWeek:  p.DaysOfWeek,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Reason:      p.Reason,
	}
}

func (p *PatternBuilder) BuildDomain() (*availability.Pattern, error) {
	ref := listing.Ref{ID: p.ListingID, Type: listing.Type(p.ListingType)}
	var end *time.Time
	if p.EndDate != "" {
		d := mustDate(p.EndDate)
		end = &d
	}
	return availability.NewPattern(ref, p.DaysOfWeek, mustDate(p.StartDate), end, p.Reason, p.CreatedBy, time.Now())
}
