package response

import (
	"time"

	"fleetrent/internal/domain/availability"
	"fleetrent/internal/usecase/commands"
	"fleetrent/internal/usecase/queries"

	"github.com/google/uuid"
)

type ConflictResponse struct {
	Type          string     `json:"type"`
	Source        string     `json:"source"`
	StartDate     string     `json:"start_date"`
	EndDate       string     `json:"end_date"`
	Reason        *string    `json:"reason,omitempty"`
	BookingID     *uuid.UUID `json:"booking_id,omitempty"`
	BookingNumber *string    `json:"booking_number,omitempty"`
}

type AvailabilityResponse struct {
	ListingID   uuid.UUID          `json:"listing_id"`
	ListingType string             `json:"listing_type"`
	StartDate   string             `json:"start_date"`
	EndDate     string             `json:"end_date"`
	Available   bool               `json:"available"`
	Conflicts   []ConflictResponse `json:"conflicts"`
}

type BlockResponse struct {
	ID        uuid.UUID `json:"id"`
	ListingID uuid.UUID `json:"listing_id"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type PatternResponse struct {
	ID         uuid.UUID `json:"id"`
	ListingID  uuid.UUID `json:"listing_id"`
	DaysOfWeek []int     `json:"days_of_week"`
	StartDate  string    `json:"start_date"`
	EndDate    *string   `json:"end_date,omitempty"`
	Reason     *string   `json:"reason,omitempty"`
	CreatedBy  uuid.UUID `json:"created_by"`
}

type BulkBlockFailureResponse struct {
	ListingID uuid.UUID          `json:"listing_id"`
	Reason    string             `json:"reason"`
	Conflicts []ConflictResponse `json:"conflicts,omitempty"`
}

type BulkBlockResponse struct {
	Successful []uuid.UUID                `json:"successful"`
	Failed     []BulkBlockFailureResponse `json:"failed"`
}

type AnalyticsResponse struct {
	ListingID         uuid.UUID `json:"listing_id"`
	ListingType       string    `json:"listing_type"`
	PeriodStart       string    `json:"period_start"`
	PeriodEnd         string    `json:"period_end"`
	TotalDays         int       `json:"total_days"`
	BlockedDays       int       `json:"blocked_days"`
	BookedDays        int       `json:"booked_days"`
	AvailableDays     int       `json:"available_days"`
	BlockedPercentage float64   `json:"blocked_percentage"`
	UtilizationRate   float64   `json:"utilization_rate"`
}

func FromAvailabilityView(v *queries.AvailabilityView) *AvailabilityResponse {
	conflicts := make([]ConflictResponse, len(v.Conflicts))
	for i, c := range v.Conflicts {
		conflicts[i] = fromConflictView(c)
	}
	return &AvailabilityResponse{
		ListingID:   v.ListingID,
		ListingType: v.ListingType,
		StartDate:   v.StartDate,
		EndDate:     v.EndDate,
		Available:   v.Available,
		Conflicts:   conflicts,
	}
}

func fromConflictView(c queries.ConflictView) ConflictResponse {
	return ConflictResponse{
		Type:          c.Type,
		Source:        c.Source,
		StartDate:     c.StartDate,
		EndDate:       c.EndDate,
		Reason:        c.Reason,
		BookingID:     c.BookingID,
		BookingNumber: c.BookingNumber,
	}
}

func FromDomainConflicts(conflicts []availability.Conflict) []ConflictResponse {
	out := make([]ConflictResponse, len(conflicts))
	for i, c := range conflicts {
		out[i] = ConflictResponse{
			Type:          string(c.Type),
			Source:        string(c.Source),
			StartDate:     c.Range.Start().Format(availability.ISODate),
			EndDate:       c.Range.End().Format(availability.ISODate),
			Reason:        c.Reason,
			BookingID:     c.BookingID,
			BookingNumber: c.BookingNumber,
		}
	}
	return out
}

func FromBlock(b *availability.Block) *BlockResponse {
	return &BlockResponse{
		ID:        b.ID(),
		ListingID: b.Listing().ID,
		StartDate: b.Range().Start().Format(availability.ISODate),
		EndDate:   b.Range().End().Format(availability.ISODate),
		Reason:    b.Reason(),
		CreatedBy: b.CreatedBy(),
		CreatedAt: b.CreatedAt(),
	}
}

func FromBlockView(v *queries.BlockView) *BlockResponse {
	return &BlockResponse{
		ID:        v.ID,
		ListingID: v.ListingID,
		StartDate: v.StartDate,
		EndDate:   v.EndDate,
		Reason:    v.Reason,
		CreatedBy: v.CreatedBy,
		CreatedAt: v.CreatedAt,
	}
}

func FromPattern(p *availability.Pattern) *PatternResponse {
	var end *string
	if p.EndDate() != nil {
		s := p.EndDate().Format(availability.ISODate)
		end = &s
	}
	return &PatternResponse{
		ID:         p.ID(),
		ListingID:  p.Listing().ID,
		DaysOfWeek: p.Weekdays().List(),
		StartDate:  p.StartDate().Format(availability.ISODate),
		EndDate:    end,
		Reason:     p.Reason(),
		CreatedBy:  p.CreatedBy(),
	}
}

func FromPatternView(v *queries.PatternView) *PatternResponse {
	return &PatternResponse{
		ID:         v.ID,
		ListingID:  v.ListingID,
		DaysOfWeek: v.DaysOfWeek,
		StartDate:  v.StartDate,
		EndDate:    v.EndDate,
		Reason:     v.Reason,
		CreatedBy:  v.CreatedBy,
	}
}

func FromBulkBlockResult(r *commands.BulkBlockResult) *BulkBlockResponse {
	resp := &BulkBlockResponse{
		Successful: r.Successful,
		Failed:     make([]BulkBlockFailureResponse, len(r.Failed)),
	}
	if resp.Successful == nil {
		resp.Successful = []uuid.UUID{}
	}
	for i, f := range r.Failed {
		resp.Failed[i] = BulkBlockFailureResponse{
			ListingID: f.ListingID,
			Reason:    f.Reason,
			Conflicts: FromDomainConflicts(f.Conflicts),
		}
	}
	return resp
}

func FromAnalyticsView(v *queries.AnalyticsView) *AnalyticsResponse {
	return &AnalyticsResponse{
		ListingID:         v.ListingID,
		ListingType:       v.ListingType,
		PeriodStart:       v.PeriodStart,
		PeriodEnd:         v.PeriodEnd,
		TotalDays:         v.TotalDays,
		BlockedDays:       v.BlockedDays,
		BookedDays:        v.BookedDays,
		AvailableDays:     v.AvailableDays,
		BlockedPercentage: v.BlockedPercentage,
		UtilizationRate:   v.UtilizationRate,
	}
}
