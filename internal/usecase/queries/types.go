package queries

import (
	"context"
	"time"

	"fleetrent/internal/domain/availability"
	"fleetrent/internal/domain/booking"
	"fleetrent/internal/domain/listing"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type ConflictView struct {
	Type          string     `json:"type"`
	Source        string     `json:"source"`
	StartDate     string     `json:"start_date"`
	EndDate       string     `json:"end_date"`
	Reason        *string    `json:"reason,omitempty"`
	BookingID     *uuid.UUID `json:"booking_id,omitempty"`
	BookingNumber *string    `json:"booking_number,omitempty"`
}

type AvailabilityView struct {
	ListingID   uuid.UUID      `json:"listing_id"`
	ListingType string         `json:"listing_type"`
	StartDate   string         `json:"start_date"`
	EndDate     string         `json:"end_date"`
	Available   bool           `json:"available"`
	Conflicts   []ConflictView `json:"conflicts"`
}

type BlockView struct {
	ID        uuid.UUID `json:"id"`
	ListingID uuid.UUID `json:"listing_id"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type PatternView struct {
	ID         uuid.UUID `json:"id"`
	ListingID  uuid.UUID `json:"listing_id"`
	DaysOfWeek []int     `json:"days_of_week"`
	StartDate  string    `json:"start_date"`
	EndDate    *string   `json:"end_date,omitempty"`
	Reason     *string   `json:"reason,omitempty"`
	CreatedBy  uuid.UUID `json:"created_by"`
}

type AnalyticsView struct {
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

type BookingView struct {
	ID        uuid.UUID  `json:"id"`
	Number    string     `json:"booking_number"`
	RenterID  uuid.UUID  `json:"renter_id"`
	VehicleID *uuid.UUID `json:"vehicle_listing_id,omitempty"`
	DriverID  *uuid.UUID `json:"driver_listing_id,omitempty"`
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	Status    string     `json:"status"`
	Note      *string    `json:"note,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type ListingView struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	CompanyID uuid.UUID `json:"company_id"`
}

type AuthorizedUserView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}

type CalendarDocument struct {
	Content  string
	Filename string
}

// BookingWindow is the read-side projection of a booking used by the
// resolver, analytics and export paths.
type BookingWindow struct {
	ID       uuid.UUID
	Number   string
	RenterID uuid.UUID
	Status   booking.Status
	Range    availability.DateRange
}

func (w BookingWindow) ConflictRef() availability.BookingRef {
	return availability.BookingRef{ID: w.ID, Number: w.Number, Range: w.Range}
}

// Read store ports

type AvailabilityReadStore interface {
	BlocksOverlapping(ctx context.Context, ref listing.Ref, window availability.DateRange) ([]*availability.Block, error)
	PatternsActiveIn(ctx context.Context, ref listing.Ref, window availability.DateRange) ([]*availability.Pattern, error)
	BookingsOverlapping(ctx context.Context, listingID uuid.UUID, window availability.DateRange, statuses []booking.Status) ([]BookingWindow, error)
}

type ListingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ListingView, error)
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByRenter(ctx context.Context, renterID uuid.UUID) ([]*BookingView, error)
}
