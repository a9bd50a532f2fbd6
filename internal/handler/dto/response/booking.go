package response

import (
	"time"

	"fleetrent/internal/domain/availability"
	"fleetrent/internal/domain/booking"
	"fleetrent/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID               uuid.UUID  `json:"id"`
	BookingNumber    string     `json:"booking_number"`
	RenterID         uuid.UUID  `json:"renter_id"`
	VehicleListingID *uuid.UUID `json:"vehicle_listing_id,omitempty"`
	DriverListingID  *uuid.UUID `json:"driver_listing_id,omitempty"`
	StartDate        string     `json:"start_date"`
	EndDate          string     `json:"end_date"`
	Status           string     `json:"status"`
	Note             *string    `json:"note,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func FromBooking(b *booking.Booking) *BookingResponse {
	return &BookingResponse{
		ID:               b.ID(),
		BookingNumber:    b.Number(),
		RenterID:         b.RenterID(),
		VehicleListingID: b.VehicleID(),
		DriverListingID:  b.DriverID(),
		StartDate:        b.Range().Start().Format(availability.ISODate),
		EndDate:          b.Range().End().Format(availability.ISODate),
		Status:           string(b.Status()),
		Note:             b.Note(),
		CreatedAt:        b.CreatedAt(),
	}
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:               v.ID,
		BookingNumber:    v.Number,
		RenterID:         v.RenterID,
		VehicleListingID: v.VehicleID,
		DriverListingID:  v.DriverID,
		StartDate:        v.StartDate,
		EndDate:          v.EndDate,
		Status:           v.Status,
		Note:             v.Note,
		CreatedAt:        v.CreatedAt,
	}
}
