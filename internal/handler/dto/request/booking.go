package request

import (
	"github.com/google/uuid"
)

// CreateBookingRequest must name a vehicle listing, a driver listing,
// or both.
type CreateBookingRequest struct {
	VehicleListingID *uuid.UUID `json:"vehicle_listing_id,omitempty"`
	DriverListingID  *uuid.UUID `json:"driver_listing_id,omitempty"`
	StartDate        string     `json:"start_date" binding:"required"`
	EndDate          string     `json:"end_date" binding:"required"`
	Note             *string    `json:"note,omitempty"`
}
