//go:build unit || e2e

package builder

import (
	"time"

	"fleetrent/internal/domain/booking"
	reqdto "fleetrent/internal/handler/dto/request"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingBuilder struct {
	RenterID  uuid.UUID
	VehicleID *uuid.UUID
	DriverID  *uuid.UUID
	StartDate string
	EndDate   string
	Note      *string
}

func NewBookingBuilder() *BookingBuilder {
	vehicleID := uuid.New()
	return &BookingBuilder{
		RenterID:  uuid.New(),
		VehicleID: &vehicleID,
		StartDate: "2024-06-10",
		EndDate:   "2024-06-13",
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) Clone() *BookingBuilder {
	var c BookingBuilder
	if err := copier.CopyWithOption(&c, b, copier.Option{DeepCopy: true}); err != nil {
		panic(err)
	}
	return &c
}

func (b *BookingBuilder) BuildDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		VehicleListingID: b.VehicleID,
		DriverListingID:  b.DriverID,
		StartDate:        b.StartDate,
		EndDate:          b.EndDate,
		Note:             b.Note,
	}
}

func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	return booking.NewBooking(b.RenterID, b.VehicleID, b.DriverID, mustDate(b.StartDate), mustDate(b.EndDate), b.Note, time.Now())
}
