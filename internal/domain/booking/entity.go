package booking

import (
	"errors"
	"fmt"
	"time"

	"fleetrent/internal/domain/availability"

	"github.com/google/uuid"
)

var (
	ErrInvalidDateRange = errors.New("booking start must be strictly before end")
	ErrNoListings       = errors.New("booking requires at least one listing")
)

// Booking is a reservation record. It may reference a vehicle listing,
// a driver listing, or both.
type Booking struct {
	id        uuid.UUID
	number    string
	renterID  uuid.UUID
	vehicleID *uuid.UUID
	driverID  *uuid.UUID
	dateRange availability.DateRange
	status    Status
	note      *string
	createdAt time.Time
}

func NewBooking(renterID uuid.UUID, vehicleID, driverID *uuid.UUID, start, end time.Time, note *string, now time.Time) (*Booking, error) {
	start = availability.NormalizeDate(start)
	end = availability.NormalizeDate(end)
	// Strict: a booking cannot be zero-length.
	if !start.Before(end) {
		return nil, ErrInvalidDateRange
	}
	if vehicleID == nil && driverID == nil {
		return nil, ErrNoListings
	}

	id := uuid.New()
	return &Booking{
		id:        id,
		number:    newBookingNumber(id, now),
		renterID:  renterID,
		vehicleID: vehicleID,
		driverID:  driverID,
		dateRange: availability.MustDateRange(start, end),
		status:    StatusPending,
		note:      note,
		createdAt: now,
	}, nil
}

func ReconstructBooking(id uuid.UUID, number string, renterID uuid.UUID, vehicleID, driverID *uuid.UUID, dateRange availability.DateRange, status Status, note *string, createdAt time.Time) *Booking {
	return &Booking{
		id:        id,
		number:    number,
		renterID:  renterID,
		vehicleID: vehicleID,
		driverID:  driverID,
		dateRange: dateRange,
		status:    status,
		note:      note,
		createdAt: createdAt,
	}
}

func (b *Booking) ID() uuid.UUID                  { return b.id }
func (b *Booking) Number() string                 { return b.number }
func (b *Booking) RenterID() uuid.UUID            { return b.renterID }
func (b *Booking) VehicleID() *uuid.UUID          { return b.vehicleID }
func (b *Booking) DriverID() *uuid.UUID           { return b.driverID }
func (b *Booking) Range() availability.DateRange  { return b.dateRange }
func (b *Booking) Status() Status                 { return b.status }
func (b *Booking) Note() *string                  { return b.note }
func (b *Booking) CreatedAt() time.Time           { return b.createdAt }

// ConflictRef projects the booking into the resolver's input shape.
func (b *Booking) ConflictRef() availability.BookingRef {
	return availability.BookingRef{
		ID:     b.id,
		Number: b.number,
		Range:  b.dateRange,
	}
}

func newBookingNumber(id uuid.UUID, now time.Time) string {
	return fmt.Sprintf("BK-%s-%X", now.UTC().Format("20060102"), id[:3])
}
