package availability

import (
	"github.com/google/uuid"
)

type ConflictType string

const (
	ConflictTypeBlock   ConflictType = "block"
	ConflictTypeBooking ConflictType = "booking"
)

type ConflictSource string

const (
	SourceManualBlock       ConflictSource = "manual_block"
	SourceRecurringInstance ConflictSource = "recurring_instance"
	SourceBooking           ConflictSource = "booking"
)

// Conflict is a pure reporting value: one block, instance or booking
// overlapping a queried range.
type Conflict struct {
	Type          ConflictType
	Source        ConflictSource
	Range         DateRange
	Reason        *string
	BookingID     *uuid.UUID
	BookingNumber *string
}

// BookingRef is the slice of a booking the resolver needs. Defined
// here so the availability domain stays independent of the booking
// package.
type BookingRef struct {
	ID     uuid.UUID
	Number string
	Range  DateRange
}

type Resolution struct {
	Available bool
	Conflicts []Conflict
}

func (r Resolution) HasBlockConflict() bool {
	for _, c := range r.Conflicts {
		if c.Type == ConflictTypeBlock {
			return true
		}
	}
	return false
}

func (r Resolution) HasBookingConflict() bool {
	for _, c := range r.Conflicts {
		if c.Type == ConflictTypeBooking {
			return true
		}
	}
	return false
}

// FirstBlockRange returns the window of the first block-type conflict,
// used to tell a rejected renter which dates stood in the way.
func (r Resolution) FirstBlockRange() (DateRange, bool) {
	for _, c := range r.Conflicts {
		if c.Type == ConflictTypeBlock {
			return c.Range, true
		}
	}
	return DateRange{}, false
}

// Resolve merges manual blocks, expanded recurring instances and live
// bookings into a single availability verdict for the window. It is
// the single source of truth behind both the read-path availability
// query and the booking admission gate.
func Resolve(window DateRange, blocks []*Block, patterns []*Pattern, bookings []BookingRef) Resolution {
	var conflicts []Conflict

	for _, b := range blocks {
		if !b.Range().Overlaps(window) {
			continue
		}
		conflicts = append(conflicts, Conflict{
			Type:   ConflictTypeBlock,
			Source: SourceManualBlock,
			Range:  b.Range(),
			Reason: b.Reason(),
		})
	}

	for _, p := range patterns {
		for _, inst := range p.Expand(window.Start(), window.End()) {
			conflicts = append(conflicts, Conflict{
				Type:   ConflictTypeBlock,
				Source: SourceRecurringInstance,
				Range:  SingleDay(inst.Day),
				Reason: inst.Reason,
			})
		}
	}

	for _, bk := range bookings {
		if !bk.Range.Overlaps(window) {
			continue
		}
		id := bk.ID
		number := bk.Number
		conflicts = append(conflicts, Conflict{
			Type:          ConflictTypeBooking,
			Source:        SourceBooking,
			Range:         bk.Range,
			BookingID:     &id,
			BookingNumber: &number,
		})
	}

	return Resolution{
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}
}
