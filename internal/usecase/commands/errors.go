package commands

import (
	"fmt"

	"fleetrent/internal/domain/availability"
	"fleetrent/internal/pkg/errs"
)

// Caller-visible failure reasons. None of these are retried
// automatically: the caller must change the request.
var (
	ErrInvalidDateRange        = errs.New("invalid date range")
	ErrInvalidDaysOfWeek       = errs.New("invalid days of week")
	ErrUnauthorized            = errs.New("unauthorized")
	ErrBlockNotFound           = errs.New("block not found")
	ErrRecurringBlockNotFound  = errs.New("recurring block not found")
	ErrBookingConflict         = errs.New("booking conflict")
	ErrNotAvailable            = errs.New("not available")
	ErrVehicleNotAvailable     = errs.New("vehicle not available")
	ErrDriverNotAvailable      = errs.New("driver not available")
	ErrListingNotFound         = errs.New("listing not found")
	ErrCompanyMismatch         = errs.New("vehicle and driver belong to different companies")
	ErrInvalidScope            = errs.New("invalid scope")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// ConflictError carries the conflicts behind a BOOKING_CONFLICT or
// NOT_AVAILABLE rejection. Always marked with the matching sentinel so
// errors.Is still works.
type ConflictError struct {
	Conflicts []availability.Conflict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%d conflicting entries", len(e.Conflicts))
}

// ConflictsFrom extracts conflict details from a marked error chain.
func ConflictsFrom(err error) []availability.Conflict {
	var ce *ConflictError
	if errs.As(err, &ce) {
		return ce.Conflicts
	}
	return nil
}
