package request

import (
	"time"

	"fleetrent/internal/domain/availability"
	"fleetrent/internal/pkg/errs"
)

var ErrInvalidDate = errs.New("invalid date, expected YYYY-MM-DD")

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(availability.ISODate, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// ParseOptionalDate returns nil for an empty string.
func ParseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
