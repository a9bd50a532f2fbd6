package availability

import (
	"errors"
	"fmt"
	"time"

	"fleetrent/internal/domain/listing"

	"github.com/google/uuid"
)

var ErrInvalidDaysOfWeek = errors.New("invalid days of week")

// Weekdays is a non-empty set of weekdays, 0=Sunday..6=Saturday. The
// numbering matches time.Weekday, so no translation layer exists.
type Weekdays struct {
	days [7]bool
}

func NewWeekdays(days []int) (Weekdays, error) {
	if len(days) == 0 {
		return Weekdays{}, ErrInvalidDaysOfWeek
	}
	var w Weekdays
	for _, d := range days {
		if d < 0 || d > 6 {
			return Weekdays{}, ErrInvalidDaysOfWeek
		}
		w.days[d] = true
	}
	return w, nil
}

func (w Weekdays) Contains(d time.Weekday) bool {
	return w.days[int(d)]
}

// List returns the members in ascending order.
func (w Weekdays) List() []int {
	out := make([]int, 0, 7)
	for d, ok := range w.days {
		if ok {
			out = append(out, d)
		}
	}
	return out
}

// Pattern is a repeating weekly unavailability rule. A nil end date
// means the rule is open-ended.
type Pattern struct {
	id        uuid.UUID
	listing   listing.Ref
	weekdays  Weekdays
	startDate time.Time
	endDate   *time.Time
	reason    *string
	createdBy uuid.UUID
	createdAt time.Time
}

func NewPattern(ref listing.Ref, days []int, start time.Time, end *time.Time, reason *string, createdBy uuid.UUID, now time.Time) (*Pattern, error) {
	weekdays, err := NewWeekdays(days)
	if err != nil {
		return nil, err
	}
	start = NormalizeDate(start)
	if end != nil {
		e := NormalizeDate(*end)
		if start.After(e) {
			return nil, ErrInvalidDateRange
		}
		end = &e
	}
	return &Pattern{
		id:        uuid.New(),
		listing:   ref,
		weekdays:  weekdays,
		startDate: start,
		endDate:   end,
		reason:    reason,
		createdBy: createdBy,
		createdAt: now,
	}, nil
}

func ReconstructPattern(id uuid.UUID, ref listing.Ref, weekdays Weekdays, start time.Time, end *time.Time, reason *string, createdBy uuid.UUID, createdAt time.Time) *Pattern {
	return &Pattern{
		id:        id,
		listing:   ref,
		weekdays:  weekdays,
		startDate: start,
		endDate:   end,
		reason:    reason,
		createdBy: createdBy,
		createdAt: createdAt,
	}
}

func (p *Pattern) ID() uuid.UUID        { return p.id }
func (p *Pattern) Listing() listing.Ref { return p.listing }
func (p *Pattern) Weekdays() Weekdays   { return p.weekdays }
func (p *Pattern) StartDate() time.Time { return p.startDate }
func (p *Pattern) EndDate() *time.Time  { return p.endDate }
func (p *Pattern) Reason() *string      { return p.reason }
func (p *Pattern) CreatedBy() uuid.UUID { return p.createdBy }
func (p *Pattern) CreatedAt() time.Time { return p.createdAt }

func (p *Pattern) OwnedBy(principal uuid.UUID) bool {
	return p.createdBy == principal
}

// TruncatedEnd returns the end date a future-scope update leaves on the
// original pattern: the day before the pivot. Instances generated
// before the pivot stay exactly as they were.
func TruncatedEnd(pivot time.Time) time.Time {
	return NormalizeDate(pivot).AddDate(0, 0, -1)
}

// CoversAnythingUntil reports whether the pattern still has at least
// one day in range after being truncated to end.
func (p *Pattern) CoversAnythingUntil(end time.Time) bool {
	return !NormalizeDate(end).Before(p.startDate)
}

// Instance is a single materialized day of unavailability. Instances
// are derived, never persisted; the synthetic id makes re-expansion
// idempotent for conflict checks, analytics and calendar export.
type Instance struct {
	ID        string
	PatternID uuid.UUID
	Listing   listing.Ref
	Day       time.Time
	Reason    *string
	CreatedBy uuid.UUID
}

func instanceID(patternID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("%s-%s", patternID, day.Format(ISODate))
}

// Expand materializes the pattern against a query window. Pure and
// deterministic: the same window always yields the same instances.
func (p *Pattern) Expand(windowStart, windowEnd time.Time) []Instance {
	windowStart = NormalizeDate(windowStart)
	windowEnd = NormalizeDate(windowEnd)

	effectiveStart := p.startDate
	if windowStart.After(effectiveStart) {
		effectiveStart = windowStart
	}

	effectiveEnd := windowEnd
	if p.endDate != nil && p.endDate.Before(effectiveEnd) {
		effectiveEnd = *p.endDate
	}

	if effectiveStart.After(effectiveEnd) {
		return nil
	}

	var instances []Instance
	for d := effectiveStart; !d.After(effectiveEnd); d = d.AddDate(0, 0, 1) {
		if !p.weekdays.Contains(d.Weekday()) {
			continue
		}
		instances = append(instances, Instance{
			ID:        instanceID(p.id, d),
			PatternID: p.id,
			Listing:   p.listing,
			Day:       d,
			Reason:    p.reason,
			CreatedBy: p.createdBy,
		})
	}
	return instances
}
