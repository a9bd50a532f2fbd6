package availability

import (
	"errors"
	"sort"
	"time"
)

var ErrInvalidDateRange = errors.New("invalid date range")

const ISODate = "2006-01-02"

// NormalizeDate truncates to midnight UTC so that multi-day ranges
// compare consistently regardless of the time-of-day on input.
func NormalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateRange is an inclusive day-granularity interval.
type DateRange struct {
	start time.Time
	end   time.Time
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	start = NormalizeDate(start)
	end = NormalizeDate(end)
	if start.After(end) {
		return DateRange{}, ErrInvalidDateRange
	}
	return DateRange{start: start, end: end}, nil
}

// MustDateRange panics on an inverted range. For literals in tests and
// internally constructed ranges whose ordering is already established.
func MustDateRange(start, end time.Time) DateRange {
	r, err := NewDateRange(start, end)
	if err != nil {
		panic(err)
	}
	return r
}

// SingleDay returns the one-day range covering t.
func SingleDay(t time.Time) DateRange {
	d := NormalizeDate(t)
	return DateRange{start: d, end: d}
}

func (r DateRange) Start() time.Time { return r.start }
func (r DateRange) End() time.Time   { return r.end }

// Overlaps is the single overlap definition used by every conflict
// check in the engine: aStart <= bEnd && aEnd >= bStart.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.start.After(other.end) && !r.end.Before(other.start)
}

func (r DateRange) Contains(day time.Time) bool {
	day = NormalizeDate(day)
	return !day.Before(r.start) && !day.After(r.end)
}

// Clip bounds the range to the given window. ok is false when the two
// do not overlap at all.
func (r DateRange) Clip(window DateRange) (DateRange, bool) {
	if !r.Overlaps(window) {
		return DateRange{}, false
	}
	start := r.start
	if start.Before(window.start) {
		start = window.start
	}
	end := r.end
	if end.After(window.end) {
		end = window.end
	}
	return DateRange{start: start, end: end}, true
}

// Days returns the number of calendar days covered, inclusive.
func (r DateRange) Days() int {
	return int(r.end.Sub(r.start).Hours()/24) + 1
}

// EachDay calls fn for every day in the range, in order.
func (r DateRange) EachDay(fn func(day time.Time)) {
	for d := r.start; !d.After(r.end); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

// UniqueDays expands each range into individual calendar days and
// unions them, so overlapping or adjacent ranges do not double-count.
func UniqueDays(ranges []DateRange) map[string]struct{} {
	days := make(map[string]struct{})
	for _, r := range ranges {
		r.EachDay(func(day time.Time) {
			days[day.Format(ISODate)] = struct{}{}
		})
	}
	return days
}

// SortedDays returns the union of days across ranges in ascending
// ISO-date order.
func SortedDays(ranges []DateRange) []string {
	set := UniqueDays(ranges)
	out := make([]string, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
