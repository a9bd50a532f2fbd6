package queries

import (
	"context"
	"fmt"
	"time"

	"fleetrent/internal/domain/availability"
	"fleetrent/internal/domain/booking"
	"fleetrent/internal/domain/listing"
	"fleetrent/internal/pkg/clock"
	"fleetrent/internal/pkg/config"
	"fleetrent/internal/pkg/errs"
	"fleetrent/internal/pkg/ical"
	"fleetrent/internal/pkg/patch"
)

const calendarProdID = "-//fleetrent//availability-export//EN"

type CalendarQueries interface {
	// ExportCalendar serializes blocks, recurring instances and
	// bookings into an iCalendar document. Nil bounds default to
	// now..now+horizon.
	ExportCalendar(ctx context.Context, ref listing.Ref, rangeStart, rangeEnd *time.Time) (*CalendarDocument, error)
}

type calendarQueriesImpl struct {
	availability *availabilityQueriesImpl
	listings     ListingReadStore
	clock        clock.Clock
	horizonDays  int
}

func NewCalendarQueries(store AvailabilityReadStore, listings ListingReadStore, clk clock.Clock, cfg config.Config) CalendarQueries {
	return &calendarQueriesImpl{
		availability: &availabilityQueriesImpl{store: store},
		listings:     listings,
		clock:        clk,
		horizonDays:  cfg.Calendar.ExportHorizonDays,
	}
}

func (q *calendarQueriesImpl) ExportCalendar(ctx context.Context, ref listing.Ref, rangeStart, rangeEnd *time.Time) (*CalendarDocument, error) {
	listingView, err := q.listings.FindByID(ctx, ref.ID)
	if err != nil {
		return nil, mapListingErr(err)
	}
	if listingView.Type != ref.Type.String() {
		return nil, ErrListingNotFound
	}

	now := q.clock.Now()
	start := availability.NormalizeDate(patch.Coalesce(rangeStart, now))
	end := availability.NormalizeDate(patch.Coalesce(rangeEnd, start.AddDate(0, 0, q.horizonDays)))

	window, err := availability.NewDateRange(start, end)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidDateRange)
	}

	src, err := q.availability.fetchSources(ctx, ref, window, booking.CalendarStatuses())
	if err != nil {
		return nil, err
	}

	cal := ical.NewCalendar(calendarProdID, "Availability - "+listingView.Name, now)

	for _, b := range src.blocks {
		clipped, ok := b.Range().Clip(window)
		if !ok {
			continue
		}
		cal.AddEvent(ical.Event{
			UID:         fmt.Sprintf("block-%s", b.ID()),
			Summary:     blockSummary(b.Reason()),
			Start:       clipped.Start(),
			End:         clipped.End(),
			Description: deref(b.Reason()),
			Categories:  "BLOCK",
		})
	}

	for _, p := range src.patterns {
		for _, inst := range p.Expand(window.Start(), window.End()) {
			cal.AddEvent(ical.Event{
				UID:         fmt.Sprintf("recurring-%s", inst.ID),
				Summary:     blockSummary(inst.Reason),
				Start:       inst.Day,
				End:         inst.Day,
				Description: deref(inst.Reason),
				Categories:  "RECURRING",
			})
		}
	}

	for _, w := range src.bookings {
		clipped, ok := w.Range.Clip(window)
		if !ok {
			continue
		}
		cal.AddEvent(ical.Event{
			UID:         fmt.Sprintf("booking-%s", w.ID),
			Summary:     "Booked",
			Start:       clipped.Start(),
			End:         clipped.End(),
			Description: w.Number,
			Categories:  "BOOKING",
		})
	}

	return &CalendarDocument{
		Content:  cal.Render(),
		Filename: fmt.Sprintf("%s-%s.ics", ref.Type, ref.ID),
	}, nil
}

func blockSummary(reason *string) string {
	if reason != nil && *reason != "" {
		return "Unavailable: " + *reason
	}
	return "Unavailable"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
