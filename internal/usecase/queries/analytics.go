package queries

import (
	"context"
	"time"

	"fleetrent/internal/domain/availability"
	"fleetrent/internal/domain/booking"
	"fleetrent/internal/domain/listing"
	"fleetrent/internal/pkg/errs"
)

type AnalyticsQueries interface {
	GetAnalytics(ctx context.Context, ref listing.Ref, periodStart, periodEnd time.Time) (*AnalyticsView, error)
}

type analyticsQueriesImpl struct {
	availability *availabilityQueriesImpl
}

func NewAnalyticsQueries(store AvailabilityReadStore) AnalyticsQueries {
	return &analyticsQueriesImpl{
		availability: &availabilityQueriesImpl{store: store},
	}
}

func (q *analyticsQueriesImpl) GetAnalytics(ctx context.Context, ref listing.Ref, periodStart, periodEnd time.Time) (*AnalyticsView, error) {
	period, err := availability.NewDateRange(periodStart, periodEnd)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidDateRange)
	}

	// Analytics is historical utilization, so COMPLETED bookings count
	// too; only the forward-looking conflict check excludes them.
	src, err := q.availability.fetchSources(ctx, ref, period, booking.AnalyticsStatuses())
	if err != nil {
		return nil, err
	}

	blocked := make([]availability.DateRange, 0, len(src.blocks))
	for _, b := range src.blocks {
		blocked = append(blocked, b.Range())
	}
	for _, p := range src.patterns {
		for _, inst := range p.Expand(period.Start(), period.End()) {
			blocked = append(blocked, availability.SingleDay(inst.Day))
		}
	}

	booked := make([]availability.DateRange, 0, len(src.bookings))
	for _, w := range src.bookings {
		booked = append(booked, w.Range)
	}

	result := availability.ComputeAnalytics(period, blocked, booked)

	return &AnalyticsView{
		ListingID:         ref.ID,
		ListingType:       ref.Type.String(),
		PeriodStart:       period.Start().Format(availability.ISODate),
		PeriodEnd:         period.End().Format(availability.ISODate),
		TotalDays:         result.TotalDays,
		BlockedDays:       result.BlockedDays,
		BookedDays:        result.BookedDays,
		AvailableDays:     result.AvailableDays,
		BlockedPercentage: result.BlockedPercentage,
		UtilizationRate:   result.UtilizationRate,
	}, nil
}
