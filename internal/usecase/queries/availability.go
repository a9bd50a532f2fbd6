package queries

import (
	"context"
	"time"

	"fleetrent/internal/domain/availability"
	"fleetrent/internal/domain/booking"
	"fleetrent/internal/domain/listing"
	"fleetrent/internal/infra"
	"fleetrent/internal/pkg/errs"

	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidDateRange = errs.New("invalid date range")
	ErrListingNotFound  = errs.New("listing not found")
	ErrBookingNotFound  = errs.New("booking not found")
)

type AvailabilityQueries interface {
	CheckAvailability(ctx context.Context, ref listing.Ref, start, end time.Time) (*AvailabilityView, error)
	ListBlocks(ctx context.Context, ref listing.Ref, start, end time.Time) ([]*BlockView, error)
	ListPatterns(ctx context.Context, ref listing.Ref, start, end time.Time) ([]*PatternView, error)
}

type availabilityQueriesImpl struct {
	store AvailabilityReadStore
}

func NewAvailabilityQueries(store AvailabilityReadStore) AvailabilityQueries {
	return &availabilityQueriesImpl{store: store}
}

// sources is one consistent pull of the three independent
// unavailability inputs. The fetches are independent queries, so they
// run concurrently and join before merging.
type sources struct {
	blocks   []*availability.Block
	patterns []*availability.Pattern
	bookings []BookingWindow
}

func (q *availabilityQueriesImpl) fetchSources(ctx context.Context, ref listing.Ref, window availability.DateRange, statuses []booking.Status) (*sources, error) {
	var src sources

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		blocks, err := q.store.BlocksOverlapping(gctx, ref, window)
		if err != nil {
			return err
		}
		src.blocks = blocks
		return nil
	})
	g.Go(func() error {
		patterns, err := q.store.PatternsActiveIn(gctx, ref, window)
		if err != nil {
			return err
		}
		src.patterns = patterns
		return nil
	})
	g.Go(func() error {
		bookings, err := q.store.BookingsOverlapping(gctx, ref.ID, window, statuses)
		if err != nil {
			return err
		}
		src.bookings = bookings
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &src, nil
}

func (q *availabilityQueriesImpl) CheckAvailability(ctx context.Context, ref listing.Ref, start, end time.Time) (*AvailabilityView, error) {
	window, err := availability.NewDateRange(start, end)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidDateRange)
	}

	src, err := q.fetchSources(ctx, ref, window, booking.ConflictStatuses())
	if err != nil {
		return nil, err
	}

	refs := make([]availability.BookingRef, len(src.bookings))
	for i, w := range src.bookings {
		refs[i] = w.ConflictRef()
	}

	resolution := availability.Resolve(window, src.blocks, src.patterns, refs)

	conflicts := make([]ConflictView, len(resolution.Conflicts))
	for i, c := range resolution.Conflicts {
		conflicts[i] = toConflictView(c)
	}

	return &AvailabilityView{
		ListingID:   ref.ID,
		ListingType: ref.Type.String(),
		StartDate:   window.Start().Format(availability.ISODate),
		EndDate:     window.End().Format(availability.ISODate),
		Available:   resolution.Available,
		Conflicts:   conflicts,
	}, nil
}

func (q *availabilityQueriesImpl) ListBlocks(ctx context.Context, ref listing.Ref, start, end time.Time) ([]*BlockView, error) {
	window, err := availability.NewDateRange(start, end)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidDateRange)
	}

	blocks, err := q.store.BlocksOverlapping(ctx, ref, window)
	if err != nil {
		return nil, err
	}

	views := make([]*BlockView, len(blocks))
	for i, b := range blocks {
		views[i] = toBlockView(b)
	}
	return views, nil
}

func (q *availabilityQueriesImpl) ListPatterns(ctx context.Context, ref listing.Ref, start, end time.Time) ([]*PatternView, error) {
	window, err := availability.NewDateRange(start, end)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidDateRange)
	}

	patterns, err := q.store.PatternsActiveIn(ctx, ref, window)
	if err != nil {
		return nil, err
	}

	views := make([]*PatternView, len(patterns))
	for i, p := range patterns {
		views[i] = toPatternView(p)
	}
	return views, nil
}

func toConflictView(c availability.Conflict) ConflictView {
	return ConflictView{
		Type:          string(c.Type),
		Source:        string(c.Source),
		StartDate:     c.Range.Start().Format(availability.ISODate),
		EndDate:       c.Range.End().Format(availability.ISODate),
		Reason:        c.Reason,
		BookingID:     c.BookingID,
		BookingNumber: c.BookingNumber,
	}
}

func toBlockView(b *availability.Block) *BlockView {
	return &BlockView{
		ID:        b.ID(),
		ListingID: b.Listing().ID,
		StartDate: b.Range().Start().Format(availability.ISODate),
		EndDate:   b.Range().End().Format(availability.ISODate),
		Reason:    b.Reason(),
		CreatedBy: b.CreatedBy(),
		CreatedAt: b.CreatedAt(),
	}
}

func toPatternView(p *availability.Pattern) *PatternView {
	var end *string
	if p.EndDate() != nil {
		s := p.EndDate().Format(availability.ISODate)
		end = &s
	}
	return &PatternView{
		ID:         p.ID(),
		ListingID:  p.Listing().ID,
		DaysOfWeek: p.Weekdays().List(),
		StartDate:  p.StartDate().Format(availability.ISODate),
		EndDate:    end,
		Reason:     p.Reason(),
		CreatedBy:  p.CreatedBy(),
	}
}

func mapListingErr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return ErrListingNotFound
	}
	return err
}
