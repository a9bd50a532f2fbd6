package readstore

import (
	"context"

	"fleetrent/internal/domain/availability"
	"fleetrent/internal/domain/booking"
	"fleetrent/internal/domain/listing"
	"fleetrent/internal/infra/db"
	"fleetrent/internal/usecase/commands"
	"fleetrent/internal/usecase/queries"

	"github.com/google/uuid"
)

// AvailabilityReadStore serves the query side from the pool, outside
// any transaction. It reuses the write-side repositories so the
// overlap SQL lives in exactly one place.
type AvailabilityReadStore struct {
	db          db.DBTX
	blockRepo   commands.BlockRepository
	patternRepo commands.PatternRepository
	bookingRepo commands.BookingRepository
}

func NewAvailabilityReadStore(pool db.DBTX, blockRepo commands.BlockRepository, patternRepo commands.PatternRepository, bookingRepo commands.BookingRepository) queries.AvailabilityReadStore {
	return &AvailabilityReadStore{
		db:          pool,
		blockRepo:   blockRepo,
		patternRepo: patternRepo,
		bookingRepo: bookingRepo,
	}
}

func (s *AvailabilityReadStore) BlocksOverlapping(ctx context.Context, ref listing.Ref, window availability.DateRange) ([]*availability.Block, error) {
	return s.blockRepo.FindOverlapping(ctx, s.db, ref, window)
}

func (s *AvailabilityReadStore) PatternsActiveIn(ctx context.Context, ref listing.Ref, window availability.DateRange) ([]*availability.Pattern, error) {
	return s.patternRepo.FindActiveIn(ctx, s.db, ref, window)
}

func (s *AvailabilityReadStore) BookingsOverlapping(ctx context.Context, listingID uuid.UUID, window availability.DateRange, statuses []booking.Status) ([]queries.BookingWindow, error) {
	overlapping, err := s.bookingRepo.FindOverlapping(ctx, s.db, listingID, window, statuses)
	if err != nil {
		return nil, err
	}

	windows := make([]queries.BookingWindow, len(overlapping))
	for i, ob := range overlapping {
		windows[i] = queries.BookingWindow{
			ID:       ob.ID,
			Number:   ob.Number,
			RenterID: ob.RenterID,
			Status:   ob.Status,
			Range:    ob.Range,
		}
	}
	return windows, nil
}
