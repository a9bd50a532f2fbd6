//go:build unit

package commands_test

import (
	"context"
	"time"

	"fleetrent/internal/domain/availability"
	"fleetrent/internal/domain/booking"
	"fleetrent/internal/domain/listing"
	"fleetrent/internal/infra"
	"fleetrent/internal/infra/db"
	"fleetrent/internal/usecase/commands"

	"github.com/google/uuid"
)

// In-memory ports. They run command logic without a database; the
// transaction handle is never dereferenced so nil is fine.

type fakeUoW struct {
	locked []uuid.UUID
	// replays reruns a successful closure, like the postgres unit of
	// work does after a serialization failure rollback.
	replays int
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	for range u.replays {
		if err := fn(ctx, nil); err != nil {
			return err
		}
	}
	return fn(ctx, nil)
}

func (u *fakeUoW) LockListing(_ context.Context, _ db.DBTX, listingID uuid.UUID) error {
	u.locked = append(u.locked, listingID)
	return nil
}

type fakeBlockRepo struct {
	blocks map[uuid.UUID]*availability.Block
}

func newFakeBlockRepo() *fakeBlockRepo {
	return &fakeBlockRepo{blocks: make(map[uuid.UUID]*availability.Block)}
}

func (r *fakeBlockRepo) Insert(_ context.Context, _ db.DBTX, b *availability.Block) error {
	r.blocks[b.ID()] = b
	return nil
}

func (r *fakeBlockRepo) Delete(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	if _, ok := r.blocks[id]; !ok {
		return infra.WrapRepoErr("block not found", nil, infra.KindNotFound)
	}
	delete(r.blocks, id)
	return nil
}

func (r *fakeBlockRepo) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*availability.Block, error) {
	b, ok := r.blocks[id]
	if !ok {
		return nil, infra.WrapRepoErr("block not found", nil, infra.KindNotFound)
	}
	return b, nil
}

func (r *fakeBlockRepo) FindOverlapping(_ context.Context, _ db.DBTX, ref listing.Ref, window availability.DateRange) ([]*availability.Block, error) {
	var out []*availability.Block
	for _, b := range r.blocks {
		if b.Listing().ID == ref.ID && b.Range().Overlaps(window) {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakePatternRepo struct {
	patterns map[uuid.UUID]*availability.Pattern
}

func newFakePatternRepo() *fakePatternRepo {
	return &fakePatternRepo{patterns: make(map[uuid.UUID]*availability.Pattern)}
}

func (r *fakePatternRepo) Insert(_ context.Context, _ db.DBTX, p *availability.Pattern) error {
	r.patterns[p.ID()] = p
	return nil
}

func (r *fakePatternRepo) Update(_ context.Context, _ db.DBTX, p *availability.Pattern) error {
	if _, ok := r.patterns[p.ID()]; !ok {
		return infra.WrapRepoErr("pattern not found", nil, infra.KindNotFound)
	}
	r.patterns[p.ID()] = p
	return nil
}

func (r *fakePatternRepo) Delete(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	if _, ok := r.patterns[id]; !ok {
		return infra.WrapRepoErr("pattern not found", nil, infra.KindNotFound)
	}
	delete(r.patterns, id)
	return nil
}

func (r *fakePatternRepo) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*availability.Pattern, error) {
	p, ok := r.patterns[id]
	if !ok {
		return nil, infra.WrapRepoErr("pattern not found", nil, infra.KindNotFound)
	}
	return p, nil
}

func (r *fakePatternRepo) FindActiveIn(_ context.Context, _ db.DBTX, ref listing.Ref, window availability.DateRange) ([]*availability.Pattern, error) {
	var out []*availability.Pattern
	for _, p := range r.patterns {
		if p.Listing().ID != ref.ID {
			continue
		}
		if p.StartDate().After(window.End()) {
			continue
		}
		if p.EndDate() != nil && p.EndDate().Before(window.Start()) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type fakeBookingRepo struct {
	overlaps map[uuid.UUID][]commands.OverlappingBooking
	inserted []*booking.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{overlaps: make(map[uuid.UUID][]commands.OverlappingBooking)}
}

func (r *fakeBookingRepo) seed(listingID uuid.UUID, ob commands.OverlappingBooking) {
	r.overlaps[listingID] = append(r.overlaps[listingID], ob)
}

func (r *fakeBookingRepo) Insert(_ context.Context, _ db.DBTX, b *booking.Booking) error {
	r.inserted = append(r.inserted, b)
	return nil
}

func (r *fakeBookingRepo) FindOverlapping(_ context.Context, _ db.DBTX, listingID uuid.UUID, window availability.DateRange, statuses []booking.Status) ([]commands.OverlappingBooking, error) {
	allowed := make(map[booking.Status]bool, len(statuses))
	for _, s := range statuses {
		allowed[s] = true
	}
	var out []commands.OverlappingBooking
	for _, ob := range r.overlaps[listingID] {
		if allowed[ob.Status] && ob.Range.Overlaps(window) {
			out = append(out, ob)
		}
	}
	return out, nil
}

type fakeListingReads struct {
	listings map[uuid.UUID]commands.ListingSnapshot
}

func newFakeListingReads(snaps ...commands.ListingSnapshot) *fakeListingReads {
	r := &fakeListingReads{listings: make(map[uuid.UUID]commands.ListingSnapshot)}
	for _, s := range snaps {
		r.listings[s.ID] = s
	}
	return r
}

func (r *fakeListingReads) FindByID(_ context.Context, id uuid.UUID) (*commands.ListingSnapshot, error) {
	s, ok := r.listings[id]
	if !ok {
		return nil, infra.WrapRepoErr("listing not found", nil, infra.KindNotFound)
	}
	return &s, nil
}

type fakeNotifier struct {
	sent []commands.Notification
}

func (n *fakeNotifier) Notify(_ context.Context, notification commands.Notification) {
	n.sent = append(n.sent, notification)
}

func date(s string) time.Time {
	t, err := time.Parse(availability.ISODate, s)
	if err != nil {
		panic(err)
	}
	return t
}

func mustRange(start, end string) availability.DateRange {
	return availability.MustDateRange(date(start), date(end))
}
