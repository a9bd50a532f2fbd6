package readstore

import (
	"context"

	"fleetrent/internal/domain/listing"
	"fleetrent/internal/infra"
	"fleetrent/internal/infra/db"
	"fleetrent/internal/pkg/pgconv"
	"fleetrent/internal/usecase/commands"
	"fleetrent/internal/usecase/queries"

	"github.com/google/uuid"
)

const selectListingSQL = `
SELECT id, type, name, company_id
FROM listings
WHERE id = $1`

type ListingReadStore struct {
	db db.DBTX
}

func NewListingReadStore(pool db.DBTX) queries.ListingReadStore {
	return &ListingReadStore{db: pool}
}

func (s *ListingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ListingView, error) {
	var view queries.ListingView
	err := s.db.QueryRow(ctx, selectListingSQL, id).Scan(&view.ID, &view.Type, &view.Name, &view.CompanyID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("listing not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find listing by ID", err)
	}
	return &view, nil
}

// ListingReads is the write side's view of the same table: commands
// resolve listings before opening their transaction.
type ListingReads struct {
	db db.DBTX
}

func NewListingReads(pool db.DBTX) commands.ListingReads {
	return &ListingReads{db: pool}
}

func (s *ListingReads) FindByID(ctx context.Context, id uuid.UUID) (*commands.ListingSnapshot, error) {
	var (
		snap        commands.ListingSnapshot
		listingType string
	)
	err := s.db.QueryRow(ctx, selectListingSQL, id).Scan(&snap.ID, &listingType, &snap.Name, &snap.CompanyID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("listing not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find listing by ID", err)
	}
	snap.Type = listing.Type(listingType)
	return &snap, nil
}
