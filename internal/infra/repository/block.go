package repository

import (
	"context"

	"fleetrent/internal/domain/availability"
	"fleetrent/internal/domain/listing"
	"fleetrent/internal/infra"
	"fleetrent/internal/infra/db"
	"fleetrent/internal/pkg/pgconv"
	"fleetrent/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BlockRepository struct{}

func NewBlockRepository() commands.BlockRepository {
	return &BlockRepository{}
}

const insertBlockSQL = `
INSERT INTO availability_blocks (id, listing_id, listing_type, start_date, end_date, reason, created_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

func (r *BlockRepository) Insert(ctx context.Context, tx db.DBTX, b *availability.Block) error {
	_, err := tx.Exec(ctx, insertBlockSQL,
		b.ID(),
		b.Listing().ID,
		b.Listing().Type.String(),
		pgconv.DateToPgtype(b.Range().Start()),
		pgconv.DateToPgtype(b.Range().End()),
		pgconv.StringPtrToPgtype(b.Reason()),
		b.CreatedBy(),
		pgconv.TimeToPgtype(b.CreatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert block", err)
	}
	return nil
}

func (r *BlockRepository) Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM availability_blocks WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete block", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("block not found", nil, infra.KindNotFound)
	}
	return nil
}

const selectBlockSQL = `
SELECT id, listing_id, listing_type, start_date, end_date, reason, created_by, created_at
FROM availability_blocks`

func (r *BlockRepository) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*availability.Block, error) {
	row := tx.QueryRow(ctx, selectBlockSQL+` WHERE id = $1`, id)
	block, err := scanBlock(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("block not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find block by ID", err)
	}
	return block, nil
}

func (r *BlockRepository) FindOverlapping(ctx context.Context, tx db.DBTX, ref listing.Ref, window availability.DateRange) ([]*availability.Block, error) {
	rows, err := tx.Query(ctx, selectBlockSQL+`
 WHERE listing_id = $1 AND start_date <= $2 AND end_date >= $3
 ORDER BY start_date`,
		ref.ID,
		pgconv.DateToPgtype(window.End()),
		pgconv.DateToPgtype(window.Start()),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find overlapping blocks", err)
	}
	defer rows.Close()

	var blocks []*availability.Block
	for rows.Next() {
		block, scanErr := scanBlock(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan block row", scanErr)
		}
		blocks = append(blocks, block)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate block rows", err)
	}
	return blocks, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlock(row rowScanner) (*availability.Block, error) {
	var (
		id          uuid.UUID
		listingID   uuid.UUID
		listingType string
		startDate   pgtype.Date
		endDate     pgtype.Date
		reason      pgtype.Text
		createdBy   uuid.UUID
		createdAt   pgtype.Timestamptz
	)
	if err := row.Scan(&id, &listingID, &listingType, &startDate, &endDate, &reason, &createdBy, &createdAt); err != nil {
		return nil, err
	}

	ref, err := listing.NewRef(listingID, listing.Type(listingType))
	if err != nil {
		return nil, err
	}
	dateRange, err := availability.NewDateRange(pgconv.DateFromPgtype(startDate), pgconv.DateFromPgtype(endDate))
	if err != nil {
		return nil, err
	}

	return availability.ReconstructBlock(
		id, ref, dateRange,
		pgconv.StringPtrFromPgtype(reason),
		createdBy,
		pgconv.TimeFromPgtype(createdAt),
	), nil
}
