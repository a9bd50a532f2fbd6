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

type PatternRepository struct{}

func NewPatternRepository() commands.PatternRepository {
	return &PatternRepository{}
}

const insertPatternSQL = `
INSERT INTO recurring_block_patterns (id, listing_id, listing_type, days_of_week, start_date, end_date, reason, created_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func (r *PatternRepository) Insert(ctx context.Context, tx db.DBTX, p *availability.Pattern) error {
	_, err := tx.Exec(ctx, insertPatternSQL,
		p.ID(),
		p.Listing().ID,
		p.Listing().Type.String(),
		weekdaysToSmallints(p.Weekdays()),
		pgconv.DateToPgtype(p.StartDate()),
		pgconv.DatePtrToPgtype(p.EndDate()),
		pgconv.StringPtrToPgtype(p.Reason()),
		p.CreatedBy(),
		pgconv.TimeToPgtype(p.CreatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert recurring pattern", err)
	}
	return nil
}

const updatePatternSQL = `
UPDATE recurring_block_patterns
SET days_of_week = $2, start_date = $3, end_date = $4, reason = $5
WHERE id = $1`

func (r *PatternRepository) Update(ctx context.Context, tx db.DBTX, p *availability.Pattern) error {
	tag, err := tx.Exec(ctx, updatePatternSQL,
		p.ID(),
		weekdaysToSmallints(p.Weekdays()),
		pgconv.DateToPgtype(p.StartDate()),
		pgconv.DatePtrToPgtype(p.EndDate()),
		pgconv.StringPtrToPgtype(p.Reason()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update recurring pattern", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("recurring pattern not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *PatternRepository) Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM recurring_block_patterns WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete recurring pattern", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("recurring pattern not found", nil, infra.KindNotFound)
	}
	return nil
}

const selectPatternSQL = `
SELECT id, listing_id, listing_type, days_of_week, start_date, end_date, reason, created_by, created_at
FROM recurring_block_patterns`

func (r *PatternRepository) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*availability.Pattern, error) {
	row := tx.QueryRow(ctx, selectPatternSQL+` WHERE id = $1`, id)
	pattern, err := scanPattern(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("recurring pattern not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find recurring pattern by ID", err)
	}
	return pattern, nil
}

// FindActiveIn returns patterns whose effective span touches the
// window: started on or before the window end, and either open-ended
// or not finished before the window start.
func (r *PatternRepository) FindActiveIn(ctx context.Context, tx db.DBTX, ref listing.Ref, window availability.DateRange) ([]*availability.Pattern, error) {
	rows, err := tx.Query(ctx, selectPatternSQL+`
 WHERE listing_id = $1 AND start_date <= $2 AND (end_date IS NULL OR end_date >= $3)
 ORDER BY start_date`,
		ref.ID,
		pgconv.DateToPgtype(window.End()),
		pgconv.DateToPgtype(window.Start()),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find active patterns", err)
	}
	defer rows.Close()

	var patterns []*availability.Pattern
	for rows.Next() {
		pattern, scanErr := scanPattern(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan pattern row", scanErr)
		}
		patterns = append(patterns, pattern)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate pattern rows", err)
	}
	return patterns, nil
}

func weekdaysToSmallints(w availability.Weekdays) []int16 {
	days := w.List()
	out := make([]int16, len(days))
	for i, d := range days {
		out[i] = int16(d)
	}
	return out
}

func scanPattern(row rowScanner) (*availability.Pattern, error) {
	var (
		id          uuid.UUID
		listingID   uuid.UUID
		listingType string
		days        []int16
		startDate   pgtype.Date
		endDate     pgtype.Date
		reason      pgtype.Text
		createdBy   uuid.UUID
		createdAt   pgtype.Timestamptz
	)
	if err := row.Scan(&id, &listingID, &listingType, &days, &startDate, &endDate, &reason, &createdBy, &createdAt); err != nil {
		return nil, err
	}

	ref, err := listing.NewRef(listingID, listing.Type(listingType))
	if err != nil {
		return nil, err
	}

	ints := make([]int, len(days))
	for i, d := range days {
		ints[i] = int(d)
	}
	weekdays, err := availability.NewWeekdays(ints)
	if err != nil {
		return nil, err
	}

	return availability.ReconstructPattern(
		id, ref, weekdays,
		pgconv.DateFromPgtype(startDate),
		pgconv.DatePtrFromPgtype(endDate),
		pgconv.StringPtrFromPgtype(reason),
		createdBy,
		pgconv.TimeFromPgtype(createdAt),
	), nil
}
