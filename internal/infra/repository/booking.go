package repository

import (
	"context"
	"errors"

	"fleetrent/internal/domain/availability"
	"fleetrent/internal/domain/booking"
	"fleetrent/internal/infra"
	"fleetrent/internal/infra/db"
	"fleetrent/internal/pkg/pgconv"
	"fleetrent/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

const pgErrCodeUniqueViolation = "23505"

type BookingRepository struct{}

func NewBookingRepository() commands.BookingRepository {
	return &BookingRepository{}
}

const insertBookingSQL = `
INSERT INTO bookings (id, booking_number, renter_id, vehicle_listing_id, driver_listing_id, start_date, end_date, status, note, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

func (r *BookingRepository) Insert(ctx context.Context, tx db.DBTX, b *booking.Booking) error {
	_, err := tx.Exec(ctx, insertBookingSQL,
		b.ID(),
		b.Number(),
		b.RenterID(),
		pgconv.UUIDPtrToPgtype(b.VehicleID()),
		pgconv.UUIDPtrToPgtype(b.DriverID()),
		pgconv.DateToPgtype(b.Range().Start()),
		pgconv.DateToPgtype(b.Range().End()),
		string(b.Status()),
		pgconv.StringPtrToPgtype(b.Note()),
		pgconv.TimeToPgtype(b.CreatedAt()),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
			return infra.WrapRepoErr("duplicate booking", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to insert booking", err)
	}
	return nil
}

// FindOverlapping scans both listing columns: a booking occupies the
// listing whether it was booked as the vehicle or the driver side.
const overlappingBookingsSQL = `
SELECT id, booking_number, renter_id, start_date, end_date, status
FROM bookings
WHERE (vehicle_listing_id = $1 OR driver_listing_id = $1)
  AND start_date <= $2 AND end_date >= $3
  AND status = ANY($4)
ORDER BY start_date`

func (r *BookingRepository) FindOverlapping(ctx context.Context, tx db.DBTX, listingID uuid.UUID, window availability.DateRange, statuses []booking.Status) ([]commands.OverlappingBooking, error) {
	rows, err := tx.Query(ctx, overlappingBookingsSQL,
		listingID,
		pgconv.DateToPgtype(window.End()),
		pgconv.DateToPgtype(window.Start()),
		booking.StatusStrings(statuses),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find overlapping bookings", err)
	}
	defer rows.Close()

	var result []commands.OverlappingBooking
	for rows.Next() {
		var (
			id        uuid.UUID
			number    string
			renterID  uuid.UUID
			startDate pgtype.Date
			endDate   pgtype.Date
			status    string
		)
		if scanErr := rows.Scan(&id, &number, &renterID, &startDate, &endDate, &status); scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", scanErr)
		}
		dateRange, rangeErr := availability.NewDateRange(pgconv.DateFromPgtype(startDate), pgconv.DateFromPgtype(endDate))
		if rangeErr != nil {
			return nil, infra.WrapRepoErr("invalid booking date range", rangeErr)
		}
		result = append(result, commands.OverlappingBooking{
			ID:       id,
			Number:   number,
			RenterID: renterID,
			Status:   booking.Status(status),
			Range:    dateRange,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking rows", err)
	}
	return result, nil
}
