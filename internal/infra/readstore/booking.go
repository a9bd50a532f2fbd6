package readstore

import (
	"context"

	"fleetrent/internal/domain/availability"
	"fleetrent/internal/infra"
	"fleetrent/internal/infra/db"
	"fleetrent/internal/pkg/pgconv"
	"fleetrent/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const selectBookingSQL = `
SELECT id, booking_number, renter_id, vehicle_listing_id, driver_listing_id, start_date, end_date, status, note, created_at
FROM bookings`

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(pool db.DBTX) queries.BookingReadStore {
	return &BookingReadStore{db: pool}
}

func (s *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	view, err := scanBookingView(s.db.QueryRow(ctx, selectBookingSQL+` WHERE id = $1`, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	return view, nil
}

func (s *BookingReadStore) FindByRenter(ctx context.Context, renterID uuid.UUID) ([]*queries.BookingView, error) {
	rows, err := s.db.Query(ctx, selectBookingSQL+` WHERE renter_id = $1 ORDER BY created_at DESC`, renterID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find bookings by renter", err)
	}
	defer rows.Close()

	var views []*queries.BookingView
	for rows.Next() {
		view, scanErr := scanBookingView(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", scanErr)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking rows", err)
	}
	return views, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookingView(row rowScanner) (*queries.BookingView, error) {
	var (
		view      queries.BookingView
		vehicleID pgtype.UUID
		driverID  pgtype.UUID
		startDate pgtype.Date
		endDate   pgtype.Date
		note      pgtype.Text
		createdAt pgtype.Timestamptz
	)
	if err := row.Scan(&view.ID, &view.Number, &view.RenterID, &vehicleID, &driverID, &startDate, &endDate, &view.Status, &note, &createdAt); err != nil {
		return nil, err
	}
	view.VehicleID = pgconv.UUIDPtrFromPgtype(vehicleID)
	view.DriverID = pgconv.UUIDPtrFromPgtype(driverID)
	view.StartDate = pgconv.DateFromPgtype(startDate).Format(availability.ISODate)
	view.EndDate = pgconv.DateFromPgtype(endDate).Format(availability.ISODate)
	view.Note = pgconv.StringPtrFromPgtype(note)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	return &view, nil
}
