package components

import (
	"fleetrent/internal/infra/db"
	"fleetrent/internal/infra/notify"
	"fleetrent/internal/infra/readstore"
	"fleetrent/internal/infra/repository"
	"fleetrent/internal/infra/uow"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		repository.NewBlockRepository,
		repository.NewPatternRepository,
		repository.NewBookingRepository,
		readstore.NewAvailabilityReadStore,
		readstore.NewListingReadStore,
		readstore.NewListingReads,
		readstore.NewBookingReadStore,
		readstore.NewUserReadStore,
		notify.NewOutboxNotifier,
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
