package components

import (
	"mess-market/internal/infra/db"
	"mess-market/internal/infra/readstore"
	"mess-market/internal/infra/repository"
	"mess-market/internal/infra/uow"
	"mess-market/internal/usecase/commands"
	"mess-market/internal/usecase/queries"
	"mess-market/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
)

var baseOption = fx.Provide(
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		fx.Annotate(
			readstore.NewListingReadStore,
			fx.As(new(queries.ListingViewRepo)),
		),
		fx.Annotate(
			readstore.NewBidReadStore,
			fx.As(new(queries.BidViewRepo)),
		),
		fx.Annotate(
			readstore.NewPurchaseReadStore,
			fx.As(new(queries.PurchaseViewRepo)),
		),
		fx.Annotate(
			readstore.NewTransactionReadStore,
			fx.As(new(queries.TransactionViewRepo)),
		),
		fx.Annotate(
			readstore.NewNotificationReadStore,
			fx.As(new(queries.NotificationViewRepo)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserViewRepo)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		// UnitOfWork owns the write path; individual repositories are only
		// reachable through its transactions.
		uow.NewPostgresUoW,
		repository.NewNotificationRepository,
		fx.Annotate(
			repository.NewFeedNotifier,
			fx.As(new(shared.Notifier)),
		),
		fx.Annotate(
			repository.NewFeedStore,
			fx.As(new(commands.NotificationStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
