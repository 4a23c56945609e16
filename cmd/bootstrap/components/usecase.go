package components

import (
	"mess-market/internal/usecase/commands"
	"mess-market/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewListingCommands,
		commands.NewBidCommands,
		commands.NewSettlementCommands,
		commands.NewSweepCommands,
		commands.NewNotificationCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewListingQueries,
		queries.NewBidQueries,
		queries.NewPurchaseQueries,
		queries.NewTransactionQueries,
		queries.NewNotificationQueries,
		queries.NewUserQueries,
	),
)
