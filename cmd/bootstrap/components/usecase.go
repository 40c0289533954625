package components

import (
	"business-daily-deals/internal/pkg/clock"
	"business-daily-deals/internal/usecase"
	"business-daily-deals/internal/usecase/commands"
	"business-daily-deals/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewDealCommands,
		commands.NewCouponCommands,
		commands.NewCreditCommands,
		commands.NewNotificationCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewDealQueries,
		queries.NewCouponQueries,
		queries.NewCreditQueries,
		queries.NewNotificationQueries,
		queries.NewUserQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
