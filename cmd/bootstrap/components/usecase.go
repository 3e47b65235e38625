package components

import (
	"grooming-waitlist/internal/domain/appointment"
	"grooming-waitlist/internal/pkg/clock"
	"grooming-waitlist/internal/usecase"
	"grooming-waitlist/internal/usecase/commands"
	"grooming-waitlist/internal/usecase/queries"

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
	fx.Annotate(
		appointment.NewDefaultPriceCalculator,
		fx.As(new(appointment.PriceCalculator)),
	),
	func(clock clock.Clock, calc appointment.PriceCalculator) *appointment.Services {
		return &appointment.Services{
			Clock:           clock,
			PriceCalculator: calc,
		}
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewWaitlistCommands,
		commands.NewOfferCommands,
		commands.NewBookingEffector,
		commands.NewResponseResolver,
		commands.NewSweeperCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewStaffQueries,
		queries.NewWaitlistQueries,
		queries.NewOfferQueries,
		queries.NewMatcherQueries,
		queries.NewExportQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
