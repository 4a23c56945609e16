package components

import (
	"mess-market/internal/infra/cas"
	"mess-market/internal/infra/mealreg"
	"mess-market/internal/pkg/config"
	"mess-market/internal/usecase/shared"

	"go.uber.org/fx"
)

// GatewayModule wires the two campus services this app depends on: SSO for
// identity and the meal-registration service for venues and tokens.
var GatewayModule = fx.Module("gateway",
	fx.Provide(
		func(cfg config.Config) shared.MealRegistry {
			return mealreg.NewClient(cfg.MealReg)
		},
		func(cfg config.Config) shared.TicketValidator {
			return cas.NewClient(cfg.CAS)
		},
	),
)
