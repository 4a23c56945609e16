package components

import (
	"mess-market/internal/handler"
	"mess-market/internal/handler/api"
	"mess-market/internal/handler/middleware"
	"mess-market/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		func(cfg config.Config) config.CookieConfig { return cfg.Cookie },
		func(cfg config.Config) config.SweepConfig { return cfg.Sweep },
		api.NewAuthHandler,
		api.NewListingHandler,
		api.NewBidHandler,
		api.NewSettlementHandler,
		api.NewPurchaseHandler,
		api.NewNotificationHandler,
		api.NewJobHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(
	auth *api.AuthHandler,
	listing *api.ListingHandler,
	bid *api.BidHandler,
	settlement *api.SettlementHandler,
	purchase *api.PurchaseHandler,
	notification *api.NotificationHandler,
	job *api.JobHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:         auth,
		Listing:      listing,
		Bid:          bid,
		Settlement:   settlement,
		Purchase:     purchase,
		Notification: notification,
		Job:          job,
	}
}
