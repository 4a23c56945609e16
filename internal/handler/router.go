package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"mess-market/internal/handler/api"
	"mess-market/internal/handler/middleware"
	"mess-market/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

type Handlers struct {
	Auth         *api.AuthHandler
	Listing      *api.ListingHandler
	Bid          *api.BidHandler
	Settlement   *api.SettlementHandler
	Purchase     *api.PurchaseHandler
	Notification *api.NotificationHandler
	Job          *api.JobHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
				{Method: http.MethodPost, Path: "/refresh", Handler: h.Auth.Refresh},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: h.Auth.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
				{Method: http.MethodPut, Path: "/credential", Handler: h.Auth.UpdateCredential},
			})
		}

		listings := apiGroup.Group("/listings")
		listings.Use(authMiddleware.RequireAuth())
		{
			addRoutes(listings, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Listing.List},
				{Method: http.MethodGet, Path: "/mine", Handler: h.Listing.Mine},
				{Method: http.MethodPost, Path: "", Handler: h.Listing.Create},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Listing.Get},
				{Method: http.MethodPut, Path: "/:id/price", Handler: h.Listing.UpdatePrice},
				{Method: http.MethodDelete, Path: "/:id", Handler: h.Listing.Delete},
				{Method: http.MethodPost, Path: "/:id/bids", Handler: h.Bid.Place},
				{Method: http.MethodPut, Path: "/:id/bids", Handler: h.Bid.Update},
				{Method: http.MethodPost, Path: "/:id/bids/:bidId/accept", Handler: h.Settlement.Accept},
				{Method: http.MethodDelete, Path: "/:id/bids/:bidId/accept", Handler: h.Settlement.Cancel},
				{Method: http.MethodPost, Path: "/:id/bids/:bidId/pay", Handler: h.Settlement.Pay},
			})
		}

		bids := apiGroup.Group("/bids")
		bids.Use(authMiddleware.RequireAuth())
		{
			addRoutes(bids, []route{
				{Method: http.MethodGet, Path: "/mine", Handler: h.Bid.Mine},
				{Method: http.MethodDelete, Path: "/:id", Handler: h.Bid.Withdraw},
			})
		}

		purchases := apiGroup.Group("/purchases")
		purchases.Use(authMiddleware.RequireAuth())
		{
			addRoutes(purchases, []route{
				{Method: http.MethodGet, Path: "/active", Handler: h.Purchase.Active},
			})
		}

		transactions := apiGroup.Group("/transactions")
		transactions.Use(authMiddleware.RequireAuth())
		{
			addRoutes(transactions, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Purchase.History},
			})
		}

		notifications := apiGroup.Group("/notifications")
		notifications.Use(authMiddleware.RequireAuth())
		{
			addRoutes(notifications, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Notification.Feed},
				{Method: http.MethodPost, Path: "/:id/read", Handler: h.Notification.MarkRead},
			})
		}

		// Secret-guarded, not JWT-guarded: the caller is the external cron
		jobs := apiGroup.Group("/jobs")
		{
			addRoutes(jobs, []route{
				{Method: http.MethodPost, Path: "/expiry-sweep", Handler: h.Job.ExpirySweep},
			})
		}
	}
}

// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, r.Handler)
		case http.MethodPost:
			g.POST(r.Path, r.Handler)
		case http.MethodPut:
			g.PUT(r.Path, r.Handler)
		case http.MethodPatch:
			g.PATCH(r.Path, r.Handler)
		case http.MethodDelete:
			g.DELETE(r.Path, r.Handler)
		default:
			g.Any(r.Path, r.Handler)
		}
	}
}
