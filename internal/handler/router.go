package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"business-daily-deals/internal/domain/user"
	"business-daily-deals/internal/handler/api"
	"business-daily-deals/internal/handler/middleware"
	"business-daily-deals/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	dealHandler *api.DealHandler,
	couponHandler *api.CouponHandler,
	creditHandler *api.CreditHandler,
	notificationHandler *api.NotificationHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, dealHandler, couponHandler, creditHandler, notificationHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	dealHandler *api.DealHandler,
	couponHandler *api.CouponHandler,
	creditHandler *api.CreditHandler,
	notificationHandler *api.NotificationHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/register", Handler: authHandler.Register},
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
				{Method: http.MethodPost, Path: "/refresh", Handler: authHandler.Refresh},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: authHandler.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me},
			})
		}

		deals := apiGroup.Group("/deals")
		{
			// Browsing and engagement tracking are public
			addRoutes(deals, []route{
				{Method: http.MethodGet, Path: "", Handler: dealHandler.ListDeals},
				{Method: http.MethodGet, Path: "/:id", Handler: dealHandler.GetDeal},
				{Method: http.MethodPost, Path: "/:id/view", Handler: dealHandler.RecordView},
				{Method: http.MethodPost, Path: "/:id/click", Handler: dealHandler.RecordClick},
			})

			supplierOnly := deals.Group("")
			supplierOnly.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole(user.RoleSupplier))
			addRoutes(supplierOnly, []route{
				{Method: http.MethodPost, Path: "", Handler: dealHandler.CreateDeal},
				{Method: http.MethodPatch, Path: "/:id", Handler: dealHandler.UpdateDeal},
				{Method: http.MethodDelete, Path: "/:id", Handler: dealHandler.DeleteDeal},
				{Method: http.MethodPost, Path: "/:id/extend", Handler: dealHandler.ExtendDeal},
				{Method: http.MethodPost, Path: "/:id/reactivate", Handler: dealHandler.ReactivateDeal},
			})
		}

		suppliers := apiGroup.Group("/suppliers")
		suppliers.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole(user.RoleSupplier))
		{
			addRoutes(suppliers, []route{
				{Method: http.MethodGet, Path: "/me/deals", Handler: dealHandler.ListMyDeals},
			})
		}

		coupons := apiGroup.Group("/coupons")
		coupons.Use(authMiddleware.RequireAuth())
		{
			addRoutes(coupons, []route{
				{Method: http.MethodPost, Path: "", Handler: couponHandler.GenerateCoupon,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleBuyer)}},
				{Method: http.MethodGet, Path: "", Handler: couponHandler.ListMyCoupons},
				{Method: http.MethodGet, Path: "/issued", Handler: couponHandler.ListIssuedCoupons,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleSupplier)}},
				{Method: http.MethodPost, Path: "/redeem", Handler: couponHandler.RedeemCoupon,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleSupplier)}},
				{Method: http.MethodGet, Path: "/validate/:code", Handler: couponHandler.ValidateCoupon},
				{Method: http.MethodGet, Path: "/:code", Handler: couponHandler.GetCoupon},
				{Method: http.MethodGet, Path: "/:code/history", Handler: couponHandler.CouponHistory},
			})
		}

		credits := apiGroup.Group("/credits")
		credits.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole(user.RoleSupplier))
		{
			addRoutes(credits, []route{
				{Method: http.MethodPost, Path: "/purchase", Handler: creditHandler.PurchaseCredits},
				{Method: http.MethodGet, Path: "/balance", Handler: creditHandler.GetBalance},
				{Method: http.MethodGet, Path: "/transactions", Handler: creditHandler.ListTransactions},
			})
		}

		keywords := apiGroup.Group("/keywords")
		keywords.Use(authMiddleware.RequireAuth())
		{
			addRoutes(keywords, []route{
				{Method: http.MethodPost, Path: "", Handler: notificationHandler.SubscribeKeyword},
				{Method: http.MethodGet, Path: "", Handler: notificationHandler.ListKeywords},
				{Method: http.MethodDelete, Path: "/:keyword", Handler: notificationHandler.UnsubscribeKeyword},
			})
		}

		notifications := apiGroup.Group("/notifications")
		notifications.Use(authMiddleware.RequireAuth())
		{
			addRoutes(notifications, []route{
				{Method: http.MethodGet, Path: "", Handler: notificationHandler.ListNotifications},
				{Method: http.MethodGet, Path: "/unread-count", Handler: notificationHandler.UnreadCount},
				{Method: http.MethodPost, Path: "/:id/read", Handler: notificationHandler.MarkRead},
				{Method: http.MethodPost, Path: "/read-all", Handler: notificationHandler.MarkAllRead},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
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
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
