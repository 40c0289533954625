package components

import (
	"business-daily-deals/internal/handler"
	"business-daily-deals/internal/handler/api"
	"business-daily-deals/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewDealHandler,
		api.NewCouponHandler,
		api.NewCreditHandler,
		api.NewNotificationHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
