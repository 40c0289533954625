package bootstrap

import (
	"business-daily-deals/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.CookieConfig { return cfg.Cookie },
		func(cfg config.Config) config.CreditsConfig { return cfg.Credits },
		func(cfg config.Config) config.CouponsConfig { return cfg.Coupons },
	),
)
