package account

import (
	"context"

	"github.com/ghaggin/eduarchive/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		NewController,
	),
	fx.Invoke(RegisterHooks),
)

// RegisterHooks should be invoked by fx
func RegisterHooks(lc fx.Lifecycle, c *Controller, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return c.Seed(ctx, cfg.Seed)
		},
	})
}
