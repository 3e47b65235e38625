package bootstrap

import (
	"context"
	"log/slog"

	"grooming-waitlist/internal/infra/cache"
	"grooming-waitlist/internal/pkg/config"
	"grooming-waitlist/internal/usecase/commands"

	"go.uber.org/fx"
)

var CacheModule = fx.Module("cache",
	fx.Provide(
		NewInboundDeduper,
	),
)

// NewInboundDeduper falls back to a no-op when Redis is not configured.
func NewInboundDeduper(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) commands.InboundDeduper {
	if cfg.Redis.Addr == "" {
		logger.Info("redis not configured, inbound dedupe disabled")
		return cache.NoopDeduper{}
	}

	client := cache.NewRedisClient(cfg.Redis)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("redis ping failed", "addr", cfg.Redis.Addr, "error", err.Error())
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	return cache.NewInboundDeduper(client, cfg.Redis.DedupeTTL)
}
