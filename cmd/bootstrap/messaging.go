package bootstrap

import (
	"context"
	"log/slog"

	"grooming-waitlist/internal/infra/messaging"
	"grooming-waitlist/internal/pkg/config"
	"grooming-waitlist/internal/worker"

	"go.uber.org/fx"
)

var MessagingModule = fx.Module("messaging",
	fx.Provide(
		NewDispatcher,
	),
)

func NewDispatcher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) worker.Dispatcher {
	if cfg.AMQP.URL == "" {
		logger.Info("amqp not configured, notifications will be logged only")
		return messaging.NewLogDispatcher(logger)
	}

	d := messaging.NewAMQPDispatcher(cfg.AMQP)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return d.Close()
		},
	})
	return d
}
