package bootstrap

import (
	"context"
	"log/slog"
	"sync"

	"grooming-waitlist/internal/pkg/config"
	"grooming-waitlist/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		worker.NewSweepRunner,
		worker.NewNotificationRelay,
	),
	fx.Invoke(startWorkers),
)

type runner interface {
	Run(ctx context.Context)
}

func startWorkers(lc fx.Lifecycle, cfg config.Config, sweeper *worker.SweepRunner, relay *worker.NotificationRelay, logger *slog.Logger) {
	var runners []runner
	if cfg.Sweeper.Enabled {
		runners = append(runners, sweeper)
	} else {
		logger.Info("sweeper disabled")
	}
	if cfg.Notifier.Enabled {
		runners = append(runners, relay)
	} else {
		logger.Info("notification relay disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			for _, r := range runners {
				wg.Add(1)
				go func(r runner) {
					defer wg.Done()
					r.Run(ctx)
				}(r)
			}
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			done := make(chan struct{})
			go func() {
				wg.Wait()
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
