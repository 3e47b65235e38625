package worker

import (
	"context"
	"log/slog"
	"time"

	"grooming-waitlist/internal/pkg/config"
	"grooming-waitlist/internal/usecase/commands"
)

// SweepRunner runs the expiration sweep on a fixed interval.
type SweepRunner struct {
	sweeper  commands.SweeperCommands
	interval time.Duration
	logger   *slog.Logger
}

func NewSweepRunner(sweeper commands.SweeperCommands, cfg config.Config, logger *slog.Logger) *SweepRunner {
	interval := cfg.Sweeper.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &SweepRunner{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until ctx is done. The first pass runs immediately.
func (r *SweepRunner) Run(ctx context.Context) {
	r.logger.Info("sweep runner started", "interval", r.interval.String())

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		r.tick(ctx)
		select {
		case <-ctx.Done():
			r.logger.Info("sweep runner stopped")
			return
		case <-ticker.C:
		}
	}
}

func (r *SweepRunner) tick(ctx context.Context) {
	if _, err := r.sweeper.ProcessExpiredOffers(ctx); err != nil && ctx.Err() == nil {
		r.logger.Error("expiration sweep failed", "error", err.Error())
	}
	purged, err := r.sweeper.PurgeIdempotencyKeys(ctx)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Warn("idempotency purge failed", "error", err.Error())
		}
		return
	}
	if purged > 0 {
		r.logger.Info("purged expired idempotency keys", "count", purged)
	}
}
