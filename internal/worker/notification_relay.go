package worker

import (
	"context"
	"log/slog"
	"time"

	"grooming-waitlist/internal/pkg/clock"
	"grooming-waitlist/internal/pkg/config"
	"grooming-waitlist/internal/pkg/metrics"
	"grooming-waitlist/internal/usecase/shared"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	maxRetryDelay      = time.Hour
	statusWriteTimeout = 5 * time.Second
)

// Dispatcher delivers one notification to the outside world.
type Dispatcher interface {
	Dispatch(ctx context.Context, job shared.NotificationJob) error
}

// NotificationRelay drains the notification outbox. Jobs are written in the same
// transaction as the offer, so a rolled back offer never sends a message.
type NotificationRelay struct {
	uow        shared.UnitOfWork
	dispatcher Dispatcher
	limiter    *rate.Limiter
	clock      clock.Clock
	cfg        config.NotifierConfig
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewNotificationRelay(
	uow shared.UnitOfWork,
	dispatcher Dispatcher,
	clock clock.Clock,
	cfg config.Config,
	m *metrics.Metrics,
	logger *slog.Logger,
) *NotificationRelay {
	nc := cfg.Notifier
	if nc.BatchSize <= 0 {
		nc.BatchSize = 50
	}
	if nc.MaxAttempts <= 0 {
		nc.MaxAttempts = 5
	}
	if nc.PollInterval <= 0 {
		nc.PollInterval = 5 * time.Second
	}
	if nc.Lease <= 0 {
		nc.Lease = 5 * time.Minute
	}
	limit := rate.Inf
	if nc.RatePerSecond > 0 {
		limit = rate.Limit(nc.RatePerSecond)
	}
	burst := nc.Burst
	if burst <= 0 {
		burst = 1
	}
	return &NotificationRelay{
		uow:        uow,
		dispatcher: dispatcher,
		limiter:    rate.NewLimiter(limit, burst),
		clock:      clock,
		cfg:        nc,
		metrics:    m,
		logger:     logger,
	}
}

func (r *NotificationRelay) Run(ctx context.Context) {
	r.logger.Info("notification relay started", "poll_interval", r.cfg.PollInterval.String())

	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("notification relay stopped")
			return
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
				r.logger.Error("notification relay pass failed", "error", err.Error())
			}
		}
	}
}

// RunOnce leases one batch of due jobs and dispatches them. The lease commits before
// anything is sent and every outcome commits on its own, so cancelling mid-batch
// never rolls back a delivered job. Leased jobs left unrecorded become due again once
// the lease runs out.
func (r *NotificationRelay) RunOnce(ctx context.Context) (int, error) {
	now := r.clock.Now()
	var jobs []shared.NotificationJob
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		jobs, err = tx.Notifications().LeaseDue(ctx, tx.DB(), now, now.Add(r.cfg.Lease), r.cfg.BatchSize)
		return err
	})
	if err != nil {
		return 0, err
	}

	var sent int
	for i, job := range jobs {
		if err := r.limiter.Wait(ctx); err != nil {
			r.unlease(ctx, jobs[i:])
			return sent, err
		}

		status, lastErr, runAt := r.deliver(ctx, job, r.clock.Now())
		if err := r.record(ctx, job, status, lastErr, runAt); err != nil {
			r.unlease(ctx, jobs[i+1:])
			return sent, err
		}
		if status == shared.NotificationStatusSent {
			sent++
		}
	}
	return sent, nil
}

// record stores a dispatch outcome even when ctx was cancelled after the send.
func (r *NotificationRelay) record(ctx context.Context, job shared.NotificationJob, status string, lastErr *string, runAt time.Time) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statusWriteTimeout)
	defer cancel()

	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Notifications().UpdateJobStatus(ctx, tx.DB(), job.ID, status, lastErr, runAt)
	})
	if err != nil {
		r.logger.Error("notification outcome not recorded",
			"job_id", job.ID,
			"status", status,
			"error", err.Error(),
		)
	}
	return err
}

// unlease hands undispatched jobs back to the queue. On failure they wait out the lease.
func (r *NotificationRelay) unlease(ctx context.Context, jobs []shared.NotificationJob) {
	if len(jobs) == 0 {
		return
	}
	ids := make([]uuid.UUID, 0, len(jobs))
	for _, job := range jobs {
		ids = append(ids, job.ID)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statusWriteTimeout)
	defer cancel()

	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Notifications().Requeue(ctx, tx.DB(), ids, r.clock.Now())
	})
	if err != nil {
		r.logger.Warn("leased notifications not requeued", "jobs", len(ids), "error", err.Error())
	}
}

func (r *NotificationRelay) deliver(ctx context.Context, job shared.NotificationJob, now time.Time) (string, *string, time.Time) {
	err := r.dispatcher.Dispatch(ctx, job)
	if err == nil {
		r.metrics.IncDispatched("sent")
		return shared.NotificationStatusSent, nil, now
	}

	msg := err.Error()
	attempts := job.Attempts + 1
	if attempts >= r.cfg.MaxAttempts {
		r.metrics.IncDispatched("failed")
		r.logger.Error("notification dropped after max attempts",
			"job_id", job.ID,
			"attempts", attempts,
			"error", msg,
		)
		return shared.NotificationStatusFailed, &msg, now
	}

	r.metrics.IncDispatched("retry")
	r.logger.Warn("notification dispatch failed, will retry",
		"job_id", job.ID,
		"attempts", attempts,
		"error", msg,
	)
	return shared.NotificationStatusQueued, &msg, now.Add(retryDelay(r.cfg.PollInterval, attempts))
}

func retryDelay(base time.Duration, attempts int) time.Duration {
	d := base
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= maxRetryDelay {
			return maxRetryDelay
		}
	}
	return d
}
