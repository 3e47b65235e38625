package uow

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"grooming-waitlist/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

var errRetriesExhausted = errs.New("transaction failed after max retries")

// txRetry reruns a transaction body that lost a serialization or deadlock race.
type txRetry struct {
	attempts int
	base     time.Duration
}

var defaultRetry = txRetry{attempts: 4, base: 100 * time.Millisecond}

func (p txRetry) run(ctx context.Context, attempt func() error) error {
	var err error
	for n := 1; n <= p.attempts; n++ {
		err = attempt()
		if err == nil || !retryable(err) {
			return err
		}
		if n == p.attempts {
			break
		}

		wait := p.backoff(n)
		slog.Warn("transaction conflict, retrying",
			"attempt", n,
			"wait_ms", wait.Milliseconds(),
			"error", err.Error())

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	slog.Error("transaction failed after max retries", "attempts", p.attempts, "error", err.Error())
	return errs.Mark(err, errRetriesExhausted)
}

// backoff doubles per attempt with up to 20% jitter.
func (p txRetry) backoff(attempt int) time.Duration {
	d := p.base << (attempt - 1)
	if j := int64(d / 5); j > 0 {
		d += time.Duration(rand.Int64N(j))
	}
	return d
}

func retryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "40001", "40P01": // serialization_failure, deadlock_detected
		return true
	}
	return false
}
