package commands

import (
	"context"
	"log/slog"
	"time"

	"grooming-waitlist/internal/pkg/clock"
	"grooming-waitlist/internal/pkg/config"
	"grooming-waitlist/internal/pkg/errs"
	"grooming-waitlist/internal/pkg/metrics"
	"grooming-waitlist/internal/usecase/shared"

	"github.com/google/uuid"
)

type SweepError struct {
	OfferID uuid.UUID `json:"offer_id"`
	Error   string    `json:"error"`
}

type SweepResult struct {
	ExpiredOffers          int          `json:"expired_offers"`
	ExpiredWaitlistEntries int          `json:"expired_waitlist_entries"`
	Errors                 []SweepError `json:"errors"`
}

type SweeperCommands interface {
	ProcessExpiredOffers(ctx context.Context) (*SweepResult, error)
	PurgeIdempotencyKeys(ctx context.Context) (int64, error)
}

type sweeperCommandsImpl struct {
	uow       shared.UnitOfWork
	clock     clock.Clock
	batchSize int
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewSweeperCommands(uow shared.UnitOfWork, clock clock.Clock, cfg config.Config, m *metrics.Metrics, logger *slog.Logger) SweeperCommands {
	batch := cfg.Sweeper.BatchSize
	if batch <= 0 {
		batch = 100
	}
	return &sweeperCommandsImpl{
		uow:       uow,
		clock:     clock,
		batchSize: batch,
		metrics:   m,
		logger:    logger,
	}
}

// ProcessExpiredOffers expires every pending offer past its deadline together with the
// entries still holding it. Each offer commits on its own; a failure is recorded and the
// sweep moves on. Running it twice changes nothing the second time.
func (s *sweeperCommandsImpl) ProcessExpiredOffers(ctx context.Context) (*SweepResult, error) {
	started := time.Now()
	now := s.clock.Now()
	result := &SweepResult{Errors: []SweepError{}}
	failed := make(map[uuid.UUID]struct{})

	for {
		ids, err := s.uow.CommandReads().ExpiredPendingOfferIDs(ctx, now, s.batchSize)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		progressed := 0
		for _, id := range ids {
			if _, seen := failed[id]; seen {
				continue
			}
			if err := ctx.Err(); err != nil {
				return result, err
			}

			expired, entries, err := s.expireOffer(ctx, id, now)
			if err != nil {
				failed[id] = struct{}{}
				result.Errors = append(result.Errors, SweepError{OfferID: id, Error: err.Error()})
				s.logger.Error("failed to expire offer", "offer_id", id, "error", err.Error())
				continue
			}
			progressed++
			if expired {
				result.ExpiredOffers++
				result.ExpiredWaitlistEntries += int(entries)
			}
		}

		if len(ids) < s.batchSize || progressed == 0 {
			break
		}
	}

	s.metrics.ObserveSweep(time.Since(started).Seconds(), result.ExpiredOffers, result.ExpiredWaitlistEntries)
	s.logger.Info("expiration sweep finished",
		"expired_offers", result.ExpiredOffers,
		"expired_entries", result.ExpiredWaitlistEntries,
		"errors", len(result.Errors),
	)
	return result, nil
}

func (s *sweeperCommandsImpl) expireOffer(ctx context.Context, offerID uuid.UUID, now time.Time) (bool, int64, error) {
	var (
		expired bool
		entries int64
	)
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		expired, entries = false, 0
		offer, err := tx.Reads().OfferByID(ctx, offerID)
		if err != nil {
			return err
		}
		if offer.Expire(now) != nil {
			// someone accepted it between the scan and now
			return nil
		}
		ok, err := tx.Offers().Expire(ctx, tx.DB(), offerID, now)
		if err != nil || !ok {
			return err
		}
		expired = true
		entries, err = tx.Entries().ExpireForOffer(ctx, tx.DB(), offerID, nil)
		return err
	})
	return expired, entries, err
}

func (s *sweeperCommandsImpl) PurgeIdempotencyKeys(ctx context.Context) (int64, error) {
	var purged int64
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		purged, err = tx.Idempotency().PurgeExpired(ctx, tx.DB(), s.clock.Now())
		return err
	})
	if err != nil {
		return 0, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return purged, nil
}
