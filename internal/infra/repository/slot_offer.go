package repository

import (
	"context"
	"time"

	"grooming-waitlist/internal/domain/waitlist"
	"grooming-waitlist/internal/infra"
	"grooming-waitlist/internal/infra/pgq"
	"grooming-waitlist/internal/infra/repository/converter"

	"github.com/google/uuid"
)

type SlotOfferWriteQueries interface {
	CreateSlotOffer(ctx context.Context, db pgq.DBTX, arg pgq.CreateSlotOfferParams) error
	ClaimSlotOffer(ctx context.Context, db pgq.DBTX, arg pgq.ClaimSlotOfferParams) (int64, error)
	ReleaseSlotOfferClaim(ctx context.Context, db pgq.DBTX, arg pgq.ReleaseSlotOfferClaimParams) (int64, error)
	ExpireSlotOffer(ctx context.Context, db pgq.DBTX, arg pgq.ExpireSlotOfferParams) (int64, error)
}

type SlotOfferRepository struct {
	queries SlotOfferWriteQueries
	db      pgq.DBTX
}

func NewSlotOfferRepository(queries SlotOfferWriteQueries, db pgq.DBTX) *SlotOfferRepository {
	return &SlotOfferRepository{
		queries: queries,
		db:      db,
	}
}

func (r *SlotOfferRepository) Create(ctx context.Context, tx pgq.DBTX, o *waitlist.SlotOffer) error {
	if err := r.queries.CreateSlotOffer(ctx, tx, converter.OfferToInfra(o)); err != nil {
		return infra.WrapRepoErr("failed to create slot offer", err)
	}
	return nil
}

// Claim flips a pending offer to accepted for customerID. Exactly one concurrent caller wins.
func (r *SlotOfferRepository) Claim(ctx context.Context, tx pgq.DBTX, offerID, customerID uuid.UUID, at time.Time) (bool, error) {
	n, err := r.queries.ClaimSlotOffer(ctx, tx, pgq.ClaimSlotOfferParams{
		ID:         offerID,
		CustomerID: customerID,
		AcceptedAt: at,
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to claim slot offer", err)
	}
	return n == 1, nil
}

func (r *SlotOfferRepository) ReleaseClaim(ctx context.Context, tx pgq.DBTX, offerID, customerID uuid.UUID) (bool, error) {
	n, err := r.queries.ReleaseSlotOfferClaim(ctx, tx, pgq.ReleaseSlotOfferClaimParams{
		ID:         offerID,
		CustomerID: customerID,
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to release slot offer claim", err)
	}
	return n == 1, nil
}

func (r *SlotOfferRepository) Expire(ctx context.Context, tx pgq.DBTX, offerID uuid.UUID, now time.Time) (bool, error) {
	n, err := r.queries.ExpireSlotOffer(ctx, tx, pgq.ExpireSlotOfferParams{
		ID:  offerID,
		Now: now,
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to expire slot offer", err)
	}
	return n == 1, nil
}
