package repository

import (
	"context"

	"grooming-waitlist/internal/domain/waitlist"
	"grooming-waitlist/internal/infra"
	"grooming-waitlist/internal/infra/pgq"
	"grooming-waitlist/internal/infra/repository/converter"
	"grooming-waitlist/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type WaitlistEntryWriteQueries interface {
	CreateWaitlistEntry(ctx context.Context, db pgq.DBTX, arg pgq.CreateWaitlistEntryParams) error
	MarkEntryNotified(ctx context.Context, db pgq.DBTX, arg pgq.MarkEntryNotifiedParams) (int64, error)
	ReleaseNotifiedEntry(ctx context.Context, db pgq.DBTX, arg pgq.ReleaseNotifiedEntryParams) (int64, error)
	ExpireOfferEntries(ctx context.Context, db pgq.DBTX, arg pgq.ExpireOfferEntriesParams) (int64, error)
	CancelWaitlistEntry(ctx context.Context, db pgq.DBTX, id uuid.UUID) (int64, error)
	MarkEntryUnfillable(ctx context.Context, db pgq.DBTX, id uuid.UUID) (int64, error)
}

type WaitlistEntryRepository struct {
	queries WaitlistEntryWriteQueries
	db      pgq.DBTX
}

func NewWaitlistEntryRepository(queries WaitlistEntryWriteQueries, db pgq.DBTX) *WaitlistEntryRepository {
	return &WaitlistEntryRepository{
		queries: queries,
		db:      db,
	}
}

func (r *WaitlistEntryRepository) Create(ctx context.Context, tx pgq.DBTX, e *waitlist.Entry) error {
	if err := r.queries.CreateWaitlistEntry(ctx, tx, converter.EntryToInfra(e)); err != nil {
		return infra.WrapRepoErr("failed to create waitlist entry", err)
	}
	return nil
}

// MarkNotified ties an active, unoffered entry for the offer's service to the offer.
func (r *WaitlistEntryRepository) MarkNotified(ctx context.Context, tx pgq.DBTX, entryID uuid.UUID, offer *waitlist.SlotOffer) (bool, error) {
	n, err := r.queries.MarkEntryNotified(ctx, tx, pgq.MarkEntryNotifiedParams{
		ID:         entryID,
		OfferID:    offer.ID(),
		ServiceID:  offer.Slot().ServiceID(),
		NotifiedAt: offer.CreatedAt(),
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark entry notified", err)
	}
	return n == 1, nil
}

func (r *WaitlistEntryRepository) Release(ctx context.Context, tx pgq.DBTX, entryID, offerID uuid.UUID, next waitlist.EntryStatus) (bool, error) {
	n, err := r.queries.ReleaseNotifiedEntry(ctx, tx, pgq.ReleaseNotifiedEntryParams{
		ID:      entryID,
		OfferID: offerID,
		Status:  next.String(),
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to release notified entry", err)
	}
	return n == 1, nil
}

func (r *WaitlistEntryRepository) ExpireForOffer(ctx context.Context, tx pgq.DBTX, offerID uuid.UUID, except *uuid.UUID) (int64, error) {
	n, err := r.queries.ExpireOfferEntries(ctx, tx, pgq.ExpireOfferEntriesParams{
		OfferID:  offerID,
		ExceptID: pgconv.UUIDPtrToPgtype(except),
	})
	if err != nil {
		return 0, infra.WrapRepoErr("failed to expire offer entries", err)
	}
	return n, nil
}

func (r *WaitlistEntryRepository) Cancel(ctx context.Context, tx pgq.DBTX, entryID uuid.UUID) (bool, error) {
	n, err := r.queries.CancelWaitlistEntry(ctx, tx, entryID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to cancel waitlist entry", err)
	}
	return n == 1, nil
}

func (r *WaitlistEntryRepository) MarkUnfillable(ctx context.Context, tx pgq.DBTX, entryID uuid.UUID) (bool, error) {
	n, err := r.queries.MarkEntryUnfillable(ctx, tx, entryID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark entry unfillable", err)
	}
	return n == 1, nil
}
