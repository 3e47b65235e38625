package readstore

import (
	"context"
	"time"

	"grooming-waitlist/internal/domain/waitlist"
	"grooming-waitlist/internal/infra"
	"grooming-waitlist/internal/infra/pgq"
	"grooming-waitlist/internal/infra/repository/converter"
	"grooming-waitlist/internal/pkg/pgconv"
	"grooming-waitlist/internal/usecase/queries"

	"github.com/google/uuid"
)

type OfferReadQueries interface {
	GetSlotOffer(ctx context.Context, db pgq.DBTX, id uuid.UUID) (pgq.SlotOffer, error)
	ListExpiredPendingOfferIDs(ctx context.Context, db pgq.DBTX, arg pgq.ListExpiredPendingOfferIDsParams) ([]uuid.UUID, error)
	GetAppointmentIDByOffer(ctx context.Context, db pgq.DBTX, offerID uuid.UUID) (uuid.UUID, error)
}

type OfferReadStore struct {
	queries OfferReadQueries
	db      pgq.DBTX
}

func NewOfferReadStore(queries OfferReadQueries, db pgq.DBTX) *OfferReadStore {
	return &OfferReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *OfferReadStore) FindByID(ctx context.Context, id uuid.UUID) (*waitlist.SlotOffer, error) {
	row, err := r.queries.GetSlotOffer(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get slot offer", err)
	}
	return converter.OfferFromInfra(row)
}

func (r *OfferReadStore) FindViewByID(ctx context.Context, id uuid.UUID) (*queries.SlotOfferView, error) {
	row, err := r.queries.GetSlotOffer(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get slot offer", err)
	}

	v := &queries.SlotOfferView{}
	if err := copyView(v, &row); err != nil {
		return nil, err
	}
	tod, err := waitlist.TimeOfDayFromMinutes(pgconv.MinutesFromPgtime(row.AppointmentTime))
	if err != nil {
		return nil, err
	}
	v.StartTime = tod.String()
	v.DiscountPercent = int(row.DiscountPercent)

	apptID, err := r.queries.GetAppointmentIDByOffer(ctx, r.db, id)
	switch {
	case err == nil:
		v.AppointmentID = &apptID
	case !pgconv.IsNoRows(err):
		return nil, infra.WrapRepoErr("failed to get appointment for offer", err)
	}
	return v, nil
}

func (r *OfferReadStore) ExpiredPendingIDs(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	ids, err := r.queries.ListExpiredPendingOfferIDs(ctx, r.db, pgq.ListExpiredPendingOfferIDsParams{
		Now:   now,
		Limit: int32(limit),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list expired offers", err)
	}
	return ids, nil
}
