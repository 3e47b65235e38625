package readstore

import (
	"context"

	"grooming-waitlist/internal/infra"
	"grooming-waitlist/internal/infra/pgq"
	"grooming-waitlist/internal/usecase/shared"

	"github.com/google/uuid"
)

type IdempotencyReadQueries interface {
	GetIdempotencyKey(ctx context.Context, db pgq.DBTX, arg pgq.GetIdempotencyKeyParams) (pgq.IdempotencyKey, error)
}

type IdempotencyReadStore struct {
	queries IdempotencyReadQueries
	db      pgq.DBTX
}

func NewIdempotencyReadStore(queries IdempotencyReadQueries, db pgq.DBTX) *IdempotencyReadStore {
	return &IdempotencyReadStore{
		queries: queries,
		db:      db,
	}
}

// Get returns the record even when expired; callers decide what expiry means.
func (r *IdempotencyReadStore) Get(ctx context.Context, key, staffID uuid.UUID) (*shared.IdempotencyRecord, error) {
	row, err := r.queries.GetIdempotencyKey(ctx, r.db, pgq.GetIdempotencyKeyParams{
		Key:     key,
		StaffID: staffID,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}

	return &shared.IdempotencyRecord{
		Key:          row.Key,
		StaffID:      row.StaffID,
		Endpoint:     row.Endpoint,
		Status:       row.Status,
		RequestHash:  row.RequestHash,
		ResponseBody: row.ResponseBody,
		ExpiresAt:    row.ExpiresAt,
	}, nil
}
