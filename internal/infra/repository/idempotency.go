package repository

import (
	"context"
	"time"

	"grooming-waitlist/internal/infra"
	"grooming-waitlist/internal/infra/pgq"

	"github.com/google/uuid"
)

type IdempotencyWriteQueries interface {
	TryInsertIdempotencyKey(ctx context.Context, db pgq.DBTX, arg pgq.TryInsertIdempotencyKeyParams) (int64, error)
	CompleteIdempotencyKey(ctx context.Context, db pgq.DBTX, arg pgq.CompleteIdempotencyKeyParams) (int64, error)
	DeleteIdempotencyKey(ctx context.Context, db pgq.DBTX, arg pgq.GetIdempotencyKeyParams) error
	DeleteExpiredIdempotencyKeys(ctx context.Context, db pgq.DBTX, now time.Time) (int64, error)
}

type IdempotencyRepository struct {
	queries IdempotencyWriteQueries
	db      pgq.DBTX
}

func NewIdempotencyRepository(queries IdempotencyWriteQueries, db pgq.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{
		queries: queries,
		db:      db,
	}
}

// TryInsert reports false when the key already exists for this staff member.
func (r *IdempotencyRepository) TryInsert(ctx context.Context, tx pgq.DBTX, key, staffID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	params := pgq.TryInsertIdempotencyKeyParams{
		Key:         key,
		StaffID:     staffID,
		Endpoint:    endpoint,
		RequestHash: requestHash,
		ExpiresAt:   expiresAt,
	}

	n, err := r.queries.TryInsertIdempotencyKey(ctx, tx, params)
	if err != nil {
		return false, infra.WrapRepoErr("failed to try insert idempotency key", err)
	}

	return n == 1, nil
}

func (r *IdempotencyRepository) Complete(ctx context.Context, tx pgq.DBTX, key, staffID uuid.UUID, response []byte) error {
	params := pgq.CompleteIdempotencyKeyParams{
		Key:          key,
		StaffID:      staffID,
		ResponseBody: response,
	}

	if _, err := r.queries.CompleteIdempotencyKey(ctx, tx, params); err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}

	return nil
}

func (r *IdempotencyRepository) Delete(ctx context.Context, tx pgq.DBTX, key, staffID uuid.UUID) error {
	err := r.queries.DeleteIdempotencyKey(ctx, tx, pgq.GetIdempotencyKeyParams{Key: key, StaffID: staffID})
	if err != nil {
		return infra.WrapRepoErr("failed to delete idempotency key", err)
	}
	return nil
}

func (r *IdempotencyRepository) PurgeExpired(ctx context.Context, tx pgq.DBTX, now time.Time) (int64, error) {
	count, err := r.queries.DeleteExpiredIdempotencyKeys(ctx, tx, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}

	return count, nil
}
