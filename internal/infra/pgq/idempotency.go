package pgq

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TryInsertIdempotencyKeyParams struct {
	Key         uuid.UUID
	StaffID     uuid.UUID
	Endpoint    string
	RequestHash string
	ExpiresAt   time.Time
}

const tryInsertIdempotencyKey = `
INSERT INTO idempotency_keys (key, staff_id, endpoint, request_hash, status, expires_at)
VALUES ($1, $2, $3, $4, 'processing', $5)
ON CONFLICT (key, staff_id) DO NOTHING`

func (q *Queries) TryInsertIdempotencyKey(ctx context.Context, db DBTX, arg TryInsertIdempotencyKeyParams) (int64, error) {
	return execRows(ctx, db, tryInsertIdempotencyKey, arg.Key, arg.StaffID, arg.Endpoint, arg.RequestHash, arg.ExpiresAt)
}

type GetIdempotencyKeyParams struct {
	Key     uuid.UUID
	StaffID uuid.UUID
}

const getIdempotencyKey = `
SELECT key, staff_id, endpoint, request_hash, status, response_body, expires_at, created_at
FROM idempotency_keys
WHERE key = $1 AND staff_id = $2`

func (q *Queries) GetIdempotencyKey(ctx context.Context, db DBTX, arg GetIdempotencyKeyParams) (IdempotencyKey, error) {
	var k IdempotencyKey
	err := db.QueryRow(ctx, getIdempotencyKey, arg.Key, arg.StaffID).Scan(
		&k.Key, &k.StaffID, &k.Endpoint, &k.RequestHash, &k.Status, &k.ResponseBody, &k.ExpiresAt, &k.CreatedAt,
	)
	return k, err
}

type CompleteIdempotencyKeyParams struct {
	Key          uuid.UUID
	StaffID      uuid.UUID
	ResponseBody []byte
}

const completeIdempotencyKey = `
UPDATE idempotency_keys
SET status = 'completed', response_body = $3
WHERE key = $1 AND staff_id = $2 AND status = 'processing'`

func (q *Queries) CompleteIdempotencyKey(ctx context.Context, db DBTX, arg CompleteIdempotencyKeyParams) (int64, error) {
	return execRows(ctx, db, completeIdempotencyKey, arg.Key, arg.StaffID, arg.ResponseBody)
}

const deleteIdempotencyKey = `DELETE FROM idempotency_keys WHERE key = $1 AND staff_id = $2`

func (q *Queries) DeleteIdempotencyKey(ctx context.Context, db DBTX, arg GetIdempotencyKeyParams) error {
	_, err := db.Exec(ctx, deleteIdempotencyKey, arg.Key, arg.StaffID)
	return err
}

const deleteExpiredIdempotencyKeys = `DELETE FROM idempotency_keys WHERE expires_at < $1`

func (q *Queries) DeleteExpiredIdempotencyKeys(ctx context.Context, db DBTX, now time.Time) (int64, error) {
	return execRows(ctx, db, deleteExpiredIdempotencyKeys, now)
}
