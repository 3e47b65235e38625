package pgq

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const slotOfferColumns = `id, service_id, appointment_date, appointment_time, discount_percent, expires_at,
	status, accepted_by, accepted_at, created_at, updated_at`

type CreateSlotOfferParams struct {
	ID              uuid.UUID
	ServiceID       uuid.UUID
	AppointmentDate pgtype.Date
	AppointmentTime pgtype.Time
	DiscountPercent int32
	ExpiresAt       time.Time
	CreatedAt       time.Time
}

const createSlotOffer = `
INSERT INTO slot_offers (id, service_id, appointment_date, appointment_time, discount_percent, expires_at, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, 'pending', $7, $7)`

func (q *Queries) CreateSlotOffer(ctx context.Context, db DBTX, arg CreateSlotOfferParams) error {
	_, err := db.Exec(ctx, createSlotOffer,
		arg.ID, arg.ServiceID, arg.AppointmentDate, arg.AppointmentTime, arg.DiscountPercent, arg.ExpiresAt, arg.CreatedAt)
	return err
}

const getSlotOffer = `SELECT ` + slotOfferColumns + ` FROM slot_offers WHERE id = $1`

func (q *Queries) GetSlotOffer(ctx context.Context, db DBTX, id uuid.UUID) (SlotOffer, error) {
	var o SlotOffer
	err := db.QueryRow(ctx, getSlotOffer, id).Scan(
		&o.ID, &o.ServiceID, &o.AppointmentDate, &o.AppointmentTime, &o.DiscountPercent, &o.ExpiresAt,
		&o.Status, &o.AcceptedBy, &o.AcceptedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

type ClaimSlotOfferParams struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	AcceptedAt time.Time
}

// The single point of mutual exclusion: only one caller sees a row affected. A claim
// made after expires_at affects nothing.
const claimSlotOffer = `
UPDATE slot_offers
SET status = 'accepted', accepted_by = $2, accepted_at = $3, updated_at = now()
WHERE id = $1 AND status = 'pending' AND expires_at >= $3`

func (q *Queries) ClaimSlotOffer(ctx context.Context, db DBTX, arg ClaimSlotOfferParams) (int64, error) {
	return execRows(ctx, db, claimSlotOffer, arg.ID, arg.CustomerID, arg.AcceptedAt)
}

type ReleaseSlotOfferClaimParams struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
}

const releaseSlotOfferClaim = `
UPDATE slot_offers
SET status = 'pending', accepted_by = NULL, accepted_at = NULL, updated_at = now()
WHERE id = $1 AND status = 'accepted' AND accepted_by = $2`

func (q *Queries) ReleaseSlotOfferClaim(ctx context.Context, db DBTX, arg ReleaseSlotOfferClaimParams) (int64, error) {
	return execRows(ctx, db, releaseSlotOfferClaim, arg.ID, arg.CustomerID)
}

type ExpireSlotOfferParams struct {
	ID  uuid.UUID
	Now time.Time
}

const expireSlotOffer = `
UPDATE slot_offers
SET status = 'expired', updated_at = now()
WHERE id = $1 AND status = 'pending' AND expires_at < $2`

func (q *Queries) ExpireSlotOffer(ctx context.Context, db DBTX, arg ExpireSlotOfferParams) (int64, error) {
	return execRows(ctx, db, expireSlotOffer, arg.ID, arg.Now)
}

type ListExpiredPendingOfferIDsParams struct {
	Now   time.Time
	Limit int32
}

const listExpiredPendingOfferIDs = `
SELECT id FROM slot_offers
WHERE status = 'pending' AND expires_at < $1
ORDER BY expires_at ASC, id ASC
LIMIT $2`

func (q *Queries) ListExpiredPendingOfferIDs(ctx context.Context, db DBTX, arg ListExpiredPendingOfferIDsParams) ([]uuid.UUID, error) {
	rows, err := db.Query(ctx, listExpiredPendingOfferIDs, arg.Now, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
