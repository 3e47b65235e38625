package pgq

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const waitlistEntryColumns = `e.id, e.customer_id, e.pet_id, e.service_id, e.requested_date, e.time_preference,
	e.notes, e.status, e.offer_id, e.last_offer_id, e.notified_at, e.created_at, e.updated_at`

const waitlistEntryDetailColumns = waitlistEntryColumns + `, c.name, c.phone, p.name, s.name`

const waitlistEntryDetailFrom = `FROM waitlist_entries e
	JOIN customers c ON c.id = e.customer_id
	JOIN pets p ON p.id = e.pet_id
	JOIN services s ON s.id = e.service_id`

func scanWaitlistEntry(row pgx.Row, extra ...any) (WaitlistEntry, error) {
	var e WaitlistEntry
	dest := []any{
		&e.ID, &e.CustomerID, &e.PetID, &e.ServiceID, &e.RequestedDate, &e.TimePreference,
		&e.Notes, &e.Status, &e.OfferID, &e.LastOfferID, &e.NotifiedAt, &e.CreatedAt, &e.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return e, err
}

func scanWaitlistEntryDetail(row pgx.Row) (WaitlistEntryDetail, error) {
	var d WaitlistEntryDetail
	e, err := scanWaitlistEntry(row, &d.CustomerName, &d.CustomerPhone, &d.PetName, &d.ServiceName)
	d.WaitlistEntry = e
	return d, err
}

func collectEntryDetails(rows pgx.Rows) ([]WaitlistEntryDetail, error) {
	defer rows.Close()
	var items []WaitlistEntryDetail
	for rows.Next() {
		d, err := scanWaitlistEntryDetail(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

type CreateWaitlistEntryParams struct {
	ID             uuid.UUID
	CustomerID     uuid.UUID
	PetID          uuid.UUID
	ServiceID      uuid.UUID
	RequestedDate  pgtype.Date
	TimePreference string
	Notes          string
	CreatedAt      time.Time
}

const createWaitlistEntry = `
INSERT INTO waitlist_entries (id, customer_id, pet_id, service_id, requested_date, time_preference, notes, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, 'active', $8, $8)`

func (q *Queries) CreateWaitlistEntry(ctx context.Context, db DBTX, arg CreateWaitlistEntryParams) error {
	_, err := db.Exec(ctx, createWaitlistEntry,
		arg.ID, arg.CustomerID, arg.PetID, arg.ServiceID, arg.RequestedDate, arg.TimePreference, arg.Notes, arg.CreatedAt)
	return err
}

type MarkEntryNotifiedParams struct {
	ID         uuid.UUID
	OfferID    uuid.UUID
	ServiceID  uuid.UUID
	NotifiedAt time.Time
}

// Zero rows means the entry was claimed by another offer, left active, or wants another service.
const markEntryNotified = `
UPDATE waitlist_entries
SET status = 'notified', offer_id = $2, last_offer_id = $2, notified_at = $4, updated_at = now()
WHERE id = $1 AND status = 'active' AND offer_id IS NULL AND service_id = $3`

func (q *Queries) MarkEntryNotified(ctx context.Context, db DBTX, arg MarkEntryNotifiedParams) (int64, error) {
	return execRows(ctx, db, markEntryNotified, arg.ID, arg.OfferID, arg.ServiceID, arg.NotifiedAt)
}

type ReleaseNotifiedEntryParams struct {
	ID      uuid.UUID
	OfferID uuid.UUID
	Status  string
}

// Moves one notified entry out of its offer (booked or expired_offer).
const releaseNotifiedEntry = `
UPDATE waitlist_entries
SET status = $3, offer_id = NULL, updated_at = now()
WHERE id = $1 AND status = 'notified' AND offer_id = $2`

func (q *Queries) ReleaseNotifiedEntry(ctx context.Context, db DBTX, arg ReleaseNotifiedEntryParams) (int64, error) {
	return execRows(ctx, db, releaseNotifiedEntry, arg.ID, arg.OfferID, arg.Status)
}

type ExpireOfferEntriesParams struct {
	OfferID  uuid.UUID
	ExceptID pgtype.UUID
}

const expireOfferEntries = `
UPDATE waitlist_entries
SET status = 'expired_offer', offer_id = NULL, updated_at = now()
WHERE offer_id = $1 AND status = 'notified' AND ($2::uuid IS NULL OR id <> $2)`

func (q *Queries) ExpireOfferEntries(ctx context.Context, db DBTX, arg ExpireOfferEntriesParams) (int64, error) {
	return execRows(ctx, db, expireOfferEntries, arg.OfferID, arg.ExceptID)
}

const cancelWaitlistEntry = `
UPDATE waitlist_entries
SET status = 'cancelled', offer_id = NULL, updated_at = now()
WHERE id = $1 AND status IN ('active', 'notified')`

func (q *Queries) CancelWaitlistEntry(ctx context.Context, db DBTX, id uuid.UUID) (int64, error) {
	return execRows(ctx, db, cancelWaitlistEntry, id)
}

const markEntryUnfillable = `
UPDATE waitlist_entries
SET status = 'expired', updated_at = now()
WHERE id = $1 AND status = 'active'`

func (q *Queries) MarkEntryUnfillable(ctx context.Context, db DBTX, id uuid.UUID) (int64, error) {
	return execRows(ctx, db, markEntryUnfillable, id)
}

type FindCandidateEntriesParams struct {
	ServiceID uuid.UUID
	FromDate  pgtype.Date
	ToDate    pgtype.Date
	Limit     int32
}

const findCandidateEntries = `
SELECT ` + waitlistEntryDetailColumns + `
` + waitlistEntryDetailFrom + `
WHERE e.status = 'active'
  AND e.offer_id IS NULL
  AND e.service_id = $1
  AND e.requested_date BETWEEN $2 AND $3
ORDER BY e.created_at ASC, e.id ASC
LIMIT $4`

func (q *Queries) FindCandidateEntries(ctx context.Context, db DBTX, arg FindCandidateEntriesParams) ([]WaitlistEntryDetail, error) {
	rows, err := db.Query(ctx, findCandidateEntries, arg.ServiceID, arg.FromDate, arg.ToDate, arg.Limit)
	if err != nil {
		return nil, err
	}
	return collectEntryDetails(rows)
}

const getWaitlistEntry = `
SELECT ` + waitlistEntryDetailColumns + `
` + waitlistEntryDetailFrom + `
WHERE e.id = $1`

func (q *Queries) GetWaitlistEntry(ctx context.Context, db DBTX, id uuid.UUID) (WaitlistEntryDetail, error) {
	return scanWaitlistEntryDetail(db.QueryRow(ctx, getWaitlistEntry, id))
}

const getLatestNotifiedEntryByPhone = `
SELECT ` + waitlistEntryColumns + `
FROM waitlist_entries e
JOIN customers c ON c.id = e.customer_id
WHERE c.phone_normalized = $1
  AND e.status = 'notified'
  AND e.offer_id IS NOT NULL
ORDER BY e.notified_at DESC NULLS LAST, e.id DESC
LIMIT 1`

func (q *Queries) GetLatestNotifiedEntryByPhone(ctx context.Context, db DBTX, phoneNormalized string) (WaitlistEntry, error) {
	return scanWaitlistEntry(db.QueryRow(ctx, getLatestNotifiedEntryByPhone, phoneNormalized))
}

// An entry released from its offer; last_offer_id still points at it.
const getLatestReleasedEntryByPhone = `
SELECT ` + waitlistEntryColumns + `
FROM waitlist_entries e
JOIN customers c ON c.id = e.customer_id
WHERE c.phone_normalized = $1
  AND e.status = 'expired_offer'
  AND e.last_offer_id IS NOT NULL
  AND e.notified_at >= $2
ORDER BY e.notified_at DESC, e.id DESC
LIMIT 1`

func (q *Queries) GetLatestReleasedEntryByPhone(ctx context.Context, db DBTX, phoneNormalized string, notifiedSince time.Time) (WaitlistEntry, error) {
	return scanWaitlistEntry(db.QueryRow(ctx, getLatestReleasedEntryByPhone, phoneNormalized, notifiedSince))
}

type ListWaitlistEntriesParams struct {
	Status         pgtype.Text
	ServiceID      pgtype.UUID
	AfterCreatedAt pgtype.Timestamptz
	AfterID        pgtype.UUID
	Limit          int32
}

// Keyset page ordered like the matcher.
const listWaitlistEntries = `
SELECT ` + waitlistEntryDetailColumns + `
` + waitlistEntryDetailFrom + `
WHERE ($1::text IS NULL OR e.status = $1)
  AND ($2::uuid IS NULL OR e.service_id = $2)
  AND ($3::timestamptz IS NULL OR (e.created_at, e.id) > ($3, $4::uuid))
ORDER BY e.created_at ASC, e.id ASC
LIMIT $5`

func (q *Queries) ListWaitlistEntries(ctx context.Context, db DBTX, arg ListWaitlistEntriesParams) ([]WaitlistEntryDetail, error) {
	rows, err := db.Query(ctx, listWaitlistEntries, arg.Status, arg.ServiceID, arg.AfterCreatedAt, arg.AfterID, arg.Limit)
	if err != nil {
		return nil, err
	}
	return collectEntryDetails(rows)
}

type ListEntriesRequestedBetweenParams struct {
	FromDate pgtype.Date
	ToDate   pgtype.Date
}

const listEntriesRequestedBetween = `
SELECT ` + waitlistEntryDetailColumns + `
` + waitlistEntryDetailFrom + `
WHERE e.requested_date BETWEEN $1 AND $2
ORDER BY e.requested_date ASC, e.created_at ASC, e.id ASC`

func (q *Queries) ListEntriesRequestedBetween(ctx context.Context, db DBTX, arg ListEntriesRequestedBetweenParams) ([]WaitlistEntryDetail, error) {
	rows, err := db.Query(ctx, listEntriesRequestedBetween, arg.FromDate, arg.ToDate)
	if err != nil {
		return nil, err
	}
	return collectEntryDetails(rows)
}

const listEntriesByOffer = `
SELECT ` + waitlistEntryDetailColumns + `
` + waitlistEntryDetailFrom + `
WHERE e.last_offer_id = $1
ORDER BY e.notified_at ASC, e.id ASC`

func (q *Queries) ListEntriesByOffer(ctx context.Context, db DBTX, offerID uuid.UUID) ([]WaitlistEntryDetail, error) {
	rows, err := db.Query(ctx, listEntriesByOffer, offerID)
	if err != nil {
		return nil, err
	}
	return collectEntryDetails(rows)
}
