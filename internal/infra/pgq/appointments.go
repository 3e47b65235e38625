package pgq

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CreateAppointmentParams struct {
	ID              uuid.UUID
	CustomerID      uuid.UUID
	PetID           uuid.UUID
	ServiceID       uuid.UUID
	OfferID         pgtype.UUID
	WaitlistEntryID pgtype.UUID
	AppointmentDate pgtype.Date
	AppointmentTime pgtype.Time
	DurationMin     int32
	ListPriceCents  int64
	PriceCents      int64
	DiscountPercent int32
	CreatedAt       time.Time
}

const createAppointment = `
INSERT INTO appointments (id, customer_id, pet_id, service_id, offer_id, waitlist_entry_id, appointment_date,
	appointment_time, duration_min, list_price_cents, price_cents, discount_percent, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 'booked', $13, $13)`

func (q *Queries) CreateAppointment(ctx context.Context, db DBTX, arg CreateAppointmentParams) error {
	_, err := db.Exec(ctx, createAppointment,
		arg.ID, arg.CustomerID, arg.PetID, arg.ServiceID, arg.OfferID, arg.WaitlistEntryID, arg.AppointmentDate,
		arg.AppointmentTime, arg.DurationMin, arg.ListPriceCents, arg.PriceCents, arg.DiscountPercent, arg.CreatedAt)
	return err
}

const getAppointment = `
SELECT id, customer_id, pet_id, service_id, offer_id, waitlist_entry_id, appointment_date, appointment_time,
	duration_min, list_price_cents, price_cents, discount_percent, status, created_at
FROM appointments WHERE id = $1`

func (q *Queries) GetAppointment(ctx context.Context, db DBTX, id uuid.UUID) (Appointment, error) {
	var a Appointment
	err := db.QueryRow(ctx, getAppointment, id).Scan(
		&a.ID, &a.CustomerID, &a.PetID, &a.ServiceID, &a.OfferID, &a.WaitlistEntryID, &a.AppointmentDate,
		&a.AppointmentTime, &a.DurationMin, &a.ListPriceCents, &a.PriceCents, &a.DiscountPercent, &a.Status, &a.CreatedAt,
	)
	return a, err
}

const cancelAppointment = `
UPDATE appointments SET status = 'cancelled', updated_at = now()
WHERE id = $1 AND status = 'booked'`

func (q *Queries) CancelAppointment(ctx context.Context, db DBTX, id uuid.UUID) (int64, error) {
	return execRows(ctx, db, cancelAppointment, id)
}

const countAppointmentsByOffer = `SELECT count(*) FROM appointments WHERE offer_id = $1 AND status = 'booked'`

func (q *Queries) CountAppointmentsByOffer(ctx context.Context, db DBTX, offerID uuid.UUID) (int64, error) {
	var n int64
	err := db.QueryRow(ctx, countAppointmentsByOffer, offerID).Scan(&n)
	return n, err
}

const getAppointmentIDByOffer = `SELECT id FROM appointments WHERE offer_id = $1 AND status = 'booked'`

func (q *Queries) GetAppointmentIDByOffer(ctx context.Context, db DBTX, offerID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.QueryRow(ctx, getAppointmentIDByOffer, offerID).Scan(&id)
	return id, err
}
