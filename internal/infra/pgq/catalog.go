package pgq

import (
	"context"

	"github.com/google/uuid"
)

const getService = `SELECT id, name, price_cents, duration_min FROM services WHERE id = $1`

func (q *Queries) GetService(ctx context.Context, db DBTX, id uuid.UUID) (Service, error) {
	var s Service
	err := db.QueryRow(ctx, getService, id).Scan(&s.ID, &s.Name, &s.PriceCents, &s.DurationMin)
	return s, err
}

const getCustomerContact = `SELECT id, name, phone FROM customers WHERE id = $1`

func (q *Queries) GetCustomerContact(ctx context.Context, db DBTX, id uuid.UUID) (CustomerContact, error) {
	var c CustomerContact
	err := db.QueryRow(ctx, getCustomerContact, id).Scan(&c.ID, &c.Name, &c.Phone)
	return c, err
}
