package readstore

import (
	"context"

	"grooming-waitlist/internal/infra"
	"grooming-waitlist/internal/infra/pgq"
	"grooming-waitlist/internal/usecase/shared"

	"github.com/google/uuid"
)

type CatalogReadQueries interface {
	GetService(ctx context.Context, db pgq.DBTX, id uuid.UUID) (pgq.Service, error)
	GetCustomerContact(ctx context.Context, db pgq.DBTX, id uuid.UUID) (pgq.CustomerContact, error)
}

// CatalogReadStore reads the reference data (services, customers) that the offer flow prices and messages with.
type CatalogReadStore struct {
	queries CatalogReadQueries
	db      pgq.DBTX
}

func NewCatalogReadStore(queries CatalogReadQueries, db pgq.DBTX) *CatalogReadStore {
	return &CatalogReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *CatalogReadStore) ServiceByID(ctx context.Context, id uuid.UUID) (*shared.ServiceSnapshot, error) {
	row, err := r.queries.GetService(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get service", err)
	}
	return &shared.ServiceSnapshot{
		ID:             row.ID,
		Name:           row.Name,
		ListPriceCents: row.PriceCents,
		DurationMin:    int(row.DurationMin),
	}, nil
}

func (r *CatalogReadStore) CustomerByID(ctx context.Context, id uuid.UUID) (*shared.CustomerSnapshot, error) {
	row, err := r.queries.GetCustomerContact(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get customer", err)
	}
	return &shared.CustomerSnapshot{
		ID:    row.ID,
		Name:  row.Name,
		Phone: row.Phone,
	}, nil
}
