package readstore

import (
	"context"

	"grooming-waitlist/internal/infra"
	"grooming-waitlist/internal/infra/pgq"
	"grooming-waitlist/internal/usecase/queries"

	"github.com/google/uuid"
)

type StaffReadQueries interface {
	GetStaffByID(ctx context.Context, db pgq.DBTX, id uuid.UUID) (pgq.StaffMember, error)
	GetStaffByEmail(ctx context.Context, db pgq.DBTX, email string) (pgq.StaffMember, error)
}

type StaffReadStore struct {
	queries StaffReadQueries
	db      pgq.DBTX
}

func NewStaffReadStore(queries StaffReadQueries, db pgq.DBTX) *StaffReadStore {
	return &StaffReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *StaffReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.StaffView, error) {
	row, err := r.queries.GetStaffByID(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find staff by ID", err)
	}
	return toStaffView(row), nil
}

func (r *StaffReadStore) FindByEmail(ctx context.Context, email string) (*queries.StaffView, string, error) {
	row, err := r.queries.GetStaffByEmail(ctx, r.db, email)
	if err != nil {
		return nil, "", infra.WrapRepoErr("failed to find staff by email", err)
	}
	return toStaffView(row), row.PasswordHash, nil
}

func toStaffView(row pgq.StaffMember) *queries.StaffView {
	return &queries.StaffView{
		ID:          row.ID,
		Email:       row.Email,
		DisplayName: row.DisplayName,
		Role:        row.Role,
		IsActive:    row.IsActive,
	}
}
