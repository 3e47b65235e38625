package repository

import (
	"context"

	"grooming-waitlist/internal/domain/staff"
	"grooming-waitlist/internal/infra"
	"grooming-waitlist/internal/infra/pgq"

	"github.com/google/uuid"
)

type StaffWriteQueries interface {
	UpdateStaffLastLogin(ctx context.Context, db pgq.DBTX, id uuid.UUID) error
	CreateStaffMember(ctx context.Context, db pgq.DBTX, arg pgq.CreateStaffMemberParams) error
}

type StaffRepository struct {
	queries StaffWriteQueries
	db      pgq.DBTX
}

func NewStaffRepository(queries StaffWriteQueries, db pgq.DBTX) *StaffRepository {
	return &StaffRepository{
		queries: queries,
		db:      db,
	}
}

func (r *StaffRepository) UpdateLastLogin(ctx context.Context, tx pgq.DBTX, staffID uuid.UUID) error {
	err := r.queries.UpdateStaffLastLogin(ctx, tx, staffID)
	if err != nil {
		return infra.WrapRepoErr("failed to update staff last login", err)
	}
	return nil
}

func (r *StaffRepository) Create(ctx context.Context, tx pgq.DBTX, m *staff.Member) error {
	err := r.queries.CreateStaffMember(ctx, tx, pgq.CreateStaffMemberParams{
		ID:           m.ID(),
		Email:        m.Email().Value(),
		DisplayName:  m.DisplayName(),
		PasswordHash: m.PasswordHash(),
		Role:         m.Role().String(),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to create staff member", err)
	}
	return nil
}
