package queries

import (
	"context"

	"grooming-waitlist/internal/infra"
	"grooming-waitlist/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrStaffNotFound = errs.New("staff member not found")
	ErrStaffInactive = errs.New("staff member inactive")
)

type StaffQueries interface {
	GetCurrentStaff(ctx context.Context, staffID uuid.UUID) (*StaffView, error)
}

type StaffReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StaffView, error)
	FindByEmail(ctx context.Context, email string) (*StaffView, string, error)
}

type staffQueriesImpl struct {
	readStore StaffReadStore
}

func NewStaffQueries(readStore StaffReadStore) StaffQueries {
	return &staffQueriesImpl{
		readStore: readStore,
	}
}

func (q *staffQueriesImpl) GetCurrentStaff(ctx context.Context, staffID uuid.UUID) (*StaffView, error) {
	member, err := q.readStore.FindByID(ctx, staffID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}

	if !member.IsActive {
		return nil, ErrStaffInactive
	}

	return member, nil
}
