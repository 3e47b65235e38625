//go:build unit

package readstore

import (
	"context"
	"testing"

	"grooming-waitlist/internal/infra"
	"grooming-waitlist/internal/infra/pgq"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockStaffReadQueries struct {
	mock.Mock
}

func (m *MockStaffReadQueries) GetStaffByID(ctx context.Context, db pgq.DBTX, id uuid.UUID) (pgq.StaffMember, error) {
	args := m.Called(ctx, db, id)
	return args.Get(0).(pgq.StaffMember), args.Error(1)
}

func (m *MockStaffReadQueries) GetStaffByEmail(ctx context.Context, db pgq.DBTX, email string) (pgq.StaffMember, error) {
	args := m.Called(ctx, db, email)
	return args.Get(0).(pgq.StaffMember), args.Error(1)
}

func TestStaffFindByEmail(t *testing.T) {
	member := pgq.StaffMember{
		ID:           uuid.New(),
		Email:        "front@salon.test",
		DisplayName:  "Front Desk",
		PasswordHash: "$2a$04$hash",
		Role:         "receptionist",
		IsActive:     true,
	}

	tests := []struct {
		name       string
		email      string
		mockReturn pgq.StaffMember
		mockError  error
		wantHash   string
		wantKind   infra.RepositoryErrorKind
	}{
		{
			name:       "success",
			email:      member.Email,
			mockReturn: member,
			wantHash:   member.PasswordHash,
		},
		{
			name:       "not found",
			email:      "nobody@salon.test",
			mockReturn: pgq.StaffMember{},
			mockError:  pgx.ErrNoRows,
			wantKind:   infra.KindNotFound,
		},
		{
			name:       "database error",
			email:      member.Email,
			mockReturn: pgq.StaffMember{},
			mockError:  assert.AnError,
			wantKind:   infra.KindDBFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := new(MockStaffReadQueries)
			q.On("GetStaffByEmail", mock.Anything, mock.Anything, tt.email).Return(tt.mockReturn, tt.mockError)
			store := NewStaffReadStore(q, nil)

			view, hash, err := store.FindByEmail(context.Background(), tt.email)

			if tt.wantKind != "" {
				assert.Error(t, err)
				assert.True(t, infra.IsKind(err, tt.wantKind))
				assert.Nil(t, view)
				assert.Empty(t, hash)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, member.ID, view.ID)
				assert.Equal(t, "receptionist", view.Role)
				assert.Equal(t, tt.wantHash, hash)
			}
			q.AssertExpectations(t)
		})
	}
}

func TestStaffFindByID(t *testing.T) {
	id := uuid.New()
	q := new(MockStaffReadQueries)
	q.On("GetStaffByID", mock.Anything, mock.Anything, id).
		Return(pgq.StaffMember{ID: id, Email: "mo@salon.test", Role: "manager", IsActive: false}, nil)
	store := NewStaffReadStore(q, nil)

	view, err := store.FindByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, "mo@salon.test", view.Email)
	assert.False(t, view.IsActive)
	q.AssertExpectations(t)
}
