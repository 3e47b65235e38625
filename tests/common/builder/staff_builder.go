//go:build unit || e2e

package builder

import (
	"grooming-waitlist/internal/domain/staff"
	"grooming-waitlist/internal/usecase/queries"

	"github.com/google/uuid"
)

type StaffBuilder struct {
	ID           uuid.UUID
	Email        string
	DisplayName  string
	PasswordHash string
	Role         string
	IsActive     bool
}

func NewStaffBuilder() *StaffBuilder {
	return &StaffBuilder{
		ID:           uuid.New(),
		Email:        "front@salon.test",
		DisplayName:  "Front Desk",
		PasswordHash: "hashed_password",
		Role:         "receptionist",
		IsActive:     true,
	}
}

func (b *StaffBuilder) WithEmail(email string) *StaffBuilder {
	b.Email = email
	return b
}

func (b *StaffBuilder) WithRole(role string) *StaffBuilder {
	b.Role = role
	return b
}

func (b *StaffBuilder) BuildDomain() (*staff.Member, error) {
	email, err := staff.NewEmail(b.Email)
	if err != nil {
		return nil, err
	}
	role, err := staff.NewRole(b.Role)
	if err != nil {
		return nil, err
	}
	return staff.NewMember(email, b.DisplayName, b.PasswordHash, role), nil
}

func (b *StaffBuilder) BuildView() *queries.StaffView {
	return &queries.StaffView{
		ID:          b.ID,
		Email:       b.Email,
		DisplayName: b.DisplayName,
		Role:        b.Role,
		IsActive:    b.IsActive,
	}
}
