package staff

import (
	"time"

	"github.com/google/uuid"
)

// Member is a salon employee who can sign in to the admin API.
type Member struct {
	id           uuid.UUID
	email        Email
	displayName  string
	passwordHash string
	role         Role
	lastLogin    *time.Time
	isActive     bool
}

func NewMember(email Email, displayName, passwordHash string, role Role) *Member {
	return &Member{
		id:           uuid.New(),
		email:        email,
		displayName:  displayName,
		passwordHash: passwordHash,
		role:         role,
		isActive:     true,
	}
}

func ReconstructMember(id uuid.UUID, email Email, displayName, passwordHash string, role Role, lastLogin *time.Time, isActive bool) *Member {
	return &Member{
		id:           id,
		email:        email,
		displayName:  displayName,
		passwordHash: passwordHash,
		role:         role,
		lastLogin:    lastLogin,
		isActive:     isActive,
	}
}

func (m *Member) ID() uuid.UUID         { return m.id }
func (m *Member) Email() Email          { return m.email }
func (m *Member) DisplayName() string   { return m.displayName }
func (m *Member) PasswordHash() string  { return m.passwordHash }
func (m *Member) Role() Role            { return m.role }
func (m *Member) LastLogin() *time.Time { return m.lastLogin }
func (m *Member) IsActive() bool        { return m.isActive }
