package pgq

import (
	"context"

	"github.com/google/uuid"
)

const staffColumns = `id, email, display_name, password_hash, role, is_active, last_login`

func scanStaff(row interface{ Scan(...any) error }) (StaffMember, error) {
	var s StaffMember
	err := row.Scan(&s.ID, &s.Email, &s.DisplayName, &s.PasswordHash, &s.Role, &s.IsActive, &s.LastLogin)
	return s, err
}

const getStaffByEmail = `SELECT ` + staffColumns + ` FROM staff_members WHERE email = $1`

func (q *Queries) GetStaffByEmail(ctx context.Context, db DBTX, email string) (StaffMember, error) {
	return scanStaff(db.QueryRow(ctx, getStaffByEmail, email))
}

const getStaffByID = `SELECT ` + staffColumns + ` FROM staff_members WHERE id = $1`

func (q *Queries) GetStaffByID(ctx context.Context, db DBTX, id uuid.UUID) (StaffMember, error) {
	return scanStaff(db.QueryRow(ctx, getStaffByID, id))
}

const updateStaffLastLogin = `UPDATE staff_members SET last_login = now(), updated_at = now() WHERE id = $1`

func (q *Queries) UpdateStaffLastLogin(ctx context.Context, db DBTX, id uuid.UUID) error {
	_, err := db.Exec(ctx, updateStaffLastLogin, id)
	return err
}

type CreateStaffMemberParams struct {
	ID           uuid.UUID
	Email        string
	DisplayName  string
	PasswordHash string
	Role         string
}

const createStaffMember = `
INSERT INTO staff_members (id, email, display_name, password_hash, role)
VALUES ($1, $2, $3, $4, $5)`

func (q *Queries) CreateStaffMember(ctx context.Context, db DBTX, arg CreateStaffMemberParams) error {
	_, err := db.Exec(ctx, createStaffMember, arg.ID, arg.Email, arg.DisplayName, arg.PasswordHash, arg.Role)
	return err
}
