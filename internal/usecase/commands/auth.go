package commands

import (
	"context"
	"log/slog"

	"grooming-waitlist/internal/domain/staff"
	"grooming-waitlist/internal/infra"
	"grooming-waitlist/internal/pkg/errs"
	"grooming-waitlist/internal/pkg/jwt"
	"grooming-waitlist/internal/pkg/password"
	"grooming-waitlist/internal/usecase/queries"
	"grooming-waitlist/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials   = errs.New("invalid credentials")
	ErrStaffInactive        = errs.New("staff member inactive")
	ErrAuthenticationFailed = errs.New("authentication failed")
	ErrTokenGeneration      = errs.New("token generation failed")
	ErrStaffEmailTaken      = errs.New("a staff member with this email already exists")
)

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	StaffID     uuid.UUID
	Role        staff.Role
	AccessToken string
}

type CreateStaffInput struct {
	Email       string
	DisplayName string
	Password    string
	Role        string
}

type AuthCommands interface {
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	CreateStaff(ctx context.Context, in CreateStaffInput) (uuid.UUID, error)
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	readStore  queries.StaffReadStore
	jwtService *jwt.Service
}

func NewAuthCommands(uow shared.UnitOfWork, readStore queries.StaffReadStore, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		readStore:  readStore,
		jwtService: jwtService,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	credentials, err := staff.NewCredentials(in.Email, in.Password)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	member, err := a.validateStaff(ctx, credentials)
	if err != nil {
		return nil, err
	}

	role, err := staff.NewRole(member.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	accessToken, err := a.jwtService.GenerateToken(member.ID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Staff().UpdateLastLogin(ctx, tx.DB(), member.ID)
	})
	if err != nil {
		// login already succeeded
		slog.Warn("failed to update last login", "staff_id", member.ID, "error", err.Error())
	}

	return &LoginResult{
		StaffID:     member.ID,
		Role:        role,
		AccessToken: accessToken,
	}, nil
}

// CreateStaff provisions an account. It backs the CLI; there is no HTTP route for it.
func (a *authCommandsImpl) CreateStaff(ctx context.Context, in CreateStaffInput) (uuid.UUID, error) {
	credentials, err := staff.NewCredentials(in.Email, in.Password)
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	role, err := staff.NewRole(in.Role)
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	hash, err := password.HashPassword(credentials.Password().Value())
	if err != nil {
		return uuid.Nil, err
	}
	member := staff.NewMember(credentials.Email(), in.DisplayName, hash, role)

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Staff().Create(ctx, tx.DB(), member)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return uuid.Nil, ErrStaffEmailTaken
		}
		return uuid.Nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return member.ID(), nil
}

func (a *authCommandsImpl) validateStaff(ctx context.Context, credentials staff.Credentials) (*queries.StaffView, error) {
	member, hashedPassword, err := a.readStore.FindByEmail(ctx, credentials.Email().Value())
	if err != nil || member == nil {
		// same error as a wrong password so emails cannot be enumerated
		return nil, ErrInvalidCredentials
	}

	if !member.IsActive {
		return nil, ErrStaffInactive
	}

	if err := password.ComparePassword(hashedPassword, credentials.Password().Value()); err != nil {
		return nil, ErrInvalidCredentials
	}
	return member, nil
}
