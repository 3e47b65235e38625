package repository

import (
	"context"

	"grooming-waitlist/internal/domain/appointment"
	"grooming-waitlist/internal/infra"
	"grooming-waitlist/internal/infra/pgq"
	"grooming-waitlist/internal/infra/repository/converter"

	"github.com/google/uuid"
)

type AppointmentWriteQueries interface {
	CreateAppointment(ctx context.Context, db pgq.DBTX, arg pgq.CreateAppointmentParams) error
	CancelAppointment(ctx context.Context, db pgq.DBTX, id uuid.UUID) (int64, error)
}

type AppointmentRepository struct {
	queries AppointmentWriteQueries
	db      pgq.DBTX
}

func NewAppointmentRepository(queries AppointmentWriteQueries, db pgq.DBTX) *AppointmentRepository {
	return &AppointmentRepository{
		queries: queries,
		db:      db,
	}
}

func (r *AppointmentRepository) Create(ctx context.Context, tx pgq.DBTX, a *appointment.Appointment) error {
	if err := r.queries.CreateAppointment(ctx, tx, converter.AppointmentToInfra(a)); err != nil {
		return infra.WrapRepoErr("failed to create appointment", err)
	}
	return nil
}

func (r *AppointmentRepository) Cancel(ctx context.Context, tx pgq.DBTX, id uuid.UUID) (bool, error) {
	n, err := r.queries.CancelAppointment(ctx, tx, id)
	if err != nil {
		return false, infra.WrapRepoErr("failed to cancel appointment", err)
	}
	return n == 1, nil
}
