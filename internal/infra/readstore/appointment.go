package readstore

import (
	"context"

	"grooming-waitlist/internal/domain/appointment"
	"grooming-waitlist/internal/infra"
	"grooming-waitlist/internal/infra/pgq"
	"grooming-waitlist/internal/infra/repository/converter"

	"github.com/google/uuid"
)

type AppointmentReadQueries interface {
	GetAppointment(ctx context.Context, db pgq.DBTX, id uuid.UUID) (pgq.Appointment, error)
}

type AppointmentReadStore struct {
	queries AppointmentReadQueries
	db      pgq.DBTX
}

func NewAppointmentReadStore(queries AppointmentReadQueries, db pgq.DBTX) *AppointmentReadStore {
	return &AppointmentReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *AppointmentReadStore) FindByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	row, err := r.queries.GetAppointment(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get appointment", err)
	}
	return converter.AppointmentFromInfra(row)
}
