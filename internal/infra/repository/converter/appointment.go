package converter

import (
	"grooming-waitlist/internal/domain/appointment"
	"grooming-waitlist/internal/infra/pgq"
	"grooming-waitlist/internal/pkg/errs"
	"grooming-waitlist/internal/pkg/pgconv"
)

func AppointmentToInfra(a *appointment.Appointment) pgq.CreateAppointmentParams {
	return pgq.CreateAppointmentParams{
		ID:              a.ID(),
		CustomerID:      a.CustomerID(),
		PetID:           a.PetID(),
		ServiceID:       a.ServiceID(),
		OfferID:         pgconv.UUIDPtrToPgtype(a.OfferID()),
		WaitlistEntryID: pgconv.UUIDPtrToPgtype(a.WaitlistEntryID()),
		AppointmentDate: pgconv.DateToPgtype(a.Date()),
		AppointmentTime: pgconv.MinutesToPgtime(a.StartMinutes()),
		DurationMin:     int32(a.DurationMin()),
		ListPriceCents:  a.ListPrice().Cents(),
		PriceCents:      a.Price().Cents(),
		DiscountPercent: int32(a.Discount().Percent()),
		CreatedAt:       a.CreatedAt(),
	}
}

func AppointmentFromInfra(row pgq.Appointment) (*appointment.Appointment, error) {
	listPrice, err := appointment.NewMoney(row.ListPriceCents)
	if err != nil {
		return nil, errs.Wrapf(err, "appointment %s", row.ID)
	}
	price, err := appointment.NewMoney(row.PriceCents)
	if err != nil {
		return nil, errs.Wrapf(err, "appointment %s", row.ID)
	}
	discount, err := appointment.NewPercentDiscount(int(row.DiscountPercent))
	if err != nil {
		return nil, errs.Wrapf(err, "appointment %s", row.ID)
	}
	status := appointment.Status(row.Status)
	if !status.IsValid() {
		return nil, errs.Newf("appointment %s: unknown status %q", row.ID, row.Status)
	}

	return appointment.ReconstructAppointment(
		row.ID, row.CustomerID, row.PetID, row.ServiceID,
		pgconv.UUIDPtrFromPgtype(row.OfferID),
		pgconv.UUIDPtrFromPgtype(row.WaitlistEntryID),
		pgconv.DateFromPgtype(row.AppointmentDate),
		pgconv.MinutesFromPgtime(row.AppointmentTime),
		int(row.DurationMin),
		listPrice, price,
		discount,
		status,
		row.CreatedAt,
	), nil
}
