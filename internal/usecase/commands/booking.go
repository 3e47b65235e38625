package commands

import (
	"context"

	"grooming-waitlist/internal/domain/appointment"
	"grooming-waitlist/internal/domain/waitlist"
	"grooming-waitlist/internal/infra"
	"grooming-waitlist/internal/pkg/errs"
	"grooming-waitlist/internal/usecase/shared"
)

var ErrEntryLeftOffer = errs.New("entry no longer holds the offer")

// BookingEffector turns a won offer into an appointment. It runs after the offer claim
// has committed; callers revert the claim when it fails.
type BookingEffector interface {
	BookFromOffer(ctx context.Context, offer *waitlist.SlotOffer, entry *waitlist.Entry) (*appointment.Appointment, error)
}

type bookingEffectorImpl struct {
	uow      shared.UnitOfWork
	services *appointment.Services
}

func NewBookingEffector(uow shared.UnitOfWork, services *appointment.Services) BookingEffector {
	return &bookingEffectorImpl{
		uow:      uow,
		services: services,
	}
}

// BookFromOffer writes the appointment, books the winning entry and expires every other
// recipient of the offer, all in one transaction.
func (b *bookingEffectorImpl) BookFromOffer(ctx context.Context, offer *waitlist.SlotOffer, entry *waitlist.Entry) (*appointment.Appointment, error) {
	if err := entry.Book(offer.ID()); err != nil {
		return nil, ErrEntryLeftOffer
	}

	var appt *appointment.Appointment
	err := b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		svc, err := tx.Reads().ServiceByID(ctx, offer.Slot().ServiceID())
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrServiceNotFound
			}
			return err
		}

		appt, err = appointment.NewFromOffer(b.services, offer, entry, appointment.ServiceSpec{
			ID:             svc.ID,
			Name:           svc.Name,
			ListPriceCents: svc.ListPriceCents,
			DurationMin:    svc.DurationMin,
		})
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}
		if err := tx.Appointments().Create(ctx, tx.DB(), appt); err != nil {
			return err
		}

		ok, err := tx.Entries().Release(ctx, tx.DB(), entry.ID(), offer.ID(), entry.Status())
		if err != nil {
			return err
		}
		if !ok {
			return ErrEntryLeftOffer
		}

		winner := entry.ID()
		_, err = tx.Entries().ExpireForOffer(ctx, tx.DB(), offer.ID(), &winner)
		return err
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}
