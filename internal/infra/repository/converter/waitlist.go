package converter

import (
	"grooming-waitlist/internal/domain/waitlist"
	"grooming-waitlist/internal/infra/pgq"
	"grooming-waitlist/internal/pkg/errs"
	"grooming-waitlist/internal/pkg/pgconv"
)

func EntryToInfra(e *waitlist.Entry) pgq.CreateWaitlistEntryParams {
	return pgq.CreateWaitlistEntryParams{
		ID:             e.ID(),
		CustomerID:     e.CustomerID(),
		PetID:          e.PetID(),
		ServiceID:      e.ServiceID(),
		RequestedDate:  pgconv.DateToPgtype(e.RequestedDate()),
		TimePreference: e.Preference().String(),
		Notes:          e.Notes(),
		CreatedAt:      e.CreatedAt(),
	}
}

func EntryFromInfra(row pgq.WaitlistEntry) (*waitlist.Entry, error) {
	status, err := waitlist.NewEntryStatus(row.Status)
	if err != nil {
		return nil, errs.Wrapf(err, "entry %s", row.ID)
	}
	pref, err := waitlist.NewTimePreference(row.TimePreference)
	if err != nil {
		return nil, errs.Wrapf(err, "entry %s", row.ID)
	}

	return waitlist.ReconstructEntry(
		row.ID, row.CustomerID, row.PetID, row.ServiceID,
		pgconv.DateFromPgtype(row.RequestedDate),
		pref,
		row.Notes,
		status,
		pgconv.UUIDPtrFromPgtype(row.OfferID),
		pgconv.UUIDPtrFromPgtype(row.LastOfferID),
		pgconv.TimePtrFromPgtype(row.NotifiedAt),
		row.CreatedAt,
	), nil
}

func OfferToInfra(o *waitlist.SlotOffer) pgq.CreateSlotOfferParams {
	slot := o.Slot()
	return pgq.CreateSlotOfferParams{
		ID:              o.ID(),
		ServiceID:       slot.ServiceID(),
		AppointmentDate: pgconv.DateToPgtype(slot.Date()),
		AppointmentTime: pgconv.MinutesToPgtime(slot.Time().Minutes()),
		DiscountPercent: int32(o.DiscountPercent()),
		ExpiresAt:       o.ExpiresAt(),
		CreatedAt:       o.CreatedAt(),
	}
}

func OfferFromInfra(row pgq.SlotOffer) (*waitlist.SlotOffer, error) {
	status, err := waitlist.NewOfferStatus(row.Status)
	if err != nil {
		return nil, errs.Wrapf(err, "offer %s", row.ID)
	}
	tod, err := waitlist.TimeOfDayFromMinutes(pgconv.MinutesFromPgtime(row.AppointmentTime))
	if err != nil {
		return nil, errs.Wrapf(err, "offer %s", row.ID)
	}
	slot, err := waitlist.NewSlot(row.ServiceID, pgconv.DateFromPgtype(row.AppointmentDate), tod)
	if err != nil {
		return nil, errs.Wrapf(err, "offer %s", row.ID)
	}

	return waitlist.ReconstructSlotOffer(
		row.ID,
		slot,
		int(row.DiscountPercent),
		row.ExpiresAt,
		status,
		pgconv.UUIDPtrFromPgtype(row.AcceptedBy),
		pgconv.TimePtrFromPgtype(row.AcceptedAt),
		row.CreatedAt,
	), nil
}
