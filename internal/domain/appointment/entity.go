package appointment

import (
	"errors"
	"time"

	"grooming-waitlist/internal/domain/waitlist"
	"grooming-waitlist/internal/pkg/clock"

	"github.com/google/uuid"
)

var (
	ErrServiceMismatch    = errors.New("entry service does not match the offered slot")
	ErrNegativePrice      = errors.New("price cannot be negative")
	ErrAlreadyCancelled   = errors.New("appointment is already cancelled")
	ErrMissingServiceSpec = errors.New("service pricing is required")
)

type Services struct {
	Clock           clock.Clock
	PriceCalculator PriceCalculator
}

type ServiceSpec struct {
	ID             uuid.UUID
	Name           string
	ListPriceCents int64
	DurationMin    int
}

type Appointment struct {
	id              uuid.UUID
	customerID      uuid.UUID
	petID           uuid.UUID
	serviceID       uuid.UUID
	offerID         *uuid.UUID
	waitlistEntryID *uuid.UUID
	date            time.Time
	startMinutes    int
	durationMin     int
	listPrice       Money
	price           Money
	discount        Discount
	status          Status
	createdAt       time.Time
}

// NewFromOffer builds the appointment for an offer that entry has already won.
func NewFromOffer(services *Services, offer *waitlist.SlotOffer, entry *waitlist.Entry, svc ServiceSpec) (*Appointment, error) {
	slot := offer.Slot()
	if entry.ServiceID() != slot.ServiceID() {
		return nil, ErrServiceMismatch
	}
	if svc.ID != slot.ServiceID() {
		return nil, ErrMissingServiceSpec
	}

	base := services.PriceCalculator.CalculatePriceCents(ServicePriceContext{
		ServiceID:      svc.ID,
		ListPriceCents: svc.ListPriceCents,
		DurationMin:    svc.DurationMin,
	})
	listPrice, err := NewMoney(base)
	if err != nil {
		return nil, ErrNegativePrice
	}
	discount, err := NewPercentDiscount(offer.DiscountPercent())
	if err != nil {
		return nil, err
	}

	offerID := offer.ID()
	entryID := entry.ID()
	return &Appointment{
		id:              uuid.New(),
		customerID:      entry.CustomerID(),
		petID:           entry.PetID(),
		serviceID:       slot.ServiceID(),
		offerID:         &offerID,
		waitlistEntryID: &entryID,
		date:            slot.Date(),
		startMinutes:    slot.Time().Minutes(),
		durationMin:     svc.DurationMin,
		listPrice:       listPrice,
		price:           listPrice.ApplyDiscount(discount),
		discount:        discount,
		status:          StatusBooked,
		createdAt:       services.Clock.Now(),
	}, nil
}

func ReconstructAppointment(
	id, customerID, petID, serviceID uuid.UUID,
	offerID, waitlistEntryID *uuid.UUID,
	date time.Time,
	startMinutes, durationMin int,
	listPrice, price Money,
	discount Discount,
	status Status,
	createdAt time.Time,
) *Appointment {
	return &Appointment{
		id:              id,
		customerID:      customerID,
		petID:           petID,
		serviceID:       serviceID,
		offerID:         offerID,
		waitlistEntryID: waitlistEntryID,
		date:            date,
		startMinutes:    startMinutes,
		durationMin:     durationMin,
		listPrice:       listPrice,
		price:           price,
		discount:        discount,
		status:          status,
		createdAt:       createdAt,
	}
}

func (a *Appointment) Cancel() error {
	if a.status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	a.status = StatusCancelled
	return nil
}

// Slot is the opening left behind when this appointment is cancelled.
func (a *Appointment) Slot() (waitlist.Slot, error) {
	tod, err := waitlist.TimeOfDayFromMinutes(a.startMinutes)
	if err != nil {
		return waitlist.Slot{}, err
	}
	return waitlist.NewSlot(a.serviceID, a.date, tod)
}

func (a *Appointment) ID() uuid.UUID               { return a.id }
func (a *Appointment) CustomerID() uuid.UUID       { return a.customerID }
func (a *Appointment) PetID() uuid.UUID            { return a.petID }
func (a *Appointment) ServiceID() uuid.UUID        { return a.serviceID }
func (a *Appointment) OfferID() *uuid.UUID         { return a.offerID }
func (a *Appointment) WaitlistEntryID() *uuid.UUID { return a.waitlistEntryID }
func (a *Appointment) Date() time.Time             { return a.date }
func (a *Appointment) StartMinutes() int           { return a.startMinutes }
func (a *Appointment) DurationMin() int            { return a.durationMin }
func (a *Appointment) ListPrice() Money            { return a.listPrice }
func (a *Appointment) Price() Money                { return a.price }
func (a *Appointment) Discount() Discount          { return a.discount }
func (a *Appointment) Status() Status              { return a.status }
func (a *Appointment) CreatedAt() time.Time        { return a.createdAt }
