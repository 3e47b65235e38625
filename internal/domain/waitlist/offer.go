package waitlist

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidDiscount   = errors.New("discount percent must be between 0 and 100")
	ErrNonPositiveTTL    = errors.New("offer ttl must be positive")
	ErrOfferNotPending   = errors.New("offer is no longer pending")
	ErrOfferNotExpired   = errors.New("offer has not reached its expiry")
	ErrOfferExpired      = errors.New("offer is past its deadline")
	ErrAcceptorRequired  = errors.New("accepting customer is required")
	ErrNoCandidatesGiven = errors.New("at least one candidate entry is required")
)

// SlotOffer is a time-boxed invitation for one slot, broadcast to one or more entries.
// Status only leaves pending once; acceptedBy is written together with accepted.
type SlotOffer struct {
	id              uuid.UUID
	slot            Slot
	discountPercent int
	expiresAt       time.Time
	status          OfferStatus
	acceptedBy      *uuid.UUID
	acceptedAt      *time.Time
	createdAt       time.Time
}

func NewSlotOffer(slot Slot, discountPercent int, ttl time.Duration, now time.Time) (*SlotOffer, error) {
	if discountPercent < 0 || discountPercent > 100 {
		return nil, ErrInvalidDiscount
	}
	if ttl <= 0 {
		return nil, ErrNonPositiveTTL
	}
	return &SlotOffer{
		id:              uuid.New(),
		slot:            slot,
		discountPercent: discountPercent,
		expiresAt:       now.Add(ttl),
		status:          OfferStatusPending,
		createdAt:       now,
	}, nil
}

func ReconstructSlotOffer(
	id uuid.UUID,
	slot Slot,
	discountPercent int,
	expiresAt time.Time,
	status OfferStatus,
	acceptedBy *uuid.UUID,
	acceptedAt *time.Time,
	createdAt time.Time,
) *SlotOffer {
	return &SlotOffer{
		id:              id,
		slot:            slot,
		discountPercent: discountPercent,
		expiresAt:       expiresAt,
		status:          status,
		acceptedBy:      acceptedBy,
		acceptedAt:      acceptedAt,
		createdAt:       createdAt,
	}
}

// IsExpiredAt is true strictly after expiresAt.
func (o *SlotOffer) IsExpiredAt(now time.Time) bool {
	return now.After(o.expiresAt)
}

func (o *SlotOffer) IsPending() bool {
	return o.status == OfferStatusPending
}

// Accept claims a pending offer. A reply exactly at expiresAt still counts.
func (o *SlotOffer) Accept(customerID uuid.UUID, now time.Time) error {
	if customerID == uuid.Nil {
		return ErrAcceptorRequired
	}
	if o.status != OfferStatusPending {
		return ErrOfferNotPending
	}
	if o.IsExpiredAt(now) {
		return ErrOfferExpired
	}
	o.status = OfferStatusAccepted
	o.acceptedBy = &customerID
	o.acceptedAt = &now
	return nil
}

// ReleaseClaim undoes Accept when the booking behind it could not be written.
func (o *SlotOffer) ReleaseClaim(customerID uuid.UUID) error {
	if o.status != OfferStatusAccepted || o.acceptedBy == nil || *o.acceptedBy != customerID {
		return ErrOfferNotPending
	}
	o.status = OfferStatusPending
	o.acceptedBy = nil
	o.acceptedAt = nil
	return nil
}

func (o *SlotOffer) Expire(now time.Time) error {
	if o.status != OfferStatusPending {
		return ErrOfferNotPending
	}
	if !o.IsExpiredAt(now) {
		return ErrOfferNotExpired
	}
	o.status = OfferStatusExpired
	return nil
}

func (o *SlotOffer) ID() uuid.UUID          { return o.id }
func (o *SlotOffer) Slot() Slot             { return o.slot }
func (o *SlotOffer) DiscountPercent() int   { return o.discountPercent }
func (o *SlotOffer) ExpiresAt() time.Time   { return o.expiresAt }
func (o *SlotOffer) Status() OfferStatus    { return o.status }
func (o *SlotOffer) AcceptedBy() *uuid.UUID { return o.acceptedBy }
func (o *SlotOffer) AcceptedAt() *time.Time { return o.acceptedAt }
func (o *SlotOffer) CreatedAt() time.Time   { return o.createdAt }
