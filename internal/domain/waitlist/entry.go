package waitlist

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidPreference    = errors.New("time preference must be morning, afternoon or any")
	ErrMissingCustomer      = errors.New("customer is required")
	ErrMissingPet           = errors.New("pet is required")
	ErrRequestedDateInPast  = errors.New("requested date cannot be in the past")
	ErrNotesTooLong         = errors.New("notes are too long (max 1000 characters)")
	ErrTransitionNotAllowed = errors.New("waitlist entry transition not allowed")
	ErrOfferMismatch        = errors.New("entry is not notified for this offer")
)

const MaxNotesLength = 1000

// Entry is a customer's standing request for a service around a date.
//
// offerID is set only while the entry is notified; lastOfferID keeps the most recent offer
// after the entry leaves that state.
type Entry struct {
	id            uuid.UUID
	customerID    uuid.UUID
	petID         uuid.UUID
	serviceID     uuid.UUID
	requestedDate time.Time
	preference    TimePreference
	notes         string
	status        EntryStatus
	offerID       *uuid.UUID
	lastOfferID   *uuid.UUID
	notifiedAt    *time.Time
	createdAt     time.Time
}

func NewEntry(
	customerID, petID, serviceID uuid.UUID,
	requestedDate time.Time,
	preference TimePreference,
	notes string,
	now time.Time,
) (*Entry, error) {
	switch {
	case customerID == uuid.Nil:
		return nil, ErrMissingCustomer
	case petID == uuid.Nil:
		return nil, ErrMissingPet
	case serviceID == uuid.Nil:
		return nil, ErrMissingService
	case requestedDate.IsZero():
		return nil, ErrMissingDate
	}
	if DateOnly(requestedDate).Before(DateOnly(now)) {
		return nil, ErrRequestedDateInPast
	}
	notes = strings.TrimSpace(notes)
	if len(notes) > MaxNotesLength {
		return nil, ErrNotesTooLong
	}
	if preference == "" {
		preference = PreferenceAny
	}

	return &Entry{
		id:            uuid.New(),
		customerID:    customerID,
		petID:         petID,
		serviceID:     serviceID,
		requestedDate: DateOnly(requestedDate),
		preference:    preference,
		notes:         notes,
		status:        EntryStatusActive,
		createdAt:     now,
	}, nil
}

func ReconstructEntry(
	id, customerID, petID, serviceID uuid.UUID,
	requestedDate time.Time,
	preference TimePreference,
	notes string,
	status EntryStatus,
	offerID, lastOfferID *uuid.UUID,
	notifiedAt *time.Time,
	createdAt time.Time,
) *Entry {
	return &Entry{
		id:            id,
		customerID:    customerID,
		petID:         petID,
		serviceID:     serviceID,
		requestedDate: requestedDate,
		preference:    preference,
		notes:         notes,
		status:        status,
		offerID:       offerID,
		lastOfferID:   lastOfferID,
		notifiedAt:    notifiedAt,
		createdAt:     createdAt,
	}
}

func (e *Entry) transition(next EntryStatus) error {
	if !e.status.CanTransitionTo(next) {
		return ErrTransitionNotAllowed
	}
	e.status = next
	return nil
}

// Notify ties an active, unoffered entry to offerID.
func (e *Entry) Notify(offerID uuid.UUID, now time.Time) error {
	if e.offerID != nil {
		return ErrTransitionNotAllowed
	}
	if err := e.transition(EntryStatusNotified); err != nil {
		return err
	}
	id := offerID
	e.offerID = &id
	e.lastOfferID = &id
	e.notifiedAt = &now
	return nil
}

func (e *Entry) Book(offerID uuid.UUID) error {
	if !e.IsNotifiedFor(offerID) {
		return ErrOfferMismatch
	}
	return e.leaveOffer(EntryStatusBooked)
}

// ExpireOffer covers both the offer timing out and a sibling winning it.
func (e *Entry) ExpireOffer(offerID uuid.UUID) error {
	if !e.IsNotifiedFor(offerID) {
		return ErrOfferMismatch
	}
	return e.leaveOffer(EntryStatusExpiredOffer)
}

func (e *Entry) Cancel() error {
	if e.status == EntryStatusNotified {
		return e.leaveOffer(EntryStatusCancelled)
	}
	return e.transition(EntryStatusCancelled)
}

// MarkUnfillable retires an active entry that cannot be matched.
func (e *Entry) MarkUnfillable() error {
	return e.transition(EntryStatusExpired)
}

func (e *Entry) leaveOffer(next EntryStatus) error {
	if err := e.transition(next); err != nil {
		return err
	}
	e.offerID = nil
	return nil
}

func (e *Entry) IsNotifiedFor(offerID uuid.UUID) bool {
	return e.status == EntryStatusNotified && e.offerID != nil && *e.offerID == offerID
}

func (e *Entry) ID() uuid.UUID              { return e.id }
func (e *Entry) CustomerID() uuid.UUID      { return e.customerID }
func (e *Entry) PetID() uuid.UUID           { return e.petID }
func (e *Entry) ServiceID() uuid.UUID       { return e.serviceID }
func (e *Entry) RequestedDate() time.Time   { return e.requestedDate }
func (e *Entry) Preference() TimePreference { return e.preference }
func (e *Entry) Notes() string              { return e.notes }
func (e *Entry) Status() EntryStatus        { return e.status }
func (e *Entry) OfferID() *uuid.UUID        { return e.offerID }
func (e *Entry) LastOfferID() *uuid.UUID    { return e.lastOfferID }
func (e *Entry) NotifiedAt() *time.Time     { return e.notifiedAt }
func (e *Entry) CreatedAt() time.Time       { return e.createdAt }
