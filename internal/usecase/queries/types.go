package queries

import (
	"time"

	"github.com/google/uuid"
)

// CandidateView is one Matcher result: an eligible entry plus who to contact.
type CandidateView struct {
	EntryID        uuid.UUID `json:"entry_id"`
	CustomerID     uuid.UUID `json:"customer_id"`
	CustomerName   string    `json:"customer_name"`
	CustomerPhone  string    `json:"customer_phone"`
	PetID          uuid.UUID `json:"pet_id"`
	PetName        string    `json:"pet_name"`
	ServiceID      uuid.UUID `json:"service_id"`
	RequestedDate  time.Time `json:"requested_date"`
	TimePreference string    `json:"time_preference"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}

type WaitlistEntryView struct {
	ID             uuid.UUID  `json:"id"`
	CustomerID     uuid.UUID  `json:"customer_id"`
	CustomerName   string     `json:"customer_name"`
	CustomerPhone  string     `json:"customer_phone"`
	PetID          uuid.UUID  `json:"pet_id"`
	PetName        string     `json:"pet_name"`
	ServiceID      uuid.UUID  `json:"service_id"`
	ServiceName    string     `json:"service_name"`
	RequestedDate  time.Time  `json:"requested_date"`
	TimePreference string     `json:"time_preference"`
	Notes          string     `json:"notes"`
	Status         string     `json:"status"`
	OfferID        *uuid.UUID `json:"offer_id,omitempty"`
	LastOfferID    *uuid.UUID `json:"last_offer_id,omitempty"`
	NotifiedAt     *time.Time `json:"notified_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type SlotOfferView struct {
	ID              uuid.UUID            `json:"id"`
	ServiceID       uuid.UUID            `json:"service_id"`
	AppointmentDate time.Time            `json:"appointment_date"`
	StartTime       string               `json:"start_time"`
	DiscountPercent int                  `json:"discount_percent"`
	ExpiresAt       time.Time            `json:"expires_at"`
	Status          string               `json:"status"`
	AcceptedBy      *uuid.UUID           `json:"accepted_by,omitempty"`
	AcceptedAt      *time.Time           `json:"accepted_at,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	AppointmentID   *uuid.UUID           `json:"appointment_id,omitempty"`
	Recipients      []*WaitlistEntryView `json:"recipients"`
}

// StaffView represents read-optimized staff data with authorization info
type StaffView struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"is_active"`
}

type EntryFilter struct {
	Status    string
	ServiceID *uuid.UUID
}
