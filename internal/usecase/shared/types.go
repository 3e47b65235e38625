package shared

import (
	"time"

	"github.com/google/uuid"
)

type ServiceSnapshot struct {
	ID             uuid.UUID
	Name           string
	ListPriceCents int64
	DurationMin    int
}

type CustomerSnapshot struct {
	ID    uuid.UUID
	Name  string
	Phone string
}

type IdempotencyRecord struct {
	Key          uuid.UUID
	StaffID      uuid.UUID
	Endpoint     string
	Status       string
	RequestHash  string
	ResponseBody []byte
	ExpiresAt    time.Time
}

const (
	IdempotencyStatusProcessing = "processing"
	IdempotencyStatusCompleted  = "completed"
)

type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	Attempts int
	RunAt    time.Time
}

const (
	NotificationKindSlotOffer = "slot_offer"

	NotificationStatusQueued  = "queued"
	NotificationStatusSending = "sending"
	NotificationStatusSent    = "sent"
	NotificationStatusFailed  = "failed"
)

// NotificationPayload is the JSON body stored with each outbox job.
type NotificationPayload struct {
	CustomerID uuid.UUID  `json:"customer_id"`
	Phone      string     `json:"phone"`
	Message    string     `json:"message"`
	OfferID    *uuid.UUID `json:"offer_id,omitempty"`
	EntryID    *uuid.UUID `json:"entry_id,omitempty"`
}
