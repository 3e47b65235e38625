package pgq

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type WaitlistEntry struct {
	ID             uuid.UUID
	CustomerID     uuid.UUID
	PetID          uuid.UUID
	ServiceID      uuid.UUID
	RequestedDate  pgtype.Date
	TimePreference string
	Notes          string
	Status         string
	OfferID        pgtype.UUID
	LastOfferID    pgtype.UUID
	NotifiedAt     pgtype.Timestamptz
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type WaitlistEntryDetail struct {
	WaitlistEntry
	CustomerName  string
	CustomerPhone string
	PetName       string
	ServiceName   string
}

type SlotOffer struct {
	ID              uuid.UUID
	ServiceID       uuid.UUID
	AppointmentDate pgtype.Date
	AppointmentTime pgtype.Time
	DiscountPercent int32
	ExpiresAt       time.Time
	Status          string
	AcceptedBy      pgtype.UUID
	AcceptedAt      pgtype.Timestamptz
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Appointment struct {
	ID              uuid.UUID
	CustomerID      uuid.UUID
	PetID           uuid.UUID
	ServiceID       uuid.UUID
	OfferID         pgtype.UUID
	WaitlistEntryID pgtype.UUID
	AppointmentDate pgtype.Date
	AppointmentTime pgtype.Time
	DurationMin     int32
	ListPriceCents  int64
	PriceCents      int64
	DiscountPercent int32
	Status          string
	CreatedAt       time.Time
}

type Service struct {
	ID          uuid.UUID
	Name        string
	PriceCents  int64
	DurationMin int32
}

type CustomerContact struct {
	ID    uuid.UUID
	Name  string
	Phone string
}

type NotificationJob struct {
	ID        uuid.UUID
	Kind      string
	Topic     string
	Payload   []byte
	Status    string
	Attempts  int32
	LastError pgtype.Text
	RunAt     time.Time
	CreatedAt time.Time
}

type IdempotencyKey struct {
	Key          uuid.UUID
	StaffID      uuid.UUID
	Endpoint     string
	RequestHash  string
	Status       string
	ResponseBody []byte
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

type StaffMember struct {
	ID           uuid.UUID
	Email        string
	DisplayName  string
	PasswordHash string
	Role         string
	IsActive     bool
	LastLogin    pgtype.Timestamptz
}
