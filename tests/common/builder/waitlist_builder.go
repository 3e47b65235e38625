//go:build unit || e2e

package builder

import (
	"time"

	reqdto "grooming-waitlist/internal/handler/dto/request"
	"grooming-waitlist/internal/usecase/commands"
	"grooming-waitlist/internal/usecase/queries"

	"github.com/google/uuid"
)

type EntryBuilder struct {
	ID             uuid.UUID
	CustomerID     uuid.UUID
	CustomerName   string
	CustomerPhone  string
	PetID          uuid.UUID
	PetName        string
	ServiceID      uuid.UUID
	ServiceName    string
	RequestedDate  time.Time
	TimePreference string
	Notes          string
	Status         string
	CreatedAt      time.Time
}

func NewEntryBuilder() *EntryBuilder {
	return &EntryBuilder{
		ID:             uuid.New(),
		CustomerID:     uuid.New(),
		CustomerName:   "Ana Diaz",
		CustomerPhone:  "555-010-0001",
		PetID:          uuid.New(),
		PetName:        "Biscuit",
		ServiceID:      uuid.New(),
		ServiceName:    "Full Groom",
		RequestedDate:  time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		TimePreference: "afternoon",
		Notes:          "nervous around dryers",
		Status:         "active",
		CreatedAt:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (b *EntryBuilder) With(mutate func(*EntryBuilder)) *EntryBuilder {
	mutate(b)
	return b
}

func (b *EntryBuilder) BuildCreateRequestDTO() reqdto.CreateEntryRequest {
	return reqdto.CreateEntryRequest{
		CustomerID:     b.CustomerID,
		PetID:          b.PetID,
		ServiceID:      b.ServiceID,
		RequestedDate:  b.RequestedDate.Format(time.DateOnly),
		TimePreference: b.TimePreference,
		Notes:          b.Notes,
	}
}

func (b *EntryBuilder) BuildCreateInput() commands.CreateEntryInput {
	return commands.CreateEntryInput{
		CustomerID:     b.CustomerID,
		PetID:          b.PetID,
		ServiceID:      b.ServiceID,
		RequestedDate:  b.RequestedDate,
		TimePreference: b.TimePreference,
		Notes:          b.Notes,
	}
}

func (b *EntryBuilder) BuildView() *queries.WaitlistEntryView {
	return &queries.WaitlistEntryView{
		ID:             b.ID,
		CustomerID:     b.CustomerID,
		CustomerName:   b.CustomerName,
		CustomerPhone:  b.CustomerPhone,
		PetID:          b.PetID,
		PetName:        b.PetName,
		ServiceID:      b.ServiceID,
		ServiceName:    b.ServiceName,
		RequestedDate:  b.RequestedDate,
		TimePreference: b.TimePreference,
		Notes:          b.Notes,
		Status:         b.Status,
		CreatedAt:      b.CreatedAt,
	}
}

func (b *EntryBuilder) BuildCandidate() *queries.CandidateView {
	return &queries.CandidateView{
		EntryID:        b.ID,
		CustomerID:     b.CustomerID,
		CustomerName:   b.CustomerName,
		CustomerPhone:  b.CustomerPhone,
		PetID:          b.PetID,
		PetName:        b.PetName,
		ServiceID:      b.ServiceID,
		RequestedDate:  b.RequestedDate,
		TimePreference: b.TimePreference,
		Notes:          b.Notes,
		CreatedAt:      b.CreatedAt,
	}
}
