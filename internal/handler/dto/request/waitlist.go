package request

import (
	"grooming-waitlist/internal/domain/waitlist"
	"grooming-waitlist/internal/usecase/commands"
	"grooming-waitlist/internal/usecase/queries"

	"github.com/google/uuid"
)

type CreateEntryRequest struct {
	CustomerID     uuid.UUID `json:"customer_id" binding:"required"`
	PetID          uuid.UUID `json:"pet_id" binding:"required"`
	ServiceID      uuid.UUID `json:"service_id" binding:"required"`
	RequestedDate  string    `json:"requested_date" binding:"required"`
	TimePreference string    `json:"time_preference" binding:"omitempty,oneof=morning afternoon any"`
	Notes          string    `json:"notes" binding:"max=1000"`
}

func (r *CreateEntryRequest) ToInput() (commands.CreateEntryInput, error) {
	date, err := waitlist.ParseDate(r.RequestedDate)
	if err != nil {
		return commands.CreateEntryInput{}, err
	}
	return commands.CreateEntryInput{
		CustomerID:     r.CustomerID,
		PetID:          r.PetID,
		ServiceID:      r.ServiceID,
		RequestedDate:  date,
		TimePreference: r.TimePreference,
		Notes:          r.Notes,
	}, nil
}

type ListEntriesQuery struct {
	Status    string `form:"status" binding:"omitempty,oneof=active notified booked expired_offer expired cancelled"`
	ServiceID string `form:"service_id" binding:"omitempty,uuid"`
	Cursor    string `form:"cursor"`
	Limit     int    `form:"limit"`
}

func (q *ListEntriesQuery) Filter() queries.EntryFilter {
	f := queries.EntryFilter{Status: q.Status}
	if id, err := uuid.Parse(q.ServiceID); err == nil {
		f.ServiceID = &id
	}
	return f
}

type CandidatesQuery struct {
	ServiceID string `form:"service_id" binding:"required,uuid"`
	Date      string `form:"date" binding:"required"`
	Time      string `form:"time" binding:"required"`
	Limit     int    `form:"limit"`
}

type ExportQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}
