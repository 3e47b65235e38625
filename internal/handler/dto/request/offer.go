package request

import (
	"time"

	"grooming-waitlist/internal/domain/waitlist"
	"grooming-waitlist/internal/usecase/commands"

	"github.com/google/uuid"
)

type OpenSlotRequest struct {
	ServiceID       uuid.UUID `json:"service_id" binding:"required"`
	Date            string    `json:"date" binding:"required"`
	Time            string    `json:"time" binding:"required"`
	DiscountPercent *int      `json:"discount_percent" binding:"omitempty,min=0,max=100"`
}

func (r *OpenSlotRequest) ToInput() commands.OpenSlotInput {
	return commands.OpenSlotInput{
		ServiceID:       r.ServiceID,
		Date:            r.Date,
		Time:            r.Time,
		DiscountPercent: r.DiscountPercent,
	}
}

type CreateOfferRequest struct {
	ServiceID         uuid.UUID   `json:"service_id" binding:"required"`
	Date              string      `json:"date" binding:"required"`
	Time              string      `json:"time" binding:"required"`
	DiscountPercent   int         `json:"discount_percent" binding:"min=0,max=100"`
	CandidateEntryIDs []uuid.UUID `json:"candidate_entry_ids" binding:"required,min=1"`
	TTLMinutes        int         `json:"ttl_minutes" binding:"omitempty,min=1"`
}

func (r *CreateOfferRequest) ToInput() (commands.CreateOfferInput, error) {
	date, err := waitlist.ParseDate(r.Date)
	if err != nil {
		return commands.CreateOfferInput{}, err
	}
	tod, err := waitlist.ParseTimeOfDay(r.Time)
	if err != nil {
		return commands.CreateOfferInput{}, err
	}
	return commands.CreateOfferInput{
		ServiceID:         r.ServiceID,
		Date:              date,
		Time:              tod,
		DiscountPercent:   r.DiscountPercent,
		CandidateEntryIDs: r.CandidateEntryIDs,
		TTL:               time.Duration(r.TTLMinutes) * time.Minute,
	}, nil
}

type AdminBookRequest struct {
	EntryID uuid.UUID `json:"entry_id" binding:"required"`
}

type InboundSMSRequest struct {
	Phone     string `json:"phone" binding:"required"`
	Body      string `json:"body"`
	MessageID string `json:"message_id"`
}

func (r *InboundSMSRequest) ToMessage() commands.InboundMessage {
	return commands.InboundMessage{Phone: r.Phone, Body: r.Body, MessageID: r.MessageID}
}
