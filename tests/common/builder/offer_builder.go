//go:build unit || e2e

package builder

import (
	reqdto "grooming-waitlist/internal/handler/dto/request"
	"grooming-waitlist/internal/usecase/commands"

	"github.com/google/uuid"
)

type SlotBuilder struct {
	ServiceID       uuid.UUID
	Date            string
	Time            string
	DiscountPercent *int
}

func NewSlotBuilder() *SlotBuilder {
	discount := 20
	return &SlotBuilder{
		ServiceID:       uuid.New(),
		Date:            "2026-03-05",
		Time:            "14:30",
		DiscountPercent: &discount,
	}
}

func (b *SlotBuilder) With(mutate func(*SlotBuilder)) *SlotBuilder {
	mutate(b)
	return b
}

func (b *SlotBuilder) BuildOpenSlotDTO() reqdto.OpenSlotRequest {
	return reqdto.OpenSlotRequest{
		ServiceID:       b.ServiceID,
		Date:            b.Date,
		Time:            b.Time,
		DiscountPercent: b.DiscountPercent,
	}
}

func (b *SlotBuilder) BuildOpenSlotInput() commands.OpenSlotInput {
	return commands.OpenSlotInput{
		ServiceID:       b.ServiceID,
		Date:            b.Date,
		Time:            b.Time,
		DiscountPercent: b.DiscountPercent,
	}
}
