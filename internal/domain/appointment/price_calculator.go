package appointment

import "github.com/google/uuid"

type ServicePriceContext struct {
	ServiceID      uuid.UUID
	ListPriceCents int64
	DurationMin    int
}

type PriceCalculator interface {
	CalculatePriceCents(ctx ServicePriceContext) int64
}

// DefaultPriceCalculator charges the service's list price.
type DefaultPriceCalculator struct{}

func NewDefaultPriceCalculator() *DefaultPriceCalculator {
	return &DefaultPriceCalculator{}
}

func (pc *DefaultPriceCalculator) CalculatePriceCents(ctx ServicePriceContext) int64 {
	return ctx.ListPriceCents
}
