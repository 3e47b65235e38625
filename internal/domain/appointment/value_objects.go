package appointment

import "errors"

type Status string

const (
	StatusBooked    Status = "booked"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusBooked, StatusCancelled:
		return true
	default:
		return false
	}
}

type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errors.New("money cannot be negative")
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

// ApplyDiscount rounds the discount down so the shop never undercharges by a fraction.
func (m Money) ApplyDiscount(d Discount) Money {
	off := m.cents * int64(d.percent) / 100
	return Money{cents: m.cents - off}
}

type Discount struct {
	percent int
}

func NewPercentDiscount(percent int) (Discount, error) {
	if percent < 0 || percent > 100 {
		return Discount{}, errors.New("percentage discount must be between 0 and 100")
	}
	return Discount{percent: percent}, nil
}

func (d Discount) Percent() int {
	return d.percent
}
