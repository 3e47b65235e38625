package waitlist

import (
	"errors"
	"strings"
)

var ErrInvalidPhone = errors.New("phone number must contain 10 to 15 digits")

const (
	nationalNumberDigits = 10
	maxE164Digits        = 15
	acceptanceToken      = "YES"
)

// NormalizePhone keeps digits only and strips any country code, leaving the 10-digit
// national number that customer records are keyed on.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < nationalNumberDigits || len(digits) > maxE164Digits {
		return "", ErrInvalidPhone
	}
	return digits[len(digits)-nationalNumberDigits:], nil
}

// IsAcceptance reports whether an inbound reply accepts an offer. Matching is
// case-insensitive and ignores surrounding whitespace and trailing punctuation.
func IsAcceptance(body string) bool {
	t := strings.TrimSpace(body)
	t = strings.TrimRight(t, ".!")
	return strings.EqualFold(strings.TrimSpace(t), acceptanceToken)
}
