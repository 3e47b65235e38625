package commands

import (
	"fmt"
	"time"

	"grooming-waitlist/internal/domain/waitlist"
)

func offerMessage(shop, serviceName string, offer *waitlist.SlotOffer) string {
	msg := fmt.Sprintf("%s: a %s opening just came up for %s.", shop, serviceName, offer.Slot().Label())
	if d := offer.DiscountPercent(); d > 0 {
		msg += fmt.Sprintf(" Book it now for %d%% off.", d)
	}
	return msg + fmt.Sprintf(" Reply YES by %s to claim it. First reply wins.", offer.ExpiresAt().UTC().Format("Jan 2 3:04 PM MST"))
}

func bookedMessage(shop string, slot waitlist.Slot) string {
	return fmt.Sprintf("You're booked with %s for %s. See you then!", shop, slot.Label())
}

const (
	slotFilledMessage     = "Sorry, that opening has already been filled."
	notUnderstoodMessage  = "Reply YES to accept your waitlist offer."
	noPendingOfferMessage = "We couldn't find an open offer for this number."
	internalErrorMessage  = "Something went wrong on our side. Please try again in a few minutes."
)

func expiredMessage(expiresAt time.Time) string {
	return fmt.Sprintf("Sorry, this offer expired at %s.", expiresAt.UTC().Format("Jan 2 3:04 PM MST"))
}
