package queries

import (
	"context"

	"grooming-waitlist/internal/infra"
	"grooming-waitlist/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrOfferNotFound = errs.New("slot offer not found")

type OfferReadStore interface {
	FindViewByID(ctx context.Context, id uuid.UUID) (*SlotOfferView, error)
}

type OfferRecipientReadStore interface {
	ListByOffer(ctx context.Context, offerID uuid.UUID) ([]*WaitlistEntryView, error)
}

type OfferQueries interface {
	GetOffer(ctx context.Context, id uuid.UUID) (*SlotOfferView, error)
}

type offerQueriesImpl struct {
	offers     OfferReadStore
	recipients OfferRecipientReadStore
}

func NewOfferQueries(offers OfferReadStore, recipients OfferRecipientReadStore) OfferQueries {
	return &offerQueriesImpl{offers: offers, recipients: recipients}
}

// GetOffer returns the offer with every entry it was ever sent to.
func (q *offerQueriesImpl) GetOffer(ctx context.Context, id uuid.UUID) (*SlotOfferView, error) {
	v, err := q.offers.FindViewByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}

	recipients, err := q.recipients.ListByOffer(ctx, id)
	if err != nil {
		return nil, err
	}
	v.Recipients = recipients
	return v, nil
}
