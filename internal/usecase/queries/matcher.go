package queries

import (
	"context"
	"time"

	"grooming-waitlist/internal/domain/waitlist"

	"github.com/google/uuid"
)

type CandidateReadStore interface {
	FindCandidates(ctx context.Context, slot waitlist.Slot, limit int) ([]*CandidateView, error)
}

// MatcherQueries ranks waiting entries for an open slot. It never writes.
type MatcherQueries interface {
	FindCandidates(ctx context.Context, serviceID uuid.UUID, date time.Time, tod waitlist.TimeOfDay, limit int) ([]*CandidateView, error)
}

type matcherQueriesImpl struct {
	store CandidateReadStore
}

func NewMatcherQueries(store CandidateReadStore) MatcherQueries {
	return &matcherQueriesImpl{store: store}
}

func (q *matcherQueriesImpl) FindCandidates(ctx context.Context, serviceID uuid.UUID, date time.Time, tod waitlist.TimeOfDay, limit int) ([]*CandidateView, error) {
	slot, err := waitlist.NewSlot(serviceID, date, tod)
	if err != nil {
		return nil, err
	}

	candidates, err := q.store.FindCandidates(ctx, slot, waitlist.NormalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	if candidates == nil {
		candidates = []*CandidateView{}
	}
	return candidates, nil
}
