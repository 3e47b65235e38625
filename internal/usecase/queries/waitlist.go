package queries

import (
	"context"
	"time"

	"grooming-waitlist/internal/domain/waitlist"
	"grooming-waitlist/internal/infra"
	"grooming-waitlist/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrEntryNotFound = errs.New("waitlist entry not found")

type WaitlistReadStore interface {
	FindViewByID(ctx context.Context, id uuid.UUID) (*WaitlistEntryView, error)
	List(ctx context.Context, filter EntryFilter, afterCreatedAt *time.Time, afterID *uuid.UUID, limit int) ([]*WaitlistEntryView, error)
}

type WaitlistQueries interface {
	GetEntry(ctx context.Context, id uuid.UUID) (*WaitlistEntryView, error)
	ListEntries(ctx context.Context, filter EntryFilter, after string, limit int) ([]*WaitlistEntryView, string, error)
}

type waitlistQueriesImpl struct {
	store WaitlistReadStore
}

func NewWaitlistQueries(store WaitlistReadStore) WaitlistQueries {
	return &waitlistQueriesImpl{store: store}
}

func (q *waitlistQueriesImpl) GetEntry(ctx context.Context, id uuid.UUID) (*WaitlistEntryView, error) {
	v, err := q.store.FindViewByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return v, nil
}

// ListEntries pages in matcher order; the returned cursor is empty on the last page.
func (q *waitlistQueriesImpl) ListEntries(ctx context.Context, filter EntryFilter, after string, limit int) ([]*WaitlistEntryView, string, error) {
	if filter.Status != "" {
		if _, err := waitlist.NewEntryStatus(filter.Status); err != nil {
			return nil, "", err
		}
	}

	var afterTime *time.Time
	var afterID *uuid.UUID
	if after != "" {
		t, id, err := DecodeAfterCursor(after)
		if err != nil {
			return nil, "", err
		}
		afterTime, afterID = &t, &id
	}

	limit = ValidateLimit(limit)
	items, err := q.store.List(ctx, filter, afterTime, afterID, limit+1)
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(items) > limit {
		items = items[:limit]
		last := items[len(items)-1]
		next = EncodeAfterCursor(last.CreatedAt, last.ID)
	}
	return items, next, nil
}
