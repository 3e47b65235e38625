//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"grooming-waitlist/internal/domain/waitlist"
	"grooming-waitlist/internal/infra"
	"grooming-waitlist/internal/pkg/errs"
	"grooming-waitlist/internal/usecase/queries"
	queriesmock "grooming-waitlist/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var created = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func entryViews(n int) []*queries.WaitlistEntryView {
	out := make([]*queries.WaitlistEntryView, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &queries.WaitlistEntryView{
			ID:        uuid.New(),
			Status:    "active",
			CreatedAt: created.Add(time.Duration(i) * time.Minute),
		})
	}
	return out
}

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 123456789, time.UTC)
	id := uuid.New()

	gotTime, gotID, err := queries.DecodeAfterCursor(queries.EncodeAfterCursor(at, id))
	require.NoError(t, err)
	assert.True(t, gotTime.Equal(at.Truncate(time.Microsecond)))
	assert.Equal(t, id, gotID)

	for _, bad := range []string{"%%%", "djE6MTIz", "djI6MTIzX2FiYw", "djE6eHl6X2FiYw"} {
		_, _, err := queries.DecodeAfterCursor(bad)
		assert.True(t, errs.Is(err, queries.ErrInvalidCursor), bad)
	}
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(0))
	assert.Equal(t, 5, queries.ValidateLimit(5))
	assert.Equal(t, queries.MaxListLimit, queries.ValidateLimit(10_000))
}

func TestListEntries(t *testing.T) {
	t.Run("full page returns a cursor for the last item", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockWaitlistReadStore(ctrl)
		q := queries.NewWaitlistQueries(store)

		rows := entryViews(3)
		store.EXPECT().
			List(gomock.Any(), queries.EntryFilter{Status: "active"}, nil, nil, 3).
			Return(rows, nil)

		items, next, err := q.ListEntries(t.Context(), queries.EntryFilter{Status: "active"}, "", 2)
		require.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Equal(t, queries.EncodeAfterCursor(rows[1].CreatedAt, rows[1].ID), next)
	})

	t.Run("last page has no cursor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockWaitlistReadStore(ctrl)
		q := queries.NewWaitlistQueries(store)

		store.EXPECT().List(gomock.Any(), gomock.Any(), nil, nil, 3).Return(entryViews(1), nil)

		items, next, err := q.ListEntries(t.Context(), queries.EntryFilter{}, "", 2)
		require.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Empty(t, next)
	})

	t.Run("cursor is passed to the store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockWaitlistReadStore(ctrl)
		q := queries.NewWaitlistQueries(store)

		afterID := uuid.New()
		store.EXPECT().
			List(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), queries.DefaultListLimit+1).
			DoAndReturn(func(_ context.Context, _ queries.EntryFilter, at *time.Time, id *uuid.UUID, _ int) ([]*queries.WaitlistEntryView, error) {
				require.NotNil(t, at)
				require.NotNil(t, id)
				assert.True(t, at.Equal(created))
				assert.Equal(t, afterID, *id)
				return nil, nil
			})

		_, _, err := q.ListEntries(t.Context(), queries.EntryFilter{}, queries.EncodeAfterCursor(created, afterID), 0)
		require.NoError(t, err)
	})

	t.Run("unknown status is rejected before the store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		q := queries.NewWaitlistQueries(queriesmock.NewMockWaitlistReadStore(ctrl))

		_, _, err := q.ListEntries(t.Context(), queries.EntryFilter{Status: "waiting"}, "", 10)
		assert.ErrorIs(t, err, waitlist.ErrInvalidStatus)
	})

	t.Run("broken cursor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		q := queries.NewWaitlistQueries(queriesmock.NewMockWaitlistReadStore(ctrl))

		_, _, err := q.ListEntries(t.Context(), queries.EntryFilter{}, "not-a-cursor", 10)
		assert.True(t, errs.Is(err, queries.ErrInvalidCursor))
	})
}

func TestGetEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := queriesmock.NewMockWaitlistReadStore(ctrl)
	q := queries.NewWaitlistQueries(store)

	found := entryViews(1)[0]
	store.EXPECT().FindViewByID(gomock.Any(), found.ID).Return(found, nil)
	missing := uuid.New()
	store.EXPECT().FindViewByID(gomock.Any(), missing).Return(nil, infra.WrapRepoErr("no rows", nil, infra.KindNotFound))

	got, err := q.GetEntry(t.Context(), found.ID)
	require.NoError(t, err)
	assert.Same(t, found, got)

	_, err = q.GetEntry(t.Context(), missing)
	assert.True(t, errs.Is(err, queries.ErrEntryNotFound))
}
