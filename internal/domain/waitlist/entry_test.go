//go:build unit

package waitlist_test

import (
	"strings"
	"testing"
	"time"

	"grooming-waitlist/internal/domain/waitlist"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

type entryInput struct {
	customerID uuid.UUID
	petID      uuid.UUID
	serviceID  uuid.UUID
	requested  time.Time
	preference waitlist.TimePreference
	notes      string
}

func validEntryInput() entryInput {
	return entryInput{
		customerID: uuid.New(),
		petID:      uuid.New(),
		serviceID:  uuid.New(),
		requested:  time.Date(2026, 3, 5, 15, 0, 0, 0, time.UTC),
		preference: waitlist.PreferenceAfternoon,
		notes:      " likes treats ",
	}
}

func (in entryInput) build() (*waitlist.Entry, error) {
	return waitlist.NewEntry(in.customerID, in.petID, in.serviceID, in.requested, in.preference, in.notes, now)
}

func TestNewEntry(t *testing.T) {
	t.Run("valid entry starts active", func(t *testing.T) {
		in := validEntryInput()
		e, err := in.build()
		require.NoError(t, err)

		type view struct {
			CustomerID, PetID, ServiceID uuid.UUID
			RequestedDate                time.Time
			Preference                   waitlist.TimePreference
			Notes                        string
			Status                       waitlist.EntryStatus
			OfferID                      *uuid.UUID
			CreatedAt                    time.Time
		}
		want := view{
			CustomerID:    in.customerID,
			PetID:         in.petID,
			ServiceID:     in.serviceID,
			RequestedDate: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
			Preference:    waitlist.PreferenceAfternoon,
			Notes:         "likes treats",
			Status:        waitlist.EntryStatusActive,
			CreatedAt:     now,
		}
		got := view{
			CustomerID:    e.CustomerID(),
			PetID:         e.PetID(),
			ServiceID:     e.ServiceID(),
			RequestedDate: e.RequestedDate(),
			Preference:    e.Preference(),
			Notes:         e.Notes(),
			Status:        e.Status(),
			OfferID:       e.OfferID(),
			CreatedAt:     e.CreatedAt(),
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Entry mismatch (-want +got):\n%s", diff)
		}
		assert.NotEqual(t, uuid.Nil, e.ID())
	})

	t.Run("same-day request is allowed", func(t *testing.T) {
		in := validEntryInput()
		in.requested = now.Add(-9 * time.Hour)
		_, err := in.build()
		assert.NoError(t, err)
	})

	t.Run("empty preference means any", func(t *testing.T) {
		in := validEntryInput()
		in.preference = ""
		e, err := in.build()
		require.NoError(t, err)
		assert.Equal(t, waitlist.PreferenceAny, e.Preference())
	})

	runCases(t, []entryCase{
		{name: "missing customer", mutate: func(in *entryInput) { in.customerID = uuid.Nil }, errIs: waitlist.ErrMissingCustomer},
		{name: "missing pet", mutate: func(in *entryInput) { in.petID = uuid.Nil }, errIs: waitlist.ErrMissingPet},
		{name: "missing service", mutate: func(in *entryInput) { in.serviceID = uuid.Nil }, errIs: waitlist.ErrMissingService},
		{name: "missing date", mutate: func(in *entryInput) { in.requested = time.Time{} }, errIs: waitlist.ErrMissingDate},
		{name: "yesterday", mutate: func(in *entryInput) { in.requested = now.AddDate(0, 0, -1) }, errIs: waitlist.ErrRequestedDateInPast},
		{name: "notes too long", mutate: func(in *entryInput) { in.notes = strings.Repeat("a", waitlist.MaxNotesLength+1) }, errIs: waitlist.ErrNotesTooLong},
	})
}

type entryCase struct {
	name   string
	mutate func(*entryInput)
	errIs  error
}

func runCases(t *testing.T, cases []entryCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validEntryInput()
			tc.mutate(&in)
			_, err := in.build()
			assert.ErrorIs(t, err, tc.errIs)
		})
	}
}

func TestEntryLifecycle(t *testing.T) {
	offerID := uuid.New()

	t.Run("notify then book", func(t *testing.T) {
		e, _ := validEntryInput().build()
		require.NoError(t, e.Notify(offerID, now))

		assert.Equal(t, waitlist.EntryStatusNotified, e.Status())
		assert.True(t, e.IsNotifiedFor(offerID))
		assert.False(t, e.IsNotifiedFor(uuid.New()))
		require.NotNil(t, e.NotifiedAt())

		require.NoError(t, e.Book(offerID))
		assert.Equal(t, waitlist.EntryStatusBooked, e.Status())
		assert.Nil(t, e.OfferID())
		assert.Equal(t, offerID, *e.LastOfferID())
	})

	t.Run("notify twice is rejected", func(t *testing.T) {
		e, _ := validEntryInput().build()
		require.NoError(t, e.Notify(offerID, now))
		assert.ErrorIs(t, e.Notify(uuid.New(), now), waitlist.ErrTransitionNotAllowed)
	})

	t.Run("expire offer only for the held offer", func(t *testing.T) {
		e, _ := validEntryInput().build()
		require.NoError(t, e.Notify(offerID, now))

		assert.ErrorIs(t, e.ExpireOffer(uuid.New()), waitlist.ErrOfferMismatch)
		require.NoError(t, e.ExpireOffer(offerID))
		assert.Equal(t, waitlist.EntryStatusExpiredOffer, e.Status())
		assert.Nil(t, e.OfferID())
	})

	t.Run("book requires the held offer", func(t *testing.T) {
		e, _ := validEntryInput().build()
		assert.ErrorIs(t, e.Book(offerID), waitlist.ErrOfferMismatch)
	})

	t.Run("cancel from active and notified", func(t *testing.T) {
		active, _ := validEntryInput().build()
		require.NoError(t, active.Cancel())
		assert.Equal(t, waitlist.EntryStatusCancelled, active.Status())

		notified, _ := validEntryInput().build()
		require.NoError(t, notified.Notify(offerID, now))
		require.NoError(t, notified.Cancel())
		assert.Equal(t, waitlist.EntryStatusCancelled, notified.Status())
		assert.Nil(t, notified.OfferID())
	})

	t.Run("terminal states stay terminal", func(t *testing.T) {
		for _, status := range []waitlist.EntryStatus{
			waitlist.EntryStatusBooked,
			waitlist.EntryStatusExpiredOffer,
			waitlist.EntryStatusExpired,
			waitlist.EntryStatusCancelled,
		} {
			e := waitlist.ReconstructEntry(uuid.New(), uuid.New(), uuid.New(), uuid.New(), now, waitlist.PreferenceAny, "", status, nil, nil, nil, now)
			assert.True(t, status.IsTerminal())
			assert.ErrorIs(t, e.Cancel(), waitlist.ErrTransitionNotAllowed, status)
			assert.ErrorIs(t, e.MarkUnfillable(), waitlist.ErrTransitionNotAllowed, status)
			assert.ErrorIs(t, e.Notify(offerID, now), waitlist.ErrTransitionNotAllowed, status)
		}
	})

	t.Run("unfillable only from active", func(t *testing.T) {
		e, _ := validEntryInput().build()
		require.NoError(t, e.Notify(offerID, now))
		assert.ErrorIs(t, e.MarkUnfillable(), waitlist.ErrTransitionNotAllowed)

		fresh, _ := validEntryInput().build()
		require.NoError(t, fresh.MarkUnfillable())
		assert.Equal(t, waitlist.EntryStatusExpired, fresh.Status())
	})
}

func TestTimePreference(t *testing.T) {
	morning, _ := waitlist.NewTimeOfDay(11, 59)
	noon, _ := waitlist.NewTimeOfDay(12, 0)

	assert.True(t, waitlist.PreferenceMorning.Accepts(morning))
	assert.False(t, waitlist.PreferenceMorning.Accepts(noon))
	assert.True(t, waitlist.PreferenceAfternoon.Accepts(noon))
	assert.True(t, waitlist.PreferenceAny.Accepts(morning))

	_, err := waitlist.NewTimePreference("evening")
	assert.ErrorIs(t, err, waitlist.ErrInvalidPreference)
}
