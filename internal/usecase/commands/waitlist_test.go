//go:build unit

package commands_test

import (
	"testing"
	"time"

	"grooming-waitlist/internal/domain/waitlist"
	"grooming-waitlist/internal/pkg/errs"
	"grooming-waitlist/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEntry(t *testing.T) {
	f := newFixture(t)
	customerID := f.store.AddCustomer("Ana", "555-010-0001")
	petID := f.store.AddPet(customerID, "Biscuit")
	cmds := commands.NewWaitlistCommands(f.store, f.clock)

	valid := func() commands.CreateEntryInput {
		return commands.CreateEntryInput{
			CustomerID:     customerID,
			PetID:          petID,
			ServiceID:      f.serviceID,
			RequestedDate:  slotDate,
			TimePreference: "morning",
			Notes:          "  nervous around dryers  ",
		}
	}

	t.Run("creates an active entry", func(t *testing.T) {
		id, err := cmds.CreateEntry(t.Context(), valid())
		require.NoError(t, err)

		row, ok := f.store.Entry(id)
		require.True(t, ok)
		assert.Equal(t, waitlist.EntryStatusActive, row.Status)
		assert.Equal(t, waitlist.PreferenceMorning, row.Preference)
		assert.Equal(t, "nervous around dryers", row.Notes)
		assert.Nil(t, row.OfferID)
		assert.Equal(t, baseNow, row.CreatedAt)
	})

	tests := []struct {
		name   string
		mutate func(in *commands.CreateEntryInput)
		errIs  error
	}{
		{
			name:   "unknown pet",
			mutate: func(in *commands.CreateEntryInput) { in.PetID = uuid.New() },
			errIs:  commands.ErrUnknownReference,
		},
		{
			name:   "unknown service",
			mutate: func(in *commands.CreateEntryInput) { in.ServiceID = uuid.New() },
			errIs:  commands.ErrUnknownReference,
		},
		{
			name:   "bad preference",
			mutate: func(in *commands.CreateEntryInput) { in.TimePreference = "evening" },
			errIs:  errs.ErrDomainValidation,
		},
		{
			name:   "date in the past",
			mutate: func(in *commands.CreateEntryInput) { in.RequestedDate = baseNow.AddDate(0, 0, -1) },
			errIs:  errs.ErrDomainValidation,
		},
		{
			name:   "missing customer",
			mutate: func(in *commands.CreateEntryInput) { in.CustomerID = uuid.Nil },
			errIs:  errs.ErrDomainValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			_, err := cmds.CreateEntry(t.Context(), in)
			assert.True(t, errs.Is(err, tt.errIs), "got %v", err)
		})
	}
}

func TestCancelEntry(t *testing.T) {
	t.Run("notified entry drops its offer, siblings keep theirs", func(t *testing.T) {
		f := newFixture(t)
		a := f.addWaiting(t, "Ana", "555-010-0001", slotDate, 2*time.Hour)
		b := f.addWaiting(t, "Ben", "555-010-0002", slotDate, time.Hour)
		offerID := f.offerTo(t, a.entryID, b.entryID)
		cmds := commands.NewWaitlistCommands(f.store, f.clock)

		require.NoError(t, cmds.CancelEntry(t.Context(), a.entryID))

		row, _ := f.store.Entry(a.entryID)
		assert.Equal(t, waitlist.EntryStatusCancelled, row.Status)
		assert.Nil(t, row.OfferID)
		sibling, _ := f.store.Entry(b.entryID)
		assert.Equal(t, waitlist.EntryStatusNotified, sibling.Status)
		assert.Equal(t, offerID, *sibling.OfferID)
	})

	t.Run("terminal entry cannot be cancelled", func(t *testing.T) {
		f := newFixture(t)
		a := f.addWaiting(t, "Ana", "555-010-0001", slotDate, time.Hour)
		cmds := commands.NewWaitlistCommands(f.store, f.clock)
		require.NoError(t, cmds.CancelEntry(t.Context(), a.entryID))

		err := cmds.CancelEntry(t.Context(), a.entryID)
		assert.True(t, errs.Is(err, errs.ErrInvalidStateTransition))
	})

	t.Run("unknown entry", func(t *testing.T) {
		f := newFixture(t)
		cmds := commands.NewWaitlistCommands(f.store, f.clock)

		err := cmds.CancelEntry(t.Context(), uuid.New())
		assert.True(t, errs.Is(err, commands.ErrEntryNotFound))
	})
}

func TestMarkUnfillable(t *testing.T) {
	f := newFixture(t)
	active := f.addWaiting(t, "Ana", "555-010-0001", slotDate, 2*time.Hour)
	notified := f.addWaiting(t, "Ben", "555-010-0002", slotDate, time.Hour)
	f.offerTo(t, notified.entryID)
	cmds := commands.NewWaitlistCommands(f.store, f.clock)

	require.NoError(t, cmds.MarkUnfillable(t.Context(), active.entryID))
	assert.Equal(t, waitlist.EntryStatusExpired, f.entryStatus(t, active.entryID))

	err := cmds.MarkUnfillable(t.Context(), notified.entryID)
	assert.True(t, errs.Is(err, errs.ErrInvalidStateTransition))
	assert.Equal(t, waitlist.EntryStatusNotified, f.entryStatus(t, notified.entryID))
}
