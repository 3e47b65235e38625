//go:build unit

package commands_test

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"
	"time"

	"grooming-waitlist/internal/domain/waitlist"
	"grooming-waitlist/internal/pkg/errs"
	"grooming-waitlist/internal/usecase/commands"
	"grooming-waitlist/internal/usecase/shared"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOffer(t *testing.T) {
	t.Run("notifies every active candidate", func(t *testing.T) {
		f := newFixture(t)
		a := f.addWaiting(t, "Ana", "555-010-0001", slotDate, 2*time.Hour)
		b := f.addWaiting(t, "Ben", "555-010-0002", slotDate.AddDate(0, 0, -1), time.Hour)

		res, err := f.offerCommands().CreateOffer(t.Context(), commands.CreateOfferInput{
			ServiceID:         f.serviceID,
			Date:              slotDate,
			Time:              f.slotAt(t, "09:00"),
			DiscountPercent:   15,
			CandidateEntryIDs: []uuid.UUID{a.entryID, b.entryID, a.entryID},
		})
		require.NoError(t, err)

		assert.Equal(t, []uuid.UUID{a.entryID, b.entryID}, res.NotifiedEntryIDs)
		assert.Empty(t, res.SkippedEntryIDs)
		assert.Equal(t, baseNow.Add(f.cfg.Waitlist.OfferTTL), res.ExpiresAt)

		offer, ok := f.store.Offer(res.OfferID)
		require.True(t, ok)
		assert.Equal(t, waitlist.OfferStatusPending, offer.Status)
		assert.Equal(t, 15, offer.DiscountPercent)

		for _, w := range []waiting{a, b} {
			row, _ := f.store.Entry(w.entryID)
			assert.Equal(t, waitlist.EntryStatusNotified, row.Status)
			require.NotNil(t, row.OfferID)
			assert.Equal(t, res.OfferID, *row.OfferID)
			require.NotNil(t, row.NotifiedAt)
		}

		jobs := f.store.Jobs()
		require.Len(t, jobs, 2)
		var payload shared.NotificationPayload
		require.NoError(t, json.Unmarshal(jobs[0].Payload, &payload))
		assert.Equal(t, shared.NotificationKindSlotOffer, jobs[0].Kind)
		assert.Equal(t, "sms", jobs[0].Topic)
		assert.Equal(t, a.phone, payload.Phone)
		assert.Contains(t, payload.Message, "Full Groom")
		assert.Contains(t, payload.Message, "15% off")
		assert.Contains(t, payload.Message, "Reply YES")
		require.NotNil(t, payload.OfferID)
		assert.Equal(t, res.OfferID, *payload.OfferID)

		assert.Equal(t, float64(1), promtest.ToFloat64(f.metrics.OffersCreated))
		assert.Equal(t, float64(2), promtest.ToFloat64(f.metrics.CandidatesNotified))
	})

	t.Run("skips entries another offer already holds", func(t *testing.T) {
		f := newFixture(t)
		a := f.addWaiting(t, "Ana", "555-010-0001", slotDate, 2*time.Hour)
		b := f.addWaiting(t, "Ben", "555-010-0002", slotDate, time.Hour)
		first := f.offerTo(t, a.entryID)

		res, err := f.offerCommands().CreateOffer(t.Context(), commands.CreateOfferInput{
			ServiceID:         f.serviceID,
			Date:              slotDate,
			Time:              f.slotAt(t, "16:00"),
			CandidateEntryIDs: []uuid.UUID{a.entryID, b.entryID},
		})
		require.NoError(t, err)

		assert.Equal(t, []uuid.UUID{b.entryID}, res.NotifiedEntryIDs)
		assert.Equal(t, []uuid.UUID{a.entryID}, res.SkippedEntryIDs)

		row, _ := f.store.Entry(a.entryID)
		assert.Equal(t, first, *row.OfferID, "the first offer keeps its recipient")
	})

	t.Run("no eligible candidate rolls the offer back", func(t *testing.T) {
		f := newFixture(t)
		a := f.addWaiting(t, "Ana", "555-010-0001", slotDate, time.Hour)
		f.offerTo(t, a.entryID)
		offersBefore := len(f.store.Offers())
		jobsBefore := len(f.store.Jobs())

		_, err := f.offerCommands().CreateOffer(t.Context(), commands.CreateOfferInput{
			ServiceID:         f.serviceID,
			Date:              slotDate,
			Time:              f.slotAt(t, "16:00"),
			CandidateEntryIDs: []uuid.UUID{a.entryID, uuid.New()},
		})
		assert.True(t, errs.Is(err, commands.ErrNoEligibleEntries))
		assert.Len(t, f.store.Offers(), offersBefore)
		assert.Len(t, f.store.Jobs(), jobsBefore)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		f := newFixture(t)
		a := f.addWaiting(t, "Ana", "555-010-0001", slotDate, time.Hour)

		tests := []struct {
			name  string
			in    commands.CreateOfferInput
			errIs error
		}{
			{
				name:  "no candidates",
				in:    commands.CreateOfferInput{ServiceID: f.serviceID, Date: slotDate},
				errIs: errs.ErrDomainValidation,
			},
			{
				name:  "discount over 100",
				in:    commands.CreateOfferInput{ServiceID: f.serviceID, Date: slotDate, DiscountPercent: 120, CandidateEntryIDs: []uuid.UUID{a.entryID}},
				errIs: errs.ErrDomainValidation,
			},
			{
				name:  "unknown service",
				in:    commands.CreateOfferInput{ServiceID: uuid.New(), Date: slotDate, CandidateEntryIDs: []uuid.UUID{a.entryID}},
				errIs: commands.ErrServiceNotFound,
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := f.offerCommands().CreateOffer(t.Context(), tt.in)
				assert.True(t, errs.Is(err, tt.errIs), "got %v", err)
			})
		}
		assert.Equal(t, waitlist.EntryStatusActive, f.entryStatus(t, a.entryID))
	})
}

func TestOpenSlot(t *testing.T) {
	staffID := uuid.New()
	input := func(f *fixture) commands.OpenSlotInput {
		return commands.OpenSlotInput{ServiceID: f.serviceID, Date: "2026-03-05", Time: "14:30"}
	}

	t.Run("broadcasts to the oldest candidates in the window", func(t *testing.T) {
		f := newFixture(t)
		oldest := f.addWaiting(t, "Ana", "555-010-0001", slotDate.AddDate(0, 0, 3), 5*time.Hour)
		second := f.addWaiting(t, "Ben", "555-010-0002", slotDate.AddDate(0, 0, -2), 4*time.Hour)
		outside := f.addWaiting(t, "Cal", "555-010-0003", slotDate.AddDate(0, 0, 4), 3*time.Hour)
		third := f.addWaiting(t, "Dee", "555-010-0004", slotDate, 2*time.Hour)
		fourth := f.addWaiting(t, "Eve", "555-010-0005", slotDate, time.Hour)

		res, err := f.offerCommands().OpenSlot(t.Context(), input(f), staffID, uuid.New())
		require.NoError(t, err)

		assert.Equal(t, commands.OpenSlotOffered, res.Outcome)
		assert.Equal(t, 3, res.Candidates)
		assert.False(t, res.IsReplayed)
		require.NotNil(t, res.Offer)
		assert.Equal(t, []uuid.UUID{oldest.entryID, second.entryID, third.entryID}, res.Offer.NotifiedEntryIDs)

		assert.Equal(t, waitlist.EntryStatusActive, f.entryStatus(t, outside.entryID))
		assert.Equal(t, waitlist.EntryStatusActive, f.entryStatus(t, fourth.entryID))

		offer, _ := f.store.Offer(res.Offer.OfferID)
		assert.Equal(t, f.cfg.Waitlist.DefaultDiscountPercent, offer.DiscountPercent)
	})

	t.Run("same key replays the first response", func(t *testing.T) {
		f := newFixture(t)
		f.addWaiting(t, "Ana", "555-010-0001", slotDate, time.Hour)
		key := uuid.New()

		first, err := f.offerCommands().OpenSlot(t.Context(), input(f), staffID, key)
		require.NoError(t, err)
		second, err := f.offerCommands().OpenSlot(t.Context(), input(f), staffID, key)
		require.NoError(t, err)

		assert.True(t, second.IsReplayed)
		if diff := cmp.Diff(first, second, cmpopts.IgnoreFields(commands.OpenSlotResult{}, "IsReplayed"), cmpopts.EquateApproxTime(time.Second)); diff != "" {
			t.Errorf("replayed result mismatch (-first +second):\n%s", diff)
		}
		assert.Len(t, f.store.Offers(), 1)

		rec, ok := f.store.IdempotencyRecord(key, staffID)
		require.True(t, ok)
		assert.Equal(t, shared.IdempotencyStatusCompleted, rec.Status)
	})

	t.Run("same key from another staff member is a new request", func(t *testing.T) {
		f := newFixture(t)
		f.addWaiting(t, "Ana", "555-010-0001", slotDate, time.Hour)
		f.addWaiting(t, "Ben", "555-010-0002", slotDate, time.Hour)
		f.cfg.Waitlist.BroadcastSize = 1
		key := uuid.New()

		_, err := f.offerCommands().OpenSlot(t.Context(), input(f), staffID, key)
		require.NoError(t, err)
		res, err := f.offerCommands().OpenSlot(t.Context(), input(f), uuid.New(), key)
		require.NoError(t, err)

		assert.False(t, res.IsReplayed)
		assert.Len(t, f.store.Offers(), 2)
	})

	t.Run("same key with a different body", func(t *testing.T) {
		f := newFixture(t)
		f.addWaiting(t, "Ana", "555-010-0001", slotDate, time.Hour)
		key := uuid.New()
		_, err := f.offerCommands().OpenSlot(t.Context(), input(f), staffID, key)
		require.NoError(t, err)

		other := input(f)
		other.Time = "15:00"
		_, err = f.offerCommands().OpenSlot(t.Context(), other, staffID, key)
		assert.True(t, errs.Is(err, errs.ErrIdempotencyKeyReused))
	})

	t.Run("request still in flight", func(t *testing.T) {
		f := newFixture(t)
		key := uuid.New()
		f.store.PutIdempotencyRecord(shared.IdempotencyRecord{
			Key:         key,
			StaffID:     staffID,
			Status:      shared.IdempotencyStatusProcessing,
			RequestHash: requestHash(t, input(f)),
			ExpiresAt:   baseNow.Add(time.Hour),
		})

		_, err := f.offerCommands().OpenSlot(t.Context(), input(f), staffID, key)
		assert.True(t, errs.Is(err, errs.ErrIdempotencyInProgress))
	})

	t.Run("stale key is taken over", func(t *testing.T) {
		f := newFixture(t)
		f.addWaiting(t, "Ana", "555-010-0001", slotDate, time.Hour)
		key := uuid.New()
		f.store.PutIdempotencyRecord(shared.IdempotencyRecord{
			Key:         key,
			StaffID:     staffID,
			Status:      shared.IdempotencyStatusProcessing,
			RequestHash: "something else",
			ExpiresAt:   baseNow.Add(-time.Minute),
		})

		res, err := f.offerCommands().OpenSlot(t.Context(), input(f), staffID, key)
		require.NoError(t, err)
		assert.Equal(t, commands.OpenSlotOffered, res.Outcome)
	})

	t.Run("no candidates is recorded too", func(t *testing.T) {
		f := newFixture(t)
		key := uuid.New()

		res, err := f.offerCommands().OpenSlot(t.Context(), input(f), staffID, key)
		require.NoError(t, err)
		assert.Equal(t, commands.OpenSlotNoCandidates, res.Outcome)
		assert.Nil(t, res.Offer)

		// a candidate showing up later does not change the recorded answer
		f.addWaiting(t, "Ana", "555-010-0001", slotDate, time.Hour)
		again, err := f.offerCommands().OpenSlot(t.Context(), input(f), staffID, key)
		require.NoError(t, err)
		assert.True(t, again.IsReplayed)
		assert.Equal(t, commands.OpenSlotNoCandidates, again.Outcome)
		assert.Empty(t, f.store.Offers())
	})

	t.Run("failure frees the key", func(t *testing.T) {
		f := newFixture(t)
		key := uuid.New()
		in := input(f)
		in.ServiceID = uuid.New()

		_, err := f.offerCommands().OpenSlot(t.Context(), in, staffID, key)
		assert.True(t, errs.Is(err, commands.ErrServiceNotFound))
		_, ok := f.store.IdempotencyRecord(key, staffID)
		assert.False(t, ok)
	})

	t.Run("key is required", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.offerCommands().OpenSlot(t.Context(), input(f), staffID, uuid.Nil)
		assert.True(t, errs.Is(err, errs.ErrIdempotencyKeyRequired))
	})

	t.Run("bad date or time", func(t *testing.T) {
		f := newFixture(t)
		for _, in := range []commands.OpenSlotInput{
			{ServiceID: f.serviceID, Date: "03/05/2026", Time: "14:30"},
			{ServiceID: f.serviceID, Date: "2026-03-05", Time: "25:00"},
		} {
			_, err := f.offerCommands().OpenSlot(t.Context(), in, staffID, uuid.New())
			assert.True(t, errs.Is(err, errs.ErrDomainValidation), "got %v", err)
		}
	})
}

func TestCancelAppointment(t *testing.T) {
	t.Run("cancels and reoffers the slot", func(t *testing.T) {
		f := newFixture(t)
		a := f.addWaiting(t, "Ana", "555-010-0001", slotDate, 2*time.Hour)
		offerID := f.offerTo(t, a.entryID)
		booked, err := f.resolver(nil).AdminBook(t.Context(), offerID, a.entryID)
		require.NoError(t, err)
		next := f.addWaiting(t, "Ben", "555-010-0002", slotDate, time.Hour)

		res, err := f.offerCommands().CancelAppointment(t.Context(), *booked.AppointmentID)
		require.NoError(t, err)

		assert.Equal(t, *booked.AppointmentID, res.AppointmentID)
		require.NotNil(t, res.Reoffer)
		assert.Equal(t, commands.OpenSlotOffered, res.Reoffer.Outcome)
		assert.Equal(t, []uuid.UUID{next.entryID}, res.Reoffer.Offer.NotifiedEntryIDs)

		reoffer, _ := f.store.Offer(res.Reoffer.Offer.OfferID)
		assert.Equal(t, slotDate, reoffer.Slot.Date())
		assert.Equal(t, "14:30", reoffer.Slot.Time().String())

		appts := f.store.Appointments()
		require.Len(t, appts, 1)
		assert.Equal(t, "cancelled", appts[0].Status)
	})

	t.Run("nobody waiting", func(t *testing.T) {
		f := newFixture(t)
		a := f.addWaiting(t, "Ana", "555-010-0001", slotDate, time.Hour)
		offerID := f.offerTo(t, a.entryID)
		booked, err := f.resolver(nil).AdminBook(t.Context(), offerID, a.entryID)
		require.NoError(t, err)

		res, err := f.offerCommands().CancelAppointment(t.Context(), *booked.AppointmentID)
		require.NoError(t, err)
		require.NotNil(t, res.Reoffer)
		assert.Equal(t, commands.OpenSlotNoCandidates, res.Reoffer.Outcome)

		_, err = f.offerCommands().CancelAppointment(t.Context(), *booked.AppointmentID)
		assert.True(t, errs.Is(err, errs.ErrInvalidStateTransition))
	})

	t.Run("unknown appointment", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.offerCommands().CancelAppointment(t.Context(), uuid.New())
		assert.True(t, errs.Is(err, commands.ErrAppointmentNotFound))
	})
}

func requestHash(t *testing.T, in commands.OpenSlotInput) string {
	t.Helper()
	data, err := json.Marshal(in)
	require.NoError(t, err)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
