//go:build unit

package commands_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"grooming-waitlist/internal/domain/waitlist"
	"grooming-waitlist/internal/pkg/errs"
	"grooming-waitlist/internal/usecase/commands"
	"grooming-waitlist/tests/common/fakeuow"

	"github.com/google/uuid"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryDeduper struct {
	mu   sync.Mutex
	seen map[string][]byte
}

func newMemoryDeduper() *memoryDeduper {
	return &memoryDeduper{seen: map[string][]byte{}}
}

func (d *memoryDeduper) Lookup(_ context.Context, messageID string) ([]byte, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	raw, ok := d.seen[messageID]
	return raw, ok, nil
}

func (d *memoryDeduper) Remember(_ context.Context, messageID string, resolution []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen[messageID] = resolution
	return nil
}

func TestResolveResponse(t *testing.T) {
	t.Run("first YES books the slot", func(t *testing.T) {
		f := newFixture(t)
		a := f.addWaiting(t, "Ana", "555-010-0001", slotDate, 2*time.Hour)
		b := f.addWaiting(t, "Ben", "555-010-0002", slotDate, time.Hour)
		offerID := f.offerTo(t, a.entryID, b.entryID)

		res, err := f.resolver(nil).ResolveResponse(t.Context(), commands.InboundMessage{Phone: "+1 (555) 010-0001", Body: " yes! "})
		require.NoError(t, err)

		assert.Equal(t, commands.ActionBooked, res.Action)
		assert.Contains(t, res.Message, "Test Salon")
		require.NotNil(t, res.AppointmentID)
		assert.Equal(t, offerID, *res.OfferID)
		assert.Equal(t, a.entryID, *res.EntryID)

		offer, _ := f.store.Offer(offerID)
		assert.Equal(t, waitlist.OfferStatusAccepted, offer.Status)
		require.NotNil(t, offer.AcceptedBy)
		assert.Equal(t, a.customerID, *offer.AcceptedBy)

		assert.Equal(t, waitlist.EntryStatusBooked, f.entryStatus(t, a.entryID))
		assert.Equal(t, waitlist.EntryStatusExpiredOffer, f.entryStatus(t, b.entryID))

		appts := f.store.Appointments()
		require.Len(t, appts, 1)
		assert.Equal(t, *res.AppointmentID, appts[0].ID)
		assert.Equal(t, int64(8000), appts[0].ListPriceCents)
		assert.Equal(t, int64(6400), appts[0].PriceCents)
		assert.Equal(t, 14*60+30, appts[0].StartMinutes)
		assert.Equal(t, 90, appts[0].DurationMin)

		won, _ := f.store.Entry(a.entryID)
		assert.Nil(t, won.OfferID)
		require.NotNil(t, won.LastOfferID)
		assert.Equal(t, offerID, *won.LastOfferID)
	})

	t.Run("later YES is told the slot is filled", func(t *testing.T) {
		f := newFixture(t)
		a := f.addWaiting(t, "Ana", "555-010-0001", slotDate, 2*time.Hour)
		b := f.addWaiting(t, "Ben", "555-010-0002", slotDate, time.Hour)
		offerID := f.offerTo(t, a.entryID, b.entryID)

		first, err := f.resolver(nil).ResolveResponse(t.Context(), commands.InboundMessage{Phone: a.phone, Body: "YES"})
		require.NoError(t, err)
		require.Equal(t, commands.ActionBooked, first.Action)
		require.Equal(t, waitlist.EntryStatusExpiredOffer, f.entryStatus(t, b.entryID))

		res, err := f.resolver(nil).ResolveResponse(t.Context(), commands.InboundMessage{Phone: b.phone, Body: "YES"})
		require.NoError(t, err)
		assert.Equal(t, commands.ActionSlotFilled, res.Action)
		assert.Contains(t, res.Message, "already been filled")
		require.NotNil(t, res.OfferID)
		assert.Equal(t, offerID, *res.OfferID)
		require.NotNil(t, res.EntryID)
		assert.Equal(t, b.entryID, *res.EntryID)
		assert.Equal(t, waitlist.EntryStatusExpiredOffer, f.entryStatus(t, b.entryID))
		assert.Len(t, f.store.Appointments(), 1)
	})

	t.Run("winner replying again has no open offer", func(t *testing.T) {
		f := newFixture(t)
		a := f.addWaiting(t, "Ana", "555-010-0001", slotDate, time.Hour)
		f.offerTo(t, a.entryID)

		_, err := f.resolver(nil).ResolveResponse(t.Context(), commands.InboundMessage{Phone: a.phone, Body: "YES"})
		require.NoError(t, err)
		res, err := f.resolver(nil).ResolveResponse(t.Context(), commands.InboundMessage{Phone: a.phone, Body: "YES"})
		require.NoError(t, err)
		assert.Equal(t, commands.ActionInvalid, res.Action)
		assert.Len(t, f.store.Appointments(), 1)
	})

	t.Run("YES after the sweep is told the offer expired", func(t *testing.T) {
		f := newFixture(t)
		a := f.addWaiting(t, "Ana", "555-010-0001", slotDate, time.Hour)
		offerID := f.offerTo(t, a.entryID)
		f.clock.Add(f.cfg.Waitlist.OfferTTL + time.Minute)

		swept, err := f.sweeper().ProcessExpiredOffers(t.Context())
		require.NoError(t, err)
		require.Equal(t, 1, swept.ExpiredOffers)

		res, err := f.resolver(nil).ResolveResponse(t.Context(), commands.InboundMessage{Phone: a.phone, Body: "YES"})
		require.NoError(t, err)
		assert.Equal(t, commands.ActionExpired, res.Action)
		assert.Contains(t, res.Message, "expired")
		require.NotNil(t, res.OfferID)
		assert.Equal(t, offerID, *res.OfferID)
		assert.Empty(t, f.store.Appointments())
	})

	t.Run("YES outside the late reply window has no open offer", func(t *testing.T) {
		f := newFixture(t)
		a := f.addWaiting(t, "Ana", "555-010-0001", slotDate, time.Hour)
		f.offerTo(t, a.entryID)
		f.clock.Add(f.cfg.Waitlist.OfferTTL + time.Minute)
		_, err := f.sweeper().ProcessExpiredOffers(t.Context())
		require.NoError(t, err)
		f.clock.Add(f.cfg.Waitlist.LateReplyWindow)

		res, err := f.resolver(nil).ResolveResponse(t.Context(), commands.InboundMessage{Phone: a.phone, Body: "YES"})
		require.NoError(t, err)
		assert.Equal(t, commands.ActionInvalid, res.Action)
	})

	t.Run("reply other than YES is not understood", func(t *testing.T) {
		f := newFixture(t)
		a := f.addWaiting(t, "Ana", "555-010-0001", slotDate, time.Hour)
		f.offerTo(t, a.entryID)

		res, err := f.resolver(nil).ResolveResponse(t.Context(), commands.InboundMessage{Phone: a.phone, Body: "yes please"})
		require.NoError(t, err)
		assert.Equal(t, commands.ActionInvalid, res.Action)
		assert.Equal(t, waitlist.EntryStatusNotified, f.entryStatus(t, a.entryID))
	})

	t.Run("unknown phone has no pending offer", func(t *testing.T) {
		f := newFixture(t)

		for _, phone := range []string{"555-999-0000", "12"} {
			res, err := f.resolver(nil).ResolveResponse(t.Context(), commands.InboundMessage{Phone: phone, Body: "YES"})
			require.NoError(t, err)
			assert.Equal(t, commands.ActionInvalid, res.Action)
		}
	})

	t.Run("YES after expiry releases the entry", func(t *testing.T) {
		f := newFixture(t)
		a := f.addWaiting(t, "Ana", "555-010-0001", slotDate, time.Hour)
		offerID := f.offerTo(t, a.entryID)
		f.clock.Add(f.cfg.Waitlist.OfferTTL + time.Second)

		res, err := f.resolver(nil).ResolveResponse(t.Context(), commands.InboundMessage{Phone: a.phone, Body: "YES"})
		require.NoError(t, err)
		assert.Equal(t, commands.ActionExpired, res.Action)
		assert.Contains(t, res.Message, "expired")

		assert.Equal(t, waitlist.EntryStatusExpiredOffer, f.entryStatus(t, a.entryID))
		offer, _ := f.store.Offer(offerID)
		assert.Equal(t, waitlist.OfferStatusPending, offer.Status, "the sweeper expires the offer itself")
		assert.Empty(t, f.store.Appointments())
	})

	t.Run("YES exactly at the deadline still counts", func(t *testing.T) {
		f := newFixture(t)
		a := f.addWaiting(t, "Ana", "555-010-0001", slotDate, time.Hour)
		f.offerTo(t, a.entryID)
		f.clock.Add(f.cfg.Waitlist.OfferTTL)

		res, err := f.resolver(nil).ResolveResponse(t.Context(), commands.InboundMessage{Phone: a.phone, Body: "YES"})
		require.NoError(t, err)
		assert.Equal(t, commands.ActionBooked, res.Action)
	})

	t.Run("redelivered message gets the first answer", func(t *testing.T) {
		f := newFixture(t)
		a := f.addWaiting(t, "Ana", "555-010-0001", slotDate, time.Hour)
		f.offerTo(t, a.entryID)
		resolver := f.resolver(newMemoryDeduper())
		msg := commands.InboundMessage{Phone: a.phone, Body: "YES", MessageID: "SM123"}

		first, err := resolver.ResolveResponse(t.Context(), msg)
		require.NoError(t, err)
		second, err := resolver.ResolveResponse(t.Context(), msg)
		require.NoError(t, err)

		assert.Equal(t, commands.ActionBooked, first.Action)
		assert.Equal(t, first, second)
		assert.Len(t, f.store.Appointments(), 1)
	})
}

func TestResolveResponse_ConcurrentAcceptance(t *testing.T) {
	const customers = 8

	f := newFixture(t)
	entries := make([]waiting, 0, customers)
	ids := make([]uuid.UUID, 0, customers)
	for i := 0; i < customers; i++ {
		w := f.addWaiting(t, fmt.Sprintf("Customer %d", i), fmt.Sprintf("555-010-%04d", i+1), slotDate, time.Duration(customers-i)*time.Minute)
		entries = append(entries, w)
		ids = append(ids, w.entryID)
	}
	offerID := f.offerTo(t, ids...)
	resolver := f.resolver(nil)

	results := make([]*commands.Resolution, customers)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i, w := range entries {
		wg.Add(1)
		go func(i int, phone string) {
			defer wg.Done()
			<-start
			res, err := resolver.ResolveResponse(context.Background(), commands.InboundMessage{Phone: phone, Body: "YES"})
			assert.NoError(t, err)
			results[i] = res
		}(i, w.phone)
	}
	close(start)
	wg.Wait()

	booked := 0
	var winner uuid.UUID
	for i, res := range results {
		require.NotNil(t, res)
		switch res.Action {
		case commands.ActionBooked:
			booked++
			winner = entries[i].entryID
		case commands.ActionSlotFilled:
		default:
			t.Errorf("unexpected action %q", res.Action)
		}
	}
	require.Equal(t, 1, booked)

	offer, _ := f.store.Offer(offerID)
	assert.Equal(t, waitlist.OfferStatusAccepted, offer.Status)
	assert.Len(t, f.store.Appointments(), 1)
	for _, w := range entries {
		want := waitlist.EntryStatusExpiredOffer
		if w.entryID == winner {
			want = waitlist.EntryStatusBooked
		}
		assert.Equal(t, want, f.entryStatus(t, w.entryID))
	}
}

func TestResolveResponse_BookingFailure(t *testing.T) {
	t.Run("claim is reverted", func(t *testing.T) {
		f := newFixture(t)
		a := f.addWaiting(t, "Ana", "555-010-0001", slotDate, time.Hour)
		offerID := f.offerTo(t, a.entryID)
		f.store.FailOn(fakeuow.OpCreateAppointment, errors.New("connection reset"))

		res, err := f.resolver(nil).ResolveResponse(t.Context(), commands.InboundMessage{Phone: a.phone, Body: "YES"})
		require.Error(t, err)
		assert.Equal(t, commands.ActionError, res.Action)

		offer, _ := f.store.Offer(offerID)
		assert.Equal(t, waitlist.OfferStatusPending, offer.Status)
		assert.Nil(t, offer.AcceptedBy)
		assert.Equal(t, waitlist.EntryStatusNotified, f.entryStatus(t, a.entryID))
		assert.Zero(t, promtest.ToFloat64(f.metrics.CompensationFailures))
		assert.Contains(t, f.logs.String(), "offer claim reverted after booking failure")

		// the customer can simply try again
		f.store.FailOn(fakeuow.OpCreateAppointment, nil)
		res, err = f.resolver(nil).ResolveResponse(t.Context(), commands.InboundMessage{Phone: a.phone, Body: "YES"})
		require.NoError(t, err)
		assert.Equal(t, commands.ActionBooked, res.Action)
	})

	t.Run("failed revert is flagged as fatal", func(t *testing.T) {
		f := newFixture(t)
		a := f.addWaiting(t, "Ana", "555-010-0001", slotDate, time.Hour)
		offerID := f.offerTo(t, a.entryID)
		f.store.FailOn(fakeuow.OpCreateAppointment, errors.New("connection reset"))
		f.store.FailOn(fakeuow.OpReleaseClaim, errors.New("connection reset"))

		res, err := f.resolver(nil).ResolveResponse(t.Context(), commands.InboundMessage{Phone: a.phone, Body: "YES"})
		require.Error(t, err)
		assert.Equal(t, commands.ActionError, res.Action)

		offer, _ := f.store.Offer(offerID)
		assert.Equal(t, waitlist.OfferStatusAccepted, offer.Status)
		assert.Equal(t, float64(1), promtest.ToFloat64(f.metrics.CompensationFailures))
		assert.Contains(t, f.logs.String(), `"fatal_inconsistency":true`)
	})
}

func TestAdminBook(t *testing.T) {
	t.Run("books on the customer's behalf", func(t *testing.T) {
		f := newFixture(t)
		a := f.addWaiting(t, "Ana", "555-010-0001", slotDate, time.Hour)
		offerID := f.offerTo(t, a.entryID)

		res, err := f.resolver(nil).AdminBook(t.Context(), offerID, a.entryID)
		require.NoError(t, err)
		assert.Equal(t, commands.ActionBooked, res.Action)
		assert.Equal(t, waitlist.EntryStatusBooked, f.entryStatus(t, a.entryID))
	})

	t.Run("entry not holding the offer", func(t *testing.T) {
		f := newFixture(t)
		a := f.addWaiting(t, "Ana", "555-010-0001", slotDate, time.Hour)
		b := f.addWaiting(t, "Ben", "555-010-0002", slotDate, time.Hour)
		offerID := f.offerTo(t, a.entryID)

		_, err := f.resolver(nil).AdminBook(t.Context(), offerID, b.entryID)
		assert.True(t, errs.Is(err, errs.ErrInvalidStateTransition))
	})

	t.Run("unknown entry", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.resolver(nil).AdminBook(t.Context(), uuid.New(), uuid.New())
		assert.True(t, errs.Is(err, commands.ErrEntryNotFound))
	})
}
