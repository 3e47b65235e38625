//go:build unit

package commands_test

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"grooming-waitlist/internal/domain/appointment"
	"grooming-waitlist/internal/domain/waitlist"
	"grooming-waitlist/internal/pkg/clock"
	"grooming-waitlist/internal/pkg/config"
	"grooming-waitlist/internal/pkg/metrics"
	"grooming-waitlist/internal/usecase/commands"
	"grooming-waitlist/internal/usecase/queries"
	"grooming-waitlist/tests/common/fakeuow"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

var (
	baseNow  = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	slotDate = time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	store     *fakeuow.Store
	clock     *clock.MockClock
	cfg       config.Config
	metrics   *metrics.Metrics
	logs      *bytes.Buffer
	logger    *slog.Logger
	serviceID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logs := &bytes.Buffer{}
	store := fakeuow.New()
	f := &fixture{
		store:   store,
		clock:   clock.NewMockClock(baseNow),
		cfg:     config.NewTestConfig(),
		metrics: metrics.NewMetrics(prometheus.NewRegistry()),
		logs:    logs,
		logger:  slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}
	f.serviceID = store.AddService("Full Groom", 8000, 90)
	return f
}

type waiting struct {
	entryID    uuid.UUID
	customerID uuid.UUID
	phone      string
}

// addWaiting seeds an active entry for the fixture service. age orders entries FIFO:
// a larger age means an older entry.
func (f *fixture) addWaiting(t *testing.T, name, phone string, requested time.Time, age time.Duration) waiting {
	t.Helper()
	customerID := f.store.AddCustomer(name, phone)
	petID := f.store.AddPet(customerID, name+"'s dog")
	entryID := f.store.PutEntry(fakeuow.EntryRow{
		CustomerID:    customerID,
		PetID:         petID,
		ServiceID:     f.serviceID,
		RequestedDate: requested,
		CreatedAt:     baseNow.Add(-age),
	})
	return waiting{entryID: entryID, customerID: customerID, phone: phone}
}

func (f *fixture) matcher() queries.MatcherQueries {
	return queries.NewMatcherQueries(f.store)
}

func (f *fixture) offerCommands() commands.OfferCommands {
	return commands.NewOfferCommands(f.store, f.matcher(), f.clock, f.cfg, f.metrics, f.logger)
}

func (f *fixture) resolver(deduper commands.InboundDeduper) commands.ResponseResolver {
	services := &appointment.Services{Clock: f.clock, PriceCalculator: appointment.NewDefaultPriceCalculator()}
	booking := commands.NewBookingEffector(f.store, services)
	return commands.NewResponseResolver(f.store, booking, deduper, f.clock, f.cfg, f.metrics, f.logger)
}

func (f *fixture) sweeper() commands.SweeperCommands {
	return commands.NewSweeperCommands(f.store, f.clock, f.cfg, f.metrics, f.logger)
}

func (f *fixture) slotAt(t *testing.T, hhmm string) waitlist.TimeOfDay {
	t.Helper()
	tod, err := waitlist.ParseTimeOfDay(hhmm)
	require.NoError(t, err)
	return tod
}

// offerTo creates an offer for the fixture slot and returns its id.
func (f *fixture) offerTo(t *testing.T, entryIDs ...uuid.UUID) uuid.UUID {
	t.Helper()
	res, err := f.offerCommands().CreateOffer(t.Context(), commands.CreateOfferInput{
		ServiceID:         f.serviceID,
		Date:              slotDate,
		Time:              f.slotAt(t, "14:30"),
		DiscountPercent:   20,
		CandidateEntryIDs: entryIDs,
	})
	require.NoError(t, err)
	return res.OfferID
}

func (f *fixture) entryStatus(t *testing.T, id uuid.UUID) waitlist.EntryStatus {
	t.Helper()
	row, ok := f.store.Entry(id)
	require.True(t, ok, "entry %s missing", id)
	return row.Status
}
