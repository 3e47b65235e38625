//go:build e2e

package offer_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	nethttptest "net/http/httptest"
	"sync"
	"testing"
	"time"

	"grooming-waitlist/internal/handler/api"
	"grooming-waitlist/internal/handler/dto/request"
	"grooming-waitlist/internal/infra/pgq"
	"grooming-waitlist/internal/usecase/commands"
	"grooming-waitlist/internal/usecase/queries"
	"grooming-waitlist/tests/common/authtest"
	"grooming-waitlist/tests/common/dbtest"
	"grooming-waitlist/tests/common/httptest"
	"grooming-waitlist/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	openSlotURL = "/api/admin/slots/open"
	offersURL   = "/api/admin/offers"
	sweepURL    = "/api/admin/offers/sweep"
	webhookURL  = "/api/webhooks/sms"
)

type openSlotBody struct {
	Outcome    string                `json:"outcome"`
	Candidates int                   `json:"candidates"`
	Offer      *commands.OfferResult `json:"offer"`
	Replayed   bool                  `json:"replayed"`
}

type cancelBody struct {
	AppointmentID uuid.UUID     `json:"appointment_id"`
	Status        string        `json:"status"`
	Reoffer       *openSlotBody `json:"reoffer"`
}

type offerSuite struct {
	e2e.SharedSuite
	token     string
	manager   string
	serviceID uuid.UUID
	slotDate  time.Time
}

func TestOfferSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(offerSuite))
}

func (s *offerSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
	t := s.T()

	s.token = authtest.CreateAndLogin(t, s.DB, s.Router, "front@salon.test", "receptionist")
	s.manager = authtest.CreateAndLogin(t, s.DB, s.Router, "manager@salon.test", "manager")
	s.serviceID = dbtest.ServiceID(t, s.DB, dbtest.FullGroomService)
	s.slotDate = time.Now().UTC().AddDate(0, 0, 5).Truncate(24 * time.Hour)
}

// seedQueue adds n active entries for the slot date, oldest first.
func (s *offerSuite) seedQueue(n int) ([]dbtest.Customer, []uuid.UUID) {
	t := s.T()
	customers := make([]dbtest.Customer, 0, n)
	entries := make([]uuid.UUID, 0, n)
	for i := range n {
		c := dbtest.CreateTestCustomer(t, s.DB, fmt.Sprintf("Owner %d", i), fmt.Sprintf("555-040-00%02d", i))
		customers = append(customers, c)
		entries = append(entries, dbtest.CreateTestEntry(t, s.DB, c, s.serviceID, s.slotDate, time.Duration(n-i)*time.Hour))
	}
	return customers, entries
}

func (s *offerSuite) openSlot(key uuid.UUID, slotTime string) (int, openSlotBody) {
	t := s.T()
	w := httptest.Do(t, s.Router, http.MethodPost, openSlotURL, request.OpenSlotRequest{
		ServiceID: s.serviceID,
		Date:      s.slotDate.Format(time.DateOnly),
		Time:      slotTime,
	}, httptest.WithBearer(s.token), httptest.WithHeader(api.IdempotencyKeyHeader, key.String()))

	var body openSlotBody
	if w.Code < 300 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	}
	return w.Code, body
}

func (s *offerSuite) reply(c dbtest.Customer, text, messageID string) (int, commands.Resolution) {
	t := s.T()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, webhookURL,
		request.InboundSMSRequest{Phone: c.Phone, Body: text, MessageID: messageID}, "")

	var res commands.Resolution
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return w.Code, res
}

func (s *offerSuite) countAppointments(offerID uuid.UUID) int {
	var n int
	require.NoError(s.T(), s.DB.QueryRow(s.T().Context(),
		"SELECT count(*) FROM appointments WHERE offer_id = $1 AND status = 'booked'", offerID).Scan(&n))
	return n
}

func (s *offerSuite) TestOpenSlot() {
	s.Run("offers the oldest entries and replays on retry", func() {
		t := s.T()
		_, entries := s.seedQueue(4)
		key := uuid.New()

		status, first := s.openSlot(key, "10:00")
		require.Equal(t, http.StatusCreated, status)
		require.Equal(t, commands.OpenSlotOffered, first.Outcome)
		require.False(t, first.Replayed)
		require.NotNil(t, first.Offer)
		require.ElementsMatch(t, entries[:s.Config.Waitlist.BroadcastSize], first.Offer.NotifiedEntryIDs)
		require.Equal(t, "active", dbtest.EntryStatus(t, s.DB, entries[3]))

		status, again := s.openSlot(key, "10:00")
		require.Equal(t, http.StatusOK, status)
		require.True(t, again.Replayed)
		require.Equal(t, first.Offer.OfferID, again.Offer.OfferID)

		var offers int
		require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT count(*) FROM slot_offers").Scan(&offers))
		require.Equal(t, 1, offers)

		var jobs int
		require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT count(*) FROM notification_jobs").Scan(&jobs))
		require.Equal(t, s.Config.Waitlist.BroadcastSize, jobs)
	})

	s.Run("leased notifications are not leased twice", func() {
		t := s.T()
		s.seedQueue(2)
		status, _ := s.openSlot(uuid.New(), "10:00")
		require.Equal(t, http.StatusCreated, status)

		q := pgq.New()
		at := time.Now().Add(24 * time.Hour)
		lease := pgq.LeaseDueNotificationJobsParams{Now: at, LeaseUntil: at.Add(time.Minute), Limit: 10}
		leased, err := q.LeaseDueNotificationJobs(t.Context(), s.DB, lease)
		require.NoError(t, err)
		require.Len(t, leased, 2)

		again, err := q.LeaseDueNotificationJobs(t.Context(), s.DB, lease)
		require.NoError(t, err)
		require.Empty(t, again)

		rows, err := q.RequeueNotificationJobs(t.Context(), s.DB, pgq.RequeueNotificationJobsParams{
			IDs:   []uuid.UUID{leased[0].ID},
			RunAt: at,
		})
		require.NoError(t, err)
		require.Equal(t, int64(1), rows)

		var sending int
		require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT count(*) FROM notification_jobs WHERE status = 'sending'").Scan(&sending))
		require.Equal(t, 1, sending)

		after, err := q.LeaseDueNotificationJobs(t.Context(), s.DB, lease)
		require.NoError(t, err)
		require.Len(t, after, 1)
		require.Equal(t, leased[0].ID, after[0].ID)
	})

	s.Run("same key with a different slot is refused", func() {
		t := s.T()
		s.seedQueue(1)
		key := uuid.New()

		status, _ := s.openSlot(key, "10:00")
		require.Equal(t, http.StatusCreated, status)
		status, _ = s.openSlot(key, "15:00")
		require.Equal(t, http.StatusUnprocessableEntity, status)
	})

	s.Run("empty queue reports no candidates", func() {
		t := s.T()
		status, body := s.openSlot(uuid.New(), "10:00")
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, commands.OpenSlotNoCandidates, body.Outcome)
		require.Nil(t, body.Offer)
	})

	s.Run("missing idempotency key", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, openSlotURL, request.OpenSlotRequest{
			ServiceID: s.serviceID,
			Date:      s.slotDate.Format(time.DateOnly),
			Time:      "10:00",
		}, s.token)
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Idempotency-Key header required")
	})
}

func (s *offerSuite) TestCreateOffer() {
	s.Run("skips entries that are not active", func() {
		t := s.T()
		_, entries := s.seedQueue(2)
		_, err := s.DB.Exec(t.Context(), "UPDATE waitlist_entries SET status = 'cancelled' WHERE id = $1", entries[1])
		require.NoError(t, err)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, offersURL, request.CreateOfferRequest{
			ServiceID:         s.serviceID,
			Date:              s.slotDate.Format(time.DateOnly),
			Time:              "11:30",
			DiscountPercent:   15,
			CandidateEntryIDs: entries,
		}, s.token)
		var res commands.OfferResult
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &res)
		require.Equal(t, []uuid.UUID{entries[0]}, res.NotifiedEntryIDs)
		require.Equal(t, []uuid.UUID{entries[1]}, res.SkippedEntryIDs)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, offersURL+"/"+res.OfferID.String(), nil, s.token)
		var view queries.SlotOfferView
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &view)
		require.Equal(t, "pending", view.Status)
		require.Equal(t, 15, view.DiscountPercent)
		require.Len(t, view.Recipients, 1)
		require.Equal(t, "notified", view.Recipients[0].Status)
	})

	s.Run("no eligible candidates", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, offersURL, request.CreateOfferRequest{
			ServiceID:         s.serviceID,
			Date:              s.slotDate.Format(time.DateOnly),
			Time:              "11:30",
			CandidateEntryIDs: []uuid.UUID{uuid.New()},
		}, s.token)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})
}

func (s *offerSuite) TestReplies() {
	s.Run("first yes books and the rest are released", func() {
		t := s.T()
		customers, entries := s.seedQueue(3)
		_, opened := s.openSlot(uuid.New(), "10:00")
		offerID := opened.Offer.OfferID

		status, res := s.reply(customers[1], "yes", "SM-100")
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, commands.ActionBooked, res.Action)
		require.NotNil(t, res.AppointmentID)
		require.Equal(t, entries[1], *res.EntryID)

		require.Equal(t, "booked", dbtest.EntryStatus(t, s.DB, entries[1]))
		require.Equal(t, "expired_offer", dbtest.EntryStatus(t, s.DB, entries[0]))
		require.Equal(t, "expired_offer", dbtest.EntryStatus(t, s.DB, entries[2]))
		require.Equal(t, 1, s.countAppointments(offerID))

		// the loser's entry was released, but the reply still points at the offer
		status, late := s.reply(customers[0], "YES", "SM-101")
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, commands.ActionSlotFilled, late.Action)
		require.NotNil(t, late.OfferID)
		require.Equal(t, offerID, *late.OfferID)
		require.Equal(t, 1, s.countAppointments(offerID))
	})

	s.Run("redelivered message gets the first answer", func() {
		t := s.T()
		customers, _ := s.seedQueue(1)
		s.openSlot(uuid.New(), "10:00")

		_, first := s.reply(customers[0], "Yes!", "SM-200")
		require.Equal(t, commands.ActionBooked, first.Action)

		_, again := s.reply(customers[0], "Yes!", "SM-200")
		require.Equal(t, first, again)
	})

	s.Run("anything but yes is not understood", func() {
		t := s.T()
		customers, entries := s.seedQueue(1)
		s.openSlot(uuid.New(), "10:00")

		_, res := s.reply(customers[0], "maybe later", "SM-300")
		require.Equal(t, commands.ActionInvalid, res.Action)
		require.Equal(t, "notified", dbtest.EntryStatus(t, s.DB, entries[0]))
	})

	s.Run("unknown phone", func() {
		t := s.T()
		_, res := s.reply(dbtest.Customer{Phone: "555-999-9999"}, "yes", "")
		require.Equal(t, commands.ActionInvalid, res.Action)
	})

	s.Run("reply after the deadline", func() {
		t := s.T()
		customers, entries := s.seedQueue(1)
		_, opened := s.openSlot(uuid.New(), "10:00")
		dbtest.ExpireOffer(t, s.DB, opened.Offer.OfferID)

		_, res := s.reply(customers[0], "yes", "SM-400")
		require.Equal(t, commands.ActionExpired, res.Action)
		require.Equal(t, "expired_offer", dbtest.EntryStatus(t, s.DB, entries[0]))
		require.Zero(t, s.countAppointments(opened.Offer.OfferID))
	})

	s.Run("a claim after the deadline changes nothing", func() {
		t := s.T()
		customers, _ := s.seedQueue(1)
		_, opened := s.openSlot(uuid.New(), "10:00")
		dbtest.ExpireOffer(t, s.DB, opened.Offer.OfferID)

		n, err := pgq.New().ClaimSlotOffer(t.Context(), s.DB, pgq.ClaimSlotOfferParams{
			ID:         opened.Offer.OfferID,
			CustomerID: customers[0].ID,
			AcceptedAt: time.Now(),
		})
		require.NoError(t, err)
		require.Zero(t, n)

		var status string
		require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT status FROM slot_offers WHERE id = $1", opened.Offer.OfferID).Scan(&status))
		require.Equal(t, "pending", status)
	})
}

func (s *offerSuite) TestConcurrentAcceptance() {
	s.Run("exactly one of simultaneous replies books", func() {
		t := s.T()
		customers, _ := s.seedQueue(3)
		_, opened := s.openSlot(uuid.New(), "10:00")

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			actions []commands.ResolutionAction
		)
		for i, c := range customers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				raw, _ := json.Marshal(request.InboundSMSRequest{Phone: c.Phone, Body: "YES", MessageID: fmt.Sprintf("SM-race-%d", i)})
				req := nethttptest.NewRequest(http.MethodPost, webhookURL, bytes.NewReader(raw))
				req.Header.Set("Content-Type", "application/json")
				w := nethttptest.NewRecorder()
				s.Router.ServeHTTP(w, req)

				var res commands.Resolution
				_ = json.Unmarshal(w.Body.Bytes(), &res)
				mu.Lock()
				actions = append(actions, res.Action)
				mu.Unlock()
			}()
		}
		wg.Wait()

		booked := 0
		for _, a := range actions {
			if a == commands.ActionBooked {
				booked++
				continue
			}
			require.Equal(t, commands.ActionSlotFilled, a)
		}
		require.Equal(t, 1, booked)
		require.Equal(t, 1, s.countAppointments(opened.Offer.OfferID))

		var status string
		require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT status FROM slot_offers WHERE id = $1", opened.Offer.OfferID).Scan(&status))
		require.Equal(t, "accepted", status)
	})
}

func (s *offerSuite) TestAdminBook() {
	s.Run("staff books for a notified entry", func() {
		t := s.T()
		customers, entries := s.seedQueue(2)
		_, opened := s.openSlot(uuid.New(), "10:00")
		bookURL := offersURL + "/" + opened.Offer.OfferID.String() + "/book"

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookURL, request.AdminBookRequest{EntryID: entries[0]}, s.token)
		var res commands.Resolution
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
		require.Equal(t, commands.ActionBooked, res.Action)

		// the other entry was released with the winner's booking
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, bookURL, request.AdminBookRequest{EntryID: entries[1]}, s.token)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

		_, late := s.reply(customers[1], "yes", "SM-500")
		require.Equal(t, commands.ActionSlotFilled, late.Action)
	})

	s.Run("entry outside the offer", func() {
		t := s.T()
		_, entries := s.seedQueue(1)
		_, opened := s.openSlot(uuid.New(), "10:00")
		stranger := dbtest.CreateTestEntry(t, s.DB,
			dbtest.CreateTestCustomer(t, s.DB, "Late", "555-050-0001"), s.serviceID, s.slotDate, time.Minute)
		require.NotEqual(t, entries[0], stranger)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			offersURL+"/"+opened.Offer.OfferID.String()+"/book", request.AdminBookRequest{EntryID: stranger}, s.token)
		require.Equal(t, http.StatusConflict, w.Code)
	})
}

func (s *offerSuite) TestSweep() {
	s.Run("expired offers release their entries", func() {
		t := s.T()
		customers, entries := s.seedQueue(2)
		_, opened := s.openSlot(uuid.New(), "10:00")
		dbtest.ExpireOffer(t, s.DB, opened.Offer.OfferID)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, sweepURL, nil, s.manager)
		var res commands.SweepResult
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
		require.Equal(t, 1, res.ExpiredOffers)
		require.Equal(t, 2, res.ExpiredWaitlistEntries)
		require.Empty(t, res.Errors)

		for _, id := range entries {
			require.Equal(t, "expired_offer", dbtest.EntryStatus(t, s.DB, id))
		}

		_, late := s.reply(customers[0], "yes", "SM-600")
		require.Equal(t, commands.ActionExpired, late.Action)
		require.Contains(t, late.Message, "expired")

		// a second pass has nothing left to do
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, sweepURL, nil, s.manager)
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
		require.Zero(t, res.ExpiredOffers)
	})

	s.Run("open offers are left alone", func() {
		t := s.T()
		_, entries := s.seedQueue(1)
		s.openSlot(uuid.New(), "10:00")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, sweepURL, nil, s.manager)
		var res commands.SweepResult
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
		require.Zero(t, res.ExpiredOffers)
		require.Equal(t, "notified", dbtest.EntryStatus(t, s.DB, entries[0]))
	})
}

func (s *offerSuite) TestCancelAppointment() {
	s.Run("cancelling reoffers the slot", func() {
		t := s.T()
		customers, _ := s.seedQueue(1)
		s.openSlot(uuid.New(), "10:00")
		_, booked := s.reply(customers[0], "yes", "SM-700")
		require.Equal(t, commands.ActionBooked, booked.Action)

		next := dbtest.CreateTestCustomer(t, s.DB, "Next", "555-060-0001")
		nextEntry := dbtest.CreateTestEntry(t, s.DB, next, s.serviceID, s.slotDate, time.Minute)

		url := "/api/admin/appointments/" + booked.AppointmentID.String() + "/cancel"
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, s.token)
		var res cancelBody
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
		require.Equal(t, "cancelled", res.Status)
		require.NotNil(t, res.Reoffer)
		require.Equal(t, commands.OpenSlotOffered, res.Reoffer.Outcome)
		require.Equal(t, []uuid.UUID{nextEntry}, res.Reoffer.Offer.NotifiedEntryIDs)
		require.Equal(t, "notified", dbtest.EntryStatus(t, s.DB, nextEntry))

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, s.token)
		require.Equal(t, http.StatusConflict, w.Code)
	})

	s.Run("unknown appointment", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			"/api/admin/appointments/"+uuid.NewString()+"/cancel", nil, s.token)
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Appointment not found")
	})
}
