package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"grooming-waitlist/internal/domain/waitlist"
	"grooming-waitlist/internal/infra"
	"grooming-waitlist/internal/pkg/clock"
	"grooming-waitlist/internal/pkg/config"
	"grooming-waitlist/internal/pkg/errs"
	"grooming-waitlist/internal/pkg/metrics"
	"grooming-waitlist/internal/usecase/queries"
	"grooming-waitlist/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrNoEligibleEntries   = errs.New("no candidate entry was still eligible")
	ErrServiceNotFound     = errs.New("service not found")
	ErrAppointmentNotFound = errs.New("appointment not found")
	ErrIdempotencyCheck    = errs.New("idempotency check failed")
)

const openSlotEndpoint = "POST /slots/open"

type CreateOfferInput struct {
	ServiceID         uuid.UUID
	Date              time.Time
	Time              waitlist.TimeOfDay
	DiscountPercent   int
	CandidateEntryIDs []uuid.UUID
	// TTL falls back to the configured offer TTL when zero.
	TTL time.Duration
}

type OfferResult struct {
	OfferID          uuid.UUID   `json:"offer_id"`
	ExpiresAt        time.Time   `json:"expires_at"`
	NotifiedEntryIDs []uuid.UUID `json:"notified_entry_ids"`
	SkippedEntryIDs  []uuid.UUID `json:"skipped_entry_ids"`
}

type OpenSlotInput struct {
	ServiceID uuid.UUID `json:"service_id"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	// DiscountPercent falls back to the configured default when nil.
	DiscountPercent *int `json:"discount_percent,omitempty"`
}

const (
	OpenSlotOffered      = "offered"
	OpenSlotNoCandidates = "no_candidates"
)

type OpenSlotResult struct {
	Outcome    string       `json:"outcome"`
	Candidates int          `json:"candidates"`
	Offer      *OfferResult `json:"offer,omitempty"`
	IsReplayed bool         `json:"-"`
}

type CancelAppointmentResult struct {
	AppointmentID uuid.UUID
	Reoffer       *OpenSlotResult
}

type OfferCommands interface {
	CreateOffer(ctx context.Context, in CreateOfferInput) (*OfferResult, error)
	OpenSlot(ctx context.Context, in OpenSlotInput, staffID, idempotencyKey uuid.UUID) (*OpenSlotResult, error)
	CancelAppointment(ctx context.Context, appointmentID uuid.UUID) (*CancelAppointmentResult, error)
}

type offerCommandsImpl struct {
	uow     shared.UnitOfWork
	matcher queries.MatcherQueries
	clock   clock.Clock
	cfg     config.WaitlistConfig
	channel string
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewOfferCommands(
	uow shared.UnitOfWork,
	matcher queries.MatcherQueries,
	clock clock.Clock,
	cfg config.Config,
	m *metrics.Metrics,
	logger *slog.Logger,
) OfferCommands {
	return &offerCommandsImpl{
		uow:     uow,
		matcher: matcher,
		clock:   clock,
		cfg:     cfg.Waitlist,
		channel: cfg.Notifier.Channel,
		metrics: m,
		logger:  logger,
	}
}

// CreateOffer inserts the offer and claims each candidate in one transaction. Candidates
// another offer got to first are skipped; if none are left the offer is rolled back.
func (c *offerCommandsImpl) CreateOffer(ctx context.Context, in CreateOfferInput) (*OfferResult, error) {
	return c.createOffer(ctx, in, nil)
}

type afterOfferFunc func(ctx context.Context, tx shared.Tx, res *OfferResult) error

func (c *offerCommandsImpl) createOffer(ctx context.Context, in CreateOfferInput, after afterOfferFunc) (*OfferResult, error) {
	ids := uniqueIDs(in.CandidateEntryIDs)
	if len(ids) == 0 {
		return nil, errs.Mark(waitlist.ErrNoCandidatesGiven, errs.ErrDomainValidation)
	}

	slot, err := waitlist.NewSlot(in.ServiceID, in.Date, in.Time)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	ttl := in.TTL
	if ttl == 0 {
		ttl = c.cfg.OfferTTL
	}
	offer, err := waitlist.NewSlotOffer(slot, in.DiscountPercent, ttl, c.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	var result *OfferResult
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		result = &OfferResult{
			OfferID:          offer.ID(),
			ExpiresAt:        offer.ExpiresAt(),
			NotifiedEntryIDs: []uuid.UUID{},
			SkippedEntryIDs:  []uuid.UUID{},
		}

		svc, err := tx.Reads().ServiceByID(ctx, slot.ServiceID())
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrServiceNotFound
			}
			return err
		}
		if err := tx.Offers().Create(ctx, tx.DB(), offer); err != nil {
			return err
		}

		message := offerMessage(c.cfg.ShopName, svc.Name, offer)
		for _, id := range ids {
			entry, ok, err := c.notifyEntry(ctx, tx, offer, id)
			if err != nil {
				return err
			}
			if !ok {
				result.SkippedEntryIDs = append(result.SkippedEntryIDs, id)
				continue
			}
			if err := c.enqueueOffer(ctx, tx, offer, entry, message); err != nil {
				return err
			}
			result.NotifiedEntryIDs = append(result.NotifiedEntryIDs, id)
		}

		if len(result.NotifiedEntryIDs) == 0 {
			return ErrNoEligibleEntries
		}
		if after != nil {
			return after(ctx, tx, result)
		}
		return nil
	})
	if err != nil {
		if errs.Is(err, ErrNoEligibleEntries) || errs.Is(err, ErrServiceNotFound) {
			return nil, err
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	c.metrics.OffersCreated.Inc()
	c.metrics.CandidatesNotified.Add(float64(len(result.NotifiedEntryIDs)))
	c.metrics.CandidatesSkipped.Add(float64(len(result.SkippedEntryIDs)))
	c.logger.Info("slot offer created",
		"offer_id", offer.ID(),
		"service_id", slot.ServiceID(),
		"slot", slot.Label(),
		"notified", len(result.NotifiedEntryIDs),
		"skipped", len(result.SkippedEntryIDs),
	)
	return result, nil
}

// notifyEntry ties one candidate to the offer. ok is false when the entry is missing, is
// not active and unoffered for the slot's service, or another offer took it first.
func (c *offerCommandsImpl) notifyEntry(ctx context.Context, tx shared.Tx, offer *waitlist.SlotOffer, entryID uuid.UUID) (*waitlist.Entry, bool, error) {
	entry, err := tx.Reads().EntryByID(ctx, entryID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if entry.ServiceID() != offer.Slot().ServiceID() || entry.Notify(offer.ID(), offer.CreatedAt()) != nil {
		return nil, false, nil
	}

	ok, err := tx.Entries().MarkNotified(ctx, tx.DB(), entryID, offer)
	if err != nil || !ok {
		return nil, false, err
	}
	return entry, true, nil
}

func (c *offerCommandsImpl) enqueueOffer(ctx context.Context, tx shared.Tx, offer *waitlist.SlotOffer, entry *waitlist.Entry, message string) error {
	customer, err := tx.Reads().CustomerByID(ctx, entry.CustomerID())
	if err != nil {
		return err
	}

	offerID := offer.ID()
	entryID := entry.ID()
	payload, err := json.Marshal(shared.NotificationPayload{
		CustomerID: customer.ID,
		Phone:      customer.Phone,
		Message:    message,
		OfferID:    &offerID,
		EntryID:    &entryID,
	})
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, tx.DB(), shared.NotificationKindSlotOffer, c.channel, payload, offer.CreatedAt())
}

// OpenSlot matches the slot against the waitlist and broadcasts one offer to the best
// candidates. Retries with the same idempotency key replay the first response.
func (c *offerCommandsImpl) OpenSlot(ctx context.Context, in OpenSlotInput, staffID, idempotencyKey uuid.UUID) (*OpenSlotResult, error) {
	if idempotencyKey == uuid.Nil {
		return nil, errs.ErrIdempotencyKeyRequired
	}

	requestHash := c.calculateRequestHash(in)
	expiresAt := c.clock.Now().Add(c.cfg.IdempotencyTTL)

	replayed, err := c.handleIdempotency(ctx, idempotencyKey, staffID, requestHash, expiresAt)
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		replayed.IsReplayed = true
		return replayed, nil
	}

	complete := func(ctx context.Context, tx shared.Tx, res *OpenSlotResult) error {
		body, err := json.Marshal(res)
		if err != nil {
			return err
		}
		return tx.Idempotency().Complete(ctx, tx.DB(), idempotencyKey, staffID, body)
	}

	res, err := c.openSlot(ctx, in, complete)
	if err != nil {
		c.releaseIdempotencyKey(ctx, idempotencyKey, staffID)
		return nil, err
	}
	return res, nil
}

type completeFunc func(ctx context.Context, tx shared.Tx, res *OpenSlotResult) error

func (c *offerCommandsImpl) openSlot(ctx context.Context, in OpenSlotInput, complete completeFunc) (*OpenSlotResult, error) {
	date, err := waitlist.ParseDate(in.Date)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	tod, err := waitlist.ParseTimeOfDay(in.Time)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	discount := c.cfg.DefaultDiscountPercent
	if in.DiscountPercent != nil {
		discount = *in.DiscountPercent
	}

	if _, err := c.uow.CommandReads().ServiceByID(ctx, in.ServiceID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	candidates, err := c.matcher.FindCandidates(ctx, in.ServiceID, date, tod, c.cfg.BroadcastSize)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	res := &OpenSlotResult{Outcome: OpenSlotNoCandidates, Candidates: len(candidates)}
	if len(candidates) > 0 {
		ids := make([]uuid.UUID, 0, len(candidates))
		for _, cand := range candidates {
			ids = append(ids, cand.EntryID)
		}

		offerIn := CreateOfferInput{
			ServiceID:         in.ServiceID,
			Date:              date,
			Time:              tod,
			DiscountPercent:   discount,
			CandidateEntryIDs: ids,
			TTL:               c.cfg.OfferTTL,
		}
		var after afterOfferFunc
		if complete != nil {
			after = func(ctx context.Context, tx shared.Tx, offer *OfferResult) error {
				return complete(ctx, tx, &OpenSlotResult{Outcome: OpenSlotOffered, Candidates: len(candidates), Offer: offer})
			}
		}

		offer, err := c.createOffer(ctx, offerIn, after)
		switch {
		case err == nil:
			res.Outcome = OpenSlotOffered
			res.Offer = offer
			return res, nil
		case errs.Is(err, ErrNoEligibleEntries):
			// every candidate was taken by a concurrent offer
		default:
			return nil, err
		}
	}

	if complete != nil {
		err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return complete(ctx, tx, res)
		})
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	}
	return res, nil
}

// CancelAppointment cancels a booked appointment and immediately reoffers its slot.
// A failed reoffer is logged and leaves the cancellation in place.
func (c *offerCommandsImpl) CancelAppointment(ctx context.Context, appointmentID uuid.UUID) (*CancelAppointmentResult, error) {
	var slot waitlist.Slot
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		appt, err := tx.Reads().AppointmentByID(ctx, appointmentID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrAppointmentNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := appt.Cancel(); err != nil {
			return errs.Mark(err, errs.ErrInvalidStateTransition)
		}
		if slot, err = appt.Slot(); err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		ok, err := tx.Appointments().Cancel(ctx, tx.DB(), appointmentID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !ok {
			return errs.Mark(errs.Newf("appointment %s changed concurrently", appointmentID), errs.ErrInvalidStateTransition)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &CancelAppointmentResult{AppointmentID: appointmentID}
	reoffer, err := c.openSlot(ctx, OpenSlotInput{
		ServiceID: slot.ServiceID(),
		Date:      slot.Date().Format(time.DateOnly),
		Time:      slot.Time().String(),
	}, nil)
	if err != nil {
		c.logger.Error("failed to reoffer cancelled slot",
			"appointment_id", appointmentID,
			"slot", slot.Label(),
			"error", err.Error(),
		)
		return result, nil
	}
	result.Reoffer = reoffer
	return result, nil
}

func (c *offerCommandsImpl) handleIdempotency(
	ctx context.Context,
	key, staffID uuid.UUID,
	requestHash string,
	expiresAt time.Time,
) (*OpenSlotResult, error) {
	var existing *shared.IdempotencyRecord
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		existing = nil
		inserted, err := tx.Idempotency().TryInsert(ctx, tx.DB(), key, staffID, openSlotEndpoint, requestHash, expiresAt)
		if err != nil || inserted {
			return err
		}

		rec, err := tx.Reads().IdempotencyByKey(ctx, key, staffID)
		if err != nil {
			return err
		}
		if rec.ExpiresAt.Before(c.clock.Now()) {
			// a stale key is reusable; take it over for this request
			if err := tx.Idempotency().Delete(ctx, tx.DB(), key, staffID); err != nil {
				return err
			}
			_, err := tx.Idempotency().TryInsert(ctx, tx.DB(), key, staffID, openSlotEndpoint, requestHash, expiresAt)
			return err
		}
		existing = rec
		return nil
	})
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheck)
	}
	if existing == nil {
		return nil, nil
	}

	if existing.RequestHash != requestHash {
		return nil, errs.ErrIdempotencyKeyReused
	}

	switch existing.Status {
	case shared.IdempotencyStatusCompleted:
		var res OpenSlotResult
		if err := json.Unmarshal(existing.ResponseBody, &res); err != nil {
			return nil, errs.Mark(err, ErrIdempotencyCheck)
		}
		return &res, nil

	case shared.IdempotencyStatusProcessing:
		return nil, errs.ErrIdempotencyInProgress

	default:
		return nil, errs.Newf("invalid idempotency key status %q", existing.Status)
	}
}

func (c *offerCommandsImpl) releaseIdempotencyKey(ctx context.Context, key, staffID uuid.UUID) {
	err := c.uow.Within(context.WithoutCancel(ctx), func(ctx context.Context, tx shared.Tx) error {
		return tx.Idempotency().Delete(ctx, tx.DB(), key, staffID)
	})
	if err != nil {
		c.logger.Warn("failed to release idempotency key", "key", key, "error", err.Error())
	}
}

func (c *offerCommandsImpl) calculateRequestHash(in OpenSlotInput) string {
	data, _ := json.Marshal(in)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == uuid.Nil {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
