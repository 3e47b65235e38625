package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"grooming-waitlist/internal/domain/waitlist"
	"grooming-waitlist/internal/infra"
	"grooming-waitlist/internal/pkg/clock"
	"grooming-waitlist/internal/pkg/config"
	"grooming-waitlist/internal/pkg/errs"
	"grooming-waitlist/internal/pkg/metrics"
	"grooming-waitlist/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrEntryNotOnOffer = errs.New("entry is not holding this offer")

const compensationTimeout = 10 * time.Second

type ResolutionAction string

const (
	ActionBooked     ResolutionAction = "booked"
	ActionSlotFilled ResolutionAction = "slot_filled"
	ActionExpired    ResolutionAction = "expired"
	ActionInvalid    ResolutionAction = "invalid"
	ActionError      ResolutionAction = "error"
)

type InboundMessage struct {
	Phone     string
	Body      string
	MessageID string
}

type Resolution struct {
	Action        ResolutionAction `json:"action"`
	Message       string           `json:"message"`
	OfferID       *uuid.UUID       `json:"offer_id,omitempty"`
	EntryID       *uuid.UUID       `json:"entry_id,omitempty"`
	AppointmentID *uuid.UUID       `json:"appointment_id,omitempty"`
}

// InboundDeduper remembers resolutions by provider message id so redelivered webhooks
// get the first answer back.
type InboundDeduper interface {
	Lookup(ctx context.Context, messageID string) ([]byte, bool, error)
	Remember(ctx context.Context, messageID string, resolution []byte) error
}

type ResponseResolver interface {
	ResolveResponse(ctx context.Context, msg InboundMessage) (*Resolution, error)
	AdminBook(ctx context.Context, offerID, entryID uuid.UUID) (*Resolution, error)
}

type responseResolverImpl struct {
	uow             shared.UnitOfWork
	booking         BookingEffector
	deduper         InboundDeduper
	clock           clock.Clock
	shopName        string
	lateReplyWindow time.Duration
	metrics         *metrics.Metrics
	logger          *slog.Logger
}

func NewResponseResolver(
	uow shared.UnitOfWork,
	booking BookingEffector,
	deduper InboundDeduper,
	clock clock.Clock,
	cfg config.Config,
	m *metrics.Metrics,
	logger *slog.Logger,
) ResponseResolver {
	return &responseResolverImpl{
		uow:             uow,
		booking:         booking,
		deduper:         deduper,
		clock:           clock,
		shopName:        cfg.Waitlist.ShopName,
		lateReplyWindow: cfg.Waitlist.LateReplyWindow,
		metrics:         m,
		logger:          logger,
	}
}

// ResolveResponse arbitrates a customer's reply. Only the first acceptance of an offer
// books; everyone else is told whether the slot was taken or the offer expired. The
// returned error is set only with ActionError.
func (r *responseResolverImpl) ResolveResponse(ctx context.Context, msg InboundMessage) (*Resolution, error) {
	if cached, ok := r.lookup(ctx, msg.MessageID); ok {
		return cached, nil
	}

	res, err := r.resolve(ctx, msg)
	r.metrics.IncResolution(string(res.Action))
	if err == nil {
		r.remember(ctx, msg.MessageID, res)
	}
	return res, err
}

func (r *responseResolverImpl) resolve(ctx context.Context, msg InboundMessage) (*Resolution, error) {
	if !waitlist.IsAcceptance(msg.Body) {
		return &Resolution{Action: ActionInvalid, Message: notUnderstoodMessage}, nil
	}
	phone, err := waitlist.NormalizePhone(msg.Phone)
	if err != nil {
		return &Resolution{Action: ActionInvalid, Message: noPendingOfferMessage}, nil
	}

	entry, err := r.uow.CommandReads().LatestNotifiedEntryByPhone(ctx, phone)
	if err == nil {
		return r.arbitrate(ctx, entry)
	}
	if !infra.IsKind(err, infra.KindNotFound) {
		return errorResolution(), errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return r.lateReply(ctx, phone)
}

// lateReply answers a YES from a customer whose entry already left its offer, because a
// sibling booked it or it expired. Anything older than the late reply window has no offer.
func (r *responseResolverImpl) lateReply(ctx context.Context, phone string) (*Resolution, error) {
	noOffer := &Resolution{Action: ActionInvalid, Message: noPendingOfferMessage}
	now := r.clock.Now()

	entry, err := r.uow.CommandReads().LatestReleasedEntryByPhone(ctx, phone, now.Add(-r.lateReplyWindow))
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return noOffer, nil
		}
		return errorResolution(), errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if entry.LastOfferID() == nil {
		return noOffer, nil
	}

	offer, err := r.uow.CommandReads().OfferByID(ctx, *entry.LastOfferID())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return noOffer, nil
		}
		return errorResolution(), errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	var action ResolutionAction
	switch {
	case offer.Status() == waitlist.OfferStatusAccepted && !acceptedBy(offer, entry.CustomerID()):
		action = ActionSlotFilled
	case offer.Status() == waitlist.OfferStatusExpired || offer.IsExpiredAt(now):
		action = ActionExpired
	default:
		return noOffer, nil
	}
	r.logger.Info("reply after entry left the offer",
		"offer_id", offer.ID(),
		"entry_id", entry.ID(),
		"action", action,
	)
	return lostResolution(action, offer, entry.ID()), nil
}

// AdminBook lets staff accept on behalf of a notified entry. It races the customers'
// own replies under the same rules.
func (r *responseResolverImpl) AdminBook(ctx context.Context, offerID, entryID uuid.UUID) (*Resolution, error) {
	entry, err := r.uow.CommandReads().EntryByID(ctx, entryID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !entry.IsNotifiedFor(offerID) {
		return nil, errs.Mark(ErrEntryNotOnOffer, errs.ErrInvalidStateTransition)
	}

	res, err := r.arbitrate(ctx, entry)
	r.metrics.IncResolution(string(res.Action))
	return res, err
}

func (r *responseResolverImpl) arbitrate(ctx context.Context, entry *waitlist.Entry) (*Resolution, error) {
	offerID := *entry.OfferID()
	entryID := entry.ID()
	customerID := entry.CustomerID()
	logger := r.logger.With("offer_id", offerID, "entry_id", entryID)
	now := r.clock.Now()

	var (
		offer    *waitlist.SlotOffer
		claimErr error
	)
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		offer, err = tx.Reads().OfferByID(ctx, offerID)
		if err != nil {
			return err
		}
		if claimErr = offer.Accept(customerID, now); claimErr != nil {
			return nil
		}
		won, err := tx.Offers().Claim(ctx, tx.DB(), offerID, customerID, now)
		if err != nil || won {
			return err
		}
		// another claim or the sweeper committed after the read
		claimErr = waitlist.ErrOfferNotPending
		offer, err = tx.Reads().OfferByID(ctx, offerID)
		return err
	})
	if err != nil {
		return errorResolution(), errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if claimErr != nil {
		action := ActionSlotFilled
		if errs.Is(claimErr, waitlist.ErrOfferExpired) || offer.Status() == waitlist.OfferStatusExpired {
			action = ActionExpired
		}
		if err := r.releaseEntry(ctx, entry, offerID); err != nil {
			return errorResolution(), err
		}
		logger.Info("reply lost the offer", "action", action)
		return lostResolution(action, offer, entryID), nil
	}

	appt, err := r.booking.BookFromOffer(ctx, offer, entry)
	if err != nil {
		r.compensate(ctx, offerID, customerID, err)
		return errorResolution(), errs.Wrap(err, "booking after offer claim")
	}

	apptID := appt.ID()
	logger.Info("offer booked", "appointment_id", apptID)
	return &Resolution{
		Action:        ActionBooked,
		Message:       bookedMessage(r.shopName, offer.Slot()),
		OfferID:       &offerID,
		EntryID:       &entryID,
		AppointmentID: &apptID,
	}, nil
}

// releaseEntry moves a losing entry off the offer. Zero rows is fine: the winner's
// booking may already have expired it.
func (r *responseResolverImpl) releaseEntry(ctx context.Context, entry *waitlist.Entry, offerID uuid.UUID) error {
	if err := entry.ExpireOffer(offerID); err != nil {
		return nil
	}
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Entries().Release(ctx, tx.DB(), entry.ID(), offerID, entry.Status())
		return err
	})
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

// compensate reverts a claim whose booking failed so the offer is pending again.
func (r *responseResolverImpl) compensate(ctx context.Context, offerID, customerID uuid.UUID, cause error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	var released bool
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		released = false
		offer, err := tx.Reads().OfferByID(ctx, offerID)
		if err != nil {
			return err
		}
		if offer.ReleaseClaim(customerID) != nil {
			return nil
		}
		released, err = tx.Offers().ReleaseClaim(ctx, tx.DB(), offerID, customerID)
		return err
	})
	if err == nil && released {
		r.logger.Warn("offer claim reverted after booking failure",
			"offer_id", offerID,
			"customer_id", customerID,
			"booking_error", cause.Error(),
		)
		return
	}

	r.metrics.CompensationFailures.Inc()
	attrs := []any{
		"fatal_inconsistency", true,
		"offer_id", offerID,
		"customer_id", customerID,
		"booking_error", cause.Error(),
	}
	if err != nil {
		attrs = append(attrs, "error", err.Error())
	}
	r.logger.Error("offer left accepted without an appointment", attrs...)
}

func (r *responseResolverImpl) lookup(ctx context.Context, messageID string) (*Resolution, bool) {
	if r.deduper == nil || messageID == "" {
		return nil, false
	}
	raw, ok, err := r.deduper.Lookup(ctx, messageID)
	if err != nil {
		r.logger.Warn("inbound dedupe lookup failed", "message_id", messageID, "error", err.Error())
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var res Resolution
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, false
	}
	return &res, true
}

func (r *responseResolverImpl) remember(ctx context.Context, messageID string, res *Resolution) {
	if r.deduper == nil || messageID == "" {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := r.deduper.Remember(ctx, messageID, raw); err != nil {
		r.logger.Warn("inbound dedupe store failed", "message_id", messageID, "error", err.Error())
	}
}

func errorResolution() *Resolution {
	return &Resolution{Action: ActionError, Message: internalErrorMessage}
}

func lostResolution(action ResolutionAction, offer *waitlist.SlotOffer, entryID uuid.UUID) *Resolution {
	offerID := offer.ID()
	res := &Resolution{Action: action, Message: slotFilledMessage, OfferID: &offerID, EntryID: &entryID}
	if action == ActionExpired {
		res.Message = expiredMessage(offer.ExpiresAt())
	}
	return res
}

func acceptedBy(offer *waitlist.SlotOffer, customerID uuid.UUID) bool {
	return offer.AcceptedBy() != nil && *offer.AcceptedBy() == customerID
}
