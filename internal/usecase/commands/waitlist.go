package commands

import (
	"context"
	"time"

	"grooming-waitlist/internal/domain/waitlist"
	"grooming-waitlist/internal/infra"
	"grooming-waitlist/internal/infra/pgq"
	"grooming-waitlist/internal/pkg/clock"
	"grooming-waitlist/internal/pkg/errs"
	"grooming-waitlist/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrEntryNotFound    = errs.New("waitlist entry not found")
	ErrUnknownReference = errs.New("customer, pet or service does not exist")
)

type CreateEntryInput struct {
	CustomerID     uuid.UUID
	PetID          uuid.UUID
	ServiceID      uuid.UUID
	RequestedDate  time.Time
	TimePreference string
	Notes          string
}

type WaitlistCommands interface {
	CreateEntry(ctx context.Context, in CreateEntryInput) (uuid.UUID, error)
	CancelEntry(ctx context.Context, entryID uuid.UUID) error
	MarkUnfillable(ctx context.Context, entryID uuid.UUID) error
}

type waitlistCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewWaitlistCommands(uow shared.UnitOfWork, clock clock.Clock) WaitlistCommands {
	return &waitlistCommandsImpl{
		uow:   uow,
		clock: clock,
	}
}

func (c *waitlistCommandsImpl) CreateEntry(ctx context.Context, in CreateEntryInput) (uuid.UUID, error) {
	pref, err := waitlist.NewTimePreference(in.TimePreference)
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	entry, err := waitlist.NewEntry(in.CustomerID, in.PetID, in.ServiceID, in.RequestedDate, pref, in.Notes, c.clock.Now())
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Entries().Create(ctx, tx.DB(), entry)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindForeignKeyViolated) {
			return uuid.Nil, errs.Mark(err, ErrUnknownReference)
		}
		return uuid.Nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return entry.ID(), nil
}

// CancelEntry withdraws a customer's request. A notified entry drops its offer; other
// recipients keep theirs.
func (c *waitlistCommandsImpl) CancelEntry(ctx context.Context, entryID uuid.UUID) error {
	return c.finish(ctx, entryID, (*waitlist.Entry).Cancel, shared.WaitlistEntryRepository.Cancel)
}

func (c *waitlistCommandsImpl) MarkUnfillable(ctx context.Context, entryID uuid.UUID) error {
	return c.finish(ctx, entryID, (*waitlist.Entry).MarkUnfillable, shared.WaitlistEntryRepository.MarkUnfillable)
}

func (c *waitlistCommandsImpl) finish(
	ctx context.Context,
	entryID uuid.UUID,
	check func(*waitlist.Entry) error,
	write func(shared.WaitlistEntryRepository, context.Context, pgq.DBTX, uuid.UUID) (bool, error),
) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entry, err := tx.Reads().EntryByID(ctx, entryID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrEntryNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := check(entry); err != nil {
			return errs.Mark(err, errs.ErrInvalidStateTransition)
		}

		ok, err := write(tx.Entries(), ctx, tx.DB(), entryID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !ok {
			return errs.Mark(errs.Newf("entry %s changed concurrently", entryID), errs.ErrInvalidStateTransition)
		}
		return nil
	})
}
