package uow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"grooming-waitlist/internal/domain/appointment"
	"grooming-waitlist/internal/domain/waitlist"
	"grooming-waitlist/internal/infra/pgq"
	"grooming-waitlist/internal/infra/readstore"
	"grooming-waitlist/internal/infra/repository"
	"grooming-waitlist/internal/pkg/errs"
	"grooming-waitlist/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	errTransactionBegin  = errs.New("failed to begin transaction")
	errTransactionCommit = errs.New("failed to commit transaction")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
	q    *pgq.Queries
}

func NewPostgresUoW(pool *pgxpool.Pool, q *pgq.Queries) shared.UnitOfWork {
	return &PostgresUoW{
		pool: pool,
		q:    q,
	}
}

// ReadCommitted is enough: every contended write is a conditional UPDATE whose row count
// decides the winner.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// Read-only transaction for consistent multi-table snapshots
func (u *PostgresUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db pgq.DBTX) error) error {
	return u.runReadOnlyTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, fn)
}

func (u *PostgresUoW) WithDB(ctx context.Context, fn func(ctx context.Context, db pgq.DBTX) error) error {
	return fn(ctx, u.pool)
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return &commandReads{uow: u, dbtx: u.pool}
}

// Each attempt owns its transaction; nothing is deferred across retries.
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	return defaultRetry.run(ctx, func() error {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		if err = fn(ctx, &pgTx{dbtx: pgxTx, uow: u}); err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rbErr := pgxTx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.Warn("rollback failed", "error", rbErr.Error())
		}
		return err
	})
}

func (u *PostgresUoW) runReadOnlyTx(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, db pgq.DBTX) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, options)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	defer func() {
		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("failed to rollback read-only transaction", "error", rollbackErr.Error())
			}
		}
	}()

	if err := fn(ctx, pgxTx); err != nil {
		return err
	}

	return pgxTx.Commit(ctx)
}

type pgTx struct {
	dbtx pgq.DBTX
	uow  *PostgresUoW

	// Lazy-initialized repositories
	entryRepo        shared.WaitlistEntryRepository
	offerRepo        shared.SlotOfferRepository
	appointmentRepo  shared.AppointmentRepository
	notificationRepo shared.NotificationRepository
	idempotencyRepo  shared.IdempotencyRepository
	staffRepo        shared.StaffRepository
	commandReads     shared.CommandReads
}

func (t *pgTx) DB() pgq.DBTX {
	return t.dbtx
}

func (t *pgTx) Entries() shared.WaitlistEntryRepository {
	if t.entryRepo == nil {
		t.entryRepo = repository.NewWaitlistEntryRepository(t.uow.q, t.dbtx)
	}
	return t.entryRepo
}

func (t *pgTx) Offers() shared.SlotOfferRepository {
	if t.offerRepo == nil {
		t.offerRepo = repository.NewSlotOfferRepository(t.uow.q, t.dbtx)
	}
	return t.offerRepo
}

func (t *pgTx) Appointments() shared.AppointmentRepository {
	if t.appointmentRepo == nil {
		t.appointmentRepo = repository.NewAppointmentRepository(t.uow.q, t.dbtx)
	}
	return t.appointmentRepo
}

func (t *pgTx) Notifications() shared.NotificationRepository {
	if t.notificationRepo == nil {
		t.notificationRepo = repository.NewNotificationRepository(t.uow.q, t.dbtx)
	}
	return t.notificationRepo
}

func (t *pgTx) Idempotency() shared.IdempotencyRepository {
	if t.idempotencyRepo == nil {
		t.idempotencyRepo = repository.NewIdempotencyRepository(t.uow.q, t.dbtx)
	}
	return t.idempotencyRepo
}

func (t *pgTx) Staff() shared.StaffRepository {
	if t.staffRepo == nil {
		t.staffRepo = repository.NewStaffRepository(t.uow.q, t.dbtx)
	}
	return t.staffRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{
			uow:  t.uow,
			dbtx: t.dbtx,
		}
	}
	return t.commandReads
}

// commandReads sees the transaction's own writes when bound to a pgTx.
type commandReads struct {
	uow  *PostgresUoW
	dbtx pgq.DBTX

	// Lazy-initialized readstores
	entryStore       *readstore.WaitlistReadStore
	offerStore       *readstore.OfferReadStore
	appointmentStore *readstore.AppointmentReadStore
	catalogStore     *readstore.CatalogReadStore
	idempotencyStore *readstore.IdempotencyReadStore
}

func (r *commandReads) entries() *readstore.WaitlistReadStore {
	if r.entryStore == nil {
		r.entryStore = readstore.NewWaitlistReadStore(r.uow.q, r.dbtx)
	}
	return r.entryStore
}

func (r *commandReads) offers() *readstore.OfferReadStore {
	if r.offerStore == nil {
		r.offerStore = readstore.NewOfferReadStore(r.uow.q, r.dbtx)
	}
	return r.offerStore
}

func (r *commandReads) catalog() *readstore.CatalogReadStore {
	if r.catalogStore == nil {
		r.catalogStore = readstore.NewCatalogReadStore(r.uow.q, r.dbtx)
	}
	return r.catalogStore
}

func (r *commandReads) EntryByID(ctx context.Context, id uuid.UUID) (*waitlist.Entry, error) {
	return r.entries().FindByID(ctx, id)
}

func (r *commandReads) LatestNotifiedEntryByPhone(ctx context.Context, phone string) (*waitlist.Entry, error) {
	return r.entries().FindLatestNotifiedByPhone(ctx, phone)
}

func (r *commandReads) LatestReleasedEntryByPhone(ctx context.Context, phone string, since time.Time) (*waitlist.Entry, error) {
	return r.entries().FindLatestReleasedByPhone(ctx, phone, since)
}

func (r *commandReads) OfferByID(ctx context.Context, id uuid.UUID) (*waitlist.SlotOffer, error) {
	return r.offers().FindByID(ctx, id)
}

func (r *commandReads) ExpiredPendingOfferIDs(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	return r.offers().ExpiredPendingIDs(ctx, now, limit)
}

func (r *commandReads) AppointmentByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	if r.appointmentStore == nil {
		r.appointmentStore = readstore.NewAppointmentReadStore(r.uow.q, r.dbtx)
	}
	return r.appointmentStore.FindByID(ctx, id)
}

func (r *commandReads) ServiceByID(ctx context.Context, id uuid.UUID) (*shared.ServiceSnapshot, error) {
	return r.catalog().ServiceByID(ctx, id)
}

func (r *commandReads) CustomerByID(ctx context.Context, id uuid.UUID) (*shared.CustomerSnapshot, error) {
	return r.catalog().CustomerByID(ctx, id)
}

func (r *commandReads) IdempotencyByKey(ctx context.Context, key, staffID uuid.UUID) (*shared.IdempotencyRecord, error) {
	if r.idempotencyStore == nil {
		r.idempotencyStore = readstore.NewIdempotencyReadStore(r.uow.q, r.dbtx)
	}
	return r.idempotencyStore.Get(ctx, key, staffID)
}
