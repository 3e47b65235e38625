package shared

import (
	"context"
	"time"

	"grooming-waitlist/internal/domain/appointment"
	"grooming-waitlist/internal/domain/staff"
	"grooming-waitlist/internal/domain/waitlist"
	"grooming-waitlist/internal/infra/pgq"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db pgq.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db pgq.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Entries() WaitlistEntryRepository
	Offers() SlotOfferRepository
	Appointments() AppointmentRepository
	Notifications() NotificationRepository
	Idempotency() IdempotencyRepository
	Staff() StaffRepository
	Reads() CommandReads
	DB() pgq.DBTX
}

type CommandReads interface {
	EntryByID(ctx context.Context, id uuid.UUID) (*waitlist.Entry, error)
	LatestNotifiedEntryByPhone(ctx context.Context, phone string) (*waitlist.Entry, error)
	LatestReleasedEntryByPhone(ctx context.Context, phone string, since time.Time) (*waitlist.Entry, error)
	OfferByID(ctx context.Context, id uuid.UUID) (*waitlist.SlotOffer, error)
	ExpiredPendingOfferIDs(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	AppointmentByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error)
	ServiceByID(ctx context.Context, id uuid.UUID) (*ServiceSnapshot, error)
	CustomerByID(ctx context.Context, id uuid.UUID) (*CustomerSnapshot, error)
	IdempotencyByKey(ctx context.Context, key, staffID uuid.UUID) (*IdempotencyRecord, error)
}

// Conditional writes report whether the row was in the expected state.
// A false result with a nil error means another writer got there first.

type WaitlistEntryRepository interface {
	Create(ctx context.Context, tx pgq.DBTX, e *waitlist.Entry) error
	MarkNotified(ctx context.Context, tx pgq.DBTX, entryID uuid.UUID, offer *waitlist.SlotOffer) (bool, error)
	Release(ctx context.Context, tx pgq.DBTX, entryID, offerID uuid.UUID, next waitlist.EntryStatus) (bool, error)
	ExpireForOffer(ctx context.Context, tx pgq.DBTX, offerID uuid.UUID, except *uuid.UUID) (int64, error)
	Cancel(ctx context.Context, tx pgq.DBTX, entryID uuid.UUID) (bool, error)
	MarkUnfillable(ctx context.Context, tx pgq.DBTX, entryID uuid.UUID) (bool, error)
}

type SlotOfferRepository interface {
	Create(ctx context.Context, tx pgq.DBTX, o *waitlist.SlotOffer) error
	Claim(ctx context.Context, tx pgq.DBTX, offerID, customerID uuid.UUID, at time.Time) (bool, error)
	ReleaseClaim(ctx context.Context, tx pgq.DBTX, offerID, customerID uuid.UUID) (bool, error)
	Expire(ctx context.Context, tx pgq.DBTX, offerID uuid.UUID, now time.Time) (bool, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, tx pgq.DBTX, a *appointment.Appointment) error
	Cancel(ctx context.Context, tx pgq.DBTX, id uuid.UUID) (bool, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, tx pgq.DBTX, kind, topic string, payload []byte, runAt time.Time) error
	LeaseDue(ctx context.Context, tx pgq.DBTX, now, leaseUntil time.Time, limit int) ([]NotificationJob, error)
	Requeue(ctx context.Context, tx pgq.DBTX, jobIDs []uuid.UUID, runAt time.Time) error
	UpdateJobStatus(ctx context.Context, tx pgq.DBTX, jobID uuid.UUID, status string, lastError *string, runAt time.Time) error
}

type IdempotencyRepository interface {
	TryInsert(ctx context.Context, tx pgq.DBTX, key, staffID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	Complete(ctx context.Context, tx pgq.DBTX, key, staffID uuid.UUID, response []byte) error
	Delete(ctx context.Context, tx pgq.DBTX, key, staffID uuid.UUID) error
	PurgeExpired(ctx context.Context, tx pgq.DBTX, now time.Time) (int64, error)
}

type StaffRepository interface {
	UpdateLastLogin(ctx context.Context, tx pgq.DBTX, staffID uuid.UUID) error
	Create(ctx context.Context, tx pgq.DBTX, m *staff.Member) error
}
