//go:build unit

// Package fakeuow is an in-memory shared.UnitOfWork for use case tests. Conditional writes
// follow the same row predicates as the SQL in internal/infra/pgq, and Within serializes
// transactions behind one lock so concurrent callers race the way row locks make them race.
package fakeuow

import (
	"context"
	"sort"
	"sync"
	"time"

	"grooming-waitlist/internal/domain/staff"
	"grooming-waitlist/internal/domain/waitlist"
	"grooming-waitlist/internal/infra/pgq"
	"grooming-waitlist/internal/usecase/shared"

	"github.com/google/uuid"
)

type Op string

const (
	OpCreateAppointment Op = "appointments.create"
	OpReleaseClaim      Op = "offers.release_claim"
	OpClaimOffer        Op = "offers.claim"
	OpExpireOffer       Op = "offers.expire"
	OpCreateJob         Op = "notifications.create"
	OpUpdateJob         Op = "notifications.update_status"
	OpCompleteKey       Op = "idempotency.complete"
)

type EntryRow struct {
	ID            uuid.UUID
	CustomerID    uuid.UUID
	PetID         uuid.UUID
	ServiceID     uuid.UUID
	RequestedDate time.Time
	Preference    waitlist.TimePreference
	Notes         string
	Status        waitlist.EntryStatus
	OfferID       *uuid.UUID
	LastOfferID   *uuid.UUID
	NotifiedAt    *time.Time
	CreatedAt     time.Time
}

type OfferRow struct {
	ID              uuid.UUID
	Slot            waitlist.Slot
	DiscountPercent int
	ExpiresAt       time.Time
	Status          waitlist.OfferStatus
	AcceptedBy      *uuid.UUID
	AcceptedAt      *time.Time
	CreatedAt       time.Time
}

type AppointmentRow struct {
	ID              uuid.UUID
	CustomerID      uuid.UUID
	PetID           uuid.UUID
	ServiceID       uuid.UUID
	OfferID         *uuid.UUID
	WaitlistEntryID *uuid.UUID
	Date            time.Time
	StartMinutes    int
	DurationMin     int
	ListPriceCents  int64
	PriceCents      int64
	DiscountPercent int
	Status          string
	CreatedAt       time.Time
}

type CustomerRow struct {
	ID              uuid.UUID
	Name            string
	Phone           string
	PhoneNormalized string
}

type PetRow struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Name       string
}

type JobRow struct {
	ID        uuid.UUID
	Kind      string
	Topic     string
	Payload   []byte
	Status    string
	Attempts  int
	LastError *string
	RunAt     time.Time
}

type StaffRow struct {
	ID           uuid.UUID
	Email        string
	DisplayName  string
	PasswordHash string
	Role         staff.Role
	IsActive     bool
	LastLogin    *time.Time
}

type keyID struct {
	key     uuid.UUID
	staffID uuid.UUID
}

type tables struct {
	entries      map[uuid.UUID]EntryRow
	offers       map[uuid.UUID]OfferRow
	appointments map[uuid.UUID]AppointmentRow
	services     map[uuid.UUID]shared.ServiceSnapshot
	customers    map[uuid.UUID]CustomerRow
	pets         map[uuid.UUID]PetRow
	jobs         []JobRow
	keys         map[keyID]shared.IdempotencyRecord
	staff        map[uuid.UUID]StaffRow
}

func (t tables) clone() tables {
	return tables{
		entries:      cloneMap(t.entries),
		offers:       cloneMap(t.offers),
		appointments: cloneMap(t.appointments),
		services:     cloneMap(t.services),
		customers:    cloneMap(t.customers),
		pets:         cloneMap(t.pets),
		jobs:         append([]JobRow(nil), t.jobs...),
		keys:         cloneMap(t.keys),
		staff:        cloneMap(t.staff),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Store holds every table and implements shared.UnitOfWork over them.
type Store struct {
	mu       sync.Mutex
	data     tables
	failures map[Op]error
	commits  int
	rollback int
}

var _ shared.UnitOfWork = (*Store)(nil)

func New() *Store {
	return &Store{
		data: tables{
			entries:      map[uuid.UUID]EntryRow{},
			offers:       map[uuid.UUID]OfferRow{},
			appointments: map[uuid.UUID]AppointmentRow{},
			services:     map[uuid.UUID]shared.ServiceSnapshot{},
			customers:    map[uuid.UUID]CustomerRow{},
			pets:         map[uuid.UUID]PetRow{},
			keys:         map[keyID]shared.IdempotencyRecord{},
			staff:        map[uuid.UUID]StaffRow{},
		},
		failures: map[Op]error{},
	}
}

// FailOn makes every later call of op return err until cleared with a nil err.
func (s *Store) FailOn(op Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

func (s *Store) fail(op Op) error {
	return s.failures[op]
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	snap := s.data.clone()
	if err := fn(ctx, &fakeTx{s: s}); err != nil {
		s.data = snap
		s.rollback++
		return err
	}
	s.commits++
	return nil
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db pgq.DBTX) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx, nil)
}

func (s *Store) WithDB(ctx context.Context, fn func(ctx context.Context, db pgq.DBTX) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx, nil)
}

func (s *Store) CommandReads() shared.CommandReads {
	return lockedReads{s: s}
}

// Commits and Rollbacks count finished Within calls.
func (s *Store) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

func (s *Store) Rollbacks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rollback
}

type fakeTx struct {
	s *Store
}

func (t *fakeTx) Entries() shared.WaitlistEntryRepository      { return entryRepo{s: t.s} }
func (t *fakeTx) Offers() shared.SlotOfferRepository           { return offerRepo{s: t.s} }
func (t *fakeTx) Appointments() shared.AppointmentRepository   { return appointmentRepo{s: t.s} }
func (t *fakeTx) Notifications() shared.NotificationRepository { return notificationRepo{s: t.s} }
func (t *fakeTx) Idempotency() shared.IdempotencyRepository    { return idempotencyRepo{s: t.s} }
func (t *fakeTx) Staff() shared.StaffRepository                { return staffRepo{s: t.s} }
func (t *fakeTx) Reads() shared.CommandReads                   { return reads{s: t.s} }
func (t *fakeTx) DB() pgq.DBTX                                 { return nil }

// Seeding and inspection. These take the lock themselves; do not call them from inside
// a Within callback.

func (s *Store) AddService(name string, listPriceCents int64, durationMin int) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.data.services[id] = shared.ServiceSnapshot{ID: id, Name: name, ListPriceCents: listPriceCents, DurationMin: durationMin}
	return id
}

func (s *Store) AddCustomer(name, phone string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	normalized, err := waitlist.NormalizePhone(phone)
	if err != nil {
		normalized = phone
	}
	s.data.customers[id] = CustomerRow{ID: id, Name: name, Phone: phone, PhoneNormalized: normalized}
	return id
}

func (s *Store) AddPet(customerID uuid.UUID, name string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.data.pets[id] = PetRow{ID: id, CustomerID: customerID, Name: name}
	return id
}

// PutEntry inserts or replaces an entry row as-is, without the checks Create applies.
func (s *Store) PutEntry(row EntryRow) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.Status == "" {
		row.Status = waitlist.EntryStatusActive
	}
	if row.Preference == "" {
		row.Preference = waitlist.PreferenceAny
	}
	s.data.entries[row.ID] = row
	return row.ID
}

func (s *Store) PutOffer(row OfferRow) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.Status == "" {
		row.Status = waitlist.OfferStatusPending
	}
	s.data.offers[row.ID] = row
	return row.ID
}

func (s *Store) PutAppointment(row AppointmentRow) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.Status == "" {
		row.Status = "booked"
	}
	s.data.appointments[row.ID] = row
	return row.ID
}

func (s *Store) PutStaff(row StaffRow) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	s.data.staff[row.ID] = row
	return row.ID
}

func (s *Store) PutJob(row JobRow) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.Status == "" {
		row.Status = shared.NotificationStatusQueued
	}
	s.data.jobs = append(s.data.jobs, row)
	return row.ID
}

func (s *Store) PutIdempotencyRecord(rec shared.IdempotencyRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.keys[keyID{rec.Key, rec.StaffID}] = rec
}

func (s *Store) Entry(id uuid.UUID) (EntryRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.data.entries[id]
	return row, ok
}

func (s *Store) Offer(id uuid.UUID) (OfferRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.data.offers[id]
	return row, ok
}

func (s *Store) Offers() []OfferRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]OfferRow, 0, len(s.data.offers))
	for _, o := range s.data.offers {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *Store) Appointments() []AppointmentRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AppointmentRow, 0, len(s.data.appointments))
	for _, a := range s.data.appointments {
		out = append(out, a)
	}
	return out
}

func (s *Store) Jobs() []JobRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]JobRow(nil), s.data.jobs...)
}

func (s *Store) IdempotencyRecord(key, staffID uuid.UUID) (shared.IdempotencyRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.data.keys[keyID{key, staffID}]
	return rec, ok
}

func (s *Store) StaffMember(id uuid.UUID) (StaffRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.data.staff[id]
	return row, ok
}
