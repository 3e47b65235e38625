//go:build unit

package fakeuow

import (
	"context"
	"slices"
	"sort"
	"time"

	"grooming-waitlist/internal/domain/appointment"
	"grooming-waitlist/internal/domain/staff"
	"grooming-waitlist/internal/domain/waitlist"
	"grooming-waitlist/internal/infra"
	"grooming-waitlist/internal/infra/pgq"
	"grooming-waitlist/internal/usecase/shared"

	"github.com/google/uuid"
)

// Repositories run with the store lock already held by Within.

func notFound(what string) error {
	return infra.WrapRepoErr(what+" not found", nil, infra.KindNotFound)
}

func foreignKey(what string) error {
	return infra.WrapRepoErr(what+" does not exist", nil, infra.KindForeignKeyViolated)
}

func duplicate(what string) error {
	return infra.WrapRepoErr(what+" already exists", nil, infra.KindDuplicateKey)
}

type entryRepo struct{ s *Store }

func (r entryRepo) Create(_ context.Context, _ pgq.DBTX, e *waitlist.Entry) error {
	d := &r.s.data
	if _, ok := d.customers[e.CustomerID()]; !ok {
		return foreignKey("customer")
	}
	if _, ok := d.pets[e.PetID()]; !ok {
		return foreignKey("pet")
	}
	if _, ok := d.services[e.ServiceID()]; !ok {
		return foreignKey("service")
	}
	if _, ok := d.entries[e.ID()]; ok {
		return duplicate("waitlist entry")
	}
	d.entries[e.ID()] = EntryRow{
		ID:            e.ID(),
		CustomerID:    e.CustomerID(),
		PetID:         e.PetID(),
		ServiceID:     e.ServiceID(),
		RequestedDate: e.RequestedDate(),
		Preference:    e.Preference(),
		Notes:         e.Notes(),
		Status:        waitlist.EntryStatusActive,
		CreatedAt:     e.CreatedAt(),
	}
	return nil
}

func (r entryRepo) MarkNotified(_ context.Context, _ pgq.DBTX, entryID uuid.UUID, offer *waitlist.SlotOffer) (bool, error) {
	row, ok := r.s.data.entries[entryID]
	if !ok || row.Status != waitlist.EntryStatusActive || row.OfferID != nil || row.ServiceID != offer.Slot().ServiceID() {
		return false, nil
	}
	offerID := offer.ID()
	notifiedAt := offer.CreatedAt()
	row.Status = waitlist.EntryStatusNotified
	row.OfferID = &offerID
	row.LastOfferID = &offerID
	row.NotifiedAt = &notifiedAt
	r.s.data.entries[entryID] = row
	return true, nil
}

func (r entryRepo) Release(_ context.Context, _ pgq.DBTX, entryID, offerID uuid.UUID, next waitlist.EntryStatus) (bool, error) {
	row, ok := r.s.data.entries[entryID]
	if !ok || row.Status != waitlist.EntryStatusNotified || row.OfferID == nil || *row.OfferID != offerID {
		return false, nil
	}
	row.Status = next
	row.OfferID = nil
	r.s.data.entries[entryID] = row
	return true, nil
}

func (r entryRepo) ExpireForOffer(_ context.Context, _ pgq.DBTX, offerID uuid.UUID, except *uuid.UUID) (int64, error) {
	var n int64
	for id, row := range r.s.data.entries {
		if row.Status != waitlist.EntryStatusNotified || row.OfferID == nil || *row.OfferID != offerID {
			continue
		}
		if except != nil && id == *except {
			continue
		}
		row.Status = waitlist.EntryStatusExpiredOffer
		row.OfferID = nil
		r.s.data.entries[id] = row
		n++
	}
	return n, nil
}

func (r entryRepo) Cancel(_ context.Context, _ pgq.DBTX, entryID uuid.UUID) (bool, error) {
	row, ok := r.s.data.entries[entryID]
	if !ok || (row.Status != waitlist.EntryStatusActive && row.Status != waitlist.EntryStatusNotified) {
		return false, nil
	}
	row.Status = waitlist.EntryStatusCancelled
	row.OfferID = nil
	r.s.data.entries[entryID] = row
	return true, nil
}

func (r entryRepo) MarkUnfillable(_ context.Context, _ pgq.DBTX, entryID uuid.UUID) (bool, error) {
	row, ok := r.s.data.entries[entryID]
	if !ok || row.Status != waitlist.EntryStatusActive {
		return false, nil
	}
	row.Status = waitlist.EntryStatusExpired
	r.s.data.entries[entryID] = row
	return true, nil
}

type offerRepo struct{ s *Store }

func (r offerRepo) Create(_ context.Context, _ pgq.DBTX, o *waitlist.SlotOffer) error {
	if _, ok := r.s.data.services[o.Slot().ServiceID()]; !ok {
		return foreignKey("service")
	}
	r.s.data.offers[o.ID()] = OfferRow{
		ID:              o.ID(),
		Slot:            o.Slot(),
		DiscountPercent: o.DiscountPercent(),
		ExpiresAt:       o.ExpiresAt(),
		Status:          waitlist.OfferStatusPending,
		CreatedAt:       o.CreatedAt(),
	}
	return nil
}

func (r offerRepo) Claim(_ context.Context, _ pgq.DBTX, offerID, customerID uuid.UUID, at time.Time) (bool, error) {
	if err := r.s.fail(OpClaimOffer); err != nil {
		return false, err
	}
	row, ok := r.s.data.offers[offerID]
	if !ok || row.Status != waitlist.OfferStatusPending || at.After(row.ExpiresAt) {
		return false, nil
	}
	row.Status = waitlist.OfferStatusAccepted
	row.AcceptedBy = &customerID
	row.AcceptedAt = &at
	r.s.data.offers[offerID] = row
	return true, nil
}

func (r offerRepo) ReleaseClaim(_ context.Context, _ pgq.DBTX, offerID, customerID uuid.UUID) (bool, error) {
	if err := r.s.fail(OpReleaseClaim); err != nil {
		return false, err
	}
	row, ok := r.s.data.offers[offerID]
	if !ok || row.Status != waitlist.OfferStatusAccepted || row.AcceptedBy == nil || *row.AcceptedBy != customerID {
		return false, nil
	}
	row.Status = waitlist.OfferStatusPending
	row.AcceptedBy = nil
	row.AcceptedAt = nil
	r.s.data.offers[offerID] = row
	return true, nil
}

func (r offerRepo) Expire(_ context.Context, _ pgq.DBTX, offerID uuid.UUID, now time.Time) (bool, error) {
	if err := r.s.fail(OpExpireOffer); err != nil {
		return false, err
	}
	row, ok := r.s.data.offers[offerID]
	if !ok || row.Status != waitlist.OfferStatusPending || !row.ExpiresAt.Before(now) {
		return false, nil
	}
	row.Status = waitlist.OfferStatusExpired
	r.s.data.offers[offerID] = row
	return true, nil
}

type appointmentRepo struct{ s *Store }

func (r appointmentRepo) Create(_ context.Context, _ pgq.DBTX, a *appointment.Appointment) error {
	if err := r.s.fail(OpCreateAppointment); err != nil {
		return err
	}
	d := &r.s.data
	if _, ok := d.customers[a.CustomerID()]; !ok {
		return foreignKey("customer")
	}
	if _, ok := d.services[a.ServiceID()]; !ok {
		return foreignKey("service")
	}
	if a.OfferID() != nil {
		for _, existing := range d.appointments {
			if existing.OfferID != nil && *existing.OfferID == *a.OfferID() {
				return duplicate("appointment for offer")
			}
		}
	}
	d.appointments[a.ID()] = AppointmentRow{
		ID:              a.ID(),
		CustomerID:      a.CustomerID(),
		PetID:           a.PetID(),
		ServiceID:       a.ServiceID(),
		OfferID:         a.OfferID(),
		WaitlistEntryID: a.WaitlistEntryID(),
		Date:            a.Date(),
		StartMinutes:    a.StartMinutes(),
		DurationMin:     a.DurationMin(),
		ListPriceCents:  a.ListPrice().Cents(),
		PriceCents:      a.Price().Cents(),
		DiscountPercent: a.Discount().Percent(),
		Status:          a.Status().String(),
		CreatedAt:       a.CreatedAt(),
	}
	return nil
}

func (r appointmentRepo) Cancel(_ context.Context, _ pgq.DBTX, id uuid.UUID) (bool, error) {
	row, ok := r.s.data.appointments[id]
	if !ok || row.Status != appointment.StatusBooked.String() {
		return false, nil
	}
	row.Status = appointment.StatusCancelled.String()
	r.s.data.appointments[id] = row
	return true, nil
}

type notificationRepo struct{ s *Store }

func (r notificationRepo) CreateJob(_ context.Context, _ pgq.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	if err := r.s.fail(OpCreateJob); err != nil {
		return err
	}
	r.s.data.jobs = append(r.s.data.jobs, JobRow{
		ID:      uuid.New(),
		Kind:    kind,
		Topic:   topic,
		Payload: append([]byte(nil), payload...),
		Status:  shared.NotificationStatusQueued,
		RunAt:   runAt,
	})
	return nil
}

func (r notificationRepo) LeaseDue(_ context.Context, _ pgq.DBTX, now, leaseUntil time.Time, limit int) ([]shared.NotificationJob, error) {
	due := make([]int, 0)
	for i, j := range r.s.data.jobs {
		leasable := j.Status == shared.NotificationStatusQueued || j.Status == shared.NotificationStatusSending
		if leasable && !j.RunAt.After(now) {
			due = append(due, i)
		}
	}
	sort.SliceStable(due, func(a, b int) bool { return r.s.data.jobs[due[a]].RunAt.Before(r.s.data.jobs[due[b]].RunAt) })
	if len(due) > limit {
		due = due[:limit]
	}

	out := make([]shared.NotificationJob, 0, len(due))
	for _, i := range due {
		j := r.s.data.jobs[i]
		out = append(out, shared.NotificationJob{
			ID:       j.ID,
			Kind:     j.Kind,
			Topic:    j.Topic,
			Payload:  j.Payload,
			Attempts: j.Attempts,
			RunAt:    j.RunAt,
		})
		j.Status = shared.NotificationStatusSending
		j.RunAt = leaseUntil
		r.s.data.jobs[i] = j
	}
	return out, nil
}

func (r notificationRepo) Requeue(_ context.Context, _ pgq.DBTX, jobIDs []uuid.UUID, runAt time.Time) error {
	for i, j := range r.s.data.jobs {
		if j.Status != shared.NotificationStatusSending || !slices.Contains(jobIDs, j.ID) {
			continue
		}
		j.Status = shared.NotificationStatusQueued
		j.RunAt = runAt
		r.s.data.jobs[i] = j
	}
	return nil
}

func (r notificationRepo) UpdateJobStatus(_ context.Context, _ pgq.DBTX, jobID uuid.UUID, status string, lastError *string, runAt time.Time) error {
	if err := r.s.fail(OpUpdateJob); err != nil {
		return err
	}
	for i, j := range r.s.data.jobs {
		if j.ID != jobID {
			continue
		}
		j.Status = status
		j.LastError = lastError
		j.RunAt = runAt
		j.Attempts++
		r.s.data.jobs[i] = j
		return nil
	}
	return nil
}

type idempotencyRepo struct{ s *Store }

func (r idempotencyRepo) TryInsert(_ context.Context, _ pgq.DBTX, key, staffID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	id := keyID{key, staffID}
	if _, ok := r.s.data.keys[id]; ok {
		return false, nil
	}
	r.s.data.keys[id] = shared.IdempotencyRecord{
		Key:         key,
		StaffID:     staffID,
		Endpoint:    endpoint,
		Status:      shared.IdempotencyStatusProcessing,
		RequestHash: requestHash,
		ExpiresAt:   expiresAt,
	}
	return true, nil
}

func (r idempotencyRepo) Complete(_ context.Context, _ pgq.DBTX, key, staffID uuid.UUID, response []byte) error {
	if err := r.s.fail(OpCompleteKey); err != nil {
		return err
	}
	id := keyID{key, staffID}
	rec, ok := r.s.data.keys[id]
	if !ok || rec.Status != shared.IdempotencyStatusProcessing {
		return nil
	}
	rec.Status = shared.IdempotencyStatusCompleted
	rec.ResponseBody = append([]byte(nil), response...)
	r.s.data.keys[id] = rec
	return nil
}

func (r idempotencyRepo) Delete(_ context.Context, _ pgq.DBTX, key, staffID uuid.UUID) error {
	delete(r.s.data.keys, keyID{key, staffID})
	return nil
}

func (r idempotencyRepo) PurgeExpired(_ context.Context, _ pgq.DBTX, now time.Time) (int64, error) {
	var n int64
	for id, rec := range r.s.data.keys {
		if rec.ExpiresAt.Before(now) {
			delete(r.s.data.keys, id)
			n++
		}
	}
	return n, nil
}

type staffRepo struct{ s *Store }

func (r staffRepo) UpdateLastLogin(_ context.Context, _ pgq.DBTX, staffID uuid.UUID) error {
	row, ok := r.s.data.staff[staffID]
	if !ok {
		return nil
	}
	now := time.Now()
	row.LastLogin = &now
	r.s.data.staff[staffID] = row
	return nil
}

func (r staffRepo) Create(_ context.Context, _ pgq.DBTX, m *staff.Member) error {
	for _, existing := range r.s.data.staff {
		if existing.Email == m.Email().Value() {
			return duplicate("staff email")
		}
	}
	r.s.data.staff[m.ID()] = StaffRow{
		ID:           m.ID(),
		Email:        m.Email().Value(),
		DisplayName:  m.DisplayName(),
		PasswordHash: m.PasswordHash(),
		Role:         m.Role(),
		IsActive:     m.IsActive(),
	}
	return nil
}
