//go:build unit

package fakeuow

import (
	"context"
	"sort"
	"strings"
	"time"

	"grooming-waitlist/internal/domain/appointment"
	"grooming-waitlist/internal/domain/waitlist"
	"grooming-waitlist/internal/usecase/queries"
	"grooming-waitlist/internal/usecase/shared"

	"github.com/google/uuid"
)

// reads serves tx.Reads(); the caller already holds the lock.
type reads struct{ s *Store }

func (r reads) EntryByID(_ context.Context, id uuid.UUID) (*waitlist.Entry, error) {
	row, ok := r.s.data.entries[id]
	if !ok {
		return nil, notFound("waitlist entry")
	}
	return row.toDomain(), nil
}

func (r reads) LatestNotifiedEntryByPhone(_ context.Context, phone string) (*waitlist.Entry, error) {
	var best *EntryRow
	for _, row := range r.s.data.entries {
		if row.Status != waitlist.EntryStatusNotified || row.OfferID == nil {
			continue
		}
		c, ok := r.s.data.customers[row.CustomerID]
		if !ok || c.PhoneNormalized != phone {
			continue
		}
		if best == nil || newerNotification(row, *best) {
			row := row
			best = &row
		}
	}
	if best == nil {
		return nil, notFound("notified entry")
	}
	return best.toDomain(), nil
}

func (r reads) LatestReleasedEntryByPhone(_ context.Context, phone string, since time.Time) (*waitlist.Entry, error) {
	var best *EntryRow
	for _, row := range r.s.data.entries {
		if row.Status != waitlist.EntryStatusExpiredOffer || row.LastOfferID == nil {
			continue
		}
		if row.NotifiedAt == nil || row.NotifiedAt.Before(since) {
			continue
		}
		c, ok := r.s.data.customers[row.CustomerID]
		if !ok || c.PhoneNormalized != phone {
			continue
		}
		if best == nil || newerNotification(row, *best) {
			row := row
			best = &row
		}
	}
	if best == nil {
		return nil, notFound("released entry")
	}
	return best.toDomain(), nil
}

func newerNotification(a, b EntryRow) bool {
	switch {
	case a.NotifiedAt == nil:
		return false
	case b.NotifiedAt == nil:
		return true
	case !a.NotifiedAt.Equal(*b.NotifiedAt):
		return a.NotifiedAt.After(*b.NotifiedAt)
	default:
		return a.ID.String() > b.ID.String()
	}
}

func (r reads) OfferByID(_ context.Context, id uuid.UUID) (*waitlist.SlotOffer, error) {
	row, ok := r.s.data.offers[id]
	if !ok {
		return nil, notFound("slot offer")
	}
	return waitlist.ReconstructSlotOffer(
		row.ID, row.Slot, row.DiscountPercent, row.ExpiresAt, row.Status, row.AcceptedBy, row.AcceptedAt, row.CreatedAt,
	), nil
}

func (r reads) ExpiredPendingOfferIDs(_ context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	due := make([]OfferRow, 0)
	for _, row := range r.s.data.offers {
		if row.Status == waitlist.OfferStatusPending && row.ExpiresAt.Before(now) {
			due = append(due, row)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].ExpiresAt.Equal(due[j].ExpiresAt) {
			return due[i].ExpiresAt.Before(due[j].ExpiresAt)
		}
		return due[i].ID.String() < due[j].ID.String()
	})
	if len(due) > limit {
		due = due[:limit]
	}
	ids := make([]uuid.UUID, 0, len(due))
	for _, row := range due {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

func (r reads) AppointmentByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	row, ok := r.s.data.appointments[id]
	if !ok {
		return nil, notFound("appointment")
	}
	listPrice, _ := appointment.NewMoney(row.ListPriceCents)
	price, _ := appointment.NewMoney(row.PriceCents)
	discount, _ := appointment.NewPercentDiscount(row.DiscountPercent)
	return appointment.ReconstructAppointment(
		row.ID, row.CustomerID, row.PetID, row.ServiceID,
		row.OfferID, row.WaitlistEntryID,
		row.Date, row.StartMinutes, row.DurationMin,
		listPrice, price, discount,
		appointment.Status(row.Status),
		row.CreatedAt,
	), nil
}

func (r reads) ServiceByID(_ context.Context, id uuid.UUID) (*shared.ServiceSnapshot, error) {
	svc, ok := r.s.data.services[id]
	if !ok {
		return nil, notFound("service")
	}
	return &svc, nil
}

func (r reads) CustomerByID(_ context.Context, id uuid.UUID) (*shared.CustomerSnapshot, error) {
	c, ok := r.s.data.customers[id]
	if !ok {
		return nil, notFound("customer")
	}
	return &shared.CustomerSnapshot{ID: c.ID, Name: c.Name, Phone: c.Phone}, nil
}

func (r reads) IdempotencyByKey(_ context.Context, key, staffID uuid.UUID) (*shared.IdempotencyRecord, error) {
	rec, ok := r.s.data.keys[keyID{key, staffID}]
	if !ok {
		return nil, notFound("idempotency key")
	}
	return &rec, nil
}

func (row EntryRow) toDomain() *waitlist.Entry {
	return waitlist.ReconstructEntry(
		row.ID, row.CustomerID, row.PetID, row.ServiceID,
		row.RequestedDate, row.Preference, row.Notes, row.Status,
		row.OfferID, row.LastOfferID, row.NotifiedAt, row.CreatedAt,
	)
}

// lockedReads serves uow.CommandReads() outside any transaction.
type lockedReads struct{ s *Store }

func (l lockedReads) EntryByID(ctx context.Context, id uuid.UUID) (*waitlist.Entry, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return reads(l).EntryByID(ctx, id)
}

func (l lockedReads) LatestNotifiedEntryByPhone(ctx context.Context, phone string) (*waitlist.Entry, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return reads(l).LatestNotifiedEntryByPhone(ctx, phone)
}

func (l lockedReads) LatestReleasedEntryByPhone(ctx context.Context, phone string, since time.Time) (*waitlist.Entry, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return reads(l).LatestReleasedEntryByPhone(ctx, phone, since)
}

func (l lockedReads) OfferByID(ctx context.Context, id uuid.UUID) (*waitlist.SlotOffer, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return reads(l).OfferByID(ctx, id)
}

func (l lockedReads) ExpiredPendingOfferIDs(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return reads(l).ExpiredPendingOfferIDs(ctx, now, limit)
}

func (l lockedReads) AppointmentByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return reads(l).AppointmentByID(ctx, id)
}

func (l lockedReads) ServiceByID(ctx context.Context, id uuid.UUID) (*shared.ServiceSnapshot, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return reads(l).ServiceByID(ctx, id)
}

func (l lockedReads) CustomerByID(ctx context.Context, id uuid.UUID) (*shared.CustomerSnapshot, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return reads(l).CustomerByID(ctx, id)
}

func (l lockedReads) IdempotencyByKey(ctx context.Context, key, staffID uuid.UUID) (*shared.IdempotencyRecord, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return reads(l).IdempotencyByKey(ctx, key, staffID)
}

var (
	_ queries.CandidateReadStore = (*Store)(nil)
	_ queries.StaffReadStore     = (*Store)(nil)
)

// FindCandidates mirrors the matcher query: active, unoffered entries for the service
// whose requested date is within the window, oldest first.
func (s *Store) FindCandidates(_ context.Context, slot waitlist.Slot, limit int) ([]*queries.CandidateView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	from, to := waitlist.CandidateWindow(slot.Date())
	rows := make([]EntryRow, 0)
	for _, row := range s.data.entries {
		if row.Status != waitlist.EntryStatusActive || row.OfferID != nil || row.ServiceID != slot.ServiceID() {
			continue
		}
		if row.RequestedDate.Before(from) || row.RequestedDate.After(to) {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		return rows[i].ID.String() < rows[j].ID.String()
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}

	out := make([]*queries.CandidateView, 0, len(rows))
	for _, row := range rows {
		c := s.data.customers[row.CustomerID]
		p := s.data.pets[row.PetID]
		out = append(out, &queries.CandidateView{
			EntryID:        row.ID,
			CustomerID:     row.CustomerID,
			CustomerName:   c.Name,
			CustomerPhone:  c.Phone,
			PetID:          row.PetID,
			PetName:        p.Name,
			ServiceID:      row.ServiceID,
			RequestedDate:  row.RequestedDate,
			TimePreference: row.Preference.String(),
			Notes:          row.Notes,
			CreatedAt:      row.CreatedAt,
		})
	}
	return out, nil
}

func (s *Store) FindByID(_ context.Context, id uuid.UUID) (*queries.StaffView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.data.staff[id]
	if !ok {
		return nil, notFound("staff member")
	}
	return row.toView(), nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (*queries.StaffView, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, row := range s.data.staff {
		if row.Email == email {
			return row.toView(), row.PasswordHash, nil
		}
	}
	return nil, "", notFound("staff member")
}

func (row StaffRow) toView() *queries.StaffView {
	return &queries.StaffView{
		ID:          row.ID,
		Email:       row.Email,
		DisplayName: row.DisplayName,
		Role:        row.Role.String(),
		IsActive:    row.IsActive,
	}
}
