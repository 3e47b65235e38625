package readstore

import (
	"context"
	"time"

	"grooming-waitlist/internal/domain/waitlist"
	"grooming-waitlist/internal/infra"
	"grooming-waitlist/internal/infra/pgq"
	"grooming-waitlist/internal/infra/repository/converter"
	"grooming-waitlist/internal/pkg/pgconv"
	"grooming-waitlist/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type WaitlistReadQueries interface {
	FindCandidateEntries(ctx context.Context, db pgq.DBTX, arg pgq.FindCandidateEntriesParams) ([]pgq.WaitlistEntryDetail, error)
	GetWaitlistEntry(ctx context.Context, db pgq.DBTX, id uuid.UUID) (pgq.WaitlistEntryDetail, error)
	GetLatestNotifiedEntryByPhone(ctx context.Context, db pgq.DBTX, phoneNormalized string) (pgq.WaitlistEntry, error)
	GetLatestReleasedEntryByPhone(ctx context.Context, db pgq.DBTX, phoneNormalized string, notifiedSince time.Time) (pgq.WaitlistEntry, error)
	ListWaitlistEntries(ctx context.Context, db pgq.DBTX, arg pgq.ListWaitlistEntriesParams) ([]pgq.WaitlistEntryDetail, error)
	ListEntriesRequestedBetween(ctx context.Context, db pgq.DBTX, arg pgq.ListEntriesRequestedBetweenParams) ([]pgq.WaitlistEntryDetail, error)
	ListEntriesByOffer(ctx context.Context, db pgq.DBTX, offerID uuid.UUID) ([]pgq.WaitlistEntryDetail, error)
}

type WaitlistReadStore struct {
	queries WaitlistReadQueries
	db      pgq.DBTX
}

func NewWaitlistReadStore(queries WaitlistReadQueries, db pgq.DBTX) *WaitlistReadStore {
	return &WaitlistReadStore{
		queries: queries,
		db:      db,
	}
}

// FindCandidates returns eligible entries in FIFO order, at most limit of them.
func (r *WaitlistReadStore) FindCandidates(ctx context.Context, slot waitlist.Slot, limit int) ([]*queries.CandidateView, error) {
	from, to := waitlist.CandidateWindow(slot.Date())
	rows, err := r.queries.FindCandidateEntries(ctx, r.db, pgq.FindCandidateEntriesParams{
		ServiceID: slot.ServiceID(),
		FromDate:  pgconv.DateToPgtype(from),
		ToDate:    pgconv.DateToPgtype(to),
		Limit:     int32(limit),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find candidate entries", err)
	}

	views := make([]*queries.CandidateView, 0, len(rows))
	for i := range rows {
		v := &queries.CandidateView{}
		if err := copyView(v, &rows[i]); err != nil {
			return nil, err
		}
		v.EntryID = rows[i].ID
		views = append(views, v)
	}
	return views, nil
}

func (r *WaitlistReadStore) FindViewByID(ctx context.Context, id uuid.UUID) (*queries.WaitlistEntryView, error) {
	row, err := r.queries.GetWaitlistEntry(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get waitlist entry", err)
	}
	return toEntryView(&row)
}

// FindByID loads the entry aggregate for write-side checks.
func (r *WaitlistReadStore) FindByID(ctx context.Context, id uuid.UUID) (*waitlist.Entry, error) {
	row, err := r.queries.GetWaitlistEntry(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get waitlist entry", err)
	}
	return converter.EntryFromInfra(row.WaitlistEntry)
}

func (r *WaitlistReadStore) FindLatestNotifiedByPhone(ctx context.Context, phone string) (*waitlist.Entry, error) {
	row, err := r.queries.GetLatestNotifiedEntryByPhone(ctx, r.db, phone)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find notified entry by phone", err)
	}
	return converter.EntryFromInfra(row)
}

// FindLatestReleasedByPhone returns the newest entry that left its offer unbooked and was
// notified no earlier than since.
func (r *WaitlistReadStore) FindLatestReleasedByPhone(ctx context.Context, phone string, since time.Time) (*waitlist.Entry, error) {
	row, err := r.queries.GetLatestReleasedEntryByPhone(ctx, r.db, phone, since)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find released entry by phone", err)
	}
	return converter.EntryFromInfra(row)
}

func (r *WaitlistReadStore) List(ctx context.Context, filter queries.EntryFilter, afterCreatedAt *time.Time, afterID *uuid.UUID, limit int) ([]*queries.WaitlistEntryView, error) {
	params := pgq.ListWaitlistEntriesParams{
		AfterCreatedAt: pgconv.TimePtrToPgtype(afterCreatedAt),
		AfterID:        pgconv.UUIDPtrToPgtype(afterID),
		Limit:          int32(limit),
		ServiceID:      pgconv.UUIDPtrToPgtype(filter.ServiceID),
	}
	if filter.Status != "" {
		params.Status = pgtype.Text{String: filter.Status, Valid: true}
	}

	rows, err := r.queries.ListWaitlistEntries(ctx, r.db, params)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list waitlist entries", err)
	}
	return toEntryViews(rows)
}

func (r *WaitlistReadStore) ListRequestedBetween(ctx context.Context, from, to time.Time) ([]*queries.WaitlistEntryView, error) {
	rows, err := r.queries.ListEntriesRequestedBetween(ctx, r.db, pgq.ListEntriesRequestedBetweenParams{
		FromDate: pgconv.DateToPgtype(from),
		ToDate:   pgconv.DateToPgtype(to),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list entries for export", err)
	}
	return toEntryViews(rows)
}

func (r *WaitlistReadStore) ListByOffer(ctx context.Context, offerID uuid.UUID) ([]*queries.WaitlistEntryView, error) {
	rows, err := r.queries.ListEntriesByOffer(ctx, r.db, offerID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list entries by offer", err)
	}
	return toEntryViews(rows)
}

func toEntryView(row *pgq.WaitlistEntryDetail) (*queries.WaitlistEntryView, error) {
	v := &queries.WaitlistEntryView{}
	if err := copyView(v, row); err != nil {
		return nil, err
	}
	return v, nil
}

func toEntryViews(rows []pgq.WaitlistEntryDetail) ([]*queries.WaitlistEntryView, error) {
	views := make([]*queries.WaitlistEntryView, 0, len(rows))
	for i := range rows {
		v, err := toEntryView(&rows[i])
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}
