package repository

import (
	"context"
	"slices"
	"strings"
	"time"

	"grooming-waitlist/internal/infra"
	"grooming-waitlist/internal/infra/pgq"
	"grooming-waitlist/internal/pkg/pgconv"
	"grooming-waitlist/internal/usecase/shared"

	"github.com/google/uuid"
)

type NotificationWriteQueries interface {
	CreateNotificationJob(ctx context.Context, db pgq.DBTX, arg pgq.CreateNotificationJobParams) error
	LeaseDueNotificationJobs(ctx context.Context, db pgq.DBTX, arg pgq.LeaseDueNotificationJobsParams) ([]pgq.NotificationJob, error)
	RequeueNotificationJobs(ctx context.Context, db pgq.DBTX, arg pgq.RequeueNotificationJobsParams) (int64, error)
	UpdateNotificationJobStatus(ctx context.Context, db pgq.DBTX, arg pgq.UpdateNotificationJobStatusParams) error
}

type NotificationRepository struct {
	queries NotificationWriteQueries
	db      pgq.DBTX
}

func NewNotificationRepository(queries NotificationWriteQueries, db pgq.DBTX) *NotificationRepository {
	return &NotificationRepository{
		queries: queries,
		db:      db,
	}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, tx pgq.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	params := pgq.CreateNotificationJobParams{
		ID:        uuid.New(),
		Kind:      kind,
		Topic:     topic,
		Payload:   payload,
		RunAt:     runAt,
		CreatedAt: runAt,
	}

	err := r.queries.CreateNotificationJob(ctx, tx, params)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}

	return nil
}

// LeaseDue marks due jobs as sending until leaseUntil and returns them oldest first.
func (r *NotificationRepository) LeaseDue(ctx context.Context, tx pgq.DBTX, now, leaseUntil time.Time, limit int) ([]shared.NotificationJob, error) {
	rows, err := r.queries.LeaseDueNotificationJobs(ctx, tx, pgq.LeaseDueNotificationJobsParams{
		Now:        now,
		LeaseUntil: leaseUntil,
		Limit:      int32(limit),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lease notification jobs", err)
	}
	slices.SortFunc(rows, func(a, b pgq.NotificationJob) int {
		if c := a.RunAt.Compare(b.RunAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})

	jobs := make([]shared.NotificationJob, 0, len(rows))
	for _, row := range rows {
		jobs = append(jobs, shared.NotificationJob{
			ID:       row.ID,
			Kind:     row.Kind,
			Topic:    row.Topic,
			Payload:  row.Payload,
			Attempts: int(row.Attempts),
			RunAt:    row.RunAt,
		})
	}
	return jobs, nil
}

func (r *NotificationRepository) Requeue(ctx context.Context, tx pgq.DBTX, jobIDs []uuid.UUID, runAt time.Time) error {
	_, err := r.queries.RequeueNotificationJobs(ctx, tx, pgq.RequeueNotificationJobsParams{IDs: jobIDs, RunAt: runAt})
	if err != nil {
		return infra.WrapRepoErr("failed to requeue notification jobs", err)
	}
	return nil
}

func (r *NotificationRepository) UpdateJobStatus(ctx context.Context, tx pgq.DBTX, jobID uuid.UUID, status string, lastError *string, runAt time.Time) error {
	params := pgq.UpdateNotificationJobStatusParams{
		ID:        jobID,
		Status:    status,
		LastError: pgconv.StringPtrToPgtype(lastError),
		RunAt:     runAt,
	}

	err := r.queries.UpdateNotificationJobStatus(ctx, tx, params)
	if err != nil {
		return infra.WrapRepoErr("failed to update notification job status", err)
	}

	return nil
}
