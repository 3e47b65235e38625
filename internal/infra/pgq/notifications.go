package pgq

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CreateNotificationJobParams struct {
	ID        uuid.UUID
	Kind      string
	Topic     string
	Payload   []byte
	RunAt     time.Time
	CreatedAt time.Time
}

const createNotificationJob = `
INSERT INTO notification_jobs (id, kind, topic, payload, status, attempts, run_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, 'queued', 0, $5, $6, $6)`

func (q *Queries) CreateNotificationJob(ctx context.Context, db DBTX, arg CreateNotificationJobParams) error {
	_, err := db.Exec(ctx, createNotificationJob, arg.ID, arg.Kind, arg.Topic, arg.Payload, arg.RunAt, arg.CreatedAt)
	return err
}

type LeaseDueNotificationJobsParams struct {
	Now        time.Time
	LeaseUntil time.Time
	Limit      int32
}

// Due jobs move to 'sending' with run_at holding the lease deadline, and the caller commits
// before sending. A 'sending' row whose lease ran out was abandoned and is due again.
// run_at in the result is the time the job became due.
const leaseDueNotificationJobs = `
WITH due AS (
	SELECT id, run_at AS due_at
	FROM notification_jobs
	WHERE status IN ('queued', 'sending') AND run_at <= $1
	ORDER BY run_at ASC, id ASC
	LIMIT $3
	FOR UPDATE SKIP LOCKED
)
UPDATE notification_jobs j
SET status = 'sending', run_at = $2, updated_at = now()
FROM due
WHERE j.id = due.id
RETURNING j.id, j.kind, j.topic, j.payload, j.status, j.attempts, j.last_error, due.due_at, j.created_at`

func (q *Queries) LeaseDueNotificationJobs(ctx context.Context, db DBTX, arg LeaseDueNotificationJobsParams) ([]NotificationJob, error) {
	rows, err := db.Query(ctx, leaseDueNotificationJobs, arg.Now, arg.LeaseUntil, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var jobs []NotificationJob
	for rows.Next() {
		var j NotificationJob
		if err := rows.Scan(&j.ID, &j.Kind, &j.Topic, &j.Payload, &j.Status, &j.Attempts, &j.LastError, &j.RunAt, &j.CreatedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

type RequeueNotificationJobsParams struct {
	IDs   []uuid.UUID
	RunAt time.Time
}

// Only leased jobs go back; attempts are left alone because nothing was sent.
const requeueNotificationJobs = `
UPDATE notification_jobs
SET status = 'queued', run_at = $2, updated_at = now()
WHERE id = ANY($1) AND status = 'sending'`

func (q *Queries) RequeueNotificationJobs(ctx context.Context, db DBTX, arg RequeueNotificationJobsParams) (int64, error) {
	return execRows(ctx, db, requeueNotificationJobs, arg.IDs, arg.RunAt)
}

type UpdateNotificationJobStatusParams struct {
	ID        uuid.UUID
	Status    string
	LastError pgtype.Text
	RunAt     time.Time
}

const updateNotificationJobStatus = `
UPDATE notification_jobs
SET status = $2, last_error = $3, run_at = $4, attempts = attempts + 1, updated_at = now()
WHERE id = $1`

func (q *Queries) UpdateNotificationJobStatus(ctx context.Context, db DBTX, arg UpdateNotificationJobStatusParams) error {
	_, err := db.Exec(ctx, updateNotificationJobStatus, arg.ID, arg.Status, arg.LastError, arg.RunAt)
	return err
}
