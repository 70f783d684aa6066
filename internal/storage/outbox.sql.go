package storage

import (
	"context"
	"time"
)

const outboxColumns = `id, event_id, type, user_id, entity_id, amount_cents, message, occurred_at, status, attempts, last_error, next_retry_at, updated_at`

const enqueueEvent = `-- name: EnqueueEvent :one
INSERT INTO event_outbox (event_id, type, user_id, entity_id, amount_cents, message, occurred_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id
`

type EnqueueEventParams struct {
	EventID     string
	Type        string
	UserID      int64
	EntityID    int64
	AmountCents int64
	Message     string
	OccurredAt  time.Time
}

func (q *Queries) EnqueueEvent(ctx context.Context, arg EnqueueEventParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, enqueueEvent,
		arg.EventID,
		arg.Type,
		arg.UserID,
		arg.EntityID,
		arg.AmountCents,
		arg.Message,
		arg.OccurredAt,
		arg.OccurredAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const dequeueOutboxBatch = `-- name: DequeueOutboxBatch :many
SELECT ` + outboxColumns + `
FROM event_outbox
WHERE status = 'pending' AND (next_retry_at IS NULL OR next_retry_at <= ?)
ORDER BY id
LIMIT ?
`

type DequeueOutboxBatchParams struct {
	Now   time.Time
	Limit int64
}

func (q *Queries) DequeueOutboxBatch(ctx context.Context, arg DequeueOutboxBatchParams) ([]EventOutbox, error) {
	rows, err := q.db.QueryContext(ctx, dequeueOutboxBatch, arg.Now, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []EventOutbox
	for rows.Next() {
		var i EventOutbox
		if err := rows.Scan(
			&i.ID,
			&i.EventID,
			&i.Type,
			&i.UserID,
			&i.EntityID,
			&i.AmountCents,
			&i.Message,
			&i.OccurredAt,
			&i.Status,
			&i.Attempts,
			&i.LastError,
			&i.NextRetryAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const markOutboxProcessing = `-- name: MarkOutboxProcessing :execrows
UPDATE event_outbox SET status = 'processing', updated_at = ? WHERE id = ? AND status = 'pending'
`

type MarkOutboxProcessingParams struct {
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) MarkOutboxProcessing(ctx context.Context, arg MarkOutboxProcessingParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, markOutboxProcessing, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const markOutboxCompleted = `-- name: MarkOutboxCompleted :exec
UPDATE event_outbox SET status = 'completed', last_error = NULL, updated_at = ? WHERE id = ?
`

type MarkOutboxCompletedParams struct {
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) MarkOutboxCompleted(ctx context.Context, arg MarkOutboxCompletedParams) error {
	_, err := q.db.ExecContext(ctx, markOutboxCompleted, arg.UpdatedAt, arg.ID)
	return err
}

const incrementOutboxAttempt = `-- name: IncrementOutboxAttempt :exec
UPDATE event_outbox
SET status = 'pending', attempts = attempts + 1, last_error = ?, next_retry_at = ?, updated_at = ?
WHERE id = ?
`

type IncrementOutboxAttemptParams struct {
	LastError   string
	NextRetryAt time.Time
	UpdatedAt   time.Time
	ID          int64
}

func (q *Queries) IncrementOutboxAttempt(ctx context.Context, arg IncrementOutboxAttemptParams) error {
	_, err := q.db.ExecContext(ctx, incrementOutboxAttempt,
		arg.LastError,
		arg.NextRetryAt,
		arg.UpdatedAt,
		arg.ID,
	)
	return err
}

const markOutboxFailed = `-- name: MarkOutboxFailed :exec
UPDATE event_outbox
SET status = 'failed', attempts = attempts + 1, last_error = ?, updated_at = ?
WHERE id = ?
`

type MarkOutboxFailedParams struct {
	LastError string
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) MarkOutboxFailed(ctx context.Context, arg MarkOutboxFailedParams) error {
	_, err := q.db.ExecContext(ctx, markOutboxFailed, arg.LastError, arg.UpdatedAt, arg.ID)
	return err
}

const resetStaleOutboxProcessing = `-- name: ResetStaleOutboxProcessing :execrows
UPDATE event_outbox SET status = 'pending' WHERE status = 'processing'
`

func (q *Queries) ResetStaleOutboxProcessing(ctx context.Context) (int64, error) {
	result, err := q.db.ExecContext(ctx, resetStaleOutboxProcessing)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const retryFailedOutbox = `-- name: RetryFailedOutbox :execrows
UPDATE event_outbox SET status = 'pending', attempts = 0, next_retry_at = NULL WHERE status = 'failed'
`

func (q *Queries) RetryFailedOutbox(ctx context.Context) (int64, error) {
	result, err := q.db.ExecContext(ctx, retryFailedOutbox)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const cleanupCompletedOutbox = `-- name: CleanupCompletedOutbox :execrows
DELETE FROM event_outbox WHERE status = 'completed' AND updated_at < ?
`

func (q *Queries) CleanupCompletedOutbox(ctx context.Context, before time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, cleanupCompletedOutbox, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getOutboxStats = `-- name: GetOutboxStats :one
SELECT
    CAST(COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS INTEGER) AS pending,
    CAST(COALESCE(SUM(CASE WHEN status = 'processing' THEN 1 ELSE 0 END), 0) AS INTEGER) AS processing,
    CAST(COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS INTEGER) AS completed,
    CAST(COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0) AS INTEGER) AS failed
FROM event_outbox
`

type GetOutboxStatsRow struct {
	Pending    int64
	Processing int64
	Completed  int64
	Failed     int64
}

func (q *Queries) GetOutboxStats(ctx context.Context) (GetOutboxStatsRow, error) {
	row := q.db.QueryRowContext(ctx, getOutboxStats)
	var i GetOutboxStatsRow
	err := row.Scan(
		&i.Pending,
		&i.Processing,
		&i.Completed,
		&i.Failed,
	)
	return i, err
}
