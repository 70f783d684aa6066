package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"moneytrack/internal/core"
)

// OutboxEvent is a ledger event queued in the same commit as the change it
// describes.
type OutboxEvent struct {
	EventID    string
	Type       string
	UserID     int64
	EntityID   int64
	Amount     core.Money
	Message    string
	OccurredAt time.Time
}

func (l *Ledger) EnqueueEvent(ctx context.Context, e OutboxEvent) error {
	_, err := l.queries.EnqueueEvent(ctx, EnqueueEventParams{
		EventID:     e.EventID,
		Type:        e.Type,
		UserID:      e.UserID,
		EntityID:    e.EntityID,
		AmountCents: e.Amount.Cents,
		Message:     e.Message,
		OccurredAt:  e.OccurredAt.UTC(),
	})
	if err != nil {
		return persistence("enqueue event", err)
	}
	return nil
}

// DequeueOutboxBatch returns up to limit pending events whose retry time has
// passed.
func (r *SQLiteRepository) DequeueOutboxBatch(ctx context.Context, now time.Time, limit int) ([]EventOutbox, error) {
	items, err := r.queries.DequeueOutboxBatch(ctx, DequeueOutboxBatchParams{Now: now.UTC(), Limit: int64(limit)})
	if err != nil {
		return nil, fmt.Errorf("dequeue outbox batch: %w", err)
	}
	return items, nil
}

// ClaimOutbox moves a pending event to processing. It reports false when
// another relay claimed it first.
func (r *SQLiteRepository) ClaimOutbox(ctx context.Context, id int64) (bool, error) {
	n, err := r.queries.MarkOutboxProcessing(ctx, MarkOutboxProcessingParams{UpdatedAt: time.Now().UTC(), ID: id})
	if err != nil {
		return false, fmt.Errorf("mark outbox processing: %w", err)
	}
	return n == 1, nil
}

func (r *SQLiteRepository) MarkOutboxCompleted(ctx context.Context, id int64) error {
	if err := r.queries.MarkOutboxCompleted(ctx, MarkOutboxCompletedParams{UpdatedAt: time.Now().UTC(), ID: id}); err != nil {
		return fmt.Errorf("mark outbox completed: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ScheduleOutboxRetry(ctx context.Context, id int64, lastErr string, at time.Time) error {
	err := r.queries.IncrementOutboxAttempt(ctx, IncrementOutboxAttemptParams{
		LastError:   lastErr,
		NextRetryAt: at.UTC(),
		UpdatedAt:   time.Now().UTC(),
		ID:          id,
	})
	if err != nil {
		return fmt.Errorf("increment outbox attempt: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkOutboxFailed(ctx context.Context, id int64, lastErr string) error {
	err := r.queries.MarkOutboxFailed(ctx, MarkOutboxFailedParams{LastError: lastErr, UpdatedAt: time.Now().UTC(), ID: id})
	if err != nil {
		return fmt.Errorf("mark outbox failed: %w", err)
	}
	slog.WarnContext(ctx, "Outbox event marked failed", "id", id)
	return nil
}

// ResetStaleOutbox returns events left in processing by a crashed relay to
// the pending state.
func (r *SQLiteRepository) ResetStaleOutbox(ctx context.Context) (int64, error) {
	n, err := r.queries.ResetStaleOutboxProcessing(ctx)
	if err != nil {
		return 0, fmt.Errorf("reset stale outbox: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) RetryFailedOutbox(ctx context.Context) (int64, error) {
	n, err := r.queries.RetryFailedOutbox(ctx)
	if err != nil {
		return 0, fmt.Errorf("retry failed outbox: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) CleanupOutbox(ctx context.Context, before time.Time) (int64, error) {
	n, err := r.queries.CleanupCompletedOutbox(ctx, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("cleanup outbox: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) OutboxStats(ctx context.Context) (GetOutboxStatsRow, error) {
	stats, err := r.queries.GetOutboxStats(ctx)
	if err != nil {
		return stats, fmt.Errorf("get outbox stats: %w", err)
	}
	return stats, nil
}
