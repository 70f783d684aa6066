package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"moneytrack/internal/amqp"
	applog "moneytrack/internal/log"
	"moneytrack/internal/storage"
)

// EventPublisher delivers ledger events to the broker.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, event *amqp.LedgerEvent) error
}

// OutboxRelayConfig holds configuration for the outbox relay
type OutboxRelayConfig struct {
	// PollInterval is how often to check for pending events (default: 10s)
	PollInterval time.Duration

	// BatchSize is the max number of events to publish per poll cycle (default: 10)
	BatchSize int

	// MaxRetries is the maximum publish attempts before marking as failed (default: 3)
	MaxRetries int

	// RetryDelay is the first retry delay; each further attempt doubles it (default: 30s)
	RetryDelay time.Duration

	// CleanupInterval is how often to clean up published events (default: 1h)
	CleanupInterval time.Duration

	// CleanupAge is how old published events must be before cleanup (default: 24h)
	CleanupAge time.Duration
}

// DefaultOutboxRelayConfig returns sensible defaults
func DefaultOutboxRelayConfig() OutboxRelayConfig {
	return OutboxRelayConfig{
		PollInterval:    10 * time.Second,
		BatchSize:       10,
		MaxRetries:      3,
		RetryDelay:      30 * time.Second,
		CleanupInterval: 1 * time.Hour,
		CleanupAge:      24 * time.Hour,
	}
}

// OutboxRelay publishes events committed to the outbox table. Delivery is at
// least once: an event is marked completed only after the broker accepted it.
type OutboxRelay struct {
	storage   *storage.SQLiteRepository
	publisher EventPublisher
	config    OutboxRelayConfig

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewOutboxRelay(storage *storage.SQLiteRepository, publisher EventPublisher, config OutboxRelayConfig) *OutboxRelay {
	return &OutboxRelay{
		storage:   storage,
		publisher: publisher,
		config:    config,
	}
}

// Start begins the relay loop. Returns an error if already running.
func (r *OutboxRelay) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("outbox relay is already running")
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	r.mu.Unlock()

	// Events left in processing by a crashed relay go back to pending
	if n, err := r.storage.ResetStaleOutbox(ctx); err != nil {
		slog.WarnContext(ctx, "Failed to reset stale outbox events", "error", err)
	} else if n > 0 {
		slog.InfoContext(ctx, "Reset stale outbox events", "count", n)
	}

	go r.runLoop(ctx)

	slog.InfoContext(ctx, "Outbox relay started",
		"poll_interval", r.config.PollInterval,
		"batch_size", r.config.BatchSize)

	return nil
}

// Stop gracefully stops the relay and waits for the current batch.
func (r *OutboxRelay) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = false
	stopCh, doneCh := r.stopCh, r.doneCh
	r.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Outbox relay stopped gracefully")
		return nil
	case <-ctx.Done():
		slog.WarnContext(ctx, "Outbox relay stop timed out")
		return ctx.Err()
	}
}

func (r *OutboxRelay) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *OutboxRelay) runLoop(ctx context.Context) {
	defer close(r.doneCh)

	pollTicker := time.NewTicker(r.config.PollInterval)
	defer pollTicker.Stop()

	cleanupTicker := time.NewTicker(r.config.CleanupInterval)
	defer cleanupTicker.Stop()

	// Publish immediately on startup
	r.ProcessBatch(ctx)

	for {
		select {
		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		case <-pollTicker.C:
			r.ProcessBatch(ctx)
		case <-cleanupTicker.C:
			r.cleanupCompleted(ctx)
		}
	}
}

// ProcessBatch publishes one batch of due events and returns how many were
// delivered.
func (r *OutboxRelay) ProcessBatch(ctx context.Context) int {
	items, err := r.storage.DequeueOutboxBatch(ctx, time.Now(), r.config.BatchSize)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to dequeue outbox batch", "error", err)
		return 0
	}
	if len(items) == 0 {
		return 0
	}

	slog.DebugContext(ctx, "Publishing outbox batch", "count", len(items))

	published := 0
	for _, item := range items {
		if r.stopping(ctx) {
			return published
		}

		claimed, err := r.storage.ClaimOutbox(ctx, item.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to claim outbox event", "id", item.ID, "error", err)
			continue
		}
		if !claimed {
			continue
		}

		if err := r.publisher.PublishLedgerEvent(ctx, toLedgerEvent(item)); err != nil {
			r.handleFailure(ctx, item, err)
			continue
		}
		r.handleSuccess(ctx, item)
		published++
	}
	return published
}

func (r *OutboxRelay) stopping(ctx context.Context) bool {
	r.mu.Lock()
	stopCh := r.stopCh
	r.mu.Unlock()
	if stopCh != nil {
		select {
		case <-stopCh:
			return true
		default:
		}
	}
	return ctx.Err() != nil
}

func (r *OutboxRelay) handleSuccess(ctx context.Context, item storage.EventOutbox) {
	if err := r.storage.MarkOutboxCompleted(ctx, item.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark outbox event completed",
			"id", item.ID, "event_id", item.EventID, "error", err)
	}
}

// handleFailure schedules a retry with exponential backoff, or gives up
// after MaxRetries attempts.
func (r *OutboxRelay) handleFailure(ctx context.Context, item storage.EventOutbox, publishErr error) {
	attempt := item.Attempts + 1
	fields := applog.NewFields().
		WithComponent(applog.ComponentAMQP).
		WithOperation(applog.OpPublish).
		WithEvent(item.EventID, item.Type).
		WithUser(item.UserID).
		WithError(publishErr)
	fields["id"] = item.ID
	fields["attempt"] = attempt
	slog.WarnContext(ctx, "Outbox publish failed", fields.ToSlice()...)

	if attempt >= int64(r.config.MaxRetries) {
		if err := r.storage.MarkOutboxFailed(ctx, item.ID, publishErr.Error()); err != nil {
			slog.ErrorContext(ctx, "Failed to mark outbox event failed", "id", item.ID, "error", err)
		}
		slog.ErrorContext(ctx, "Outbox event failed permanently after max retries",
			"id", item.ID,
			"event_id", item.EventID,
			"attempts", attempt)
		return
	}

	next := time.Now().Add(r.retryDelay(item.Attempts))
	if err := r.storage.ScheduleOutboxRetry(ctx, item.ID, publishErr.Error(), next); err != nil {
		slog.ErrorContext(ctx, "Failed to schedule outbox retry", "id", item.ID, "error", err)
	}
}

func (r *OutboxRelay) retryDelay(attempts int64) time.Duration {
	if attempts > 10 {
		attempts = 10
	}
	return r.config.RetryDelay << attempts
}

func (r *OutboxRelay) cleanupCompleted(ctx context.Context) {
	cutoff := time.Now().Add(-r.config.CleanupAge)
	n, err := r.storage.CleanupOutbox(ctx, cutoff)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to cleanup published outbox events", "error", err)
		return
	}
	if n > 0 {
		slog.InfoContext(ctx, "Cleaned up published outbox events", "count", n)
	}
}

// Stats returns current outbox counts by status
func (r *OutboxRelay) Stats(ctx context.Context) (storage.GetOutboxStatsRow, error) {
	return r.storage.OutboxStats(ctx)
}

// RetryFailed returns every failed event to pending
func (r *OutboxRelay) RetryFailed(ctx context.Context) (int64, error) {
	return r.storage.RetryFailedOutbox(ctx)
}

func toLedgerEvent(item storage.EventOutbox) *amqp.LedgerEvent {
	return &amqp.LedgerEvent{
		ID:          item.EventID,
		Type:        item.Type,
		UserID:      item.UserID,
		EntityID:    item.EntityID,
		AmountCents: item.AmountCents,
		Message:     item.Message,
		OccurredAt:  item.OccurredAt,
	}
}
