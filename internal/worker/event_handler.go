package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"moneytrack/internal/amqp"
	"moneytrack/internal/core"
	applog "moneytrack/internal/log"
	"moneytrack/internal/sheets"
)

// TransactionReader loads a transaction scoped to its owner.
type TransactionReader interface {
	GetTransaction(ctx context.Context, userID, id int64) (core.Transaction, error)
}

// Notifier stores a user-facing notification.
type Notifier interface {
	Notify(ctx context.Context, userID int64, message string) (core.Notification, error)
}

// EventHandler reacts to ledger events: recurrence events become
// notifications and transaction events are mirrored to a spreadsheet.
type EventHandler struct {
	transactions TransactionReader
	notifier     Notifier
	mirror       sheets.TransactionMirror
}

// NewEventHandler takes an optional mirror; nil disables mirroring.
func NewEventHandler(transactions TransactionReader, notifier Notifier, mirror sheets.TransactionMirror) *EventHandler {
	return &EventHandler{
		transactions: transactions,
		notifier:     notifier,
		mirror:       mirror,
	}
}

// Handle processes one event. A returned error makes the consumer requeue it,
// so every branch is safe to repeat.
func (h *EventHandler) Handle(ctx context.Context, e *amqp.LedgerEvent) error {
	slog.InfoContext(ctx, "Processing ledger event", eventFields(e).ToSlice()...)

	switch e.Type {
	case amqp.EventTransactionCreated, amqp.EventTransactionUpdated:
		return h.mirrorTransaction(ctx, e)
	case amqp.EventTransactionDeleted:
		return h.unmirror(ctx, e.EntityID)
	case amqp.EventBudgetReset:
		return h.notify(ctx, e)
	case amqp.EventSubscriptionPosted:
		// Mirror first: a retry repeats the idempotent step, not the notice.
		if err := h.mirrorTransaction(ctx, e); err != nil {
			return err
		}
		return h.notify(ctx, e)
	default:
		slog.WarnContext(ctx, "Ignoring unknown ledger event type", eventFields(e).ToSlice()...)
		return nil
	}
}

func (h *EventHandler) notify(ctx context.Context, e *amqp.LedgerEvent) error {
	if e.Message == "" {
		return nil
	}
	n, err := h.notifier.Notify(ctx, e.UserID, e.Message)
	if err != nil {
		return fmt.Errorf("notify user %d: %w", e.UserID, err)
	}
	slog.InfoContext(ctx, "Notification created",
		applog.FieldUserID, e.UserID, "notification_id", n.ID)
	return nil
}

// mirrorTransaction replaces any existing row for the transaction with its
// current state.
func (h *EventHandler) mirrorTransaction(ctx context.Context, e *amqp.LedgerEvent) error {
	if h.mirror == nil {
		return nil
	}

	tx, err := h.transactions.GetTransaction(ctx, e.UserID, e.EntityID)
	if errors.Is(err, core.ErrNotFound) {
		// Deleted after the event was queued; the delete event cleans up.
		slog.InfoContext(ctx, "Transaction gone before mirroring", applog.FieldTransaction, e.EntityID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction %d: %w", e.EntityID, err)
	}

	if err := h.mirror.Remove(ctx, tx.ID); err != nil {
		return fmt.Errorf("remove mirrored transaction %d: %w", tx.ID, err)
	}
	ref, err := h.mirror.Append(ctx, sheets.RowFromTransaction(tx))
	if err != nil {
		return fmt.Errorf("mirror transaction %d: %w", tx.ID, err)
	}

	fields := applog.NewFields().
		WithComponent(applog.ComponentSheets).
		WithOperation(applog.OpMirror).
		WithTransaction(tx.ID, string(tx.Type), tx.Amount.Cents)
	fields[applog.FieldMirrorRef] = ref
	slog.InfoContext(ctx, "Transaction mirrored", fields.ToSlice()...)
	return nil
}

func (h *EventHandler) unmirror(ctx context.Context, transactionID int64) error {
	if h.mirror == nil {
		return nil
	}
	if err := h.mirror.Remove(ctx, transactionID); err != nil {
		return fmt.Errorf("remove mirrored transaction %d: %w", transactionID, err)
	}
	slog.InfoContext(ctx, "Mirrored transaction removed",
		applog.FieldComponent, applog.ComponentSheets,
		applog.FieldTransaction, transactionID)
	return nil
}

func eventFields(e *amqp.LedgerEvent) applog.LogFields {
	f := applog.NewFields().
		WithComponent(applog.ComponentWorker).
		WithEvent(e.ID, e.Type).
		WithUser(e.UserID)
	f["entity_id"] = e.EntityID
	return f
}
