package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"moneytrack/internal/core"
	"moneytrack/internal/storage"
)

// recordEvent queues a ledger event in the caller's transaction so it
// commits or rolls back with the change it describes.
func recordEvent(ctx context.Context, l *storage.Ledger, eventType string, userID, entityID int64, amount core.Money, message string) error {
	return l.EnqueueEvent(ctx, storage.OutboxEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		UserID:     userID,
		EntityID:   entityID,
		Amount:     amount,
		Message:    message,
		OccurredAt: time.Now().UTC(),
	})
}
