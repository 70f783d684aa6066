package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Ledger event types.
const (
	EventTransactionCreated = "transaction.created"
	EventTransactionUpdated = "transaction.updated"
	EventTransactionDeleted = "transaction.deleted"
	EventBudgetReset        = "budget.reset"
	EventSubscriptionPosted = "subscription.posted"
)

// LedgerEvent describes one committed change to a user's ledger. Consumers
// must treat ID as an idempotency key: the outbox relay delivers at least once.
type LedgerEvent struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	UserID      int64     `json:"user_id"`
	EntityID    int64     `json:"entity_id"`
	AmountCents int64     `json:"amount_cents"`
	Message     string    `json:"message,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewLedgerEvent creates an event with a fresh id stamped now.
func NewLedgerEvent(eventType string, userID, entityID, amountCents int64, message string) *LedgerEvent {
	return &LedgerEvent{
		ID:          uuid.NewString(),
		Type:        eventType,
		UserID:      userID,
		EntityID:    entityID,
		AmountCents: amountCents,
		Message:     message,
		OccurredAt:  time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes and checks an event body.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if e.ID == "" || e.Type == "" {
		return nil, fmt.Errorf("ledger event missing id or type")
	}
	if e.UserID <= 0 {
		return nil, fmt.Errorf("ledger event %s has no user", e.ID)
	}
	return &e, nil
}
