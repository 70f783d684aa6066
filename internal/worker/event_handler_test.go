package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneytrack/internal/amqp"
	"moneytrack/internal/core"
	"moneytrack/internal/sheets/memory"
)

type fakeTransactions map[int64]core.Transaction

func (f fakeTransactions) GetTransaction(_ context.Context, userID, id int64) (core.Transaction, error) {
	tx, ok := f[id]
	if !ok || tx.UserID != userID {
		return core.Transaction{}, core.NotFound("transaction", id)
	}
	return tx, nil
}

type fakeNotifier struct {
	messages []string
	err      error
}

func (f *fakeNotifier) Notify(_ context.Context, userID int64, message string) (core.Notification, error) {
	if f.err != nil {
		return core.Notification{}, f.err
	}
	f.messages = append(f.messages, message)
	return core.Notification{ID: int64(len(f.messages)), UserID: userID, Message: message}, nil
}

func sampleTransactions() fakeTransactions {
	return fakeTransactions{
		10: {ID: 10, UserID: 1, Type: core.Expense, Amount: core.Cents(500), Date: core.NewDate(2024, 3, 1), Description: "Gym"},
	}
}

func TestTransactionEventsAreMirroredOnce(t *testing.T) {
	ctx := context.Background()
	txs := sampleTransactions()
	mirror := memory.New()
	h := NewEventHandler(txs, &fakeNotifier{}, mirror)

	created := amqp.NewLedgerEvent(amqp.EventTransactionCreated, 1, 10, 500, "")
	require.NoError(t, h.Handle(ctx, created))
	require.NoError(t, h.Handle(ctx, created), "redelivery")
	require.Len(t, mirror.Rows(), 1)

	tx := txs[10]
	tx.Amount = core.Cents(750)
	txs[10] = tx
	require.NoError(t, h.Handle(ctx, amqp.NewLedgerEvent(amqp.EventTransactionUpdated, 1, 10, 750, "")))
	rows := mirror.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, int64(750), rows[0].Amount.Cents)

	require.NoError(t, h.Handle(ctx, amqp.NewLedgerEvent(amqp.EventTransactionDeleted, 1, 10, 750, "")))
	assert.Empty(t, mirror.Rows())
}

func TestMirrorSkipsVanishedTransaction(t *testing.T) {
	mirror := memory.New()
	h := NewEventHandler(fakeTransactions{}, &fakeNotifier{}, mirror)

	err := h.Handle(context.Background(), amqp.NewLedgerEvent(amqp.EventTransactionCreated, 1, 99, 100, ""))
	require.NoError(t, err)
	assert.Empty(t, mirror.Rows())
}

func TestRecurrenceEventsNotify(t *testing.T) {
	ctx := context.Background()
	notifier := &fakeNotifier{}
	mirror := memory.New()
	h := NewEventHandler(sampleTransactions(), notifier, mirror)

	require.NoError(t, h.Handle(ctx, amqp.NewLedgerEvent(amqp.EventBudgetReset, 1, 3, 40000, "Budget Food has been reset")))
	require.NoError(t, h.Handle(ctx, amqp.NewLedgerEvent(amqp.EventSubscriptionPosted, 1, 10, 500, "Subscription payment: Gym")))

	assert.Equal(t, []string{"Budget Food has been reset", "Subscription payment: Gym"}, notifier.messages)
	assert.Len(t, mirror.Rows(), 1, "posted subscription transaction is mirrored")
}

func TestNotifyFailureIsReturned(t *testing.T) {
	h := NewEventHandler(sampleTransactions(), &fakeNotifier{err: errors.New("database is locked")}, nil)

	err := h.Handle(context.Background(), amqp.NewLedgerEvent(amqp.EventBudgetReset, 1, 3, 100, "reset"))
	assert.Error(t, err)
}

func TestNilMirrorAndUnknownType(t *testing.T) {
	h := NewEventHandler(sampleTransactions(), &fakeNotifier{}, nil)

	assert.NoError(t, h.Handle(context.Background(), amqp.NewLedgerEvent(amqp.EventTransactionCreated, 1, 10, 500, "")))
	assert.NoError(t, h.Handle(context.Background(), amqp.NewLedgerEvent("account.renamed", 1, 1, 0, "")))
}
