package services

import (
	"context"
	"fmt"
	"log/slog"

	"moneytrack/internal/amqp"
	"moneytrack/internal/core"
	"moneytrack/internal/storage"
)

// TransactionService records, edits and deletes transactions. Every
// operation is one store transaction covering the balance writes, the row
// and its outbox event.
type TransactionService struct {
	storage *storage.SQLiteRepository
}

func NewTransactionService(storage *storage.SQLiteRepository) *TransactionService {
	return &TransactionService{storage: storage}
}

func (s *TransactionService) Create(ctx context.Context, userID int64, in core.TransactionInput) (core.Transaction, error) {
	var created core.Transaction
	err := s.storage.InTx(ctx, func(l *storage.Ledger) error {
		tx, err := postTransaction(ctx, l, userID, in)
		if err != nil {
			return err
		}
		created = tx
		return recordEvent(ctx, l, amqp.EventTransactionCreated, userID, tx.ID, tx.Amount, describe(tx))
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction created",
		"user_id", userID,
		"transaction_id", created.ID,
		"type", created.Type,
		"amount_cents", created.Amount.Cents)
	return created, nil
}

// Edit reverses the stored effect, validates the new field set and applies
// its effect. A validation or reference failure rolls the reversal back.
// The subscription link is kept unless the input names another one.
func (s *TransactionService) Edit(ctx context.Context, userID, id int64, in core.TransactionInput) (core.Transaction, error) {
	var updated core.Transaction
	err := s.storage.InTx(ctx, func(l *storage.Ledger) error {
		old, err := l.GetTransaction(ctx, userID, id)
		if err != nil {
			return err
		}
		if err := refuseIfPaid(ctx, l, id); err != nil {
			return err
		}
		if in.SubscriptionID == 0 {
			in.SubscriptionID = old.SubscriptionID
		}

		oldEffect, err := old.Effect()
		if err != nil {
			return fmt.Errorf("stored transaction %d: %w", id, err)
		}
		if err := ReverseEffect(ctx, l, userID, oldEffect); err != nil {
			return err
		}

		newEffect, err := in.Validate()
		if err != nil {
			return err
		}
		currency, err := resolveLinks(ctx, l, userID, in)
		if err != nil {
			return err
		}
		if err := ApplyEffect(ctx, l, userID, newEffect); err != nil {
			return err
		}

		updated = core.Transaction{
			ID:               old.ID,
			UserID:           userID,
			Type:             in.Type,
			Amount:           in.Amount,
			Description:      in.Description,
			Date:             in.Date,
			AccountFromID:    in.AccountFromID,
			AccountToID:      in.AccountToID,
			BudgetCategoryID: in.BudgetCategoryID,
			SubscriptionID:   in.SubscriptionID,
			Currency:         currency,
			CreatedAt:        old.CreatedAt,
		}
		if err := l.UpdateTransaction(ctx, updated); err != nil {
			return err
		}
		return recordEvent(ctx, l, amqp.EventTransactionUpdated, userID, id, updated.Amount, describe(updated))
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("edit transaction %d: %w", id, err)
	}

	slog.InfoContext(ctx, "Transaction edited",
		"user_id", userID,
		"transaction_id", id,
		"amount_cents", updated.Amount.Cents)
	return updated, nil
}

// Delete reverses the stored effect and removes the row. Transactions
// created by a liability payment are removed through the payment instead.
func (s *TransactionService) Delete(ctx context.Context, userID, id int64) error {
	err := s.storage.InTx(ctx, func(l *storage.Ledger) error {
		if _, err := l.GetTransaction(ctx, userID, id); err != nil {
			return err
		}
		if err := refuseIfPaid(ctx, l, id); err != nil {
			return err
		}
		removed, err := removeTransaction(ctx, l, userID, id)
		if err != nil {
			return err
		}
		return recordEvent(ctx, l, amqp.EventTransactionDeleted, userID, id, removed.Amount, describe(removed))
	})
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}

	slog.InfoContext(ctx, "Transaction deleted", "user_id", userID, "transaction_id", id)
	return nil
}

func (s *TransactionService) Get(ctx context.Context, userID, id int64) (core.Transaction, error) {
	return s.storage.GetTransaction(ctx, userID, id)
}

func (s *TransactionService) List(ctx context.Context, userID int64, f core.TransactionFilter) ([]core.Transaction, error) {
	return s.storage.ListTransactions(ctx, userID, f)
}

// postTransaction validates in, checks that every link belongs to the user,
// applies the effect and inserts the row.
func postTransaction(ctx context.Context, l *storage.Ledger, userID int64, in core.TransactionInput) (core.Transaction, error) {
	effect, err := in.Validate()
	if err != nil {
		return core.Transaction{}, err
	}
	currency, err := resolveLinks(ctx, l, userID, in)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := ApplyEffect(ctx, l, userID, effect); err != nil {
		return core.Transaction{}, err
	}
	return l.CreateTransaction(ctx, core.Transaction{
		UserID:           userID,
		Type:             in.Type,
		Amount:           in.Amount,
		Description:      in.Description,
		Date:             in.Date,
		AccountFromID:    in.AccountFromID,
		AccountToID:      in.AccountToID,
		BudgetCategoryID: in.BudgetCategoryID,
		SubscriptionID:   in.SubscriptionID,
		Currency:         currency,
	})
}

// removeTransaction reverses a stored transaction's effect and deletes it.
func removeTransaction(ctx context.Context, l *storage.Ledger, userID, id int64) (core.Transaction, error) {
	old, err := l.GetTransaction(ctx, userID, id)
	if err != nil {
		return core.Transaction{}, err
	}
	effect, err := old.Effect()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored transaction %d: %w", id, err)
	}
	if err := ReverseEffect(ctx, l, userID, effect); err != nil {
		return core.Transaction{}, err
	}
	if err := l.DeleteTransaction(ctx, userID, id); err != nil {
		return core.Transaction{}, err
	}
	return old, nil
}

// resolveLinks loads every referenced entity under userID and returns the
// currency of the account the money moves through.
func resolveLinks(ctx context.Context, l *storage.Ledger, userID int64, in core.TransactionInput) (string, error) {
	currency := ""
	for _, id := range []int64{in.AccountFromID, in.AccountToID} {
		if id == 0 {
			continue
		}
		a, err := l.GetAccount(ctx, userID, id)
		if err != nil {
			return "", err
		}
		if currency == "" {
			currency = a.Currency
		}
	}
	if in.BudgetCategoryID != 0 {
		if _, err := l.GetBudget(ctx, userID, in.BudgetCategoryID); err != nil {
			return "", err
		}
	}
	if in.SubscriptionID != 0 {
		if _, err := l.GetSubscription(ctx, userID, in.SubscriptionID); err != nil {
			return "", err
		}
	}
	return currency, nil
}

func refuseIfPaid(ctx context.Context, l *storage.Ledger, transactionID int64) error {
	paid, err := l.TransactionHasPayments(ctx, transactionID)
	if err != nil {
		return err
	}
	if paid {
		return core.Invalid("transaction", "recorded by a loan, debt or credit card payment; change the payment instead")
	}
	return nil
}

func describe(t core.Transaction) string {
	if t.Description != "" {
		return fmt.Sprintf("%s of %s: %s", t.Type, t.Amount.Format(t.Currency), t.Description)
	}
	return fmt.Sprintf("%s of %s", t.Type, t.Amount.Format(t.Currency))
}
