package services

import (
	"context"
	"fmt"

	"moneytrack/internal/core"
)

// BalanceStore is the slice of the ledger the balance engine writes to.
// Both methods must fail with core.ErrReference when the row is missing or
// owned by another user.
type BalanceStore interface {
	AdjustAccountBalance(ctx context.Context, userID, accountID int64, delta core.Money) error
	AdjustBudgetRemaining(ctx context.Context, userID, budgetID int64, delta core.Money) error
}

// ApplyEffect writes every delta of e, and nothing else. Callers run it
// inside a store transaction so a failing write discards the earlier ones.
func ApplyEffect(ctx context.Context, store BalanceStore, userID int64, e core.Effect) error {
	if e.AccountFromID != 0 && !e.AccountFromDelta.IsZero() {
		if err := store.AdjustAccountBalance(ctx, userID, e.AccountFromID, e.AccountFromDelta); err != nil {
			return fmt.Errorf("apply account_from delta: %w", err)
		}
	}
	if e.AccountToID != 0 && !e.AccountToDelta.IsZero() {
		if err := store.AdjustAccountBalance(ctx, userID, e.AccountToID, e.AccountToDelta); err != nil {
			return fmt.Errorf("apply account_to delta: %w", err)
		}
	}
	if e.BudgetCategoryID != 0 && !e.BudgetDelta.IsZero() {
		if err := store.AdjustBudgetRemaining(ctx, userID, e.BudgetCategoryID, e.BudgetDelta); err != nil {
			return fmt.Errorf("apply budget delta: %w", err)
		}
	}
	return nil
}

// ReverseEffect applies the negated deltas of e.
func ReverseEffect(ctx context.Context, store BalanceStore, userID int64, e core.Effect) error {
	return ApplyEffect(ctx, store, userID, e.Inverse())
}
