package storage

import (
	"context"

	"moneytrack/internal/core"
)

// DueBudget is an auto-reset category paired with its owner's time zone.
type DueBudget struct {
	Budget   core.BudgetCategory
	TimeZone string
}

// CreateBudget stores a category with remaining equal to the budget amount.
func (l *Ledger) CreateBudget(ctx context.Context, b core.BudgetCategory) (core.BudgetCategory, error) {
	row, err := l.queries.CreateBudgetCategory(ctx, CreateBudgetCategoryParams{
		UserID:               b.UserID,
		Name:                 b.Name,
		Description:          b.Description,
		BudgetAmountCents:    b.BudgetAmount.Cents,
		RemainingAmountCents: b.BudgetAmount.Cents,
		AutoReset:            b.AutoReset,
		TimePeriod:           nullString(string(b.TimePeriod)),
		NextDate:             nullDate(b.NextDate),
		LastReset:            nullDate(b.LastReset),
		Currency:             currencyOr(b.Currency),
	})
	if err != nil {
		return core.BudgetCategory{}, persistence("create budget category", err)
	}
	return toCoreBudget(row), nil
}

func (l *Ledger) GetBudget(ctx context.Context, userID, id int64) (core.BudgetCategory, error) {
	row, err := l.queries.GetBudgetCategory(ctx, GetBudgetCategoryParams{ID: id, UserID: userID})
	if err != nil {
		return core.BudgetCategory{}, lookupErr("budget category", id, err)
	}
	return toCoreBudget(row), nil
}

func (l *Ledger) ListBudgets(ctx context.Context, userID int64) ([]core.BudgetCategory, error) {
	rows, err := l.queries.ListBudgetCategories(ctx, userID)
	if err != nil {
		return nil, persistence("list budget categories", err)
	}
	budgets := make([]core.BudgetCategory, len(rows))
	for i, r := range rows {
		budgets[i] = toCoreBudget(r)
	}
	return budgets, nil
}

// UpdateBudget writes b's settings and shifts remaining by remainingDelta.
func (l *Ledger) UpdateBudget(ctx context.Context, b core.BudgetCategory, remainingDelta core.Money) error {
	n, err := l.queries.UpdateBudgetCategory(ctx, UpdateBudgetCategoryParams{
		Name:              b.Name,
		Description:       b.Description,
		BudgetAmountCents: b.BudgetAmount.Cents,
		RemainingDelta:    remainingDelta.Cents,
		AutoReset:         b.AutoReset,
		TimePeriod:        nullString(string(b.TimePeriod)),
		NextDate:          nullDate(b.NextDate),
		LastReset:         nullDate(b.LastReset),
		ID:                b.ID,
		UserID:            b.UserID,
	})
	return requireRow("budget category", b.ID, n, err)
}

// DeleteBudget refuses while transactions are linked to the category.
func (l *Ledger) DeleteBudget(ctx context.Context, userID, id int64) error {
	if _, err := l.GetBudget(ctx, userID, id); err != nil {
		return err
	}
	linked, err := l.queries.CountBudgetTransactions(ctx, id)
	if err != nil {
		return persistence("count budget transactions", err)
	}
	if linked > 0 {
		return core.Invalid("budget_category", "Cannot delete a budget category with transactions linked to it")
	}
	n, err := l.queries.DeleteBudgetCategory(ctx, DeleteBudgetCategoryParams{ID: id, UserID: userID})
	return requireRow("budget category", id, n, err)
}

// AdjustBudgetRemaining adds delta to remaining_amount. A missing category
// yields core.ErrReference.
func (l *Ledger) AdjustBudgetRemaining(ctx context.Context, userID, id int64, delta core.Money) error {
	n, err := l.queries.AdjustBudgetRemaining(ctx, AdjustBudgetRemainingParams{
		DeltaCents: delta.Cents,
		ID:         id,
		UserID:     userID,
	})
	if err != nil {
		return persistence("adjust budget remaining", err)
	}
	if n == 0 {
		return core.ReferenceMissing("budget category", id)
	}
	return nil
}

// ListDueBudgets returns auto-reset categories scheduled on or before cutoff
// across all users.
func (l *Ledger) ListDueBudgets(ctx context.Context, cutoff core.Date) ([]DueBudget, error) {
	rows, err := l.queries.ListDueBudgetCategories(ctx, cutoff.String())
	if err != nil {
		return nil, persistence("list due budget categories", err)
	}
	due := make([]DueBudget, len(rows))
	for i, r := range rows {
		due[i] = DueBudget{Budget: toCoreBudget(r.BudgetCategory), TimeZone: r.TimeZone}
	}
	return due, nil
}

// ResetBudget refills the category and moves its schedule from expected to
// next. It reports false when another pass already moved it.
func (l *Ledger) ResetBudget(ctx context.Context, id int64, expected, next core.Date) (bool, error) {
	n, err := l.queries.ResetBudgetCategory(ctx, ResetBudgetCategoryParams{
		LastReset:        expected.String(),
		NextDate:         next.String(),
		ID:               id,
		ExpectedNextDate: expected.String(),
	})
	if err != nil {
		return false, persistence("reset budget category", err)
	}
	return n == 1, nil
}

func toCoreBudget(b BudgetCategory) core.BudgetCategory {
	return core.BudgetCategory{
		ID:              b.ID,
		UserID:          b.UserID,
		Name:            b.Name,
		Description:     b.Description,
		BudgetAmount:    core.Cents(b.BudgetAmountCents),
		RemainingAmount: core.Cents(b.RemainingAmountCents),
		AutoReset:       b.AutoReset,
		TimePeriod:      core.Frequency(b.TimePeriod.String),
		NextDate:        storedNullDate(b.NextDate),
		LastReset:       storedNullDate(b.LastReset),
		Currency:        b.Currency,
	}
}
