package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"moneytrack/internal/core"
	"moneytrack/internal/storage"
)

type BudgetService struct {
	storage  *storage.SQLiteRepository
	calendar core.Calendar
}

func NewBudgetService(storage *storage.SQLiteRepository, calendar core.Calendar) *BudgetService {
	return &BudgetService{storage: storage, calendar: calendar}
}

// Create stores a category with its full amount remaining. Auto-reset
// categories get last_reset one period before their first reset date.
func (s *BudgetService) Create(ctx context.Context, userID int64, in core.BudgetInput) (core.BudgetCategory, error) {
	b, err := s.fromInput(in)
	if err != nil {
		return core.BudgetCategory{}, err
	}
	b.UserID = userID

	var created core.BudgetCategory
	err = s.storage.InTx(ctx, func(l *storage.Ledger) error {
		owner, err := l.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		b.Currency = owner.Currency
		created, err = l.CreateBudget(ctx, b)
		return err
	})
	if err != nil {
		return core.BudgetCategory{}, fmt.Errorf("create budget category: %w", err)
	}

	slog.InfoContext(ctx, "Budget category created",
		"user_id", userID,
		"budget_id", created.ID,
		"budget_cents", created.BudgetAmount.Cents,
		"auto_reset", created.AutoReset)
	return created, nil
}

// Update changes the category's settings. What was already spent stays
// spent: remaining moves by the change in budget amount.
func (s *BudgetService) Update(ctx context.Context, userID, id int64, in core.BudgetInput) (core.BudgetCategory, error) {
	b, err := s.fromInput(in)
	if err != nil {
		return core.BudgetCategory{}, err
	}

	var updated core.BudgetCategory
	err = s.storage.InTx(ctx, func(l *storage.Ledger) error {
		current, err := l.GetBudget(ctx, userID, id)
		if err != nil {
			return err
		}
		delta := b.BudgetAmount.Sub(current.BudgetAmount)

		b.ID = id
		b.UserID = userID
		b.Currency = current.Currency
		if err := l.UpdateBudget(ctx, b, delta); err != nil {
			return err
		}
		updated, err = l.GetBudget(ctx, userID, id)
		return err
	})
	if err != nil {
		return core.BudgetCategory{}, fmt.Errorf("update budget category %d: %w", id, err)
	}
	return updated, nil
}

// Delete removes a category no transaction is linked to.
func (s *BudgetService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.storage.DeleteBudget(ctx, userID, id); err != nil {
		return fmt.Errorf("delete budget category %d: %w", id, err)
	}
	slog.InfoContext(ctx, "Budget category deleted", "user_id", userID, "budget_id", id)
	return nil
}

func (s *BudgetService) Get(ctx context.Context, userID, id int64) (core.BudgetCategory, error) {
	return s.storage.GetBudget(ctx, userID, id)
}

func (s *BudgetService) List(ctx context.Context, userID int64) ([]core.BudgetCategory, error) {
	return s.storage.ListBudgets(ctx, userID)
}

func (s *BudgetService) fromInput(in core.BudgetInput) (core.BudgetCategory, error) {
	period, err := in.Validate()
	if err != nil {
		return core.BudgetCategory{}, err
	}
	b := core.BudgetCategory{
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Description),
		BudgetAmount: in.BudgetAmount,
		AutoReset:    in.AutoReset,
	}
	if !in.AutoReset {
		return b, nil
	}
	lastReset, err := s.calendar.Prev(in.NextDate, period)
	if err != nil {
		return core.BudgetCategory{}, err
	}
	b.TimePeriod = period
	b.NextDate = in.NextDate
	b.LastReset = lastReset
	return b, nil
}
