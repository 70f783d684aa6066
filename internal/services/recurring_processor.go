package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"moneytrack/internal/amqp"
	"moneytrack/internal/core"
	"moneytrack/internal/storage"
)

// errAlreadyAdvanced rolls back an item another pass moved first.
var errAlreadyAdvanced = errors.New("already advanced by another pass")

// RecurringProcessor resets due budget categories and posts due
// subscriptions. Each item commits on its own; a failing item is logged and
// counted without stopping the pass. Cancellation stops the pass before the
// next item.
type RecurringProcessor struct {
	storage  *storage.SQLiteRepository
	calendar core.Calendar
}

func NewRecurringProcessor(storage *storage.SQLiteRepository, calendar core.Calendar) *RecurringProcessor {
	return &RecurringProcessor{
		storage:  storage,
		calendar: calendar,
	}
}

// RunDue runs budget resets then subscription postings against one time
// snapshot.
func (p *RecurringProcessor) RunDue(ctx context.Context, now time.Time) (core.PassSummary, error) {
	if p.storage == nil {
		return core.PassSummary{}, fmt.Errorf("processor not properly initialized")
	}
	checker := NewLocalDateChecker(now)
	summary := core.PassSummary{Today: core.DateOf(now.UTC())}

	reset, failedBudgets, budgetErr := p.resetDueBudgets(ctx, checker)
	summary.BudgetsReset = reset
	summary.Failed += failedBudgets
	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("recurrence pass interrupted: %w", err)
	}

	posted, failedSubs, subErr := p.postDueSubscriptions(ctx, checker)
	summary.SubscriptionsPosted = posted
	summary.Failed += failedSubs

	slog.InfoContext(ctx, "Recurrence pass complete",
		"today_utc", summary.Today.String(),
		"budgets_reset", summary.BudgetsReset,
		"subscriptions_posted", summary.SubscriptionsPosted,
		"failed", summary.Failed)

	return summary, errors.Join(budgetErr, subErr)
}

// ResetDueBudgets refills every auto-reset category whose next date has
// arrived in its owner's time zone.
func (p *RecurringProcessor) ResetDueBudgets(ctx context.Context, now time.Time) (core.PassSummary, error) {
	reset, failed, err := p.resetDueBudgets(ctx, NewLocalDateChecker(now))
	return core.PassSummary{Today: core.DateOf(now.UTC()), BudgetsReset: reset, Failed: failed}, err
}

// PostDueSubscriptions records an expense for every auto-add subscription
// whose payment date has arrived in its owner's time zone.
func (p *RecurringProcessor) PostDueSubscriptions(ctx context.Context, now time.Time) (core.PassSummary, error) {
	posted, failed, err := p.postDueSubscriptions(ctx, NewLocalDateChecker(now))
	return core.PassSummary{Today: core.DateOf(now.UTC()), SubscriptionsPosted: posted, Failed: failed}, err
}

func (p *RecurringProcessor) resetDueBudgets(ctx context.Context, checker *LocalDateChecker) (reset, failed int, err error) {
	due, err := p.storage.ListDueBudgets(ctx, checker.Cutoff())
	if err != nil {
		return 0, 0, fmt.Errorf("list due budgets: %w", err)
	}

	for _, item := range due {
		if err := ctx.Err(); err != nil {
			return reset, failed, fmt.Errorf("budget resets interrupted: %w", err)
		}
		b := item.Budget
		isDue, err := checker.IsDue(b.NextDate, item.TimeZone)
		if err != nil {
			failed++
			slog.ErrorContext(ctx, "Cannot resolve owner date for budget",
				"budget_id", b.ID, "user_id", b.UserID, "time_zone", item.TimeZone, "error", err)
			continue
		}
		if !isDue {
			continue
		}

		if err := p.resetBudget(ctx, b); err != nil {
			if errors.Is(err, errAlreadyAdvanced) {
				continue
			}
			failed++
			slog.ErrorContext(ctx, "Failed to reset budget category",
				"budget_id", b.ID, "user_id", b.UserID, "next_date", b.NextDate.String(), "error", err)
			continue
		}
		reset++
	}
	return reset, failed, nil
}

func (p *RecurringProcessor) resetBudget(ctx context.Context, b core.BudgetCategory) error {
	next, err := p.calendar.Next(b.NextDate, b.TimePeriod)
	if err != nil {
		return err
	}

	err = p.storage.InTx(ctx, func(l *storage.Ledger) error {
		ok, err := l.ResetBudget(ctx, b.ID, b.NextDate, next)
		if err != nil {
			return err
		}
		if !ok {
			return errAlreadyAdvanced
		}
		msg := fmt.Sprintf("Budget %s was reset to %s", b.Name, b.BudgetAmount.Format(b.Currency))
		return recordEvent(ctx, l, amqp.EventBudgetReset, b.UserID, b.ID, b.BudgetAmount, msg)
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Budget category reset",
		"budget_id", b.ID,
		"user_id", b.UserID,
		"last_reset", b.NextDate.String(),
		"next_date", next.String())
	return nil
}

func (p *RecurringProcessor) postDueSubscriptions(ctx context.Context, checker *LocalDateChecker) (posted, failed int, err error) {
	due, err := p.storage.ListDueSubscriptions(ctx, checker.Cutoff())
	if err != nil {
		return 0, 0, fmt.Errorf("list due subscriptions: %w", err)
	}

	for _, item := range due {
		if err := ctx.Err(); err != nil {
			return posted, failed, fmt.Errorf("subscription postings interrupted: %w", err)
		}
		s := item.Subscription
		isDue, err := checker.IsDue(s.NextPaymentDate, item.TimeZone)
		if err != nil {
			failed++
			slog.ErrorContext(ctx, "Cannot resolve owner date for subscription",
				"subscription_id", s.ID, "user_id", s.UserID, "time_zone", item.TimeZone, "error", err)
			continue
		}
		if !isDue {
			continue
		}

		if err := p.postSubscription(ctx, s); err != nil {
			if errors.Is(err, errAlreadyAdvanced) {
				continue
			}
			failed++
			slog.ErrorContext(ctx, "Failed to post subscription",
				"subscription_id", s.ID, "user_id", s.UserID, "next_payment_date", s.NextPaymentDate.String(), "error", err)
			continue
		}
		posted++
	}
	return posted, failed, nil
}

func (p *RecurringProcessor) postSubscription(ctx context.Context, s core.Subscription) error {
	next, err := p.calendar.Next(s.NextPaymentDate, s.Frequency)
	if err != nil {
		return err
	}
	if s.AccountID == 0 {
		return core.Invalid("account_id", "subscription %d has no account to charge", s.ID)
	}

	var tx core.Transaction
	err = p.storage.InTx(ctx, func(l *storage.Ledger) error {
		ok, err := l.AdvanceSubscription(ctx, s.ID, s.NextPaymentDate, next)
		if err != nil {
			return err
		}
		if !ok {
			return errAlreadyAdvanced
		}

		tx, err = postTransaction(ctx, l, s.UserID, core.TransactionInput{
			Type:           core.Expense,
			Amount:         s.Amount,
			Description:    fmt.Sprintf("Subscription payment: %s", s.Name),
			Date:           s.NextPaymentDate,
			AccountFromID:  s.AccountID,
			SubscriptionID: s.ID,
		})
		if err != nil {
			return err
		}

		msg := fmt.Sprintf("Subscription %s charged %s", s.Name, s.Amount.Format(tx.Currency))
		return recordEvent(ctx, l, amqp.EventSubscriptionPosted, s.UserID, tx.ID, s.Amount, msg)
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Subscription posted",
		"subscription_id", s.ID,
		"user_id", s.UserID,
		"transaction_id", tx.ID,
		"amount_cents", s.Amount.Cents,
		"next_payment_date", next.String())
	return nil
}
