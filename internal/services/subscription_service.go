package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"moneytrack/internal/core"
	"moneytrack/internal/storage"
)

type SubscriptionService struct {
	storage *storage.SQLiteRepository
}

func NewSubscriptionService(storage *storage.SQLiteRepository) *SubscriptionService {
	return &SubscriptionService{storage: storage}
}

func (s *SubscriptionService) Create(ctx context.Context, userID int64, in core.SubscriptionInput) (core.Subscription, error) {
	freq, err := in.Validate()
	if err != nil {
		return core.Subscription{}, err
	}

	var created core.Subscription
	err = s.storage.InTx(ctx, func(l *storage.Ledger) error {
		currency, err := subscriptionCurrency(ctx, l, userID, in.AccountID)
		if err != nil {
			return err
		}
		created, err = l.CreateSubscription(ctx, core.Subscription{
			UserID:             userID,
			Name:               strings.TrimSpace(in.Name),
			Amount:             in.Amount,
			Frequency:          freq,
			AutoAddTransaction: in.AutoAddTransaction,
			AccountID:          in.AccountID,
			NextPaymentDate:    in.NextPaymentDate,
			Currency:           currency,
		})
		return err
	})
	if err != nil {
		return core.Subscription{}, fmt.Errorf("create subscription: %w", err)
	}

	slog.InfoContext(ctx, "Subscription created",
		"user_id", userID,
		"subscription_id", created.ID,
		"frequency", created.Frequency,
		"amount_cents", created.Amount.Cents)
	return created, nil
}

func (s *SubscriptionService) Update(ctx context.Context, userID, id int64, in core.SubscriptionInput) (core.Subscription, error) {
	freq, err := in.Validate()
	if err != nil {
		return core.Subscription{}, err
	}

	var updated core.Subscription
	err = s.storage.InTx(ctx, func(l *storage.Ledger) error {
		current, err := l.GetSubscription(ctx, userID, id)
		if err != nil {
			return err
		}
		if _, err := subscriptionCurrency(ctx, l, userID, in.AccountID); err != nil {
			return err
		}
		current.Name = strings.TrimSpace(in.Name)
		current.Amount = in.Amount
		current.Frequency = freq
		current.AutoAddTransaction = in.AutoAddTransaction
		current.AccountID = in.AccountID
		current.NextPaymentDate = in.NextPaymentDate
		if err := l.UpdateSubscription(ctx, current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return core.Subscription{}, fmt.Errorf("update subscription %d: %w", id, err)
	}
	return updated, nil
}

// Delete removes the subscription. Transactions it already posted remain.
func (s *SubscriptionService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.storage.DeleteSubscription(ctx, userID, id); err != nil {
		return fmt.Errorf("delete subscription %d: %w", id, err)
	}
	slog.InfoContext(ctx, "Subscription deleted", "user_id", userID, "subscription_id", id)
	return nil
}

func (s *SubscriptionService) Get(ctx context.Context, userID, id int64) (core.Subscription, error) {
	return s.storage.GetSubscription(ctx, userID, id)
}

func (s *SubscriptionService) List(ctx context.Context, userID int64) ([]core.Subscription, error) {
	return s.storage.ListSubscriptions(ctx, userID)
}

// subscriptionCurrency checks the charged account belongs to the user and
// returns its currency, or the owner's when no account is set.
func subscriptionCurrency(ctx context.Context, l *storage.Ledger, userID, accountID int64) (string, error) {
	if accountID != 0 {
		a, err := l.GetAccount(ctx, userID, accountID)
		if err != nil {
			return "", err
		}
		return a.Currency, nil
	}
	owner, err := l.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return owner.Currency, nil
}
