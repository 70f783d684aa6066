package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"moneytrack/internal/core"
	"moneytrack/internal/storage"
)

type AccountService struct {
	storage *storage.SQLiteRepository
}

func NewAccountService(storage *storage.SQLiteRepository) *AccountService {
	return &AccountService{storage: storage}
}

// Create opens an account whose current balance starts at the starting
// balance. The currency defaults to the owner's.
func (s *AccountService) Create(ctx context.Context, userID int64, in core.AccountInput) (core.Account, error) {
	if err := in.Validate(); err != nil {
		return core.Account{}, err
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency != "" && !core.KnownCurrency(currency) {
		return core.Account{}, core.Invalid("currency", "unknown currency %q", in.Currency)
	}

	var created core.Account
	err := s.storage.InTx(ctx, func(l *storage.Ledger) error {
		owner, err := l.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		if currency == "" {
			currency = owner.Currency
		}
		created, err = l.CreateAccount(ctx, core.Account{
			UserID:          userID,
			Name:            strings.TrimSpace(in.Name),
			Type:            in.ResolvedType(),
			StartingBalance: in.StartingBalance,
			GoalAmount:      goalFor(in),
			Currency:        currency,
		})
		return err
	})
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}

	slog.InfoContext(ctx, "Account created",
		"user_id", userID,
		"account_id", created.ID,
		"type", created.Type,
		"starting_balance_cents", created.StartingBalance.Cents)
	return created, nil
}

// Update renames, retypes or re-targets an account. Balances never change
// here; the starting balance in the input is ignored.
func (s *AccountService) Update(ctx context.Context, userID, id int64, in core.AccountInput) (core.Account, error) {
	if err := in.Validate(); err != nil {
		return core.Account{}, err
	}

	var updated core.Account
	err := s.storage.InTx(ctx, func(l *storage.Ledger) error {
		current, err := l.GetAccount(ctx, userID, id)
		if err != nil {
			return err
		}
		current.Name = strings.TrimSpace(in.Name)
		current.Type = in.ResolvedType()
		current.GoalAmount = goalFor(in)
		if err := l.UpdateAccount(ctx, current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return core.Account{}, fmt.Errorf("update account %d: %w", id, err)
	}
	return updated, nil
}

// Delete removes an account nothing references.
func (s *AccountService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.storage.DeleteAccount(ctx, userID, id); err != nil {
		return fmt.Errorf("delete account %d: %w", id, err)
	}
	slog.InfoContext(ctx, "Account deleted", "user_id", userID, "account_id", id)
	return nil
}

func (s *AccountService) Get(ctx context.Context, userID, id int64) (core.Account, error) {
	return s.storage.GetAccount(ctx, userID, id)
}

func (s *AccountService) List(ctx context.Context, userID int64) ([]core.Account, error) {
	return s.storage.ListAccounts(ctx, userID)
}

func (s *AccountService) TotalBalance(ctx context.Context, userID int64) (core.Money, error) {
	return s.storage.TotalBalance(ctx, userID)
}

func goalFor(in core.AccountInput) core.Money {
	if in.ResolvedType() == core.AccountTypeGoal {
		return in.GoalAmount
	}
	return core.Money{}
}
