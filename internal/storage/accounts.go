package storage

import (
	"context"
	"database/sql"

	"moneytrack/internal/core"
)

// CreateAccount stores a new account with current balance equal to its
// starting balance.
func (l *Ledger) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	row, err := l.queries.CreateAccount(ctx, CreateAccountParams{
		UserID:               a.UserID,
		Name:                 a.Name,
		Type:                 a.Type,
		StartingBalanceCents: a.StartingBalance.Cents,
		CurrentBalanceCents:  a.StartingBalance.Cents,
		GoalAmountCents:      nullCents(a.GoalAmount),
		Currency:             currencyOr(a.Currency),
	})
	if err != nil {
		return core.Account{}, persistence("create account", err)
	}
	return toCoreAccount(row), nil
}

func (l *Ledger) GetAccount(ctx context.Context, userID, id int64) (core.Account, error) {
	row, err := l.queries.GetAccount(ctx, GetAccountParams{ID: id, UserID: userID})
	if err != nil {
		return core.Account{}, lookupErr("account", id, err)
	}
	return toCoreAccount(row), nil
}

func (l *Ledger) ListAccounts(ctx context.Context, userID int64) ([]core.Account, error) {
	rows, err := l.queries.ListAccounts(ctx, userID)
	if err != nil {
		return nil, persistence("list accounts", err)
	}
	accounts := make([]core.Account, len(rows))
	for i, r := range rows {
		accounts[i] = toCoreAccount(r)
	}
	return accounts, nil
}

// UpdateAccount changes name, type and goal. Balances are left alone.
func (l *Ledger) UpdateAccount(ctx context.Context, a core.Account) error {
	n, err := l.queries.UpdateAccount(ctx, UpdateAccountParams{
		Name:            a.Name,
		Type:            a.Type,
		GoalAmountCents: nullCents(a.GoalAmount),
		ID:              a.ID,
		UserID:          a.UserID,
	})
	return requireRow("account", a.ID, n, err)
}

// DeleteAccount refuses to remove an account that transactions,
// subscriptions or payments still reference.
func (l *Ledger) DeleteAccount(ctx context.Context, userID, id int64) error {
	if _, err := l.GetAccount(ctx, userID, id); err != nil {
		return err
	}
	refs, err := l.queries.CountAccountReferences(ctx, id)
	if err != nil {
		return persistence("count account references", err)
	}
	if refs > 0 {
		return core.Invalid("account", "account is used by %d transactions or subscriptions; delete those first", refs)
	}
	n, err := l.queries.DeleteAccount(ctx, DeleteAccountParams{ID: id, UserID: userID})
	return requireRow("account", id, n, err)
}

// AdjustAccountBalance adds delta to the account's current balance. A
// missing account yields core.ErrReference.
func (l *Ledger) AdjustAccountBalance(ctx context.Context, userID, id int64, delta core.Money) error {
	n, err := l.queries.AdjustAccountBalance(ctx, AdjustAccountBalanceParams{
		DeltaCents: delta.Cents,
		ID:         id,
		UserID:     userID,
	})
	if err != nil {
		return persistence("adjust account balance", err)
	}
	if n == 0 {
		return core.ReferenceMissing("account", id)
	}
	return nil
}

func (l *Ledger) TotalBalance(ctx context.Context, userID int64) (core.Money, error) {
	total, err := l.queries.SumAccountBalances(ctx, userID)
	if err != nil {
		return core.Money{}, persistence("sum account balances", err)
	}
	return core.Cents(total), nil
}

func nullCents(m core.Money) sql.NullInt64 {
	return sql.NullInt64{Int64: m.Cents, Valid: !m.IsZero()}
}

func toCoreAccount(a Account) core.Account {
	return core.Account{
		ID:              a.ID,
		UserID:          a.UserID,
		Name:            a.Name,
		Type:            a.Type,
		StartingBalance: core.Cents(a.StartingBalanceCents),
		CurrentBalance:  core.Cents(a.CurrentBalanceCents),
		GoalAmount:      core.Cents(a.GoalAmountCents.Int64),
		Currency:        a.Currency,
	}
}
