package storage

import (
	"context"

	"moneytrack/internal/core"
)

func (l *Ledger) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	row, err := l.queries.CreateTransaction(ctx, CreateTransactionParams{
		UserID:           t.UserID,
		Type:             string(t.Type),
		AmountCents:      t.Amount.Cents,
		Description:      t.Description,
		Date:             t.Date.String(),
		AccountFromID:    nullID(t.AccountFromID),
		AccountToID:      nullID(t.AccountToID),
		BudgetCategoryID: nullID(t.BudgetCategoryID),
		SubscriptionID:   nullID(t.SubscriptionID),
		Currency:         currencyOr(t.Currency),
	})
	if err != nil {
		return core.Transaction{}, persistence("create transaction", err)
	}
	return toCoreTransaction(row), nil
}

func (l *Ledger) GetTransaction(ctx context.Context, userID, id int64) (core.Transaction, error) {
	row, err := l.queries.GetTransaction(ctx, GetTransactionParams{ID: id, UserID: userID})
	if err != nil {
		return core.Transaction{}, lookupErr("transaction", id, err)
	}
	return toCoreTransaction(row), nil
}

// ListTransactions returns the user's transactions, newest first.
func (l *Ledger) ListTransactions(ctx context.Context, userID int64, f core.TransactionFilter) ([]core.Transaction, error) {
	limit := int64(f.Limit)
	if limit <= 0 {
		limit = -1
	}
	rows, err := l.queries.ListTransactions(ctx, ListTransactionsParams{
		UserID:           userID,
		FromDate:         f.From.String(),
		ToDate:           f.To.String(),
		AccountID:        f.AccountID,
		BudgetCategoryID: f.BudgetCategoryID,
		Type:             string(f.Type),
		Limit:            limit,
	})
	if err != nil {
		return nil, persistence("list transactions", err)
	}
	txs := make([]core.Transaction, len(rows))
	for i, r := range rows {
		txs[i] = toCoreTransaction(r)
	}
	return txs, nil
}

func (l *Ledger) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	n, err := l.queries.UpdateTransaction(ctx, UpdateTransactionParams{
		Type:             string(t.Type),
		AmountCents:      t.Amount.Cents,
		Description:      t.Description,
		Date:             t.Date.String(),
		AccountFromID:    nullID(t.AccountFromID),
		AccountToID:      nullID(t.AccountToID),
		BudgetCategoryID: nullID(t.BudgetCategoryID),
		SubscriptionID:   nullID(t.SubscriptionID),
		ID:               t.ID,
		UserID:           t.UserID,
	})
	return requireRow("transaction", t.ID, n, err)
}

func (l *Ledger) DeleteTransaction(ctx context.Context, userID, id int64) error {
	n, err := l.queries.DeleteTransaction(ctx, DeleteTransactionParams{ID: id, UserID: userID})
	return requireRow("transaction", id, n, err)
}

// TransactionHasPayments reports whether a loan, debt or card payment owns
// the transaction.
func (l *Ledger) TransactionHasPayments(ctx context.Context, id int64) (bool, error) {
	n, err := l.queries.CountTransactionPayments(ctx, id)
	if err != nil {
		return false, persistence("count transaction payments", err)
	}
	return n > 0, nil
}

// MonthOverview sums income and expense for the calendar month holding day.
// Transfers move money between the user's own accounts and are left out.
func (l *Ledger) MonthOverview(ctx context.Context, userID int64, day core.Date) (core.MonthOverview, error) {
	first, last := day.MonthBounds()
	overview := core.MonthOverview{Year: day.Year(), Month: day.Month()}

	rows, err := l.queries.SumTransactionsByType(ctx, SumTransactionsByTypeParams{
		UserID:   userID,
		FromDate: first.String(),
		ToDate:   last.String(),
	})
	if err != nil {
		return overview, persistence("sum transactions", err)
	}
	for _, r := range rows {
		switch core.TransactionType(r.Type) {
		case core.Income:
			overview.Income = core.Cents(r.TotalCents)
		case core.Expense:
			overview.Expense = core.Cents(r.TotalCents)
		}
	}
	return overview, nil
}

func toCoreTransaction(t Transaction) core.Transaction {
	return core.Transaction{
		ID:               t.ID,
		UserID:           t.UserID,
		Type:             core.TransactionType(t.Type),
		Amount:           core.Cents(t.AmountCents),
		Description:      t.Description,
		Date:             storedDate(t.Date),
		AccountFromID:    t.AccountFromID.Int64,
		AccountToID:      t.AccountToID.Int64,
		BudgetCategoryID: t.BudgetCategoryID.Int64,
		SubscriptionID:   t.SubscriptionID.Int64,
		Currency:         t.Currency,
		CreatedAt:        t.CreatedAt,
	}
}
