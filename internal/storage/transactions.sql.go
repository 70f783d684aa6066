package storage

import (
	"context"
	"database/sql"
)

const transactionColumns = `id, user_id, type, amount_cents, description, date, account_from_id, account_to_id, budget_category_id, subscription_id, currency, created_at`

const createTransaction = `-- name: CreateTransaction :one
INSERT INTO transactions (user_id, type, amount_cents, description, date, account_from_id, account_to_id, budget_category_id, subscription_id, currency)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + transactionColumns

type CreateTransactionParams struct {
	UserID           int64
	Type             string
	AmountCents      int64
	Description      string
	Date             string
	AccountFromID    sql.NullInt64
	AccountToID      sql.NullInt64
	BudgetCategoryID sql.NullInt64
	SubscriptionID   sql.NullInt64
	Currency         string
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, createTransaction,
		arg.UserID,
		arg.Type,
		arg.AmountCents,
		arg.Description,
		arg.Date,
		arg.AccountFromID,
		arg.AccountToID,
		arg.BudgetCategoryID,
		arg.SubscriptionID,
		arg.Currency,
	)
	return scanTransaction(row)
}

const getTransaction = `-- name: GetTransaction :one
SELECT ` + transactionColumns + ` FROM transactions WHERE id = ? AND user_id = ?
`

type GetTransactionParams struct {
	ID     int64
	UserID int64
}

func (q *Queries) GetTransaction(ctx context.Context, arg GetTransactionParams) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, getTransaction, arg.ID, arg.UserID)
	return scanTransaction(row)
}

const listTransactions = `-- name: ListTransactions :many
SELECT ` + transactionColumns + `
FROM transactions
WHERE user_id = ?1
  AND (?2 = '' OR date >= ?2)
  AND (?3 = '' OR date <= ?3)
  AND (?4 = 0 OR account_from_id = ?4 OR account_to_id = ?4)
  AND (?5 = 0 OR budget_category_id = ?5)
  AND (?6 = '' OR type = ?6)
ORDER BY date DESC, id DESC
LIMIT ?7
`

type ListTransactionsParams struct {
	UserID           int64
	FromDate         string
	ToDate           string
	AccountID        int64
	BudgetCategoryID int64
	Type             string
	Limit            int64
}

func (q *Queries) ListTransactions(ctx context.Context, arg ListTransactionsParams) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions,
		arg.UserID,
		arg.FromDate,
		arg.ToDate,
		arg.AccountID,
		arg.BudgetCategoryID,
		arg.Type,
		arg.Limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		i, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateTransaction = `-- name: UpdateTransaction :execrows
UPDATE transactions
SET type = ?, amount_cents = ?, description = ?, date = ?,
    account_from_id = ?, account_to_id = ?, budget_category_id = ?, subscription_id = ?
WHERE id = ? AND user_id = ?
`

type UpdateTransactionParams struct {
	Type             string
	AmountCents      int64
	Description      string
	Date             string
	AccountFromID    sql.NullInt64
	AccountToID      sql.NullInt64
	BudgetCategoryID sql.NullInt64
	SubscriptionID   sql.NullInt64
	ID               int64
	UserID           int64
}

func (q *Queries) UpdateTransaction(ctx context.Context, arg UpdateTransactionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateTransaction,
		arg.Type,
		arg.AmountCents,
		arg.Description,
		arg.Date,
		arg.AccountFromID,
		arg.AccountToID,
		arg.BudgetCategoryID,
		arg.SubscriptionID,
		arg.ID,
		arg.UserID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteTransaction = `-- name: DeleteTransaction :execrows
DELETE FROM transactions WHERE id = ? AND user_id = ?
`

type DeleteTransactionParams struct {
	ID     int64
	UserID int64
}

func (q *Queries) DeleteTransaction(ctx context.Context, arg DeleteTransactionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTransaction, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countTransactionPayments = `-- name: CountTransactionPayments :one
SELECT COUNT(*) FROM payments WHERE transaction_id = ?
`

func (q *Queries) CountTransactionPayments(ctx context.Context, transactionID int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, countTransactionPayments, transactionID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const sumTransactionsByType = `-- name: SumTransactionsByType :many
SELECT type, CAST(COALESCE(SUM(amount_cents), 0) AS INTEGER) AS total_cents
FROM transactions
WHERE user_id = ? AND date >= ? AND date <= ?
GROUP BY type
`

type SumTransactionsByTypeParams struct {
	UserID   int64
	FromDate string
	ToDate   string
}

type SumTransactionsByTypeRow struct {
	Type       string
	TotalCents int64
}

func (q *Queries) SumTransactionsByType(ctx context.Context, arg SumTransactionsByTypeParams) ([]SumTransactionsByTypeRow, error) {
	rows, err := q.db.QueryContext(ctx, sumTransactionsByType, arg.UserID, arg.FromDate, arg.ToDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SumTransactionsByTypeRow
	for rows.Next() {
		var i SumTransactionsByTypeRow
		if err := rows.Scan(&i.Type, &i.TotalCents); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanTransaction(row rowScanner) (Transaction, error) {
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Type,
		&i.AmountCents,
		&i.Description,
		&i.Date,
		&i.AccountFromID,
		&i.AccountToID,
		&i.BudgetCategoryID,
		&i.SubscriptionID,
		&i.Currency,
		&i.CreatedAt,
	)
	return i, err
}
