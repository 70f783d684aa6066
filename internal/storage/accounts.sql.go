package storage

import (
	"context"
	"database/sql"
)

const createAccount = `-- name: CreateAccount :one
INSERT INTO accounts (user_id, name, type, starting_balance_cents, current_balance_cents, goal_amount_cents, currency)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id, user_id, name, type, starting_balance_cents, current_balance_cents, goal_amount_cents, currency
`

type CreateAccountParams struct {
	UserID               int64
	Name                 string
	Type                 string
	StartingBalanceCents int64
	CurrentBalanceCents  int64
	GoalAmountCents      sql.NullInt64
	Currency             string
}

func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) (Account, error) {
	row := q.db.QueryRowContext(ctx, createAccount,
		arg.UserID,
		arg.Name,
		arg.Type,
		arg.StartingBalanceCents,
		arg.CurrentBalanceCents,
		arg.GoalAmountCents,
		arg.Currency,
	)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Name,
		&i.Type,
		&i.StartingBalanceCents,
		&i.CurrentBalanceCents,
		&i.GoalAmountCents,
		&i.Currency,
	)
	return i, err
}

const getAccount = `-- name: GetAccount :one
SELECT id, user_id, name, type, starting_balance_cents, current_balance_cents, goal_amount_cents, currency
FROM accounts WHERE id = ? AND user_id = ?
`

type GetAccountParams struct {
	ID     int64
	UserID int64
}

func (q *Queries) GetAccount(ctx context.Context, arg GetAccountParams) (Account, error) {
	row := q.db.QueryRowContext(ctx, getAccount, arg.ID, arg.UserID)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Name,
		&i.Type,
		&i.StartingBalanceCents,
		&i.CurrentBalanceCents,
		&i.GoalAmountCents,
		&i.Currency,
	)
	return i, err
}

const listAccounts = `-- name: ListAccounts :many
SELECT id, user_id, name, type, starting_balance_cents, current_balance_cents, goal_amount_cents, currency
FROM accounts WHERE user_id = ? ORDER BY name, id
`

func (q *Queries) ListAccounts(ctx context.Context, userID int64) ([]Account, error) {
	rows, err := q.db.QueryContext(ctx, listAccounts, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.Name,
			&i.Type,
			&i.StartingBalanceCents,
			&i.CurrentBalanceCents,
			&i.GoalAmountCents,
			&i.Currency,
		); err != nil {
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

const updateAccount = `-- name: UpdateAccount :execrows
UPDATE accounts SET name = ?, type = ?, goal_amount_cents = ?
WHERE id = ? AND user_id = ?
`

type UpdateAccountParams struct {
	Name            string
	Type            string
	GoalAmountCents sql.NullInt64
	ID              int64
	UserID          int64
}

func (q *Queries) UpdateAccount(ctx context.Context, arg UpdateAccountParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateAccount,
		arg.Name,
		arg.Type,
		arg.GoalAmountCents,
		arg.ID,
		arg.UserID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteAccount = `-- name: DeleteAccount :execrows
DELETE FROM accounts WHERE id = ? AND user_id = ?
`

type DeleteAccountParams struct {
	ID     int64
	UserID int64
}

func (q *Queries) DeleteAccount(ctx context.Context, arg DeleteAccountParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAccount, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const adjustAccountBalance = `-- name: AdjustAccountBalance :execrows
UPDATE accounts SET current_balance_cents = current_balance_cents + ?
WHERE id = ? AND user_id = ?
`

type AdjustAccountBalanceParams struct {
	DeltaCents int64
	ID         int64
	UserID     int64
}

func (q *Queries) AdjustAccountBalance(ctx context.Context, arg AdjustAccountBalanceParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, adjustAccountBalance, arg.DeltaCents, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countAccountReferences = `-- name: CountAccountReferences :one
SELECT
    (SELECT COUNT(*) FROM transactions t WHERE t.account_from_id = ?1 OR t.account_to_id = ?1)
  + (SELECT COUNT(*) FROM subscriptions s WHERE s.account_id = ?1)
  + (SELECT COUNT(*) FROM payments p WHERE p.account_id = ?1)
`

func (q *Queries) CountAccountReferences(ctx context.Context, id int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, countAccountReferences, id)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const sumAccountBalances = `-- name: SumAccountBalances :one
SELECT CAST(COALESCE(SUM(current_balance_cents), 0) AS INTEGER) FROM accounts WHERE user_id = ?
`

func (q *Queries) SumAccountBalances(ctx context.Context, userID int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, sumAccountBalances, userID)
	var total int64
	err := row.Scan(&total)
	return total, err
}
