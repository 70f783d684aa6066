package storage

import (
	"context"
	"database/sql"
)

const budgetColumns = `id, user_id, name, description, budget_amount_cents, remaining_amount_cents, auto_reset, time_period, next_date, last_reset, currency`

const createBudgetCategory = `-- name: CreateBudgetCategory :one
INSERT INTO budget_categories (user_id, name, description, budget_amount_cents, remaining_amount_cents, auto_reset, time_period, next_date, last_reset, currency)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + budgetColumns

type CreateBudgetCategoryParams struct {
	UserID               int64
	Name                 string
	Description          string
	BudgetAmountCents    int64
	RemainingAmountCents int64
	AutoReset            bool
	TimePeriod           sql.NullString
	NextDate             sql.NullString
	LastReset            sql.NullString
	Currency             string
}

func (q *Queries) CreateBudgetCategory(ctx context.Context, arg CreateBudgetCategoryParams) (BudgetCategory, error) {
	row := q.db.QueryRowContext(ctx, createBudgetCategory,
		arg.UserID,
		arg.Name,
		arg.Description,
		arg.BudgetAmountCents,
		arg.RemainingAmountCents,
		arg.AutoReset,
		arg.TimePeriod,
		arg.NextDate,
		arg.LastReset,
		arg.Currency,
	)
	return scanBudgetCategory(row)
}

const getBudgetCategory = `-- name: GetBudgetCategory :one
SELECT ` + budgetColumns + ` FROM budget_categories WHERE id = ? AND user_id = ?
`

type GetBudgetCategoryParams struct {
	ID     int64
	UserID int64
}

func (q *Queries) GetBudgetCategory(ctx context.Context, arg GetBudgetCategoryParams) (BudgetCategory, error) {
	row := q.db.QueryRowContext(ctx, getBudgetCategory, arg.ID, arg.UserID)
	return scanBudgetCategory(row)
}

const listBudgetCategories = `-- name: ListBudgetCategories :many
SELECT ` + budgetColumns + ` FROM budget_categories WHERE user_id = ? ORDER BY name, id
`

func (q *Queries) ListBudgetCategories(ctx context.Context, userID int64) ([]BudgetCategory, error) {
	rows, err := q.db.QueryContext(ctx, listBudgetCategories, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BudgetCategory
	for rows.Next() {
		i, err := scanBudgetCategory(rows)
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

const updateBudgetCategory = `-- name: UpdateBudgetCategory :execrows
UPDATE budget_categories
SET name = ?, description = ?, budget_amount_cents = ?,
    remaining_amount_cents = remaining_amount_cents + ?,
    auto_reset = ?, time_period = ?, next_date = ?, last_reset = ?
WHERE id = ? AND user_id = ?
`

type UpdateBudgetCategoryParams struct {
	Name              string
	Description       string
	BudgetAmountCents int64
	RemainingDelta    int64
	AutoReset         bool
	TimePeriod        sql.NullString
	NextDate          sql.NullString
	LastReset         sql.NullString
	ID                int64
	UserID            int64
}

func (q *Queries) UpdateBudgetCategory(ctx context.Context, arg UpdateBudgetCategoryParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateBudgetCategory,
		arg.Name,
		arg.Description,
		arg.BudgetAmountCents,
		arg.RemainingDelta,
		arg.AutoReset,
		arg.TimePeriod,
		arg.NextDate,
		arg.LastReset,
		arg.ID,
		arg.UserID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteBudgetCategory = `-- name: DeleteBudgetCategory :execrows
DELETE FROM budget_categories WHERE id = ? AND user_id = ?
`

type DeleteBudgetCategoryParams struct {
	ID     int64
	UserID int64
}

func (q *Queries) DeleteBudgetCategory(ctx context.Context, arg DeleteBudgetCategoryParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteBudgetCategory, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const adjustBudgetRemaining = `-- name: AdjustBudgetRemaining :execrows
UPDATE budget_categories SET remaining_amount_cents = remaining_amount_cents + ?
WHERE id = ? AND user_id = ?
`

type AdjustBudgetRemainingParams struct {
	DeltaCents int64
	ID         int64
	UserID     int64
}

func (q *Queries) AdjustBudgetRemaining(ctx context.Context, arg AdjustBudgetRemainingParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, adjustBudgetRemaining, arg.DeltaCents, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countBudgetTransactions = `-- name: CountBudgetTransactions :one
SELECT COUNT(*) FROM transactions WHERE budget_category_id = ?
`

func (q *Queries) CountBudgetTransactions(ctx context.Context, budgetCategoryID int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, countBudgetTransactions, budgetCategoryID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listDueBudgetCategories = `-- name: ListDueBudgetCategories :many
SELECT b.id, b.user_id, b.name, b.description, b.budget_amount_cents, b.remaining_amount_cents,
       b.auto_reset, b.time_period, b.next_date, b.last_reset, b.currency, u.time_zone
FROM budget_categories b
JOIN users u ON u.id = b.user_id
WHERE b.auto_reset = 1 AND b.next_date IS NOT NULL AND b.next_date <= ?
ORDER BY b.next_date, b.id
`

type ListDueBudgetCategoriesRow struct {
	BudgetCategory BudgetCategory
	TimeZone       string
}

// ListDueBudgetCategories returns auto-reset categories scheduled on or
// before cutoff, with the owner's time zone.
func (q *Queries) ListDueBudgetCategories(ctx context.Context, cutoff string) ([]ListDueBudgetCategoriesRow, error) {
	rows, err := q.db.QueryContext(ctx, listDueBudgetCategories, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListDueBudgetCategoriesRow
	for rows.Next() {
		var i ListDueBudgetCategoriesRow
		b := &i.BudgetCategory
		if err := rows.Scan(
			&b.ID,
			&b.UserID,
			&b.Name,
			&b.Description,
			&b.BudgetAmountCents,
			&b.RemainingAmountCents,
			&b.AutoReset,
			&b.TimePeriod,
			&b.NextDate,
			&b.LastReset,
			&b.Currency,
			&i.TimeZone,
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

const resetBudgetCategory = `-- name: ResetBudgetCategory :execrows
UPDATE budget_categories
SET remaining_amount_cents = budget_amount_cents, last_reset = ?, next_date = ?
WHERE id = ? AND auto_reset = 1 AND next_date = ?
`

type ResetBudgetCategoryParams struct {
	LastReset        string
	NextDate         string
	ID               int64
	ExpectedNextDate string
}

// ResetBudgetCategory only matches while next_date still equals
// ExpectedNextDate, so a repeated pass cannot advance a category twice.
func (q *Queries) ResetBudgetCategory(ctx context.Context, arg ResetBudgetCategoryParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, resetBudgetCategory,
		arg.LastReset,
		arg.NextDate,
		arg.ID,
		arg.ExpectedNextDate,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBudgetCategory(row rowScanner) (BudgetCategory, error) {
	var i BudgetCategory
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Name,
		&i.Description,
		&i.BudgetAmountCents,
		&i.RemainingAmountCents,
		&i.AutoReset,
		&i.TimePeriod,
		&i.NextDate,
		&i.LastReset,
		&i.Currency,
	)
	return i, err
}
