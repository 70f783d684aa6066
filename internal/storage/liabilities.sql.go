package storage

import (
	"context"
	"database/sql"
)

const loanColumns = `id, user_id, counterparty_name, amount_cents, interest_rate, start_date, end_date, type, currency`

const createLoan = `-- name: CreateLoan :one
INSERT INTO loans (user_id, counterparty_name, amount_cents, interest_rate, start_date, end_date, type, currency)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + loanColumns

type CreateLoanParams struct {
	UserID           int64
	CounterpartyName string
	AmountCents      int64
	InterestRate     string
	StartDate        sql.NullString
	EndDate          sql.NullString
	Type             string
	Currency         string
}

func (q *Queries) CreateLoan(ctx context.Context, arg CreateLoanParams) (Loan, error) {
	row := q.db.QueryRowContext(ctx, createLoan,
		arg.UserID,
		arg.CounterpartyName,
		arg.AmountCents,
		arg.InterestRate,
		arg.StartDate,
		arg.EndDate,
		arg.Type,
		arg.Currency,
	)
	return scanLoan(row)
}

const getLoan = `-- name: GetLoan :one
SELECT ` + loanColumns + ` FROM loans WHERE id = ? AND user_id = ?
`

type GetLoanParams struct {
	ID     int64
	UserID int64
}

func (q *Queries) GetLoan(ctx context.Context, arg GetLoanParams) (Loan, error) {
	return scanLoan(q.db.QueryRowContext(ctx, getLoan, arg.ID, arg.UserID))
}

const listLoans = `-- name: ListLoans :many
SELECT ` + loanColumns + ` FROM loans WHERE user_id = ? ORDER BY id
`

func (q *Queries) ListLoans(ctx context.Context, userID int64) ([]Loan, error) {
	rows, err := q.db.QueryContext(ctx, listLoans, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Loan
	for rows.Next() {
		i, err := scanLoan(rows)
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

const updateLoan = `-- name: UpdateLoan :execrows
UPDATE loans
SET counterparty_name = ?, amount_cents = ?, interest_rate = ?, start_date = ?, end_date = ?, type = ?
WHERE id = ? AND user_id = ?
`

type UpdateLoanParams struct {
	CounterpartyName string
	AmountCents      int64
	InterestRate     string
	StartDate        sql.NullString
	EndDate          sql.NullString
	Type             string
	ID               int64
	UserID           int64
}

func (q *Queries) UpdateLoan(ctx context.Context, arg UpdateLoanParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateLoan,
		arg.CounterpartyName,
		arg.AmountCents,
		arg.InterestRate,
		arg.StartDate,
		arg.EndDate,
		arg.Type,
		arg.ID,
		arg.UserID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteLoan = `-- name: DeleteLoan :execrows
DELETE FROM loans WHERE id = ? AND user_id = ?
`

type DeleteLoanParams struct {
	ID     int64
	UserID int64
}

func (q *Queries) DeleteLoan(ctx context.Context, arg DeleteLoanParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteLoan, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const debtColumns = `id, user_id, type, amount_cents, interest_rate, start_date, end_date, currency`

const createDebt = `-- name: CreateDebt :one
INSERT INTO debts (user_id, type, amount_cents, interest_rate, start_date, end_date, currency)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + debtColumns

type CreateDebtParams struct {
	UserID       int64
	Type         string
	AmountCents  int64
	InterestRate string
	StartDate    sql.NullString
	EndDate      sql.NullString
	Currency     string
}

func (q *Queries) CreateDebt(ctx context.Context, arg CreateDebtParams) (Debt, error) {
	row := q.db.QueryRowContext(ctx, createDebt,
		arg.UserID,
		arg.Type,
		arg.AmountCents,
		arg.InterestRate,
		arg.StartDate,
		arg.EndDate,
		arg.Currency,
	)
	return scanDebt(row)
}

const getDebt = `-- name: GetDebt :one
SELECT ` + debtColumns + ` FROM debts WHERE id = ? AND user_id = ?
`

type GetDebtParams struct {
	ID     int64
	UserID int64
}

func (q *Queries) GetDebt(ctx context.Context, arg GetDebtParams) (Debt, error) {
	return scanDebt(q.db.QueryRowContext(ctx, getDebt, arg.ID, arg.UserID))
}

const listDebts = `-- name: ListDebts :many
SELECT ` + debtColumns + ` FROM debts WHERE user_id = ? ORDER BY id
`

func (q *Queries) ListDebts(ctx context.Context, userID int64) ([]Debt, error) {
	rows, err := q.db.QueryContext(ctx, listDebts, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Debt
	for rows.Next() {
		i, err := scanDebt(rows)
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

const updateDebt = `-- name: UpdateDebt :execrows
UPDATE debts
SET type = ?, amount_cents = ?, interest_rate = ?, start_date = ?, end_date = ?
WHERE id = ? AND user_id = ?
`

type UpdateDebtParams struct {
	Type         string
	AmountCents  int64
	InterestRate string
	StartDate    sql.NullString
	EndDate      sql.NullString
	ID           int64
	UserID       int64
}

func (q *Queries) UpdateDebt(ctx context.Context, arg UpdateDebtParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateDebt,
		arg.Type,
		arg.AmountCents,
		arg.InterestRate,
		arg.StartDate,
		arg.EndDate,
		arg.ID,
		arg.UserID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteDebt = `-- name: DeleteDebt :execrows
DELETE FROM debts WHERE id = ? AND user_id = ?
`

type DeleteDebtParams struct {
	ID     int64
	UserID int64
}

func (q *Queries) DeleteDebt(ctx context.Context, arg DeleteDebtParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteDebt, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const creditCardColumns = `id, user_id, name, limit_cents, current_balance_cents, interest_rate, statement_due_date, minimum_payment_due_date, billing_cycle_days, currency`

const createCreditCard = `-- name: CreateCreditCard :one
INSERT INTO credit_cards (user_id, name, limit_cents, current_balance_cents, interest_rate, statement_due_date, minimum_payment_due_date, billing_cycle_days, currency)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + creditCardColumns

type CreateCreditCardParams struct {
	UserID                int64
	Name                  string
	LimitCents            int64
	CurrentBalanceCents   int64
	InterestRate          string
	StatementDueDate      string
	MinimumPaymentDueDate string
	BillingCycleDays      int64
	Currency              string
}

func (q *Queries) CreateCreditCard(ctx context.Context, arg CreateCreditCardParams) (CreditCard, error) {
	row := q.db.QueryRowContext(ctx, createCreditCard,
		arg.UserID,
		arg.Name,
		arg.LimitCents,
		arg.CurrentBalanceCents,
		arg.InterestRate,
		arg.StatementDueDate,
		arg.MinimumPaymentDueDate,
		arg.BillingCycleDays,
		arg.Currency,
	)
	return scanCreditCard(row)
}

const getCreditCard = `-- name: GetCreditCard :one
SELECT ` + creditCardColumns + ` FROM credit_cards WHERE id = ? AND user_id = ?
`

type GetCreditCardParams struct {
	ID     int64
	UserID int64
}

func (q *Queries) GetCreditCard(ctx context.Context, arg GetCreditCardParams) (CreditCard, error) {
	return scanCreditCard(q.db.QueryRowContext(ctx, getCreditCard, arg.ID, arg.UserID))
}

const listCreditCards = `-- name: ListCreditCards :many
SELECT ` + creditCardColumns + ` FROM credit_cards WHERE user_id = ? ORDER BY name, id
`

func (q *Queries) ListCreditCards(ctx context.Context, userID int64) ([]CreditCard, error) {
	rows, err := q.db.QueryContext(ctx, listCreditCards, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CreditCard
	for rows.Next() {
		i, err := scanCreditCard(rows)
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

const updateCreditCard = `-- name: UpdateCreditCard :execrows
UPDATE credit_cards
SET name = ?, limit_cents = ?, current_balance_cents = ?, interest_rate = ?,
    statement_due_date = ?, minimum_payment_due_date = ?, billing_cycle_days = ?
WHERE id = ? AND user_id = ?
`

type UpdateCreditCardParams struct {
	Name                  string
	LimitCents            int64
	CurrentBalanceCents   int64
	InterestRate          string
	StatementDueDate      string
	MinimumPaymentDueDate string
	BillingCycleDays      int64
	ID                    int64
	UserID                int64
}

func (q *Queries) UpdateCreditCard(ctx context.Context, arg UpdateCreditCardParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateCreditCard,
		arg.Name,
		arg.LimitCents,
		arg.CurrentBalanceCents,
		arg.InterestRate,
		arg.StatementDueDate,
		arg.MinimumPaymentDueDate,
		arg.BillingCycleDays,
		arg.ID,
		arg.UserID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteCreditCard = `-- name: DeleteCreditCard :execrows
DELETE FROM credit_cards WHERE id = ? AND user_id = ?
`

type DeleteCreditCardParams struct {
	ID     int64
	UserID int64
}

func (q *Queries) DeleteCreditCard(ctx context.Context, arg DeleteCreditCardParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteCreditCard, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const adjustCreditCardBalance = `-- name: AdjustCreditCardBalance :execrows
UPDATE credit_cards SET current_balance_cents = current_balance_cents + ?1
WHERE id = ?2 AND user_id = ?3 AND current_balance_cents + ?1 >= 0
`

type AdjustCreditCardBalanceParams struct {
	DeltaCents int64
	ID         int64
	UserID     int64
}

// AdjustCreditCardBalance matches no row when the result would go below zero.
func (q *Queries) AdjustCreditCardBalance(ctx context.Context, arg AdjustCreditCardBalanceParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, adjustCreditCardBalance, arg.DeltaCents, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const paymentColumns = `id, user_id, kind, parent_id, account_id, transaction_id, amount_cents, date`

const createPayment = `-- name: CreatePayment :one
INSERT INTO payments (user_id, kind, parent_id, account_id, transaction_id, amount_cents, date)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + paymentColumns

type CreatePaymentParams struct {
	UserID        int64
	Kind          string
	ParentID      int64
	AccountID     int64
	TransactionID int64
	AmountCents   int64
	Date          string
}

func (q *Queries) CreatePayment(ctx context.Context, arg CreatePaymentParams) (Payment, error) {
	row := q.db.QueryRowContext(ctx, createPayment,
		arg.UserID,
		arg.Kind,
		arg.ParentID,
		arg.AccountID,
		arg.TransactionID,
		arg.AmountCents,
		arg.Date,
	)
	return scanPayment(row)
}

const getPayment = `-- name: GetPayment :one
SELECT ` + paymentColumns + ` FROM payments WHERE id = ? AND user_id = ?
`

type GetPaymentParams struct {
	ID     int64
	UserID int64
}

func (q *Queries) GetPayment(ctx context.Context, arg GetPaymentParams) (Payment, error) {
	return scanPayment(q.db.QueryRowContext(ctx, getPayment, arg.ID, arg.UserID))
}

const listPayments = `-- name: ListPayments :many
SELECT ` + paymentColumns + ` FROM payments
WHERE user_id = ? AND kind = ? AND parent_id = ?
ORDER BY date DESC, id DESC
`

type ListPaymentsParams struct {
	UserID   int64
	Kind     string
	ParentID int64
}

func (q *Queries) ListPayments(ctx context.Context, arg ListPaymentsParams) ([]Payment, error) {
	rows, err := q.db.QueryContext(ctx, listPayments, arg.UserID, arg.Kind, arg.ParentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Payment
	for rows.Next() {
		i, err := scanPayment(rows)
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

const deletePayment = `-- name: DeletePayment :execrows
DELETE FROM payments WHERE id = ? AND user_id = ?
`

type DeletePaymentParams struct {
	ID     int64
	UserID int64
}

func (q *Queries) DeletePayment(ctx context.Context, arg DeletePaymentParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deletePayment, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countParentPayments = `-- name: CountParentPayments :one
SELECT COUNT(*) FROM payments WHERE kind = ? AND parent_id = ?
`

type CountParentPaymentsParams struct {
	Kind     string
	ParentID int64
}

func (q *Queries) CountParentPayments(ctx context.Context, arg CountParentPaymentsParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countParentPayments, arg.Kind, arg.ParentID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

func scanLoan(row rowScanner) (Loan, error) {
	var i Loan
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.CounterpartyName,
		&i.AmountCents,
		&i.InterestRate,
		&i.StartDate,
		&i.EndDate,
		&i.Type,
		&i.Currency,
	)
	return i, err
}

func scanDebt(row rowScanner) (Debt, error) {
	var i Debt
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Type,
		&i.AmountCents,
		&i.InterestRate,
		&i.StartDate,
		&i.EndDate,
		&i.Currency,
	)
	return i, err
}

func scanCreditCard(row rowScanner) (CreditCard, error) {
	var i CreditCard
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Name,
		&i.LimitCents,
		&i.CurrentBalanceCents,
		&i.InterestRate,
		&i.StatementDueDate,
		&i.MinimumPaymentDueDate,
		&i.BillingCycleDays,
		&i.Currency,
	)
	return i, err
}

func scanPayment(row rowScanner) (Payment, error) {
	var i Payment
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Kind,
		&i.ParentID,
		&i.AccountID,
		&i.TransactionID,
		&i.AmountCents,
		&i.Date,
	)
	return i, err
}
