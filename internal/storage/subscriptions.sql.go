package storage

import (
	"context"
	"database/sql"
)

const subscriptionColumns = `id, user_id, name, amount_cents, frequency, auto_add_transaction, account_id, last_payment_date, next_payment_date, currency`

const createSubscription = `-- name: CreateSubscription :one
INSERT INTO subscriptions (user_id, name, amount_cents, frequency, auto_add_transaction, account_id, last_payment_date, next_payment_date, currency)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + subscriptionColumns

type CreateSubscriptionParams struct {
	UserID             int64
	Name               string
	AmountCents        int64
	Frequency          string
	AutoAddTransaction bool
	AccountID          sql.NullInt64
	LastPaymentDate    sql.NullString
	NextPaymentDate    string
	Currency           string
}

func (q *Queries) CreateSubscription(ctx context.Context, arg CreateSubscriptionParams) (Subscription, error) {
	row := q.db.QueryRowContext(ctx, createSubscription,
		arg.UserID,
		arg.Name,
		arg.AmountCents,
		arg.Frequency,
		arg.AutoAddTransaction,
		arg.AccountID,
		arg.LastPaymentDate,
		arg.NextPaymentDate,
		arg.Currency,
	)
	return scanSubscription(row)
}

const getSubscription = `-- name: GetSubscription :one
SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = ? AND user_id = ?
`

type GetSubscriptionParams struct {
	ID     int64
	UserID int64
}

func (q *Queries) GetSubscription(ctx context.Context, arg GetSubscriptionParams) (Subscription, error) {
	row := q.db.QueryRowContext(ctx, getSubscription, arg.ID, arg.UserID)
	return scanSubscription(row)
}

const listSubscriptions = `-- name: ListSubscriptions :many
SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = ? ORDER BY next_payment_date, id
`

func (q *Queries) ListSubscriptions(ctx context.Context, userID int64) ([]Subscription, error) {
	rows, err := q.db.QueryContext(ctx, listSubscriptions, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Subscription
	for rows.Next() {
		i, err := scanSubscription(rows)
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

const updateSubscription = `-- name: UpdateSubscription :execrows
UPDATE subscriptions
SET name = ?, amount_cents = ?, frequency = ?, auto_add_transaction = ?, account_id = ?, next_payment_date = ?
WHERE id = ? AND user_id = ?
`

type UpdateSubscriptionParams struct {
	Name               string
	AmountCents        int64
	Frequency          string
	AutoAddTransaction bool
	AccountID          sql.NullInt64
	NextPaymentDate    string
	ID                 int64
	UserID             int64
}

func (q *Queries) UpdateSubscription(ctx context.Context, arg UpdateSubscriptionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateSubscription,
		arg.Name,
		arg.AmountCents,
		arg.Frequency,
		arg.AutoAddTransaction,
		arg.AccountID,
		arg.NextPaymentDate,
		arg.ID,
		arg.UserID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteSubscription = `-- name: DeleteSubscription :execrows
DELETE FROM subscriptions WHERE id = ? AND user_id = ?
`

type DeleteSubscriptionParams struct {
	ID     int64
	UserID int64
}

func (q *Queries) DeleteSubscription(ctx context.Context, arg DeleteSubscriptionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteSubscription, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listDueSubscriptions = `-- name: ListDueSubscriptions :many
SELECT s.id, s.user_id, s.name, s.amount_cents, s.frequency, s.auto_add_transaction, s.account_id,
       s.last_payment_date, s.next_payment_date, s.currency, u.time_zone
FROM subscriptions s
JOIN users u ON u.id = s.user_id
WHERE s.auto_add_transaction = 1 AND s.next_payment_date <= ?
ORDER BY s.next_payment_date, s.id
`

type ListDueSubscriptionsRow struct {
	Subscription Subscription
	TimeZone     string
}

// ListDueSubscriptions returns auto-posting subscriptions scheduled on or
// before cutoff, with the owner's time zone.
func (q *Queries) ListDueSubscriptions(ctx context.Context, cutoff string) ([]ListDueSubscriptionsRow, error) {
	rows, err := q.db.QueryContext(ctx, listDueSubscriptions, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListDueSubscriptionsRow
	for rows.Next() {
		var i ListDueSubscriptionsRow
		s := &i.Subscription
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Name,
			&s.AmountCents,
			&s.Frequency,
			&s.AutoAddTransaction,
			&s.AccountID,
			&s.LastPaymentDate,
			&s.NextPaymentDate,
			&s.Currency,
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

const advanceSubscription = `-- name: AdvanceSubscription :execrows
UPDATE subscriptions
SET last_payment_date = ?, next_payment_date = ?
WHERE id = ? AND auto_add_transaction = 1 AND next_payment_date = ?
`

type AdvanceSubscriptionParams struct {
	LastPaymentDate         string
	NextPaymentDate         string
	ID                      int64
	ExpectedNextPaymentDate string
}

// AdvanceSubscription only matches while next_payment_date still equals
// ExpectedNextPaymentDate.
func (q *Queries) AdvanceSubscription(ctx context.Context, arg AdvanceSubscriptionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, advanceSubscription,
		arg.LastPaymentDate,
		arg.NextPaymentDate,
		arg.ID,
		arg.ExpectedNextPaymentDate,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanSubscription(row rowScanner) (Subscription, error) {
	var i Subscription
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Name,
		&i.AmountCents,
		&i.Frequency,
		&i.AutoAddTransaction,
		&i.AccountID,
		&i.LastPaymentDate,
		&i.NextPaymentDate,
		&i.Currency,
	)
	return i, err
}
