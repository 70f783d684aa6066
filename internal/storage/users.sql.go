package storage

import (
	"context"
)

const createUser = `-- name: CreateUser :one
INSERT INTO users (name_prefix, first_name, last_name, email, password_hash, time_zone, currency)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id, name_prefix, first_name, last_name, email, password_hash, time_zone, currency, created_at
`

type CreateUserParams struct {
	NamePrefix   string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	TimeZone     string
	Currency     string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, createUser,
		arg.NamePrefix,
		arg.FirstName,
		arg.LastName,
		arg.Email,
		arg.PasswordHash,
		arg.TimeZone,
		arg.Currency,
	)
	var i User
	err := row.Scan(
		&i.ID,
		&i.NamePrefix,
		&i.FirstName,
		&i.LastName,
		&i.Email,
		&i.PasswordHash,
		&i.TimeZone,
		&i.Currency,
		&i.CreatedAt,
	)
	return i, err
}

const getUser = `-- name: GetUser :one
SELECT id, name_prefix, first_name, last_name, email, password_hash, time_zone, currency, created_at
FROM users WHERE id = ?
`

func (q *Queries) GetUser(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRowContext(ctx, getUser, id)
	var i User
	err := row.Scan(
		&i.ID,
		&i.NamePrefix,
		&i.FirstName,
		&i.LastName,
		&i.Email,
		&i.PasswordHash,
		&i.TimeZone,
		&i.Currency,
		&i.CreatedAt,
	)
	return i, err
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT id, name_prefix, first_name, last_name, email, password_hash, time_zone, currency, created_at
FROM users WHERE email = ?
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByEmail, email)
	var i User
	err := row.Scan(
		&i.ID,
		&i.NamePrefix,
		&i.FirstName,
		&i.LastName,
		&i.Email,
		&i.PasswordHash,
		&i.TimeZone,
		&i.Currency,
		&i.CreatedAt,
	)
	return i, err
}

const listUsers = `-- name: ListUsers :many
SELECT id, name_prefix, first_name, last_name, email, password_hash, time_zone, currency, created_at
FROM users ORDER BY id
`

func (q *Queries) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := q.db.QueryContext(ctx, listUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []User
	for rows.Next() {
		var i User
		if err := rows.Scan(
			&i.ID,
			&i.NamePrefix,
			&i.FirstName,
			&i.LastName,
			&i.Email,
			&i.PasswordHash,
			&i.TimeZone,
			&i.Currency,
			&i.CreatedAt,
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

const updateUserProfile = `-- name: UpdateUserProfile :execrows
UPDATE users
SET name_prefix = ?, first_name = ?, last_name = ?, time_zone = ?, currency = ?
WHERE id = ?
`

type UpdateUserProfileParams struct {
	NamePrefix string
	FirstName  string
	LastName   string
	TimeZone   string
	Currency   string
	ID         int64
}

func (q *Queries) UpdateUserProfile(ctx context.Context, arg UpdateUserProfileParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateUserProfile,
		arg.NamePrefix,
		arg.FirstName,
		arg.LastName,
		arg.TimeZone,
		arg.Currency,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateUserPassword = `-- name: UpdateUserPassword :execrows
UPDATE users
SET password_hash = ?
WHERE id = ?
`

type UpdateUserPasswordParams struct {
	PasswordHash string
	ID           int64
}

func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateUserPassword, arg.PasswordHash, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
