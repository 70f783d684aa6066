package storage

import (
	"context"
	"database/sql"
	"errors"

	"moneytrack/internal/core"
)

func (l *Ledger) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	row, err := l.queries.CreateUser(ctx, CreateUserParams{
		NamePrefix:   u.NamePrefix,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		TimeZone:     u.TimeZone,
		Currency:     currencyOr(u.Currency),
	})
	if err != nil {
		return core.User{}, persistence("create user", err)
	}
	return toCoreUser(row), nil
}

func (l *Ledger) GetUser(ctx context.Context, id int64) (core.User, error) {
	row, err := l.queries.GetUser(ctx, id)
	if err != nil {
		return core.User{}, lookupErr("user", id, err)
	}
	return toCoreUser(row), nil
}

// GetUserByEmail returns core.ErrNotFound when no user has the address.
func (l *Ledger) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	row, err := l.queries.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, persistence("get user by email", err)
	}
	return toCoreUser(row), nil
}

func (l *Ledger) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := l.queries.ListUsers(ctx)
	if err != nil {
		return nil, persistence("list users", err)
	}
	users := make([]core.User, len(rows))
	for i, r := range rows {
		users[i] = toCoreUser(r)
	}
	return users, nil
}

func (l *Ledger) UpdateUserProfile(ctx context.Context, u core.User) error {
	n, err := l.queries.UpdateUserProfile(ctx, UpdateUserProfileParams{
		NamePrefix: u.NamePrefix,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		TimeZone:   u.TimeZone,
		Currency:   currencyOr(u.Currency),
		ID:         u.ID,
	})
	return requireRow("user", u.ID, n, err)
}

func (l *Ledger) UpdateUserPassword(ctx context.Context, id int64, hash string) error {
	n, err := l.queries.UpdateUserPassword(ctx, UpdateUserPasswordParams{PasswordHash: hash, ID: id})
	return requireRow("user", id, n, err)
}

func toCoreUser(u User) core.User {
	return core.User{
		ID:           u.ID,
		NamePrefix:   u.NamePrefix,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		TimeZone:     u.TimeZone,
		Currency:     u.Currency,
		CreatedAt:    u.CreatedAt,
	}
}
