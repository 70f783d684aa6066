package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneytrack/internal/core"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newTestStore(t))

	u, err := svc.Register(ctx, core.RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "  Ada@Example.com ",
		Password:  "analytical",
		Currency:  "eur",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, "UTC", u.TimeZone)
	assert.Equal(t, "EUR", u.Currency)
	assert.NotEqual(t, "analytical", u.PasswordHash)

	got, err := svc.Authenticate(ctx, "ADA@example.com", "analytical")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "ada@example.com", "wrong-password")
	assert.True(t, errors.Is(err, core.ErrValidation))

	_, err = svc.Authenticate(ctx, "nobody@example.com", "analytical")
	assert.True(t, errors.Is(err, core.ErrValidation), "unknown email looks like a bad password")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newTestStore(t))
	in := core.RegisterInput{FirstName: "A", LastName: "B", Email: "dup@example.com", Password: "password1"}

	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	in.Email = "DUP@example.com"
	_, err = svc.Register(ctx, in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrValidation))
	assert.Contains(t, err.Error(), "Email already exists")
}

func TestRegisterValidation(t *testing.T) {
	cases := []struct {
		name string
		in   core.RegisterInput
	}{
		{"short password", core.RegisterInput{FirstName: "A", LastName: "B", Email: "a@example.com", Password: "short"}},
		{"bad email", core.RegisterInput{FirstName: "A", LastName: "B", Email: "not-an-email", Password: "password1"}},
		{"missing name", core.RegisterInput{LastName: "B", Email: "a@example.com", Password: "password1"}},
		{"unknown zone", core.RegisterInput{FirstName: "A", LastName: "B", Email: "a@example.com", Password: "password1", TimeZone: "Mars/Olympus"}},
	}
	svc := NewUserService(newTestStore(t))
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.in)
			assert.True(t, errors.Is(err, core.ErrValidation), "got %v", err)
		})
	}
}

func TestUpdateProfileKeepsCurrencyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newTestStore(t))
	u, err := svc.Register(ctx, core.RegisterInput{
		FirstName: "A", LastName: "B", Email: "profile@example.com", Password: "password1", Currency: "GBP",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, u.ID, core.ProfileInput{
		FirstName: "Alex", LastName: "B", TimeZone: "Europe/London",
	})
	require.NoError(t, err)
	assert.Equal(t, "GBP", updated.Currency)

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alex", got.FirstName)
	assert.Equal(t, "Europe/London", got.TimeZone)
}

func TestRegisterUsesDefaultCurrency(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t)

	u, err := NewUserService(repo).Register(ctx, core.RegisterInput{
		FirstName: "A", LastName: "B", Email: "plain@example.com", Password: "password1",
	})
	require.NoError(t, err)
	assert.Equal(t, core.DefaultCurrency, u.Currency)

	u, err = NewUserService(repo).WithDefaultCurrency(" gbp ").Register(ctx, core.RegisterInput{
		FirstName: "C", LastName: "D", Email: "uk@example.com", Password: "password1",
	})
	require.NoError(t, err)
	assert.Equal(t, "GBP", u.Currency)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t)
	svc := NewUserService(repo)
	u, err := svc.Register(ctx, core.RegisterInput{
		FirstName: "A", LastName: "B", Email: "rotate@example.com", Password: "old-password",
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		in      core.PasswordChange
		wantMsg string
	}{
		{"missing current", core.PasswordChange{New: "new-password", Confirm: "new-password"}, "All fields are required."},
		{"missing confirm", core.PasswordChange{Current: "old-password", New: "new-password"}, "All fields are required."},
		{"same as old", core.PasswordChange{Current: "old-password", New: "old-password", Confirm: "old-password"}, "cannot be same as old"},
		{"confirm differs", core.PasswordChange{Current: "old-password", New: "new-password", Confirm: "new-passw0rd"}, "are different"},
		{"too short", core.PasswordChange{Current: "old-password", New: "short", Confirm: "short"}, "at least 8 characters"},
		{"wrong current", core.PasswordChange{Current: "guess-work", New: "new-password", Confirm: "new-password"}, "Incorrect old password."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ChangePassword(ctx, u.ID, tt.in)
			require.ErrorIs(t, err, core.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantMsg)

			_, err = svc.Authenticate(ctx, "rotate@example.com", "old-password")
			assert.NoError(t, err, "password unchanged")
		})
	}

	require.NoError(t, svc.ChangePassword(ctx, u.ID, core.PasswordChange{
		Current: "old-password", New: "new-password", Confirm: "new-password",
	}))
	_, err = svc.Authenticate(ctx, "rotate@example.com", "new-password")
	assert.NoError(t, err)
	_, err = svc.Authenticate(ctx, "rotate@example.com", "old-password")
	assert.ErrorIs(t, err, core.ErrValidation)

	err = svc.ChangePassword(ctx, u.ID+100, core.PasswordChange{
		Current: "new-password", New: "newer-password", Confirm: "newer-password",
	})
	assert.ErrorIs(t, err, core.ErrNotFound)
}
