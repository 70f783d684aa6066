package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneytrack/internal/core"
)

func TestAccountCreate(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t)
	u := newTestUser(t, repo, "accounts@example.com", "UTC")
	svc := NewAccountService(repo)

	tests := []struct {
		name     string
		in       core.AccountInput
		wantType string
		wantGoal int64
		wantCur  string
		wantErr  error
	}{
		{
			name:     "checking in owner currency",
			in:       core.AccountInput{Name: "Checking", Type: "Checking", StartingBalance: core.Cents(5000)},
			wantType: "Checking",
			wantCur:  "USD",
		},
		{
			name:     "custom type",
			in:       core.AccountInput{Name: "Wallet", Type: "Other", CustomType: "Cash", Currency: "eur"},
			wantType: "Cash",
			wantCur:  "EUR",
		},
		{
			name:     "goal",
			in:       core.AccountInput{Name: "Trip", Type: core.AccountTypeGoal, GoalAmount: core.Cents(200000)},
			wantType: core.AccountTypeGoal,
			wantGoal: 200000,
			wantCur:  "USD",
		},
		{
			name:    "goal below minimum",
			in:      core.AccountInput{Name: "Trip", Type: core.AccountTypeGoal, GoalAmount: core.Cents(50)},
			wantErr: core.ErrValidation,
		},
		{
			name:    "other without custom type",
			in:      core.AccountInput{Name: "Wallet", Type: "Other"},
			wantErr: core.ErrValidation,
		},
		{
			name:    "unknown currency",
			in:      core.AccountInput{Name: "Wallet", Type: "Checking", Currency: "XYZ"},
			wantErr: core.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := svc.Create(ctx, u.ID, tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, a.Type)
			assert.Equal(t, tt.wantGoal, a.GoalAmount.Cents)
			assert.Equal(t, tt.wantCur, a.Currency)
			assert.Equal(t, a.StartingBalance, a.CurrentBalance)
		})
	}
}

func TestAccountUpdateKeepsBalances(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t)
	u := newTestUser(t, repo, "rename@example.com", "UTC")
	a := newTestAccount(t, repo, u.ID, "Checking", 10000)
	svc := NewAccountService(repo)

	updated, err := svc.Update(ctx, u.ID, a.ID, core.AccountInput{
		Name:            "Savings pot",
		Type:            core.AccountTypeGoal,
		GoalAmount:      core.Cents(500000),
		StartingBalance: core.Cents(1),
	})
	require.NoError(t, err)
	assert.Equal(t, "Savings pot", updated.Name)

	got, err := svc.Get(ctx, u.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), got.StartingBalance.Cents)
	assert.Equal(t, int64(10000), got.CurrentBalance.Cents)
	assert.Equal(t, int64(500000), got.GoalAmount.Cents)

	_, err = svc.Update(ctx, u.ID+1, a.ID, core.AccountInput{Name: "x", Type: "Checking"})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestAccountDeleteRefusedWhileReferenced(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t)
	u := newTestUser(t, repo, "delete@example.com", "UTC")
	a := newTestAccount(t, repo, u.ID, "Checking", 10000)
	svc := NewAccountService(repo)

	tx, err := NewTransactionService(repo).Create(ctx, u.ID, core.TransactionInput{
		Type:          core.Expense,
		Amount:        core.Cents(100),
		Date:          core.NewDate(2024, 1, 2),
		AccountFromID: a.ID,
	})
	require.NoError(t, err)

	err = svc.Delete(ctx, u.ID, a.ID)
	assert.ErrorIs(t, err, core.ErrValidation)

	require.NoError(t, NewTransactionService(repo).Delete(ctx, u.ID, tx.ID))
	require.NoError(t, svc.Delete(ctx, u.ID, a.ID))

	_, err = svc.Get(ctx, u.ID, a.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestAccountTotalBalance(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t)
	u := newTestUser(t, repo, "total@example.com", "UTC")
	other := newTestUser(t, repo, "other@example.com", "UTC")
	newTestAccount(t, repo, u.ID, "Checking", 12345)
	newTestAccount(t, repo, u.ID, "Savings", 55)
	newTestAccount(t, repo, other.ID, "Checking", 99999)

	total, err := NewAccountService(repo).TotalBalance(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12400), total.Cents)

	list, err := NewAccountService(repo).List(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
