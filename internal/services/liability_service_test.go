package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneytrack/internal/core"
)

func TestLoanPaymentDirection(t *testing.T) {
	cases := []struct {
		loanType string
		want     int64
		txType   core.TransactionType
	}{
		{"Given", 12000, core.Income},
		{"Taken", 8000, core.Expense},
	}
	for _, tc := range cases {
		t.Run(tc.loanType, func(t *testing.T) {
			ctx := context.Background()
			repo := newTestStore(t)
			u := newTestUser(t, repo, "loan@example.com", "UTC")
			a := newTestAccount(t, repo, u.ID, "A", 10000)
			svc := NewLiabilityService(repo)

			loan, err := svc.CreateLoan(ctx, u.ID, core.LoanInput{
				CounterpartyName: "Sam",
				Amount:           core.Cents(100000),
				InterestRate:     decimal.RequireFromString("2.5"),
				Type:             tc.loanType,
			})
			require.NoError(t, err)

			p, err := svc.RecordLoanPayment(ctx, u.ID, core.PaymentInput{
				ParentID:  loan.ID,
				AccountID: a.ID,
				Amount:    core.Cents(2000),
				Date:      core.NewDate(2024, 5, 1),
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, balanceOf(t, repo, u.ID, a.ID))

			tx, err := repo.GetTransaction(ctx, u.ID, p.TransactionID)
			require.NoError(t, err)
			assert.Equal(t, tc.txType, tx.Type)

			err = NewTransactionService(repo).Delete(ctx, u.ID, tx.ID)
			assert.True(t, errors.Is(err, core.ErrValidation), "payment transactions are removed through the payment")

			err = svc.DeleteLoan(ctx, u.ID, loan.ID)
			assert.True(t, errors.Is(err, core.ErrValidation), "loan with payments cannot be deleted")

			require.NoError(t, svc.DeletePayment(ctx, u.ID, p.ID))
			assert.Equal(t, int64(10000), balanceOf(t, repo, u.ID, a.ID))
			require.NoError(t, svc.DeleteLoan(ctx, u.ID, loan.ID))
		})
	}
}

func TestCreditCardPayment(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t)
	u := newTestUser(t, repo, "card@example.com", "UTC")
	a := newTestAccount(t, repo, u.ID, "A", 50000)
	svc := NewLiabilityService(repo)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

	card, err := svc.CreateCreditCard(ctx, u.ID, core.CreditCardInput{
		Name:                  "Visa",
		Limit:                 core.Cents(300000),
		CurrentBalance:        core.Cents(20000),
		InterestRate:          decimal.RequireFromString("19.99"),
		StatementDueDate:      core.NewDate(2024, 6, 20),
		MinimumPaymentDueDate: core.NewDate(2024, 6, 15),
		BillingCycleDays:      30,
	})
	require.NoError(t, err)

	_, err = svc.RecordCreditCardPayment(ctx, u.ID, core.PaymentInput{
		ParentID: card.ID, AccountID: a.ID, Amount: core.Cents(20001), Date: core.NewDate(2024, 6, 2),
	})
	assert.True(t, errors.Is(err, core.ErrValidation), "cannot overpay the card")

	p, err := svc.RecordCreditCardPayment(ctx, u.ID, core.PaymentInput{
		ParentID: card.ID, AccountID: a.ID, Amount: core.Cents(7500), Date: core.NewDate(2024, 6, 2),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(42500), balanceOf(t, repo, u.ID, a.ID))
	got, err := repo.GetCreditCard(ctx, u.ID, card.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12500), got.CurrentBalance.Cents)

	payments, err := svc.ListPayments(ctx, u.ID, core.CreditCardPayment, card.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 1)

	require.NoError(t, svc.DeletePayment(ctx, u.ID, p.ID))
	assert.Equal(t, int64(50000), balanceOf(t, repo, u.ID, a.ID))
	got, err = repo.GetCreditCard(ctx, u.ID, card.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), got.CurrentBalance.Cents)
}

func TestCreditCardDueDateUsesOwnerZone(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t)
	u := newTestUser(t, repo, "zone@example.com", "Pacific/Auckland")
	svc := NewLiabilityService(repo)
	// Already June 2 in Auckland.
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC) }

	_, err := svc.CreateCreditCard(ctx, u.ID, core.CreditCardInput{
		Name:                  "Visa",
		Limit:                 core.Cents(1000),
		StatementDueDate:      core.NewDate(2024, 6, 1),
		MinimumPaymentDueDate: core.NewDate(2024, 6, 10),
		BillingCycleDays:      30,
	})
	assert.True(t, errors.Is(err, core.ErrValidation), "got %v", err)
}

func TestDebtPaymentIsExpense(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t)
	u := newTestUser(t, repo, "debt@example.com", "UTC")
	a := newTestAccount(t, repo, u.ID, "A", 10000)
	svc := NewLiabilityService(repo)

	d, err := svc.CreateDebt(ctx, u.ID, core.DebtInput{Type: "Student loan", Amount: core.Cents(500000)})
	require.NoError(t, err)

	_, err = svc.RecordDebtPayment(ctx, u.ID, core.PaymentInput{
		ParentID: d.ID, AccountID: a.ID, Amount: core.Cents(2500), Date: core.NewDate(2024, 1, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7500), balanceOf(t, repo, u.ID, a.ID))

	_, err = svc.RecordDebtPayment(ctx, u.ID, core.PaymentInput{
		ParentID: d.ID + 100, AccountID: a.ID, Amount: core.Cents(2500), Date: core.NewDate(2024, 1, 1),
	})
	assert.True(t, errors.Is(err, core.ErrNotFound))
	assert.Equal(t, int64(7500), balanceOf(t, repo, u.ID, a.ID))
}
