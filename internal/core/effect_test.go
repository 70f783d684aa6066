package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectOf(t *testing.T) {
	amt := Cents(3000)
	cases := []struct {
		name  string
		typ   TransactionType
		links Links
		want  Effect
	}{
		{
			name:  "income credits account_to",
			typ:   Income,
			links: Links{AccountToID: 1},
			want:  Effect{AccountToID: 1, AccountToDelta: amt},
		},
		{
			name:  "expense debits account_from",
			typ:   Expense,
			links: Links{AccountFromID: 1},
			want:  Effect{AccountFromID: 1, AccountFromDelta: amt.Neg()},
		},
		{
			name:  "expense with budget",
			typ:   Expense,
			links: Links{AccountFromID: 1, BudgetCategoryID: 9},
			want:  Effect{AccountFromID: 1, AccountFromDelta: amt.Neg(), BudgetCategoryID: 9, BudgetDelta: amt.Neg()},
		},
		{
			name:  "transfer moves between accounts",
			typ:   Transfer,
			links: Links{AccountFromID: 1, AccountToID: 2},
			want:  Effect{AccountFromID: 1, AccountFromDelta: amt.Neg(), AccountToID: 2, AccountToDelta: amt},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EffectOf(tc.typ, amt, tc.links)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEffectOfRejects(t *testing.T) {
	amt := Cents(100)
	cases := []struct {
		name   string
		typ    TransactionType
		amount Money
		links  Links
	}{
		{"income without account_to", Income, amt, Links{}},
		{"income with account_from", Income, amt, Links{AccountFromID: 1, AccountToID: 2}},
		{"income with budget", Income, amt, Links{AccountToID: 2, BudgetCategoryID: 3}},
		{"expense without account_from", Expense, amt, Links{}},
		{"expense with account_to", Expense, amt, Links{AccountFromID: 1, AccountToID: 2}},
		{"transfer missing side", Transfer, amt, Links{AccountFromID: 1}},
		{"transfer to itself", Transfer, amt, Links{AccountFromID: 1, AccountToID: 1}},
		{"transfer with budget", Transfer, amt, Links{AccountFromID: 1, AccountToID: 2, BudgetCategoryID: 3}},
		{"unknown type", TransactionType("Refund"), amt, Links{AccountToID: 1}},
		{"zero amount", Income, Cents(0), Links{AccountToID: 1}},
		{"negative amount", Income, Cents(-5), Links{AccountToID: 1}},
		{"over ceiling", Income, Cents(MaxAmountCents + 1), Links{AccountToID: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EffectOf(tc.typ, tc.amount, tc.links)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation), "got %v", err)
		})
	}
}

func TestEffectInverse(t *testing.T) {
	e, err := EffectOf(Expense, Cents(2000), Links{AccountFromID: 1, BudgetCategoryID: 4})
	require.NoError(t, err)

	inv := e.Inverse()
	assert.Equal(t, e.AccountFromID, inv.AccountFromID)
	assert.Equal(t, int64(2000), inv.AccountFromDelta.Cents)
	assert.Equal(t, int64(2000), inv.BudgetDelta.Cents)
	assert.Equal(t, e, inv.Inverse())
	assert.False(t, e.IsZero())
	assert.True(t, Effect{}.IsZero())
}

func TestParseTransactionType(t *testing.T) {
	got, err := ParseTransactionType("transfer")
	require.NoError(t, err)
	assert.Equal(t, Transfer, got)

	_, err = ParseTransactionType("gift")
	assert.True(t, errors.Is(err, ErrValidation))
}
