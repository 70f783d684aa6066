package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("date", "2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, 2, d.Month())
	assert.Equal(t, 29, d.Day())

	empty, err := ParseDate("date", "  ")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	_, err = ParseDate("date", "2023-02-29")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestLocalDate(t *testing.T) {
	// 2024-01-01 23:30 UTC is already Jan 2 in Tokyo and still Jan 1 in New York.
	now := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)

	tokyo, err := LocalDate(now, "Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", tokyo.String())

	ny, err := LocalDate(now, "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", ny.String())

	utc, err := LocalDate(now, "")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", utc.String())

	_, err = LocalDate(now, "Mars/Olympus")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestMonthBounds(t *testing.T) {
	first, last := NewDate(2024, 2, 10).MonthBounds()
	assert.Equal(t, "2024-02-01", first.String())
	assert.Equal(t, "2024-02-29", last.String())
	assert.True(t, first.OnOrBefore(last))
	assert.True(t, last.OnOrBefore(last))
	assert.False(t, last.OnOrBefore(first))
}

func TestTransactionInputValidate(t *testing.T) {
	in := TransactionInput{
		Type:        Income,
		Amount:      Cents(3000),
		Description: "salary",
		Date:        NewDate(2024, 1, 5),
		AccountToID: 7,
	}
	eff, err := in.Validate()
	require.NoError(t, err)
	assert.Equal(t, int64(7), eff.AccountToID)

	noDate := in
	noDate.Date = Date{}
	_, err = noDate.Validate()
	assert.True(t, errors.Is(err, ErrValidation))

	long := in
	long.Description = string(make([]byte, 257))
	_, err = long.Validate()
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestTransactionEffectMatchesInput(t *testing.T) {
	tx := Transaction{Type: Expense, Amount: Cents(500), AccountFromID: 3, BudgetCategoryID: 4}
	eff, err := tx.Effect()
	require.NoError(t, err)
	assert.Equal(t, int64(-500), eff.AccountFromDelta.Cents)
	assert.Equal(t, int64(-500), eff.BudgetDelta.Cents)
}

func TestAccountInputValidate(t *testing.T) {
	cases := []struct {
		name string
		in   AccountInput
		ok   bool
	}{
		{"checking", AccountInput{Name: "Main", Type: "Checking", StartingBalance: Cents(10000)}, true},
		{"custom", AccountInput{Name: "Jar", Type: "Other", CustomType: "Cash"}, true},
		{"other without custom", AccountInput{Name: "Jar", Type: "Other"}, false},
		{"no type", AccountInput{Name: "Jar"}, false},
		{"no name", AccountInput{Type: "Checking"}, false},
		{"negative start", AccountInput{Name: "A", Type: "Checking", StartingBalance: Cents(-1)}, false},
		{"goal", AccountInput{Name: "Trip", Type: "Goal", GoalAmount: Cents(100)}, true},
		{"goal below one", AccountInput{Name: "Trip", Type: "Goal", GoalAmount: Cents(99)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrValidation), "got %v", err)
			}
		})
	}
	assert.Equal(t, "Cash", AccountInput{Type: "other", CustomType: " Cash "}.ResolvedType())
}

func TestBudgetInputValidate(t *testing.T) {
	f, err := BudgetInput{Name: "Food", BudgetAmount: Cents(40000)}.Validate()
	require.NoError(t, err)
	assert.Equal(t, Frequency(""), f)

	f, err = BudgetInput{Name: "Food", BudgetAmount: Cents(40000), AutoReset: true, TimePeriod: "Monthly", NextDate: NewDate(2024, 1, 1)}.Validate()
	require.NoError(t, err)
	assert.Equal(t, Monthly, f)

	_, err = BudgetInput{Name: "Food", AutoReset: true, TimePeriod: "Monthly"}.Validate()
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = BudgetInput{Name: "Food", AutoReset: true, TimePeriod: "Hourly", NextDate: NewDate(2024, 1, 1)}.Validate()
	assert.True(t, errors.Is(err, ErrInvalidFrequency))
}

func TestSubscriptionInputValidate(t *testing.T) {
	base := SubscriptionInput{Name: "Gym", Amount: Cents(5000), Frequency: "Weekly", NextPaymentDate: NewDate(2024, 3, 1)}
	f, err := base.Validate()
	require.NoError(t, err)
	assert.Equal(t, Weekly, f)

	auto := base
	auto.AutoAddTransaction = true
	_, err = auto.Validate()
	assert.True(t, errors.Is(err, ErrValidation), "auto-add needs an account")

	auto.AccountID = 1
	_, err = auto.Validate()
	assert.NoError(t, err)

	zero := base
	zero.Amount = Cents(0)
	_, err = zero.Validate()
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestLiabilityInputs(t *testing.T) {
	rate := decimal.RequireFromString("5.5")

	typ, err := LoanInput{CounterpartyName: "Ann", Amount: Cents(100000), InterestRate: rate, Type: "taken"}.Validate()
	require.NoError(t, err)
	assert.Equal(t, LoanTaken, typ)

	_, err = LoanInput{CounterpartyName: "Ann", Amount: Cents(100000), InterestRate: rate, Type: "Given",
		StartDate: NewDate(2024, 5, 1), EndDate: NewDate(2024, 4, 1)}.Validate()
	assert.True(t, errors.Is(err, ErrValidation), "end before start")

	err = DebtInput{Type: "Student loan", Amount: Cents(100), InterestRate: decimal.NewFromInt(101)}.Validate()
	assert.True(t, errors.Is(err, ErrValidation), "rate over 100")

	today := NewDate(2024, 6, 1)
	card := CreditCardInput{
		Name:                  "Visa",
		Limit:                 Cents(500000),
		CurrentBalance:        Cents(10000),
		InterestRate:          rate,
		StatementDueDate:      NewDate(2024, 6, 20),
		MinimumPaymentDueDate: NewDate(2024, 6, 1),
		BillingCycleDays:      30,
	}
	require.NoError(t, card.Validate(today))

	over := card
	over.CurrentBalance = Cents(500001)
	assert.Error(t, over.Validate(today))

	past := card
	past.StatementDueDate = NewDate(2024, 5, 31)
	assert.Error(t, past.Validate(today))

	cycle := card
	cycle.BillingCycleDays = 33
	assert.Error(t, cycle.Validate(today))
}

func TestRegisterInputValidate(t *testing.T) {
	ok := RegisterInput{FirstName: "Ada", LastName: "Lovelace", Email: " Ada@Example.com ", Password: "correct-horse", TimeZone: "Europe/London", Currency: "GBP"}
	require.NoError(t, ok.Validate())
	assert.Equal(t, "ada@example.com", ok.NormalizedEmail())

	short := ok
	short.Password = "short"
	assert.Error(t, short.Validate())

	zone := ok
	zone.TimeZone = "Nowhere/Town"
	assert.Error(t, zone.Validate())

	cur := ok
	cur.Currency = "ZZZ"
	assert.Error(t, cur.Validate())

	email := ok
	email.Email = "a@b"
	assert.Error(t, email.Validate())

	assert.Equal(t, "Ms Ada Lovelace", User{NamePrefix: "Ms", FirstName: "Ada", LastName: "Lovelace"}.DisplayName())
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "success", MessageCategory(nil))
	assert.Equal(t, "error", MessageCategory(ErrNotFound))
	assert.Equal(t, "amount: must be greater than zero", UserMessage(RequirePositive("amount", Cents(0))))
	assert.Contains(t, UserMessage(NotFound("account", 3)), "does not exist")
	assert.Contains(t, UserMessage(errors.New("disk on fire")), "unexpected")
}
