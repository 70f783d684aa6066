package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", -100, true},
		{"1000000000000", MaxAmountCents, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"1e16", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount("amount", tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestTrillionCeilingSharedByAllMonetaryChecks(t *testing.T) {
	over, err := ParseAmount("amount", "1000000000001")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	checks := map[string]func() error{
		"positive":     func() error { return RequirePositive("amount", over) },
		"non-negative": func() error { return RequireNonNegative("starting_balance", over) },
		"at-least":     func() error { return RequireAtLeast("goal_amount", over, Cents(100)) },
		"transaction": func() error {
			_, err := EffectOf(Income, over, Links{AccountToID: 1})
			return err
		},
		"budget": func() error {
			_, err := BudgetInput{Name: "Food", BudgetAmount: over}.Validate()
			return err
		},
		"account": func() error {
			return AccountInput{Name: "A", Type: "Checking", StartingBalance: over}.Validate()
		},
		"subscription": func() error {
			_, err := SubscriptionInput{Name: "S", Amount: over, Frequency: "Weekly", NextPaymentDate: NewDate(2024, 1, 1)}.Validate()
			return err
		},
		"loan": func() error {
			_, err := LoanInput{CounterpartyName: "Bob", Amount: over, Type: "Given"}.Validate()
			return err
		},
		"credit card": func() error {
			return CreditCardInput{Name: "Card", Limit: over}.Validate(NewDate(2024, 1, 1))
		},
	}
	for name, check := range checks {
		t.Run(name, func(t *testing.T) {
			err := check()
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	atCeiling := Cents(MaxAmountCents)
	if err := RequirePositive("amount", atCeiling); err != nil {
		t.Fatalf("ceiling itself must be accepted: %v", err)
	}
}

func TestRequireHelpers(t *testing.T) {
	if err := RequirePositive("amount", Cents(0)); err == nil {
		t.Fatal("zero must not be positive")
	}
	if err := RequireNonNegative("amount", Cents(0)); err != nil {
		t.Fatalf("zero is non-negative: %v", err)
	}
	if err := RequireNonNegative("amount", Cents(-1)); err == nil {
		t.Fatal("negative accepted")
	}
	if err := RequireAtLeast("goal", Cents(99), Cents(100)); err == nil {
		t.Fatal("below minimum accepted")
	}
}

func TestParseRate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"0", true},
		{"4.5", true},
		{"4,5", true},
		{"100", true},
		{"100.01", false},
		{"-0.1", false},
		{"x", false},
	}
	for _, tc := range cases {
		_, err := ParseRate("interest_rate", tc.in)
		if (err == nil) != tc.ok {
			t.Fatalf("%q: ok=%v err=%v", tc.in, tc.ok, err)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := map[int64]string{
		0:      "0.00",
		5:      "0.05",
		13000:  "130.00",
		-2050:  "-20.50",
		123456: "1234.56",
	}
	for cents, want := range cases {
		if got := Cents(cents).String(); got != want {
			t.Fatalf("%d: want %q, got %q", cents, want, got)
		}
	}
}

func TestMoneyFormat(t *testing.T) {
	if got := Cents(123456).Format("USD"); got != "$1,234.56" {
		t.Fatalf("USD: got %q", got)
	}
	if got := Cents(150).Format("ZZZ"); got != "1.50 ZZZ" {
		t.Fatalf("unknown currency: got %q", got)
	}
	if !KnownCurrency("eur") || KnownCurrency("") || KnownCurrency("NOPE") {
		t.Fatal("KnownCurrency mismatch")
	}
}

func TestMoneyFromDecimal(t *testing.T) {
	m := MoneyFromDecimal(decimal.RequireFromString("19.999"))
	if m.Cents != 2000 {
		t.Fatalf("want 2000, got %d", m.Cents)
	}
	if !m.Decimal().Equal(decimal.RequireFromString("20")) {
		t.Fatalf("decimal round trip: %s", m.Decimal())
	}
}
