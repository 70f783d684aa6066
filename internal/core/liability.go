package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

type LoanType string

const (
	LoanGiven LoanType = "Given"
	LoanTaken LoanType = "Taken"
)

func ParseLoanType(s string) (LoanType, error) {
	s = strings.TrimSpace(s)
	for _, t := range []LoanType{LoanGiven, LoanTaken} {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", Invalid("type", "loan type must be Given or Taken")
}

// PaymentKind identifies which liability a payment settles.
type PaymentKind string

const (
	LoanPayment       PaymentKind = "loan"
	DebtPayment       PaymentKind = "debt"
	CreditCardPayment PaymentKind = "credit_card"
)

const (
	minBillingCycleDays = 25
	maxBillingCycleDays = 32
)

type (
	Loan struct {
		ID               int64
		UserID           int64
		CounterpartyName string
		Amount           Money
		InterestRate     decimal.Decimal
		StartDate        Date
		EndDate          Date
		Type             LoanType
		Currency         string
	}

	Debt struct {
		ID           int64
		UserID       int64
		Type         string
		Amount       Money
		InterestRate decimal.Decimal
		StartDate    Date
		EndDate      Date
		Currency     string
	}

	CreditCard struct {
		ID                    int64
		UserID                int64
		Name                  string
		Limit                 Money
		CurrentBalance        Money
		InterestRate          decimal.Decimal
		StatementDueDate      Date
		MinimumPaymentDueDate Date
		BillingCycleDays      int
		Currency              string
	}

	// Payment settles part of a loan, debt or credit card. ParentID is the
	// liability's id; TransactionID is the ledger transaction it created.
	Payment struct {
		ID            int64
		UserID        int64
		Kind          PaymentKind
		ParentID      int64
		AccountID     int64
		TransactionID int64
		Amount        Money
		Date          Date
	}
)

// LoanInput is the field set for creating or updating a loan.
type LoanInput struct {
	CounterpartyName string
	Amount           Money
	InterestRate     decimal.Decimal
	StartDate        Date
	EndDate          Date
	Type             string
}

func (in LoanInput) Validate() (LoanType, error) {
	if err := validateName("counterparty_name", in.CounterpartyName); err != nil {
		return "", err
	}
	if err := RequirePositive("amount", in.Amount); err != nil {
		return "", err
	}
	if err := ValidateRate("interest_rate", in.InterestRate); err != nil {
		return "", err
	}
	if err := validatePeriod(in.StartDate, in.EndDate); err != nil {
		return "", err
	}
	return ParseLoanType(in.Type)
}

// DebtInput is the field set for creating or updating a debt.
type DebtInput struct {
	Type         string
	Amount       Money
	InterestRate decimal.Decimal
	StartDate    Date
	EndDate      Date
}

func (in DebtInput) Validate() error {
	if err := validateName("type", in.Type); err != nil {
		return err
	}
	if err := RequirePositive("amount", in.Amount); err != nil {
		return err
	}
	if err := ValidateRate("interest_rate", in.InterestRate); err != nil {
		return err
	}
	return validatePeriod(in.StartDate, in.EndDate)
}

// CreditCardInput is the field set for creating or updating a credit card.
type CreditCardInput struct {
	Name                  string
	Limit                 Money
	CurrentBalance        Money
	InterestRate          decimal.Decimal
	StatementDueDate      Date
	MinimumPaymentDueDate Date
	BillingCycleDays      int
}

// Validate checks the card against today, the owner's local date.
func (in CreditCardInput) Validate(today Date) error {
	if err := validateName("name", in.Name); err != nil {
		return err
	}
	if err := RequirePositive("limit", in.Limit); err != nil {
		return err
	}
	if err := RequireNonNegative("current_balance", in.CurrentBalance); err != nil {
		return err
	}
	if in.CurrentBalance.Cents > in.Limit.Cents {
		return Invalid("current_balance", "cannot exceed the card limit")
	}
	if err := ValidateRate("interest_rate", in.InterestRate); err != nil {
		return err
	}
	if in.StatementDueDate.IsZero() || in.StatementDueDate.Before(today.Time) {
		return Invalid("statement_due_date", "cannot be in the past")
	}
	if in.MinimumPaymentDueDate.IsZero() || in.MinimumPaymentDueDate.Before(today.Time) {
		return Invalid("minimum_payment_due_date", "cannot be in the past")
	}
	if in.BillingCycleDays < minBillingCycleDays || in.BillingCycleDays > maxBillingCycleDays {
		return Invalid("billing_cycle_days", "must be between %d and %d", minBillingCycleDays, maxBillingCycleDays)
	}
	return nil
}

// PaymentInput is the field set for recording a payment against a liability.
type PaymentInput struct {
	ParentID  int64
	AccountID int64
	Amount    Money
	Date      Date
}

func (in PaymentInput) Validate() error {
	if in.ParentID == 0 {
		return Invalid("parent_id", "is required")
	}
	if in.AccountID == 0 {
		return Invalid("account_id", "is required")
	}
	if err := RequirePositive("amount", in.Amount); err != nil {
		return err
	}
	if in.Date.IsZero() {
		return Invalid("date", "is required")
	}
	return nil
}

func validatePeriod(start, end Date) error {
	if !start.IsZero() && !end.IsZero() && end.Before(start.Time) {
		return Invalid("end_date", "End Date must be on or after the Start Date")
	}
	return nil
}
