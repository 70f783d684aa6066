package core

import (
	"strings"
	"time"
)

const (
	maxNameLength        = 128
	maxDescriptionLength = 256
)

type (
	User struct {
		ID           int64
		NamePrefix   string
		FirstName    string
		LastName     string
		Email        string
		PasswordHash string
		TimeZone     string
		Currency     string
		CreatedAt    time.Time
	}

	Account struct {
		ID              int64
		UserID          int64
		Name            string
		Type            string
		StartingBalance Money
		CurrentBalance  Money
		GoalAmount      Money // zero when the account is not a savings goal
		Currency        string
	}

	BudgetCategory struct {
		ID              int64
		UserID          int64
		Name            string
		Description     string
		BudgetAmount    Money
		RemainingAmount Money
		AutoReset       bool
		TimePeriod      Frequency
		NextDate        Date
		LastReset       Date
		Currency        string
	}

	Transaction struct {
		ID               int64
		UserID           int64
		Type             TransactionType
		Amount           Money
		Description      string
		Date             Date
		AccountFromID    int64
		AccountToID      int64
		BudgetCategoryID int64
		SubscriptionID   int64
		Currency         string
		CreatedAt        time.Time
	}

	Subscription struct {
		ID                 int64
		UserID             int64
		Name               string
		Amount             Money
		Frequency          Frequency
		AutoAddTransaction bool
		AccountID          int64
		LastPaymentDate    Date
		NextPaymentDate    Date
		Currency           string
	}

	Notification struct {
		ID        int64
		UserID    int64
		Message   string
		CreatedAt time.Time
		Read      bool
	}
)

const (
	AccountTypeGoal  = "Goal"
	AccountTypeOther = "Other"
)

// Links returns the balance-bearing references of t.
func (t Transaction) Links() Links {
	return Links{
		AccountFromID:    t.AccountFromID,
		AccountToID:      t.AccountToID,
		BudgetCategoryID: t.BudgetCategoryID,
	}
}

// Effect derives the stored transaction's effect.
func (t Transaction) Effect() (Effect, error) {
	return EffectOf(t.Type, t.Amount, t.Links())
}

// DisplayName joins the user's name parts.
func (u User) DisplayName() string {
	return strings.TrimSpace(strings.Join([]string{u.NamePrefix, u.FirstName, u.LastName}, " "))
}

// TransactionInput is the field set supplied to create or edit a transaction.
type TransactionInput struct {
	Type             TransactionType
	Amount           Money
	Description      string
	Date             Date
	AccountFromID    int64
	AccountToID      int64
	BudgetCategoryID int64
	SubscriptionID   int64
}

func (in TransactionInput) Links() Links {
	return Links{
		AccountFromID:    in.AccountFromID,
		AccountToID:      in.AccountToID,
		BudgetCategoryID: in.BudgetCategoryID,
	}
}

// Validate checks field constraints and returns the effect the input implies.
func (in TransactionInput) Validate() (Effect, error) {
	if in.Date.IsZero() {
		return Effect{}, Invalid("date", "is required")
	}
	if len(in.Description) > maxDescriptionLength {
		return Effect{}, Invalid("description", "too long (max %d characters)", maxDescriptionLength)
	}
	return EffectOf(in.Type, in.Amount, in.Links())
}

// AccountInput is the field set for creating or updating an account.
type AccountInput struct {
	Name            string
	Type            string
	CustomType      string
	StartingBalance Money
	GoalAmount      Money
	Currency        string
}

// ResolvedType returns the account type, substituting CustomType for "Other".
func (in AccountInput) ResolvedType() string {
	if strings.EqualFold(strings.TrimSpace(in.Type), AccountTypeOther) {
		return strings.TrimSpace(in.CustomType)
	}
	return strings.TrimSpace(in.Type)
}

func (in AccountInput) Validate() error {
	if err := validateName("name", in.Name); err != nil {
		return err
	}
	if strings.TrimSpace(in.Type) == "" {
		return Invalid("type", "select an account type")
	}
	if in.ResolvedType() == "" {
		return Invalid("custom_type", "Custom Account Type is a required field")
	}
	if err := RequireNonNegative("starting_balance", in.StartingBalance); err != nil {
		return err
	}
	if in.ResolvedType() == AccountTypeGoal {
		if err := RequireAtLeast("goal_amount", in.GoalAmount, Cents(100)); err != nil {
			return err
		}
	}
	return nil
}

// BudgetInput is the field set for creating or updating a budget category.
type BudgetInput struct {
	Name         string
	Description  string
	BudgetAmount Money
	AutoReset    bool
	TimePeriod   string
	NextDate     Date
}

// Validate checks the input and returns the parsed reset period (empty when
// AutoReset is off).
func (in BudgetInput) Validate() (Frequency, error) {
	if err := validateName("name", in.Name); err != nil {
		return "", err
	}
	if len(in.Description) > maxDescriptionLength {
		return "", Invalid("description", "too long (max %d characters)", maxDescriptionLength)
	}
	if err := RequireNonNegative("budget_amount", in.BudgetAmount); err != nil {
		return "", err
	}
	if !in.AutoReset {
		return "", nil
	}
	if strings.TrimSpace(in.TimePeriod) == "" || in.NextDate.IsZero() {
		return "", Invalid("time_period", "Time Period and Reset Date are required for auto-reset budgets")
	}
	return ParseFrequency(in.TimePeriod)
}

// SubscriptionInput is the field set for creating or updating a subscription.
type SubscriptionInput struct {
	Name               string
	Amount             Money
	Frequency          string
	AutoAddTransaction bool
	AccountID          int64
	NextPaymentDate    Date
}

func (in SubscriptionInput) Validate() (Frequency, error) {
	if err := validateName("name", in.Name); err != nil {
		return "", err
	}
	if err := RequireAtLeast("amount", in.Amount, Cents(1)); err != nil {
		return "", err
	}
	if in.NextPaymentDate.IsZero() {
		return "", Invalid("next_payment_date", "is required")
	}
	if in.AutoAddTransaction && in.AccountID == 0 {
		return "", Invalid("account_id", "an account is required to add transactions automatically")
	}
	return ParseFrequency(in.Frequency)
}

func validateName(field, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return Invalid(field, "is required")
	}
	if len(name) > maxNameLength {
		return Invalid(field, "too long (max %d characters)", maxNameLength)
	}
	return nil
}
