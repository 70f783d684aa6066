package storage

import (
	"database/sql"
	"time"
)

type User struct {
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

type Account struct {
	ID                   int64
	UserID               int64
	Name                 string
	Type                 string
	StartingBalanceCents int64
	CurrentBalanceCents  int64
	GoalAmountCents      sql.NullInt64
	Currency             string
}

type BudgetCategory struct {
	ID                   int64
	UserID               int64
	Name                 string
	Description          string
	BudgetAmountCents    int64
	RemainingAmountCents int64
	AutoReset            bool
	TimePeriod           sql.NullString
	NextDate             sql.NullString
	LastReset            sql.NullString
	Currency             string
}

type Subscription struct {
	ID                 int64
	UserID             int64
	Name               string
	AmountCents        int64
	Frequency          string
	AutoAddTransaction bool
	AccountID          sql.NullInt64
	LastPaymentDate    sql.NullString
	NextPaymentDate    string
	Currency           string
}

type Transaction struct {
	ID               int64
	UserID           int64
	Type             string
	AmountCents      int64
	Description      string
	Date             string
	AccountFromID    sql.NullInt64
	AccountToID      sql.NullInt64
	BudgetCategoryID sql.NullInt64
	SubscriptionID   sql.NullInt64
	Currency         string
	CreatedAt        time.Time
}

type Loan struct {
	ID               int64
	UserID           int64
	CounterpartyName string
	AmountCents      int64
	InterestRate     string
	StartDate        sql.NullString
	EndDate          sql.NullString
	Type             string
	Currency         string
}

type Debt struct {
	ID           int64
	UserID       int64
	Type         string
	AmountCents  int64
	InterestRate string
	StartDate    sql.NullString
	EndDate      sql.NullString
	Currency     string
}

type CreditCard struct {
	ID                    int64
	UserID                int64
	Name                  string
	LimitCents            int64
	CurrentBalanceCents   int64
	InterestRate          string
	StatementDueDate      string
	MinimumPaymentDueDate string
	BillingCycleDays      int64
	Currency              string
}

type Payment struct {
	ID            int64
	UserID        int64
	Kind          string
	ParentID      int64
	AccountID     int64
	TransactionID int64
	AmountCents   int64
	Date          string
}

type Notification struct {
	ID        int64
	UserID    int64
	Message   string
	Read      bool
	CreatedAt time.Time
}

type EventOutbox struct {
	ID          int64
	EventID     string
	Type        string
	UserID      int64
	EntityID    int64
	AmountCents int64
	Message     string
	OccurredAt  time.Time
	Status      string
	Attempts    int64
	LastError   sql.NullString
	NextRetryAt sql.NullTime
	UpdatedAt   time.Time
}
