package core

// BudgetLine is one budget category on the dashboard.
type BudgetLine struct {
	ID        int64
	Name      string
	Budget    Money
	Remaining Money
}

// Spent is the part of the budget already used.
func (b BudgetLine) Spent() Money {
	return b.Budget.Sub(b.Remaining)
}

// MonthOverview is the income/expense summary for one calendar month.
type MonthOverview struct {
	Year    int
	Month   int // 1-12
	Income  Money
	Expense Money
}

func (m MonthOverview) Net() Money {
	return m.Income.Sub(m.Expense)
}

// Dashboard is the per-user read model shown on the home page.
type Dashboard struct {
	UserID        int64
	Currency      string
	Today         Date
	TotalBalance  Money
	Accounts      []Account
	Budgets       []BudgetLine
	Recent        []Transaction
	Month         MonthOverview
	UnreadNotices int
}

// TransactionFilter narrows a transaction listing. Zero fields are ignored.
type TransactionFilter struct {
	From             Date
	To               Date
	AccountID        int64
	BudgetCategoryID int64
	Type             TransactionType
	Limit            int
}

// PassSummary reports one recurrence pass.
type PassSummary struct {
	Today               Date // server-side UTC date of the pass snapshot
	BudgetsReset        int
	SubscriptionsPosted int
	Failed              int
}
