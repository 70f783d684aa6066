package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"moneytrack/internal/core"
)

func (l *Ledger) CreateLoan(ctx context.Context, loan core.Loan) (core.Loan, error) {
	row, err := l.queries.CreateLoan(ctx, CreateLoanParams{
		UserID:           loan.UserID,
		CounterpartyName: loan.CounterpartyName,
		AmountCents:      loan.Amount.Cents,
		InterestRate:     loan.InterestRate.String(),
		StartDate:        nullDate(loan.StartDate),
		EndDate:          nullDate(loan.EndDate),
		Type:             string(loan.Type),
		Currency:         currencyOr(loan.Currency),
	})
	if err != nil {
		return core.Loan{}, persistence("create loan", err)
	}
	return toCoreLoan(row), nil
}

func (l *Ledger) GetLoan(ctx context.Context, userID, id int64) (core.Loan, error) {
	row, err := l.queries.GetLoan(ctx, GetLoanParams{ID: id, UserID: userID})
	if err != nil {
		return core.Loan{}, lookupErr("loan", id, err)
	}
	return toCoreLoan(row), nil
}

func (l *Ledger) ListLoans(ctx context.Context, userID int64) ([]core.Loan, error) {
	rows, err := l.queries.ListLoans(ctx, userID)
	if err != nil {
		return nil, persistence("list loans", err)
	}
	out := make([]core.Loan, len(rows))
	for i, r := range rows {
		out[i] = toCoreLoan(r)
	}
	return out, nil
}

func (l *Ledger) UpdateLoan(ctx context.Context, loan core.Loan) error {
	n, err := l.queries.UpdateLoan(ctx, UpdateLoanParams{
		CounterpartyName: loan.CounterpartyName,
		AmountCents:      loan.Amount.Cents,
		InterestRate:     loan.InterestRate.String(),
		StartDate:        nullDate(loan.StartDate),
		EndDate:          nullDate(loan.EndDate),
		Type:             string(loan.Type),
		ID:               loan.ID,
		UserID:           loan.UserID,
	})
	return requireRow("loan", loan.ID, n, err)
}

func (l *Ledger) DeleteLoan(ctx context.Context, userID, id int64) error {
	if _, err := l.GetLoan(ctx, userID, id); err != nil {
		return err
	}
	if err := l.refuseWithPayments(ctx, core.LoanPayment, id); err != nil {
		return err
	}
	n, err := l.queries.DeleteLoan(ctx, DeleteLoanParams{ID: id, UserID: userID})
	return requireRow("loan", id, n, err)
}

func (l *Ledger) CreateDebt(ctx context.Context, d core.Debt) (core.Debt, error) {
	row, err := l.queries.CreateDebt(ctx, CreateDebtParams{
		UserID:       d.UserID,
		Type:         d.Type,
		AmountCents:  d.Amount.Cents,
		InterestRate: d.InterestRate.String(),
		StartDate:    nullDate(d.StartDate),
		EndDate:      nullDate(d.EndDate),
		Currency:     currencyOr(d.Currency),
	})
	if err != nil {
		return core.Debt{}, persistence("create debt", err)
	}
	return toCoreDebt(row), nil
}

func (l *Ledger) GetDebt(ctx context.Context, userID, id int64) (core.Debt, error) {
	row, err := l.queries.GetDebt(ctx, GetDebtParams{ID: id, UserID: userID})
	if err != nil {
		return core.Debt{}, lookupErr("debt", id, err)
	}
	return toCoreDebt(row), nil
}

func (l *Ledger) ListDebts(ctx context.Context, userID int64) ([]core.Debt, error) {
	rows, err := l.queries.ListDebts(ctx, userID)
	if err != nil {
		return nil, persistence("list debts", err)
	}
	out := make([]core.Debt, len(rows))
	for i, r := range rows {
		out[i] = toCoreDebt(r)
	}
	return out, nil
}

func (l *Ledger) UpdateDebt(ctx context.Context, d core.Debt) error {
	n, err := l.queries.UpdateDebt(ctx, UpdateDebtParams{
		Type:         d.Type,
		AmountCents:  d.Amount.Cents,
		InterestRate: d.InterestRate.String(),
		StartDate:    nullDate(d.StartDate),
		EndDate:      nullDate(d.EndDate),
		ID:           d.ID,
		UserID:       d.UserID,
	})
	return requireRow("debt", d.ID, n, err)
}

func (l *Ledger) DeleteDebt(ctx context.Context, userID, id int64) error {
	if _, err := l.GetDebt(ctx, userID, id); err != nil {
		return err
	}
	if err := l.refuseWithPayments(ctx, core.DebtPayment, id); err != nil {
		return err
	}
	n, err := l.queries.DeleteDebt(ctx, DeleteDebtParams{ID: id, UserID: userID})
	return requireRow("debt", id, n, err)
}

func (l *Ledger) CreateCreditCard(ctx context.Context, c core.CreditCard) (core.CreditCard, error) {
	row, err := l.queries.CreateCreditCard(ctx, CreateCreditCardParams{
		UserID:                c.UserID,
		Name:                  c.Name,
		LimitCents:            c.Limit.Cents,
		CurrentBalanceCents:   c.CurrentBalance.Cents,
		InterestRate:          c.InterestRate.String(),
		StatementDueDate:      c.StatementDueDate.String(),
		MinimumPaymentDueDate: c.MinimumPaymentDueDate.String(),
		BillingCycleDays:      int64(c.BillingCycleDays),
		Currency:              currencyOr(c.Currency),
	})
	if err != nil {
		return core.CreditCard{}, persistence("create credit card", err)
	}
	return toCoreCreditCard(row), nil
}

func (l *Ledger) GetCreditCard(ctx context.Context, userID, id int64) (core.CreditCard, error) {
	row, err := l.queries.GetCreditCard(ctx, GetCreditCardParams{ID: id, UserID: userID})
	if err != nil {
		return core.CreditCard{}, lookupErr("credit card", id, err)
	}
	return toCoreCreditCard(row), nil
}

func (l *Ledger) ListCreditCards(ctx context.Context, userID int64) ([]core.CreditCard, error) {
	rows, err := l.queries.ListCreditCards(ctx, userID)
	if err != nil {
		return nil, persistence("list credit cards", err)
	}
	out := make([]core.CreditCard, len(rows))
	for i, r := range rows {
		out[i] = toCoreCreditCard(r)
	}
	return out, nil
}

func (l *Ledger) UpdateCreditCard(ctx context.Context, c core.CreditCard) error {
	n, err := l.queries.UpdateCreditCard(ctx, UpdateCreditCardParams{
		Name:                  c.Name,
		LimitCents:            c.Limit.Cents,
		CurrentBalanceCents:   c.CurrentBalance.Cents,
		InterestRate:          c.InterestRate.String(),
		StatementDueDate:      c.StatementDueDate.String(),
		MinimumPaymentDueDate: c.MinimumPaymentDueDate.String(),
		BillingCycleDays:      int64(c.BillingCycleDays),
		ID:                    c.ID,
		UserID:                c.UserID,
	})
	return requireRow("credit card", c.ID, n, err)
}

func (l *Ledger) DeleteCreditCard(ctx context.Context, userID, id int64) error {
	if _, err := l.GetCreditCard(ctx, userID, id); err != nil {
		return err
	}
	if err := l.refuseWithPayments(ctx, core.CreditCardPayment, id); err != nil {
		return err
	}
	n, err := l.queries.DeleteCreditCard(ctx, DeleteCreditCardParams{ID: id, UserID: userID})
	return requireRow("credit card", id, n, err)
}

// AdjustCreditCardBalance adds delta to the card balance. It fails with
// core.ErrReference when the card is gone or the balance would drop below
// zero.
func (l *Ledger) AdjustCreditCardBalance(ctx context.Context, userID, id int64, delta core.Money) error {
	n, err := l.queries.AdjustCreditCardBalance(ctx, AdjustCreditCardBalanceParams{
		DeltaCents: delta.Cents,
		ID:         id,
		UserID:     userID,
	})
	if err != nil {
		return persistence("adjust credit card balance", err)
	}
	if n == 0 {
		return core.ReferenceMissing("credit card", id)
	}
	return nil
}

func (l *Ledger) CreatePayment(ctx context.Context, p core.Payment) (core.Payment, error) {
	row, err := l.queries.CreatePayment(ctx, CreatePaymentParams{
		UserID:        p.UserID,
		Kind:          string(p.Kind),
		ParentID:      p.ParentID,
		AccountID:     p.AccountID,
		TransactionID: p.TransactionID,
		AmountCents:   p.Amount.Cents,
		Date:          p.Date.String(),
	})
	if err != nil {
		return core.Payment{}, persistence("create payment", err)
	}
	return toCorePayment(row), nil
}

func (l *Ledger) GetPayment(ctx context.Context, userID, id int64) (core.Payment, error) {
	row, err := l.queries.GetPayment(ctx, GetPaymentParams{ID: id, UserID: userID})
	if err != nil {
		return core.Payment{}, lookupErr("payment", id, err)
	}
	return toCorePayment(row), nil
}

func (l *Ledger) ListPayments(ctx context.Context, userID int64, kind core.PaymentKind, parentID int64) ([]core.Payment, error) {
	rows, err := l.queries.ListPayments(ctx, ListPaymentsParams{UserID: userID, Kind: string(kind), ParentID: parentID})
	if err != nil {
		return nil, persistence("list payments", err)
	}
	out := make([]core.Payment, len(rows))
	for i, r := range rows {
		out[i] = toCorePayment(r)
	}
	return out, nil
}

func (l *Ledger) DeletePayment(ctx context.Context, userID, id int64) error {
	n, err := l.queries.DeletePayment(ctx, DeletePaymentParams{ID: id, UserID: userID})
	return requireRow("payment", id, n, err)
}

func (l *Ledger) refuseWithPayments(ctx context.Context, kind core.PaymentKind, parentID int64) error {
	n, err := l.queries.CountParentPayments(ctx, CountParentPaymentsParams{Kind: string(kind), ParentID: parentID})
	if err != nil {
		return persistence("count payments", err)
	}
	if n > 0 {
		return core.Invalid("payments", "%d payments are recorded against it; delete them first", n)
	}
	return nil
}

func storedRate(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func toCoreLoan(l Loan) core.Loan {
	return core.Loan{
		ID:               l.ID,
		UserID:           l.UserID,
		CounterpartyName: l.CounterpartyName,
		Amount:           core.Cents(l.AmountCents),
		InterestRate:     storedRate(l.InterestRate),
		StartDate:        storedNullDate(l.StartDate),
		EndDate:          storedNullDate(l.EndDate),
		Type:             core.LoanType(l.Type),
		Currency:         l.Currency,
	}
}

func toCoreDebt(d Debt) core.Debt {
	return core.Debt{
		ID:           d.ID,
		UserID:       d.UserID,
		Type:         d.Type,
		Amount:       core.Cents(d.AmountCents),
		InterestRate: storedRate(d.InterestRate),
		StartDate:    storedNullDate(d.StartDate),
		EndDate:      storedNullDate(d.EndDate),
		Currency:     d.Currency,
	}
}

func toCoreCreditCard(c CreditCard) core.CreditCard {
	return core.CreditCard{
		ID:                    c.ID,
		UserID:                c.UserID,
		Name:                  c.Name,
		Limit:                 core.Cents(c.LimitCents),
		CurrentBalance:        core.Cents(c.CurrentBalanceCents),
		InterestRate:          storedRate(c.InterestRate),
		StatementDueDate:      storedDate(c.StatementDueDate),
		MinimumPaymentDueDate: storedDate(c.MinimumPaymentDueDate),
		BillingCycleDays:      int(c.BillingCycleDays),
		Currency:              c.Currency,
	}
}

func toCorePayment(p Payment) core.Payment {
	return core.Payment{
		ID:            p.ID,
		UserID:        p.UserID,
		Kind:          core.PaymentKind(p.Kind),
		ParentID:      p.ParentID,
		AccountID:     p.AccountID,
		TransactionID: p.TransactionID,
		Amount:        core.Cents(p.AmountCents),
		Date:          storedDate(p.Date),
	}
}
