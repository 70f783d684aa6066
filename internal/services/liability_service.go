package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"moneytrack/internal/amqp"
	"moneytrack/internal/core"
	"moneytrack/internal/storage"
)

// LiabilityService manages loans, debts and credit cards and the payments
// recorded against them. A payment always moves money through a ledger
// transaction created in the same commit.
type LiabilityService struct {
	storage *storage.SQLiteRepository
	now     func() time.Time
}

func NewLiabilityService(storage *storage.SQLiteRepository) *LiabilityService {
	return &LiabilityService{storage: storage, now: time.Now}
}

// Loans

func (s *LiabilityService) CreateLoan(ctx context.Context, userID int64, in core.LoanInput) (core.Loan, error) {
	typ, err := in.Validate()
	if err != nil {
		return core.Loan{}, err
	}
	var created core.Loan
	err = s.storage.InTx(ctx, func(l *storage.Ledger) error {
		owner, err := l.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		created, err = l.CreateLoan(ctx, core.Loan{
			UserID:           userID,
			CounterpartyName: strings.TrimSpace(in.CounterpartyName),
			Amount:           in.Amount,
			InterestRate:     in.InterestRate,
			StartDate:        in.StartDate,
			EndDate:          in.EndDate,
			Type:             typ,
			Currency:         owner.Currency,
		})
		return err
	})
	if err != nil {
		return core.Loan{}, fmt.Errorf("create loan: %w", err)
	}
	slog.InfoContext(ctx, "Loan created", "user_id", userID, "loan_id", created.ID, "type", created.Type)
	return created, nil
}

func (s *LiabilityService) UpdateLoan(ctx context.Context, userID, id int64, in core.LoanInput) (core.Loan, error) {
	typ, err := in.Validate()
	if err != nil {
		return core.Loan{}, err
	}
	var updated core.Loan
	err = s.storage.InTx(ctx, func(l *storage.Ledger) error {
		loan, err := l.GetLoan(ctx, userID, id)
		if err != nil {
			return err
		}
		loan.CounterpartyName = strings.TrimSpace(in.CounterpartyName)
		loan.Amount = in.Amount
		loan.InterestRate = in.InterestRate
		loan.StartDate = in.StartDate
		loan.EndDate = in.EndDate
		loan.Type = typ
		updated = loan
		return l.UpdateLoan(ctx, loan)
	})
	if err != nil {
		return core.Loan{}, fmt.Errorf("update loan %d: %w", id, err)
	}
	return updated, nil
}

func (s *LiabilityService) DeleteLoan(ctx context.Context, userID, id int64) error {
	if err := s.storage.DeleteLoan(ctx, userID, id); err != nil {
		return fmt.Errorf("delete loan %d: %w", id, err)
	}
	return nil
}

func (s *LiabilityService) ListLoans(ctx context.Context, userID int64) ([]core.Loan, error) {
	return s.storage.ListLoans(ctx, userID)
}

// Debts

func (s *LiabilityService) CreateDebt(ctx context.Context, userID int64, in core.DebtInput) (core.Debt, error) {
	if err := in.Validate(); err != nil {
		return core.Debt{}, err
	}
	var created core.Debt
	err := s.storage.InTx(ctx, func(l *storage.Ledger) error {
		owner, err := l.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		created, err = l.CreateDebt(ctx, core.Debt{
			UserID:       userID,
			Type:         strings.TrimSpace(in.Type),
			Amount:       in.Amount,
			InterestRate: in.InterestRate,
			StartDate:    in.StartDate,
			EndDate:      in.EndDate,
			Currency:     owner.Currency,
		})
		return err
	})
	if err != nil {
		return core.Debt{}, fmt.Errorf("create debt: %w", err)
	}
	slog.InfoContext(ctx, "Debt created", "user_id", userID, "debt_id", created.ID)
	return created, nil
}

func (s *LiabilityService) UpdateDebt(ctx context.Context, userID, id int64, in core.DebtInput) (core.Debt, error) {
	if err := in.Validate(); err != nil {
		return core.Debt{}, err
	}
	var updated core.Debt
	err := s.storage.InTx(ctx, func(l *storage.Ledger) error {
		d, err := l.GetDebt(ctx, userID, id)
		if err != nil {
			return err
		}
		d.Type = strings.TrimSpace(in.Type)
		d.Amount = in.Amount
		d.InterestRate = in.InterestRate
		d.StartDate = in.StartDate
		d.EndDate = in.EndDate
		updated = d
		return l.UpdateDebt(ctx, d)
	})
	if err != nil {
		return core.Debt{}, fmt.Errorf("update debt %d: %w", id, err)
	}
	return updated, nil
}

func (s *LiabilityService) DeleteDebt(ctx context.Context, userID, id int64) error {
	if err := s.storage.DeleteDebt(ctx, userID, id); err != nil {
		return fmt.Errorf("delete debt %d: %w", id, err)
	}
	return nil
}

func (s *LiabilityService) ListDebts(ctx context.Context, userID int64) ([]core.Debt, error) {
	return s.storage.ListDebts(ctx, userID)
}

// Credit cards

// CreateCreditCard checks due dates against the owner's local date.
func (s *LiabilityService) CreateCreditCard(ctx context.Context, userID int64, in core.CreditCardInput) (core.CreditCard, error) {
	var created core.CreditCard
	err := s.storage.InTx(ctx, func(l *storage.Ledger) error {
		owner, err := l.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		today, err := core.LocalDate(s.now(), owner.TimeZone)
		if err != nil {
			return err
		}
		if err := in.Validate(today); err != nil {
			return err
		}
		created, err = l.CreateCreditCard(ctx, core.CreditCard{
			UserID:                userID,
			Name:                  strings.TrimSpace(in.Name),
			Limit:                 in.Limit,
			CurrentBalance:        in.CurrentBalance,
			InterestRate:          in.InterestRate,
			StatementDueDate:      in.StatementDueDate,
			MinimumPaymentDueDate: in.MinimumPaymentDueDate,
			BillingCycleDays:      in.BillingCycleDays,
			Currency:              owner.Currency,
		})
		return err
	})
	if err != nil {
		return core.CreditCard{}, fmt.Errorf("create credit card: %w", err)
	}
	slog.InfoContext(ctx, "Credit card created", "user_id", userID, "card_id", created.ID)
	return created, nil
}

func (s *LiabilityService) UpdateCreditCard(ctx context.Context, userID, id int64, in core.CreditCardInput) (core.CreditCard, error) {
	var updated core.CreditCard
	err := s.storage.InTx(ctx, func(l *storage.Ledger) error {
		owner, err := l.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		today, err := core.LocalDate(s.now(), owner.TimeZone)
		if err != nil {
			return err
		}
		if err := in.Validate(today); err != nil {
			return err
		}
		c, err := l.GetCreditCard(ctx, userID, id)
		if err != nil {
			return err
		}
		c.Name = strings.TrimSpace(in.Name)
		c.Limit = in.Limit
		c.CurrentBalance = in.CurrentBalance
		c.InterestRate = in.InterestRate
		c.StatementDueDate = in.StatementDueDate
		c.MinimumPaymentDueDate = in.MinimumPaymentDueDate
		c.BillingCycleDays = in.BillingCycleDays
		updated = c
		return l.UpdateCreditCard(ctx, c)
	})
	if err != nil {
		return core.CreditCard{}, fmt.Errorf("update credit card %d: %w", id, err)
	}
	return updated, nil
}

func (s *LiabilityService) DeleteCreditCard(ctx context.Context, userID, id int64) error {
	if err := s.storage.DeleteCreditCard(ctx, userID, id); err != nil {
		return fmt.Errorf("delete credit card %d: %w", id, err)
	}
	return nil
}

func (s *LiabilityService) ListCreditCards(ctx context.Context, userID int64) ([]core.CreditCard, error) {
	return s.storage.ListCreditCards(ctx, userID)
}

// Payments

// RecordLoanPayment posts the repayment: money comes in for a loan given
// and goes out for a loan taken.
func (s *LiabilityService) RecordLoanPayment(ctx context.Context, userID int64, in core.PaymentInput) (core.Payment, error) {
	if err := in.Validate(); err != nil {
		return core.Payment{}, err
	}
	return s.recordPayment(ctx, userID, core.LoanPayment, in, func(l *storage.Ledger) (core.TransactionInput, error) {
		loan, err := l.GetLoan(ctx, userID, in.ParentID)
		if err != nil {
			return core.TransactionInput{}, err
		}
		tx := core.TransactionInput{
			Amount:      in.Amount,
			Description: fmt.Sprintf("Loan payment: %s", loan.CounterpartyName),
			Date:        in.Date,
		}
		if loan.Type == core.LoanGiven {
			tx.Type = core.Income
			tx.AccountToID = in.AccountID
		} else {
			tx.Type = core.Expense
			tx.AccountFromID = in.AccountID
		}
		return tx, nil
	})
}

func (s *LiabilityService) RecordDebtPayment(ctx context.Context, userID int64, in core.PaymentInput) (core.Payment, error) {
	if err := in.Validate(); err != nil {
		return core.Payment{}, err
	}
	return s.recordPayment(ctx, userID, core.DebtPayment, in, func(l *storage.Ledger) (core.TransactionInput, error) {
		d, err := l.GetDebt(ctx, userID, in.ParentID)
		if err != nil {
			return core.TransactionInput{}, err
		}
		return core.TransactionInput{
			Type:          core.Expense,
			Amount:        in.Amount,
			Description:   fmt.Sprintf("Debt payment: %s", d.Type),
			Date:          in.Date,
			AccountFromID: in.AccountID,
		}, nil
	})
}

// RecordCreditCardPayment pays the card from an account and lowers the card
// balance by the same amount.
func (s *LiabilityService) RecordCreditCardPayment(ctx context.Context, userID int64, in core.PaymentInput) (core.Payment, error) {
	if err := in.Validate(); err != nil {
		return core.Payment{}, err
	}
	return s.recordPayment(ctx, userID, core.CreditCardPayment, in, func(l *storage.Ledger) (core.TransactionInput, error) {
		card, err := l.GetCreditCard(ctx, userID, in.ParentID)
		if err != nil {
			return core.TransactionInput{}, err
		}
		if in.Amount.Cents > card.CurrentBalance.Cents {
			return core.TransactionInput{}, core.Invalid("amount", "payment exceeds the card balance of %s", card.CurrentBalance.Format(card.Currency))
		}
		if err := l.AdjustCreditCardBalance(ctx, userID, card.ID, in.Amount.Neg()); err != nil {
			return core.TransactionInput{}, err
		}
		return core.TransactionInput{
			Type:          core.Expense,
			Amount:        in.Amount,
			Description:   fmt.Sprintf("Credit card payment: %s", card.Name),
			Date:          in.Date,
			AccountFromID: in.AccountID,
		}, nil
	})
}

func (s *LiabilityService) recordPayment(
	ctx context.Context,
	userID int64,
	kind core.PaymentKind,
	in core.PaymentInput,
	build func(*storage.Ledger) (core.TransactionInput, error),
) (core.Payment, error) {
	var payment core.Payment
	err := s.storage.InTx(ctx, func(l *storage.Ledger) error {
		txIn, err := build(l)
		if err != nil {
			return err
		}
		tx, err := postTransaction(ctx, l, userID, txIn)
		if err != nil {
			return err
		}
		payment, err = l.CreatePayment(ctx, core.Payment{
			UserID:        userID,
			Kind:          kind,
			ParentID:      in.ParentID,
			AccountID:     in.AccountID,
			TransactionID: tx.ID,
			Amount:        in.Amount,
			Date:          in.Date,
		})
		if err != nil {
			return err
		}
		return recordEvent(ctx, l, amqp.EventTransactionCreated, userID, tx.ID, tx.Amount, describe(tx))
	})
	if err != nil {
		return core.Payment{}, fmt.Errorf("record %s payment: %w", kind, err)
	}

	slog.InfoContext(ctx, "Payment recorded",
		"user_id", userID,
		"kind", kind,
		"parent_id", in.ParentID,
		"transaction_id", payment.TransactionID,
		"amount_cents", in.Amount.Cents)
	return payment, nil
}

// DeletePayment removes a payment and its transaction and, for a card,
// restores the card balance.
func (s *LiabilityService) DeletePayment(ctx context.Context, userID, id int64) error {
	err := s.storage.InTx(ctx, func(l *storage.Ledger) error {
		p, err := l.GetPayment(ctx, userID, id)
		if err != nil {
			return err
		}
		if err := l.DeletePayment(ctx, userID, id); err != nil {
			return err
		}
		removed, err := removeTransaction(ctx, l, userID, p.TransactionID)
		if err != nil {
			return err
		}
		if p.Kind == core.CreditCardPayment {
			if err := l.AdjustCreditCardBalance(ctx, userID, p.ParentID, p.Amount); err != nil {
				return err
			}
		}
		return recordEvent(ctx, l, amqp.EventTransactionDeleted, userID, removed.ID, removed.Amount, describe(removed))
	})
	if err != nil {
		return fmt.Errorf("delete payment %d: %w", id, err)
	}
	slog.InfoContext(ctx, "Payment deleted", "user_id", userID, "payment_id", id)
	return nil
}

func (s *LiabilityService) ListPayments(ctx context.Context, userID int64, kind core.PaymentKind, parentID int64) ([]core.Payment, error) {
	return s.storage.ListPayments(ctx, userID, kind, parentID)
}
