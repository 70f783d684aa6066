package http

import (
	"net/http"

	"moneytrack/internal/core"
)

type liabilitiesView struct {
	Loans []core.Loan
	Debts []core.Debt
	Cards []core.CreditCard
}

func (s *Server) handleListLiabilities(w http.ResponseWriter, r *http.Request, userID int64) {
	var view liabilitiesView
	var err error
	if view.Loans, err = s.svc.Liabilities.ListLoans(r.Context(), userID); err == nil {
		if view.Debts, err = s.svc.Liabilities.ListDebts(r.Context(), userID); err == nil {
			view.Cards, err = s.svc.Liabilities.ListCreditCards(r.Context(), userID)
		}
	}
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	s.render(w, r, "liabilities.html", view)
}

func loanInput(p *RequestBodyParser) core.LoanInput {
	return core.LoanInput{
		CounterpartyName: p.Get("counterparty_name"),
		Amount:           p.Money("amount"),
		InterestRate:     p.Rate("interest_rate"),
		StartDate:        p.Date("start_date"),
		EndDate:          p.Date("end_date"),
		Type:             p.Get("type"),
	}
}

func debtInput(p *RequestBodyParser) core.DebtInput {
	return core.DebtInput{
		Type:         p.Get("type"),
		Amount:       p.Money("amount"),
		InterestRate: p.Rate("interest_rate"),
		StartDate:    p.Date("start_date"),
		EndDate:      p.Date("end_date"),
	}
}

func creditCardInput(p *RequestBodyParser) core.CreditCardInput {
	return core.CreditCardInput{
		Name:                  p.Get("name"),
		Limit:                 p.Money("limit"),
		CurrentBalance:        p.OptionalMoney("current_balance"),
		InterestRate:          p.Rate("interest_rate"),
		StatementDueDate:      p.Date("statement_due_date"),
		MinimumPaymentDueDate: p.Date("minimum_payment_due_date"),
		BillingCycleDays:      p.Int("billing_cycle_days"),
	}
}

// liabilityWrite runs a create or update built from the request body and
// answers with a liabilities refresh.
func liabilityWrite[In any](s *Server, build func(*RequestBodyParser) In, apply func(*http.Request, In) error, created bool, message string) userHandler {
	return func(w http.ResponseWriter, r *http.Request, userID int64) {
		p := NewRequestBodyParser(r)
		in := build(p)
		if err := p.Err(); err != nil {
			FailureResponse(r, err).Write(w)
			return
		}
		if err := apply(r, in); err != nil {
			FailureResponse(r, err).Write(w)
			return
		}
		s.mutated(userID)
		resp := SuccessResponse(message).Trigger(EventLiabilitiesChanged, nil)
		if created {
			resp.Status(http.StatusCreated).TriggerFormReset()
		}
		resp.Write(w)
	}
}

func (s *Server) handleCreateLoan(w http.ResponseWriter, r *http.Request, userID int64) {
	liabilityWrite(s, loanInput, func(r *http.Request, in core.LoanInput) error {
		_, err := s.svc.Liabilities.CreateLoan(r.Context(), userID, in)
		return err
	}, true, "Loan added.")(w, r, userID)
}

func (s *Server) handleUpdateLoan(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r, "id")
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	liabilityWrite(s, loanInput, func(r *http.Request, in core.LoanInput) error {
		_, err := s.svc.Liabilities.UpdateLoan(r.Context(), userID, id, in)
		return err
	}, false, "Loan updated.")(w, r, userID)
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request, userID int64) {
	liabilityWrite(s, debtInput, func(r *http.Request, in core.DebtInput) error {
		_, err := s.svc.Liabilities.CreateDebt(r.Context(), userID, in)
		return err
	}, true, "Debt added.")(w, r, userID)
}

func (s *Server) handleUpdateDebt(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r, "id")
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	liabilityWrite(s, debtInput, func(r *http.Request, in core.DebtInput) error {
		_, err := s.svc.Liabilities.UpdateDebt(r.Context(), userID, id, in)
		return err
	}, false, "Debt updated.")(w, r, userID)
}

func (s *Server) handleCreateCreditCard(w http.ResponseWriter, r *http.Request, userID int64) {
	liabilityWrite(s, creditCardInput, func(r *http.Request, in core.CreditCardInput) error {
		_, err := s.svc.Liabilities.CreateCreditCard(r.Context(), userID, in)
		return err
	}, true, "Credit card added.")(w, r, userID)
}

func (s *Server) handleUpdateCreditCard(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r, "id")
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	liabilityWrite(s, creditCardInput, func(r *http.Request, in core.CreditCardInput) error {
		_, err := s.svc.Liabilities.UpdateCreditCard(r.Context(), userID, id, in)
		return err
	}, false, "Credit card updated.")(w, r, userID)
}

// liabilityDelete removes one liability by path id.
func (s *Server) liabilityDelete(w http.ResponseWriter, r *http.Request, userID int64, del func(r *http.Request, id int64) error, message string) {
	id, err := pathID(r, "id")
	if err == nil {
		err = del(r, id)
	}
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	s.mutated(userID)
	SuccessResponse(message).Trigger(EventLiabilitiesChanged, nil).Write(w)
}

func (s *Server) handleDeleteLoan(w http.ResponseWriter, r *http.Request, userID int64) {
	s.liabilityDelete(w, r, userID, func(r *http.Request, id int64) error {
		return s.svc.Liabilities.DeleteLoan(r.Context(), userID, id)
	}, "Loan deleted.")
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request, userID int64) {
	s.liabilityDelete(w, r, userID, func(r *http.Request, id int64) error {
		return s.svc.Liabilities.DeleteDebt(r.Context(), userID, id)
	}, "Debt deleted.")
}

func (s *Server) handleDeleteCreditCard(w http.ResponseWriter, r *http.Request, userID int64) {
	s.liabilityDelete(w, r, userID, func(r *http.Request, id int64) error {
		return s.svc.Liabilities.DeleteCreditCard(r.Context(), userID, id)
	}, "Credit card deleted.")
}

// handlePayment records a payment of kind against the liability in the path.
func (s *Server) handlePayment(kind core.PaymentKind) userHandler {
	return func(w http.ResponseWriter, r *http.Request, userID int64) {
		parentID, err := pathID(r, "id")
		if err != nil {
			FailureResponse(r, err).Write(w)
			return
		}
		p := NewRequestBodyParser(r)
		in := core.PaymentInput{
			ParentID:  parentID,
			AccountID: p.ID("account_id"),
			Amount:    p.Money("amount"),
			Date:      p.Date("date"),
		}
		if err := p.Err(); err != nil {
			FailureResponse(r, err).Write(w)
			return
		}

		var payment core.Payment
		switch kind {
		case core.LoanPayment:
			payment, err = s.svc.Liabilities.RecordLoanPayment(r.Context(), userID, in)
		case core.DebtPayment:
			payment, err = s.svc.Liabilities.RecordDebtPayment(r.Context(), userID, in)
		case core.CreditCardPayment:
			payment, err = s.svc.Liabilities.RecordCreditCardPayment(r.Context(), userID, in)
		}
		if err != nil {
			FailureResponse(r, err).Write(w)
			return
		}
		s.mutated(userID)
		SuccessResponse("Payment recorded.").
			Status(http.StatusCreated).
			TriggerLedgerChanged("payment", payment.ID).
			Trigger(EventLiabilitiesChanged, nil).
			TriggerFormReset().
			Write(w)
	}
}

// handleListPayments returns the payments of one liability as JSON.
func (s *Server) handleListPayments(kind core.PaymentKind) userHandler {
	type paymentJSON struct {
		ID            int64  `json:"id"`
		AccountID     int64  `json:"account_id"`
		TransactionID int64  `json:"transaction_id"`
		Amount        string `json:"amount"`
		Date          string `json:"date"`
	}
	return func(w http.ResponseWriter, r *http.Request, userID int64) {
		parentID, err := pathID(r, "id")
		if err != nil {
			FailureResponse(r, err).Write(w)
			return
		}
		list, err := s.svc.Liabilities.ListPayments(r.Context(), userID, kind, parentID)
		if err != nil {
			FailureResponse(r, err).Write(w)
			return
		}
		out := make([]paymentJSON, 0, len(list))
		for _, p := range list {
			out = append(out, paymentJSON{
				ID:            p.ID,
				AccountID:     p.AccountID,
				TransactionID: p.TransactionID,
				Amount:        p.Amount.String(),
				Date:          p.Date.String(),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) handleDeletePayment(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r, "id")
	if err == nil {
		err = s.svc.Liabilities.DeletePayment(r.Context(), userID, id)
	}
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	s.mutated(userID)
	SuccessResponse("Payment deleted.").
		TriggerLedgerChanged("payment", id).
		Trigger(EventLiabilitiesChanged, nil).
		Write(w)
}
