package http

import (
	"net/http"

	"moneytrack/internal/core"
	applog "moneytrack/internal/log"
)

func transactionInput(p *RequestBodyParser) core.TransactionInput {
	txType, err := core.ParseTransactionType(p.Get("type"))
	if err != nil {
		p.fail(err)
	}
	return core.TransactionInput{
		Type:             txType,
		Amount:           p.Money("amount"),
		Description:      p.Get("description"),
		Date:             p.Date("date"),
		AccountFromID:    p.ID("account_from_id"),
		AccountToID:      p.ID("account_to_id"),
		BudgetCategoryID: p.ID("budget_category_id"),
		SubscriptionID:   p.ID("subscription_id"),
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request, userID int64) {
	filter, err := parseTransactionFilter(r.URL.Query())
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	if filter.Limit == 0 {
		filter.Limit = defaultListLimit
	}
	list, err := s.svc.Transactions.List(r.Context(), userID, filter)
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	s.render(w, r, "transactions.html", list)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request, userID int64) {
	p := NewRequestBodyParser(r)
	in := transactionInput(p)
	if err := p.Err(); err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	tx, err := s.svc.Transactions.Create(r.Context(), userID, in)
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	s.mutated(userID)
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Transaction created",
		applog.NewFields().WithOperation(applog.OpCreate).WithTransaction(tx.ID, string(tx.Type), tx.Amount.Cents).ToSlice()...)
	SuccessResponse("Transaction added.").
		Status(http.StatusCreated).
		TriggerLedgerChanged("transaction", tx.ID).
		TriggerFormReset().
		Write(w)
}

func (s *Server) handleEditTransaction(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r, "id")
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	p := NewRequestBodyParser(r)
	in := transactionInput(p)
	if err := p.Err(); err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	if _, err := s.svc.Transactions.Edit(r.Context(), userID, id, in); err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	s.mutated(userID)
	SuccessResponse("Transaction updated.").TriggerLedgerChanged("transaction", id).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r, "id")
	if err == nil {
		err = s.svc.Transactions.Delete(r.Context(), userID, id)
	}
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	s.mutated(userID)
	SuccessResponse("Transaction deleted.").TriggerLedgerChanged("transaction", id).Write(w)
}

func accountInput(p *RequestBodyParser) core.AccountInput {
	return core.AccountInput{
		Name:            p.Get("name"),
		Type:            p.Get("type"),
		CustomType:      p.Get("custom_type"),
		StartingBalance: p.OptionalMoney("starting_balance"),
		GoalAmount:      p.OptionalMoney("goal_amount"),
		Currency:        p.Get("currency"),
	}
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request, userID int64) {
	list, err := s.svc.Accounts.List(r.Context(), userID)
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	s.render(w, r, "accounts.html", list)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request, userID int64) {
	p := NewRequestBodyParser(r)
	in := accountInput(p)
	if err := p.Err(); err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	a, err := s.svc.Accounts.Create(r.Context(), userID, in)
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	s.mutated(userID)
	SuccessResponse("Account "+a.Name+" created.").
		Status(http.StatusCreated).
		Trigger(EventAccountsChanged, nil).
		TriggerFormReset().
		Write(w)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r, "id")
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	p := NewRequestBodyParser(r)
	in := accountInput(p)
	if err := p.Err(); err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	if _, err := s.svc.Accounts.Update(r.Context(), userID, id, in); err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	s.mutated(userID)
	SuccessResponse("Account updated.").Trigger(EventAccountsChanged, nil).Write(w)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r, "id")
	if err == nil {
		err = s.svc.Accounts.Delete(r.Context(), userID, id)
	}
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	s.mutated(userID)
	SuccessResponse("Account deleted.").Trigger(EventAccountsChanged, nil).Write(w)
}

func budgetInput(p *RequestBodyParser) core.BudgetInput {
	return core.BudgetInput{
		Name:         p.Get("name"),
		Description:  p.Get("description"),
		BudgetAmount: p.Money("budget_amount"),
		AutoReset:    p.Bool("auto_reset"),
		TimePeriod:   p.Get("time_period"),
		NextDate:     p.Date("next_date"),
	}
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request, userID int64) {
	list, err := s.svc.Budgets.List(r.Context(), userID)
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	s.render(w, r, "budgets.html", list)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request, userID int64) {
	p := NewRequestBodyParser(r)
	in := budgetInput(p)
	if err := p.Err(); err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	b, err := s.svc.Budgets.Create(r.Context(), userID, in)
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	s.mutated(userID)
	SuccessResponse("Budget "+b.Name+" created.").
		Status(http.StatusCreated).
		Trigger(EventBudgetsChanged, nil).
		TriggerFormReset().
		Write(w)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r, "id")
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	p := NewRequestBodyParser(r)
	in := budgetInput(p)
	if err := p.Err(); err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	if _, err := s.svc.Budgets.Update(r.Context(), userID, id, in); err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	s.mutated(userID)
	SuccessResponse("Budget updated.").Trigger(EventBudgetsChanged, nil).Write(w)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r, "id")
	if err == nil {
		err = s.svc.Budgets.Delete(r.Context(), userID, id)
	}
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	s.mutated(userID)
	SuccessResponse("Budget deleted.").Trigger(EventBudgetsChanged, nil).Write(w)
}

func subscriptionInput(p *RequestBodyParser) core.SubscriptionInput {
	return core.SubscriptionInput{
		Name:               p.Get("name"),
		Amount:             p.Money("amount"),
		Frequency:          p.Get("frequency"),
		AutoAddTransaction: p.Bool("auto_add_transaction"),
		AccountID:          p.ID("account_id"),
		NextPaymentDate:    p.Date("next_payment_date"),
	}
}

func (s *Server) handleListSubscriptions(w http.ResponseWriter, r *http.Request, userID int64) {
	list, err := s.svc.Subscriptions.List(r.Context(), userID)
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	s.render(w, r, "subscriptions.html", list)
}

func (s *Server) handleCreateSubscription(w http.ResponseWriter, r *http.Request, userID int64) {
	p := NewRequestBodyParser(r)
	in := subscriptionInput(p)
	if err := p.Err(); err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	sub, err := s.svc.Subscriptions.Create(r.Context(), userID, in)
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	s.mutated(userID)
	SuccessResponse("Subscription "+sub.Name+" created.").
		Status(http.StatusCreated).
		Trigger(EventSubscriptionsChange, nil).
		TriggerFormReset().
		Write(w)
}

func (s *Server) handleUpdateSubscription(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r, "id")
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	p := NewRequestBodyParser(r)
	in := subscriptionInput(p)
	if err := p.Err(); err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	if _, err := s.svc.Subscriptions.Update(r.Context(), userID, id, in); err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	s.mutated(userID)
	SuccessResponse("Subscription updated.").Trigger(EventSubscriptionsChange, nil).Write(w)
}

func (s *Server) handleDeleteSubscription(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r, "id")
	if err == nil {
		err = s.svc.Subscriptions.Delete(r.Context(), userID, id)
	}
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	s.mutated(userID)
	SuccessResponse("Subscription deleted.").Trigger(EventSubscriptionsChange, nil).Write(w)
}
