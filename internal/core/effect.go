package core

import (
	"fmt"
	"strings"
)

type TransactionType string

const (
	Income   TransactionType = "Income"
	Expense  TransactionType = "Expense"
	Transfer TransactionType = "Transfer"
)

// ParseTransactionType accepts a type name case-insensitively.
func ParseTransactionType(s string) (TransactionType, error) {
	s = strings.TrimSpace(s)
	for _, t := range []TransactionType{Income, Expense, Transfer} {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", Invalid("type", "transaction has to be one of these: Income, Expense, Transfer")
}

// Links are the balance-bearing references of a transaction. Zero means unset.
type Links struct {
	AccountFromID    int64
	AccountToID      int64
	BudgetCategoryID int64
}

// Effect is the set of deltas one transaction applies to its linked
// accounts and budget category.
type Effect struct {
	AccountFromID    int64
	AccountFromDelta Money
	AccountToID      int64
	AccountToDelta   Money
	BudgetCategoryID int64
	BudgetDelta      Money
}

// EffectOf derives the effect of a transaction of type t and amount on links.
//
//	Income:   account_to += amount
//	Expense:  account_from -= amount, budget.remaining -= amount (when linked)
//	Transfer: account_from -= amount, account_to += amount
//
// Links that the type does not use are rejected so that every stored
// transaction maps to exactly one effect.
func EffectOf(t TransactionType, amount Money, l Links) (Effect, error) {
	if err := RequirePositive("amount", amount); err != nil {
		return Effect{}, err
	}
	switch t {
	case Income:
		if l.AccountToID == 0 {
			return Effect{}, Invalid("account_to_id", "'Account To' is a required field for Income transactions")
		}
		if l.AccountFromID != 0 {
			return Effect{}, Invalid("account_from_id", "Income transactions cannot have an 'Account From'")
		}
		if l.BudgetCategoryID != 0 {
			return Effect{}, Invalid("budget_category_id", "only Expense transactions can be linked to a budget")
		}
		return Effect{AccountToID: l.AccountToID, AccountToDelta: amount}, nil
	case Expense:
		if l.AccountFromID == 0 {
			return Effect{}, Invalid("account_from_id", "'Account From' is a required field for Expense transactions")
		}
		if l.AccountToID != 0 {
			return Effect{}, Invalid("account_to_id", "Expense transactions cannot have an 'Account To'")
		}
		e := Effect{AccountFromID: l.AccountFromID, AccountFromDelta: amount.Neg()}
		if l.BudgetCategoryID != 0 {
			e.BudgetCategoryID = l.BudgetCategoryID
			e.BudgetDelta = amount.Neg()
		}
		return e, nil
	case Transfer:
		if l.AccountFromID == 0 || l.AccountToID == 0 {
			return Effect{}, Invalid("account_from_id", "'Account From' and 'Account To' are required fields for Transfer transactions")
		}
		if l.AccountFromID == l.AccountToID {
			return Effect{}, Invalid("account_to_id", "cannot transfer to the same account")
		}
		if l.BudgetCategoryID != 0 {
			return Effect{}, Invalid("budget_category_id", "only Expense transactions can be linked to a budget")
		}
		return Effect{
			AccountFromID:    l.AccountFromID,
			AccountFromDelta: amount.Neg(),
			AccountToID:      l.AccountToID,
			AccountToDelta:   amount,
		}, nil
	default:
		return Effect{}, Invalid("type", "unknown transaction type %q", string(t))
	}
}

// Inverse returns the effect that undoes e.
func (e Effect) Inverse() Effect {
	inv := e
	inv.AccountFromDelta = e.AccountFromDelta.Neg()
	inv.AccountToDelta = e.AccountToDelta.Neg()
	inv.BudgetDelta = e.BudgetDelta.Neg()
	return inv
}

// IsZero reports whether e touches nothing.
func (e Effect) IsZero() bool {
	return e.AccountFromID == 0 && e.AccountToID == 0 && e.BudgetCategoryID == 0
}

func (e Effect) String() string {
	return fmt.Sprintf("from#%d %s, to#%d %s, budget#%d %s",
		e.AccountFromID, e.AccountFromDelta, e.AccountToID, e.AccountToDelta, e.BudgetCategoryID, e.BudgetDelta)
}
