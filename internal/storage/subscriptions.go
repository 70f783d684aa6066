package storage

import (
	"context"

	"moneytrack/internal/core"
)

// DueSubscription is an auto-posting subscription paired with its owner's
// time zone.
type DueSubscription struct {
	Subscription core.Subscription
	TimeZone     string
}

func (l *Ledger) CreateSubscription(ctx context.Context, s core.Subscription) (core.Subscription, error) {
	row, err := l.queries.CreateSubscription(ctx, CreateSubscriptionParams{
		UserID:             s.UserID,
		Name:               s.Name,
		AmountCents:        s.Amount.Cents,
		Frequency:          string(s.Frequency),
		AutoAddTransaction: s.AutoAddTransaction,
		AccountID:          nullID(s.AccountID),
		LastPaymentDate:    nullDate(s.LastPaymentDate),
		NextPaymentDate:    s.NextPaymentDate.String(),
		Currency:           currencyOr(s.Currency),
	})
	if err != nil {
		return core.Subscription{}, persistence("create subscription", err)
	}
	return toCoreSubscription(row), nil
}

func (l *Ledger) GetSubscription(ctx context.Context, userID, id int64) (core.Subscription, error) {
	row, err := l.queries.GetSubscription(ctx, GetSubscriptionParams{ID: id, UserID: userID})
	if err != nil {
		return core.Subscription{}, lookupErr("subscription", id, err)
	}
	return toCoreSubscription(row), nil
}

func (l *Ledger) ListSubscriptions(ctx context.Context, userID int64) ([]core.Subscription, error) {
	rows, err := l.queries.ListSubscriptions(ctx, userID)
	if err != nil {
		return nil, persistence("list subscriptions", err)
	}
	subs := make([]core.Subscription, len(rows))
	for i, r := range rows {
		subs[i] = toCoreSubscription(r)
	}
	return subs, nil
}

func (l *Ledger) UpdateSubscription(ctx context.Context, s core.Subscription) error {
	n, err := l.queries.UpdateSubscription(ctx, UpdateSubscriptionParams{
		Name:               s.Name,
		AmountCents:        s.Amount.Cents,
		Frequency:          string(s.Frequency),
		AutoAddTransaction: s.AutoAddTransaction,
		AccountID:          nullID(s.AccountID),
		NextPaymentDate:    s.NextPaymentDate.String(),
		ID:                 s.ID,
		UserID:             s.UserID,
	})
	return requireRow("subscription", s.ID, n, err)
}

// DeleteSubscription removes the template. Posted transactions stay and lose
// their subscription link through the foreign key.
func (l *Ledger) DeleteSubscription(ctx context.Context, userID, id int64) error {
	n, err := l.queries.DeleteSubscription(ctx, DeleteSubscriptionParams{ID: id, UserID: userID})
	return requireRow("subscription", id, n, err)
}

func (l *Ledger) ListDueSubscriptions(ctx context.Context, cutoff core.Date) ([]DueSubscription, error) {
	rows, err := l.queries.ListDueSubscriptions(ctx, cutoff.String())
	if err != nil {
		return nil, persistence("list due subscriptions", err)
	}
	due := make([]DueSubscription, len(rows))
	for i, r := range rows {
		due[i] = DueSubscription{Subscription: toCoreSubscription(r.Subscription), TimeZone: r.TimeZone}
	}
	return due, nil
}

// AdvanceSubscription records expected as the last payment and schedules
// next. It reports false when another pass already advanced it.
func (l *Ledger) AdvanceSubscription(ctx context.Context, id int64, expected, next core.Date) (bool, error) {
	n, err := l.queries.AdvanceSubscription(ctx, AdvanceSubscriptionParams{
		LastPaymentDate:         expected.String(),
		NextPaymentDate:         next.String(),
		ID:                      id,
		ExpectedNextPaymentDate: expected.String(),
	})
	if err != nil {
		return false, persistence("advance subscription", err)
	}
	return n == 1, nil
}

func toCoreSubscription(s Subscription) core.Subscription {
	return core.Subscription{
		ID:                 s.ID,
		UserID:             s.UserID,
		Name:               s.Name,
		Amount:             core.Cents(s.AmountCents),
		Frequency:          core.Frequency(s.Frequency),
		AutoAddTransaction: s.AutoAddTransaction,
		AccountID:          s.AccountID.Int64,
		LastPaymentDate:    storedNullDate(s.LastPaymentDate),
		NextPaymentDate:    storedDate(s.NextPaymentDate),
		Currency:           s.Currency,
	}
}
