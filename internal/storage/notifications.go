package storage

import (
	"context"

	"moneytrack/internal/core"
)

func (l *Ledger) CreateNotification(ctx context.Context, userID int64, message string) (core.Notification, error) {
	row, err := l.queries.CreateNotification(ctx, CreateNotificationParams{UserID: userID, Message: message})
	if err != nil {
		return core.Notification{}, persistence("create notification", err)
	}
	return toCoreNotification(row), nil
}

func (l *Ledger) ListNotifications(ctx context.Context, userID int64, limit int) ([]core.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.queries.ListNotifications(ctx, ListNotificationsParams{UserID: userID, Limit: int64(limit)})
	if err != nil {
		return nil, persistence("list notifications", err)
	}
	out := make([]core.Notification, len(rows))
	for i, r := range rows {
		out[i] = toCoreNotification(r)
	}
	return out, nil
}

func (l *Ledger) MarkNotificationRead(ctx context.Context, userID, id int64) error {
	n, err := l.queries.MarkNotificationRead(ctx, MarkNotificationReadParams{ID: id, UserID: userID})
	return requireRow("notification", id, n, err)
}

func (l *Ledger) CountUnreadNotifications(ctx context.Context, userID int64) (int, error) {
	n, err := l.queries.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return 0, persistence("count unread notifications", err)
	}
	return int(n), nil
}

func toCoreNotification(n Notification) core.Notification {
	return core.Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
		Read:      n.Read,
	}
}
