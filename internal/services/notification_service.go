package services

import (
	"context"
	"fmt"

	"moneytrack/internal/core"
	"moneytrack/internal/storage"
)

type NotificationService struct {
	storage *storage.SQLiteRepository
}

func NewNotificationService(storage *storage.SQLiteRepository) *NotificationService {
	return &NotificationService{storage: storage}
}

// Notify stores a message for userID.
func (s *NotificationService) Notify(ctx context.Context, userID int64, message string) (core.Notification, error) {
	if message == "" {
		return core.Notification{}, core.Invalid("message", "is required")
	}
	n, err := s.storage.CreateNotification(ctx, userID, message)
	if err != nil {
		return core.Notification{}, fmt.Errorf("notify user %d: %w", userID, err)
	}
	return n, nil
}

func (s *NotificationService) List(ctx context.Context, userID int64, limit int) ([]core.Notification, error) {
	return s.storage.ListNotifications(ctx, userID, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id int64) error {
	return s.storage.MarkNotificationRead(ctx, userID, id)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.storage.CountUnreadNotifications(ctx, userID)
}
