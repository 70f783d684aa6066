package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"moneytrack/internal/cache"
	"moneytrack/internal/core"
	"moneytrack/internal/storage"
)

const recentTransactions = 5

// DashboardService builds the per-user home page read model. Results are
// cached per user until invalidated or expired.
type DashboardService struct {
	storage *storage.SQLiteRepository
	cache   cache.Cache[core.Dashboard]
	now     func() time.Time
}

// NewDashboardService takes an optional cache; nil disables caching.
func NewDashboardService(storage *storage.SQLiteRepository, c cache.Cache[core.Dashboard]) *DashboardService {
	return &DashboardService{storage: storage, cache: c, now: time.Now}
}

func (s *DashboardService) Get(ctx context.Context, userID int64) (core.Dashboard, error) {
	key := dashboardKey(userID)
	if s.cache != nil {
		if d, ok := s.cache.Get(key); ok {
			// Notifications are written by the ledger worker, which cannot
			// reach this process's cache.
			unread, err := s.storage.CountUnreadNotifications(ctx, userID)
			if err != nil {
				return core.Dashboard{}, fmt.Errorf("count unread notifications: %w", err)
			}
			d.UnreadNotices = unread
			return d, nil
		}
	}

	d, err := s.build(ctx, userID)
	if err != nil {
		return core.Dashboard{}, fmt.Errorf("build dashboard: %w", err)
	}
	if s.cache != nil {
		s.cache.Set(key, d)
	}
	return d, nil
}

// Invalidate drops the cached dashboard of userID.
func (s *DashboardService) Invalidate(userID int64) {
	if s.cache != nil {
		s.cache.Delete(dashboardKey(userID))
	}
}

// InvalidateAll drops every cached dashboard. Recurrence passes touch many
// users at once.
func (s *DashboardService) InvalidateAll() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.DeletePrefix(dashboardKeyPrefix)
}

func (s *DashboardService) build(ctx context.Context, userID int64) (core.Dashboard, error) {
	owner, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return core.Dashboard{}, err
	}
	today, err := core.LocalDate(s.now(), owner.TimeZone)
	if err != nil {
		return core.Dashboard{}, err
	}

	d := core.Dashboard{UserID: userID, Currency: owner.Currency, Today: today}

	if d.TotalBalance, err = s.storage.TotalBalance(ctx, userID); err != nil {
		return core.Dashboard{}, err
	}
	if d.Accounts, err = s.storage.ListAccounts(ctx, userID); err != nil {
		return core.Dashboard{}, err
	}

	budgets, err := s.storage.ListBudgets(ctx, userID)
	if err != nil {
		return core.Dashboard{}, err
	}
	d.Budgets = make([]core.BudgetLine, len(budgets))
	for i, b := range budgets {
		d.Budgets[i] = core.BudgetLine{ID: b.ID, Name: b.Name, Budget: b.BudgetAmount, Remaining: b.RemainingAmount}
	}

	if d.Recent, err = s.storage.ListTransactions(ctx, userID, core.TransactionFilter{Limit: recentTransactions}); err != nil {
		return core.Dashboard{}, err
	}
	if d.Month, err = s.storage.MonthOverview(ctx, userID, today); err != nil {
		return core.Dashboard{}, err
	}
	if d.UnreadNotices, err = s.storage.CountUnreadNotifications(ctx, userID); err != nil {
		return core.Dashboard{}, err
	}
	return d, nil
}

const dashboardKeyPrefix = "dashboard:"

func dashboardKey(userID int64) string {
	return dashboardKeyPrefix + strconv.FormatInt(userID, 10)
}
