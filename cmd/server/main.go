package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"moneytrack/internal/amqp"
	"moneytrack/internal/cache"
	"moneytrack/internal/cli"
	"moneytrack/internal/config"
	"moneytrack/internal/core"
	apphttp "moneytrack/internal/http"
	applog "moneytrack/internal/log"
	"moneytrack/internal/scheduler"
	"moneytrack/internal/services"
	"moneytrack/internal/storage"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	logger.Info("Starting moneytrack server")

	cfg := cli.LoadAndValidateConfig(logger)
	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	ctx, stop := cli.SignalContext()
	defer stop()

	if err := run(ctx, logger, cfg, repo); err != nil {
		logger.Error("Server exited with error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(ctx context.Context, logger *applog.Logger, cfg *config.Config, repo *storage.SQLiteRepository) error {
	calendar := cfg.Calendar()

	dashboardCache := cache.NewLRUCache[core.Dashboard](cfg.DashboardCacheSize, cfg.DashboardCacheTTL)
	caches := cache.NewManager()
	caches.Register(dashboardCache)
	caches.StartCleanup(time.Minute)
	defer caches.Stop()

	dashboard := services.NewDashboardService(repo, dashboardCache)
	svc := apphttp.Services{
		Store:         repo,
		Users:         services.NewUserService(repo).WithDefaultCurrency(cfg.DefaultCurrency),
		Accounts:      services.NewAccountService(repo),
		Budgets:       services.NewBudgetService(repo, calendar),
		Subscriptions: services.NewSubscriptionService(repo),
		Transactions:  services.NewTransactionService(repo),
		Liabilities:   services.NewLiabilityService(repo),
		Notifications: services.NewNotificationService(repo),
		Dashboard:     dashboard,
	}

	srv, err := apphttp.NewServer(":"+cfg.Port, svc, apphttp.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger.WithComponent(applog.ComponentHTTP),
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.RecurrenceEnabled {
		cacheLog := logger.WithComponent(applog.ComponentCache)
		sched, err := scheduler.New(services.NewRecurringProcessor(repo, calendar), cfg.RecurrenceInterval,
			scheduler.WithAfterPass(func(ctx context.Context, summary core.PassSummary) {
				if summary.BudgetsReset+summary.SubscriptionsPosted == 0 {
					return
				}
				n := dashboard.InvalidateAll()
				cacheLog.DebugContext(ctx, "Dashboards invalidated after recurrence pass", "count", n)
			}))
		if err != nil {
			return err
		}
		if err := sched.Start(gctx); err != nil {
			return err
		}
		defer stopWithTimeout(logger, "scheduler", sched.Stop)
	} else {
		logger.Info("Recurrence scheduler disabled")
	}

	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// Events stay in the outbox until a relay can reach the broker.
			logger.Warn("AMQP unavailable, outbox relay not started", applog.FieldError, err)
		} else {
			defer client.Close()
			relayCfg := services.DefaultOutboxRelayConfig()
			relayCfg.PollInterval = cfg.OutboxPollInterval
			relayCfg.BatchSize = cfg.OutboxBatchSize
			relayCfg.MaxRetries = cfg.OutboxMaxRetries
			relay := services.NewOutboxRelay(repo, client, relayCfg)
			if err := relay.Start(gctx); err != nil {
				return err
			}
			defer stopWithTimeout(logger, "outbox relay", relay.Stop)
		}
	}

	g.Go(func() error {
		logger.Info("HTTP server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func stopWithTimeout(logger *applog.Logger, name string, stop func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := stop(ctx); err != nil {
		logger.Warn("Failed to stop "+name, applog.FieldError, err)
	}
}
