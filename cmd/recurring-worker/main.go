package main

import (
	"context"
	"os"
	"time"

	"moneytrack/internal/cli"
	applog "moneytrack/internal/log"
	"moneytrack/internal/scheduler"
	"moneytrack/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentScheduler)
	logger.Info("Starting recurring-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	processor := services.NewRecurringProcessor(repo, cfg.Calendar())
	sched, err := scheduler.New(processor, cfg.RecurrenceInterval)
	if err != nil {
		logger.Error("Failed to create scheduler", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext()
	defer stop()

	logger.Info("Recurrence scheduler configured",
		"interval", cfg.RecurrenceInterval,
		"biweekly_weeks", cfg.BiweeklyStepWeeks,
		"sqlite_db", cfg.SQLiteDBPath)

	if err := sched.Start(ctx); err != nil {
		logger.Error("Failed to start scheduler", applog.FieldError, err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Shutting down recurring-worker")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sched.Stop(shutdownCtx); err != nil {
		logger.Warn("Scheduler did not stop in time", applog.FieldError, err)
	}
	logger.Info("Recurring-worker shutdown complete")
}
