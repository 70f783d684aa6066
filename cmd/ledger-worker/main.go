package main

import (
	"context"
	"errors"
	"os"

	"moneytrack/internal/amqp"
	"moneytrack/internal/cli"
	applog "moneytrack/internal/log"
	"moneytrack/internal/services"
	"moneytrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)
	logger.Info("Starting ledger-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if !cfg.AMQPEnabled() {
		logger.Error("AMQP_URL is required for the ledger worker")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	ctx, stop := cli.SignalContext()
	defer stop()

	mirror, err := cli.NewMirror(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize transaction mirror", applog.FieldError, err)
		os.Exit(1)
	}
	if mirror == nil {
		logger.Info("Transaction mirroring disabled")
	} else {
		logger.Info("Transaction mirroring enabled", "backend", cfg.MirrorBackend)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	handler := worker.NewEventHandler(repo, services.NewNotificationService(repo), mirror)

	logger.Info("Consuming ledger events", "queue", cfg.AMQPQueue)
	if err := client.ConsumeLedgerEvents(ctx, handler.Handle); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event consumption failed", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Ledger-worker shutdown complete")
}
