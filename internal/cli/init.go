// Package cli holds the start-up steps shared by the moneytrack commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"moneytrack/internal/config"
	applog "moneytrack/internal/log"
	"moneytrack/internal/sheets"
	"moneytrack/internal/sheets/google"
	"moneytrack/internal/sheets/memory"
	"moneytrack/internal/storage"
)

// LoadEnvFile loads .env for local development. A missing file is fine.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger installs the process logger from LOG_LEVEL and LOG_FORMAT.
func SetupLogger(component string) *applog.Logger {
	return applog.Setup(component, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// LoadAndValidateConfig loads the configuration or exits the process.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitSQLite opens the ledger store, running migrations, or exits the process.
func InitSQLite(logger *applog.Logger, dbPath string) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", applog.FieldError, err, "path", dbPath)
		os.Exit(1)
	}
	return repo
}

// NewMirror builds the configured transaction mirror. It returns nil when
// mirroring is off.
func NewMirror(ctx context.Context, cfg *config.Config) (sheets.TransactionMirror, error) {
	switch cfg.MirrorBackend {
	case config.MirrorNone, "":
		return nil, nil
	case config.MirrorMemory:
		return memory.New(), nil
	case config.MirrorSheets:
		client, err := google.Open(ctx, google.Options{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			return nil, fmt.Errorf("sheets mirror: %w", err)
		}
		return client, nil
	}
	return nil, fmt.Errorf("unknown mirror backend %q", cfg.MirrorBackend)
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		slog.Info("Shutdown signal received")
	}()
	return ctx, stop
}
