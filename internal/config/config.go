// Package config loads process settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"moneytrack/internal/core"
)

// Mirror backends.
const (
	MirrorNone   = "none"
	MirrorMemory = "memory"
	MirrorSheets = "sheets"
)

type Config struct {
	// HTTP Server
	Port               string
	RateLimitPerMinute int

	// Logging
	LogLevel  string
	LogFormat string

	// Database
	SQLiteDBPath string

	// AMQP; an empty URL disables event publishing.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Outbox relay
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxRetries   int

	// Recurrence
	RecurrenceEnabled  bool
	RecurrenceInterval time.Duration
	BiweeklyStepWeeks  int

	// Transaction mirror
	MirrorBackend            string
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Read models
	DashboardCacheSize int
	DashboardCacheTTL  time.Duration

	DefaultCurrency string
}

func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8081"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/moneytrack.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "moneytrack"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_events"),

		OutboxPollInterval: getEnvDuration("OUTBOX_POLL_INTERVAL", 10*time.Second),
		OutboxBatchSize:    getEnvInt("OUTBOX_BATCH_SIZE", 10),
		OutboxMaxRetries:   getEnvInt("OUTBOX_MAX_RETRIES", 3),

		RecurrenceEnabled:  getEnvBool("RECURRENCE_ENABLED", true),
		RecurrenceInterval: getEnvDuration("RECURRENCE_INTERVAL", time.Hour),
		BiweeklyStepWeeks:  getEnvInt("BIWEEKLY_STEP_WEEKS", 2),

		MirrorBackend:            strings.ToLower(getEnv("MIRROR_BACKEND", MirrorNone)),
		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", "Transactions"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),

		DashboardCacheSize: getEnvInt("DASHBOARD_CACHE_SIZE", 500),
		DashboardCacheTTL:  getEnvDuration("DASHBOARD_CACHE_TTL", 5*time.Minute),

		DefaultCurrency: strings.ToUpper(getEnv("DEFAULT_CURRENCY", "USD")),
	}
}

// Calendar returns the recurrence calendar for the configured Biweekly step.
func (c *Config) Calendar() core.Calendar {
	return core.Calendar{BiweeklyWeeks: c.BiweeklyStepWeeks}
}

// AMQPEnabled reports whether ledger events go to a broker.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.OutboxBatchSize < 1 || c.OutboxBatchSize > 1000 {
		errors = append(errors, fmt.Sprintf("invalid outbox batch size %d: must be between 1 and 1000", c.OutboxBatchSize))
	}
	if c.OutboxMaxRetries < 1 {
		errors = append(errors, fmt.Sprintf("invalid outbox max retries %d: must be at least 1", c.OutboxMaxRetries))
	}
	if c.OutboxPollInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid outbox poll interval %v: must be at least 1 second", c.OutboxPollInterval))
	}

	if c.RecurrenceInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid recurrence interval %v: must be at least 1 second", c.RecurrenceInterval))
	} else if c.RecurrenceInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid recurrence interval %v: must be at most 24 hours", c.RecurrenceInterval))
	}
	if c.BiweeklyStepWeeks != 1 && c.BiweeklyStepWeeks != 2 {
		errors = append(errors, fmt.Sprintf("invalid biweekly step %d: must be 1 or 2 weeks", c.BiweeklyStepWeeks))
	}

	switch c.MirrorBackend {
	case MirrorNone, MirrorMemory:
	case MirrorSheets:
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "GOOGLE_SPREADSHEET_ID is required when using the sheets mirror")
		}
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE must be provided for the sheets mirror")
		} else if c.GoogleServiceAccountJSON == "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid mirror backend '%s': must be one of [none memory sheets]", c.MirrorBackend))
	}

	if c.DashboardCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid dashboard cache size %d: must be at least 1", c.DashboardCacheSize))
	}
	if c.DashboardCacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("invalid dashboard cache TTL %v: must be positive", c.DashboardCacheTTL))
	}

	if !core.KnownCurrency(c.DefaultCurrency) {
		errors = append(errors, fmt.Sprintf("unknown default currency '%s'", c.DefaultCurrency))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
