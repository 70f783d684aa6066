package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"moneytrack/internal/core"

	_ "modernc.org/sqlite"
)

// connection pragmas: writers take the lock at BEGIN so concurrent balance
// updates serialize instead of failing on upgrade.
const dsnParams = "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_txlock=immediate"

type SQLiteRepository struct {
	db *sql.DB
	*Ledger
}

// Ledger is the user-scoped view of the store. It runs on the pooled
// connection, or on a single transaction when handed out by InTx.
type Ledger struct {
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", withParams(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteRepository{
		db:     db,
		Ledger: &Ledger{queries: New(db)},
	}, nil
}

func withParams(dbPath string) string {
	if strings.Contains(dbPath, "?") {
		return dbPath + "&" + dsnParams
	}
	return dbPath + "?" + dsnParams
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// DB exposes the pool for health checks.
func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

// InTx runs fn inside one database transaction. Any error returned by fn
// rolls back every write fn made; a failed commit is reported as
// core.ErrPersistence.
func (r *SQLiteRepository) InTx(ctx context.Context, fn func(*Ledger) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return persistence("begin transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(&Ledger{queries: r.queries.WithTx(tx)}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		slog.ErrorContext(ctx, "Transaction commit failed", "error", err)
		return persistence("commit transaction", err)
	}
	return nil
}

func persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, core.ErrPersistence, err)
}

// lookupErr maps sql.ErrNoRows to core.NotFound; anything else is a
// persistence failure.
func lookupErr(entity string, id int64, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return core.NotFound(entity, id)
	}
	return persistence("get "+entity, err)
}

// requireRow turns a zero-row write into NotFound.
func requireRow(entity string, id int64, n int64, err error) error {
	if err != nil {
		return persistence("write "+entity, err)
	}
	if n == 0 {
		return core.NotFound(entity, id)
	}
	return nil
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

func nullDate(d core.Date) sql.NullString {
	if d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// storedDate parses a date column. Columns are only ever written through
// core.Date.String, so malformed values read back as unset.
func storedDate(s string) core.Date {
	d, err := core.ParseDate("", s)
	if err != nil {
		return core.Date{}
	}
	return d
}

func storedNullDate(s sql.NullString) core.Date {
	if !s.Valid {
		return core.Date{}
	}
	return storedDate(s.String)
}

func currencyOr(c string) string {
	if c == "" {
		return core.DefaultCurrency
	}
	return strings.ToUpper(c)
}
