package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"moneytrack/internal/core"
	"moneytrack/internal/storage"
)

func newTestStore(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, _ := newTestStoreAt(t)
	return repo
}

// newTestStoreAt also returns the database path, for tests that need to
// corrupt the file behind the repository's back.
func newTestStoreAt(t *testing.T) (*storage.SQLiteRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	repo, err := storage.NewSQLiteRepository(path)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo, path
}

func newTestUser(t *testing.T, repo *storage.SQLiteRepository, email, zone string) core.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), core.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: "x",
		TimeZone:     zone,
	})
	require.NoError(t, err)
	return u
}

func newTestAccount(t *testing.T, repo *storage.SQLiteRepository, userID int64, name string, cents int64) core.Account {
	t.Helper()
	a, err := NewAccountService(repo).Create(context.Background(), userID, core.AccountInput{
		Name:            name,
		Type:            "Checking",
		StartingBalance: core.Cents(cents),
	})
	require.NoError(t, err)
	return a
}

func balanceOf(t *testing.T, repo *storage.SQLiteRepository, userID, accountID int64) int64 {
	t.Helper()
	a, err := repo.GetAccount(context.Background(), userID, accountID)
	require.NoError(t, err)
	return a.CurrentBalance.Cents
}

func remainingOf(t *testing.T, repo *storage.SQLiteRepository, userID, budgetID int64) int64 {
	t.Helper()
	b, err := repo.GetBudget(context.Background(), userID, budgetID)
	require.NoError(t, err)
	return b.RemainingAmount.Cents
}
