package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func runCtl(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrate(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ledger.db")

	out, err := runCtl(t, "--db", db, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "(clean)")
	assert.NotContains(t, out, "schema version 0 ")

	out, err = runCtl(t, "--db", db, "migrate", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "schema version")
}

func TestUserCreateAndList(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ledger.db")

	out, err := runCtl(t, "--db", db, "user", "create",
		"--email", "Ada@Example.com", "--password", "correct horse",
		"--first-name", "Ada", "--last-name", "Lovelace", "--time-zone", "Europe/London")
	require.NoError(t, err, out)
	assert.Contains(t, out, "created user 1 <ada@example.com>")

	_, err = runCtl(t, "--db", db, "user", "create",
		"--email", "ada@example.com", "--password", "correct horse",
		"--first-name", "Ada", "--last-name", "Again")
	assert.Error(t, err, "duplicate email")

	_, err = runCtl(t, "--db", db, "user", "create", "--email", "x@example.com")
	assert.Error(t, err, "missing required flags")

	out, err = runCtl(t, "--db", db, "user", "list")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, "Europe/London")
}

func TestRecurrenceRun(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ledger.db")

	out, err := runCtl(t, "--db", db, "recurrence", "run", "--at", "2024-03-01T12:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01: 0 budgets reset, 0 subscriptions posted, 0 failed\n", out)

	_, err = runCtl(t, "--db", db, "recurrence", "run", "--at", "tomorrow")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "ledger.db")
	_, err := runCtl(t, "--db", db, "user", "create",
		"--email", "ada@example.com", "--password", "correct horse",
		"--first-name", "Ada", "--last-name", "Lovelace")
	require.NoError(t, err)

	file := filepath.Join(dir, "out.xlsx")
	out, err := runCtl(t, "--db", db, "export", "--user-id", "1", "--from", "2024-01-01", "-o", file)
	require.NoError(t, err, out)
	assert.Contains(t, out, "wrote 0 transactions")

	book, err := excelize.OpenFile(file)
	require.NoError(t, err)
	defer book.Close()
	assert.Equal(t, []string{"Transactions", "Summary"}, book.GetSheetList())

	_, err = runCtl(t, "--db", db, "export", "--user-id", "99", "-o", filepath.Join(dir, "none.xlsx"))
	assert.Error(t, err, "unknown user")

	_, err = runCtl(t, "--db", db, "export", "--user-id", "1", "--from", "01/01/2024")
	assert.Error(t, err, "bad date")
}

func TestOutbox(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ledger.db")

	out, err := runCtl(t, "--db", db, "outbox", "stats")
	require.NoError(t, err)
	assert.Equal(t, "pending 0\nprocessing 0\ncompleted 0\nfailed 0\n", out)

	out, err = runCtl(t, "--db", db, "outbox", "retry")
	require.NoError(t, err)
	assert.Equal(t, "requeued 0 events\n", out)
}
