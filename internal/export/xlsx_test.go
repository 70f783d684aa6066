package export

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"moneytrack/internal/core"
)

type fakeSource struct {
	txs      []core.Transaction
	accounts []core.Account
	err      error
	filter   core.TransactionFilter
}

func (f *fakeSource) ListTransactions(_ context.Context, _ int64, filter core.TransactionFilter) ([]core.Transaction, error) {
	f.filter = filter
	return f.txs, f.err
}

func (f *fakeSource) ListAccounts(context.Context, int64) ([]core.Account, error) {
	return f.accounts, nil
}

func TestWriteTransactions(t *testing.T) {
	src := &fakeSource{
		accounts: []core.Account{{ID: 1, Name: "Checking"}, {ID: 2, Name: "Savings"}},
		txs: []core.Transaction{
			{Type: core.Transfer, Amount: core.Cents(10000), Date: core.NewDate(2024, 3, 3), AccountFromID: 1, AccountToID: 2, Currency: "USD"},
			{Type: core.Expense, Amount: core.Cents(1250), Description: "groceries", Date: core.NewDate(2024, 3, 2), AccountFromID: 1, Currency: "USD"},
			{Type: core.Income, Amount: core.Cents(300000), Description: "salary", Date: core.NewDate(2024, 3, 1), AccountToID: 1, Currency: "USD"},
		},
	}
	filter := core.TransactionFilter{From: core.NewDate(2024, 3, 1)}

	var buf bytes.Buffer
	n, err := WriteTransactions(context.Background(), &buf, src, 7, filter)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, filter, src.filter)

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Transactions")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Date", "Type", "Description", "Amount", "Currency", "From", "To"}, rows[0])
	assert.Equal(t, []string{"2024-03-03", "Transfer", "", "100", "USD", "Checking", "Savings"}, rows[1])
	assert.Equal(t, "12.5", rows[2][3])
	assert.Equal(t, "Checking", rows[2][5])

	summary, err := book.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, summary, 4)
	assert.Equal(t, []string{"Transactions", "3"}, summary[0])
	assert.Equal(t, []string{"Income", "3000"}, summary[1])
	assert.Equal(t, []string{"Expense", "12.5"}, summary[2])
	assert.Equal(t, []string{"Net", "2987.5"}, summary[3])
}

func TestWriteTransactionsEmpty(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteTransactions(context.Background(), &buf, &fakeSource{}, 1, core.TransactionFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows("Transactions")
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}

func TestWriteTransactionsSourceError(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteTransactions(context.Background(), &buf, &fakeSource{err: errors.New("disk I/O error")}, 1, core.TransactionFilter{})
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}
