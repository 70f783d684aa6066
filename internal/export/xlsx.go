// Package export renders a user's ledger as an Excel workbook.
package export

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"moneytrack/internal/core"
)

const (
	transactionsSheet = "Transactions"
	summarySheet      = "Summary"
)

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Source reads the data an export needs.
type Source interface {
	ListTransactions(ctx context.Context, userID int64, f core.TransactionFilter) ([]core.Transaction, error)
	ListAccounts(ctx context.Context, userID int64) ([]core.Account, error)
}

var transactionHeaders = []string{"Date", "Type", "Description", "Amount", "Currency", "From", "To"}

// WriteTransactions writes the user's transactions matching f, newest first,
// plus a summary sheet, and returns how many transactions were written.
func WriteTransactions(ctx context.Context, w io.Writer, src Source, userID int64, f core.TransactionFilter) (int, error) {
	txs, err := src.ListTransactions(ctx, userID, f)
	if err != nil {
		return 0, fmt.Errorf("list transactions: %w", err)
	}
	accounts, err := src.ListAccounts(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list accounts: %w", err)
	}
	names := make(map[int64]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.Name
	}

	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName("Sheet1", transactionsSheet); err != nil {
		return 0, fmt.Errorf("name sheet: %w", err)
	}
	if err := setRow(book, transactionsSheet, 1, toAny(transactionHeaders)); err != nil {
		return 0, err
	}

	var income, expense core.Money
	for i, t := range txs {
		row := []any{
			t.Date.String(),
			string(t.Type),
			t.Description,
			t.Amount.Decimal().InexactFloat64(),
			t.Currency,
			names[t.AccountFromID],
			names[t.AccountToID],
		}
		if err := setRow(book, transactionsSheet, i+2, row); err != nil {
			return 0, err
		}
		switch t.Type {
		case core.Income:
			income = income.Add(t.Amount)
		case core.Expense:
			expense = expense.Add(t.Amount)
		}
	}

	widths := map[string]float64{"A": 12, "B": 10, "C": 36, "D": 14, "E": 10, "F": 18, "G": 18}
	for col, width := range widths {
		if err := book.SetColWidth(transactionsSheet, col, col, width); err != nil {
			return 0, fmt.Errorf("set column width: %w", err)
		}
	}

	if _, err := book.NewSheet(summarySheet); err != nil {
		return 0, fmt.Errorf("create summary sheet: %w", err)
	}
	summary := [][]any{
		{"Transactions", len(txs)},
		{"Income", income.Decimal().InexactFloat64()},
		{"Expense", expense.Decimal().InexactFloat64()},
		{"Net", income.Sub(expense).Decimal().InexactFloat64()},
	}
	for i, row := range summary {
		if err := setRow(book, summarySheet, i+1, row); err != nil {
			return 0, err
		}
	}

	if err := book.Write(w); err != nil {
		return 0, fmt.Errorf("write workbook: %w", err)
	}
	return len(txs), nil
}

func setRow(book *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := book.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
