package sheets

import (
	"context"
	"strconv"

	"moneytrack/internal/core"
)

// Row is one ledger transaction as mirrored into a spreadsheet.
type Row struct {
	TransactionID int64
	UserID        int64
	Date          core.Date
	Type          core.TransactionType
	Description   string
	Amount        core.Money
	Currency      string
}

func RowFromTransaction(t core.Transaction) Row {
	return Row{
		TransactionID: t.ID,
		UserID:        t.UserID,
		Date:          t.Date,
		Type:          t.Type,
		Description:   t.Description,
		Amount:        t.Amount,
		Currency:      t.Currency,
	}
}

func (r Row) Validate() error {
	if r.TransactionID <= 0 {
		return core.Invalid("transaction_id", "is required")
	}
	if r.Date.IsZero() {
		return core.Invalid("date", "is required")
	}
	if _, err := core.ParseTransactionType(string(r.Type)); err != nil {
		return err
	}
	return nil
}

// Values renders the row in column order: id, date, type, description,
// amount, currency, user.
func (r Row) Values() []any {
	return []any{
		strconv.FormatInt(r.TransactionID, 10),
		r.Date.String(),
		string(r.Type),
		r.Description,
		r.Amount.Decimal().StringFixed(2),
		r.Currency,
		strconv.FormatInt(r.UserID, 10),
	}
}

// Ports for outbound adapters.
type (
	// TransactionMirror keeps a spreadsheet copy of the ledger. Remove of an
	// unknown id is not an error.
	TransactionMirror interface {
		Append(ctx context.Context, r Row) (rowRef string, err error)
		Remove(ctx context.Context, transactionID int64) error
	}
)
