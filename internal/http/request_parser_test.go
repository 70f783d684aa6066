package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneytrack/internal/core"
)

func newParser(body string) *RequestBodyParser {
	return NewRequestBodyParser(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
}

func TestRequestBodyParser_Form(t *testing.T) {
	p := newParser("name=%20Rent%20&amount=12.50&account_id=3&days=30&recurring=on&rate=4.25&date=2024-02-29")
	require.NoError(t, p.Err())
	assert.False(t, p.IsJSON())

	assert.Equal(t, "Rent", p.Get("name"))
	assert.Equal(t, int64(1250), p.Money("amount").Cents)
	assert.Equal(t, int64(3), p.ID("account_id"))
	assert.Equal(t, 30, p.Int("days"))
	assert.True(t, p.Bool("recurring"))
	assert.Equal(t, "4.25", p.Rate("rate").String())
	assert.Equal(t, "2024-02-29", p.Date("date").String())
	assert.True(t, p.Has("name"))
	assert.False(t, p.Has("missing"))
	assert.Zero(t, p.OptionalMoney("missing").Cents)
	assert.True(t, p.Date("missing").IsZero())
	require.NoError(t, p.Err())
}

func TestRequestBodyParser_JSON(t *testing.T) {
	p := newParser(`{"name":"Card","limit":2500,"billing_cycle_days":28,"active":true}`)
	require.NoError(t, p.Err())
	assert.True(t, p.IsJSON())

	assert.Equal(t, "Card", p.Get("name"))
	assert.Equal(t, int64(250000), p.Money("limit").Cents)
	assert.Equal(t, 28, p.Int("billing_cycle_days"))
	assert.True(t, p.Bool("active"))
}

func TestRequestBodyParser_KeepsFirstError(t *testing.T) {
	p := newParser("amount=abc&date=yesterday&account_id=x")
	p.Money("amount")
	p.Date("date")
	p.ID("account_id")

	err := p.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrValidation))
	assert.Contains(t, err.Error(), "amount")
}

func TestRequestBodyParser_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"broken json", `{"name":`},
		{"broken form", "a=%zz"},
		{"too large", "description=" + strings.Repeat("x", maxBodyBytes)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newParser(tt.body).Err()
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrValidation))
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "coffee", sanitizeInput("  coffee\x00 "))
	assert.Equal(t, "line one\nline two", sanitizeInput("line one\nline two"))
	assert.Equal(t, "ab", sanitizeInput("a\x07b"))
}

func TestPathID(t *testing.T) {
	for value, ok := range map[string]bool{"7": true, "0": false, "-1": false, "x": false} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.SetPathValue("id", value)
		id, err := pathID(req, "id")
		if ok {
			assert.NoError(t, err, value)
			assert.Equal(t, int64(7), id)
		} else {
			assert.Error(t, err, value)
		}
	}
}

func TestParseTransactionFilter(t *testing.T) {
	f, err := parseTransactionFilter(url.Values{
		"from":       {"2024-01-01"},
		"to":         {"2024-01-31"},
		"type":       {"expense"},
		"account_id": {"4"},
		"limit":      {"25"},
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", f.From.String())
	assert.Equal(t, "2024-01-31", f.To.String())
	assert.Equal(t, core.Expense, f.Type)
	assert.Equal(t, int64(4), f.AccountID)
	assert.Equal(t, 25, f.Limit)

	f, err = parseTransactionFilter(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, core.TransactionFilter{}, f)

	for _, bad := range []url.Values{
		{"from": {"2024-02-01"}, "to": {"2024-01-01"}},
		{"from": {"Jan 1"}},
		{"type": {"Gift"}},
		{"budget_category_id": {"-2"}},
		{"limit": {"0"}},
		{"limit": {"5000"}},
	} {
		_, err := parseTransactionFilter(bad)
		assert.ErrorIs(t, err, core.ErrValidation, "%v", bad)
	}
}
