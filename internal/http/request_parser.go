// Package http is the HTMX presentation layer over the ledger services.
//
// This file turns form or JSON request bodies into typed inputs. Malformed
// values become core validation errors so handlers report them like any
// other rejected input.
package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"moneytrack/internal/core"
)

// maxBodyBytes caps request bodies; ledger forms are small.
const maxBodyBytes = 64 << 10

// RequestBodyParser reads a form-encoded or JSON body once and serves typed
// fields from it. The first conversion error is kept and reported by Err.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]any
	formData url.Values
	err      error
}

// NewRequestBodyParser reads and parses r's body.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	if r.Body == nil {
		p.formData = url.Values{}
		return p
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		p.err = err
		return p
	}
	if len(body) > maxBodyBytes {
		p.err = core.Invalid("", "request body too large")
		return p
	}
	p.body = body
	p.parse()
	return p
}

func (p *RequestBodyParser) parse() {
	trimmed := strings.TrimSpace(string(p.body))
	if trimmed == "" {
		p.formData = url.Values{}
		return
	}
	if trimmed[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal([]byte(trimmed), &p.jsonData); err != nil {
			p.err = core.Invalid("", "request body is not valid JSON")
		}
		return
	}
	values, err := url.ParseQuery(trimmed)
	if err != nil {
		p.err = core.Invalid("", "request body is not a valid form")
		return
	}
	p.formData = values
}

// Err returns the first read, parse or conversion error.
func (p *RequestBodyParser) Err() error {
	return p.err
}

// IsJSON reports whether the body was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// Has reports whether key was supplied at all.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		_, ok := p.jsonData[key]
		return ok
	}
	if p.formData != nil {
		_, ok := p.formData[key]
		return ok
	}
	return false
}

// Get returns the sanitized string value of key, or "".
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// ID returns a positive id, or 0 when key is empty.
func (p *RequestBodyParser) ID(key string) int64 {
	s := p.Get(key)
	if s == "" {
		return 0
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		p.fail(core.Invalid(key, "must be a valid id"))
		return 0
	}
	return id
}

func (p *RequestBodyParser) Int(key string) int {
	s := p.Get(key)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		p.fail(core.Invalid(key, "must be a whole number"))
		return 0
	}
	return n
}

// Money parses a required decimal amount.
func (p *RequestBodyParser) Money(key string) core.Money {
	m, err := core.ParseAmount(key, p.Get(key))
	if err != nil {
		p.fail(err)
	}
	return m
}

// OptionalMoney is Money that treats an empty value as zero.
func (p *RequestBodyParser) OptionalMoney(key string) core.Money {
	if p.Get(key) == "" {
		return core.Money{}
	}
	return p.Money(key)
}

func (p *RequestBodyParser) Rate(key string) decimal.Decimal {
	d, err := core.ParseRate(key, p.Get(key))
	if err != nil {
		p.fail(err)
	}
	return d
}

// Date parses YYYY-MM-DD; an empty value is the zero Date.
func (p *RequestBodyParser) Date(key string) core.Date {
	d, err := core.ParseDate(key, p.Get(key))
	if err != nil {
		p.fail(err)
	}
	return d
}

// Bool accepts checkbox and JSON spellings of true.
func (p *RequestBodyParser) Bool(key string) bool {
	switch strings.ToLower(p.Get(key)) {
	case "1", "true", "on", "yes", "y":
		return true
	}
	return false
}

func (p *RequestBodyParser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	default:
		return ""
	}
}

// pathID reads a positive id path value.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, core.Invalid(name, "must be a valid id")
	}
	return id, nil
}

// parseTransactionFilter reads list filters from the query string.
func parseTransactionFilter(q url.Values) (core.TransactionFilter, error) {
	var f core.TransactionFilter
	var err error
	if f.From, err = core.ParseDate("from", q.Get("from")); err != nil {
		return f, err
	}
	if f.To, err = core.ParseDate("to", q.Get("to")); err != nil {
		return f, err
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From.Time) {
		return f, core.Invalid("to", "must be on or after from")
	}
	if v := strings.TrimSpace(q.Get("type")); v != "" {
		if f.Type, err = core.ParseTransactionType(v); err != nil {
			return f, err
		}
	}
	for _, field := range []struct {
		key string
		dst *int64
	}{
		{"account_id", &f.AccountID},
		{"budget_category_id", &f.BudgetCategoryID},
	} {
		if v := strings.TrimSpace(q.Get(field.key)); v != "" {
			id, perr := strconv.ParseInt(v, 10, 64)
			if perr != nil || id <= 0 {
				return f, core.Invalid(field.key, "must be a valid id")
			}
			*field.dst = id
		}
	}
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		n, perr := strconv.Atoi(v)
		if perr != nil || n < 1 || n > 1000 {
			return f, core.Invalid("limit", "must be between 1 and 1000")
		}
		f.Limit = n
	}
	return f, nil
}

// sanitizeInput trims whitespace and drops control characters other than
// tab, newline and carriage return.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
