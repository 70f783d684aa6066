// This file builds HTMX responses: an HTML fragment body plus HX-Trigger
// events the page listens to for refreshing panels and flashing messages.

package http

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"moneytrack/internal/core"
)

// Events the page listens for.
const (
	EventLedgerChanged       = "ledger:changed"
	EventAccountsChanged     = "accounts:changed"
	EventBudgetsChanged      = "budgets:changed"
	EventSubscriptionsChange = "subscriptions:changed"
	EventLiabilitiesChanged  = "liabilities:changed"
	EventNotificationsChange = "notifications:changed"
	EventFormReset           = "form:reset"
	EventShowMessage         = "show-message"
)

// HTMXResponseBuilder assembles status, headers, triggers and body.
type HTMXResponseBuilder struct {
	triggers   map[string]any
	statusCode int
	body       []byte
	headers    map[string]string
}

func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		triggers:   make(map[string]any),
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger adds an HX-Trigger event; data may be nil.
func (b *HTMXResponseBuilder) Trigger(name string, data any) *HTMXResponseBuilder {
	if data == nil {
		data = struct{}{}
	}
	b.triggers[name] = data
	return b
}

// TriggerLedgerChanged tells balance-bearing panels to reload.
func (b *HTMXResponseBuilder) TriggerLedgerChanged(entity string, id int64) *HTMXResponseBuilder {
	return b.Trigger(EventLedgerChanged, map[string]any{"entity": entity, "id": id})
}

func (b *HTMXResponseBuilder) TriggerFormReset() *HTMXResponseBuilder {
	return b.Trigger(EventFormReset, nil)
}

// Message adds the show-message event carrying a success or error category.
func (b *HTMXResponseBuilder) Message(category, text string) *HTMXResponseBuilder {
	return b.Trigger(EventShowMessage, map[string]string{"category": category, "message": text})
}

func (b *HTMXResponseBuilder) Header(name, value string) *HTMXResponseBuilder {
	b.headers[name] = value
	return b
}

// BodyHTML sets an already-escaped HTML body.
func (b *HTMXResponseBuilder) BodyHTML(html string) *HTMXResponseBuilder {
	b.headers["Content-Type"] = "text/html; charset=utf-8"
	b.body = []byte(html)
	return b
}

func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if len(b.triggers) > 0 {
		if triggerJSON, err := json.Marshal(b.triggers); err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}
	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// messageFragment renders the flash fragment for category.
func messageFragment(category, text string) string {
	return `<div class="message ` + category + `" role="status">` + template.HTMLEscapeString(text) + `</div>`
}

// SuccessResponse reports a completed operation.
func SuccessResponse(text string) *HTMXResponseBuilder {
	category := core.MessageCategory(nil)
	return NewHTMXResponse().
		Message(category, text).
		BodyHTML(messageFragment(category, text))
}

// ErrorResponse reports a failed operation with an HTML-escaped message.
func ErrorResponse(statusCode int, text string) *HTMXResponseBuilder {
	category := core.MessageCategory(errors.New(text))
	return NewHTMXResponse().
		Status(statusCode).
		Message(category, text).
		BodyHTML(messageFragment(category, text))
}

// StatusFor maps the core error taxonomy to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, core.ErrValidation), errors.Is(err, core.ErrInvalidFrequency):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrReference):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FailureResponse turns a service error into a response. Internal failures
// are logged and shown with a generic message.
func FailureResponse(r *http.Request, err error) *HTMXResponseBuilder {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed", "error", err, "method", r.Method, "path", r.URL.Path)
	}
	return ErrorResponse(status, core.UserMessage(err))
}

func MethodNotAllowedError(allowedMethods string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(http.StatusMethodNotAllowed).
		Header("Allow", allowedMethods)
}
