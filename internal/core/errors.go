package core

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every layer. Callers classify with errors.Is.
var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("not found")
	ErrReference        = errors.New("reference error")
	ErrPersistence      = errors.New("persistence error")
	ErrInvalidFrequency = errors.New("invalid frequency")
)

// ValidationError reports a single field constraint violation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid builds a ValidationError for field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing (or foreign-owned) entity.
func NotFound(entity string, id int64) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}

// ReferenceMissing reports a linked entity that vanished mid-operation.
func ReferenceMissing(entity string, id int64) error {
	return fmt.Errorf("%s %d no longer exists: %w", entity, id, ErrReference)
}

// MessageCategory maps an operation outcome to the category shown to users.
func MessageCategory(err error) string {
	if err == nil {
		return "success"
	}
	return "error"
}

// UserMessage returns a human-readable message for err. Persistence and
// unknown failures collapse into a generic message.
func UserMessage(err error) string {
	var ve *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Error()
	case errors.Is(err, ErrInvalidFrequency):
		return "Unknown recurrence period."
	case errors.Is(err, ErrNotFound):
		return "The requested item does not exist."
	case errors.Is(err, ErrReference):
		return "A linked account or budget no longer exists. Nothing was changed."
	default:
		return "An unexpected error occurred. Nothing was changed."
	}
}
