package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// FieldError is one structured validation failure, surfaced to API clients
// as a 400 with the offending field named, never a silent default.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// WriteValidationError renders err as a 400 when it is a ValidationError and
// reports whether it did so.
func WriteValidationError(w http.ResponseWriter, err error) bool {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":  "validation failed",
		"fields": ve.Fields,
	})
	return true
}
