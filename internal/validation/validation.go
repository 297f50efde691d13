// Package validation holds field checks shared by the input paths of the board.
package validation

import (
	"fmt"
	"strings"
)

// FieldError describes the first field that failed a check
type FieldError struct {
	Field  string
	Reason string
}

// Error implements the error interface
func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q %s", e.Field, e.Reason)
}

// RequiredString returns the trimmed string value of field in obj.
// It fails when the field is missing, not a string, or blank after trimming.
func RequiredString(obj map[string]interface{}, field string) (string, error) {
	raw, exists := obj[field]
	if !exists || raw == nil {
		return "", &FieldError{Field: field, Reason: "is missing"}
	}
	s, ok := raw.(string)
	if !ok {
		return "", &FieldError{Field: field, Reason: fmt.Sprintf("must be a string, got %T", raw)}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &FieldError{Field: field, Reason: "is empty"}
	}
	return s, nil
}

// RequireFields checks every field in order and returns their trimmed values.
// The error names the first failing field.
func RequireFields(obj map[string]interface{}, fields ...string) (map[string]string, error) {
	values := make(map[string]string, len(fields))
	for _, field := range fields {
		v, err := RequiredString(obj, field)
		if err != nil {
			return nil, err
		}
		values[field] = v
	}
	return values, nil
}

// IsBlank reports whether s is empty after trimming
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
