// Package validation checks request payloads against their `validate`
// struct tags before anything touches storage and reports every violation
// as a field-level error.
package validation

import (
	"fmt"
	"strings"
)

// FieldError is a single violation. Field uses a dotted/indexed path such
// as "positions[0].positionName".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the full list of violations found in one payload.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Err returns nil when no violation was collected so callers can write
// `if err := v.Err(); err != nil`.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e *Errors) add(field, msg string) {
	*e = append(*e, FieldError{Field: field, Message: msg})
}
