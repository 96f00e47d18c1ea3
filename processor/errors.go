package processor

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput indicates malformed messages or an out-of-range argument.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError aggregates every structural violation found by ValidateContent.
type ValidationError struct {
	Violations []string
}

// Error returns all violations, one per line.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("content validation failed with %d errors:\n%s",
		len(e.Violations), strings.Join(e.Violations, "\n"))
}

// Unwrap returns ErrInvalidInput so callers can use errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
