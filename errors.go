package agentctx

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidConfig is returned when the manager configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrContextOverflow is returned when a manager cannot reduce a conversation
	// after the provider reported a context overflow
	ErrContextOverflow = errors.New("context overflow cannot be reduced")
)

// Error represents a conversation management error with additional context
type Error struct {
	Op      string         // Operation that failed
	Err     error          // Underlying error
	Context map[string]any // Additional context
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// WithContext adds additional context to the error
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// NewError creates a new Error
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}
