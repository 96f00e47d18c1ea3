package compaction

import (
	"errors"
	"fmt"
)

// Sentinel errors for context management operations.
var (
	// ErrInvalidConfig indicates invalid context management configuration.
	ErrInvalidConfig = errors.New("invalid context management configuration")
)

// CompactionError provides structured error context for context management operations.
type CompactionError struct {
	// Op is the operation that failed (e.g., "ManageContext", "Execute")
	Op string

	// Err is the underlying error
	Err error

	// Context holds additional key-value pairs for debugging
	Context map[string]any
}

// Error returns a formatted error message.
func (e *CompactionError) Error() string {
	msg := fmt.Sprintf("compaction %s failed", e.Op)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *CompactionError) Unwrap() error {
	return e.Err
}

// NewCompactionError creates a new CompactionError with the given operation and underlying error.
func NewCompactionError(op string, err error) *CompactionError {
	return &CompactionError{
		Op:      op,
		Err:     err,
		Context: make(map[string]any),
	}
}

// WithContext adds a key-value pair to the error context and returns the error for chaining.
func (e *CompactionError) WithContext(key string, value any) *CompactionError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WrapError wraps an error with operation context. If err is nil, returns nil.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return NewCompactionError(op, err)
}
