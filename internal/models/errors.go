package models

import "fmt"

// ErrorType identifies the category of error that occurred.
type ErrorType string

const (
	// Environment setup: cloning a component failed. Fatal for the run.
	ErrSetupFailed ErrorType = "setup_failed"

	// Single-axis mode asked for a version the checks file does not list.
	ErrLookupFailed ErrorType = "lookup_failed"

	// Per-tuple failures
	ErrCheckoutFailed ErrorType = "checkout_failed"
	ErrBuildFailed    ErrorType = "build_failed"
	ErrTestFailed     ErrorType = "test_failed"

	// Catch-all
	ErrInternalError ErrorType = "internal_error"
)

// MatrixError attaches an ErrorType to an underlying error.
type MatrixError struct {
	Type ErrorType
	Op   string
	Err  error
}

func (e *MatrixError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Type, e.Op, e.Err)
}

func (e *MatrixError) Unwrap() error {
	return e.Err
}

// NewError wraps err with a category and the operation that produced it.
func NewError(typ ErrorType, op string, err error) *MatrixError {
	return &MatrixError{Type: typ, Op: op, Err: err}
}

// CheckError is the serializable form of a per-tuple failure.
type CheckError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
}
