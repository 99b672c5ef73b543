package ir

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes compilation failures.
type ErrorCode string

const (
	// ErrCodeMalformedCircuit indicates invalid input: a qubit outside the
	// node map, a wrong arity, or a missing parameter.
	ErrCodeMalformedCircuit ErrorCode = "MALFORMED_CIRCUIT"

	// ErrCodeInvariantViolation indicates a block whose target list length
	// differs from its remote gate count.
	ErrCodeInvariantViolation ErrorCode = "INVARIANT_VIOLATION"

	// ErrCodeUnsupportedGateType indicates a gate outside the vocabulary or a
	// type pair missing from the commutation rule table.
	ErrCodeUnsupportedGateType ErrorCode = "UNSUPPORTED_GATE_TYPE"
)

// Error is a fatal compilation error. Blocked commutation is never an Error.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Index is the position of the offending gate or element, or -1.
	Index int

	// Details contains additional context.
	Details map[string]string
}

func (e *Error) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s: %s (index=%d)", e.Code, e.Message, e.Index)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithDetail returns e with key set in Details.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

func newError(code ErrorCode, index int, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Index:   index,
	}
}

// NewMalformedError creates a MALFORMED_CIRCUIT error.
func NewMalformedError(index int, format string, args ...any) *Error {
	return newError(ErrCodeMalformedCircuit, index, format, args...)
}

// NewInvariantError creates an INVARIANT_VIOLATION error.
func NewInvariantError(index int, format string, args ...any) *Error {
	return newError(ErrCodeInvariantViolation, index, format, args...)
}

// NewUnsupportedGateError creates an UNSUPPORTED_GATE_TYPE error.
func NewUnsupportedGateError(index int, format string, args ...any) *Error {
	return newError(ErrCodeUnsupportedGateType, index, format, args...)
}

// CodeOf extracts the error code from err. Uses errors.As so wrapped errors
// are recognized.
func CodeOf(err error) (ErrorCode, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

// IsMalformed returns true if err is a MALFORMED_CIRCUIT error.
func IsMalformed(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == ErrCodeMalformedCircuit
}

// IsInvariantViolation returns true if err is an INVARIANT_VIOLATION error.
func IsInvariantViolation(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == ErrCodeInvariantViolation
}

// IsUnsupportedGate returns true if err is an UNSUPPORTED_GATE_TYPE error.
func IsUnsupportedGate(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == ErrCodeUnsupportedGateType
}
