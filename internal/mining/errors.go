package mining

import (
	"errors"
	"fmt"
)

// Error is a fatal mining error. No partial result accompanies it.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// RunID identifies the affected run, if one was assigned.
	RunID string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes mining errors.
type ErrorCode string

const (
	// ErrCodeEncodingCollision indicates two symbol texts share a hash code.
	ErrCodeEncodingCollision ErrorCode = "ENCODING_COLLISION"

	// ErrCodeConfiguration indicates invalid thresholds or a degenerate table.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION"

	// ErrCodeInvariantViolation indicates a stored itemset repeats an attribute.
	ErrCodeInvariantViolation ErrorCode = "INVARIANT_VIOLATION"
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.RunID != "" {
		msg += fmt.Sprintf(" (run=%s)", e.RunID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsCollisionError returns true if err is an encoding collision.
func IsCollisionError(err error) bool {
	return hasCode(err, ErrCodeEncodingCollision)
}

// IsConfigurationError returns true if err is a configuration error.
func IsConfigurationError(err error) bool {
	return hasCode(err, ErrCodeConfiguration)
}

// IsInvariantViolation returns true if err is an invariant violation.
func IsInvariantViolation(err error) bool {
	return hasCode(err, ErrCodeInvariantViolation)
}

// CodeOf returns the ErrorCode carried by err, or "" if err is not a mining error.
func CodeOf(err error) ErrorCode {
	var me *Error
	if errors.As(err, &me) {
		return me.Code
	}
	return ""
}

func hasCode(err error, code ErrorCode) bool {
	var me *Error
	if errors.As(err, &me) {
		return me.Code == code
	}
	return false
}

func newConfigError(runID, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeConfiguration,
		Message: fmt.Sprintf(format, args...),
		RunID:   runID,
	}
}
