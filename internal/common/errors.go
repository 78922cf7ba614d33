package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	// ErrConfiguration is fatal: a malformed criterion definition aborts the
	// whole run instead of being skipped.
	ErrConfiguration = errors.New("configuration error")
	// ErrExtraction marks a per-page fallback extraction failure; recoverable
	// at document level.
	ErrExtraction = errors.New("extraction failure")
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// ConfigErrorf builds a fatal configuration error for a malformed criterion.
func ConfigErrorf(format string, args ...interface{}) error {
	return NewAppError("CONFIG_ERROR", fmt.Sprintf(format, args...), ErrConfiguration)
}
