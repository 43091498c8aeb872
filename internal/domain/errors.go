// Package domain defines core types, interfaces, and errors for the
// attendance ledger.
package domain

import "fmt"

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ValidationError indicates a malformed or missing required field. Requests
// failing validation are rejected immediately and never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError indicates a conflict, such as an attempt to change a
// profile role that has already been resolved.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// UnavailableError indicates the backing store is unreachable or rejected a
// write. Callers may retry with backoff; the core never retries internally.
type UnavailableError struct {
	Message string
	Err     error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// ProviderError carries a user-facing message from the external identity
// provider (bad credentials, cancelled popup, network failure).
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string { return e.Message }

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrConflict creates a ConflictError with a formatted message.
func ErrConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// ErrUnavailable wraps a store failure in an UnavailableError.
func ErrUnavailable(err error, format string, args ...interface{}) *UnavailableError {
	return &UnavailableError{Message: fmt.Sprintf(format, args...), Err: err}
}

// ErrProvider creates a ProviderError with a formatted message.
func ErrProvider(format string, args ...interface{}) *ProviderError {
	return &ProviderError{Message: fmt.Sprintf(format, args...)}
}
