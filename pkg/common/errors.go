package common

import "errors"

var (
	// ErrNotConnected is returned when an operation requires an open connection
	ErrNotConnected = errors.New("not connected")

	// ErrAlreadyConnected is returned when a connection already exists
	ErrAlreadyConnected = errors.New("already connected")

	// ErrNotFound is returned when the upstream has no such record
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for malformed request parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout is returned when a call exceeds its deadline
	ErrTimeout = errors.New("timeout")

	// ErrStorageFailed is returned when a database read or write fails
	ErrStorageFailed = errors.New("storage failed")
)

// AppError carries an error code alongside the message and cause.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates an AppError wrapping the given cause.
func NewAppError(code string, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
