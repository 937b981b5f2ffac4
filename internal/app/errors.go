package app

import "fmt"

// AppErrorType represents the type of application error.
type AppErrorType int

const (
	// InvalidArgument indicates a caller-supplied argument is unusable.
	InvalidArgument AppErrorType = iota
	// HelperRegistrationFailed indicates a Go helper callback could not be registered.
	HelperRegistrationFailed
)

// AppError represents an application-layer error.
type AppError struct {
	// Type is the error type.
	Type AppErrorType
	// Message is the error message.
	Message string
	// Cause is the underlying error.
	Cause error
}

// Error returns the error message.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError.
func NewAppError(errType AppErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidArgumentError creates an invalid argument error.
func NewInvalidArgumentError(message string) *AppError {
	return NewAppError(InvalidArgument, message, nil)
}

// NewHelperRegistrationError creates a helper registration error.
func NewHelperRegistrationError(name string, cause error) *AppError {
	return NewAppError(HelperRegistrationFailed, fmt.Sprintf("failed to register helper %q", name), cause)
}
