package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrPermission   ErrorCode = "PERMISSION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Install root errors
	ErrRootInvalid ErrorCode = "ROOT_INVALID"
	ErrRootAccess  ErrorCode = "ROOT_ACCESS"

	// FileSystem errors
	ErrFileNotFound  ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileCreate    ErrorCode = "FILE_CREATE"
	ErrFileWrite     ErrorCode = "FILE_WRITE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"

	// Session errors
	ErrSessionDir   ErrorCode = "SESSION_DIR"
	ErrSessionWrite ErrorCode = "SESSION_WRITE"
)

// AidotsError represents a structured error with code and details
type AidotsError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *AidotsError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *AidotsError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *AidotsError) Is(target error) bool {
	var targetErr *AidotsError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new AidotsError with the given code and message
func New(code ErrorCode, message string) *AidotsError {
	return &AidotsError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new AidotsError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AidotsError {
	return &AidotsError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an AidotsError
func Wrap(err error, code ErrorCode, message string) *AidotsError {
	if err == nil {
		return nil
	}
	return &AidotsError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AidotsError {
	if err == nil {
		return nil
	}
	return &AidotsError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *AidotsError) WithDetail(key string, value interface{}) *AidotsError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var aidotsErr *AidotsError
	if errors.As(err, &aidotsErr) {
		return aidotsErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if
// the error is not an AidotsError
func GetErrorCode(err error) ErrorCode {
	var aidotsErr *AidotsError
	if errors.As(err, &aidotsErr) {
		return aidotsErr.Code
	}
	return ErrUnknown
}
