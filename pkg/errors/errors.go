// Package errors defines common error types for the application.
package errors

import (
	"errors"
	"fmt"
)

// Error codes for the application.
const (
	CodeUnknown        = "UNKNOWN_ERROR"
	CodeFormatError    = "FORMAT_ERROR"
	CodeReferenceError = "REFERENCE_ERROR"
	CodeCycleError     = "CYCLE_ERROR"
	CodeDatabaseError  = "DATABASE_ERROR"
	CodeStorageError   = "STORAGE_ERROR"
	CodeInvalidInput   = "INVALID_INPUT"
	CodeNotFound       = "NOT_FOUND"
	CodeConfigError    = "CONFIG_ERROR"
)

// AppError represents an application error with a code and message.
type AppError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError carrying the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError.
func Wrap(code string, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Sentinels usable with errors.Is; matching is by code only.
var (
	ErrFormat       = New(CodeFormatError, "malformed document")
	ErrReference    = New(CodeReferenceError, "invalid reference")
	ErrCycle        = New(CodeCycleError, "dependency cycle")
	ErrDatabase     = New(CodeDatabaseError, "database error")
	ErrStorage      = New(CodeStorageError, "storage error")
	ErrInvalidInput = New(CodeInvalidInput, "invalid input")
	ErrNotFound     = New(CodeNotFound, "resource not found")
	ErrConfig       = New(CodeConfigError, "configuration error")
)

// FormatErrorf reports malformed or incomplete input. Ingestion of the
// offending document stops at the first FormatError.
func FormatErrorf(format string, args ...interface{}) *AppError {
	return New(CodeFormatError, fmt.Sprintf(format, args...))
}

// WrapFormat wraps a lower-level decoding error as a FormatError.
func WrapFormat(err error, format string, args ...interface{}) *AppError {
	return Wrap(CodeFormatError, fmt.Sprintf(format, args...), err)
}

// ReferenceErrorf reports a query that violates a caller precondition,
// such as a split point id out of range or an unknown method.
func ReferenceErrorf(format string, args ...interface{}) *AppError {
	return New(CodeReferenceError, fmt.Sprintf(format, args...))
}

// CycleErrorf reports a dependency chain that revisits a method.
func CycleErrorf(format string, args ...interface{}) *AppError {
	return New(CodeCycleError, fmt.Sprintf(format, args...))
}

// IsFormatError checks if the error is a format error.
func IsFormatError(err error) bool {
	return errors.Is(err, ErrFormat)
}

// IsReferenceError checks if the error is a reference error.
func IsReferenceError(err error) bool {
	return errors.Is(err, ErrReference)
}

// IsCycleError checks if the error is a cycle error.
func IsCycleError(err error) bool {
	return errors.Is(err, ErrCycle)
}

// IsDatabaseError checks if the error is a database error.
func IsDatabaseError(err error) bool {
	return errors.Is(err, ErrDatabase)
}

// IsStorageError checks if the error is a storage error.
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorage)
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetErrorMessage extracts the error message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
