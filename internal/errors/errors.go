package errors

import (
	"fmt"
)

// SeekError is the structured error type for docuseek.
// It carries the context the interactive layer needs to display a
// short, human-readable failure without error-specific recovery logic.
type SeekError struct {
	// Code is the unique error code (e.g., "ERR_201_ROOT_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Storage, Scan, Validation, Busy, Internal).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error
}

// Error implements the error interface.
func (e *SeekError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *SeekError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with SeekError.
func (e *SeekError) Is(target error) bool {
	if t, ok := target.(*SeekError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *SeekError) WithDetail(key, value string) *SeekError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new SeekError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *SeekError {
	return &SeekError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a SeekError from an existing error.
// The error's message becomes the SeekError message.
func Wrap(code string, err error) *SeekError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// StorageError creates an index-database error.
func StorageError(message string, cause error) *SeekError {
	return New(ErrCodeStoreQuery, message, cause)
}

// ScanError creates a filesystem traversal error.
func ScanError(message string, cause error) *SeekError {
	return New(ErrCodeRootUnreadable, message, cause)
}

// ValidationError creates an input validation error.
func ValidationError(message string, cause error) *SeekError {
	return New(ErrCodeInvalidInput, message, cause)
}

// BusyError creates a duplicate-invocation rejection error.
func BusyError(message string) *SeekError {
	return New(ErrCodeTaskBusy, message, nil)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *SeekError {
	return New(ErrCodeInternal, message, cause)
}

// IsFatal checks if an error has fatal severity.
// Fatal errors should abort the current invocation.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if se, ok := err.(*SeekError); ok {
		return se.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a SeekError.
// Returns empty string if not a SeekError.
func GetCode(err error) string {
	if se, ok := err.(*SeekError); ok {
		return se.Code
	}
	return ""
}

// GetCategory extracts the category from a SeekError.
// Returns empty string if not a SeekError.
func GetCategory(err error) Category {
	if se, ok := err.(*SeekError); ok {
		return se.Category
	}
	return ""
}
