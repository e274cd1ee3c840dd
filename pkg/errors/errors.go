package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard error types
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidReference   = errors.New("invalid reference")
	ErrNotFound           = errors.New("resource not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrInternal           = errors.New("internal server error")
	ErrValidation         = errors.New("validation error")
)

// AppError represents an application error with context
type AppError struct {
	Err        error             `json:"-"`
	Message    string            `json:"message"`
	Code       string            `json:"code"`
	StatusCode int               `json:"status_code"`
	Details    map[string]string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code string, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, code string, message string, statusCode int) *AppError {
	return &AppError{
		Err:        err,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// Common error constructors

// InvalidInput marks a malformed or out-of-range argument.
func InvalidInput(message string) *AppError {
	return &AppError{
		Err:        ErrInvalidInput,
		Code:       "INVALID_INPUT",
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// InvalidReference marks a foreign key that does not resolve.
func InvalidReference(message string) *AppError {
	return &AppError{
		Err:        ErrInvalidReference,
		Code:       "INVALID_REFERENCE",
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

// InsufficientStock marks a sale quantity exceeding the lot's remaining stock.
func InsufficientStock(message string) *AppError {
	return &AppError{
		Err:        ErrInsufficientStock,
		Code:       "INSUFFICIENT_STOCK",
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// StorageUnavailable wraps an unexpected storage failure. Callers should treat
// it as fatal for the current request and not retry silently.
func StorageUnavailable(err error) *AppError {
	wrapped := error(ErrStorageUnavailable)
	if err != nil {
		wrapped = fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return &AppError{
		Err:        wrapped,
		Code:       "STORAGE_UNAVAILABLE",
		Message:    "storage unavailable",
		StatusCode: http.StatusServiceUnavailable,
	}
}

func Internal(message string) *AppError {
	return &AppError{
		Err:        ErrInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

func Validation(details map[string]string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Code:       "VALIDATION_ERROR",
		Message:    "validation failed",
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

// Is checks if the error matches a target error
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As attempts to convert an error to a specific type
func As(err error, target any) bool {
	return errors.As(err, target)
}
