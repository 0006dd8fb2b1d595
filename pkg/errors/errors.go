package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Domain errors
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeDuplicate  ErrorType = "DUPLICATE"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeConflict   ErrorType = "CONFLICT"

	// Repository errors
	ErrorTypeAlreadyExists        ErrorType = "ALREADY_EXISTS"
	ErrorTypeItemNotFound         ErrorType = "ITEM_NOT_FOUND"
	ErrorTypeTooManyResults       ErrorType = "TOO_MANY_RESULTS"
	ErrorTypeUnhandledTransaction ErrorType = "UNHANDLED_TRANSACTION"
	ErrorTypeBulkWrite            ErrorType = "BULK_WRITE"

	// Infrastructure errors
	ErrorTypeInternal ErrorType = "INTERNAL"
	ErrorTypeDatabase ErrorType = "DATABASE"
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

func captureStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var sb strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&sb, "%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return sb.String()
}

func newAppError(errType ErrorType, message string, status int) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		HTTPStatus: status,
		StackTrace: captureStackTrace(),
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return newAppError(ErrorTypeValidation, message, http.StatusBadRequest)
}

// NewDuplicateError is raised when a key or tag is added twice to the same aggregate.
func NewDuplicateError(message string) *AppError {
	return newAppError(ErrorTypeDuplicate, message, http.StatusConflict)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) *AppError {
	return newAppError(ErrorTypeNotFound, message, http.StatusNotFound)
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *AppError {
	return newAppError(ErrorTypeConflict, message, http.StatusConflict)
}

// NewAlreadyExistsError is raised when a "must not exist" write condition fails.
func NewAlreadyExistsError(pk, sk string) *AppError {
	return newAppError(
		ErrorTypeAlreadyExists,
		fmt.Sprintf("item already exists: pk=%q sk=%q", pk, sk),
		http.StatusConflict,
	).WithDetails(map[string]interface{}{"pk": pk, "sk": sk})
}

// NewItemNotFoundError names the keys that were queried.
func NewItemNotFoundError(pk, sk string) *AppError {
	return newAppError(
		ErrorTypeItemNotFound,
		fmt.Sprintf("could not find item: pk=%q sk=%q", pk, sk),
		http.StatusNotFound,
	).WithDetails(map[string]interface{}{"pk": pk, "sk": sk})
}

// NewTooManyResultsError creates a too many results error
func NewTooManyResultsError(pk, sk string) *AppError {
	return newAppError(
		ErrorTypeTooManyResults,
		fmt.Sprintf("query did not complete in a single page: pk=%q sk=%q", pk, sk),
		http.StatusInternalServerError,
	).WithDetails(map[string]interface{}{"pk": pk, "sk": sk})
}

// NewUnhandledTransactionError keeps the raw statements and store message verbatim.
func NewUnhandledTransactionError(statements []string, message string, cause error) *AppError {
	return newAppError(
		ErrorTypeUnhandledTransaction,
		message,
		http.StatusInternalServerError,
	).WithDetails(map[string]interface{}{"statements": statements}).WithCause(cause)
}

// NewBulkWriteError aggregates every failure of a bulk load.
func NewBulkWriteError(failures []error) *AppError {
	return newAppError(
		ErrorTypeBulkWrite,
		fmt.Sprintf("bulk write failed with %d error(s)", len(failures)),
		http.StatusInternalServerError,
	).WithCause(errors.Join(failures...))
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return newAppError(ErrorTypeInternal, message, http.StatusInternalServerError)
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, err error) *AppError {
	return newAppError(
		ErrorTypeDatabase,
		fmt.Sprintf("database operation '%s' failed", operation),
		http.StatusInternalServerError,
	).WithCause(err)
}

// NewExternalError creates an external service error
func NewExternalError(service string, err error) *AppError {
	return newAppError(
		ErrorTypeExternal,
		fmt.Sprintf("external service '%s' error", service),
		http.StatusBadGateway,
	).WithCause(err)
}

// Helper functions

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool { return IsType(err, ErrorTypeValidation) }

// IsDuplicate checks if an error is a duplicate error
func IsDuplicate(err error) bool { return IsType(err, ErrorTypeDuplicate) }

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool { return IsType(err, ErrorTypeNotFound) }

// IsConflict checks if an error is a conflict error
func IsConflict(err error) bool { return IsType(err, ErrorTypeConflict) }

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool { return IsType(err, ErrorTypeAlreadyExists) }

// IsItemNotFound checks if an error is an item not found error
func IsItemNotFound(err error) bool { return IsType(err, ErrorTypeItemNotFound) }

// IsTooManyResults checks if an error is a too many results error
func IsTooManyResults(err error) bool { return IsType(err, ErrorTypeTooManyResults) }

// IsUnhandledTransaction checks if an error is an unhandled transaction error
func IsUnhandledTransaction(err error) bool { return IsType(err, ErrorTypeUnhandledTransaction) }

// IsBulkWrite checks if an error is an aggregated bulk write error
func IsBulkWrite(err error) bool { return IsType(err, ErrorTypeBulkWrite) }

// GetHTTPStatus returns the HTTP status code for an error
func GetHTTPStatus(err error) int {
	if appErr := GetAppError(err); appErr != nil && appErr.HTTPStatus != 0 {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr := GetAppError(err); appErr != nil {
		return &AppError{
			Type:       appErr.Type,
			Message:    fmt.Sprintf("%s: %s", message, appErr.Message),
			Code:       appErr.Code,
			Details:    appErr.Details,
			Cause:      err,
			HTTPStatus: appErr.HTTPStatus,
		}
	}
	return NewInternalError(message).WithCause(err)
}
