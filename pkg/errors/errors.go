// Package errors provides the application error framework.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is an application error code.
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeNotFound     Code = "NOT_FOUND"
	CodeTimeout      Code = "TIMEOUT"

	// Planning and governance
	CodeIllegalTransition Code = "ILLEGAL_TRANSITION"
	CodePlanConflict      Code = "PLAN_CONFLICT"
	CodeInvalidTimeRange  Code = "INVALID_TIME_RANGE"

	// Data
	CodeDatabaseError  Code = "DATABASE_ERROR"
	CodeValidationFail Code = "VALIDATION_FAILED"
)

// AppError is the application error type.
type AppError struct {
	Code       Code                   `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`
	Cause      error                  `json:"-"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails attaches detail text.
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithCause attaches the underlying cause.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithField attaches a structured field.
func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// New creates a new application error.
func New(code Code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// codeToHTTPStatus maps error codes to HTTP status codes.
func codeToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput, CodeValidationFail, CodeInvalidTimeRange:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeIllegalTransition, CodePlanConflict:
		return http.StatusConflict
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code.
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetHTTPStatus extracts the HTTP status.
func GetHTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// Predefined errors
var (
	ErrNotFound     = New(CodeNotFound, "resource not found")
	ErrInvalidInput = New(CodeInvalidInput, "invalid input")
	ErrInternal     = New(CodeInternal, "internal error")
)

// InvalidInput creates a field-level invalid input error.
func InvalidInput(field, reason string) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf("field '%s' is invalid: %s", field, reason))
}

// NotFound creates a missing-resource error.
func NotFound(resource, id string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s '%s' does not exist", resource, id))
}

// IllegalTransition creates an illegal plan state transition error.
func IllegalTransition(from, to string) *AppError {
	return New(CodeIllegalTransition, fmt.Sprintf("plan status cannot change from '%s' to '%s'", from, to))
}

// PlanConflict creates a plan commit conflict error.
func PlanConflict(assignmentID, details string) *AppError {
	return New(CodePlanConflict, fmt.Sprintf("assignment %s conflicts with committed work: %s", assignmentID, details))
}
