package utils

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	CodeForbidden     ErrorCode = "FORBIDDEN"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeConflict      ErrorCode = "CONFLICT"
	CodeStateConflict ErrorCode = "STATE_CONFLICT"
	CodeRateLimit     ErrorCode = "RATE_LIMIT_EXCEEDED"
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
)

var statusByCode = map[ErrorCode]int{
	CodeValidation:    http.StatusBadRequest,
	CodeUnauthorized:  http.StatusUnauthorized,
	CodeForbidden:     http.StatusForbidden,
	CodeNotFound:      http.StatusNotFound,
	CodeConflict:      http.StatusConflict,
	CodeStateConflict: http.StatusUnprocessableEntity,
	CodeRateLimit:     http.StatusTooManyRequests,
	CodeInternal:      http.StatusInternalServerError,
}

// HTTPStatus maps a code to its response status.
func (c ErrorCode) HTTPStatus() int {
	if status, ok := statusByCode[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// AppError is an error whose message is safe to show to API clients.
type AppError struct {
	Code    ErrorCode
	Message string
	cause   error
}

func NewAppError(code ErrorCode, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func WrapAppError(code ErrorCode, err error, message string) *AppError {
	return &AppError{Code: code, Message: message, cause: err}
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// AsAppError extracts an AppError from the chain, if any.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

var (
	ErrNoPermission = NewAppError(CodeForbidden, "You do not have permission")
	ErrUnauthorized = NewAppError(CodeUnauthorized, "Authentication required")
)
