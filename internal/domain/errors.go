package domain

import (
	"context"
	"errors"
	"net/http"
)

// Error codes carried by AppError.
const (
	CodeNotFound   = 1
	CodeValidation = 2
	CodeInternal   = 3
	CodeCanceled   = 4
)

// AppError is an error with a stable code, a client-safe message and an
// optional cause.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Sentinel errors. Match them with the Is* helpers, which compare codes and
// therefore also match fresh instances built with NewAppError.
var (
	ErrNotFound   = &AppError{Code: CodeNotFound, Message: "not found"}
	ErrValidation = &AppError{Code: CodeValidation, Message: "validation error"}
	ErrInternal   = &AppError{Code: CodeInternal, Message: "internal error"}
	ErrCanceled   = &AppError{Code: CodeCanceled, Message: "request canceled"}
)

// NewAppError creates a new AppError with the given code, message, and wrapped error.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// StoreError wraps a data store failure. Context cancellation and deadline
// errors become CodeCanceled so that abandoned client requests are not
// reported as server faults.
func StoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NewAppError(CodeCanceled, ErrCanceled.Message, err)
	}
	return NewAppError(CodeInternal, "database error", err)
}

func IsNotFound(err error) bool   { return hasCode(err, CodeNotFound) }
func IsValidation(err error) bool { return hasCode(err, CodeValidation) }
func IsInternal(err error) bool   { return hasCode(err, CodeInternal) }
func IsCanceled(err error) bool   { return hasCode(err, CodeCanceled) }

func hasCode(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// HTTPStatusCode maps an error to an HTTP status code. Errors that are not
// AppErrors map to 500.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if err != nil && errors.As(err, &appErr) {
		switch appErr.Code {
		case CodeNotFound:
			return http.StatusNotFound
		case CodeValidation:
			return http.StatusBadRequest
		case CodeCanceled:
			return http.StatusServiceUnavailable
		case CodeInternal:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}
