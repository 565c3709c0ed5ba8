package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	ErrCodeInvalid  ErrorCode = "INVALID"
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors of the same code and message so wrapped sentinels compare equal.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrTodoNotFound  = NewError(ErrCodeNotFound, "todo not found")
	ErrEmptyContent  = NewError(ErrCodeInvalid, "content cannot be empty")
	ErrInvalidPage   = NewError(ErrCodeInvalid, "page must be a positive integer")
	ErrInvalidLimit  = NewError(ErrCodeInvalid, "limit must be a positive integer")
	ErrInvalidRecord = NewError(ErrCodeInternal, "failed to parse todo from storage")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// IsNotFound reports whether err belongs to the NotFound kind.
func IsNotFound(err error) bool {
	return IsDomainError(err, ErrCodeNotFound)
}

// StatusOf maps an error to the HTTP status its kind is surfaced with.
func StatusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsDomainError(err, ErrCodeNotFound):
		return http.StatusNotFound
	case IsDomainError(err, ErrCodeInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
