// Package errors defines the application error taxonomy shared by services,
// repositories and the HTTP error translator.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType identifies the class of an AppError on the wire.
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation_error"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeInternal     ErrorType = "internal_error"
	ErrorTypeBadRequest   ErrorType = "bad_request"
	ErrorTypeRateLimited  ErrorType = "rate_limited"
)

// AppError is an error that is safe to show to API clients.
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Is matches any AppError of the same type, so errors.Is(err, &AppError{Type: ErrorTypeNotFound}) works.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type && (t.Message == "" || t.Message == e.Message)
}

func newAppError(typ ErrorType, code int, message string, details []string) *AppError {
	err := &AppError{Type: typ, Message: message, Code: code}
	if len(details) > 0 {
		err.Details = strings.Join(details, "; ")
	}
	return err
}

func NewValidationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, details)
}

func NewNotFoundError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, message, details)
}

func NewConflictError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeConflict, http.StatusConflict, message, details)
}

func NewUnauthorizedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeUnauthorized, http.StatusUnauthorized, message, details)
}

func NewForbiddenError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeForbidden, http.StatusForbidden, message, details)
}

// NewInternalError creates an error whose message is still shown to the client;
// use it only for messages that carry no internal detail.
func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, details)
}

func NewBadRequestError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeBadRequest, http.StatusBadRequest, message, details)
}

func NewRateLimitError(message string) *AppError {
	return newAppError(ErrorTypeRateLimited, http.StatusTooManyRequests, message, nil)
}

// GetAppError extracts the AppError from err's chain, or nil.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func IsAppError(err error) bool {
	return GetAppError(err) != nil
}

func hasType(err error, typ ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == typ
}

func IsNotFoundError(err error) bool {
	return hasType(err, ErrorTypeNotFound)
}

func IsValidationError(err error) bool {
	return hasType(err, ErrorTypeValidation)
}

func IsConflictError(err error) bool {
	return hasType(err, ErrorTypeConflict)
}

func IsUnauthorizedError(err error) bool {
	return hasType(err, ErrorTypeUnauthorized)
}

// IsDuplicateError reports whether err is a unique-key violation from MySQL or SQLite.
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "Error 1062") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicated key")
}
