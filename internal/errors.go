package internal

import (
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeDependency   ErrorType = "DEPENDENCY_ERROR"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeProductNotFound ErrorCode = "PRODUCT_NOT_FOUND"
	ErrCodeUserNotFound    ErrorCode = "USER_NOT_FOUND"
	ErrCodeUserExists      ErrorCode = "USER_EXISTS"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeMissingToken       ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeMissingOperation   ErrorCode = "MISSING_OPERATION"

	ErrCodeAuditUnavailable ErrorCode = "AUDIT_UNAVAILABLE"
)

// AppError is the error shape every handler response is derived from: the
// StatusCode and Message become the HTTP answer, the Cause stays server-side
// in the logs.
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// NewDependencyError maps a failed collaborator call, currently only the audit
// sink, onto 424 so callers can tell "the change happened but was not audited"
// apart from an ordinary failure.
func NewDependencyError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeDependency,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusFailedDependency,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Fixed errors for the responses whose wording is part of the API contract.
// The auth gates and the audit 424 path answer with these verbatim.
var (
	ErrAuditUnavailable = NewDependencyError("Audit server not available", ErrCodeAuditUnavailable)

	ErrInvalidCredentials  = NewValidationError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrMissingToken        = NewUnauthorizedError("Access denied. No token provided.", ErrCodeMissingToken)
	ErrInvalidToken        = NewValidationError("Invalid token.", ErrCodeInvalidToken)
	ErrOperationNotAllowed = NewForbiddenError("Forbidden: insufficient permissions", ErrCodeMissingOperation)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}
