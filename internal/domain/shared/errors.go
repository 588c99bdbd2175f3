package shared

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes shared by all bounded contexts. They are part of the API contract.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeAlreadyExists  = "ALREADY_EXISTS"
	CodePartialFailure = "PARTIAL_FAILURE"
	CodeAggregation    = "AGGREGATION_FAILED"
	CodeInvalidState   = "INVALID_STATE"
	CodeUnitOccupied   = "UNIT_OCCUPIED"
	CodeConflict       = "CONCURRENCY_CONFLICT"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
	Err     error    `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError carrying the same code, so that
// errors.Is(err, ErrNotFound) holds for every not-found error.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error that keeps the original cause
func WrapDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     cause,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput        = NewDomainError(CodeValidation, "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError(CodeConflict, "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden           = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrPartialFailure      = NewDomainError(CodePartialFailure, "Operation partially failed")
	ErrAggregation         = NewDomainError(CodeAggregation, "Search failed")
)

// NewValidationError reports missing or malformed input. No state has been written.
func NewValidationError(message string, fields ...string) *DomainError {
	return &DomainError{
		Code:    CodeValidation,
		Message: message,
		Fields:  fields,
	}
}

// NewRequiredFieldsError reports the given fields as missing
func NewRequiredFieldsError(fields ...string) *DomainError {
	return NewValidationError("missing required fields: "+strings.Join(fields, ", "), fields...)
}

// NewNotFoundError reports that a referenced resource does not exist in scope
func NewNotFoundError(resource string) *DomainError {
	return NewDomainError(CodeNotFound, resource+" not found")
}

// NewDuplicateError reports a uniqueness violation detected before any write
func NewDuplicateError(message string) *DomainError {
	return NewDomainError(CodeAlreadyExists, message)
}

// NewPartialFailureError reports a multi-step write that failed after an earlier step
func NewPartialFailureError(message string, cause error) *DomainError {
	return WrapDomainError(CodePartialFailure, message, cause)
}

// NewAggregationError reports a failed sub-query of a fan-out read
func NewAggregationError(message string, cause error) *DomainError {
	return WrapDomainError(CodeAggregation, message, cause)
}

// NewInvalidStateError reports an illegal state transition
func NewInvalidStateError(message string) *DomainError {
	return NewDomainError(CodeInvalidState, message)
}

// CodeOf returns the domain error code of err, or "" if err is not a DomainError
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
