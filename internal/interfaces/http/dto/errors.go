package dto

import (
	"net/http"

	"github.com/propdesk/backend/internal/domain/shared"
)

// Domain error codes surfaced unchanged in API responses
const (
	ErrCodeValidation     = shared.CodeValidation
	ErrCodeNotFound       = shared.CodeNotFound
	ErrCodeAlreadyExists  = shared.CodeAlreadyExists
	ErrCodePartialFailure = shared.CodePartialFailure
	ErrCodeAggregation    = shared.CodeAggregation
	ErrCodeInvalidState   = shared.CodeInvalidState
	ErrCodeUnitOccupied   = shared.CodeUnitOccupied
	ErrCodeConflict       = shared.CodeConflict
	ErrCodeUnauthorized   = shared.CodeUnauthorized
	ErrCodeForbidden      = shared.CodeForbidden
)

// Transport error codes
const (
	// ErrCodeInternal is used for errors that carry no domain code
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used when the request cannot be parsed
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeTokenExpired is used when the access token has expired
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the access token cannot be verified
	ErrCodeTokenInvalid = "TOKEN_INVALID"
	// ErrCodeRateLimited is used when the rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMITED"
	// ErrCodePayloadTooLarge is used when the body exceeds the configured limit
	ErrCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	// ErrCodeDuplicateRequest is used when an Idempotency-Key is replayed
	ErrCodeDuplicateRequest = "DUPLICATE_REQUEST"
	// ErrCodeUnavailable is used when a dependency such as the database is down
	ErrCodeUnavailable = "SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeValidation:     http.StatusBadRequest,
	ErrCodeBadRequest:     http.StatusBadRequest,
	ErrCodeNotFound:       http.StatusNotFound,
	ErrCodeAlreadyExists:  http.StatusConflict,
	ErrCodeUnitOccupied:   http.StatusConflict,
	ErrCodeConflict:       http.StatusConflict,
	ErrCodeInvalidState:   http.StatusUnprocessableEntity,
	ErrCodePartialFailure: http.StatusInternalServerError,
	ErrCodeInternal:       http.StatusInternalServerError,
	ErrCodeAggregation:    http.StatusBadGateway,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeRateLimited:      http.StatusTooManyRequests,
	ErrCodePayloadTooLarge:  http.StatusRequestEntityTooLarge,
	ErrCodeDuplicateRequest: http.StatusConflict,
	ErrCodeUnavailable:      http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// errorCodeAliases maps alternate spellings to the canonical codes
var errorCodeAliases = map[string]string{
	"":                ErrCodeInternal,
	"INVALID_INPUT":   ErrCodeValidation,
	"DUPLICATE":       ErrCodeAlreadyExists,
	"ERR_NOT_FOUND":   ErrCodeNotFound,
	"ERR_VALIDATION":  ErrCodeValidation,
	"TOO_MANY":        ErrCodeRateLimited,
	"INTERNAL":        ErrCodeInternal,
	"UNPROCESSABLE":   ErrCodeInvalidState,
	"ALREADY_CLAIMED": ErrCodeDuplicateRequest,
}

// NormalizeErrorCode returns the canonical form of code.
// Canonical and unknown codes are returned as-is.
func NormalizeErrorCode(code string) string {
	if canonical, ok := errorCodeAliases[code]; ok {
		return canonical
	}
	return code
}
