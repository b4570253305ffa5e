package dto

import (
	"net/http"

	"github.com/rwbiz/backend/internal/domain/shared"
)

// Error codes returned in the error envelope. Domain codes pass through
// unchanged; the rest are produced by the HTTP layer itself.

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeUnavailable is used when a dependency such as the PDF renderer is not configured
	ErrCodeUnavailable = "EXPORT_UNAVAILABLE"
)

// Validation error codes
const (
	ErrCodeValidation        = shared.CodeValidation
	ErrCodeInvalidInput      = shared.CodeInvalidInput
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeInvalidID         = "INVALID_ID"
	ErrCodeInvalidTIN        = "INVALID_TIN"
	ErrCodeInvalidNationalID = "INVALID_NATIONAL_ID"
	ErrCodeCompanyRequired   = "COMPANY_REQUIRED"
	ErrCodePayloadTooLarge   = "PAYLOAD_TOO_LARGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized     = shared.CodeUnauthorized
	ErrCodeForbidden        = shared.CodeForbidden
	ErrCodeTokenExpired     = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid     = "INVALID_TOKEN"
	ErrCodeTokenInvalidType = "INVALID_TOKEN_TYPE"
	ErrCodeTokenNotValidYet = "TOKEN_NOT_VALID"
	ErrCodeTokenRevoked     = "TOKEN_REVOKED"
)

// Resource error codes
const (
	ErrCodeNotFound            = shared.CodeNotFound
	ErrCodeAlreadyExists       = shared.CodeAlreadyExists
	ErrCodeConcurrencyConflict = shared.CodeConcurrencyConflict
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for the record's status
	ErrCodeInvalidState = shared.CodeInvalidState
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "RATE_LIMIT_EXCEEDED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeUnavailable: http.StatusServiceUnavailable,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:        http.StatusBadRequest,
	ErrCodeInvalidInput:      http.StatusBadRequest,
	ErrCodeBadRequest:        http.StatusBadRequest,
	ErrCodeInvalidJSON:       http.StatusBadRequest,
	ErrCodeInvalidID:         http.StatusBadRequest,
	ErrCodeInvalidTIN:        http.StatusBadRequest,
	ErrCodeInvalidNationalID: http.StatusBadRequest,
	ErrCodeCompanyRequired:   http.StatusBadRequest,
	ErrCodePayloadTooLarge:   http.StatusRequestEntityTooLarge,

	// Auth errors
	ErrCodeUnauthorized:     http.StatusUnauthorized,
	ErrCodeForbidden:        http.StatusForbidden,
	ErrCodeTokenExpired:     http.StatusUnauthorized,
	ErrCodeTokenInvalid:     http.StatusUnauthorized,
	ErrCodeTokenInvalidType: http.StatusUnauthorized,
	ErrCodeTokenNotValidYet: http.StatusUnauthorized,
	ErrCodeTokenRevoked:     http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState: http.StatusUnprocessableEntity,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
