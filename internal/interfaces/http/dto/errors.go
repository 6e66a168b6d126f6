package dto

import (
	"net/http"

	"github.com/livesale/backend/internal/domain/shared"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for request validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field or header is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	// ErrCodeIdempotencyInFlight is returned while a request with the same Idempotency-Key is still running
	ErrCodeIdempotencyInFlight = "ERR_IDEMPOTENCY_IN_FLIGHT"
	// ErrCodeIdempotencyKeyReused is returned when an Idempotency-Key comes back with a different request body
	ErrCodeIdempotencyKeyReused = "ERR_IDEMPOTENCY_KEY_REUSED"
)

// Business rule error codes
const (
	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeBusinessRule      = "ERR_BUSINESS_RULE"
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeBodyTooLarge = "ERR_BODY_TOO_LARGE"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
)

// Collaborator error codes
const (
	// ErrCodeUpstream is used when a shipping or payment collaborator fails
	ErrCodeUpstream = "ERR_UPSTREAM"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Storefront domain
// codes are listed where their status differs from the default for their kind.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeIdempotencyInFlight: http.StatusConflict,

	ErrCodeIdempotencyKeyReused: http.StatusUnprocessableEntity,

	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeUpstream: http.StatusBadGateway,

	ErrCodeRateLimited: http.StatusTooManyRequests,

	ErrCodeBodyTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeForbidden:    http.StatusForbidden,

	// Malformed input
	"INVALID_QUANTITY":           http.StatusBadRequest,
	"INVALID_PHONE":              http.StatusBadRequest,
	"INVALID_POSTAL_CODE":        http.StatusBadRequest,
	"INVALID_BUSINESS_DAY":       http.StatusBadRequest,
	"INVALID_CHANNEL":            http.StatusBadRequest,
	"INVALID_SHIPPING_SELECTION": http.StatusBadRequest,
	"EMPTY_CHECKOUT":             http.StatusBadRequest,

	// Business rules on a well-formed request
	"CUSTOMER_NOT_RESOLVABLE":     http.StatusUnprocessableEntity,
	"PRODUCT_INACTIVE":            http.StatusUnprocessableEntity,
	"CHANNEL_MISMATCH":            http.StatusUnprocessableEntity,
	"COUPON_EXPIRED":              http.StatusUnprocessableEntity,
	"COUPON_EXHAUSTED":            http.StatusUnprocessableEntity,
	"SHIPPING_OPTION_UNAVAILABLE": http.StatusUnprocessableEntity,
	"PAYMENT_REFERENCE_MISMATCH":  http.StatusUnprocessableEntity,
	"ORDER_ALREADY_PAID":          http.StatusConflict,

	"COUPON_NOT_FOUND":  http.StatusNotFound,
	"ORDER_NOT_FOUND":   http.StatusNotFound,
	"PRODUCT_NOT_FOUND": http.StatusNotFound,

	"ORDER_CONFLICT":   http.StatusConflict,
	"SALE_IN_PROGRESS": http.StatusConflict,

	"SHIPPING_UNAVAILABLE": http.StatusBadGateway,
	"PAYMENT_UNAVAILABLE":  http.StatusBadGateway,
}

// KindHTTPStatus is the fallback status for domain errors whose code is not in ErrorCodeHTTPStatus
var KindHTTPStatus = map[shared.ErrorKind]int{
	shared.KindValidation:      http.StatusUnprocessableEntity,
	shared.KindNotFound:        http.StatusNotFound,
	shared.KindConflict:        http.StatusConflict,
	shared.KindExternalService: http.StatusBadGateway,
	shared.KindInternal:        http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorStatus returns the status for a domain error: its code first, then its kind
func DomainErrorStatus(err *shared.DomainError) int {
	if status, ok := ErrorCodeHTTPStatus[NormalizeErrorCode(err.Code)]; ok {
		return status
	}
	if status, ok := KindHTTPStatus[err.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps generic domain codes to standardized codes
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"INSUFFICIENT_STOCK":   ErrCodeInsufficientStock,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode converts a legacy error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
