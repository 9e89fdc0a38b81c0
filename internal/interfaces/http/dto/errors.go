package dto

import "net/http"

// Error codes are the domain error codes surfaced verbatim to clients, plus a
// few transport-level ones.

// General error codes
const (
	ErrCodeInternal = "INTERNAL_ERROR"
)

// Request error codes
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// Authentication error codes
const (
	ErrCodeNotAuthenticated = "NOT_AUTHENTICATED"
	ErrCodeForbidden        = "FORBIDDEN"
)

// Resource error codes
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	ErrCodeDuplicateRequest    = "DUPLICATE_REQUEST"
	ErrCodeInvalidState        = "INVALID_STATE"
	ErrCodeVersionConflict     = "VERSION_CONFLICT"
)

// Attendance error codes
const (
	ErrCodeAlreadyPunchedIn = "ALREADY_PUNCHED_IN"
	ErrCodeNoOpenSession    = "NO_OPEN_SESSION"
	ErrCodeAlreadyOnBreak   = "ALREADY_ON_BREAK"
	ErrCodeNoActiveSession  = "NO_ACTIVE_SESSION"
	ErrCodeInvalidWorkMode  = "INVALID_WORK_MODE"
	ErrCodeBreakEnded       = "BREAK_ALREADY_ENDED"
)

// Payroll error codes
const (
	ErrCodeInvalidAmount            = "INVALID_AMOUNT"
	ErrCodeAllocationExceedsRevenue = "ALLOCATION_EXCEEDS_REVENUE"
	ErrCodeAccrualSettled           = "ACCRUAL_SETTLED"
	ErrCodeUnknownAllocationPolicy  = "UNKNOWN_ALLOCATION_POLICY"
	ErrCodeAllocationTargetMissing  = "ALLOCATION_TARGET_MISSING"
)

// Standup and expense error codes
const (
	ErrCodeEmptyStandup    = "EMPTY_STANDUP"
	ErrCodeInvalidCategory = "INVALID_CATEGORY"
	ErrCodeInvalidDate     = "INVALID_DATE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	// Request errors -> 400 Bad Request
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidWorkMode: http.StatusBadRequest,
	ErrCodeInvalidAmount:   http.StatusBadRequest,
	ErrCodeInvalidCategory: http.StatusBadRequest,
	ErrCodeInvalidDate:     http.StatusBadRequest,
	ErrCodeEmptyStandup:    http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// Auth errors
	ErrCodeNotAuthenticated: http.StatusUnauthorized,
	ErrCodeForbidden:        http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:                http.StatusNotFound,
	ErrCodeAllocationTargetMissing: http.StatusNotFound,
	ErrCodeAlreadyExists:           http.StatusConflict,
	ErrCodeConcurrencyConflict:     http.StatusConflict,
	ErrCodeDuplicateRequest:        http.StatusConflict,
	ErrCodeVersionConflict:         http.StatusConflict,

	// State machine violations -> 409 Conflict
	ErrCodeAlreadyPunchedIn: http.StatusConflict,
	ErrCodeNoOpenSession:    http.StatusConflict,
	ErrCodeAlreadyOnBreak:   http.StatusConflict,
	ErrCodeNoActiveSession:  http.StatusConflict,
	ErrCodeBreakEnded:       http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:             http.StatusUnprocessableEntity,
	ErrCodeAllocationExceedsRevenue: http.StatusUnprocessableEntity,
	ErrCodeAccrualSettled:           http.StatusUnprocessableEntity,
	ErrCodeUnknownAllocationPolicy:  http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
