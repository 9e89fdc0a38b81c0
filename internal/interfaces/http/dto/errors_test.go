package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/hrms/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeInvalidWorkMode, http.StatusBadRequest},
		{ErrCodeNotAuthenticated, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyPunchedIn, http.StatusConflict},
		{ErrCodeNoOpenSession, http.StatusConflict},
		{ErrCodeAlreadyOnBreak, http.StatusConflict},
		{ErrCodeNoActiveSession, http.StatusConflict},
		{ErrCodeDuplicateRequest, http.StatusConflict},
		{ErrCodeVersionConflict, http.StatusConflict},
		{ErrCodeBreakEnded, http.StatusConflict},
		{ErrCodeAllocationExceedsRevenue, http.StatusUnprocessableEntity},
		{ErrCodeAccrualSettled, http.StatusUnprocessableEntity},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestErrorCodesMatchDomainErrors(t *testing.T) {
	// Domain sentinels surface their code unchanged, so every shared one needs a status
	for _, err := range []*shared.DomainError{
		shared.ErrNotFound,
		shared.ErrAlreadyExists,
		shared.ErrInvalidInput,
		shared.ErrConcurrencyConflict,
		shared.ErrNotAuthenticated,
		shared.ErrForbidden,
		shared.ErrInvalidState,
		shared.ErrDuplicateRequest,
	} {
		t.Run(err.Code, func(t *testing.T) {
			_, ok := ErrorCodeHTTPStatus[err.Code]
			assert.True(t, ok, "code %s should be in ErrorCodeHTTPStatus", err.Code)
		})
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNoOpenSession, "No open attendance session", "req-123")

	assert.False(t, resp.OK)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNoOpenSession, resp.Error.Code)
	assert.Equal(t, "No open attendance session", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "work_mode", Message: "Must be office or home"},
		{Field: "today", Message: "This field is required"},
	}

	resp := NewValidationErrorResponse("Request validation failed", "req-789", details)

	assert.False(t, resp.OK)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-789", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "work_mode", resp.Error.Details[0].Field)
}

func TestErrorResponseJSON(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Revenue not found", "req-test-123")

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, false, raw["ok"])
	assert.NotContains(t, raw, "data")
	assert.Equal(t, "Revenue not found", raw["message"])
	errObj, ok := raw["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNotFound, errObj["code"])
	assert.Equal(t, "Revenue not found", errObj["message"])
	assert.Equal(t, "req-test-123", errObj["request_id"])
}
