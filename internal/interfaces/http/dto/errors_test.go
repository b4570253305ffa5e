package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeUnavailable, http.StatusServiceUnavailable},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeInvalidTIN, http.StatusBadRequest},
		{ErrCodeCompanyRequired, http.StatusBadRequest},
		{ErrCodePayloadTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeTokenRevoked, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestDomainCodesPassThrough(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", ErrCodeNotFound)
	assert.Equal(t, "VALIDATION_ERROR", ErrCodeValidation)
	assert.Equal(t, "INVALID_STATE", ErrCodeInvalidState)
}

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		pageSize   int
		totalPages int
	}{
		{"exact", 40, 20, 2},
		{"remainder", 41, 20, 3},
		{"empty", 0, 20, 0},
		{"zero page size", 5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := NewMeta(tt.total, 1, tt.pageSize)
			assert.Equal(t, tt.totalPages, meta.TotalPages)
			assert.Equal(t, tt.total, meta.Total)
		})
	}
}

func TestNormalizePage(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, PageSize: 20}, NormalizePage(0, 0))
	assert.Equal(t, Pagination{Page: 3, PageSize: 100}, NormalizePage(3, 500))
	assert.Equal(t, Pagination{Page: 2, PageSize: 10}, NormalizePage(2, 10))
}

func TestResponseJSON(t *testing.T) {
	t.Run("success omits error", func(t *testing.T) {
		raw, err := json.Marshal(NewSuccessResponseWithMeta("Invoices retrieved", []string{"a"}, 1, 1, 20))
		require.NoError(t, err)

		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Invoices retrieved", body["message"])
		assert.NotContains(t, body, "error")
		assert.Equal(t, float64(1), body["meta"].(map[string]any)["total_pages"])
	})

	t.Run("validation error carries fields", func(t *testing.T) {
		resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
			{Field: "email", Message: "This field is required"},
		})
		raw, err := json.Marshal(resp)
		require.NoError(t, err)

		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, false, body["success"])
		errBody := body["error"].(map[string]any)
		assert.Equal(t, "VALIDATION_ERROR", errBody["code"])
		assert.Equal(t, "req-1", errBody["request_id"])
		assert.Len(t, errBody["fields"], 1)
		assert.NotContains(t, body, "data")
	})
}
