package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeValidationRequired, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeInvalidActivityInput, http.StatusBadRequest},
		{ErrCodeEmptyActivitySet, http.StatusUnprocessableEntity},
		{ErrCodeDuplicateInvoicePeriod, http.StatusConflict},
		{ErrCodeInvalidFundingType, http.StatusBadRequest},
		{ErrCodeEmptyDossierSet, http.StatusBadRequest},
		{ErrCodeNonPositiveAmount, http.StatusBadRequest},
		{ErrCodeInvalidStatusTransition, http.StatusUnprocessableEntity},
		{ErrCodeMissingRejectionReason, http.StatusBadRequest},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"INVALID_INPUT", ErrCodeInvalidInput},
		{"DUPLICATE_INVOICE_PERIOD", ErrCodeDuplicateInvoicePeriod},
		{"EMPTY_ACTIVITY_SET", ErrCodeEmptyActivitySet},
		{"EMPTY_DOSSIER_SET", ErrCodeEmptyDossierSet},
		{"NON_POSITIVE_AMOUNT", ErrCodeNonPositiveAmount},
		{"INVALID_STATUS_TRANSITION", ErrCodeInvalidStatusTransition},
		{"MISSING_REJECTION_REASON", ErrCodeMissingRejectionReason},
		{"INVALID_FUNDING_TYPE", ErrCodeInvalidFundingType},
		// Already normalized codes pass through
		{ErrCodeNotFound, ErrCodeNotFound},
		// Unknown codes pass through
		{"SOME_CUSTOM_CODE", "SOME_CUSTOM_CODE"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestEveryBillingCodeHasStatus(t *testing.T) {
	// Every code the normalization can produce must map to a status,
	// otherwise handlers would fall back to 500 for known errors.
	for domainCode, transportCode := range LegacyErrorCodeMapping {
		t.Run(domainCode, func(t *testing.T) {
			_, ok := ErrorCodeHTTPStatus[transportCode]
			assert.True(t, ok, "no HTTP status for %s", transportCode)
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(ErrCodeDuplicateInvoicePeriod, "period already billed")

	assert.False(t, resp.Success)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeDuplicateInvoicePeriod, resp.Error.Code)
	assert.Equal(t, "period already billed", resp.Error.Message)

	data, err := json.Marshal(resp)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"success":false`)
	assert.NotContains(t, string(data), `"data"`)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 41, 2, 20)

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Meta)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
