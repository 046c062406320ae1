package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Billing error codes. These mirror the domain error codes one-to-one
// so API consumers can react to specific billing failures.
const (
	// ErrCodeInvalidActivityInput is used when an activity has a bad count or reference
	ErrCodeInvalidActivityInput = "ERR_INVALID_ACTIVITY_INPUT"
	// ErrCodeEmptyActivitySet is used when a billing period has no activities
	ErrCodeEmptyActivitySet = "ERR_EMPTY_ACTIVITY_SET"
	// ErrCodeDuplicateInvoicePeriod is used when a period is already billed
	ErrCodeDuplicateInvoicePeriod = "ERR_DUPLICATE_INVOICE_PERIOD"
	// ErrCodeInvalidFundingType is used for unknown government funding programs
	ErrCodeInvalidFundingType = "ERR_INVALID_FUNDING_TYPE"
	// ErrCodeEmptyDossierSet is used when a claim references no dossiers
	ErrCodeEmptyDossierSet = "ERR_EMPTY_DOSSIER_SET"
	// ErrCodeNonPositiveAmount is used when an amount must be strictly positive
	ErrCodeNonPositiveAmount = "ERR_NON_POSITIVE_AMOUNT"
	// ErrCodeInvalidStatusTransition is used for illegal invoice lifecycle moves
	ErrCodeInvalidStatusTransition = "ERR_INVALID_STATUS_TRANSITION"
	// ErrCodeMissingRejectionReason is used when a rejection carries no reason
	ErrCodeMissingRejectionReason = "ERR_MISSING_REJECTION_REASON"
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	// Billing errors
	ErrCodeInvalidActivityInput:    http.StatusBadRequest,
	ErrCodeEmptyActivitySet:        http.StatusUnprocessableEntity,
	ErrCodeDuplicateInvoicePeriod:  http.StatusConflict,
	ErrCodeInvalidFundingType:      http.StatusBadRequest,
	ErrCodeEmptyDossierSet:         http.StatusBadRequest,
	ErrCodeNonPositiveAmount:       http.StatusBadRequest,
	ErrCodeInvalidStatusTransition: http.StatusUnprocessableEntity,
	ErrCodeMissingRejectionReason:  http.StatusBadRequest,
	ErrCodeInvalidState:            http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps domain error codes to the transport codes.
// Domain errors carry bare codes such as NOT_FOUND; the HTTP layer
// exposes them in the ERR_ namespace.
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":                 ErrCodeNotFound,
	"ALREADY_EXISTS":            ErrCodeAlreadyExists,
	"INVALID_INPUT":             ErrCodeInvalidInput,
	"INVALID_STATE":             ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT":      ErrCodeConcurrencyConflict,
	"VALIDATION_ERROR":          ErrCodeValidation,
	"BAD_REQUEST":               ErrCodeBadRequest,
	"INTERNAL_ERROR":            ErrCodeInternal,
	"INVALID_ACTIVITY_INPUT":    ErrCodeInvalidActivityInput,
	"EMPTY_ACTIVITY_SET":        ErrCodeEmptyActivitySet,
	"DUPLICATE_INVOICE_PERIOD":  ErrCodeDuplicateInvoicePeriod,
	"INVALID_FUNDING_TYPE":      ErrCodeInvalidFundingType,
	"EMPTY_DOSSIER_SET":         ErrCodeEmptyDossierSet,
	"NON_POSITIVE_AMOUNT":       ErrCodeNonPositiveAmount,
	"INVALID_STATUS_TRANSITION": ErrCodeInvalidStatusTransition,
	"MISSING_REJECTION_REASON":  ErrCodeMissingRejectionReason,
}

// NormalizeErrorCode converts a domain error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
