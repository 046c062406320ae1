package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound                = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists           = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput            = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict     = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState            = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInvalidActivityInput    = NewDomainError("INVALID_ACTIVITY_INPUT", "Activity requires a positive count and a non-empty reference")
	ErrEmptyActivitySet        = NewDomainError("EMPTY_ACTIVITY_SET", "No billable activities for the requested period")
	ErrInvalidFundingType      = NewDomainError("INVALID_FUNDING_TYPE", "Funding type is not recognized")
	ErrEmptyDossierSet         = NewDomainError("EMPTY_DOSSIER_SET", "Government invoice requires at least one dossier")
	ErrNonPositiveAmount       = NewDomainError("NON_POSITIVE_AMOUNT", "Amount must be positive")
	ErrInvalidStatusTransition = NewDomainError("INVALID_STATUS_TRANSITION", "Invoice status cannot move along this transition")
	ErrMissingRejectionReason  = NewDomainError("MISSING_REJECTION_REASON", "Rejecting an invoice requires a reason")
)
