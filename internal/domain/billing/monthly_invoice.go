package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/renovabill/backend/internal/domain/shared"
	"github.com/renovabill/backend/internal/domain/shared/valueobject"
)

// MonthlyInvoiceStatus tracks the lifecycle of a collaborator invoice
type MonthlyInvoiceStatus string

const (
	MonthlyInvoiceStatusDraft MonthlyInvoiceStatus = "DRAFT"
	MonthlyInvoiceStatusSent  MonthlyInvoiceStatus = "SENT"
	MonthlyInvoiceStatusPaid  MonthlyInvoiceStatus = "PAID"
)

// AllMonthlyInvoiceStatuses lists every status in lifecycle order
func AllMonthlyInvoiceStatuses() []MonthlyInvoiceStatus {
	return []MonthlyInvoiceStatus{
		MonthlyInvoiceStatusDraft,
		MonthlyInvoiceStatusSent,
		MonthlyInvoiceStatusPaid,
	}
}

// IsValid checks if the status is a known value
func (s MonthlyInvoiceStatus) IsValid() bool {
	switch s {
	case MonthlyInvoiceStatusDraft, MonthlyInvoiceStatusSent, MonthlyInvoiceStatusPaid:
		return true
	}
	return false
}

// String returns the string representation
func (s MonthlyInvoiceStatus) String() string {
	return string(s)
}

// DuplicateInvoicePeriodError is returned when a collaborator already
// has an invoice for the requested period. It carries the existing
// invoice so callers can report which invoice blocks the operation.
type DuplicateInvoicePeriodError struct {
	Existing *MonthlyInvoice
}

// Error implements the error interface
func (e *DuplicateInvoicePeriodError) Error() string {
	return fmt.Sprintf("invoice %s already covers collaborator %s for period %s",
		e.Existing.InvoiceNumber, e.Existing.CollaboratorID, e.Existing.Period)
}

// Code returns the domain error code for transport mapping
func (e *DuplicateInvoicePeriodError) Code() string {
	return "DUPLICATE_INVOICE_PERIOD"
}

// MonthlyInvoice aggregates all billable activities of one collaborator
// over one calendar month. At most one invoice exists per
// (collaborator, month, year); PeriodID is the deterministic key that
// enforces this at the storage layer.
type MonthlyInvoice struct {
	shared.BaseAggregateRoot
	PeriodID       string
	InvoiceNumber  string
	CollaboratorID uuid.UUID
	Period         valueobject.BillingPeriod
	ActivityIDs    []uuid.UUID
	ActivityCount  int
	TotalAmount    valueobject.Money
	Status         MonthlyInvoiceStatus
	IssuedAt       time.Time
	SentAt         *time.Time
	PaidAt         *time.Time
}

// MonthlyInvoicePeriodID builds the deterministic period key for a
// collaborator and billing period
func MonthlyInvoicePeriodID(collaboratorID uuid.UUID, period valueobject.BillingPeriod) string {
	return fmt.Sprintf("inv_%s01_%s", period.Key(), collaboratorID)
}

// MonthlyInvoiceNumber builds the human-facing invoice number
func MonthlyInvoiceNumber(collaboratorID uuid.UUID, period valueobject.BillingPeriod) string {
	compact := strings.ReplaceAll(collaboratorID.String(), "-", "")
	return fmt.Sprintf("INV-%s-%s", period.Key(), strings.ToUpper(compact[:8]))
}

// NewMonthlyInvoice aggregates the given activities into a draft
// invoice. The total is the exact decimal sum of the activity amounts.
// Returns EmptyActivitySet when no activities are supplied.
func NewMonthlyInvoice(collaboratorID uuid.UUID, period valueobject.BillingPeriod, activities []*BillableActivity) (*MonthlyInvoice, error) {
	if err := period.Validate(); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	if len(activities) == 0 {
		return nil, shared.ErrEmptyActivitySet
	}

	total := valueobject.ZeroEUR()
	ids := make([]uuid.UUID, 0, len(activities))
	for _, a := range activities {
		if a.CollaboratorID != collaboratorID {
			return nil, shared.NewDomainError("INVALID_INPUT",
				fmt.Sprintf("activity %s belongs to another collaborator", a.GetID()))
		}
		if !a.Period.Equals(period) {
			return nil, shared.NewDomainError("INVALID_INPUT",
				fmt.Sprintf("activity %s falls outside period %s", a.GetID(), period))
		}
		sum, err := total.Add(a.Amount)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
		}
		total = sum
		ids = append(ids, a.GetID())
	}

	return &MonthlyInvoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PeriodID:          MonthlyInvoicePeriodID(collaboratorID, period),
		InvoiceNumber:     MonthlyInvoiceNumber(collaboratorID, period),
		CollaboratorID:    collaboratorID,
		Period:            period,
		ActivityIDs:       ids,
		ActivityCount:     len(ids),
		TotalAmount:       total,
		Status:            MonthlyInvoiceStatusDraft,
		IssuedAt:          time.Now().UTC(),
	}, nil
}

// MarkSent moves a draft invoice to sent. The lifecycle only moves
// forward; sent and paid invoices stay where they are.
func (i *MonthlyInvoice) MarkSent() error {
	if i.Status != MonthlyInvoiceStatusDraft {
		return shared.ErrInvalidStatusTransition
	}
	now := time.Now().UTC()
	i.Status = MonthlyInvoiceStatusSent
	i.SentAt = &now
	i.IncrementVersion()
	return nil
}

// MarkPaid settles a sent invoice
func (i *MonthlyInvoice) MarkPaid() error {
	if i.Status != MonthlyInvoiceStatusSent {
		return shared.ErrInvalidStatusTransition
	}
	now := time.Now().UTC()
	i.Status = MonthlyInvoiceStatusPaid
	i.PaidAt = &now
	i.IncrementVersion()
	return nil
}
