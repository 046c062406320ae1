package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/renovabill/backend/internal/domain/collaborator"
	"github.com/renovabill/backend/internal/domain/shared"
	"github.com/renovabill/backend/internal/domain/shared/valueobject"
)

// ActivityStatus tracks the billing lifecycle of a single activity
type ActivityStatus string

const (
	ActivityStatusPending  ActivityStatus = "PENDING"
	ActivityStatusInvoiced ActivityStatus = "INVOICED"
	ActivityStatusPaid     ActivityStatus = "PAID"
)

// IsValid checks if the activity status is a known value
func (s ActivityStatus) IsValid() bool {
	switch s {
	case ActivityStatusPending, ActivityStatusInvoiced, ActivityStatusPaid:
		return true
	}
	return false
}

// String returns the string representation
func (s ActivityStatus) String() string {
	return string(s)
}

// BillableActivity is a unit of work performed by a collaborator.
// The unit rate is snapshotted at recording time and the amount is
// computed once, rounded half-up to cents; both are immutable from
// then on. Later changes to the collaborator's default rate never
// touch an already recorded activity.
type BillableActivity struct {
	shared.BaseAggregateRoot
	CollaboratorID uuid.UUID
	ServiceType    collaborator.ServiceType
	Reference      string
	Details        string
	Count          int64
	UnitRate       valueobject.Money
	Amount         valueobject.Money
	ActivityDate   time.Time
	Period         valueobject.BillingPeriod
	Status         ActivityStatus
	InvoiceID      *uuid.UUID
}

// NewBillableActivity records an activity for a collaborator,
// snapshotting the unit rate and computing the amount once. precision
// is the number of decimal places the amount is rounded to, taken from
// billing configuration.
func NewBillableActivity(collab *collaborator.Collaborator, reference string, count int64, activityDate time.Time, details string, precision int32) (*BillableActivity, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" || count <= 0 {
		return nil, shared.ErrInvalidActivityInput
	}
	if !collab.UnitRate.IsPositive() {
		return nil, shared.ErrNonPositiveAmount
	}
	if activityDate.IsZero() {
		activityDate = time.Now().UTC()
	}

	amount := collab.UnitRate.Multiply(decimal.NewFromInt(count)).Round(precision)

	return &BillableActivity{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CollaboratorID:    collab.GetID(),
		ServiceType:       collab.ServiceType,
		Reference:         reference,
		Details:           details,
		Count:             count,
		UnitRate:          collab.UnitRate,
		Amount:            amount,
		ActivityDate:      activityDate.UTC(),
		Period:            valueobject.BillingPeriodOf(activityDate.UTC()),
		Status:            ActivityStatusPending,
	}, nil
}

// AttachToInvoice marks the activity as invoiced. Only pending
// activities can be attached.
func (a *BillableActivity) AttachToInvoice(invoiceID uuid.UUID) error {
	if a.Status != ActivityStatusPending {
		return shared.ErrInvalidStatusTransition
	}
	a.Status = ActivityStatusInvoiced
	a.InvoiceID = &invoiceID
	a.IncrementVersion()
	return nil
}

// MarkPaid settles an invoiced activity
func (a *BillableActivity) MarkPaid() error {
	if a.Status != ActivityStatusInvoiced {
		return shared.ErrInvalidStatusTransition
	}
	a.Status = ActivityStatusPaid
	a.IncrementVersion()
	return nil
}
