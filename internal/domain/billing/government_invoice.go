package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/renovabill/backend/internal/domain/shared"
	"github.com/renovabill/backend/internal/domain/shared/valueobject"
)

// GovernmentFundingType identifies the subsidy program a claim is
// submitted against
type GovernmentFundingType string

const (
	FundingTypeMaPrimeRenov GovernmentFundingType = "MAPRIMERENOVS"
	FundingTypeCEE          GovernmentFundingType = "CEE"
	FundingTypeEcoPTZ       GovernmentFundingType = "ECO_PTZ"
)

// AllFundingTypes lists every recognized funding type
func AllFundingTypes() []GovernmentFundingType {
	return []GovernmentFundingType{FundingTypeMaPrimeRenov, FundingTypeCEE, FundingTypeEcoPTZ}
}

// IsValid checks if the funding type is a known value
func (f GovernmentFundingType) IsValid() bool {
	switch f {
	case FundingTypeMaPrimeRenov, FundingTypeCEE, FundingTypeEcoPTZ:
		return true
	}
	return false
}

// String returns the string representation
func (f GovernmentFundingType) String() string {
	return string(f)
}

// GovernmentInvoiceStatus tracks a claim through the funding body's
// approval and payment lifecycle
type GovernmentInvoiceStatus string

const (
	GovernmentInvoiceStatusDraft     GovernmentInvoiceStatus = "DRAFT"
	GovernmentInvoiceStatusSubmitted GovernmentInvoiceStatus = "SUBMITTED"
	GovernmentInvoiceStatusAccepted  GovernmentInvoiceStatus = "ACCEPTED"
	GovernmentInvoiceStatusPaid      GovernmentInvoiceStatus = "PAID"
	GovernmentInvoiceStatusRejected  GovernmentInvoiceStatus = "REJECTED"
)

// AllGovernmentInvoiceStatuses lists every status in lifecycle order
func AllGovernmentInvoiceStatuses() []GovernmentInvoiceStatus {
	return []GovernmentInvoiceStatus{
		GovernmentInvoiceStatusDraft,
		GovernmentInvoiceStatusSubmitted,
		GovernmentInvoiceStatusAccepted,
		GovernmentInvoiceStatusPaid,
		GovernmentInvoiceStatusRejected,
	}
}

// IsValid checks if the status is a known value
func (s GovernmentInvoiceStatus) IsValid() bool {
	switch s {
	case GovernmentInvoiceStatusDraft, GovernmentInvoiceStatusSubmitted,
		GovernmentInvoiceStatusAccepted, GovernmentInvoiceStatusPaid,
		GovernmentInvoiceStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions
func (s GovernmentInvoiceStatus) IsTerminal() bool {
	return s == GovernmentInvoiceStatusPaid || s == GovernmentInvoiceStatusRejected
}

// String returns the string representation
func (s GovernmentInvoiceStatus) String() string {
	return string(s)
}

// GovernmentInvoice is a bundled subsidy claim covering multiple client
// dossiers. Status only moves forward along the legal transitions;
// paid and rejected are terminal.
type GovernmentInvoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber       string
	FundingType         GovernmentFundingType
	DossierIDs          []string
	TotalAmount         valueobject.Money
	SubmissionDate      time.Time
	ExpectedPaymentDate time.Time
	PaidDate            *time.Time
	Status              GovernmentInvoiceStatus
	ReferenceNumber     string
	RejectionReason     string
}

// GovernmentInvoiceNumber builds the claim number for a funding type
// and submission month. The suffix makes concurrent claims against the
// same program distinguishable.
func GovernmentInvoiceNumber(fundingType GovernmentFundingType, submitted time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("GOV-%s-%s-%s", fundingType, submitted.Format("200601"), suffix)
}

// NewGovernmentInvoice creates a claim in submitted state. The expected
// payment date is derived from the submission date plus the funding
// body's payment lag.
func NewGovernmentInvoice(fundingType GovernmentFundingType, dossierIDs []string, totalAmount valueobject.Money, paymentLag time.Duration) (*GovernmentInvoice, error) {
	if !fundingType.IsValid() {
		return nil, shared.ErrInvalidFundingType
	}
	if len(dossierIDs) == 0 {
		return nil, shared.ErrEmptyDossierSet
	}
	if !totalAmount.IsPositive() {
		return nil, shared.ErrNonPositiveAmount
	}

	// dedupe while preserving order
	seen := make(map[string]struct{}, len(dossierIDs))
	ids := make([]string, 0, len(dossierIDs))
	for _, id := range dossierIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, shared.ErrEmptyDossierSet
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	now := time.Now().UTC()
	return &GovernmentInvoice{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		InvoiceNumber:       GovernmentInvoiceNumber(fundingType, now),
		FundingType:         fundingType,
		DossierIDs:          ids,
		TotalAmount:         totalAmount,
		SubmissionDate:      now,
		ExpectedPaymentDate: now.Add(paymentLag),
		Status:              GovernmentInvoiceStatusSubmitted,
	}, nil
}

// Accept records the funding body's approval along with the reference
// number it assigned. Legal from draft and submitted.
func (g *GovernmentInvoice) Accept(referenceNumber string) error {
	if g.Status != GovernmentInvoiceStatusDraft && g.Status != GovernmentInvoiceStatusSubmitted {
		return shared.ErrInvalidStatusTransition
	}
	g.Status = GovernmentInvoiceStatusAccepted
	g.ReferenceNumber = strings.TrimSpace(referenceNumber)
	g.IncrementVersion()
	return nil
}

// MarkPaid settles an accepted claim. A zero paidDate defaults to now.
func (g *GovernmentInvoice) MarkPaid(paidDate time.Time) error {
	if g.Status != GovernmentInvoiceStatusAccepted {
		return shared.ErrInvalidStatusTransition
	}
	if paidDate.IsZero() {
		paidDate = time.Now().UTC()
	}
	paid := paidDate.UTC()
	g.Status = GovernmentInvoiceStatusPaid
	g.PaidDate = &paid
	g.IncrementVersion()
	return nil
}

// Reject diverts a submitted or accepted claim. The reason is
// mandatory; rejected dossiers may be resubmitted under a new claim.
func (g *GovernmentInvoice) Reject(reason string) error {
	if g.Status != GovernmentInvoiceStatusSubmitted && g.Status != GovernmentInvoiceStatusAccepted {
		return shared.ErrInvalidStatusTransition
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.ErrMissingRejectionReason
	}
	g.Status = GovernmentInvoiceStatusRejected
	g.RejectionReason = reason
	g.IncrementVersion()
	return nil
}
