package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/renovabill/backend/internal/domain/billing"
	"github.com/renovabill/backend/internal/domain/shared"
	"github.com/renovabill/backend/internal/domain/shared/valueobject"
	"github.com/renovabill/backend/internal/infrastructure/telemetry"
)

// GovernmentInvoiceService creates and transitions bundled subsidy
// claims
type GovernmentInvoiceService struct {
	repo         billing.GovernmentInvoiceRepository
	paymentLag   time.Duration
	dossierLocks *keyedLocker
	logger       *zap.Logger
}

// NewGovernmentInvoiceService creates a new GovernmentInvoiceService.
// paymentLag is the funding body's expected delay between submission
// and payment.
func NewGovernmentInvoiceService(repo billing.GovernmentInvoiceRepository, paymentLag time.Duration, logger *zap.Logger) *GovernmentInvoiceService {
	return &GovernmentInvoiceService{
		repo:         repo,
		paymentLag:   paymentLag,
		dossierLocks: newKeyedLocker(),
		logger:       logger,
	}
}

// GovernmentInvoiceResponse represents a government claim in API responses
type GovernmentInvoiceResponse struct {
	ID                  uuid.UUID       `json:"id"`
	InvoiceNumber       string          `json:"invoice_number"`
	FundingType         string          `json:"funding_type"`
	DossierIDs          []string        `json:"dossier_ids"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	SubmissionDate      time.Time       `json:"submission_date"`
	ExpectedPaymentDate time.Time       `json:"expected_payment_date"`
	PaidDate            *time.Time      `json:"paid_date,omitempty"`
	Status              string          `json:"status"`
	ReferenceNumber     string          `json:"reference_number,omitempty"`
	RejectionReason     string          `json:"rejection_reason,omitempty"`
	Version             int             `json:"version"`
}

func toGovernmentInvoiceResponse(g *billing.GovernmentInvoice) *GovernmentInvoiceResponse {
	return &GovernmentInvoiceResponse{
		ID:                  g.GetID(),
		InvoiceNumber:       g.InvoiceNumber,
		FundingType:         g.FundingType.String(),
		DossierIDs:          g.DossierIDs,
		TotalAmount:         g.TotalAmount.Amount(),
		SubmissionDate:      g.SubmissionDate,
		ExpectedPaymentDate: g.ExpectedPaymentDate,
		PaidDate:            g.PaidDate,
		Status:              g.Status.String(),
		ReferenceNumber:     g.ReferenceNumber,
		RejectionReason:     g.RejectionReason,
		Version:             g.GetVersion(),
	}
}

// SubmitClaimRequest carries the fields for submitting a claim
type SubmitClaimRequest struct {
	FundingType string          `json:"funding_type" binding:"required"`
	DossierIDs  []string        `json:"dossier_ids" binding:"required"`
	TotalAmount decimal.Decimal `json:"total_amount" binding:"required"`
}

// SubmitClaim creates a government claim in submitted state.
// Submissions touching the same dossier are serialized on a per-dossier
// mutex, acquired in sorted order so overlapping bundles cannot
// deadlock.
func (s *GovernmentInvoiceService) SubmitClaim(ctx context.Context, req SubmitClaimRequest) (*GovernmentInvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "claims", "submit")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrFundingType, req.FundingType,
		"dossier_count", len(req.DossierIDs),
	)

	amount := valueobject.NewMoneyEUR(req.TotalAmount)
	claim, err := billing.NewGovernmentInvoice(billing.GovernmentFundingType(req.FundingType), req.DossierIDs, amount, s.paymentLag)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	unlock := s.dossierLocks.lockAll(claim.DossierIDs)
	defer unlock()

	if err := s.repo.Save(ctx, claim); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.AddEvent(span, "claim_submitted",
		telemetry.SpanAttrInvoiceNumber, claim.InvoiceNumber,
		telemetry.SpanAttrAmount, claim.TotalAmount.String(),
	)

	s.logger.Info("government claim submitted",
		zap.String("invoice_number", claim.InvoiceNumber),
		zap.String("funding_type", claim.FundingType.String()),
		zap.Int("dossier_count", len(claim.DossierIDs)),
		zap.String("total_amount", claim.TotalAmount.String()))

	return toGovernmentInvoiceResponse(claim), nil
}

// TransitionEvent names a state machine event on a government claim
type TransitionEvent string

const (
	TransitionAccept   TransitionEvent = "accept"
	TransitionMarkPaid TransitionEvent = "markPaid"
	TransitionReject   TransitionEvent = "reject"
)

// TransitionRequest carries the event payload for a claim transition
type TransitionRequest struct {
	Event           TransitionEvent `json:"event" binding:"required"`
	ReferenceNumber string          `json:"reference_number"`
	PaidDate        *time.Time      `json:"paid_date"`
	Reason          string          `json:"reason"`
}

// Transition applies one state machine event to a claim. Any edge not
// in the lifecycle table fails; nothing is persisted on failure.
func (s *GovernmentInvoiceService) Transition(ctx context.Context, id uuid.UUID, req TransitionRequest) (*GovernmentInvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "claims", "transition")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoiceID, id.String(),
		"event", string(req.Event),
	)

	claim, err := s.repo.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	switch req.Event {
	case TransitionAccept:
		err = claim.Accept(req.ReferenceNumber)
	case TransitionMarkPaid:
		var paidDate time.Time
		if req.PaidDate != nil {
			paidDate = *req.PaidDate
		}
		err = claim.MarkPaid(paidDate)
	case TransitionReject:
		err = claim.Reject(req.Reason)
	default:
		err = shared.NewDomainError("INVALID_INPUT", "Unknown transition event: "+string(req.Event))
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.repo.Save(ctx, claim); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttribute(span, "claim_status", claim.Status.String())
	return toGovernmentInvoiceResponse(claim), nil
}

// GetClaim fetches a government claim by id
func (s *GovernmentInvoiceService) GetClaim(ctx context.Context, id uuid.UUID) (*GovernmentInvoiceResponse, error) {
	claim, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toGovernmentInvoiceResponse(claim), nil
}

// ClaimListFilter defines filtering options for claim list queries
type ClaimListFilter struct {
	Status      string `form:"status"`
	FundingType string `form:"funding_type"`
	Month       *int   `form:"month"`
	Year        *int   `form:"year"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
}

func (f ClaimListFilter) toDomain() (billing.GovernmentInvoiceFilter, error) {
	domainFilter := billing.GovernmentInvoiceFilter{
		Month:    f.Month,
		Year:     f.Year,
		Page:     f.Page,
		PageSize: f.PageSize,
	}
	if f.Status != "" {
		st := billing.GovernmentInvoiceStatus(f.Status)
		if !st.IsValid() {
			return domainFilter, shared.NewDomainError("INVALID_INPUT", "Unknown claim status: "+f.Status)
		}
		domainFilter.Status = &st
	}
	if f.FundingType != "" {
		ft := billing.GovernmentFundingType(f.FundingType)
		if !ft.IsValid() {
			return domainFilter, shared.ErrInvalidFundingType
		}
		domainFilter.FundingType = &ft
	}
	return domainFilter, nil
}

// ListClaims returns a paginated claim listing
func (s *GovernmentInvoiceService) ListClaims(ctx context.Context, filter ClaimListFilter) (shared.Paginated[GovernmentInvoiceResponse], error) {
	domainFilter, err := filter.toDomain()
	if err != nil {
		return shared.Paginated[GovernmentInvoiceResponse]{}, err
	}

	page, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[GovernmentInvoiceResponse]{}, err
	}

	responses := make([]GovernmentInvoiceResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = *toGovernmentInvoiceResponse(&page.Items[i])
	}
	return shared.Paginated[GovernmentInvoiceResponse]{
		Items:      responses,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}
