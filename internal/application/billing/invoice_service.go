package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/renovabill/backend/internal/domain/billing"
	"github.com/renovabill/backend/internal/domain/collaborator"
	"github.com/renovabill/backend/internal/domain/shared"
	"github.com/renovabill/backend/internal/domain/shared/valueobject"
	"github.com/renovabill/backend/internal/infrastructure/telemetry"
)

// InvoiceService aggregates billable activities into monthly invoices
// and drives their lifecycle
type InvoiceService struct {
	invoiceRepo  billing.MonthlyInvoiceRepository
	activityRepo billing.ActivityRepository
	collabRepo   collaborator.Repository
	periodLocks  *keyedLocker
	logger       *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.MonthlyInvoiceRepository,
	activityRepo billing.ActivityRepository,
	collabRepo collaborator.Repository,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		activityRepo: activityRepo,
		collabRepo:   collabRepo,
		periodLocks:  newKeyedLocker(),
		logger:       logger,
	}
}

// MonthlyInvoiceResponse represents a monthly invoice in API responses
type MonthlyInvoiceResponse struct {
	ID             uuid.UUID       `json:"id"`
	PeriodID       string          `json:"period_id"`
	InvoiceNumber  string          `json:"invoice_number"`
	CollaboratorID uuid.UUID       `json:"collaborator_id"`
	Month          int             `json:"month"`
	Year           int             `json:"year"`
	ActivityIDs    []uuid.UUID     `json:"activity_ids"`
	ActivityCount  int             `json:"activity_count"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Status         string          `json:"status"`
	IssuedAt       time.Time       `json:"issued_at"`
	SentAt         *time.Time      `json:"sent_at,omitempty"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	Version        int             `json:"version"`
}

func toMonthlyInvoiceResponse(inv *billing.MonthlyInvoice) *MonthlyInvoiceResponse {
	return &MonthlyInvoiceResponse{
		ID:             inv.GetID(),
		PeriodID:       inv.PeriodID,
		InvoiceNumber:  inv.InvoiceNumber,
		CollaboratorID: inv.CollaboratorID,
		Month:          inv.Period.Month(),
		Year:           inv.Period.Year(),
		ActivityIDs:    inv.ActivityIDs,
		ActivityCount:  inv.ActivityCount,
		TotalAmount:    inv.TotalAmount.Amount(),
		Status:         inv.Status.String(),
		IssuedAt:       inv.IssuedAt,
		SentAt:         inv.SentAt,
		PaidAt:         inv.PaidAt,
		Version:        inv.GetVersion(),
	}
}

// BillPeriod generates the monthly invoice for one collaborator and
// period. At most one invoice can ever exist per period: a repeat call
// fails with the existing invoice attached, and generation for the
// same key is serialized so concurrent calls cannot slip past the
// duplicate check. The invoice and its activities are persisted in one
// transaction.
func (s *InvoiceService) BillPeriod(ctx context.Context, collaboratorID uuid.UUID, month, year int) (*MonthlyInvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "bill_period")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrCollaboratorID, collaboratorID.String(),
		telemetry.SpanAttrPeriodMonth, month,
		telemetry.SpanAttrPeriodYear, year,
	)

	period, err := valueobject.NewBillingPeriod(month, year)
	if err != nil {
		err = shared.NewDomainError("INVALID_INPUT", err.Error())
		telemetry.RecordError(span, err)
		return nil, err
	}

	collab, err := s.collabRepo.FindByID(ctx, collaboratorID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	unlock := s.periodLocks.lock(billing.MonthlyInvoicePeriodID(collaboratorID, period))
	defer unlock()

	existing, err := s.invoiceRepo.FindByPeriod(ctx, collaboratorID, period)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if existing != nil {
		err = &billing.DuplicateInvoicePeriodError{Existing: existing}
		telemetry.RecordError(span, err)
		return nil, err
	}

	activities, err := s.activityRepo.FindPendingForPeriod(ctx, collaboratorID, period)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	invoice, err := billing.NewMonthlyInvoice(collab.GetID(), period, activities)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	for _, a := range activities {
		if err := a.AttachToInvoice(invoice.GetID()); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	if err := s.invoiceRepo.SaveWithActivities(ctx, invoice, activities); err != nil {
		// A unique index conflict means another instance billed the
		// period between our check and the insert.
		if errors.Is(err, shared.ErrAlreadyExists) {
			if existing, findErr := s.invoiceRepo.FindByPeriod(ctx, collaboratorID, period); findErr == nil {
				err = &billing.DuplicateInvoicePeriodError{Existing: existing}
			}
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.AddEvent(span, "invoice_generated",
		telemetry.SpanAttrInvoiceNumber, invoice.InvoiceNumber,
		telemetry.SpanAttrAmount, invoice.TotalAmount.String(),
		"activity_count", invoice.ActivityCount,
	)

	s.logger.Info("monthly invoice generated",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("collaborator_id", collaboratorID.String()),
		zap.String("period", period.String()),
		zap.String("total_amount", invoice.TotalAmount.String()),
		zap.Int("activity_count", invoice.ActivityCount))

	return toMonthlyInvoiceResponse(invoice), nil
}

// GetInvoice fetches a monthly invoice by id
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*MonthlyInvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMonthlyInvoiceResponse(inv), nil
}

// InvoiceListFilter defines filtering options for invoice list queries
type InvoiceListFilter struct {
	CollaboratorID *uuid.UUID `form:"collaborator_id"`
	Month          *int       `form:"month"`
	Year           *int       `form:"year"`
	Status         string     `form:"status"`
	Page           int        `form:"page"`
	PageSize       int        `form:"page_size"`
}

func (f InvoiceListFilter) toDomain() (billing.MonthlyInvoiceFilter, error) {
	domainFilter := billing.MonthlyInvoiceFilter{
		CollaboratorID: f.CollaboratorID,
		Month:          f.Month,
		Year:           f.Year,
		Page:           f.Page,
		PageSize:       f.PageSize,
	}
	if f.Status != "" {
		st := billing.MonthlyInvoiceStatus(f.Status)
		if !st.IsValid() {
			return domainFilter, shared.NewDomainError("INVALID_INPUT", "Unknown invoice status: "+f.Status)
		}
		domainFilter.Status = &st
	}
	return domainFilter, nil
}

// ListInvoices returns a paginated invoice listing
func (s *InvoiceService) ListInvoices(ctx context.Context, filter InvoiceListFilter) (shared.Paginated[MonthlyInvoiceResponse], error) {
	domainFilter, err := filter.toDomain()
	if err != nil {
		return shared.Paginated[MonthlyInvoiceResponse]{}, err
	}

	page, err := s.invoiceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[MonthlyInvoiceResponse]{}, err
	}

	responses := make([]MonthlyInvoiceResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = *toMonthlyInvoiceResponse(&page.Items[i])
	}
	return shared.Paginated[MonthlyInvoiceResponse]{
		Items:      responses,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// MarkInvoiceSent moves a draft invoice to sent
func (s *InvoiceService) MarkInvoiceSent(ctx context.Context, id uuid.UUID) (*MonthlyInvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := inv.MarkSent(); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	return toMonthlyInvoiceResponse(inv), nil
}

// MarkInvoicePaid settles a sent invoice and its activities. Invoice
// and activities are written in one transaction so they cannot drift
// apart.
func (s *InvoiceService) MarkInvoicePaid(ctx context.Context, id uuid.UUID) (*MonthlyInvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := inv.MarkPaid(); err != nil {
		return nil, err
	}

	activities, err := s.activityRepo.FindByInvoice(ctx, inv.GetID())
	if err != nil {
		return nil, err
	}
	for _, a := range activities {
		if err := a.MarkPaid(); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.SaveWithActivities(ctx, inv, activities); err != nil {
		return nil, err
	}
	return toMonthlyInvoiceResponse(inv), nil
}
