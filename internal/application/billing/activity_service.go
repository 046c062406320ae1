package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/renovabill/backend/internal/domain/billing"
	"github.com/renovabill/backend/internal/domain/collaborator"
	"github.com/renovabill/backend/internal/domain/shared"
)

// ActivityService records and queries billable activities
type ActivityService struct {
	activityRepo billing.ActivityRepository
	collabRepo   collaborator.Repository
	precision    int32
	logger       *zap.Logger
}

// NewActivityService creates a new ActivityService. precision is the
// configured number of decimal places billed amounts are rounded to.
func NewActivityService(activityRepo billing.ActivityRepository, collabRepo collaborator.Repository, precision int32, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		collabRepo:   collabRepo,
		precision:    precision,
		logger:       logger,
	}
}

// ActivityResponse represents a billable activity in API responses
type ActivityResponse struct {
	ID             uuid.UUID       `json:"id"`
	CollaboratorID uuid.UUID       `json:"collaborator_id"`
	ServiceType    string          `json:"service_type"`
	Reference      string          `json:"reference"`
	Details        string          `json:"details,omitempty"`
	Count          int64           `json:"count"`
	UnitRate       decimal.Decimal `json:"unit_rate"`
	Amount         decimal.Decimal `json:"amount"`
	ActivityDate   time.Time       `json:"activity_date"`
	Month          int             `json:"month"`
	Year           int             `json:"year"`
	Status         string          `json:"status"`
	InvoiceID      *uuid.UUID      `json:"invoice_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

func toActivityResponse(a *billing.BillableActivity) *ActivityResponse {
	return &ActivityResponse{
		ID:             a.GetID(),
		CollaboratorID: a.CollaboratorID,
		ServiceType:    a.ServiceType.String(),
		Reference:      a.Reference,
		Details:        a.Details,
		Count:          a.Count,
		UnitRate:       a.UnitRate.Amount(),
		Amount:         a.Amount.Amount(),
		ActivityDate:   a.ActivityDate,
		Month:          a.Period.Month(),
		Year:           a.Period.Year(),
		Status:         a.Status.String(),
		InvoiceID:      a.InvoiceID,
		CreatedAt:      a.GetCreatedAt(),
	}
}

// RecordActivityRequest carries the fields for recording an activity
type RecordActivityRequest struct {
	CollaboratorID uuid.UUID `json:"collaborator_id" binding:"required"`
	Reference      string    `json:"reference" binding:"required"`
	Date           time.Time `json:"date"`
	Count          int64     `json:"count" binding:"required"`
	Details        string    `json:"details"`
}

// RecordActivity creates a billable activity for a collaborator,
// snapshotting the rate in force at recording time
func (s *ActivityService) RecordActivity(ctx context.Context, req RecordActivityRequest) (*ActivityResponse, error) {
	collab, err := s.collabRepo.FindByID(ctx, req.CollaboratorID)
	if err != nil {
		return nil, err
	}
	if !collab.Active {
		s.logger.Warn("recording activity for inactive collaborator",
			zap.String("collaborator_id", collab.GetID().String()),
			zap.String("reference", req.Reference))
	}

	activity, err := billing.NewBillableActivity(collab, req.Reference, req.Count, req.Date, req.Details, s.precision)
	if err != nil {
		return nil, err
	}
	if err := s.activityRepo.Save(ctx, activity); err != nil {
		return nil, err
	}
	return toActivityResponse(activity), nil
}

// GetActivity fetches an activity by id
func (s *ActivityService) GetActivity(ctx context.Context, id uuid.UUID) (*ActivityResponse, error) {
	a, err := s.activityRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toActivityResponse(a), nil
}

// ActivityListFilter defines filtering options for activity list queries
type ActivityListFilter struct {
	CollaboratorID *uuid.UUID `form:"collaborator_id"`
	Month          *int       `form:"month"`
	Year           *int       `form:"year"`
	Status         string     `form:"status"`
	Page           int        `form:"page"`
	PageSize       int        `form:"page_size"`
}

// ListActivities returns a paginated activity listing, filters combined
// with AND
func (s *ActivityService) ListActivities(ctx context.Context, filter ActivityListFilter) (shared.Paginated[ActivityResponse], error) {
	domainFilter := billing.ActivityFilter{
		CollaboratorID: filter.CollaboratorID,
		Month:          filter.Month,
		Year:           filter.Year,
		Page:           filter.Page,
		PageSize:       filter.PageSize,
	}
	if filter.Status != "" {
		st := billing.ActivityStatus(filter.Status)
		if !st.IsValid() {
			return shared.Paginated[ActivityResponse]{}, shared.NewDomainError("INVALID_INPUT", "Unknown activity status: "+filter.Status)
		}
		domainFilter.Status = &st
	}

	page, err := s.activityRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[ActivityResponse]{}, err
	}

	responses := make([]ActivityResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = *toActivityResponse(&page.Items[i])
	}
	return shared.Paginated[ActivityResponse]{
		Items:      responses,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}
