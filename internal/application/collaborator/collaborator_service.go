package collaborator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/renovabill/backend/internal/domain/collaborator"
	"github.com/renovabill/backend/internal/domain/shared"
	"github.com/renovabill/backend/internal/domain/shared/valueobject"
)

// CollaboratorService provides application-level collaborator operations
type CollaboratorService struct {
	repo collaborator.Repository
}

// NewCollaboratorService creates a new CollaboratorService
func NewCollaboratorService(repo collaborator.Repository) *CollaboratorService {
	return &CollaboratorService{repo: repo}
}

// CollaboratorResponse represents a collaborator in API responses
type CollaboratorResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	ServiceType string          `json:"service_type"`
	UnitRate    decimal.Decimal `json:"unit_rate"`
	Currency    string          `json:"currency"`
	Active      bool            `json:"active"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

func toCollaboratorResponse(c *collaborator.Collaborator) *CollaboratorResponse {
	return &CollaboratorResponse{
		ID:          c.GetID(),
		Name:        c.Name,
		Email:       c.Email,
		ServiceType: c.ServiceType.String(),
		UnitRate:    c.UnitRate.Amount(),
		Currency:    string(c.UnitRate.Currency()),
		Active:      c.Active,
		Notes:       c.Notes,
		CreatedAt:   c.GetCreatedAt(),
		UpdatedAt:   c.GetUpdatedAt(),
		Version:     c.GetVersion(),
	}
}

// CreateCollaboratorRequest carries the fields for creating a collaborator
type CreateCollaboratorRequest struct {
	Name        string          `json:"name" binding:"required"`
	Email       string          `json:"email" binding:"required,email"`
	ServiceType string          `json:"service_type" binding:"required"`
	UnitRate    decimal.Decimal `json:"unit_rate" binding:"required"`
	Notes       string          `json:"notes"`
}

// CreateCollaborator registers a new collaborator
func (s *CollaboratorService) CreateCollaborator(ctx context.Context, req CreateCollaboratorRequest) (*CollaboratorResponse, error) {
	rate := valueobject.NewMoneyEUR(req.UnitRate)
	c, err := collaborator.NewCollaborator(req.Name, req.Email, collaborator.ServiceType(req.ServiceType), rate)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		c.Notes = req.Notes
	}

	if existing, err := s.repo.FindByEmail(ctx, c.Email); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return toCollaboratorResponse(c), nil
}

// GetCollaborator fetches a collaborator by id
func (s *CollaboratorService) GetCollaborator(ctx context.Context, id uuid.UUID) (*CollaboratorResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCollaboratorResponse(c), nil
}

// ListFilter defines filtering options for collaborator list queries
type ListFilter struct {
	ServiceType string `form:"service_type"`
	Active      *bool  `form:"active"`
	Search      string `form:"search"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
}

// ListCollaborators returns a paginated collaborator listing
func (s *CollaboratorService) ListCollaborators(ctx context.Context, filter ListFilter) (shared.Paginated[CollaboratorResponse], error) {
	domainFilter := collaborator.Filter{
		Active:   filter.Active,
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.ServiceType != "" {
		st := collaborator.ServiceType(filter.ServiceType)
		if !st.IsValid() {
			return shared.Paginated[CollaboratorResponse]{}, shared.NewDomainError("INVALID_INPUT", "Unknown service type: "+filter.ServiceType)
		}
		domainFilter.ServiceType = &st
	}

	page, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[CollaboratorResponse]{}, err
	}

	responses := make([]CollaboratorResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = *toCollaboratorResponse(&page.Items[i])
	}
	return shared.Paginated[CollaboratorResponse]{
		Items:      responses,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// UpdateCollaboratorRequest carries a partial update. Absent fields are
// nil and leave the stored value untouched, so a zero rate can never be
// mistaken for "field not provided".
type UpdateCollaboratorRequest struct {
	Name        *string          `json:"name"`
	Email       *string          `json:"email" binding:"omitempty,email"`
	ServiceType *string          `json:"service_type"`
	UnitRate    *decimal.Decimal `json:"unit_rate"`
	Notes       *string          `json:"notes"`
}

// UpdateCollaborator applies a partial update to a collaborator
func (s *CollaboratorService) UpdateCollaborator(ctx context.Context, id uuid.UUID, req UpdateCollaboratorRequest) (*CollaboratorResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	update := collaborator.Update{
		Name:  req.Name,
		Email: req.Email,
		Notes: req.Notes,
	}
	if req.ServiceType != nil {
		st := collaborator.ServiceType(*req.ServiceType)
		update.ServiceType = &st
	}
	if req.UnitRate != nil {
		rate := valueobject.NewMoneyEUR(*req.UnitRate)
		update.UnitRate = &rate
	}

	if err := c.Apply(update); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return toCollaboratorResponse(c), nil
}

// DeactivateCollaborator soft-disables a collaborator. Records are
// never hard-deleted; historical activities keep referencing them.
func (s *CollaboratorService) DeactivateCollaborator(ctx context.Context, id uuid.UUID) (*CollaboratorResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Deactivate()
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return toCollaboratorResponse(c), nil
}

// ReactivateCollaborator restores a deactivated collaborator
func (s *CollaboratorService) ReactivateCollaborator(ctx context.Context, id uuid.UUID) (*CollaboratorResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Reactivate()
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return toCollaboratorResponse(c), nil
}
