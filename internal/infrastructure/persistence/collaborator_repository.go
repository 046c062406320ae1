package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/renovabill/backend/internal/domain/collaborator"
	"github.com/renovabill/backend/internal/domain/shared"
	"github.com/renovabill/backend/internal/infrastructure/persistence/models"
)

// GormCollaboratorRepository implements collaborator.Repository using GORM
type GormCollaboratorRepository struct {
	db *gorm.DB
}

var _ collaborator.Repository = (*GormCollaboratorRepository)(nil)

// NewGormCollaboratorRepository creates a new GormCollaboratorRepository
func NewGormCollaboratorRepository(db *gorm.DB) *GormCollaboratorRepository {
	return &GormCollaboratorRepository{db: db}
}

// FindByID finds a collaborator by its ID
func (r *GormCollaboratorRepository) FindByID(ctx context.Context, id uuid.UUID) (*collaborator.Collaborator, error) {
	var model models.CollaboratorModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a collaborator by email
func (r *GormCollaboratorRepository) FindByEmail(ctx context.Context, email string) (*collaborator.Collaborator, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Email cannot be empty")
	}
	var model models.CollaboratorModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all collaborators matching the filter
func (r *GormCollaboratorRepository) FindAll(ctx context.Context, filter collaborator.Filter) (shared.Paginated[collaborator.Collaborator], error) {
	var empty shared.Paginated[collaborator.Collaborator]

	query := r.db.WithContext(ctx).Model(&models.CollaboratorModel{})
	if filter.ServiceType != nil {
		query = query.Where("service_type = ?", *filter.ServiceType)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return empty, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)

	var collaboratorModels []models.CollaboratorModel
	if err := query.
		Order("name asc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&collaboratorModels).Error; err != nil {
		return empty, err
	}

	items := make([]collaborator.Collaborator, len(collaboratorModels))
	for i, model := range collaboratorModels {
		items[i] = *model.ToDomain()
	}
	return shared.NewPaginated(items, total, page, pageSize), nil
}

// Save persists a collaborator
func (r *GormCollaboratorRepository) Save(ctx context.Context, c *collaborator.Collaborator) error {
	model := models.CollaboratorModelFromDomain(c)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete removes a collaborator. Callers deactivate instead of deleting
// in normal operation; this exists for administrative cleanup.
func (r *GormCollaboratorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CollaboratorModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
