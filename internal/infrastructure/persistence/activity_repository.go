package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/renovabill/backend/internal/domain/billing"
	"github.com/renovabill/backend/internal/domain/shared"
	"github.com/renovabill/backend/internal/domain/shared/valueobject"
	"github.com/renovabill/backend/internal/infrastructure/persistence/models"
)

// GormActivityRepository implements billing.ActivityRepository using GORM
type GormActivityRepository struct {
	db *gorm.DB
}

var _ billing.ActivityRepository = (*GormActivityRepository)(nil)

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// FindByID finds a billable activity by its ID
func (r *GormActivityRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.BillableActivity, error) {
	var model models.BillableActivityModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all billable activities matching the filter
func (r *GormActivityRepository) FindAll(ctx context.Context, filter billing.ActivityFilter) (shared.Paginated[billing.BillableActivity], error) {
	var empty shared.Paginated[billing.BillableActivity]

	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BillableActivityModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return empty, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)

	var activityModels []models.BillableActivityModel
	if err := query.
		Order("activity_date desc, created_at desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&activityModels).Error; err != nil {
		return empty, err
	}

	items := make([]billing.BillableActivity, len(activityModels))
	for i, model := range activityModels {
		items[i] = *model.ToDomain()
	}
	return shared.NewPaginated(items, total, page, pageSize), nil
}

// FindPendingForPeriod finds all pending activities of a collaborator
// within a billing period
func (r *GormActivityRepository) FindPendingForPeriod(ctx context.Context, collaboratorID uuid.UUID, period valueobject.BillingPeriod) ([]*billing.BillableActivity, error) {
	var activityModels []models.BillableActivityModel
	if err := r.db.WithContext(ctx).
		Where("collaborator_id = ? AND period_year = ? AND period_month = ? AND status = ?",
			collaboratorID, period.Year(), period.Month(), billing.ActivityStatusPending).
		Order("activity_date asc, created_at asc").
		Find(&activityModels).Error; err != nil {
		return nil, err
	}

	activities := make([]*billing.BillableActivity, len(activityModels))
	for i := range activityModels {
		activities[i] = activityModels[i].ToDomain()
	}
	return activities, nil
}

// FindByInvoice finds all activities attached to a monthly invoice
func (r *GormActivityRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*billing.BillableActivity, error) {
	var activityModels []models.BillableActivityModel
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("activity_date asc, created_at asc").
		Find(&activityModels).Error; err != nil {
		return nil, err
	}

	activities := make([]*billing.BillableActivity, len(activityModels))
	for i := range activityModels {
		activities[i] = activityModels[i].ToDomain()
	}
	return activities, nil
}

// Save persists a billable activity
func (r *GormActivityRepository) Save(ctx context.Context, activity *billing.BillableActivity) error {
	model := models.BillableActivityModelFromDomain(activity)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveAll persists a batch of billable activities in one transaction
func (r *GormActivityRepository) SaveAll(ctx context.Context, activities []*billing.BillableActivity) error {
	if len(activities) == 0 {
		return nil
	}
	activityModels := make([]*models.BillableActivityModel, len(activities))
	for i, a := range activities {
		activityModels[i] = models.BillableActivityModelFromDomain(a)
	}
	return r.db.WithContext(ctx).Save(activityModels).Error
}

// applyFilter applies the activity filter conditions to the query
func (r *GormActivityRepository) applyFilter(query *gorm.DB, filter billing.ActivityFilter) *gorm.DB {
	if filter.CollaboratorID != nil {
		query = query.Where("collaborator_id = ?", *filter.CollaboratorID)
	}
	if filter.Month != nil {
		query = query.Where("period_month = ?", *filter.Month)
	}
	if filter.Year != nil {
		query = query.Where("period_year = ?", *filter.Year)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}
