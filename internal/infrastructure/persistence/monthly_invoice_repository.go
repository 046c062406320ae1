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

// GormMonthlyInvoiceRepository implements billing.MonthlyInvoiceRepository using GORM
type GormMonthlyInvoiceRepository struct {
	db *gorm.DB
}

var _ billing.MonthlyInvoiceRepository = (*GormMonthlyInvoiceRepository)(nil)

// NewGormMonthlyInvoiceRepository creates a new GormMonthlyInvoiceRepository
func NewGormMonthlyInvoiceRepository(db *gorm.DB) *GormMonthlyInvoiceRepository {
	return &GormMonthlyInvoiceRepository{db: db}
}

// FindByID finds a monthly invoice by its ID
func (r *GormMonthlyInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.MonthlyInvoice, error) {
	var model models.MonthlyInvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPeriod finds the invoice of a collaborator for a billing period
func (r *GormMonthlyInvoiceRepository) FindByPeriod(ctx context.Context, collaboratorID uuid.UUID, period valueobject.BillingPeriod) (*billing.MonthlyInvoice, error) {
	var model models.MonthlyInvoiceModel
	if err := r.db.WithContext(ctx).
		Where("period_id = ?", billing.MonthlyInvoicePeriodID(collaboratorID, period)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all monthly invoices matching the filter, paginated
func (r *GormMonthlyInvoiceRepository) FindAll(ctx context.Context, filter billing.MonthlyInvoiceFilter) (shared.Paginated[billing.MonthlyInvoice], error) {
	var empty shared.Paginated[billing.MonthlyInvoice]

	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.MonthlyInvoiceModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return empty, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)

	var invoiceModels []models.MonthlyInvoiceModel
	if err := query.
		Order("period_year desc, period_month desc, created_at desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&invoiceModels).Error; err != nil {
		return empty, err
	}

	items := make([]billing.MonthlyInvoice, len(invoiceModels))
	for i, model := range invoiceModels {
		items[i] = *model.ToDomain()
	}
	return shared.NewPaginated(items, total, page, pageSize), nil
}

// FindAllMatching finds all monthly invoices matching the filter
// without pagination. Used by statistics which must fold over the full
// result set.
func (r *GormMonthlyInvoiceRepository) FindAllMatching(ctx context.Context, filter billing.MonthlyInvoiceFilter) ([]*billing.MonthlyInvoice, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.MonthlyInvoiceModel{}), filter)

	var invoiceModels []models.MonthlyInvoiceModel
	if err := query.
		Order("period_year asc, period_month asc, created_at asc").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	invoices := make([]*billing.MonthlyInvoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = invoiceModels[i].ToDomain()
	}
	return invoices, nil
}

// Save persists a monthly invoice. A period key conflict maps to
// ErrAlreadyExists so concurrent generations for the same collaborator
// and month cannot both succeed.
func (r *GormMonthlyInvoiceRepository) Save(ctx context.Context, invoice *billing.MonthlyInvoice) error {
	model := models.MonthlyInvoiceModelFromDomain(invoice)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// SaveWithActivities persists the invoice and its activities in one
// transaction. A failure on either write rolls back both, so an
// aborted generation leaves the period billable. A period key conflict
// maps to ErrAlreadyExists like Save.
func (r *GormMonthlyInvoiceRepository) SaveWithActivities(ctx context.Context, invoice *billing.MonthlyInvoice, activities []*billing.BillableActivity) error {
	invoiceModel := models.MonthlyInvoiceModelFromDomain(invoice)
	activityModels := make([]*models.BillableActivityModel, len(activities))
	for i, a := range activities {
		activityModels[i] = models.BillableActivityModelFromDomain(a)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(invoiceModel).Error; err != nil {
			return err
		}
		if len(activityModels) == 0 {
			return nil
		}
		return tx.Save(activityModels).Error
	})
	if err != nil {
		if isDuplicateKey(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// applyFilter applies the invoice filter conditions to the query
func (r *GormMonthlyInvoiceRepository) applyFilter(query *gorm.DB, filter billing.MonthlyInvoiceFilter) *gorm.DB {
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
