package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/renovabill/backend/internal/domain/billing"
	"github.com/renovabill/backend/internal/domain/shared"
	"github.com/renovabill/backend/internal/infrastructure/persistence/models"
)

// GormGovernmentInvoiceRepository implements billing.GovernmentInvoiceRepository using GORM
type GormGovernmentInvoiceRepository struct {
	db *gorm.DB
}

var _ billing.GovernmentInvoiceRepository = (*GormGovernmentInvoiceRepository)(nil)

// NewGormGovernmentInvoiceRepository creates a new GormGovernmentInvoiceRepository
func NewGormGovernmentInvoiceRepository(db *gorm.DB) *GormGovernmentInvoiceRepository {
	return &GormGovernmentInvoiceRepository{db: db}
}

// FindByID finds a government claim by its ID
func (r *GormGovernmentInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.GovernmentInvoice, error) {
	var model models.GovernmentInvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all government claims matching the filter, paginated
func (r *GormGovernmentInvoiceRepository) FindAll(ctx context.Context, filter billing.GovernmentInvoiceFilter) (shared.Paginated[billing.GovernmentInvoice], error) {
	var empty shared.Paginated[billing.GovernmentInvoice]

	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.GovernmentInvoiceModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return empty, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)

	var invoiceModels []models.GovernmentInvoiceModel
	if err := query.
		Order("submission_date desc, created_at desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&invoiceModels).Error; err != nil {
		return empty, err
	}

	items := make([]billing.GovernmentInvoice, len(invoiceModels))
	for i, model := range invoiceModels {
		items[i] = *model.ToDomain()
	}
	return shared.NewPaginated(items, total, page, pageSize), nil
}

// FindAllMatching finds all government claims matching the filter
// without pagination
func (r *GormGovernmentInvoiceRepository) FindAllMatching(ctx context.Context, filter billing.GovernmentInvoiceFilter) ([]*billing.GovernmentInvoice, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.GovernmentInvoiceModel{}), filter)

	var invoiceModels []models.GovernmentInvoiceModel
	if err := query.
		Order("submission_date asc, created_at asc").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	invoices := make([]*billing.GovernmentInvoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = invoiceModels[i].ToDomain()
	}
	return invoices, nil
}

// Save persists a government claim
func (r *GormGovernmentInvoiceRepository) Save(ctx context.Context, invoice *billing.GovernmentInvoice) error {
	model := models.GovernmentInvoiceModelFromDomain(invoice)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// applyFilter applies the claim filter conditions to the query.
// Month/year filter on the submission date.
func (r *GormGovernmentInvoiceRepository) applyFilter(query *gorm.DB, filter billing.GovernmentInvoiceFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FundingType != nil {
		query = query.Where("funding_type = ?", *filter.FundingType)
	}
	if filter.Month != nil {
		query = query.Where("EXTRACT(MONTH FROM submission_date) = ?", *filter.Month)
	}
	if filter.Year != nil {
		query = query.Where("EXTRACT(YEAR FROM submission_date) = ?", *filter.Year)
	}
	return query
}
