package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/renovabill/backend/internal/domain/shared"
	"github.com/renovabill/backend/internal/domain/shared/valueobject"
)

// ActivityFilter narrows billable activity queries. Nil fields are
// ignored; set fields combine with AND.
type ActivityFilter struct {
	CollaboratorID *uuid.UUID
	Month          *int
	Year           *int
	Status         *ActivityStatus
	Page           int
	PageSize       int
}

// MonthlyInvoiceFilter narrows monthly invoice queries
type MonthlyInvoiceFilter struct {
	CollaboratorID *uuid.UUID
	Month          *int
	Year           *int
	Status         *MonthlyInvoiceStatus
	Page           int
	PageSize       int
}

// GovernmentInvoiceFilter narrows government claim queries
type GovernmentInvoiceFilter struct {
	Status      *GovernmentInvoiceStatus
	FundingType *GovernmentFundingType
	Month       *int
	Year        *int
	Page        int
	PageSize    int
}

// ActivityRepository defines persistence operations for billable activities
type ActivityRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BillableActivity, error)
	FindAll(ctx context.Context, filter ActivityFilter) (shared.Paginated[BillableActivity], error)
	FindPendingForPeriod(ctx context.Context, collaboratorID uuid.UUID, period valueobject.BillingPeriod) ([]*BillableActivity, error)
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*BillableActivity, error)
	Save(ctx context.Context, activity *BillableActivity) error
	SaveAll(ctx context.Context, activities []*BillableActivity) error
}

// MonthlyInvoiceRepository defines persistence operations for monthly
// invoices. FindByPeriod is the duplicate-billing check; Save and
// SaveWithActivities must fail on a period key conflict so two
// concurrent generations cannot both succeed. SaveWithActivities
// persists the invoice and its activities in one transaction, so a
// failed activity write can never leave an invoice behind with its
// activities still pending.
type MonthlyInvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MonthlyInvoice, error)
	FindByPeriod(ctx context.Context, collaboratorID uuid.UUID, period valueobject.BillingPeriod) (*MonthlyInvoice, error)
	FindAll(ctx context.Context, filter MonthlyInvoiceFilter) (shared.Paginated[MonthlyInvoice], error)
	FindAllMatching(ctx context.Context, filter MonthlyInvoiceFilter) ([]*MonthlyInvoice, error)
	Save(ctx context.Context, invoice *MonthlyInvoice) error
	SaveWithActivities(ctx context.Context, invoice *MonthlyInvoice, activities []*BillableActivity) error
}

// GovernmentInvoiceRepository defines persistence operations for
// government claims
type GovernmentInvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*GovernmentInvoice, error)
	FindAll(ctx context.Context, filter GovernmentInvoiceFilter) (shared.Paginated[GovernmentInvoice], error)
	FindAllMatching(ctx context.Context, filter GovernmentInvoiceFilter) ([]*GovernmentInvoice, error)
	Save(ctx context.Context, invoice *GovernmentInvoice) error
}
