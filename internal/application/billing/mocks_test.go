package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/renovabill/backend/internal/domain/billing"
	"github.com/renovabill/backend/internal/domain/collaborator"
	"github.com/renovabill/backend/internal/domain/shared"
	"github.com/renovabill/backend/internal/domain/shared/valueobject"
)

type mockCollaboratorRepo struct {
	mock.Mock
}

func (m *mockCollaboratorRepo) FindByID(ctx context.Context, id uuid.UUID) (*collaborator.Collaborator, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*collaborator.Collaborator), args.Error(1)
}

func (m *mockCollaboratorRepo) FindByEmail(ctx context.Context, email string) (*collaborator.Collaborator, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*collaborator.Collaborator), args.Error(1)
}

func (m *mockCollaboratorRepo) FindAll(ctx context.Context, filter collaborator.Filter) (shared.Paginated[collaborator.Collaborator], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[collaborator.Collaborator]), args.Error(1)
}

func (m *mockCollaboratorRepo) Save(ctx context.Context, c *collaborator.Collaborator) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCollaboratorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockActivityRepo struct {
	mock.Mock
}

func (m *mockActivityRepo) FindByID(ctx context.Context, id uuid.UUID) (*billing.BillableActivity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.BillableActivity), args.Error(1)
}

func (m *mockActivityRepo) FindAll(ctx context.Context, filter billing.ActivityFilter) (shared.Paginated[billing.BillableActivity], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[billing.BillableActivity]), args.Error(1)
}

func (m *mockActivityRepo) FindPendingForPeriod(ctx context.Context, collaboratorID uuid.UUID, period valueobject.BillingPeriod) ([]*billing.BillableActivity, error) {
	args := m.Called(ctx, collaboratorID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.BillableActivity), args.Error(1)
}

func (m *mockActivityRepo) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*billing.BillableActivity, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.BillableActivity), args.Error(1)
}

func (m *mockActivityRepo) Save(ctx context.Context, activity *billing.BillableActivity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *mockActivityRepo) SaveAll(ctx context.Context, activities []*billing.BillableActivity) error {
	args := m.Called(ctx, activities)
	return args.Error(0)
}

type mockInvoiceRepo struct {
	mock.Mock
}

func (m *mockInvoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*billing.MonthlyInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.MonthlyInvoice), args.Error(1)
}

func (m *mockInvoiceRepo) FindByPeriod(ctx context.Context, collaboratorID uuid.UUID, period valueobject.BillingPeriod) (*billing.MonthlyInvoice, error) {
	args := m.Called(ctx, collaboratorID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.MonthlyInvoice), args.Error(1)
}

func (m *mockInvoiceRepo) FindAll(ctx context.Context, filter billing.MonthlyInvoiceFilter) (shared.Paginated[billing.MonthlyInvoice], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[billing.MonthlyInvoice]), args.Error(1)
}

func (m *mockInvoiceRepo) FindAllMatching(ctx context.Context, filter billing.MonthlyInvoiceFilter) ([]*billing.MonthlyInvoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.MonthlyInvoice), args.Error(1)
}

func (m *mockInvoiceRepo) Save(ctx context.Context, invoice *billing.MonthlyInvoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *mockInvoiceRepo) SaveWithActivities(ctx context.Context, invoice *billing.MonthlyInvoice, activities []*billing.BillableActivity) error {
	args := m.Called(ctx, invoice, activities)
	return args.Error(0)
}

type mockGovernmentRepo struct {
	mock.Mock
}

func (m *mockGovernmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*billing.GovernmentInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.GovernmentInvoice), args.Error(1)
}

func (m *mockGovernmentRepo) FindAll(ctx context.Context, filter billing.GovernmentInvoiceFilter) (shared.Paginated[billing.GovernmentInvoice], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[billing.GovernmentInvoice]), args.Error(1)
}

func (m *mockGovernmentRepo) FindAllMatching(ctx context.Context, filter billing.GovernmentInvoiceFilter) ([]*billing.GovernmentInvoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.GovernmentInvoice), args.Error(1)
}

func (m *mockGovernmentRepo) Save(ctx context.Context, invoice *billing.GovernmentInvoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

// interface conformance
var (
	_ collaborator.Repository             = (*mockCollaboratorRepo)(nil)
	_ billing.ActivityRepository          = (*mockActivityRepo)(nil)
	_ billing.MonthlyInvoiceRepository    = (*mockInvoiceRepo)(nil)
	_ billing.GovernmentInvoiceRepository = (*mockGovernmentRepo)(nil)
)
