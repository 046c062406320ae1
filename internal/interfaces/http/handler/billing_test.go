package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	billingapp "github.com/renovabill/backend/internal/application/billing"
	"github.com/renovabill/backend/internal/domain/billing"
	"github.com/renovabill/backend/internal/domain/shared"
	"github.com/renovabill/backend/internal/domain/shared/valueobject"
	"github.com/renovabill/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockActivityRepository implements billing.ActivityRepository for testing
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.BillableActivity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.BillableActivity), args.Error(1)
}

func (m *MockActivityRepository) FindAll(ctx context.Context, filter billing.ActivityFilter) (shared.Paginated[billing.BillableActivity], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[billing.BillableActivity]), args.Error(1)
}

func (m *MockActivityRepository) FindPendingForPeriod(ctx context.Context, collaboratorID uuid.UUID, period valueobject.BillingPeriod) ([]*billing.BillableActivity, error) {
	args := m.Called(ctx, collaboratorID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.BillableActivity), args.Error(1)
}

func (m *MockActivityRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*billing.BillableActivity, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.BillableActivity), args.Error(1)
}

func (m *MockActivityRepository) Save(ctx context.Context, activity *billing.BillableActivity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockActivityRepository) SaveAll(ctx context.Context, activities []*billing.BillableActivity) error {
	args := m.Called(ctx, activities)
	return args.Error(0)
}

// MockMonthlyInvoiceRepository implements billing.MonthlyInvoiceRepository for testing
type MockMonthlyInvoiceRepository struct {
	mock.Mock
}

func (m *MockMonthlyInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.MonthlyInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.MonthlyInvoice), args.Error(1)
}

func (m *MockMonthlyInvoiceRepository) FindByPeriod(ctx context.Context, collaboratorID uuid.UUID, period valueobject.BillingPeriod) (*billing.MonthlyInvoice, error) {
	args := m.Called(ctx, collaboratorID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.MonthlyInvoice), args.Error(1)
}

func (m *MockMonthlyInvoiceRepository) FindAll(ctx context.Context, filter billing.MonthlyInvoiceFilter) (shared.Paginated[billing.MonthlyInvoice], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[billing.MonthlyInvoice]), args.Error(1)
}

func (m *MockMonthlyInvoiceRepository) FindAllMatching(ctx context.Context, filter billing.MonthlyInvoiceFilter) ([]*billing.MonthlyInvoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.MonthlyInvoice), args.Error(1)
}

func (m *MockMonthlyInvoiceRepository) Save(ctx context.Context, invoice *billing.MonthlyInvoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockMonthlyInvoiceRepository) SaveWithActivities(ctx context.Context, invoice *billing.MonthlyInvoice, activities []*billing.BillableActivity) error {
	args := m.Called(ctx, invoice, activities)
	return args.Error(0)
}

// MockGovernmentInvoiceRepository implements billing.GovernmentInvoiceRepository for testing
type MockGovernmentInvoiceRepository struct {
	mock.Mock
}

func (m *MockGovernmentInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.GovernmentInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.GovernmentInvoice), args.Error(1)
}

func (m *MockGovernmentInvoiceRepository) FindAll(ctx context.Context, filter billing.GovernmentInvoiceFilter) (shared.Paginated[billing.GovernmentInvoice], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[billing.GovernmentInvoice]), args.Error(1)
}

func (m *MockGovernmentInvoiceRepository) FindAllMatching(ctx context.Context, filter billing.GovernmentInvoiceFilter) ([]*billing.GovernmentInvoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.GovernmentInvoice), args.Error(1)
}

func (m *MockGovernmentInvoiceRepository) Save(ctx context.Context, invoice *billing.GovernmentInvoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

type billingMocks struct {
	collabRepo  *MockCollaboratorRepository
	activRepo   *MockActivityRepository
	invoiceRepo *MockMonthlyInvoiceRepository
	govRepo     *MockGovernmentInvoiceRepository
}

func setupBillingRouter(t *testing.T) (*gin.Engine, *billingMocks) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := &billingMocks{
		collabRepo:  new(MockCollaboratorRepository),
		activRepo:   new(MockActivityRepository),
		invoiceRepo: new(MockMonthlyInvoiceRepository),
		govRepo:     new(MockGovernmentInvoiceRepository),
	}

	log := zap.NewNop()
	activityHandler := NewActivityHandler(billingapp.NewActivityService(m.activRepo, m.collabRepo, 2, log))
	invoiceHandler := NewInvoiceHandler(
		billingapp.NewInvoiceService(m.invoiceRepo, m.activRepo, m.collabRepo, log),
		billingapp.NewStatisticsService(m.invoiceRepo, m.govRepo),
	)

	engine := gin.New()
	engine.POST("/activities", activityHandler.Record)
	engine.GET("/activities/:id", activityHandler.GetByID)
	engine.POST("/invoices/bill", invoiceHandler.Bill)
	engine.GET("/invoices/:id", invoiceHandler.GetByID)
	engine.POST("/invoices/:id/send", invoiceHandler.MarkSent)
	engine.POST("/invoices/:id/pay", invoiceHandler.MarkPaid)
	engine.GET("/statistics/monthly", invoiceHandler.MonthlyStatistics)
	return engine, m
}

func newTestActivity(t *testing.T, reference string, count int64, date time.Time) (*billing.BillableActivity, uuid.UUID) {
	t.Helper()
	collab := newTestCollaborator(t)
	a, err := billing.NewBillableActivity(collab, reference, count, date, "", 2)
	require.NoError(t, err)
	return a, collab.GetID()
}

func TestActivityHandler_Record(t *testing.T) {
	t.Run("success freezes amount", func(t *testing.T) {
		engine, m := setupBillingRouter(t)

		collab := newTestCollaborator(t)
		m.collabRepo.On("FindByID", mock.Anything, collab.GetID()).Return(collab, nil)
		m.activRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.BillableActivity")).Return(nil)

		body := fmt.Sprintf(`{"collaborator_id":%q,"reference":"DOS-2025-0182","count":3,"date":"2025-04-14T00:00:00Z"}`, collab.GetID())
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/activities", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		// 85.50 x 3, rounded half-up to cents
		assert.Equal(t, "256.5", data["amount"])
		assert.Equal(t, "85.5", data["unit_rate"])
		assert.Equal(t, float64(4), data["month"])
		assert.Equal(t, float64(2025), data["year"])
		assert.Equal(t, "PENDING", data["status"])
	})

	t.Run("unknown collaborator", func(t *testing.T) {
		engine, m := setupBillingRouter(t)

		id := uuid.New()
		m.collabRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		body := fmt.Sprintf(`{"collaborator_id":%q,"reference":"DOS-1","count":1}`, id)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/activities", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		m.activRepo.AssertNotCalled(t, "Save")
	})

	t.Run("non-positive count rejected", func(t *testing.T) {
		engine, m := setupBillingRouter(t)

		body := fmt.Sprintf(`{"collaborator_id":%q,"reference":"DOS-1","count":-2}`, uuid.New())
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/activities", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		m.activRepo.AssertNotCalled(t, "Save")
	})
}

func TestInvoiceHandler_Bill(t *testing.T) {
	date := time.Date(2025, 4, 14, 0, 0, 0, 0, time.UTC)

	t.Run("aggregates pending activities", func(t *testing.T) {
		engine, m := setupBillingRouter(t)

		collab := newTestCollaborator(t)
		a1, err := billing.NewBillableActivity(collab, "DOS-001", 3, date, "", 2)
		require.NoError(t, err)
		a2, err := billing.NewBillableActivity(collab, "DOS-002", 1, date, "", 2)
		require.NoError(t, err)

		m.collabRepo.On("FindByID", mock.Anything, collab.GetID()).Return(collab, nil)
		m.invoiceRepo.On("FindByPeriod", mock.Anything, collab.GetID(), mock.Anything).Return(nil, shared.ErrNotFound)
		m.activRepo.On("FindPendingForPeriod", mock.Anything, collab.GetID(), mock.Anything).Return([]*billing.BillableActivity{a1, a2}, nil)
		m.invoiceRepo.On("SaveWithActivities", mock.Anything, mock.AnythingOfType("*billing.MonthlyInvoice"), mock.Anything).Return(nil)

		body := fmt.Sprintf(`{"collaborator_id":%q,"month":4,"year":2025}`, collab.GetID())
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/invoices/bill", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		// 256.50 + 85.50
		assert.Equal(t, "342", data["total_amount"])
		assert.Equal(t, float64(2), data["activity_count"])
		assert.Equal(t, "DRAFT", data["status"])
		assert.Contains(t, data["invoice_number"], "INV-202504-")
		assert.Equal(t, fmt.Sprintf("inv_20250401_%s", collab.GetID()), data["period_id"])
	})

	t.Run("duplicate period returns existing invoice reference", func(t *testing.T) {
		engine, m := setupBillingRouter(t)

		collab := newTestCollaborator(t)
		a, err := billing.NewBillableActivity(collab, "DOS-001", 2, date, "", 2)
		require.NoError(t, err)
		period, err := valueobject.NewBillingPeriod(4, 2025)
		require.NoError(t, err)
		existing, err := billing.NewMonthlyInvoice(collab.GetID(), period, []*billing.BillableActivity{a})
		require.NoError(t, err)

		m.collabRepo.On("FindByID", mock.Anything, collab.GetID()).Return(collab, nil)
		m.invoiceRepo.On("FindByPeriod", mock.Anything, collab.GetID(), mock.Anything).Return(existing, nil)

		body := fmt.Sprintf(`{"collaborator_id":%q,"month":4,"year":2025}`, collab.GetID())
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/invoices/bill", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeDuplicateInvoicePeriod, resp.Error.Code)

		data := resp.Data.(map[string]interface{})
		assert.Equal(t, existing.GetID().String(), data["existing_invoice_id"])
		assert.Equal(t, existing.InvoiceNumber, data["invoice_number"])
		m.invoiceRepo.AssertNotCalled(t, "SaveWithActivities")
	})

	t.Run("no pending activities", func(t *testing.T) {
		engine, m := setupBillingRouter(t)

		collab := newTestCollaborator(t)
		m.collabRepo.On("FindByID", mock.Anything, collab.GetID()).Return(collab, nil)
		m.invoiceRepo.On("FindByPeriod", mock.Anything, collab.GetID(), mock.Anything).Return(nil, shared.ErrNotFound)
		m.activRepo.On("FindPendingForPeriod", mock.Anything, collab.GetID(), mock.Anything).Return([]*billing.BillableActivity{}, nil)

		body := fmt.Sprintf(`{"collaborator_id":%q,"month":4,"year":2025}`, collab.GetID())
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/invoices/bill", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeEmptyActivitySet, resp.Error.Code)
	})

	t.Run("invalid month rejected", func(t *testing.T) {
		engine, m := setupBillingRouter(t)

		body := fmt.Sprintf(`{"collaborator_id":%q,"month":13,"year":2025}`, uuid.New())
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/invoices/bill", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		m.invoiceRepo.AssertNotCalled(t, "SaveWithActivities")
	})
}

func TestInvoiceHandler_Lifecycle(t *testing.T) {
	date := time.Date(2025, 4, 14, 0, 0, 0, 0, time.UTC)

	newDraftInvoice := func(t *testing.T) *billing.MonthlyInvoice {
		t.Helper()
		collab := newTestCollaborator(t)
		a, err := billing.NewBillableActivity(collab, "DOS-001", 2, date, "", 2)
		require.NoError(t, err)
		period, err := valueobject.NewBillingPeriod(4, 2025)
		require.NoError(t, err)
		inv, err := billing.NewMonthlyInvoice(collab.GetID(), period, []*billing.BillableActivity{a})
		require.NoError(t, err)
		return inv
	}

	t.Run("send draft", func(t *testing.T) {
		engine, m := setupBillingRouter(t)

		inv := newDraftInvoice(t)
		m.invoiceRepo.On("FindByID", mock.Anything, inv.GetID()).Return(inv, nil)
		m.invoiceRepo.On("Save", mock.Anything, inv).Return(nil)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/invoices/"+inv.GetID().String()+"/send", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "SENT", data["status"])
		assert.NotEmpty(t, data["sent_at"])
	})

	t.Run("pay before send is rejected", func(t *testing.T) {
		engine, m := setupBillingRouter(t)

		inv := newDraftInvoice(t)
		m.invoiceRepo.On("FindByID", mock.Anything, inv.GetID()).Return(inv, nil)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/invoices/"+inv.GetID().String()+"/pay", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInvalidStatusTransition, resp.Error.Code)
		m.invoiceRepo.AssertNotCalled(t, "SaveWithActivities")
	})
}

func TestInvoiceHandler_MonthlyStatistics(t *testing.T) {
	engine, m := setupBillingRouter(t)

	date := time.Date(2025, 4, 14, 0, 0, 0, 0, time.UTC)
	collab := newTestCollaborator(t)
	a, err := billing.NewBillableActivity(collab, "DOS-001", 2, date, "", 2)
	require.NoError(t, err)
	period, err := valueobject.NewBillingPeriod(4, 2025)
	require.NoError(t, err)
	inv, err := billing.NewMonthlyInvoice(collab.GetID(), period, []*billing.BillableActivity{a})
	require.NoError(t, err)

	m.invoiceRepo.On("FindAllMatching", mock.Anything, mock.Anything).Return([]*billing.MonthlyInvoice{inv}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/statistics/monthly?month=4&year=2025", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["total_invoices"])
	// a draft invoice counts as pending, not paid
	pending := data["pending_amount"].(map[string]interface{})
	assert.Equal(t, "171", pending["amount"])
	paid := data["paid_amount"].(map[string]interface{})
	assert.Equal(t, "0", paid["amount"])
}
