package handler

import (
	"time"

	billingapp "github.com/renovabill/backend/internal/application/billing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ActivityHandler handles billable activity API endpoints
type ActivityHandler struct {
	BaseHandler
	activityService *billingapp.ActivityService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activityService *billingapp.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// RecordActivityRequest represents a request to record a billable activity
// @Description Request body for recording a billable activity
type RecordActivityRequest struct {
	CollaboratorID string     `json:"collaborator_id" binding:"required,uuid" example:"7e9a2c3f-4f69-4a7b-8a21-0d7430a1f2da"`
	Reference      string     `json:"reference" binding:"required,min=1,max=100" example:"DOS-2025-0182"`
	Date           *time.Time `json:"date" example:"2025-04-14T00:00:00Z"`
	Count          int64      `json:"count" binding:"required,gt=0" example:"3"`
	Details        string     `json:"details" binding:"max=1000" example:"Insulation audit, three dwellings"`
}

// Record godoc
// @ID           recordActivity
// @Summary      Record a billable activity
// @Description  Record an activity for a collaborator; the amount is computed from the rate in force and frozen
// @Tags         activities
// @Accept       json
// @Produce      json
// @Param        request body RecordActivityRequest true "Activity recording request"
// @Success      201 {object} APIResponse[billingapp.ActivityResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /activities [post]
func (h *ActivityHandler) Record(c *gin.Context) {
	var req RecordActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	collaboratorID, err := uuid.Parse(req.CollaboratorID)
	if err != nil {
		h.BadRequest(c, "Invalid collaborator ID format")
		return
	}

	appReq := billingapp.RecordActivityRequest{
		CollaboratorID: collaboratorID,
		Reference:      req.Reference,
		Count:          req.Count,
		Details:        req.Details,
	}
	if req.Date != nil {
		appReq.Date = *req.Date
	}

	activity, err := h.activityService.RecordActivity(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, activity)
}

// GetByID godoc
// @ID           getActivityById
// @Summary      Get activity by ID
// @Description  Retrieve a billable activity by its ID
// @Tags         activities
// @Produce      json
// @Param        id path string true "Activity ID" format(uuid)
// @Success      200 {object} APIResponse[billingapp.ActivityResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /activities/{id} [get]
func (h *ActivityHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid activity ID format")
		return
	}

	activity, err := h.activityService.GetActivity(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, activity)
}

// List godoc
// @ID           listActivities
// @Summary      List activities
// @Description  List billable activities with optional filtering and pagination
// @Tags         activities
// @Produce      json
// @Param        collaborator_id query string false "Filter by collaborator" format(uuid)
// @Param        month query int false "Filter by period month (1-12)"
// @Param        year query int false "Filter by period year"
// @Param        status query string false "Filter by status (PENDING, INVOICED)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]billingapp.ActivityResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /activities [get]
func (h *ActivityHandler) List(c *gin.Context) {
	var filter billingapp.ActivityListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.activityService.ListActivities(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// InvoiceHandler handles monthly invoice API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService    *billingapp.InvoiceService
	statisticsService *billingapp.StatisticsService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService, statisticsService *billingapp.StatisticsService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService:    invoiceService,
		statisticsService: statisticsService,
	}
}

// BillPeriodRequest represents a request to generate a monthly invoice
// @Description Request body for generating a collaborator's monthly invoice
type BillPeriodRequest struct {
	CollaboratorID string `json:"collaborator_id" binding:"required,uuid" example:"7e9a2c3f-4f69-4a7b-8a21-0d7430a1f2da"`
	Month          int    `json:"month" binding:"required,min=1,max=12" example:"4"`
	Year           int    `json:"year" binding:"required,min=2000,max=2100" example:"2025"`
}

// Bill godoc
// @ID           billPeriod
// @Summary      Generate a monthly invoice
// @Description  Aggregate a collaborator's pending activities for one month into a draft invoice; at most one invoice per collaborator and month
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body BillPeriodRequest true "Billing request"
// @Success      201 {object} APIResponse[billingapp.MonthlyInvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /invoices/bill [post]
func (h *InvoiceHandler) Bill(c *gin.Context) {
	var req BillPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	collaboratorID, err := uuid.Parse(req.CollaboratorID)
	if err != nil {
		h.BadRequest(c, "Invalid collaborator ID format")
		return
	}

	invoice, err := h.invoiceService.BillPeriod(c.Request.Context(), collaboratorID, req.Month, req.Year)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, invoice)
}

// GetByID godoc
// @ID           getInvoiceById
// @Summary      Get monthly invoice by ID
// @Description  Retrieve a monthly invoice by its ID
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[billingapp.MonthlyInvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List godoc
// @ID           listInvoices
// @Summary      List monthly invoices
// @Description  List monthly invoices with optional filtering and pagination
// @Tags         invoices
// @Produce      json
// @Param        collaborator_id query string false "Filter by collaborator" format(uuid)
// @Param        month query int false "Filter by period month (1-12)"
// @Param        year query int false "Filter by period year"
// @Param        status query string false "Filter by status (DRAFT, SENT, PAID)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]billingapp.MonthlyInvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter billingapp.InvoiceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// MarkSent godoc
// @ID           markInvoiceSent
// @Summary      Mark a monthly invoice as sent
// @Description  Transition a draft invoice to sent
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[billingapp.MonthlyInvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /invoices/{id}/send [post]
func (h *InvoiceHandler) MarkSent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.MarkInvoiceSent(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// MarkPaid godoc
// @ID           markInvoicePaid
// @Summary      Mark a monthly invoice as paid
// @Description  Transition a sent invoice to paid
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[billingapp.MonthlyInvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /invoices/{id}/pay [post]
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.MarkInvoicePaid(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// MonthlyStatistics godoc
// @ID           monthlyInvoiceStatistics
// @Summary      Monthly invoice statistics
// @Description  Aggregate counts and amounts over monthly invoices matching the filter
// @Tags         statistics
// @Produce      json
// @Param        collaborator_id query string false "Filter by collaborator" format(uuid)
// @Param        month query int false "Filter by period month (1-12)"
// @Param        year query int false "Filter by period year"
// @Param        status query string false "Filter by status (DRAFT, SENT, PAID)"
// @Success      200 {object} APIResponse[billing.Statistics]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /statistics/monthly [get]
func (h *InvoiceHandler) MonthlyStatistics(c *gin.Context) {
	var filter billingapp.InvoiceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	stats, err := h.statisticsService.MonthlyStatistics(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// GovernmentStatistics godoc
// @ID           governmentClaimStatistics
// @Summary      Government claim statistics
// @Description  Aggregate counts and amounts over government claims matching the filter
// @Tags         statistics
// @Produce      json
// @Param        status query string false "Filter by status"
// @Param        funding_type query string false "Filter by funding type"
// @Param        month query int false "Filter by submission month (1-12)"
// @Param        year query int false "Filter by submission year"
// @Success      200 {object} APIResponse[billing.Statistics]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /statistics/government [get]
func (h *InvoiceHandler) GovernmentStatistics(c *gin.Context) {
	var filter billingapp.ClaimListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	stats, err := h.statisticsService.GovernmentStatistics(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}
