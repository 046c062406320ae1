package handler

import (
	"time"

	billingapp "github.com/renovabill/backend/internal/application/billing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GovernmentInvoiceHandler handles government funding claim API endpoints
type GovernmentInvoiceHandler struct {
	BaseHandler
	governmentService *billingapp.GovernmentInvoiceService
}

// NewGovernmentInvoiceHandler creates a new GovernmentInvoiceHandler
func NewGovernmentInvoiceHandler(governmentService *billingapp.GovernmentInvoiceService) *GovernmentInvoiceHandler {
	return &GovernmentInvoiceHandler{
		governmentService: governmentService,
	}
}

// SubmitClaimRequest represents a request to submit a government funding claim
// @Description Request body for submitting a government funding claim
type SubmitClaimRequest struct {
	FundingType string   `json:"funding_type" binding:"required" example:"MAPRIMERENOVS"`
	DossierIDs  []string `json:"dossier_ids" binding:"required,min=1" example:"DOS-2025-0182,DOS-2025-0190"`
	TotalAmount float64  `json:"total_amount" binding:"required,gt=0" example:"12400.00"`
}

// TransitionClaimRequest represents a state machine event on a claim
// @Description Request body for transitioning a claim (accept, markPaid, reject)
type TransitionClaimRequest struct {
	Event           string     `json:"event" binding:"required,oneof=accept markPaid reject" example:"accept"`
	ReferenceNumber string     `json:"reference_number" binding:"max=100" example:"ANAH-2025-77410"`
	PaidDate        *time.Time `json:"paid_date" example:"2025-06-30T00:00:00Z"`
	Reason          string     `json:"reason" binding:"max=500" example:"Dossier incomplete"`
}

// Submit godoc
// @ID           submitGovernmentClaim
// @Summary      Submit a government funding claim
// @Description  Create a claim against a public funding scheme; it starts in submitted state
// @Tags         government-invoices
// @Accept       json
// @Produce      json
// @Param        request body SubmitClaimRequest true "Claim submission request"
// @Success      201 {object} APIResponse[billingapp.GovernmentInvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /government-invoices [post]
func (h *GovernmentInvoiceHandler) Submit(c *gin.Context) {
	var req SubmitClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := billingapp.SubmitClaimRequest{
		FundingType: req.FundingType,
		DossierIDs:  req.DossierIDs,
		TotalAmount: toDecimal(req.TotalAmount),
	}

	claim, err := h.governmentService.SubmitClaim(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, claim)
}

// GetByID godoc
// @ID           getGovernmentClaimById
// @Summary      Get government claim by ID
// @Description  Retrieve a government funding claim by its ID
// @Tags         government-invoices
// @Produce      json
// @Param        id path string true "Claim ID" format(uuid)
// @Success      200 {object} APIResponse[billingapp.GovernmentInvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /government-invoices/{id} [get]
func (h *GovernmentInvoiceHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid claim ID format")
		return
	}

	claim, err := h.governmentService.GetClaim(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, claim)
}

// List godoc
// @ID           listGovernmentClaims
// @Summary      List government claims
// @Description  List government funding claims with optional filtering and pagination
// @Tags         government-invoices
// @Produce      json
// @Param        status query string false "Filter by status (SUBMITTED, ACCEPTED, PAID, REJECTED)"
// @Param        funding_type query string false "Filter by funding type"
// @Param        month query int false "Filter by submission month (1-12)"
// @Param        year query int false "Filter by submission year"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]billingapp.GovernmentInvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /government-invoices [get]
func (h *GovernmentInvoiceHandler) List(c *gin.Context) {
	var filter billingapp.ClaimListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.governmentService.ListClaims(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Transition godoc
// @ID           transitionGovernmentClaim
// @Summary      Transition a government claim
// @Description  Apply a lifecycle event: accept (requires reference_number), markPaid, or reject (requires reason)
// @Tags         government-invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Claim ID" format(uuid)
// @Param        request body TransitionClaimRequest true "Transition request"
// @Success      200 {object} APIResponse[billingapp.GovernmentInvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /government-invoices/{id}/transition [post]
func (h *GovernmentInvoiceHandler) Transition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid claim ID format")
		return
	}

	var req TransitionClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := billingapp.TransitionRequest{
		Event:           billingapp.TransitionEvent(req.Event),
		ReferenceNumber: req.ReferenceNumber,
		PaidDate:        req.PaidDate,
		Reason:          req.Reason,
	}

	claim, err := h.governmentService.Transition(c.Request.Context(), id, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, claim)
}
