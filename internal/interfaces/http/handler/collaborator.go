package handler

import (
	collaboratorapp "github.com/renovabill/backend/internal/application/collaborator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CollaboratorHandler handles collaborator-related API endpoints
type CollaboratorHandler struct {
	BaseHandler
	collaboratorService *collaboratorapp.CollaboratorService
}

// NewCollaboratorHandler creates a new CollaboratorHandler
func NewCollaboratorHandler(collaboratorService *collaboratorapp.CollaboratorService) *CollaboratorHandler {
	return &CollaboratorHandler{
		collaboratorService: collaboratorService,
	}
}

// CreateCollaboratorRequest represents a request to create a new collaborator
// @Description Request body for creating a new collaborator
type CreateCollaboratorRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=200" example:"Marie Dupont"`
	Email       string  `json:"email" binding:"required,email,max=255" example:"marie.dupont@renovabill.fr"`
	ServiceType string  `json:"service_type" binding:"required" example:"TECHNICAL_VISIT"`
	UnitRate    float64 `json:"unit_rate" binding:"required,gt=0" example:"85.50"`
	Notes       string  `json:"notes" binding:"max=1000" example:"Covers the Lyon area"`
}

// UpdateCollaboratorRequest represents a request to update a collaborator.
// Pointer fields distinguish "not provided" from zero values.
// @Description Request body for updating a collaborator
type UpdateCollaboratorRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1,max=200" example:"Marie Dupont-Martin"`
	Email       *string  `json:"email" binding:"omitempty,email,max=255" example:"m.dupont@renovabill.fr"`
	ServiceType *string  `json:"service_type" example:"INSTALLATION"`
	UnitRate    *float64 `json:"unit_rate" binding:"omitempty,gt=0" example:"92.00"`
	Notes       *string  `json:"notes" binding:"omitempty,max=1000" example:"Updated coverage"`
}

// Create godoc
// @ID           createCollaborator
// @Summary      Create a new collaborator
// @Description  Register a collaborator with a billing rate for one service type
// @Tags         collaborators
// @Accept       json
// @Produce      json
// @Param        request body CreateCollaboratorRequest true "Collaborator creation request"
// @Success      201 {object} APIResponse[collaboratorapp.CollaboratorResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /collaborators [post]
func (h *CollaboratorHandler) Create(c *gin.Context) {
	var req CreateCollaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := collaboratorapp.CreateCollaboratorRequest{
		Name:        req.Name,
		Email:       req.Email,
		ServiceType: req.ServiceType,
		UnitRate:    toDecimal(req.UnitRate),
		Notes:       req.Notes,
	}

	collab, err := h.collaboratorService.CreateCollaborator(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, collab)
}

// GetByID godoc
// @ID           getCollaboratorById
// @Summary      Get collaborator by ID
// @Description  Retrieve a collaborator by its ID
// @Tags         collaborators
// @Produce      json
// @Param        id path string true "Collaborator ID" format(uuid)
// @Success      200 {object} APIResponse[collaboratorapp.CollaboratorResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /collaborators/{id} [get]
func (h *CollaboratorHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid collaborator ID format")
		return
	}

	collab, err := h.collaboratorService.GetCollaborator(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, collab)
}

// List godoc
// @ID           listCollaborators
// @Summary      List collaborators
// @Description  List collaborators with optional filtering and pagination
// @Tags         collaborators
// @Produce      json
// @Param        service_type query string false "Filter by service type"
// @Param        active query bool false "Filter by active flag"
// @Param        search query string false "Search in name and email"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]collaboratorapp.CollaboratorResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /collaborators [get]
func (h *CollaboratorHandler) List(c *gin.Context) {
	var filter collaboratorapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.collaboratorService.ListCollaborators(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @ID           updateCollaborator
// @Summary      Update a collaborator
// @Description  Apply a partial update; rate changes only affect activities recorded afterwards
// @Tags         collaborators
// @Accept       json
// @Produce      json
// @Param        id path string true "Collaborator ID" format(uuid)
// @Param        request body UpdateCollaboratorRequest true "Collaborator update request"
// @Success      200 {object} APIResponse[collaboratorapp.CollaboratorResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /collaborators/{id} [patch]
func (h *CollaboratorHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid collaborator ID format")
		return
	}

	var req UpdateCollaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := collaboratorapp.UpdateCollaboratorRequest{
		Name:        req.Name,
		Email:       req.Email,
		ServiceType: req.ServiceType,
		Notes:       req.Notes,
	}
	if req.UnitRate != nil {
		appReq.UnitRate = toDecimalPtr(*req.UnitRate)
	}

	collab, err := h.collaboratorService.UpdateCollaborator(c.Request.Context(), id, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, collab)
}

// Deactivate godoc
// @ID           deactivateCollaborator
// @Summary      Deactivate a collaborator
// @Description  Soft-deactivate a collaborator; historical activities and invoices are preserved
// @Tags         collaborators
// @Produce      json
// @Param        id path string true "Collaborator ID" format(uuid)
// @Success      200 {object} APIResponse[collaboratorapp.CollaboratorResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /collaborators/{id}/deactivate [post]
func (h *CollaboratorHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid collaborator ID format")
		return
	}

	collab, err := h.collaboratorService.DeactivateCollaborator(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, collab)
}

// Reactivate godoc
// @ID           reactivateCollaborator
// @Summary      Reactivate a collaborator
// @Description  Reactivate a previously deactivated collaborator
// @Tags         collaborators
// @Produce      json
// @Param        id path string true "Collaborator ID" format(uuid)
// @Success      200 {object} APIResponse[collaboratorapp.CollaboratorResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /collaborators/{id}/reactivate [post]
func (h *CollaboratorHandler) Reactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid collaborator ID format")
		return
	}

	collab, err := h.collaboratorService.ReactivateCollaborator(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, collab)
}
