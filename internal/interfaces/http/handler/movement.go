package handler

import (
	inventoryapp "github.com/facturacion/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MovementHandler handles movement ledger API endpoints
type MovementHandler struct {
	BaseHandler
	movementService *inventoryapp.MovementService
}

// NewMovementHandler creates a new MovementHandler
func NewMovementHandler(movementService *inventoryapp.MovementService) *MovementHandler {
	return &MovementHandler{movementService: movementService}
}

// Post appends a movement to the ledger and updates the stock projection
func (h *MovementHandler) Post(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	var req inventoryapp.PostMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.ActorID == nil {
		if userID, err := getUserID(c); err == nil {
			req.ActorID = &userID
		}
	}

	movement, err := h.movementService.PostMovement(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}

// Reverse posts a compensating movement for an existing one
func (h *MovementHandler) Reverse(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	movementID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid movement ID")
		return
	}

	var actorID *uuid.UUID
	if userID, err := getUserID(c); err == nil {
		actorID = &userID
	}

	reversal, err := h.movementService.ReverseMovement(c.Request.Context(), companyID, movementID, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, reversal)
}

// GetByID returns a single movement
func (h *MovementHandler) GetByID(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	movementID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid movement ID")
		return
	}

	movement, err := h.movementService.GetByID(c.Request.Context(), companyID, movementID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movement)
}

// List returns movements matching the filter
func (h *MovementHandler) List(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	var filter inventoryapp.MovementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	movements, total, err := h.movementService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, movements, total, page, pageSize)
}
