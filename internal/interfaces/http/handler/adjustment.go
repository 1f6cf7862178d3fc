package handler

import (
	"errors"
	"io"

	inventoryapp "github.com/facturacion/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdjustmentHandler handles stock adjustment API endpoints
type AdjustmentHandler struct {
	BaseHandler
	adjustmentService *inventoryapp.AdjustmentService
}

// NewAdjustmentHandler creates a new AdjustmentHandler
func NewAdjustmentHandler(adjustmentService *inventoryapp.AdjustmentService) *AdjustmentHandler {
	return &AdjustmentHandler{adjustmentService: adjustmentService}
}

// Create creates a pending adjustment with its lines
func (h *AdjustmentHandler) Create(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	var req inventoryapp.CreateAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	adjustment, err := h.adjustmentService.Create(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, adjustment)
}

// Approve approves a pending adjustment
func (h *AdjustmentHandler) Approve(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	adjustmentID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid adjustment ID")
		return
	}

	approverID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user context")
		return
	}

	adjustment, err := h.adjustmentService.Approve(c.Request.Context(), companyID, adjustmentID, approverID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, adjustment)
}

// RejectAdjustmentRequest carries the rejection reason
type RejectAdjustmentRequest struct {
	Notes string `json:"notes"`
}

// Reject rejects a pending adjustment
func (h *AdjustmentHandler) Reject(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	adjustmentID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid adjustment ID")
		return
	}

	// Body is optional; an absent body rejects without notes
	var req RejectAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	adjustment, err := h.adjustmentService.Reject(c.Request.Context(), companyID, adjustmentID, req.Notes)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, adjustment)
}

// Process posts the movements of an approved adjustment
func (h *AdjustmentHandler) Process(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	adjustmentID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid adjustment ID")
		return
	}

	var actorID *uuid.UUID
	if userID, err := getUserID(c); err == nil {
		actorID = &userID
	}

	adjustment, err := h.adjustmentService.Process(c.Request.Context(), companyID, adjustmentID, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, adjustment)
}

// GetByID returns a single adjustment
func (h *AdjustmentHandler) GetByID(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	adjustmentID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid adjustment ID")
		return
	}

	adjustment, err := h.adjustmentService.GetByID(c.Request.Context(), companyID, adjustmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, adjustment)
}

// List returns adjustments matching the filter
func (h *AdjustmentHandler) List(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if warehouseID := c.Query("warehouse_id"); warehouseID != "" {
		filter.Filters["warehouse_id"] = warehouseID
	}

	adjustments, total, err := h.adjustmentService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, adjustments, total, filter.Page, filter.PageSize)
}
