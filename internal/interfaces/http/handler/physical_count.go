package handler

import (
	inventoryapp "github.com/facturacion/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// PhysicalCountHandler handles physical count API endpoints
type PhysicalCountHandler struct {
	BaseHandler
	countService *inventoryapp.PhysicalCountService
}

// NewPhysicalCountHandler creates a new PhysicalCountHandler
func NewPhysicalCountHandler(countService *inventoryapp.PhysicalCountService) *PhysicalCountHandler {
	return &PhysicalCountHandler{countService: countService}
}

// Create plans a physical count for a set of products at a warehouse
func (h *PhysicalCountHandler) Create(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	var req inventoryapp.CreatePhysicalCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	count, err := h.countService.Create(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, count)
}

// Start begins counting, freezing the system quantities on each line
func (h *PhysicalCountHandler) Start(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	countID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid physical count ID")
		return
	}

	count, err := h.countService.Start(c.Request.Context(), companyID, countID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, count)
}

// RecordCount records a counted quantity on a line
func (h *PhysicalCountHandler) RecordCount(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	countID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid physical count ID")
		return
	}

	var req inventoryapp.RecordCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.CounterID == nil {
		if userID, err := getUserID(c); err == nil {
			req.CounterID = &userID
		}
	}

	count, err := h.countService.RecordCount(c.Request.Context(), companyID, countID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, count)
}

// Finish closes counting once every line has been counted
func (h *PhysicalCountHandler) Finish(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	countID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid physical count ID")
		return
	}

	count, err := h.countService.Finish(c.Request.Context(), companyID, countID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, count)
}

// Apply converts count differences into a processed adjustment
func (h *PhysicalCountHandler) Apply(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	countID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid physical count ID")
		return
	}

	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user context")
		return
	}

	count, err := h.countService.Apply(c.Request.Context(), companyID, countID, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, count)
}

// Cancel abandons a count that has not been applied
func (h *PhysicalCountHandler) Cancel(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	countID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid physical count ID")
		return
	}

	count, err := h.countService.Cancel(c.Request.Context(), companyID, countID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, count)
}

// GetByID returns a single physical count
func (h *PhysicalCountHandler) GetByID(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	countID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid physical count ID")
		return
	}

	count, err := h.countService.GetByID(c.Request.Context(), companyID, countID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, count)
}

// List returns physical counts matching the filter
func (h *PhysicalCountHandler) List(c *gin.Context) {
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

	counts, total, err := h.countService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, counts, total, filter.Page, filter.PageSize)
}
