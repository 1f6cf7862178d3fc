package handler

import (
	catalogapp "github.com/facturacion/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// WarehouseHandler handles warehouse catalog API endpoints
type WarehouseHandler struct {
	BaseHandler
	warehouseService *catalogapp.WarehouseService
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(warehouseService *catalogapp.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouseService: warehouseService}
}

// Create creates a new warehouse
func (h *WarehouseHandler) Create(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	var req catalogapp.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	warehouse, err := h.warehouseService.Create(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, warehouse)
}

// Update updates mutable warehouse fields
func (h *WarehouseHandler) Update(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	warehouseID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	var req catalogapp.UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	warehouse, err := h.warehouseService.Update(c.Request.Context(), companyID, warehouseID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, warehouse)
}

// Activate reactivates a warehouse
func (h *WarehouseHandler) Activate(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	warehouseID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	warehouse, err := h.warehouseService.Activate(c.Request.Context(), companyID, warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, warehouse)
}

// Deactivate deactivates a warehouse
func (h *WarehouseHandler) Deactivate(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	warehouseID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	warehouse, err := h.warehouseService.Deactivate(c.Request.Context(), companyID, warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, warehouse)
}

// GetByID returns a single warehouse
func (h *WarehouseHandler) GetByID(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	warehouseID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	warehouse, err := h.warehouseService.GetByID(c.Request.Context(), companyID, warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, warehouse)
}

// List returns warehouses matching the filter
func (h *WarehouseHandler) List(c *gin.Context) {
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

	warehouses, total, err := h.warehouseService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, warehouses, total, filter.Page, filter.PageSize)
}
