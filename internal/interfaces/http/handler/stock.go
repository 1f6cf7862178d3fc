package handler

import (
	inventoryapp "github.com/facturacion/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StockHandler handles stock record and lot API endpoints
type StockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// List returns stock records for the authenticated company
func (h *StockHandler) List(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	var filter inventoryapp.StockListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	records, total, err := h.stockService.List(c.Request.Context(), companyID, filter)
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
	h.SuccessWithMeta(c, records, total, page, pageSize)
}

// ListBelowMinimum returns stock records at or below their minimum threshold
func (h *StockHandler) ListBelowMinimum(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	var filter inventoryapp.StockListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	records, total, err := h.stockService.ListBelowMinimum(c.Request.Context(), companyID, filter)
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
	h.SuccessWithMeta(c, records, total, page, pageSize)
}

// GetByID returns a single stock record
func (h *StockHandler) GetByID(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	recordID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid stock record ID")
		return
	}

	record, err := h.stockService.GetByID(c.Request.Context(), companyID, recordID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Lookup returns the stock record for a warehouse-product pair
func (h *StockHandler) Lookup(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	warehouseID, err := uuid.Parse(c.Query("warehouse_id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse_id")
		return
	}
	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product_id")
		return
	}

	record, err := h.stockService.GetByWarehouseAndProduct(c.Request.Context(), companyID, warehouseID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// GetAvailability returns on-hand, reserved, and available quantities
// for a warehouse-product pair
func (h *StockHandler) GetAvailability(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	warehouseID, err := uuid.Parse(c.Query("warehouse_id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse_id")
		return
	}
	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product_id")
		return
	}

	availability, err := h.stockService.GetAvailability(c.Request.Context(), companyID, warehouseID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, availability)
}

// SetThresholds updates the reorder thresholds of a stock record
func (h *StockHandler) SetThresholds(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	recordID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid stock record ID")
		return
	}

	var req inventoryapp.SetThresholdsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	record, err := h.stockService.SetThresholds(c.Request.Context(), companyID, recordID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// SetValuationMethod changes the valuation method of a stock record
func (h *StockHandler) SetValuationMethod(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	recordID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid stock record ID")
		return
	}

	var req inventoryapp.SetValuationMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	record, err := h.stockService.SetValuationMethod(c.Request.Context(), companyID, recordID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Recompute rebuilds the cached on-hand quantity from the movement ledger
func (h *StockHandler) Recompute(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	recordID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid stock record ID")
		return
	}

	record, err := h.stockService.RecomputeQuantity(c.Request.Context(), companyID, recordID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// ListLots returns the lots of a stock record
func (h *StockHandler) ListLots(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	recordID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid stock record ID")
		return
	}

	lots, err := h.stockService.ListLots(c.Request.Context(), companyID, recordID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lots)
}

// BlockLot blocks a lot from consumption
func (h *StockHandler) BlockLot(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	lotID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid lot ID")
		return
	}

	lot, err := h.stockService.BlockLot(c.Request.Context(), companyID, lotID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lot)
}

// UnblockLot returns a blocked lot to the consumable pool
func (h *StockHandler) UnblockLot(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	lotID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid lot ID")
		return
	}

	lot, err := h.stockService.UnblockLot(c.Request.Context(), companyID, lotID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lot)
}
