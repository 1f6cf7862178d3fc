package handler

import (
	inventoryapp "github.com/facturacion/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// ReservationHandler handles reservation API endpoints
type ReservationHandler struct {
	BaseHandler
	reservationService *inventoryapp.ReservationService
}

// NewReservationHandler creates a new ReservationHandler
func NewReservationHandler(reservationService *inventoryapp.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

// Create places a soft hold on available stock
func (h *ReservationHandler) Create(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	var req inventoryapp.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	reservation, err := h.reservationService.Create(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, reservation)
}

// Confirm marks a pending reservation as confirmed
func (h *ReservationHandler) Confirm(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	reservationID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid reservation ID")
		return
	}

	reservation, err := h.reservationService.Confirm(c.Request.Context(), companyID, reservationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reservation)
}

// Cancel releases an active reservation
func (h *ReservationHandler) Cancel(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	reservationID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid reservation ID")
		return
	}

	reservation, err := h.reservationService.Cancel(c.Request.Context(), companyID, reservationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reservation)
}

// GetByID returns a single reservation
func (h *ReservationHandler) GetByID(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	reservationID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid reservation ID")
		return
	}

	reservation, err := h.reservationService.GetByID(c.Request.Context(), companyID, reservationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reservation)
}

// List returns reservations matching the filter
func (h *ReservationHandler) List(c *gin.Context) {
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
	if productID := c.Query("product_id"); productID != "" {
		filter.Filters["product_id"] = productID
	}

	reservations, total, err := h.reservationService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, reservations, total, filter.Page, filter.PageSize)
}
