package handler

import (
	"errors"
	"io"

	inventoryapp "github.com/facturacion/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AlertHandler handles stock alert API endpoints
type AlertHandler struct {
	BaseHandler
	alertService *inventoryapp.AlertService
}

// NewAlertHandler creates a new AlertHandler
func NewAlertHandler(alertService *inventoryapp.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// ListOpen returns unacknowledged alerts
func (h *AlertHandler) ListOpen(c *gin.Context) {
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
	if alertType := c.Query("type"); alertType != "" {
		filter.Filters["type"] = alertType
	}
	if warehouseID := c.Query("warehouse_id"); warehouseID != "" {
		filter.Filters["warehouse_id"] = warehouseID
	}
	if productID := c.Query("product_id"); productID != "" {
		filter.Filters["product_id"] = productID
	}

	alerts, total, err := h.alertService.ListOpen(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, alerts, total, filter.Page, filter.PageSize)
}

// Acknowledge marks an alert as seen
func (h *AlertHandler) Acknowledge(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	alertID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid alert ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user context")
		return
	}

	alert, err := h.alertService.Acknowledge(c.Request.Context(), companyID, alertID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, alert)
}

// Assign hands an alert to a user for follow-up. The assignee defaults to
// the caller unless the body names another user.
func (h *AlertHandler) Assign(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	alertID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid alert ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user context")
		return
	}

	var req struct {
		UserID *uuid.UUID `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.UserID != nil {
		userID = *req.UserID
	}

	alert, err := h.alertService.Assign(c.Request.Context(), companyID, alertID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, alert)
}

// Refresh re-evaluates alerts for one stock record
func (h *AlertHandler) Refresh(c *gin.Context) {
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

	alerts, err := h.alertService.Refresh(c.Request.Context(), companyID, recordID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, alerts)
}

// RefreshAll re-evaluates alerts for every stock record of the company
func (h *AlertHandler) RefreshAll(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	refreshed, err := h.alertService.RefreshAll(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"refreshed_records": refreshed})
}
