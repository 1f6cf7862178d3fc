package handler

import (
	inventoryapp "github.com/facturacion/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// TransferHandler handles inter-warehouse transfer API endpoints
type TransferHandler struct {
	BaseHandler
	transferService *inventoryapp.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transferService *inventoryapp.TransferService) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

// Create creates a pending transfer with its lines
func (h *TransferHandler) Create(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	var req inventoryapp.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	transfer, err := h.transferService.Create(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, transfer)
}

// Ship dispatches a pending transfer, posting outbound movements at the source
func (h *TransferHandler) Ship(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	transferID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}

	var req inventoryapp.ShipTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.ActorID == nil {
		if userID, err := getUserID(c); err == nil {
			req.ActorID = &userID
		}
	}

	transfer, err := h.transferService.Ship(c.Request.Context(), companyID, transferID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transfer)
}

// Receive records arrival quantities at the destination warehouse
func (h *TransferHandler) Receive(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	transferID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}

	var req inventoryapp.ReceiveTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.ActorID == nil {
		if userID, err := getUserID(c); err == nil {
			req.ActorID = &userID
		}
	}

	transfer, err := h.transferService.Receive(c.Request.Context(), companyID, transferID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transfer)
}

// Cancel cancels a transfer that has not shipped yet
func (h *TransferHandler) Cancel(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	transferID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}

	transfer, err := h.transferService.Cancel(c.Request.Context(), companyID, transferID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transfer)
}

// GetByID returns a single transfer
func (h *TransferHandler) GetByID(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid company context")
		return
	}

	transferID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}

	transfer, err := h.transferService.GetByID(c.Request.Context(), companyID, transferID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transfer)
}

// List returns transfers matching the filter
func (h *TransferHandler) List(c *gin.Context) {
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
	if warehouseID := c.Query("source_warehouse_id"); warehouseID != "" {
		filter.Filters["source_warehouse_id"] = warehouseID
	}
	if warehouseID := c.Query("destination_warehouse_id"); warehouseID != "" {
		filter.Filters["destination_warehouse_id"] = warehouseID
	}

	transfers, total, err := h.transferService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, transfers, total, filter.Page, filter.PageSize)
}
