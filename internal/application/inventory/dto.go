package inventory

import (
	"time"

	"github.com/facturacion/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockRecordResponse represents a stock record in API responses
type StockRecordResponse struct {
	ID              uuid.UUID       `json:"id"`
	CompanyID       uuid.UUID       `json:"company_id"`
	WarehouseID     uuid.UUID       `json:"warehouse_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	QuantityOnHand  decimal.Decimal `json:"quantity_on_hand"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	TotalValue      decimal.Decimal `json:"total_value"`
	ValuationMethod string          `json:"valuation_method"`
	MinQuantity     decimal.Decimal `json:"min_quantity"`
	MaxQuantity     decimal.Decimal `json:"max_quantity"`
	ReorderPoint    decimal.Decimal `json:"reorder_point"`
	IsBelowMinimum  bool            `json:"is_below_minimum"`
	IsOutOfStock    bool            `json:"is_out_of_stock"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// AvailabilityResponse reports on-hand, reserved, and available quantities
type AvailabilityResponse struct {
	StockRecordID  uuid.UUID       `json:"stock_record_id"`
	WarehouseID    uuid.UUID       `json:"warehouse_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	QuantityOnHand decimal.Decimal `json:"quantity_on_hand"`
	Reserved       decimal.Decimal `json:"reserved"`
	Available      decimal.Decimal `json:"available"`
}

// StockListFilter represents filter options for stock record lists
type StockListFilter struct {
	WarehouseID  *uuid.UUID `form:"warehouse_id"`
	ProductID    *uuid.UUID `form:"product_id"`
	BelowMinimum *bool      `form:"below_minimum"`
	Page         int        `form:"page" binding:"omitempty,min=1"`
	PageSize     int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string     `form:"order_by"`
	OrderDir     string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SetThresholdsRequest sets reorder thresholds on a stock record
type SetThresholdsRequest struct {
	MinQuantity  decimal.Decimal `json:"min_quantity"`
	MaxQuantity  decimal.Decimal `json:"max_quantity"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
}

// SetValuationMethodRequest changes the valuation method of a stock record
type SetValuationMethodRequest struct {
	ValuationMethod string `json:"valuation_method" binding:"required,oneof=AVERAGE FIFO LIFO SPECIFIC_PRICE"`
}

// PostMovementRequest represents a request to post a stock movement
type PostMovementRequest struct {
	WarehouseID   uuid.UUID       `json:"warehouse_id" binding:"required"`
	ProductID     uuid.UUID       `json:"product_id" binding:"required"`
	Kind          string          `json:"kind" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required,dec_gt_zero"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	OriginType    string          `json:"origin_type" binding:"required"`
	OriginID      string          `json:"origin_id" binding:"required"`
	Reference     string          `json:"reference"`
	LotNumber     string          `json:"lot_number"`
	LotID         *uuid.UUID      `json:"lot_id"`
	ExpiryDate    *time.Time      `json:"expiry_date"`
	ReservationID *uuid.UUID      `json:"reservation_id"`
	ActorID       *uuid.UUID      `json:"actor_id"`
}

// MovementResponse represents a movement in API responses
type MovementResponse struct {
	ID            uuid.UUID       `json:"id"`
	StockRecordID uuid.UUID       `json:"stock_record_id"`
	WarehouseID   uuid.UUID       `json:"warehouse_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	Kind          string          `json:"kind"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	LotID         *uuid.UUID      `json:"lot_id,omitempty"`
	OriginType    string          `json:"origin_type"`
	OriginID      string          `json:"origin_id"`
	Reference     string          `json:"reference,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
	CreatedAt     time.Time       `json:"created_at"`
}

// MovementListFilter represents filter options for movement lists
type MovementListFilter struct {
	WarehouseID *uuid.UUID `form:"warehouse_id"`
	ProductID   *uuid.UUID `form:"product_id"`
	Kind        string     `form:"kind"`
	OriginType  string     `form:"origin_type"`
	OriginID    string     `form:"origin_id"`
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// LotResponse represents a lot in API responses
type LotResponse struct {
	ID                uuid.UUID       `json:"id"`
	StockRecordID     uuid.UUID       `json:"stock_record_id"`
	WarehouseID       uuid.UUID       `json:"warehouse_id"`
	ProductID         uuid.UUID       `json:"product_id"`
	LotNumber         string          `json:"lot_number"`
	ManufactureDate   *time.Time      `json:"manufacture_date,omitempty"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	InitialQuantity   decimal.Decimal `json:"initial_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	Status            string          `json:"status"`
	Blocked           bool            `json:"blocked"`
	CreatedAt         time.Time       `json:"created_at"`
}

// CreateReservationRequest represents a request to reserve stock
type CreateReservationRequest struct {
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required,dec_gt_zero"`
	OriginType  string          `json:"origin_type" binding:"required"`
	OriginID    *uuid.UUID      `json:"origin_id"`
	Reference   string          `json:"reference"`
	ExpiresAt   *time.Time      `json:"expires_at"`
}

// ReservationResponse represents a reservation in API responses
type ReservationResponse struct {
	ID            uuid.UUID       `json:"id"`
	StockRecordID uuid.UUID       `json:"stock_record_id"`
	WarehouseID   uuid.UUID       `json:"warehouse_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	Status        string          `json:"status"`
	OriginType    string          `json:"origin_type"`
	OriginID      *uuid.UUID      `json:"origin_id,omitempty"`
	Reference     string          `json:"reference,omitempty"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
	ReleasedAt    *time.Time      `json:"released_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	Version       int             `json:"version"`
}

// CreateTransferRequest represents a request to create a transfer
type CreateTransferRequest struct {
	Code                   string                `json:"code" binding:"required"`
	SourceWarehouseID      uuid.UUID             `json:"source_warehouse_id" binding:"required"`
	DestinationWarehouseID uuid.UUID             `json:"destination_warehouse_id" binding:"required"`
	Notes                  string                `json:"notes"`
	Lines                  []TransferLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// TransferLineRequest is one product line on a transfer creation request
type TransferLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required,dec_gt_zero"`
}

// ShipTransferRequest carries per-product shipped quantities. Lines omitted
// from Quantities ship their requested quantity.
type ShipTransferRequest struct {
	Quantities map[uuid.UUID]decimal.Decimal `json:"quantities"`
	ActorID    *uuid.UUID                    `json:"actor_id"`
}

// ReceiveTransferRequest carries per-product received quantities
type ReceiveTransferRequest struct {
	Quantities map[uuid.UUID]decimal.Decimal `json:"quantities" binding:"required"`
	ActorID    *uuid.UUID                    `json:"actor_id"`
}

// TransferResponse represents a transfer in API responses
type TransferResponse struct {
	ID                     uuid.UUID              `json:"id"`
	Code                   string                 `json:"code"`
	SourceWarehouseID      uuid.UUID              `json:"source_warehouse_id"`
	DestinationWarehouseID uuid.UUID              `json:"destination_warehouse_id"`
	Status                 string                 `json:"status"`
	Notes                  string                 `json:"notes,omitempty"`
	Lines                  []TransferLineResponse `json:"lines"`
	ShippedAt              *time.Time             `json:"shipped_at,omitempty"`
	CompletedAt            *time.Time             `json:"completed_at,omitempty"`
	CreatedAt              time.Time              `json:"created_at"`
	Version                int                    `json:"version"`
}

// TransferLineResponse represents a transfer line in API responses
type TransferLineResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	LotNumber    string          `json:"lot_number,omitempty"`
	RequestedQty decimal.Decimal `json:"requested_qty"`
	ShippedQty   decimal.Decimal `json:"shipped_qty"`
	ReceivedQty  decimal.Decimal `json:"received_qty"`
	InTransitQty decimal.Decimal `json:"in_transit_qty"`
}

// CreateAdjustmentRequest represents a request to create an adjustment
type CreateAdjustmentRequest struct {
	Code        string                  `json:"code" binding:"required"`
	WarehouseID uuid.UUID               `json:"warehouse_id" binding:"required"`
	Reason      string                  `json:"reason" binding:"required"`
	Notes       string                  `json:"notes"`
	Lines       []AdjustmentLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// AdjustmentLineRequest is one product correction on an adjustment request
type AdjustmentLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Type      string          `json:"type" binding:"required,oneof=INCREASE DECREASE"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required,dec_gt_zero"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	LotID     *uuid.UUID      `json:"lot_id"`
}

// AdjustmentResponse represents an adjustment in API responses
type AdjustmentResponse struct {
	ID          uuid.UUID                `json:"id"`
	Code        string                   `json:"code"`
	WarehouseID uuid.UUID                `json:"warehouse_id"`
	Status      string                   `json:"status"`
	Reason      string                   `json:"reason"`
	Notes       string                   `json:"notes,omitempty"`
	Lines       []AdjustmentLineResponse `json:"lines"`
	ApprovedBy  *uuid.UUID               `json:"approved_by,omitempty"`
	ApprovedAt  *time.Time               `json:"approved_at,omitempty"`
	ProcessedAt *time.Time               `json:"processed_at,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	Version     int                      `json:"version"`
}

// AdjustmentLineResponse represents an adjustment line in API responses
type AdjustmentLineResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	Type             string          `json:"type"`
	Quantity         decimal.Decimal `json:"quantity"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity"`
	NewQuantity      decimal.Decimal `json:"new_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	LotID            *uuid.UUID      `json:"lot_id,omitempty"`
}

// CreatePhysicalCountRequest represents a request to plan a physical count
type CreatePhysicalCountRequest struct {
	Code        string      `json:"code" binding:"required"`
	WarehouseID uuid.UUID   `json:"warehouse_id" binding:"required"`
	Notes       string      `json:"notes"`
	ProductIDs  []uuid.UUID `json:"product_ids" binding:"required,min=1"`
}

// RecordCountRequest records a counted quantity on a count line
type RecordCountRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	CounterID *uuid.UUID      `json:"counter_id"`
}

// PhysicalCountResponse represents a physical count in API responses
type PhysicalCountResponse struct {
	ID           uuid.UUID                   `json:"id"`
	Code         string                      `json:"code"`
	WarehouseID  uuid.UUID                   `json:"warehouse_id"`
	Status       string                      `json:"status"`
	Notes        string                      `json:"notes,omitempty"`
	Lines        []PhysicalCountLineResponse `json:"lines"`
	AdjustmentID *uuid.UUID                  `json:"adjustment_id,omitempty"`
	StartedAt    *time.Time                  `json:"started_at,omitempty"`
	FinishedAt   *time.Time                  `json:"finished_at,omitempty"`
	AdjustedAt   *time.Time                  `json:"adjusted_at,omitempty"`
	CreatedAt    time.Time                   `json:"created_at"`
	Version      int                         `json:"version"`
}

// PhysicalCountLineResponse represents a count line in API responses
type PhysicalCountLineResponse struct {
	ID         uuid.UUID        `json:"id"`
	ProductID  uuid.UUID        `json:"product_id"`
	SystemQty  decimal.Decimal  `json:"system_qty"`
	CountedQty *decimal.Decimal `json:"counted_qty,omitempty"`
	Difference decimal.Decimal  `json:"difference"`
	CountedAt  *time.Time       `json:"counted_at,omitempty"`
}

// AlertResponse represents a stock alert in API responses
type AlertResponse struct {
	ID             uuid.UUID       `json:"id"`
	Type           string          `json:"type"`
	StockRecordID  uuid.UUID       `json:"stock_record_id"`
	WarehouseID    uuid.UUID       `json:"warehouse_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	LotID          *uuid.UUID      `json:"lot_id,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	Threshold      decimal.Decimal `json:"threshold"`
	Message        string          `json:"message"`
	Acknowledged   bool            `json:"acknowledged"`
	AcknowledgedAt *time.Time      `json:"acknowledged_at,omitempty"`
	AssignedTo     *uuid.UUID      `json:"assigned_to,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToStockRecordResponse converts a domain stock record to a response DTO
func ToStockRecordResponse(r *inventory.StockRecord) StockRecordResponse {
	return StockRecordResponse{
		ID:              r.ID,
		CompanyID:       r.CompanyID,
		WarehouseID:     r.WarehouseID,
		ProductID:       r.ProductID,
		QuantityOnHand:  r.QuantityOnHand,
		UnitCost:        r.UnitCost,
		TotalValue:      r.TotalValue(),
		ValuationMethod: string(r.ValuationMethod),
		MinQuantity:     r.MinQuantity,
		MaxQuantity:     r.MaxQuantity,
		ReorderPoint:    r.ReorderPoint,
		IsBelowMinimum:  r.IsBelowMinimum(),
		IsOutOfStock:    r.IsOutOfStock(),
		UpdatedAt:       r.UpdatedAt,
		Version:         r.Version,
	}
}

// ToStockRecordResponses converts a slice of stock records
func ToStockRecordResponses(records []inventory.StockRecord) []StockRecordResponse {
	responses := make([]StockRecordResponse, len(records))
	for i := range records {
		responses[i] = ToStockRecordResponse(&records[i])
	}
	return responses
}

// ToMovementResponse converts a domain movement to a response DTO
func ToMovementResponse(m *inventory.Movement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		StockRecordID: m.StockRecordID,
		WarehouseID:   m.WarehouseID,
		ProductID:     m.ProductID,
		Kind:          string(m.Kind),
		Quantity:      m.Quantity,
		UnitCost:      m.UnitCost,
		TotalCost:     m.TotalCost,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		LotID:         m.LotID,
		OriginType:    string(m.OriginType),
		OriginID:      m.OriginID,
		Reference:     m.Reference,
		OccurredAt:    m.OccurredAt,
		CreatedAt:     m.CreatedAt,
	}
}

// ToMovementResponses converts a slice of movements
func ToMovementResponses(movements []inventory.Movement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToMovementResponse(&movements[i])
	}
	return responses
}

// ToLotResponse converts a domain lot to a response DTO
func ToLotResponse(l *inventory.Lot) LotResponse {
	return LotResponse{
		ID:                l.ID,
		StockRecordID:     l.StockRecordID,
		WarehouseID:       l.WarehouseID,
		ProductID:         l.ProductID,
		LotNumber:         l.LotNumber,
		ManufactureDate:   l.ManufactureDate,
		ExpiryDate:        l.ExpiryDate,
		InitialQuantity:   l.InitialQuantity,
		RemainingQuantity: l.RemainingQuantity,
		UnitCost:          l.UnitCost,
		Status:            string(l.Status),
		Blocked:           l.Blocked,
		CreatedAt:         l.CreatedAt,
	}
}

// ToLotResponses converts a slice of lots
func ToLotResponses(lots []*inventory.Lot) []LotResponse {
	responses := make([]LotResponse, len(lots))
	for i := range lots {
		responses[i] = ToLotResponse(lots[i])
	}
	return responses
}

// ToReservationResponse converts a domain reservation to a response DTO
func ToReservationResponse(r *inventory.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:            r.ID,
		StockRecordID: r.StockRecordID,
		WarehouseID:   r.WarehouseID,
		ProductID:     r.ProductID,
		Quantity:      r.Quantity,
		Status:        string(r.Status),
		OriginType:    string(r.OriginType),
		OriginID:      r.OriginID,
		Reference:     r.Reference,
		ExpiresAt:     r.ExpiresAt,
		ReleasedAt:    r.ReleasedAt,
		CreatedAt:     r.CreatedAt,
		Version:       r.Version,
	}
}

// ToReservationResponses converts a slice of reservations
func ToReservationResponses(reservations []inventory.Reservation) []ReservationResponse {
	responses := make([]ReservationResponse, len(reservations))
	for i := range reservations {
		responses[i] = ToReservationResponse(&reservations[i])
	}
	return responses
}

// ToTransferResponse converts a domain transfer to a response DTO
func ToTransferResponse(t *inventory.Transfer) TransferResponse {
	lines := make([]TransferLineResponse, len(t.Lines))
	for i, line := range t.Lines {
		lines[i] = TransferLineResponse{
			ID:           line.ID,
			ProductID:    line.ProductID,
			LotNumber:    line.LotNumber,
			RequestedQty: line.RequestedQty,
			ShippedQty:   line.ShippedQty,
			ReceivedQty:  line.ReceivedQty,
			InTransitQty: line.InTransitQty(),
		}
	}
	return TransferResponse{
		ID:                     t.ID,
		Code:                   t.Code,
		SourceWarehouseID:      t.SourceWarehouseID,
		DestinationWarehouseID: t.DestinationWarehouseID,
		Status:                 string(t.Status),
		Notes:                  t.Notes,
		Lines:                  lines,
		ShippedAt:              t.ShippedAt,
		CompletedAt:            t.CompletedAt,
		CreatedAt:              t.CreatedAt,
		Version:                t.Version,
	}
}

// ToTransferResponses converts a slice of transfers
func ToTransferResponses(transfers []inventory.Transfer) []TransferResponse {
	responses := make([]TransferResponse, len(transfers))
	for i := range transfers {
		responses[i] = ToTransferResponse(&transfers[i])
	}
	return responses
}

// ToAdjustmentResponse converts a domain adjustment to a response DTO
func ToAdjustmentResponse(a *inventory.Adjustment) AdjustmentResponse {
	lines := make([]AdjustmentLineResponse, len(a.Lines))
	for i, line := range a.Lines {
		lines[i] = AdjustmentLineResponse{
			ID:               line.ID,
			ProductID:        line.ProductID,
			Type:             string(line.Type),
			Quantity:         line.Quantity,
			PreviousQuantity: line.PreviousQuantity,
			NewQuantity:      line.NewQuantity,
			UnitCost:         line.UnitCost,
			LotID:            line.LotID,
		}
	}
	return AdjustmentResponse{
		ID:          a.ID,
		Code:        a.Code,
		WarehouseID: a.WarehouseID,
		Status:      string(a.Status),
		Reason:      a.Reason,
		Notes:       a.Notes,
		Lines:       lines,
		ApprovedBy:  a.ApprovedBy,
		ApprovedAt:  a.ApprovedAt,
		ProcessedAt: a.ProcessedAt,
		CreatedAt:   a.CreatedAt,
		Version:     a.Version,
	}
}

// ToAdjustmentResponses converts a slice of adjustments
func ToAdjustmentResponses(adjustments []inventory.Adjustment) []AdjustmentResponse {
	responses := make([]AdjustmentResponse, len(adjustments))
	for i := range adjustments {
		responses[i] = ToAdjustmentResponse(&adjustments[i])
	}
	return responses
}

// ToPhysicalCountResponse converts a domain physical count to a response DTO
func ToPhysicalCountResponse(c *inventory.PhysicalCount) PhysicalCountResponse {
	lines := make([]PhysicalCountLineResponse, len(c.Lines))
	for i, line := range c.Lines {
		lines[i] = PhysicalCountLineResponse{
			ID:         line.ID,
			ProductID:  line.ProductID,
			SystemQty:  line.SystemQty,
			CountedQty: line.CountedQty,
			Difference: line.Difference(),
			CountedAt:  line.CountedAt,
		}
	}
	return PhysicalCountResponse{
		ID:           c.ID,
		Code:         c.Code,
		WarehouseID:  c.WarehouseID,
		Status:       string(c.Status),
		Notes:        c.Notes,
		Lines:        lines,
		AdjustmentID: c.AdjustmentID,
		StartedAt:    c.StartedAt,
		FinishedAt:   c.FinishedAt,
		AdjustedAt:   c.AdjustedAt,
		CreatedAt:    c.CreatedAt,
		Version:      c.Version,
	}
}

// ToPhysicalCountResponses converts a slice of physical counts
func ToPhysicalCountResponses(counts []inventory.PhysicalCount) []PhysicalCountResponse {
	responses := make([]PhysicalCountResponse, len(counts))
	for i := range counts {
		responses[i] = ToPhysicalCountResponse(&counts[i])
	}
	return responses
}

// ToAlertResponse converts a domain alert to a response DTO
func ToAlertResponse(a *inventory.Alert) AlertResponse {
	return AlertResponse{
		ID:             a.ID,
		Type:           string(a.Type),
		StockRecordID:  a.StockRecordID,
		WarehouseID:    a.WarehouseID,
		ProductID:      a.ProductID,
		LotID:          a.LotID,
		Quantity:       a.Quantity,
		Threshold:      a.Threshold,
		Message:        a.Message,
		Acknowledged:   a.Acknowledged,
		AcknowledgedAt: a.AcknowledgedAt,
		AssignedTo:     a.AssignedTo,
		CreatedAt:      a.CreatedAt,
	}
}

// ToAlertResponses converts a slice of alerts
func ToAlertResponses(alerts []inventory.Alert) []AlertResponse {
	responses := make([]AlertResponse, len(alerts))
	for i := range alerts {
		responses[i] = ToAlertResponse(&alerts[i])
	}
	return responses
}
