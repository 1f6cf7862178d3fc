package inventory

import (
	"time"

	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementKind represents the kind of an inventory movement.
// Direction is encoded by the kind, not by the sign of the quantity:
// quantities are always positive.
type MovementKind string

const (
	// Inbound kinds
	MovementKindPurchaseReceipt MovementKind = "PURCHASE_RECEIPT"
	MovementKindTransferIn      MovementKind = "TRANSFER_IN"
	MovementKindSalesReturn     MovementKind = "SALES_RETURN"
	MovementKindAdjustmentIn    MovementKind = "ADJUSTMENT_IN"
	MovementKindInitial         MovementKind = "INITIAL"
	MovementKindManualIn        MovementKind = "MANUAL_IN"
	MovementKindReversalIn      MovementKind = "REVERSAL_IN"

	// Outbound kinds
	MovementKindSaleIssue      MovementKind = "SALE_ISSUE"
	MovementKindTransferOut    MovementKind = "TRANSFER_OUT"
	MovementKindPurchaseReturn MovementKind = "PURCHASE_RETURN"
	MovementKindAdjustmentOut  MovementKind = "ADJUSTMENT_OUT"
	MovementKindWriteOff       MovementKind = "WRITE_OFF"
	MovementKindManualOut      MovementKind = "MANUAL_OUT"
	MovementKindReversalOut    MovementKind = "REVERSAL_OUT"
)

// String returns the string representation of MovementKind
func (k MovementKind) String() string {
	return string(k)
}

// IsInbound returns true if this kind increases on-hand quantity
func (k MovementKind) IsInbound() bool {
	switch k {
	case MovementKindPurchaseReceipt,
		MovementKindTransferIn,
		MovementKindSalesReturn,
		MovementKindAdjustmentIn,
		MovementKindInitial,
		MovementKindManualIn,
		MovementKindReversalIn:
		return true
	}
	return false
}

// IsOutbound returns true if this kind decreases on-hand quantity
func (k MovementKind) IsOutbound() bool {
	switch k {
	case MovementKindSaleIssue,
		MovementKindTransferOut,
		MovementKindPurchaseReturn,
		MovementKindAdjustmentOut,
		MovementKindWriteOff,
		MovementKindManualOut,
		MovementKindReversalOut:
		return true
	}
	return false
}

// IsValid returns true if the movement kind is known
func (k MovementKind) IsValid() bool {
	return k.IsInbound() || k.IsOutbound()
}

// IsReversal returns true for the dedicated reversal kinds
func (k MovementKind) IsReversal() bool {
	return k == MovementKindReversalIn || k == MovementKindReversalOut
}

// ReversalKind returns the kind used by a movement that reverses this one
func (k MovementKind) ReversalKind() MovementKind {
	if k.IsInbound() {
		return MovementKindReversalOut
	}
	return MovementKindReversalIn
}

// OriginType identifies the document type that caused a movement
type OriginType string

const (
	OriginTypePurchase      OriginType = "PURCHASE"
	OriginTypeSale          OriginType = "SALE"
	OriginTypeTransfer      OriginType = "TRANSFER"
	OriginTypeAdjustment    OriginType = "ADJUSTMENT"
	OriginTypePhysicalCount OriginType = "PHYSICAL_COUNT"
	OriginTypeReversal      OriginType = "REVERSAL"
	OriginTypeManual        OriginType = "MANUAL"
	OriginTypeInitial       OriginType = "INITIAL"
)

// String returns the string representation of OriginType
func (o OriginType) String() string {
	return string(o)
}

// IsValid returns true if the origin type is known
func (o OriginType) IsValid() bool {
	switch o {
	case OriginTypePurchase, OriginTypeSale, OriginTypeTransfer,
		OriginTypeAdjustment, OriginTypePhysicalCount, OriginTypeReversal,
		OriginTypeManual, OriginTypeInitial:
		return true
	}
	return false
}

// IsDocumentDriven returns true for origins posted by another document's
// workflow rather than directly by an operator
func (o OriginType) IsDocumentDriven() bool {
	switch o {
	case OriginTypeTransfer, OriginTypeAdjustment, OriginTypePhysicalCount, OriginTypeReversal:
		return true
	}
	return false
}

// Movement is an immutable, append-only record of a single inventory event.
// It is the sole source of truth for stock quantities: the on-hand quantity
// of any stock record must equal the signed sum of its movements.
// Movements are never updated or deleted; corrections are made by posting an
// equal-and-opposite reversing movement that references the original.
type Movement struct {
	shared.BaseEntity
	CompanyID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_company_time,priority:1"`
	StockRecordID uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_record"`
	WarehouseID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_warehouse"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_product"`
	Kind          MovementKind    `gorm:"type:varchar(30);not null;index:idx_movement_kind"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Always positive
	UnitCost      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalCost     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceBefore decimal.Decimal `gorm:"type:decimal(18,4);not null"` // On-hand before posting
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null"` // On-hand after posting
	LotID         *uuid.UUID      `gorm:"type:uuid;index"`
	OriginType    OriginType      `gorm:"type:varchar(30);not null;index:idx_movement_origin"`
	OriginID      string          `gorm:"type:varchar(100);not null;index:idx_movement_origin"`
	Reference     string          `gorm:"type:varchar(255)"`
	ActorID       *uuid.UUID      `gorm:"type:uuid"`
	OccurredAt    time.Time       `gorm:"not null;index:idx_movement_company_time,priority:2"`
}

// TableName returns the table name for GORM
func (Movement) TableName() string {
	return "movements"
}

// NewMovement creates a new movement record. Quantity must be strictly
// positive; the kind carries the direction.
func NewMovement(
	companyID, stockRecordID, warehouseID, productID uuid.UUID,
	kind MovementKind,
	quantity, unitCost, balanceBefore, balanceAfter decimal.Decimal,
	originType OriginType,
	originID string,
) (*Movement, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company ID cannot be empty")
	}
	if stockRecordID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STOCK_RECORD", "Stock record ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_KIND", "Invalid movement kind")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Movement quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unit cost cannot be negative")
	}
	if !originType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ORIGIN_TYPE", "Invalid origin type")
	}
	if originID == "" {
		return nil, shared.NewDomainError("INVALID_ORIGIN_ID", "Origin ID cannot be empty")
	}

	return &Movement{
		BaseEntity:    shared.NewBaseEntity(),
		CompanyID:     companyID,
		StockRecordID: stockRecordID,
		WarehouseID:   warehouseID,
		ProductID:     productID,
		Kind:          kind,
		Quantity:      quantity,
		UnitCost:      unitCost,
		TotalCost:     quantity.Mul(unitCost),
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		OriginType:    originType,
		OriginID:      originID,
		OccurredAt:    time.Now(),
	}, nil
}

// WithLotID links the movement to a lot
func (m *Movement) WithLotID(lotID uuid.UUID) *Movement {
	m.LotID = &lotID
	return m
}

// WithReference sets the free-text reference
func (m *Movement) WithReference(reference string) *Movement {
	m.Reference = reference
	return m
}

// WithActorID records the acting user
func (m *Movement) WithActorID(actorID uuid.UUID) *Movement {
	m.ActorID = &actorID
	return m
}

// WithOccurredAt overrides the movement timestamp
func (m *Movement) WithOccurredAt(t time.Time) *Movement {
	m.OccurredAt = t
	return m
}

// SignedQuantity returns the quantity with sign derived from the kind
func (m *Movement) SignedQuantity() decimal.Decimal {
	if m.Kind.IsOutbound() {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// SignedTotalCost returns the total cost with sign derived from the kind
func (m *Movement) SignedTotalCost() decimal.Decimal {
	if m.Kind.IsOutbound() {
		return m.TotalCost.Neg()
	}
	return m.TotalCost
}

// IsReversalOf returns true if this movement reverses the given one
func (m *Movement) IsReversalOf(original *Movement) bool {
	return m.OriginType == OriginTypeReversal && m.OriginID == original.ID.String()
}
