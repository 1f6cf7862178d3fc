package inventory

import (
	"time"

	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferStatus represents the lifecycle state of a transfer
type TransferStatus string

const (
	TransferStatusPending           TransferStatus = "PENDING"
	TransferStatusInTransit         TransferStatus = "IN_TRANSIT"
	TransferStatusPartiallyReceived TransferStatus = "PARTIALLY_RECEIVED"
	TransferStatusReceived          TransferStatus = "RECEIVED"
	TransferStatusCancelled         TransferStatus = "CANCELLED"
)

// Transfer moves stock between two warehouses of the same company. Shipping
// issues stock at the source; receiving enters it at the destination.
// Quantity in transit is the shipped minus received difference and lives in
// neither warehouse's on-hand.
type Transfer struct {
	shared.CompanyAggregateRoot
	Code                   string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_transfer_company_code,priority:2"`
	SourceWarehouseID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	DestinationWarehouseID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status                 TransferStatus  `gorm:"type:varchar(30);not null;default:'PENDING';index"`
	Notes                  string          `gorm:"type:text"`
	Lines                  []*TransferLine `gorm:"foreignKey:TransferID"`
	ShippedAt              *time.Time
	CompletedAt            *time.Time
}

// TransferLine is one product on a transfer. Received never exceeds shipped,
// shipped never exceeds requested.
type TransferLine struct {
	shared.BaseEntity
	TransferID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	LotID           *uuid.UUID      `gorm:"type:uuid"`
	LotNumber       string          `gorm:"type:varchar(100)"`
	RequestedQty    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ShippedQty      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReceivedQty     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ShippedUnitCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Transfer) TableName() string {
	return "transfers"
}

// TableName returns the table name for GORM
func (TransferLine) TableName() string {
	return "transfer_lines"
}

// NewTransfer creates a pending transfer between two distinct warehouses
func NewTransfer(companyID, sourceWarehouseID, destinationWarehouseID uuid.UUID, code string) (*Transfer, error) {
	if code == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Transfer code cannot be empty")
	}
	if sourceWarehouseID == destinationWarehouseID {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Source and destination warehouses must differ")
	}

	return &Transfer{
		CompanyAggregateRoot:   shared.NewCompanyAggregateRoot(companyID),
		Code:                   code,
		SourceWarehouseID:      sourceWarehouseID,
		DestinationWarehouseID: destinationWarehouseID,
		Status:                 TransferStatusPending,
		Lines:                  make([]*TransferLine, 0),
	}, nil
}

// AddLine adds a product line. Only allowed while pending.
func (t *Transfer) AddLine(productID uuid.UUID, requestedQty decimal.Decimal) (*TransferLine, error) {
	if t.Status != TransferStatusPending {
		return nil, ErrInvalidStateTransition
	}
	if !requestedQty.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Requested quantity must be positive")
	}
	for _, line := range t.Lines {
		if line.ProductID == productID {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Product already present on transfer")
		}
	}

	line := &TransferLine{
		BaseEntity:   shared.NewBaseEntity(),
		TransferID:   t.ID,
		ProductID:    productID,
		RequestedQty: requestedQty,
		ShippedQty:   decimal.Zero,
		ReceivedQty:  decimal.Zero,
	}
	t.Lines = append(t.Lines, line)
	t.Touch()
	return line, nil
}

// Ship moves PENDING to IN_TRANSIT. shipped maps productID to the quantity
// actually issued; products absent from the map ship the requested quantity.
// Stock movements are the caller's responsibility, in the same transaction.
func (t *Transfer) Ship(shipped map[uuid.UUID]decimal.Decimal, now time.Time) error {
	if t.Status != TransferStatusPending {
		return ErrInvalidStateTransition
	}
	if len(t.Lines) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Transfer has no lines")
	}

	for _, line := range t.Lines {
		qty, ok := shipped[line.ProductID]
		if !ok {
			qty = line.RequestedQty
		}
		if !qty.IsPositive() {
			return shared.NewDomainError("VALIDATION_ERROR", "Shipped quantity must be positive")
		}
		if qty.GreaterThan(line.RequestedQty) {
			return shared.NewDomainError("VALIDATION_ERROR", "Shipped quantity cannot exceed requested quantity")
		}
		line.ShippedQty = qty
		line.Touch()
	}

	t.Status = TransferStatusInTransit
	t.ShippedAt = &now
	t.Touch()
	t.IncrementVersion()
	return nil
}

// Receive records quantities arriving at the destination. Partial receipts
// leave the transfer PARTIALLY_RECEIVED; once every line is fully received
// the transfer completes. received maps productID to the quantity accepted
// in this receipt.
func (t *Transfer) Receive(received map[uuid.UUID]decimal.Decimal, now time.Time) error {
	if t.Status != TransferStatusInTransit && t.Status != TransferStatusPartiallyReceived {
		return ErrInvalidStateTransition
	}
	if len(received) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Receipt has no quantities")
	}

	for productID, qty := range received {
		line := t.lineByProduct(productID)
		if line == nil {
			return shared.NewDomainError("VALIDATION_ERROR", "Product not present on transfer")
		}
		if !qty.IsPositive() {
			return shared.NewDomainError("VALIDATION_ERROR", "Received quantity must be positive")
		}
		if line.ReceivedQty.Add(qty).GreaterThan(line.ShippedQty) {
			return shared.NewDomainError("VALIDATION_ERROR", "Received quantity cannot exceed shipped quantity")
		}
	}

	for productID, qty := range received {
		line := t.lineByProduct(productID)
		line.ReceivedQty = line.ReceivedQty.Add(qty)
		line.Touch()
	}

	if t.fullyReceived() {
		t.Status = TransferStatusReceived
		t.CompletedAt = &now
	} else {
		t.Status = TransferStatusPartiallyReceived
	}
	t.Touch()
	t.IncrementVersion()
	return nil
}

// Cancel aborts the transfer. Only a pending transfer may be cancelled; once
// stock has shipped the remedy is receiving it at either end, not deletion.
func (t *Transfer) Cancel() error {
	if t.Status != TransferStatusPending {
		return ErrInvalidStateTransition
	}
	t.Status = TransferStatusCancelled
	t.Touch()
	t.IncrementVersion()
	return nil
}

// InTransitQty returns the shipped-minus-received quantity for a line
func (l *TransferLine) InTransitQty() decimal.Decimal {
	return l.ShippedQty.Sub(l.ReceivedQty)
}

func (t *Transfer) lineByProduct(productID uuid.UUID) *TransferLine {
	for _, line := range t.Lines {
		if line.ProductID == productID {
			return line
		}
	}
	return nil
}

func (t *Transfer) fullyReceived() bool {
	for _, line := range t.Lines {
		if line.ReceivedQty.LessThan(line.ShippedQty) {
			return false
		}
	}
	return true
}
