package inventory

import (
	"time"

	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LotStatus represents the derived status of a lot
type LotStatus string

const (
	LotStatusAvailable LotStatus = "AVAILABLE"
	LotStatusBlocked   LotStatus = "BLOCKED"
	LotStatusExpired   LotStatus = "EXPIRED"
	LotStatusDepleted  LotStatus = "DEPLETED"
)

// Lot is a traceable sub-quantity of a product at a warehouse. Lots are
// never deleted: a depleted lot stays as historical trace for the movements
// that reference it.
type Lot struct {
	shared.BaseEntity
	CompanyID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	StockRecordID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	WarehouseID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	LotNumber         string          `gorm:"type:varchar(100);not null;index"`
	ManufactureDate   *time.Time      `gorm:"type:date"`
	ExpiryDate        *time.Time      `gorm:"type:date;index"`
	InitialQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RemainingQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status            LotStatus       `gorm:"type:varchar(20);not null;default:'AVAILABLE'"`
	Blocked           bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Lot) TableName() string {
	return "lots"
}

// NewLot creates a new lot from an inbound movement
func NewLot(
	companyID, stockRecordID, warehouseID, productID uuid.UUID,
	lotNumber string,
	manufactureDate, expiryDate *time.Time,
	quantity, unitCost decimal.Decimal,
) (*Lot, error) {
	if lotNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Lot number cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Lot quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Lot unit cost cannot be negative")
	}
	if manufactureDate != nil && expiryDate != nil && expiryDate.Before(*manufactureDate) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Expiry date cannot precede manufacture date")
	}

	lot := &Lot{
		BaseEntity:        shared.NewBaseEntity(),
		CompanyID:         companyID,
		StockRecordID:     stockRecordID,
		WarehouseID:       warehouseID,
		ProductID:         productID,
		LotNumber:         lotNumber,
		ManufactureDate:   manufactureDate,
		ExpiryDate:        expiryDate,
		InitialQuantity:   quantity,
		RemainingQuantity: quantity,
		UnitCost:          unitCost,
	}
	lot.Status = lot.DeriveStatus(time.Now())
	return lot, nil
}

// Decrement reduces the remaining quantity by an outbound movement.
// Fails if the lot does not hold enough.
func (l *Lot) Decrement(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}
	if l.RemainingQuantity.LessThan(quantity) {
		return ErrLotDepleted
	}
	l.RemainingQuantity = l.RemainingQuantity.Sub(quantity)
	l.Status = l.DeriveStatus(time.Now())
	l.Touch()
	return nil
}

// Increment restores remaining quantity (reversal of a lot-linked outbound).
// Remaining may never exceed the initial quantity.
func (l *Lot) Increment(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}
	if l.RemainingQuantity.Add(quantity).GreaterThan(l.InitialQuantity) {
		return shared.NewDomainError("VALIDATION_ERROR", "Remaining quantity cannot exceed initial quantity")
	}
	l.RemainingQuantity = l.RemainingQuantity.Add(quantity)
	l.Status = l.DeriveStatus(time.Now())
	l.Touch()
	return nil
}

// Restock adds new quantity to an existing lot, growing both the initial
// and remaining quantities. Used when an inbound document names a lot that
// already exists, such as an adjustment increase.
func (l *Lot) Restock(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}
	l.InitialQuantity = l.InitialQuantity.Add(quantity)
	l.RemainingQuantity = l.RemainingQuantity.Add(quantity)
	l.Status = l.DeriveStatus(time.Now())
	l.Touch()
	return nil
}

// Block prevents the lot from being consumed by outbound movements
func (l *Lot) Block() {
	l.Blocked = true
	l.Status = l.DeriveStatus(time.Now())
	l.Touch()
}

// Unblock makes the lot consumable again
func (l *Lot) Unblock() {
	l.Blocked = false
	l.Status = l.DeriveStatus(time.Now())
	l.Touch()
}

// DeriveStatus computes the status from current state. Depleted wins over
// expired, expired over blocked.
func (l *Lot) DeriveStatus(now time.Time) LotStatus {
	if l.RemainingQuantity.IsZero() {
		return LotStatusDepleted
	}
	if l.IsExpiredAt(now) {
		return LotStatusExpired
	}
	if l.Blocked {
		return LotStatusBlocked
	}
	return LotStatusAvailable
}

// IsExpiredAt returns true if the lot has expired at the given time
func (l *Lot) IsExpiredAt(now time.Time) bool {
	return l.ExpiryDate != nil && l.ExpiryDate.Before(now)
}

// ExpiresWithin returns true if the lot expires within the given window
func (l *Lot) ExpiresWithin(now time.Time, window time.Duration) bool {
	if l.ExpiryDate == nil {
		return false
	}
	return !l.IsExpiredAt(now) && l.ExpiryDate.Before(now.Add(window))
}

// IsConsumable returns true if outbound movements may draw from this lot
func (l *Lot) IsConsumable(now time.Time) bool {
	return l.RemainingQuantity.IsPositive() && !l.Blocked && !l.IsExpiredAt(now)
}

// RemainingValue returns remaining quantity times unit cost
func (l *Lot) RemainingValue() decimal.Decimal {
	return l.RemainingQuantity.Mul(l.UnitCost)
}
