package inventory

import (
	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValuationMethod is the cost-tracking policy of a stock record
type ValuationMethod string

const (
	ValuationAverage       ValuationMethod = "AVERAGE"
	ValuationFIFO          ValuationMethod = "FIFO"
	ValuationLIFO          ValuationMethod = "LIFO"
	ValuationSpecificPrice ValuationMethod = "SPECIFIC_PRICE"
)

// String returns the string representation of ValuationMethod
func (v ValuationMethod) String() string {
	return string(v)
}

// IsValid returns true if the valuation method is known
func (v ValuationMethod) IsValid() bool {
	switch v {
	case ValuationAverage, ValuationFIFO, ValuationLIFO, ValuationSpecificPrice:
		return true
	}
	return false
}

// UsesLots returns true if outbound costing draws from lots
func (v ValuationMethod) UsesLots() bool {
	return v == ValuationFIFO || v == ValuationLIFO
}

// StockRecord tracks on-hand quantity and valuation for one product at one
// warehouse. It is a cached projection of the movement log, never the source
// of truth: QuantityOnHand is always recomputable as the signed sum of all
// movements for the (product, warehouse) pair.
//
// Only the movement engine mutates QuantityOnHand and UnitCost, and only
// under a row-level write lock inside the posting transaction.
type StockRecord struct {
	shared.CompanyAggregateRoot
	WarehouseID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_record_company_wh_prod,priority:2"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_record_company_wh_prod,priority:3"`
	QuantityOnHand  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ValuationMethod ValuationMethod `gorm:"type:varchar(20);not null;default:'AVERAGE'"`
	MinQuantity     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MaxQuantity     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderPoint    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockRecord) TableName() string {
	return "stock_records"
}

// NewStockRecord creates a new stock record for a warehouse-product combination
func NewStockRecord(companyID, warehouseID, productID uuid.UUID, method ValuationMethod) (*StockRecord, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if method == "" {
		method = ValuationAverage
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_VALUATION_METHOD", "Invalid valuation method")
	}

	return &StockRecord{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		WarehouseID:          warehouseID,
		ProductID:            productID,
		QuantityOnHand:       decimal.Zero,
		UnitCost:             decimal.Zero,
		ValuationMethod:      method,
	}, nil
}

// ApplyInbound increases on-hand quantity and recomputes the unit cost
// according to the valuation method. For FIFO/LIFO the unit cost is a
// weighted snapshot of remaining lots and is set separately by the engine
// after lot state is updated.
func (r *StockRecord) ApplyInbound(quantity, unitCost decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Unit cost cannot be negative")
	}

	switch r.ValuationMethod {
	case ValuationAverage:
		// new_cost = (old_qty*old_cost + in_qty*in_cost) / (old_qty + in_qty)
		if r.QuantityOnHand.IsZero() {
			r.UnitCost = unitCost
		} else {
			totalValue := r.QuantityOnHand.Mul(r.UnitCost).Add(quantity.Mul(unitCost))
			r.UnitCost = totalValue.Div(r.QuantityOnHand.Add(quantity)).Round(4)
		}
	case ValuationSpecificPrice:
		r.UnitCost = unitCost
	}

	r.QuantityOnHand = r.QuantityOnHand.Add(quantity)
	r.Touch()
	r.IncrementVersion()
	return nil
}

// ApplyOutbound decreases on-hand quantity. The unit cost is unchanged for
// AVERAGE; for FIFO/LIFO the engine sets the remaining-lot snapshot after
// lot consumption. Fails if the quantity would drive on-hand negative.
func (r *StockRecord) ApplyOutbound(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}
	if r.QuantityOnHand.LessThan(quantity) {
		return ErrInsufficientStock
	}

	r.QuantityOnHand = r.QuantityOnHand.Sub(quantity)
	r.Touch()
	r.IncrementVersion()
	return nil
}

// SetUnitCostSnapshot overwrites the cached unit cost. Used by the movement
// engine for FIFO/LIFO records after lot state changes.
func (r *StockRecord) SetUnitCostSnapshot(cost decimal.Decimal) {
	r.UnitCost = cost
	r.Touch()
}

// SetThresholds sets the reorder thresholds used by alerting
func (r *StockRecord) SetThresholds(minQty, maxQty, reorderPoint decimal.Decimal) error {
	if minQty.IsNegative() || maxQty.IsNegative() || reorderPoint.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Thresholds cannot be negative")
	}
	r.MinQuantity = minQty
	r.MaxQuantity = maxQty
	r.ReorderPoint = reorderPoint
	r.Touch()
	r.IncrementVersion()
	return nil
}

// SetValuationMethod changes the cost-tracking policy
func (r *StockRecord) SetValuationMethod(method ValuationMethod) error {
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_VALUATION_METHOD", "Invalid valuation method")
	}
	r.ValuationMethod = method
	r.Touch()
	r.IncrementVersion()
	return nil
}

// TotalValue returns on-hand quantity times unit cost
func (r *StockRecord) TotalValue() decimal.Decimal {
	return r.QuantityOnHand.Mul(r.UnitCost)
}

// IsBelowMinimum returns true if on-hand is at or below the minimum threshold
// while still positive
func (r *StockRecord) IsBelowMinimum() bool {
	return r.MinQuantity.IsPositive() &&
		r.QuantityOnHand.IsPositive() &&
		r.QuantityOnHand.LessThanOrEqual(r.MinQuantity)
}

// IsOutOfStock returns true if there is no stock on hand
func (r *StockRecord) IsOutOfStock() bool {
	return r.QuantityOnHand.IsZero()
}

// IsAboveMaximum returns true if on-hand exceeds the maximum threshold
func (r *StockRecord) IsAboveMaximum() bool {
	return r.MaxQuantity.IsPositive() && r.QuantityOnHand.GreaterThan(r.MaxQuantity)
}

// CanFulfill returns true if on-hand covers the requested quantity
func (r *StockRecord) CanFulfill(quantity decimal.Decimal) bool {
	return r.QuantityOnHand.GreaterThanOrEqual(quantity)
}
