package inventory

import (
	"time"

	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AlertType classifies a stock alert
type AlertType string

const (
	AlertTypeLowStock     AlertType = "LOW_STOCK"
	AlertTypeOutOfStock   AlertType = "OUT_OF_STOCK"
	AlertTypeOverstock    AlertType = "OVERSTOCK"
	AlertTypeExpiringSoon AlertType = "EXPIRING_SOON"
	AlertTypeExpired      AlertType = "EXPIRED"
)

// Alert is a derived condition on a stock record or lot. Alerts are
// recomputed from current state, never stored as authoritative facts; the
// persisted record only tracks acknowledgement.
type Alert struct {
	shared.BaseEntity
	CompanyID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type           AlertType       `gorm:"type:varchar(20);not null;index"`
	StockRecordID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	WarehouseID    uuid.UUID       `gorm:"type:uuid;not null"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null"`
	LotID          *uuid.UUID      `gorm:"type:uuid"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Threshold      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Message        string          `gorm:"type:varchar(255);not null"`
	Acknowledged   bool            `gorm:"not null;default:false;index"`
	AcknowledgedBy *uuid.UUID      `gorm:"type:uuid"`
	AcknowledgedAt *time.Time
	AssignedTo     *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Alert) TableName() string {
	return "stock_alerts"
}

// Acknowledge marks the alert as seen. Acknowledging twice is a no-op.
func (a *Alert) Acknowledge(userID uuid.UUID, now time.Time) {
	if a.Acknowledged {
		return
	}
	a.Acknowledged = true
	a.AcknowledgedBy = &userID
	a.AcknowledgedAt = &now
	a.Touch()
}

// Assign hands the alert to a user for follow-up
func (a *Alert) Assign(userID uuid.UUID) {
	a.AssignedTo = &userID
	a.Touch()
}

// EvaluateStockAlerts derives threshold alerts from a stock record's current
// state. Out-of-stock and low-stock are mutually exclusive: a zero quantity
// raises only OUT_OF_STOCK.
func EvaluateStockAlerts(record *StockRecord) []*Alert {
	alerts := make([]*Alert, 0, 2)

	switch {
	case record.IsOutOfStock():
		alerts = append(alerts, newStockAlert(record, AlertTypeOutOfStock, record.MinQuantity, "Product is out of stock"))
	case record.IsBelowMinimum():
		alerts = append(alerts, newStockAlert(record, AlertTypeLowStock, record.MinQuantity, "Stock is at or below minimum quantity"))
	}
	if record.IsAboveMaximum() {
		alerts = append(alerts, newStockAlert(record, AlertTypeOverstock, record.MaxQuantity, "Stock exceeds maximum quantity"))
	}
	return alerts
}

// EvaluateLotAlerts derives expiry alerts for the lots of a stock record.
// Depleted lots never alert.
func EvaluateLotAlerts(record *StockRecord, lots []*Lot, now time.Time, expiryWindow time.Duration) []*Alert {
	alerts := make([]*Alert, 0)
	for _, lot := range lots {
		if !lot.RemainingQuantity.IsPositive() {
			continue
		}
		if lot.IsExpiredAt(now) {
			alert := newStockAlert(record, AlertTypeExpired, decimal.Zero, "Lot "+lot.LotNumber+" has expired")
			alert.LotID = &lot.ID
			alert.Quantity = lot.RemainingQuantity
			alerts = append(alerts, alert)
		} else if lot.ExpiresWithin(now, expiryWindow) {
			alert := newStockAlert(record, AlertTypeExpiringSoon, decimal.Zero, "Lot "+lot.LotNumber+" expires soon")
			alert.LotID = &lot.ID
			alert.Quantity = lot.RemainingQuantity
			alerts = append(alerts, alert)
		}
	}
	return alerts
}

func newStockAlert(record *StockRecord, alertType AlertType, threshold decimal.Decimal, message string) *Alert {
	return &Alert{
		BaseEntity:    shared.NewBaseEntity(),
		CompanyID:     record.CompanyID,
		Type:          alertType,
		StockRecordID: record.ID,
		WarehouseID:   record.WarehouseID,
		ProductID:     record.ProductID,
		Quantity:      record.QuantityOnHand,
		Threshold:     threshold,
		Message:       message,
	}
}
