package inventory

import (
	"time"

	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReservationStatus represents the lifecycle state of a reservation
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusExpired   ReservationStatus = "EXPIRED"
)

// Reservation is a soft hold on stock. It never moves quantity; it only
// reduces availability until it is cancelled, expired, or released by the
// outbound movement that fulfills it.
type Reservation struct {
	shared.CompanyAggregateRoot
	StockRecordID uuid.UUID         `gorm:"type:uuid;not null;index"`
	WarehouseID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	Quantity      decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Status        ReservationStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	OriginType    OriginType        `gorm:"type:varchar(30);not null"`
	OriginID      *uuid.UUID        `gorm:"type:uuid"`
	Reference     string            `gorm:"type:varchar(255)"`
	ExpiresAt     *time.Time        `gorm:"index"`
	ReleasedAt    *time.Time
}

// TableName returns the table name for GORM
func (Reservation) TableName() string {
	return "reservations"
}

// NewReservation creates a pending reservation
func NewReservation(
	companyID, stockRecordID, warehouseID, productID uuid.UUID,
	quantity decimal.Decimal,
	originType OriginType,
	expiresAt *time.Time,
) (*Reservation, error) {
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Reservation quantity must be positive")
	}
	if expiresAt != nil && expiresAt.Before(time.Now()) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Expiration time must be in the future")
	}

	return &Reservation{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		StockRecordID:        stockRecordID,
		WarehouseID:          warehouseID,
		ProductID:            productID,
		Quantity:             quantity,
		Status:               ReservationStatusPending,
		OriginType:           originType,
		ExpiresAt:            expiresAt,
	}, nil
}

// WithOriginID links the reservation to its originating document
func (r *Reservation) WithOriginID(originID uuid.UUID) *Reservation {
	r.OriginID = &originID
	return r
}

// WithReference sets a free-form reference
func (r *Reservation) WithReference(reference string) *Reservation {
	r.Reference = reference
	return r
}

// Confirm moves PENDING to CONFIRMED. Confirming an already confirmed
// reservation is a no-op.
func (r *Reservation) Confirm() error {
	switch r.Status {
	case ReservationStatusConfirmed:
		return nil
	case ReservationStatusPending:
		r.Status = ReservationStatusConfirmed
		r.Touch()
		r.IncrementVersion()
		return nil
	default:
		return ErrInvalidStateTransition
	}
}

// Cancel releases the hold. Cancelling an already cancelled reservation is a
// no-op; cancelling an expired one is rejected.
func (r *Reservation) Cancel() error {
	switch r.Status {
	case ReservationStatusCancelled:
		return nil
	case ReservationStatusPending, ReservationStatusConfirmed:
		now := time.Now()
		r.Status = ReservationStatusCancelled
		r.ReleasedAt = &now
		r.Touch()
		r.IncrementVersion()
		return nil
	default:
		return ErrInvalidStateTransition
	}
}

// Expire marks an active reservation as expired. Only reservations that carry
// an expiration time and have passed it may expire.
func (r *Reservation) Expire(now time.Time) error {
	if r.Status != ReservationStatusPending && r.Status != ReservationStatusConfirmed {
		return ErrInvalidStateTransition
	}
	if r.ExpiresAt == nil || r.ExpiresAt.After(now) {
		return ErrInvalidStateTransition
	}
	r.Status = ReservationStatusExpired
	r.ReleasedAt = &now
	r.Touch()
	r.IncrementVersion()
	return nil
}

// IsActive returns true if the reservation still holds availability at the
// given time. A pending or confirmed reservation past its expiration time no
// longer counts, even before the expiry sweep persists the status change.
func (r *Reservation) IsActive(now time.Time) bool {
	if r.Status != ReservationStatusPending && r.Status != ReservationStatusConfirmed {
		return false
	}
	if r.ExpiresAt != nil && !r.ExpiresAt.After(now) {
		return false
	}
	return true
}
