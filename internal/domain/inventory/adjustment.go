package inventory

import (
	"time"

	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdjustmentStatus represents the lifecycle state of an adjustment
type AdjustmentStatus string

const (
	AdjustmentStatusPending   AdjustmentStatus = "PENDING"
	AdjustmentStatusApproved  AdjustmentStatus = "APPROVED"
	AdjustmentStatusRejected  AdjustmentStatus = "REJECTED"
	AdjustmentStatusProcessed AdjustmentStatus = "PROCESSED"
)

// AdjustmentType is the direction of a stock adjustment
type AdjustmentType string

const (
	AdjustmentTypeIncrease AdjustmentType = "INCREASE"
	AdjustmentTypeDecrease AdjustmentType = "DECREASE"
)

// Adjustment is an approval-gated correction of on-hand stock. The stock does
// not change at creation or approval; only processing posts the movements.
type Adjustment struct {
	shared.CompanyAggregateRoot
	Code        string            `gorm:"type:varchar(50);not null;uniqueIndex:idx_adjustment_company_code,priority:2"`
	WarehouseID uuid.UUID         `gorm:"type:uuid;not null;index"`
	Status      AdjustmentStatus  `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Reason      string            `gorm:"type:varchar(255);not null"`
	Notes       string            `gorm:"type:text"`
	Lines       []*AdjustmentLine `gorm:"foreignKey:AdjustmentID"`
	ApprovedBy  *uuid.UUID        `gorm:"type:uuid"`
	ApprovedAt  *time.Time
	ProcessedAt *time.Time
}

// AdjustmentLine is one product correction on an adjustment. Previous and new
// quantities snapshot the on-hand state the correction was decided against,
// so the line stays auditable after later movements change the record.
type AdjustmentLine struct {
	shared.BaseEntity
	AdjustmentID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	LotID            *uuid.UUID      `gorm:"type:uuid"`
	Type             AdjustmentType  `gorm:"type:varchar(10);not null"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PreviousQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	NewQuantity      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Adjustment) TableName() string {
	return "adjustments"
}

// TableName returns the table name for GORM
func (AdjustmentLine) TableName() string {
	return "adjustment_lines"
}

// NewAdjustment creates a pending adjustment
func NewAdjustment(companyID, warehouseID uuid.UUID, code, reason string) (*Adjustment, error) {
	if code == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Adjustment code cannot be empty")
	}
	if reason == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Adjustment reason cannot be empty")
	}

	return &Adjustment{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Code:                 code,
		WarehouseID:          warehouseID,
		Status:               AdjustmentStatusPending,
		Reason:               reason,
		Lines:                make([]*AdjustmentLine, 0),
	}, nil
}

// AddLine adds a product correction. Only allowed while pending.
func (a *Adjustment) AddLine(productID uuid.UUID, adjType AdjustmentType, quantity, unitCost decimal.Decimal) (*AdjustmentLine, error) {
	if a.Status != AdjustmentStatusPending {
		return nil, ErrInvalidStateTransition
	}
	if adjType != AdjustmentTypeIncrease && adjType != AdjustmentTypeDecrease {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid adjustment type")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Adjustment quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unit cost cannot be negative")
	}

	line := &AdjustmentLine{
		BaseEntity:   shared.NewBaseEntity(),
		AdjustmentID: a.ID,
		ProductID:    productID,
		Type:         adjType,
		Quantity:     quantity,
		UnitCost:     unitCost,
	}
	a.Lines = append(a.Lines, line)
	a.Touch()
	return line, nil
}

// Approve moves PENDING to APPROVED. Approval records who signed off; stock
// is untouched until processing.
func (a *Adjustment) Approve(approverID uuid.UUID, now time.Time) error {
	if a.Status != AdjustmentStatusPending {
		return ErrInvalidStateTransition
	}
	if len(a.Lines) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Adjustment has no lines")
	}
	a.Status = AdjustmentStatusApproved
	a.ApprovedBy = &approverID
	a.ApprovedAt = &now
	a.Touch()
	a.IncrementVersion()
	return nil
}

// Reject moves PENDING to REJECTED, a terminal state
func (a *Adjustment) Reject(notes string) error {
	if a.Status != AdjustmentStatusPending {
		return ErrInvalidStateTransition
	}
	a.Status = AdjustmentStatusRejected
	if notes != "" {
		a.Notes = notes
	}
	a.Touch()
	a.IncrementVersion()
	return nil
}

// MarkProcessed moves APPROVED to PROCESSED after the movements have been
// posted. Processing an already processed adjustment is rejected, which makes
// the movements post at most once.
func (a *Adjustment) MarkProcessed(now time.Time) error {
	if a.Status != AdjustmentStatusApproved {
		return ErrInvalidStateTransition
	}
	a.Status = AdjustmentStatusProcessed
	a.ProcessedAt = &now
	a.Touch()
	a.IncrementVersion()
	return nil
}

// RecordQuantities stamps the on-hand quantity the correction starts from.
// The resulting quantity follows from the line's direction.
func (l *AdjustmentLine) RecordQuantities(previous decimal.Decimal) {
	l.PreviousQuantity = previous
	if l.Type == AdjustmentTypeIncrease {
		l.NewQuantity = previous.Add(l.Quantity)
	} else {
		l.NewQuantity = previous.Sub(l.Quantity)
	}
	l.Touch()
}

// MovementKind returns the movement kind a line posts when processed
func (l *AdjustmentLine) MovementKind() MovementKind {
	if l.Type == AdjustmentTypeIncrease {
		return MovementKindAdjustmentIn
	}
	return MovementKindAdjustmentOut
}
