package inventory

import (
	"time"

	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PhysicalCountStatus represents the lifecycle state of a physical count
type PhysicalCountStatus string

const (
	PhysicalCountStatusPlanned    PhysicalCountStatus = "PLANNED"
	PhysicalCountStatusInProgress PhysicalCountStatus = "IN_PROGRESS"
	PhysicalCountStatusFinished   PhysicalCountStatus = "FINISHED"
	PhysicalCountStatusAdjusted   PhysicalCountStatus = "ADJUSTED"
	PhysicalCountStatusCancelled  PhysicalCountStatus = "CANCELLED"
)

// PhysicalCount is a stocktake at a warehouse. Starting it snapshots the
// system quantity per line; finishing freezes the counted quantities; applying
// turns the differences into one adjustment.
type PhysicalCount struct {
	shared.CompanyAggregateRoot
	Code         string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_count_company_code,priority:2"`
	WarehouseID  uuid.UUID            `gorm:"type:uuid;not null;index"`
	Status       PhysicalCountStatus  `gorm:"type:varchar(20);not null;default:'PLANNED';index"`
	Notes        string               `gorm:"type:text"`
	Lines        []*PhysicalCountLine `gorm:"foreignKey:PhysicalCountID"`
	AdjustmentID *uuid.UUID           `gorm:"type:uuid"`
	StartedAt    *time.Time
	FinishedAt   *time.Time
	AdjustedAt   *time.Time
}

// PhysicalCountLine is one product on a count sheet. SystemQty is snapshotted
// when counting starts; CountedQty is filled while counting.
type PhysicalCountLine struct {
	shared.BaseEntity
	PhysicalCountID uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	LotID           *uuid.UUID       `gorm:"type:uuid"`
	SystemQty       decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	CountedQty      *decimal.Decimal `gorm:"type:decimal(18,4)"`
	CountedBy       *uuid.UUID       `gorm:"type:uuid"`
	CountedAt       *time.Time
}

// TableName returns the table name for GORM
func (PhysicalCount) TableName() string {
	return "physical_counts"
}

// TableName returns the table name for GORM
func (PhysicalCountLine) TableName() string {
	return "physical_count_lines"
}

// NewPhysicalCount creates a planned count
func NewPhysicalCount(companyID, warehouseID uuid.UUID, code string) (*PhysicalCount, error) {
	if code == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Count code cannot be empty")
	}

	return &PhysicalCount{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Code:                 code,
		WarehouseID:          warehouseID,
		Status:               PhysicalCountStatusPlanned,
		Lines:                make([]*PhysicalCountLine, 0),
	}, nil
}

// AddLine adds a product to the count sheet. Only allowed while planned.
func (c *PhysicalCount) AddLine(productID uuid.UUID) (*PhysicalCountLine, error) {
	if c.Status != PhysicalCountStatusPlanned {
		return nil, ErrInvalidStateTransition
	}
	for _, line := range c.Lines {
		if line.ProductID == productID {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Product already present on count")
		}
	}

	line := &PhysicalCountLine{
		BaseEntity:      shared.NewBaseEntity(),
		PhysicalCountID: c.ID,
		ProductID:       productID,
	}
	c.Lines = append(c.Lines, line)
	c.Touch()
	return line, nil
}

// Start moves PLANNED to IN_PROGRESS, snapshotting the system quantity per
// line. systemQty maps productID to the projected on-hand at this moment;
// products absent from the map snapshot zero.
func (c *PhysicalCount) Start(systemQty map[uuid.UUID]decimal.Decimal, now time.Time) error {
	if c.Status != PhysicalCountStatusPlanned {
		return ErrInvalidStateTransition
	}
	if len(c.Lines) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Count has no lines")
	}

	for _, line := range c.Lines {
		if qty, ok := systemQty[line.ProductID]; ok {
			line.SystemQty = qty
		} else {
			line.SystemQty = decimal.Zero
		}
		line.Touch()
	}
	c.Status = PhysicalCountStatusInProgress
	c.StartedAt = &now
	c.Touch()
	c.IncrementVersion()
	return nil
}

// RecordCount writes a counted quantity on a line. Recounting overwrites the
// previous value while the count is in progress.
func (c *PhysicalCount) RecordCount(productID uuid.UUID, counted decimal.Decimal, counterID *uuid.UUID, now time.Time) error {
	if c.Status != PhysicalCountStatusInProgress {
		return ErrInvalidStateTransition
	}
	if counted.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Counted quantity cannot be negative")
	}

	for _, line := range c.Lines {
		if line.ProductID == productID {
			line.CountedQty = &counted
			line.CountedBy = counterID
			line.CountedAt = &now
			line.Touch()
			return nil
		}
	}
	return shared.NewDomainError("VALIDATION_ERROR", "Product not present on count")
}

// Finish moves IN_PROGRESS to FINISHED. Every line must be counted first.
func (c *PhysicalCount) Finish(now time.Time) error {
	if c.Status != PhysicalCountStatusInProgress {
		return ErrInvalidStateTransition
	}
	for _, line := range c.Lines {
		if line.CountedQty == nil {
			return shared.NewDomainError("VALIDATION_ERROR", "All lines must be counted before finishing")
		}
	}
	c.Status = PhysicalCountStatusFinished
	c.FinishedAt = &now
	c.Touch()
	c.IncrementVersion()
	return nil
}

// MarkAdjusted moves FINISHED to ADJUSTED, linking the adjustment created
// from the differences. A count with no differences skips the adjustment and
// records a nil link. Applying twice is rejected.
func (c *PhysicalCount) MarkAdjusted(adjustmentID *uuid.UUID, now time.Time) error {
	if c.Status != PhysicalCountStatusFinished {
		return ErrInvalidStateTransition
	}
	c.Status = PhysicalCountStatusAdjusted
	c.AdjustmentID = adjustmentID
	c.AdjustedAt = &now
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Cancel aborts a count whose differences have not been applied. A finished
// count may still be abandoned; once adjusted the movements exist and the
// remedy is reversing them.
func (c *PhysicalCount) Cancel() error {
	switch c.Status {
	case PhysicalCountStatusPlanned, PhysicalCountStatusInProgress, PhysicalCountStatusFinished:
	default:
		return ErrInvalidStateTransition
	}
	c.Status = PhysicalCountStatusCancelled
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Difference returns counted minus system quantity. Zero until counted.
func (l *PhysicalCountLine) Difference() decimal.Decimal {
	if l.CountedQty == nil {
		return decimal.Zero
	}
	return l.CountedQty.Sub(l.SystemQty)
}

// HasDifference returns true if the counted quantity deviates from the system
func (l *PhysicalCountLine) HasDifference() bool {
	return !l.Difference().IsZero()
}
