package catalog

import (
	"strings"

	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// WarehouseStatus represents the status of a warehouse
type WarehouseStatus string

const (
	WarehouseStatusActive   WarehouseStatus = "active"
	WarehouseStatusInactive WarehouseStatus = "inactive"
)

// Warehouse represents a physical stock location
type Warehouse struct {
	shared.CompanyAggregateRoot
	Code    string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_warehouse_company_code,priority:2"`
	Name    string          `gorm:"type:varchar(200);not null"`
	Address string          `gorm:"type:text"`
	Status  WarehouseStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a new warehouse with required fields
func NewWarehouse(companyID uuid.UUID, code, name string) (*Warehouse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Warehouse code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}

	return &Warehouse{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Code:                 strings.ToUpper(code),
		Name:                 name,
		Status:               WarehouseStatusActive,
	}, nil
}

// Update updates the warehouse's basic information
func (w *Warehouse) Update(name, address string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}
	w.Name = name
	w.Address = address
	w.Touch()
	w.IncrementVersion()
	return nil
}

// Deactivate marks the warehouse inactive
func (w *Warehouse) Deactivate() {
	w.Status = WarehouseStatusInactive
	w.Touch()
	w.IncrementVersion()
}

// Activate marks the warehouse active again
func (w *Warehouse) Activate() {
	w.Status = WarehouseStatusActive
	w.Touch()
	w.IncrementVersion()
}

// IsActive returns true if the warehouse can receive new movements
func (w *Warehouse) IsActive() bool {
	return w.Status == WarehouseStatusActive
}
