package catalog

import (
	"strings"

	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product represents a sellable/storable item in the catalog.
// The inventory ledger references products by ID only; it never owns them.
type Product struct {
	shared.CompanyAggregateRoot
	SKU         string        `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_company_sku,priority:2"`
	Name        string        `gorm:"type:varchar(200);not null"`
	Description string        `gorm:"type:text"`
	Unit        string        `gorm:"type:varchar(20);not null;default:'unit'"`
	LotTracked  bool          `gorm:"not null;default:false"`
	Status      ProductStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with required fields
func NewProduct(companyID uuid.UUID, sku, name, unit string) (*Product, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if unit == "" {
		unit = "unit"
	}

	return &Product{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		SKU:                  strings.ToUpper(sku),
		Name:                 name,
		Unit:                 unit,
		Status:               ProductStatusActive,
	}, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description, unit string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	p.Name = name
	p.Description = description
	if unit != "" {
		p.Unit = unit
	}
	p.Touch()
	p.IncrementVersion()
	return nil
}

// EnableLotTracking marks the product as lot tracked. Inbound movements for
// lot-tracked products must carry lot information.
func (p *Product) EnableLotTracking() {
	p.LotTracked = true
	p.Touch()
	p.IncrementVersion()
}

// Deactivate marks the product inactive. Historical movements are untouched.
func (p *Product) Deactivate() {
	p.Status = ProductStatusInactive
	p.Touch()
	p.IncrementVersion()
}

// Activate marks the product active again
func (p *Product) Activate() {
	p.Status = ProductStatusActive
	p.Touch()
	p.IncrementVersion()
}

// IsActive returns true if the product can be used on new documents
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}
