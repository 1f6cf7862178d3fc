package catalog

import (
	"context"

	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by ID within a company
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Product, error)

	// FindBySKU finds a product by SKU within a company
	FindBySKU(ctx context.Context, companyID uuid.UUID, sku string) (*Product, error)

	// FindAll finds all products for a company
	FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Product, error)

	// Count counts products matching the filter
	Count(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsBySKU checks if a SKU is already taken within a company
	ExistsBySKU(ctx context.Context, companyID uuid.UUID, sku string) (bool, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
}

// WarehouseRepository defines the interface for warehouse persistence
type WarehouseRepository interface {
	// FindByID finds a warehouse by ID within a company
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Warehouse, error)

	// FindByCode finds a warehouse by code within a company
	FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*Warehouse, error)

	// FindAll finds all warehouses for a company
	FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Warehouse, error)

	// Count counts warehouses matching the filter
	Count(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a code is already taken within a company
	ExistsByCode(ctx context.Context, companyID uuid.UUID, code string) (bool, error)

	// Save creates or updates a warehouse
	Save(ctx context.Context, warehouse *Warehouse) error
}
