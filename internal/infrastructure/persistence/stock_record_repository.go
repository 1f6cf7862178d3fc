package persistence

import (
	"context"
	"errors"

	"github.com/facturacion/backend/internal/domain/inventory"
	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockRecordRepository implements StockRecordRepository using GORM
type GormStockRecordRepository struct {
	db *gorm.DB
}

// NewGormStockRecordRepository creates a new GormStockRecordRepository
func NewGormStockRecordRepository(db *gorm.DB) *GormStockRecordRepository {
	return &GormStockRecordRepository{db: db}
}

// FindByID finds a stock record by ID within a company
func (r *GormStockRecordRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*inventory.StockRecord, error) {
	var record inventory.StockRecord
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByWarehouseAndProduct finds the record for a warehouse-product pair
func (r *GormStockRecordRepository) FindByWarehouseAndProduct(ctx context.Context, companyID, warehouseID, productID uuid.UUID) (*inventory.StockRecord, error) {
	var record inventory.StockRecord
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND warehouse_id = ? AND product_id = ?", companyID, warehouseID, productID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindForUpdate loads the warehouse-product record under a row lock. Must
// run inside a transaction; the lock is held until commit. SQLite has no
// row locks, so the clause is only added on postgres.
func (r *GormStockRecordRepository) FindForUpdate(ctx context.Context, companyID, warehouseID, productID uuid.UUID) (*inventory.StockRecord, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var record inventory.StockRecord
	if err := query.
		Where("company_id = ? AND warehouse_id = ? AND product_id = ?", companyID, warehouseID, productID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByWarehouse finds all records in a warehouse
func (r *GormStockRecordRepository) FindByWarehouse(ctx context.Context, companyID, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.StockRecord, error) {
	var records []inventory.StockRecord
	query := r.db.WithContext(ctx).Model(&inventory.StockRecord{}).
		Where("company_id = ? AND warehouse_id = ?", companyID, warehouseID)
	query = applyListOptions(r.applyFilters(query, filter), filter, StockRecordSortFields, "updated_at")

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByProduct finds all records for a product across warehouses
func (r *GormStockRecordRepository) FindByProduct(ctx context.Context, companyID, productID uuid.UUID, filter shared.Filter) ([]inventory.StockRecord, error) {
	var records []inventory.StockRecord
	query := r.db.WithContext(ctx).Model(&inventory.StockRecord{}).
		Where("company_id = ? AND product_id = ?", companyID, productID)
	query = applyListOptions(r.applyFilters(query, filter), filter, StockRecordSortFields, "updated_at")

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindAll finds all records for a company
func (r *GormStockRecordRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]inventory.StockRecord, error) {
	var records []inventory.StockRecord
	query := r.db.WithContext(ctx).Model(&inventory.StockRecord{}).
		Where("company_id = ?", companyID)
	query = applyListOptions(r.applyFilters(query, filter), filter, StockRecordSortFields, "updated_at")

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindBelowMinimum finds records at or below their minimum threshold
func (r *GormStockRecordRepository) FindBelowMinimum(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]inventory.StockRecord, error) {
	var records []inventory.StockRecord
	query := r.db.WithContext(ctx).Model(&inventory.StockRecord{}).
		Where("company_id = ? AND min_quantity > 0 AND quantity_on_hand <= min_quantity", companyID)
	query = applyListOptions(query, filter, StockRecordSortFields, "updated_at")

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Count counts records matching the filter
func (r *GormStockRecordRepository) Count(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.StockRecord{}).
		Where("company_id = ?", companyID)
	if err := r.applyFilters(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListCompanyIDs returns the distinct companies holding stock records
func (r *GormStockRecordRepository) ListCompanyIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&inventory.StockRecord{}).
		Distinct("company_id").
		Pluck("company_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Save creates or updates a stock record
func (r *GormStockRecordRepository) Save(ctx context.Context, record *inventory.StockRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormStockRecordRepository) SaveWithLock(ctx context.Context, record *inventory.StockRecord) error {
	result := r.db.WithContext(ctx).
		Model(record).
		Where("id = ? AND version = ?", record.ID, record.Version-1).
		Updates(map[string]interface{}{
			"quantity_on_hand": record.QuantityOnHand,
			"unit_cost":        record.UnitCost,
			"valuation_method": record.ValuationMethod,
			"min_quantity":     record.MinQuantity,
			"max_quantity":     record.MaxQuantity,
			"reorder_point":    record.ReorderPoint,
			"version":          record.Version,
			"updated_at":       record.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Stock record was modified by another transaction")
	}
	return nil
}

func (r *GormStockRecordRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "valuation_method":
			query = query.Where("valuation_method = ?", value)
		case "below_minimum":
			if value == true {
				query = query.Where("min_quantity > 0 AND quantity_on_hand <= min_quantity")
			}
		case "out_of_stock":
			if value == true {
				query = query.Where("quantity_on_hand <= 0")
			}
		case "has_stock":
			if value == true {
				query = query.Where("quantity_on_hand > 0")
			}
		}
	}
	return query
}

// Ensure GormStockRecordRepository implements StockRecordRepository
var _ inventory.StockRecordRepository = (*GormStockRecordRepository)(nil)
