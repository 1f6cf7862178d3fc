package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/facturacion/backend/internal/domain/catalog"
	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWarehouseRepository implements WarehouseRepository using GORM
type GormWarehouseRepository struct {
	db *gorm.DB
}

// NewGormWarehouseRepository creates a new GormWarehouseRepository
func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

// FindByID finds a warehouse by ID within a company
func (r *GormWarehouseRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*catalog.Warehouse, error) {
	var warehouse catalog.Warehouse
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&warehouse).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &warehouse, nil
}

// FindByCode finds a warehouse by code within a company
func (r *GormWarehouseRepository) FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*catalog.Warehouse, error) {
	var warehouse catalog.Warehouse
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND code = ?", companyID, strings.ToUpper(strings.TrimSpace(code))).
		First(&warehouse).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &warehouse, nil
}

// FindAll finds all warehouses for a company
func (r *GormWarehouseRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]catalog.Warehouse, error) {
	var warehouses []catalog.Warehouse
	query := r.db.WithContext(ctx).Model(&catalog.Warehouse{}).
		Where("company_id = ?", companyID)
	query = applyListOptions(r.applyFilters(query, filter), filter, WarehouseSortFields, "code")

	if err := query.Find(&warehouses).Error; err != nil {
		return nil, err
	}
	return warehouses, nil
}

// Count counts warehouses matching the filter
func (r *GormWarehouseRepository) Count(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.Warehouse{}).
		Where("company_id = ?", companyID)

	if err := r.applyFilters(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a code is already taken within a company
func (r *GormWarehouseRepository) ExistsByCode(ctx context.Context, companyID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.Warehouse{}).
		Where("company_id = ? AND code = ?", companyID, strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a warehouse
func (r *GormWarehouseRepository) Save(ctx context.Context, warehouse *catalog.Warehouse) error {
	return r.db.WithContext(ctx).Save(warehouse).Error
}

func (r *GormWarehouseRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", searchPattern, searchPattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		}
	}
	return query
}

// Ensure GormWarehouseRepository implements WarehouseRepository
var _ catalog.WarehouseRepository = (*GormWarehouseRepository)(nil)
