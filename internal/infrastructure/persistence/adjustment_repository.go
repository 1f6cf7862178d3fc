package persistence

import (
	"context"
	"errors"

	"github.com/facturacion/backend/internal/domain/inventory"
	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAdjustmentRepository implements AdjustmentRepository using GORM
type GormAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormAdjustmentRepository creates a new GormAdjustmentRepository
func NewGormAdjustmentRepository(db *gorm.DB) *GormAdjustmentRepository {
	return &GormAdjustmentRepository{db: db}
}

// FindByID finds an adjustment with its lines by ID within a company
func (r *GormAdjustmentRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*inventory.Adjustment, error) {
	var adjustment inventory.Adjustment
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("company_id = ? AND id = ?", companyID, id).
		First(&adjustment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &adjustment, nil
}

// FindByCode finds an adjustment by its code within a company
func (r *GormAdjustmentRepository) FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*inventory.Adjustment, error) {
	var adjustment inventory.Adjustment
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("company_id = ? AND code = ?", companyID, code).
		First(&adjustment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &adjustment, nil
}

// FindAll finds adjustments for a company
func (r *GormAdjustmentRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]inventory.Adjustment, error) {
	var adjustments []inventory.Adjustment
	query := r.db.WithContext(ctx).Model(&inventory.Adjustment{}).
		Preload("Lines").
		Where("company_id = ?", companyID)
	query = applyListOptions(r.applyFilters(query, filter), filter, AdjustmentSortFields, "created_at")

	if err := query.Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

// Count counts adjustments matching the filter
func (r *GormAdjustmentRepository) Count(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.Adjustment{}).
		Where("company_id = ?", companyID)
	if err := r.applyFilters(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an adjustment and its lines
func (r *GormAdjustmentRepository) Save(ctx context.Context, adjustment *inventory.Adjustment) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(adjustment).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormAdjustmentRepository) SaveWithLock(ctx context.Context, adjustment *inventory.Adjustment) error {
	result := r.db.WithContext(ctx).
		Model(adjustment).
		Where("id = ? AND version = ?", adjustment.ID, adjustment.Version-1).
		Updates(map[string]interface{}{
			"status":       adjustment.Status,
			"notes":        adjustment.Notes,
			"approved_by":  adjustment.ApprovedBy,
			"approved_at":  adjustment.ApprovedAt,
			"processed_at": adjustment.ProcessedAt,
			"version":      adjustment.Version,
			"updated_at":   adjustment.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Adjustment was modified by another transaction")
	}
	return nil
}

func (r *GormAdjustmentRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "code":
			query = query.Where("code = ?", value)
		}
	}
	return query
}

// Ensure GormAdjustmentRepository implements AdjustmentRepository
var _ inventory.AdjustmentRepository = (*GormAdjustmentRepository)(nil)
