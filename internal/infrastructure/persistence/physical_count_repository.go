package persistence

import (
	"context"
	"errors"

	"github.com/facturacion/backend/internal/domain/inventory"
	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPhysicalCountRepository implements PhysicalCountRepository using GORM
type GormPhysicalCountRepository struct {
	db *gorm.DB
}

// NewGormPhysicalCountRepository creates a new GormPhysicalCountRepository
func NewGormPhysicalCountRepository(db *gorm.DB) *GormPhysicalCountRepository {
	return &GormPhysicalCountRepository{db: db}
}

// FindByID finds a count with its lines by ID within a company
func (r *GormPhysicalCountRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*inventory.PhysicalCount, error) {
	var count inventory.PhysicalCount
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("company_id = ? AND id = ?", companyID, id).
		First(&count).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &count, nil
}

// FindByCode finds a count by its code within a company
func (r *GormPhysicalCountRepository) FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*inventory.PhysicalCount, error) {
	var count inventory.PhysicalCount
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("company_id = ? AND code = ?", companyID, code).
		First(&count).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &count, nil
}

// FindAll finds counts for a company
func (r *GormPhysicalCountRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]inventory.PhysicalCount, error) {
	var counts []inventory.PhysicalCount
	query := r.db.WithContext(ctx).Model(&inventory.PhysicalCount{}).
		Preload("Lines").
		Where("company_id = ?", companyID)
	query = applyListOptions(r.applyFilters(query, filter), filter, PhysicalCountSortFields, "created_at")

	if err := query.Find(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// Count counts physical counts matching the filter
func (r *GormPhysicalCountRepository) Count(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.PhysicalCount{}).
		Where("company_id = ?", companyID)
	if err := r.applyFilters(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a count and its lines
func (r *GormPhysicalCountRepository) Save(ctx context.Context, count *inventory.PhysicalCount) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(count).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormPhysicalCountRepository) SaveWithLock(ctx context.Context, count *inventory.PhysicalCount) error {
	result := r.db.WithContext(ctx).
		Model(count).
		Where("id = ? AND version = ?", count.ID, count.Version-1).
		Updates(map[string]interface{}{
			"status":        count.Status,
			"notes":         count.Notes,
			"adjustment_id": count.AdjustmentID,
			"started_at":    count.StartedAt,
			"finished_at":   count.FinishedAt,
			"adjusted_at":   count.AdjustedAt,
			"version":       count.Version,
			"updated_at":    count.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Physical count was modified by another transaction")
	}

	for _, line := range count.Lines {
		if err := r.db.WithContext(ctx).Save(line).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormPhysicalCountRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
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

// Ensure GormPhysicalCountRepository implements PhysicalCountRepository
var _ inventory.PhysicalCountRepository = (*GormPhysicalCountRepository)(nil)
