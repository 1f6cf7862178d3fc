package persistence

import (
	"context"
	"errors"

	"github.com/facturacion/backend/internal/domain/inventory"
	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAlertRepository implements AlertRepository using GORM
type GormAlertRepository struct {
	db *gorm.DB
}

// NewGormAlertRepository creates a new GormAlertRepository
func NewGormAlertRepository(db *gorm.DB) *GormAlertRepository {
	return &GormAlertRepository{db: db}
}

// FindByID finds an alert by ID within a company
func (r *GormAlertRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*inventory.Alert, error) {
	var alert inventory.Alert
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&alert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &alert, nil
}

// FindOpen finds unacknowledged alerts for a company
func (r *GormAlertRepository) FindOpen(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]inventory.Alert, error) {
	var alerts []inventory.Alert
	query := r.db.WithContext(ctx).Model(&inventory.Alert{}).
		Where("company_id = ? AND acknowledged = ?", companyID, false)
	query = applyListOptions(r.applyFilters(query, filter), filter, AlertSortFields, "created_at")

	if err := query.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// FindAll finds alerts for a company
func (r *GormAlertRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]inventory.Alert, error) {
	var alerts []inventory.Alert
	query := r.db.WithContext(ctx).Model(&inventory.Alert{}).
		Where("company_id = ?", companyID)
	query = applyListOptions(r.applyFilters(query, filter), filter, AlertSortFields, "created_at")

	if err := query.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// Count counts alerts matching the filter
func (r *GormAlertRepository) Count(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.Alert{}).
		Where("company_id = ? AND acknowledged = ?", companyID, false)
	if err := r.applyFilters(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteOpenByStockRecord removes unacknowledged alerts for a stock record
// before a re-evaluation writes fresh ones
func (r *GormAlertRepository) DeleteOpenByStockRecord(ctx context.Context, companyID, stockRecordID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("company_id = ? AND stock_record_id = ? AND acknowledged = ?", companyID, stockRecordID, false).
		Delete(&inventory.Alert{}).Error
}

// Save creates or updates an alert
func (r *GormAlertRepository) Save(ctx context.Context, alert *inventory.Alert) error {
	return r.db.WithContext(ctx).Save(alert).Error
}

func (r *GormAlertRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		}
	}
	return query
}

// Ensure GormAlertRepository implements AlertRepository
var _ inventory.AlertRepository = (*GormAlertRepository)(nil)
