package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/facturacion/backend/internal/domain/inventory"
	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLotRepository implements LotRepository using GORM
type GormLotRepository struct {
	db *gorm.DB
}

// NewGormLotRepository creates a new GormLotRepository
func NewGormLotRepository(db *gorm.DB) *GormLotRepository {
	return &GormLotRepository{db: db}
}

// FindByID finds a lot by ID within a company
func (r *GormLotRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*inventory.Lot, error) {
	var lot inventory.Lot
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&lot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindByNumber finds a lot by its number for a warehouse-product pair
func (r *GormLotRepository) FindByNumber(ctx context.Context, companyID, warehouseID, productID uuid.UUID, lotNumber string) (*inventory.Lot, error) {
	var lot inventory.Lot
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND warehouse_id = ? AND product_id = ? AND lot_number = ?",
			companyID, warehouseID, productID, lotNumber).
		First(&lot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindByStockRecord finds all lots of a stock record
func (r *GormLotRepository) FindByStockRecord(ctx context.Context, companyID, stockRecordID uuid.UUID) ([]*inventory.Lot, error) {
	var lots []*inventory.Lot
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND stock_record_id = ?", companyID, stockRecordID).
		Order("created_at ASC").
		Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindConsumable finds lots with remaining quantity that are neither blocked
// nor expired, for a stock record. Ordered oldest first; the valuation layer
// re-orders for LIFO.
func (r *GormLotRepository) FindConsumable(ctx context.Context, companyID, stockRecordID uuid.UUID, now time.Time) ([]*inventory.Lot, error) {
	var lots []*inventory.Lot
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND stock_record_id = ? AND remaining_quantity > 0 AND blocked = ? AND (expiry_date IS NULL OR expiry_date > ?)",
			companyID, stockRecordID, false, now).
		Order("created_at ASC").
		Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindExpiringBefore finds non-depleted lots expiring before the cutoff
func (r *GormLotRepository) FindExpiringBefore(ctx context.Context, companyID uuid.UUID, cutoff time.Time, filter shared.Filter) ([]*inventory.Lot, error) {
	var lots []*inventory.Lot
	query := r.db.WithContext(ctx).Model(&inventory.Lot{}).
		Where("company_id = ? AND remaining_quantity > 0 AND expiry_date IS NOT NULL AND expiry_date < ?", companyID, cutoff)
	query = applyListOptions(query, filter, LotSortFields, "expiry_date")

	if err := query.Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindAll finds lots for a company
func (r *GormLotRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]*inventory.Lot, error) {
	var lots []*inventory.Lot
	query := r.db.WithContext(ctx).Model(&inventory.Lot{}).
		Where("company_id = ?", companyID)
	for key, value := range filter.Filters {
		switch key {
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "lot_number":
			query = query.Where("lot_number = ?", value)
		}
	}
	query = applyListOptions(query, filter, LotSortFields, "created_at")

	if err := query.Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// Save creates or updates a lot
func (r *GormLotRepository) Save(ctx context.Context, lot *inventory.Lot) error {
	return r.db.WithContext(ctx).Save(lot).Error
}

// Ensure GormLotRepository implements LotRepository
var _ inventory.LotRepository = (*GormLotRepository)(nil)
