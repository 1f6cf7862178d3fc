package persistence

import (
	"context"
	"errors"

	"github.com/facturacion/backend/internal/domain/inventory"
	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormMovementRepository implements MovementRepository using GORM. The
// movements table is append-only; this repository exposes no update or
// delete path.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// FindByID finds a movement by ID within a company
func (r *GormMovementRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*inventory.Movement, error) {
	var movement inventory.Movement
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&movement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// FindByStockRecord finds movements for a stock record, newest first
func (r *GormMovementRepository) FindByStockRecord(ctx context.Context, companyID, stockRecordID uuid.UUID, filter shared.Filter) ([]inventory.Movement, error) {
	var movements []inventory.Movement
	query := r.db.WithContext(ctx).Model(&inventory.Movement{}).
		Where("company_id = ? AND stock_record_id = ?", companyID, stockRecordID)
	query = applyListOptions(r.applyFilters(query, filter), filter, MovementSortFields, "occurred_at")

	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByOrigin finds movements by originating document
func (r *GormMovementRepository) FindByOrigin(ctx context.Context, companyID uuid.UUID, originType inventory.OriginType, originID string) ([]inventory.Movement, error) {
	var movements []inventory.Movement
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND origin_type = ? AND origin_id = ?", companyID, originType, originID).
		Order("occurred_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByLot finds movements that touched a lot
func (r *GormMovementRepository) FindByLot(ctx context.Context, companyID, lotID uuid.UUID) ([]inventory.Movement, error) {
	var movements []inventory.Movement
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND lot_id = ?", companyID, lotID).
		Order("occurred_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindAll finds movements for a company
func (r *GormMovementRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]inventory.Movement, error) {
	var movements []inventory.Movement
	query := r.db.WithContext(ctx).Model(&inventory.Movement{}).
		Where("company_id = ?", companyID)
	query = applyListOptions(r.applyFilters(query, filter), filter, MovementSortFields, "occurred_at")

	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// Count counts movements matching the filter
func (r *GormMovementRepository) Count(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.Movement{}).
		Where("company_id = ?", companyID)
	if err := r.applyFilters(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumByStockRecord recomputes net quantity from the movement log
func (r *GormMovementRepository) SumByStockRecord(ctx context.Context, companyID, stockRecordID uuid.UUID) (decimal.Decimal, error) {
	inbound := []inventory.MovementKind{
		inventory.MovementKindPurchaseReceipt,
		inventory.MovementKindTransferIn,
		inventory.MovementKindSalesReturn,
		inventory.MovementKindAdjustmentIn,
		inventory.MovementKindInitial,
		inventory.MovementKindManualIn,
		inventory.MovementKindReversalIn,
	}

	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&inventory.Movement{}).
		Select("COALESCE(SUM(CASE WHEN kind IN ? THEN quantity ELSE -quantity END), 0) as total", inbound).
		Where("company_id = ? AND stock_record_id = ?", companyID, stockRecordID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// ExistsReversal reports whether a reversal movement already references the
// given movement as its origin
func (r *GormMovementRepository) ExistsReversal(ctx context.Context, companyID, movementID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.Movement{}).
		Where("company_id = ? AND origin_type = ? AND origin_id = ?",
			companyID, inventory.OriginTypeReversal, movementID.String()).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save appends a movement
func (r *GormMovementRepository) Save(ctx context.Context, movement *inventory.Movement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *GormMovementRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "kind":
			query = query.Where("kind = ?", value)
		case "origin_type":
			query = query.Where("origin_type = ?", value)
		case "origin_id":
			query = query.Where("origin_id = ?", value)
		case "occurred_after":
			query = query.Where("occurred_at >= ?", value)
		case "occurred_before":
			query = query.Where("occurred_at < ?", value)
		}
	}
	return query
}

// Ensure GormMovementRepository implements MovementRepository
var _ inventory.MovementRepository = (*GormMovementRepository)(nil)
