package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/facturacion/backend/internal/domain/inventory"
	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReservationRepository implements ReservationRepository using GORM
type GormReservationRepository struct {
	db *gorm.DB
}

// NewGormReservationRepository creates a new GormReservationRepository
func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

// activeStatuses are the statuses that hold availability
var activeStatuses = []inventory.ReservationStatus{
	inventory.ReservationStatusPending,
	inventory.ReservationStatusConfirmed,
}

// FindByID finds a reservation by ID within a company
func (r *GormReservationRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*inventory.Reservation, error) {
	var reservation inventory.Reservation
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&reservation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

// FindByStockRecord finds reservations for a stock record
func (r *GormReservationRepository) FindByStockRecord(ctx context.Context, companyID, stockRecordID uuid.UUID, filter shared.Filter) ([]inventory.Reservation, error) {
	var reservations []inventory.Reservation
	query := r.db.WithContext(ctx).Model(&inventory.Reservation{}).
		Where("company_id = ? AND stock_record_id = ?", companyID, stockRecordID)
	query = applyListOptions(r.applyFilters(query, filter), filter, ReservationSortFields, "created_at")

	if err := query.Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindActiveByStockRecord finds reservations still holding availability.
// Overdue reservations are excluded even before the expiry sweep marks them.
func (r *GormReservationRepository) FindActiveByStockRecord(ctx context.Context, companyID, stockRecordID uuid.UUID, now time.Time) ([]inventory.Reservation, error) {
	var reservations []inventory.Reservation
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND stock_record_id = ? AND status IN ? AND (expires_at IS NULL OR expires_at > ?)",
			companyID, stockRecordID, activeStatuses, now).
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// SumActiveByStockRecord sums quantities of active reservations
func (r *GormReservationRepository) SumActiveByStockRecord(ctx context.Context, companyID, stockRecordID uuid.UUID, now time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&inventory.Reservation{}).
		Select("COALESCE(SUM(quantity), 0) as total").
		Where("company_id = ? AND stock_record_id = ? AND status IN ? AND (expires_at IS NULL OR expires_at > ?)",
			companyID, stockRecordID, activeStatuses, now).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// FindExpiredPending finds reservations past their expiration time that
// still carry an active status, across all companies
func (r *GormReservationRepository) FindExpiredPending(ctx context.Context, now time.Time, limit int) ([]inventory.Reservation, error) {
	var reservations []inventory.Reservation
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND expires_at IS NOT NULL AND expires_at <= ?", activeStatuses, now).
		Order("expires_at ASC").
		Limit(limit).
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindAll finds reservations for a company
func (r *GormReservationRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]inventory.Reservation, error) {
	var reservations []inventory.Reservation
	query := r.db.WithContext(ctx).Model(&inventory.Reservation{}).
		Where("company_id = ?", companyID)
	query = applyListOptions(r.applyFilters(query, filter), filter, ReservationSortFields, "created_at")

	if err := query.Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// Count counts reservations matching the filter
func (r *GormReservationRepository) Count(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.Reservation{}).
		Where("company_id = ?", companyID)
	if err := r.applyFilters(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a reservation
func (r *GormReservationRepository) Save(ctx context.Context, reservation *inventory.Reservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormReservationRepository) SaveWithLock(ctx context.Context, reservation *inventory.Reservation) error {
	result := r.db.WithContext(ctx).
		Model(reservation).
		Where("id = ? AND version = ?", reservation.ID, reservation.Version-1).
		Updates(map[string]interface{}{
			"status":      reservation.Status,
			"expires_at":  reservation.ExpiresAt,
			"released_at": reservation.ReleasedAt,
			"version":     reservation.Version,
			"updated_at":  reservation.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Reservation was modified by another transaction")
	}
	return nil
}

func (r *GormReservationRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "origin_type":
			query = query.Where("origin_type = ?", value)
		case "origin_id":
			query = query.Where("origin_id = ?", value)
		}
	}
	return query
}

// Ensure GormReservationRepository implements ReservationRepository
var _ inventory.ReservationRepository = (*GormReservationRepository)(nil)
