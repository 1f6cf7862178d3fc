package persistence

import (
	"context"
	"errors"

	"github.com/facturacion/backend/internal/domain/inventory"
	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTransferRepository implements TransferRepository using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// FindByID finds a transfer with its lines by ID within a company
func (r *GormTransferRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*inventory.Transfer, error) {
	var transfer inventory.Transfer
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("company_id = ? AND id = ?", companyID, id).
		First(&transfer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

// FindByCode finds a transfer by its code within a company
func (r *GormTransferRepository) FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*inventory.Transfer, error) {
	var transfer inventory.Transfer
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("company_id = ? AND code = ?", companyID, code).
		First(&transfer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

// FindAll finds transfers for a company
func (r *GormTransferRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]inventory.Transfer, error) {
	var transfers []inventory.Transfer
	query := r.db.WithContext(ctx).Model(&inventory.Transfer{}).
		Preload("Lines").
		Where("company_id = ?", companyID)
	query = applyListOptions(r.applyFilters(query, filter), filter, TransferSortFields, "created_at")

	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// Count counts transfers matching the filter
func (r *GormTransferRepository) Count(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.Transfer{}).
		Where("company_id = ?", companyID)
	if err := r.applyFilters(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a transfer and its lines
func (r *GormTransferRepository) Save(ctx context.Context, transfer *inventory.Transfer) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(transfer).Error
}

// SaveWithLock saves with optimistic locking. Lines are written through the
// association save; the version check guards the header.
func (r *GormTransferRepository) SaveWithLock(ctx context.Context, transfer *inventory.Transfer) error {
	result := r.db.WithContext(ctx).
		Model(transfer).
		Where("id = ? AND version = ?", transfer.ID, transfer.Version-1).
		Updates(map[string]interface{}{
			"status":       transfer.Status,
			"notes":        transfer.Notes,
			"shipped_at":   transfer.ShippedAt,
			"completed_at": transfer.CompletedAt,
			"version":      transfer.Version,
			"updated_at":   transfer.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Transfer was modified by another transaction")
	}

	for _, line := range transfer.Lines {
		if err := r.db.WithContext(ctx).Save(line).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormTransferRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "source_warehouse_id":
			query = query.Where("source_warehouse_id = ?", value)
		case "destination_warehouse_id":
			query = query.Where("destination_warehouse_id = ?", value)
		case "code":
			query = query.Where("code = ?", value)
		}
	}
	return query
}

// Ensure GormTransferRepository implements TransferRepository
var _ inventory.TransferRepository = (*GormTransferRepository)(nil)
