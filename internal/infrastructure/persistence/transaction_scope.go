package persistence

import (
	"context"

	appinv "github.com/facturacion/backend/internal/application/inventory"
	"github.com/facturacion/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// StockRecordRepo returns the stock record repository scoped to the current transaction.
func (r *gormTransactionalRepositories) StockRecordRepo() inventory.StockRecordRepository {
	return NewGormStockRecordRepository(r.tx)
}

// MovementRepo returns the movement repository scoped to the current transaction.
func (r *gormTransactionalRepositories) MovementRepo() inventory.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

// LotRepo returns the lot repository scoped to the current transaction.
func (r *gormTransactionalRepositories) LotRepo() inventory.LotRepository {
	return NewGormLotRepository(r.tx)
}

// ReservationRepo returns the reservation repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ReservationRepo() inventory.ReservationRepository {
	return NewGormReservationRepository(r.tx)
}

// TransferRepo returns the transfer repository scoped to the current transaction.
func (r *gormTransactionalRepositories) TransferRepo() inventory.TransferRepository {
	return NewGormTransferRepository(r.tx)
}

// AdjustmentRepo returns the adjustment repository scoped to the current transaction.
func (r *gormTransactionalRepositories) AdjustmentRepo() inventory.AdjustmentRepository {
	return NewGormAdjustmentRepository(r.tx)
}

// PhysicalCountRepo returns the physical count repository scoped to the current transaction.
func (r *gormTransactionalRepositories) PhysicalCountRepo() inventory.PhysicalCountRepository {
	return NewGormPhysicalCountRepository(r.tx)
}

// AlertRepo returns the alert repository scoped to the current transaction.
func (r *gormTransactionalRepositories) AlertRepo() inventory.AlertRepository {
	return NewGormAlertRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appinv.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appinv.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
