package inventory

import (
	"context"

	"github.com/facturacion/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to inventory repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the inventory repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
//
// Movement posting holds a row lock on the stock record (FindForUpdate) for
// the duration of the transaction, so the read-modify-write of the cached
// quantity is serialized per warehouse-product pair.
type TransactionalRepositories interface {
	// StockRecordRepo returns the stock record repository scoped to the transaction
	StockRecordRepo() inventory.StockRecordRepository
	// MovementRepo returns the movement repository scoped to the transaction
	MovementRepo() inventory.MovementRepository
	// LotRepo returns the lot repository scoped to the transaction
	LotRepo() inventory.LotRepository
	// ReservationRepo returns the reservation repository scoped to the transaction
	ReservationRepo() inventory.ReservationRepository
	// TransferRepo returns the transfer repository scoped to the transaction
	TransferRepo() inventory.TransferRepository
	// AdjustmentRepo returns the adjustment repository scoped to the transaction
	AdjustmentRepo() inventory.AdjustmentRepository
	// PhysicalCountRepo returns the physical count repository scoped to the transaction
	PhysicalCountRepo() inventory.PhysicalCountRepository
	// AlertRepo returns the alert repository scoped to the transaction
	AlertRepo() inventory.AlertRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing with in-memory repositories.
type NoOpTransactionScope struct {
	stockRecordRepo   inventory.StockRecordRepository
	movementRepo      inventory.MovementRepository
	lotRepo           inventory.LotRepository
	reservationRepo   inventory.ReservationRepository
	transferRepo      inventory.TransferRepository
	adjustmentRepo    inventory.AdjustmentRepository
	physicalCountRepo inventory.PhysicalCountRepository
	alertRepo         inventory.AlertRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	stockRecordRepo inventory.StockRecordRepository,
	movementRepo inventory.MovementRepository,
	lotRepo inventory.LotRepository,
	reservationRepo inventory.ReservationRepository,
	transferRepo inventory.TransferRepository,
	adjustmentRepo inventory.AdjustmentRepository,
	physicalCountRepo inventory.PhysicalCountRepository,
	alertRepo inventory.AlertRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		stockRecordRepo:   stockRecordRepo,
		movementRepo:      movementRepo,
		lotRepo:           lotRepo,
		reservationRepo:   reservationRepo,
		transferRepo:      transferRepo,
		adjustmentRepo:    adjustmentRepo,
		physicalCountRepo: physicalCountRepo,
		alertRepo:         alertRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// StockRecordRepo returns the stock record repository
func (s *NoOpTransactionScope) StockRecordRepo() inventory.StockRecordRepository {
	return s.stockRecordRepo
}

// MovementRepo returns the movement repository
func (s *NoOpTransactionScope) MovementRepo() inventory.MovementRepository {
	return s.movementRepo
}

// LotRepo returns the lot repository
func (s *NoOpTransactionScope) LotRepo() inventory.LotRepository {
	return s.lotRepo
}

// ReservationRepo returns the reservation repository
func (s *NoOpTransactionScope) ReservationRepo() inventory.ReservationRepository {
	return s.reservationRepo
}

// TransferRepo returns the transfer repository
func (s *NoOpTransactionScope) TransferRepo() inventory.TransferRepository {
	return s.transferRepo
}

// AdjustmentRepo returns the adjustment repository
func (s *NoOpTransactionScope) AdjustmentRepo() inventory.AdjustmentRepository {
	return s.adjustmentRepo
}

// PhysicalCountRepo returns the physical count repository
func (s *NoOpTransactionScope) PhysicalCountRepo() inventory.PhysicalCountRepository {
	return s.physicalCountRepo
}

// AlertRepo returns the alert repository
func (s *NoOpTransactionScope) AlertRepo() inventory.AlertRepository {
	return s.alertRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
