package inventory

import (
	"context"
	"time"

	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockRecordRepository defines the interface for stock record persistence
type StockRecordRepository interface {
	// FindByID finds a stock record by ID within a company
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*StockRecord, error)

	// FindByWarehouseAndProduct finds the record for a warehouse-product pair
	FindByWarehouseAndProduct(ctx context.Context, companyID, warehouseID, productID uuid.UUID) (*StockRecord, error)

	// FindForUpdate loads the warehouse-product record under a row lock.
	// Must run inside a transaction; the lock is held until commit.
	FindForUpdate(ctx context.Context, companyID, warehouseID, productID uuid.UUID) (*StockRecord, error)

	// FindByWarehouse finds all records in a warehouse
	FindByWarehouse(ctx context.Context, companyID, warehouseID uuid.UUID, filter shared.Filter) ([]StockRecord, error)

	// FindByProduct finds all records for a product across warehouses
	FindByProduct(ctx context.Context, companyID, productID uuid.UUID, filter shared.Filter) ([]StockRecord, error)

	// FindAll finds all records for a company
	FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]StockRecord, error)

	// FindBelowMinimum finds records at or below their minimum threshold
	FindBelowMinimum(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]StockRecord, error)

	// Count counts records matching the filter
	Count(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error)

	// ListCompanyIDs returns the distinct companies holding stock records.
	// Used by cross-tenant background jobs.
	ListCompanyIDs(ctx context.Context) ([]uuid.UUID, error)

	// Save creates or updates a stock record
	Save(ctx context.Context, record *StockRecord) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, record *StockRecord) error
}

// MovementRepository defines the interface for movement persistence.
// Movements are append-only: there is no update or delete.
type MovementRepository interface {
	// FindByID finds a movement by ID within a company
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Movement, error)

	// FindByStockRecord finds movements for a stock record, newest first
	FindByStockRecord(ctx context.Context, companyID, stockRecordID uuid.UUID, filter shared.Filter) ([]Movement, error)

	// FindByOrigin finds movements by originating document
	FindByOrigin(ctx context.Context, companyID uuid.UUID, originType OriginType, originID string) ([]Movement, error)

	// FindByLot finds movements that touched a lot
	FindByLot(ctx context.Context, companyID, lotID uuid.UUID) ([]Movement, error)

	// FindAll finds movements for a company
	FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Movement, error)

	// Count counts movements matching the filter
	Count(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error)

	// SumByStockRecord recomputes net quantity from the movement log.
	// Inbound kinds add, outbound kinds subtract.
	SumByStockRecord(ctx context.Context, companyID, stockRecordID uuid.UUID) (decimal.Decimal, error)

	// ExistsReversal reports whether a reversal movement already references
	// the given movement as its origin
	ExistsReversal(ctx context.Context, companyID, movementID uuid.UUID) (bool, error)

	// Save appends a movement
	Save(ctx context.Context, movement *Movement) error
}

// LotRepository defines the interface for lot persistence
type LotRepository interface {
	// FindByID finds a lot by ID within a company
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Lot, error)

	// FindByNumber finds a lot by its number for a warehouse-product pair
	FindByNumber(ctx context.Context, companyID, warehouseID, productID uuid.UUID, lotNumber string) (*Lot, error)

	// FindByStockRecord finds all lots of a stock record
	FindByStockRecord(ctx context.Context, companyID, stockRecordID uuid.UUID) ([]*Lot, error)

	// FindConsumable finds lots with remaining quantity that are neither
	// blocked nor expired, for a stock record
	FindConsumable(ctx context.Context, companyID, stockRecordID uuid.UUID, now time.Time) ([]*Lot, error)

	// FindExpiringBefore finds non-depleted lots expiring before the cutoff
	FindExpiringBefore(ctx context.Context, companyID uuid.UUID, cutoff time.Time, filter shared.Filter) ([]*Lot, error)

	// FindAll finds lots for a company
	FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]*Lot, error)

	// Save creates or updates a lot
	Save(ctx context.Context, lot *Lot) error
}

// ReservationRepository defines the interface for reservation persistence
type ReservationRepository interface {
	// FindByID finds a reservation by ID within a company
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Reservation, error)

	// FindByStockRecord finds reservations for a stock record
	FindByStockRecord(ctx context.Context, companyID, stockRecordID uuid.UUID, filter shared.Filter) ([]Reservation, error)

	// FindActiveByStockRecord finds reservations still holding availability
	FindActiveByStockRecord(ctx context.Context, companyID, stockRecordID uuid.UUID, now time.Time) ([]Reservation, error)

	// SumActiveByStockRecord sums quantities of active reservations
	SumActiveByStockRecord(ctx context.Context, companyID, stockRecordID uuid.UUID, now time.Time) (decimal.Decimal, error)

	// FindExpiredPending finds reservations past their expiration time that
	// still carry an active status, across all companies
	FindExpiredPending(ctx context.Context, now time.Time, limit int) ([]Reservation, error)

	// FindAll finds reservations for a company
	FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Reservation, error)

	// Count counts reservations matching the filter
	Count(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates a reservation
	Save(ctx context.Context, reservation *Reservation) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, reservation *Reservation) error
}

// TransferRepository defines the interface for transfer persistence
type TransferRepository interface {
	// FindByID finds a transfer with its lines by ID within a company
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Transfer, error)

	// FindByCode finds a transfer by its code within a company
	FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*Transfer, error)

	// FindAll finds transfers for a company
	FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Transfer, error)

	// Count counts transfers matching the filter
	Count(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates a transfer and its lines
	Save(ctx context.Context, transfer *Transfer) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, transfer *Transfer) error
}

// AdjustmentRepository defines the interface for adjustment persistence
type AdjustmentRepository interface {
	// FindByID finds an adjustment with its lines by ID within a company
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Adjustment, error)

	// FindByCode finds an adjustment by its code within a company
	FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*Adjustment, error)

	// FindAll finds adjustments for a company
	FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Adjustment, error)

	// Count counts adjustments matching the filter
	Count(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates an adjustment and its lines
	Save(ctx context.Context, adjustment *Adjustment) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, adjustment *Adjustment) error
}

// PhysicalCountRepository defines the interface for physical count persistence
type PhysicalCountRepository interface {
	// FindByID finds a count with its lines by ID within a company
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*PhysicalCount, error)

	// FindByCode finds a count by its code within a company
	FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*PhysicalCount, error)

	// FindAll finds counts for a company
	FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]PhysicalCount, error)

	// Count counts physical counts matching the filter
	Count(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates a count and its lines
	Save(ctx context.Context, count *PhysicalCount) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, count *PhysicalCount) error
}

// AlertRepository defines the interface for alert persistence
type AlertRepository interface {
	// FindByID finds an alert by ID within a company
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Alert, error)

	// FindOpen finds unacknowledged alerts for a company
	FindOpen(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Alert, error)

	// FindAll finds alerts for a company
	FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Alert, error)

	// Count counts alerts matching the filter
	Count(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error)

	// DeleteOpenByStockRecord removes unacknowledged alerts for a stock
	// record before a re-evaluation writes fresh ones
	DeleteOpenByStockRecord(ctx context.Context, companyID, stockRecordID uuid.UUID) error

	// Save creates or updates an alert
	Save(ctx context.Context, alert *Alert) error
}
