package inventory

import (
	"context"

	"github.com/facturacion/backend/internal/domain/inventory"
	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockService exposes read and configuration operations on stock records.
// Quantity changes always go through MovementService; this service never
// mutates on-hand quantity except when repairing the cached projection from
// the movement log.
type StockService struct {
	stockRecordRepo inventory.StockRecordRepository
	movementRepo    inventory.MovementRepository
	reservationRepo inventory.ReservationRepository
	lotRepo         inventory.LotRepository
	scope           TransactionScope
	logger          *zap.Logger
	clock           Clock
}

// NewStockService creates a new StockService
func NewStockService(
	stockRecordRepo inventory.StockRecordRepository,
	movementRepo inventory.MovementRepository,
	reservationRepo inventory.ReservationRepository,
	lotRepo inventory.LotRepository,
	scope TransactionScope,
	logger *zap.Logger,
) *StockService {
	return &StockService{
		stockRecordRepo: stockRecordRepo,
		movementRepo:    movementRepo,
		reservationRepo: reservationRepo,
		lotRepo:         lotRepo,
		scope:           scope,
		logger:          logger,
		clock:           systemClock{},
	}
}

// GetByID retrieves a stock record by ID
func (s *StockService) GetByID(ctx context.Context, companyID, recordID uuid.UUID) (*StockRecordResponse, error) {
	record, err := s.stockRecordRepo.FindByID(ctx, companyID, recordID)
	if err != nil {
		return nil, err
	}
	response := ToStockRecordResponse(record)
	return &response, nil
}

// GetByWarehouseAndProduct retrieves the record for a warehouse-product pair
func (s *StockService) GetByWarehouseAndProduct(ctx context.Context, companyID, warehouseID, productID uuid.UUID) (*StockRecordResponse, error) {
	record, err := s.stockRecordRepo.FindByWarehouseAndProduct(ctx, companyID, warehouseID, productID)
	if err != nil {
		return nil, err
	}
	response := ToStockRecordResponse(record)
	return &response, nil
}

// GetAvailability reports on-hand, reserved, and available quantity for a
// warehouse-product pair. Available is on-hand minus active reservations.
func (s *StockService) GetAvailability(ctx context.Context, companyID, warehouseID, productID uuid.UUID) (*AvailabilityResponse, error) {
	record, err := s.stockRecordRepo.FindByWarehouseAndProduct(ctx, companyID, warehouseID, productID)
	if err != nil {
		return nil, err
	}
	reserved, err := s.reservationRepo.SumActiveByStockRecord(ctx, companyID, record.ID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return &AvailabilityResponse{
		StockRecordID:  record.ID,
		WarehouseID:    record.WarehouseID,
		ProductID:      record.ProductID,
		QuantityOnHand: record.QuantityOnHand,
		Reserved:       reserved,
		Available:      record.QuantityOnHand.Sub(reserved),
	}, nil
}

// List retrieves stock records with filtering and pagination
func (s *StockService) List(ctx context.Context, companyID uuid.UUID, filter StockListFilter) ([]StockRecordResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "updated_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.WarehouseID != nil {
		domainFilter.Filters["warehouse_id"] = *filter.WarehouseID
	}
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	if filter.BelowMinimum != nil && *filter.BelowMinimum {
		domainFilter.Filters["below_minimum"] = true
	}

	records, err := s.stockRecordRepo.FindAll(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.stockRecordRepo.Count(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToStockRecordResponses(records), total, nil
}

// ListBelowMinimum retrieves records at or below their minimum threshold
func (s *StockService) ListBelowMinimum(ctx context.Context, companyID uuid.UUID, filter StockListFilter) ([]StockRecordResponse, int64, error) {
	belowMin := true
	filter.BelowMinimum = &belowMin
	return s.List(ctx, companyID, filter)
}

// SetThresholds sets the reorder thresholds of a stock record
func (s *StockService) SetThresholds(ctx context.Context, companyID, recordID uuid.UUID, req SetThresholdsRequest) (*StockRecordResponse, error) {
	record, err := s.stockRecordRepo.FindByID(ctx, companyID, recordID)
	if err != nil {
		return nil, err
	}
	if err := record.SetThresholds(req.MinQuantity, req.MaxQuantity, req.ReorderPoint); err != nil {
		return nil, err
	}
	if err := s.stockRecordRepo.SaveWithLock(ctx, record); err != nil {
		return nil, err
	}
	response := ToStockRecordResponse(record)
	return &response, nil
}

// SetValuationMethod changes the valuation method of a stock record. Only
// allowed while on-hand quantity is zero.
func (s *StockService) SetValuationMethod(ctx context.Context, companyID, recordID uuid.UUID, req SetValuationMethodRequest) (*StockRecordResponse, error) {
	record, err := s.stockRecordRepo.FindByID(ctx, companyID, recordID)
	if err != nil {
		return nil, err
	}
	if err := record.SetValuationMethod(inventory.ValuationMethod(req.ValuationMethod)); err != nil {
		return nil, err
	}
	if err := s.stockRecordRepo.SaveWithLock(ctx, record); err != nil {
		return nil, err
	}
	response := ToStockRecordResponse(record)
	return &response, nil
}

// ListLots retrieves the lots of a stock record
func (s *StockService) ListLots(ctx context.Context, companyID, recordID uuid.UUID) ([]LotResponse, error) {
	lots, err := s.lotRepo.FindByStockRecord(ctx, companyID, recordID)
	if err != nil {
		return nil, err
	}
	return ToLotResponses(lots), nil
}

// BlockLot prevents a lot from being consumed
func (s *StockService) BlockLot(ctx context.Context, companyID, lotID uuid.UUID) (*LotResponse, error) {
	return s.setLotBlocked(ctx, companyID, lotID, true)
}

// UnblockLot makes a lot consumable again
func (s *StockService) UnblockLot(ctx context.Context, companyID, lotID uuid.UUID) (*LotResponse, error) {
	return s.setLotBlocked(ctx, companyID, lotID, false)
}

func (s *StockService) setLotBlocked(ctx context.Context, companyID, lotID uuid.UUID, blocked bool) (*LotResponse, error) {
	lot, err := s.lotRepo.FindByID(ctx, companyID, lotID)
	if err != nil {
		return nil, err
	}
	if blocked {
		lot.Block()
	} else {
		lot.Unblock()
	}
	if err := s.lotRepo.Save(ctx, lot); err != nil {
		return nil, err
	}
	response := ToLotResponse(lot)
	return &response, nil
}

// RecomputeQuantity rebuilds the cached on-hand quantity of a stock record
// from its movement log. The cached value is a projection; the movements are
// the source of truth. Returns the refreshed record.
func (s *StockService) RecomputeQuantity(ctx context.Context, companyID, recordID uuid.UUID) (*StockRecordResponse, error) {
	var record *inventory.StockRecord
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.StockRecordRepo().FindByID(ctx, companyID, recordID)
		if err != nil {
			return err
		}
		record, err = repos.StockRecordRepo().FindForUpdate(ctx, companyID, found.WarehouseID, found.ProductID)
		if err != nil {
			return err
		}
		computed, err := repos.MovementRepo().SumByStockRecord(ctx, companyID, record.ID)
		if err != nil {
			return err
		}
		if record.QuantityOnHand.Equal(computed) {
			return nil
		}
		s.logger.Warn("Stock projection drifted from movement log",
			zap.String("stock_record_id", record.ID.String()),
			zap.String("cached", record.QuantityOnHand.String()),
			zap.String("computed", computed.String()),
		)
		record.QuantityOnHand = computed
		record.Touch()
		record.IncrementVersion()
		return repos.StockRecordRepo().SaveWithLock(ctx, record)
	})
	if err != nil {
		return nil, err
	}
	response := ToStockRecordResponse(record)
	return &response, nil
}
