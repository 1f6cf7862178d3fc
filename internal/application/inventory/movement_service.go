package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/facturacion/backend/internal/domain/catalog"
	"github.com/facturacion/backend/internal/domain/inventory"
	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultExpiryAlertWindow is how far ahead lot expiry alerts look
const DefaultExpiryAlertWindow = 30 * 24 * time.Hour

// MovementService posts stock movements. Every posting runs in a single
// transaction: the movement row, the stock record update, lot changes, and
// alert refresh commit or roll back together. The stock record is loaded
// under a row lock so concurrent postings on the same warehouse-product pair
// serialize instead of losing updates.
type MovementService struct {
	scope         TransactionScope
	productRepo   catalog.ProductRepository
	warehouseRepo catalog.WarehouseRepository
	movementRepo  inventory.MovementRepository
	logger        *zap.Logger
}

// NewMovementService creates a new MovementService
func NewMovementService(
	scope TransactionScope,
	productRepo catalog.ProductRepository,
	warehouseRepo catalog.WarehouseRepository,
	movementRepo inventory.MovementRepository,
	logger *zap.Logger,
) *MovementService {
	return &MovementService{
		scope:         scope,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		movementRepo:  movementRepo,
		logger:        logger,
	}
}

// PostMovement posts a single stock movement and returns the created record.
// Inbound movements create the stock record on first receipt; outbound
// movements fail with INSUFFICIENT_STOCK when on-hand cannot cover the
// quantity. When a reservation ID is supplied, the reservation is released
// in the same transaction.
func (s *MovementService) PostMovement(ctx context.Context, companyID uuid.UUID, req PostMovementRequest) (*MovementResponse, error) {
	var movement *inventory.Movement
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		movement, err = s.PostInTransaction(ctx, repos, companyID, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Posted stock movement",
		zap.String("movement_id", movement.ID.String()),
		zap.String("kind", string(movement.Kind)),
		zap.String("quantity", movement.Quantity.String()),
		zap.String("balance_after", movement.BalanceAfter.String()),
	)

	response := ToMovementResponse(movement)
	return &response, nil
}

// ReverseMovement posts a compensating movement for an existing one. The
// original stays in the ledger untouched; a movement can be reversed at most
// once.
func (s *MovementService) ReverseMovement(ctx context.Context, companyID, movementID uuid.UUID, actorID *uuid.UUID) (*MovementResponse, error) {
	var reversal *inventory.Movement
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		original, err := repos.MovementRepo().FindByID(ctx, companyID, movementID)
		if err != nil {
			return err
		}
		if original.Kind.IsReversal() {
			return shared.NewDomainError("INVALID_STATE", "A reversal movement cannot be reversed")
		}
		reversed, err := repos.MovementRepo().ExistsReversal(ctx, companyID, original.ID)
		if err != nil {
			return err
		}
		if reversed {
			return shared.NewDomainError("INVALID_STATE", "Movement has already been reversed")
		}

		record, err := repos.StockRecordRepo().FindForUpdate(ctx, companyID, original.WarehouseID, original.ProductID)
		if err != nil {
			return err
		}

		balanceBefore := record.QuantityOnHand
		reversalKind := original.Kind.ReversalKind()
		if reversalKind.IsInbound() {
			if err := record.ApplyInbound(original.Quantity, original.UnitCost); err != nil {
				return err
			}
			if original.LotID != nil {
				if err := s.adjustLot(ctx, repos, companyID, *original.LotID, original.Quantity, true); err != nil {
					return err
				}
			}
		} else {
			if original.LotID != nil {
				if err := s.adjustLot(ctx, repos, companyID, *original.LotID, original.Quantity, false); err != nil {
					return err
				}
			}
			if err := record.ApplyOutbound(original.Quantity); err != nil {
				return err
			}
		}

		if record.ValuationMethod.UsesLots() {
			if err := s.snapshotLotCost(ctx, repos, record); err != nil {
				return err
			}
		}

		reversal, err = inventory.NewMovement(
			companyID, record.ID, original.WarehouseID, original.ProductID,
			reversalKind, original.Quantity, original.UnitCost,
			balanceBefore, record.QuantityOnHand,
			inventory.OriginTypeReversal, original.ID.String(),
		)
		if err != nil {
			return err
		}
		if original.LotID != nil {
			reversal.WithLotID(*original.LotID)
		}
		if actorID != nil {
			reversal.WithActorID(*actorID)
		}

		if err := repos.MovementRepo().Save(ctx, reversal); err != nil {
			return err
		}
		if err := repos.StockRecordRepo().SaveWithLock(ctx, record); err != nil {
			return err
		}
		return s.refreshAlerts(ctx, repos, record)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Reversed stock movement",
		zap.String("original_id", movementID.String()),
		zap.String("reversal_id", reversal.ID.String()),
	)

	response := ToMovementResponse(reversal)
	return &response, nil
}

// GetByID retrieves a movement by ID
func (s *MovementService) GetByID(ctx context.Context, companyID, movementID uuid.UUID) (*MovementResponse, error) {
	movement, err := s.movementRepo.FindByID(ctx, companyID, movementID)
	if err != nil {
		return nil, err
	}
	response := ToMovementResponse(movement)
	return &response, nil
}

// List retrieves movements with filtering and pagination
func (s *MovementService) List(ctx context.Context, companyID uuid.UUID, filter MovementListFilter) ([]MovementResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "occurred_at"
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
	if filter.Kind != "" {
		domainFilter.Filters["kind"] = filter.Kind
	}
	if filter.OriginType != "" {
		domainFilter.Filters["origin_type"] = filter.OriginType
	}
	if filter.OriginID != "" {
		domainFilter.Filters["origin_id"] = filter.OriginID
	}

	movements, err := s.movementRepo.FindAll(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.movementRepo.Count(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToMovementResponses(movements), total, nil
}

// PostInTransaction posts a movement using repositories that are already
// scoped to a caller-managed transaction. Transfers, adjustments, and count
// applications use this to keep their document state change and the posted
// movements in one atomic unit.
func (s *MovementService) PostInTransaction(ctx context.Context, repos TransactionalRepositories, companyID uuid.UUID, req PostMovementRequest) (*inventory.Movement, error) {
	kind := inventory.MovementKind(req.Kind)
	if !kind.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid movement kind")
	}
	originType := inventory.OriginType(req.OriginType)
	if !originType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid origin type")
	}

	product, err := s.productRepo.FindByID(ctx, companyID, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product.CompanyID != companyID {
		return nil, shared.ErrCrossCompany
	}
	warehouse, err := s.warehouseRepo.FindByID(ctx, companyID, req.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse.CompanyID != companyID {
		return nil, shared.ErrCrossCompany
	}

	record, err := s.lockOrCreateRecord(ctx, repos, companyID, req.WarehouseID, req.ProductID, kind)
	if err != nil {
		return nil, err
	}

	balanceBefore := record.QuantityOnHand
	useLots := product.LotTracked || record.ValuationMethod.UsesLots()

	var unitCost decimal.Decimal
	var lotID *uuid.UUID
	if kind.IsInbound() {
		unitCost = req.UnitCost
		if err := record.ApplyInbound(req.Quantity, unitCost); err != nil {
			return nil, err
		}
		if useLots {
			lot, err := s.receiveIntoLot(ctx, repos, record, product, req)
			if err != nil {
				return nil, err
			}
			lotID = &lot.ID
		}
	} else {
		unitCost, lotID, err = s.consumeOutbound(ctx, repos, record, req, useLots)
		if err != nil {
			return nil, err
		}
		if err := record.ApplyOutbound(req.Quantity); err != nil {
			return nil, err
		}
	}

	if record.ValuationMethod.UsesLots() {
		if err := s.snapshotLotCost(ctx, repos, record); err != nil {
			return nil, err
		}
	}

	movement, err := inventory.NewMovement(
		companyID, record.ID, req.WarehouseID, req.ProductID,
		kind, req.Quantity, unitCost,
		balanceBefore, record.QuantityOnHand,
		originType, req.OriginID,
	)
	if err != nil {
		return nil, err
	}
	if lotID != nil {
		movement.WithLotID(*lotID)
	}
	if req.Reference != "" {
		movement.WithReference(req.Reference)
	}
	if req.ActorID != nil {
		movement.WithActorID(*req.ActorID)
	}

	if req.ReservationID != nil {
		if err := s.releaseReservation(ctx, repos, companyID, *req.ReservationID); err != nil {
			return nil, err
		}
	}

	if err := repos.MovementRepo().Save(ctx, movement); err != nil {
		return nil, err
	}
	if err := repos.StockRecordRepo().SaveWithLock(ctx, record); err != nil {
		return nil, err
	}
	if err := s.refreshAlerts(ctx, repos, record); err != nil {
		return nil, err
	}
	return movement, nil
}

func (s *MovementService) lockOrCreateRecord(
	ctx context.Context,
	repos TransactionalRepositories,
	companyID, warehouseID, productID uuid.UUID,
	kind inventory.MovementKind,
) (*inventory.StockRecord, error) {
	record, err := repos.StockRecordRepo().FindForUpdate(ctx, companyID, warehouseID, productID)
	if err == nil {
		return record, nil
	}
	if !shared.IsNotFound(err) {
		return nil, err
	}
	if kind.IsOutbound() {
		// no record means zero on hand
		return nil, inventory.ErrInsufficientStock
	}
	record, err = inventory.NewStockRecord(companyID, warehouseID, productID, inventory.ValuationAverage)
	if err != nil {
		return nil, err
	}
	if err := repos.StockRecordRepo().Save(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *MovementService) receiveIntoLot(
	ctx context.Context,
	repos TransactionalRepositories,
	record *inventory.StockRecord,
	product *catalog.Product,
	req PostMovementRequest,
) (*inventory.Lot, error) {
	if req.LotID != nil {
		lot, err := repos.LotRepo().FindByID(ctx, record.CompanyID, *req.LotID)
		if err != nil {
			return nil, err
		}
		if lot.StockRecordID != record.ID {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Lot does not belong to this stock record")
		}
		if err := lot.Restock(req.Quantity); err != nil {
			return nil, err
		}
		if err := repos.LotRepo().Save(ctx, lot); err != nil {
			return nil, err
		}
		return lot, nil
	}

	lotNumber := req.LotNumber
	if lotNumber == "" {
		// Operators posting a receipt for a tracked product must name the lot;
		// document-driven postings fall back to a generated number.
		if product.LotTracked && !inventory.OriginType(req.OriginType).IsDocumentDriven() {
			return nil, inventory.ErrLotRequired
		}
		lotNumber = fmt.Sprintf("RCV-%s", uuid.New().String()[:8])
	}

	lot, err := inventory.NewLot(
		record.CompanyID, record.ID, record.WarehouseID, record.ProductID,
		lotNumber, nil, req.ExpiryDate,
		req.Quantity, req.UnitCost,
	)
	if err != nil {
		return nil, err
	}
	if err := repos.LotRepo().Save(ctx, lot); err != nil {
		return nil, err
	}
	return lot, nil
}

// consumeOutbound resolves the unit cost of an outbound movement and applies
// lot decrements. For FIFO/LIFO the cost is drawn from open lots in method
// order; for AVERAGE and SPECIFIC_PRICE it is the cached record cost. Lots
// are decremented whenever the record carries them, even when they do not
// drive the cost, so remaining quantities track on-hand.
func (s *MovementService) consumeOutbound(
	ctx context.Context,
	repos TransactionalRepositories,
	record *inventory.StockRecord,
	req PostMovementRequest,
	useLots bool,
) (decimal.Decimal, *uuid.UUID, error) {
	now := time.Now()

	if req.LotID != nil {
		lot, err := repos.LotRepo().FindByID(ctx, record.CompanyID, *req.LotID)
		if err != nil {
			return decimal.Zero, nil, err
		}
		if lot.StockRecordID != record.ID {
			return decimal.Zero, nil, shared.NewDomainError("VALIDATION_ERROR", "Lot does not belong to this stock record")
		}
		if !lot.IsConsumable(now) {
			return decimal.Zero, nil, shared.NewDomainError("INVALID_STATE", "Lot is not consumable")
		}
		if err := lot.Decrement(req.Quantity); err != nil {
			return decimal.Zero, nil, err
		}
		if err := repos.LotRepo().Save(ctx, lot); err != nil {
			return decimal.Zero, nil, err
		}
		if record.ValuationMethod.UsesLots() {
			return lot.UnitCost, req.LotID, nil
		}
		return record.UnitCost, req.LotID, nil
	}

	if !useLots {
		return record.UnitCost, nil, nil
	}

	lots, err := repos.LotRepo().FindConsumable(ctx, record.CompanyID, record.ID, now)
	if err != nil {
		return decimal.Zero, nil, err
	}
	consumptions, err := inventory.ConsumeFromLots(lots, req.Quantity, record.ValuationMethod, now)
	if err != nil {
		return decimal.Zero, nil, err
	}
	for _, c := range consumptions {
		if err := c.Lot.Decrement(c.Quantity); err != nil {
			return decimal.Zero, nil, err
		}
		if err := repos.LotRepo().Save(ctx, c.Lot); err != nil {
			return decimal.Zero, nil, err
		}
	}

	var lotID *uuid.UUID
	if len(consumptions) == 1 {
		lotID = &consumptions[0].Lot.ID
	}
	if !record.ValuationMethod.UsesLots() {
		return record.UnitCost, lotID, nil
	}
	return inventory.WeightedLotCost(consumptions), lotID, nil
}

// adjustLot restores lot quantity when reversing an outbound movement, or
// takes it back when reversing an inbound one.
func (s *MovementService) adjustLot(ctx context.Context, repos TransactionalRepositories, companyID, lotID uuid.UUID, quantity decimal.Decimal, restore bool) error {
	lot, err := repos.LotRepo().FindByID(ctx, companyID, lotID)
	if err != nil {
		return err
	}
	if restore {
		if err := lot.Increment(quantity); err != nil {
			return err
		}
	} else if err := lot.Decrement(quantity); err != nil {
		return err
	}
	return repos.LotRepo().Save(ctx, lot)
}

// snapshotLotCost recomputes the cached unit cost of a FIFO/LIFO record as a
// weighted snapshot of remaining lots
func (s *MovementService) snapshotLotCost(ctx context.Context, repos TransactionalRepositories, record *inventory.StockRecord) error {
	lots, err := repos.LotRepo().FindByStockRecord(ctx, record.CompanyID, record.ID)
	if err != nil {
		return err
	}
	totalQty := decimal.Zero
	totalValue := decimal.Zero
	for _, lot := range lots {
		totalQty = totalQty.Add(lot.RemainingQuantity)
		totalValue = totalValue.Add(lot.RemainingValue())
	}
	if totalQty.IsZero() {
		return nil
	}
	record.SetUnitCostSnapshot(totalValue.Div(totalQty).Round(4))
	return nil
}

func (s *MovementService) releaseReservation(ctx context.Context, repos TransactionalRepositories, companyID, reservationID uuid.UUID) error {
	reservation, err := repos.ReservationRepo().FindByID(ctx, companyID, reservationID)
	if err != nil {
		return err
	}
	if reservation.CompanyID != companyID {
		return shared.ErrCrossCompany
	}
	if err := reservation.Cancel(); err != nil {
		return err
	}
	return repos.ReservationRepo().SaveWithLock(ctx, reservation)
}

// refreshAlerts rewrites the open threshold and expiry alerts of a record
// from its current state
func (s *MovementService) refreshAlerts(ctx context.Context, repos TransactionalRepositories, record *inventory.StockRecord) error {
	if err := repos.AlertRepo().DeleteOpenByStockRecord(ctx, record.CompanyID, record.ID); err != nil {
		return err
	}
	alerts := inventory.EvaluateStockAlerts(record)
	lots, err := repos.LotRepo().FindByStockRecord(ctx, record.CompanyID, record.ID)
	if err != nil {
		return err
	}
	alerts = append(alerts, inventory.EvaluateLotAlerts(record, lots, time.Now(), DefaultExpiryAlertWindow)...)
	for _, alert := range alerts {
		if err := repos.AlertRepo().Save(ctx, alert); err != nil {
			return err
		}
	}
	return nil
}
