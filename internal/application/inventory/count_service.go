package inventory

import (
	"context"
	"fmt"

	"github.com/facturacion/backend/internal/domain/catalog"
	"github.com/facturacion/backend/internal/domain/inventory"
	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PhysicalCountService manages stocktakes. Applying a finished count creates
// exactly one auto-approved adjustment from the counted differences and
// processes it in the same transaction.
type PhysicalCountService struct {
	scope           TransactionScope
	countRepo       inventory.PhysicalCountRepository
	stockRecordRepo inventory.StockRecordRepository
	warehouseRepo   catalog.WarehouseRepository
	movementSvc     *MovementService
	logger          *zap.Logger
	clock           Clock
}

// NewPhysicalCountService creates a new PhysicalCountService
func NewPhysicalCountService(
	scope TransactionScope,
	countRepo inventory.PhysicalCountRepository,
	stockRecordRepo inventory.StockRecordRepository,
	warehouseRepo catalog.WarehouseRepository,
	movementSvc *MovementService,
	logger *zap.Logger,
) *PhysicalCountService {
	return &PhysicalCountService{
		scope:           scope,
		countRepo:       countRepo,
		stockRecordRepo: stockRecordRepo,
		warehouseRepo:   warehouseRepo,
		movementSvc:     movementSvc,
		logger:          logger,
		clock:           systemClock{},
	}
}

// Create plans a physical count for a set of products at a warehouse
func (s *PhysicalCountService) Create(ctx context.Context, companyID uuid.UUID, req CreatePhysicalCountRequest) (*PhysicalCountResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, companyID, req.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse.CompanyID != companyID {
		return nil, shared.ErrCrossCompany
	}

	existing, err := s.countRepo.FindByCode(ctx, companyID, req.Code)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Count code already in use")
	}

	count, err := inventory.NewPhysicalCount(companyID, req.WarehouseID, req.Code)
	if err != nil {
		return nil, err
	}
	count.Notes = req.Notes
	for _, productID := range req.ProductIDs {
		if _, err := count.AddLine(productID); err != nil {
			return nil, err
		}
	}

	if err := s.countRepo.Save(ctx, count); err != nil {
		return nil, err
	}

	s.logger.Info("Planned physical count",
		zap.String("count_id", count.ID.String()),
		zap.String("code", count.Code),
		zap.Int("lines", len(count.Lines)),
	)

	response := ToPhysicalCountResponse(count)
	return &response, nil
}

// Start begins counting, snapshotting the current system quantity per line
func (s *PhysicalCountService) Start(ctx context.Context, companyID, countID uuid.UUID) (*PhysicalCountResponse, error) {
	count, err := s.countRepo.FindByID(ctx, companyID, countID)
	if err != nil {
		return nil, err
	}

	systemQty := make(map[uuid.UUID]decimal.Decimal, len(count.Lines))
	for _, line := range count.Lines {
		record, err := s.stockRecordRepo.FindByWarehouseAndProduct(ctx, companyID, count.WarehouseID, line.ProductID)
		if err != nil {
			if shared.IsNotFound(err) {
				continue // no record yet, snapshots zero
			}
			return nil, err
		}
		systemQty[line.ProductID] = record.QuantityOnHand
	}

	if err := count.Start(systemQty, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.countRepo.SaveWithLock(ctx, count); err != nil {
		return nil, err
	}
	response := ToPhysicalCountResponse(count)
	return &response, nil
}

// RecordCount writes a counted quantity on a line
func (s *PhysicalCountService) RecordCount(ctx context.Context, companyID, countID uuid.UUID, req RecordCountRequest) (*PhysicalCountResponse, error) {
	count, err := s.countRepo.FindByID(ctx, companyID, countID)
	if err != nil {
		return nil, err
	}
	if err := count.RecordCount(req.ProductID, req.Quantity, req.CounterID, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.countRepo.Save(ctx, count); err != nil {
		return nil, err
	}
	response := ToPhysicalCountResponse(count)
	return &response, nil
}

// Finish freezes the counted quantities
func (s *PhysicalCountService) Finish(ctx context.Context, companyID, countID uuid.UUID) (*PhysicalCountResponse, error) {
	count, err := s.countRepo.FindByID(ctx, companyID, countID)
	if err != nil {
		return nil, err
	}
	if err := count.Finish(s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.countRepo.SaveWithLock(ctx, count); err != nil {
		return nil, err
	}
	response := ToPhysicalCountResponse(count)
	return &response, nil
}

// Apply turns the differences of a finished count into one auto-approved,
// processed adjustment. A count with no differences completes without an
// adjustment. Everything commits in a single transaction.
func (s *PhysicalCountService) Apply(ctx context.Context, companyID, countID uuid.UUID, actorID uuid.UUID) (*PhysicalCountResponse, error) {
	var count *inventory.PhysicalCount
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		count, err = repos.PhysicalCountRepo().FindByID(ctx, companyID, countID)
		if err != nil {
			return err
		}

		var withDiff []*inventory.PhysicalCountLine
		for _, line := range count.Lines {
			if line.HasDifference() {
				withDiff = append(withDiff, line)
			}
		}

		if len(withDiff) == 0 {
			if err := count.MarkAdjusted(nil, s.clock.Now()); err != nil {
				return err
			}
			return repos.PhysicalCountRepo().SaveWithLock(ctx, count)
		}

		adjustment, err := inventory.NewAdjustment(
			companyID, count.WarehouseID,
			fmt.Sprintf("%s-ADJ", count.Code),
			"Physical count difference",
		)
		if err != nil {
			return err
		}
		for _, line := range withDiff {
			diff := line.Difference()
			adjType := inventory.AdjustmentTypeIncrease
			if diff.IsNegative() {
				adjType = inventory.AdjustmentTypeDecrease
			}
			record, err := repos.StockRecordRepo().FindByWarehouseAndProduct(ctx, companyID, count.WarehouseID, line.ProductID)
			unitCost := decimal.Zero
			if err == nil {
				unitCost = record.UnitCost
			} else if !shared.IsNotFound(err) {
				return err
			}
			added, err := adjustment.AddLine(line.ProductID, adjType, diff.Abs(), unitCost)
			if err != nil {
				return err
			}
			added.LotID = line.LotID
			added.RecordQuantities(line.SystemQty)
		}

		if err := adjustment.Approve(actorID, s.clock.Now()); err != nil {
			return err
		}
		if err := adjustment.MarkProcessed(s.clock.Now()); err != nil {
			return err
		}
		if err := repos.AdjustmentRepo().Save(ctx, adjustment); err != nil {
			return err
		}

		for _, line := range adjustment.Lines {
			_, err := s.movementSvc.PostInTransaction(ctx, repos, companyID, PostMovementRequest{
				WarehouseID: adjustment.WarehouseID,
				ProductID:   line.ProductID,
				Kind:        string(line.MovementKind()),
				Quantity:    line.Quantity,
				UnitCost:    line.UnitCost,
				OriginType:  string(inventory.OriginTypePhysicalCount),
				OriginID:    count.ID.String(),
				Reference:   adjustment.Code,
				LotID:       line.LotID,
				ActorID:     &actorID,
			})
			if err != nil {
				return err
			}
		}

		if err := count.MarkAdjusted(&adjustment.ID, s.clock.Now()); err != nil {
			return err
		}
		return repos.PhysicalCountRepo().SaveWithLock(ctx, count)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Applied physical count",
		zap.String("count_id", count.ID.String()),
		zap.String("code", count.Code),
	)

	response := ToPhysicalCountResponse(count)
	return &response, nil
}

// Cancel aborts a count whose differences have not been applied
func (s *PhysicalCountService) Cancel(ctx context.Context, companyID, countID uuid.UUID) (*PhysicalCountResponse, error) {
	count, err := s.countRepo.FindByID(ctx, companyID, countID)
	if err != nil {
		return nil, err
	}
	if err := count.Cancel(); err != nil {
		return nil, err
	}
	if err := s.countRepo.SaveWithLock(ctx, count); err != nil {
		return nil, err
	}
	response := ToPhysicalCountResponse(count)
	return &response, nil
}

// GetByID retrieves a physical count by ID
func (s *PhysicalCountService) GetByID(ctx context.Context, companyID, countID uuid.UUID) (*PhysicalCountResponse, error) {
	count, err := s.countRepo.FindByID(ctx, companyID, countID)
	if err != nil {
		return nil, err
	}
	response := ToPhysicalCountResponse(count)
	return &response, nil
}

// List retrieves physical counts with filtering and pagination
func (s *PhysicalCountService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]PhysicalCountResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	counts, err := s.countRepo.FindAll(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.countRepo.Count(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToPhysicalCountResponses(counts), total, nil
}
