package inventory

import (
	"context"

	"github.com/facturacion/backend/internal/domain/catalog"
	"github.com/facturacion/backend/internal/domain/inventory"
	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AdjustmentService manages approval-gated stock corrections. Stock changes
// only at processing time, when one movement posts per line in the same
// transaction as the status change. Processing is deliberately not
// idempotent: a processed adjustment refuses to process again.
type AdjustmentService struct {
	scope           TransactionScope
	adjustmentRepo  inventory.AdjustmentRepository
	warehouseRepo   catalog.WarehouseRepository
	stockRecordRepo inventory.StockRecordRepository
	movementSvc     *MovementService
	logger          *zap.Logger
	clock           Clock
}

// NewAdjustmentService creates a new AdjustmentService
func NewAdjustmentService(
	scope TransactionScope,
	adjustmentRepo inventory.AdjustmentRepository,
	warehouseRepo catalog.WarehouseRepository,
	stockRecordRepo inventory.StockRecordRepository,
	movementSvc *MovementService,
	logger *zap.Logger,
) *AdjustmentService {
	return &AdjustmentService{
		scope:           scope,
		adjustmentRepo:  adjustmentRepo,
		warehouseRepo:   warehouseRepo,
		stockRecordRepo: stockRecordRepo,
		movementSvc:     movementSvc,
		logger:          logger,
		clock:           systemClock{},
	}
}

// Create creates a pending adjustment with its lines
func (s *AdjustmentService) Create(ctx context.Context, companyID uuid.UUID, req CreateAdjustmentRequest) (*AdjustmentResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, companyID, req.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse.CompanyID != companyID {
		return nil, shared.ErrCrossCompany
	}

	existing, err := s.adjustmentRepo.FindByCode(ctx, companyID, req.Code)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Adjustment code already in use")
	}

	adjustment, err := inventory.NewAdjustment(companyID, req.WarehouseID, req.Code, req.Reason)
	if err != nil {
		return nil, err
	}
	adjustment.Notes = req.Notes
	for _, line := range req.Lines {
		added, err := adjustment.AddLine(line.ProductID, inventory.AdjustmentType(line.Type), line.Quantity, line.UnitCost)
		if err != nil {
			return nil, err
		}
		added.LotID = line.LotID

		previous, err := s.onHandQuantity(ctx, companyID, req.WarehouseID, line.ProductID)
		if err != nil {
			return nil, err
		}
		added.RecordQuantities(previous)
	}

	if err := s.adjustmentRepo.Save(ctx, adjustment); err != nil {
		return nil, err
	}

	s.logger.Info("Created adjustment",
		zap.String("adjustment_id", adjustment.ID.String()),
		zap.String("code", adjustment.Code),
	)

	response := ToAdjustmentResponse(adjustment)
	return &response, nil
}

// onHandQuantity returns the current on-hand quantity for a warehouse-product
// pair, zero when no stock record exists yet
func (s *AdjustmentService) onHandQuantity(ctx context.Context, companyID, warehouseID, productID uuid.UUID) (decimal.Decimal, error) {
	record, err := s.stockRecordRepo.FindByWarehouseAndProduct(ctx, companyID, warehouseID, productID)
	if err != nil {
		if shared.IsNotFound(err) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return record.QuantityOnHand, nil
}

// Approve signs off a pending adjustment. Stock stays untouched.
func (s *AdjustmentService) Approve(ctx context.Context, companyID, adjustmentID, approverID uuid.UUID) (*AdjustmentResponse, error) {
	adjustment, err := s.adjustmentRepo.FindByID(ctx, companyID, adjustmentID)
	if err != nil {
		return nil, err
	}
	if err := adjustment.Approve(approverID, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.adjustmentRepo.SaveWithLock(ctx, adjustment); err != nil {
		return nil, err
	}
	response := ToAdjustmentResponse(adjustment)
	return &response, nil
}

// Reject declines a pending adjustment, a terminal state
func (s *AdjustmentService) Reject(ctx context.Context, companyID, adjustmentID uuid.UUID, notes string) (*AdjustmentResponse, error) {
	adjustment, err := s.adjustmentRepo.FindByID(ctx, companyID, adjustmentID)
	if err != nil {
		return nil, err
	}
	if err := adjustment.Reject(notes); err != nil {
		return nil, err
	}
	if err := s.adjustmentRepo.SaveWithLock(ctx, adjustment); err != nil {
		return nil, err
	}
	response := ToAdjustmentResponse(adjustment)
	return &response, nil
}

// Process posts the movements of an approved adjustment and marks it
// processed. The status change and the movements commit atomically; a failed
// line (for example, a decrease exceeding on-hand) rolls everything back and
// the adjustment stays APPROVED.
func (s *AdjustmentService) Process(ctx context.Context, companyID, adjustmentID uuid.UUID, actorID *uuid.UUID) (*AdjustmentResponse, error) {
	var adjustment *inventory.Adjustment
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		adjustment, err = repos.AdjustmentRepo().FindByID(ctx, companyID, adjustmentID)
		if err != nil {
			return err
		}
		if err := adjustment.MarkProcessed(s.clock.Now()); err != nil {
			return err
		}

		for _, line := range adjustment.Lines {
			_, err := s.movementSvc.PostInTransaction(ctx, repos, companyID, PostMovementRequest{
				WarehouseID: adjustment.WarehouseID,
				ProductID:   line.ProductID,
				Kind:        string(line.MovementKind()),
				Quantity:    line.Quantity,
				UnitCost:    line.UnitCost,
				OriginType:  string(inventory.OriginTypeAdjustment),
				OriginID:    adjustment.ID.String(),
				Reference:   adjustment.Code,
				LotID:       line.LotID,
				ActorID:     actorID,
			})
			if err != nil {
				return err
			}
		}

		return repos.AdjustmentRepo().SaveWithLock(ctx, adjustment)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Processed adjustment",
		zap.String("adjustment_id", adjustment.ID.String()),
		zap.String("code", adjustment.Code),
		zap.Int("lines", len(adjustment.Lines)),
	)

	response := ToAdjustmentResponse(adjustment)
	return &response, nil
}

// GetByID retrieves an adjustment by ID
func (s *AdjustmentService) GetByID(ctx context.Context, companyID, adjustmentID uuid.UUID) (*AdjustmentResponse, error) {
	adjustment, err := s.adjustmentRepo.FindByID(ctx, companyID, adjustmentID)
	if err != nil {
		return nil, err
	}
	response := ToAdjustmentResponse(adjustment)
	return &response, nil
}

// List retrieves adjustments with filtering and pagination
func (s *AdjustmentService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]AdjustmentResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	adjustments, err := s.adjustmentRepo.FindAll(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.adjustmentRepo.Count(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToAdjustmentResponses(adjustments), total, nil
}
