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

// TransferService manages stock transfers between warehouses. Shipping posts
// TRANSFER_OUT movements at the source and receiving posts TRANSFER_IN at the
// destination, each in the same transaction as the transfer state change.
type TransferService struct {
	scope         TransactionScope
	transferRepo  inventory.TransferRepository
	warehouseRepo catalog.WarehouseRepository
	movementSvc   *MovementService
	logger        *zap.Logger
	clock         Clock
}

// NewTransferService creates a new TransferService
func NewTransferService(
	scope TransactionScope,
	transferRepo inventory.TransferRepository,
	warehouseRepo catalog.WarehouseRepository,
	movementSvc *MovementService,
	logger *zap.Logger,
) *TransferService {
	return &TransferService{
		scope:         scope,
		transferRepo:  transferRepo,
		warehouseRepo: warehouseRepo,
		movementSvc:   movementSvc,
		logger:        logger,
		clock:         systemClock{},
	}
}

// Create creates a pending transfer with its lines
func (s *TransferService) Create(ctx context.Context, companyID uuid.UUID, req CreateTransferRequest) (*TransferResponse, error) {
	source, err := s.warehouseRepo.FindByID(ctx, companyID, req.SourceWarehouseID)
	if err != nil {
		return nil, err
	}
	destination, err := s.warehouseRepo.FindByID(ctx, companyID, req.DestinationWarehouseID)
	if err != nil {
		return nil, err
	}
	if source.CompanyID != companyID || destination.CompanyID != companyID {
		return nil, shared.ErrCrossCompany
	}

	existing, err := s.transferRepo.FindByCode(ctx, companyID, req.Code)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Transfer code already in use")
	}

	transfer, err := inventory.NewTransfer(companyID, req.SourceWarehouseID, req.DestinationWarehouseID, req.Code)
	if err != nil {
		return nil, err
	}
	transfer.Notes = req.Notes
	for _, line := range req.Lines {
		if _, err := transfer.AddLine(line.ProductID, line.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.transferRepo.Save(ctx, transfer); err != nil {
		return nil, err
	}

	s.logger.Info("Created transfer",
		zap.String("transfer_id", transfer.ID.String()),
		zap.String("code", transfer.Code),
	)

	response := ToTransferResponse(transfer)
	return &response, nil
}

// Ship issues the transfer's stock at the source warehouse. The transfer
// moves to IN_TRANSIT and one TRANSFER_OUT movement posts per line, all in
// one transaction. Insufficient stock on any line rolls back the whole ship.
func (s *TransferService) Ship(ctx context.Context, companyID, transferID uuid.UUID, req ShipTransferRequest) (*TransferResponse, error) {
	var transfer *inventory.Transfer
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		transfer, err = repos.TransferRepo().FindByID(ctx, companyID, transferID)
		if err != nil {
			return err
		}
		if err := transfer.Ship(req.Quantities, s.clock.Now()); err != nil {
			return err
		}

		for _, line := range transfer.Lines {
			movement, err := s.movementSvc.PostInTransaction(ctx, repos, companyID, PostMovementRequest{
				WarehouseID: transfer.SourceWarehouseID,
				ProductID:   line.ProductID,
				Kind:        string(inventory.MovementKindTransferOut),
				Quantity:    line.ShippedQty,
				OriginType:  string(inventory.OriginTypeTransfer),
				OriginID:    transfer.ID.String(),
				Reference:   transfer.Code,
				ActorID:     req.ActorID,
			})
			if err != nil {
				return err
			}
			// issue cost and lot identity travel with the goods to the destination
			line.ShippedUnitCost = movement.UnitCost
			if movement.LotID != nil {
				lot, err := repos.LotRepo().FindByID(ctx, companyID, *movement.LotID)
				if err != nil {
					return err
				}
				line.LotID = movement.LotID
				line.LotNumber = lot.LotNumber
			}
		}

		return repos.TransferRepo().SaveWithLock(ctx, transfer)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Shipped transfer",
		zap.String("transfer_id", transfer.ID.String()),
		zap.String("code", transfer.Code),
	)

	response := ToTransferResponse(transfer)
	return &response, nil
}

// Receive enters arrived quantities at the destination warehouse. Each
// received line posts a TRANSFER_IN movement at the shipped unit cost.
// Partial receipts are allowed; the transfer completes when every line is
// fully received.
func (s *TransferService) Receive(ctx context.Context, companyID, transferID uuid.UUID, req ReceiveTransferRequest) (*TransferResponse, error) {
	var transfer *inventory.Transfer
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		transfer, err = repos.TransferRepo().FindByID(ctx, companyID, transferID)
		if err != nil {
			return err
		}

		costs := make(map[uuid.UUID]decimal.Decimal, len(transfer.Lines))
		lotNumbers := make(map[uuid.UUID]string, len(transfer.Lines))
		for _, line := range transfer.Lines {
			costs[line.ProductID] = line.ShippedUnitCost
			lotNumbers[line.ProductID] = line.LotNumber
		}

		if err := transfer.Receive(req.Quantities, s.clock.Now()); err != nil {
			return err
		}

		for productID, qty := range req.Quantities {
			_, err := s.movementSvc.PostInTransaction(ctx, repos, companyID, PostMovementRequest{
				WarehouseID: transfer.DestinationWarehouseID,
				ProductID:   productID,
				Kind:        string(inventory.MovementKindTransferIn),
				Quantity:    qty,
				UnitCost:    costs[productID],
				LotNumber:   lotNumbers[productID],
				OriginType:  string(inventory.OriginTypeTransfer),
				OriginID:    transfer.ID.String(),
				Reference:   transfer.Code,
				ActorID:     req.ActorID,
			})
			if err != nil {
				return err
			}
		}

		return repos.TransferRepo().SaveWithLock(ctx, transfer)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Received transfer",
		zap.String("transfer_id", transfer.ID.String()),
		zap.String("status", string(transfer.Status)),
	)

	response := ToTransferResponse(transfer)
	return &response, nil
}

// Cancel aborts a pending transfer. No movements exist yet at that point, so
// nothing is posted.
func (s *TransferService) Cancel(ctx context.Context, companyID, transferID uuid.UUID) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByID(ctx, companyID, transferID)
	if err != nil {
		return nil, err
	}
	if err := transfer.Cancel(); err != nil {
		return nil, err
	}
	if err := s.transferRepo.SaveWithLock(ctx, transfer); err != nil {
		return nil, err
	}

	s.logger.Info("Cancelled transfer", zap.String("transfer_id", transferID.String()))

	response := ToTransferResponse(transfer)
	return &response, nil
}

// GetByID retrieves a transfer by ID
func (s *TransferService) GetByID(ctx context.Context, companyID, transferID uuid.UUID) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByID(ctx, companyID, transferID)
	if err != nil {
		return nil, err
	}
	response := ToTransferResponse(transfer)
	return &response, nil
}

// List retrieves transfers with filtering and pagination
func (s *TransferService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]TransferResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	transfers, err := s.transferRepo.FindAll(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.transferRepo.Count(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToTransferResponses(transfers), total, nil
}
