package catalog

import (
	"context"
	"strings"

	"github.com/facturacion/backend/internal/domain/catalog"
	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WarehouseService manages stock locations
type WarehouseService struct {
	warehouseRepo catalog.WarehouseRepository
	logger        *zap.Logger
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(warehouseRepo catalog.WarehouseRepository, logger *zap.Logger) *WarehouseService {
	return &WarehouseService{
		warehouseRepo: warehouseRepo,
		logger:        logger,
	}
}

// Create creates a new warehouse
func (s *WarehouseService) Create(ctx context.Context, companyID uuid.UUID, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	exists, err := s.warehouseRepo.ExistsByCode(ctx, companyID, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Warehouse code already in use")
	}

	warehouse, err := catalog.NewWarehouse(companyID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	warehouse.Address = req.Address

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}

	s.logger.Info("Created warehouse",
		zap.String("warehouse_id", warehouse.ID.String()),
		zap.String("code", warehouse.Code),
	)

	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// Update updates a warehouse's basic information
func (s *WarehouseService) Update(ctx context.Context, companyID, warehouseID uuid.UUID, req UpdateWarehouseRequest) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, companyID, warehouseID)
	if err != nil {
		return nil, err
	}
	if err := warehouse.Update(req.Name, req.Address); err != nil {
		return nil, err
	}
	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// Deactivate marks a warehouse inactive
func (s *WarehouseService) Deactivate(ctx context.Context, companyID, warehouseID uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, companyID, warehouseID)
	if err != nil {
		return nil, err
	}
	warehouse.Deactivate()
	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// Activate marks a warehouse active again
func (s *WarehouseService) Activate(ctx context.Context, companyID, warehouseID uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, companyID, warehouseID)
	if err != nil {
		return nil, err
	}
	warehouse.Activate()
	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// GetByID retrieves a warehouse by ID
func (s *WarehouseService) GetByID(ctx context.Context, companyID, warehouseID uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, companyID, warehouseID)
	if err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// List retrieves warehouses with filtering and pagination
func (s *WarehouseService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]WarehouseResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	warehouses, err := s.warehouseRepo.FindAll(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.warehouseRepo.Count(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToWarehouseResponses(warehouses), total, nil
}
