package catalog

import (
	"context"
	"strings"

	"github.com/facturacion/backend/internal/domain/catalog"
	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService manages the product catalog
type ProductService struct {
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, companyID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	sku := strings.ToUpper(strings.TrimSpace(req.SKU))
	exists, err := s.productRepo.ExistsBySKU(ctx, companyID, sku)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product SKU already in use")
	}

	product, err := catalog.NewProduct(companyID, req.SKU, req.Name, req.Unit)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	if req.LotTracked {
		product.EnableLotTracking()
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Created product",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
	)

	response := ToProductResponse(product)
	return &response, nil
}

// Update updates a product's basic information
func (s *ProductService) Update(ctx context.Context, companyID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	if err := product.Update(req.Name, req.Description, req.Unit); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// EnableLotTracking turns on lot tracking for a product. Tracking cannot be
// turned off once stock has moved under it, so there is no disable path.
func (s *ProductService) EnableLotTracking(ctx context.Context, companyID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	product.EnableLotTracking()
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Deactivate marks a product inactive
func (s *ProductService) Deactivate(ctx context.Context, companyID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	product.Deactivate()
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Activate marks a product active again
func (s *ProductService) Activate(ctx context.Context, companyID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	product.Activate()
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, companyID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetBySKU retrieves a product by SKU
func (s *ProductService) GetBySKU(ctx context.Context, companyID uuid.UUID, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, companyID, strings.ToUpper(strings.TrimSpace(sku)))
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]ProductResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	products, err := s.productRepo.FindAll(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(products), total, nil
}
