package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/facturacion/backend/internal/domain/catalog"
	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *fakeProductRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok || p.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindBySKU(_ context.Context, companyID uuid.UUID, sku string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.CompanyID == companyID && p.SKU == strings.ToUpper(sku) {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindAll(_ context.Context, companyID uuid.UUID, _ shared.Filter) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range r.products {
		if p.CompanyID == companyID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Count(_ context.Context, companyID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

func (r *fakeProductRepo) ExistsBySKU(ctx context.Context, companyID uuid.UUID, sku string) (bool, error) {
	_, err := r.FindBySKU(ctx, companyID, sku)
	if err != nil {
		if shared.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *fakeProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.products[product.ID] = product
	return nil
}

func TestProductService(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	newService := func() *ProductService {
		return NewProductService(newFakeProductRepo(), zap.NewNop())
	}

	t.Run("create normalizes the SKU", func(t *testing.T) {
		svc := newService()

		resp, err := svc.Create(ctx, companyID, CreateProductRequest{
			SKU:  " wdgt-001 ",
			Name: "Widget",
		})
		require.NoError(t, err)

		assert.Equal(t, "WDGT-001", resp.SKU)
		assert.Equal(t, "unit", resp.Unit)
		assert.Equal(t, string(catalog.ProductStatusActive), resp.Status)
	})

	t.Run("create rejects a duplicate SKU", func(t *testing.T) {
		svc := newService()
		_, err := svc.Create(ctx, companyID, CreateProductRequest{SKU: "WDGT-001", Name: "Widget"})
		require.NoError(t, err)

		_, err = svc.Create(ctx, companyID, CreateProductRequest{SKU: "wdgt-001", Name: "Widget copy"})

		require.Error(t, err)
	})

	t.Run("same SKU in another company is fine", func(t *testing.T) {
		svc := newService()
		_, err := svc.Create(ctx, companyID, CreateProductRequest{SKU: "WDGT-001", Name: "Widget"})
		require.NoError(t, err)

		_, err = svc.Create(ctx, uuid.New(), CreateProductRequest{SKU: "WDGT-001", Name: "Widget"})

		require.NoError(t, err)
	})

	t.Run("create with lot tracking", func(t *testing.T) {
		svc := newService()

		resp, err := svc.Create(ctx, companyID, CreateProductRequest{
			SKU:        "BATCH-001",
			Name:       "Perishable",
			LotTracked: true,
		})
		require.NoError(t, err)

		assert.True(t, resp.LotTracked)
	})

	t.Run("update changes name and description", func(t *testing.T) {
		svc := newService()
		created, err := svc.Create(ctx, companyID, CreateProductRequest{SKU: "WDGT-001", Name: "Widget"})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, companyID, created.ID, UpdateProductRequest{
			Name:        "Widget v2",
			Description: "Improved",
		})
		require.NoError(t, err)

		assert.Equal(t, "Widget v2", updated.Name)
		assert.Equal(t, "Improved", updated.Description)
		assert.Greater(t, updated.Version, created.Version)
	})

	t.Run("deactivate and reactivate", func(t *testing.T) {
		svc := newService()
		created, err := svc.Create(ctx, companyID, CreateProductRequest{SKU: "WDGT-001", Name: "Widget"})
		require.NoError(t, err)

		deactivated, err := svc.Deactivate(ctx, companyID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, string(catalog.ProductStatusInactive), deactivated.Status)

		activated, err := svc.Activate(ctx, companyID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, string(catalog.ProductStatusActive), activated.Status)
	})

	t.Run("get by SKU is case insensitive", func(t *testing.T) {
		svc := newService()
		_, err := svc.Create(ctx, companyID, CreateProductRequest{SKU: "WDGT-001", Name: "Widget"})
		require.NoError(t, err)

		resp, err := svc.GetBySKU(ctx, companyID, "wdgt-001")
		require.NoError(t, err)
		assert.Equal(t, "WDGT-001", resp.SKU)
	})

	t.Run("lookup across companies fails", func(t *testing.T) {
		svc := newService()
		created, err := svc.Create(ctx, companyID, CreateProductRequest{SKU: "WDGT-001", Name: "Widget"})
		require.NoError(t, err)

		_, err = svc.GetByID(ctx, uuid.New(), created.ID)

		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}
