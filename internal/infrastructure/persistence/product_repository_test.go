package persistence

import (
	"context"
	"testing"

	"github.com/facturacion/backend/internal/domain/catalog"
	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&catalog.Product{}, &catalog.Warehouse{})
	require.NoError(t, err)

	return db
}

func TestGormProductRepository(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	companyID := uuid.New()
	product, err := catalog.NewProduct(companyID, "WDGT-001", "Widget", "unit")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, product))

	t.Run("finds by SKU regardless of case", func(t *testing.T) {
		found, err := repo.FindBySKU(ctx, companyID, " wdgt-001 ")
		require.NoError(t, err)
		assert.Equal(t, product.ID, found.ID)
	})

	t.Run("reports SKU conflicts", func(t *testing.T) {
		exists, err := repo.ExistsBySKU(ctx, companyID, "wdgt-001")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsBySKU(ctx, uuid.New(), "wdgt-001")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("searches by name", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "widg"
		products, err := repo.FindAll(ctx, companyID, filter)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, product.ID, products[0].ID)
	})

	t.Run("filters by status", func(t *testing.T) {
		inactive, err := catalog.NewProduct(companyID, "WDGT-002", "Old widget", "unit")
		require.NoError(t, err)
		inactive.Deactivate()
		require.NoError(t, repo.Save(ctx, inactive))

		filter := shared.DefaultFilter()
		filter.Filters["status"] = catalog.ProductStatusActive
		products, err := repo.FindAll(ctx, companyID, filter)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, product.ID, products[0].ID)
	})
}

func TestGormWarehouseRepository(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormWarehouseRepository(db)
	ctx := context.Background()

	companyID := uuid.New()
	warehouse, err := catalog.NewWarehouse(companyID, "MAIN", "Main warehouse")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, warehouse))

	t.Run("finds by code regardless of case", func(t *testing.T) {
		found, err := repo.FindByCode(ctx, companyID, " main ")
		require.NoError(t, err)
		assert.Equal(t, warehouse.ID, found.ID)
	})

	t.Run("not found in other company", func(t *testing.T) {
		_, err := repo.FindByCode(ctx, uuid.New(), "MAIN")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("reports code conflicts", func(t *testing.T) {
		exists, err := repo.ExistsByCode(ctx, companyID, "main")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("counts per company", func(t *testing.T) {
		count, err := repo.Count(ctx, companyID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
