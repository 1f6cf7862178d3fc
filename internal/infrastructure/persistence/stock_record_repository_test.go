package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/facturacion/backend/internal/domain/inventory"
	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStockRecordTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&inventory.StockRecord{})
	require.NoError(t, err)

	return db
}

func newTestStockRecord(t *testing.T, companyID uuid.UUID, qty int64) *inventory.StockRecord {
	record, err := inventory.NewStockRecord(companyID, uuid.New(), uuid.New(), inventory.ValuationAverage)
	require.NoError(t, err)
	record.QuantityOnHand = decimal.NewFromInt(qty)
	return record
}

func TestGormStockRecordRepository_FindByWarehouseAndProduct(t *testing.T) {
	db := setupStockRecordTestDB(t)
	repo := NewGormStockRecordRepository(db)
	ctx := context.Background()

	companyID := uuid.New()
	record := newTestStockRecord(t, companyID, 100)
	require.NoError(t, repo.Save(ctx, record))

	t.Run("finds existing record", func(t *testing.T) {
		found, err := repo.FindByWarehouseAndProduct(ctx, companyID, record.WarehouseID, record.ProductID)
		require.NoError(t, err)
		assert.Equal(t, record.ID, found.ID)
		assert.True(t, found.QuantityOnHand.Equal(decimal.NewFromInt(100)))
	})

	t.Run("returns not found for missing pair", func(t *testing.T) {
		_, err := repo.FindByWarehouseAndProduct(ctx, companyID, uuid.New(), record.ProductID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("does not cross company boundaries", func(t *testing.T) {
		_, err := repo.FindByWarehouseAndProduct(ctx, uuid.New(), record.WarehouseID, record.ProductID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormStockRecordRepository_ListCompanyIDs(t *testing.T) {
	db := setupStockRecordTestDB(t)
	repo := NewGormStockRecordRepository(db)
	ctx := context.Background()

	first := uuid.New()
	second := uuid.New()
	require.NoError(t, repo.Save(ctx, newTestStockRecord(t, first, 10)))
	require.NoError(t, repo.Save(ctx, newTestStockRecord(t, first, 20)))
	require.NoError(t, repo.Save(ctx, newTestStockRecord(t, second, 30)))

	ids, err := repo.ListCompanyIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, first)
	assert.Contains(t, ids, second)
}

func TestGormStockRecordRepository_FindForUpdate(t *testing.T) {
	db := setupStockRecordTestDB(t)
	repo := NewGormStockRecordRepository(db)
	ctx := context.Background()

	companyID := uuid.New()
	record := newTestStockRecord(t, companyID, 50)
	require.NoError(t, repo.Save(ctx, record))

	found, err := repo.FindForUpdate(ctx, companyID, record.WarehouseID, record.ProductID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, found.ID)
}

func TestGormStockRecordRepository_SaveWithLock(t *testing.T) {
	db := setupStockRecordTestDB(t)
	repo := NewGormStockRecordRepository(db)
	ctx := context.Background()

	companyID := uuid.New()

	t.Run("saves when version matches", func(t *testing.T) {
		record := newTestStockRecord(t, companyID, 10)
		require.NoError(t, repo.Save(ctx, record))

		require.NoError(t, record.ApplyInbound(decimal.NewFromInt(5), decimal.NewFromInt(2)))
		require.NoError(t, repo.SaveWithLock(ctx, record))

		found, err := repo.FindByID(ctx, companyID, record.ID)
		require.NoError(t, err)
		assert.Equal(t, "15", found.QuantityOnHand.String())
		assert.Equal(t, record.Version, found.Version)
	})

	t.Run("fails on stale version", func(t *testing.T) {
		record := newTestStockRecord(t, companyID, 10)
		require.NoError(t, repo.Save(ctx, record))

		stale := *record
		record.IncrementVersion()
		require.NoError(t, repo.SaveWithLock(ctx, record))

		stale.QuantityOnHand = decimal.NewFromInt(999)
		stale.IncrementVersion()
		err := repo.SaveWithLock(ctx, &stale)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OPTIMISTIC_LOCK_FAILED", domainErr.Code)

		found, err := repo.FindByID(ctx, companyID, record.ID)
		require.NoError(t, err)
		assert.Equal(t, "10", found.QuantityOnHand.String())
	})
}

func TestGormStockRecordRepository_FindBelowMinimum(t *testing.T) {
	db := setupStockRecordTestDB(t)
	repo := NewGormStockRecordRepository(db)
	ctx := context.Background()

	companyID := uuid.New()

	low := newTestStockRecord(t, companyID, 5)
	require.NoError(t, low.SetThresholds(decimal.NewFromInt(10), decimal.Zero, decimal.Zero))
	require.NoError(t, repo.Save(ctx, low))

	healthy := newTestStockRecord(t, companyID, 50)
	require.NoError(t, healthy.SetThresholds(decimal.NewFromInt(10), decimal.Zero, decimal.Zero))
	require.NoError(t, repo.Save(ctx, healthy))

	noThreshold := newTestStockRecord(t, companyID, 0)
	require.NoError(t, repo.Save(ctx, noThreshold))

	records, err := repo.FindBelowMinimum(ctx, companyID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, low.ID, records[0].ID)
}

func TestGormStockRecordRepository_Filters(t *testing.T) {
	db := setupStockRecordTestDB(t)
	repo := NewGormStockRecordRepository(db)
	ctx := context.Background()

	companyID := uuid.New()
	stocked := newTestStockRecord(t, companyID, 30)
	require.NoError(t, repo.Save(ctx, stocked))
	empty := newTestStockRecord(t, companyID, 0)
	require.NoError(t, repo.Save(ctx, empty))

	t.Run("has_stock", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["has_stock"] = true
		records, err := repo.FindAll(ctx, companyID, filter)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, stocked.ID, records[0].ID)
	})

	t.Run("out_of_stock", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["out_of_stock"] = true
		records, err := repo.FindAll(ctx, companyID, filter)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, empty.ID, records[0].ID)
	})

	t.Run("count respects filters", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["warehouse_id"] = stocked.WarehouseID
		count, err := repo.Count(ctx, companyID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

// newMockStockRecordRepository creates a GormStockRecordRepository with a
// mocked SQL connection, for asserting the generated SQL.
func newMockStockRecordRepository(t *testing.T) (*GormStockRecordRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormStockRecordRepository(gormDB), mock, mockDB
}

func TestGormStockRecordRepository_FindForUpdate_Postgres(t *testing.T) {
	t.Run("locks the row on postgres", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRecordRepository(t)
		defer mockDB.Close()

		companyID := uuid.New()
		warehouseID := uuid.New()
		productID := uuid.New()
		recordID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "company_id", "warehouse_id", "product_id",
			"quantity_on_hand", "unit_cost", "valuation_method", "version",
		}).AddRow(
			recordID, companyID, warehouseID, productID,
			decimal.NewFromInt(100), decimal.NewFromInt(12), "AVERAGE", 1,
		)

		mock.ExpectQuery(`SELECT \* FROM "stock_records" WHERE company_id = \$1 AND warehouse_id = \$2 AND product_id = \$3 ORDER BY "stock_records"\."id" LIMIT \$4 FOR UPDATE`).
			WithArgs(companyID, warehouseID, productID, 1).
			WillReturnRows(rows)

		record, err := repo.FindForUpdate(context.Background(), companyID, warehouseID, productID)

		require.NoError(t, err)
		assert.Equal(t, recordID, record.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRecordRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "stock_records"`).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindForUpdate(context.Background(), uuid.New(), uuid.New(), uuid.New())

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
