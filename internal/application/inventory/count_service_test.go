package inventory

import (
	"context"
	"testing"

	"github.com/facturacion/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startCount(t *testing.T, env *testEnv, warehouseID uuid.UUID, productIDs ...uuid.UUID) *PhysicalCountResponse {
	t.Helper()
	ctx := context.Background()
	created, err := env.countSvc.Create(ctx, env.companyID, CreatePhysicalCountRequest{
		Code:        "PC-" + uuid.New().String()[:8],
		WarehouseID: warehouseID,
		ProductIDs:  productIDs,
	})
	require.NoError(t, err)
	started, err := env.countSvc.Start(ctx, env.companyID, created.ID)
	require.NoError(t, err)
	return started
}

func TestPhysicalCountService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	counter := uuid.New()

	t.Run("start snapshots system quantities", func(t *testing.T) {
		env := newTestEnv()
		warehouseID := env.addWarehouse()
		counted := env.addProduct(false)
		uncounted := env.addProduct(false)
		postReceipt(t, env, warehouseID, counted, 80, 10)

		started := startCount(t, env, warehouseID, counted, uncounted)

		assert.Equal(t, string(inventory.PhysicalCountStatusInProgress), started.Status)
		require.Len(t, started.Lines, 2)
		byProduct := map[uuid.UUID]PhysicalCountLineResponse{}
		for _, line := range started.Lines {
			byProduct[line.ProductID] = line
		}
		assert.Equal(t, "80", byProduct[counted].SystemQty.String())
		// products with no stock record snapshot at zero
		assert.Equal(t, "0", byProduct[uncounted].SystemQty.String())
	})

	t.Run("finish requires every line counted", func(t *testing.T) {
		env := newTestEnv()
		warehouseID := env.addWarehouse()
		productID := env.addProduct(false)
		other := env.addProduct(false)
		postReceipt(t, env, warehouseID, productID, 80, 10)

		started := startCount(t, env, warehouseID, productID, other)

		_, err := env.countSvc.RecordCount(ctx, env.companyID, started.ID, RecordCountRequest{
			ProductID: productID,
			Quantity:  decimal.NewFromInt(75),
			CounterID: &counter,
		})
		require.NoError(t, err)

		_, err = env.countSvc.Finish(ctx, env.companyID, started.ID)
		require.Error(t, err)

		_, err = env.countSvc.RecordCount(ctx, env.companyID, started.ID, RecordCountRequest{
			ProductID: other,
			Quantity:  decimal.Zero,
			CounterID: &counter,
		})
		require.NoError(t, err)

		finished, err := env.countSvc.Finish(ctx, env.companyID, started.ID)
		require.NoError(t, err)
		assert.Equal(t, string(inventory.PhysicalCountStatusFinished), finished.Status)
	})

	t.Run("apply posts exactly one adjustment for the differences", func(t *testing.T) {
		env := newTestEnv()
		warehouseID := env.addWarehouse()
		short := env.addProduct(false)
		exact := env.addProduct(false)
		postReceipt(t, env, warehouseID, short, 80, 10)
		postReceipt(t, env, warehouseID, exact, 40, 10)

		started := startCount(t, env, warehouseID, short, exact)
		_, err := env.countSvc.RecordCount(ctx, env.companyID, started.ID, RecordCountRequest{
			ProductID: short, Quantity: decimal.NewFromInt(75), CounterID: &counter,
		})
		require.NoError(t, err)
		_, err = env.countSvc.RecordCount(ctx, env.companyID, started.ID, RecordCountRequest{
			ProductID: exact, Quantity: decimal.NewFromInt(40), CounterID: &counter,
		})
		require.NoError(t, err)
		_, err = env.countSvc.Finish(ctx, env.companyID, started.ID)
		require.NoError(t, err)

		applied, err := env.countSvc.Apply(ctx, env.companyID, started.ID, counter)
		require.NoError(t, err)
		assert.Equal(t, string(inventory.PhysicalCountStatusAdjusted), applied.Status)
		require.NotNil(t, applied.AdjustmentID)

		adjustment, err := env.adjustmentSvc.GetByID(ctx, env.companyID, *applied.AdjustmentID)
		require.NoError(t, err)
		assert.Equal(t, string(inventory.AdjustmentStatusProcessed), adjustment.Status)
		// only the product with a difference gets a line
		require.Len(t, adjustment.Lines, 1)
		assert.Equal(t, short, adjustment.Lines[0].ProductID)
		assert.Equal(t, "DECREASE", adjustment.Lines[0].Type)
		assert.Equal(t, "5", adjustment.Lines[0].Quantity.String())
		assert.Equal(t, "80", adjustment.Lines[0].PreviousQuantity.String())
		assert.Equal(t, "75", adjustment.Lines[0].NewQuantity.String())

		record, err := env.stockRecordRepo.FindByWarehouseAndProduct(ctx, env.companyID, warehouseID, short)
		require.NoError(t, err)
		assert.Equal(t, "75", record.QuantityOnHand.String())

		untouched, err := env.stockRecordRepo.FindByWarehouseAndProduct(ctx, env.companyID, warehouseID, exact)
		require.NoError(t, err)
		assert.Equal(t, "40", untouched.QuantityOnHand.String())
	})

	t.Run("apply without differences links no adjustment", func(t *testing.T) {
		env := newTestEnv()
		warehouseID := env.addWarehouse()
		productID := env.addProduct(false)
		postReceipt(t, env, warehouseID, productID, 50, 10)

		started := startCount(t, env, warehouseID, productID)
		_, err := env.countSvc.RecordCount(ctx, env.companyID, started.ID, RecordCountRequest{
			ProductID: productID, Quantity: decimal.NewFromInt(50), CounterID: &counter,
		})
		require.NoError(t, err)
		_, err = env.countSvc.Finish(ctx, env.companyID, started.ID)
		require.NoError(t, err)

		applied, err := env.countSvc.Apply(ctx, env.companyID, started.ID, counter)
		require.NoError(t, err)
		assert.Equal(t, string(inventory.PhysicalCountStatusAdjusted), applied.Status)
		assert.Nil(t, applied.AdjustmentID)
	})

	t.Run("apply cannot run twice", func(t *testing.T) {
		env := newTestEnv()
		warehouseID := env.addWarehouse()
		productID := env.addProduct(false)
		postReceipt(t, env, warehouseID, productID, 50, 10)

		started := startCount(t, env, warehouseID, productID)
		_, err := env.countSvc.RecordCount(ctx, env.companyID, started.ID, RecordCountRequest{
			ProductID: productID, Quantity: decimal.NewFromInt(45), CounterID: &counter,
		})
		require.NoError(t, err)
		_, err = env.countSvc.Finish(ctx, env.companyID, started.ID)
		require.NoError(t, err)
		_, err = env.countSvc.Apply(ctx, env.companyID, started.ID, counter)
		require.NoError(t, err)

		_, err = env.countSvc.Apply(ctx, env.companyID, started.ID, counter)

		require.ErrorIs(t, err, inventory.ErrInvalidStateTransition)
	})

	t.Run("recount overwrites the previous count", func(t *testing.T) {
		env := newTestEnv()
		warehouseID := env.addWarehouse()
		productID := env.addProduct(false)
		postReceipt(t, env, warehouseID, productID, 50, 10)

		started := startCount(t, env, warehouseID, productID)
		_, err := env.countSvc.RecordCount(ctx, env.companyID, started.ID, RecordCountRequest{
			ProductID: productID, Quantity: decimal.NewFromInt(48), CounterID: &counter,
		})
		require.NoError(t, err)
		resp, err := env.countSvc.RecordCount(ctx, env.companyID, started.ID, RecordCountRequest{
			ProductID: productID, Quantity: decimal.NewFromInt(49), CounterID: &counter,
		})
		require.NoError(t, err)

		require.Len(t, resp.Lines, 1)
		require.NotNil(t, resp.Lines[0].CountedQty)
		assert.Equal(t, "49", resp.Lines[0].CountedQty.String())
	})

	t.Run("a finished count can still be abandoned", func(t *testing.T) {
		env := newTestEnv()
		warehouseID := env.addWarehouse()
		productID := env.addProduct(false)
		postReceipt(t, env, warehouseID, productID, 50, 10)

		started := startCount(t, env, warehouseID, productID)
		_, err := env.countSvc.RecordCount(ctx, env.companyID, started.ID, RecordCountRequest{
			ProductID: productID, Quantity: decimal.NewFromInt(45), CounterID: &counter,
		})
		require.NoError(t, err)
		_, err = env.countSvc.Finish(ctx, env.companyID, started.ID)
		require.NoError(t, err)

		cancelled, err := env.countSvc.Cancel(ctx, env.companyID, started.ID)
		require.NoError(t, err)
		assert.Equal(t, string(inventory.PhysicalCountStatusCancelled), cancelled.Status)

		// the differences were never applied
		record, err := env.stockRecordRepo.FindByWarehouseAndProduct(ctx, env.companyID, warehouseID, productID)
		require.NoError(t, err)
		assert.Equal(t, "50", record.QuantityOnHand.String())
	})

	t.Run("cancel after apply is rejected", func(t *testing.T) {
		env := newTestEnv()
		warehouseID := env.addWarehouse()
		productID := env.addProduct(false)
		postReceipt(t, env, warehouseID, productID, 50, 10)

		started := startCount(t, env, warehouseID, productID)
		_, err := env.countSvc.RecordCount(ctx, env.companyID, started.ID, RecordCountRequest{
			ProductID: productID, Quantity: decimal.NewFromInt(45), CounterID: &counter,
		})
		require.NoError(t, err)
		_, err = env.countSvc.Finish(ctx, env.companyID, started.ID)
		require.NoError(t, err)
		_, err = env.countSvc.Apply(ctx, env.companyID, started.ID, counter)
		require.NoError(t, err)

		_, err = env.countSvc.Cancel(ctx, env.companyID, started.ID)

		require.ErrorIs(t, err, inventory.ErrInvalidStateTransition)
	})
}
