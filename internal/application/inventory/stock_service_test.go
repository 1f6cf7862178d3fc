package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/facturacion/backend/internal/domain/inventory"
	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stockRecordID(t *testing.T, env *testEnv, warehouseID, productID uuid.UUID) uuid.UUID {
	t.Helper()
	record, err := env.stockRecordRepo.FindByWarehouseAndProduct(context.Background(), env.companyID, warehouseID, productID)
	require.NoError(t, err)
	return record.ID
}

func TestStockService_GetAvailability(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	warehouseID := env.addWarehouse()
	productID := env.addProduct(false)

	postReceipt(t, env, warehouseID, productID, 50, 10)
	_, err := reserve(env, warehouseID, productID, 30, nil)
	require.NoError(t, err)

	avail, err := env.stockSvc.GetAvailability(ctx, env.companyID, warehouseID, productID)
	require.NoError(t, err)
	assert.Equal(t, "50", avail.QuantityOnHand.String())
	assert.Equal(t, "30", avail.Reserved.String())
	assert.Equal(t, "20", avail.Available.String())
}

func TestStockService_GetAvailability_UnknownPair(t *testing.T) {
	env := newTestEnv()

	_, err := env.stockSvc.GetAvailability(context.Background(), env.companyID, uuid.New(), uuid.New())
	assert.True(t, shared.IsNotFound(err))
}

func TestStockService_SetThresholds(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	warehouseID := env.addWarehouse()
	productID := env.addProduct(false)
	postReceipt(t, env, warehouseID, productID, 10, 5)
	recordID := stockRecordID(t, env, warehouseID, productID)

	resp, err := env.stockSvc.SetThresholds(ctx, env.companyID, recordID, SetThresholdsRequest{
		MinQuantity:  decimal.NewFromInt(5),
		MaxQuantity:  decimal.NewFromInt(100),
		ReorderPoint: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, "5", resp.MinQuantity.String())
	assert.Equal(t, "100", resp.MaxQuantity.String())
	assert.Equal(t, "10", resp.ReorderPoint.String())

	_, err = env.stockSvc.SetThresholds(ctx, env.companyID, recordID, SetThresholdsRequest{
		MinQuantity: decimal.NewFromInt(-1),
	})
	require.Error(t, err)
}

func TestStockService_SetValuationMethod(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	warehouseID := env.addWarehouse()
	productID := env.addProduct(false)
	postReceipt(t, env, warehouseID, productID, 10, 5)
	recordID := stockRecordID(t, env, warehouseID, productID)

	resp, err := env.stockSvc.SetValuationMethod(ctx, env.companyID, recordID, SetValuationMethodRequest{
		ValuationMethod: "FIFO",
	})
	require.NoError(t, err)
	assert.Equal(t, "FIFO", resp.ValuationMethod)

	_, err = env.stockSvc.SetValuationMethod(ctx, env.companyID, recordID, SetValuationMethodRequest{
		ValuationMethod: "GUESSWORK",
	})
	require.Error(t, err)
}

func TestStockService_BlockAndUnblockLot(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	warehouseID := env.addWarehouse()
	productID := env.addProduct(true)

	expiry := time.Now().AddDate(1, 0, 0)
	receipt, err := env.movementSvc.PostMovement(ctx, env.companyID, PostMovementRequest{
		WarehouseID: warehouseID,
		ProductID:   productID,
		Kind:        string(inventory.MovementKindPurchaseReceipt),
		Quantity:    decimal.NewFromInt(10),
		UnitCost:    decimal.NewFromInt(5),
		OriginType:  string(inventory.OriginTypePurchase),
		OriginID:    "doc-1",
		LotNumber:   "LOT-001",
		ExpiryDate:  &expiry,
	})
	require.NoError(t, err)
	require.NotNil(t, receipt.LotID)
	recordID := stockRecordID(t, env, warehouseID, productID)

	blocked, err := env.stockSvc.BlockLot(ctx, env.companyID, *receipt.LotID)
	require.NoError(t, err)
	assert.True(t, blocked.Blocked)

	lots, err := env.stockSvc.ListLots(ctx, env.companyID, recordID)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.True(t, lots[0].Blocked)

	unblocked, err := env.stockSvc.UnblockLot(ctx, env.companyID, *receipt.LotID)
	require.NoError(t, err)
	assert.False(t, unblocked.Blocked)
}

func TestStockService_RecomputeQuantity(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	warehouseID := env.addWarehouse()
	productID := env.addProduct(false)

	postReceipt(t, env, warehouseID, productID, 100, 10)
	_, err := postIssue(env, warehouseID, productID, 40)
	require.NoError(t, err)
	recordID := stockRecordID(t, env, warehouseID, productID)

	// Simulate projection drift; movements stay the source of truth.
	record, err := env.stockRecordRepo.FindByID(ctx, env.companyID, recordID)
	require.NoError(t, err)
	record.QuantityOnHand = decimal.NewFromInt(999)

	resp, err := env.stockSvc.RecomputeQuantity(ctx, env.companyID, recordID)
	require.NoError(t, err)
	assert.Equal(t, "60", resp.QuantityOnHand.String())

	record, err = env.stockRecordRepo.FindByID(ctx, env.companyID, recordID)
	require.NoError(t, err)
	assert.Equal(t, "60", record.QuantityOnHand.String())
}

func TestStockService_ListBelowMinimum(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	warehouseID := env.addWarehouse()
	lowProduct := env.addProduct(false)
	okProduct := env.addProduct(false)

	postReceipt(t, env, warehouseID, lowProduct, 3, 10)
	postReceipt(t, env, warehouseID, okProduct, 50, 10)

	lowRecordID := stockRecordID(t, env, warehouseID, lowProduct)
	_, err := env.stockSvc.SetThresholds(ctx, env.companyID, lowRecordID, SetThresholdsRequest{
		MinQuantity: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	records, total, err := env.stockSvc.ListBelowMinimum(ctx, env.companyID, StockListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, records, 1)
	assert.Equal(t, lowRecordID, records[0].ID)
}
