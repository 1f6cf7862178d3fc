package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestLot(t *testing.T, qty int64, expiryDate *time.Time) *Lot {
	t.Helper()
	lot, err := NewLot(
		uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		"LOT-001", nil, expiryDate,
		decimal.NewFromInt(qty), decimal.NewFromInt(10),
	)
	require.NoError(t, err)
	return lot
}

func TestNewLot(t *testing.T) {
	t.Run("creates available lot", func(t *testing.T) {
		lot := createTestLot(t, 100, nil)

		assert.Equal(t, LotStatusAvailable, lot.Status)
		assert.Equal(t, "100", lot.InitialQuantity.String())
		assert.Equal(t, "100", lot.RemainingQuantity.String())
	})

	t.Run("fails with empty lot number", func(t *testing.T) {
		_, err := NewLot(
			uuid.New(), uuid.New(), uuid.New(), uuid.New(),
			"", nil, nil,
			decimal.NewFromInt(1), decimal.NewFromInt(1),
		)

		require.Error(t, err)
	})

	t.Run("fails when expiry precedes manufacture", func(t *testing.T) {
		manufacture := time.Now()
		expiry := manufacture.Add(-24 * time.Hour)

		_, err := NewLot(
			uuid.New(), uuid.New(), uuid.New(), uuid.New(),
			"LOT-001", &manufacture, &expiry,
			decimal.NewFromInt(1), decimal.NewFromInt(1),
		)

		require.Error(t, err)
	})
}

func TestLot_Decrement(t *testing.T) {
	t.Run("reduces remaining quantity", func(t *testing.T) {
		lot := createTestLot(t, 100, nil)

		require.NoError(t, lot.Decrement(decimal.NewFromInt(40)))

		assert.Equal(t, "60", lot.RemainingQuantity.String())
		assert.Equal(t, LotStatusAvailable, lot.Status)
	})

	t.Run("draining to zero marks depleted", func(t *testing.T) {
		lot := createTestLot(t, 100, nil)

		require.NoError(t, lot.Decrement(decimal.NewFromInt(100)))

		assert.Equal(t, LotStatusDepleted, lot.Status)
		assert.False(t, lot.IsConsumable(time.Now()))
	})

	t.Run("fails when exceeding remaining", func(t *testing.T) {
		lot := createTestLot(t, 10, nil)

		err := lot.Decrement(decimal.NewFromInt(11))

		require.ErrorIs(t, err, ErrLotDepleted)
		assert.Equal(t, "10", lot.RemainingQuantity.String())
	})
}

func TestLot_Increment(t *testing.T) {
	t.Run("restores quantity after reversal", func(t *testing.T) {
		lot := createTestLot(t, 100, nil)
		require.NoError(t, lot.Decrement(decimal.NewFromInt(100)))

		require.NoError(t, lot.Increment(decimal.NewFromInt(30)))

		assert.Equal(t, "30", lot.RemainingQuantity.String())
		assert.Equal(t, LotStatusAvailable, lot.Status)
	})

	t.Run("cannot exceed initial quantity", func(t *testing.T) {
		lot := createTestLot(t, 100, nil)

		err := lot.Increment(decimal.NewFromInt(1))

		require.Error(t, err)
	})
}

func TestLot_Restock(t *testing.T) {
	t.Run("grows initial and remaining together", func(t *testing.T) {
		lot := createTestLot(t, 100, nil)
		require.NoError(t, lot.Decrement(decimal.NewFromInt(40)))

		require.NoError(t, lot.Restock(decimal.NewFromInt(25)))

		assert.Equal(t, "125", lot.InitialQuantity.String())
		assert.Equal(t, "85", lot.RemainingQuantity.String())
	})

	t.Run("revives a depleted lot", func(t *testing.T) {
		lot := createTestLot(t, 100, nil)
		require.NoError(t, lot.Decrement(decimal.NewFromInt(100)))
		require.Equal(t, LotStatusDepleted, lot.Status)

		require.NoError(t, lot.Restock(decimal.NewFromInt(10)))

		assert.Equal(t, LotStatusAvailable, lot.Status)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		lot := createTestLot(t, 100, nil)

		err := lot.Restock(decimal.Zero)

		require.Error(t, err)
	})
}

func TestLot_Status(t *testing.T) {
	now := time.Now()

	t.Run("blocked lot is not consumable", func(t *testing.T) {
		lot := createTestLot(t, 100, nil)

		lot.Block()

		assert.Equal(t, LotStatusBlocked, lot.Status)
		assert.False(t, lot.IsConsumable(now))

		lot.Unblock()

		assert.Equal(t, LotStatusAvailable, lot.Status)
		assert.True(t, lot.IsConsumable(now))
	})

	t.Run("expired lot is not consumable", func(t *testing.T) {
		expiry := now.Add(-time.Hour)
		lot := createTestLot(t, 100, &expiry)

		assert.Equal(t, LotStatusExpired, lot.DeriveStatus(now))
		assert.False(t, lot.IsConsumable(now))
	})

	t.Run("depleted wins over expired", func(t *testing.T) {
		expiry := now.Add(-time.Hour)
		lot := createTestLot(t, 100, &expiry)
		lot.RemainingQuantity = decimal.Zero

		assert.Equal(t, LotStatusDepleted, lot.DeriveStatus(now))
	})

	t.Run("expires within window", func(t *testing.T) {
		expiry := now.Add(48 * time.Hour)
		lot := createTestLot(t, 100, &expiry)

		assert.True(t, lot.ExpiresWithin(now, 72*time.Hour))
		assert.False(t, lot.ExpiresWithin(now, 24*time.Hour))
	})
}

func TestLot_RemainingValue(t *testing.T) {
	lot := createTestLot(t, 100, nil)
	require.NoError(t, lot.Decrement(decimal.NewFromInt(60)))

	assert.Equal(t, "400", lot.RemainingValue().String())
}
