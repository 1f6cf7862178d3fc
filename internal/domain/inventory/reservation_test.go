package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestReservation(t *testing.T, expiresAt *time.Time) *Reservation {
	t.Helper()
	r, err := NewReservation(
		uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		decimal.NewFromInt(15), OriginTypeSale, expiresAt,
	)
	require.NoError(t, err)
	return r
}

func TestNewReservation(t *testing.T) {
	t.Run("creates pending reservation", func(t *testing.T) {
		r := createTestReservation(t, nil)

		assert.Equal(t, ReservationStatusPending, r.Status)
		assert.True(t, r.IsActive(time.Now()))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewReservation(
			uuid.New(), uuid.New(), uuid.New(), uuid.New(),
			decimal.Zero, OriginTypeSale, nil,
		)

		require.Error(t, err)
	})

	t.Run("rejects expiration in the past", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)

		_, err := NewReservation(
			uuid.New(), uuid.New(), uuid.New(), uuid.New(),
			decimal.NewFromInt(1), OriginTypeSale, &past,
		)

		require.Error(t, err)
	})
}

func TestReservation_Confirm(t *testing.T) {
	t.Run("confirms pending reservation", func(t *testing.T) {
		r := createTestReservation(t, nil)

		require.NoError(t, r.Confirm())

		assert.Equal(t, ReservationStatusConfirmed, r.Status)
		assert.True(t, r.IsActive(time.Now()))
	})

	t.Run("confirming twice is a no-op", func(t *testing.T) {
		r := createTestReservation(t, nil)
		require.NoError(t, r.Confirm())
		version := r.Version

		require.NoError(t, r.Confirm())

		assert.Equal(t, version, r.Version)
	})

	t.Run("cannot confirm cancelled reservation", func(t *testing.T) {
		r := createTestReservation(t, nil)
		require.NoError(t, r.Cancel())

		err := r.Confirm()

		require.ErrorIs(t, err, ErrInvalidStateTransition)
	})
}

func TestReservation_Cancel(t *testing.T) {
	t.Run("cancels pending reservation", func(t *testing.T) {
		r := createTestReservation(t, nil)

		require.NoError(t, r.Cancel())

		assert.Equal(t, ReservationStatusCancelled, r.Status)
		assert.NotNil(t, r.ReleasedAt)
		assert.False(t, r.IsActive(time.Now()))
	})

	t.Run("cancels confirmed reservation", func(t *testing.T) {
		r := createTestReservation(t, nil)
		require.NoError(t, r.Confirm())

		require.NoError(t, r.Cancel())

		assert.Equal(t, ReservationStatusCancelled, r.Status)
	})

	t.Run("cancelling twice is a no-op", func(t *testing.T) {
		r := createTestReservation(t, nil)
		require.NoError(t, r.Cancel())

		require.NoError(t, r.Cancel())
	})

	t.Run("cannot cancel expired reservation", func(t *testing.T) {
		expiry := time.Now().Add(time.Minute)
		r := createTestReservation(t, &expiry)
		require.NoError(t, r.Expire(expiry.Add(time.Second)))

		err := r.Cancel()

		require.ErrorIs(t, err, ErrInvalidStateTransition)
	})
}

func TestReservation_Expire(t *testing.T) {
	t.Run("expires past its expiration time", func(t *testing.T) {
		expiry := time.Now().Add(time.Minute)
		r := createTestReservation(t, &expiry)

		require.NoError(t, r.Expire(expiry.Add(time.Second)))

		assert.Equal(t, ReservationStatusExpired, r.Status)
		assert.NotNil(t, r.ReleasedAt)
	})

	t.Run("cannot expire before expiration time", func(t *testing.T) {
		expiry := time.Now().Add(time.Hour)
		r := createTestReservation(t, &expiry)

		err := r.Expire(time.Now())

		require.ErrorIs(t, err, ErrInvalidStateTransition)
	})

	t.Run("cannot expire without expiration time", func(t *testing.T) {
		r := createTestReservation(t, nil)

		err := r.Expire(time.Now())

		require.ErrorIs(t, err, ErrInvalidStateTransition)
	})
}

func TestReservation_IsActive(t *testing.T) {
	t.Run("past expiration stops counting before the sweep runs", func(t *testing.T) {
		expiry := time.Now().Add(time.Minute)
		r := createTestReservation(t, &expiry)

		assert.True(t, r.IsActive(time.Now()))
		assert.False(t, r.IsActive(expiry.Add(time.Second)))
		assert.Equal(t, ReservationStatusPending, r.Status)
	})
}
