package entity

import (
	"testing"
	"time"

	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoint(t *testing.T) {
	clock := &stubClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}

	t.Run("Positive entry", func(t *testing.T) {
		point, err := NewPoint(1, 100, PointReferralBonus, "Referral bonus for alice", 100, clock)

		require.NoError(t, err)
		assert.Equal(t, int64(100), point.Amount)
		assert.Equal(t, PointReferralBonus, point.Type)
		assert.Equal(t, int64(100), point.BalanceAfter)
	})

	t.Run("Negative entry carries the resulting balance", func(t *testing.T) {
		point, err := NewPoint(1, -40, PointWithdrawReserve, "Withdrawal reserve (bank)", 60, clock)

		require.NoError(t, err)
		assert.Equal(t, int64(-40), point.Amount)
		assert.Equal(t, int64(60), point.BalanceAfter)
	})

	t.Run("Zero amount is rejected", func(t *testing.T) {
		point, err := NewPoint(1, 0, PointAdminAdjust, "", 50, clock)
		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.Nil(t, point)
	})

	t.Run("Negative resulting balance is rejected", func(t *testing.T) {
		point, err := NewPoint(1, -100, PointWithdrawReserve, "", -40, clock)
		assert.ErrorIs(t, err, errs.ErrInsufficientPoints)
		assert.Nil(t, point)
	})

	t.Run("Zero user is rejected", func(t *testing.T) {
		point, err := NewPoint(0, 100, PointAdminAdjust, "", 100, clock)
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
		assert.Nil(t, point)
	})
}

func TestNewReferral(t *testing.T) {
	clock := &stubClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}

	t.Run("Valid link", func(t *testing.T) {
		referral, err := NewReferral(3, 7, 100, clock)

		require.NoError(t, err)
		assert.Equal(t, uint64(3), referral.ReferrerID)
		assert.Equal(t, uint64(7), referral.ReferredID)
		assert.Equal(t, int64(100), referral.RewardPoints)
	})

	t.Run("Self referral is rejected", func(t *testing.T) {
		referral, err := NewReferral(3, 3, 100, clock)
		assert.Error(t, err)
		assert.Nil(t, referral)
	})
}
