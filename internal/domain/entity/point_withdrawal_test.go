package entity

import (
	"testing"
	"time"

	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPointWithdrawal(t *testing.T) {
	fixedTime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &stubClock{now: fixedTime}

	t.Run("Valid request", func(t *testing.T) {
		withdrawal, err := NewPointWithdrawal(1, 500, "bank", "  KB 123-456  ", clock)

		require.NoError(t, err)
		assert.Equal(t, WithdrawalPending, withdrawal.Status)
		assert.Equal(t, int64(500), withdrawal.Amount)
		assert.Equal(t, "KB 123-456", withdrawal.AccountInfo)
		assert.Equal(t, fixedTime, withdrawal.CreatedAt)
		assert.Nil(t, withdrawal.DecidedAt)
	})

	t.Run("Invalid input", func(t *testing.T) {
		testCases := []struct {
			name        string
			userID      uint64
			amount      int64
			method      string
			accountInfo string
		}{
			{"Zero user", 0, 500, "bank", "KB 123"},
			{"Zero amount", 1, 0, "bank", "KB 123"},
			{"Negative amount", 1, -10, "bank", "KB 123"},
			{"Blank method", 1, 500, "  ", "KB 123"},
			{"Blank account", 1, 500, "bank", ""},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				withdrawal, err := NewPointWithdrawal(tc.userID, tc.amount, tc.method, tc.accountInfo, clock)
				assert.Error(t, err)
				assert.Nil(t, withdrawal)
			})
		}
	})
}

func TestPointWithdrawalTransitions(t *testing.T) {
	fixedTime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	decideTime := time.Date(2024, 3, 3, 8, 0, 0, 0, time.UTC)

	newPending := func(t *testing.T) *PointWithdrawal {
		t.Helper()
		withdrawal, err := NewPointWithdrawal(1, 500, "bank", "KB 123", &stubClock{now: fixedTime})
		require.NoError(t, err)
		return withdrawal
	}

	t.Run("Approve", func(t *testing.T) {
		withdrawal := newPending(t)
		clock := &stubClock{now: decideTime}

		require.NoError(t, withdrawal.Approve(9, "paid out", clock))

		assert.Equal(t, WithdrawalApproved, withdrawal.Status)
		assert.Equal(t, uint64(9), *withdrawal.AdminID)
		assert.Equal(t, decideTime, *withdrawal.DecidedAt)
	})

	t.Run("Reject", func(t *testing.T) {
		withdrawal := newPending(t)
		clock := &stubClock{now: decideTime}

		require.NoError(t, withdrawal.Reject(9, "account mismatch", clock))

		assert.Equal(t, WithdrawalRejected, withdrawal.Status)
		assert.Equal(t, "account mismatch", withdrawal.AdminNotes)
	})

	t.Run("Terminal requests refuse another decision", func(t *testing.T) {
		withdrawal := newPending(t)
		clock := &stubClock{now: decideTime}

		require.NoError(t, withdrawal.Approve(9, "", clock))
		assert.ErrorIs(t, withdrawal.Approve(9, "", clock), errs.ErrInvalidState)
		assert.ErrorIs(t, withdrawal.Reject(9, "", clock), errs.ErrInvalidState)
	})
}
