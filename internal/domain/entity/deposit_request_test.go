package entity

import (
	"testing"
	"time"

	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "TXYZabc123DepositAddress"

func TestNewDepositRequest(t *testing.T) {
	fixedTime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &stubClock{now: fixedTime}

	t.Run("Valid request freezes the rate snapshot", func(t *testing.T) {
		// 200.00 USDT at 5.00 JOY per USDT
		deposit, err := NewDepositRequest(1, ChainTRC20, testAddress, 20000, 500, clock)

		require.NoError(t, err)
		assert.Equal(t, DepositPending, deposit.Status)
		assert.Equal(t, int64(20000), deposit.ExpectedAmount)
		assert.Equal(t, int64(500), deposit.RateJoyPerUSDT)
		assert.Equal(t, int64(1000), deposit.JoyAmount)
		assert.Nil(t, deposit.ActualAmount)
		assert.Zero(t, deposit.CreditedJoy)
		assert.Equal(t, fixedTime, deposit.CreatedAt)
	})

	t.Run("Invalid input", func(t *testing.T) {
		testCases := []struct {
			name    string
			userID  uint64
			chain   Chain
			address string
			amount  int64
			rate    int64
			target  error
		}{
			{"Zero user", 0, ChainTRC20, testAddress, 20000, 500, errs.ErrUserNotFound},
			{"Unknown chain", 1, Chain("DOGE"), testAddress, 20000, 500, errs.ErrInvalidChain},
			{"Zero amount", 1, ChainTRC20, testAddress, 0, 500, errs.ErrValidation},
			{"Over the cap", 1, ChainTRC20, testAddress, MaxDepositUSDTCents + 1, 500, errs.ErrValidation},
			{"Missing address", 1, ChainTRC20, "", 20000, 500, errs.ErrNotConfigured},
			{"No rate configured", 1, ChainTRC20, testAddress, 20000, 0, errs.ErrNotConfigured},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				deposit, err := NewDepositRequest(tc.userID, tc.chain, tc.address, tc.amount, tc.rate, clock)
				assert.ErrorIs(t, err, tc.target)
				assert.Nil(t, deposit)
			})
		}
	})
}

func TestDepositRequestApprove(t *testing.T) {
	fixedTime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	decideTime := time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC)

	newPending := func(t *testing.T) *DepositRequest {
		t.Helper()
		clock := &stubClock{now: fixedTime}
		deposit, err := NewDepositRequest(1, ChainERC20, testAddress, 20000, 500, clock)
		require.NoError(t, err)
		deposit.ID = 42
		return deposit
	}

	t.Run("Approve with expected amount", func(t *testing.T) {
		deposit := newPending(t)
		clock := &stubClock{now: decideTime}

		require.NoError(t, deposit.Approve(9, nil, "verified on chain", clock))

		assert.Equal(t, DepositApproved, deposit.Status)
		require.NotNil(t, deposit.ActualAmount)
		assert.Equal(t, int64(20000), *deposit.ActualAmount)
		assert.Equal(t, int64(1000), deposit.CreditedJoy)
		assert.Equal(t, uint64(9), *deposit.AdminID)
		assert.Equal(t, "verified on chain", deposit.AdminNotes)
		require.NotNil(t, deposit.ApprovedAt)
		assert.Equal(t, decideTime, *deposit.ApprovedAt)
	})

	t.Run("Approve recomputes JOY from the actual amount", func(t *testing.T) {
		deposit := newPending(t)
		clock := &stubClock{now: decideTime}

		// 150.00 USDT actually arrived instead of the expected 200.00
		actual := int64(15000)
		require.NoError(t, deposit.Approve(9, &actual, "", clock))

		assert.Equal(t, int64(15000), *deposit.ActualAmount)
		assert.Equal(t, int64(750), deposit.CreditedJoy)
		// the creation-time preview stays untouched for auditing
		assert.Equal(t, int64(1000), deposit.JoyAmount)
	})

	t.Run("Zero actual amount is rejected", func(t *testing.T) {
		deposit := newPending(t)
		clock := &stubClock{now: decideTime}

		actual := int64(0)
		err := deposit.Approve(9, &actual, "", clock)

		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.Equal(t, DepositPending, deposit.Status)
	})

	t.Run("Approving twice fails", func(t *testing.T) {
		deposit := newPending(t)
		clock := &stubClock{now: decideTime}

		require.NoError(t, deposit.Approve(9, nil, "", clock))
		err := deposit.Approve(9, nil, "", clock)

		assert.ErrorIs(t, err, errs.ErrInvalidState)

		var stateErr *errs.DepositStateError
		require.ErrorAs(t, err, &stateErr)
		assert.Equal(t, uint64(42), stateErr.DepositID)
		assert.Equal(t, "approved", stateErr.Status)
	})
}

func TestDepositRequestReject(t *testing.T) {
	fixedTime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &stubClock{now: fixedTime}

	t.Run("Reject keeps amounts untouched", func(t *testing.T) {
		deposit, err := NewDepositRequest(1, ChainBSC, testAddress, 20000, 500, clock)
		require.NoError(t, err)

		require.NoError(t, deposit.Reject(9, "no transfer found", clock))

		assert.Equal(t, DepositRejected, deposit.Status)
		assert.Nil(t, deposit.ActualAmount)
		assert.Zero(t, deposit.CreditedJoy)
		assert.Nil(t, deposit.ApprovedAt)
		assert.True(t, deposit.IsTerminal())
	})

	t.Run("Rejected request cannot be approved afterwards", func(t *testing.T) {
		deposit, err := NewDepositRequest(1, ChainPolygon, testAddress, 20000, 500, clock)
		require.NoError(t, err)

		require.NoError(t, deposit.Reject(9, "", clock))
		assert.ErrorIs(t, deposit.Approve(9, nil, "", clock), errs.ErrInvalidState)
	})
}

func TestIsValidChain(t *testing.T) {
	assert.True(t, IsValidChain("TRC20"))
	assert.True(t, IsValidChain("ERC20"))
	assert.True(t, IsValidChain("BSC"))
	assert.True(t, IsValidChain("Polygon"))
	assert.False(t, IsValidChain("trc20"))
	assert.False(t, IsValidChain("BTC"))
	assert.False(t, IsValidChain(""))
}
