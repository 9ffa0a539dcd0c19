package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	clock := &stubClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}

	t.Run("Valid product", func(t *testing.T) {
		product, err := NewProduct("  Starter Pack  ", 1000, 10_00, 13_500_00, 500, 1, clock)

		require.NoError(t, err)
		assert.Equal(t, "Starter Pack", product.Name)
		assert.Equal(t, int64(1000), product.JoyAmount)
		assert.True(t, product.IsActive)
	})

	t.Run("Invalid input", func(t *testing.T) {
		testCases := []struct {
			name         string
			productName  string
			joyAmount    int64
			priceUSDT    int64
			priceKRW     int64
			discountRate int64
		}{
			{"Blank name", "  ", 1000, 1000, 0, 0},
			{"Zero JOY", "Pack", 0, 1000, 0, 0},
			{"Zero USDT price", "Pack", 1000, 0, 0, 0},
			{"Negative KRW price", "Pack", 1000, 1000, -1, 0},
			{"Discount above 100 percent", "Pack", 1000, 1000, 0, 10001},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				product, err := NewProduct(tc.productName, tc.joyAmount, tc.priceUSDT, tc.priceKRW, tc.discountRate, 0, clock)
				assert.Error(t, err)
				assert.Nil(t, product)
			})
		}
	})

	t.Run("Deactivate", func(t *testing.T) {
		product, err := NewProduct("Pack", 1000, 1000, 0, 0, 0, clock)
		require.NoError(t, err)

		product.Deactivate(clock)
		assert.False(t, product.IsActive)
	})
}

func TestNewExchangeRate(t *testing.T) {
	clock := &stubClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}

	t.Run("Valid rate", func(t *testing.T) {
		rate, err := NewExchangeRate(100_00, 135_00, 1350_00, 250, 9, clock)

		require.NoError(t, err)
		assert.True(t, rate.IsActive)
		assert.Equal(t, int64(250), rate.ReferralBonusPoints)
		assert.Equal(t, uint64(9), *rate.UpdatedBy)
	})

	t.Run("Zero bonus disables referral rewards", func(t *testing.T) {
		rate, err := NewExchangeRate(100_00, 0, 0, 0, 9, clock)

		require.NoError(t, err)
		assert.Zero(t, rate.ReferralBonusPoints)
	})

	t.Run("Invalid input", func(t *testing.T) {
		_, err := NewExchangeRate(0, 0, 0, 0, 9, clock)
		assert.Error(t, err)

		_, err = NewExchangeRate(100_00, -1, 0, 0, 9, clock)
		assert.Error(t, err)

		_, err = NewExchangeRate(100_00, 0, 0, -5, 9, clock)
		assert.Error(t, err)
	})
}
