package entity

import (
	"testing"

	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	t.Run("Valid amounts", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected int64
		}{
			{"100.00", 10000},
			{"0.01", 1},
			{"0.10", 10},
			{"1", 100},
			{"1.5", 150},
			{"200.5", 20050},
			{"1234567.89", 123456789},
			{"0.00", 0},
			{"0", 0},
			{"  10.00  ", 1000},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				cents, err := ParseAmount(tc.input)
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, cents)
			})
		}
	})

	t.Run("Invalid amounts", func(t *testing.T) {
		testCases := []struct {
			input       string
			errorType   error
			description string
		}{
			{"", errs.ErrInvalidAmount, "Empty string"},
			{"   ", errs.ErrInvalidAmount, "Whitespace only"},
			{"-1.00", errs.ErrNegativeAmount, "Negative amount"},
			{"1.234", errs.ErrInvalidAmount, "Too many decimal places"},
			{"abc", errs.ErrInvalidAmount, "Non-numeric"},
			{"1,000.00", errs.ErrInvalidAmount, "Comma as thousands separator"},
			{"1.00.00", errs.ErrInvalidAmount, "Multiple decimal points"},
			{"$100", errs.ErrInvalidAmount, "Currency symbol"},
		}

		for _, tc := range testCases {
			t.Run(tc.description, func(t *testing.T) {
				_, err := ParseAmount(tc.input)
				assert.Error(t, err)
				assert.ErrorIs(t, err, tc.errorType)
			})
		}
	})
}

func TestCentsToString(t *testing.T) {
	testCases := []struct {
		cents    int64
		expected string
	}{
		{10000, "100.00"},
		{1, "0.01"},
		{10, "0.10"},
		{100, "1.00"},
		{150, "1.50"},
		{123456789, "1234567.89"},
		{0, "0.00"},
		{-10000, "-100.00"},
		{-5, "-0.05"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, CentsToString(tc.cents))
		})
	}
}

func TestAmountRoundTrip(t *testing.T) {
	testCases := []string{
		"0.00",
		"0.01",
		"1.00",
		"10.50",
		"1234.56",
		"9999999.99",
	}

	for _, tc := range testCases {
		t.Run(tc, func(t *testing.T) {
			cents, err := ParseAmount(tc)
			assert.NoError(t, err)
			assert.Equal(t, tc, CentsToString(cents))
		})
	}
}

func TestJoyFromUSDT(t *testing.T) {
	testCases := []struct {
		name      string
		usdtCents int64
		rateCents int64
		expected  int64
	}{
		{"200 USDT at 5 JOY each", 20000, 500, 1000},
		{"100 USDT at 100 JOY each", 10000, 10000, 10000},
		{"Fractional JOY truncates", 150, 100, 1},
		{"Sub-cent result truncates to zero", 1, 100, 0},
		{"Zero amount", 0, 500, 0},
		{"Zero rate", 20000, 0, 0},
		{"Negative amount", -100, 500, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, JoyFromUSDT(tc.usdtCents, tc.rateCents))
		})
	}
}
