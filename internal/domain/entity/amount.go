package entity

import (
	"fmt"
	"strconv"
	"strings"

	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
)

// Monetary values (USDT amounts, KRW prices, exchange rates) are carried as
// int64 cents to avoid floating point drift; the API surface speaks strings
// with exactly two decimal places.

// MaxDecimalPlaces defines the maximum number of decimal places allowed for amounts
const MaxDecimalPlaces = 2

// ParseAmount validates and converts a decimal string into cents.
// "200" -> 20000, "200.5" -> 20050, "200.50" -> 20050.
func ParseAmount(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if len(amount) == 0 {
		return 0, fmt.Errorf("%w: empty value", errs.ErrInvalidAmount)
	}

	if strings.HasPrefix(amount, "-") {
		return 0, errs.ErrNegativeAmount
	}

	parts := strings.Split(amount, ".")
	if len(parts) > 2 {
		return 0, fmt.Errorf("%w: invalid number format", errs.ErrInvalidAmount)
	}

	var integerValue string
	if len(parts) == 1 {
		integerValue = parts[0] + "00"
	} else {
		switch len(parts[1]) {
		case 0:
			integerValue = parts[0] + "00"
		case 1:
			integerValue = parts[0] + parts[1] + "0"
		case 2:
			integerValue = parts[0] + parts[1]
		default:
			return 0, fmt.Errorf("%w: maximum %d decimal places allowed", errs.ErrInvalidAmount, MaxDecimalPlaces)
		}
	}

	value, err := strconv.ParseInt(integerValue, 10, 64)
	if err != nil {
		if strings.Contains(err.Error(), "out of range") {
			return 0, errs.ErrAmountOverflow
		}
		return 0, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, err.Error())
	}

	return value, nil
}

// CentsToString converts an integer cent amount to a decimal string.
// 1015 -> "10.15", 1000 -> "10.00", -5 -> "-0.05".
func CentsToString(cents int64) string {
	isNegative := cents < 0
	if isNegative {
		cents = -cents
	}

	amountStr := strconv.FormatInt(cents, 10)
	for len(amountStr) < 3 {
		amountStr = "0" + amountStr
	}

	decimalPos := len(amountStr) - 2
	wholePart := amountStr[:decimalPos]
	decimalPart := amountStr[decimalPos:]

	if isNegative {
		return "-" + wholePart + "." + decimalPart
	}
	return wholePart + "." + decimalPart
}

// JoyFromUSDT computes the whole-JOY allocation for a USDT amount at a given
// rate, both in cents. 20000 (200.00 USDT) at 500 (5.00 JOY/USDT) -> 1000 JOY.
// Fractional JOY is truncated.
func JoyFromUSDT(usdtCents, rateCents int64) int64 {
	if usdtCents <= 0 || rateCents <= 0 {
		return 0
	}
	return usdtCents * rateCents / 10000
}
