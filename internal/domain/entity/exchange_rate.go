package entity

import (
	"time"

	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
)

// DefaultReferralBonusPoints is the bonus the seeded rate row starts with.
// Admin-configured rows carry whatever value the admin chose, including zero.
const DefaultReferralBonusPoints int64 = 100

// ExchangeRate is one row of the append-only rate configuration log.
// Exactly one row is active at a time; setting a new rate inserts a fresh
// active row and deactivates the previous one, so historical deposits stay
// auditable against the rate that was in force when they were created.
type ExchangeRate struct {
	ID                  uint64
	JoyToKRW            int64 // cents
	USDTToKRW           int64 // cents
	JoyPerUSDT          int64 // cents
	ReferralBonusPoints int64
	IsActive            bool
	UpdatedBy           *uint64
	CreatedAt           time.Time
}

// NewExchangeRate creates an active rate row
func NewExchangeRate(joyPerUSDT, joyToKRW, usdtToKRW, referralBonusPoints int64, updatedBy uint64, timeProvider coreport.TimeProvider) (*ExchangeRate, error) {
	if joyPerUSDT <= 0 {
		return nil, errs.NewValidationError("joy_per_usdt", "must be greater than zero")
	}
	if joyToKRW < 0 || usdtToKRW < 0 {
		return nil, errs.NewValidationError("krw_rate", "cannot be negative")
	}
	// zero is a valid setting: it turns referral rewards off
	if referralBonusPoints < 0 {
		return nil, errs.NewValidationError("referral_bonus_points", "cannot be negative")
	}

	return &ExchangeRate{
		JoyToKRW:            joyToKRW,
		USDTToKRW:           usdtToKRW,
		JoyPerUSDT:          joyPerUSDT,
		ReferralBonusPoints: referralBonusPoints,
		IsActive:            true,
		UpdatedBy:           &updatedBy,
		CreatedAt:           timeProvider.Now(),
	}, nil
}
