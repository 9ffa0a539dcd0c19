package entity

import (
	"time"

	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
)

// Referral links a referrer to a referred signup. One row per referred user;
// referred_id is unique so a user can be referred at most once.
type Referral struct {
	ID           uint64
	ReferrerID   uint64
	ReferredID   uint64
	RewardPoints int64
	CreatedAt    time.Time
}

// NewReferral creates the referral link recorded during signup
func NewReferral(referrerID, referredID uint64, rewardPoints int64, timeProvider coreport.TimeProvider) (*Referral, error) {
	if referrerID == 0 || referredID == 0 {
		return nil, errs.ErrUserNotFound
	}
	if referrerID == referredID {
		return nil, errs.NewValidationError("referral_code", "cannot refer yourself")
	}
	if rewardPoints < 0 {
		return nil, errs.NewValidationError("reward_points", "cannot be negative")
	}

	return &Referral{
		ReferrerID:   referrerID,
		ReferredID:   referredID,
		RewardPoints: rewardPoints,
		CreatedAt:    timeProvider.Now(),
	}, nil
}
