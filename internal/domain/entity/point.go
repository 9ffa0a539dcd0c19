package entity

import (
	"time"

	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
)

// PointType classifies point ledger entries
type PointType string

// Ledger entry types
const (
	PointReferralBonus   PointType = "referral_bonus"
	PointWithdrawReserve PointType = "withdrawal_reserve"
	PointWithdrawRefund  PointType = "withdrawal_refund"
	PointAdminAdjust     PointType = "admin_adjust"
)

// Point is one append-only ledger entry. The invariant is that the sum of a
// user's entries always equals users.total_points; the insert and the counter
// increment commit in the same database transaction.
type Point struct {
	ID           uint64
	UserID       uint64
	Amount       int64 // signed
	Type         PointType
	Description  string
	BalanceAfter int64
	CreatedAt    time.Time
}

// NewPoint creates a ledger entry. balanceAfter is the running balance that
// results from applying the entry.
func NewPoint(userID uint64, amount int64, pointType PointType, description string, balanceAfter int64, timeProvider coreport.TimeProvider) (*Point, error) {
	if userID == 0 {
		return nil, errs.ErrUserNotFound
	}
	if amount == 0 {
		return nil, errs.NewValidationError("amount", "ledger entries cannot be zero")
	}
	if balanceAfter < 0 {
		return nil, errs.NewInsufficientPointsError(userID, -amount, balanceAfter-amount)
	}

	return &Point{
		UserID:       userID,
		Amount:       amount,
		Type:         pointType,
		Description:  description,
		BalanceAfter: balanceAfter,
		CreatedAt:    timeProvider.Now(),
	}, nil
}
