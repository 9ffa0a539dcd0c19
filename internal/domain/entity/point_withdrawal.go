package entity

import (
	"strings"
	"time"

	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
)

// WithdrawalStatus defines the lifecycle states of a point withdrawal
type WithdrawalStatus string

// Withdrawal states
const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalApproved WithdrawalStatus = "approved"
	WithdrawalRejected WithdrawalStatus = "rejected"
)

// PointWithdrawal is a user's request to cash out points. The amount is
// reserved (deducted from the ledger) the moment the request is created, so
// concurrent requests can never overdraw the balance; a rejection refunds it.
type PointWithdrawal struct {
	ID          uint64
	UserID      uint64
	Amount      int64
	Method      string
	AccountInfo string
	Status      WithdrawalStatus
	AdminID     *uint64
	AdminNotes  string
	CreatedAt   time.Time
	DecidedAt   *time.Time
}

// NewPointWithdrawal creates a pending withdrawal request
func NewPointWithdrawal(userID uint64, amount int64, method, accountInfo string, timeProvider coreport.TimeProvider) (*PointWithdrawal, error) {
	if userID == 0 {
		return nil, errs.ErrUserNotFound
	}
	if amount <= 0 {
		return nil, errs.NewValidationError("amount", "must be greater than zero")
	}
	if strings.TrimSpace(method) == "" {
		return nil, errs.NewValidationError("method", "payout method is required")
	}
	if strings.TrimSpace(accountInfo) == "" {
		return nil, errs.NewValidationError("account_info", "payout account is required")
	}

	return &PointWithdrawal{
		UserID:      userID,
		Amount:      amount,
		Method:      strings.TrimSpace(method),
		AccountInfo: strings.TrimSpace(accountInfo),
		Status:      WithdrawalPending,
		CreatedAt:   timeProvider.Now(),
	}, nil
}

// Approve transitions pending -> approved; the reserve was already taken
func (w *PointWithdrawal) Approve(adminID uint64, adminNotes string, timeProvider coreport.TimeProvider) error {
	if w.Status != WithdrawalPending {
		return errs.ErrInvalidState
	}
	now := timeProvider.Now()
	w.Status = WithdrawalApproved
	w.AdminID = &adminID
	if adminNotes != "" {
		w.AdminNotes = adminNotes
	}
	w.DecidedAt = &now
	return nil
}

// Reject transitions pending -> rejected; the caller must refund the reserve
func (w *PointWithdrawal) Reject(adminID uint64, adminNotes string, timeProvider coreport.TimeProvider) error {
	if w.Status != WithdrawalPending {
		return errs.ErrInvalidState
	}
	now := timeProvider.Now()
	w.Status = WithdrawalRejected
	w.AdminID = &adminID
	if adminNotes != "" {
		w.AdminNotes = adminNotes
	}
	w.DecidedAt = &now
	return nil
}
