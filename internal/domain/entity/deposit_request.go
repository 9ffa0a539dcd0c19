package entity

import (
	"time"

	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
)

// Chain represents a supported blockchain network for USDT transfers
type Chain string

// Canonical chain set
const (
	ChainTRC20   Chain = "TRC20"
	ChainERC20   Chain = "ERC20"
	ChainBSC     Chain = "BSC"
	ChainPolygon Chain = "Polygon"
)

// DepositStatus defines the lifecycle states of a deposit request
type DepositStatus string

// Deposit request states. Pending is the only non-terminal state.
const (
	DepositPending  DepositStatus = "pending"
	DepositApproved DepositStatus = "approved"
	DepositRejected DepositStatus = "rejected"
)

// MaxDepositUSDTCents caps a single request at 1,000,000.00 USDT
const MaxDepositUSDTCents int64 = 100_000_000

// DepositRequest is a user-initiated record of an expected USDT transfer,
// manually verified by an admin. The exchange rate is snapshotted at creation
// so later rate changes never reinterpret the request; the credited JOY is
// recomputed from the actually received amount at approval time.
type DepositRequest struct {
	ID              uint64
	UserID          uint64
	ProductID       *uint64
	Chain           Chain
	AssignedAddress string
	ExpectedAmount  int64  // USDT cents
	RateJoyPerUSDT  int64  // cents, snapshot of the active rate at creation
	JoyAmount       int64  // frozen at creation: expected x snapshot rate
	ActualAmount    *int64 // USDT cents, set at approval
	CreditedJoy     int64  // set at approval: actual x snapshot rate
	Status          DepositStatus
	AdminID         *uint64
	AdminNotes      string
	ApprovedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewDepositRequest creates a pending request with a frozen rate snapshot
func NewDepositRequest(
	userID uint64,
	chain Chain,
	assignedAddress string,
	expectedAmount int64,
	rateJoyPerUSDT int64,
	timeProvider coreport.TimeProvider,
) (*DepositRequest, error) {
	if userID == 0 {
		return nil, errs.ErrUserNotFound
	}
	if !IsValidChain(string(chain)) {
		return nil, errs.ErrInvalidChain
	}
	if expectedAmount <= 0 {
		return nil, errs.NewValidationError("amount_usdt", "must be greater than zero")
	}
	if expectedAmount > MaxDepositUSDTCents {
		return nil, errs.NewValidationError("amount_usdt", "exceeds the 1,000,000 USDT limit")
	}
	if assignedAddress == "" {
		return nil, errs.ErrNotConfigured
	}
	if rateJoyPerUSDT <= 0 {
		return nil, errs.ErrNotConfigured
	}

	now := timeProvider.Now()
	return &DepositRequest{
		UserID:          userID,
		Chain:           chain,
		AssignedAddress: assignedAddress,
		ExpectedAmount:  expectedAmount,
		RateJoyPerUSDT:  rateJoyPerUSDT,
		JoyAmount:       JoyFromUSDT(expectedAmount, rateJoyPerUSDT),
		Status:          DepositPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// IsTerminal reports whether the request has reached a final state
func (d *DepositRequest) IsTerminal() bool {
	return d.Status == DepositApproved || d.Status == DepositRejected
}

// Approve transitions pending -> approved. The credited JOY is recomputed from
// the actual amount (defaulting to expected) at the creation-time rate.
// Returns ErrInvalidState when the request is already terminal.
func (d *DepositRequest) Approve(adminID uint64, actualAmount *int64, adminNotes string, timeProvider coreport.TimeProvider) error {
	if d.Status != DepositPending {
		return errs.NewDepositStateError(d.ID, string(d.Status), "approved")
	}

	amount := d.ExpectedAmount
	if actualAmount != nil {
		if *actualAmount <= 0 {
			return errs.NewValidationError("actual_amount", "must be greater than zero")
		}
		amount = *actualAmount
	}

	now := timeProvider.Now()
	d.Status = DepositApproved
	d.ActualAmount = &amount
	d.CreditedJoy = JoyFromUSDT(amount, d.RateJoyPerUSDT)
	d.AdminID = &adminID
	if adminNotes != "" {
		d.AdminNotes = adminNotes
	}
	d.ApprovedAt = &now
	d.UpdatedAt = now
	return nil
}

// Reject transitions pending -> rejected. No balance mutation occurs.
func (d *DepositRequest) Reject(adminID uint64, adminNotes string, timeProvider coreport.TimeProvider) error {
	if d.Status != DepositPending {
		return errs.NewDepositStateError(d.ID, string(d.Status), "rejected")
	}

	d.Status = DepositRejected
	d.AdminID = &adminID
	if adminNotes != "" {
		d.AdminNotes = adminNotes
	}
	d.UpdatedAt = timeProvider.Now()
	return nil
}

// IsValidChain validates a chain value against the canonical set
func IsValidChain(chain string) bool {
	switch Chain(chain) {
	case ChainTRC20, ChainERC20, ChainBSC, ChainPolygon:
		return true
	}
	return false
}
