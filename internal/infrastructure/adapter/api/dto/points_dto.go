package dto

// PointResponse is one ledger entry
type PointResponse struct {
	ID           uint64 `json:"id"`
	Amount       int64  `json:"amount"`
	Type         string `json:"type"`
	Description  string `json:"description,omitempty"`
	BalanceAfter int64  `json:"balance_after"`
	CreatedAt    string `json:"created_at"`
}

// PointBalanceResponse is the caller's point summary
type PointBalanceResponse struct {
	TotalPoints int64           `json:"total_points"`
	Entries     []PointResponse `json:"entries"`
}

// ReferralResponse is one referred signup
type ReferralResponse struct {
	ID           uint64 `json:"id"`
	ReferredID   uint64 `json:"referred_id"`
	RewardPoints int64  `json:"reward_points"`
	CreatedAt    string `json:"created_at"`
}

// CreateWithdrawalRequest is the POST /points/withdrawals payload
type CreateWithdrawalRequest struct {
	Amount      int64  `json:"amount" binding:"required"`
	Method      string `json:"method" binding:"required"`
	AccountInfo string `json:"account_info" binding:"required"`
}

// DecideWithdrawalRequest is the admin approve/reject payload
type DecideWithdrawalRequest struct {
	AdminNotes string `json:"admin_notes"`
}

// WithdrawalResponse is the API view of a point withdrawal
type WithdrawalResponse struct {
	ID          uint64 `json:"id"`
	UserID      uint64 `json:"user_id"`
	Amount      int64  `json:"amount"`
	Method      string `json:"method"`
	AccountInfo string `json:"account_info"`
	Status      string `json:"status"`
	AdminNotes  string `json:"admin_notes,omitempty"`
	CreatedAt   string `json:"created_at"`
	DecidedAt   string `json:"decided_at,omitempty"`
}

// AwardPointsRequest is the admin point adjustment payload
type AwardPointsRequest struct {
	Amount      int64  `json:"amount" binding:"required"`
	Description string `json:"description"`
}
