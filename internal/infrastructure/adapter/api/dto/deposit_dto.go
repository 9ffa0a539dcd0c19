package dto

// CreateDepositRequest is the POST /deposits payload
type CreateDepositRequest struct {
	Chain      string  `json:"chain" binding:"required"`
	AmountUSDT string  `json:"amount_usdt" binding:"required"`
	ProductID  *uint64 `json:"product_id"`
}

// DecideDepositRequest is the admin approve/reject payload
type DecideDepositRequest struct {
	ActualAmount *string `json:"actual_amount"`
	AdminNotes   string  `json:"admin_notes"`
}

// DepositResponse is the API view of a deposit request
type DepositResponse struct {
	ID              uint64  `json:"id"`
	UserID          uint64  `json:"user_id"`
	ProductID       *uint64 `json:"product_id,omitempty"`
	Chain           string  `json:"chain"`
	AssignedAddress string  `json:"assigned_address"`
	AmountUSDT      string  `json:"amount_usdt"`
	RateJoyPerUSDT  string  `json:"rate_joy_per_usdt"`
	JoyAmount       int64   `json:"joy_amount"`
	ActualAmount    *string `json:"actual_amount,omitempty"`
	CreditedJoy     int64   `json:"credited_joy,omitempty"`
	Status          string  `json:"status"`
	AdminNotes      string  `json:"admin_notes,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// NotificationResponse is one user-facing decision event
type NotificationResponse struct {
	DepositID  uint64 `json:"deposit_id"`
	Status     string `json:"status"`
	AmountUSDT string `json:"amount_usdt"`
	JoyAmount  int64  `json:"joy_amount"`
	DecidedAt  string `json:"decided_at"`
}

// DepositStatsResponse aggregates the admin dashboard numbers
type DepositStatsResponse struct {
	PendingCount      int64                `json:"pending_count"`
	ApprovedCount     int64                `json:"approved_count"`
	RejectedCount     int64                `json:"rejected_count"`
	TotalApprovedUSDT string               `json:"total_approved_usdt"`
	Sectors           []SectorStatResponse `json:"sectors"`
}

// SectorStatResponse is one row of the per-sector breakdown
type SectorStatResponse struct {
	SectorID      *uint64 `json:"sector_id"`
	ApprovedCount int64   `json:"approved_count"`
	ApprovedUSDT  string  `json:"approved_usdt"`
}
