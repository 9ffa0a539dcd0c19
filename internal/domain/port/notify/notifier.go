package notify

import "context"

// DepositEvent carries the fields operator alerts render
type DepositEvent struct {
	DepositID     uint64
	UserEmail     string
	AmountUSDT    string // formatted, 2 decimal places
	JoyAmount     int64
	Chain         string
	WalletAddress string
}

// Notifier sends best-effort operator alerts. Implementations must never
// block request handling; failures are logged and swallowed.
type Notifier interface {
	// NotifyDepositRequested alerts operators that a new request was created
	NotifyDepositRequested(ctx context.Context, event DepositEvent) error

	// NotifyDepositApproved alerts operators that an approval completed and
	// JOY should be sent to the user
	NotifyDepositApproved(ctx context.Context, event DepositEvent) error
}
