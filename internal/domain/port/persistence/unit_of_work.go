package persistence

import (
	"context"
)

// UnitOfWork coordinates multi-repository writes in a single database
// transaction. Used wherever partial state would corrupt balances:
// signup (user + referral + bonus points), deposit approval (status flip +
// JOY credit), point awards (ledger + counter) and withdrawal reserves.
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// Users returns a user repository bound to the current transaction
	Users(ctx context.Context) UserRepository

	// Deposits returns a deposit repository bound to the current transaction
	Deposits(ctx context.Context) DepositRepository

	// Points returns a point repository bound to the current transaction
	Points(ctx context.Context) PointRepository

	// Referrals returns a referral repository bound to the current transaction
	Referrals(ctx context.Context) ReferralRepository

	// Withdrawals returns a withdrawal repository bound to the current transaction
	Withdrawals(ctx context.Context) WithdrawalRepository
}
