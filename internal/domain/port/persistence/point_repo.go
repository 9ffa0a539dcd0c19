package persistence

import (
	"context"

	"github.com/joycoin-platform/joycoin-backend/internal/domain/entity"
)

// PointRepository defines methods to interact with the point ledger
type PointRepository interface {
	// Append inserts a ledger entry. The ledger is append-only; entries are
	// never updated or deleted.
	Append(ctx context.Context, point *entity.Point) error

	// ListByUser returns a user's ledger entries, newest first
	ListByUser(ctx context.Context, userID uint64) ([]*entity.Point, error)

	// SumByUser returns the ledger sum for a user; used to verify the
	// reconciliation invariant against users.total_points
	SumByUser(ctx context.Context, userID uint64) (int64, error)
}

// ReferralRepository defines methods to interact with referral links
type ReferralRepository interface {
	// Create persists a referral link; referred_id is unique
	Create(ctx context.Context, referral *entity.Referral) error

	// ListByReferrer returns the referrals a user has brought in
	ListByReferrer(ctx context.Context, referrerID uint64) ([]*entity.Referral, error)
}

// WithdrawalRepository defines methods to interact with point withdrawals
type WithdrawalRepository interface {
	// Create persists a new pending withdrawal
	Create(ctx context.Context, withdrawal *entity.PointWithdrawal) error

	// GetByID retrieves a withdrawal by ID
	GetByID(ctx context.Context, id uint64) (*entity.PointWithdrawal, error)

	// ListByUser returns a user's withdrawals, newest first
	ListByUser(ctx context.Context, userID uint64) ([]*entity.PointWithdrawal, error)

	// ListByStatus returns withdrawals in a given status for the admin console
	ListByStatus(ctx context.Context, status string, limit int) ([]*entity.PointWithdrawal, error)

	// Decide persists an approve/reject transition guarded on status = pending
	Decide(ctx context.Context, withdrawal *entity.PointWithdrawal) error
}
