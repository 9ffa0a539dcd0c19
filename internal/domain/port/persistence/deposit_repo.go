package persistence

import (
	"context"

	"github.com/joycoin-platform/joycoin-backend/internal/domain/entity"
)

// DepositFilter narrows admin deposit listings
type DepositFilter struct {
	Status string // empty = all
	Query  string // substring match on owner email/username
	Limit  int
}

// SectorStat is one row of the per-sector approval breakdown
type SectorStat struct {
	SectorID      *uint64
	ApprovedCount int64
	ApprovedUSDT  int64 // cents
}

// DepositStats aggregates the admin dashboard numbers
type DepositStats struct {
	PendingCount      int64
	ApprovedCount     int64
	RejectedCount     int64
	TotalApprovedUSDT int64 // cents
	Sectors           []SectorStat
}

// DepositRepository defines methods to interact with deposit requests
type DepositRepository interface {
	// Create persists a new pending deposit request
	Create(ctx context.Context, deposit *entity.DepositRequest) error

	// GetByID retrieves a deposit request by ID
	//
	// Possible errors:
	// - ErrDepositNotFound: if no request with the ID exists
	GetByID(ctx context.Context, id uint64) (*entity.DepositRequest, error)

	// ListByUser returns a user's requests, newest first
	ListByUser(ctx context.Context, userID uint64) ([]*entity.DepositRequest, error)

	// List returns requests matching the filter for the admin console
	List(ctx context.Context, filter DepositFilter) ([]*entity.DepositRequest, error)

	// Decide persists an approve/reject transition with a conditional update
	// guarded on status = pending, so exactly one of two concurrent decisions
	// wins. The loser receives ErrInvalidState; a missing row yields
	// ErrDepositNotFound.
	Decide(ctx context.Context, deposit *entity.DepositRequest) error

	// Stats computes the admin dashboard aggregates
	Stats(ctx context.Context) (*DepositStats, error)
}
