package points

import (
	"context"
	"fmt"

	"github.com/joycoin-platform/joycoin-backend/internal/domain/entity"
	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
	"github.com/joycoin-platform/joycoin-backend/internal/domain/port/persistence"
)

// Balance is the caller's point summary
type Balance struct {
	TotalPoints int64
	Entries     []*entity.Point
}

// ReconcileResult reports a ledger-vs-counter comparison for one user
type ReconcileResult struct {
	UserID      uint64
	LedgerSum   int64
	TotalPoints int64
	Consistent  bool
}

// Service handles the point ledger, referral history and withdrawals
type Service struct {
	users        persistence.UserRepository
	points       persistence.PointRepository
	referrals    persistence.ReferralRepository
	withdrawals  persistence.WithdrawalRepository
	uow          persistence.UnitOfWork
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates the points service
func NewService(
	users persistence.UserRepository,
	points persistence.PointRepository,
	referrals persistence.ReferralRepository,
	withdrawals persistence.WithdrawalRepository,
	uow persistence.UnitOfWork,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		users:        users,
		points:       points,
		referrals:    referrals,
		withdrawals:  withdrawals,
		uow:          uow,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Balance returns the caller's current total and ledger history
func (s *Service) Balance(ctx context.Context, userID uint64) (*Balance, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries, err := s.points.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Balance{TotalPoints: user.TotalPoints, Entries: entries}, nil
}

// Referrals returns the signups the caller has brought in
func (s *Service) Referrals(ctx context.Context, userID uint64) ([]*entity.Referral, error) {
	return s.referrals.ListByReferrer(ctx, userID)
}

// Award applies a signed admin adjustment and appends the matching ledger
// entry in one transaction, keeping sum(ledger) == total_points.
func (s *Service) Award(ctx context.Context, adminID, userID uint64, amount int64, description string) (*entity.User, error) {
	if amount == 0 {
		return nil, errs.NewValidationError("amount", "adjustment cannot be zero")
	}
	if description == "" {
		description = fmt.Sprintf("Adjustment by admin %d", adminID)
	}

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := s.awardTx(txCtx, userID, amount, description)
	if err != nil {
		if rbErr := s.uow.Rollback(txCtx); rbErr != nil {
			s.logger.Error("Award rollback failed", map[string]any{"error": rbErr.Error()})
		}
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	s.logger.Info("Points adjusted", map[string]any{
		"user_id":  userID,
		"admin_id": adminID,
		"amount":   amount,
		"balance":  updated.TotalPoints,
	})
	return updated, nil
}

func (s *Service) awardTx(txCtx context.Context, userID uint64, amount int64, description string) (*entity.User, error) {
	updated, err := s.uow.Users(txCtx).ApplyPoints(txCtx, userID, amount)
	if err != nil {
		return nil, err
	}
	point, err := entity.NewPoint(userID, amount, entity.PointAdminAdjust, description, updated.TotalPoints, s.timeProvider)
	if err != nil {
		return nil, err
	}
	if err := s.uow.Points(txCtx).Append(txCtx, point); err != nil {
		return nil, err
	}
	return updated, nil
}

// RequestWithdrawal reserves the amount immediately: the counter decrement,
// the reserve ledger entry and the withdrawal row commit together, so two
// concurrent requests can never overdraw the balance.
func (s *Service) RequestWithdrawal(ctx context.Context, userID uint64, amount int64, method, accountInfo string) (*entity.PointWithdrawal, error) {
	withdrawal, err := entity.NewPointWithdrawal(userID, amount, method, accountInfo, s.timeProvider)
	if err != nil {
		return nil, err
	}

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.reserveTx(txCtx, withdrawal); err != nil {
		if rbErr := s.uow.Rollback(txCtx); rbErr != nil {
			s.logger.Error("Withdrawal rollback failed", map[string]any{"error": rbErr.Error()})
		}
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	s.logger.Info("Withdrawal requested", map[string]any{
		"withdrawal_id": withdrawal.ID,
		"user_id":       userID,
		"amount":        amount,
	})
	return withdrawal, nil
}

func (s *Service) reserveTx(txCtx context.Context, withdrawal *entity.PointWithdrawal) error {
	updated, err := s.uow.Users(txCtx).ApplyPoints(txCtx, withdrawal.UserID, -withdrawal.Amount)
	if err != nil {
		return err
	}
	point, err := entity.NewPoint(withdrawal.UserID, -withdrawal.Amount, entity.PointWithdrawReserve,
		fmt.Sprintf("Withdrawal reserve (%s)", withdrawal.Method), updated.TotalPoints, s.timeProvider)
	if err != nil {
		return err
	}
	if err := s.uow.Points(txCtx).Append(txCtx, point); err != nil {
		return err
	}
	return s.uow.Withdrawals(txCtx).Create(txCtx, withdrawal)
}

// ListWithdrawals returns the caller's withdrawal requests, newest first
func (s *Service) ListWithdrawals(ctx context.Context, userID uint64) ([]*entity.PointWithdrawal, error) {
	return s.withdrawals.ListByUser(ctx, userID)
}

// ListWithdrawalsByStatus returns withdrawals for the admin console
func (s *Service) ListWithdrawalsByStatus(ctx context.Context, status string, limit int) ([]*entity.PointWithdrawal, error) {
	return s.withdrawals.ListByStatus(ctx, status, limit)
}

// ApproveWithdrawal marks a pending withdrawal approved. The reserve was
// taken at request time, so no balance moves here.
func (s *Service) ApproveWithdrawal(ctx context.Context, withdrawalID, adminID uint64, notes string) (*entity.PointWithdrawal, error) {
	withdrawal, err := s.withdrawals.GetByID(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}

	if err := withdrawal.Approve(adminID, notes, s.timeProvider); err != nil {
		return nil, err
	}

	if err := s.withdrawals.Decide(ctx, withdrawal); err != nil {
		return nil, err
	}

	s.logger.Info("Withdrawal approved", map[string]any{
		"withdrawal_id": withdrawal.ID,
		"user_id":       withdrawal.UserID,
		"admin_id":      adminID,
	})
	return withdrawal, nil
}

// RejectWithdrawal marks a pending withdrawal rejected and refunds the
// reserved points. The status flip, the refund entry and the counter
// increment commit in one transaction.
func (s *Service) RejectWithdrawal(ctx context.Context, withdrawalID, adminID uint64, notes string) (*entity.PointWithdrawal, error) {
	withdrawal, err := s.withdrawals.GetByID(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}

	if err := withdrawal.Reject(adminID, notes, s.timeProvider); err != nil {
		return nil, err
	}

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.refundTx(txCtx, withdrawal); err != nil {
		if rbErr := s.uow.Rollback(txCtx); rbErr != nil {
			s.logger.Error("Refund rollback failed", map[string]any{"error": rbErr.Error()})
		}
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	s.logger.Info("Withdrawal rejected", map[string]any{
		"withdrawal_id": withdrawal.ID,
		"user_id":       withdrawal.UserID,
		"admin_id":      adminID,
		"refunded":      withdrawal.Amount,
	})
	return withdrawal, nil
}

func (s *Service) refundTx(txCtx context.Context, withdrawal *entity.PointWithdrawal) error {
	if err := s.uow.Withdrawals(txCtx).Decide(txCtx, withdrawal); err != nil {
		return err
	}
	updated, err := s.uow.Users(txCtx).ApplyPoints(txCtx, withdrawal.UserID, withdrawal.Amount)
	if err != nil {
		return err
	}
	point, err := entity.NewPoint(withdrawal.UserID, withdrawal.Amount, entity.PointWithdrawRefund,
		fmt.Sprintf("Withdrawal %d rejected", withdrawal.ID), updated.TotalPoints, s.timeProvider)
	if err != nil {
		return err
	}
	return s.uow.Points(txCtx).Append(txCtx, point)
}

// Reconcile compares a user's ledger sum against the cached counter
func (s *Service) Reconcile(ctx context.Context, userID uint64) (*ReconcileResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	sum, err := s.points.SumByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &ReconcileResult{
		UserID:      userID,
		LedgerSum:   sum,
		TotalPoints: user.TotalPoints,
		Consistent:  sum == user.TotalPoints,
	}
	if !result.Consistent {
		s.logger.Error("Point ledger drift detected", map[string]any{
			"user_id":      userID,
			"ledger_sum":   sum,
			"total_points": user.TotalPoints,
		})
	}
	return result, nil
}
