package deposit

import (
	"context"
	"time"

	"github.com/joycoin-platform/joycoin-backend/internal/domain/entity"
	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
	"github.com/joycoin-platform/joycoin-backend/internal/domain/port/notify"
	"github.com/joycoin-platform/joycoin-backend/internal/domain/port/persistence"
)

// notifyTimeout bounds the fire-and-forget operator alert
const notifyTimeout = 10 * time.Second

// CreateRequest carries validated deposit creation input
type CreateRequest struct {
	UserID     uint64
	Chain      string
	AmountUSDT string // decimal string, parsed to cents
	ProductID  *uint64
}

// DecideRequest carries an admin approve/reject decision
type DecideRequest struct {
	DepositID    uint64
	AdminID      uint64
	ActualAmount *string // decimal string; nil means the expected amount arrived
	AdminNotes   string
}

// Notification is a user-facing event derived from decided deposits. It is
// computed at read time rather than stored, so it can never drift from the
// deposit rows it describes.
type Notification struct {
	DepositID  uint64
	Status     entity.DepositStatus
	AmountUSDT int64 // cents
	JoyAmount  int64
	DecidedAt  string // RFC3339
}

// Service handles the deposit request lifecycle
type Service struct {
	deposits     persistence.DepositRepository
	users        persistence.UserRepository
	rates        persistence.ExchangeRateRepository
	uow          persistence.UnitOfWork
	notifier     notify.Notifier
	addresses    map[entity.Chain]string
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates the deposit service. addresses maps each supported chain
// to the platform deposit address users must send USDT to.
func NewService(
	deposits persistence.DepositRepository,
	users persistence.UserRepository,
	rates persistence.ExchangeRateRepository,
	uow persistence.UnitOfWork,
	notifier notify.Notifier,
	addresses map[entity.Chain]string,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		deposits:     deposits,
		users:        users,
		rates:        rates,
		uow:          uow,
		notifier:     notifier,
		addresses:    addresses,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Create registers a pending deposit request. The active exchange rate is
// snapshotted onto the row so later rate changes never reinterpret it, and
// the JOY preview is frozen from the expected amount.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*entity.DepositRequest, error) {
	amount, err := entity.ParseAmount(req.AmountUSDT)
	if err != nil {
		return nil, err
	}

	if !entity.IsValidChain(req.Chain) {
		return nil, errs.ErrInvalidChain
	}
	chain := entity.Chain(req.Chain)

	address, ok := s.addresses[chain]
	if !ok || address == "" {
		s.logger.Error("No deposit address configured", map[string]any{"chain": req.Chain})
		return nil, errs.ErrNotConfigured
	}

	rate, err := s.rates.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	deposit, err := entity.NewDepositRequest(req.UserID, chain, address, amount, rate.JoyPerUSDT, s.timeProvider)
	if err != nil {
		return nil, err
	}
	deposit.ProductID = req.ProductID

	if err := s.deposits.Create(ctx, deposit); err != nil {
		return nil, err
	}

	s.logger.Info("Deposit request created", map[string]any{
		"deposit_id":  deposit.ID,
		"user_id":     deposit.UserID,
		"chain":       string(deposit.Chain),
		"amount_usdt": entity.CentsToString(deposit.ExpectedAmount),
		"joy_amount":  deposit.JoyAmount,
	})

	s.alert(deposit, s.notifier.NotifyDepositRequested)
	return deposit, nil
}

// Approve flips a pending request to approved and credits JOY to the owner in
// one transaction. The credited JOY is recomputed from the actual amount at
// the creation-time rate snapshot. Concurrent decisions on the same request
// resolve to exactly one winner; the loser gets ErrInvalidState.
func (s *Service) Approve(ctx context.Context, req DecideRequest) (*entity.DepositRequest, error) {
	deposit, err := s.deposits.GetByID(ctx, req.DepositID)
	if err != nil {
		return nil, err
	}

	var actual *int64
	if req.ActualAmount != nil {
		parsed, err := entity.ParseAmount(*req.ActualAmount)
		if err != nil {
			return nil, err
		}
		actual = &parsed
	}

	if err := deposit.Approve(req.AdminID, actual, req.AdminNotes, s.timeProvider); err != nil {
		return nil, err
	}

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.approveTx(txCtx, deposit); err != nil {
		if rbErr := s.uow.Rollback(txCtx); rbErr != nil {
			s.logger.Error("Approve rollback failed", map[string]any{"error": rbErr.Error()})
		}
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	s.logger.Info("Deposit approved", map[string]any{
		"deposit_id":   deposit.ID,
		"user_id":      deposit.UserID,
		"admin_id":     req.AdminID,
		"credited_joy": deposit.CreditedJoy,
	})

	s.alert(deposit, s.notifier.NotifyDepositApproved)
	return deposit, nil
}

func (s *Service) approveTx(txCtx context.Context, deposit *entity.DepositRequest) error {
	if err := s.uow.Deposits(txCtx).Decide(txCtx, deposit); err != nil {
		return err
	}
	_, err := s.uow.Users(txCtx).CreditJoy(txCtx, deposit.UserID, deposit.CreditedJoy)
	return err
}

// Reject flips a pending request to rejected. No balances change.
func (s *Service) Reject(ctx context.Context, req DecideRequest) (*entity.DepositRequest, error) {
	deposit, err := s.deposits.GetByID(ctx, req.DepositID)
	if err != nil {
		return nil, err
	}

	if err := deposit.Reject(req.AdminID, req.AdminNotes, s.timeProvider); err != nil {
		return nil, err
	}

	if err := s.deposits.Decide(ctx, deposit); err != nil {
		return nil, err
	}

	s.logger.Info("Deposit rejected", map[string]any{
		"deposit_id": deposit.ID,
		"user_id":    deposit.UserID,
		"admin_id":   req.AdminID,
	})
	return deposit, nil
}

// ListMine returns the caller's deposit requests, newest first
func (s *Service) ListMine(ctx context.Context, userID uint64) ([]*entity.DepositRequest, error) {
	return s.deposits.ListByUser(ctx, userID)
}

// Get returns a single request, restricted to its owner unless the caller is
// staff
func (s *Service) Get(ctx context.Context, depositID, callerID uint64, callerIsStaff bool) (*entity.DepositRequest, error) {
	deposit, err := s.deposits.GetByID(ctx, depositID)
	if err != nil {
		return nil, err
	}
	if deposit.UserID != callerID && !callerIsStaff {
		return nil, errs.ErrDepositNotFound
	}
	return deposit, nil
}

// ListAll returns requests matching the filter for the admin console
func (s *Service) ListAll(ctx context.Context, filter persistence.DepositFilter) ([]*entity.DepositRequest, error) {
	return s.deposits.List(ctx, filter)
}

// Stats computes the admin dashboard aggregates
func (s *Service) Stats(ctx context.Context) (*persistence.DepositStats, error) {
	return s.deposits.Stats(ctx)
}

// Notifications derives the caller's decision events from their decided
// deposits, newest first
func (s *Service) Notifications(ctx context.Context, userID uint64) ([]Notification, error) {
	deposits, err := s.deposits.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	notifications := make([]Notification, 0, len(deposits))
	for _, d := range deposits {
		if !d.IsTerminal() {
			continue
		}
		n := Notification{
			DepositID: d.ID,
			Status:    d.Status,
			JoyAmount: d.CreditedJoy,
			DecidedAt: d.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if d.ActualAmount != nil {
			n.AmountUSDT = *d.ActualAmount
		} else {
			n.AmountUSDT = d.ExpectedAmount
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

// alert sends an operator notification without blocking the request. The
// user's email is resolved best-effort; failures are logged and swallowed.
func (s *Service) alert(deposit *entity.DepositRequest, send func(context.Context, notify.DepositEvent) error) {
	event := notify.DepositEvent{
		DepositID:     deposit.ID,
		Chain:         string(deposit.Chain),
		WalletAddress: deposit.AssignedAddress,
		JoyAmount:     deposit.JoyAmount,
	}
	if deposit.Status == entity.DepositApproved {
		event.JoyAmount = deposit.CreditedJoy
	}
	if deposit.ActualAmount != nil {
		event.AmountUSDT = entity.CentsToString(*deposit.ActualAmount)
	} else {
		event.AmountUSDT = entity.CentsToString(deposit.ExpectedAmount)
	}

	go func() {
		ctx, cancel := s.timeProvider.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if user, err := s.users.GetByID(ctx, deposit.UserID); err == nil {
			event.UserEmail = user.Email
		}

		if err := send(ctx, event); err != nil {
			s.logger.Warn("Operator alert failed", map[string]any{
				"deposit_id": deposit.ID,
				"error":      err.Error(),
			})
		}
	}()
}
