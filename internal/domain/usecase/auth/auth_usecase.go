package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/joycoin-platform/joycoin-backend/internal/domain/entity"
	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
	"github.com/joycoin-platform/joycoin-backend/internal/domain/port/persistence"
)

// referralCodeRetries bounds regeneration attempts on a unique-code collision
const referralCodeRetries = 3

// SignupRequest carries validated signup input
type SignupRequest struct {
	Email         string
	Password      string
	Username      string
	WalletAddress string
	ReferralCode  string
	SectorID      *uint64
}

// SignupResult is returned to the new user
type SignupResult struct {
	UserID       uint64
	ReferralCode string
}

// Service handles identity and session business logic
type Service struct {
	users        persistence.UserRepository
	rates        persistence.ExchangeRateRepository
	uow          persistence.UnitOfWork
	tokens       *TokenManager
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates the auth service
func NewService(
	users persistence.UserRepository,
	rates persistence.ExchangeRateRepository,
	uow persistence.UnitOfWork,
	tokens *TokenManager,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		users:        users,
		rates:        rates,
		uow:          uow,
		tokens:       tokens,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Signup registers a new user. When a referral code is supplied it must
// resolve to an existing user; the referral link and the referrer's bonus
// points are written in the same transaction as the user row, so a failure
// anywhere leaves no partial state.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*SignupResult, error) {
	if len(req.Password) < entity.MinPasswordLength {
		return nil, errs.NewValidationError("password",
			fmt.Sprintf("must be at least %d characters", entity.MinPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: password hashing failed: %s", errs.ErrInternalServer, err.Error())
	}

	user, err := entity.NewUser(req.Email, string(hash), req.Username, s.timeProvider)
	if err != nil {
		return nil, err
	}
	user.WalletAddress = strings.TrimSpace(req.WalletAddress)
	user.SectorID = req.SectorID

	// Resolve the referrer before opening the transaction; an unknown code is
	// a validation error and must create no rows at all.
	var referrer *entity.User
	if req.ReferralCode != "" {
		referrer, err = s.users.GetByReferralCode(ctx, strings.ToUpper(strings.TrimSpace(req.ReferralCode)))
		if err != nil {
			if errs.IsNotFoundError(err) {
				return nil, errs.ErrInvalidReferralCode
			}
			return nil, err
		}
		if err := user.SetReferrer(referrer.ID); err != nil {
			return nil, err
		}
	}

	bonus := s.referralBonus(ctx)

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.signupTx(txCtx, user, referrer, bonus)
	if err != nil {
		if rbErr := s.uow.Rollback(txCtx); rbErr != nil {
			s.logger.Error("Signup rollback failed", map[string]any{"error": rbErr.Error()})
		}
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	s.logger.Info("User signed up", map[string]any{
		"user_id":       result.UserID,
		"referral_code": result.ReferralCode,
		"referred":      referrer != nil,
	})
	return result, nil
}

func (s *Service) signupTx(txCtx context.Context, user *entity.User, referrer *entity.User, bonus int64) (*SignupResult, error) {
	users := s.uow.Users(txCtx)

	var createErr error
	for attempt := 0; attempt < referralCodeRetries; attempt++ {
		createErr = users.Create(txCtx, user)
		if createErr == nil {
			break
		}
		if errors.Is(createErr, errs.ErrDuplicateEmail) {
			return nil, createErr
		}
		// A conflict here can only be a generated-code collision; retry with
		// fresh codes.
		if errors.Is(createErr, errs.ErrConflict) {
			user.ReferralCode = entity.GenerateReferralCode()
			user.RecoveryCode = entity.GenerateRecoveryCode()
			continue
		}
		return nil, createErr
	}
	if createErr != nil {
		return nil, createErr
	}

	if referrer != nil {
		referral, err := entity.NewReferral(referrer.ID, user.ID, bonus, s.timeProvider)
		if err != nil {
			return nil, err
		}
		if err := s.uow.Referrals(txCtx).Create(txCtx, referral); err != nil {
			return nil, err
		}

		if bonus > 0 {
			updated, err := users.ApplyPoints(txCtx, referrer.ID, bonus)
			if err != nil {
				return nil, err
			}
			point, err := entity.NewPoint(referrer.ID, bonus, entity.PointReferralBonus,
				fmt.Sprintf("Referral bonus for %s", user.Username), updated.TotalPoints, s.timeProvider)
			if err != nil {
				return nil, err
			}
			if err := s.uow.Points(txCtx).Append(txCtx, point); err != nil {
				return nil, err
			}
		}
	}

	return &SignupResult{UserID: user.ID, ReferralCode: user.ReferralCode}, nil
}

// referralBonus reads the configured bonus from the active rate row, falling
// back to the default when no rate is configured yet. Signup must not fail on
// a missing rate; only deposits require it.
func (s *Service) referralBonus(ctx context.Context) int64 {
	rate, err := s.rates.GetActive(ctx)
	if err != nil {
		return entity.DefaultReferralBonusPoints
	}
	return rate.ReferralBonusPoints
}

// Login verifies credentials and issues an access token. The error is the
// same whether the email is unknown or the password wrong, and banned users
// are rejected.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errs.IsNotFoundError(err) {
			return "", errs.ErrAuth
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", errs.ErrAuth
	}

	if user.IsBanned {
		return "", errs.ErrBanned
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", err
	}

	s.logger.Info("User logged in", map[string]any{"user_id": user.ID})
	return token, nil
}

// ChangePassword re-verifies the current password before setting a new one
func (s *Service) ChangePassword(ctx context.Context, userID uint64, current, newPassword string) error {
	if len(newPassword) < entity.MinPasswordLength {
		return errs.NewValidationError("new_password",
			fmt.Sprintf("must be at least %d characters", entity.MinPasswordLength))
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return errs.ErrAuth
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("%w: password hashing failed: %s", errs.ErrInternalServer, err.Error())
	}

	user.PasswordHash = string(hash)
	user.UpdatedAt = s.timeProvider.Now()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("Password changed", map[string]any{"user_id": userID})
	return nil
}
