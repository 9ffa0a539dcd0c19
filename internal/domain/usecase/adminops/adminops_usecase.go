package adminops

import (
	"context"

	"github.com/joycoin-platform/joycoin-backend/internal/domain/entity"
	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
	"github.com/joycoin-platform/joycoin-backend/internal/domain/port/persistence"
)

// defaultSearchLimit caps admin user listings when the caller gives no limit
const defaultSearchLimit = 50

// PlatformStats aggregates the admin dashboard numbers
type PlatformStats struct {
	TotalUsers int64
	Deposits   *persistence.DepositStats
}

// Service handles admin user management and the dashboard
type Service struct {
	users        persistence.UserRepository
	deposits     persistence.DepositRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates the admin operations service
func NewService(
	users persistence.UserRepository,
	deposits persistence.DepositRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		users:        users,
		deposits:     deposits,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// ListUsers searches users for the admin console
func (s *Service) ListUsers(ctx context.Context, query, role string, limit int) ([]*entity.User, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	return s.users.Search(ctx, query, role, limit)
}

// GetUser returns a single account
func (s *Service) GetUser(ctx context.Context, userID uint64) (*entity.User, error) {
	return s.users.GetByID(ctx, userID)
}

// Ban blocks an account from logging in. Admin accounts cannot be banned.
func (s *Service) Ban(ctx context.Context, adminID, userID uint64) (*entity.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := user.Ban(s.timeProvider); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User banned", map[string]any{"user_id": userID, "admin_id": adminID})
	return user, nil
}

// Unban lifts a ban
func (s *Service) Unban(ctx context.Context, adminID, userID uint64) (*entity.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Unban(s.timeProvider)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User unbanned", map[string]any{"user_id": userID, "admin_id": adminID})
	return user, nil
}

// Promote raises an account to admin. Promoting an admin is a no-op success.
func (s *Service) Promote(ctx context.Context, adminID, userID uint64) (*entity.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Role == entity.RoleAdmin {
		return user, nil
	}

	user.Role = entity.RoleAdmin
	user.UpdatedAt = s.timeProvider.Now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User promoted to admin", map[string]any{
		"user_id":  userID,
		"admin_id": adminID,
	})
	return user, nil
}

// Demote returns any account to the user role. Admins cannot demote
// themselves, which keeps at least the acting admin in place.
func (s *Service) Demote(ctx context.Context, adminID, userID uint64) (*entity.User, error) {
	if adminID == userID {
		return nil, errs.NewValidationError("user_id", "cannot demote yourself")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Role = entity.RoleUser
	user.UpdatedAt = s.timeProvider.Now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User demoted", map[string]any{"user_id": userID, "admin_id": adminID})
	return user, nil
}

// DemoteSectorManager returns a sector manager to the user role and refuses
// any other role.
func (s *Service) DemoteSectorManager(ctx context.Context, adminID, userID uint64) (*entity.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Role != entity.RoleSectorManager {
		return nil, errs.NewValidationError("role", "not a sector manager")
	}

	user.Role = entity.RoleUser
	user.UpdatedAt = s.timeProvider.Now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Sector manager demoted", map[string]any{"user_id": userID, "admin_id": adminID})
	return user, nil
}

// Stats builds the admin dashboard aggregates
func (s *Service) Stats(ctx context.Context) (*PlatformStats, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	depositStats, err := s.deposits.Stats(ctx)
	if err != nil {
		return nil, err
	}

	return &PlatformStats{
		TotalUsers: totalUsers,
		Deposits:   depositStats,
	}, nil
}
