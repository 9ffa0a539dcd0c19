package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/joycoin-platform/joycoin-backend/internal/domain/entity"
	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// UserRepository implements persistence.UserRepository using GORM
type UserRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func userModelToEntity(m *model.User) *entity.User {
	return &entity.User{
		ID:            m.ID,
		Email:         m.Email,
		PasswordHash:  m.PasswordHash,
		Username:      m.Username,
		Role:          entity.Role(m.Role),
		WalletAddress: m.WalletAddress,
		ReferralCode:  m.ReferralCode,
		ReferredBy:    m.ReferredBy,
		RecoveryCode:  m.RecoveryCode,
		SectorID:      m.SectorID,
		TotalJoy:      m.TotalJoy,
		TotalPoints:   m.TotalPoints,
		IsBanned:      m.IsBanned,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func userEntityToModel(u *entity.User) *model.User {
	return &model.User{
		ID:            u.ID,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		Username:      u.Username,
		Role:          string(u.Role),
		WalletAddress: u.WalletAddress,
		ReferralCode:  u.ReferralCode,
		ReferredBy:    u.ReferredBy,
		RecoveryCode:  u.RecoveryCode,
		SectorID:      u.SectorID,
		TotalJoy:      u.TotalJoy,
		TotalPoints:   u.TotalPoints,
		IsBanned:      u.IsBanned,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// handleDatabaseError standardizes database error handling
func (r *UserRepository) handleDatabaseError(operation string, err error) error {
	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"error": err.Error(),
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrUserNotFound
	}

	if r.errorClassifier.IsDuplicateKeyError(err) {
		if strings.Contains(err.Error(), "email") {
			return errs.ErrDuplicateEmail
		}
		return errs.ErrConflict
	}

	if r.errorClassifier.IsConnectionError(err) {
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}

	return fmt.Errorf("%w: %s", errs.ErrInternalServer, err.Error())
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*entity.User, error) {
	var userModel model.User
	result := r.db.WithContext(ctx).First(&userModel, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, r.handleDatabaseError("getting user", result.Error)
	}
	return userModelToEntity(&userModel), nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userModel model.User
	result := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&userModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, r.handleDatabaseError("getting user by email", result.Error)
	}
	return userModelToEntity(&userModel), nil
}

// GetByReferralCode resolves a referral code to its owner
func (r *UserRepository) GetByReferralCode(ctx context.Context, code string) (*entity.User, error) {
	var userModel model.User
	result := r.db.WithContext(ctx).Where("referral_code = ?", code).First(&userModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, r.handleDatabaseError("resolving referral code", result.Error)
	}
	return userModelToEntity(&userModel), nil
}

// Create persists a new user
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	userModel := userEntityToModel(user)

	result := r.db.WithContext(ctx).Create(userModel)
	if result.Error != nil {
		return r.handleDatabaseError("creating user", result.Error)
	}

	user.ID = userModel.ID

	r.logger.Info("User created successfully", map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return nil
}

// Update persists mutated user fields
func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"password_hash":  user.PasswordHash,
			"username":       user.Username,
			"role":           string(user.Role),
			"wallet_address": user.WalletAddress,
			"sector_id":      user.SectorID,
			"is_banned":      user.IsBanned,
			"updated_at":     user.UpdatedAt,
		})

	if result.Error != nil {
		return r.handleDatabaseError("updating user", result.Error)
	}

	if result.RowsAffected == 0 {
		r.logger.Warn("User not found during update", map[string]any{
			"user_id": user.ID,
		})
		return errs.ErrUserNotFound
	}

	return nil
}

// CreditJoy atomically increments total_joy and returns the updated user
func (r *UserRepository) CreditJoy(ctx context.Context, userID uint64, joy int64) (*entity.User, error) {
	if joy < 0 {
		return nil, errs.ErrNegativeAmount
	}

	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"total_joy":  gorm.Expr("total_joy + ?", joy),
			"updated_at": r.timeProvider.Now(),
		})

	if result.Error != nil {
		return nil, r.handleDatabaseError("crediting joy", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, errs.ErrUserNotFound
	}

	user, err := r.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	r.logger.Info("JOY credited", map[string]any{
		"user_id":   userID,
		"joy":       joy,
		"total_joy": user.TotalJoy,
	})
	return user, nil
}

// ApplyPoints atomically adjusts total_points by a signed amount. The update
// is guarded so the balance can never go negative; losing that guard is how
// concurrent withdrawals would overdraw.
func (r *UserRepository) ApplyPoints(ctx context.Context, userID uint64, amount int64) (*entity.User, error) {
	query := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID)
	if amount < 0 {
		query = query.Where("total_points >= ?", -amount)
	}

	result := query.Updates(map[string]interface{}{
		"total_points": gorm.Expr("total_points + ?", amount),
		"updated_at":   r.timeProvider.Now(),
	})

	if result.Error != nil {
		return nil, r.handleDatabaseError("applying points", result.Error)
	}

	if result.RowsAffected == 0 {
		// Either the user is missing or the guarded deduction failed
		user, err := r.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		return nil, errs.NewInsufficientPointsError(userID, -amount, user.TotalPoints)
	}

	return r.GetByID(ctx, userID)
}

// Search returns users matching a substring on email/username and an
// optional role filter
func (r *UserRepository) Search(ctx context.Context, query string, role string, limit int) ([]*entity.User, error) {
	db := r.db.WithContext(ctx).Model(&model.User{})

	if query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		db = db.Where("LOWER(email) LIKE ? OR LOWER(username) LIKE ?", pattern, pattern)
	}
	if role != "" {
		db = db.Where("role = ?", role)
	}

	var models []model.User
	result := db.Order("created_at DESC").Limit(limit).Find(&models)
	if result.Error != nil {
		return nil, r.handleDatabaseError("searching users", result.Error)
	}

	users := make([]*entity.User, 0, len(models))
	for i := range models {
		users = append(users, userModelToEntity(&models[i]))
	}
	return users, nil
}

// Count returns the total number of users
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.User{}).Count(&count)
	if result.Error != nil {
		return 0, r.handleDatabaseError("counting users", result.Error)
	}
	return count, nil
}
