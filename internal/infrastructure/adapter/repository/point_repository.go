package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/joycoin-platform/joycoin-backend/internal/domain/entity"
	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// PointRepository implements persistence.PointRepository using GORM
type PointRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewPointRepository creates a new PointRepository instance
func NewPointRepository(db *gorm.DB, logger coreport.Logger) *PointRepository {
	return &PointRepository{db: db, logger: logger}
}

// Append inserts a ledger entry
func (r *PointRepository) Append(ctx context.Context, point *entity.Point) error {
	pointModel := model.Point{
		UserID:       point.UserID,
		Amount:       point.Amount,
		Type:         string(point.Type),
		Description:  point.Description,
		BalanceAfter: point.BalanceAfter,
		CreatedAt:    point.CreatedAt,
	}

	result := r.db.WithContext(ctx).Create(&pointModel)
	if result.Error != nil {
		r.logger.Error("Database error when appending ledger entry", map[string]any{
			"user_id": point.UserID,
			"error":   result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrInternalServer, result.Error.Error())
	}

	point.ID = pointModel.ID
	return nil
}

// ListByUser returns a user's ledger entries, newest first
func (r *PointRepository) ListByUser(ctx context.Context, userID uint64) ([]*entity.Point, error) {
	var models []model.Point
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrInternalServer, result.Error.Error())
	}

	points := make([]*entity.Point, 0, len(models))
	for i := range models {
		m := &models[i]
		points = append(points, &entity.Point{
			ID:           m.ID,
			UserID:       m.UserID,
			Amount:       m.Amount,
			Type:         entity.PointType(m.Type),
			Description:  m.Description,
			BalanceAfter: m.BalanceAfter,
			CreatedAt:    m.CreatedAt,
		})
	}
	return points, nil
}

// SumByUser returns the ledger sum for a user
func (r *PointRepository) SumByUser(ctx context.Context, userID uint64) (int64, error) {
	var sum int64
	result := r.db.WithContext(ctx).Model(&model.Point{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum)
	if result.Error != nil {
		return 0, fmt.Errorf("%w: %s", errs.ErrInternalServer, result.Error.Error())
	}
	return sum, nil
}

// ReferralRepository implements persistence.ReferralRepository using GORM
type ReferralRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewReferralRepository creates a new ReferralRepository instance
func NewReferralRepository(db *gorm.DB, logger coreport.Logger) *ReferralRepository {
	return &ReferralRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// Create persists a referral link; referred_id is unique
func (r *ReferralRepository) Create(ctx context.Context, referral *entity.Referral) error {
	referralModel := model.Referral{
		ReferrerID:   referral.ReferrerID,
		ReferredID:   referral.ReferredID,
		RewardPoints: referral.RewardPoints,
		CreatedAt:    referral.CreatedAt,
	}

	result := r.db.WithContext(ctx).Create(&referralModel)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			return errs.ErrConflict
		}
		r.logger.Error("Database error when creating referral", map[string]any{
			"referrer_id": referral.ReferrerID,
			"error":       result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrInternalServer, result.Error.Error())
	}

	referral.ID = referralModel.ID
	return nil
}

// ListByReferrer returns the referrals a user has brought in
func (r *ReferralRepository) ListByReferrer(ctx context.Context, referrerID uint64) ([]*entity.Referral, error) {
	var models []model.Referral
	result := r.db.WithContext(ctx).
		Where("referrer_id = ?", referrerID).
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrInternalServer, result.Error.Error())
	}

	referrals := make([]*entity.Referral, 0, len(models))
	for i := range models {
		m := &models[i]
		referrals = append(referrals, &entity.Referral{
			ID:           m.ID,
			ReferrerID:   m.ReferrerID,
			ReferredID:   m.ReferredID,
			RewardPoints: m.RewardPoints,
			CreatedAt:    m.CreatedAt,
		})
	}
	return referrals, nil
}

// WithdrawalRepository implements persistence.WithdrawalRepository using GORM
type WithdrawalRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewWithdrawalRepository creates a new WithdrawalRepository instance
func NewWithdrawalRepository(db *gorm.DB, logger coreport.Logger) *WithdrawalRepository {
	return &WithdrawalRepository{db: db, logger: logger}
}

func withdrawalModelToEntity(m *model.PointWithdrawal) *entity.PointWithdrawal {
	return &entity.PointWithdrawal{
		ID:          m.ID,
		UserID:      m.UserID,
		Amount:      m.Amount,
		Method:      m.Method,
		AccountInfo: m.AccountInfo,
		Status:      entity.WithdrawalStatus(m.Status),
		AdminID:     m.AdminID,
		AdminNotes:  m.AdminNotes,
		CreatedAt:   m.CreatedAt,
		DecidedAt:   m.DecidedAt,
	}
}

// Create persists a new pending withdrawal
func (r *WithdrawalRepository) Create(ctx context.Context, withdrawal *entity.PointWithdrawal) error {
	withdrawalModel := model.PointWithdrawal{
		UserID:      withdrawal.UserID,
		Amount:      withdrawal.Amount,
		Method:      withdrawal.Method,
		AccountInfo: withdrawal.AccountInfo,
		Status:      string(withdrawal.Status),
		CreatedAt:   withdrawal.CreatedAt,
	}

	result := r.db.WithContext(ctx).Create(&withdrawalModel)
	if result.Error != nil {
		r.logger.Error("Database error when creating withdrawal", map[string]any{
			"user_id": withdrawal.UserID,
			"error":   result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrInternalServer, result.Error.Error())
	}

	withdrawal.ID = withdrawalModel.ID
	return nil
}

// GetByID retrieves a withdrawal by ID
func (r *WithdrawalRepository) GetByID(ctx context.Context, id uint64) (*entity.PointWithdrawal, error) {
	var withdrawalModel model.PointWithdrawal
	result := r.db.WithContext(ctx).First(&withdrawalModel, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrWithdrawalNotFound
		}
		return nil, fmt.Errorf("%w: %s", errs.ErrInternalServer, result.Error.Error())
	}
	return withdrawalModelToEntity(&withdrawalModel), nil
}

// ListByUser returns a user's withdrawals, newest first
func (r *WithdrawalRepository) ListByUser(ctx context.Context, userID uint64) ([]*entity.PointWithdrawal, error) {
	var models []model.PointWithdrawal
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrInternalServer, result.Error.Error())
	}

	withdrawals := make([]*entity.PointWithdrawal, 0, len(models))
	for i := range models {
		withdrawals = append(withdrawals, withdrawalModelToEntity(&models[i]))
	}
	return withdrawals, nil
}

// ListByStatus returns withdrawals in a given status for the admin console
func (r *WithdrawalRepository) ListByStatus(ctx context.Context, status string, limit int) ([]*entity.PointWithdrawal, error) {
	db := r.db.WithContext(ctx).Model(&model.PointWithdrawal{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if limit > 0 {
		db = db.Limit(limit)
	}

	var models []model.PointWithdrawal
	result := db.Order("created_at DESC").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrInternalServer, result.Error.Error())
	}

	withdrawals := make([]*entity.PointWithdrawal, 0, len(models))
	for i := range models {
		withdrawals = append(withdrawals, withdrawalModelToEntity(&models[i]))
	}
	return withdrawals, nil
}

// Decide persists an approve/reject transition guarded on status = pending
func (r *WithdrawalRepository) Decide(ctx context.Context, withdrawal *entity.PointWithdrawal) error {
	result := r.db.WithContext(ctx).Model(&model.PointWithdrawal{}).
		Where("id = ? AND status = ?", withdrawal.ID, string(entity.WithdrawalPending)).
		Updates(map[string]interface{}{
			"status":      string(withdrawal.Status),
			"admin_id":    withdrawal.AdminID,
			"admin_notes": withdrawal.AdminNotes,
			"decided_at":  withdrawal.DecidedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("%w: %s", errs.ErrInternalServer, result.Error.Error())
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&model.PointWithdrawal{}).
			Where("id = ?", withdrawal.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("%w: %s", errs.ErrInternalServer, err.Error())
		}
		if count == 0 {
			return errs.ErrWithdrawalNotFound
		}

		r.logger.Warn("Withdrawal decision lost the race", map[string]any{
			"withdrawal_id": withdrawal.ID,
		})
		return errs.ErrInvalidState
	}

	return nil
}
