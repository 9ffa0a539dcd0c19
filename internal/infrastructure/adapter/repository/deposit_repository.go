package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/joycoin-platform/joycoin-backend/internal/domain/entity"
	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
	"github.com/joycoin-platform/joycoin-backend/internal/domain/port/persistence"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// DepositRepository implements persistence.DepositRepository using GORM
type DepositRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewDepositRepository creates a new DepositRepository instance
func NewDepositRepository(db *gorm.DB, logger coreport.Logger) *DepositRepository {
	return &DepositRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func depositModelToEntity(m *model.DepositRequest) *entity.DepositRequest {
	return &entity.DepositRequest{
		ID:              m.ID,
		UserID:          m.UserID,
		ProductID:       m.ProductID,
		Chain:           entity.Chain(m.Chain),
		AssignedAddress: m.AssignedAddress,
		ExpectedAmount:  m.ExpectedAmount,
		RateJoyPerUSDT:  m.RateJoyPerUSDT,
		JoyAmount:       m.JoyAmount,
		ActualAmount:    m.ActualAmount,
		CreditedJoy:     m.CreditedJoy,
		Status:          entity.DepositStatus(m.Status),
		AdminID:         m.AdminID,
		AdminNotes:      m.AdminNotes,
		ApprovedAt:      m.ApprovedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func depositEntityToModel(d *entity.DepositRequest) *model.DepositRequest {
	return &model.DepositRequest{
		ID:              d.ID,
		UserID:          d.UserID,
		ProductID:       d.ProductID,
		Chain:           string(d.Chain),
		AssignedAddress: d.AssignedAddress,
		ExpectedAmount:  d.ExpectedAmount,
		RateJoyPerUSDT:  d.RateJoyPerUSDT,
		JoyAmount:       d.JoyAmount,
		ActualAmount:    d.ActualAmount,
		CreditedJoy:     d.CreditedJoy,
		Status:          string(d.Status),
		AdminID:         d.AdminID,
		AdminNotes:      d.AdminNotes,
		ApprovedAt:      d.ApprovedAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func (r *DepositRepository) handleDatabaseError(operation string, err error) error {
	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"error": err.Error(),
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrDepositNotFound
	}
	if r.errorClassifier.IsConnectionError(err) {
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}
	return fmt.Errorf("%w: %s", errs.ErrInternalServer, err.Error())
}

// Create persists a new pending deposit request
func (r *DepositRepository) Create(ctx context.Context, deposit *entity.DepositRequest) error {
	depositModel := depositEntityToModel(deposit)

	result := r.db.WithContext(ctx).Create(depositModel)
	if result.Error != nil {
		return r.handleDatabaseError("creating deposit request", result.Error)
	}

	deposit.ID = depositModel.ID
	return nil
}

// GetByID retrieves a deposit request by ID
func (r *DepositRepository) GetByID(ctx context.Context, id uint64) (*entity.DepositRequest, error) {
	var depositModel model.DepositRequest
	result := r.db.WithContext(ctx).First(&depositModel, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrDepositNotFound
		}
		return nil, r.handleDatabaseError("getting deposit request", result.Error)
	}
	return depositModelToEntity(&depositModel), nil
}

// ListByUser returns a user's requests, newest first
func (r *DepositRepository) ListByUser(ctx context.Context, userID uint64) ([]*entity.DepositRequest, error) {
	var models []model.DepositRequest
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, r.handleDatabaseError("listing deposit requests", result.Error)
	}

	deposits := make([]*entity.DepositRequest, 0, len(models))
	for i := range models {
		deposits = append(deposits, depositModelToEntity(&models[i]))
	}
	return deposits, nil
}

// List returns requests matching the filter for the admin console
func (r *DepositRepository) List(ctx context.Context, filter persistence.DepositFilter) ([]*entity.DepositRequest, error) {
	db := r.db.WithContext(ctx).Model(&model.DepositRequest{})

	if filter.Status != "" {
		db = db.Where("deposit_requests.status = ?", filter.Status)
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		db = db.Joins("JOIN users ON users.id = deposit_requests.user_id").
			Where("users.email ILIKE ? OR users.username ILIKE ?", pattern, pattern)
	}
	if filter.Limit > 0 {
		db = db.Limit(filter.Limit)
	}

	var models []model.DepositRequest
	result := db.Order("deposit_requests.created_at DESC").Find(&models)
	if result.Error != nil {
		return nil, r.handleDatabaseError("listing deposit requests", result.Error)
	}

	deposits := make([]*entity.DepositRequest, 0, len(models))
	for i := range models {
		deposits = append(deposits, depositModelToEntity(&models[i]))
	}
	return deposits, nil
}

// Decide persists an approve/reject transition. The update is conditional on
// the row still being pending, so exactly one of two concurrent decisions
// wins; the loser observes zero affected rows.
func (r *DepositRepository) Decide(ctx context.Context, deposit *entity.DepositRequest) error {
	result := r.db.WithContext(ctx).Model(&model.DepositRequest{}).
		Where("id = ? AND status = ?", deposit.ID, string(entity.DepositPending)).
		Updates(map[string]interface{}{
			"status":        string(deposit.Status),
			"actual_amount": deposit.ActualAmount,
			"credited_joy":  deposit.CreditedJoy,
			"admin_id":      deposit.AdminID,
			"admin_notes":   deposit.AdminNotes,
			"approved_at":   deposit.ApprovedAt,
			"updated_at":    deposit.UpdatedAt,
		})

	if result.Error != nil {
		return r.handleDatabaseError("deciding deposit request", result.Error)
	}

	if result.RowsAffected == 0 {
		// Distinguish a missing row from one already decided
		var count int64
		if err := r.db.WithContext(ctx).Model(&model.DepositRequest{}).
			Where("id = ?", deposit.ID).Count(&count).Error; err != nil {
			return r.handleDatabaseError("checking deposit request", err)
		}
		if count == 0 {
			return errs.ErrDepositNotFound
		}

		r.logger.Warn("Deposit decision lost the race", map[string]any{
			"deposit_id": deposit.ID,
		})
		return errs.NewDepositStateError(deposit.ID, "decided", string(deposit.Status))
	}

	return nil
}

// Stats computes the admin dashboard aggregates
func (r *DepositRepository) Stats(ctx context.Context) (*persistence.DepositStats, error) {
	stats := &persistence.DepositStats{}

	type statusRow struct {
		Status string
		Count  int64
		Total  int64
	}
	var rows []statusRow
	result := r.db.WithContext(ctx).Model(&model.DepositRequest{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(COALESCE(actual_amount, expected_amount)), 0) AS total").
		Group("status").
		Scan(&rows)
	if result.Error != nil {
		return nil, r.handleDatabaseError("computing deposit stats", result.Error)
	}

	for _, row := range rows {
		switch entity.DepositStatus(row.Status) {
		case entity.DepositPending:
			stats.PendingCount = row.Count
		case entity.DepositApproved:
			stats.ApprovedCount = row.Count
			stats.TotalApprovedUSDT = row.Total
		case entity.DepositRejected:
			stats.RejectedCount = row.Count
		}
	}

	type sectorRow struct {
		SectorID *uint64
		Count    int64
		Total    int64
	}
	var sectors []sectorRow
	result = r.db.WithContext(ctx).Model(&model.DepositRequest{}).
		Select("users.sector_id AS sector_id, COUNT(*) AS count, COALESCE(SUM(COALESCE(actual_amount, expected_amount)), 0) AS total").
		Joins("JOIN users ON users.id = deposit_requests.user_id").
		Where("deposit_requests.status = ?", string(entity.DepositApproved)).
		Group("users.sector_id").
		Scan(&sectors)
	if result.Error != nil {
		return nil, r.handleDatabaseError("computing sector stats", result.Error)
	}

	for _, row := range sectors {
		stats.Sectors = append(stats.Sectors, persistence.SectorStat{
			SectorID:      row.SectorID,
			ApprovedCount: row.Count,
			ApprovedUSDT:  row.Total,
		})
	}

	return stats, nil
}
