package migration

import (
	"fmt"

	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// Run applies the schema migrations
func Run(db *gorm.DB, logger coreport.Logger) error {
	logger.Info("Running database migrations", nil)

	err := db.AutoMigrate(
		&model.User{},
		&model.DepositRequest{},
		&model.Point{},
		&model.Referral{},
		&model.PointWithdrawal{},
		&model.Product{},
		&model.ExchangeRate{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Database migrations completed", nil)
	return nil
}
