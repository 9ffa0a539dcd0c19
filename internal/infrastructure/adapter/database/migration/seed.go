package migration

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/joycoin-platform/joycoin-backend/internal/domain/entity"
	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
	"github.com/joycoin-platform/joycoin-backend/internal/domain/port/persistence"
	appconfig "github.com/joycoin-platform/joycoin-backend/internal/infrastructure/config"
)

// starter catalog created on an empty products table
var defaultProducts = []struct {
	Name      string
	JoyAmount int64
	PriceUSDT int64 // cents
	SortOrder int
}{
	{"Starter Pack", 1_000, 10_00, 1},
	{"Value Pack", 5_500, 50_00, 2},
	{"Premium Pack", 12_000, 100_00, 3},
}

// Seed creates the initial admin account, the default exchange rate and the
// starter catalog. Every step is idempotent; reruns on a populated database
// change nothing.
func Seed(
	ctx context.Context,
	users persistence.UserRepository,
	rates persistence.ExchangeRateRepository,
	products persistence.ProductRepository,
	cfg *appconfig.AdminConfig,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) error {
	if err := seedAdmin(ctx, users, cfg, timeProvider, logger); err != nil {
		return err
	}
	if err := seedExchangeRate(ctx, rates, timeProvider, logger); err != nil {
		return err
	}
	return seedProducts(ctx, products, timeProvider, logger)
}

func seedAdmin(
	ctx context.Context,
	users persistence.UserRepository,
	cfg *appconfig.AdminConfig,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) error {
	if cfg.Email == "" || cfg.Password == "" {
		logger.Warn("Admin seed skipped; set JOY_ADMIN_EMAIL and JOY_ADMIN_PASSWORD", nil)
		return nil
	}

	existing, err := users.GetByEmail(ctx, cfg.Email)
	if err == nil {
		// The configured account must stay an admin even if someone demoted
		// the row between restarts.
		if existing.Role == entity.RoleAdmin {
			return nil
		}
		existing.Role = entity.RoleAdmin
		existing.UpdatedAt = timeProvider.Now()
		if err := users.Update(ctx, existing); err != nil {
			return err
		}
		logger.Warn("Admin account role restored", map[string]any{"email": cfg.Email})
		return nil
	}
	if !errors.Is(err, errs.ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin, err := entity.NewUser(cfg.Email, string(hash), cfg.Username, timeProvider)
	if err != nil {
		return err
	}
	admin.Role = entity.RoleAdmin

	if err := users.Create(ctx, admin); err != nil {
		return err
	}

	logger.Info("Admin account seeded", map[string]any{"email": cfg.Email})
	return nil
}

func seedExchangeRate(
	ctx context.Context,
	rates persistence.ExchangeRateRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) error {
	_, err := rates.GetActive(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, errs.ErrNotConfigured) {
		return err
	}

	// 100 JOY per USDT until an admin configures the real rate
	rate, err := entity.NewExchangeRate(100_00, 0, 0, entity.DefaultReferralBonusPoints, 0, timeProvider)
	if err != nil {
		return err
	}
	rate.UpdatedBy = nil

	if err := rates.Insert(ctx, rate); err != nil {
		return err
	}

	logger.Info("Default exchange rate seeded", map[string]any{
		"joy_per_usdt": entity.CentsToString(rate.JoyPerUSDT),
	})
	return nil
}

func seedProducts(
	ctx context.Context,
	products persistence.ProductRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) error {
	existing, err := products.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, p := range defaultProducts {
		product, err := entity.NewProduct(p.Name, p.JoyAmount, p.PriceUSDT, 0, 0, p.SortOrder, timeProvider)
		if err != nil {
			return err
		}
		if err := products.Create(ctx, product); err != nil {
			return err
		}
	}

	logger.Info("Starter catalog seeded", map[string]any{"count": len(defaultProducts)})
	return nil
}
