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

// ProductRepository implements persistence.ProductRepository using GORM
type ProductRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewProductRepository creates a new ProductRepository instance
func NewProductRepository(db *gorm.DB, logger coreport.Logger) *ProductRepository {
	return &ProductRepository{db: db, logger: logger}
}

func productModelToEntity(m *model.Product) *entity.Product {
	return &entity.Product{
		ID:           m.ID,
		Name:         m.Name,
		JoyAmount:    m.JoyAmount,
		PriceUSDT:    m.PriceUSDT,
		PriceKRW:     m.PriceKRW,
		DiscountRate: m.DiscountRate,
		SortOrder:    m.SortOrder,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// Create persists a new product
func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) error {
	productModel := model.Product{
		Name:         product.Name,
		JoyAmount:    product.JoyAmount,
		PriceUSDT:    product.PriceUSDT,
		PriceKRW:     product.PriceKRW,
		DiscountRate: product.DiscountRate,
		SortOrder:    product.SortOrder,
		IsActive:     product.IsActive,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}

	result := r.db.WithContext(ctx).Create(&productModel)
	if result.Error != nil {
		r.logger.Error("Database error when creating product", map[string]any{
			"name":  product.Name,
			"error": result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrInternalServer, result.Error.Error())
	}

	product.ID = productModel.ID
	return nil
}

// Update persists mutated product fields
func (r *ProductRepository) Update(ctx context.Context, product *entity.Product) error {
	result := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":          product.Name,
			"joy_amount":    product.JoyAmount,
			"price_usdt":    product.PriceUSDT,
			"price_krw":     product.PriceKRW,
			"discount_rate": product.DiscountRate,
			"sort_order":    product.SortOrder,
			"is_active":     product.IsActive,
			"updated_at":    product.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("%w: %s", errs.ErrInternalServer, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errs.ErrProductNotFound
	}
	return nil
}

// GetByID retrieves a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id uint64) (*entity.Product, error) {
	var productModel model.Product
	result := r.db.WithContext(ctx).First(&productModel, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: %s", errs.ErrInternalServer, result.Error.Error())
	}
	return productModelToEntity(&productModel), nil
}

// ListActive returns active products ordered by sort_order
func (r *ProductRepository) ListActive(ctx context.Context) ([]*entity.Product, error) {
	var models []model.Product
	result := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrInternalServer, result.Error.Error())
	}

	products := make([]*entity.Product, 0, len(models))
	for i := range models {
		products = append(products, productModelToEntity(&models[i]))
	}
	return products, nil
}

// ListAll returns every product for the admin console
func (r *ProductRepository) ListAll(ctx context.Context) ([]*entity.Product, error) {
	var models []model.Product
	result := r.db.WithContext(ctx).
		Order("sort_order ASC, id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrInternalServer, result.Error.Error())
	}

	products := make([]*entity.Product, 0, len(models))
	for i := range models {
		products = append(products, productModelToEntity(&models[i]))
	}
	return products, nil
}

// ExchangeRateRepository implements persistence.ExchangeRateRepository using GORM
type ExchangeRateRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewExchangeRateRepository creates a new ExchangeRateRepository instance
func NewExchangeRateRepository(db *gorm.DB, logger coreport.Logger) *ExchangeRateRepository {
	return &ExchangeRateRepository{db: db, logger: logger}
}

func rateModelToEntity(m *model.ExchangeRate) *entity.ExchangeRate {
	return &entity.ExchangeRate{
		ID:                  m.ID,
		JoyToKRW:            m.JoyToKRW,
		USDTToKRW:           m.USDTToKRW,
		JoyPerUSDT:          m.JoyPerUSDT,
		ReferralBonusPoints: m.ReferralBonusPoints,
		IsActive:            m.IsActive,
		UpdatedBy:           m.UpdatedBy,
		CreatedAt:           m.CreatedAt,
	}
}

// GetActive returns the latest active rate row
func (r *ExchangeRateRepository) GetActive(ctx context.Context) (*entity.ExchangeRate, error) {
	var rateModel model.ExchangeRate
	result := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id DESC").
		First(&rateModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotConfigured
		}
		return nil, fmt.Errorf("%w: %s", errs.ErrInternalServer, result.Error.Error())
	}
	return rateModelToEntity(&rateModel), nil
}

// Insert appends a new active row and deactivates the previous one in a
// single transaction. Old rows are kept for audit.
func (r *ExchangeRateRepository) Insert(ctx context.Context, rate *entity.ExchangeRate) error {
	rateModel := model.ExchangeRate{
		JoyToKRW:            rate.JoyToKRW,
		USDTToKRW:           rate.USDTToKRW,
		JoyPerUSDT:          rate.JoyPerUSDT,
		ReferralBonusPoints: rate.ReferralBonusPoints,
		IsActive:            true,
		UpdatedBy:           rate.UpdatedBy,
		CreatedAt:           rate.CreatedAt,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.ExchangeRate{}).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(&rateModel).Error
	})
	if err != nil {
		r.logger.Error("Database error when inserting exchange rate", map[string]any{
			"error": err.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrInternalServer, err.Error())
	}

	rate.ID = rateModel.ID
	return nil
}
