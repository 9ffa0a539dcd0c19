package catalog

import (
	"context"

	"github.com/joycoin-platform/joycoin-backend/internal/domain/entity"
	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
	"github.com/joycoin-platform/joycoin-backend/internal/domain/port/persistence"
)

// ProductInput carries validated product create/update fields. Prices arrive
// as decimal strings and are stored as cents.
type ProductInput struct {
	Name         string
	JoyAmount    int64
	PriceUSDT    string
	PriceKRW     string
	DiscountRate int64 // basis points
	SortOrder    int
	IsActive     *bool // update only; nil leaves the flag unchanged
}

// RateInput carries a new exchange-rate configuration
type RateInput struct {
	JoyPerUSDT          string // decimal string
	JoyToKRW            string
	USDTToKRW           string
	ReferralBonusPoints int64
}

// Service handles the product catalog and exchange-rate configuration
type Service struct {
	products     persistence.ProductRepository
	rates        persistence.ExchangeRateRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates the catalog service
func NewService(
	products persistence.ProductRepository,
	rates persistence.ExchangeRateRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		products:     products,
		rates:        rates,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// ListPublic returns active products ordered by sort_order
func (s *Service) ListPublic(ctx context.Context) ([]*entity.Product, error) {
	return s.products.ListActive(ctx)
}

// ListAll returns every product for the admin console
func (s *Service) ListAll(ctx context.Context) ([]*entity.Product, error) {
	return s.products.ListAll(ctx)
}

// CreateProduct adds a catalog entry
func (s *Service) CreateProduct(ctx context.Context, input ProductInput) (*entity.Product, error) {
	priceUSDT, err := entity.ParseAmount(input.PriceUSDT)
	if err != nil {
		return nil, err
	}
	priceKRW, err := parseOptionalAmount(input.PriceKRW)
	if err != nil {
		return nil, err
	}

	product, err := entity.NewProduct(input.Name, input.JoyAmount, priceUSDT, priceKRW,
		input.DiscountRate, input.SortOrder, s.timeProvider)
	if err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product created", map[string]any{
		"product_id": product.ID,
		"name":       product.Name,
		"joy_amount": product.JoyAmount,
	})
	return product, nil
}

// UpdateProduct mutates an existing catalog entry. Zero-value fields in the
// input are treated as "leave unchanged" except the explicit IsActive flag.
func (s *Service) UpdateProduct(ctx context.Context, productID uint64, input ProductInput) (*entity.Product, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		product.Name = input.Name
	}
	if input.JoyAmount > 0 {
		product.JoyAmount = input.JoyAmount
	}
	if input.PriceUSDT != "" {
		priceUSDT, err := entity.ParseAmount(input.PriceUSDT)
		if err != nil {
			return nil, err
		}
		product.PriceUSDT = priceUSDT
	}
	if input.PriceKRW != "" {
		priceKRW, err := entity.ParseAmount(input.PriceKRW)
		if err != nil {
			return nil, err
		}
		product.PriceKRW = priceKRW
	}
	if input.DiscountRate < 0 || input.DiscountRate > 10000 {
		return nil, errs.NewValidationError("discount_rate", "must be between 0 and 10000 basis points")
	}
	if input.DiscountRate > 0 {
		product.DiscountRate = input.DiscountRate
	}
	if input.SortOrder != 0 {
		product.SortOrder = input.SortOrder
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	product.UpdatedAt = s.timeProvider.Now()

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product updated", map[string]any{"product_id": product.ID})
	return product, nil
}

// DeactivateProduct hides a product from the public catalog
func (s *Service) DeactivateProduct(ctx context.Context, productID uint64) (*entity.Product, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	product.Deactivate(s.timeProvider)
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product deactivated", map[string]any{"product_id": product.ID})
	return product, nil
}

// ActiveRate returns the rate row currently in force
//
// Possible errors:
// - ErrNotConfigured: if no rate has been set yet
func (s *Service) ActiveRate(ctx context.Context) (*entity.ExchangeRate, error) {
	return s.rates.GetActive(ctx)
}

// SetRate appends a new active rate row and deactivates the previous one.
// Rows are never updated in place; existing deposits keep their creation-time
// snapshot regardless.
func (s *Service) SetRate(ctx context.Context, adminID uint64, input RateInput) (*entity.ExchangeRate, error) {
	joyPerUSDT, err := entity.ParseAmount(input.JoyPerUSDT)
	if err != nil {
		return nil, err
	}
	joyToKRW, err := parseOptionalAmount(input.JoyToKRW)
	if err != nil {
		return nil, err
	}
	usdtToKRW, err := parseOptionalAmount(input.USDTToKRW)
	if err != nil {
		return nil, err
	}

	rate, err := entity.NewExchangeRate(joyPerUSDT, joyToKRW, usdtToKRW,
		input.ReferralBonusPoints, adminID, s.timeProvider)
	if err != nil {
		return nil, err
	}

	if err := s.rates.Insert(ctx, rate); err != nil {
		return nil, err
	}

	s.logger.Info("Exchange rate updated", map[string]any{
		"rate_id":      rate.ID,
		"joy_per_usdt": entity.CentsToString(rate.JoyPerUSDT),
		"admin_id":     adminID,
	})
	return rate, nil
}

func parseOptionalAmount(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	return entity.ParseAmount(value)
}
