package entity

import (
	"strings"
	"time"

	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
)

// Product is a purchasable JOY package shown in the catalog
type Product struct {
	ID           uint64
	Name         string
	JoyAmount    int64
	PriceUSDT    int64 // cents
	PriceKRW     int64 // cents
	DiscountRate int64 // basis points, 0..10000
	SortOrder    int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewProduct creates an active catalog entry
func NewProduct(name string, joyAmount, priceUSDT, priceKRW, discountRate int64, sortOrder int, timeProvider coreport.TimeProvider) (*Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errs.NewValidationError("name", "product name is required")
	}
	if joyAmount <= 0 {
		return nil, errs.NewValidationError("joy_amount", "must be greater than zero")
	}
	if priceUSDT <= 0 {
		return nil, errs.NewValidationError("price_usdt", "must be greater than zero")
	}
	if priceKRW < 0 {
		return nil, errs.NewValidationError("price_krw", "cannot be negative")
	}
	if discountRate < 0 || discountRate > 10000 {
		return nil, errs.NewValidationError("discount_rate", "must be between 0 and 10000 basis points")
	}

	now := timeProvider.Now()
	return &Product{
		Name:         strings.TrimSpace(name),
		JoyAmount:    joyAmount,
		PriceUSDT:    priceUSDT,
		PriceKRW:     priceKRW,
		DiscountRate: discountRate,
		SortOrder:    sortOrder,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Deactivate hides the product from the public catalog without deleting it
func (p *Product) Deactivate(timeProvider coreport.TimeProvider) {
	p.IsActive = false
	p.UpdatedAt = timeProvider.Now()
}
