package persistence

import (
	"context"

	"github.com/joycoin-platform/joycoin-backend/internal/domain/entity"
)

// ProductRepository defines methods to interact with the catalog
type ProductRepository interface {
	// Create persists a new product
	Create(ctx context.Context, product *entity.Product) error

	// Update persists mutated product fields
	Update(ctx context.Context, product *entity.Product) error

	// GetByID retrieves a product by ID
	//
	// Possible errors:
	// - ErrProductNotFound: if no product with the ID exists
	GetByID(ctx context.Context, id uint64) (*entity.Product, error)

	// ListActive returns active products ordered by sort_order
	ListActive(ctx context.Context) ([]*entity.Product, error)

	// ListAll returns every product for the admin console
	ListAll(ctx context.Context) ([]*entity.Product, error)
}

// ExchangeRateRepository defines methods to interact with the rate log
type ExchangeRateRepository interface {
	// GetActive returns the latest active rate row
	//
	// Possible errors:
	// - ErrNotConfigured: if no active rate exists
	GetActive(ctx context.Context) (*entity.ExchangeRate, error)

	// Insert appends a new active row and deactivates the previous one in a
	// single transaction; old rows are kept for audit
	Insert(ctx context.Context, rate *entity.ExchangeRate) error
}
