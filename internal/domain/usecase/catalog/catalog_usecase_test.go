package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joycoin-platform/joycoin-backend/internal/domain/entity"
	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/logger"
	"github.com/joycoin-platform/joycoin-backend/internal/testutil"
)

func newCatalogService(t *testing.T) (*Service, *testutil.ProductRepo, *testutil.RateRepo) {
	t.Helper()
	products := testutil.NewProductRepo()
	rates := testutil.NewRateRepo()
	svc := NewService(products, rates, testutil.NewFixedClock(), logger.NewNoopLogger())
	return svc, products, rates
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Parses prices to cents", func(t *testing.T) {
		svc, _, _ := newCatalogService(t)

		product, err := svc.CreateProduct(ctx, ProductInput{
			Name:      "Starter Pack",
			JoyAmount: 1000,
			PriceUSDT: "10.00",
			PriceKRW:  "13500.00",
			SortOrder: 1,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1000), product.PriceUSDT)
		assert.Equal(t, int64(1350000), product.PriceKRW)
		assert.True(t, product.IsActive)
	})

	t.Run("KRW price is optional", func(t *testing.T) {
		svc, _, _ := newCatalogService(t)

		product, err := svc.CreateProduct(ctx, ProductInput{
			Name: "Pack", JoyAmount: 1000, PriceUSDT: "10.00",
		})

		require.NoError(t, err)
		assert.Zero(t, product.PriceKRW)
	})

	t.Run("Malformed price", func(t *testing.T) {
		svc, _, _ := newCatalogService(t)

		_, err := svc.CreateProduct(ctx, ProductInput{
			Name: "Pack", JoyAmount: 1000, PriceUSDT: "ten",
		})
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, svc *Service) *entity.Product {
		t.Helper()
		product, err := svc.CreateProduct(ctx, ProductInput{
			Name: "Pack", JoyAmount: 1000, PriceUSDT: "10.00", SortOrder: 1,
		})
		require.NoError(t, err)
		return product
	}

	t.Run("Zero-value fields stay unchanged", func(t *testing.T) {
		svc, _, _ := newCatalogService(t)
		product := seed(t, svc)

		updated, err := svc.UpdateProduct(ctx, product.ID, ProductInput{
			PriceUSDT: "12.50",
		})

		require.NoError(t, err)
		assert.Equal(t, "Pack", updated.Name)
		assert.Equal(t, int64(1000), updated.JoyAmount)
		assert.Equal(t, int64(1250), updated.PriceUSDT)
	})

	t.Run("Explicit active flag", func(t *testing.T) {
		svc, products, _ := newCatalogService(t)
		product := seed(t, svc)

		inactive := false
		_, err := svc.UpdateProduct(ctx, product.ID, ProductInput{IsActive: &inactive})
		require.NoError(t, err)

		active, err := products.ListActive(ctx)
		require.NoError(t, err)
		assert.Empty(t, active)
	})

	t.Run("Unknown product", func(t *testing.T) {
		svc, _, _ := newCatalogService(t)

		_, err := svc.UpdateProduct(ctx, 404, ProductInput{Name: "X"})
		assert.ErrorIs(t, err, errs.ErrProductNotFound)
	})
}

func TestDeactivateProduct(t *testing.T) {
	ctx := context.Background()
	svc, products, _ := newCatalogService(t)

	product, err := svc.CreateProduct(ctx, ProductInput{
		Name: "Pack", JoyAmount: 1000, PriceUSDT: "10.00",
	})
	require.NoError(t, err)

	deactivated, err := svc.DeactivateProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	// still visible to the admin console
	all, err := products.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	active, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestListPublicOrdering(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newCatalogService(t)

	for _, p := range []struct {
		name  string
		order int
	}{
		{"Third", 3},
		{"First", 1},
		{"Second", 2},
	} {
		_, err := svc.CreateProduct(ctx, ProductInput{
			Name: p.name, JoyAmount: 1000, PriceUSDT: "10.00", SortOrder: p.order,
		})
		require.NoError(t, err)
	}

	active, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, active, 3)
	assert.Equal(t, "First", active[0].Name)
	assert.Equal(t, "Second", active[1].Name)
	assert.Equal(t, "Third", active[2].Name)
}

func TestSetRate(t *testing.T) {
	ctx := context.Background()

	t.Run("No rate configured yet", func(t *testing.T) {
		svc, _, _ := newCatalogService(t)

		_, err := svc.ActiveRate(ctx)
		assert.ErrorIs(t, err, errs.ErrNotConfigured)
	})

	t.Run("New rate replaces the active row", func(t *testing.T) {
		svc, _, _ := newCatalogService(t)

		first, err := svc.SetRate(ctx, 9, RateInput{JoyPerUSDT: "100.00"})
		require.NoError(t, err)

		second, err := svc.SetRate(ctx, 9, RateInput{
			JoyPerUSDT:          "120.00",
			ReferralBonusPoints: 300,
		})
		require.NoError(t, err)

		active, err := svc.ActiveRate(ctx)
		require.NoError(t, err)
		assert.Equal(t, second.ID, active.ID)
		assert.Equal(t, int64(12000), active.JoyPerUSDT)
		assert.Equal(t, int64(300), active.ReferralBonusPoints)
		assert.NotEqual(t, first.ID, active.ID)
	})

	t.Run("Zero bonus sticks", func(t *testing.T) {
		svc, _, _ := newCatalogService(t)

		_, err := svc.SetRate(ctx, 9, RateInput{JoyPerUSDT: "100.00", ReferralBonusPoints: 0})
		require.NoError(t, err)

		active, err := svc.ActiveRate(ctx)
		require.NoError(t, err)
		assert.Zero(t, active.ReferralBonusPoints)
	})

	t.Run("Malformed rate", func(t *testing.T) {
		svc, _, _ := newCatalogService(t)

		_, err := svc.SetRate(ctx, 9, RateInput{JoyPerUSDT: "-1"})
		assert.ErrorIs(t, err, errs.ErrNegativeAmount)
	})
}
