package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joycoin-platform/joycoin-backend/internal/domain/entity"
	domainerr "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
	"github.com/joycoin-platform/joycoin-backend/internal/domain/usecase/catalog"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/api/dto"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/api/middleware"
)

// CatalogHandler handles product catalog and exchange-rate endpoints
type CatalogHandler struct {
	catalogService *catalog.Service
	addresses      map[entity.Chain]string
	logger         coreport.Logger
}

// NewCatalogHandler creates a new catalog handler instance
func NewCatalogHandler(catalogService *catalog.Service, addresses map[entity.Chain]string, logger coreport.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		addresses:      addresses,
		logger:         logger,
	}
}

// ListProducts handles GET /products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.catalogService.ListPublic(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponses(products))
}

// ActiveRate handles GET /rate
func (h *CatalogHandler) ActiveRate(c *gin.Context) {
	rate, err := h.catalogService.ActiveRate(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRateResponse(rate))
}

// ListAllProducts handles GET /admin/products
func (h *CatalogHandler) ListAllProducts(c *gin.Context) {
	products, err := h.catalogService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponses(products))
}

// CreateProduct handles POST /admin/products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domainerr.NewValidationError("body", err.Error()))
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), toProductInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(product))
}

// UpdateProduct handles PUT /admin/products/:id
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domainerr.NewValidationError("body", err.Error()))
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), productID, toProductInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

// DeactivateProduct handles DELETE /admin/products/:id
func (h *CatalogHandler) DeactivateProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.catalogService.DeactivateProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

// SetRate handles PUT /admin/settings/rate
func (h *CatalogHandler) SetRate(c *gin.Context) {
	var req dto.SetRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domainerr.NewValidationError("body", err.Error()))
		return
	}

	rate, err := h.catalogService.SetRate(c.Request.Context(), middleware.CurrentUserID(c), catalog.RateInput{
		JoyPerUSDT:          req.JoyPerUSDT,
		JoyToKRW:            req.JoyToKRW,
		USDTToKRW:           req.USDTToKRW,
		ReferralBonusPoints: req.ReferralBonusPoints,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRateResponse(rate))
}

// Settings handles GET /admin/settings
func (h *CatalogHandler) Settings(c *gin.Context) {
	resp := dto.SettingsResponse{
		DepositAddresses: make(map[string]string, len(h.addresses)),
	}
	for chain, address := range h.addresses {
		resp.DepositAddresses[string(chain)] = address
	}

	rate, err := h.catalogService.ActiveRate(c.Request.Context())
	switch {
	case err == nil:
		rateResp := toRateResponse(rate)
		resp.ExchangeRate = &rateResp
	case domainerr.IsNotConfiguredError(err):
		// no rate yet, still show the rest of the settings
	default:
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func toProductInput(req dto.ProductRequest) catalog.ProductInput {
	return catalog.ProductInput{
		Name:         req.Name,
		JoyAmount:    req.JoyAmount,
		PriceUSDT:    req.PriceUSDT,
		PriceKRW:     req.PriceKRW,
		DiscountRate: req.DiscountRate,
		SortOrder:    req.SortOrder,
		IsActive:     req.IsActive,
	}
}

func toRateResponse(rate *entity.ExchangeRate) dto.RateResponse {
	return dto.RateResponse{
		JoyPerUSDT:          entity.CentsToString(rate.JoyPerUSDT),
		JoyToKRW:            entity.CentsToString(rate.JoyToKRW),
		USDTToKRW:           entity.CentsToString(rate.USDTToKRW),
		ReferralBonusPoints: rate.ReferralBonusPoints,
		UpdatedAt:           formatTime(rate.CreatedAt),
	}
}
