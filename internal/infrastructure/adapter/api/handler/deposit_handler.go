package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/joycoin-platform/joycoin-backend/internal/domain/entity"
	domainerr "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
	"github.com/joycoin-platform/joycoin-backend/internal/domain/port/persistence"
	"github.com/joycoin-platform/joycoin-backend/internal/domain/usecase/deposit"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/api/dto"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/api/middleware"
)

// DepositHandler handles deposit request endpoints
type DepositHandler struct {
	depositService *deposit.Service
	logger         coreport.Logger
}

// NewDepositHandler creates a new deposit handler instance
func NewDepositHandler(depositService *deposit.Service, logger coreport.Logger) *DepositHandler {
	return &DepositHandler{
		depositService: depositService,
		logger:         logger,
	}
}

// Create handles POST /deposits
func (h *DepositHandler) Create(c *gin.Context) {
	var req dto.CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domainerr.NewValidationError("body", err.Error()))
		return
	}

	created, err := h.depositService.Create(c.Request.Context(), deposit.CreateRequest{
		UserID:     middleware.CurrentUserID(c),
		Chain:      req.Chain,
		AmountUSDT: req.AmountUSDT,
		ProductID:  req.ProductID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toDepositResponse(created))
}

// ListMine handles GET /deposits
func (h *DepositHandler) ListMine(c *gin.Context) {
	deposits, err := h.depositService.ListMine(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDepositResponses(deposits))
}

// Get handles GET /deposits/:id
func (h *DepositHandler) Get(c *gin.Context) {
	depositID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	isStaff := user != nil && user.Role != entity.RoleUser

	found, err := h.depositService.Get(c.Request.Context(), depositID, middleware.CurrentUserID(c), isStaff)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDepositResponse(found))
}

// Notifications handles GET /deposits/notifications
func (h *DepositHandler) Notifications(c *gin.Context) {
	notifications, err := h.depositService.Notifications(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, dto.NotificationResponse{
			DepositID:  n.DepositID,
			Status:     string(n.Status),
			AmountUSDT: entity.CentsToString(n.AmountUSDT),
			JoyAmount:  n.JoyAmount,
			DecidedAt:  n.DecidedAt,
		})
	}
	c.JSON(http.StatusOK, responses)
}

// ListAll handles GET /admin/deposits
func (h *DepositHandler) ListAll(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	deposits, err := h.depositService.ListAll(c.Request.Context(), persistence.DepositFilter{
		Status: c.Query("status"),
		Query:  c.Query("q"),
		Limit:  limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDepositResponses(deposits))
}

// Approve handles POST /admin/deposits/:id/approve
func (h *DepositHandler) Approve(c *gin.Context) {
	depositID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.DecideDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domainerr.NewValidationError("body", err.Error()))
		return
	}

	approved, err := h.depositService.Approve(c.Request.Context(), deposit.DecideRequest{
		DepositID:    depositID,
		AdminID:      middleware.CurrentUserID(c),
		ActualAmount: req.ActualAmount,
		AdminNotes:   req.AdminNotes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDepositResponse(approved))
}

// Reject handles POST /admin/deposits/:id/reject
func (h *DepositHandler) Reject(c *gin.Context) {
	depositID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.DecideDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domainerr.NewValidationError("body", err.Error()))
		return
	}

	rejected, err := h.depositService.Reject(c.Request.Context(), deposit.DecideRequest{
		DepositID:  depositID,
		AdminID:    middleware.CurrentUserID(c),
		AdminNotes: req.AdminNotes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDepositResponse(rejected))
}
