package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainerr "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
	"github.com/joycoin-platform/joycoin-backend/internal/domain/usecase/points"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/api/dto"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/api/middleware"
)

// PointsHandler handles point balance, referral and withdrawal endpoints
type PointsHandler struct {
	pointsService *points.Service
	logger        coreport.Logger
}

// NewPointsHandler creates a new points handler instance
func NewPointsHandler(pointsService *points.Service, logger coreport.Logger) *PointsHandler {
	return &PointsHandler{
		pointsService: pointsService,
		logger:        logger,
	}
}

// Balance handles GET /points
func (h *PointsHandler) Balance(c *gin.Context) {
	balance, err := h.pointsService.Balance(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	entries := make([]dto.PointResponse, 0, len(balance.Entries))
	for _, p := range balance.Entries {
		entries = append(entries, dto.PointResponse{
			ID:           p.ID,
			Amount:       p.Amount,
			Type:         string(p.Type),
			Description:  p.Description,
			BalanceAfter: p.BalanceAfter,
			CreatedAt:    formatTime(p.CreatedAt),
		})
	}
	c.JSON(http.StatusOK, dto.PointBalanceResponse{
		TotalPoints: balance.TotalPoints,
		Entries:     entries,
	})
}

// Referrals handles GET /points/referrals
func (h *PointsHandler) Referrals(c *gin.Context) {
	referrals, err := h.pointsService.Referrals(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]dto.ReferralResponse, 0, len(referrals))
	for _, r := range referrals {
		responses = append(responses, dto.ReferralResponse{
			ID:           r.ID,
			ReferredID:   r.ReferredID,
			RewardPoints: r.RewardPoints,
			CreatedAt:    formatTime(r.CreatedAt),
		})
	}
	c.JSON(http.StatusOK, responses)
}

// RequestWithdrawal handles POST /points/withdrawals
func (h *PointsHandler) RequestWithdrawal(c *gin.Context) {
	var req dto.CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domainerr.NewValidationError("body", err.Error()))
		return
	}

	withdrawal, err := h.pointsService.RequestWithdrawal(c.Request.Context(),
		middleware.CurrentUserID(c), req.Amount, req.Method, req.AccountInfo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toWithdrawalResponse(withdrawal))
}

// ListWithdrawals handles GET /points/withdrawals
func (h *PointsHandler) ListWithdrawals(c *gin.Context) {
	withdrawals, err := h.pointsService.ListWithdrawals(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]dto.WithdrawalResponse, 0, len(withdrawals))
	for _, w := range withdrawals {
		responses = append(responses, toWithdrawalResponse(w))
	}
	c.JSON(http.StatusOK, responses)
}

// ListAllWithdrawals handles GET /admin/withdrawals
func (h *PointsHandler) ListAllWithdrawals(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	withdrawals, err := h.pointsService.ListWithdrawalsByStatus(c.Request.Context(), c.Query("status"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]dto.WithdrawalResponse, 0, len(withdrawals))
	for _, w := range withdrawals {
		responses = append(responses, toWithdrawalResponse(w))
	}
	c.JSON(http.StatusOK, responses)
}

// ApproveWithdrawal handles POST /admin/withdrawals/:id/approve
func (h *PointsHandler) ApproveWithdrawal(c *gin.Context) {
	withdrawalID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.DecideWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domainerr.NewValidationError("body", err.Error()))
		return
	}

	withdrawal, err := h.pointsService.ApproveWithdrawal(c.Request.Context(),
		withdrawalID, middleware.CurrentUserID(c), req.AdminNotes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWithdrawalResponse(withdrawal))
}

// RejectWithdrawal handles POST /admin/withdrawals/:id/reject
func (h *PointsHandler) RejectWithdrawal(c *gin.Context) {
	withdrawalID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.DecideWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domainerr.NewValidationError("body", err.Error()))
		return
	}

	withdrawal, err := h.pointsService.RejectWithdrawal(c.Request.Context(),
		withdrawalID, middleware.CurrentUserID(c), req.AdminNotes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWithdrawalResponse(withdrawal))
}

// AwardPoints handles POST /admin/users/:id/points
func (h *PointsHandler) AwardPoints(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AwardPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domainerr.NewValidationError("body", err.Error()))
		return
	}

	updated, err := h.pointsService.Award(c.Request.Context(),
		middleware.CurrentUserID(c), userID, req.Amount, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(updated))
}

// Reconcile handles GET /admin/users/:id/points/reconcile
func (h *PointsHandler) Reconcile(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.pointsService.Reconcile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":      result.UserID,
		"ledger_sum":   result.LedgerSum,
		"total_points": result.TotalPoints,
		"consistent":   result.Consistent,
	})
}
