package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/joycoin-platform/joycoin-backend/internal/domain/entity"
	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
	"github.com/joycoin-platform/joycoin-backend/internal/domain/usecase/adminops"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/api/dto"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/api/middleware"
)

// AdminHandler handles user management and the dashboard
type AdminHandler struct {
	adminService *adminops.Service
	logger       coreport.Logger
}

// NewAdminHandler creates a new admin handler instance
func NewAdminHandler(adminService *adminops.Service, logger coreport.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// ListUsers handles GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	users, err := h.adminService.ListUsers(c.Request.Context(), c.Query("q"), c.Query("role"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, toUserResponse(u))
	}
	c.JSON(http.StatusOK, responses)
}

// GetUser handles GET /admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.adminService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// Ban handles POST /admin/users/:id/ban
func (h *AdminHandler) Ban(c *gin.Context) {
	h.mutateUser(c, h.adminService.Ban)
}

// Unban handles POST /admin/users/:id/unban
func (h *AdminHandler) Unban(c *gin.Context) {
	h.mutateUser(c, h.adminService.Unban)
}

// Promote handles POST /admin/users/:id/promote
func (h *AdminHandler) Promote(c *gin.Context) {
	h.mutateUser(c, h.adminService.Promote)
}

// Demote handles POST /admin/users/:id/demote
func (h *AdminHandler) Demote(c *gin.Context) {
	h.mutateUser(c, h.adminService.Demote)
}

// DemoteSectorManager handles POST /admin/users/:id/demote-sector-manager
func (h *AdminHandler) DemoteSectorManager(c *gin.Context) {
	h.mutateUser(c, h.adminService.DemoteSectorManager)
}

// Stats handles GET /admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	sectors := make([]dto.SectorStatResponse, 0, len(stats.Deposits.Sectors))
	for _, sector := range stats.Deposits.Sectors {
		sectors = append(sectors, dto.SectorStatResponse{
			SectorID:      sector.SectorID,
			ApprovedCount: sector.ApprovedCount,
			ApprovedUSDT:  entity.CentsToString(sector.ApprovedUSDT),
		})
	}

	c.JSON(http.StatusOK, dto.PlatformStatsResponse{
		TotalUsers: stats.TotalUsers,
		Deposits: dto.DepositStatsResponse{
			PendingCount:      stats.Deposits.PendingCount,
			ApprovedCount:     stats.Deposits.ApprovedCount,
			RejectedCount:     stats.Deposits.RejectedCount,
			TotalApprovedUSDT: entity.CentsToString(stats.Deposits.TotalApprovedUSDT),
			Sectors:           sectors,
		},
	})
}

type userMutation func(ctx context.Context, adminID, userID uint64) (*entity.User, error)

func (h *AdminHandler) mutateUser(c *gin.Context, mutate userMutation) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := mutate(c.Request.Context(), middleware.CurrentUserID(c), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}
