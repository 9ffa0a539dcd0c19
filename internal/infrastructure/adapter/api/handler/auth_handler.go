package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainerr "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
	"github.com/joycoin-platform/joycoin-backend/internal/domain/usecase/auth"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/api/dto"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/api/middleware"
)

// AuthHandler handles signup, login and account endpoints
type AuthHandler struct {
	authService *auth.Service
	logger      coreport.Logger
}

// NewAuthHandler creates a new auth handler instance
func NewAuthHandler(authService *auth.Service, logger coreport.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domainerr.NewValidationError("body", err.Error()))
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), auth.SignupRequest{
		Email:         req.Email,
		Password:      req.Password,
		Username:      req.Username,
		WalletAddress: req.WalletAddress,
		ReferralCode:  req.ReferralCode,
		SectorID:      req.SectorID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SignupResponse{
		UserID:       result.UserID,
		ReferralCode: result.ReferralCode,
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domainerr.NewValidationError("body", err.Error()))
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
	})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		respondError(c, domainerr.ErrAuth)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// ChangePassword handles POST /auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domainerr.NewValidationError("body", err.Error()))
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(),
		middleware.CurrentUserID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
