package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joycoin-platform/joycoin-backend/internal/domain/entity"
	domainerr "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/api/dto"
)

func respondError(c *gin.Context, err error) {
	c.JSON(domainerr.HTTPStatus(err), dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: err.Error(),
	})
}

func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, domainerr.NewValidationError(name, "must be a positive integer"))
		return 0, false
	}
	return id, true
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func toUserResponse(user *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		Username:      user.Username,
		Role:          string(user.Role),
		WalletAddress: user.WalletAddress,
		ReferralCode:  user.ReferralCode,
		SectorID:      user.SectorID,
		TotalJoy:      user.TotalJoy,
		TotalPoints:   user.TotalPoints,
		IsBanned:      user.IsBanned,
		CreatedAt:     formatTime(user.CreatedAt),
	}
}

func toDepositResponse(d *entity.DepositRequest) dto.DepositResponse {
	resp := dto.DepositResponse{
		ID:              d.ID,
		UserID:          d.UserID,
		ProductID:       d.ProductID,
		Chain:           string(d.Chain),
		AssignedAddress: d.AssignedAddress,
		AmountUSDT:      entity.CentsToString(d.ExpectedAmount),
		RateJoyPerUSDT:  entity.CentsToString(d.RateJoyPerUSDT),
		JoyAmount:       d.JoyAmount,
		CreditedJoy:     d.CreditedJoy,
		Status:          string(d.Status),
		AdminNotes:      d.AdminNotes,
		CreatedAt:       formatTime(d.CreatedAt),
		UpdatedAt:       formatTime(d.UpdatedAt),
	}
	if d.ActualAmount != nil {
		actual := entity.CentsToString(*d.ActualAmount)
		resp.ActualAmount = &actual
	}
	return resp
}

func toDepositResponses(deposits []*entity.DepositRequest) []dto.DepositResponse {
	responses := make([]dto.DepositResponse, 0, len(deposits))
	for _, d := range deposits {
		responses = append(responses, toDepositResponse(d))
	}
	return responses
}

func toWithdrawalResponse(w *entity.PointWithdrawal) dto.WithdrawalResponse {
	resp := dto.WithdrawalResponse{
		ID:          w.ID,
		UserID:      w.UserID,
		Amount:      w.Amount,
		Method:      w.Method,
		AccountInfo: w.AccountInfo,
		Status:      string(w.Status),
		AdminNotes:  w.AdminNotes,
		CreatedAt:   formatTime(w.CreatedAt),
	}
	if w.DecidedAt != nil {
		resp.DecidedAt = formatTime(*w.DecidedAt)
	}
	return resp
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		JoyAmount:    p.JoyAmount,
		PriceUSDT:    entity.CentsToString(p.PriceUSDT),
		PriceKRW:     entity.CentsToString(p.PriceKRW),
		DiscountRate: p.DiscountRate,
		SortOrder:    p.SortOrder,
		IsActive:     p.IsActive,
	}
}

func toProductResponses(products []*entity.Product) []dto.ProductResponse {
	responses := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, toProductResponse(p))
	}
	return responses
}
