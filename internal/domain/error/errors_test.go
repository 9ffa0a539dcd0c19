package error

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	testCases := []struct {
		err      error
		expected int
	}{
		{ErrInvalidAmount, CodeInvalidAmount},
		{ErrNegativeAmount, CodeInvalidAmount},
		{ErrInvalidChain, CodeInvalidChain},
		{ErrValidation, CodeValidation},
		{ErrInvalidReferralCode, CodeValidation},
		{ErrAuth, CodeAuth},
		{ErrBanned, CodeBanned},
		{ErrForbidden, CodeForbidden},
		{ErrUserNotFound, CodeUserNotFound},
		{ErrDepositNotFound, CodeDepositNotFound},
		{ErrProductNotFound, CodeNotFound},
		{ErrWithdrawalNotFound, CodeNotFound},
		{ErrInvalidState, CodeInvalidState},
		{ErrDuplicateEmail, CodeDuplicateEmail},
		{ErrInsufficientPoints, CodeInsufficientPoints},
		{ErrConflict, CodeConflict},
		{ErrRateLimited, CodeRateLimited},
		{ErrNotConfigured, CodeNotConfigured},
		{ErrInternalServer, CodeInternalServer},
		{errors.New("anything else"), CodeInternalServer},
	}

	for _, tc := range testCases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.expected, ErrorCode(tc.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	testCases := []struct {
		err      error
		expected int
	}{
		{ErrValidation, http.StatusBadRequest},
		{ErrInvalidAmount, http.StatusBadRequest},
		{ErrInsufficientPoints, http.StatusBadRequest},
		{ErrAuth, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrBanned, http.StatusForbidden},
		{ErrUserNotFound, http.StatusNotFound},
		{ErrDepositNotFound, http.StatusNotFound},
		{ErrInvalidState, http.StatusConflict},
		{ErrDuplicateEmail, http.StatusConflict},
		{ErrRateLimited, http.StatusTooManyRequests},
		{ErrNotConfigured, http.StatusServiceUnavailable},
		{ErrInternalServer, http.StatusInternalServerError},
		{errors.New("anything else"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.expected, HTTPStatus(tc.err))
		})
	}
}

func TestWrappedErrorsKeepTheirCode(t *testing.T) {
	wrapped := fmt.Errorf("creating deposit: %w", ErrNotConfigured)

	assert.Equal(t, CodeNotConfigured, ErrorCode(wrapped))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(wrapped))
}

func TestDepositStateError(t *testing.T) {
	err := NewDepositStateError(42, "approved", "rejected")

	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, CodeInvalidState, ErrorCode(err))
	assert.Contains(t, err.Error(), "42")
	assert.Contains(t, err.Error(), "approved")

	var stateErr *DepositStateError
	assert.ErrorAs(t, err, &stateErr)
	assert.Equal(t, uint64(42), stateErr.DepositID)

	fields := stateErr.LogFields()
	assert.Equal(t, uint64(42), fields["deposit_id"])
	assert.Equal(t, CodeInvalidState, fields["error_code"])
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("amount_usdt", "must be greater than zero")

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, CodeValidation, ErrorCode(err))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
	assert.Contains(t, err.Error(), "amount_usdt")
}

func TestInsufficientPointsError(t *testing.T) {
	err := NewInsufficientPointsError(7, 300, 100)

	assert.ErrorIs(t, err, ErrInsufficientPoints)
	assert.Equal(t, CodeInsufficientPoints, ErrorCode(err))
	assert.Contains(t, err.Error(), "requested 300")
	assert.Contains(t, err.Error(), "available 100")
}

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(ErrUserNotFound))
	assert.True(t, IsNotFoundError(ErrDepositNotFound))
	assert.True(t, IsNotFoundError(ErrProductNotFound))
	assert.True(t, IsNotFoundError(ErrWithdrawalNotFound))
	assert.False(t, IsNotFoundError(ErrConflict))
	assert.False(t, IsNotFoundError(nil))
}
