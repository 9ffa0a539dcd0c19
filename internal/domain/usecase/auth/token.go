package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/joycoin-platform/joycoin-backend/internal/domain/entity"
	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
)

// TokenManager issues and verifies HS256 access tokens
type TokenManager struct {
	secret       []byte
	expiry       time.Duration
	timeProvider coreport.TimeProvider
}

// NewTokenManager creates a token manager with the given signing secret and expiry
func NewTokenManager(secret []byte, expiry time.Duration, timeProvider coreport.TimeProvider) *TokenManager {
	return &TokenManager{
		secret:       secret,
		expiry:       expiry,
		timeProvider: timeProvider,
	}
}

// Issue creates a signed access token for a user
func (m *TokenManager) Issue(user *entity.User) (string, error) {
	now := m.timeProvider.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  strconv.FormatUint(user.ID, 10),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(m.expiry).Unix(),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("%w: failed to sign token: %s", errs.ErrInternalServer, err.Error())
	}
	return signed, nil
}

// Verify parses a token and returns the subject user ID.
// Any parse or signature failure maps to ErrAuth.
func (m *TokenManager) Verify(tokenString string) (uint64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.timeProvider.Now))
	if err != nil || !token.Valid {
		return 0, errs.ErrAuth
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errs.ErrAuth
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, errs.ErrAuth
	}

	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || userID == 0 {
		return 0, errs.ErrAuth
	}

	return userID, nil
}
