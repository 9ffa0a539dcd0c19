package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/joycoin-platform/joycoin-backend/internal/domain/entity"
	domainerr "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
	"github.com/joycoin-platform/joycoin-backend/internal/domain/port/persistence"
	"github.com/joycoin-platform/joycoin-backend/internal/domain/usecase/auth"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/api/dto"
)

// Context keys set by the auth middleware
const (
	UserIDKey = "user_id"
	UserKey   = "current_user"
)

// Authenticated verifies the bearer token, loads the account and rejects
// banned users. Role checks come from the user row, not the token claim, so
// a demotion takes effect immediately.
func Authenticated(tokens *auth.TokenManager, users persistence.UserRepository, logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			abortWithError(c, domainerr.ErrAuth, "Missing or malformed authorization header")
			return
		}

		userID, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			abortWithError(c, domainerr.ErrAuth, "Invalid or expired token")
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if domainerr.IsNotFoundError(err) {
				abortWithError(c, domainerr.ErrAuth, "Invalid or expired token")
				return
			}
			logger.Error("Failed to load authenticated user", map[string]any{
				"user_id": userID,
				"error":   err.Error(),
			})
			abortWithError(c, domainerr.ErrInternalServer, "Internal server error")
			return
		}

		if user.IsBanned {
			abortWithError(c, domainerr.ErrBanned, "Account is banned")
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(UserKey, user)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles. Admins pass every gate.
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortWithError(c, domainerr.ErrAuth, "Authentication required")
			return
		}

		if user.IsAdmin() {
			c.Next()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		abortWithError(c, domainerr.ErrForbidden, "Insufficient privileges")
	}
}

// CurrentUser returns the authenticated account, or nil outside auth routes
func CurrentUser(c *gin.Context) *entity.User {
	value, exists := c.Get(UserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*entity.User)
	if !ok {
		return nil
	}
	return user
}

// CurrentUserID returns the authenticated user's ID, or zero
func CurrentUserID(c *gin.Context) uint64 {
	return c.GetUint64(UserIDKey)
}

func abortWithError(c *gin.Context, err error, message string) {
	c.AbortWithStatusJSON(domainerr.HTTPStatus(err), dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: message,
	})
}
