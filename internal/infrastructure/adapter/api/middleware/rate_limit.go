package middleware

import (
	"github.com/gin-gonic/gin"

	domainerr "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/ratelimit"
)

// RateLimit throttles an action per authenticated user. Must run after
// Authenticated so the user ID is available.
func RateLimit(limiter *ratelimit.Limiter, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		if userID == 0 {
			c.Next()
			return
		}

		if !limiter.Allow(c.Request.Context(), action, userID) {
			abortWithError(c, domainerr.ErrRateLimited, "Too many requests, slow down")
			return
		}

		c.Next()
	}
}
