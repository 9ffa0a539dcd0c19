package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
)

// Limiter throttles per-user actions with a fixed window counter in Redis.
// When Redis is unreachable the limiter fails open: throttling is a
// protection, not a correctness requirement, and deposits must keep working
// through a cache outage.
type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger coreport.Logger
}

// NewLimiter creates a fixed-window limiter
func NewLimiter(client *redis.Client, limit int, window time.Duration, logger coreport.Logger) *Limiter {
	return &Limiter{
		client: client,
		limit:  limit,
		window: window,
		logger: logger,
	}
}

// ConnectRedis creates and pings a Redis client
func ConnectRedis(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return rdb, nil
}

// Allow reports whether the action is within the user's window budget
func (l *Limiter) Allow(ctx context.Context, action string, userID uint64) bool {
	if l.client == nil {
		return true
	}

	key := fmt.Sprintf("ratelimit:%s:%d", action, userID)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("Rate limit check failed, allowing request", map[string]any{
			"action": action,
			"error":  err.Error(),
		})
		return true
	}

	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn("Failed to set rate limit expiry", map[string]any{
				"key":   key,
				"error": err.Error(),
			})
		}
	}

	return count <= int64(l.limit)
}
