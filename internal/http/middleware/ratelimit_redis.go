package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"

	"chess_backend/internal/logger"
)

var redisClient *redis.Client

// InitRedisRateLimiter connects the shared Redis client used by the
// limiters. If addr is empty or the ping fails the client stays nil and
// every limiter fails open, keeping the API available without Redis.
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		return
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, rate limiting disabled", "addr", addr, "error", err)
		return
	}
	redisClient = client
}

// RedisRateLimit is a fixed-window per-IP limiter over Redis
// INCR/EXPIRE. Key format: rl:<window_seconds>:<ip>.
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + c.ClientIP()
		if !allow(c, key, maxRequests, window) {
			return
		}
		c.Next()
	}
}

// MoveRateLimit throttles move submissions per game and caller, so one
// busy game cannot eat a client's whole API budget.
func MoveRateLimit(maxMoves int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		key := "move_rl:" + c.Param("id") + ":" + c.ClientIP()
		if !allow(c, key, maxMoves, window) {
			return
		}
		c.Next()
	}
}

func allow(c *gin.Context, key string, max int, window time.Duration) bool {
	ctx := context.Background()

	val, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		// fail open, flag it for the caller
		c.Header("X-RateLimit-Error", "redis-error")
		return true
	}
	if val == 1 {
		redisClient.Expire(ctx, key, window)
	}

	if val > int64(max) {
		RLBlocked.WithLabelValues(c.FullPath()).Inc()
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return false
	}

	RLRequests.WithLabelValues(c.FullPath()).Inc()
	return true
}
