package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rajayush01/JobBoard/internal/delivery/http/response"
	"github.com/rajayush01/JobBoard/pkg/logger"
	"github.com/rajayush01/JobBoard/pkg/redis"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for the fixed-window rate limiter
// guarding the auth endpoints.
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Key prefix for Redis
	KeyPrefix string
}

// rateLimitEntry tracks request count for a key (in-memory fallback)
type rateLimitEntry struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

var (
	rateLimitStore sync.Map
	cleanupOnce    sync.Once
)

// Atomic increment with TTL set on first hit.
// KEYS[1] = counter key, ARGV[1] = TTL in seconds
// Returns: [current_count, ttl_remaining]
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

// startCleanup runs a background goroutine that periodically drops expired
// fallback entries. Keys are per-client-IP on unauthenticated endpoints, so
// the store must not grow for the life of the process.
func startCleanup() {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		for range ticker.C {
			evictExpired(time.Now())
		}
	}()
}

// evictExpired removes every fallback entry whose window has passed.
func evictExpired(now time.Time) {
	rateLimitStore.Range(func(key, value interface{}) bool {
		entry := value.(*rateLimitEntry)
		entry.mu.Lock()
		if now.After(entry.resetAt) {
			rateLimitStore.Delete(key)
		}
		entry.mu.Unlock()
		return true
	})
}

// RateLimit returns a per-IP fixed-window limiter. Counters live in Redis
// when it is configured, with an in-memory fallback otherwise, so a missing
// Redis never takes the endpoint down.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	// Start the fallback store cleanup once, no matter how many limiters exist
	cleanupOnce.Do(startCleanup)

	if cfg.Limit <= 0 {
		cfg.Limit = 10
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "rl:ip:"
	}

	return func(c *gin.Context) {
		key := cfg.KeyPrefix + c.ClientIP()

		var count int
		var resetAt time.Time

		if client := redis.Client(); client != nil {
			redisCount, ttl, err := incrementRedis(c.Request.Context(), client, key, cfg.Window)
			if err != nil {
				// Redis hiccup: fall back to memory rather than rejecting
				logger.Log.Warn("Rate limiter falling back to memory", "error", err)
				count, resetAt = incrementMemory(key, cfg.Window)
			} else {
				count = redisCount
				resetAt = time.Now().Add(ttl)
			}
		} else {
			count, resetAt = incrementMemory(key, cfg.Window)
		}

		remaining := cfg.Limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if count > cfg.Limit {
			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			response.Error(c, http.StatusTooManyRequests, "Too many requests. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

func incrementRedis(ctx context.Context, client *goredis.Client, key string, window time.Duration) (int, time.Duration, error) {
	result, err := client.Eval(ctx, rateLimitLuaScript, []string{key}, int(window.Seconds())).Result()
	if err != nil {
		return 0, 0, err
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return 0, 0, goredis.Nil
	}
	count, _ := values[0].(int64)
	ttl, _ := values[1].(int64)
	return int(count), time.Duration(ttl) * time.Second, nil
}

func incrementMemory(key string, window time.Duration) (int, time.Time) {
	now := time.Now()
	actual, _ := rateLimitStore.LoadOrStore(key, &rateLimitEntry{resetAt: now.Add(window)})
	entry := actual.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(window)
	}
	entry.count++

	return entry.count, entry.resetAt
}
