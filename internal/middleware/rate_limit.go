package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pageza/swipe-suggest/backend/internal/logger"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// Limiter decides whether the caller identified by key may proceed.
// Returns: allowed, remaining requests, reset time, error
type Limiter interface {
	IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error)
	Config() RateLimitConfig
}

// RedisLimiter is a fixed-window limiter shared by every replica.
type RedisLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	now    func() time.Time
}

// NewRedisLimiter creates a new rate limiter instance
func NewRedisLimiter(redisClient *redis.Client, config RateLimitConfig) *RedisLimiter {
	return &RedisLimiter{
		redis:  redisClient,
		config: config,
		now:    time.Now,
	}
}

func (rl *RedisLimiter) Config() RateLimitConfig { return rl.config }

// IsAllowed counts a request from key in the current window.
func (rl *RedisLimiter) IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error) {
	windowStart := rl.now().Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	resetTime := windowStart.Add(rl.config.Window)
	return count <= rl.config.Limit, remaining, resetTime, nil
}

// LocalLimiter is an in-process token bucket per key, used when no Redis is
// configured.
type LocalLimiter struct {
	config RateLimitConfig

	mu       sync.Mutex
	limiters map[string]*localEntry
	now      func() time.Time
}

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const localSweepThreshold = 10000

// NewLocalLimiter creates a token bucket limiter refilling Limit tokens per Window.
func NewLocalLimiter(config RateLimitConfig) *LocalLimiter {
	return &LocalLimiter{
		config:   config,
		limiters: make(map[string]*localEntry),
		now:      time.Now,
	}
}

func (l *LocalLimiter) Config() RateLimitConfig { return l.config }

// IsAllowed takes one token from key's bucket.
func (l *LocalLimiter) IsAllowed(_ context.Context, key string) (bool, int, time.Time, error) {
	now := l.now()

	l.mu.Lock()
	entry, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= localSweepThreshold {
			l.sweep(now)
		}
		every := l.config.Window / time.Duration(l.config.Limit)
		entry = &localEntry{limiter: rate.NewLimiter(rate.Every(every), l.config.Limit)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now
	l.mu.Unlock()

	allowed := entry.limiter.AllowN(now, 1)
	tokens := entry.limiter.TokensAt(now)
	remaining := int(math.Floor(tokens))
	if remaining < 0 {
		remaining = 0
	}

	// time until the bucket is full again
	missing := float64(l.config.Limit) - tokens
	reset := now
	if missing > 0 {
		reset = now.Add(time.Duration(missing / float64(entry.limiter.Limit()) * float64(time.Second)))
	}
	return allowed, remaining, reset, nil
}

// sweep drops buckets idle for longer than a window. Callers hold l.mu.
func (l *LocalLimiter) sweep(now time.Time) {
	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > l.config.Window {
			delete(l.limiters, key)
		}
	}
}

// RateLimit returns a Gin middleware keyed by client IP. A nil limiter
// disables limiting.
func RateLimit(limiter Limiter) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	cfg := limiter.Config()
	log := logger.Named("ratelimit")

	return func(c *gin.Context) {
		allowed, remaining, resetTime, err := limiter.IsAllowed(c.Request.Context(), c.ClientIP())
		if err != nil {
			// fail open
			log.Warn("rate limit check failed", zap.Error(err))
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			retryAfter := int(math.Ceil(time.Until(resetTime).Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"message":     fmt.Sprintf("You have exceeded the rate limit of %d requests per %v", cfg.Limit, cfg.Window),
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}

// NewLimiter picks the Redis limiter when a client is given and the local
// one otherwise. A non-positive limit disables limiting and returns nil.
func NewLimiter(redisClient *redis.Client, limit int, window time.Duration) Limiter {
	if limit <= 0 {
		return nil
	}
	cfg := RateLimitConfig{
		Window:    window,
		Limit:     limit,
		KeyPrefix: "rate_limit:suggestions",
	}
	if redisClient != nil {
		return NewRedisLimiter(redisClient, cfg)
	}
	return NewLocalLimiter(cfg)
}
