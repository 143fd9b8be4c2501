// Package ratelimit provides a Redis-backed fixed-window rate limiter for the
// public chat endpoint.
package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"novaestudio_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const msgTooManyRequests = "Demasiadas solicitudes. Espera un minuto y prueba otra vez."

// Limiter counts requests per key inside a fixed window. State lives in
// Redis so the limit holds across instances and restarts.
type Limiter struct {
	rdb    redis.UniversalClient
	window time.Duration
	max    int
	log    *logger.Logger
}

// New creates a limiter allowing max requests per window.
func New(rdb redis.UniversalClient, window time.Duration, max int, log *logger.Logger) *Limiter {
	return &Limiter{
		rdb:    rdb,
		window: window,
		max:    max,
		log:    log,
	}
}

// Allow reports whether the key may proceed. The first request in a window
// starts its expiry clock. Redis outages fail open: rejecting real visitors
// over a cache hiccup costs more than a few extra requests.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("ratelimit:chat:%s", key)

	count, err := l.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		return true, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return true, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return count <= int64(l.max), nil
}

// Middleware enforces the limit per client IP on the routes it wraps.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		allowed, err := l.Allow(c.Request.Context(), ip)
		if err != nil && l.log != nil {
			l.log.Error("rate limiter unavailable", "error", err)
		}
		if !allowed {
			if l.log != nil {
				l.log.RateLimitExceeded(ip, c.Request.URL.Path)
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": msgTooManyRequests})
			return
		}

		c.Next()
	}
}
