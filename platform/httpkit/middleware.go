// Package httpkit provides HTTP middleware infrastructure.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"
	"sync"
	"time"

	"novaestudio_backend/platform/config"
	"novaestudio_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

// RequestLogger logs HTTP requests with timing.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		clientIP := c.ClientIP()

		log.HTTPRequest(c.Request.Method, path, status, float64(latency.Milliseconds()), clientIP)
	}
}

// SecurityHeaders adds security headers to responses.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// IPRateLimiter manages per-IP token-bucket limiters. It is the in-process
// fallback used when no Redis-backed limiter is configured.
type IPRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
	log      *logger.Logger
}

// NewIPRateLimiter creates a new IP-based rate limiter.
func NewIPRateLimiter(r rate.Limit, burst int, log *logger.Logger) *IPRateLimiter {
	return &IPRateLimiter{
		rate:  r,
		burst: burst,
		log:   log,
	}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	limiter, exists := i.limiters.Load(ip)
	if !exists {
		newLimiter := rate.NewLimiter(i.rate, i.burst)
		i.limiters.Store(ip, newLimiter)
		return newLimiter
	}
	return limiter.(*rate.Limiter)
}

// Allow reports whether the given IP may proceed.
func (i *IPRateLimiter) Allow(ip string) bool {
	return i.getLimiter(ip).Allow()
}

// RateLimit returns a middleware that rate limits by IP.
func (i *IPRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !i.Allow(ip) {
			if i.log != nil {
				i.log.RateLimitExceeded(ip, c.Request.URL.Path)
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Demasiadas solicitudes. Espera un minuto y prueba otra vez.",
			})
			return
		}

		c.Next()
	}
}

const adminRealm = `Basic realm="NovaEstudioWeb Admin"`

// AdminAuth returns middleware enforcing HTTP basic auth for the admin surface.
// The configured password is a bcrypt hash; a missing configuration rejects
// every request rather than failing open.
func AdminAuth(cfg config.AdminConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := cfg.GetAdminBasicUser()
		passHash := cfg.GetAdminBasicPassHash()
		if user == "" || passHash == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "admin auth no configurada"})
			return
		}

		givenUser, givenPass, ok := parseBasicAuth(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", adminRealm)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "auth requerida"})
			return
		}

		userMatch := subtle.ConstantTimeCompare([]byte(givenUser), []byte(user)) == 1
		passMatch := bcrypt.CompareHashAndPassword([]byte(passHash), []byte(givenPass)) == nil
		if !userMatch || !passMatch {
			c.Header("WWW-Authenticate", adminRealm)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "credenciales invalidas"})
			return
		}

		c.Next()
	}
}

func parseBasicAuth(header string) (user, pass string, ok bool) {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(strings.TrimPrefix(header, prefix)))
	if err != nil {
		return "", "", false
	}
	user, pass, found := strings.Cut(string(decoded), ":")
	if !found {
		return "", "", false
	}
	return user, pass, true
}
