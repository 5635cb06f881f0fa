package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/cache"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/config"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/httperror"
)

// RateLimit applies a per-client token bucket refilled at RequestsPerMinute with a burst of the same size.
// A non-positive limit disables it.
func RateLimit(cfg config.HTTPRateLimitConfig) gin.HandlerFunc {
	limit := cfg.RequestsPerMinute
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	limiters := cache.NewTTLCache[string, *rate.Limiter](cfg.CacheSize, ttl)
	every := rate.Every(time.Minute / time.Duration(limit))

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		identity := rateLimitIdentity(c)
		limiter := limiters.GetOrCreate(identity, func() *rate.Limiter {
			return rate.NewLimiter(every, limit)
		})

		if !limiter.Allow() {
			details := map[string]any{
				"path":             c.Request.URL.Path,
				"identity":         identity,
				"limit_per_minute": limit,
			}
			status, payload := httperror.Response(httperror.NewRateLimitExceeded(details), GetRequestID(c))
			c.AbortWithStatusJSON(status, payload)
			return
		}

		c.Next()
	}
}

func rateLimitIdentity(c *gin.Context) string {
	if key := extractAPIKey(c); key != "" {
		return "key:" + hashKey(key)
	}

	if forwarded := strings.TrimSpace(c.GetHeader("X-Forwarded-For")); forwarded != "" {
		if ip, _, _ := strings.Cut(forwarded, ","); strings.TrimSpace(ip) != "" {
			return "ip:" + strings.TrimSpace(ip)
		}
	}

	if ip := c.ClientIP(); ip != "" {
		return "ip:" + ip
	}
	return "ip:unknown"
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:8])
}
