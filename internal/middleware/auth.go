package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/config"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/httperror"
)

// APIKeyAuth guards the routes it is mounted on with X-API-Key or a bearer token.
// An empty key disables the check.
func APIKeyAuth(cfg config.HTTPAuthConfig) gin.HandlerFunc {
	expected := strings.TrimSpace(cfg.APIKey)

	return func(c *gin.Context) {
		if expected == "" || c.Request.Method == "OPTIONS" {
			c.Next()
			return
		}

		provided := extractAPIKey(c)
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			details := map[string]any{"path": c.Request.URL.Path}
			status, payload := httperror.Response(httperror.NewUnauthorized(details), GetRequestID(c))
			c.AbortWithStatusJSON(status, payload)
			return
		}

		c.Next()
	}
}

func extractAPIKey(c *gin.Context) string {
	if c == nil {
		return ""
	}

	if value := strings.TrimSpace(c.GetHeader("X-API-Key")); value != "" {
		return value
	}

	authValue := strings.TrimSpace(c.GetHeader("Authorization"))
	const bearer = "bearer "
	if len(authValue) > len(bearer) && strings.EqualFold(authValue[:len(bearer)], bearer) {
		return strings.TrimSpace(authValue[len(bearer):])
	}
	return ""
}
