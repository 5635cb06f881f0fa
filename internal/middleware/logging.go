package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/httperror"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/logging"
)

// RequestLogger logs one http_request line per request. Successful probe and scrape requests are skipped.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	logger = logging.OrDiscard(logger)

	return func(c *gin.Context) {
		startedAt := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path

		defer func() {
			status := c.Writer.Status()
			if status < http.StatusBadRequest && len(c.Errors) == 0 && isNoisyPath(path) {
				return
			}

			fields := []any{
				"request_id", GetRequestID(c),
				"method", method,
				"path", path,
				"route", c.FullPath(),
				"status", status,
				"latency", time.Since(startedAt),
				"bytes", c.Writer.Size(),
			}
			if len(c.Errors) > 0 {
				fields = append(fields, "errors", c.Errors.String())
			}

			switch {
			case status >= http.StatusInternalServerError:
				logger.Error("http_request", fields...)
			case status >= http.StatusBadRequest:
				logger.Warn("http_request", fields...)
			default:
				logger.Info("http_request", fields...)
			}
		}()

		c.Next()
	}
}

// Recovery turns a panic into a 500 error body carrying the panic description.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	logger = logging.OrDiscard(logger)

	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		message := fmt.Sprint(recovered)
		logger.Error("http_panic_recovered",
			"request_id", GetRequestID(c),
			"path", c.Request.URL.Path,
			"panic", message,
		)
		status, payload := httperror.Response(httperror.NewInternalError(message), GetRequestID(c))
		c.AbortWithStatusJSON(status, payload)
	})
}

func isNoisyPath(path string) bool {
	switch path {
	case "/health", "/health/ready", "/metrics":
		return true
	default:
		return false
	}
}
