package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/completion"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/config"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/logging"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/metrics"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/middleware"
)

// NewRouter builds the gin engine. /chat stays open for the browser client; /api requires the API key.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	chatHandler *ChatHandler,
	prober completion.Prober,
	store *metrics.Store,
	gatherer prometheus.Gatherer,
) *gin.Engine {
	logger = logging.OrDiscard(logger)
	setGinMode(cfg.Logging.Level)

	router := gin.New()
	router.ContextWithFallback = true

	if cfg.Telemetry.Enabled {
		router.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
		logger.Info("otel_http_middleware_enabled", "service", cfg.Telemetry.ServiceName)
	}
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
		cors.New(newCORSConfig(cfg.HTTP.CORSAllowOrigins)),
	)
	if cfg.HTTP.GzipEnabled {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	}

	RegisterHealthRoutes(router, cfg, prober, store, gatherer)

	api := router.Group("/api",
		middleware.APIKeyAuth(cfg.HTTPAuth),
		middleware.RateLimit(cfg.HTTPRateLimit),
	)
	chatHandler.RegisterRoutes(router, api)

	return router
}

func newCORSConfig(origins []string) cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-API-Key", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
		return corsConfig
	}
	corsConfig.AllowOrigins = origins
	return corsConfig
}

func setGinMode(level string) {
	if strings.EqualFold(strings.TrimSpace(level), "debug") {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}
