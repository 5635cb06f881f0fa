package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/completion"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/config"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/health"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/metrics"
)

// RegisterHealthRoutes mounts the probe routes, the counter snapshot and /metrics.
func RegisterHealthRoutes(
	router gin.IRoutes,
	cfg *config.Config,
	prober completion.Prober,
	store *metrics.Store,
	gatherer prometheus.Gatherer,
) {
	router.GET("/health", func(c *gin.Context) {
		// Liveness stays shallow so a slow backend never restarts the process.
		c.JSON(http.StatusOK, health.Collect(c.Request.Context(), cfg, prober, false))
	})

	router.GET("/health/ready", func(c *gin.Context) {
		payload := health.Collect(c.Request.Context(), cfg, prober, true)
		status := http.StatusOK
		if payload.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, payload)
	})

	router.GET("/health/stats", func(c *gin.Context) {
		if store == nil {
			c.JSON(http.StatusOK, map[string]float64{})
			return
		}
		c.JSON(http.StatusOK, store.Snapshot())
	})

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}
