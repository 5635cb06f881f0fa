package di

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/completion"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/config"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/domain/quiz"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/gemini"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/handler"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/logging"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/metrics"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/ollama"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/telemetry"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/usecase/chat"
)

// ProvideLogger: process logger. With telemetry on, records carry trace_id/span_id.
func ProvideLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if cfg.Telemetry.Enabled {
		logger = logging.WithTrace(logger)
		slog.SetDefault(logger)
	}
	return logger, nil
}

// ProvideTelemetry: tracer provider (no-op when disabled).
func ProvideTelemetry(ctx context.Context, cfg *config.Config) (*telemetry.Provider, error) {
	provider, err := telemetry.NewProvider(ctx, cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}
	return provider, nil
}

// ProvideRegistry: Prometheus registry with the runtime collectors and the metrics store.
func ProvideRegistry(store *metrics.Store) (*prometheus.Registry, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := store.Register(registry); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	return registry, nil
}

// ProvideCompleter: the configured backend behind the timeout and metrics wrapper.
func ProvideCompleter(
	ctx context.Context,
	cfg *config.Config,
	store *metrics.Store,
	logger *slog.Logger,
) (*completion.Instrumented, error) {
	backend, err := newBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("completion_backend_selected",
		"backend", cfg.Completion.Backend,
		"model", backendModel(cfg),
		"timeout", cfg.Completion.Timeout(),
	)
	return completion.NewInstrumented(backend, cfg.Completion.Backend, cfg.Completion.Timeout(), store, logger), nil
}

func newBackend(ctx context.Context, cfg *config.Config) (completion.Completer, error) {
	switch cfg.Completion.Backend {
	case config.BackendOllama:
		client, err := ollama.NewClient(cfg, nil)
		if err != nil {
			return nil, fmt.Errorf("ollama client: %w", err)
		}
		return client, nil
	case config.BackendOllamaCLI:
		cli, err := ollama.NewCLI(cfg)
		if err != nil {
			return nil, fmt.Errorf("ollama cli: %w", err)
		}
		return cli, nil
	case config.BackendGemini:
		client, err := gemini.NewClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown completion backend %q", cfg.Completion.Backend)
	}
}

func backendModel(cfg *config.Config) string {
	if cfg.Completion.Backend == config.BackendGemini {
		return cfg.Gemini.Model
	}
	return cfg.Completion.Model
}

// ProvidePrompts: quiz prompt set, strict when QUIZ_STRICT_FORMAT is on.
func ProvidePrompts(cfg *config.Config) (*quiz.Prompts, error) {
	prompts, err := quiz.NewPrompts(cfg.Quiz.StrictFormat)
	if err != nil {
		return nil, fmt.Errorf("quiz prompts: %w", err)
	}
	return prompts, nil
}

// ProvideChatService: the request orchestrator.
func ProvideChatService(
	cfg *config.Config,
	completer *completion.Instrumented,
	prompts *quiz.Prompts,
	store *metrics.Store,
	logger *slog.Logger,
) *chat.Service {
	return chat.New(completer, prompts, store, chat.Options{FallbackOnEmpty: cfg.Quiz.FallbackEnabled}, logger)
}

// ProvideRouter: gin engine; the instrumented completer doubles as the readiness probe.
func ProvideRouter(
	cfg *config.Config,
	logger *slog.Logger,
	chatHandler *handler.ChatHandler,
	completer *completion.Instrumented,
	store *metrics.Store,
	registry *prometheus.Registry,
) *gin.Engine {
	return handler.NewRouter(cfg, logger, chatHandler, completer, store, registry)
}

// ProvideHTTPHandler exposes the router as an http.Handler.
func ProvideHTTPHandler(router *gin.Engine) http.Handler {
	return router
}
