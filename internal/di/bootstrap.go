//go:build !wireinject

package di

import (
	"context"
	"fmt"

	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/config"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/handler"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/metrics"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/server"
)

// InitializeApp loads the configuration and assembles the application.
func InitializeApp(ctx context.Context) (*App, error) {
	cfg, err := config.ProvideConfig()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return initializeWithConfig(ctx, cfg)
}

func initializeWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	telemetryProvider, err := ProvideTelemetry(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}

	metricsStore := metrics.NewStore()
	registry, err := ProvideRegistry(metricsStore)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	completer, err := ProvideCompleter(ctx, cfg, metricsStore, logger)
	if err != nil {
		return nil, fmt.Errorf("completion: %w", err)
	}

	prompts, err := ProvidePrompts(cfg)
	if err != nil {
		return nil, fmt.Errorf("prompts: %w", err)
	}

	chatService := ProvideChatService(cfg, completer, prompts, metricsStore, logger)
	chatHandler := handler.NewChatHandler(chatService, logger)

	router := ProvideRouter(cfg, logger, chatHandler, completer, metricsStore, registry)
	httpServer := server.NewHTTPServer(cfg, ProvideHTTPHandler(router))

	return NewApp(httpServer, logger, cfg, telemetryProvider), nil
}
