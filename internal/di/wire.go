//go:build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/config"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/handler"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/metrics"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/server"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/usecase/chat"
)

func InitializeApp(ctx context.Context) (*App, error) {
	wire.Build(
		config.ProvideConfig,
		ProvideLogger,
		ProvideTelemetry,
		metrics.NewStore,
		ProvideRegistry,
		ProvideCompleter,
		ProvidePrompts,
		ProvideChatService,
		handler.NewChatHandler,
		wire.Bind(new(handler.Chatter), new(*chat.Service)),
		ProvideRouter,
		ProvideHTTPHandler,
		server.NewHTTPServer,
		NewApp,
	)
	return nil, nil
}
