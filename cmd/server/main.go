package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/config"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/di"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/server"
)

const telemetryFlushTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "quiz-relay: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := di.InitializeApp(ctx)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
		defer cancel()
		if err := app.Close(flushCtx); err != nil {
			app.Logger.Error("app_close_failed", "err", err)
		}
	}()

	config.LogEnvStatus(app.Config, app.Logger)
	app.Logger.Info(
		"http_server_start",
		"host", app.Config.HTTP.Host,
		"port", app.Config.HTTP.Port,
		"http2", app.Config.HTTP.HTTP2Enabled,
		"backend", app.Config.Completion.Backend,
	)

	if err := server.Run(ctx, app.Server, app.Config.HTTP.ShutdownTimeout(), app.Logger); err != nil {
		app.Logger.Error("http_server_failed", "err", err)
		return err
	}
	app.Logger.Info("http_server_stopped")
	return nil
}
