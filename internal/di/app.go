package di

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/config"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/telemetry"
)

// App: bundles the assembled components.
type App struct {
	Server    *http.Server
	Logger    *slog.Logger
	Config    *config.Config
	Telemetry *telemetry.Provider
}

// NewApp: creates an App.
func NewApp(
	server *http.Server,
	logger *slog.Logger,
	cfg *config.Config,
	telemetryProvider *telemetry.Provider,
) *App {
	return &App{
		Server:    server,
		Logger:    logger,
		Config:    cfg,
		Telemetry: telemetryProvider,
	}
}

// Close: flushes telemetry.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Telemetry != nil {
		if err := a.Telemetry.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
