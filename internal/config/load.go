package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

const defaultModel = "deepseek-coder:6.7b"

var (
	configOnce  sync.Once
	configValue *Config
)

// Load: builds configuration from the environment, reading .env once if present.
func Load() *Config {
	configOnce.Do(func() {
		_ = godotenv.Load()
		configValue = buildConfig()
	})
	return configValue
}

// ProvideConfig: loads and validates configuration.
func ProvideConfig() (*Config, error) {
	cfg := Load()
	if cfg == nil {
		return nil, errors.New("config not initialized")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate: checks the configuration for values the server cannot start with.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	switch c.Completion.Backend {
	case BackendOllama, BackendOllamaCLI:
		if strings.TrimSpace(c.Completion.Model) == "" {
			return errors.New("completion model is required")
		}
	case BackendGemini:
		if c.Gemini.APIKey == "" {
			return errors.New("gemini backend requires GOOGLE_API_KEY")
		}
	default:
		return fmt.Errorf("unknown completion backend: %q", c.Completion.Backend)
	}
	if c.Completion.TimeoutSeconds <= 0 {
		return fmt.Errorf("invalid completion timeout: %d", c.Completion.TimeoutSeconds)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port: %d", c.HTTP.Port)
	}
	return nil
}

// LogEnvStatus: logs the effective configuration with secrets masked.
func LogEnvStatus(cfg *Config, logger *slog.Logger) {
	if logger == nil || cfg == nil {
		return
	}

	logger.Debug(
		"env_status",
		"env_file", fileExists(".env"),
		"backend", cfg.Completion.Backend,
		"model", cfg.Completion.Model,
		"timeout", cfg.Completion.TimeoutSeconds,
		"ollama_url", cfg.Ollama.BaseURL,
		"gemini_key", maskSecret(cfg.Gemini.APIKey),
		"quiz_fallback", cfg.Quiz.FallbackEnabled,
		"quiz_strict_format", cfg.Quiz.StrictFormat,
		"api_key", maskSecret(cfg.HTTPAuth.APIKey),
		"rate_limit_rpm", cfg.HTTPRateLimit.RequestsPerMinute,
	)

	if cfg.HTTPAuth.APIKey == "" {
		logger.Warn("env_missing_http_api_key")
	}
}

func buildConfig() *Config {
	backend := strings.ToLower(getEnvString("COMPLETION_BACKEND", BackendOllama))
	return &Config{
		Completion: CompletionConfig{
			Backend:        backend,
			Model:          getEnvString("COMPLETION_MODEL", defaultModel),
			TimeoutSeconds: getEnvInt("COMPLETION_TIMEOUT_SECONDS", 120),
		},
		Ollama: OllamaConfig{
			BaseURL: getEnvString("OLLAMA_HOST", "http://localhost:11434"),
			Binary:  getEnvString("OLLAMA_BIN", "ollama"),
		},
		Gemini: GeminiConfig{
			APIKey:          getEnvString("GOOGLE_API_KEY", ""),
			Model:           getEnvString("GEMINI_MODEL", "gemini-2.5-flash"),
			Temperature:     getEnvFloat("GEMINI_TEMPERATURE", 0.7),
			MaxOutputTokens: getEnvInt("GEMINI_MAX_TOKENS", 2048),
		},
		Quiz: QuizConfig{
			FallbackEnabled: getEnvBool("QUIZ_FALLBACK_ENABLED", false),
			StrictFormat:    getEnvBool("QUIZ_STRICT_FORMAT", false),
		},
		Logging: LoggingConfig{
			Level:      getEnvString("LOG_LEVEL", "info"),
			LogDir:     getEnvString("LOG_DIR", ""),
			MaxSizeMB:  getEnvInt("LOG_FILE_MAX_SIZE_MB", 1),
			MaxBackups: getEnvInt("LOG_FILE_MAX_BACKUPS", 30),
			MaxAgeDays: getEnvInt("LOG_FILE_MAX_AGE_DAYS", 7),
			Compress:   getEnvBool("LOG_FILE_COMPRESS", true),
		},
		HTTP: HTTPConfig{
			Host:                     getEnvString("HTTP_HOST", "127.0.0.1"),
			Port:                     getEnvInt("HTTP_PORT", 5000),
			HTTP2Enabled:             getEnvBool("HTTP2_ENABLED", true),
			ReadHeaderTimeoutSeconds: max(1, getEnvNonNegativeInt("HTTP_READ_HEADER_TIMEOUT_SECONDS", 5)),
			CORSAllowOrigins:         getEnvStringList("HTTP_CORS_ALLOW_ORIGINS", []string{"*"}),
			GzipEnabled:              getEnvBool("HTTP_GZIP_ENABLED", true),
			ShutdownTimeoutSeconds:   max(1, getEnvNonNegativeInt("HTTP_SHUTDOWN_TIMEOUT_SECONDS", 10)),
		},
		HTTPAuth: HTTPAuthConfig{
			APIKey: getEnvString("HTTP_API_KEY", ""),
		},
		HTTPRateLimit: HTTPRateLimitConfig{
			RequestsPerMinute: getEnvNonNegativeInt("HTTP_RATE_LIMIT_RPM", 0),
			CacheSize:         max(1, getEnvNonNegativeInt("HTTP_RATE_LIMIT_CACHE_SIZE", 10000)),
			CacheTTLSeconds:   max(1, getEnvNonNegativeInt("HTTP_RATE_LIMIT_CACHE_TTL_SECONDS", 120)),
		},
		Telemetry: readTelemetryConfig(),
	}
}
