package config

import (
	"net"
	"strconv"
	"time"
)

// Completion backends.
const (
	BackendOllama    = "ollama"
	BackendOllamaCLI = "ollama-cli"
	BackendGemini    = "gemini"
)

// CompletionConfig: selects the text completion backend shared by the answer and quiz calls.
type CompletionConfig struct {
	Backend        string
	Model          string
	TimeoutSeconds int
}

// Timeout: per-call completion deadline.
func (c CompletionConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// OllamaConfig: local Ollama daemon and CLI settings.
type OllamaConfig struct {
	BaseURL string
	Binary  string
}

// GeminiConfig: Gemini model settings.
type GeminiConfig struct {
	APIKey          string
	Model           string
	Temperature     float64
	MaxOutputTokens int
}

// QuizConfig: quiz generation policy.
type QuizConfig struct {
	FallbackEnabled bool
	StrictFormat    bool
}

// LoggingConfig: logging settings.
type LoggingConfig struct {
	Level      string
	LogDir     string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// HTTPConfig: HTTP server settings.
type HTTPConfig struct {
	Host                     string
	Port                     int
	HTTP2Enabled             bool
	ReadHeaderTimeoutSeconds int
	CORSAllowOrigins         []string
	GzipEnabled              bool
	ShutdownTimeoutSeconds   int
}

// Addr: listen address.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, strconv.Itoa(h.Port))
}

// ReadHeaderTimeout: header read timeout.
func (h HTTPConfig) ReadHeaderTimeout() time.Duration {
	return time.Duration(h.ReadHeaderTimeoutSeconds) * time.Second
}

// ShutdownTimeout: graceful shutdown budget.
func (h HTTPConfig) ShutdownTimeout() time.Duration {
	return time.Duration(h.ShutdownTimeoutSeconds) * time.Second
}

// HTTPAuthConfig: API key settings for the /api group.
type HTTPAuthConfig struct {
	APIKey string
}

// HTTPRateLimitConfig: request limit settings.
type HTTPRateLimitConfig struct {
	RequestsPerMinute int
	CacheSize         int
	CacheTTLSeconds   int
}

// TelemetryConfig: OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	OTLPInsecure   bool
	SampleRate     float64
}

// Config: application configuration.
type Config struct {
	Completion    CompletionConfig
	Ollama        OllamaConfig
	Gemini        GeminiConfig
	Quiz          QuizConfig
	Logging       LoggingConfig
	HTTP          HTTPConfig
	HTTPAuth      HTTPAuthConfig
	HTTPRateLimit HTTPRateLimitConfig
	Telemetry     TelemetryConfig
}
