package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/completion"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/config"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/domain/quiz"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/httperror"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/metrics"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/usecase/chat"
)

const quizOutput = `Q: What is the capital of France?
A: Paris
B: Rome
C: Berlin
D: Madrid
CORRECT: A
HINT: It is on the Seine.

Q: Which river flows through Paris?
A: Thames
B: Seine
C: Danube
D: Rhine
CORRECT: B
HINT: Starts with S.`

func newTestRouter(t *testing.T, cfg *config.Config, completer completion.Completer) *gin.Engine {
	t.Helper()
	prompts, err := quiz.NewPrompts(false)
	if err != nil {
		t.Fatalf("prompts: %v", err)
	}
	store := metrics.NewStore()
	service := chat.New(completer, prompts, store, chat.Options{}, nil)
	router := NewRouter(cfg, nil, NewChatHandler(service, nil), nil, store, prometheus.NewRegistry())
	gin.SetMode(gin.TestMode)
	return router
}

func baseConfig() *config.Config {
	return &config.Config{
		Completion: config.CompletionConfig{Backend: config.BackendOllama, Model: "deepseek-coder:6.7b", TimeoutSeconds: 120},
		HTTP:       config.HTTPConfig{CORSAllowOrigins: []string{"*"}, GzipEnabled: true},
	}
}

func scriptedCompleter(answerErr error) completion.Func {
	return func(ctx context.Context, prompt string) (string, error) {
		if strings.HasPrefix(prompt, "Answer concisely") {
			if answerErr != nil {
				return "", answerErr
			}
			return "  Paris is the capital of France.  ", nil
		}
		return quizOutput, nil
	}
}

func postChat(router *gin.Engine, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"message":"What is the capital of France?"}`))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRouterChatEndToEnd(t *testing.T) {
	router := newTestRouter(t, baseConfig(), scriptedCompleter(nil))

	resp := postChat(router, "/chat", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if resp.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}

	var result chat.Result
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Response != "Paris is the capital of France." {
		t.Fatalf("unexpected response: %q", result.Response)
	}
	if len(result.MCQQuestions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(result.MCQQuestions))
	}
	if result.MCQQuestions[1].Correct != "B" || result.MCQQuestions[1].Options["B"] != "Seine" {
		t.Fatalf("unexpected second question: %+v", result.MCQQuestions[1])
	}
}

func TestRouterAnswerFailureIsBadGateway(t *testing.T) {
	backendErr := completion.NewError(config.BackendOllamaCLI, errors.New("pull model manifest: file does not exist"))
	router := newTestRouter(t, baseConfig(), scriptedCompleter(backendErr))

	resp := postChat(router, "/chat", nil)
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
	var payload httperror.ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Error != "ollama-cli: pull model manifest: file does not exist" {
		t.Fatalf("unexpected error: %q", payload.Error)
	}
	if payload.RequestID == nil || *payload.RequestID == "" {
		t.Fatalf("expected request id in error body")
	}
}

func TestRouterAPIGroupRequiresKey(t *testing.T) {
	cfg := baseConfig()
	cfg.HTTPAuth.APIKey = "secret"
	router := newTestRouter(t, cfg, scriptedCompleter(nil))

	if resp := postChat(router, "/api/chat", nil); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if resp := postChat(router, "/api/chat", map[string]string{"X-API-Key": "secret"}); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with key, got %d", resp.Code)
	}
	if resp := postChat(router, "/chat", nil); resp.Code != http.StatusOK {
		t.Fatalf("expected open /chat, got %d", resp.Code)
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newTestRouter(t, baseConfig(), scriptedCompleter(nil))

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", resp.Code)
	}
	if resp.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("unexpected allow origin: %q", resp.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestNewCORSConfigOrigins(t *testing.T) {
	cfg := newCORSConfig([]string{"https://quiz.example.com"})
	if cfg.AllowAllOrigins || len(cfg.AllowOrigins) != 1 {
		t.Fatalf("expected explicit origins: %+v", cfg)
	}
	if !newCORSConfig(nil).AllowAllOrigins {
		t.Fatalf("expected all origins for empty list")
	}
}
