// Package ollama provides completion backends for a local Ollama install: the HTTP API and the CLI.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/completion"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/config"
)

// BackendName: name used in errors and metrics.
const BackendName = "ollama"

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("empty ollama response")

// Client: completion backend over the Ollama HTTP API (/api/generate, non-streaming).
type Client struct {
	api   *api.Client
	model string
}

var (
	_ completion.UsageCompleter = (*Client)(nil)
	_ completion.Prober         = (*Client)(nil)
)

// NewClient: builds a client for cfg.Ollama.BaseURL and cfg.Completion.Model.
// Deadlines come from the caller's context, so httpClient normally has no timeout.
func NewClient(cfg *config.Config, httpClient *http.Client) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	base, err := url.Parse(cfg.Ollama.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse ollama url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid ollama url: %q", cfg.Ollama.BaseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		api:   api.NewClient(base, httpClient),
		model: cfg.Completion.Model,
	}, nil
}

// Complete: generated text for prompt.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	result, err := c.CompleteWithUsage(ctx, prompt)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// CompleteWithUsage: generated text plus prompt/eval token counts.
func (c *Client) CompleteWithUsage(ctx context.Context, prompt string) (completion.Result, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: &stream,
	}

	var (
		text  strings.Builder
		usage completion.Usage
	)
	err := c.api.Generate(ctx, req, func(resp api.GenerateResponse) error {
		text.WriteString(resp.Response)
		if resp.Done {
			usage = completion.Usage{
				InputTokens:  resp.PromptEvalCount,
				OutputTokens: resp.EvalCount,
			}
		}
		return nil
	})
	if err != nil {
		return completion.Result{}, completion.NewError(BackendName, fmt.Errorf("generate: %w", err))
	}
	if strings.TrimSpace(text.String()) == "" {
		return completion.Result{}, completion.NewError(BackendName, ErrEmptyResponse)
	}
	return completion.Result{Text: text.String(), Usage: usage}, nil
}

// Ping: checks that the daemon answers.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.api.Heartbeat(ctx); err != nil {
		return fmt.Errorf("heartbeat: %w", err)
	}
	return nil
}
