// Package gemini provides a completion backend on the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/completion"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/config"
)

// BackendName: name used in errors and metrics.
const BackendName = "gemini"

var (
	// ErrMissingAPIKey is returned when no Gemini API key is configured.
	ErrMissingAPIKey = errors.New("missing gemini api key")
	// ErrEmptyResponse is returned when the candidate has no text parts.
	ErrEmptyResponse = errors.New("empty gemini response")
)

// models is the subset of *genai.Models the client uses.
type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	Get(ctx context.Context, model string, config *genai.GetModelConfig) (*genai.Model, error)
}

// Client: completion backend on Gemini generateContent.
type Client struct {
	models          models
	model           string
	temperature     float32
	maxOutputTokens int32
}

var (
	_ completion.UsageCompleter = (*Client)(nil)
	_ completion.Prober         = (*Client)(nil)
)

// NewClient: creates a genai client for cfg.Gemini.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if cfg.Gemini.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(context.WithoutCancel(ctx), &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newClient(client.Models, cfg.Gemini), nil
}

func newClient(m models, cfg config.GeminiConfig) *Client {
	return &Client{
		models:          m,
		model:           cfg.Model,
		temperature:     float32(cfg.Temperature),
		maxOutputTokens: int32(cfg.MaxOutputTokens),
	}
}

// Complete: generated text for prompt.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	result, err := c.CompleteWithUsage(ctx, prompt)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// CompleteWithUsage: generated text, excluding thought parts, plus token usage.
func (c *Client) CompleteWithUsage(ctx context.Context, prompt string) (completion.Result, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	response, err := c.models.GenerateContent(ctx, c.model, contents, c.buildGenerateConfig())
	if err != nil {
		return completion.Result{}, completion.NewError(BackendName, fmt.Errorf("generate content: %w", err))
	}

	texts, _ := extractParts(response)
	text := strings.Join(texts, "")
	if strings.TrimSpace(text) == "" {
		return completion.Result{}, completion.NewError(BackendName, ErrEmptyResponse)
	}
	return completion.Result{Text: text, Usage: extractUsage(response)}, nil
}

// Ping: fetches the configured model's metadata.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.models.Get(ctx, c.model, nil); err != nil {
		return fmt.Errorf("get model %s: %w", c.model, err)
	}
	return nil
}

func (c *Client) buildGenerateConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	}
	if c.maxOutputTokens > 0 {
		cfg.MaxOutputTokens = c.maxOutputTokens
	}
	return cfg
}

func extractParts(response *genai.GenerateContentResponse) ([]string, []string) {
	if response == nil || len(response.Candidates) == 0 {
		return nil, nil
	}
	content := response.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return nil, nil
	}

	texts := make([]string, 0, len(content.Parts))
	var thoughts []string
	for _, part := range content.Parts {
		if part == nil || part.Text == "" {
			continue
		}
		if part.Thought {
			thoughts = append(thoughts, part.Text)
			continue
		}
		texts = append(texts, part.Text)
	}
	return texts, thoughts
}

func extractUsage(response *genai.GenerateContentResponse) completion.Usage {
	if response == nil || response.UsageMetadata == nil {
		return completion.Usage{}
	}
	usage := response.UsageMetadata
	return completion.Usage{
		InputTokens:  int(usage.PromptTokenCount),
		OutputTokens: int(usage.CandidatesTokenCount) + int(usage.ThoughtsTokenCount),
	}
}
