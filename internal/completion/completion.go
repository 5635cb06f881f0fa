// Package completion defines the text completion seam used for both the answer and the quiz call.
package completion

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrEmptyPrompt is returned when the prompt is blank.
	ErrEmptyPrompt = errors.New("empty prompt")
	// ErrTimeout is returned when a completion exceeds its deadline.
	ErrTimeout = errors.New("completion timed out")
)

// Completer: turns a prompt into generated text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Usage: token counts reported by a backend. Zero when unknown.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Result: generated text with usage.
type Result struct {
	Text  string
	Usage Usage
}

// UsageCompleter: implemented by backends that report token usage.
type UsageCompleter interface {
	CompleteWithUsage(ctx context.Context, prompt string) (Result, error)
}

// Prober: implemented by backends that can check reachability.
type Prober interface {
	Ping(ctx context.Context) error
}

// Func adapts a function to Completer.
type Func func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f Func) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Error: backend failure.
type Error struct {
	Backend string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Backend + ": completion failed"
	}
	return fmt.Sprintf("%s: %v", e.Backend, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err as a backend failure. A nil err stays nil.
func NewError(backend string, err error) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return err
	}
	return &Error{Backend: backend, Err: err}
}
