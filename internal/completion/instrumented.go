package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/logging"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/metrics"
)

// Instrumented: wraps a backend with a per-call deadline, metrics and logging.
type Instrumented struct {
	next    Completer
	backend string
	timeout time.Duration
	metrics *metrics.Store
	logger  *slog.Logger
}

// NewInstrumented: timeout <= 0 disables the deadline. store may be nil.
func NewInstrumented(next Completer, backend string, timeout time.Duration, store *metrics.Store, logger *slog.Logger) *Instrumented {
	return &Instrumented{
		next:    next,
		backend: backend,
		timeout: timeout,
		metrics: store,
		logger:  logging.OrDiscard(logger),
	}
}

// Backend: name of the wrapped backend.
func (c *Instrumented) Backend() string {
	return c.backend
}

// Complete: runs the wrapped backend under the deadline.
func (c *Instrumented) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := c.call(callCtx, prompt)
	elapsed := time.Since(start)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", ErrTimeout, NewError(c.backend, err))
			c.record(func(s *metrics.Store) { s.RecordTimeout(c.backend, elapsed) })
		} else {
			err = NewError(c.backend, err)
			c.record(func(s *metrics.Store) { s.RecordError(c.backend, elapsed) })
		}
		c.logger.Debug("completion_failed", "backend", c.backend, "duration_ms", elapsed.Milliseconds(), "err", err)
		return "", err
	}

	c.record(func(s *metrics.Store) {
		s.RecordSuccess(c.backend, elapsed, result.Usage.InputTokens, result.Usage.OutputTokens)
	})
	c.logger.Debug(
		"completion_done",
		"backend", c.backend,
		"duration_ms", elapsed.Milliseconds(),
		"prompt_len", len(prompt),
		"output_len", len(result.Text),
	)
	return result.Text, nil
}

// Ping: delegates to the backend when it supports probing.
func (c *Instrumented) Ping(ctx context.Context) error {
	prober, ok := c.next.(Prober)
	if !ok {
		return nil
	}
	return NewError(c.backend, prober.Ping(ctx))
}

func (c *Instrumented) call(ctx context.Context, prompt string) (Result, error) {
	if uc, ok := c.next.(UsageCompleter); ok {
		return uc.CompleteWithUsage(ctx, prompt)
	}
	text, err := c.next.Complete(ctx, prompt)
	return Result{Text: text}, err
}

func (c *Instrumented) record(fn func(s *metrics.Store)) {
	if c.metrics != nil {
		fn(c.metrics)
	}
}
