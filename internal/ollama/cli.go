package ollama

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/completion"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/config"
)

// CLIBackendName: name used in errors and metrics.
const CLIBackendName = "ollama-cli"

// waitDelay bounds how long Run waits for output pipes after the child is killed.
const waitDelay = 2 * time.Second

// CLI: completion backend that runs `ollama run <model>` with the prompt on stdin.
// The child is killed when ctx ends.
type CLI struct {
	binary string
	model  string
}

var (
	_ completion.Completer = (*CLI)(nil)
	_ completion.Prober    = (*CLI)(nil)
)

// NewCLI: builds a CLI backend from cfg.
func NewCLI(cfg *config.Config) (*CLI, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	return &CLI{binary: cfg.Ollama.Binary, model: cfg.Completion.Model}, nil
}

// Complete: trimmed stdout of the run. A non-zero exit returns stderr as the error text.
func (c *CLI) Complete(ctx context.Context, prompt string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.binary, "run", c.model)
	cmd.Stdin = strings.NewReader(prompt)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", completion.NewError(CLIBackendName, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				msg = exitErr.Error()
			}
			return "", completion.NewError(CLIBackendName, errors.New(msg))
		}
		return "", completion.NewError(CLIBackendName, fmt.Errorf("run %s: %w", c.binary, err))
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Ping: checks that the binary can be found.
func (c *CLI) Ping(context.Context) error {
	if _, err := exec.LookPath(c.binary); err != nil {
		return fmt.Errorf("lookup %s: %w", c.binary, err)
	}
	return nil
}
