// Package chat answers a user message and builds a comprehension quiz about the answer.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/unicode/norm"

	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/completion"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/domain/quiz"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/logging"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/metrics"
)

const tracerName = "quiz-relay/chat"

// ErrEmptyMessage is returned for a blank user message.
var ErrEmptyMessage = errors.New("message is required")

// Options: orchestration policy.
type Options struct {
	// FallbackOnEmpty substitutes quiz.GenerateFallback when the quiz text parses to nothing.
	FallbackOnEmpty bool
}

// Result: answer text and quiz questions. MCQQuestions is never nil.
type Result struct {
	Response     string          `json:"response"`
	MCQQuestions []quiz.Question `json:"mcq_questions"`
}

// Service: runs the answer call, then the quiz call, sequentially.
type Service struct {
	completer completion.Completer
	prompts   *quiz.Prompts
	parser    *quiz.Parser
	metrics   *metrics.Store
	opts      Options
	logger    *slog.Logger
}

// New: creates a Service. store and logger may be nil.
func New(
	completer completion.Completer,
	prompts *quiz.Prompts,
	store *metrics.Store,
	opts Options,
	logger *slog.Logger,
) *Service {
	logger = logging.OrDiscard(logger)
	return &Service{
		completer: completer,
		prompts:   prompts,
		parser:    quiz.NewParser(logger),
		metrics:   store,
		opts:      opts,
		logger:    logger,
	}
}

// Chat: answers message and attaches a quiz. An answer failure is returned as an error;
// a quiz failure only leaves the quiz empty.
func (s *Service) Chat(ctx context.Context, message string) (*Result, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "Chat",
		trace.WithAttributes(attribute.Int("chat.message_len", len(message))),
	)
	defer span.End()

	s.logger.DebugContext(ctx, "chat_request_received", "message", message)

	answer, err := s.answer(ctx, message)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	questions, outcome := s.quiz(ctx, answer)
	if s.metrics != nil {
		s.metrics.RecordQuiz(outcome, len(questions))
	}
	span.SetAttributes(
		attribute.String("quiz.outcome", outcome),
		attribute.Int("quiz.questions", len(questions)),
	)
	span.SetStatus(codes.Ok, "")

	return &Result{Response: answer, MCQQuestions: questions}, nil
}

func (s *Service) answer(ctx context.Context, message string) (string, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "Chat.Answer")
	defer span.End()

	prompt, err := s.prompts.Answer(message)
	if err != nil {
		return "", fmt.Errorf("build answer prompt: %w", err)
	}
	output, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.ErrorContext(ctx, "answer_generation_failed", "err", err)
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return strings.TrimSpace(output), nil
}

func (s *Service) quiz(ctx context.Context, answer string) ([]quiz.Question, string) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "Chat.Quiz")
	defer span.End()

	prompt, err := s.prompts.Quiz(answer)
	if err != nil {
		span.RecordError(err)
		s.logger.WarnContext(ctx, "quiz_prompt_failed", "err", err)
		return []quiz.Question{}, metrics.QuizFailed
	}

	output, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.WarnContext(ctx, "quiz_generation_failed", "err", err)
		return []quiz.Question{}, metrics.QuizFailed
	}

	questions := s.parser.Parse(norm.NFC.String(strings.TrimSpace(output)))
	if len(questions) > 0 {
		return questions, metrics.QuizParsed
	}
	if s.opts.FallbackOnEmpty {
		s.logger.InfoContext(ctx, "quiz_fallback_used")
		return quiz.GenerateFallback(answer), metrics.QuizFallback
	}
	return questions, metrics.QuizEmpty
}
