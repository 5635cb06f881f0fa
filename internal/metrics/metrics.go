package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Quiz outcomes recorded per chat request.
const (
	QuizParsed   = "parsed"
	QuizFallback = "fallback"
	QuizEmpty    = "empty"
	QuizFailed   = "failed"
)

// Store: completion and quiz counters. Totals are kept in atomics for the JSON
// snapshot and mirrored into Prometheus collectors.
type Store struct {
	totalCalls        int64
	totalErrors       int64
	totalTimeouts     int64
	totalInputTokens  int64
	totalOutputTokens int64
	totalDurationMs   int64
	quizParsed        int64
	quizFallback      int64
	quizEmpty         int64
	quizFailed        int64
	questionsEmitted  int64

	calls     *prometheus.CounterVec
	durations *prometheus.HistogramVec
	tokens    *prometheus.CounterVec
	quizzes   *prometheus.CounterVec
	questions prometheus.Counter
}

// NewStore: creates a store with unregistered collectors.
func NewStore() *Store {
	return &Store{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quiz_relay",
			Name:      "completion_calls_total",
			Help:      "Completion calls by backend and outcome.",
		}, []string{"backend", "outcome"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "quiz_relay",
			Name:      "completion_duration_seconds",
			Help:      "Completion call latency.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80, 160},
		}, []string{"backend"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quiz_relay",
			Name:      "completion_tokens_total",
			Help:      "Tokens reported by completion backends.",
		}, []string{"backend", "direction"}),
		quizzes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quiz_relay",
			Name:      "quiz_results_total",
			Help:      "Quiz generation outcomes.",
		}, []string{"outcome"}),
		questions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quiz_relay",
			Name:      "quiz_questions_total",
			Help:      "Questions returned to clients.",
		}),
	}
}

// Register: registers the collectors with reg.
func (s *Store) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{s.calls, s.durations, s.tokens, s.quizzes, s.questions} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordSuccess: successful completion call.
func (s *Store) RecordSuccess(backend string, duration time.Duration, inputTokens, outputTokens int) {
	atomic.AddInt64(&s.totalCalls, 1)
	atomic.AddInt64(&s.totalInputTokens, int64(inputTokens))
	atomic.AddInt64(&s.totalOutputTokens, int64(outputTokens))
	atomic.AddInt64(&s.totalDurationMs, duration.Milliseconds())

	s.calls.WithLabelValues(backend, "ok").Inc()
	s.durations.WithLabelValues(backend).Observe(duration.Seconds())
	s.tokens.WithLabelValues(backend, "input").Add(float64(inputTokens))
	s.tokens.WithLabelValues(backend, "output").Add(float64(outputTokens))
}

// RecordError: failed completion call.
func (s *Store) RecordError(backend string, duration time.Duration) {
	atomic.AddInt64(&s.totalCalls, 1)
	atomic.AddInt64(&s.totalErrors, 1)
	atomic.AddInt64(&s.totalDurationMs, duration.Milliseconds())

	s.calls.WithLabelValues(backend, "error").Inc()
	s.durations.WithLabelValues(backend).Observe(duration.Seconds())
}

// RecordTimeout: completion call that hit its deadline. Counted as an error too.
func (s *Store) RecordTimeout(backend string, duration time.Duration) {
	atomic.AddInt64(&s.totalCalls, 1)
	atomic.AddInt64(&s.totalErrors, 1)
	atomic.AddInt64(&s.totalTimeouts, 1)
	atomic.AddInt64(&s.totalDurationMs, duration.Milliseconds())

	s.calls.WithLabelValues(backend, "timeout").Inc()
	s.durations.WithLabelValues(backend).Observe(duration.Seconds())
}

// RecordQuiz: quiz outcome of one chat request and the number of questions returned.
func (s *Store) RecordQuiz(outcome string, questions int) {
	switch outcome {
	case QuizParsed:
		atomic.AddInt64(&s.quizParsed, 1)
	case QuizFallback:
		atomic.AddInt64(&s.quizFallback, 1)
	case QuizEmpty:
		atomic.AddInt64(&s.quizEmpty, 1)
	case QuizFailed:
		atomic.AddInt64(&s.quizFailed, 1)
	}
	atomic.AddInt64(&s.questionsEmitted, int64(questions))

	s.quizzes.WithLabelValues(outcome).Inc()
	s.questions.Add(float64(questions))
}

// Snapshot: current totals.
func (s *Store) Snapshot() map[string]float64 {
	totalCalls := atomic.LoadInt64(&s.totalCalls)
	durationMs := atomic.LoadInt64(&s.totalDurationMs)

	avgDuration := 0.0
	if totalCalls > 0 {
		avgDuration = float64(durationMs) / float64(totalCalls)
	}

	return map[string]float64{
		"total_calls":         float64(totalCalls),
		"total_errors":        float64(atomic.LoadInt64(&s.totalErrors)),
		"total_timeouts":      float64(atomic.LoadInt64(&s.totalTimeouts)),
		"total_input_tokens":  float64(atomic.LoadInt64(&s.totalInputTokens)),
		"total_output_tokens": float64(atomic.LoadInt64(&s.totalOutputTokens)),
		"total_duration_ms":   float64(durationMs),
		"avg_duration_ms":     avgDuration,
		"quiz_parsed":         float64(atomic.LoadInt64(&s.quizParsed)),
		"quiz_fallback":       float64(atomic.LoadInt64(&s.quizFallback)),
		"quiz_empty":          float64(atomic.LoadInt64(&s.quizEmpty)),
		"quiz_failed":         float64(atomic.LoadInt64(&s.quizFailed)),
		"questions_emitted":   float64(atomic.LoadInt64(&s.questionsEmitted)),
	}
}
