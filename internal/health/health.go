package health

import (
	"context"
	"time"

	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/completion"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/config"
)

const probeTimeout = 2 * time.Second

var startTime = time.Now()

// Component: one health component.
type Component struct {
	Status string         `json:"status"`
	Detail map[string]any `json:"detail"`
}

// Response: health response body.
type Response struct {
	Status     string               `json:"status"`
	Components map[string]Component `json:"components"`
}

// Collect gathers the service health. Deep checks probe the completion backend.
func Collect(ctx context.Context, cfg *config.Config, prober completion.Prober, deepChecks bool) Response {
	components := map[string]Component{
		"app":        buildAppStatus(),
		"completion": buildCompletionStatus(ctx, cfg, prober, deepChecks),
	}

	overall := "ok"
	for _, component := range components {
		if component.Status != "ok" {
			overall = "degraded"
			break
		}
	}

	return Response{
		Status:     overall,
		Components: components,
	}
}

func buildAppStatus() Component {
	return Component{
		Status: "ok",
		Detail: map[string]any{
			"uptime_seconds": int(time.Since(startTime).Seconds()),
		},
	}
}

func buildCompletionStatus(ctx context.Context, cfg *config.Config, prober completion.Prober, deepChecks bool) Component {
	detail := map[string]any{
		"deep_checked": deepChecks,
	}
	if cfg != nil {
		detail["backend"] = cfg.Completion.Backend
		detail["model"] = cfg.Completion.Model
		detail["timeout_seconds"] = cfg.Completion.TimeoutSeconds
		if cfg.Completion.Backend == config.BackendGemini {
			detail["model"] = cfg.Gemini.Model
		}
	}

	if !deepChecks {
		return Component{Status: "ok", Detail: detail}
	}
	if prober == nil {
		detail["reachable"] = false
		detail["error"] = "no probe configured"
		return Component{Status: "degraded", Detail: detail}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	checkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), probeTimeout)
	defer cancel()

	if err := prober.Ping(checkCtx); err != nil {
		detail["reachable"] = false
		detail["error"] = err.Error()
		return Component{Status: "degraded", Detail: detail}
	}

	detail["reachable"] = true
	return Component{Status: "ok", Detail: detail}
}
