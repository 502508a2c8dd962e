package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"project_navigator/metrics"
)

// Agent 负责校验请求、构造提示词并调用模型。
type Agent struct {
	llm    LLMClient
	logger *slog.Logger
}

func NewAgent(llm LLMClient, logger *slog.Logger) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{llm: llm, logger: logger}, nil
}

// RecordValidationFailure counts a rejected request by reason. Callers that
// parse raw input before reaching Generate report their failures here too.
func RecordValidationFailure(err error) {
	reason := "invalid"
	if errors.Is(err, ErrEmptyTopic) {
		reason = "empty_topic"
	}
	metrics.ValidationFailures.WithLabelValues(reason).Inc()
}

// Generate 校验失败时不会调用模型；模型调用失败统一包装为 ErrGenerationFailed。
func (a *Agent) Generate(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		RecordValidationFailure(err)
		return Result{}, err
	}

	id := uuid.NewString()
	log := a.logger.With("generation_id", id)
	prompt := BuildPrompt(req)
	log.DebugContext(ctx, "prompt built",
		"topic", req.Topic,
		"difficulty", req.Difficulty,
		"duration", req.Duration,
		"count", req.Count,
		"prompt_length", len(prompt.User))

	start := time.Now()
	out, err := a.llm.Complete(ctx, prompt)
	elapsed := time.Since(start)
	metrics.LLMCallDuration.Observe(elapsed.Seconds())
	if err != nil {
		metrics.LLMCallTotal.WithLabelValues("error").Inc()
		log.ErrorContext(ctx, "completion failed", "error", err, "elapsed", elapsed)
		return Result{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	metrics.LLMCallTotal.WithLabelValues("ok").Inc()
	metrics.LLMTokensUsed.WithLabelValues(out.Model, "prompt").Add(float64(out.Usage.PromptTokens))
	metrics.LLMTokensUsed.WithLabelValues(out.Model, "completion").Add(float64(out.Usage.CompletionTokens))

	log.InfoContext(ctx, "completion received",
		"model", out.Model,
		"chars", len(out.Text),
		"completion_tokens", out.Usage.CompletionTokens,
		"elapsed", elapsed)

	return Result{
		ID:      id,
		RawText: out.Text,
		Model:   out.Model,
		Usage:   out.Usage,
		Elapsed: elapsed,
	}, nil
}
