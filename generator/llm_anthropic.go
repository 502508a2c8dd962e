package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicLLM implements LLMClient on the Anthropic Messages API.
type AnthropicLLM struct {
	Model    string
	Sampling Sampling
	client   anthropic.Client
}

func NewAnthropicLLMFromConfig(cfg *LLMSettings, extra ...option.RequestOption) (*AnthropicLLM, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: llm config is nil", ErrInvalidConfig)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: api key missing; set llm.api_key or %s", ErrInvalidConfig, cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: llm model is required", ErrInvalidConfig)
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	opts = append(opts, extra...)

	sampling := cfg.Sampling
	if sampling == (Sampling{}) {
		sampling = DefaultSampling
	}
	return &AnthropicLLM{Model: cfg.Model, Sampling: sampling, client: anthropic.NewClient(opts...)}, nil
}

func (a *AnthropicLLM) Complete(ctx context.Context, prompt Prompt) (Completion, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.Model),
		MaxTokens: a.Sampling.MaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt.User)),
		},
	}
	// 新模型不接受同时设置 temperature 和 top_p；只有显式收紧 top_p 时才改用它。
	if a.Sampling.TopP > 0 && a.Sampling.TopP < 1 {
		params.TopP = anthropic.Float(a.Sampling.TopP)
	} else {
		params.Temperature = anthropic.Float(a.Sampling.Temperature)
	}
	if prompt.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: prompt.System}}
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return Completion{}, fmt.Errorf("anthropic: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(text.Text)
		}
	}
	return Completion{
		Text:  sb.String(),
		Model: string(msg.Model),
		Usage: Usage{
			PromptTokens:     msg.Usage.InputTokens,
			CompletionTokens: msg.Usage.OutputTokens,
		},
	}, nil
}
