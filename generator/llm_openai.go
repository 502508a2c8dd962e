package generator

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAILLM implements LLMClient using the official openai-go SDK (chat completions).
// Groq and DeepSeek are reached through the same client with a different base URL.
type OpenAILLM struct {
	Model    string
	Sampling Sampling
	client   openai.Client
}

func NewOpenAILLMFromConfig(cfg *LLMSettings, extra ...option.RequestOption) (*OpenAILLM, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: llm config is nil", ErrInvalidConfig)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: api key missing; set llm.api_key or %s", ErrInvalidConfig, cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: llm model is required", ErrInvalidConfig)
	}
	// No retries: one user action is one request.
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
	return &OpenAILLM{Model: cfg.Model, Sampling: sampling, client: openai.NewClient(opts...)}, nil
}

func (o *OpenAILLM) Complete(ctx context.Context, prompt Prompt) (Completion, error) {
	msgs := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(prompt.System),
		openai.UserMessage(prompt.User),
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(o.Model),
		Messages:            msgs,
		Temperature:         openai.Float(o.Sampling.Temperature),
		MaxCompletionTokens: openai.Int(o.Sampling.MaxTokens),
		TopP:                openai.Float(o.Sampling.TopP),
	})
	if err != nil {
		return Completion{}, err
	}
	if len(resp.Choices) == 0 {
		return Completion{}, errors.New("openai: empty choices")
	}
	return Completion{
		Text:  resp.Choices[0].Message.Content,
		Model: resp.Model,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}
