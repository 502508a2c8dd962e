package generator

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// LLMClient 抽象大模型客户端，便于替换/Mock。
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (Completion, error)
}

// Completion is one non-streamed reply.
type Completion struct {
	Text  string
	Model string
	Usage Usage
}

// Sampling 固定的采样参数。
type Sampling struct {
	Temperature float64
	MaxTokens   int64
	TopP        float64
}

// DefaultSampling matches the parameters the form has always used.
var DefaultSampling = Sampling{
	Temperature: 0.5,
	MaxTokens:   1024,
	TopP:        1,
}

// LLMSettings 提供给具体实现的基础配置。
type LLMSettings struct {
	Provider  string
	Model     string
	APIKey    string
	APIKeyEnv string
	BaseURL   string
	Sampling  Sampling
}

type providerDefaults struct {
	model     string
	baseURL   string
	apiKeyEnv string
}

var providers = map[string]providerDefaults{
	"groq": {
		model:     "llama-3.3-70b-versatile",
		baseURL:   "https://api.groq.com/openai/v1",
		apiKeyEnv: "GROQ_API_KEY",
	},
	"openai": {
		model:     "gpt-4.1-mini",
		apiKeyEnv: "OPENAI_API_KEY",
	},
	// DeepSeek 提供 OpenAI 兼容接口，需填写 base_url。
	"deepseek": {
		model:     "deepseek-chat",
		apiKeyEnv: "DEEPSEEK_API_KEY",
	},
	"anthropic": {
		model:     "claude-sonnet-4-5-20250929",
		apiKeyEnv: "ANTHROPIC_API_KEY",
	},
	"mock": {
		model: "mock",
	},
}

// resolve fills provider defaults and reads the API key from the environment when
// it was not given inline.
func (s LLMSettings) resolve() (LLMSettings, error) {
	s.Provider = strings.ToLower(strings.TrimSpace(s.Provider))
	if s.Provider == "" {
		s.Provider = "groq"
	}
	def, ok := providers[s.Provider]
	if !ok {
		return s, fmt.Errorf("%w: llm provider %s not supported", ErrInvalidConfig, s.Provider)
	}
	if s.Model == "" {
		s.Model = def.model
	}
	if s.BaseURL == "" {
		s.BaseURL = def.baseURL
	}
	if s.APIKeyEnv == "" {
		s.APIKeyEnv = def.apiKeyEnv
	}
	if s.APIKey == "" && s.APIKeyEnv != "" {
		s.APIKey = os.Getenv(s.APIKeyEnv)
	}
	if s.Sampling == (Sampling{}) {
		s.Sampling = DefaultSampling
	}
	return s, nil
}

// NewLLM builds the client for the configured provider.
func NewLLM(settings LLMSettings) (LLMClient, error) {
	cfg, err := settings.resolve()
	if err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case "groq", "openai":
		return NewOpenAILLMFromConfig(&cfg)
	case "deepseek":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("%w: llm provider deepseek requires base_url (OpenAI-compatible endpoint)", ErrInvalidConfig)
		}
		return NewOpenAILLMFromConfig(&cfg)
	case "anthropic":
		return NewAnthropicLLMFromConfig(&cfg)
	default:
		return &MockLLM{}, nil
	}
}
