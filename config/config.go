// Package config loads application settings from an optional config file and
// PROJNAV_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"project_navigator/generator"
)

// EnvPrefix is prepended to every environment override, e.g. PROJNAV_LLM_MODEL.
const EnvPrefix = "PROJNAV"

// Config holds all application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	Log    LogConfig    `mapstructure:"log" validate:"required"`
	LLM    LLMConfig    `mapstructure:"llm" validate:"required"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// LLMConfig 模型配置；api_key 为空时从 api_key_env 指定的环境变量读取。
type LLMConfig struct {
	Provider    string        `mapstructure:"provider" validate:"oneof=groq openai deepseek anthropic mock"`
	Model       string        `mapstructure:"model"`
	APIKey      string        `mapstructure:"api_key"`
	APIKeyEnv   string        `mapstructure:"api_key_env"`
	BaseURL     string        `mapstructure:"base_url" validate:"omitempty,url"`
	Temperature float64       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int64         `mapstructure:"max_tokens" validate:"gt=0"`
	TopP        float64       `mapstructure:"top_p" validate:"gt=0,lte=1"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// Settings converts the config section into generator settings.
func (c LLMConfig) Settings() generator.LLMSettings {
	return generator.LLMSettings{
		Provider:  c.Provider,
		Model:     c.Model,
		APIKey:    c.APIKey,
		APIKeyEnv: c.APIKeyEnv,
		BaseURL:   c.BaseURL,
		Sampling: generator.Sampling{
			Temperature: c.Temperature,
			MaxTokens:   c.MaxTokens,
			TopP:        c.TopP,
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("llm.provider", "groq")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.api_key_env", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.temperature", generator.DefaultSampling.Temperature)
	v.SetDefault("llm.max_tokens", generator.DefaultSampling.MaxTokens)
	v.SetDefault("llm.top_p", generator.DefaultSampling.TopP)
	v.SetDefault("llm.timeout", 60*time.Second)
}

var validate = validator.New()

// Load reads configuration in the order defaults -> file -> environment.
// An empty path looks for config/config.{json,yaml,toml} or ./config.* and
// tolerates their absence; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("config")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.LLM.Provider = strings.ToLower(cfg.LLM.Provider)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}
