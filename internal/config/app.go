package config

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/pdfchat/pkg/log"
)

const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderCustom     = "custom"
)

type AppConfig struct {
	RuntimePath string `env:"PDFCHAT_RUNTIME_PATH" envDefault:".pdfchat"`

	Provider    string  `env:"PDFCHAT_LLM_PROVIDER" envDefault:"openai"`
	Model       string  `env:"PDFCHAT_MODEL" envDefault:"gpt-4o-mini-2024-07-18"`
	Temperature float64 `env:"PDFCHAT_TEMPERATURE" envDefault:"0"`

	OpenAIAPIKey        string `env:"PDFCHAT_OPENAI_API_KEY"`
	AnthropicAPIKey     string `env:"PDFCHAT_ANTHROPIC_API_KEY"`
	OpenRouterAPIKey    string `env:"PDFCHAT_OPENROUTER_API_KEY"`
	OllamaAPIKey        string `env:"PDFCHAT_OLLAMA_API_KEY"`
	OllamaBaseURL       string `env:"PDFCHAT_OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	CustomOpenAIBaseURL string `env:"PDFCHAT_CUSTOM_OPENAI_BASE_URL"`
	CustomOpenAIAPIKey  string `env:"PDFCHAT_CUSTOM_OPENAI_API_KEY"`

	RequestTimeout time.Duration `env:"PDFCHAT_REQUEST_TIMEOUT" envDefault:"120s"`

	// Number of most recent turns rendered into prompts. 0 renders the whole conversation.
	ContextWindowSize int `env:"PDFCHAT_CONTEXT_WINDOW_SIZE" envDefault:"0"`

	SessionTTL time.Duration `env:"PDFCHAT_SESSION_TTL" envDefault:"6h"`

	EnableTelegram bool `env:"PDFCHAT_ENABLE_TELEGRAM" envDefault:"false"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	c.RuntimePath = GetRuntimePath()
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "pdfchat.db")
}

func (c AppConfig) GetHistoryPath() string {
	return filepath.Join(c.RuntimePath, "input_history")
}

func (c AppConfig) GetProvider() string {
	return strings.ToLower(c.Provider)
}

func (c AppConfig) GetModel() string {
	return c.Model
}

func (c AppConfig) GetTemperature() float64 {
	return c.Temperature
}

func (c AppConfig) GetRequestTimeout() time.Duration {
	return c.RequestTimeout
}

func (c AppConfig) GetAPIKey() string {
	switch c.GetProvider() {
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	case ProviderOpenRouter:
		return c.OpenRouterAPIKey
	case ProviderOllama:
		return c.OllamaAPIKey
	case ProviderCustom:
		return c.CustomOpenAIAPIKey
	default:
		return ""
	}
}

// SetAPIKey stores key in the field belonging to the selected provider.
func (c *AppConfig) SetAPIKey(key string) {
	switch c.GetProvider() {
	case ProviderOpenAI:
		c.OpenAIAPIKey = key
	case ProviderAnthropic:
		c.AnthropicAPIKey = key
	case ProviderOpenRouter:
		c.OpenRouterAPIKey = key
	case ProviderOllama:
		c.OllamaAPIKey = key
	case ProviderCustom:
		c.CustomOpenAIAPIKey = key
	}
}

func (c AppConfig) GetBaseURL() string {
	switch c.GetProvider() {
	case ProviderOllama:
		return c.OllamaBaseURL
	case ProviderCustom:
		return c.CustomOpenAIBaseURL
	default:
		return ""
	}
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}
