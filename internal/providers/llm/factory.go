package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/pdfchat/internal/config"
	"github.com/sandevgo/pdfchat/internal/core"
	"github.com/sandevgo/pdfchat/pkg/log"
)

// Provider is a chat backend that can also enumerate its models.
type Provider interface {
	core.AIProvider
	core.ModelLister
}

// NewProvider creates the chat provider selected by cfg.
func NewProvider(ctx context.Context, cfg core.ProviderConfig) (Provider, error) {
	log.FromCtx(ctx).Debug().
		Str("provider", cfg.GetProvider()).
		Str("model", cfg.GetModel()).
		Msg("creating llm provider")

	var (
		key     = cfg.GetAPIKey()
		model   = cfg.GetModel()
		temp    = cfg.GetTemperature()
		timeout = cfg.GetRequestTimeout()
	)

	switch cfg.GetProvider() {
	case config.ProviderOpenAI:
		return NewOpenAI(key, model, temp, timeout), nil
	case config.ProviderAnthropic:
		return NewAnthropic(key, model, temp, timeout), nil
	case config.ProviderOpenRouter:
		return NewOpenRouter(key, model, temp, timeout), nil
	case config.ProviderOllama:
		return NewOllama(cfg.GetBaseURL(), key, model, temp, timeout), nil
	case config.ProviderCustom:
		if cfg.GetBaseURL() == "" {
			return nil, fmt.Errorf("custom provider requires PDFCHAT_CUSTOM_OPENAI_BASE_URL")
		}
		return NewCustomOpenAI(cfg.GetBaseURL(), key, model, temp, timeout), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.GetProvider())
	}
}
