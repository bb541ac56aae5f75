package rag

import (
	"fmt"
	"time"

	"github.com/sandevgo/pdfchat/internal/config"
	"github.com/sandevgo/pdfchat/internal/core"
)

const (
	openAIEmbeddingsURL = "https://api.openai.com"
	ollamaEmbeddingsURL = "http://localhost:11434"
)

// NewEmbeddingModel builds the embedder selected by cfg. fallbackKey is used
// when no dedicated embedding key is configured.
func NewEmbeddingModel(cfg core.EmbeddingConfig, fallbackKey string, timeout time.Duration) (core.Embedder, error) {
	key := cfg.GetEmbeddingAPIKey()
	if key == "" {
		key = fallbackKey
	}

	baseURL := cfg.GetEmbeddingBaseURL()
	switch cfg.GetEmbeddingProvider() {
	case config.ProviderOpenAI:
		if baseURL == "" {
			baseURL = openAIEmbeddingsURL
		}
		if key == "" {
			return nil, fmt.Errorf("openai embeddings require an API key")
		}
	case config.ProviderOllama:
		if baseURL == "" {
			baseURL = ollamaEmbeddingsURL
		}
	case config.ProviderCustom:
		if baseURL == "" {
			return nil, fmt.Errorf("custom embeddings require PDFCHAT_EMBEDDING_BASE_URL")
		}
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.GetEmbeddingProvider())
	}

	return NewEmbedder(baseURL, key, cfg.GetEmbeddingModel(), cfg.GetEmbeddingBatchSize(), timeout), nil
}
