package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sandevgo/pdfchat/internal/core"
)

const ollamaDefaultContext = 32768

type Ollama struct {
	*OpenAICompatible
}

func NewOllama(baseURL, apiKey, model string, temperature float64, timeout time.Duration) *Ollama {
	return &Ollama{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:     baseURL,
			APIKey:      apiKey,
			Model:       model,
			Temperature: temperature,
			Timeout:     timeout,
			AuthHeader:  "Authorization",
			AuthPrefix:  "Bearer ",
		}),
	}
}

// Models lists locally pulled models via /api/tags.
func (o *Ollama) Models(ctx context.Context) ([]core.Model, error) {
	var result struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}

	if err := o.doJSON(ctx, http.MethodGet, "/api/tags", nil, o.headers(), &result); err != nil {
		return nil, fmt.Errorf("ollama not available: %w", err)
	}

	models := make([]core.Model, 0, len(result.Models))
	for _, m := range result.Models {
		models = append(models, core.Model{
			ID:            m.Name,
			Name:          m.Name,
			ContextLength: ollamaDefaultContext,
		})
	}
	return models, nil
}
