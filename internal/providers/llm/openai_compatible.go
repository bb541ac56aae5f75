package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sandevgo/pdfchat/internal/core"
)

type OpenAICompatible struct {
	baseProvider
	temperature  float64
	authHeader   string
	authPrefix   string
	extraHeaders map[string]string
}

type OpenAICompatibleConfig struct {
	BaseURL      string
	APIKey       string
	Model        string
	Temperature  float64
	Timeout      time.Duration
	AuthHeader   string // e.g., "Authorization"
	AuthPrefix   string // e.g., "Bearer "
	ExtraHeaders map[string]string
}

func NewOpenAICompatible(cfg OpenAICompatibleConfig) *OpenAICompatible {
	return &OpenAICompatible{
		baseProvider: newBaseProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Timeout),
		temperature:  cfg.Temperature,
		authHeader:   cfg.AuthHeader,
		authPrefix:   cfg.AuthPrefix,
		extraHeaders: cfg.ExtraHeaders,
	}
}

func (o *OpenAICompatible) headers() map[string]string {
	headers := make(map[string]string)
	if o.authHeader != "" && o.apiKey != "" {
		headers[o.authHeader] = o.authPrefix + o.apiKey
	}
	for k, v := range o.extraHeaders {
		headers[k] = v
	}
	return headers
}

type responseFormat struct {
	Type       string             `json:"type"`
	JSONSchema *responseSchemaDef `json:"json_schema,omitempty"`
}

type responseSchemaDef struct {
	Name   string `json:"name"`
	Strict bool   `json:"strict"`
	Schema any    `json:"schema"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []core.Message  `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message core.Message `json:"message"`
	} `json:"choices"`
}

func (o *OpenAICompatible) Chat(ctx context.Context, history []core.Message, opts ...core.ChatOption) (core.Message, error) {
	options := core.ApplyChatOptions(opts)

	payload := chatRequest{
		Model:       o.model,
		Messages:    history,
		Temperature: o.temperature,
		MaxTokens:   options.MaxTokens,
	}
	if options.Temperature != nil {
		payload.Temperature = *options.Temperature
	}
	if options.Schema != nil {
		payload.ResponseFormat = &responseFormat{
			Type: "json_schema",
			JSONSchema: &responseSchemaDef{
				Name:   options.Schema.Name,
				Strict: true,
				Schema: options.Schema.Schema,
			},
		}
	}

	var result chatResponse
	if err := o.doJSON(ctx, http.MethodPost, "/v1/chat/completions", payload, o.headers(), &result); err != nil {
		return core.Message{}, err
	}
	if len(result.Choices) == 0 {
		return core.Message{}, fmt.Errorf("empty choices")
	}

	msg := result.Choices[0].Message
	if msg.Role == "" {
		msg.Role = core.RoleAssistant
	}
	return msg, nil
}

// Models lists models from the /v1/models endpoint shared by the OpenAI-compatible family.
func (o *OpenAICompatible) Models(ctx context.Context) ([]core.Model, error) {
	var apiResp struct {
		Data []struct {
			ID            string `json:"id"`
			Name          string `json:"name"`
			ContextLength int    `json:"context_length"`
		} `json:"data"`
	}

	if err := o.doJSON(ctx, http.MethodGet, "/v1/models", nil, o.headers(), &apiResp); err != nil {
		return nil, fmt.Errorf("fetch models: %w", err)
	}

	models := make([]core.Model, 0, len(apiResp.Data))
	for _, m := range apiResp.Data {
		name := m.Name
		if name == "" {
			name = m.ID
		}
		models = append(models, core.Model{
			ID:            m.ID,
			Name:          name,
			ContextLength: m.ContextLength,
		})
	}
	return models, nil
}
