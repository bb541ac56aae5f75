package llm

import (
	"context"
	"testing"

	"github.com/sandevgo/pdfchat/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.AppConfig
		want    any
		wantErr bool
	}{
		{name: "openai", cfg: config.AppConfig{Provider: "openai"}, want: &OpenAI{}},
		{name: "case insensitive", cfg: config.AppConfig{Provider: "OpenAI"}, want: &OpenAI{}},
		{name: "anthropic", cfg: config.AppConfig{Provider: "anthropic"}, want: &Anthropic{}},
		{name: "openrouter", cfg: config.AppConfig{Provider: "openrouter"}, want: &OpenRouter{}},
		{name: "ollama", cfg: config.AppConfig{Provider: "ollama", OllamaBaseURL: "http://localhost:11434"}, want: &Ollama{}},
		{name: "custom", cfg: config.AppConfig{Provider: "custom", CustomOpenAIBaseURL: "http://vllm:8000"}, want: &CustomOpenAI{}},
		{name: "custom without url", cfg: config.AppConfig{Provider: "custom"}, wantErr: true},
		{name: "unknown", cfg: config.AppConfig{Provider: "gemini"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(context.Background(), tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, p)
		})
	}
}
