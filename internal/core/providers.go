package core

import (
	"context"
	"encoding/json"
)

type AIProvider interface {
	Chat(ctx context.Context, history []Message, opts ...ChatOption) (Message, error)
}

type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// JSONSchema constrains a chat completion to a single JSON object.
type JSONSchema struct {
	Name   string
	Schema json.RawMessage
}

type ChatOptions struct {
	Temperature *float64
	MaxTokens   int
	Schema      *JSONSchema
}

type ChatOption func(*ChatOptions)

func WithTemperature(t float64) ChatOption {
	return func(o *ChatOptions) {
		o.Temperature = &t
	}
}

func WithMaxTokens(n int) ChatOption {
	return func(o *ChatOptions) {
		o.MaxTokens = n
	}
}

func WithJSONSchema(name string, schema json.RawMessage) ChatOption {
	return func(o *ChatOptions) {
		o.Schema = &JSONSchema{Name: name, Schema: schema}
	}
}

func ApplyChatOptions(opts []ChatOption) ChatOptions {
	var o ChatOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type Model struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContextLength int    `json:"context_length"`
}

// ModelLister is implemented by providers that can enumerate their models.
type ModelLister interface {
	Models(ctx context.Context) ([]Model, error)
}
