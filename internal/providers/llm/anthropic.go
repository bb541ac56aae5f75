package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sandevgo/pdfchat/internal/core"
)

const (
	anthropicBaseURL    = "https://api.anthropic.com"
	anthropicVersion    = "2023-06-01"
	anthropicMaxTokens  = 4096
	anthropicToolPrefix = "emit_"
)

type Anthropic struct {
	baseProvider
	temperature float64
}

func NewAnthropic(apiKey, model string, temperature float64, timeout time.Duration) *Anthropic {
	return &Anthropic{
		baseProvider: newBaseProvider(anthropicBaseURL, apiKey, model, timeout),
		temperature:  temperature,
	}
}

func (a *Anthropic) headers() map[string]string {
	return map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": anthropicVersion,
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicTool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Tools       []anthropicTool    `json:"tools,omitempty"`
	ToolChoice  map[string]string  `json:"tool_choice,omitempty"`
}

// Chat sends history to the Messages API. System messages are joined into
// the top-level system field. A JSON schema option is served by forcing a
// single tool call and returning its input as the message content.
func (a *Anthropic) Chat(ctx context.Context, history []core.Message, opts ...core.ChatOption) (core.Message, error) {
	options := core.ApplyChatOptions(opts)

	var system []string
	messages := make([]anthropicMessage, 0, len(history))
	for _, m := range history {
		if m.Role == core.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		messages = append(messages, anthropicMessage{Role: m.Role, Content: m.Content})
	}

	payload := anthropicRequest{
		Model:       a.model,
		MaxTokens:   anthropicMaxTokens,
		Temperature: a.temperature,
		System:      strings.Join(system, "\n\n"),
		Messages:    messages,
	}
	if options.MaxTokens > 0 {
		payload.MaxTokens = options.MaxTokens
	}
	if options.Temperature != nil {
		payload.Temperature = *options.Temperature
	}

	var toolName string
	if options.Schema != nil {
		toolName = anthropicToolPrefix + options.Schema.Name
		payload.Tools = []anthropicTool{{
			Name:        toolName,
			Description: "Report the result in the required structure.",
			InputSchema: options.Schema.Schema,
		}}
		payload.ToolChoice = map[string]string{"type": "tool", "name": toolName}
	}

	var result struct {
		Content []struct {
			Type  string          `json:"type"`
			Text  string          `json:"text"`
			Name  string          `json:"name"`
			Input json.RawMessage `json:"input"`
		} `json:"content"`
	}
	if err := a.doJSON(ctx, http.MethodPost, "/v1/messages", payload, a.headers(), &result); err != nil {
		return core.Message{}, err
	}

	var text strings.Builder
	for _, c := range result.Content {
		switch {
		case c.Type == "tool_use" && c.Name == toolName:
			return core.Message{Role: core.RoleAssistant, Content: string(c.Input)}, nil
		case c.Type == "text":
			text.WriteString(c.Text)
		}
	}

	if toolName != "" {
		return core.Message{}, fmt.Errorf("model did not call %s", toolName)
	}
	return core.Message{Role: core.RoleAssistant, Content: text.String()}, nil
}

func (a *Anthropic) Models(ctx context.Context) ([]core.Model, error) {
	var models []core.Model
	afterID := ""

	for {
		path := "/v1/models?limit=1000"
		if afterID != "" {
			path = fmt.Sprintf("%s&after_id=%s", path, url.QueryEscape(afterID))
		}

		var result struct {
			Data []struct {
				ID          string `json:"id"`
				DisplayName string `json:"display_name"`
				Type        string `json:"type"`
			} `json:"data"`
			HasMore bool   `json:"has_more"`
			LastID  string `json:"last_id"`
		}
		if err := a.doJSON(ctx, http.MethodGet, path, nil, a.headers(), &result); err != nil {
			return nil, err
		}

		for _, m := range result.Data {
			if m.Type == "model" {
				models = append(models, core.Model{ID: m.ID, Name: m.DisplayName})
			}
		}

		if !result.HasMore {
			break
		}
		afterID = result.LastID
	}

	return models, nil
}
