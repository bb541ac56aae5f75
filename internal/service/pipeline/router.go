package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sandevgo/pdfchat/internal/core"
	"github.com/sandevgo/pdfchat/internal/service/prompt"
)

const routeSchemaName = "route_query"

var routeSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "datasource": {
      "type": "string",
      "enum": ["vectorstore", "memory"],
      "description": "Given a user question choose to route it to memory or a vectorstore."
    }
  },
  "required": ["datasource"],
  "additionalProperties": false
}`)

// Router classifies a question with a single structured-output call.
type Router struct {
	llm core.AIProvider
}

func NewRouter(llm core.AIProvider) *Router {
	return &Router{llm: llm}
}

func (r *Router) Route(ctx context.Context, question, history string) (core.Route, error) {
	system, err := prompt.Router(history)
	if err != nil {
		return "", fmt.Errorf("render router prompt: %w", err)
	}

	msg, err := r.llm.Chat(ctx, []core.Message{
		{Role: core.RoleSystem, Content: system},
		{Role: core.RoleUser, Content: question},
	}, core.WithJSONSchema(routeSchemaName, routeSchema), core.WithTemperature(0))
	if err != nil {
		return "", err
	}

	return parseRoute(msg.Content)
}

// parseRoute accepts the schema object and, for servers that ignore
// response_format, a bare label.
func parseRoute(content string) (core.Route, error) {
	content = strings.TrimSpace(content)

	var out struct {
		Datasource string `json:"datasource"`
	}
	label := content
	if err := json.Unmarshal([]byte(content), &out); err == nil {
		label = out.Datasource
	}

	route := core.Route(strings.ToLower(strings.Trim(strings.TrimSpace(label), `"'.`)))
	if !route.Valid() {
		return "", fmt.Errorf("%w: %q", core.ErrUnknownRoute, content)
	}
	return route, nil
}
