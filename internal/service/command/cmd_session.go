package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sandevgo/pdfchat/internal/core"
)

const defaultHistoryTurns = 10

type HistoryCommand struct {
	sessions  Sessions
	formatter *ResponseFormatter
}

func NewHistoryCommand(sessions Sessions) *HistoryCommand {
	return &HistoryCommand{sessions: sessions, formatter: NewResponseFormatter()}
}

func (c *HistoryCommand) Name() string {
	return "history"
}

func (c *HistoryCommand) Description() string {
	return "Show the conversation so far"
}

func (c *HistoryCommand) Execute(_ context.Context, sessionID string, args []string) (string, error) {
	s, err := c.sessions.Get(sessionID)
	if err != nil {
		return "", err
	}

	limit := defaultHistoryTurns
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return c.formatter.Combine(
				c.formatter.Usage("/history [turns]"),
				c.formatter.Examples([]string{"/history", "/history 3"}),
			), nil
		}
		limit = n
	}

	turns := s.Turns()
	if len(turns) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("History"),
			c.formatter.Tip("Nothing asked yet."),
		), nil
	}

	skipped := 0
	if len(turns) > limit {
		skipped = len(turns) - limit
		turns = turns[skipped:]
	}

	var sb strings.Builder
	for i, t := range turns {
		fmt.Fprintf(&sb, "**%d. %s**\n%s\n\n", skipped+i+1, t.Question, t.Answer)
	}

	return c.formatter.Combine(
		c.formatter.Info("History"),
		c.formatter.Label("Turns", strconv.Itoa(skipped+len(turns))),
		"\n",
		strings.TrimRight(sb.String(), "\n"),
	), nil
}

type ResetCommand struct {
	sessions  Sessions
	formatter *ResponseFormatter
}

func NewResetCommand(sessions Sessions) *ResetCommand {
	return &ResetCommand{sessions: sessions, formatter: NewResponseFormatter()}
}

func (c *ResetCommand) Name() string {
	return "reset"
}

func (c *ResetCommand) Description() string {
	return "Forget the conversation, keep the documents"
}

func (c *ResetCommand) Execute(_ context.Context, sessionID string, _ []string) (string, error) {
	s, err := c.sessions.Get(sessionID)
	if err != nil {
		return "", err
	}
	s.Reset()
	return c.formatter.Success("Conversation cleared"), nil
}

type SourcesCommand struct {
	sessions  Sessions
	formatter *ResponseFormatter
}

func NewSourcesCommand(sessions Sessions) *SourcesCommand {
	return &SourcesCommand{sessions: sessions, formatter: NewResponseFormatter()}
}

func (c *SourcesCommand) Name() string {
	return "sources"
}

func (c *SourcesCommand) Description() string {
	return "List the indexed documents"
}

func (c *SourcesCommand) Execute(_ context.Context, sessionID string, _ []string) (string, error) {
	s, err := c.sessions.Get(sessionID)
	if err != nil {
		return "", err
	}

	docs := s.Documents()
	items := make([]string, len(docs))
	for i, d := range docs {
		items[i] = fmt.Sprintf("`%s`", d)
	}

	return c.formatter.Combine(
		c.formatter.Info("Documents"),
		c.formatter.Label("Segments", strconv.Itoa(s.Segments())),
		"\n",
		c.formatter.List(items),
	), nil
}

// TraceCommand shows how the last answer was produced.
type TraceCommand struct {
	sessions  Sessions
	formatter *ResponseFormatter
}

func NewTraceCommand(sessions Sessions) *TraceCommand {
	return &TraceCommand{sessions: sessions, formatter: NewResponseFormatter()}
}

func (c *TraceCommand) Name() string {
	return "trace"
}

func (c *TraceCommand) Description() string {
	return "Explain how the last answer was produced"
}

func (c *TraceCommand) Execute(_ context.Context, sessionID string, _ []string) (string, error) {
	s, err := c.sessions.Get(sessionID)
	if err != nil {
		return "", err
	}

	res, ok := s.LastResult()
	if !ok {
		return c.formatter.Combine(
			c.formatter.Info("Trace"),
			c.formatter.Tip("Ask a question first."),
		), nil
	}

	stages := make([]string, len(res.Trace))
	for i, st := range res.Trace {
		stages[i] = string(st)
	}

	sections := []string{
		c.formatter.Info("Trace"),
		c.formatter.Label("Route", string(res.Route)),
		c.formatter.Label("Stages", strings.Join(stages, " → ")),
	}
	if res.Route == core.RouteRetrieve {
		sections = append(sections,
			c.formatter.Label("Search query", res.SearchQuery),
			c.formatter.Label("Segments", strconv.Itoa(len(res.Documents))),
		)
		refs := make([]string, len(res.Documents))
		for i, d := range res.Documents {
			refs[i] = fmt.Sprintf("%s p.%d", d.Source, d.Page)
		}
		if len(refs) > 0 {
			sections = append(sections, "\n", c.formatter.List(refs))
		}
	}
	return c.formatter.Combine(sections...), nil
}
