package command

import (
	"context"
	"strconv"
	"strings"

	"github.com/sandevgo/pdfchat/internal/service/ingest"
)

// LoadCommand replaces the session documents with PDFs from the local disk.
// The conversation is kept.
type LoadCommand struct {
	sessions  Sessions
	formatter *ResponseFormatter
}

func NewLoadCommand(sessions Sessions) *LoadCommand {
	return &LoadCommand{sessions: sessions, formatter: NewResponseFormatter()}
}

func (c *LoadCommand) Name() string {
	return "load"
}

func (c *LoadCommand) Description() string {
	return "Re-index the session from local PDF files"
}

func (c *LoadCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if len(args) == 0 {
		return c.formatter.Combine(
			c.formatter.Usage("/load <file.pdf|dir> ..."),
			c.formatter.Examples([]string{"/load handbook.pdf", "/load ./contracts"}),
		), nil
	}

	s, err := c.sessions.Get(sessionID)
	if err != nil {
		return "", err
	}

	sources, err := ingest.LoadFiles(args)
	if err != nil {
		return "", err
	}
	if err := s.Reingest(ctx, sources); err != nil {
		return "", err
	}

	return c.formatter.Combine(
		c.formatter.Success("Documents re-indexed"),
		c.formatter.Label("Documents", strings.Join(s.Documents(), ", ")),
		c.formatter.Label("Segments", strconv.Itoa(s.Segments())),
	), nil
}
