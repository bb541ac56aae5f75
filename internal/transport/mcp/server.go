package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/pdfchat/internal/core"
	"github.com/sandevgo/pdfchat/internal/service/ingest"
	"github.com/sandevgo/pdfchat/internal/service/session"
	"github.com/sandevgo/pdfchat/pkg/log"
)

const serverName = "pdfchat"

type Sessions interface {
	Initialize(ctx context.Context, pdfs []ingest.Source, creds session.Credentials) (string, error)
	Ask(ctx context.Context, handle, question string) (string, error)
	History(handle string) ([]core.Turn, error)
	Close(handle string) error
}

// Server exposes document sessions as MCP tools over stdio.
type Server struct {
	sessions Sessions
	mcp      *server.MCPServer
	in       io.Reader
	out      io.Writer
}

func NewServer(sessions Sessions, version string, in io.Reader, out io.Writer) *Server {
	s := &Server{
		sessions: sessions,
		mcp: server.NewMCPServer(serverName, version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		in:  in,
		out: out,
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcpproto.NewTool("load_documents",
		mcpproto.WithDescription("Index local PDF files and open a conversation about them. Returns the session handle used by the other tools."),
		mcpproto.WithArray("paths",
			mcpproto.Required(),
			mcpproto.Description("PDF files or directories containing PDFs"),
			mcpproto.WithStringItems(),
		),
	), s.loadDocuments)

	s.mcp.AddTool(mcpproto.NewTool("ask_documents",
		mcpproto.WithDescription("Ask a question about the loaded documents. Follow-up questions may refer to earlier turns."),
		mcpproto.WithString("session", mcpproto.Required(), mcpproto.Description("Handle returned by load_documents")),
		mcpproto.WithString("question", mcpproto.Required()),
	), s.askDocuments)

	s.mcp.AddTool(mcpproto.NewTool("conversation_history",
		mcpproto.WithDescription("Return the question and answer turns of a session"),
		mcpproto.WithString("session", mcpproto.Required()),
		mcpproto.WithReadOnlyHintAnnotation(true),
	), s.conversationHistory)

	s.mcp.AddTool(mcpproto.NewTool("close_session",
		mcpproto.WithDescription("Discard a session and its index"),
		mcpproto.WithString("session", mcpproto.Required()),
	), s.closeSession)
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("serving mcp over stdio")
	return server.NewStdioServer(s.mcp).Listen(ctx, s.in, s.out)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return nil
}

func (s *Server) loadDocuments(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	paths, err := req.RequireStringSlice("paths")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}

	sources, err := ingest.LoadFiles(paths)
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}

	handle, err := s.sessions.Initialize(ctx, sources, session.Credentials{})
	if err != nil {
		return mcpproto.NewToolResultErrorFromErr("indexing failed", err), nil
	}

	return mcpproto.NewToolResultText(fmt.Sprintf("session: %s\ndocuments: %s",
		handle, strings.Join(ingest.Names(sources), ", "))), nil
}

func (s *Server) askDocuments(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	handle, err := req.RequireString("session")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}
	question, err := req.RequireString("question")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}

	answer, err := s.sessions.Ask(ctx, handle, question)
	if err != nil {
		return mcpproto.NewToolResultErrorFromErr("question failed", err), nil
	}
	return mcpproto.NewToolResultText(answer), nil
}

func (s *Server) conversationHistory(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	handle, err := req.RequireString("session")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}

	turns, err := s.sessions.History(handle)
	if err != nil {
		return mcpproto.NewToolResultErrorFromErr("history unavailable", err), nil
	}
	if turns == nil {
		turns = []core.Turn{}
	}

	data, err := json.Marshal(turns)
	if err != nil {
		return nil, err
	}
	return mcpproto.NewToolResultText(string(data)), nil
}

func (s *Server) closeSession(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	handle, err := req.RequireString("session")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}
	if err := s.sessions.Close(handle); err != nil {
		return mcpproto.NewToolResultErrorFromErr("close failed", err), nil
	}
	return mcpproto.NewToolResultText("closed"), nil
}
