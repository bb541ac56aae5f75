package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/sandevgo/pdfchat/internal/core"
	"github.com/sandevgo/pdfchat/internal/service/ingest"
	"github.com/sandevgo/pdfchat/internal/service/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct {
	loaded []string
	turns  []core.Turn
	closed bool
}

func (f *fakeSessions) Initialize(_ context.Context, pdfs []ingest.Source, _ session.Credentials) (string, error) {
	f.loaded = ingest.Names(pdfs)
	return "h1", nil
}

func (f *fakeSessions) Ask(_ context.Context, handle, question string) (string, error) {
	if handle != "h1" {
		return "", core.ErrSessionNotFound
	}
	f.turns = append(f.turns, core.Turn{Question: question, Answer: "42"})
	return "42", nil
}

func (f *fakeSessions) History(handle string) ([]core.Turn, error) {
	if handle != "h1" {
		return nil, core.ErrSessionNotFound
	}
	return f.turns, nil
}

func (f *fakeSessions) Close(string) error {
	f.closed = true
	return nil
}

func call(name string, args map[string]any) mcpproto.CallToolRequest {
	req := mcpproto.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcpproto.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcpproto.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestServer_Tools(t *testing.T) {
	ctx := context.Background()
	pdf := filepath.Join(t.TempDir(), "manual.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF"), 0o600))

	fake := &fakeSessions{}
	s := NewServer(fake, "test", nil, nil)

	res, err := s.loadDocuments(ctx, call("load_documents", map[string]any{"paths": []any{pdf}}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), "session: h1")
	assert.Equal(t, []string{"manual.pdf"}, fake.loaded)

	res, err = s.askDocuments(ctx, call("ask_documents", map[string]any{"session": "h1", "question": "meaning?"}))
	require.NoError(t, err)
	assert.Equal(t, "42", text(t, res))

	res, err = s.conversationHistory(ctx, call("conversation_history", map[string]any{"session": "h1"}))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"question":"meaning?","answer":"42"}]`, text(t, res))

	res, err = s.closeSession(ctx, call("close_session", map[string]any{"session": "h1"}))
	require.NoError(t, err)
	assert.True(t, fake.closed)
}

func TestServer_ToolErrors(t *testing.T) {
	ctx := context.Background()
	s := NewServer(&fakeSessions{}, "test", nil, nil)

	tests := []struct {
		name string
		run  func() (*mcpproto.CallToolResult, error)
	}{
		{"missing question", func() (*mcpproto.CallToolResult, error) {
			return s.askDocuments(ctx, call("ask_documents", map[string]any{"session": "h1"}))
		}},
		{"unknown session", func() (*mcpproto.CallToolResult, error) {
			return s.askDocuments(ctx, call("ask_documents", map[string]any{"session": "nope", "question": "q"}))
		}},
		{"missing file", func() (*mcpproto.CallToolResult, error) {
			return s.loadDocuments(ctx, call("load_documents", map[string]any{"paths": []any{"/does/not/exist.pdf"}}))
		}},
		{"history of unknown session", func() (*mcpproto.CallToolResult, error) {
			return s.conversationHistory(ctx, call("conversation_history", map[string]any{"session": "nope"}))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.run()
			require.NoError(t, err)
			assert.True(t, res.IsError)
		})
	}
}
