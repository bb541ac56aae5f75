package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sandevgo/pdfchat/internal/core"
	"github.com/sandevgo/pdfchat/internal/service/session"
	"github.com/stretchr/testify/assert"
)

type echoCommand struct {
	gotSession string
	gotArgs    []string
	err        error
}

func (e *echoCommand) Name() string        { return "echo" }
func (e *echoCommand) Description() string { return "Echo arguments" }

func (e *echoCommand) Execute(_ context.Context, sessionID string, args []string) (string, error) {
	e.gotSession, e.gotArgs = sessionID, args
	return "echoed", e.err
}

type noSessions struct{}

func (noSessions) Get(string) (*session.Session, error) {
	return nil, core.ErrSessionNotFound
}

type staticConfig struct{}

func (staticConfig) GetProvider() string { return "anthropic" }
func (staticConfig) GetModel() string    { return "claude-3-5-haiku-latest" }
func (staticConfig) GetAPIKey() string   { return "" }
func (staticConfig) GetBaseURL() string  { return "" }
func (staticConfig) GetTemperature() float64 { return 0 }

func (staticConfig) GetRequestTimeout() time.Duration { return time.Minute }

func TestRouter_Execute(t *testing.T) {
	echo := &echoCommand{}
	r := New([]core.Command{echo})

	tests := []struct {
		name    string
		input   string
		handled bool
		want    string
	}{
		{"plain question", "what is the refund policy?", false, ""},
		{"command with args", "/echo a b", true, "echoed"},
		{"bot suffix", "/echo@pdfchat_bot", true, "echoed"},
		{"unknown", "/nope", true, "Unknown command: /nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, handled := r.Execute(context.Background(), "s1", tt.input)
			assert.Equal(t, tt.handled, handled)
			assert.Contains(t, out, tt.want)
		})
	}

	r.Execute(context.Background(), "s1", "/echo x y")
	assert.Equal(t, "s1", echo.gotSession)
	assert.Equal(t, []string{"x", "y"}, echo.gotArgs)
}

func TestRouter_CommandError(t *testing.T) {
	r := New([]core.Command{&echoCommand{err: errors.New("boom")}})
	out, handled := r.Execute(context.Background(), "s1", "/echo")
	assert.True(t, handled)
	assert.Contains(t, out, "/echo failed")
	assert.Contains(t, out, "boom")
}

func TestRouter_HelpListsSorted(t *testing.T) {
	r := New(NewCommands(staticConfig{}, noSessions{}))

	var names []string
	for _, c := range r.ListCommands() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"help", "history", "load", "model", "reset", "sources", "trace"}, names)

	out, handled := r.Execute(context.Background(), "", "/help")
	assert.True(t, handled)
	assert.Contains(t, out, "**/sources**")
}

func TestSessionCommands_UnknownSession(t *testing.T) {
	r := New(NewCommands(staticConfig{}, noSessions{}))
	for _, name := range []string{"/history", "/reset", "/sources", "/trace"} {
		out, handled := r.Execute(context.Background(), "missing", name)
		assert.True(t, handled)
		assert.Contains(t, out, core.ErrSessionNotFound.Error(), name)
	}
}

func TestModelCommand(t *testing.T) {
	out, err := NewModelCommand(staticConfig{}).Execute(context.Background(), "", nil)
	assert.NoError(t, err)
	assert.Contains(t, out, "`anthropic`")
	assert.Contains(t, out, "`claude-3-5-haiku-latest`")
}
