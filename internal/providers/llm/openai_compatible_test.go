package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sandevgo/pdfchat/internal/core"
	"github.com/sandevgo/pdfchat/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetrier() *retry.Retrier {
	return retry.NewRetrier(&retry.Config{
		MaxRetries:    2,
		BackoffFactor: 1,
		InitialDelay:  time.Millisecond,
		MaxDelay:      time.Millisecond,
	})
}

func newTestCompatible(url string) *OpenAICompatible {
	p := NewOpenAICompatible(OpenAICompatibleConfig{
		BaseURL:    url,
		APIKey:     "sk-test",
		Model:      "gpt-test",
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
	})
	p.retrier = fastRetrier()
	return p
}

func TestOpenAICompatible_Chat(t *testing.T) {
	var got chatRequest
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"datasource\":\"vectorstore\"}"}}]}`))
	}))
	defer srv.Close()

	p := newTestCompatible(srv.URL)
	schema := json.RawMessage(`{"type":"object"}`)
	msg, err := p.Chat(context.Background(),
		[]core.Message{{Role: core.RoleSystem, Content: "route"}, {Role: core.RoleUser, Content: "q"}},
		core.WithJSONSchema("route_query", schema),
		core.WithTemperature(0.3),
		core.WithMaxTokens(64),
	)
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, core.RoleAssistant, msg.Role)
	assert.JSONEq(t, `{"datasource":"vectorstore"}`, msg.Content)

	assert.Equal(t, "gpt-test", got.Model)
	assert.Len(t, got.Messages, 2)
	assert.InDelta(t, 0.3, got.Temperature, 1e-9)
	assert.Equal(t, 64, got.MaxTokens)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_schema", got.ResponseFormat.Type)
	assert.Equal(t, "route_query", got.ResponseFormat.JSONSchema.Name)
	assert.True(t, got.ResponseFormat.JSONSchema.Strict)
}

func TestOpenAICompatible_ChatErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantAuth  bool
		wantCalls int
	}{
		{name: "unauthorized is not retried", status: http.StatusUnauthorized, body: `{"error":"bad key"}`, wantAuth: true, wantCalls: 1},
		{name: "bad request is not retried", status: http.StatusBadRequest, body: `{}`, wantCalls: 1},
		{name: "server error is retried", status: http.StatusBadGateway, body: `oops`, wantCalls: 3},
		{name: "empty choices", status: http.StatusOK, body: `{"choices":[]}`, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestCompatible(srv.URL).Chat(context.Background(), []core.Message{{Role: core.RoleUser, Content: "hi"}})
			require.Error(t, err)
			assert.Equal(t, tt.wantAuth, IsAuthError(err))
			assert.Equal(t, tt.wantCalls, calls)
		})
	}
}

func TestOpenAICompatible_Models(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"id":"gpt-4o-mini"},{"id":"x/y","name":"Y","context_length":8192}]}`))
	}))
	defer srv.Close()

	models, err := newTestCompatible(srv.URL).Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.Model{
		{ID: "gpt-4o-mini", Name: "gpt-4o-mini"},
		{ID: "x/y", Name: "Y", ContextLength: 8192},
	}, models)
}

func TestOllama_Models(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3.1:8b"}]}`))
	}))
	defer srv.Close()

	o := NewOllama(srv.URL, "", "llama3.1:8b", 0, time.Second)
	models, err := o.Models(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "llama3.1:8b", models[0].ID)
	assert.Equal(t, ollamaDefaultContext, models[0].ContextLength)
}
