package rag

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sandevgo/pdfchat/internal/config"
	"github.com/sandevgo/pdfchat/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEmbedder(url string, batch int) *Embedder {
	e := NewEmbedder(url, "sk-test", "text-embedding-3-small", batch, time.Second)
	e.retrier = retry.NewRetrier(&retry.Config{MaxRetries: 1, BackoffFactor: 1, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond})
	return e
}

func TestEmbedder_EmbedDocuments(t *testing.T) {
	var batches [][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		batches = append(batches, req.Input)

		// answer in reverse order; the embedder must realign by index
		var resp embeddingResponse
		for i := len(req.Input) - 1; i >= 0; i-- {
			resp.Data = append(resp.Data, struct {
				Index     int       `json:"index"`
				Embedding []float32 `json:"embedding"`
			}{Index: i, Embedding: []float32{float32(len(req.Input[i])), 1}})
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	vecs, err := newTestEmbedder(srv.URL, 2).EmbedDocuments(context.Background(), texts)
	require.NoError(t, err)

	assert.Len(t, batches, 3)
	require.Len(t, vecs, len(texts))
	for i, v := range vecs {
		assert.Equal(t, float32(len(texts[i])), v[0])
	}
}

func TestEmbedder_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantAuth bool
	}{
		{name: "invalid key", status: http.StatusUnauthorized, body: `{"error":{"message":"Incorrect API key"}}`, wantAuth: true},
		{name: "count mismatch", status: http.StatusOK, body: `{"data":[]}`},
		{name: "bad index", status: http.StatusOK, body: `{"data":[{"index":5,"embedding":[1]}]}`},
		{name: "empty vector", status: http.StatusOK, body: `{"data":[{"index":0,"embedding":[]}]}`},
		{name: "server down", status: http.StatusServiceUnavailable, body: `busy`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestEmbedder(srv.URL, 8).EmbedQuery(context.Background(), "q")
			require.Error(t, err)

			var embErr *EmbeddingError
			assert.Equal(t, tt.wantAuth, errors.As(err, &embErr) && embErr.IsAuth())
		})
	}
}

func TestNewEmbeddingModel(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.RAGConfig
		fallback string
		wantErr  bool
	}{
		{name: "openai with fallback key", cfg: config.RAGConfig{EmbeddingProvider: "openai"}, fallback: "sk"},
		{name: "openai without key", cfg: config.RAGConfig{EmbeddingProvider: "openai"}, wantErr: true},
		{name: "ollama needs no key", cfg: config.RAGConfig{EmbeddingProvider: "ollama"}},
		{name: "custom without url", cfg: config.RAGConfig{EmbeddingProvider: "custom"}, wantErr: true},
		{name: "unknown", cfg: config.RAGConfig{EmbeddingProvider: "cohere"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEmbeddingModel(tt.cfg, tt.fallback, time.Second)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, e)
		})
	}
}
