package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sandevgo/pdfchat/internal/core"
	"github.com/sandevgo/pdfchat/pkg/log"
	"github.com/sandevgo/pdfchat/pkg/retry"
)

const defaultBatchSize = 64

// EmbeddingError is a non-2xx answer from the embeddings endpoint.
type EmbeddingError struct {
	StatusCode int
	Body       string
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embeddings http %d: %s", e.StatusCode, e.Body)
}

func (e *EmbeddingError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// Embedder calls an OpenAI-compatible /v1/embeddings endpoint.
type Embedder struct {
	client    *http.Client
	retrier   *retry.Retrier
	baseURL   string
	apiKey    string
	model     string
	batchSize int
}

func NewEmbedder(baseURL, apiKey, model string, batchSize int, timeout time.Duration) *Embedder {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Embedder{
		client:    &http.Client{Timeout: timeout},
		retrier:   retry.NewDefaultRetrier(),
		baseURL:   baseURL,
		apiKey:    apiKey,
		model:     model,
		batchSize: batchSize,
	}
}

// EmbedDocuments embeds texts in batches. The result is aligned with texts.
func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := min(start+e.batchSize, len(texts))

		log.FromCtx(ctx).Debug().
			Int("from", start).
			Int("to", end).
			Int("total", len(texts)).
			Msg("embedding batch")

		vecs, err := e.embed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (e *Embedder) embed(ctx context.Context, batch []string) ([][]float32, error) {
	body, err := json.Marshal(embeddingRequest{Model: e.model, Input: batch})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	var result embeddingResponse
	err = e.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/v1/embeddings", bytes.NewReader(body))
		if err != nil {
			return retry.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", core.AppUserAgent)
		if e.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+e.apiKey)
		}

		resp, err := e.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return retry.Permanent(ctx.Err())
			}
			return fmt.Errorf("request: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			embErr := &EmbeddingError{StatusCode: resp.StatusCode, Body: string(data)}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return embErr
			}
			return retry.Permanent(embErr)
		}

		result = embeddingResponse{}
		if err := json.Unmarshal(data, &result); err != nil {
			return retry.Permanent(fmt.Errorf("decode: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(result.Data) != len(batch) {
		return nil, fmt.Errorf("embeddings: got %d vectors for %d inputs", len(result.Data), len(batch))
	}

	vecs := make([][]float32, len(batch))
	for _, d := range result.Data {
		if d.Index < 0 || d.Index >= len(batch) || vecs[d.Index] != nil {
			return nil, fmt.Errorf("embeddings: unexpected index %d", d.Index)
		}
		if len(d.Embedding) == 0 {
			return nil, fmt.Errorf("embeddings: empty vector at index %d", d.Index)
		}
		vecs[d.Index] = d.Embedding
	}
	return vecs, nil
}
