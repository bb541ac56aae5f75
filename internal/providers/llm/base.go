package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sandevgo/pdfchat/internal/core"
	"github.com/sandevgo/pdfchat/pkg/retry"
)

const defaultRequestTimeout = 120 * time.Second

// APIError is a non-2xx answer from a remote model endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Body)
}

// IsAuth reports whether the endpoint rejected the credentials.
func (e *APIError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

func (e *APIError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// IsAuthError reports whether err carries an APIError caused by bad credentials.
func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsAuth()
}

type baseProvider struct {
	client  *http.Client
	retrier *retry.Retrier
	baseURL string
	apiKey  string
	model   string
}

func newBaseProvider(baseURL, apiKey, model string, timeout time.Duration) baseProvider {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return baseProvider{
		client: &http.Client{
			Timeout: timeout,
		},
		retrier: retry.NewDefaultRetrier(),
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
	}
}

func (b *baseProvider) doRequest(ctx context.Context, method, path string, body any, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", core.AppUserAgent)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	return resp, nil
}

// doJSON performs the request with retries and decodes a 200 response into out.
// Client errors other than 429 are returned at once as *APIError.
func (b *baseProvider) doJSON(ctx context.Context, method, path string, body any, headers map[string]string, out any) error {
	return b.retrier.Do(ctx, func() error {
		resp, err := b.doRequest(ctx, method, path, body, headers)
		if err != nil {
			if ctx.Err() != nil {
				return retry.Permanent(ctx.Err())
			}
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(data)}
			if apiErr.retryable() {
				return apiErr
			}
			return retry.Permanent(apiErr)
		}

		if err := json.Unmarshal(data, out); err != nil {
			return retry.Permanent(fmt.Errorf("decode: %w", err))
		}
		return nil
	})
}
