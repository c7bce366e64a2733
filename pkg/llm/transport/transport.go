// Package transport is the HTTP layer shared by the provider clients. It
// sends a JSON request body and hands back the raw streaming response body;
// decoding is the caller's job.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/llmstream/pkg/logger"
)

// RequestIDHeader carries a client generated id on every request.
const RequestIDHeader = "X-Request-Id"

// ErrNilBody is returned when a request is sent without a body.
var ErrNilBody = errors.New("request body is required")

// APIError is a non-2xx response from a provider.
type APIError struct {
	StatusCode int
	Body       string
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Body)
}

// Client posts JSON to one provider base URL.
type Client struct {
	baseURL    string
	apiKey     string
	headers    http.Header
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sends key as a bearer token.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHeader adds a header to every request. Empty values are ignored.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		if value == "" {
			return
		}
		c.headers.Set(key, value)
	}
}

// WithTimeout bounds each request including reading the streamed body.
// Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient sends requests through a copy of hc. Its transport is
// shared; later options such as WithTimeout change only the copy.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			cp := *hc
			c.httpClient = &cp
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger.OrNop(l)
	}
}

// New returns a Client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		headers:    http.Header{},
		httpClient: &http.Client{},
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL joins path onto the base URL unless the base already ends with it.
func (c *Client) URL(path string) string {
	path = "/" + strings.TrimLeft(path, "/")
	if strings.HasSuffix(c.baseURL, path) {
		return c.baseURL
	}
	return c.baseURL + path
}

// PostStream sends body as JSON to path and returns the open response body.
// The caller must close it. Cancelling ctx aborts the request and any
// pending body read.
func (c *Client) PostStream(ctx context.Context, path string, body any) (io.ReadCloser, error) {
	if body == nil {
		return nil, ErrNilBody
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(path), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	for key, values := range c.headers {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set(RequestIDHeader, requestID)
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.logger.Debug("sending request",
		"url", httpReq.URL.String(),
		"request_id", requestID,
		"bytes", len(payload),
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		data, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("read error body: %w", readErr)
		}
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
			RequestID:  requestID,
		}
	}

	c.logger.Debug("stream opened",
		"request_id", requestID,
		"status", resp.StatusCode,
		"content_type", resp.Header.Get("Content-Type"),
	)
	return resp.Body, nil
}
