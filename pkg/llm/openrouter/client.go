package openrouter

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/papercomputeco/llmstream/pkg/llm/stream"
	"github.com/papercomputeco/llmstream/pkg/llm/transport"
	"github.com/papercomputeco/llmstream/pkg/logger"
	"github.com/papercomputeco/llmstream/pkg/sse"
)

const (
	// Path is the chat completions endpoint relative to the API base URL.
	Path = "/chat/completions"

	// HeaderReferer and HeaderTitle attribute requests to an app on
	// openrouter.ai rankings.
	HeaderReferer = "HTTP-Referer"
	HeaderTitle   = "X-Title"
)

// Stream is a live chat completion chunk stream. Close it when done.
type Stream = stream.Stream[ChatChunk]

// Client opens streaming chat completions against OpenRouter.
type Client struct {
	transport *transport.Client
	decoder   *ChunkDecoder
	logger    *slog.Logger
	recorder  io.Writer
}

type ClientOption func(*Client)

func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger.OrNop(l)
	}
}

// WithRecorder copies every raw stream line to w as it is read.
func WithRecorder(w io.Writer) ClientOption {
	return func(c *Client) {
		c.recorder = w
	}
}

func NewClient(t *transport.Client, opts ...ClientOption) *Client {
	c := &Client{
		transport: t,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.decoder = NewChunkDecoder(c.logger)
	return c
}

// AttributionOptions returns the transport options that set OpenRouter's
// app attribution headers. Empty values are skipped.
func AttributionOptions(appURL, appTitle string) []transport.Option {
	return []transport.Option{
		transport.WithHeader(HeaderReferer, appURL),
		transport.WithHeader(HeaderTitle, appTitle),
	}
}

// ChatCompletionStream sends req with streaming enabled and returns the chunk
// stream. Usage reporting is requested unless req sets StreamOptions. req
// itself is not modified.
func (c *Client) ChatCompletionStream(ctx context.Context, req *ChatRequest) (*Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body := *req
	body.Stream = true
	if body.StreamOptions == nil {
		body.StreamOptions = &StreamOptions{IncludeUsage: true}
	}

	rc, err := c.transport.PostStream(ctx, Path, &body)
	if err != nil {
		return nil, fmt.Errorf("open chat completion stream: %w", err)
	}

	var lineOpts []sse.Option
	if c.recorder != nil {
		lineOpts = append(lineOpts, sse.WithTee(c.recorder))
	}

	return stream.NewStream[ChatChunk](
		rc,
		sse.NewLineReader(rc, lineOpts...),
		c.decoder,
		stream.WithLogger(c.logger),
	), nil
}
