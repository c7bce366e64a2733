package responses

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

// Path is the Responses endpoint relative to the API base URL.
const Path = "/responses"

// Stream is a live Responses event stream. Close it when done.
type Stream = stream.Stream[StreamEvent]

// Client opens streaming Responses calls.
type Client struct {
	transport *transport.Client
	decoder   *Decoder
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
	c.decoder = NewDecoder(c.logger)
	return c
}

// Stream sends req with streaming enabled and returns the event stream. req
// itself is not modified.
func (c *Client) Stream(ctx context.Context, req *Request) (*Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body := *req
	body.Stream = true

	rc, err := c.transport.PostStream(ctx, Path, &body)
	if err != nil {
		return nil, fmt.Errorf("open responses stream: %w", err)
	}

	var lineOpts []sse.Option
	if c.recorder != nil {
		lineOpts = append(lineOpts, sse.WithTee(c.recorder))
	}

	return stream.NewStream[StreamEvent](
		rc,
		sse.NewLineReader(rc, lineOpts...),
		c.decoder,
		stream.WithLogger(c.logger),
	), nil
}
