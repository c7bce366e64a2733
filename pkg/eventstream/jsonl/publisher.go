// Package jsonl publishes envelopes as newline-delimited JSON.
package jsonl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/papercomputeco/llmstream/pkg/eventstream"
)

// Publisher writes one JSON envelope per line.
type Publisher struct {
	mu     sync.Mutex
	enc    *json.Encoder
	closer io.Closer
}

// NewPublisher writes to w. Close does not close w.
func NewPublisher(w io.Writer) *Publisher {
	return &Publisher{enc: json.NewEncoder(w)}
}

// Open appends to the file at path, creating it if needed. Close closes the
// file.
func Open(path string) (*Publisher, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening jsonl sink: %w", err)
	}
	return &Publisher{enc: json.NewEncoder(f), closer: f}, nil
}

func (p *Publisher) Publish(_ context.Context, env *eventstream.Envelope) error {
	if env == nil {
		return eventstream.ErrNilEnvelope
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.enc.Encode(env); err != nil {
		return fmt.Errorf("writing envelope: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}
