package nop

import (
	"context"

	"github.com/papercomputeco/llmstream/pkg/eventstream"
)

// Publisher is a no-op eventstream publisher used for tests and disabled mode.
type Publisher struct{}

// NewPublisher creates a new no-op eventstream publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// Publish validates input and otherwise does nothing.
func (p *Publisher) Publish(_ context.Context, env *eventstream.Envelope) error {
	if env == nil {
		return eventstream.ErrNilEnvelope
	}

	return nil
}

// Close is a no-op.
func (p *Publisher) Close() error {
	return nil
}
