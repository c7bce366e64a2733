package eventstream

import (
	"context"

	"github.com/google/uuid"
)

// Emitter stamps events from one stream with a shared source and an
// increasing sequence number before publishing them. It is not safe for
// concurrent use; a stream has a single consumer.
type Emitter struct {
	publisher Publisher
	source    EventSource
	next      int64
}

// NewEmitter returns an Emitter for one stream. An empty StreamID is filled
// with a new uuid.
func NewEmitter(p Publisher, source EventSource) *Emitter {
	if source.StreamID == "" {
		source.StreamID = uuid.NewString()
	}
	return &Emitter{publisher: p, source: source}
}

// Emit wraps event in an Envelope and publishes it.
func (e *Emitter) Emit(ctx context.Context, event any) error {
	env, err := NewEnvelope(e.source, e.next, event)
	if err != nil {
		return err
	}
	if err := e.publisher.Publish(ctx, env); err != nil {
		return err
	}
	e.next++
	return nil
}

// Source returns the stamped source, including the generated stream id.
func (e *Emitter) Source() EventSource {
	return e.source
}
