package eventstream

import "context"

// Publisher publishes envelopes to an event stream backend.
type Publisher interface {
	Publish(ctx context.Context, env *Envelope) error
	Close() error
}
