package eventstream

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// SchemaVersionV1 is the first version of the envelope schema.
	SchemaVersionV1 = 1

	// EventTypeStreamEvent is emitted for every decoded stream event.
	EventTypeStreamEvent = "llmstream.stream.event"
)

// Envelope is a transport-neutral wrapper around one decoded stream event.
type Envelope struct {
	SchemaVersion int             `json:"schema_version"`
	EventType     string          `json:"event_type"`
	EventID       string          `json:"event_id"`
	EmittedAt     time.Time       `json:"emitted_at"`
	Source        EventSource     `json:"source"`
	Sequence      int64           `json:"sequence"`
	Event         json.RawMessage `json:"event"`
}

// EventSource identifies the stream an event was decoded from.
type EventSource struct {
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
	StreamID string `json:"stream_id"`
}

// NewEnvelope encodes event and wraps it with a fresh event id.
func NewEnvelope(source EventSource, sequence int64, event any) (*Envelope, error) {
	raw, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encoding event: %w", err)
	}

	return &Envelope{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeStreamEvent,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source:        source,
		Sequence:      sequence,
		Event:         raw,
	}, nil
}
