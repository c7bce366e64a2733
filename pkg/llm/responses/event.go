// Package responses models the OpenAI Responses API streaming protocol: the
// typed StreamEvent, the tolerant line Decoder, the request body and a
// streaming Client.
package responses

import "github.com/papercomputeco/llmstream/pkg/jsonvalue"

// EventType is the "type" discriminant of a stream event.
type EventType string

const (
	EventResponseCreated    EventType = "response.created"
	EventResponseInProgress EventType = "response.in_progress"
	EventResponseQueued     EventType = "response.queued"
	EventResponseCompleted  EventType = "response.completed"
	EventResponseFailed     EventType = "response.failed"
	EventResponseIncomplete EventType = "response.incomplete"

	EventOutputItemAdded  EventType = "response.output_item.added"
	EventOutputItemDone   EventType = "response.output_item.done"
	EventContentPartAdded EventType = "response.content_part.added"
	EventContentPartDone  EventType = "response.content_part.done"

	EventOutputTextDelta           EventType = "response.output_text.delta"
	EventOutputTextDone            EventType = "response.output_text.done"
	EventOutputTextAnnotationAdded EventType = "response.output_text.annotation.added"

	EventRefusalDelta EventType = "response.refusal.delta"
	EventRefusalDone  EventType = "response.refusal.done"

	EventFunctionCallArgumentsDelta EventType = "response.function_call_arguments.delta"
	EventFunctionCallArgumentsDone  EventType = "response.function_call_arguments.done"

	EventReasoningSummaryTextDelta EventType = "response.reasoning_summary_text.delta"
	EventReasoningSummaryTextDone  EventType = "response.reasoning_summary_text.done"

	EventError EventType = "error"
)

// IsLifecycle reports whether events of this type carry a "response" object.
func (t EventType) IsLifecycle() bool {
	switch t {
	case EventResponseCreated, EventResponseInProgress, EventResponseQueued,
		EventResponseCompleted, EventResponseFailed, EventResponseIncomplete:
		return true
	}
	return false
}

// StreamEvent is one decoded frame of a Responses stream.
//
// All fields except Type are optional and which ones are meaningful depends on
// Type alone. Read them through the accessor methods, which check Type before
// returning anything. A StreamEvent is never mutated after decoding. Its JSON
// form uses the wire member names and is what the decode command prints.
type StreamEvent struct {
	Type           EventType `json:"type"`
	SequenceNumber *int      `json:"sequence_number,omitempty"`

	Delta        *string `json:"delta,omitempty"`
	ItemID       *string `json:"item_id,omitempty"`
	OutputIndex  *int    `json:"output_index,omitempty"`
	ContentIndex *int    `json:"content_index,omitempty"`

	Response   *jsonvalue.Value `json:"response,omitempty"`
	ResponseID *string          `json:"response_id,omitempty"`

	Text      *string `json:"text,omitempty"`
	Refusal   *string `json:"refusal,omitempty"`
	Arguments *string `json:"arguments,omitempty"`
	Name      *string `json:"name,omitempty"`

	Item            *jsonvalue.Value `json:"item,omitempty"`
	Part            *jsonvalue.Value `json:"part,omitempty"`
	Annotation      *jsonvalue.Value `json:"annotation,omitempty"`
	AnnotationIndex *int             `json:"annotation_index,omitempty"`

	// Code, Message and Param are the top-level members of "error" events.
	Code    *string `json:"code,omitempty"`
	Message *string `json:"message,omitempty"`
	Param   *string `json:"param,omitempty"`
}

// FunctionCall is a completed tool invocation surfaced by the stream.
type FunctionCall struct {
	ItemID    string
	CallID    string
	Name      string
	Arguments string
}

// Usage is token accounting reported on lifecycle events.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
