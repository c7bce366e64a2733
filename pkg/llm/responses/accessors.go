package responses

import "github.com/papercomputeco/llmstream/pkg/jsonvalue"

// TextDelta returns the output text fragment of a response.output_text.delta
// event.
func (e *StreamEvent) TextDelta() (string, bool) {
	return e.stringFor(EventOutputTextDelta, e.Delta)
}

func (e *StreamEvent) RefusalDelta() (string, bool) {
	return e.stringFor(EventRefusalDelta, e.Delta)
}

func (e *StreamEvent) ArgumentsDelta() (string, bool) {
	return e.stringFor(EventFunctionCallArgumentsDelta, e.Delta)
}

func (e *StreamEvent) ReasoningSummaryDelta() (string, bool) {
	return e.stringFor(EventReasoningSummaryTextDelta, e.Delta)
}

// TextDone returns the full text of a finished output_text content part.
func (e *StreamEvent) TextDone() (string, bool) {
	return e.stringFor(EventOutputTextDone, e.Text)
}

func (e *StreamEvent) RefusalDone() (string, bool) {
	return e.stringFor(EventRefusalDone, e.Refusal)
}

// FunctionCall returns the tool invocation carried by a
// response.function_call_arguments.done event, or by an output item event
// whose item is a function_call.
func (e *StreamEvent) FunctionCall() (FunctionCall, bool) {
	switch e.Type {
	case EventFunctionCallArgumentsDone:
		if e.Arguments == nil {
			return FunctionCall{}, false
		}
		fc := FunctionCall{Arguments: *e.Arguments}
		if e.Name != nil {
			fc.Name = *e.Name
		}
		if e.ItemID != nil {
			fc.ItemID = *e.ItemID
		}
		return fc, true

	case EventOutputItemAdded, EventOutputItemDone:
		if e.Item == nil {
			return FunctionCall{}, false
		}
		if kind, _ := e.Item.StringAt("type"); kind != "function_call" {
			return FunctionCall{}, false
		}
		fc := FunctionCall{}
		fc.Name, _ = e.Item.StringAt("name")
		fc.Arguments, _ = e.Item.StringAt("arguments")
		fc.CallID, _ = e.Item.StringAt("call_id")
		if id, ok := e.Item.StringAt("id"); ok {
			fc.ItemID = id
		} else if e.ItemID != nil {
			fc.ItemID = *e.ItemID
		}
		return fc, true
	}
	return FunctionCall{}, false
}

// AnnotationAdded returns the annotation object and its index within the
// content part.
func (e *StreamEvent) AnnotationAdded() (jsonvalue.Value, int, bool) {
	if e.Type != EventOutputTextAnnotationAdded || e.Annotation == nil {
		return jsonvalue.Value{}, 0, false
	}
	idx := 0
	if e.AnnotationIndex != nil {
		idx = *e.AnnotationIndex
	}
	return *e.Annotation, idx, true
}

func (e *StreamEvent) IsCompleted() bool { return e.Type == EventResponseCompleted }

// IsFailed is true for both failure channels: response.failed and error.
func (e *StreamEvent) IsFailed() bool {
	return e.Type == EventResponseFailed || e.Type == EventError
}

func (e *StreamEvent) IsIncomplete() bool { return e.Type == EventResponseIncomplete }

// IsTerminal reports whether no further events are expected after e.
func (e *StreamEvent) IsTerminal() bool {
	return e.IsCompleted() || e.IsFailed() || e.IsIncomplete()
}

func (e *StreamEvent) CompletedResponseID() (string, bool) {
	if !e.IsCompleted() {
		return "", false
	}
	return deref(e.ResponseID)
}

// ResponseIDValue returns the response id of any lifecycle event.
func (e *StreamEvent) ResponseIDValue() (string, bool) {
	if !e.Type.IsLifecycle() {
		return "", false
	}
	return deref(e.ResponseID)
}

// ErrorMessage returns the provider's failure message. For "error" events it
// is the top-level message; for response.failed it is response.error.message.
func (e *StreamEvent) ErrorMessage() (string, bool) {
	switch e.Type {
	case EventError:
		return deref(e.Message)
	case EventResponseFailed:
		return e.responseString("error", "message")
	}
	return "", false
}

// ErrorCode reads the failure code through the same two channels as
// ErrorMessage.
func (e *StreamEvent) ErrorCode() (string, bool) {
	switch e.Type {
	case EventError:
		return deref(e.Code)
	case EventResponseFailed:
		return e.responseString("error", "code")
	}
	return "", false
}

func (e *StreamEvent) ErrorParam() (string, bool) {
	if e.Type != EventError {
		return "", false
	}
	return deref(e.Param)
}

// IncompleteReason returns response.incomplete_details.reason of a
// response.incomplete event.
func (e *StreamEvent) IncompleteReason() (string, bool) {
	if e.Type != EventResponseIncomplete {
		return "", false
	}
	return e.responseString("incomplete_details", "reason")
}

// Status returns response.status of a lifecycle event.
func (e *StreamEvent) Status() (string, bool) {
	if !e.Type.IsLifecycle() {
		return "", false
	}
	return e.responseString("status")
}

func (e *StreamEvent) Usage() (Usage, bool) {
	if !e.Type.IsLifecycle() || e.Response == nil {
		return Usage{}, false
	}
	usage, ok := e.Response.Get("usage")
	if !ok || usage.Kind() != jsonvalue.KindObject {
		return Usage{}, false
	}
	u := Usage{}
	u.InputTokens, _ = usage.IntAt("input_tokens")
	u.OutputTokens, _ = usage.IntAt("output_tokens")
	u.TotalTokens, _ = usage.IntAt("total_tokens")
	return u, true
}

func (e *StreamEvent) stringFor(t EventType, field *string) (string, bool) {
	if e.Type != t {
		return "", false
	}
	return deref(field)
}

func (e *StreamEvent) responseString(path ...string) (string, bool) {
	if e.Response == nil {
		return "", false
	}
	return e.Response.StringAt(path...)
}

func deref(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}
