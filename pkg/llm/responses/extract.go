package responses

import "github.com/papercomputeco/llmstream/pkg/jsonvalue"

// extractor copies the members relevant to one concern from a permissively
// parsed payload onto ev.
type extractor func(root jsonvalue.Value, ev *StreamEvent)

var (
	extractDelta = func(root jsonvalue.Value, ev *StreamEvent) {
		ev.Delta = root.LooseString("delta")
	}
	extractPosition = func(root jsonvalue.Value, ev *StreamEvent) {
		ev.ItemID = root.LooseString("item_id")
		ev.OutputIndex = root.LooseInt("output_index")
		ev.ContentIndex = root.LooseInt("content_index")
	}
	extractText = func(root jsonvalue.Value, ev *StreamEvent) {
		ev.Text = root.LooseString("text")
	}
	extractRefusal = func(root jsonvalue.Value, ev *StreamEvent) {
		ev.Refusal = root.LooseString("refusal")
	}
	extractCall = func(root jsonvalue.Value, ev *StreamEvent) {
		ev.Arguments = root.LooseString("arguments")
		ev.Name = root.LooseString("name")
	}
	extractItem = func(root jsonvalue.Value, ev *StreamEvent) {
		ev.Item = root.LooseObject("item")
		ev.OutputIndex = root.LooseInt("output_index")
	}
	extractPart = func(root jsonvalue.Value, ev *StreamEvent) {
		ev.Part = root.LooseObject("part")
	}
	extractAnnotation = func(root jsonvalue.Value, ev *StreamEvent) {
		ev.Annotation = root.LooseObject("annotation")
		ev.AnnotationIndex = root.LooseInt("annotation_index")
	}
	extractResponse = func(root jsonvalue.Value, ev *StreamEvent) {
		ev.Response = root.LooseObject("response")
		if ev.Response != nil {
			ev.ResponseID = ev.Response.LooseString("id")
		}
	}
	extractError = func(root jsonvalue.Value, ev *StreamEvent) {
		src := root
		if _, ok := root.Get("message"); !ok {
			if nested := root.LooseObject("error"); nested != nil {
				src = *nested
			}
		}
		ev.Code = src.LooseString("code")
		ev.Message = src.LooseString("message")
		ev.Param = src.LooseString("param")
	}
)

// extractors lists, per known type, which members the permissive decoder
// keeps. Unknown types keep only type and sequence_number.
var extractors = map[EventType][]extractor{
	EventResponseCreated:    {extractResponse},
	EventResponseInProgress: {extractResponse},
	EventResponseQueued:     {extractResponse},
	EventResponseCompleted:  {extractResponse},
	EventResponseFailed:     {extractResponse},
	EventResponseIncomplete: {extractResponse},

	EventOutputItemAdded:  {extractItem},
	EventOutputItemDone:   {extractItem},
	EventContentPartAdded: {extractPosition, extractPart},
	EventContentPartDone:  {extractPosition, extractPart},

	EventOutputTextDelta:           {extractPosition, extractDelta},
	EventOutputTextDone:            {extractPosition, extractText},
	EventOutputTextAnnotationAdded: {extractPosition, extractAnnotation},

	EventRefusalDelta: {extractPosition, extractDelta},
	EventRefusalDone:  {extractPosition, extractRefusal},

	EventFunctionCallArgumentsDelta: {extractPosition, extractDelta},
	EventFunctionCallArgumentsDone:  {extractPosition, extractCall},

	EventReasoningSummaryTextDelta: {extractPosition, extractDelta},
	EventReasoningSummaryTextDone:  {extractPosition, extractText},

	EventError: {extractError},
}

func extractorsFor(t EventType) []extractor {
	return extractors[t]
}
