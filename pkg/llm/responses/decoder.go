package responses

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/papercomputeco/llmstream/pkg/jsonvalue"
	"github.com/papercomputeco/llmstream/pkg/llm/stream"
	"github.com/papercomputeco/llmstream/pkg/logger"
	"github.com/papercomputeco/llmstream/pkg/utils"
)

var (
	// ErrMissingType is returned by a decode stage when the payload has no
	// readable, non-empty "type" member.
	ErrMissingType = errors.New("event has no type")

	// ErrNotObject is returned when a payload or an open-ended member that
	// must be a JSON object is something else.
	ErrNotObject = errors.New("not a JSON object")
)

// decodeStage turns a payload into an event or explains why it could not.
type decodeStage func(payload []byte) (*StreamEvent, error)

// Decoder turns "data: " lines of a Responses stream into StreamEvents.
//
// Each payload is first decoded strictly against the documented event shape.
// When that fails, typically because a scalar arrived with an unexpected JSON
// type, the payload is re-read permissively and only the members meaningful
// for its "type" are kept. A line neither stage can read is logged and
// dropped. Decode is stateless and safe to call from any goroutine.
type Decoder struct {
	logger *slog.Logger
	stages []decodeStage
}

var _ stream.Decoder[StreamEvent] = (*Decoder)(nil)

// NewDecoder returns a Decoder that logs through l. A nil logger discards.
func NewDecoder(l *slog.Logger) *Decoder {
	return &Decoder{
		logger: logger.OrNop(l),
		stages: []decodeStage{decodeStrict, decodeLoose},
	}
}

// Decode returns the event carried by line, or nil when the line is framing
// noise or cannot be decoded.
func (d *Decoder) Decode(line string) *StreamEvent {
	payload, ok := strings.CutPrefix(line, stream.DataPrefix)
	if !ok {
		d.logger.Debug("ignoring line without data prefix", "line", utils.Truncate(line, stream.MaxLoggedLine))
		return nil
	}

	var errs []error
	for i, stage := range d.stages {
		ev, err := stage([]byte(payload))
		if err == nil {
			return ev
		}
		if i < len(d.stages)-1 {
			d.logger.Debug("falling back to permissive event decode", "error", err)
		}
		errs = append(errs, err)
	}

	d.logger.Warn("dropping undecodable stream event",
		"error", errors.Join(errs...),
		"line", line,
	)
	return nil
}

// wireEvent mirrors the documented event shape with typed scalars.
type wireEvent struct {
	Type           string `json:"type"`
	SequenceNumber *int   `json:"sequence_number"`

	Delta        *string `json:"delta"`
	ItemID       *string `json:"item_id"`
	OutputIndex  *int    `json:"output_index"`
	ContentIndex *int    `json:"content_index"`

	Response *jsonvalue.Value `json:"response"`

	Text      *string `json:"text"`
	Refusal   *string `json:"refusal"`
	Arguments *string `json:"arguments"`
	Name      *string `json:"name"`

	Item            *jsonvalue.Value `json:"item"`
	Part            *jsonvalue.Value `json:"part"`
	Annotation      *jsonvalue.Value `json:"annotation"`
	AnnotationIndex *int             `json:"annotation_index"`

	Code    *string    `json:"code"`
	Message *string    `json:"message"`
	Param   *string    `json:"param"`
	Error   *wireError `json:"error"`
}

type wireError struct {
	Code    *string `json:"code"`
	Message *string `json:"message"`
	Param   *string `json:"param"`
}

func decodeStrict(payload []byte) (*StreamEvent, error) {
	var w wireEvent
	if err := json.Unmarshal(payload, &w); err != nil {
		return nil, fmt.Errorf("strict decode: %w", err)
	}
	if w.Type == "" {
		return nil, fmt.Errorf("strict decode: %w", ErrMissingType)
	}
	for name, v := range map[string]*jsonvalue.Value{
		"response":   w.Response,
		"item":       w.Item,
		"part":       w.Part,
		"annotation": w.Annotation,
	} {
		if v != nil && v.Kind() != jsonvalue.KindObject {
			return nil, fmt.Errorf("strict decode: %s is %s: %w", name, v.Kind(), ErrNotObject)
		}
	}

	ev := &StreamEvent{
		Type:            EventType(w.Type),
		SequenceNumber:  w.SequenceNumber,
		Delta:           w.Delta,
		ItemID:          w.ItemID,
		OutputIndex:     w.OutputIndex,
		ContentIndex:    w.ContentIndex,
		Response:        w.Response,
		Text:            w.Text,
		Refusal:         w.Refusal,
		Arguments:       w.Arguments,
		Name:            w.Name,
		Item:            w.Item,
		Part:            w.Part,
		Annotation:      w.Annotation,
		AnnotationIndex: w.AnnotationIndex,
		Code:            w.Code,
		Message:         w.Message,
		Param:           w.Param,
	}
	if w.Response != nil {
		if id, ok := w.Response.StringAt("id"); ok {
			ev.ResponseID = &id
		}
	}
	if ev.Type == EventError && ev.Message == nil && w.Error != nil {
		ev.Code = w.Error.Code
		ev.Message = w.Error.Message
		ev.Param = w.Error.Param
	}
	return ev, nil
}

func decodeLoose(payload []byte) (*StreamEvent, error) {
	root, err := jsonvalue.Parse(payload)
	if err != nil {
		return nil, fmt.Errorf("permissive decode: %w", err)
	}
	if root.Kind() != jsonvalue.KindObject {
		return nil, fmt.Errorf("permissive decode: payload is %s: %w", root.Kind(), ErrNotObject)
	}
	typ, ok := root.StringAt("type")
	if !ok || typ == "" {
		return nil, fmt.Errorf("permissive decode: %w", ErrMissingType)
	}

	ev := &StreamEvent{
		Type:           EventType(typ),
		SequenceNumber: root.LooseInt("sequence_number"),
	}
	for _, extract := range extractorsFor(ev.Type) {
		extract(root, ev)
	}
	return ev, nil
}
