package openrouter

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/papercomputeco/llmstream/pkg/jsonvalue"
)

type ResponseFormatType string

const (
	FormatText       ResponseFormatType = "text"
	FormatJSONObject ResponseFormatType = "json_object"
	FormatJSONSchema ResponseFormatType = "json_schema"
)

// ErrMissingSchema is returned for a json_schema format without a schema.
var ErrMissingSchema = errors.New("json_schema response format requires a schema")

// ResponseFormat constrains the shape of the model's output. JSONSchema is
// set only for FormatJSONSchema.
type ResponseFormat struct {
	Type       ResponseFormatType
	JSONSchema *JSONSchema
}

// JSONSchema names a schema the output must satisfy. The schema itself is
// carried verbatim.
type JSONSchema struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Strict      *bool           `json:"strict,omitempty"`
	Schema      jsonvalue.Value `json:"schema"`
}

func TextFormat() ResponseFormat { return ResponseFormat{Type: FormatText} }

func JSONObjectFormat() ResponseFormat { return ResponseFormat{Type: FormatJSONObject} }

func JSONSchemaFormat(schema JSONSchema) ResponseFormat {
	return ResponseFormat{Type: FormatJSONSchema, JSONSchema: &schema}
}

func (f ResponseFormat) MarshalJSON() ([]byte, error) {
	switch f.Type {
	case FormatText, FormatJSONObject:
		return json.Marshal(struct {
			Type ResponseFormatType `json:"type"`
		}{f.Type})
	case FormatJSONSchema:
		if f.JSONSchema == nil {
			return nil, ErrMissingSchema
		}
		return json.Marshal(struct {
			Type       ResponseFormatType `json:"type"`
			JSONSchema *JSONSchema        `json:"json_schema"`
		}{f.Type, f.JSONSchema})
	}
	return nil, fmt.Errorf("unknown response format type %q", f.Type)
}

func (f *ResponseFormat) UnmarshalJSON(data []byte) error {
	var w struct {
		Type       ResponseFormatType `json:"type"`
		JSONSchema *JSONSchema        `json:"json_schema"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Type {
	case FormatText, FormatJSONObject:
		*f = ResponseFormat{Type: w.Type}
	case FormatJSONSchema:
		if w.JSONSchema == nil {
			return ErrMissingSchema
		}
		*f = ResponseFormat{Type: w.Type, JSONSchema: w.JSONSchema}
	default:
		return fmt.Errorf("unknown response format type %q", w.Type)
	}
	return nil
}
