package responses

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/papercomputeco/llmstream/pkg/jsonvalue"
)

// Request is the body of a POST /responses call.
type Request struct {
	Model              string           `json:"model"`
	Input              Input            `json:"input"`
	Instructions       string           `json:"instructions,omitempty"`
	Tools              []Tool           `json:"tools,omitempty"`
	ToolChoice         string           `json:"tool_choice,omitempty"`
	Temperature        *float64         `json:"temperature,omitempty"`
	TopP               *float64         `json:"top_p,omitempty"`
	MaxOutputTokens    *int             `json:"max_output_tokens,omitempty"`
	Metadata           *jsonvalue.Value `json:"metadata,omitempty"`
	PreviousResponseID string           `json:"previous_response_id,omitempty"`
	Store              *bool            `json:"store,omitempty"`
	Stream             bool             `json:"stream,omitempty"`
}

// InputMessage is one role-tagged message of a structured input.
type InputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Input is either a plain prompt string or a list of messages. It encodes as
// a JSON string when Messages is empty.
type Input struct {
	Text     string
	Messages []InputMessage
}

func TextInput(text string) Input { return Input{Text: text} }

func MessagesInput(msgs ...InputMessage) Input { return Input{Messages: msgs} }

func (in Input) MarshalJSON() ([]byte, error) {
	if len(in.Messages) > 0 {
		return json.Marshal(in.Messages)
	}
	return json.Marshal(in.Text)
}

func (in *Input) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*in = Input{Text: text}
		return nil
	}
	var msgs []InputMessage
	if err := json.Unmarshal(data, &msgs); err != nil {
		return fmt.Errorf("input is neither a string nor a message list: %w", err)
	}
	*in = Input{Messages: msgs}
	return nil
}

// Tool is a function tool in the Responses API's flat shape.
type Tool struct {
	Type        string           `json:"type"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Parameters  *jsonvalue.Value `json:"parameters,omitempty"`
	Strict      *bool            `json:"strict,omitempty"`
}

// FunctionTool builds a Tool of type "function".
func FunctionTool(name, description string, parameters *jsonvalue.Value) Tool {
	return Tool{
		Type:        "function",
		Name:        name,
		Description: description,
		Parameters:  parameters,
	}
}

var (
	ErrNilRequest   = errors.New("request is required")
	ErrMissingModel = errors.New("request model is required")
)

// Validate checks the fields the API always requires.
func (r *Request) Validate() error {
	if r == nil {
		return ErrNilRequest
	}
	if r.Model == "" {
		return ErrMissingModel
	}
	return nil
}
