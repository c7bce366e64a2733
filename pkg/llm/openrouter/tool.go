package openrouter

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/papercomputeco/llmstream/pkg/jsonvalue"
)

// Tool is a function the model may call.
type Tool struct {
	Type     string      `json:"type"`
	Function FunctionDef `json:"function"`
}

type FunctionDef struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Parameters  *jsonvalue.Value `json:"parameters,omitempty"`
}

// FunctionTool builds a Tool of type "function". parameters may be nil.
func FunctionTool(name, description string, parameters *jsonvalue.Value) Tool {
	return Tool{
		Type: "function",
		Function: FunctionDef{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}

type ToolChoiceMode string

const (
	ToolChoiceModeNone     ToolChoiceMode = "none"
	ToolChoiceModeAuto     ToolChoiceMode = "auto"
	ToolChoiceModeRequired ToolChoiceMode = "required"
)

var ErrInvalidToolChoice = errors.New("invalid tool choice")

// ToolChoice is either a mode ("none", "auto", "required") or a specific
// function. Modes encode as bare JSON strings; a specific function encodes
// as {"type":"function","function":{"name":...}}.
type ToolChoice struct {
	mode     ToolChoiceMode
	function string
}

var (
	ToolChoiceNone     = ToolChoice{mode: ToolChoiceModeNone}
	ToolChoiceAuto     = ToolChoice{mode: ToolChoiceModeAuto}
	ToolChoiceRequired = ToolChoice{mode: ToolChoiceModeRequired}
)

// SpecificFunction forces a call to the named function.
func SpecificFunction(name string) ToolChoice {
	return ToolChoice{function: name}
}

// Mode returns the mode, or "" for a specific function.
func (c ToolChoice) Mode() ToolChoiceMode { return c.mode }

// Function returns the forced function name.
func (c ToolChoice) Function() (string, bool) {
	if c.function == "" {
		return "", false
	}
	return c.function, true
}

type toolChoiceFunction struct {
	Type     string `json:"type"`
	Function struct {
		Name string `json:"name"`
	} `json:"function"`
}

func (c ToolChoice) MarshalJSON() ([]byte, error) {
	if c.function != "" {
		w := toolChoiceFunction{Type: "function"}
		w.Function.Name = c.function
		return json.Marshal(w)
	}
	switch c.mode {
	case ToolChoiceModeNone, ToolChoiceModeAuto, ToolChoiceModeRequired:
		return json.Marshal(string(c.mode))
	}
	return nil, fmt.Errorf("%w: empty", ErrInvalidToolChoice)
}

func (c *ToolChoice) UnmarshalJSON(data []byte) error {
	var mode string
	if err := json.Unmarshal(data, &mode); err == nil {
		switch m := ToolChoiceMode(mode); m {
		case ToolChoiceModeNone, ToolChoiceModeAuto, ToolChoiceModeRequired:
			*c = ToolChoice{mode: m}
			return nil
		}
		return fmt.Errorf("%w: mode %q", ErrInvalidToolChoice, mode)
	}

	var w toolChoiceFunction
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToolChoice, err)
	}
	if w.Type != "function" || w.Function.Name == "" {
		return fmt.Errorf("%w: expected a named function", ErrInvalidToolChoice)
	}
	*c = SpecificFunction(w.Function.Name)
	return nil
}
