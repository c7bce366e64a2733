package openrouter

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Role is the discriminant of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ErrUnknownRole is returned when decoding a message with an unsupported role.
var ErrUnknownRole = errors.New("unknown message role")

// Message is one chat message. The concrete types are SystemMessage,
// UserMessage, AssistantMessage and ToolMessage; each encodes its role.
type Message interface {
	Role() Role
	isMessage()
}

type SystemMessage struct {
	Content string
	Name    string
}

func (SystemMessage) Role() Role { return RoleSystem }
func (SystemMessage) isMessage() {}

func (m SystemMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Role    Role   `json:"role"`
		Content string `json:"content"`
		Name    string `json:"name,omitempty"`
	}{RoleSystem, m.Content, m.Name})
}

func (m *SystemMessage) UnmarshalJSON(data []byte) error {
	var w struct {
		Content string `json:"content"`
		Name    string `json:"name"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*m = SystemMessage{Content: w.Content, Name: w.Name}
	return nil
}

type UserMessage struct {
	Content UserContent
	Name    string
}

func (UserMessage) Role() Role { return RoleUser }
func (UserMessage) isMessage() {}

func (m UserMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Role    Role        `json:"role"`
		Content UserContent `json:"content"`
		Name    string      `json:"name,omitempty"`
	}{RoleUser, m.Content, m.Name})
}

func (m *UserMessage) UnmarshalJSON(data []byte) error {
	var w struct {
		Content UserContent `json:"content"`
		Name    string      `json:"name"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*m = UserMessage{Content: w.Content, Name: w.Name}
	return nil
}

// AssistantMessage is a prior model turn. Content is nil when the turn only
// made tool calls.
type AssistantMessage struct {
	Content   *string
	Name      string
	ToolCalls []ToolCall
}

func (AssistantMessage) Role() Role { return RoleAssistant }
func (AssistantMessage) isMessage() {}

func (m AssistantMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Role      Role       `json:"role"`
		Content   *string    `json:"content,omitempty"`
		Name      string     `json:"name,omitempty"`
		ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	}{RoleAssistant, m.Content, m.Name, m.ToolCalls})
}

func (m *AssistantMessage) UnmarshalJSON(data []byte) error {
	var w struct {
		Content   *string    `json:"content"`
		Name      string     `json:"name"`
		ToolCalls []ToolCall `json:"tool_calls"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*m = AssistantMessage{Content: w.Content, Name: w.Name, ToolCalls: w.ToolCalls}
	return nil
}

// ToolMessage carries the result of a tool call back to the model.
type ToolMessage struct {
	Content    string
	ToolCallID string
	Name       string
}

func (ToolMessage) Role() Role { return RoleTool }
func (ToolMessage) isMessage() {}

func (m ToolMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Role       Role   `json:"role"`
		Content    string `json:"content"`
		ToolCallID string `json:"tool_call_id"`
		Name       string `json:"name,omitempty"`
	}{RoleTool, m.Content, m.ToolCallID, m.Name})
}

func (m *ToolMessage) UnmarshalJSON(data []byte) error {
	var w struct {
		Content    string `json:"content"`
		ToolCallID string `json:"tool_call_id"`
		Name       string `json:"name"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*m = ToolMessage{Content: w.Content, ToolCallID: w.ToolCallID, Name: w.Name}
	return nil
}

// ToolCall is a function invocation made by the assistant.
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Messages is a conversation. It decodes each element by its role.
type Messages []Message

func (ms *Messages) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}

	out := make(Messages, 0, len(raws))
	for i, raw := range raws {
		var head struct {
			Role Role `json:"role"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}

		var (
			msg Message
			err error
		)
		switch head.Role {
		case RoleSystem:
			var m SystemMessage
			err = json.Unmarshal(raw, &m)
			msg = m
		case RoleUser:
			var m UserMessage
			err = json.Unmarshal(raw, &m)
			msg = m
		case RoleAssistant:
			var m AssistantMessage
			err = json.Unmarshal(raw, &m)
			msg = m
		case RoleTool:
			var m ToolMessage
			err = json.Unmarshal(raw, &m)
			msg = m
		default:
			return fmt.Errorf("message %d: %w %q", i, ErrUnknownRole, head.Role)
		}
		if err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
		out = append(out, msg)
	}

	*ms = out
	return nil
}
