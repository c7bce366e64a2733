package openrouter

import "strings"

// Accumulator builds a full assistant message from streamed chunks. Only
// the first choice is tracked.
type Accumulator struct {
	// content accumulates streamed text content.
	content strings.Builder
	// reasoning accumulates streamed reasoning tokens.
	reasoning strings.Builder
	// toolStates stores tool call data keyed by streaming index.
	toolStates map[int]*toolCallState
	// toolOrder preserves the order tool calls first appeared.
	toolOrder []int

	finishReason string
	usage        Usage
	hasUsage     bool
	model        string
	id           string
	err          *ChunkError
}

type toolCallState struct {
	id        string
	callType  string
	name      string
	arguments strings.Builder
}

func NewAccumulator() *Accumulator {
	return &Accumulator{
		toolStates: map[int]*toolCallState{},
	}
}

// Apply ingests one chunk.
func (acc *Accumulator) Apply(chunk *ChatChunk) {
	if chunk == nil {
		return
	}
	if acc.id == "" && chunk.ID != "" {
		acc.id = chunk.ID
	}
	if acc.model == "" && chunk.Model != "" {
		acc.model = chunk.Model
	}
	if chunk.Usage != nil {
		acc.usage = *chunk.Usage
		acc.hasUsage = true
	}
	if chunk.Error != nil {
		acc.err = chunk.Error
	}

	for _, choice := range chunk.Choices {
		if choice.Index != 0 {
			continue
		}
		delta := choice.Delta
		if delta.Content != nil {
			acc.content.WriteString(*delta.Content)
		}
		if delta.Reasoning != nil {
			acc.reasoning.WriteString(*delta.Reasoning)
		}
		for _, toolDelta := range delta.ToolCalls {
			state := acc.toolStates[toolDelta.Index]
			if state == nil {
				state = &toolCallState{}
				acc.toolStates[toolDelta.Index] = state
				acc.toolOrder = append(acc.toolOrder, toolDelta.Index)
			}
			if toolDelta.ID != "" {
				state.id = toolDelta.ID
			}
			if toolDelta.Type != "" {
				state.callType = toolDelta.Type
			}
			if toolDelta.Function.Name != "" {
				state.name = toolDelta.Function.Name
			}
			state.arguments.WriteString(toolDelta.Function.Arguments)
		}
		if choice.FinishReason != nil {
			acc.finishReason = *choice.FinishReason
		}
	}
}

// Message returns the aggregated assistant message.
func (acc *Accumulator) Message() AssistantMessage {
	msg := AssistantMessage{ToolCalls: acc.ToolCalls()}
	if content := acc.content.String(); content != "" {
		msg.Content = &content
	}
	return msg
}

// ToolCalls returns tool calls in their first-seen order.
func (acc *Accumulator) ToolCalls() []ToolCall {
	if len(acc.toolOrder) == 0 {
		return nil
	}
	calls := make([]ToolCall, 0, len(acc.toolOrder))
	for _, index := range acc.toolOrder {
		state := acc.toolStates[index]
		callType := state.callType
		if callType == "" {
			callType = "function"
		}
		calls = append(calls, ToolCall{
			ID:   state.id,
			Type: callType,
			Function: ToolCallFunction{
				Name:      state.name,
				Arguments: state.arguments.String(),
			},
		})
	}
	return calls
}

func (acc *Accumulator) Content() string { return acc.content.String() }

func (acc *Accumulator) Reasoning() string { return acc.reasoning.String() }

func (acc *Accumulator) FinishReason() string { return acc.finishReason }

func (acc *Accumulator) Usage() (Usage, bool) { return acc.usage, acc.hasUsage }

func (acc *Accumulator) Model() string { return acc.model }

func (acc *Accumulator) ID() string { return acc.id }

// Err returns the stream error reported by OpenRouter, if any.
func (acc *Accumulator) Err() error {
	if acc.err == nil {
		return nil
	}
	return acc.err
}
