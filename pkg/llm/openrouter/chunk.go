package openrouter

import "fmt"

// ChatChunk is one chat.completion.chunk frame of a streamed completion.
type ChatChunk struct {
	ID       string        `json:"id"`
	Provider string        `json:"provider,omitempty"`
	Model    string        `json:"model"`
	Object   string        `json:"object"`
	Created  int64         `json:"created"`
	Choices  []ChunkChoice `json:"choices"`
	Usage    *Usage        `json:"usage,omitempty"`
	Error    *ChunkError   `json:"error,omitempty"`
}

type ChunkChoice struct {
	Index              int        `json:"index"`
	Delta              ChunkDelta `json:"delta"`
	FinishReason       *string    `json:"finish_reason"`
	NativeFinishReason *string    `json:"native_finish_reason,omitempty"`
}

type ChunkDelta struct {
	Role      string          `json:"role,omitempty"`
	Content   *string         `json:"content,omitempty"`
	Reasoning *string         `json:"reasoning,omitempty"`
	ToolCalls []ToolCallDelta `json:"tool_calls,omitempty"`
}

// ToolCallDelta is a fragment of a tool call, keyed by Index across chunks.
type ToolCallDelta struct {
	Index    int           `json:"index"`
	ID       string        `json:"id,omitempty"`
	Type     string        `json:"type,omitempty"`
	Function FunctionDelta `json:"function"`
}

type FunctionDelta struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChunkError is a mid-stream failure reported by OpenRouter.
type ChunkError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ChunkError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("openrouter stream error: %s", e.Message)
	}
	return fmt.Sprintf("openrouter stream error: %s: %s", e.Code, e.Message)
}

// FinishReasonError is the finish_reason OpenRouter uses for a failed
// generation.
const FinishReasonError = "error"

func (c *ChatChunk) first() (*ChunkChoice, bool) {
	if len(c.Choices) == 0 {
		return nil, false
	}
	return &c.Choices[0], true
}

// TextDelta returns the content fragment of the first choice.
func (c *ChatChunk) TextDelta() (string, bool) {
	choice, ok := c.first()
	if !ok || choice.Delta.Content == nil {
		return "", false
	}
	return *choice.Delta.Content, true
}

func (c *ChatChunk) ReasoningDelta() (string, bool) {
	choice, ok := c.first()
	if !ok || choice.Delta.Reasoning == nil {
		return "", false
	}
	return *choice.Delta.Reasoning, true
}

func (c *ChatChunk) ToolCallDeltas() []ToolCallDelta {
	choice, ok := c.first()
	if !ok {
		return nil
	}
	return choice.Delta.ToolCalls
}

func (c *ChatChunk) FinishReason() (string, bool) {
	choice, ok := c.first()
	if !ok || choice.FinishReason == nil {
		return "", false
	}
	return *choice.FinishReason, true
}

func (c *ChatChunk) ErrorMessage() (string, bool) {
	if c.Error == nil {
		return "", false
	}
	return c.Error.Message, true
}

// IsFailed is true when the chunk carries an error object or finishes with
// the "error" reason.
func (c *ChatChunk) IsFailed() bool {
	if c.Error != nil {
		return true
	}
	reason, ok := c.FinishReason()
	return ok && reason == FinishReasonError
}
