package openrouter

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

// DoneMarker is the payload of the final line of an OpenRouter stream.
const DoneMarker = "[DONE]"

// ErrNotChunk is returned when a payload carries neither choices nor an
// error.
var ErrNotChunk = errors.New("payload is not a completion chunk")

type decodeStage func(payload []byte) (*ChatChunk, error)

// ChunkDecoder turns "data: " lines of an OpenRouter stream into ChatChunks.
// Payloads are decoded strictly first and permissively when a scalar has an
// unexpected JSON type. The [DONE] marker and undecodable payloads yield nil.
type ChunkDecoder struct {
	logger *slog.Logger
	stages []decodeStage
}

var _ stream.Decoder[ChatChunk] = (*ChunkDecoder)(nil)

func NewChunkDecoder(l *slog.Logger) *ChunkDecoder {
	return &ChunkDecoder{
		logger: logger.OrNop(l),
		stages: []decodeStage{decodeStrict, decodeLoose},
	}
}

func (d *ChunkDecoder) Decode(line string) *ChatChunk {
	payload, ok := strings.CutPrefix(line, stream.DataPrefix)
	if !ok {
		d.logger.Debug("ignoring line without data prefix", "line", utils.Truncate(line, stream.MaxLoggedLine))
		return nil
	}
	if strings.TrimSpace(payload) == DoneMarker {
		d.logger.Debug("stream done marker")
		return nil
	}

	var errs []error
	for i, stage := range d.stages {
		chunk, err := stage([]byte(payload))
		if err == nil {
			return chunk
		}
		if i < len(d.stages)-1 {
			d.logger.Debug("falling back to permissive chunk decode", "error", err)
		}
		errs = append(errs, err)
	}

	d.logger.Warn("dropping undecodable stream chunk",
		"error", errors.Join(errs...),
		"line", line,
	)
	return nil
}

func decodeStrict(payload []byte) (*ChatChunk, error) {
	var chunk ChatChunk
	if err := json.Unmarshal(payload, &chunk); err != nil {
		return nil, fmt.Errorf("strict decode: %w", err)
	}
	if chunk.Choices == nil && chunk.Error == nil {
		return nil, fmt.Errorf("strict decode: %w", ErrNotChunk)
	}
	return &chunk, nil
}

func decodeLoose(payload []byte) (*ChatChunk, error) {
	root, err := jsonvalue.Parse(payload)
	if err != nil {
		return nil, fmt.Errorf("permissive decode: %w", err)
	}
	if root.Kind() != jsonvalue.KindObject {
		return nil, fmt.Errorf("permissive decode: payload is %s: %w", root.Kind(), ErrNotChunk)
	}

	choices, hasChoices := root.Get("choices")
	errObj := root.LooseObject("error")
	if !hasChoices && errObj == nil {
		return nil, fmt.Errorf("permissive decode: %w", ErrNotChunk)
	}

	chunk := &ChatChunk{
		ID:       str(root.LooseString("id")),
		Provider: str(root.LooseString("provider")),
		Model:    str(root.LooseString("model")),
		Object:   str(root.LooseString("object")),
		Choices:  []ChunkChoice{},
	}
	if created := root.LooseInt("created"); created != nil {
		chunk.Created = int64(*created)
	}

	items, _ := choices.AsArray()
	for _, item := range items {
		if item.Kind() != jsonvalue.KindObject {
			continue
		}
		chunk.Choices = append(chunk.Choices, looseChoice(item))
	}

	if usage := root.LooseObject("usage"); usage != nil {
		chunk.Usage = &Usage{
			PromptTokens:     num(usage.LooseInt("prompt_tokens")),
			CompletionTokens: num(usage.LooseInt("completion_tokens")),
			TotalTokens:      num(usage.LooseInt("total_tokens")),
		}
	}
	if errObj != nil {
		chunk.Error = &ChunkError{
			Code:    str(errObj.LooseString("code")),
			Message: str(errObj.LooseString("message")),
		}
	}
	return chunk, nil
}

func looseChoice(item jsonvalue.Value) ChunkChoice {
	choice := ChunkChoice{
		Index:              num(item.LooseInt("index")),
		FinishReason:       item.LooseString("finish_reason"),
		NativeFinishReason: item.LooseString("native_finish_reason"),
	}

	delta := item.LooseObject("delta")
	if delta == nil {
		return choice
	}
	choice.Delta = ChunkDelta{
		Role:      str(delta.LooseString("role")),
		Content:   delta.LooseString("content"),
		Reasoning: delta.LooseString("reasoning"),
	}

	calls, _ := delta.Get("tool_calls")
	callItems, _ := calls.AsArray()
	for _, call := range callItems {
		if call.Kind() != jsonvalue.KindObject {
			continue
		}
		tc := ToolCallDelta{
			Index: num(call.LooseInt("index")),
			ID:    str(call.LooseString("id")),
			Type:  str(call.LooseString("type")),
		}
		if fn := call.LooseObject("function"); fn != nil {
			tc.Function = FunctionDelta{
				Name:      str(fn.LooseString("name")),
				Arguments: str(fn.LooseString("arguments")),
			}
		}
		choice.Delta.ToolCalls = append(choice.Delta.ToolCalls, tc)
	}
	return choice
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func num(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
