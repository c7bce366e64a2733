// Package openrouter models the OpenRouter chat completions API: the request
// body, the streamed chunk and its decoder, and a streaming Client.
package openrouter

import (
	"errors"

	"github.com/papercomputeco/llmstream/pkg/jsonvalue"
)

var (
	ErrNilRequest      = errors.New("request is required")
	ErrMissingModel    = errors.New("request needs model or models")
	ErrMissingMessages = errors.New("request needs messages or prompt")
)

// ChatRequest is the body of POST /chat/completions. Unset optional fields
// are omitted from the encoding. Provider is OpenRouter's routing
// preferences object and is passed through untouched.
type ChatRequest struct {
	Model             string             `json:"model,omitempty"`
	Models            []string           `json:"models,omitempty"`
	Messages          Messages           `json:"messages,omitempty"`
	Prompt            string             `json:"prompt,omitempty"`
	ResponseFormat    *ResponseFormat    `json:"response_format,omitempty"`
	Stop              []string           `json:"stop,omitempty"`
	Stream            bool               `json:"stream,omitempty"`
	StreamOptions     *StreamOptions     `json:"stream_options,omitempty"`
	MaxTokens         *int               `json:"max_tokens,omitempty"`
	Temperature       *float64           `json:"temperature,omitempty"`
	TopP              *float64           `json:"top_p,omitempty"`
	TopK              *int               `json:"top_k,omitempty"`
	FrequencyPenalty  *float64           `json:"frequency_penalty,omitempty"`
	PresencePenalty   *float64           `json:"presence_penalty,omitempty"`
	RepetitionPenalty *float64           `json:"repetition_penalty,omitempty"`
	Seed              *int               `json:"seed,omitempty"`
	Tools             []Tool             `json:"tools,omitempty"`
	ToolChoice        *ToolChoice        `json:"tool_choice,omitempty"`
	LogitBias         map[string]float64 `json:"logit_bias,omitempty"`
	Logprobs          *bool              `json:"logprobs,omitempty"`
	TopLogprobs       *int               `json:"top_logprobs,omitempty"`
	MinP              *float64           `json:"min_p,omitempty"`
	TopA              *float64           `json:"top_a,omitempty"`
	Transforms        []string           `json:"transforms,omitempty"`
	Route             string             `json:"route,omitempty"`
	Provider          *jsonvalue.Value   `json:"provider,omitempty"`
	Reasoning         *Reasoning         `json:"reasoning,omitempty"`
	Usage             *UsageOptions      `json:"usage,omitempty"`
	User              string             `json:"user,omitempty"`
}

type StreamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

// Reasoning configures reasoning tokens for models that support them.
type Reasoning struct {
	Effort    string `json:"effort,omitempty"`
	MaxTokens *int   `json:"max_tokens,omitempty"`
	Exclude   *bool  `json:"exclude,omitempty"`
	Enabled   *bool  `json:"enabled,omitempty"`
}

// UsageOptions asks OpenRouter to report usage accounting in the stream.
type UsageOptions struct {
	Include bool `json:"include"`
}

// Validate checks the fields OpenRouter always requires.
func (r *ChatRequest) Validate() error {
	if r == nil {
		return ErrNilRequest
	}
	if r.Model == "" && len(r.Models) == 0 {
		return ErrMissingModel
	}
	if len(r.Messages) == 0 && r.Prompt == "" {
		return ErrMissingMessages
	}
	return nil
}
