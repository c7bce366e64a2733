package openrouter_test

import (
	"encoding/json"
	"sort"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/llmstream/pkg/jsonvalue"
	"github.com/papercomputeco/llmstream/pkg/llm/openrouter"
)

func ptr[T any](v T) *T { return &v }

var _ = Describe("ChatRequest", func() {
	It("omits every unset optional field", func() {
		req := openrouter.ChatRequest{
			Model:    "openai/gpt-4o",
			Messages: openrouter.Messages{openrouter.UserMessage{Content: openrouter.Text("hi")}},
		}
		data, err := json.Marshal(req)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(`{"model":"openai/gpt-4o","messages":[{"role":"user","content":"hi"}]}`))
	})

	It("uses the documented wire keys", func() {
		choice := openrouter.ToolChoiceAuto
		format := openrouter.JSONObjectFormat()
		provider := jsonvalue.ObjectOf(jsonvalue.P("order", jsonvalue.Array(jsonvalue.String("anthropic"))))

		req := openrouter.ChatRequest{
			Model:             "m",
			Models:            []string{"a", "b"},
			Messages:          openrouter.Messages{openrouter.SystemMessage{Content: "s"}},
			Prompt:            "p",
			ResponseFormat:    &format,
			Stop:              []string{"\n\n"},
			Stream:            true,
			StreamOptions:     &openrouter.StreamOptions{IncludeUsage: true},
			MaxTokens:         ptr(100),
			Temperature:       ptr(0.7),
			TopP:              ptr(0.9),
			TopK:              ptr(40),
			FrequencyPenalty:  ptr(0.1),
			PresencePenalty:   ptr(0.2),
			RepetitionPenalty: ptr(1.1),
			Seed:              ptr(7),
			Tools:             []openrouter.Tool{openrouter.FunctionTool("f", "", nil)},
			ToolChoice:        &choice,
			LogitBias:         map[string]float64{"50256": -100},
			Logprobs:          ptr(true),
			TopLogprobs:       ptr(3),
			MinP:              ptr(0.05),
			TopA:              ptr(0.2),
			Transforms:        []string{"middle-out"},
			Route:             "fallback",
			Provider:          &provider,
			Reasoning:         &openrouter.Reasoning{Effort: "high"},
			Usage:             &openrouter.UsageOptions{Include: true},
			User:              "u-1",
		}

		data, err := json.Marshal(req)
		Expect(err).NotTo(HaveOccurred())

		var decoded map[string]json.RawMessage
		Expect(json.Unmarshal(data, &decoded)).To(Succeed())

		keys := make([]string, 0, len(decoded))
		for k := range decoded {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		Expect(keys).To(Equal([]string{
			"frequency_penalty", "logit_bias", "logprobs", "max_tokens", "messages",
			"min_p", "model", "models", "presence_penalty", "prompt", "provider",
			"reasoning", "repetition_penalty", "response_format", "route", "seed",
			"stop", "stream", "stream_options", "temperature", "tool_choice", "tools",
			"top_a", "top_k", "top_logprobs", "top_p", "transforms", "usage", "user",
		}))

		Expect(string(decoded["tool_choice"])).To(Equal(`"auto"`))
		Expect(string(decoded["provider"])).To(Equal(`{"order":["anthropic"]}`))
		Expect(string(decoded["stream_options"])).To(Equal(`{"include_usage":true}`))
		Expect(string(decoded["reasoning"])).To(Equal(`{"effort":"high"}`))
	})

	It("round trips", func() {
		choice := openrouter.SpecificFunction("lookup")
		req := openrouter.ChatRequest{
			Model: "m",
			Messages: openrouter.Messages{
				openrouter.SystemMessage{Content: "be brief"},
				openrouter.UserMessage{Content: openrouter.Text("weather?")},
			},
			ToolChoice:  &choice,
			Temperature: ptr(0.5),
		}
		data, err := json.Marshal(req)
		Expect(err).NotTo(HaveOccurred())

		var back openrouter.ChatRequest
		Expect(json.Unmarshal(data, &back)).To(Succeed())
		Expect(back).To(Equal(req))
	})

	Describe("Validate", func() {
		It("requires a model", func() {
			Expect((&openrouter.ChatRequest{Prompt: "x"}).Validate()).To(MatchError(openrouter.ErrMissingModel))
		})

		It("accepts a models list instead of a model", func() {
			Expect((&openrouter.ChatRequest{Models: []string{"a"}, Prompt: "x"}).Validate()).To(Succeed())
		})

		It("requires messages or a prompt", func() {
			Expect((&openrouter.ChatRequest{Model: "m"}).Validate()).To(MatchError(openrouter.ErrMissingMessages))
		})

		It("rejects nil", func() {
			var req *openrouter.ChatRequest
			Expect(req.Validate()).To(MatchError(openrouter.ErrNilRequest))
		})
	})
})

var _ = Describe("Messages", func() {
	It("encodes each role", func() {
		content := "checking"
		msgs := openrouter.Messages{
			openrouter.SystemMessage{Content: "sys"},
			openrouter.UserMessage{Content: openrouter.Text("hi"), Name: "ada"},
			openrouter.UserMessage{Content: openrouter.Parts(
				openrouter.TextPart("what is this?"),
				openrouter.ImagePart("https://example.com/cat.png", "low"),
			)},
			openrouter.AssistantMessage{
				Content: &content,
				ToolCalls: []openrouter.ToolCall{{
					ID:       "call_1",
					Type:     "function",
					Function: openrouter.ToolCallFunction{Name: "lookup", Arguments: `{"q":"cat"}`},
				}},
			},
			openrouter.AssistantMessage{},
			openrouter.ToolMessage{Content: "a cat", ToolCallID: "call_1"},
		}

		data, err := json.Marshal(msgs)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(`[` +
			`{"role":"system","content":"sys"},` +
			`{"role":"user","content":"hi","name":"ada"},` +
			`{"role":"user","content":[{"type":"text","text":"what is this?"},{"type":"image_url","image_url":{"url":"https://example.com/cat.png","detail":"low"}}]},` +
			`{"role":"assistant","content":"checking","tool_calls":[{"id":"call_1","type":"function","function":{"name":"lookup","arguments":"{\"q\":\"cat\"}"}}]},` +
			`{"role":"assistant"},` +
			`{"role":"tool","content":"a cat","tool_call_id":"call_1"}` +
			`]`))
	})

	It("keeps the text member of an empty text part", func() {
		msg := openrouter.UserMessage{Content: openrouter.Parts(
			openrouter.TextPart(""),
			openrouter.ImagePart("https://example.com/cat.png", ""),
		)}

		data, err := json.Marshal(msg)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(`{"role":"user","content":[{"type":"text","text":""},{"type":"image_url","image_url":{"url":"https://example.com/cat.png"}}]}`))
	})

	It("decodes by role", func() {
		var msgs openrouter.Messages
		err := json.Unmarshal([]byte(`[
			{"role":"system","content":"sys"},
			{"role":"user","content":[{"type":"text","text":"hi"}]},
			{"role":"assistant","content":null,"tool_calls":[{"id":"c","type":"function","function":{"name":"f","arguments":"{}"}}]},
			{"role":"tool","content":"ok","tool_call_id":"c"}
		]`), &msgs)
		Expect(err).NotTo(HaveOccurred())
		Expect(msgs).To(HaveLen(4))

		Expect(msgs[0]).To(Equal(openrouter.SystemMessage{Content: "sys"}))
		Expect(msgs[1]).To(Equal(openrouter.UserMessage{Content: openrouter.Parts(openrouter.TextPart("hi"))}))

		assistant, ok := msgs[2].(openrouter.AssistantMessage)
		Expect(ok).To(BeTrue())
		Expect(assistant.Content).To(BeNil())
		Expect(assistant.ToolCalls).To(HaveLen(1))

		Expect(msgs[3].Role()).To(Equal(openrouter.RoleTool))
	})

	It("rejects unknown roles", func() {
		var msgs openrouter.Messages
		err := json.Unmarshal([]byte(`[{"role":"narrator","content":"x"}]`), &msgs)
		Expect(err).To(MatchError(openrouter.ErrUnknownRole))
	})
})
