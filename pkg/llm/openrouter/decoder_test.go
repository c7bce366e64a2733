package openrouter_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/llmstream/pkg/llm/openrouter"
	"github.com/papercomputeco/llmstream/pkg/logger"
)

var _ = Describe("ChunkDecoder", func() {
	var (
		dec    *openrouter.ChunkDecoder
		logBuf *bytes.Buffer
	)

	BeforeEach(func() {
		logBuf = &bytes.Buffer{}
		dec = openrouter.NewChunkDecoder(logger.New(logger.WithWriter(logBuf), logger.WithDebug(true)))
	})

	DescribeTable("skips noise",
		func(line string) {
			Expect(dec.Decode(line)).To(BeNil())
		},
		Entry("blank", ""),
		Entry("processing comment", ": OPENROUTER PROCESSING"),
		Entry("done marker", "data: [DONE]"),
		Entry("malformed", `data: {"id":"x","choices":[`),
		Entry("object without choices or error", `data: {"id":"x"}`),
		Entry("array", `data: []`),
	)

	It("does not warn about the done marker", func() {
		dec.Decode("data: [DONE]")
		Expect(logBuf.String()).NotTo(ContainSubstring("level=WARN"))
	})

	It("decodes a content delta", func() {
		chunk := dec.Decode(`data: {"id":"gen-1","provider":"OpenAI","model":"openai/gpt-4o","object":"chat.completion.chunk","created":1700000000,"choices":[{"index":0,"delta":{"role":"assistant","content":"Hel"},"finish_reason":null}]}`)
		Expect(chunk).NotTo(BeNil())
		Expect(chunk.ID).To(Equal("gen-1"))
		Expect(chunk.Provider).To(Equal("OpenAI"))
		Expect(chunk.Created).To(Equal(int64(1700000000)))

		text, ok := chunk.TextDelta()
		Expect(ok).To(BeTrue())
		Expect(text).To(Equal("Hel"))

		_, ok = chunk.FinishReason()
		Expect(ok).To(BeFalse())
		Expect(chunk.IsFailed()).To(BeFalse())
	})

	It("decodes reasoning and tool call deltas", func() {
		chunk := dec.Decode(`data: {"id":"gen-1","choices":[{"index":0,"delta":{"reasoning":"hmm","tool_calls":[{"index":0,"id":"call_1","type":"function","function":{"name":"lookup","arguments":"{\"q\""}}]}}]}`)
		Expect(chunk).NotTo(BeNil())

		reasoning, ok := chunk.ReasoningDelta()
		Expect(ok).To(BeTrue())
		Expect(reasoning).To(Equal("hmm"))

		Expect(chunk.ToolCallDeltas()).To(Equal([]openrouter.ToolCallDelta{{
			Index:    0,
			ID:       "call_1",
			Type:     "function",
			Function: openrouter.FunctionDelta{Name: "lookup", Arguments: `{"q"`},
		}}))
	})

	It("decodes a usage-only final chunk", func() {
		chunk := dec.Decode(`data: {"id":"gen-1","choices":[],"usage":{"prompt_tokens":5,"completion_tokens":7,"total_tokens":12}}`)
		Expect(chunk).NotTo(BeNil())
		Expect(chunk.Usage).To(Equal(&openrouter.Usage{PromptTokens: 5, CompletionTokens: 7, TotalTokens: 12}))
		_, ok := chunk.TextDelta()
		Expect(ok).To(BeFalse())
	})

	It("falls back for numeric error codes", func() {
		chunk := dec.Decode(`data: {"id":"gen-1","object":"chat.completion.chunk","error":{"code":502,"message":"Provider disconnected"},"choices":[{"index":0,"delta":{"content":""},"finish_reason":"error"}]}`)
		Expect(chunk).NotTo(BeNil())
		Expect(chunk.IsFailed()).To(BeTrue())
		Expect(chunk.Error.Code).To(Equal("502"))

		msg, ok := chunk.ErrorMessage()
		Expect(ok).To(BeTrue())
		Expect(msg).To(Equal("Provider disconnected"))

		reason, ok := chunk.FinishReason()
		Expect(ok).To(BeTrue())
		Expect(reason).To(Equal("error"))
		Expect(logBuf.String()).To(ContainSubstring("falling back to permissive chunk decode"))
	})

	It("coerces string indexes in the fallback", func() {
		chunk := dec.Decode(`data: {"id":"gen-1","created":"1700000000","choices":[{"index":"0","delta":{"tool_calls":[{"index":"1","function":{"arguments":"{}"}}]}}]}`)
		Expect(chunk).NotTo(BeNil())
		Expect(chunk.Created).To(Equal(int64(1700000000)))
		Expect(chunk.ToolCallDeltas()).To(HaveLen(1))
		Expect(chunk.ToolCallDeltas()[0].Index).To(Equal(1))
	})

	It("is idempotent", func() {
		line := `data: {"id":"gen-1","choices":[{"index":0,"delta":{"content":"x"}}]}`
		Expect(dec.Decode(line)).To(Equal(dec.Decode(line)))
	})
})
