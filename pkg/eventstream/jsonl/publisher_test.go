package jsonl_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/llmstream/pkg/eventstream"
	"github.com/papercomputeco/llmstream/pkg/eventstream/jsonl"
)

var _ = Describe("Publisher", func() {
	It("writes one envelope per line", func() {
		var buf bytes.Buffer
		p := jsonl.NewPublisher(&buf)
		emitter := eventstream.NewEmitter(p, eventstream.EventSource{Provider: "openai", Model: "gpt-4o"})

		Expect(emitter.Emit(context.Background(), map[string]string{"type": "response.created"})).To(Succeed())
		Expect(emitter.Emit(context.Background(), map[string]string{"type": "response.completed"})).To(Succeed())
		Expect(p.Close()).To(Succeed())

		scanner := bufio.NewScanner(&buf)
		var envs []eventstream.Envelope
		for scanner.Scan() {
			var env eventstream.Envelope
			Expect(json.Unmarshal(scanner.Bytes(), &env)).To(Succeed())
			envs = append(envs, env)
		}
		Expect(envs).To(HaveLen(2))
		Expect(envs[0].Sequence).To(Equal(int64(0)))
		Expect(envs[1].Sequence).To(Equal(int64(1)))
		Expect(envs[1].Source.Provider).To(Equal("openai"))
		Expect(envs[0].Source.StreamID).To(Equal(envs[1].Source.StreamID))
		Expect(string(envs[1].Event)).To(Equal(`{"type":"response.completed"}`))
	})

	It("rejects nil envelopes", func() {
		p := jsonl.NewPublisher(&bytes.Buffer{})
		Expect(p.Publish(context.Background(), nil)).To(MatchError(eventstream.ErrNilEnvelope))
	})

	It("appends to a file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "events.jsonl")

		for range 2 {
			p, err := jsonl.Open(path)
			Expect(err).NotTo(HaveOccurred())
			env, err := eventstream.NewEnvelope(eventstream.EventSource{Provider: "openrouter"}, 0, "x")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Publish(context.Background(), env)).To(Succeed())
			Expect(p.Close()).To(Succeed())
		}

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(bytes.Count(data, []byte("\n"))).To(Equal(2))
	})

	It("fails to open a path in a missing directory", func() {
		_, err := jsonl.Open(filepath.Join(GinkgoT().TempDir(), "missing", "events.jsonl"))
		Expect(err).To(MatchError(ContainSubstring("opening jsonl sink")))
	})
})
