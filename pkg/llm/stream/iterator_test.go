package stream_test

import (
	"bytes"
	"errors"
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/llmstream/pkg/llm/stream"
	"github.com/papercomputeco/llmstream/pkg/logger"
	"github.com/papercomputeco/llmstream/pkg/sse"
)

// payloadDecoder decodes "data: <payload>" into the payload, rejecting "bad".
var payloadDecoder = stream.DecoderFunc[string](func(line string) *string {
	payload := strings.TrimPrefix(line, stream.DataPrefix)
	if payload == "bad" {
		return nil
	}
	return &payload
})

// erroringSource yields its lines and then fails with err.
type erroringSource struct {
	lines []string
	err   error
	calls int
}

func (s *erroringSource) Next() (string, error) {
	s.calls++
	if len(s.lines) == 0 {
		return "", s.err
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

// countingDecoder records every line handed to it.
type countingDecoder struct {
	seen []string
}

func (d *countingDecoder) Decode(line string) *string {
	d.seen = append(d.seen, line)
	return payloadDecoder(line)
}

var _ = Describe("Iterator", func() {
	Describe("Next", func() {
		It("yields decoded lines in order and skips framing noise", func() {
			it := stream.New[string](stream.NewSliceSource(
				"",
				"data: a",
				"   ",
				": keep-alive",
				"event: ping",
				"data: b",
			), payloadDecoder)

			values, err := stream.Collect(it)
			Expect(err).NotTo(HaveOccurred())
			Expect(values).To(HaveLen(2))
			Expect(*values[0]).To(Equal("a"))
			Expect(*values[1]).To(Equal("b"))
		})

		It("suppresses decode failures", func() {
			it := stream.New[string](stream.NewSliceSource("data: bad", "data: good"), payloadDecoder)

			v, err := it.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(*v).To(Equal("good"))
		})

		It("never hands non-data lines to the decoder", func() {
			dec := &countingDecoder{}
			it := stream.New[string](stream.NewSliceSource("not-data", "data:nospace", "data: x"), dec)

			_, err := stream.Collect(it)
			Expect(err).NotTo(HaveOccurred())
			Expect(dec.seen).To(Equal([]string{"data: x"}))
		})

		It("returns nil, nil at exhaustion and keeps doing so", func() {
			it := stream.New[string](stream.NewSliceSource(), payloadDecoder)

			for range 3 {
				v, err := it.Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(v).To(BeNil())
			}
		})

		It("treats a [DONE] sentinel like any undecodable line", func() {
			doneRejecting := stream.DecoderFunc[string](func(line string) *string {
				if line == "data: [DONE]" {
					return nil
				}
				return payloadDecoder(line)
			})
			it := stream.New[string](stream.NewSliceSource("data: a", "data: [DONE]"), doneRejecting)

			values, err := stream.Collect(it)
			Expect(err).NotTo(HaveOccurred())
			Expect(values).To(HaveLen(1))
		})

		It("propagates source failures as terminal errors", func() {
			boom := errors.New("connection reset by peer")
			src := &erroringSource{lines: []string{"data: a"}, err: boom}
			it := stream.New[string](src, payloadDecoder)

			v, err := it.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(*v).To(Equal("a"))

			v, err = it.Next()
			Expect(v).To(BeNil())
			Expect(err).To(MatchError(boom))
			Expect(it.Err()).To(MatchError(boom))

			_, err = it.Next()
			Expect(err).To(MatchError(boom))
			Expect(src.calls).To(Equal(2), "source must not be read after a failure")
		})

		It("reads one line per decoded value", func() {
			src := &erroringSource{lines: []string{"data: a", "data: b"}, err: io.EOF}
			it := stream.New[string](src, payloadDecoder)

			_, err := it.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(src.calls).To(Equal(1))
		})

		It("logs skipped framing lines at debug level", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithDebug(true))
			it := stream.New[string](stream.NewSliceSource(": comment"), payloadDecoder, stream.WithLogger(l))

			_, err := it.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(buf.String()).To(ContainSubstring("skipping non-data stream line"))
		})
	})

	Describe("All", func() {
		It("stops early when the consumer breaks", func() {
			src := &erroringSource{lines: []string{"data: a", "data: b", "data: c"}, err: io.EOF}
			it := stream.New[string](src, payloadDecoder)

			for v, err := range it.All() {
				Expect(err).NotTo(HaveOccurred())
				Expect(*v).To(Equal("a"))
				break
			}
			Expect(src.calls).To(Equal(1))
		})

		It("yields the source error once", func() {
			boom := errors.New("boom")
			it := stream.New[string](&erroringSource{err: boom}, payloadDecoder)

			var errs []error
			for _, err := range it.All() {
				errs = append(errs, err)
			}
			Expect(errs).To(HaveLen(1))
			Expect(errs[0]).To(MatchError(boom))
		})
	})

	Context("over an sse.LineReader", func() {
		It("decodes a raw SSE body", func() {
			body := "data: a\n\n: ping\n\ndata: bad\n\ndata: b\n\n"
			it := stream.New[string](sse.NewLineReader(strings.NewReader(body)), payloadDecoder)

			values, err := stream.Collect(it)
			Expect(err).NotTo(HaveOccurred())
			Expect(values).To(HaveLen(2))
		})
	})
})
