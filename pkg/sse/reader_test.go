package sse

import (
	"bytes"
	"errors"
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// failingReader returns data once and then a fixed error.
type failingReader struct {
	data []byte
	err  error
}

func (f *failingReader) Read(p []byte) (int, error) {
	if len(f.data) > 0 {
		n := copy(p, f.data)
		f.data = f.data[n:]
		return n, nil
	}
	return 0, f.err
}

func drain(r *LineReader) ([]string, error) {
	var lines []string
	for {
		line, err := r.Next()
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}
}

var _ = Describe("LineReader", func() {
	Describe("Next", func() {
		Context("with standard SSE framing", func() {
			It("returns each line including blank separators", func() {
				r := NewLineReader(strings.NewReader("data: first\n\ndata: second\n\n"))

				lines, err := drain(r)
				Expect(err).To(MatchError(io.EOF))
				Expect(lines).To(Equal([]string{"data: first", "", "data: second", ""}))
			})

			It("strips carriage returns", func() {
				r := NewLineReader(strings.NewReader("data: a\r\n\r\n"))

				line, err := r.Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(line).To(Equal("data: a"))
			})

			It("delivers a final line without a trailing newline", func() {
				r := NewLineReader(strings.NewReader("data: tail"))

				line, err := r.Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(line).To(Equal("data: tail"))

				_, err = r.Next()
				Expect(err).To(MatchError(io.EOF))
			})

			It("keeps comment and event lines for the caller to filter", func() {
				r := NewLineReader(strings.NewReader(": keep-alive\nevent: ping\ndata: {}\n"))

				lines, err := drain(r)
				Expect(err).To(MatchError(io.EOF))
				Expect(lines).To(Equal([]string{": keep-alive", "event: ping", "data: {}"}))
			})
		})

		Context("edge cases", func() {
			It("returns io.EOF on empty input", func() {
				r := NewLineReader(strings.NewReader(""))

				_, err := r.Next()
				Expect(err).To(MatchError(io.EOF))
			})

			It("keeps returning io.EOF after exhaustion", func() {
				r := NewLineReader(strings.NewReader("x\n"))
				_, _ = drain(r)

				_, err := r.Next()
				Expect(err).To(MatchError(io.EOF))
			})

			It("surfaces source errors", func() {
				boom := errors.New("connection reset")
				r := NewLineReader(&failingReader{data: []byte("data: ok\n"), err: boom})

				line, err := r.Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(line).To(Equal("data: ok"))

				_, err = r.Next()
				Expect(err).To(MatchError(boom))

				_, err = r.Next()
				Expect(err).To(MatchError(boom))
			})

			It("fails lines longer than the configured maximum", func() {
				long := strings.Repeat("a", 128)
				r := NewLineReader(strings.NewReader(long+"\n"), WithMaxLineSize(64))

				_, err := r.Next()
				Expect(err).To(HaveOccurred())
				Expect(errors.Is(err, io.EOF)).To(BeFalse())
			})
		})

		Context("verbatim byte forwarding", func() {
			It("forwards all lines including blank separators to dst", func() {
				input := "data: {\"type\":\"response.created\"}\n\ndata: [DONE]\n\n"
				dst := &bytes.Buffer{}
				r := NewLineReader(strings.NewReader(input), WithTee(dst))

				_, err := drain(r)
				Expect(err).To(MatchError(io.EOF))
				Expect(dst.String()).To(Equal(input))
			})

			It("forwards only what has been read so far", func() {
				dst := &bytes.Buffer{}
				r := NewLineReader(strings.NewReader("one\ntwo\n"), WithTee(dst))

				_, err := r.Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(dst.String()).To(Equal("one\n"))
			})
		})
	})
})
