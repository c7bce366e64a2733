package sse

import (
	"bufio"
	"io"
)

const (
	initialBufferSize = 64 * 1024
	defaultMaxLine    = 1024 * 1024
)

// Option configures a LineReader.
type Option func(*LineReader)

// WithTee writes every raw line, including its newline, to dest as it is read.
//
// ┌──────────────────┐
// │ source io.Reader │
// └──────────────────┘
// │
// ▼
// ┌──────────────────┐   ┌───────────────────────┐
// │ LineReader.Next()│──▶│ destination io.Writer │
// └──────────────────┘   └───────────────────────┘
// │
// ▼
// ┌──────────────────┐
// │       line       │
// └──────────────────┘
func WithTee(dest io.Writer) Option {
	return func(r *LineReader) {
		r.dest = dest
	}
}

// WithMaxLineSize overrides the largest line the reader accepts. Responses API
// lifecycle events embed the whole response object, so lines can get large.
func WithMaxLineSize(n int) Option {
	return func(r *LineReader) {
		r.maxLine = n
	}
}

// LineReader pulls complete lines from a source io.Reader. It never reads
// ahead by more than the scanner buffer and never delivers a partial line.
type LineReader struct {
	scanner *bufio.Scanner
	dest    io.Writer
	maxLine int

	// err is sticky: once the source fails or is exhausted, Next keeps
	// returning it.
	err error
}

// NewLineReader returns a LineReader over src.
func NewLineReader(src io.Reader, opts ...Option) *LineReader {
	r := &LineReader{maxLine: defaultMaxLine}
	for _, opt := range opts {
		opt(r)
	}

	scanner := bufio.NewScanner(src)
	initial := initialBufferSize
	if r.maxLine < initial {
		initial = r.maxLine
	}
	scanner.Buffer(make([]byte, initial), r.maxLine)
	r.scanner = scanner

	return r
}

// Next returns the next line without its line terminator ("\n" or "\r\n").
// It blocks until a complete line is available and returns io.EOF once the
// source is exhausted. Any other error comes from the source (or the tee
// destination) and ends the stream.
func (r *LineReader) Next() (string, error) {
	if r.err != nil {
		return "", r.err
	}

	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			r.err = err
		} else {
			r.err = io.EOF
		}
		return "", r.err
	}

	line := r.scanner.Text()

	if r.dest != nil {
		// bufio.Scanner strips the newline from Scan() so we reinsert it here.
		if _, err := io.WriteString(r.dest, line+"\n"); err != nil {
			r.err = err
			return "", err
		}
	}

	return line, nil
}
