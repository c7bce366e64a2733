// Package stream turns a pull-based source of server-sent event lines into a
// pull-based sequence of decoded values.
//
// The Iterator owns no goroutines and buffers nothing beyond the line being
// decoded: each call to Next reads lines until one decodes, the source is
// exhausted, or the source fails. Decode failures are never surfaced as
// iteration errors; only a failure to read the next line is.
package stream

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/papercomputeco/llmstream/pkg/logger"
	"github.com/papercomputeco/llmstream/pkg/utils"
)

// DataPrefix is the literal marker every decodable line starts with.
const DataPrefix = "data: "

// MaxLoggedLine bounds how much of a skipped line is written to debug logs.
const MaxLoggedLine = 200

// LineSource yields complete text lines. Next returns io.EOF once the source
// is exhausted; any other error is a transport failure.
type LineSource interface {
	Next() (string, error)
}

// Decoder turns one "data: " line into a value, or nil when the line cannot
// be decoded.
type Decoder[T any] interface {
	Decode(line string) *T
}

// DecoderFunc adapts a plain function to the Decoder interface.
type DecoderFunc[T any] func(line string) *T

func (f DecoderFunc[T]) Decode(line string) *T { return f(line) }

// Option configures an Iterator.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for skipped framing lines.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Iterator is a forward-only, single-consumer sequence of decoded values.
type Iterator[T any] struct {
	src     LineSource
	decoder Decoder[T]
	logger  *slog.Logger

	done bool
	err  error
}

// New returns an Iterator that pulls lines from src and decodes them with dec.
func New[T any](src LineSource, dec Decoder[T], opts ...Option) *Iterator[T] {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	return &Iterator[T]{
		src:     src,
		decoder: dec,
		logger:  logger.OrNop(o.logger),
	}
}

// Next returns the next decoded value. It returns (nil, nil) once the source
// is exhausted and (nil, err) when the source fails; both are terminal and
// repeat on every later call.
func (it *Iterator[T]) Next() (*T, error) {
	for !it.done {
		line, err := it.src.Next()
		if err != nil {
			it.done = true
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			it.err = fmt.Errorf("reading stream: %w", err)
			return nil, it.err
		}

		// Blank lines are SSE frame separators.
		if strings.TrimSpace(line) == "" {
			continue
		}

		if !strings.HasPrefix(line, DataPrefix) {
			it.logger.Debug("skipping non-data stream line", "line", utils.Truncate(line, MaxLoggedLine))
			continue
		}

		if v := it.decoder.Decode(line); v != nil {
			return v, nil
		}
	}

	return nil, it.err
}

// Err returns the terminal source error, if any.
func (it *Iterator[T]) Err() error {
	return it.err
}

// All returns a range-over-func view of the iterator. A source failure is
// yielded once as (nil, err) and ends the sequence.
//
//	for ev, err := range it.All() {
//		if err != nil {
//			return err
//		}
//		...
//	}
func (it *Iterator[T]) All() iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		for {
			v, err := it.Next()
			if err != nil {
				yield(nil, err)
				return
			}
			if v == nil {
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// Collect drains the iterator into a slice. It is meant for tests and
// offline decoding of captured streams.
func Collect[T any](it *Iterator[T]) ([]*T, error) {
	var out []*T
	for v, err := range it.All() {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Stream is an Iterator bound to the response body its lines come from.
type Stream[T any] struct {
	*Iterator[T]
	body io.Closer
}

// NewStream returns a Stream reading src and owning body.
func NewStream[T any](body io.Closer, src LineSource, dec Decoder[T], opts ...Option) *Stream[T] {
	return &Stream[T]{
		Iterator: New(src, dec, opts...),
		body:     body,
	}
}

// Close releases the underlying body. A Next call after Close surfaces the
// body's read error unless the stream had already ended.
func (s *Stream[T]) Close() error {
	if s.body == nil {
		return nil
	}
	return s.body.Close()
}
