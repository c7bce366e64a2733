package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/llmstream/pkg/logger"
)

func parseJSONLine(buf *bytes.Buffer) map[string]any {
	var parsed map[string]any
	ExpectWithOffset(1, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &parsed)).To(Succeed())
	return parsed
}

var _ = Describe("Logger", func() {
	Describe("New", func() {
		It("creates a default text logger", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf))
			l.Info("stream opened", "provider", "openai")

			output := buf.String()
			Expect(output).To(ContainSubstring("stream opened"))
			Expect(output).To(ContainSubstring("provider=openai"))
		})

		It("filters debug when not enabled", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithDebug(false))
			l.Debug("skipping non-data line")

			Expect(buf.String()).To(BeEmpty())
		})

		It("respects debug level", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithDebug(true))
			l.Debug("skipping non-data line")

			Expect(buf.String()).To(ContainSubstring("skipping non-data line"))
		})

		It("creates a JSON logger", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithJSON(true))
			l.Warn("dropping undecodable line", "line", "data: {oops")

			parsed := parseJSONLine(&buf)
			Expect(parsed["msg"]).To(Equal("dropping undecodable line"))
			Expect(parsed["level"]).To(Equal("WARN"))
			Expect(parsed["line"]).To(Equal("data: {oops"))
		})

		It("creates a pretty logger", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithPretty(true))
			l.Info("pretty output")

			Expect(buf.String()).To(ContainSubstring("pretty output"))
		})

		It("filters debug in the pretty logger too", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithPretty(true))
			l.Debug("hidden")

			Expect(buf.String()).To(BeEmpty())
		})

		It("supports multiple writers", func() {
			var buf1, buf2 bytes.Buffer
			l := logger.New(logger.WithWriters(&buf1, &buf2))
			l.Info("multi")

			Expect(buf1.String()).To(ContainSubstring("multi"))
			Expect(buf2.String()).To(ContainSubstring("multi"))
		})
	})

	Describe("options", func() {
		It("sets the level directly", func() {
			var buf bytes.Buffer
			log := logger.New(logger.WithWriter(&buf), logger.WithLevel(slog.LevelWarn))

			log.Info("hidden")
			log.Warn("shown")

			Expect(buf.String()).NotTo(ContainSubstring("hidden"))
			Expect(buf.String()).To(ContainSubstring("shown"))
		})

		It("skips nil writers", func() {
			var buf bytes.Buffer
			log := logger.New(logger.WithWriters(nil, &buf))

			Expect(func() { log.Info("delta") }).NotTo(Panic())
			Expect(buf.String()).To(ContainSubstring("delta"))
		})
	})

	Describe("Nop", func() {
		It("does not panic on any method", func() {
			l := logger.Nop()
			Expect(func() {
				l.Debug("msg")
				l.Info("msg")
				l.Warn("msg")
				l.Error("msg")
				l.With("key", "value").Info("msg")
				l.WithGroup("group").Info("msg")
			}).NotTo(Panic())
		})

		It("discards all output", func() {
			l := logger.Nop()
			Expect(l.Handler().Enabled(context.Background(), slog.LevelError)).To(BeFalse())
		})
	})

	Describe("OrNop", func() {
		It("returns a usable logger for nil", func() {
			Expect(logger.OrNop(nil).Handler()).NotTo(BeNil())
		})

		It("returns the given logger otherwise", func() {
			l := logger.New()
			Expect(logger.OrNop(l)).To(BeIdenticalTo(l))
		})
	})

	Describe("Multi", func() {
		It("dispatches to all loggers", func() {
			var buf1, buf2 bytes.Buffer
			multi := logger.Multi(
				logger.New(logger.WithWriter(&buf1)),
				logger.New(logger.WithWriter(&buf2), logger.WithJSON(true)),
			)

			multi.Info("broadcast", "key", "val")

			Expect(buf1.String()).To(ContainSubstring("broadcast"))
			Expect(parseJSONLine(&buf2)["key"]).To(Equal("val"))
		})

		It("only forwards records a handler accepts", func() {
			var quiet, verbose bytes.Buffer
			multi := logger.Multi(
				logger.New(logger.WithWriter(&quiet)),
				logger.New(logger.WithWriter(&verbose), logger.WithDebug(true)),
			)

			multi.Debug("detail")

			Expect(quiet.String()).To(BeEmpty())
			Expect(verbose.String()).To(ContainSubstring("detail"))
		})

		It("keeps writing after one handler fails", func() {
			var buf bytes.Buffer
			multi := logger.Multi(
				logger.New(logger.WithWriter(failingWriter{}), logger.WithJSON(true)),
				logger.New(logger.WithWriter(&buf), logger.WithJSON(true)),
			)

			r := slog.NewRecord(time.Now(), slog.LevelInfo, "chunk", 0)
			err := multi.Handler().Handle(context.Background(), r)

			Expect(err).To(MatchError(ContainSubstring("disk full")))
			Expect(parseJSONLine(&buf)["msg"]).To(Equal("chunk"))
		})

		It("ignores nil loggers", func() {
			var buf bytes.Buffer
			multi := logger.Multi(nil, logger.New(logger.WithWriter(&buf)))

			multi.Info("kept")

			Expect(buf.String()).To(ContainSubstring("kept"))
		})

		It("supports With and WithGroup", func() {
			var buf bytes.Buffer
			multi := logger.Multi(logger.New(logger.WithWriter(&buf), logger.WithJSON(true)))

			multi.With("component", "decoder").WithGroup("event").Info("decoded", "type", "response.completed")

			parsed := parseJSONLine(&buf)
			Expect(parsed["component"]).To(Equal("decoder"))
			group, ok := parsed["event"].(map[string]any)
			Expect(ok).To(BeTrue(), "expected 'event' group in JSON output")
			Expect(group["type"]).To(Equal("response.completed"))
		})
	})
})

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}
