package logger

import (
	"io"
	"log/slog"
)

// Option configures a Logger created with New.
type Option func(*config)

// WithDebug lowers the level to Debug, where decoders report skipped stream
// lines and permissive fallbacks.
func WithDebug(debug bool) Option {
	return func(c *config) {
		c.level = slog.LevelInfo
		if debug {
			c.level = slog.LevelDebug
		}
	}
}

// WithLevel sets the minimum level directly. The --log-file logger uses it to
// record debug output even when the terminal stays at Info.
func WithLevel(level slog.Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithPretty renders records through charmbracelet/log for interactive
// terminals.
func WithPretty(pretty bool) Option {
	return func(c *config) {
		c.pretty = pretty
	}
}

// WithJSON selects slog's JSON handler, as used for --json-logs and
// --log-file.
func WithJSON(json bool) Option {
	return func(c *config) {
		c.json = json
	}
}

// WithWriter replaces the output writer. Defaults to os.Stderr so stdout
// carries only model output.
func WithWriter(w io.Writer) Option {
	return WithWriters(w)
}

// WithWriters fans output to every non-nil writer.
func WithWriters(ws ...io.Writer) Option {
	return func(c *config) {
		c.writers = c.writers[:0]
		for _, w := range ws {
			if w != nil {
				c.writers = append(c.writers, w)
			}
		}
	}
}

// WithSource adds the calling file:line to each record.
func WithSource(source bool) Option {
	return func(c *config) {
		c.source = source
	}
}
