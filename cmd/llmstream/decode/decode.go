// Package decodecmder provides the decode command for turning a captured
// provider stream into JSON lines.
package decodecmder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/llmstream/cmd/llmstream/cmdenv"
	"github.com/papercomputeco/llmstream/pkg/config"
	"github.com/papercomputeco/llmstream/pkg/eventstream"
	"github.com/papercomputeco/llmstream/pkg/llm/openrouter"
	"github.com/papercomputeco/llmstream/pkg/llm/responses"
	"github.com/papercomputeco/llmstream/pkg/llm/stream"
	"github.com/papercomputeco/llmstream/pkg/sse"
)

const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
)

// ErrUnknownProvider is returned for an unsupported --provider value.
var ErrUnknownProvider = errors.New("unknown provider")

type decodeCommander struct {
	provider   string
	sinkKind   string
	sinkTarget string
	sinkTopic  string

	stdout io.Writer
	logger *slog.Logger
}

var registryKeys = []string{
	config.FlagSink,
	config.FlagSinkTarget,
	config.FlagSinkTopic,
}

const decodeLongDesc string = `Decode a captured event stream.

Reads a raw server-sent event capture (for example one written by
"llmstream respond --record") from FILE, or stdin when FILE is omitted or
"-", and prints every decoded event as one JSON object per line.

Lines that are not "data: " lines are skipped. Payloads that cannot be
decoded are logged at warn level and skipped.

Examples:
  llmstream decode haiku.sse
  llmstream decode --provider openrouter chat.sse
  cat haiku.sse | llmstream decode
  llmstream decode --sink kafka --sink-target localhost:9092 haiku.sse`

const decodeShortDesc string = "Decode a captured stream into JSON lines"

func NewDecodeCmd() *cobra.Command {
	cmder := &decodeCommander{}

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: decodeShortDesc,
		Long:  decodeLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.stdout = cmd.OutOrStdout()

			l, closeLog, err := cmdenv.Logger(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()
			cmder.logger = l

			cfg, err := cmdenv.Config(cmd, registryKeys...)
			if err != nil {
				return err
			}

			src := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening capture: %w", err)
				}
				defer f.Close()
				src = f
			}

			return cmder.run(cmd.Context(), cfg, src)
		},
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveDefault
		},
	}

	cmd.Flags().StringVarP(&cmder.provider, "provider", "p", ProviderOpenAI, "Stream format: openai or openrouter")
	config.AddStringFlag(cmd, config.Flags, config.FlagSink, &cmder.sinkKind)
	config.AddStringFlag(cmd, config.Flags, config.FlagSinkTarget, &cmder.sinkTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagSinkTopic, &cmder.sinkTopic)

	_ = cmd.RegisterFlagCompletionFunc("provider", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{ProviderOpenAI, ProviderOpenRouter}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (c *decodeCommander) run(ctx context.Context, cfg *config.Config, src io.Reader) error {
	provider := strings.ToLower(strings.TrimSpace(c.provider))
	if provider != ProviderOpenAI && provider != ProviderOpenRouter {
		return fmt.Errorf("%w: %q (expected %s or %s)", ErrUnknownProvider, c.provider, ProviderOpenAI, ProviderOpenRouter)
	}

	pub, err := cmdenv.Publisher(cfg, c.stdout)
	if err != nil {
		return err
	}
	defer pub.Close()

	emitter := eventstream.NewEmitter(pub, eventstream.EventSource{Provider: provider})
	lines := sse.NewLineReader(src)

	var n int
	if provider == ProviderOpenRouter {
		it := stream.New[openrouter.ChatChunk](lines, openrouter.NewChunkDecoder(c.logger), stream.WithLogger(c.logger))
		n, err = emit(ctx, it, c.stdout, emitter, c.logger)
	} else {
		it := stream.New[responses.StreamEvent](lines, responses.NewDecoder(c.logger), stream.WithLogger(c.logger))
		n, err = emit(ctx, it, c.stdout, emitter, c.logger)
	}
	if err != nil {
		return err
	}

	c.logger.Debug("decoded capture", "provider", provider, "events", n)
	return nil
}

// emit writes every value of it to w as a JSON line and publishes it.
func emit[T any](ctx context.Context, it *stream.Iterator[T], w io.Writer, emitter *eventstream.Emitter, l *slog.Logger) (int, error) {
	enc := json.NewEncoder(w)
	n := 0
	for v, err := range it.All() {
		if err != nil {
			return n, err
		}
		if err := enc.Encode(v); err != nil {
			return n, fmt.Errorf("writing event: %w", err)
		}
		if err := emitter.Emit(ctx, v); err != nil {
			l.Warn("publishing event", "error", err)
		}
		n++
	}
	return n, nil
}
