// Package respondcmder provides the respond command for streaming an OpenAI
// Responses API call to the terminal.
package respondcmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/llmstream/cmd/llmstream/cmdenv"
	"github.com/papercomputeco/llmstream/pkg/cliui"
	"github.com/papercomputeco/llmstream/pkg/config"
	"github.com/papercomputeco/llmstream/pkg/eventstream"
	"github.com/papercomputeco/llmstream/pkg/llm/responses"
)

const provider = "openai"

type respondCommander struct {
	model        string
	baseURL      string
	timeout      string
	sinkKind     string
	sinkTarget   string
	sinkTopic    string
	instructions string
	record       string
	render       bool
	jsonOut      bool

	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

var registryKeys = []string{
	config.FlagOpenAIModel,
	config.FlagOpenAIBaseURL,
	config.FlagTimeout,
	config.FlagSink,
	config.FlagSinkTarget,
	config.FlagSinkTopic,
}

const respondLongDesc string = `Stream a response from the OpenAI Responses API.

Text deltas are printed as they arrive. With --render the full answer is
rendered as markdown once the stream completes. With --json every decoded
stream event is printed as one JSON object per line.

Decoded events can also be published to an event sink (jsonl or kafka) and
the raw stream can be captured with --record for later "llmstream replay"
or "llmstream decode".

Examples:
  llmstream respond "Write a haiku about pipes"
  llmstream respond -m gpt-4.1 --instructions "Answer tersely" "What is SSE?"
  llmstream respond --record haiku.sse --render "Write a haiku"
  llmstream respond --sink jsonl --sink-target events.jsonl "hello"`

const respondShortDesc string = "Stream an OpenAI Responses API call"

func NewRespondCmd() *cobra.Command {
	cmder := &respondCommander{}

	cmd := &cobra.Command{
		Use:   "respond <prompt>",
		Short: respondShortDesc,
		Long:  respondLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.stdout = cmd.OutOrStdout()
			cmder.stderr = cmd.ErrOrStderr()

			l, closeLog, err := cmdenv.Logger(cmd, cmder.stderr)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()
			cmder.logger = l

			cfg, err := cmdenv.Config(cmd, registryKeys...)
			if err != nil {
				return err
			}

			apiKey, err := cmdenv.APIKey(cmd, provider, l)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return cmder.run(ctx, cfg, apiKey, strings.Join(args, " "))
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagOpenAIModel, &cmder.model)
	config.AddStringFlag(cmd, config.Flags, config.FlagOpenAIBaseURL, &cmder.baseURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagTimeout, &cmder.timeout)
	config.AddStringFlag(cmd, config.Flags, config.FlagSink, &cmder.sinkKind)
	config.AddStringFlag(cmd, config.Flags, config.FlagSinkTarget, &cmder.sinkTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagSinkTopic, &cmder.sinkTopic)
	cmd.Flags().StringVarP(&cmder.instructions, "instructions", "i", "", "System instructions for the model")
	cmd.Flags().StringVar(&cmder.record, "record", "", "Write the raw event stream to this file")
	cmd.Flags().BoolVar(&cmder.render, "render", false, "Render the completed answer as markdown")
	cmd.Flags().BoolVar(&cmder.jsonOut, "json", false, "Print decoded events as JSON lines")

	return cmd
}

func (c *respondCommander) run(ctx context.Context, cfg *config.Config, apiKey, prompt string) error {
	t, err := cmdenv.Transport(cfg, cfg.OpenAI.BaseURL, apiKey, c.logger)
	if err != nil {
		return err
	}

	opts := []responses.ClientOption{responses.WithLogger(c.logger)}
	rec, err := cmdenv.Recorder(c.record)
	if err != nil {
		return err
	}
	if rec != nil {
		defer rec.Close()
		opts = append(opts, responses.WithRecorder(rec))
	}
	client := responses.NewClient(t, opts...)

	pub, err := cmdenv.Publisher(cfg, c.stdout)
	if err != nil {
		return err
	}
	defer pub.Close()

	s, err := client.Stream(ctx, &responses.Request{
		Model:        cfg.OpenAI.Model,
		Input:        responses.TextInput(prompt),
		Instructions: c.instructions,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	emitter := eventstream.NewEmitter(pub, eventstream.EventSource{
		Provider: provider,
		Model:    cfg.OpenAI.Model,
	})
	c.logger.Debug("streaming response",
		"model", cfg.OpenAI.Model,
		"stream_id", emitter.Source().StreamID,
	)

	acc := responses.NewAccumulator()
	enc := json.NewEncoder(c.stdout)
	for ev, err := range s.All() {
		if err != nil {
			return err
		}

		acc.Apply(ev)
		if err := emitter.Emit(ctx, ev); err != nil {
			c.logger.Warn("publishing event", "type", ev.Type, "error", err)
		}

		switch {
		case c.jsonOut:
			if err := enc.Encode(ev); err != nil {
				return fmt.Errorf("writing event: %w", err)
			}
		case c.render:
		default:
			c.printDelta(ev)
		}
	}

	return c.finish(acc)
}

func (c *respondCommander) printDelta(ev *responses.StreamEvent) {
	if d, ok := ev.TextDelta(); ok {
		fmt.Fprint(c.stdout, d)
		return
	}
	if d, ok := ev.RefusalDelta(); ok {
		fmt.Fprint(c.stdout, cliui.WarnStyle.Render(d))
	}
}

func (c *respondCommander) finish(acc *responses.Accumulator) error {
	if err := acc.Err(); err != nil {
		if !c.jsonOut {
			fmt.Fprintln(c.stdout)
		}
		return err
	}

	switch {
	case c.jsonOut:
	case c.render:
		out, err := cliui.RenderMarkdown(acc.Text())
		if err != nil {
			c.logger.Warn("rendering markdown", "error", err)
		}
		fmt.Fprint(c.stdout, out)
	default:
		fmt.Fprintln(c.stdout)
	}

	for _, call := range acc.FunctionCalls() {
		fmt.Fprintf(c.stderr, "  %s %s(%s)\n",
			cliui.KeyStyle.Render("call"),
			cliui.NameStyle.Render(call.Name),
			cliui.DimStyle.Render(call.Arguments),
		)
	}

	if reason := acc.IncompleteReason(); reason != "" {
		fmt.Fprintf(c.stderr, "  %s response incomplete: %s\n", cliui.WarnStyle.Render("!"), reason)
	}

	if usage, ok := acc.Usage(); ok {
		c.logger.Info("response finished",
			"response_id", acc.ResponseID(),
			"status", acc.Status(),
			"input_tokens", usage.InputTokens,
			"output_tokens", usage.OutputTokens,
		)
	}

	return nil
}
