// Package chatcmder provides the chat command for streaming an OpenRouter
// chat completion to the terminal.
package chatcmder

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
	"github.com/papercomputeco/llmstream/pkg/llm/openrouter"
)

const provider = "openrouter"

type chatCommander struct {
	model         string
	baseURL       string
	appURL        string
	appTitle      string
	timeout       string
	sinkKind      string
	sinkTarget    string
	sinkTopic     string
	system        string
	record        string
	jsonOut       bool
	showReasoning bool

	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

var registryKeys = []string{
	config.FlagOpenRouterModel,
	config.FlagOpenRouterBaseURL,
	config.FlagAppURL,
	config.FlagAppTitle,
	config.FlagTimeout,
	config.FlagSink,
	config.FlagSinkTarget,
	config.FlagSinkTopic,
}

const chatLongDesc string = `Stream a chat completion from OpenRouter.

Content deltas are printed as they arrive. With --json every decoded chunk is
printed as one JSON object per line. Reasoning tokens are shown dimmed when
--reasoning is set and the model emits them.

Requests carry HTTP-Referer and X-Title attribution headers from
openrouter.app_url and openrouter.app_title.

Examples:
  llmstream chat "Explain server-sent events"
  llmstream chat -m anthropic/claude-sonnet-4 --system "Be brief" "hello"
  llmstream chat --json "hello" | jq .choices
  llmstream chat --record chat.sse "hello"`

const chatShortDesc string = "Stream an OpenRouter chat completion"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat <prompt>",
		Short: chatShortDesc,
		Long:  chatLongDesc,
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

	config.AddStringFlag(cmd, config.Flags, config.FlagOpenRouterModel, &cmder.model)
	config.AddStringFlag(cmd, config.Flags, config.FlagOpenRouterBaseURL, &cmder.baseURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagAppURL, &cmder.appURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagAppTitle, &cmder.appTitle)
	config.AddStringFlag(cmd, config.Flags, config.FlagTimeout, &cmder.timeout)
	config.AddStringFlag(cmd, config.Flags, config.FlagSink, &cmder.sinkKind)
	config.AddStringFlag(cmd, config.Flags, config.FlagSinkTarget, &cmder.sinkTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagSinkTopic, &cmder.sinkTopic)
	cmd.Flags().StringVarP(&cmder.system, "system", "s", "", "System message")
	cmd.Flags().StringVar(&cmder.record, "record", "", "Write the raw event stream to this file")
	cmd.Flags().BoolVar(&cmder.jsonOut, "json", false, "Print decoded chunks as JSON lines")
	cmd.Flags().BoolVar(&cmder.showReasoning, "reasoning", false, "Show reasoning tokens")

	return cmd
}

// messages builds the conversation for prompt.
func (c *chatCommander) messages(prompt string) openrouter.Messages {
	var msgs openrouter.Messages
	if c.system != "" {
		msgs = append(msgs, openrouter.SystemMessage{Content: c.system})
	}
	return append(msgs, openrouter.UserMessage{Content: openrouter.Text(prompt)})
}

func (c *chatCommander) run(ctx context.Context, cfg *config.Config, apiKey, prompt string) error {
	t, err := cmdenv.Transport(cfg, cfg.OpenRouter.BaseURL, apiKey, c.logger,
		openrouter.AttributionOptions(cfg.OpenRouter.AppURL, cfg.OpenRouter.AppTitle)...)
	if err != nil {
		return err
	}

	opts := []openrouter.ClientOption{openrouter.WithLogger(c.logger)}
	rec, err := cmdenv.Recorder(c.record)
	if err != nil {
		return err
	}
	if rec != nil {
		defer rec.Close()
		opts = append(opts, openrouter.WithRecorder(rec))
	}
	client := openrouter.NewClient(t, opts...)

	pub, err := cmdenv.Publisher(cfg, c.stdout)
	if err != nil {
		return err
	}
	defer pub.Close()

	req := &openrouter.ChatRequest{
		Model:    cfg.OpenRouter.Model,
		Messages: c.messages(prompt),
	}
	if c.showReasoning {
		enabled := true
		req.Reasoning = &openrouter.Reasoning{Enabled: &enabled}
	}

	s, err := client.ChatCompletionStream(ctx, req)
	if err != nil {
		return err
	}
	defer s.Close()

	emitter := eventstream.NewEmitter(pub, eventstream.EventSource{
		Provider: provider,
		Model:    cfg.OpenRouter.Model,
	})

	acc := openrouter.NewAccumulator()
	enc := json.NewEncoder(c.stdout)
	for chunk, err := range s.All() {
		if err != nil {
			return err
		}

		acc.Apply(chunk)
		if err := emitter.Emit(ctx, chunk); err != nil {
			c.logger.Warn("publishing chunk", "id", chunk.ID, "error", err)
		}

		if c.jsonOut {
			if err := enc.Encode(chunk); err != nil {
				return fmt.Errorf("writing chunk: %w", err)
			}
			continue
		}
		c.printDelta(chunk)
	}

	return c.finish(acc)
}

func (c *chatCommander) printDelta(chunk *openrouter.ChatChunk) {
	if c.showReasoning {
		if r, ok := chunk.ReasoningDelta(); ok {
			fmt.Fprint(c.stdout, cliui.ReasonStyle.Render(r))
		}
	}
	if d, ok := chunk.TextDelta(); ok {
		fmt.Fprint(c.stdout, d)
	}
}

func (c *chatCommander) finish(acc *openrouter.Accumulator) error {
	if !c.jsonOut {
		fmt.Fprintln(c.stdout)
	}

	if err := acc.Err(); err != nil {
		return err
	}

	for _, call := range acc.ToolCalls() {
		fmt.Fprintf(c.stderr, "  %s %s(%s)\n",
			cliui.KeyStyle.Render("call"),
			cliui.NameStyle.Render(call.Function.Name),
			cliui.DimStyle.Render(call.Function.Arguments),
		)
	}

	if usage, ok := acc.Usage(); ok {
		c.logger.Info("completion finished",
			"id", acc.ID(),
			"model", acc.Model(),
			"finish_reason", acc.FinishReason(),
			"prompt_tokens", usage.PromptTokens,
			"completion_tokens", usage.CompletionTokens,
		)
	}

	return nil
}
