// Package llmstreamcmder
package llmstreamcmder

import (
	"github.com/spf13/cobra"

	authcmder "github.com/papercomputeco/llmstream/cmd/llmstream/auth"
	chatcmder "github.com/papercomputeco/llmstream/cmd/llmstream/chat"
	"github.com/papercomputeco/llmstream/cmd/llmstream/cmdenv"
	configcmder "github.com/papercomputeco/llmstream/cmd/llmstream/config"
	decodecmder "github.com/papercomputeco/llmstream/cmd/llmstream/decode"
	initcmder "github.com/papercomputeco/llmstream/cmd/llmstream/init"
	replaycmder "github.com/papercomputeco/llmstream/cmd/llmstream/replay"
	respondcmder "github.com/papercomputeco/llmstream/cmd/llmstream/respond"
	versioncmder "github.com/papercomputeco/llmstream/cmd/version"
)

const llmstreamLongDesc string = `llmstream streams model output from the OpenAI Responses API and
OpenRouter chat completions, decoding server-sent events into typed events.

Stream a response:
  llmstream respond "Write a haiku about tape"
  llmstream chat --model anthropic/claude-sonnet-4 "Hello"

Work with captured streams:
  llmstream decode --provider openai capture.sse
  llmstream replay capture.sse`

const llmstreamShortDesc string = "llmstream - typed LLM streaming"

func NewLLMStreamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "llmstream",
		Short:        llmstreamShortDesc,
		Long:         llmstreamLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP(cmdenv.FlagDebug, "d", false, "Enable debug logging")
	cmd.PersistentFlags().String(cmdenv.FlagConfigDir, "", "Override path to .llmstream/ config directory")
	cmd.PersistentFlags().Bool(cmdenv.FlagJSONLogs, false, "Emit logs as JSON")
	cmd.PersistentFlags().String(cmdenv.FlagLogFile, "", "Also append JSON debug logs to this file")

	// Add subcommands
	cmd.AddCommand(respondcmder.NewRespondCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(decodecmder.NewDecodeCmd())
	cmd.AddCommand(replaycmder.NewReplayCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
