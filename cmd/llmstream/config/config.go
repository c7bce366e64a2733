// Package configcmder provides the config command for managing persistent
// llmstream configuration stored in the .llmstream/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent llmstream configuration.

Configuration is stored as config.toml in the .llmstream/ directory and
provides default values for command flags. CLI flags and LLMSTREAM_*
environment variables always take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  openai.base_url, openai.model,
  openrouter.base_url, openrouter.model,
  openrouter.app_url, openrouter.app_title,
  client.timeout,
  sink.kind, sink.target, sink.topic,
  replay.listen

Use subcommands to get, set, or list configuration values:
  llmstream config set <key> <value>    Set a configuration value
  llmstream config get <key>            Get a configuration value
  llmstream config list                 List all configuration values

Examples:
  llmstream config set openrouter.model anthropic/claude-sonnet-4
  llmstream config set sink.kind jsonl
  llmstream config get openai.model
  llmstream config list`

const configShortDesc string = "Manage persistent llmstream configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
