package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g., --model
// on both "llmstream respond" and "llmstream chat" with different keys).
type Flag struct {
	// Name is the long flag name (e.g. "model").
	Name string

	// Shorthand is the one-letter short flag (e.g. "m"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "openai.model").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag and BindRegisteredFlags to
// avoid typos or drift from one command to another.
const (
	FlagOpenAIModel       = "openai-model"
	FlagOpenAIBaseURL     = "openai-base-url"
	FlagOpenRouterModel   = "openrouter-model"
	FlagOpenRouterBaseURL = "openrouter-base-url"
	FlagAppURL            = "app-url"
	FlagAppTitle          = "app-title"
	FlagTimeout           = "timeout"
	FlagSink              = "sink"
	FlagSinkTarget        = "sink-target"
	FlagSinkTopic         = "sink-topic"
	FlagReplayListen      = "replay-listen"
)

// Flags is the registry shared by every llmstream command. Provider scoped
// entries reuse the same flag name and bind to different viper keys.
var Flags = FlagSet{
	FlagOpenAIModel: {
		Name:        "model",
		Shorthand:   "m",
		ViperKey:    "openai.model",
		Description: "Responses API model",
	},
	FlagOpenAIBaseURL: {
		Name:        "base-url",
		ViperKey:    "openai.base_url",
		Description: "Responses API base URL",
	},
	FlagOpenRouterModel: {
		Name:        "model",
		Shorthand:   "m",
		ViperKey:    "openrouter.model",
		Description: "OpenRouter model slug",
	},
	FlagOpenRouterBaseURL: {
		Name:        "base-url",
		ViperKey:    "openrouter.base_url",
		Description: "OpenRouter API base URL",
	},
	FlagAppURL: {
		Name:        "app-url",
		ViperKey:    "openrouter.app_url",
		Description: "Application URL sent as HTTP-Referer",
	},
	FlagAppTitle: {
		Name:        "app-title",
		ViperKey:    "openrouter.app_title",
		Description: "Application title sent as X-Title",
	},
	FlagTimeout: {
		Name:        "timeout",
		ViperKey:    "client.timeout",
		Description: "Request timeout (Go duration, 0 disables)",
	},
	FlagSink: {
		Name:        "sink",
		ViperKey:    "sink.kind",
		Description: "Event sink: none, jsonl or kafka",
	},
	FlagSinkTarget: {
		Name:        "sink-target",
		ViperKey:    "sink.target",
		Description: "Sink target: file path (- for stdout) or kafka brokers",
	},
	FlagSinkTopic: {
		Name:        "sink-topic",
		ViperKey:    "sink.topic",
		Description: "Kafka topic for the kafka sink",
	},
	FlagReplayListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "replay.listen",
		Description: "Address for the replay server to listen on",
	},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}
