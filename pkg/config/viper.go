package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/llmstream/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the LLMSTREAM_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (LLMSTREAM_OPENAI_MODEL, LLMSTREAM_SINK_KIND, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: LLMSTREAM_OPENAI_BASE_URL, LLMSTREAM_SINK_TARGET, etc.
	v.SetEnvPrefix("LLMSTREAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// FromViper builds a Config from the resolved viper state so callers see
// flag, env, file and default layers merged.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Version: v.GetInt("version"),
		OpenAI: OpenAIConfig{
			BaseURL: v.GetString("openai.base_url"),
			Model:   v.GetString("openai.model"),
		},
		OpenRouter: OpenRouterConfig{
			BaseURL:  v.GetString("openrouter.base_url"),
			Model:    v.GetString("openrouter.model"),
			AppURL:   v.GetString("openrouter.app_url"),
			AppTitle: v.GetString("openrouter.app_title"),
		},
		Client: ClientConfig{
			Timeout: v.GetString("client.timeout"),
		},
		Sink: SinkConfig{
			Kind:   v.GetString("sink.kind"),
			Target: v.GetString("sink.target"),
			Topic:  v.GetString("sink.topic"),
		},
		Replay: ReplayConfig{
			Listen: v.GetString("replay.listen"),
		},
	}
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// OpenAI
	v.SetDefault("openai.base_url", d.OpenAI.BaseURL)
	v.SetDefault("openai.model", d.OpenAI.Model)

	// OpenRouter
	v.SetDefault("openrouter.base_url", d.OpenRouter.BaseURL)
	v.SetDefault("openrouter.model", d.OpenRouter.Model)
	v.SetDefault("openrouter.app_url", d.OpenRouter.AppURL)
	v.SetDefault("openrouter.app_title", d.OpenRouter.AppTitle)

	// Client
	v.SetDefault("client.timeout", d.Client.Timeout)

	// Sink
	v.SetDefault("sink.kind", d.Sink.Kind)
	v.SetDefault("sink.target", d.Sink.Target)
	v.SetDefault("sink.topic", d.Sink.Topic)

	// Replay
	v.SetDefault("replay.listen", d.Replay.Listen)
}
