package config

import (
	"fmt"
	"time"

	"github.com/papercomputeco/llmstream/pkg/eventstream/sink"
)

// Config represents the persistent llmstream configuration stored as
// config.toml in the .llmstream/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version    int              `toml:"version"`
	OpenAI     OpenAIConfig     `toml:"openai"`
	OpenRouter OpenRouterConfig `toml:"openrouter"`
	Client     ClientConfig     `toml:"client"`
	Sink       SinkConfig       `toml:"sink"`
	Replay     ReplayConfig     `toml:"replay"`
}

// OpenAIConfig holds settings for the Responses API client.
type OpenAIConfig struct {
	BaseURL string `toml:"base_url,omitempty"`
	Model   string `toml:"model,omitempty"`
}

// OpenRouterConfig holds settings for the OpenRouter chat completions client.
// AppURL and AppTitle are sent as attribution headers when set.
type OpenRouterConfig struct {
	BaseURL  string `toml:"base_url,omitempty"`
	Model    string `toml:"model,omitempty"`
	AppURL   string `toml:"app_url,omitempty"`
	AppTitle string `toml:"app_title,omitempty"`
}

// ClientConfig holds transport settings shared by both providers.
// Timeout is a Go duration string, e.g. "10m".
type ClientConfig struct {
	Timeout string `toml:"timeout,omitempty"`
}

// SinkConfig selects where decoded stream events are published.
type SinkConfig struct {
	Kind   string `toml:"kind,omitempty"`
	Target string `toml:"target,omitempty"`
	Topic  string `toml:"topic,omitempty"`
}

// ReplayConfig holds settings for the capture replay server.
type ReplayConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// TimeoutDuration parses Client.Timeout. An empty value means no timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Client.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Client.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid value for client.timeout: %w", err)
	}
	return d, nil
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"openai.base_url": {
		get: func(c *Config) string { return c.OpenAI.BaseURL },
		set: func(c *Config, v string) error { c.OpenAI.BaseURL = v; return nil },
	},
	"openai.model": {
		get: func(c *Config) string { return c.OpenAI.Model },
		set: func(c *Config, v string) error { c.OpenAI.Model = v; return nil },
	},
	"openrouter.base_url": {
		get: func(c *Config) string { return c.OpenRouter.BaseURL },
		set: func(c *Config, v string) error { c.OpenRouter.BaseURL = v; return nil },
	},
	"openrouter.model": {
		get: func(c *Config) string { return c.OpenRouter.Model },
		set: func(c *Config, v string) error { c.OpenRouter.Model = v; return nil },
	},
	"openrouter.app_url": {
		get: func(c *Config) string { return c.OpenRouter.AppURL },
		set: func(c *Config, v string) error { c.OpenRouter.AppURL = v; return nil },
	},
	"openrouter.app_title": {
		get: func(c *Config) string { return c.OpenRouter.AppTitle },
		set: func(c *Config, v string) error { c.OpenRouter.AppTitle = v; return nil },
	},
	"client.timeout": {
		get: func(c *Config) string { return c.Client.Timeout },
		set: func(c *Config, v string) error {
			if _, err := time.ParseDuration(v); err != nil {
				return fmt.Errorf("invalid value for client.timeout: %w", err)
			}
			c.Client.Timeout = v
			return nil
		},
	},
	"sink.kind": {
		get: func(c *Config) string { return c.Sink.Kind },
		set: func(c *Config, v string) error {
			if !sink.IsValidKind(v) {
				return fmt.Errorf("invalid value for sink.kind: %q (available: %v)", v, sink.Kinds())
			}
			c.Sink.Kind = v
			return nil
		},
	},
	"sink.target": {
		get: func(c *Config) string { return c.Sink.Target },
		set: func(c *Config, v string) error { c.Sink.Target = v; return nil },
	},
	"sink.topic": {
		get: func(c *Config) string { return c.Sink.Topic },
		set: func(c *Config, v string) error { c.Sink.Topic = v; return nil },
	},
	"replay.listen": {
		get: func(c *Config) string { return c.Replay.Listen },
		set: func(c *Config, v string) error { c.Replay.Listen = v; return nil },
	},
}
