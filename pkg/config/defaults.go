package config

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"

	defaultOpenRouterBaseURL  = "https://openrouter.ai/api/v1"
	defaultOpenRouterModel    = "openai/gpt-4o-mini"
	defaultOpenRouterAppTitle = "llmstream"

	defaultClientTimeout = "10m"

	defaultSinkKind  = "none"
	defaultSinkTopic = "llmstream.events"

	defaultReplayListen = ":8089"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		OpenAI: OpenAIConfig{
			BaseURL: defaultOpenAIBaseURL,
			Model:   defaultOpenAIModel,
		},
		OpenRouter: OpenRouterConfig{
			BaseURL:  defaultOpenRouterBaseURL,
			Model:    defaultOpenRouterModel,
			AppTitle: defaultOpenRouterAppTitle,
		},
		Client: ClientConfig{
			Timeout: defaultClientTimeout,
		},
		Sink: SinkConfig{
			Kind:  defaultSinkKind,
			Topic: defaultSinkTopic,
		},
		Replay: ReplayConfig{
			Listen: defaultReplayListen,
		},
	}
}
