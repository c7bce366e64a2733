// Package cmdenv holds the plumbing shared by llmstream subcommands: logger
// construction from the persistent flags, layered config, API keys, transport
// and event sink wiring.
package cmdenv

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/llmstream/pkg/cliui"
	"github.com/papercomputeco/llmstream/pkg/config"
	"github.com/papercomputeco/llmstream/pkg/credentials"
	"github.com/papercomputeco/llmstream/pkg/eventstream"
	"github.com/papercomputeco/llmstream/pkg/eventstream/sink"
	"github.com/papercomputeco/llmstream/pkg/llm/transport"
	"github.com/papercomputeco/llmstream/pkg/logger"
	"github.com/papercomputeco/llmstream/pkg/utils"
)

// Persistent flag names registered on the root command.
const (
	FlagDebug     = "debug"
	FlagConfigDir = "config-dir"
	FlagJSONLogs  = "json-logs"
	FlagLogFile   = "log-file"
)

// UserAgent identifies llmstream to providers.
func UserAgent() string {
	return utils.UserAgent()
}

// Logger builds the logger selected by the persistent flags. Logs go to
// stderr; with --log-file every record, debug included, is also appended to
// that file as JSON. The returned close func must be called once the command
// finishes.
func Logger(cmd *cobra.Command, stderr io.Writer) (*slog.Logger, func() error, error) {
	debug, _ := cmd.Flags().GetBool(FlagDebug)
	jsonLogs, _ := cmd.Flags().GetBool(FlagJSONLogs)
	logFile, _ := cmd.Flags().GetString(FlagLogFile)

	console := logger.New(
		logger.WithDebug(debug),
		logger.WithJSON(jsonLogs),
		logger.WithPretty(!jsonLogs && cliui.IsTerminal(stderr)),
		logger.WithWriter(stderr),
	)
	if logFile == "" {
		return console, func() error { return nil }, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	file := logger.New(
		logger.WithLevel(slog.LevelDebug),
		logger.WithJSON(true),
		logger.WithWriter(f),
	)
	return logger.Multi(console, file), f.Close, nil
}

// Config resolves the layered configuration (flag > env > file > default)
// after binding the given flag registry keys.
func Config(cmd *cobra.Command, registryKeys ...string) (*config.Config, error) {
	configDir, _ := cmd.Flags().GetString(FlagConfigDir)

	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	config.BindRegisteredFlags(v, cmd, config.Flags, registryKeys)

	return config.FromViper(v), nil
}

// APIKey resolves the key for provider from credentials.toml or the
// provider's environment variable. A missing key is logged, not fatal, so
// keyless endpoints such as the replay server still work.
func APIKey(cmd *cobra.Command, provider string, l *slog.Logger) (string, error) {
	configDir, _ := cmd.Flags().GetString(FlagConfigDir)

	mgr, err := credentials.NewManager(configDir)
	if err != nil {
		return "", fmt.Errorf("loading credentials: %w", err)
	}

	key, source, err := mgr.ResolveKey(provider)
	if err != nil {
		return "", fmt.Errorf("loading credentials: %w", err)
	}

	if key == "" {
		l.Warn("no API key configured",
			"provider", provider,
			"hint", fmt.Sprintf("run 'llmstream auth %s' or set %s", provider, credentials.EnvVarForProvider(provider)),
		)
		return "", nil
	}

	l.Debug("resolved API key", "provider", provider, "source", source)
	return key, nil
}

// Transport builds the shared HTTP transport for baseURL.
func Transport(cfg *config.Config, baseURL, apiKey string, l *slog.Logger, extra ...transport.Option) (*transport.Client, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	opts := []transport.Option{
		transport.WithAPIKey(apiKey),
		transport.WithTimeout(timeout),
		transport.WithHeader("User-Agent", UserAgent()),
		transport.WithLogger(l),
	}
	opts = append(opts, extra...)

	return transport.New(baseURL, opts...), nil
}

// Publisher builds the event sink configured in cfg. JSON lines with a "-"
// target go to stdout.
func Publisher(cfg *config.Config, stdout io.Writer) (eventstream.Publisher, error) {
	p, err := sink.New(sink.Config{
		Kind:   cfg.Sink.Kind,
		Target: cfg.Sink.Target,
		Topic:  cfg.Sink.Topic,
	}, stdout)
	if err != nil {
		return nil, fmt.Errorf("creating event sink: %w", err)
	}
	return p, nil
}

// Recorder opens path for a raw stream capture. An empty path disables
// recording and returns a nil writer.
func Recorder(path string) (io.WriteCloser, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating capture file: %w", err)
	}
	return f, nil
}
