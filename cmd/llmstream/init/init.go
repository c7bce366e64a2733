// Package initcmder provides the init command for initializing a local
// .llmstream directory in the current working directory.
package initcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/llmstream/pkg/cliui"
	"github.com/papercomputeco/llmstream/pkg/config"
	"github.com/papercomputeco/llmstream/pkg/dotdir"
)

const initLongDesc string = `Initialize a new .llmstream/ directory in the current working directory.

Creates a local .llmstream/ directory that takes precedence over the default
~/.llmstream/ directory for configuration, credentials and captures, and
writes a config.toml with default values when none exists.

Use --preset to write a named preset (default, local) or fetch a config.toml
from an http(s) URL. A preset always overwrites an existing config.toml.

Examples:
  llmstream init
  llmstream init --preset local
  llmstream init --preset https://example.com/llmstream/config.toml`

const initShortDesc string = "Initialize a local .llmstream/ directory"

const remoteFetchTimeout = 30 * time.Second

func NewInitCmd() *cobra.Command {
	var preset string

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.Context(), cmd.OutOrStdout(), preset)
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "",
		fmt.Sprintf("Config preset (%s) or URL of a config.toml", strings.Join(config.ValidPresetNames(), ", ")))

	return cmd
}

func runInit(ctx context.Context, w io.Writer, preset string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := resolvePreset(ctx, w, preset)
	if err != nil {
		return err
	}

	dir, existed, err := dotdir.NewManager().InitLocal(cwd)
	if err != nil {
		return err
	}

	if existed {
		fmt.Fprintf(w, "Already initialized: %s\n", dir)
	} else {
		fmt.Fprintf(w, "Initialized .llmstream directory: %s\n", dir)
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg == nil {
		// No preset: keep whatever config is already there.
		if _, err := os.Stat(cfger.GetTarget()); err == nil {
			return nil
		}
		cfg = config.NewDefaultConfig()
	}

	if err := cfger.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintf(w, "  %s Wrote %s\n", cliui.SuccessMark, cliui.DimStyle.Render(filepath.Base(cfger.GetTarget())))
	return nil
}

// resolvePreset returns the config for preset, or nil when preset is empty.
func resolvePreset(ctx context.Context, w io.Writer, preset string) (*config.Config, error) {
	switch {
	case preset == "":
		return nil, nil
	case strings.HasPrefix(preset, "http://"), strings.HasPrefix(preset, "https://"):
		var cfg *config.Config
		err := cliui.Step(w, "Fetching "+preset, func() error {
			var err error
			cfg, err = fetchRemoteConfig(ctx, preset)
			return err
		})
		return cfg, err
	default:
		return config.PresetConfig(preset)
	}
}

func fetchRemoteConfig(ctx context.Context, url string) (*config.Config, error) {
	ctx, cancel := context.WithTimeout(ctx, remoteFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching remote config: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("fetching remote config: empty body")
	}

	return config.ParseConfigTOML(data)
}
