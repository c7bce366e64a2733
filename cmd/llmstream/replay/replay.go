// Package replaycmder provides the replay command for serving a captured
// stream over HTTP.
package replaycmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/llmstream/cmd/llmstream/cmdenv"
	"github.com/papercomputeco/llmstream/pkg/config"
	"github.com/papercomputeco/llmstream/pkg/replay"
)

type replayCommander struct {
	listen string
	delay  time.Duration
	watch  bool

	logger *slog.Logger
}

var registryKeys = []string{
	config.FlagReplayListen,
}

const replayLongDesc string = `Serve a captured event stream over HTTP.

Every POST request, on any path, is answered with the capture as a
text/event-stream body. Point a client's base URL at the server to exercise
it offline, for example with "llmstream init --preset local".

With --watch the capture is reloaded whenever the file changes, so edits
show up on the next request without restarting the server.

Examples:
  llmstream replay haiku.sse
  llmstream replay --listen :9000 --delay 50ms chat.sse
  llmstream replay --watch haiku.sse
  llmstream chat --base-url http://localhost:8089 "anything"`

const replayShortDesc string = "Serve a captured stream over HTTP"

func NewReplayCmd() *cobra.Command {
	cmder := &replayCommander{}

	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: replayShortDesc,
		Long:  replayLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, closeLog, err := cmdenv.Logger(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()
			cmder.logger = l

			cfg, err := cmdenv.Config(cmd, registryKeys...)
			if err != nil {
				return err
			}

			return cmder.run(cfg, args[0])
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagReplayListen, &cmder.listen)
	cmd.Flags().DurationVar(&cmder.delay, "delay", 0, "Pause between events")
	cmd.Flags().BoolVar(&cmder.watch, "watch", false, "Reload the capture when the file changes")

	return cmd
}

func (c *replayCommander) run(cfg *config.Config, path string) error {
	capture, err := replay.Load(path)
	if err != nil {
		return err
	}

	srv, err := replay.NewServer(replay.Config{
		ListenAddr: cfg.Replay.Listen,
		Delay:      c.delay,
	}, capture, c.logger)
	if err != nil {
		return fmt.Errorf("creating replay server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 2)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- fmt.Errorf("replay server error: %w", err)
		}
	}()

	if c.watch {
		go func() {
			if err := srv.Watch(ctx, path); err != nil {
				errChan <- err
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		_ = srv.Shutdown()
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down",
			"signal", sig.String(),
			"served", srv.Served(),
		)
		return srv.Shutdown()
	}
}
