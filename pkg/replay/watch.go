package replay

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the capture whenever the file at path is written or
// recreated, until ctx is done. A reload that yields an empty or unreadable
// file is logged and the previous capture stays in place.
func (s *Server) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating capture watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so editors that replace the file are still seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching capture dir: %w", err)
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			s.reload(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("capture watcher error: %w", err)
		}
	}
}

func (s *Server) reload(path string) {
	data, err := Load(path)
	if err != nil {
		if errors.Is(err, ErrEmptyCapture) {
			// Truncate-then-write editors trigger an empty read first.
			s.logger.Debug("skipping empty capture reload", "path", path)
			return
		}
		s.logger.Warn("reloading capture", "path", path, "error", err)
		return
	}

	if err := s.SetCapture(data); err != nil {
		s.logger.Warn("reloading capture", "path", path, "error", err)
		return
	}
	s.logger.Info("reloaded capture", "path", path, "bytes", len(data))
}
