package game

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"homebound/internal/level"
)

// reloadDelay coalesces the burst of events an editor save produces.
const reloadDelay = 150 * time.Millisecond

// Watch re-parses the level file at path whenever it changes and sends
// every set that parses cleanly. Broken edits are logged and skipped, so
// the receiver keeps its last good set. The channel closes when ctx ends.
func Watch(ctx context.Context, path string, logger *slog.Logger) (<-chan []*level.Level, error) {
	if logger == nil {
		logger = slog.Default()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Editors often replace the file, so watch the directory.
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	out := make(chan []*level.Level, 1)
	go func() {
		defer close(out)
		defer w.Close()

		target := filepath.Clean(path)
		timer := time.NewTimer(reloadDelay)
		timer.Stop()
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				timer.Reset(reloadDelay)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("level watcher error", "error", err)
			case <-timer.C:
				levels, err := level.LoadFile(path)
				if err != nil {
					logger.Warn("level reload failed, keeping current levels", "path", path, "error", err)
					continue
				}
				logger.Info("levels reloaded", "path", path, "count", len(levels))
				select {
				case out <- levels:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
