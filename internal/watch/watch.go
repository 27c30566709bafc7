// Package watch re-runs a callback when a config file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/isoforge/archconf/internal/logging"
)

// Debounce coalesces bursts of write events before the callback fires.
// Editors often emit several events per save.
const Debounce = 500 * time.Millisecond

// Watch blocks watching path until ctx is cancelled, invoking onChange
// after each coalesced burst of writes. Callback errors are logged,
// never fatal: a broken config during editing must not kill the watch.
//
// The file's directory is watched rather than the file itself, so
// editors that save via rename keep triggering events.
func Watch(ctx context.Context, path string, onChange func(path string) error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(abs)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	logging.Debug("watching for changes", "path", abs)

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(Debounce, func() {
				if err := onChange(abs); err != nil {
					logging.Warn("change handler failed", "path", abs, "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn("watcher error", "error", err)
		}
	}
}
