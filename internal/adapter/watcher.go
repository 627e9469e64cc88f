package adapter

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	m "driftwood.dev/pkg/driftwood/internal/model"
)

// Watcher re-runs a callback after bursts of file system changes under a
// root. Each burst triggers one callback; there is no incremental state
// between runs.
type Watcher interface {
	// Watch blocks until ctx is cancelled, invoking fn after each debounced
	// burst of events. skipDir filters directories that should not be
	// registered (build output, dependency caches).
	Watch(ctx context.Context, root m.Path, debounce time.Duration, skipDir func(name string) bool, fn func()) error
}

// FSNotifyWatcher implements Watcher with fsnotify.
type FSNotifyWatcher struct{}

// NewFSNotifyWatcher constructs a FSNotifyWatcher.
func NewFSNotifyWatcher() *FSNotifyWatcher {
	return &FSNotifyWatcher{}
}

// Watch registers root and all non-skipped subdirectories, then loops until
// ctx is done. Newly created directories are registered on the fly.
func (w *FSNotifyWatcher) Watch(ctx context.Context, root m.Path, debounce time.Duration, skipDir func(name string) bool, fn func()) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	defer func() { _ = fsWatcher.Close() }()

	if err := addDirs(fsWatcher, string(root), skipDir); err != nil {
		return err
	}

	var timer *time.Timer

	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}

			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !skipDir(filepath.Base(event.Name)) {
						if err := fsWatcher.Add(event.Name); err != nil {
							slog.Warn("failed to watch new directory", "path", event.Name, "error", err)
						}
					}
				}
			}

			// Reset the quiet-period timer on every event so a burst
			// collapses into one run.
			if timer != nil {
				timer.Stop()
			}

			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}

			slog.Warn("watcher error", "error", err)

		case <-fire:
			fn()
		}
	}
}

func addDirs(fsWatcher *fsnotify.Watcher, root string, skipDir func(name string) bool) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, matching the scanner's
			// partial-results policy.
			return nil
		}

		if !d.IsDir() {
			return nil
		}

		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}

		if watchErr := fsWatcher.Add(path); watchErr != nil {
			slog.Warn("failed to watch directory", "path", path, "error", watchErr)
		}

		return nil
	})
}
