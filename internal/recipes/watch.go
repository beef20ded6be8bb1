package recipes

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultSettle = 500 * time.Millisecond

type WatchOptions struct {
	// How long a file must go without events before it is imported, so
	// that files still being written are not read half way.
	Settle time.Duration

	OnReady    func()
	OnFileDone func(ref string, err error)
}

// Watch imports recipe files created or rewritten in dir until ctx is done.
// Files are imported one at a time in the order they first appeared.
func (f *FileIntake) Watch(ctx context.Context, dir string, opts WatchOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	settle := opts.Settle
	if settle <= 0 {
		settle = defaultSettle
	}

	ticker := time.NewTicker(settle / 2)
	defer ticker.Stop()

	slog.Info("watching recipe folder", "dir", dir, "extension", f.extension)
	if opts.OnReady != nil {
		opts.OnReady()
	}

	var order []string
	lastEvent := make(map[string]time.Time)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if f.extension != "" && !strings.EqualFold(filepath.Ext(event.Name), f.extension) {
				continue
			}
			if _, pending := lastEvent[event.Name]; !pending {
				order = append(order, event.Name)
			}
			lastEvent[event.Name] = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("recipe folder watch error", "dir", dir, "error", err)

		case now := <-ticker.C:
			var ready []string
			waiting := order[:0]
			for _, name := range order {
				if now.Sub(lastEvent[name]) >= settle {
					ready = append(ready, name)
					delete(lastEvent, name)
				} else {
					waiting = append(waiting, name)
				}
			}
			order = waiting

			if len(ready) > 0 {
				f.ImportFiles(ctx, ready, FileImportOptions{OnFileDone: opts.OnFileDone})
			}
		}
	}
}
