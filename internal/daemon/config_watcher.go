package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// configWatcher monitors the configuration file and invokes onChange after a
// debounce window. Watching the parent directory is more reliable than
// watching the file itself, which editors replace atomically.
type configWatcher struct {
	configPath string
	onChange   func()
	watcher    *fsnotify.Watcher
	debounce   time.Duration
}

func newConfigWatcher(configPath string, onChange func()) (*configWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	return &configWatcher{
		configPath: absPath,
		onChange:   onChange,
		watcher:    watcher,
		debounce:   2 * time.Second,
	}, nil
}

func (cw *configWatcher) run(ctx context.Context) {
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != cw.configPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("Config file changed", "path", cw.configPath, "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(cw.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Config watcher error", "error", err)
		case <-fire:
			cw.onChange()
		}
	}
}

func (cw *configWatcher) close() {
	_ = cw.watcher.Close()
}
