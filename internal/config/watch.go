package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yumosx/looplist/internal/env"
)

// Editors often write a file in several steps; reloads wait for the burst to
// end.
const watchDebounce = 100 * time.Millisecond

// ReloadFunc receives every reloaded configuration, or the error that kept
// it from loading.
type ReloadFunc func(*Config, error)

type watcher struct {
	cfg   *Config
	paths []string
	fs    *fsnotify.Watcher
	fn    ReloadFunc
}

// Watch reloads cfg whenever one of the files it was loaded from changes, and
// hands the result to fn. It blocks until ctx is done.
func Watch(ctx context.Context, cfg *Config, fn ReloadFunc) error {
	w, err := newWatcher(cfg, fn)
	if err != nil {
		return err
	}
	defer w.fs.Close()
	w.run(ctx)
	return nil
}

func newWatcher(cfg *Config, fn ReloadFunc) (*watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &watcher{cfg: cfg, fs: fs, fn: fn}

	// Watch directories rather than files so configs created later, or
	// replaced by rename, are still seen.
	var dirs []string
	for _, path := range cfg.paths {
		path = filepath.Clean(path)
		w.paths = append(w.paths, path)
		dir := filepath.Dir(path)
		if slices.Contains(dirs, dir) {
			continue
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if err := fs.Add(dir); err != nil {
			slog.Error("Error watching config directory", "path", dir, "error", err)
			continue
		}
		dirs = append(dirs, dir)
	}
	slog.Debug("Watching configuration", "dirs", dirs)
	return w, nil
}

func (w *watcher) run(ctx context.Context) {
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !slices.Contains(w.paths, filepath.Clean(event.Name)) {
				continue
			}
			slog.Debug("Config file event", "path", event.Name, "operation", event.Op.String())
			pending = time.After(watchDebounce)
		case <-pending:
			pending = nil
			w.fn(load(w.cfg.paths, w.cfg.workingDir, w.cfg.Options.Debug, env.New()))
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			slog.Error("Config watcher error", "error", err)
		}
	}
}
