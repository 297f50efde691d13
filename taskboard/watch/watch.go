// Package watch reloads a board when another process rewrites its files.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups the burst of events a single atomic save produces
const DefaultDebounce = 100 * time.Millisecond

// Reloader re-reads persisted state. *store.Store satisfies it.
type Reloader interface {
	Reload() error
}

// Watcher watches the directories holding a set of files and calls Reload
// after any of those files is written, created or renamed into place.
type Watcher struct {
	reloader Reloader
	files    map[string]struct{}
	dirs     []string
	debounce time.Duration
	logger   *slog.Logger
	ready    chan struct{}
}

// Option configures a Watcher
type Option func(*Watcher)

// WithDebounce sets the quiet period between the last event and the reload
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithLogger sets the logger for watch and reload errors
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// New creates a watcher for paths. Directories are watched rather than the
// files themselves because atomic saves replace the file.
func New(reloader Reloader, paths []string, opts ...Option) (*Watcher, error) {
	if reloader == nil {
		return nil, errors.New("watch: reloader is required")
	}
	if len(paths) == 0 {
		return nil, errors.New("watch: at least one path is required")
	}

	w := &Watcher{
		reloader: reloader,
		files:    make(map[string]struct{}, len(paths)),
		debounce: DefaultDebounce,
		ready:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}

	seen := make(map[string]bool)
	for _, p := range paths {
		clean := filepath.Clean(p)
		w.files[clean] = struct{}{}
		dir := filepath.Dir(clean)
		if !seen[dir] {
			seen[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}
	return w, nil
}

// Ready is closed once every directory is being watched
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx is done. Only setup failures are returned; event and
// reload errors are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	close(w.ready)
	w.logger.Debug("watching board files", "dirs", w.dirs)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(evt) {
				continue
			}
			w.logger.Debug("board file changed", "file", evt.Name, "op", evt.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.reloader.Reload(); err != nil {
				w.logger.Warn("reload failed", "error", err)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) relevant(evt fsnotify.Event) bool {
	if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	_, ok := w.files[filepath.Clean(evt.Name)]
	return ok
}
