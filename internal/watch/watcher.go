// Package watch signals when the catalog file changes on disk.
package watch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups bursts of writes from editors and copy tools.
const DefaultDebounce = 250 * time.Millisecond

// Watcher monitors one file. It watches the parent directory so that
// replace-by-rename saves are seen too.
type Watcher struct {
	Path    string
	Changes <-chan struct{} // receives once per settled change

	changes  chan struct{}
	done     chan struct{}
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	started bool
	stopped bool
}

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Logger   *slog.Logger
}

// New creates a watcher for the file at path. Call Start to begin.
func New(path string, opts Options) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	ch := make(chan struct{}, 1)
	return &Watcher{
		Path:     abs,
		Changes:  ch,
		changes:  ch,
		done:     make(chan struct{}),
		watcher:  fw,
		debounce: opts.Debounce,
		logger:   opts.Logger,
	}, nil
}

// Start begins watching. Starting a stopped watcher is an error.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return fmt.Errorf("watcher for %s is stopped", w.Path)
	}
	if w.started {
		return nil
	}
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.Path), err)
	}
	w.started = true
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel. It is safe to call
// before Start and more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	started := w.started
	w.mu.Unlock()

	_ = w.watcher.Close()
	if started {
		<-w.done
	}
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	var pending time.Time
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case <-ticker.C:
			if !pending.IsZero() && time.Since(pending) >= w.debounce {
				pending = time.Time{}
				w.emit()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("catalog watch error", "error", err)
		}
	}
}

// emit never blocks; one buffered signal is enough to trigger a reload.
func (w *Watcher) emit() {
	select {
	case w.changes <- struct{}{}:
		w.logger.Debug("catalog changed", "path", w.Path)
	default:
	}
}
