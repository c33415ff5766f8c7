package schema

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period a watched file must observe before a
// reload is triggered.
const DefaultDebounce = 100 * time.Millisecond

// Reloader refreshes cached configuration. DocumentProvider implements it.
type Reloader interface {
	Reload(ctx context.Context) error
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatchLogger sets the logger used for reload events.
func WithWatchLogger(logger *slog.Logger) WatchOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// OnReload registers fn to run after every reload attempt with its outcome.
func OnReload(fn func(err error)) WatchOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// Watcher reloads a provider whenever its backing file changes. The parent
// directory is watched so editors that replace files atomically are seen.
type Watcher struct {
	path     string
	target   Reloader
	debounce time.Duration
	logger   *slog.Logger
	onReload func(err error)

	watcher *fsnotify.Watcher
	done    chan struct{}
	stop    sync.Once

	mu      sync.Mutex
	started bool
}

// ErrWatcherUsed is returned by Start on a watcher that was already started
// or stopped.
var ErrWatcherUsed = errors.New("schema: watcher already started or stopped")

// NewWatcher prepares a watcher for path. Call Start to begin watching.
func NewWatcher(path string, target Reloader, options ...WatchOption) (*Watcher, error) {
	if target == nil {
		return nil, errors.New("schema: watcher requires a reload target")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		target:   target,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		watcher:  fw,
		done:     make(chan struct{}),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Start begins watching. The loop exits when ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return ErrWatcherUsed
	}
	w.started = true

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		w.closeWatcher()
		close(w.done)
		return err
	}
	go w.loop(ctx)
	return nil
}

// Stop closes the underlying watcher and waits for the loop to exit. It is
// safe to call on a watcher that was never started.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started {
		w.started = true
		close(w.done)
	}
	w.mu.Unlock()

	w.closeWatcher()
	<-w.done
}

func (w *Watcher) closeWatcher() {
	w.stop.Do(func() {
		w.watcher.Close()
	})
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)

	var pending time.Time
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.closeWatcher()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case <-ticker.C:
			if pending.IsZero() || time.Since(pending) < w.debounce {
				continue
			}
			pending = time.Time{}
			w.reload(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("schema watch error", "path", w.path, "error", err)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	err := w.target.Reload(ctx)
	if err != nil {
		w.logger.Error("schema reload failed", "path", w.path, "error", err)
	} else {
		w.logger.Info("schema reloaded", "path", w.path)
	}
	if w.onReload != nil {
		w.onReload(err)
	}
}
