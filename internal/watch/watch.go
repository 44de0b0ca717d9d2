// Package watch reloads files when they change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce batches the burst of events editors emit on save.
const DefaultDebounce = 150 * time.Millisecond

// Handler is called with the path of a changed file.
type Handler func(ctx context.Context, path string) error

// Watcher watches a set of files. Their parent directories are watched so
// files replaced by rename are still picked up.
type Watcher struct {
	files    map[string]struct{}
	handler  Handler
	debounce time.Duration
	logger   *zap.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New watches files and calls handler after each settled change.
func New(files []string, handler Handler, opts ...Option) (*Watcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("watch: handler is required")
	}
	w := &Watcher{
		files:    make(map[string]struct{}, len(files)),
		handler:  handler,
		debounce: DefaultDebounce,
		logger:   zap.NewNop(),
	}
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve %s: %w", file, err)
		}
		w.files[filepath.Clean(abs)] = struct{}{}
	}
	if len(w.files) == 0 {
		return nil, fmt.Errorf("watch: no files to watch")
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w, nil
}

// Run blocks until ctx is done. Handler errors are logged and do not stop
// the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer fsw.Close()

	dirs := make(map[string]struct{})
	for file := range w.files {
		dirs[filepath.Dir(file)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch: add %s: %w", dir, err)
		}
		w.logger.Debug("watching directory", zap.String("dir", dir))
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]*time.Timer)
		wg      sync.WaitGroup
	)
	defer func() {
		mu.Lock()
		for _, timer := range pending {
			if timer.Stop() {
				wg.Done()
			}
		}
		mu.Unlock()
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			path := filepath.Clean(event.Name)
			if _, tracked := w.files[path]; !tracked {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			mu.Lock()
			if timer, ok := pending[path]; ok && timer.Stop() {
				wg.Done()
			}
			wg.Add(1)
			var timer *time.Timer
			timer = time.AfterFunc(w.debounce, func() {
				defer wg.Done()
				mu.Lock()
				if pending[path] == timer {
					delete(pending, path)
				}
				mu.Unlock()
				if err := w.handler(ctx, path); err != nil {
					w.logger.Warn("reload failed", zap.String("path", path), zap.Error(err))
					return
				}
				w.logger.Info("reloaded", zap.String("path", path))
			})
			pending[path] = timer
			mu.Unlock()
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}
