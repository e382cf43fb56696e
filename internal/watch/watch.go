// Package watch reruns a job whenever a layer directory changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
)

// DefaultDebounce is how long the directory must be quiet before a rerun.
const DefaultDebounce = 250 * time.Millisecond

// Watcher watches a single directory, non-recursively.
type Watcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	debounce time.Duration
	filter   func(name string) bool
	logger   hclog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a change is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithFilter limits the files whose changes trigger a rerun.
func WithFilter(filter func(name string) bool) Option {
	return func(w *Watcher) {
		w.filter = filter
	}
}

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// New starts watching dir. Events are buffered by fsnotify until Run is called.
func New(dir string, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w := &Watcher{
		watcher:  fw,
		dir:      dir,
		debounce: DefaultDebounce,
		filter:   func(string) bool { return true },
		logger:   hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Close stops watching. It is safe to call after Run has returned.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run calls onChange after each burst of relevant changes, until ctx is
// done. Errors from onChange are logged and do not stop the watch. Run
// closes the watcher before returning.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context) error) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Trace("layer change", "path", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)
			pending = true

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "dir", w.dir, "error", err)

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			w.logger.Debug("layers changed, rerunning", "dir", w.dir)
			if err := onChange(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.logger.Error("rerun failed", "error", err)
			}
		}
	}
}

// relevant skips chmod-only events, hidden files and editor backups.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	return w.filter(event.Name)
}
