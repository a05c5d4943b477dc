// Package watcher reports debounced changes to files in a data directory.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay coalesces bursts of events, such as a temp file being
// renamed over each key file, into one callback.
const DefaultDelay = 100 * time.Millisecond

// Watcher watches one directory and calls back after matching files change.
type Watcher struct {
	fsw      *fsnotify.Watcher
	names    map[string]bool
	delay    time.Duration
	callback func()

	mu    sync.Mutex
	timer *time.Timer
}

// New watches dir. Only events on the given base names trigger the
// callback; with no names every event does. A non-positive delay uses
// DefaultDelay.
func New(dir string, names []string, delay time.Duration, callback func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return &Watcher{fsw: fsw, names: set, delay: delay, callback: callback}, nil
}

// Run starts the watch loop. It blocks until ctx is canceled or the
// watcher is closed. Watcher errors go to errFn when it is non-nil.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				w.debounce()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return len(w.names) == 0 || w.names[filepath.Base(event.Name)]
}

func (w *Watcher) debounce() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.callback)
}
