// ABOUTME: Polling-based file watcher for config hot-reload
// ABOUTME: Compares mtime and size every interval and calls onChange after a change

package config

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/mauromedda/statusbar-go/internal/log"
)

type fileStamp struct {
	mtime time.Time
	size  int64
}

// Watcher monitors files for changes by polling at regular intervals.
type Watcher struct {
	paths    []string
	onChange func()
	interval time.Duration

	mu     sync.Mutex
	stamps map[string]fileStamp
}

// NewWatcher creates a watcher that calls onChange when any monitored file
// changes, appears, or disappears.
func NewWatcher(paths []string, onChange func()) *Watcher {
	w := &Watcher{
		paths:    paths,
		onChange: onChange,
		interval: 2 * time.Second,
		stamps:   make(map[string]fileStamp),
	}
	w.snapshotLocked()
	return w
}

// SetInterval overrides the default polling interval (2s).
func (w *Watcher) SetInterval(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.interval = d
}

// Run polls until ctx is done. It always returns nil so it can sit in an
// errgroup next to fallible goroutines.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	interval := w.interval
	w.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if w.check() {
				log.Info("config: change detected, reloading")
				w.onChange()
			}
		}
	}
}

// ForceCheck runs a check outside the polling cycle and reports whether
// onChange was called.
func (w *Watcher) ForceCheck() bool {
	if !w.check() {
		return false
	}
	w.onChange()
	return true
}

func (w *Watcher) check() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.changedLocked() {
		return false
	}
	w.snapshotLocked()
	return true
}

// changedLocked compares current stamps with stored snapshots. Must hold mu.
func (w *Watcher) changedLocked() bool {
	for _, path := range w.paths {
		info, err := os.Stat(path)
		if err != nil {
			if _, existed := w.stamps[path]; existed {
				return true
			}
			continue
		}
		prev, ok := w.stamps[path]
		if !ok || !info.ModTime().Equal(prev.mtime) || info.Size() != prev.size {
			return true
		}
	}
	return false
}

// snapshotLocked records current stamps. Must hold mu.
func (w *Watcher) snapshotLocked() {
	for _, path := range w.paths {
		info, err := os.Stat(path)
		if err != nil {
			delete(w.stamps, path)
			continue
		}
		w.stamps[path] = fileStamp{mtime: info.ModTime(), size: info.Size()}
	}
}
