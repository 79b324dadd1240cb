package store

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"loom/pkg/logging"
)

// DefaultDebounceInterval is how long the watcher waits after the last
// write before reloading, so editors that write in bursts trigger one
// reload instead of several.
const DefaultDebounceInterval = 500 * time.Millisecond

// Watcher monitors the descriptor file for external changes and reloads
// the store when it is rewritten.
type Watcher struct {
	mu sync.Mutex

	store    *Store
	onReload func()

	fsWatcher *fsnotify.Watcher
	stopCh    chan struct{}
	running   bool

	debounceMu    sync.Mutex
	debounceTimer *time.Timer
}

// NewWatcher creates a watcher over the store's descriptor file. onReload,
// when non-nil, runs after every successful reload — the check command uses
// it to revalidate the document.
func NewWatcher(s *Store, onReload func()) *Watcher {
	return &Watcher{store: s, onReload: onReload}
}

// Start begins watching the directory containing the descriptor file.
// Watching the directory rather than the file survives editors that
// replace the file via rename.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsWatcher.Add(filepath.Dir(w.store.Path())); err != nil {
		fsWatcher.Close()
		return err
	}

	w.fsWatcher = fsWatcher
	w.stopCh = make(chan struct{})
	w.running = true

	go w.processEvents(fsWatcher.Events, fsWatcher.Errors)

	logging.Info("Watch", "Watching %s for changes", w.store.Path())
	return nil
}

// Stop ends watching. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	close(w.stopCh)
	w.fsWatcher.Close()
	w.fsWatcher = nil
	w.running = false
}

func (w *Watcher) processEvents(eventsCh <-chan fsnotify.Event, errorsCh <-chan error) {
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-eventsCh:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-errorsCh:
			if !ok {
				return
			}
			logging.Error("Watch", err, "fsnotify error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Base(event.Name) != filepath.Base(w.store.Path()) {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	logging.Debug("Watch", "Descriptor changed: %s", event.Name)
	w.triggerReloadDebounced()
}

func (w *Watcher) triggerReloadDebounced() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(DefaultDebounceInterval, w.reload)
}

func (w *Watcher) reload() {
	path := w.store.Path()
	if err := w.store.Reload(path); err != nil {
		logging.Error("Watch", err, "Reload of %s failed", path)
		return
	}
	if w.onReload != nil {
		w.onReload()
	}
}
