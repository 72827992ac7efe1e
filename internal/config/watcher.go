package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/winorg/winorg/internal/logging"
)

// ReloadHandler is called with the freshly loaded configuration whenever
// the watched file changes and parses cleanly.
type ReloadHandler func(cfg *Config)

// Watcher watches a configuration file and triggers reloads. Editors often
// replace files via rename, so the parent directory is watched and events
// are filtered by path.
type Watcher struct {
	path     string
	handler  ReloadHandler
	log      *logging.Logger
	debounce time.Duration

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	pending *time.Timer
	closed  bool
	done    chan struct{}
}

// NewWatcher creates a watcher for the given config path. Call Close to
// stop it.
func NewWatcher(path string, handler ReloadHandler, log *logging.Logger) (*Watcher, error) {
	if log == nil {
		log = logging.Null
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:     abs,
		handler:  handler,
		log:      log.WithComponent("config"),
		debounce: 200 * time.Millisecond,
		fsw:      fsw,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error: %v", err)
		case <-w.done:
			return
		}
	}
}

// schedule debounces rapid successive events into one reload.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	// The debounce timer may fire around Close; a closed watcher must not
	// deliver.
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	cfg, err := Load(w.path)
	if err != nil {
		w.log.Error("config reload failed, keeping previous configuration: %v", err)
		return
	}
	w.log.Info("configuration reloaded from %s", w.path)
	w.handler(cfg)
}

// Close stops the watcher. Pending reloads are cancelled.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.pending != nil {
		w.pending.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	return w.fsw.Close()
}
