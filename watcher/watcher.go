package watcher

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"cfimages/config"
)

// DefaultDebounce waits out editors that write a file in several steps
const DefaultDebounce = 500 * time.Millisecond

// Watcher reloads a config file into a Store whenever it changes on disk
type Watcher struct {
	path     string
	store    *config.Store
	watcher  *fsnotify.Watcher
	events   chan Event
	logger   *slog.Logger
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// Event reports the result of one reload attempt
type Event struct {
	Type EventType
	Path string
	Err  error
}

// EventType represents the outcome of a reload
type EventType int

const (
	EventReloaded EventType = iota
	EventFailed
)

func (t EventType) String() string {
	if t == EventReloaded {
		return "reloaded"
	}
	return "failed"
}

// NewWatcher creates a watcher for the config file at path
func NewWatcher(path string, store *config.Store, logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		path:     abs,
		store:    store,
		watcher:  fsWatcher,
		events:   make(chan Event, 16),
		logger:   logger,
		debounce: DefaultDebounce,
	}, nil
}

// SetDebounce overrides DefaultDebounce; call before Start
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Start begins monitoring. The directory is watched rather than the file
// so that atomic saves (write temp, rename over) are seen.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch folder %s: %w", dir, err)
	}
	w.logger.Info("watching config", "path", w.path)

	go w.processEvents()
	return nil
}

// processEvents filters fsnotify events down to the config file
func (w *Watcher) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

// reload loads the file and swaps it in. A broken file keeps the previous
// configuration active.
func (w *Watcher) reload() {
	cfg, err := config.Load(w.path)
	if err != nil {
		w.logger.Error("config reload failed, keeping previous config", "path", w.path, "error", err)
		w.emit(Event{Type: EventFailed, Path: w.path, Err: err})
		return
	}

	w.store.Swap(cfg)
	w.logger.Info("config reloaded", "path", w.path, "enabled", cfg.Images.Enabled)
	w.emit(Event{Type: EventReloaded, Path: w.path})
}

// emit delivers without blocking; slow consumers miss events, not reloads
func (w *Watcher) emit(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	select {
	case w.events <- ev:
	default:
	}
}

// Events returns the reload event channel
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop stops the watcher and closes the event channel
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.events)
	w.mu.Unlock()

	return w.watcher.Close()
}
