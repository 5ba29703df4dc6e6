package filewatch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/harun/jsonstudio/pkg/session"
	"github.com/rs/zerolog"
)

// DefaultDebounce collapses bursts of writes into one update.
const DefaultDebounce = 300 * time.Millisecond

// Marker is the part of session.Store the watcher writes to.
type Marker interface {
	UpdateModified(id string, modified bool) bool
}

// Subscriber is the part of session.Store the watcher follows.
type Subscriber interface {
	Subscribe(event session.Event, handler session.Handler) func()
}

// Watcher watches the files behind file-backed tabs
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   zerolog.Logger
	marker   Marker
	debounce time.Duration

	mu     sync.Mutex
	files  map[string][]string // cleaned path -> ids of clean tabs
	dirs   map[string]int      // watched directory -> tracked files in it
	timers map[string]*time.Timer
	closed bool

	stopCh chan struct{}
	doneCh chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a change is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher that reports changes to marker
func New(marker Marker, logger zerolog.Logger, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fsw,
		logger:   logger.With().Str("component", "filewatch").Logger(),
		marker:   marker,
		debounce: DefaultDebounce,
		files:    make(map[string][]string),
		dirs:     make(map[string]int),
		timers:   make(map[string]*time.Timer),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	go w.run()

	return w, nil
}

// Attach resyncs the watch set on every state change published by store.
// The returned func detaches.
func (w *Watcher) Attach(store Subscriber) func() {
	return store.Subscribe(session.EventStateChanged, func(payload interface{}) {
		st, ok := payload.(session.State)
		if !ok {
			return
		}
		if err := w.Sync(st); err != nil {
			w.logger.Warn().Err(err).Msg("Failed to update watched files")
		}
	})
}

// Sync makes the watch set match the unmodified file-backed tabs of st.
// Tabs already marked modified need no watching.
func (w *Watcher) Sync(st session.State) error {
	want := make(map[string][]string)
	for _, tab := range st.Tabs {
		if !tab.HasFile() || tab.IsModified {
			continue
		}
		path := filepath.Clean(tab.FilePath)
		want[path] = append(want[path], tab.ID)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}

	wantDirs := make(map[string]int)
	for path := range want {
		wantDirs[filepath.Dir(path)]++
	}

	var firstErr error
	for dir := range w.dirs {
		if _, ok := wantDirs[dir]; ok {
			continue
		}
		if err := w.watcher.Remove(dir); err != nil {
			w.logger.Debug().Err(err).Str("dir", dir).Msg("Failed to unwatch directory")
		}
		delete(w.dirs, dir)
	}
	for dir, n := range wantDirs {
		if _, ok := w.dirs[dir]; !ok {
			if err := w.watcher.Add(dir); err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("failed to watch %s: %w", dir, err)
				}
				continue
			}
		}
		w.dirs[dir] = n
	}

	for path, timer := range w.timers {
		if _, ok := want[path]; !ok {
			timer.Stop()
			delete(w.timers, path)
		}
	}
	w.files = want

	w.logger.Debug().
		Int("files", len(want)).
		Int("dirs", len(w.dirs)).
		Msg("Watch set updated")

	return firstErr
}

// Watched returns the number of files being watched.
func (w *Watcher) Watched() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.files)
}

// Stop stops the watcher and cancels pending updates
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()

	close(w.stopCh)
	err := w.watcher.Close()
	<-w.doneCh
	return err
}

// run processes file system events
func (w *Watcher) run() {
	defer close(w.doneCh)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.scheduleMark(filepath.Clean(event.Name), event.Op)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("File watcher error")

		case <-w.stopCh:
			return
		}
	}
}

// scheduleMark debounces the modified update for path
func (w *Watcher) scheduleMark(path string, op fsnotify.Op) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if _, ok := w.files[path]; !ok {
		return
	}

	w.logger.Debug().
		Str("file", filepath.Base(path)).
		Str("op", op.String()).
		Msg("File change detected")

	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mark(path)
	})
}

// mark flags every clean tab backed by path. The store is called without
// holding w.mu because its notification resyncs the watcher.
func (w *Watcher) mark(path string) {
	w.mu.Lock()
	delete(w.timers, path)
	ids := append([]string(nil), w.files[path]...)
	closed := w.closed
	w.mu.Unlock()

	if closed {
		return
	}

	for _, id := range ids {
		if w.marker.UpdateModified(id, true) {
			w.logger.Info().Str("tab_id", id).Msg("Tab marked modified after external change")
		}
	}
}
