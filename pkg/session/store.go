package session

import (
	"sync"

	"github.com/harun/jsonstudio/internal/observability"
	"github.com/harun/jsonstudio/pkg/jsonstats"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const trackMain = "main"

// Store is the single owner of the tab session and, while diff mode is on, of
// the diff session.
type Store struct {
	// dispatchMu serializes each change together with its notification, so
	// subscribers see snapshots in the order the changes happened. Handlers
	// may call read methods but must not mutate the store.
	dispatchMu sync.Mutex

	mu     sync.Mutex
	state  State
	diff   *DiffSession
	newID  IDGenerator
	logger zerolog.Logger

	emitter *Emitter
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithIDGenerator overrides tab id generation.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New creates a store seeded with initial, repaired with Normalize. An empty
// initial state is replaced with a single default tab.
func New(initial State, opts ...Option) *Store {
	observability.EnsureRegistered()

	s := &Store{
		newID:   NewTabID,
		logger:  log.Logger,
		emitter: NewEmitter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("component", "session-store").Logger()

	if len(initial.Tabs) == 0 {
		s.state = singleTabState(freshTab(s.newID))
	} else {
		s.state = Normalize(initial)
	}
	observability.SetOpenTabs(trackMain, len(s.state.Tabs))

	return s
}

// Subscribe registers handler for event. The returned func removes it.
func (s *Store) Subscribe(event Event, handler Handler) func() {
	id := s.emitter.On(event, handler)
	return func() {
		s.emitter.Off(event, id)
	}
}

// Close drops all subscribers.
func (s *Store) Close() {
	s.emitter.RemoveAllListeners()
}

// State returns a snapshot of the main track.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// ActiveTab returns a copy of the active tab of the main track.
func (s *Store) ActiveTab() (Tab, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Active()
}

// Tab returns a copy of the tab with id from the main track.
func (s *Store) Tab(id string) (Tab, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Find(id)
}

// Len returns the number of tabs in the main track.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.Tabs)
}

// mutate applies fn to the main track under the lock and notifies subscribers
// once the lock is released.
func (s *Store) mutate(op string, fn func(st *State) bool) bool {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	changed := fn(&s.state)
	var snapshot State
	if changed {
		snapshot = s.state.Clone()
	}
	s.mu.Unlock()

	observability.RecordTabOperation(trackMain, op, changed)
	if !changed {
		s.logger.Debug().Str("op", op).Msg("Tab operation ignored")
		return false
	}

	observability.SetOpenTabs(trackMain, len(snapshot.Tabs))
	s.emitter.Emit(EventStateChanged, snapshot)
	return true
}

// AddTab appends a new tab and activates it. It reports false, leaving the
// session unchanged, when the session already holds MaxTabs tabs.
func (s *Store) AddTab(content, filePath, fileName string) (Tab, bool) {
	tab := Tab{
		ID:       s.newID(),
		FilePath: filePath,
		FileName: fileName,
		Content:  content,
	}
	added := s.mutate("add", func(st *State) bool {
		return st.add(tab)
	})
	if !added {
		s.logger.Warn().Int("max_tabs", MaxTabs).Msg("Maximum tab count reached")
		return Tab{}, false
	}
	return tab.Clone(), true
}

// RemoveTab closes the tab with id. Closing the active tab activates the tab
// before it; closing the last tab leaves a fresh empty tab.
func (s *Store) RemoveTab(id string) bool {
	return s.mutate("remove", func(st *State) bool {
		return st.remove(id, s.newID)
	})
}

// SetActiveTab activates the tab with id.
func (s *Store) SetActiveTab(id string) bool {
	return s.mutate("activate", func(st *State) bool {
		return st.setActive(id)
	})
}

// UpdateContent replaces the tab text. File-backed tabs become modified;
// unsaved buffers never do.
func (s *Store) UpdateContent(id, text string) bool {
	return s.mutate("update_content", func(st *State) bool {
		return st.update(id, func(t *Tab) {
			t.Content = text
			t.IsModified = t.HasFile()
		})
	})
}

// UpdateFile attaches (or with empty values clears) the backing file, as after
// an open or save.
func (s *Store) UpdateFile(id, filePath, fileName string) bool {
	return s.mutate("update_file", func(st *State) bool {
		return st.update(id, func(t *Tab) {
			t.FilePath = filePath
			t.FileName = fileName
			t.IsModified = false
			t.IsDefault = false
		})
	})
}

// UpdateModified sets the modified flag.
func (s *Store) UpdateModified(id string, modified bool) bool {
	return s.mutate("update_modified", func(st *State) bool {
		return st.update(id, func(t *Tab) {
			t.IsModified = modified
		})
	})
}

// UpdateStats stores the latest analysis result for the tab.
func (s *Store) UpdateStats(id string, stats *jsonstats.Stats) bool {
	stats = stats.Clone()
	return s.mutate("update_stats", func(st *State) bool {
		return st.update(id, func(t *Tab) {
			t.Stats = stats
		})
	})
}

// ReorderTabs moves the tab at from to index to. Moves that would cross the
// pinned boundary stop at it.
func (s *Store) ReorderTabs(from, to int) bool {
	return s.mutate("reorder", func(st *State) bool {
		return st.reorder(from, to)
	})
}

// TogglePinTab pins or unpins the tab and moves it to the edge of the pinned
// prefix.
func (s *Store) TogglePinTab(id string) bool {
	return s.mutate("toggle_pin", func(st *State) bool {
		return st.togglePin(id)
	})
}

// CloseOtherTabs keeps the tab with id and every pinned tab.
func (s *Store) CloseOtherTabs(id string) bool {
	return s.mutate("close_others", func(st *State) bool {
		return st.closeOthers(id)
	})
}

// CloseAllTabs replaces the session with a single fresh tab.
func (s *Store) CloseAllTabs() {
	s.mutate("close_all", func(st *State) bool {
		*st = singleTabState(freshTab(s.newID))
		return true
	})
}

// Reset is CloseAllTabs that also discards any diff session.
func (s *Store) Reset() {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	s.state = singleTabState(freshTab(s.newID))
	snapshot := s.state.Clone()
	hadDiff := s.diff != nil
	s.diff = nil
	s.mu.Unlock()

	observability.RecordTabOperation(trackMain, "reset", true)
	observability.SetOpenTabs(trackMain, len(snapshot.Tabs))
	s.logger.Info().Bool("diff_discarded", hadDiff).Msg("Session reset")

	s.emitter.Emit(EventStateChanged, snapshot)
	if hadDiff {
		observability.RecordDiffTransition("discard")
		s.emitter.Emit(EventDiffChanged, (*DiffSession)(nil))
	}
}
