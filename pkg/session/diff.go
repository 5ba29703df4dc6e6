package session

import (
	"fmt"
	"strings"

	"github.com/harun/jsonstudio/internal/observability"
	"github.com/harun/jsonstudio/pkg/jsonstats"
)

// Side addresses one track of a diff session.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// ParseSide converts a user-supplied name into a Side.
func ParseSide(name string) (Side, error) {
	switch Side(strings.ToLower(strings.TrimSpace(name))) {
	case SideLeft:
		return SideLeft, nil
	case SideRight:
		return SideRight, nil
	default:
		return "", fmt.Errorf("unknown diff side %q (want left or right)", name)
	}
}

// DiffSession holds the two comparison tracks of diff mode.
type DiffSession struct {
	Left  State `json:"left"`
	Right State `json:"right"`
}

// Clone returns a deep copy. A nil receiver yields nil.
func (d *DiffSession) Clone() *DiffSession {
	if d == nil {
		return nil
	}
	return &DiffSession{Left: d.Left.Clone(), Right: d.Right.Clone()}
}

// Track returns a copy of one side.
func (d *DiffSession) Track(side Side) State {
	if side == SideRight {
		return d.Right.Clone()
	}
	return d.Left.Clone()
}

func (d *DiffSession) track(side Side) *State {
	switch side {
	case SideLeft:
		return &d.Left
	case SideRight:
		return &d.Right
	default:
		return nil
	}
}

// InDiffMode reports whether a diff session exists.
func (s *Store) InDiffMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.diff != nil
}

// DiffSession returns a snapshot of the diff session.
func (s *Store) DiffSession() (*DiffSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.diff == nil {
		return nil, false
	}
	return s.diff.Clone(), true
}

// EnterDiffMode forks the session into independent left and right copies. The
// main session is left untouched until ExitDiffMode.
func (s *Store) EnterDiffMode() bool {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	if s.diff != nil {
		s.mu.Unlock()
		s.logger.Debug().Msg("Diff mode already active")
		return false
	}
	s.diff = &DiffSession{
		Left:  s.state.Clone(),
		Right: s.state.Clone(),
	}
	snapshot := s.diff.Clone()
	s.mu.Unlock()

	observability.RecordDiffTransition("enter")
	observability.SetOpenTabs(string(SideLeft), len(snapshot.Left.Tabs))
	observability.SetOpenTabs(string(SideRight), len(snapshot.Right.Tabs))
	s.logger.Info().Int("tabs", len(snapshot.Left.Tabs)).Msg("Diff mode entered")

	s.emitter.Emit(EventDiffChanged, snapshot)
	return true
}

// ExitDiffMode merges both tracks back into the session, left side first, and
// ends diff mode.
func (s *Store) ExitDiffMode() bool {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	if s.diff == nil {
		s.mu.Unlock()
		return false
	}
	s.state = mergeTracks(s.diff.Left, s.diff.Right, s.newID)
	s.diff = nil
	snapshot := s.state.Clone()
	s.mu.Unlock()

	observability.RecordDiffTransition("exit")
	observability.SetOpenTabs(trackMain, len(snapshot.Tabs))
	s.logger.Info().Int("tabs", len(snapshot.Tabs)).Msg("Diff mode exited")

	s.emitter.Emit(EventStateChanged, snapshot)
	s.emitter.Emit(EventDiffChanged, (*DiffSession)(nil))
	return true
}

func (s *Store) mutateDiff(op string, side Side, fn func(st *State) bool) bool {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	var (
		changed  bool
		snapshot *DiffSession
	)
	if s.diff != nil {
		if st := s.diff.track(side); st != nil {
			changed = fn(st)
		}
	}
	if changed {
		snapshot = s.diff.Clone()
	}
	s.mu.Unlock()

	observability.RecordTabOperation(string(side), op, changed)
	if !changed {
		s.logger.Debug().Str("op", op).Str("side", string(side)).Msg("Diff tab operation ignored")
		return false
	}

	observability.SetOpenTabs(string(side), len(snapshot.Track(side).Tabs))
	s.emitter.Emit(EventDiffChanged, snapshot)
	return true
}

// AddDiffTab appends an empty tab to one side and activates it.
func (s *Store) AddDiffTab(side Side) (Tab, bool) {
	tab := Tab{ID: s.newID()}
	if !s.mutateDiff("add", side, func(st *State) bool { return st.add(tab) }) {
		return Tab{}, false
	}
	return tab, true
}

// RemoveDiffTab closes a tab on one side, with the same successor rules as RemoveTab.
func (s *Store) RemoveDiffTab(side Side, id string) bool {
	return s.mutateDiff("remove", side, func(st *State) bool {
		return st.remove(id, s.newID)
	})
}

// SetDiffActiveTab activates a tab on one side.
func (s *Store) SetDiffActiveTab(side Side, id string) bool {
	return s.mutateDiff("activate", side, func(st *State) bool {
		return st.setActive(id)
	})
}

// UpdateDiffTabContent replaces a tab's text on one side.
func (s *Store) UpdateDiffTabContent(side Side, id, text string) bool {
	return s.mutateDiff("update_content", side, func(st *State) bool {
		return st.update(id, func(t *Tab) {
			t.Content = text
			t.IsModified = t.HasFile()
		})
	})
}

// UpdateDiffTabStats stores analysis results for a tab on one side.
func (s *Store) UpdateDiffTabStats(side Side, id string, stats *jsonstats.Stats) bool {
	stats = stats.Clone()
	return s.mutateDiff("update_stats", side, func(st *State) bool {
		return st.update(id, func(t *Tab) {
			t.Stats = stats
		})
	})
}

// UpdateDiffTabFile attaches a backing file to a tab on one side.
func (s *Store) UpdateDiffTabFile(side Side, id, filePath, fileName string) bool {
	return s.mutateDiff("update_file", side, func(st *State) bool {
		return st.update(id, func(t *Tab) {
			t.FilePath = filePath
			t.FileName = fileName
			t.IsModified = false
			t.IsDefault = false
		})
	})
}
