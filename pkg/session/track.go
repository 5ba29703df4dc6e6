package session

import (
	"fmt"
)

// State is an ordered tab list with its active tab. The main session and each
// side of a diff session are States.
type State struct {
	Tabs        []Tab  `json:"tabs"`
	ActiveTabID string `json:"activeTabId"`
}

// DefaultState returns a state holding a single empty default tab.
func DefaultState() State {
	return singleTabState(freshTab(NewTabID))
}

func singleTabState(tab Tab) State {
	return State{Tabs: []Tab{tab}, ActiveTabID: tab.ID}
}

func freshTab(newID IDGenerator) Tab {
	return Tab{ID: newID(), IsDefault: true}
}

// Normalize repairs a state of unknown provenance so that it satisfies every
// track invariant: duplicate ids are dropped, the list is capped at MaxTabs,
// pinned tabs move to the front, an empty list gets a fresh tab and a dangling
// active id falls back to the first tab.
func Normalize(st State) State {
	out := State{ActiveTabID: st.ActiveTabID}
	seen := make(map[string]bool, len(st.Tabs))
	for _, t := range st.Tabs {
		if t.ID == "" || seen[t.ID] {
			continue
		}
		if len(out.Tabs) >= MaxTabs {
			break
		}
		seen[t.ID] = true
		out.Tabs = append(out.Tabs, t.Clone())
	}

	if len(out.Tabs) == 0 {
		return DefaultState()
	}
	out.normalizePins()
	out.ensureActive()
	return out
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	return State{Tabs: cloneTabs(s.Tabs), ActiveTabID: s.ActiveTabID}
}

// IndexOf returns the position of the tab with id, or -1.
func (s State) IndexOf(id string) int {
	for i, t := range s.Tabs {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Find returns a copy of the tab with id.
func (s State) Find(id string) (Tab, bool) {
	idx := s.IndexOf(id)
	if idx < 0 {
		return Tab{}, false
	}
	return s.Tabs[idx].Clone(), true
}

// Active returns a copy of the active tab.
func (s State) Active() (Tab, bool) {
	return s.Find(s.ActiveTabID)
}

// IDs returns the tab ids in order.
func (s State) IDs() []string {
	ids := make([]string, len(s.Tabs))
	for i, t := range s.Tabs {
		ids[i] = t.ID
	}
	return ids
}

// PinnedCount returns the number of pinned tabs.
func (s State) PinnedCount() int {
	n := 0
	for _, t := range s.Tabs {
		if t.IsPinned {
			n++
		}
	}
	return n
}

// Check reports the first violated track invariant, or nil.
func (s State) Check() error {
	if len(s.Tabs) == 0 {
		return fmt.Errorf("track has no tabs")
	}
	if len(s.Tabs) > MaxTabs {
		return fmt.Errorf("track has %d tabs, max is %d", len(s.Tabs), MaxTabs)
	}
	if s.IndexOf(s.ActiveTabID) < 0 {
		return fmt.Errorf("active tab %q not in track", s.ActiveTabID)
	}
	seen := make(map[string]bool, len(s.Tabs))
	for _, t := range s.Tabs {
		if seen[t.ID] {
			return fmt.Errorf("duplicate tab id %q", t.ID)
		}
		seen[t.ID] = true
	}
	pinned := s.PinnedCount()
	for i := 0; i < pinned; i++ {
		if !s.Tabs[i].IsPinned {
			return fmt.Errorf("pinned tabs are not a contiguous prefix")
		}
	}
	return nil
}

func (s *State) add(tab Tab) bool {
	if len(s.Tabs) >= MaxTabs {
		return false
	}
	s.Tabs = append(s.Tabs, tab)
	s.ActiveTabID = tab.ID
	return true
}

func (s *State) remove(id string, newID IDGenerator) bool {
	idx := s.IndexOf(id)
	if idx < 0 {
		return false
	}

	wasActive := s.ActiveTabID == id
	s.Tabs = removeAt(s.Tabs, idx)

	if len(s.Tabs) == 0 {
		*s = singleTabState(freshTab(newID))
		return true
	}

	if wasActive {
		next := idx - 1
		if next < 0 {
			next = 0
		}
		s.ActiveTabID = s.Tabs[next].ID
	}
	s.ensureActive()
	return true
}

func (s *State) setActive(id string) bool {
	if s.IndexOf(id) < 0 || s.ActiveTabID == id {
		return false
	}
	s.ActiveTabID = id
	return true
}

func (s *State) update(id string, fn func(t *Tab)) bool {
	idx := s.IndexOf(id)
	if idx < 0 {
		return false
	}
	fn(&s.Tabs[idx])
	return true
}

// reorder moves the tab at from to to. The destination is clamped to the moved
// tab's region so pinned tabs stay a prefix.
func (s *State) reorder(from, to int) bool {
	n := len(s.Tabs)
	if from == to || from < 0 || from >= n || to < 0 || to >= n {
		return false
	}

	moved := s.Tabs[from]
	pinned := s.PinnedCount()
	if moved.IsPinned && to > pinned-1 {
		to = pinned - 1
	}
	if !moved.IsPinned && to < pinned {
		to = pinned
	}
	if to == from {
		return false
	}

	s.Tabs = insertAt(removeAt(s.Tabs, from), to, moved)
	return true
}

func (s *State) togglePin(id string) bool {
	idx := s.IndexOf(id)
	if idx < 0 {
		return false
	}

	tab := s.Tabs[idx]
	tab.IsPinned = !tab.IsPinned
	rest := removeAt(s.Tabs, idx)

	var pos int
	if tab.IsPinned {
		for i, t := range rest {
			if t.IsPinned {
				pos = i + 1
			}
		}
	} else {
		pos = len(rest)
		for i, t := range rest {
			if !t.IsPinned {
				pos = i
				break
			}
		}
	}

	s.Tabs = insertAt(rest, pos, tab)
	return true
}

func (s *State) closeOthers(id string) bool {
	if s.IndexOf(id) < 0 {
		return false
	}

	kept := make([]Tab, 0, len(s.Tabs))
	for _, t := range s.Tabs {
		if t.ID == id || t.IsPinned {
			kept = append(kept, t)
		}
	}

	changed := len(kept) != len(s.Tabs) || s.ActiveTabID != id
	s.Tabs = kept
	s.ActiveTabID = id
	return changed
}

// normalizePins moves pinned tabs to the front, keeping relative order.
func (s *State) normalizePins() {
	ordered := make([]Tab, 0, len(s.Tabs))
	for _, t := range s.Tabs {
		if t.IsPinned {
			ordered = append(ordered, t)
		}
	}
	for _, t := range s.Tabs {
		if !t.IsPinned {
			ordered = append(ordered, t)
		}
	}
	s.Tabs = ordered
}

func (s *State) ensureActive() {
	if len(s.Tabs) > 0 && s.IndexOf(s.ActiveTabID) < 0 {
		s.ActiveTabID = s.Tabs[0].ID
	}
}

func removeAt(tabs []Tab, i int) []Tab {
	out := make([]Tab, 0, len(tabs)-1)
	out = append(out, tabs[:i]...)
	return append(out, tabs[i+1:]...)
}

func insertAt(tabs []Tab, i int, tab Tab) []Tab {
	out := make([]Tab, 0, len(tabs)+1)
	out = append(out, tabs[:i]...)
	out = append(out, tab)
	return append(out, tabs[i:]...)
}
