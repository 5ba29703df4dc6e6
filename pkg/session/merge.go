package session

// Merge folds the two diff tracks into one. The left track is authoritative:
// right tabs are appended only when neither their id nor their file path
// already appears on the left. Right tabs beyond MaxTabs are dropped, and pinned
// tabs carried over from the right join the pinned prefix.
func Merge(left, right State) State {
	return mergeTracks(left, right, NewTabID)
}

func mergeTracks(left, right State, newID IDGenerator) State {
	merged := State{Tabs: cloneTabs(left.Tabs)}

	ids := make(map[string]struct{}, len(left.Tabs))
	paths := make(map[string]struct{}, len(left.Tabs))
	for _, t := range left.Tabs {
		ids[t.ID] = struct{}{}
		if t.HasFile() {
			paths[t.FilePath] = struct{}{}
		}
	}

	for _, t := range right.Tabs {
		if _, dup := ids[t.ID]; dup {
			continue
		}
		if t.HasFile() {
			if _, dup := paths[t.FilePath]; dup {
				continue
			}
		}
		if len(merged.Tabs) >= MaxTabs {
			break
		}
		merged.Tabs = append(merged.Tabs, t.Clone())
	}

	if len(merged.Tabs) == 0 {
		return singleTabState(freshTab(newID))
	}

	merged.ActiveTabID = left.ActiveTabID
	merged.normalizePins()
	merged.ensureActive()
	return merged
}
