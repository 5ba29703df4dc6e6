// Package session owns the open editor tabs of a jsonstudio window.
//
// Invariants:
// - A track (the main tab list, or one side of a diff session) always holds at least one tab
//   and never more than MaxTabs.
// - The active tab id always resolves to a tab of its track.
// - Pinned tabs form a contiguous prefix of a track, in pin order.
// - All mutation goes through Store; subscribers are notified synchronously after each change.
//
// Usage:
//
//	store := session.New(session.DefaultState())
//	unsubscribe := store.Subscribe(session.EventStateChanged, func(payload interface{}) {
//		state := payload.(session.State)
//		_ = state.ActiveTabID
//	})
//	defer unsubscribe()
//	tab, _ := store.AddTab(`{"hello":"world"}`, "", "")
//	store.TogglePinTab(tab.ID)
package session
