// Package persistence saves and restores the tab session through a durable
// key-value store.
//
// Invariants:
// - File paths and names are never written, and never read back.
// - Content longer than MaxPersistedContent characters is stored empty.
// - Loading never fails: a missing, unreadable or malformed value yields a fresh session.
// - Diff sessions are never persisted.
//
// Usage:
//
//	kv, _ := persistence.NewFileStore("/tmp/jsonstudio/state.json")
//	adapter := persistence.NewAdapter(kv)
//	store := session.New(adapter.Load())
//	detach := adapter.Attach(store)
//	defer detach()
package persistence
