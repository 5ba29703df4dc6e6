package persistence

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/harun/jsonstudio/pkg/jsonstats"
	"github.com/harun/jsonstudio/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingKV struct {
	getErr error
	setErr error
}

func (f *failingKV) Get(string) (string, bool, error) { return "", false, f.getErr }
func (f *failingKV) Set(string, string) error         { return f.setErr }
func (f *failingKV) Close() error                     { return nil }

func TestAdapter_SaveStripsFileIdentity(t *testing.T) {
	kv := NewMemoryStore()
	adapter := NewAdapter(kv)

	st := session.State{
		Tabs: []session.Tab{
			{ID: "a", FilePath: "/tmp/x.json", FileName: "x.json", Content: `{"k":1}`, IsModified: true},
		},
		ActiveTabID: "a",
	}
	require.NoError(t, adapter.Save(st))

	raw, ok, err := kv.Get(StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, raw, "filePath")
	assert.NotContains(t, raw, "x.json")

	loaded := adapter.Load()
	require.Len(t, loaded.Tabs, 1)
	tab := loaded.Tabs[0]
	assert.Equal(t, "a", tab.ID)
	assert.Equal(t, `{"k":1}`, tab.Content)
	assert.Empty(t, tab.FilePath)
	assert.Empty(t, tab.FileName)
	assert.True(t, tab.IsModified)
	assert.Equal(t, "a", loaded.ActiveTabID)

	assert.Equal(t, "/tmp/x.json", st.Tabs[0].FilePath, "caller state untouched")
}

func TestAdapter_OversizedContentDropped(t *testing.T) {
	adapter := NewAdapter(NewMemoryStore())
	stats := jsonstats.Stats{Valid: true, ByteSize: 200000}

	st := session.State{
		Tabs: []session.Tab{
			{ID: "big", Content: strings.Repeat("x", 200000), IsModified: true, Stats: &stats},
		},
		ActiveTabID: "big",
	}
	require.NoError(t, adapter.Save(st))

	loaded := adapter.Load()
	require.Len(t, loaded.Tabs, 1)
	assert.Equal(t, "big", loaded.Tabs[0].ID)
	assert.Empty(t, loaded.Tabs[0].Content)
	assert.True(t, loaded.Tabs[0].IsModified)
	require.NotNil(t, loaded.Tabs[0].Stats)
	assert.Equal(t, 200000, loaded.Tabs[0].Stats.ByteSize)
}

func TestSanitize_CountsCharactersNotBytes(t *testing.T) {
	multibyte := strings.Repeat("é", MaxPersistedContent)
	assert.Equal(t, multibyte, Sanitize(session.Tab{ID: "a", Content: multibyte}).Content)

	over := multibyte + "é"
	assert.Empty(t, Sanitize(session.Tab{ID: "a", Content: over}).Content)
}

func TestAdapter_LoadFallsBackToFreshSession(t *testing.T) {
	tests := []struct {
		name  string
		value string
		set   bool
	}{
		{"missing", "", false},
		{"blank", "  ", true},
		{"not json", "{not json", true},
		{"tabs not an array", `{"tabs":"x"}`, true},
		{"numeric id", `{"tabs":[{"id":5}],"activeTabId":"5"}`, true},
		{"bad stats", `{"tabs":[{"id":"a","stats":{"keyCount":"many"}}]}`, true},
		{"top level array", `[]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := NewMemoryStore()
			if tt.set {
				require.NoError(t, kv.Set(StorageKey, tt.value))
			}

			loaded := NewAdapter(kv).Load()

			require.Len(t, loaded.Tabs, 1)
			assert.True(t, loaded.Tabs[0].IsDefault)
			assert.Equal(t, loaded.Tabs[0].ID, loaded.ActiveTabID)
		})
	}
}

func TestAdapter_LoadSanitizesHandEditedValue(t *testing.T) {
	kv := NewMemoryStore()
	var tabs []string
	for i := 0; i < 12; i++ {
		tabs = append(tabs, fmt.Sprintf(`{"id":"t%d","content":"%d"}`, i, i))
	}
	tabs = append(tabs[:2], append([]string{
		`{"id":"t0","content":"duplicate"}`,
		`{"id":"p","filePath":"/etc/passwd","fileName":"passwd","isPinned":true}`,
	}, tabs[2:]...)...)
	raw := `{"tabs":[` + strings.Join(tabs, ",") + `],"activeTabId":"p"}`
	require.NoError(t, kv.Set(StorageKey, raw))

	loaded := NewAdapter(kv).Load()

	require.NoError(t, loaded.Check())
	assert.Len(t, loaded.Tabs, session.MaxTabs)
	assert.Equal(t, "p", loaded.Tabs[0].ID)
	assert.Empty(t, loaded.Tabs[0].FilePath)
	assert.Empty(t, loaded.Tabs[0].FileName)
	assert.Equal(t, "p", loaded.ActiveTabID)
	assert.Equal(t, "0", loaded.Tabs[1].Content)
}

func TestAdapter_LoadResolvesActiveTab(t *testing.T) {
	kv := NewMemoryStore()
	require.NoError(t, kv.Set(StorageKey, `{"tabs":[{"id":"a"},{"id":"b"}],"activeTabId":"gone"}`))
	assert.Equal(t, "a", NewAdapter(kv).Load().ActiveTabID)

	require.NoError(t, kv.Set(StorageKey, `{"tabs":[{"id":"a"},{"id":"b"}],"activeTabId":"b"}`))
	assert.Equal(t, "b", NewAdapter(kv).Load().ActiveTabID)

	require.NoError(t, kv.Set(StorageKey, `{"tabs":[],"activeTabId":null}`))
	loaded := NewAdapter(kv).Load()
	require.Len(t, loaded.Tabs, 1)
	assert.Equal(t, loaded.Tabs[0].ID, loaded.ActiveTabID)
}

func TestAdapter_CustomKey(t *testing.T) {
	kv := NewMemoryStore()
	adapter := NewAdapter(kv, WithKey("other"))

	require.NoError(t, adapter.Save(session.DefaultState()))

	_, ok, _ := kv.Get("other")
	assert.True(t, ok)
	_, ok, _ = kv.Get(StorageKey)
	assert.False(t, ok)
}

func TestAdapter_AttachWritesThrough(t *testing.T) {
	kv := NewMemoryStore()
	adapter := NewAdapter(kv)
	store := session.New(adapter.Load())
	detach := adapter.Attach(store)

	tab, ok := store.AddTab(`{"a":1}`, "/data/a.json", "a.json")
	require.True(t, ok)

	restored := adapter.Load()
	assert.Equal(t, store.State().IDs(), restored.IDs())
	assert.Equal(t, tab.ID, restored.ActiveTabID)

	detach()
	store.CloseAllTabs()
	assert.Equal(t, restored, adapter.Load(), "detached adapter stops writing")
}

func TestAdapter_DiffModeIsNotPersisted(t *testing.T) {
	kv := NewMemoryStore()
	adapter := NewAdapter(kv)
	store := session.New(adapter.Load())
	adapter.Attach(store)
	store.AddTab("main", "", "")
	before, _, _ := kv.Get(StorageKey)

	require.True(t, store.EnterDiffMode())
	_, ok := store.AddDiffTab(session.SideRight)
	require.True(t, ok)

	after, _, _ := kv.Get(StorageKey)
	assert.Equal(t, before, after)

	require.True(t, store.ExitDiffMode())
	merged := adapter.Load()
	assert.Len(t, merged.Tabs, 3)
}

func TestAdapter_KVFailures(t *testing.T) {
	adapter := NewAdapter(&failingKV{setErr: errors.New("disk full"), getErr: errors.New("io")})

	err := adapter.Save(session.DefaultState())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	loaded := adapter.Load()
	assert.Len(t, loaded.Tabs, 1)

	store := session.New(loaded)
	adapter.Attach(store)
	assert.NotPanics(t, func() { store.AddTab("", "", "") })
}

func TestAdapter_PersistedStateKeepsUpWithConcurrentChanges(t *testing.T) {
	kv := NewMemoryStore()
	adapter := NewAdapter(kv)
	store := session.New(session.State{
		Tabs: []session.Tab{
			{ID: "a", FilePath: "/data/a.json", FileName: "a.json"},
			{ID: "b", FilePath: "/data/b.json", FileName: "b.json"},
		},
		ActiveTabID: "a",
	})

	var once sync.Once
	store.Subscribe(session.EventStateChanged, func(interface{}) {
		once.Do(func() { time.Sleep(100 * time.Millisecond) })
	})
	adapter.Attach(store)

	var wg sync.WaitGroup
	for _, id := range []string{"a", "b"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			store.UpdateModified(id, true)
		}(id)
		time.Sleep(10 * time.Millisecond)
	}
	wg.Wait()

	live := store.State()
	persisted := adapter.Load()
	require.Len(t, persisted.Tabs, 2)
	for i, tab := range live.Tabs {
		assert.True(t, tab.IsModified)
		assert.Equal(t, tab.IsModified, persisted.Tabs[i].IsModified, "tab %s", tab.ID)
	}
}
