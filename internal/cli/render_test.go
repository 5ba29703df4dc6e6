package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/harun/jsonstudio/pkg/jsonstats"
	"github.com/harun/jsonstudio/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTabFlags(t *testing.T) {
	tests := []struct {
		name string
		tab  session.Tab
		want string
	}{
		{"plain", session.Tab{}, "-"},
		{"pinned and modified", session.Tab{IsPinned: true, IsModified: true}, "pinned,modified"},
		{"default", session.Tab{IsDefault: true}, "default"},
		{"invalid content", session.Tab{Stats: &jsonstats.Stats{Valid: false}}, "invalid"},
		{"valid content", session.Tab{Stats: &jsonstats.Stats{Valid: true}}, "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tabFlags(tt.tab))
		})
	}
}

func TestPrintTabs(t *testing.T) {
	st := session.State{
		Tabs: []session.Tab{
			{ID: "tab-a", FileName: "orders.json", IsPinned: true},
			{ID: "tab-b", FileName: strings.Repeat("x", 60) + ".json"},
		},
		ActiveTabID: "tab-b",
	}

	var buf bytes.Buffer
	printTabs(&buf, st)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "TITLE")
	assert.Contains(t, lines[1], "orders.json")
	assert.Contains(t, lines[1], "pinned")
	assert.False(t, strings.HasPrefix(strings.TrimSpace(lines[1]), "*"))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[2]), "*"), "active tab is marked")
	assert.Contains(t, lines[2], "...")
	assert.Equal(t, "2/10 tabs", lines[3])

	// Columns line up.
	assert.Equal(t, strings.Index(lines[1], "tab-a"), strings.Index(lines[2], "tab-b"))
}
