package session

import (
	"fmt"
	"time"

	"github.com/harun/jsonstudio/pkg/jsonstats"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// MaxTabs is the per-track tab capacity.
const MaxTabs = 10

// Tab is one editable JSON buffer.
type Tab struct {
	ID         string           `json:"id"`
	FilePath   string           `json:"filePath,omitempty"`
	FileName   string           `json:"fileName,omitempty"`
	Content    string           `json:"content"`
	IsModified bool             `json:"isModified"`
	Stats      *jsonstats.Stats `json:"stats,omitempty"`
	IsDefault  bool             `json:"isDefault"`
	IsPinned   bool             `json:"isPinned"`
}

// HasFile reports whether the tab is backed by a file on disk.
func (t Tab) HasFile() bool {
	return t.FilePath != ""
}

// Title returns the label shown on the tab strip.
func (t Tab) Title() string {
	switch {
	case t.FileName != "":
		return t.FileName
	case t.IsDefault:
		return "Untitled"
	default:
		return "New Tab"
	}
}

// Clone returns a deep copy of the tab.
func (t Tab) Clone() Tab {
	t.Stats = t.Stats.Clone()
	return t
}

// IDGenerator produces tab ids. Ids must never repeat within a process.
type IDGenerator func() string

// NewTabID returns a fresh opaque tab id.
func NewTabID() string {
	id, err := gonanoid.New()
	if err != nil {
		return fmt.Sprintf("tab-%d", time.Now().UnixNano())
	}
	return "tab-" + id
}

func cloneTabs(tabs []Tab) []Tab {
	if tabs == nil {
		return nil
	}
	out := make([]Tab, len(tabs))
	for i, t := range tabs {
		out[i] = t.Clone()
	}
	return out
}
