package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/harun/jsonstudio/pkg/session"
)

const maxTitleWidth = 40

var (
	cellStyle   = lipgloss.NewStyle()
	headerStyle = lipgloss.NewStyle().Bold(true)
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

// tabFlags lists the state markers shown for a tab.
func tabFlags(t session.Tab) string {
	var flags []string
	if t.IsPinned {
		flags = append(flags, "pinned")
	}
	if t.IsModified {
		flags = append(flags, "modified")
	}
	if t.IsDefault {
		flags = append(flags, "default")
	}
	if t.Stats != nil && !t.Stats.Valid {
		flags = append(flags, "invalid")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}

func truncate(s string, maxWidth int) string {
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, "...")
}

// tabTable lays out one row per tab, marking the active one with "*".
func tabTable(st session.State) *table.Table {
	active := -1
	rows := make([][]string, len(st.Tabs))
	for i, t := range st.Tabs {
		marker := ""
		if t.ID == st.ActiveTabID {
			marker = "*"
			active = i
		}
		rows[i] = []string{marker, t.ID, truncate(t.Title(), maxTitleWidth), tabFlags(t)}
	}

	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		Headers("", "ID", "TITLE", "FLAGS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := cellStyle
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row == active:
				style = activeStyle
			}
			if col < 3 {
				return style.PaddingRight(1)
			}
			return style
		})
}

func printTabs(w io.Writer, st session.State) {
	fmt.Fprintln(w, tabTable(st).String())
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d/%d tabs", len(st.Tabs), session.MaxTabs)))
}
