package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/harun/jsonstudio/pkg/jsonstats"
	"github.com/harun/jsonstudio/pkg/persistence"
	"github.com/harun/jsonstudio/pkg/session"
	"github.com/spf13/cobra"
)

var tabsCmd = &cobra.Command{
	Use:   "tabs",
	Short: "Inspect and change the tab session",
}

var tabsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List open tabs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			printTabs(cmd.OutOrStdout(), a.store.State())
			return nil
		})
	},
}

var tabsNewCmd = &cobra.Command{
	Use:   "new [CONTENT]",
	Short: "Open a new tab, empty, with CONTENT, or with a file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTabsNew,
}

var tabsCloseCmd = &cobra.Command{
	Use:   "close ID",
	Short: "Close a tab",
	Args:  cobra.ExactArgs(1),
	RunE: tabOp(func(s *session.Store, args []string) (bool, error) {
		return s.RemoveTab(args[0]), nil
	}),
}

var tabsCloseOthersCmd = &cobra.Command{
	Use:   "close-others ID",
	Short: "Close every unpinned tab except ID",
	Args:  cobra.ExactArgs(1),
	RunE: tabOp(func(s *session.Store, args []string) (bool, error) {
		return s.CloseOtherTabs(args[0]), nil
	}),
}

var tabsCloseAllCmd = &cobra.Command{
	Use:   "close-all",
	Short: "Close every tab, leaving one empty tab",
	Args:  cobra.NoArgs,
	RunE: tabOp(func(s *session.Store, args []string) (bool, error) {
		s.CloseAllTabs()
		return true, nil
	}),
}

var tabsActivateCmd = &cobra.Command{
	Use:   "activate ID",
	Short: "Make a tab the active one",
	Args:  cobra.ExactArgs(1),
	RunE: tabOp(func(s *session.Store, args []string) (bool, error) {
		return s.SetActiveTab(args[0]), nil
	}),
}

var tabsPinCmd = &cobra.Command{
	Use:   "pin ID",
	Short: "Pin or unpin a tab",
	Args:  cobra.ExactArgs(1),
	RunE: tabOp(func(s *session.Store, args []string) (bool, error) {
		return s.TogglePinTab(args[0]), nil
	}),
}

var tabsMoveCmd = &cobra.Command{
	Use:   "move FROM TO",
	Short: "Move the tab at index FROM to index TO",
	Args:  cobra.ExactArgs(2),
	RunE: tabOp(func(s *session.Store, args []string) (bool, error) {
		from, err := strconv.Atoi(args[0])
		if err != nil {
			return false, fmt.Errorf("invalid index %q: %w", args[0], err)
		}
		to, err := strconv.Atoi(args[1])
		if err != nil {
			return false, fmt.Errorf("invalid index %q: %w", args[1], err)
		}
		return s.ReorderTabs(from, to), nil
	}),
}

var tabsSetContentCmd = &cobra.Command{
	Use:   "set-content ID [TEXT]",
	Short: "Replace the content of a tab from TEXT or --file",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runTabsSetContent,
}

var tabsSaveCmd = &cobra.Command{
	Use:   "save ID",
	Short: "Write a tab's content to its file or to --as PATH",
	Long: `Write the content of tab ID to disk. Without --as the tab's own file is used.
Saved tabs take the file's name as title and are no longer marked modified.`,
	Args: cobra.ExactArgs(1),
	RunE: runTabsSave,
}

func init() {
	tabsNewCmd.Flags().String("file", "", "open this file in the new tab")
	tabsSetContentCmd.Flags().String("file", "", "read the content from this file")
	tabsSaveCmd.Flags().String("as", "", "save to this .json file")

	tabsCmd.AddCommand(tabsListCmd, tabsNewCmd, tabsCloseCmd, tabsCloseOthersCmd,
		tabsCloseAllCmd, tabsActivateCmd, tabsPinCmd, tabsMoveCmd, tabsSetContentCmd,
		tabsSaveCmd)
	rootCmd.AddCommand(tabsCmd)
}

// tabOp wraps a store operation: it runs op, reports ignored operations on
// stderr and prints the resulting session.
func tabOp(op func(s *session.Store, args []string) (bool, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			changed, err := op(a.store, args)
			if err != nil {
				return err
			}
			if !changed {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: nothing changed\n", cmd.Name())
			}
			printTabs(cmd.OutOrStdout(), a.store.State())
			return nil
		})
	}
}

// readFileTab loads a file for display in a tab.
func readFileTab(path string) (content, absPath, name string, err error) {
	absPath, err = filepath.Abs(path)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), absPath, filepath.Base(absPath), nil
}

func runTabsNew(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	if file != "" && len(args) > 0 {
		return fmt.Errorf("CONTENT and --file are mutually exclusive")
	}

	var content, path, name string
	if file != "" {
		var err error
		if content, path, name, err = readFileTab(file); err != nil {
			return err
		}
	} else if len(args) > 0 {
		content = args[0]
	}

	return withApp(func(a *app) error {
		tab, ok := a.store.AddTab(content, path, name)
		if !ok {
			return fmt.Errorf("cannot open more than %d tabs", session.MaxTabs)
		}
		if content != "" {
			stats := jsonstats.ComputeStats(content)
			a.store.UpdateStats(tab.ID, &stats)
		}
		printTabs(cmd.OutOrStdout(), a.store.State())
		return nil
	})
}

func runTabsSetContent(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")

	var content string
	switch {
	case file != "" && len(args) == 2:
		return fmt.Errorf("TEXT and --file are mutually exclusive")
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		content = string(data)
	case len(args) == 2:
		content = args[1]
	default:
		return fmt.Errorf("either TEXT or --file is required")
	}

	return withApp(func(a *app) error {
		id := args[0]
		if !a.store.UpdateContent(id, content) {
			return fmt.Errorf("no tab with id %q", id)
		}
		stats := jsonstats.ComputeStats(content)
		a.store.UpdateStats(id, &stats)
		printTabs(cmd.OutOrStdout(), a.store.State())
		return nil
	})
}

// isJSONFile reports whether path has a .json extension, in any case.
func isJSONFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// saveTab writes the content of tab id to path, or to the tab's own file when
// path is empty, and records the file on the tab.
func saveTab(s *session.Store, id, path string) (session.Tab, error) {
	tab, ok := s.Tab(id)
	if !ok {
		return session.Tab{}, fmt.Errorf("no tab with id %q", id)
	}
	if path == "" {
		if !tab.HasFile() {
			return session.Tab{}, fmt.Errorf("tab %q has no file, use --as PATH", id)
		}
		path = tab.FilePath
	}
	if !isJSONFile(path) {
		return session.Tab{}, fmt.Errorf("refusing to save %s: not a .json file", path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return session.Tab{}, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if err := persistence.WriteFileAtomic(absPath, []byte(tab.Content), 0644); err != nil {
		return session.Tab{}, fmt.Errorf("failed to save %s: %w", path, err)
	}

	s.UpdateFile(id, absPath, filepath.Base(absPath))
	saved, _ := s.Tab(id)
	return saved, nil
}

func runTabsSave(cmd *cobra.Command, args []string) error {
	as, _ := cmd.Flags().GetString("as")

	return withApp(func(a *app) error {
		tab, err := saveTab(a.store, args[0], as)
		if err != nil {
			return err
		}
		log := a.componentLogger("cli")
		log.Debug().
			Str("tab_id", tab.ID).
			Str("path", tab.FilePath).
			Msg("Tab saved")
		fmt.Fprintf(cmd.ErrOrStderr(), "saved %s\n", tab.FileName)
		printTabs(cmd.OutOrStdout(), a.store.State())
		return nil
	})
}
