package cli

import (
	"fmt"
	"strings"

	"github.com/harun/jsonstudio/pkg/jsonstats"
	"github.com/harun/jsonstudio/pkg/session"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Side-by-side diff sessions",
}

var diffMergeCmd = &cobra.Command{
	Use:   "merge [SIDE=FILE...]",
	Short: "Open files on either side of a diff session and merge them into the session",
	Long: `Enter diff mode, open each --left-file on the left side and each --right-file
on the right side, then leave diff mode. Files can also be given as left=FILE or
right=FILE arguments; they open after the flag files. The left side wins: its tabs
keep their order and its active tab stays active. Right side tabs whose file is
already open are dropped.`,
	RunE: runDiffMerge,
}

func init() {
	diffMergeCmd.Flags().StringSlice("left-file", nil, "file to open on the left side (repeatable)")
	diffMergeCmd.Flags().StringSlice("right-file", nil, "file to open on the right side (repeatable)")

	diffCmd.AddCommand(diffMergeCmd)
	rootCmd.AddCommand(diffCmd)
}

// openDiffFile opens path in a new tab on side.
func openDiffFile(s *session.Store, side session.Side, path string) error {
	content, absPath, name, err := readFileTab(path)
	if err != nil {
		return err
	}
	tab, ok := s.AddDiffTab(side)
	if !ok {
		return fmt.Errorf("cannot open %s: %s side already holds %d tabs", path, side, session.MaxTabs)
	}
	stats := jsonstats.ComputeStats(content)
	s.UpdateDiffTabContent(side, tab.ID, content)
	s.UpdateDiffTabFile(side, tab.ID, absPath, name)
	s.UpdateDiffTabStats(side, tab.ID, &stats)
	return nil
}

// diffFile is a file to open on one side of a diff session.
type diffFile struct {
	side session.Side
	path string
}

// parseDiffFile parses a SIDE=FILE argument.
func parseDiffFile(arg string) (diffFile, error) {
	name, path, ok := strings.Cut(arg, "=")
	if !ok || path == "" {
		return diffFile{}, fmt.Errorf("invalid argument %q (want SIDE=FILE)", arg)
	}
	side, err := session.ParseSide(name)
	if err != nil {
		return diffFile{}, err
	}
	return diffFile{side: side, path: path}, nil
}

// diffFiles collects the flag files and SIDE=FILE args in opening order.
func diffFiles(cmd *cobra.Command, args []string) ([]diffFile, error) {
	leftFiles, _ := cmd.Flags().GetStringSlice("left-file")
	rightFiles, _ := cmd.Flags().GetStringSlice("right-file")

	var files []diffFile
	for _, f := range leftFiles {
		files = append(files, diffFile{side: session.SideLeft, path: f})
	}
	for _, f := range rightFiles {
		files = append(files, diffFile{side: session.SideRight, path: f})
	}
	for _, arg := range args {
		f, err := parseDiffFile(arg)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("at least one --left-file, --right-file or SIDE=FILE is required")
	}
	return files, nil
}

func runDiffMerge(cmd *cobra.Command, args []string) error {
	files, err := diffFiles(cmd, args)
	if err != nil {
		return err
	}

	return withApp(func(a *app) error {
		log := a.componentLogger("cli")

		a.store.EnterDiffMode()
		for _, f := range files {
			if err := openDiffFile(a.store, f.side, f.path); err != nil {
				a.store.ExitDiffMode()
				return err
			}
		}

		if d, ok := a.store.DiffSession(); ok {
			log.Debug().
				Int("left_tabs", len(d.Left.Tabs)).
				Int("right_tabs", len(d.Right.Tabs)).
				Msg("Merging diff session")
		}
		a.store.ExitDiffMode()

		printTabs(cmd.OutOrStdout(), a.store.State())
		return nil
	})
}
