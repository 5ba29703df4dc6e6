package cli

import (
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the session and start over with one empty tab",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			a.store.Reset()
			printTabs(cmd.OutOrStdout(), a.store.State())
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
