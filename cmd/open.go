package cmd

import (
	"github.com/spf13/cobra"

	"github.com/safeguardsiliconlife/aidigest/pkg/history"
)

// openCmd opens the most recent build's artifact in the user's editor.
var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the latest build artifact in your editor",
	Long:  `Resolve the most recently recorded build and open its artifact in $EDITOR (vim if unset).`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tracker := history.NewTracker(historyRoot(), logger)
		path, err := tracker.ResolveLatest()
		if err != nil {
			return err
		}
		return history.OpenInEditor(path)
	},
}

func init() {
	RootCmd.AddCommand(openCmd)
}
