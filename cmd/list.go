package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/safeguardsiliconlife/aidigest/pkg/history"
)

// listCmd shows the most recent recorded builds with their summaries.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent aidigest builds",
	Long:  `List the most recent recorded builds, newest first, with their summaries.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := cmd.Flags().GetInt("count")
		if err != nil {
			return fmt.Errorf("reading flags: %w", err)
		}

		tracker := history.NewTracker(historyRoot(), logger)
		records, err := tracker.ListRecent(n)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No aidigest builds recorded yet.")
			return nil
		}

		fmt.Println("Recent aidigest builds:")
		for _, rec := range records {
			fmt.Printf("Timestamp: %s\n", rec.Name)
			if rec.Summary != "" {
				fmt.Print(rec.Summary)
			}
			fmt.Println("----------------------------------------")
		}
		return nil
	},
}

func init() {
	listCmd.Flags().IntP("count", "n", 5, "How many builds to list")
	RootCmd.AddCommand(listCmd)
}
