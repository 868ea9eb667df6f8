package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var goalCmd = &cobra.Command{
	Use:   "goal [N]",
	Short: "Show or set the number of topics to learn",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if len(args) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), app.journal.Goal(ctx))
			return nil
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("goal must be a number: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Goal set to %d.\n", app.journal.SetGoal(ctx, n))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(goalCmd)
}
