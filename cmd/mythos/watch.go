package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/mythos/pkg/adapters/lifecycle"
	"github.com/aretw0/mythos/pkg/core"
)

var watchOnly []string

var watchCmd = &cobra.Command{
	Use:   "watch [PATTERN]",
	Short: "Print changes made to the data directory until interrupted",
	Long: `Watches the storage for changes made outside this process (another
instance, a sync tool, a manual edit) and prints one line per event.
The SQL backends cannot be watched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		pattern := ""
		if len(args) == 1 {
			pattern = args[0]
		}
		events, err := app.store.Watch(ctx, pattern)
		if errors.Is(err, core.ErrNotWatchable) {
			return fmt.Errorf("%w; use the fs backend", err)
		}
		if err != nil {
			return err
		}

		var types []core.EventType
		for _, t := range watchOnly {
			et := core.EventType(strings.ToUpper(t))
			switch et {
			case core.EventCreate, core.EventModify, core.EventDelete:
				types = append(types, et)
			default:
				return fmt.Errorf("unknown event type %q", t)
			}
		}
		src := lifecycle.NewSource(events, lifecycle.WithTypes(types...), lifecycle.WithBuffer(16))
		if err := src.Start(ctx); err != nil {
			return err
		}
		app.logger.Info("watching for changes", "pattern", pattern)
		for e := range src.Events() {
			fmt.Fprintln(cmd.OutOrStdout(), e)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringSliceVar(&watchOnly, "only", nil, "Event types to print: create, modify, delete")
}
