package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/mythos/pkg/notes"
)

var (
	panelResolve bool
	panelContent string
)

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Read and write the panels of a page",
	Long: `Every page has six Markdown panels:

  left:  summary, episode, question
  right: lineage, art, modern`,
}

var panelListCmd = &cobra.Command{
	Use:         "list",
	Short:       "List the panels of a page",
	Args:        cobra.NoArgs,
	Annotations: noStore,
	Run: func(cmd *cobra.Command, args []string) {
		for _, p := range notes.Panels() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-6s %-8s %s\n", p.Column, p.ID, p.Label)
		}
	},
}

var panelReadCmd = &cobra.Command{
	Use:   "read PAGE PANEL",
	Short: "Print the Markdown of a panel",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if _, err := app.notes.Page(ctx, args[0]); err != nil {
			return err
		}
		md, err := app.notes.ReadPanel(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		if panelResolve {
			md = app.notes.ResolveImages(ctx, md)
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

var panelWriteCmd = &cobra.Command{
	Use:   "write PAGE PANEL",
	Short: "Replace the Markdown of a panel with --content or stdin",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if _, err := app.notes.Page(ctx, args[0]); err != nil {
			return err
		}
		md := panelContent
		if !cmd.Flags().Changed("content") {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			md = string(b)
		}
		if err := app.notes.WritePanel(ctx, args[0], args[1], md); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Panel '%s' of '%s' saved.\n", args[1], args[0])
		return nil
	},
}

var panelEditCmd = &cobra.Command{
	Use:   "edit PAGE PANEL",
	Short: "Append stdin lines to a panel, saving after each pause",
	Long: `Reads lines from stdin and appends them to the panel. Writes are
debounced: a save happens once input pauses for the configured delay, and
whatever is pending is saved on EOF.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if _, err := app.notes.Page(ctx, args[0]); err != nil {
			return err
		}
		ed, err := notes.NewEditor(app.notes, args[0], args[1], app.debounce)
		if err != nil {
			return err
		}
		defer ed.Close()

		var b strings.Builder
		b.WriteString(ed.Load(ctx))
		sc := bufio.NewScanner(cmd.InOrStdin())
		for sc.Scan() {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(sc.Text())
			ed.Change(b.String())
			app.logger.Debug("panel changed", "page", args[0], "panel", args[1], "saving", ed.Saving())
		}
		return sc.Err()
	},
}

func init() {
	rootCmd.AddCommand(panelCmd)
	panelCmd.AddCommand(panelListCmd, panelReadCmd, panelWriteCmd, panelEditCmd)
	panelReadCmd.Flags().BoolVar(&panelResolve, "resolve", false, "Replace image references with their data")
	panelWriteCmd.Flags().StringVar(&panelContent, "content", "", "Markdown content (default: read stdin)")
}
