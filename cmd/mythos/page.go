package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pageCategory string

var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Manage note pages",
}

var pageAddCmd = &cobra.Command{
	Use:   "add CATEGORY TITLE",
	Short: "Create a page in a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := app.notes.AddPage(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Page '%s' created (%s).\n", p.Title, p.ID)
		return nil
	},
}

var pageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pages := app.notes.Pages(cmd.Context(), pageCategory)
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), pages)
		}
		for _, p := range pages {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-12s %s\n", p.ID, p.CategoryID, p.Title)
		}
		return nil
	},
}

var pageRenameCmd = &cobra.Command{
	Use:   "rename ID TITLE",
	Short: "Rename a page",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := app.notes.RenamePage(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Page '%s' renamed to '%s'.\n", p.ID, p.Title)
		return nil
	},
}

var pageDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a page and its panel content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.notes.DeletePage(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Page '%s' deleted.\n", args[0])
		return nil
	},
}

var pageOrphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "List pages whose category is gone and content without a page",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		for _, p := range app.notes.Orphans(ctx) {
			fmt.Fprintf(out, "page     %s  %s (category %s)\n", p.ID, p.Title, p.CategoryID)
		}
		for _, k := range app.notes.OrphanContent(ctx) {
			fmt.Fprintf(out, "content  %s\n", k)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pageCmd)
	pageCmd.AddCommand(pageAddCmd, pageListCmd, pageRenameCmd, pageDeleteCmd, pageOrphansCmd)
	pageListCmd.Flags().StringVar(&pageCategory, "category", "", "Only pages of this category")
	pageListCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
}
