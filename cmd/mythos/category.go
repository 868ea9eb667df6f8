package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"cat"},
	Short:   "Manage note categories",
}

var categoryAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := app.notes.AddCategory(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Category '%s' created (%s).\n", c.Name, c.ID)
		return nil
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories with their page counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cats := app.notes.ListCategories(ctx)
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), cats)
		}
		for _, c := range cats {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s (%d)\n", c.ID, c.Name, app.notes.PageCount(ctx, c.ID))
		}
		return nil
	},
}

var categoryRenameCmd = &cobra.Command{
	Use:   "rename ID NAME",
	Short: "Rename a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := app.notes.RenameCategory(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Category '%s' renamed to '%s'.\n", c.ID, c.Name)
		return nil
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a category with its pages and their content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		n := app.notes.PageCount(ctx, args[0])
		if err := app.notes.DeleteCategory(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Category '%s' deleted with %d pages.\n", args[0], n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoryCmd)
	categoryCmd.AddCommand(categoryAddCmd, categoryListCmd, categoryRenameCmd, categoryDeleteCmd)
	categoryListCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
}
