package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/mythos/pkg/journal"
)

var (
	entryTitle   string
	entrySource  string
	entryAnswers map[string]string
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Manage journal entries",
}

var journalAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new entry",
	Example: `  mythos journal add --title Prometheus --source Hesiod \
    --answer flaw="hubris" --answer power="Zeus over mortals"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkAnswers(entryAnswers); err != nil {
			return err
		}
		e, err := app.journal.Add(cmd.Context(), journal.Draft{
			Title:   entryTitle,
			Source:  entrySource,
			Answers: entryAnswers,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Entry '%s' recorded (%s).\n", e.Title, e.ID)
		return nil
	},
}

var journalEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit an entry; flags left unset keep their value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := app.journal.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if err := checkAnswers(entryAnswers); err != nil {
			return err
		}

		d := journal.Draft{Title: e.Title, Source: e.Source, Answers: e.Answers}
		if cmd.Flags().Changed("title") {
			d.Title = entryTitle
		}
		if cmd.Flags().Changed("source") {
			d.Source = entrySource
		}
		if len(entryAnswers) > 0 {
			merged := make(map[string]string, len(e.Answers)+len(entryAnswers))
			for k, v := range e.Answers {
				merged[k] = v
			}
			for k, v := range entryAnswers {
				merged[k] = v
			}
			d.Answers = merged
		}

		if _, err := app.journal.Update(ctx, e.ID, d); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Entry '%s' updated.\n", e.ID)
		return nil
	},
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := app.journal.List(cmd.Context())
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), entries)
		}
		for _, e := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  [%d/%d]\n",
				e.ID, e.Date.Local().Format("2006-01-02"), e.Title, e.Filled(), len(journal.Questions()))
		}
		return nil
	},
}

var journalShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one entry with its answers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := app.journal.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), e)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n%s\n", e.Title, e.Date.Local().Format("2006-01-02 (Mon)"))
		if e.Source != "" {
			fmt.Fprintf(out, "Source: %s\n", e.Source)
		}
		for _, q := range journal.Questions() {
			if a := e.Answer(q.ID); a != "" {
				fmt.Fprintf(out, "\n%s\n  %s\n", q.Label, strings.ReplaceAll(a, "\n", "\n  "))
			}
		}
		return nil
	},
}

var journalDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.journal.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Entry '%s' deleted.\n", args[0])
		return nil
	},
}

var journalProgressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show progress towards the goal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := app.journal.Progress(cmd.Context())
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), p)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d / %d topics (%.0f%%), %d to go\n", p.Count, p.Goal, p.Percent, p.Remaining)
		return nil
	},
}

var journalReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Show the weekly review",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := app.journal.Review(cmd.Context())
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), r)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Week %s to %s\n", r.WeekStart.Format("01/02"), r.WeekEnd.Format("01/02"))
		fmt.Fprintf(out, "This week: %d  Total: %d / %d (%d%%)\n", len(r.ThisWeek), r.Total, r.Goal, r.Percent)
		fmt.Fprintf(out, "Average: %.1f per week over %d weeks\n", r.AveragePerWeek, r.Weeks)
		if r.Remaining > 0 {
			fmt.Fprintf(out, "At this pace: about %d more weeks for the remaining %d\n", r.WeeksNeeded, r.Remaining)
		}
		for _, e := range r.ThisWeek {
			fmt.Fprintf(out, "  - %s\n", e.Title)
		}
		fmt.Fprintln(out, "Answered:")
		for _, f := range r.Fill {
			fmt.Fprintf(out, "  %-20s %3d%%\n", f.Label, f.Percent)
		}
		fmt.Fprintf(out, "\n%s\n", r.Tier.Message())
		return nil
	},
}

func checkAnswers(answers map[string]string) error {
	for id := range answers {
		if !journal.IsQuestion(id) {
			return fmt.Errorf("unknown question %q", id)
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalAddCmd, journalEditCmd, journalListCmd, journalShowCmd,
		journalDeleteCmd, journalProgressCmd, journalReviewCmd)

	for _, c := range []*cobra.Command{journalAddCmd, journalEditCmd} {
		c.Flags().StringVar(&entryTitle, "title", "", "Topic title")
		c.Flags().StringVar(&entrySource, "source", "", "Where it was learned")
		c.Flags().StringToStringVar(&entryAnswers, "answer", nil, "Answer as question=text (flaw, power, order, art, modern)")
	}
	journalAddCmd.MarkFlagRequired("title")

	for _, c := range []*cobra.Command{journalListCmd, journalShowCmd, journalProgressCmd, journalReviewCmd} {
		c.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	}
}
