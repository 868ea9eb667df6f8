package main

import (
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:         "schema",
	Short:       "Print the JSON Schema of the export format",
	Args:        cobra.NoArgs,
	Annotations: noStore,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
		s := r.Reflect(&Snapshot{})
		s.Title = "mythos export"
		return writeJSON(cmd.OutOrStdout(), s)
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
