package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/mythos"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the version number of mythos",
	Annotations: noStore,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mythos version %s\n", strings.TrimSpace(mythos.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
