package cmd

import (
	"fmt"

	"github.com/sofmeright/nugetfreight/src/build"
	"github.com/sofmeright/nugetfreight/src/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
		fmt.Fprintf(cmd.OutOrStdout(), "orchestrator api %s\n", build.APIVersion)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
