package cmd

import (
	"github.com/spf13/cobra"
)

// defaultCmd represents the command that runs when no subcommand is specified
var defaultCmd = &cobra.Command{
	Use:    "default",
	Short:  "Default command when no subcommand is provided",
	Long:   `Rescans the configured game, the same as running scan without flags.`,
	Hidden: true,
	Run: func(_ *cobra.Command, _ []string) {
		scanCmd.Run(scanCmd, []string{})
	},
}

func init() {
	rootCmd.AddCommand(defaultCmd)
}
