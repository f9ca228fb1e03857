package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// configPath is the folder searched for the .env file.
var configPath string

var rootCmd = &cobra.Command{
	Use:   "totalwar-mod-launcher",
	Short: "Manage Total War mods and their load order",
	Long: `Keeps a per-game catalog of installed Total War mods, builds the load
order the game is launched with and keeps workshop, data and secondary
copies of each mod in sync.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config-path", ".", "folder holding the .env configuration file")
}

// Execute runs the command line. Without arguments it falls back to the
// default command.
func Execute() {
	if len(os.Args) < 2 {
		rootCmd.SetArgs([]string{defaultCmd.Use})
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
